package rewriter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/pageserve/internal/logger"
	"github.com/jonesrussell/pageserve/internal/rewriter"
)

const basePageURL = "https://a.com/blog/post"

func newRewriter(t *testing.T) *rewriter.Rewriter {
	t.Helper()

	return rewriter.New(logger.NewNoOp())
}

func TestRewrite_SameHostAnchor(t *testing.T) {
	t.Parallel()

	out := newRewriter(t).Rewrite(`<a href="https://a.com/about">About</a>`, basePageURL)
	assert.Contains(t, out, `href="/page/https://a.com/about"`)
}

func TestRewrite_RelativeAnchorResolvedAgainstBase(t *testing.T) {
	t.Parallel()

	r := newRewriter(t)

	// Root-relative.
	out := r.Rewrite(`<a href="/about">About</a>`, basePageURL)
	assert.Contains(t, out, `href="/page/https://a.com/about"`)

	// Document-relative resolves under /blog/.
	out = r.Rewrite(`<a href="next">Next</a>`, basePageURL)
	assert.Contains(t, out, `href="/page/https://a.com/blog/next"`)
}

func TestRewrite_CrossHostAnchorUntouched(t *testing.T) {
	t.Parallel()

	out := newRewriter(t).Rewrite(`<a href="https://cdn.other.com/">elsewhere</a>`, basePageURL)
	assert.Contains(t, out, `href="https://cdn.other.com/"`)
	assert.NotContains(t, out, "/page/https://cdn.other.com")
}

func TestRewrite_SafeLinksIdempotent(t *testing.T) {
	t.Parallel()

	r := newRewriter(t)

	for _, href := range []string{
		"#section",
		"javascript:void(0)",
		"mailto:someone@example.com",
		"tel:+15550100",
	} {
		out := r.Rewrite(`<a href="`+href+`">x</a>`, basePageURL)
		assert.Contains(t, out, `href="`+href+`"`, "href %q must survive rewriting untouched", href)
	}
}

func TestRewrite_AssetsAreHostAgnostic(t *testing.T) {
	t.Parallel()

	r := newRewriter(t)

	// Cross-host image still routes through the asset path; the asset must
	// come from the local cache if present.
	out := r.Rewrite(`<img src="https://cdn.other.com/a.png">`, basePageURL)
	assert.Contains(t, out, `src="/asset/https://cdn.other.com/a.png"`)

	out = r.Rewrite(`<script src="/js/app.js"></script>`, basePageURL)
	assert.Contains(t, out, `src="/asset/https://a.com/js/app.js"`)

	out = r.Rewrite(`<link rel="stylesheet" href="style.css">`, basePageURL)
	assert.Contains(t, out, `href="/asset/https://a.com/blog/style.css"`)
}

func TestRewrite_DataURIUntouched(t *testing.T) {
	t.Parallel()

	out := newRewriter(t).Rewrite(`<img src="data:image/gif;base64,R0lGOD">`, basePageURL)
	assert.Contains(t, out, `src="data:image/gif;base64,R0lGOD"`)
}

func TestRewrite_StyleElementURLs(t *testing.T) {
	t.Parallel()

	html := `<style>.nav > .hero { background: url('/img/bg.jpg'); }</style>`
	out := newRewriter(t).Rewrite(html, basePageURL)
	// Quotes around the token survive; only the URL itself is replaced.
	assert.Contains(t, out, `url('/asset/https://a.com/img/bg.jpg')`)
	// The rest of the CSS is served verbatim, never entity-escaped.
	assert.Contains(t, out, `.nav > .hero`)
	assert.NotContains(t, out, "&#39;")
	assert.NotContains(t, out, "&gt;")
}

func TestRewrite_StyleAttributeURLs(t *testing.T) {
	t.Parallel()

	html := `<div style="background-image: url(banner.png)">x</div>`
	out := newRewriter(t).Rewrite(html, basePageURL)
	assert.Contains(t, out, `url(/asset/https://a.com/blog/banner.png)`)
}

func TestRewrite_FailsOpenOnMalformedMarkup(t *testing.T) {
	t.Parallel()

	// Unterminated tag soup: output must keep all original text, never be
	// empty, and the call must not panic.
	malformed := `<html><body><p>visible text<a href="https://a.com/x>`
	out := newRewriter(t).Rewrite(malformed, basePageURL)

	require.NotEmpty(t, out)
	assert.Contains(t, out, "visible text")
}

func TestRewrite_UnparsableBaseURLFailsOpen(t *testing.T) {
	t.Parallel()

	html := `<a href="/about">About</a>`
	out := newRewriter(t).Rewrite(html, "http://bad url\x7f")
	assert.Equal(t, html, out)
}
