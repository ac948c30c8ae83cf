package resolver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/pageserve/internal/archive"
	"github.com/jonesrussell/pageserve/internal/logger"
	"github.com/jonesrussell/pageserve/internal/resolver"
)

// newResolver builds a resolver over containers assembled by build.
func newResolver(t *testing.T, build func(reg *archive.Registry)) *resolver.Resolver {
	t.Helper()

	reg := archive.NewRegistry(logger.NewNoOp())
	build(reg)
	return resolver.New(reg, logger.NewNoOp())
}

// singleSite is a container with one page and one asset on a.com.
func singleSite() *archive.Container {
	c := archive.NewContainer(archive.Metadata{MainURL: "https://a.com/"})
	c.AddPage(&archive.PageRecord{URL: "https://a.com/x", Content: "<html>x</html>"})
	c.AddAsset(&archive.AssetRecord{
		URL:      "https://a.com/static/style.css",
		Content:  "body{}",
		Encoding: archive.EncodingText,
		Filename: "style.css",
	})
	return c
}

func TestResolvePage_ExactMatch(t *testing.T) {
	t.Parallel()

	r := newResolver(t, func(reg *archive.Registry) { reg.Add(singleSite()) })

	rec, ok := r.ResolvePage("https://a.com/x")
	require.True(t, ok)
	assert.Equal(t, "https://a.com/x", rec.URL)
}

func TestResolvePage_SchemeFlip(t *testing.T) {
	t.Parallel()

	r := newResolver(t, func(reg *archive.Registry) { reg.Add(singleSite()) })

	// Stored under https, queried as http: one scheme substitution.
	flipped, ok := r.ResolvePage("http://a.com/x")
	require.True(t, ok)

	exact, ok := r.ResolvePage("https://a.com/x")
	require.True(t, ok)
	assert.Same(t, exact, flipped)
}

func TestResolvePage_PathEqualityIgnoresHostAndQuery(t *testing.T) {
	t.Parallel()

	r := newResolver(t, func(reg *archive.Registry) { reg.Add(singleSite()) })

	// Query string is not part of the stored key; tier 3 matches on path.
	rec, ok := r.ResolvePage("https://a.com/x?utm=1")
	require.True(t, ok)
	assert.Equal(t, "https://a.com/x", rec.URL)

	// Host is ignored entirely at tier 3, loose by design.
	rec, ok = r.ResolvePage("https://b.com/x")
	require.True(t, ok)
	assert.Equal(t, "https://a.com/x", rec.URL)
}

func TestResolvePage_HostAndPathContainment(t *testing.T) {
	t.Parallel()

	r := newResolver(t, func(reg *archive.Registry) {
		c := archive.NewContainer(archive.Metadata{MainURL: "https://a.com/"})
		c.AddPage(&archive.PageRecord{URL: "https://a.com/docs/guide/", Content: "<html></html>"})
		reg.Add(c)
	})

	// No exact, flipped, or path-equal hit; same host plus substring path.
	rec, ok := r.ResolvePage("https://a.com/docs/guide")
	require.True(t, ok)
	assert.Equal(t, "https://a.com/docs/guide/", rec.URL)
}

func TestResolvePage_Miss(t *testing.T) {
	t.Parallel()

	r := newResolver(t, func(reg *archive.Registry) { reg.Add(singleSite()) })

	_, ok := r.ResolvePage("https://elsewhere.net/unknown")
	assert.False(t, ok)
}

func TestResolvePage_AcrossContainers(t *testing.T) {
	t.Parallel()

	r := newResolver(t, func(reg *archive.Registry) {
		reg.Add(singleSite())
		other := archive.NewContainer(archive.Metadata{MainURL: "https://b.com/"})
		other.AddPage(&archive.PageRecord{URL: "https://b.com/only", Content: "<html>b</html>"})
		reg.Add(other)
	})

	rec, ok := r.ResolvePage("https://b.com/only")
	require.True(t, ok)
	assert.Equal(t, "https://b.com/only", rec.URL)
}

func TestResolveAsset_ExactAndSchemeFlip(t *testing.T) {
	t.Parallel()

	r := newResolver(t, func(reg *archive.Registry) { reg.Add(singleSite()) })

	rec, ok := r.ResolveAsset("https://a.com/static/style.css")
	require.True(t, ok)
	assert.Equal(t, "style.css", rec.Filename)

	flipped, ok := r.ResolveAsset("http://a.com/static/style.css")
	require.True(t, ok)
	assert.Same(t, rec, flipped)
}

func TestResolveAsset_FilenameFallback(t *testing.T) {
	t.Parallel()

	r := newResolver(t, func(reg *archive.Registry) { reg.Add(singleSite()) })

	// Different host and path, same basename: the coarse CDN-variance tier.
	rec, ok := r.ResolveAsset("https://cdn.example.net/v2/assets/style.css")
	require.True(t, ok)
	assert.Equal(t, "https://a.com/static/style.css", rec.URL)
}

func TestResolveAsset_FilenameCollisionReturnsSomeMatch(t *testing.T) {
	t.Parallel()

	r := newResolver(t, func(reg *archive.Registry) {
		first := archive.NewContainer(archive.Metadata{MainURL: "https://a.com/"})
		first.AddAsset(&archive.AssetRecord{URL: "https://a.com/style.css", Content: "a", Encoding: archive.EncodingText})
		reg.Add(first)

		second := archive.NewContainer(archive.Metadata{MainURL: "https://b.com/"})
		second.AddAsset(&archive.AssetRecord{URL: "https://b.com/theme/style.css", Content: "b", Encoding: archive.EncodingText})
		reg.Add(second)
	})

	// Documented tradeoff: an unrelated query sharing the basename gets a
	// match. Load order makes it the first container's asset.
	rec, ok := r.ResolveAsset("https://c.com/other/style.css")
	require.True(t, ok)
	assert.Equal(t, "https://a.com/style.css", rec.URL)
}

func TestResolveAsset_Miss(t *testing.T) {
	t.Parallel()

	r := newResolver(t, func(reg *archive.Registry) { reg.Add(singleSite()) })

	_, ok := r.ResolveAsset("https://a.com/missing.js")
	assert.False(t, ok)
}
