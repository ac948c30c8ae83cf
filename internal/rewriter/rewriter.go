// Package rewriter transforms captured page markup so every page and asset
// reference routes through the local replay server.
package rewriter

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/jonesrussell/pageserve/internal/logger"
)

// Route prefixes the rewriter targets. The request router serves them.
const (
	PageRoutePrefix  = "/page/"
	AssetRoutePrefix = "/asset/"
)

// skipPrefixes lists reference forms that must never be resolved or rewritten:
// fragment-only anchors, script/mail/tel pseudo-schemes, and inline payloads.
var skipPrefixes = []string{"#", "javascript:", "mailto:", "tel:", "data:", "blob:"}

// Rewriter rewrites a page's references against its canonical URL.
//
// Every reference is resolved to an absolute URL against the page's base URL,
// then classified: same-host anchors route through the page path, cross-host
// anchors stay untouched so leaving the archive behaves like normal browsing,
// and asset references always route through the asset path regardless of host
// because the asset must come from the local cache if present.
type Rewriter struct {
	logger logger.Interface
}

// New creates a rewriter.
func New(log logger.Interface) *Rewriter {
	return &Rewriter{logger: log.WithComponent("rewriter")}
}

// Rewrite returns markup safe to serve locally. It fails open: when the
// markup or the base URL defeats parsing, the original content is returned
// unmodified with a logged warning, so the page stays servable.
func (r *Rewriter) Rewrite(content, baseURL string) string {
	base, err := url.Parse(baseURL)
	if err != nil {
		r.logger.Warn("Unparsable base URL, serving page unrewritten",
			"base_url", baseURL, "error", err)
		return content
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		r.logger.Warn("Markup parse failed, serving page unrewritten",
			"base_url", baseURL, "error", err)
		return content
	}

	r.rewriteAnchors(doc, base)
	r.rewriteAssetAttr(doc, base, "script[src]", "src")
	r.rewriteAssetAttr(doc, base, "link[href]", "href")
	r.rewriteAssetAttr(doc, base, "img[src]", "src")
	r.rewriteStyleElements(doc, base)
	r.rewriteStyleAttributes(doc, base)

	out, err := doc.Html()
	if err != nil {
		r.logger.Warn("Markup serialization failed, serving page unrewritten",
			"base_url", baseURL, "error", err)
		return content
	}
	return out
}

// rewriteAnchors routes same-host anchors through the page path. Cross-host
// anchors are left alone.
func (r *Rewriter) rewriteAnchors(doc *goquery.Document, base *url.URL) {
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if shouldSkip(href) {
			return
		}
		abs, ok := resolveRef(base, href)
		if !ok {
			return
		}
		if abs.Host == base.Host {
			sel.SetAttr("href", PageRoutePrefix+abs.String())
		}
	})
}

// rewriteAssetAttr routes one attribute of every matched element through the
// asset path, host-agnostic.
func (r *Rewriter) rewriteAssetAttr(doc *goquery.Document, base *url.URL, selector, attr string) {
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		ref, _ := sel.Attr(attr)
		if shouldSkip(ref) {
			return
		}
		abs, ok := resolveRef(base, ref)
		if !ok {
			return
		}
		sel.SetAttr(attr, AssetRoutePrefix+abs.String())
	})
}

// rewriteStyleElements rewrites url(...) tokens inside <style> text.
func (r *Rewriter) rewriteStyleElements(doc *goquery.Document, base *url.URL) {
	doc.Find("style").Each(func(_ int, sel *goquery.Selection) {
		css := sel.Text()
		rewritten := r.rewriteCSS(css, base)
		if rewritten != css {
			setStyleText(sel, rewritten)
		}
	})
}

// setStyleText replaces a style element's children with one raw text node.
// goquery's SetText entity-escapes its input, which turns CSS quotes and
// combinators into literal entities, so the text node is written directly.
func setStyleText(sel *goquery.Selection, text string) {
	for _, node := range sel.Nodes {
		for child := node.FirstChild; child != nil; {
			next := child.NextSibling
			node.RemoveChild(child)
			child = next
		}
		node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
}

// rewriteStyleAttributes rewrites url(...) tokens inside style="" values.
func (r *Rewriter) rewriteStyleAttributes(doc *goquery.Document, base *url.URL) {
	doc.Find("[style]").Each(func(_ int, sel *goquery.Selection) {
		css, _ := sel.Attr("style")
		rewritten := r.rewriteCSS(css, base)
		if rewritten != css {
			sel.SetAttr("style", rewritten)
		}
	})
}

// rewriteCSS routes every url(...) token through the asset path using the
// same resolution rules as element attributes.
func (r *Rewriter) rewriteCSS(css string, base *url.URL) string {
	return RewriteTokens(css, []*regexp.Regexp{CSSURLPattern}, func(token string) string {
		if shouldSkip(token) {
			return token
		}
		abs, ok := resolveRef(base, token)
		if !ok {
			return token
		}
		return AssetRoutePrefix + abs.String()
	})
}

// resolveRef resolves a reference to an absolute URL against the page base.
func resolveRef(base *url.URL, ref string) (*url.URL, bool) {
	abs, err := base.Parse(strings.TrimSpace(ref))
	if err != nil || abs.Host == "" {
		return nil, false
	}
	return abs, true
}

// shouldSkip reports whether a reference must be left untouched.
func shouldSkip(ref string) bool {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return true
	}
	for _, prefix := range skipPrefixes {
		if strings.HasPrefix(strings.ToLower(ref), prefix) {
			return true
		}
	}
	return false
}
