package api

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/pageserve/internal/archive"
	"github.com/jonesrussell/pageserve/internal/logger"
	"github.com/jonesrussell/pageserve/internal/resolver"
	"github.com/jonesrussell/pageserve/internal/rewriter"
)

// Handler serves the replay routes over an immutable registry snapshot.
type Handler struct {
	logger   logger.Interface
	registry *archive.Registry
	resolver *resolver.Resolver
	rewriter *rewriter.Rewriter
}

// NewHandler creates the request handler and its collaborators.
func NewHandler(log logger.Interface, registry *archive.Registry) *Handler {
	return &Handler{
		logger:   log.WithComponent("api"),
		registry: registry,
		resolver: resolver.New(registry, log),
		rewriter: rewriter.New(log),
	}
}

// Index renders the listing of all loaded containers.
func (h *Handler) Index(c *gin.Context) {
	renderIndex(c, h.registry)
}

// Page resolves and rewrites the page embedded in the request path.
func (h *Handler) Page(c *gin.Context) {
	h.servePage(c, extractTarget(c.Param("target")))
}

// Asset resolves and streams the asset embedded in the request path.
func (h *Handler) Asset(c *gin.Context) {
	target := extractTarget(c.Param("target"))
	if target == "" {
		respondNotFound(c, "asset")
		return
	}

	rec, ok := h.resolver.ResolveAsset(target)
	if !ok {
		// Expected and frequent; not an error condition.
		h.logger.Debug("Asset miss", "url", target)
		respondNotFound(c, "asset")
		return
	}

	data, err := rec.Bytes()
	if err != nil {
		h.logger.Error("Asset payload decode failed", "url", rec.URL, "error", err)
		respondInternalError(c, "asset decode failed")
		return
	}

	c.Header("Content-Type", rec.ContentType)
	c.Status(http.StatusOK)
	if !writeBody(c, data) {
		// Client went away mid-transfer. Expected under concurrent load.
		h.logger.Debug("Client disconnected during asset write", "url", rec.URL)
	}
}

// FallbackPage treats any unmatched path as an implicit page request. The
// leading slash stays: a bare self-relative path like /about matches stored
// pages through the resolver's path-equality tier.
func (h *Handler) FallbackPage(c *gin.Context) {
	if c.Request.Method != http.MethodGet {
		respondError(c, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	h.servePage(c, unescapeTarget(c.Request.URL.Path))
}

// servePage looks the query up, repairs and rewrites the markup, and serves it.
func (h *Handler) servePage(c *gin.Context, query string) {
	if query == "" {
		renderNotFoundPage(c, query)
		return
	}

	rec, ok := h.resolver.ResolvePage(query)
	if !ok {
		h.logger.Debug("Page miss", "url", query)
		renderNotFoundPage(c, query)
		return
	}

	content := rewriter.RepairEncoding(rec.Content)
	content = h.rewriter.Rewrite(content, rec.URL)

	contentType := rec.ContentType
	if contentType == "" {
		contentType = archive.DefaultPageContentType
	}
	c.Data(http.StatusOK, contentType, []byte(content))
}

// writeBody writes the response body and reports whether the client is still
// connected. Transport interruptions surface here as a status signal instead
// of bubbling through the handler as errors.
func writeBody(c *gin.Context, data []byte) bool {
	if _, err := c.Writer.Write(data); err != nil {
		c.Abort()
		return false
	}
	return true
}

// extractTarget recovers the captured URL embedded in a wildcard route
// parameter: the separator slash goes, percent-encoding is undone.
func extractTarget(raw string) string {
	return unescapeTarget(strings.TrimPrefix(raw, "/"))
}

// unescapeTarget undoes percent-encoding, tolerating malformed escapes.
func unescapeTarget(target string) string {
	if decoded, err := url.PathUnescape(target); err == nil {
		return decoded
	}
	return target
}
