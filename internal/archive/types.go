// Package archive implements the .page container format: a zip archive holding
// one site's captured pages and assets, each keyed by its original absolute URL.
package archive

import (
	"encoding/base64"
	"fmt"
)

// Encoding selects the decode path for an asset payload.
type Encoding string

const (
	// EncodingText marks content stored as a UTF-8 string.
	EncodingText Encoding = "text"
	// EncodingBase64 marks content stored as base64-encoded opaque bytes.
	EncodingBase64 Encoding = "base64"
)

// Default content types applied when a record omits its own.
const (
	DefaultPageContentType  = "text/html"
	DefaultAssetContentType = "application/octet-stream"
)

// Metadata mirrors the container's metadata.json member. Informational only;
// never consulted during resolution.
type Metadata struct {
	// MainURL is the seed URL the crawl started from. Doubles as the
	// container's identity key in the registry.
	MainURL string `json:"main_url"`
	// Timestamp is the capture time as a Unix timestamp.
	Timestamp float64 `json:"timestamp"`
	// Pages is the page count recorded at capture time.
	Pages int `json:"pages"`
	// Assets is the asset count recorded at capture time.
	Assets int `json:"assets"`
	// TotalSize is the total payload size in bytes recorded at capture time.
	TotalSize int64 `json:"total_size"`
	// FailedURLs lists URLs the capture could not fetch.
	FailedURLs []string `json:"failed_urls,omitempty"`
}

// PageRecord is a single captured HTML page.
type PageRecord struct {
	// URL is the canonical (resolved) URL of this page. It may differ from
	// the map key that found it when the capture aliased a redirect.
	URL string `json:"url"`
	// Content is the raw HTML as fetched.
	Content string `json:"content"`
	// ContentType is the MIME type to serve the page with.
	ContentType string `json:"content_type"`
}

// Validate checks the record's required fields.
func (p *PageRecord) Validate() error {
	if p.URL == "" {
		return fmt.Errorf("page record: %w", ErrMissingURL)
	}
	return nil
}

// AssetRecord is a single captured sub-resource (stylesheet, script, image...).
type AssetRecord struct {
	// URL is the canonical URL of the resource.
	URL string `json:"url"`
	// Content is either a UTF-8 string or a base64 payload, per Encoding.
	Content string `json:"content"`
	// Encoding selects the decode path for Content.
	Encoding Encoding `json:"encoding"`
	// ContentType is the MIME type to serve the asset with.
	ContentType string `json:"content_type"`
	// Filename is the basename of the URL path. Used for grouping and for
	// the resolver's coarse filename fallback, never for identity.
	Filename string `json:"filename"`
}

// Validate checks the record's required fields.
func (a *AssetRecord) Validate() error {
	if a.URL == "" {
		return fmt.Errorf("asset record: %w", ErrMissingURL)
	}
	if a.Encoding != "" && a.Encoding != EncodingText && a.Encoding != EncodingBase64 {
		return fmt.Errorf("asset record %q: %w: %q", a.URL, ErrInvalidEncoding, a.Encoding)
	}
	return nil
}

// Bytes returns the asset payload as raw bytes, base64-decoding when the
// record's encoding requires it. This is the single place decoding happens.
func (a *AssetRecord) Bytes() ([]byte, error) {
	if a.Encoding == EncodingBase64 {
		data, err := base64.StdEncoding.DecodeString(a.Content)
		if err != nil {
			return nil, fmt.Errorf("decode asset %q: %w", a.URL, err)
		}
		return data, nil
	}
	return []byte(a.Content), nil
}

// Container is one archived site loaded into memory. Immutable once loaded;
// the server never mutates a container after startup.
type Container struct {
	// Metadata is the container's metadata.json.
	Metadata Metadata
	// Pages maps observed absolute URLs to page records.
	Pages map[string]*PageRecord
	// Assets maps observed absolute URLs to asset records.
	Assets map[string]*AssetRecord
	// Path is the container file this was loaded from, empty when built
	// in memory.
	Path string

	pageOrder  []string
	assetOrder []string
}

// NewContainer creates an empty container with the given metadata.
func NewContainer(meta Metadata) *Container {
	return &Container{
		Metadata: meta,
		Pages:    make(map[string]*PageRecord),
		Assets:   make(map[string]*AssetRecord),
	}
}

// AddPage stores a page record under its canonical URL, preserving insertion
// order for deterministic iteration.
func (c *Container) AddPage(rec *PageRecord) {
	if rec.ContentType == "" {
		rec.ContentType = DefaultPageContentType
	}
	if _, exists := c.Pages[rec.URL]; !exists {
		c.pageOrder = append(c.pageOrder, rec.URL)
	}
	c.Pages[rec.URL] = rec
}

// AddAsset stores an asset record under its canonical URL.
func (c *Container) AddAsset(rec *AssetRecord) {
	if rec.ContentType == "" {
		rec.ContentType = DefaultAssetContentType
	}
	if rec.Encoding == "" {
		rec.Encoding = EncodingText
	}
	if _, exists := c.Assets[rec.URL]; !exists {
		c.assetOrder = append(c.assetOrder, rec.URL)
	}
	c.Assets[rec.URL] = rec
}

// PageURLs returns page keys in insertion (load) order.
func (c *Container) PageURLs() []string {
	return c.pageOrder
}

// AssetURLs returns asset keys in insertion (load) order.
func (c *Container) AssetURLs() []string {
	return c.assetOrder
}
