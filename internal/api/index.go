package api

import (
	"html/template"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/pageserve/internal/archive"
)

// Presentation limits for the listing page.
const (
	maxSamplePages = 5
	maxLabelLength = 50
	bytesPerKB     = 1024
)

// indexSite is the listing view of one loaded container.
type indexSite struct {
	MainURL string
	Pages   int
	Assets  int
	SizeKB  int64
	Sample  []indexPage
	More    int
}

// indexPage is one linked page in the listing.
type indexPage struct {
	URL   string
	Label string
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<title>Offline Website Browser</title>
<style>
body { font-family: Arial, sans-serif; margin: 40px; background: #f5f5f5; }
.header { background: white; padding: 20px; border-radius: 10px; margin-bottom: 20px; box-shadow: 0 2px 10px rgba(0,0,0,0.1); }
.site { background: white; padding: 20px; margin: 10px 0; border-radius: 10px; box-shadow: 0 2px 5px rgba(0,0,0,0.1); }
.pages { margin-left: 20px; margin-top: 10px; }
a { color: #0066cc; text-decoration: none; }
a:hover { text-decoration: underline; }
.stats { color: #666; font-size: 14px; margin-top: 5px; }
</style>
</head>
<body>
<div class="header">
<h1>Offline Website Browser</h1>
<p>Loaded websites:</p>
</div>
{{if not .Sites}}
<div class="site">
<h2>No sites loaded</h2>
<p>No .page files were found in the container directory.</p>
</div>
{{end}}
{{range .Sites}}
<div class="site">
<h2><a href="/page/{{.MainURL}}">{{.MainURL}}</a></h2>
<div class="stats">{{.Pages}} pages &bull; {{.Assets}} assets &bull; {{.SizeKB}} KB</div>
<div class="pages">
<strong>Main Pages:</strong>
<ul>
{{range .Sample}}<li><a href="/page/{{.URL}}">{{.Label}}</a></li>
{{end}}{{if gt .More 0}}<li>... and {{.More}} more pages</li>{{end}}
</ul>
</div>
</div>
{{end}}
</body>
</html>
`))

var notFoundTemplate = template.Must(template.New("notfound").Parse(`<!DOCTYPE html>
<html>
<head><title>Page not found</title></head>
<body>
<h1>404 &mdash; not in the archive</h1>
<p>Nothing stored matches <code>{{.}}</code>.</p>
<p><a href="/">Back to the site listing</a></p>
</body>
</html>
`))

// renderIndex writes the container listing.
func renderIndex(c *gin.Context, registry *archive.Registry) {
	sites := make([]indexSite, 0, registry.Len())
	for _, container := range registry.Containers() {
		sites = append(sites, summarize(container))
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := indexTemplate.Execute(c.Writer, gin.H{"Sites": sites}); err != nil {
		c.Abort()
	}
}

// renderNotFoundPage writes the friendly 404 diagnostic page.
func renderNotFoundPage(c *gin.Context, query string) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusNotFound)
	if err := notFoundTemplate.Execute(c.Writer, query); err != nil {
		c.Abort()
	}
}

// summarize builds the listing view of one container.
func summarize(container *archive.Container) indexSite {
	site := indexSite{
		MainURL: container.Metadata.MainURL,
		Pages:   len(container.Pages),
		Assets:  len(container.Assets),
		SizeKB:  container.Metadata.TotalSize / bytesPerKB,
	}
	if site.MainURL == "" {
		site.MainURL = container.Path
	}

	urls := container.PageURLs()
	for i, pageURL := range urls {
		if i == maxSamplePages {
			site.More = len(urls) - maxSamplePages
			break
		}
		site.Sample = append(site.Sample, indexPage{
			URL:   pageURL,
			Label: pageLabel(pageURL),
		})
	}
	return site
}

// pageLabel shortens a page URL to its path for display.
func pageLabel(pageURL string) string {
	label := pageURL
	if parsed, err := url.Parse(pageURL); err == nil && parsed.Path != "" {
		label = parsed.Path
	}
	if label == "" {
		label = "/"
	}
	if len(label) > maxLabelLength {
		label = label[:maxLabelLength-3] + "..."
	}
	return label
}
