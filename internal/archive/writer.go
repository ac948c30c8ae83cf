package archive

import (
	"archive/zip"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// hashKeyLength is the number of hex characters used for record member names.
const hashKeyLength = 16

// Writer builds a container in memory and serializes it to the .page format.
// Record member names are derived from a URL hash; they are opaque and carry
// no meaning on read.
type Writer struct {
	container *Container
}

// NewWriter creates a writer for a new container seeded at mainURL.
func NewWriter(mainURL string) *Writer {
	return &Writer{
		container: NewContainer(Metadata{MainURL: mainURL}),
	}
}

// AddPage adds a page record to the container being built.
func (w *Writer) AddPage(rec *PageRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	w.container.AddPage(rec)
	return nil
}

// AddAsset adds an asset record to the container being built.
func (w *Writer) AddAsset(rec *AssetRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	w.container.AddAsset(rec)
	return nil
}

// AddFailedURL records a URL the capture could not fetch.
func (w *Writer) AddFailedURL(url string) {
	w.container.Metadata.FailedURLs = append(w.container.Metadata.FailedURLs, url)
}

// WriteFile serializes the container to path, filling in the metadata counts
// and timestamp.
func (w *Writer) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create container %s: %w", path, err)
	}

	if err := w.Write(f); err != nil {
		f.Close()
		return fmt.Errorf("write container %s: %w", path, err)
	}
	// A close failure after a clean Write still means a truncated container.
	if err := f.Close(); err != nil {
		return fmt.Errorf("close container %s: %w", path, err)
	}
	return nil
}

// Write serializes the container to the given writer.
func (w *Writer) Write(f io.Writer) error {
	w.finalizeMetadata()

	zw := zip.NewWriter(f)

	if err := writeJSONMember(zw, metadataMember, w.container.Metadata); err != nil {
		return err
	}

	for _, url := range w.container.PageURLs() {
		name := pagesPrefix + hashURL(url) + recordSuffix
		if err := writeJSONMember(zw, name, w.container.Pages[url]); err != nil {
			return err
		}
	}

	for _, url := range w.container.AssetURLs() {
		name := assetsPrefix + hashURL(url) + recordSuffix
		if err := writeJSONMember(zw, name, w.container.Assets[url]); err != nil {
			return err
		}
	}

	return zw.Close()
}

// finalizeMetadata fills counts, total size, and the capture timestamp.
func (w *Writer) finalizeMetadata() {
	meta := &w.container.Metadata
	meta.Pages = len(w.container.Pages)
	meta.Assets = len(w.container.Assets)
	if meta.Timestamp == 0 {
		meta.Timestamp = float64(time.Now().Unix())
	}

	var total int64
	for _, rec := range w.container.Pages {
		total += int64(len(rec.Content))
	}
	for _, rec := range w.container.Assets {
		total += int64(len(rec.Content))
	}
	meta.TotalSize = total
}

// writeJSONMember serializes one value as a zip member.
func writeJSONMember(zw *zip.Writer, name string, v any) error {
	member, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("create member %s: %w", name, err)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal member %s: %w", name, err)
	}
	if _, err := member.Write(data); err != nil {
		return fmt.Errorf("write member %s: %w", name, err)
	}
	return nil
}

// hashURL generates a short SHA-256 hash of the URL for use as a member name.
func hashURL(url string) string {
	h := sha256.Sum256([]byte(url))
	return hex.EncodeToString(h[:])[:hashKeyLength]
}
