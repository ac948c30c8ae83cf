package archive

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jonesrussell/pageserve/internal/logger"
)

// Container member layout. Record filenames under the prefixes are opaque
// content hashes and are never parsed for meaning.
const (
	metadataMember = "metadata.json"
	pagesPrefix    = "pages/"
	assetsPrefix   = "assets/"
	recordSuffix   = ".json"
)

// Reader deserializes .page container files.
//
// Load is strict about metadata.json: a missing or malformed metadata member
// fails the whole container. Individual page and asset members that fail to
// parse or validate are skipped with a warning, never aborting the load.
type Reader struct {
	logger logger.Interface
}

// NewReader creates a new container reader.
func NewReader(log logger.Interface) *Reader {
	return &Reader{logger: log}
}

// Load reads a container file into memory.
func (r *Reader) Load(path string) (*Container, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open container %s: %w", path, err)
	}
	defer zr.Close()

	meta, err := r.readMetadata(&zr.Reader)
	if err != nil {
		return nil, fmt.Errorf("load container %s: %w", path, err)
	}

	container := NewContainer(*meta)
	container.Path = path

	for _, member := range zr.File {
		switch {
		case isRecordMember(member.Name, pagesPrefix):
			rec, recErr := readPageRecord(member)
			if recErr != nil {
				r.logger.Warn("Skipping unreadable page record",
					"container", path,
					"member", member.Name,
					"error", recErr)
				continue
			}
			container.AddPage(rec)
		case isRecordMember(member.Name, assetsPrefix):
			rec, recErr := readAssetRecord(member)
			if recErr != nil {
				r.logger.Warn("Skipping unreadable asset record",
					"container", path,
					"member", member.Name,
					"error", recErr)
				continue
			}
			container.AddAsset(rec)
		}
	}

	r.logger.Info("Loaded container",
		"path", path,
		"main_url", meta.MainURL,
		"pages", len(container.Pages),
		"assets", len(container.Assets))

	return container, nil
}

// readMetadata locates and parses the required metadata.json member.
func (r *Reader) readMetadata(zr *zip.Reader) (*Metadata, error) {
	for _, member := range zr.File {
		if member.Name != metadataMember {
			continue
		}
		data, err := readMember(member)
		if err != nil {
			return nil, fmt.Errorf("read metadata: %w", err)
		}
		var meta Metadata
		if err := json.Unmarshal(data, &meta); err != nil {
			return nil, fmt.Errorf("parse metadata: %w", err)
		}
		return &meta, nil
	}
	return nil, ErrMissingMetadata
}

// readPageRecord reads and validates one page member.
func readPageRecord(member *zip.File) (*PageRecord, error) {
	data, err := readMember(member)
	if err != nil {
		return nil, err
	}

	var rec PageRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse page record: %w", err)
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return &rec, nil
}

// readAssetRecord reads and validates one asset member.
func readAssetRecord(member *zip.File) (*AssetRecord, error) {
	data, err := readMember(member)
	if err != nil {
		return nil, err
	}

	var rec AssetRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse asset record: %w", err)
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return &rec, nil
}

// readMember reads one zip member fully.
func readMember(member *zip.File) ([]byte, error) {
	rc, err := member.Open()
	if err != nil {
		return nil, fmt.Errorf("open member %s: %w", member.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read member %s: %w", member.Name, err)
	}
	return data, nil
}

// isRecordMember reports whether a member name is a record under the prefix.
func isRecordMember(name, prefix string) bool {
	return strings.HasPrefix(name, prefix) && strings.HasSuffix(name, recordSuffix)
}
