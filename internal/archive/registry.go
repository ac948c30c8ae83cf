package archive

import (
	"fmt"
	"io/fs"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/jonesrussell/pageserve/internal/logger"
)

// ContainerExt is the file extension for container files.
const ContainerExt = ".page"

// Registry holds every loaded container, keyed by site identity. It is
// populated once at startup and read-only thereafter; concurrent request
// handlers share it without locking because no write path exists at runtime.
type Registry struct {
	logger logger.Interface
	reader *Reader

	sites map[string]*Container
	order []string
}

// NewRegistry creates an empty registry.
func NewRegistry(log logger.Interface) *Registry {
	return &Registry{
		logger: log.WithComponent("registry"),
		reader: NewReader(log),
		sites:  make(map[string]*Container),
	}
}

// LoadDirectory loads every container file found recursively under dir.
// Containers that fail to load are skipped with a warning; only a failure to
// walk the directory itself is an error. Callers that need at least one site
// must check Len afterwards.
func (r *Registry) LoadDirectory(dir string) error {
	var found int

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ContainerExt) {
			return nil
		}
		found++

		container, loadErr := r.reader.Load(path)
		if loadErr != nil {
			r.logger.Warn("Skipping unloadable container", "path", path, "error", loadErr)
			return nil
		}
		r.Add(container)
		return nil
	})
	if err != nil {
		return fmt.Errorf("scan %s: %w", dir, err)
	}

	r.logger.Info("Container scan complete",
		"directory", dir,
		"found", found,
		"loaded", len(r.sites))
	return nil
}

// Add registers a container under its identity key. Two containers with the
// same identity resolve last-wins; the earlier one is dropped with a warning.
// Add must not be called once the registry is serving requests.
func (r *Registry) Add(container *Container) {
	key := identityKey(container)
	if _, exists := r.sites[key]; exists {
		r.logger.Warn("Container identity collision, keeping the newer container",
			"identity", key,
			"path", container.Path)
	} else {
		r.order = append(r.order, key)
	}
	r.sites[key] = container
}

// Get returns the container registered under the given identity.
func (r *Registry) Get(identity string) (*Container, bool) {
	c, ok := r.sites[identity]
	return c, ok
}

// Identities returns registered identity keys in load order.
func (r *Registry) Identities() []string {
	return r.order
}

// Containers returns loaded containers in load order.
func (r *Registry) Containers() []*Container {
	out := make([]*Container, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.sites[key])
	}
	return out
}

// Len returns the number of loaded containers.
func (r *Registry) Len() int {
	return len(r.sites)
}

// identityKey derives a container's registry key from its main URL, falling
// back to the container filename when the main URL is absent or unparsable.
func identityKey(container *Container) string {
	if main := container.Metadata.MainURL; main != "" {
		if parsed, err := url.Parse(main); err == nil && parsed.Host != "" {
			return parsed.Host
		}
		return main
	}
	base := filepath.Base(container.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
