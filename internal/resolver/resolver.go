// Package resolver maps requested URLs to stored records via tiered fallback
// matching across all loaded containers.
//
// URLs observed at capture time rarely match the URLs a page's own markup
// references at replay time (redirects, relative-vs-absolute forms, scheme
// differences). Each tier is strictly more permissive than the last and is
// only consulted if all earlier tiers miss.
package resolver

import (
	"net/url"
	"path"
	"strings"

	"github.com/jonesrussell/pageserve/internal/archive"
	"github.com/jonesrussell/pageserve/internal/logger"
)

// Resolver looks up pages and assets across every container in a registry.
type Resolver struct {
	registry *archive.Registry
	logger   logger.Interface
}

// New creates a resolver over the given registry.
func New(registry *archive.Registry, log logger.Interface) *Resolver {
	return &Resolver{
		registry: registry,
		logger:   log.WithComponent("resolver"),
	}
}

// ResolvePage finds the best-matching page record for the query URL.
//
// Tiers, first hit wins:
//  1. exact key match
//  2. scheme-flipped match (http <-> https, one substitution)
//  3. path-equality match, scheme and host ignored
//  4. same-host match where the query path is a substring of a stored path;
//     a best-effort catch for trailing-slash and query-string variance
func (r *Resolver) ResolvePage(query string) (*archive.PageRecord, bool) {
	// Tier 1: exact.
	for _, c := range r.registry.Containers() {
		if rec, ok := c.Pages[query]; ok {
			return rec, true
		}
	}

	// Tier 2: scheme flip.
	if flipped, ok := flipScheme(query); ok {
		for _, c := range r.registry.Containers() {
			if rec, ok := c.Pages[flipped]; ok {
				return rec, true
			}
		}
	}

	parsed, err := url.Parse(query)
	if err != nil {
		r.logger.Debug("Unparsable page query", "query", query, "error", err)
		return nil, false
	}

	// Tier 3: path equality, host-blind. Loose on purpose; a single
	// container rarely mixes domains.
	for _, c := range r.registry.Containers() {
		for _, key := range c.PageURLs() {
			stored, parseErr := url.Parse(key)
			if parseErr != nil {
				continue
			}
			if stored.Path == parsed.Path {
				return c.Pages[key], true
			}
		}
	}

	// Tier 4: same host, query path contained in a stored path. A known
	// heuristic imprecision kept for hit-rate, not a precise match.
	if parsed.Host != "" {
		for _, c := range r.registry.Containers() {
			for _, key := range c.PageURLs() {
				stored, parseErr := url.Parse(key)
				if parseErr != nil {
					continue
				}
				if stored.Host == parsed.Host && strings.Contains(stored.Path, parsed.Path) {
					return c.Pages[key], true
				}
			}
		}
	}

	return nil, false
}

// ResolveAsset finds the best-matching asset record for the query URL.
//
// Tiers, first hit wins:
//  1. exact key match
//  2. scheme-flipped match
//  3. filename-basename match; a coarse fallback for CDN URL variance that
//     can produce false positives when unrelated assets share a filename.
//     First match in container load order wins.
func (r *Resolver) ResolveAsset(query string) (*archive.AssetRecord, bool) {
	// Tier 1: exact.
	for _, c := range r.registry.Containers() {
		if rec, ok := c.Assets[query]; ok {
			return rec, true
		}
	}

	// Tier 2: scheme flip.
	if flipped, ok := flipScheme(query); ok {
		for _, c := range r.registry.Containers() {
			if rec, ok := c.Assets[flipped]; ok {
				return rec, true
			}
		}
	}

	// Tier 3: basename.
	parsed, err := url.Parse(query)
	if err != nil {
		r.logger.Debug("Unparsable asset query", "query", query, "error", err)
		return nil, false
	}
	name := path.Base(parsed.Path)
	if name == "" || name == "." || name == "/" {
		return nil, false
	}
	for _, c := range r.registry.Containers() {
		for _, key := range c.AssetURLs() {
			stored, parseErr := url.Parse(key)
			if parseErr != nil {
				continue
			}
			if path.Base(stored.Path) == name {
				return c.Assets[key], true
			}
		}
	}

	return nil, false
}

// flipScheme substitutes the leading scheme, http for https and vice versa.
// Exactly one substitution; queries without an http scheme are left alone.
func flipScheme(query string) (string, bool) {
	switch {
	case strings.HasPrefix(query, "http://"):
		return "https://" + strings.TrimPrefix(query, "http://"), true
	case strings.HasPrefix(query, "https://"):
		return "http://" + strings.TrimPrefix(query, "https://"), true
	default:
		return "", false
	}
}
