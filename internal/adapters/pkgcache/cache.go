// Package pkgcache caches best-version lookups between invocations.
package pkgcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/cespare/xxhash/v2"
	"go.trai.ch/grip/internal/core/domain"
	"go.trai.ch/grip/internal/core/ports"
	"go.trai.ch/zerr"
)

// entry is one cached lookup result.
type entry struct {
	Version string `json:"version,omitempty"`
	Absent  bool   `json:"absent,omitempty"`
}

// Cache wraps an Index and caches best-version results in a flat JSON file.
// Only unpinned index lookups are cached; direct URLs, VCS refs, local paths
// and exact pins always go to the underlying index. A Fresh lookup bypasses
// the cache and overwrites the stale entry, so an upgrade always sees newly
// published versions.
type Cache struct {
	inner ports.Index
	path  string
	log   ports.Logger

	mu      sync.Mutex
	loaded  bool
	entries map[string]entry
}

// New creates a Cache persisted at path.
func New(inner ports.Index, path string, log ports.Logger) *Cache {
	return &Cache{
		inner:   inner,
		path:    filepath.Clean(path),
		log:     log,
		entries: make(map[string]entry),
	}
}

var _ ports.Index = (*Cache)(nil)

func cacheable(req domain.Requirement, spec domain.Specifier) bool {
	return req.Kind == domain.SourceIndex && !spec.IsExact()
}

func key(req domain.Requirement, spec domain.Specifier) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(req.Name.String()+"|"+spec.String()))
}

// BestVersion implements ports.Index.
func (c *Cache) BestVersion(ctx context.Context, req domain.Requirement, spec domain.Specifier, opts ports.LookupOptions) (*semver.Version, error) {
	if !cacheable(req, spec) {
		return c.inner.BestVersion(ctx, req, spec, opts)
	}

	k := key(req, spec)
	if !opts.Fresh {
		if v, ok, err := c.cached(k); err != nil {
			return nil, err
		} else if ok {
			return v, nil
		}
	}

	v, err := c.inner.BestVersion(ctx, req, spec, opts)
	if err != nil {
		return nil, err
	}
	if err := c.put(k, v); err != nil {
		// A cache write failure must not fail the lookup.
		c.log.Warn("failed to update lookup cache: " + err.Error())
	}
	return v, nil
}

// Deps implements ports.Index; dependency metadata is never cached.
func (c *Cache) Deps(ctx context.Context, name domain.Name, version *semver.Version) ([]domain.Requirement, error) {
	return c.inner.Deps(ctx, name, version)
}

func (c *Cache) cached(k string) (*semver.Version, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.loadLocked(); err != nil {
		return nil, false, err
	}
	e, ok := c.entries[k]
	if !ok {
		return nil, false, nil
	}
	if e.Absent {
		return nil, true, nil
	}
	v, err := domain.ParseVersion(e.Version)
	if err != nil {
		// A corrupt entry behaves like a miss.
		return nil, false, nil
	}
	return v, true, nil
}

func (c *Cache) put(k string, v *semver.Version) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.loadLocked(); err != nil {
		return err
	}
	if v == nil {
		c.entries[k] = entry{Absent: true}
	} else {
		c.entries[k] = entry{Version: v.Original()}
	}
	return c.saveLocked()
}

func (c *Cache) loadLocked() error {
	if c.loaded {
		return nil
	}
	c.loaded = true

	data, err := os.ReadFile(c.path) //nolint:gosec // Path is cleaned and provided by trusted caller
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.Wrap(err, "failed to read lookup cache")
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, &c.entries); err != nil {
		return zerr.Wrap(err, "failed to decode lookup cache")
	}
	return nil
}

func (c *Cache) saveLocked() error {
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to encode lookup cache")
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o750); err != nil {
		return zerr.Wrap(err, "failed to create cache directory")
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil { //nolint:gosec // Cache entries are not secrets
		return zerr.Wrap(err, "failed to write lookup cache")
	}
	return nil
}
