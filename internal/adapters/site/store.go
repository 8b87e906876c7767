// Package site implements the durable install-record store for one environment.
package site

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.trai.ch/grip/internal/core/domain"
	"go.trai.ch/zerr"
)

// recordsDirName is the per-environment directory of install records,
// relative to the environment root.
const recordsDirName = ".grip/records"

// Store implements ports.InstalledStore using one JSON record file per
// distribution, keyed by normalized name.
type Store struct {
	dir   string
	mu    sync.RWMutex
	cache map[domain.Name]domain.InstalledDistribution
}

// DefaultRoot returns the environment root: $GRIP_SITE or "site-packages".
func DefaultRoot() string {
	if root := os.Getenv("GRIP_SITE"); root != "" {
		return root
	}
	return "site-packages"
}

// NewStore opens the record store under the given environment root, loading
// every existing record.
func NewStore(root string) (*Store, error) {
	s := &Store{
		dir:   filepath.Join(filepath.Clean(root), recordsDirName),
		cache: make(map[domain.Name]domain.InstalledDistribution),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.Wrap(err, "failed to read install records")
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		data, err := os.ReadFile(path) //nolint:gosec // Path is within the record directory
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to read install record"), "record", entry.Name())
		}
		var dist domain.InstalledDistribution
		if err := json.Unmarshal(data, &dist); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to decode install record"), "record", entry.Name())
		}
		s.cache[dist.Name] = dist
	}
	return nil
}

func (s *Store) recordPath(name domain.Name) string {
	return filepath.Join(s.dir, name.String()+".json")
}

// List returns every install record, sorted by name.
func (s *Store) List() ([]domain.InstalledDistribution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dists := make([]domain.InstalledDistribution, 0, len(s.cache))
	for _, dist := range s.cache {
		dists = append(dists, dist)
	}
	sort.Slice(dists, func(i, j int) bool {
		return dists[i].Name.String() < dists[j].Name.String()
	})
	return dists, nil
}

// Lookup returns the record for a name, or nil when none exists.
func (s *Store) Lookup(name domain.Name) (*domain.InstalledDistribution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dist, ok := s.cache[name]
	if !ok {
		return nil, nil
	}
	return &dist, nil
}

// Record writes a record, replacing any existing record for the same name.
func (s *Store) Record(dist domain.InstalledDistribution) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if dist.Name.IsZero() {
		return zerr.New("install record has no name")
	}

	data, err := json.MarshalIndent(dist, "", "  ")
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to encode install record"), "package", dist.Name.String())
	}
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return zerr.Wrap(err, "failed to create record directory")
	}
	if err := os.WriteFile(s.recordPath(dist.Name), data, 0o644); err != nil { //nolint:gosec // Records are not secrets
		return zerr.With(zerr.Wrap(err, "failed to write install record"), "package", dist.Name.String())
	}

	s.cache[dist.Name] = dist
	return nil
}

// Erase removes the record for a name.
func (s *Store) Erase(name domain.Name) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cache[name]; !ok {
		return zerr.With(domain.ErrDistributionNotFound, "package", name.String())
	}
	if err := os.Remove(s.recordPath(name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return zerr.With(zerr.Wrap(err, "failed to remove install record"), "package", name.String())
	}
	delete(s.cache, name)
	return nil
}
