// Package findlinks implements the distribution index over local metadata
// directories, the moral equivalent of "--find-links" package pools.
package findlinks

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"go.trai.ch/grip/internal/core/domain"
	"go.trai.ch/grip/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// distFile describes one distribution in a find-links directory.
type distFile struct {
	Name     string            `yaml:"name"`
	Version  string            `yaml:"version"`
	Requires []string          `yaml:"requires"`
	Source   string            `yaml:"source"` // VCS location; marks a checkout entry
	Rev      string            `yaml:"rev"`
	Digest   string            `yaml:"digest"`
	Files    map[string]string `yaml:"files"`
}

// dist is a loaded distribution entry.
type dist struct {
	name     domain.Name
	display  string
	version  *semver.Version
	requires []domain.Requirement
	source   string
	rev      string
	digest   string
	files    map[string]string
}

// vcsEntry reports whether the entry is a checkout rather than an index dist.
func (d *dist) vcsEntry() bool {
	return d.source != ""
}

// Index implements ports.Index and ports.DistributionSource over one or more
// find-links directories.
type Index struct {
	dirs []string
	log  ports.Logger

	mu      sync.Mutex
	loaded  bool
	entries map[domain.Name][]*dist
}

// New creates an Index over the given directories. Directories are scanned
// lazily on first use.
func New(dirs []string, log ports.Logger) *Index {
	return &Index{
		dirs:    dirs,
		log:     log,
		entries: make(map[domain.Name][]*dist),
	}
}

var _ ports.Index = (*Index)(nil)
var _ ports.DistributionSource = (*Index)(nil)

func (ix *Index) ensureLoaded() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.loaded {
		return nil
	}
	for _, dir := range ix.dirs {
		names, err := metadataFiles(dir)
		if err != nil {
			return err
		}
		for _, path := range names {
			if err := ix.loadFileLocked(path); err != nil {
				return err
			}
		}
	}
	ix.loaded = true
	return nil
}

func metadataFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to scan find-links directory"), "dir", dir)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), ".yaml") || strings.HasSuffix(entry.Name(), ".yml") {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	return paths, nil
}

func (ix *Index) loadFileLocked(path string) error {
	entry, err := loadDistFile(path)
	if err != nil {
		return err
	}
	for _, existing := range ix.entries[entry.name] {
		if existing.version.Equal(entry.version) && existing.rev == entry.rev {
			return nil
		}
	}
	ix.entries[entry.name] = append(ix.entries[entry.name], entry)
	return nil
}

func loadDistFile(path string) (*dist, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Metadata paths come from configured directories
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read distribution metadata"), "path", path)
	}
	var df distFile
	if err := yaml.Unmarshal(data, &df); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to parse distribution metadata"), "path", path)
	}
	if df.Name == "" || df.Version == "" {
		return nil, zerr.With(zerr.New("distribution metadata needs name and version"), "path", path)
	}
	version, err := domain.ParseVersion(df.Version)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	requires := make([]domain.Requirement, 0, len(df.Requires))
	for _, raw := range df.Requires {
		req, err := domain.ParseRequirement(raw)
		if err != nil {
			return nil, zerr.With(err, "path", path)
		}
		requires = append(requires, req)
	}
	return &dist{
		name:     domain.NewName(df.Name),
		display:  df.Name,
		version:  version,
		requires: requires,
		source:   df.Source,
		rev:      df.Rev,
		digest:   df.Digest,
		files:    df.Files,
	}, nil
}

// BestVersion returns the highest version available for the requirement's
// source kind that satisfies spec, or nil when none exists.
func (ix *Index) BestVersion(ctx context.Context, req domain.Requirement, spec domain.Specifier, _ ports.LookupOptions) (*semver.Version, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ix.ensureLoaded(); err != nil {
		return nil, err
	}

	switch req.Kind {
	case domain.SourceDirectURL:
		return ix.namedVersion(req, spec)
	case domain.SourceLocalPath:
		return ix.localVersion(req, spec)
	case domain.SourceVCS:
		return ix.checkoutVersion(req)
	default:
		return ix.indexVersion(req.Name, spec), nil
	}
}

// indexVersion picks among index entries only; checkouts never satisfy an
// index requirement.
func (ix *Index) indexVersion(name domain.Name, spec domain.Specifier) *semver.Version {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	var best *semver.Version
	for _, entry := range ix.entries[name] {
		if entry.vcsEntry() || !spec.Matches(entry.version) {
			continue
		}
		if best == nil || entry.version.GreaterThan(best) {
			best = entry.version
		}
	}
	return best
}

// namedVersion derives the version from the URL's file name.
func (ix *Index) namedVersion(req domain.Requirement, spec domain.Specifier) (*semver.Version, error) {
	base := req.URL[strings.LastIndexByte(req.URL, '/')+1:]
	_, raw := domain.ParseDistFilename(base)
	if raw == "" {
		return ix.indexVersion(req.Name, spec), nil
	}
	version, err := domain.ParseVersion(raw)
	if err != nil {
		return nil, zerr.With(err, "url", req.URL)
	}
	return version, nil
}

// localVersion resolves a metadata file path directly, registering its entry
// so dependency and payload lookups find it.
func (ix *Index) localVersion(req domain.Requirement, spec domain.Specifier) (*semver.Version, error) {
	if strings.HasSuffix(req.URL, ".yaml") || strings.HasSuffix(req.URL, ".yml") {
		ix.mu.Lock()
		err := ix.loadFileLocked(req.URL)
		ix.mu.Unlock()
		if err != nil {
			return nil, err
		}
	}
	base := filepath.Base(strings.TrimRight(req.URL, "/"))
	if _, raw := domain.ParseDistFilename(base); raw != "" {
		version, err := domain.ParseVersion(raw)
		if err != nil {
			return nil, zerr.With(err, "path", req.URL)
		}
		return version, nil
	}
	return ix.anyVersion(req.Name), nil
}

// checkoutVersion resolves a VCS requirement: a pinned revision selects its
// matching checkout, otherwise the highest known version of the name wins,
// which also implements the "prefer a strictly newer index dist" tie-break
// for unpinned requirements.
func (ix *Index) checkoutVersion(req domain.Requirement) (*semver.Version, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if req.Revision != "" {
		for _, entry := range ix.entries[req.Name] {
			if entry.rev == req.Revision {
				return entry.version, nil
			}
		}
	}
	var best *semver.Version
	for _, entry := range ix.entries[req.Name] {
		if best == nil || entry.version.GreaterThan(best) {
			best = entry.version
		}
	}
	return best, nil
}

func (ix *Index) anyVersion(name domain.Name) *semver.Version {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	var best *semver.Version
	for _, entry := range ix.entries[name] {
		if best == nil || entry.version.GreaterThan(best) {
			best = entry.version
		}
	}
	return best
}

// Deps returns the requirements declared by one distribution version. Unknown
// distributions declare nothing.
func (ix *Index) Deps(ctx context.Context, name domain.Name, version *semver.Version) ([]domain.Requirement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ix.ensureLoaded(); err != nil {
		return nil, err
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	for _, entry := range ix.entries[name] {
		if entry.version.Equal(version) {
			return entry.requires, nil
		}
	}
	return nil, nil
}

// Open returns the payload for one distribution version.
func (ix *Index) Open(ctx context.Context, req domain.Requirement, version *semver.Version) (*ports.Payload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ix.ensureLoaded(); err != nil {
		return nil, err
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	for _, entry := range ix.entries[req.Name] {
		if entry.version.Equal(version) {
			return &ports.Payload{
				Display: entry.display,
				Files:   entry.files,
				Digest:  entry.digest,
			}, nil
		}
	}
	return nil, zerr.With(zerr.With(domain.ErrFetch, "package", req.Display), "version", version.Original())
}
