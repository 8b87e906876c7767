// Package fetch stages distribution artifacts for installation.
package fetch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/cespare/xxhash/v2"
	"go.trai.ch/grip/internal/core/domain"
	"go.trai.ch/grip/internal/core/ports"
	"go.trai.ch/zerr"
)

// Materializer implements ports.Materializer by staging payloads from a
// DistributionSource into temporary directories. Artifacts are cached per
// name and version, so concurrent prefetch and the later serialized apply
// loop share one staging.
type Materializer struct {
	src ports.DistributionSource
	log ports.Logger

	mu     sync.Mutex
	staged map[string]*ports.Artifact
}

// New creates a Materializer over the given source.
func New(src ports.DistributionSource, log ports.Logger) *Materializer {
	return &Materializer{
		src:    src,
		log:    log,
		staged: make(map[string]*ports.Artifact),
	}
}

var _ ports.Materializer = (*Materializer)(nil)

// Materialize fetches, verifies and stages one distribution.
func (m *Materializer) Materialize(ctx context.Context, req domain.Requirement, version *semver.Version) (*ports.Artifact, error) {
	if version == nil {
		return nil, zerr.With(domain.ErrFetch, "package", req.Display)
	}
	key := req.Name.String() + "@" + version.Original()

	m.mu.Lock()
	defer m.mu.Unlock()
	if art, ok := m.staged[key]; ok {
		return art, nil
	}

	payload, err := m.src.Open(ctx, req, version)
	if err != nil {
		return nil, err
	}
	if err := verifyDigest(req, payload); err != nil {
		return nil, err
	}

	art, err := stage(req, version, payload)
	if err != nil {
		return nil, err
	}
	m.staged[key] = art
	return art, nil
}

// verifyDigest checks the payload content against its declared digest. A
// mismatch means the fetched distribution is corrupt and must not be
// installed; the transaction manager rolls back on this error.
func verifyDigest(req domain.Requirement, payload *ports.Payload) error {
	if payload.Digest == "" {
		return nil
	}
	actual := ContentDigest(payload.Files)
	if actual != payload.Digest {
		err := zerr.With(domain.ErrBuild, "package", req.Display)
		err = zerr.With(err, "expected_digest", payload.Digest)
		return zerr.With(err, "actual_digest", actual)
	}
	return nil
}

// ContentDigest computes the canonical content digest of a file set:
// xxh64 over path and content pairs in sorted path order.
func ContentDigest(files map[string]string) string {
	paths := make([]string, 0, len(files))
	for path := range files {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	hasher := xxhash.New()
	for _, path := range paths {
		_, _ = hasher.WriteString(path)
		_, _ = hasher.Write([]byte{0})
		_, _ = hasher.WriteString(files[path])
		_, _ = hasher.Write([]byte{0})
	}
	return fmt.Sprintf("xxh64:%016x", hasher.Sum64())
}

func stage(req domain.Requirement, version *semver.Version, payload *ports.Payload) (*ports.Artifact, error) {
	root, err := os.MkdirTemp("", "grip-build-*")
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create staging directory")
	}

	files := make([]string, 0, len(payload.Files))
	for rel, content := range payload.Files {
		if !filepath.IsLocal(rel) {
			_ = os.RemoveAll(root)
			return nil, zerr.With(zerr.Wrap(domain.ErrBuild, "distribution file escapes its root"), "file", rel)
		}
		dest := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(dest), 0o750); err != nil {
			_ = os.RemoveAll(root)
			return nil, zerr.Wrap(err, "failed to stage distribution")
		}
		if err := os.WriteFile(dest, []byte(content), 0o644); err != nil { //nolint:gosec // Staged payloads are not secrets
			_ = os.RemoveAll(root)
			return nil, zerr.Wrap(err, "failed to stage distribution")
		}
		files = append(files, rel)
	}
	sort.Strings(files)

	display := payload.Display
	if display == "" {
		display = req.Display
	}
	return &ports.Artifact{
		Name:     req.Name,
		Display:  display,
		Version:  version,
		Root:     root,
		Files:    files,
		Editable: req.Editable,
	}, nil
}

// Close removes every staging directory.
func (m *Materializer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []string
	for key, art := range m.staged {
		if err := os.RemoveAll(art.Root); err != nil {
			errs = append(errs, key+": "+err.Error())
		}
		delete(m.staged, key)
	}
	if len(errs) > 0 {
		return zerr.With(zerr.New("failed to clean staging directories"), "failures", strings.Join(errs, "; "))
	}
	return nil
}
