package ports

import (
	"context"

	"github.com/Masterminds/semver/v3"
	"go.trai.ch/grip/internal/core/domain"
)

// Artifact is a fetched and built distribution, staged on disk and ready for
// file placement by the transaction manager.
type Artifact struct {
	Name    domain.Name
	Display string
	Version *semver.Version
	// Root is the staging directory holding the artifact's files.
	Root string
	// Files lists the artifact's files relative to Root; placement preserves
	// these paths relative to the environment root.
	Files    []string
	Editable bool
}

// Materializer fetches and builds distributions. Failures surface as ErrFetch
// or ErrBuild and make the transaction manager roll back.
//
//go:generate go run go.uber.org/mock/mockgen -source=materializer.go -destination=mocks/mock_materializer.go -package=mocks
type Materializer interface {
	// Materialize produces the artifact for one requirement at one version.
	// Repeated calls for the same distribution may return a cached artifact.
	Materialize(ctx context.Context, req domain.Requirement, version *semver.Version) (*Artifact, error)
}

// Payload is the raw content of one distribution as provided by its source.
type Payload struct {
	Display string
	// Files maps artifact-relative paths to file contents.
	Files map[string]string
	// Digest is the expected content digest ("xxh64:<hex>"), "" when unverified.
	Digest string
}

// DistributionSource provides distribution payloads for staging.
type DistributionSource interface {
	// Open returns the payload for one distribution version, or an error wrapping
	// ErrFetch when the source cannot provide it.
	Open(ctx context.Context, req domain.Requirement, version *semver.Version) (*Payload, error)
}
