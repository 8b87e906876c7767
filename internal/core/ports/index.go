package ports

import (
	"context"

	"github.com/Masterminds/semver/v3"
	"go.trai.ch/grip/internal/core/domain"
)

// LookupOptions controls a best-version lookup.
type LookupOptions struct {
	// Fresh bypasses any lookup cache. Set for every upgrade mode so a stale
	// cache entry can never suppress discovery of a newer version.
	Fresh bool
}

// Index is the dependency supplier: it enumerates distribution versions and
// their declared requirements.
//
//go:generate go run go.uber.org/mock/mockgen -source=index.go -destination=mocks/mock_index.go -package=mocks
type Index interface {
	// BestVersion returns the highest version available for the requirement's
	// source that satisfies spec, or nil when none exists. For VCS and direct-URL
	// sources the version is derived from the named location rather than
	// enumerated.
	BestVersion(ctx context.Context, req domain.Requirement, spec domain.Specifier, opts LookupOptions) (*semver.Version, error)

	// Deps returns the requirements declared by one distribution version.
	Deps(ctx context.Context, name domain.Name, version *semver.Version) ([]domain.Requirement, error)
}
