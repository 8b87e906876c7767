// Package ports defines the core interfaces for the application.
package ports

import "go.trai.ch/grip/internal/core/domain"

// InstalledStore is the durable per-environment store of install records.
// Implementations must key records by normalized name so that "INITools" and
// "initools" resolve to the same record, and must hold at most one record per
// name.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type InstalledStore interface {
	// List returns every install record.
	List() ([]domain.InstalledDistribution, error)

	// Lookup returns the record for a name, or nil when none exists.
	// Absence of a package is not an error.
	Lookup(name domain.Name) (*domain.InstalledDistribution, error)

	// Record writes a record, replacing any existing record for the same name.
	Record(dist domain.InstalledDistribution) error

	// Erase removes the record for a name. Removing an absent record is an error.
	Erase(name domain.Name) error
}
