package domain

import (
	"time"

	"github.com/Masterminds/semver/v3"
)

// InstalledDistribution is a package version currently present in the
// environment, identified by a durable install record. The store guarantees at
// most one record per normalized name.
type InstalledDistribution struct {
	Name        Name            `json:"name"`
	Display     string          `json:"display_name,omitempty"`
	Version     *semver.Version `json:"version"`
	Files       []string        `json:"files,omitempty"`
	Editable    bool            `json:"editable,omitempty"`
	InstalledAt time.Time       `json:"installed_at,omitzero"`
}

// Label returns the "name-version" form used in logs and progress output.
func (d InstalledDistribution) Label() string {
	display := d.Display
	if display == "" {
		display = d.Name.String()
	}
	if d.Version == nil {
		return display
	}
	return display + "-" + d.Version.Original()
}
