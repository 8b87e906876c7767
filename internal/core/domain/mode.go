package domain

// Mode is the global upgrade policy for one resolution pass.
type Mode int

const (
	// ModeNoUpgrade installs what is missing and leaves satisfied installs alone.
	ModeNoUpgrade Mode = iota
	// ModeUpgradeRoots upgrades explicitly named roots; dependencies move only
	// when their installed version no longer satisfies the requirements.
	ModeUpgradeRoots
	// ModeUpgradeRecursive upgrades every package reached by the walk.
	ModeUpgradeRecursive
	// ModeForceReinstall reinstalls even when versions match exactly.
	ModeForceReinstall
	// ModeIgnoreInstalled plans installs as if nothing were installed.
	ModeIgnoreInstalled
)

// String returns the mode name as used in logs.
func (m Mode) String() string {
	switch m {
	case ModeUpgradeRoots:
		return "upgrade"
	case ModeUpgradeRecursive:
		return "upgrade-recursive"
	case ModeForceReinstall:
		return "force-reinstall"
	case ModeIgnoreInstalled:
		return "ignore-installed"
	default:
		return "no-upgrade"
	}
}

// Upgrades reports whether the mode asks for any upgrade variant. Upgrade modes
// force fresh index lookups so a stale cache can never hide a newer version.
func (m Mode) Upgrades() bool {
	return m != ModeNoUpgrade
}
