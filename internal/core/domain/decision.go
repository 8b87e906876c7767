package domain

import (
	"github.com/Masterminds/semver/v3"
)

// Action is the kind of change a resolution decision asks for.
type Action int

const (
	// ActionNoOp leaves the installed distribution untouched.
	ActionNoOp Action = iota
	// ActionInstall installs a distribution that is not present.
	ActionInstall
	// ActionUpgrade replaces the installed version with the target version.
	ActionUpgrade
	// ActionReinstall removes and reinstalls even when versions match.
	ActionReinstall
	// ActionUninstall removes the installed distribution.
	ActionUninstall
)

// String returns the action verb.
func (a Action) String() string {
	switch a {
	case ActionInstall:
		return "install"
	case ActionUpgrade:
		return "upgrade"
	case ActionReinstall:
		return "reinstall"
	case ActionUninstall:
		return "uninstall"
	default:
		return "noop"
	}
}

// Reason explains why a decision was taken.
type Reason string

const (
	// ReasonNotInstalled: no install record exists for the name.
	ReasonNotInstalled Reason = "not-installed"
	// ReasonRequirementUnsatisfied: the installed version no longer satisfies the
	// intersected specifier, so the distribution must move regardless of mode.
	ReasonRequirementUnsatisfied Reason = "requirement-not-satisfied"
	// ReasonUpgradeRequested: an explicitly named root was asked to upgrade.
	ReasonUpgradeRequested Reason = "upgrade-requested"
	// ReasonRecursiveUpgrade: a transitively reached package moves under --upgrade-recursive.
	ReasonRecursiveUpgrade Reason = "recursive-upgrade"
	// ReasonAlreadyUpToDate: an upgrade collapsed to a no-op at the best version.
	ReasonAlreadyUpToDate Reason = "already-up-to-date"
	// ReasonSatisfied: the installed version satisfies the specifier and no
	// upgrade applies to this package.
	ReasonSatisfied Reason = "satisfied"
	// ReasonForceReinstall: --force-reinstall was given.
	ReasonForceReinstall Reason = "force-reinstall"
	// ReasonIgnoreInstalled: -I was given, the installed state is disregarded.
	ReasonIgnoreInstalled Reason = "ignore-installed"
	// ReasonSourceRefresh: a VCS requirement is refreshed from its checkout.
	ReasonSourceRefresh Reason = "source-refresh"
	// ReasonUserRequested: an explicit uninstall.
	ReasonUserRequested Reason = "user-requested"
)

// ResolutionDecision records what should happen to one package name.
// Produced fresh per resolution pass, never persisted.
type ResolutionDecision struct {
	Requirement Requirement
	// Installed is the currently installed version, nil when absent.
	Installed *semver.Version
	// Target is the version to end up with, nil for plain uninstalls.
	Target *semver.Version
	Action Action
	Reason Reason
}

// Label returns the "name-version" form used in logs and progress output.
func (d ResolutionDecision) Label() string {
	display := d.Requirement.Display
	if display == "" {
		display = d.Requirement.Name.String()
	}
	switch {
	case d.Target != nil:
		return display + "-" + d.Target.Original()
	case d.Installed != nil:
		return display + "-" + d.Installed.Original()
	default:
		return display
	}
}

// InstallPlan is the ordered list of decisions with Action != NoOp. The
// transaction manager pairs the uninstall of a superseded version with the
// install of its replacement per decision, so no global ordering beyond the
// resolution order is needed.
type InstallPlan struct {
	Decisions []ResolutionDecision
}

// NewInstallPlan filters the no-op decisions out of a resolution.
func NewInstallPlan(decisions []ResolutionDecision) *InstallPlan {
	plan := &InstallPlan{}
	for _, d := range decisions {
		if d.Action != ActionNoOp {
			plan.Decisions = append(plan.Decisions, d)
		}
	}
	return plan
}

// IsEmpty reports whether the plan changes nothing.
func (p *InstallPlan) IsEmpty() bool {
	return p == nil || len(p.Decisions) == 0
}
