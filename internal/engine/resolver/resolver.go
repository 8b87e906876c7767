// Package resolver implements the upgrade decision engine.
//
// Resolution is a constraint-propagation fixpoint over the requirement graph:
// the walk starts at the explicitly requested roots, keeps one memoized
// decision per package name, and re-decides a name whenever a later
// requirement tightens its specifier. The policy distinguishes explicit user
// intent (upgrade, recursive upgrade, forced reinstall, ignore-installed)
// from already-satisfied constraints: a dependency whose installed version
// still satisfies every requirement on it is left untouched unless a
// recursive upgrade was requested, while an unsatisfied dependency always
// moves, whatever the mode.
package resolver

import (
	"context"
	"sort"

	"github.com/Masterminds/semver/v3"
	"go.trai.ch/grip/internal/core/domain"
	"go.trai.ch/grip/internal/core/ports"
	"go.trai.ch/zerr"
)

// Resolver decides, per package name, whether to install, upgrade, reinstall,
// or leave alone.
type Resolver struct {
	store ports.InstalledStore
	index ports.Index
}

// New creates a Resolver.
func New(store ports.InstalledStore, index ports.Index) *Resolver {
	return &Resolver{
		store: store,
		index: index,
	}
}

// Resolution is the outcome of one resolution pass: one decision per distinct
// package name, in first-encounter order.
type Resolution struct {
	Decisions []domain.ResolutionDecision
}

// Plan returns the decisions that change the environment.
func (r *Resolution) Plan() *domain.InstallPlan {
	return domain.NewInstallPlan(r.Decisions)
}

// nameState accumulates everything known about one package name during a walk.
type nameState struct {
	req   domain.Requirement
	spec  domain.Specifier
	root  bool
	order int

	decided  bool
	decision domain.ResolutionDecision
	// walked is the target version whose dependencies were already absorbed.
	walked *semver.Version
}

type walk struct {
	r      *Resolver
	mode   domain.Mode
	states map[domain.Name]*nameState
	queue  []domain.Name
	queued map[domain.Name]bool
}

// Resolve walks the requirement graph outward from roots and produces one
// decision per name. It fails with ErrUnsatisfiableRequirement before any
// transaction begins when specifiers conflict or no available version
// satisfies them.
func (r *Resolver) Resolve(ctx context.Context, roots []domain.Requirement, mode domain.Mode) (*Resolution, error) {
	if len(roots) == 0 {
		return nil, domain.ErrNoRequirements
	}

	w := &walk{
		r:      r,
		mode:   mode,
		states: make(map[domain.Name]*nameState),
		queued: make(map[domain.Name]bool),
	}
	for _, root := range roots {
		if err := w.absorb(root, true); err != nil {
			return nil, err
		}
	}

	for len(w.queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := w.queue[0]
		w.queue = w.queue[1:]
		w.queued[name] = false

		st := w.states[name]
		if err := w.decide(ctx, st); err != nil {
			return nil, err
		}
		if err := w.walkDeps(ctx, st); err != nil {
			return nil, err
		}
	}

	states := make([]*nameState, 0, len(w.states))
	for _, st := range w.states {
		states = append(states, st)
	}
	sort.Slice(states, func(i, j int) bool { return states[i].order < states[j].order })

	res := &Resolution{}
	for _, st := range states {
		res.Decisions = append(res.Decisions, st.decision)
	}
	return res, nil
}

// absorb merges a requirement into the per-name state and schedules the name
// for (re-)decision when anything changed.
func (w *walk) absorb(req domain.Requirement, root bool) error {
	st, ok := w.states[req.Name]
	if !ok {
		st = &nameState{
			req:   req,
			spec:  req.Spec,
			root:  root,
			order: len(w.states),
		}
		w.states[req.Name] = st
		w.enqueue(req.Name)
		return nil
	}

	changed := false

	spec, err := st.spec.Intersect(req.Spec)
	if err != nil {
		return zerr.With(err, "package", req.Display)
	}
	if spec.String() != st.spec.String() {
		st.spec = spec
		changed = true
	}

	// A URL, VCS or path requirement names the distribution's source directly
	// and takes over from a plain index requirement on the same name.
	if st.req.Kind == domain.SourceIndex && req.Kind != domain.SourceIndex {
		merged := st.spec
		st.req = req
		st.req.Spec = merged
		changed = true
	}

	if root && !st.root {
		st.root = true
		changed = true
	}

	if changed && st.decided {
		st.decided = false
	}
	if changed || !st.decided {
		w.enqueue(req.Name)
	}
	return nil
}

func (w *walk) enqueue(name domain.Name) {
	if !w.queued[name] {
		w.queue = append(w.queue, name)
		w.queued[name] = true
	}
}

// best looks up the highest available version satisfying the accumulated
// specifier. Upgrade modes force a fresh lookup so a stale cache entry can
// never hide a newer version.
func (w *walk) best(ctx context.Context, st *nameState) (*semver.Version, error) {
	return w.r.index.BestVersion(ctx, st.req, st.spec, ports.LookupOptions{Fresh: w.mode.Upgrades()})
}

func (w *walk) unsatisfiable(st *nameState, installed *semver.Version) error {
	err := zerr.With(domain.ErrUnsatisfiableRequirement, "package", st.req.Display)
	if spec := st.spec.String(); spec != "" {
		err = zerr.With(err, "specifier", spec)
	}
	if installed != nil {
		err = zerr.With(err, "installed", installed.Original())
	}
	return err
}

// decide computes the memoized decision for one name.
func (w *walk) decide(ctx context.Context, st *nameState) error {
	if st.decided {
		return nil
	}

	dist, err := w.r.store.Lookup(st.req.Name)
	if err != nil {
		return err
	}
	var installed *semver.Version
	if dist != nil {
		installed = dist.Version
	}

	decision, err := w.policy(ctx, st, installed)
	if err != nil {
		return err
	}
	st.decision = decision
	st.decided = true
	return nil
}

func (w *walk) policy(ctx context.Context, st *nameState, installed *semver.Version) (domain.ResolutionDecision, error) {
	d := domain.ResolutionDecision{
		Requirement: st.req,
		Installed:   installed,
	}

	switch {
	case w.mode == domain.ModeIgnoreInstalled:
		target, err := w.best(ctx, st)
		if err != nil {
			return d, err
		}
		if target == nil {
			return d, w.unsatisfiable(st, installed)
		}
		d.Target = target
		d.Reason = domain.ReasonIgnoreInstalled
		// A conflicting installed version must still be uninstalled first to
		// keep at most one record per name.
		if installed != nil && !installed.Equal(target) {
			d.Action = domain.ActionUpgrade
		} else {
			d.Action = domain.ActionInstall
		}
		return d, nil

	case w.mode == domain.ModeForceReinstall:
		target, err := w.best(ctx, st)
		if err != nil {
			return d, err
		}
		if target == nil {
			return d, w.unsatisfiable(st, installed)
		}
		d.Target = target
		if installed == nil {
			d.Action = domain.ActionInstall
			d.Reason = domain.ReasonNotInstalled
		} else {
			d.Action = domain.ActionReinstall
			d.Reason = domain.ReasonForceReinstall
		}
		return d, nil

	case installed == nil:
		target, err := w.best(ctx, st)
		if err != nil {
			return d, err
		}
		if target == nil {
			return d, w.unsatisfiable(st, nil)
		}
		d.Target = target
		d.Action = domain.ActionInstall
		d.Reason = domain.ReasonNotInstalled
		return d, nil

	case !st.spec.Matches(installed):
		// An unsatisfied requirement must always move, whatever the mode:
		// correctness of the dependent package requires it.
		target, err := w.best(ctx, st)
		if err != nil {
			return d, err
		}
		if target == nil {
			return d, w.unsatisfiable(st, installed)
		}
		d.Target = target
		d.Action = domain.ActionUpgrade
		d.Reason = domain.ReasonRequirementUnsatisfied
		return d, nil

	default:
		return w.satisfiedPolicy(ctx, st, d, installed)
	}
}

// satisfiedPolicy handles the installed-and-satisfied case, where mode and
// root status decide between leaving the package alone and upgrading it.
func (w *walk) satisfiedPolicy(ctx context.Context, st *nameState, d domain.ResolutionDecision, installed *semver.Version) (domain.ResolutionDecision, error) {
	upgradeWanted := w.mode == domain.ModeUpgradeRecursive ||
		(w.mode == domain.ModeUpgradeRoots && st.root)
	if !upgradeWanted {
		d.Target = installed
		d.Action = domain.ActionNoOp
		d.Reason = domain.ReasonSatisfied
		return d, nil
	}

	target, err := w.best(ctx, st)
	if err != nil {
		return d, err
	}
	if target == nil || target.Equal(installed) {
		if st.req.Kind == domain.SourceVCS {
			// A checkout has no enumerable history; an explicit upgrade always
			// refreshes it.
			if target == nil {
				target = installed
			}
			d.Target = target
			d.Action = domain.ActionReinstall
			d.Reason = domain.ReasonSourceRefresh
			return d, nil
		}
		d.Target = installed
		d.Action = domain.ActionNoOp
		d.Reason = domain.ReasonAlreadyUpToDate
		return d, nil
	}

	d.Target = target
	d.Action = domain.ActionUpgrade
	if st.root {
		d.Reason = domain.ReasonUpgradeRequested
	} else {
		d.Reason = domain.ReasonRecursiveUpgrade
	}
	return d, nil
}

// walkDeps absorbs the dependencies of the decided target. Satisfied no-op
// packages keep their installed dependencies out of the walk, except under a
// recursive upgrade, which must reach everything.
func (w *walk) walkDeps(ctx context.Context, st *nameState) error {
	version := st.decision.Target
	if st.decision.Action == domain.ActionNoOp && w.mode != domain.ModeUpgradeRecursive {
		return nil
	}
	if version == nil || (st.walked != nil && st.walked.Equal(version)) {
		return nil
	}
	st.walked = version

	deps, err := w.r.index.Deps(ctx, st.req.Name, version)
	if err != nil {
		return err
	}
	for _, dep := range deps {
		if err := w.absorb(dep, false); err != nil {
			return err
		}
	}
	return nil
}

// ResolveUninstall plans the removal of explicitly named distributions.
func (r *Resolver) ResolveUninstall(ctx context.Context, reqs []domain.Requirement) (*Resolution, error) {
	if len(reqs) == 0 {
		return nil, domain.ErrNoRequirements
	}

	res := &Resolution{}
	seen := make(map[domain.Name]bool)
	for _, req := range reqs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if seen[req.Name] {
			continue
		}
		seen[req.Name] = true

		dist, err := r.store.Lookup(req.Name)
		if err != nil {
			return nil, err
		}
		if dist == nil {
			return nil, zerr.With(domain.ErrDistributionNotFound, "package", req.Display)
		}
		res.Decisions = append(res.Decisions, domain.ResolutionDecision{
			Requirement: req,
			Installed:   dist.Version,
			Action:      domain.ActionUninstall,
			Reason:      domain.ReasonUserRequested,
		})
	}
	return res, nil
}
