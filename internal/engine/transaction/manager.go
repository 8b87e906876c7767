// Package transaction applies install plans atomically. Every mutation is
// journaled in a snapshot; the first failure rolls the environment back to
// its pre-transaction state, including install records. Only a failed
// rollback surfaces as ErrTransactionIntegrity.
package transaction

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/grip/internal/core/domain"
	"go.trai.ch/grip/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Manager executes install plans against one environment root.
type Manager struct {
	root  string
	store ports.InstalledStore
	mat   ports.Materializer
	log   ports.Logger
	rep   ports.Reporter
}

// New creates a Manager for the environment root.
func New(root string, store ports.InstalledStore, mat ports.Materializer, log ports.Logger, rep ports.Reporter) *Manager {
	return &Manager{
		root:  root,
		store: store,
		mat:   mat,
		log:   log,
		rep:   rep,
	}
}

// Prefetch materializes every artifact the plan will install, with at most
// limit concurrent fetches. Prefetch is best effort: failures are logged and
// resurface from Apply, which retries the materialization serially.
func (m *Manager) Prefetch(ctx context.Context, plan *domain.InstallPlan, limit int) {
	if plan.IsEmpty() {
		return
	}

	g := new(errgroup.Group)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for _, d := range plan.Decisions {
		if d.Action == domain.ActionUninstall || d.Target == nil {
			continue
		}
		g.Go(func() error {
			if _, err := m.mat.Materialize(ctx, d.Requirement, d.Target); err != nil {
				m.log.Warn("prefetch failed for " + d.Label() + ": " + err.Error())
			}
			return nil
		})
	}
	_ = g.Wait()
}

// Apply executes the plan decision by decision. An upgrade uninstalls the
// superseded version before placing its replacement. On the first failure the
// whole transaction is rolled back and the triggering error returned; if the
// rollback itself fails, the returned error wraps ErrTransactionIntegrity.
func (m *Manager) Apply(ctx context.Context, plan *domain.InstallPlan) error {
	if plan.IsEmpty() {
		return nil
	}

	snap, err := newSnapshot(m.root)
	if err != nil {
		return err
	}

	for _, d := range plan.Decisions {
		stepCtx, step := m.rep.StartStep(ctx, d.Action.String()+" "+d.Label())
		err := m.applyDecision(stepCtx, snap, d)
		step.Complete(err)
		if err == nil {
			continue
		}

		m.log.Warn("rolling back: " + d.Action.String() + " " + d.Label() + " failed")
		if rerr := snap.restore(m.store); rerr != nil {
			m.log.Error(rerr)
			return rerr
		}
		return err
	}
	return snap.commit()
}

func (m *Manager) applyDecision(ctx context.Context, snap *snapshot, d domain.ResolutionDecision) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	switch d.Action {
	case domain.ActionUninstall:
		return m.removeInstalled(snap, d.Requirement.Name)
	case domain.ActionUpgrade, domain.ActionReinstall:
		if err := m.removeInstalled(snap, d.Requirement.Name); err != nil {
			return err
		}
		return m.install(ctx, snap, d)
	case domain.ActionInstall:
		return m.install(ctx, snap, d)
	default:
		return nil
	}
}

// removeInstalled stashes every recorded file of the installed distribution
// and erases its record.
func (m *Manager) removeInstalled(snap *snapshot, name domain.Name) error {
	dist, err := m.store.Lookup(name)
	if err != nil {
		return err
	}
	if dist == nil {
		return zerr.With(domain.ErrDistributionNotFound, "package", name.String())
	}

	for _, rel := range dist.Files {
		if err := snap.stashFile(rel); err != nil {
			return err
		}
	}
	if err := m.store.Erase(name); err != nil {
		return err
	}
	snap.trackErased(*dist)
	return nil
}

// install materializes the target artifact, places its files under the
// environment root and writes the install record. Files already present are
// stashed before being overwritten.
func (m *Manager) install(ctx context.Context, snap *snapshot, d domain.ResolutionDecision) error {
	art, err := m.mat.Materialize(ctx, d.Requirement, d.Target)
	if err != nil {
		return err
	}

	for _, rel := range art.Files {
		if err := snap.stashFile(rel); err != nil {
			return err
		}
		if err := m.placeFile(art, rel); err != nil {
			return err
		}
		snap.trackCreated(rel)
	}

	dist := domain.InstalledDistribution{
		Name:        art.Name,
		Display:     art.Display,
		Version:     art.Version,
		Files:       art.Files,
		Editable:    art.Editable,
		InstalledAt: time.Now().UTC(),
	}
	if err := m.store.Record(dist); err != nil {
		return err
	}
	snap.trackRecorded(art.Name)
	return nil
}

func (m *Manager) placeFile(art *ports.Artifact, rel string) error {
	src := filepath.Join(art.Root, filepath.FromSlash(rel))
	data, err := os.ReadFile(src) //nolint:gosec // Paths come from the staged artifact
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to read staged file"), "file", rel)
	}

	dest := filepath.Join(m.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(dest), 0o750); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create directory"), "file", rel)
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil { //nolint:gosec // Installed files are not secrets
		return zerr.With(zerr.Wrap(err, "failed to place file"), "file", rel)
	}
	return nil
}
