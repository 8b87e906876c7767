// Package app implements the application layer for grip.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"go.trai.ch/grip/internal/adapters/fetch"
	"go.trai.ch/grip/internal/adapters/findlinks"
	"go.trai.ch/grip/internal/adapters/pkgcache"
	"go.trai.ch/grip/internal/core/domain"
	"go.trai.ch/grip/internal/core/ports"
	"go.trai.ch/grip/internal/engine/resolver"
	"go.trai.ch/grip/internal/engine/transaction"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	root         string
	store        ports.InstalledStore
	log          ports.Logger
	rep          ports.Reporter
	defaultLinks []string
}

// New creates a new App instance. defaultLinks are the find-links directories
// consulted on every install unless --no-index disables them.
func New(root string, store ports.InstalledStore, log ports.Logger, rep ports.Reporter, defaultLinks []string) *App {
	return &App{
		root:         root,
		store:        store,
		log:          log,
		rep:          rep,
		defaultLinks: defaultLinks,
	}
}

// InstallOptions carries the per-invocation install configuration.
type InstallOptions struct {
	Mode domain.Mode
	// Requirements are paths of requirement files (-r).
	Requirements []string
	// FindLinks are additional distribution directories (-f).
	FindLinks []string
	// NoIndex drops the environment's default find-links directories, leaving
	// only the explicitly given ones.
	NoIndex bool
	// Editable marks the command-line requirements as editable installs.
	Editable bool
	// Jobs bounds parallel artifact prefetch; 0 means one per CPU.
	Jobs int
}

// Install resolves the given requirements and applies the resulting plan.
func (a *App) Install(ctx context.Context, args []string, opts InstallOptions) error {
	roots, err := a.collectRequirements(args, opts.Requirements, opts.Editable)
	if err != nil {
		return err
	}
	if len(roots) == 0 {
		return domain.ErrNoRequirements
	}

	links := findlinks.New(a.linkDirs(opts), a.log)
	index := pkgcache.New(links, filepath.Join(a.root, ".grip", "cache.json"), a.log)

	res, err := resolver.New(a.store, index).Resolve(ctx, roots, opts.Mode)
	if err != nil {
		return err
	}
	for _, d := range res.Decisions {
		if d.Reason == domain.ReasonAlreadyUpToDate {
			a.log.Info("requirement already up-to-date: " + d.Label())
		}
	}

	plan := res.Plan()
	if plan.IsEmpty() {
		a.log.Info("nothing to install")
		return nil
	}

	mat := fetch.New(links, a.log)
	defer func() {
		if cerr := mat.Close(); cerr != nil {
			a.log.Warn(cerr.Error())
		}
	}()

	mgr := transaction.New(a.root, a.store, mat, a.log, a.rep)
	if len(plan.Decisions) > 1 {
		mgr.Prefetch(ctx, plan, a.jobs(opts))
	}
	if err := mgr.Apply(ctx, plan); err != nil {
		return err
	}

	for _, d := range plan.Decisions {
		a.log.Info(fmt.Sprintf("%s done: %s", d.Action, d.Label()))
	}
	return nil
}

// Uninstall removes the named distributions, restoring nothing on success and
// everything on failure.
func (a *App) Uninstall(ctx context.Context, args []string, reqFiles []string) error {
	roots, err := a.collectRequirements(args, reqFiles, false)
	if err != nil {
		return err
	}
	if len(roots) == 0 {
		return domain.ErrNoRequirements
	}

	res, err := resolver.New(a.store, nil).ResolveUninstall(ctx, roots)
	if err != nil {
		return err
	}

	mgr := transaction.New(a.root, a.store, nil, a.log, a.rep)
	if err := mgr.Apply(ctx, res.Plan()); err != nil {
		return err
	}

	for _, d := range res.Decisions {
		a.log.Info("uninstalled " + d.Label())
	}
	return nil
}

// List returns every installed distribution, sorted by name.
func (a *App) List(_ context.Context) ([]domain.InstalledDistribution, error) {
	return a.store.List()
}

func (a *App) collectRequirements(args []string, reqFiles []string, editable bool) ([]domain.Requirement, error) {
	var roots []domain.Requirement
	for _, arg := range args {
		req, err := domain.ParseRequirement(arg)
		if err != nil {
			return nil, err
		}
		if editable {
			req.Editable = true
		}
		roots = append(roots, req)
	}
	for _, path := range reqFiles {
		f, err := os.Open(path) //nolint:gosec // Path is user-provided on purpose
		if err != nil {
			return nil, zerr.Wrap(err, "failed to open requirements file")
		}
		reqs, perr := domain.ParseRequirements(f)
		_ = f.Close()
		if perr != nil {
			return nil, zerr.With(perr, "file", path)
		}
		roots = append(roots, reqs...)
	}
	return roots, nil
}

func (a *App) linkDirs(opts InstallOptions) []string {
	if opts.NoIndex {
		return opts.FindLinks
	}
	dirs := make([]string, 0, len(a.defaultLinks)+len(opts.FindLinks))
	dirs = append(dirs, a.defaultLinks...)
	dirs = append(dirs, opts.FindLinks...)
	return dirs
}

func (a *App) jobs(opts InstallOptions) int {
	if opts.Jobs > 0 {
		return opts.Jobs
	}
	return runtime.NumCPU()
}
