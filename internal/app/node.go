package app

import (
	"context"
	"os"
	"path/filepath"

	"github.com/grindlemire/graft"
	"go.trai.ch/grip/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/grip/internal/adapters/site"      //nolint:depguard // Wired in app layer
	"go.trai.ch/grip/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/grip/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components bundles the wired application with the shared adapters the CLI
// layer needs directly.
type Components struct {
	App    *App
	Logger ports.Logger
}

// envLinkDirs returns the default find-links directories from $GRIP_LINKS,
// a list-separated path list.
func envLinkDirs() []string {
	raw := os.Getenv("GRIP_LINKS")
	if raw == "" {
		return nil
	}
	return filepath.SplitList(raw)
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			site.NodeID,
			logger.NodeID,
			telemetry.ReporterNodeID,
		},
		Run: func(ctx context.Context) (*App, error) {
			store, err := graft.Dep[ports.InstalledStore](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			rep, err := graft.Dep[ports.Reporter](ctx)
			if err != nil {
				return nil, err
			}

			return New(site.DefaultRoot(), store, log, rep, envLinkDirs()), nil
		},
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{
				App:    app,
				Logger: log,
			}, nil
		},
	})
}
