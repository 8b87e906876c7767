package telemetry

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/grip/internal/adapters/telemetry/progrock"
	"go.trai.ch/grip/internal/core/ports"
)

// ReporterNodeID is the unique identifier for the progress reporter Graft node.
const ReporterNodeID graft.ID = "adapter.reporter"

func init() {
	graft.Register(graft.Node[ports.Reporter]{
		ID:        ReporterNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Reporter, error) {
			if os.Getenv("GRIP_PROGRESS") != "" {
				return progrock.New(), nil
			}
			return NewNoOpReporter(), nil
		},
	})
}
