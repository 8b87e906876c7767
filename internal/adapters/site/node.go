package site

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/grip/internal/core/ports"
)

// NodeID is the unique identifier for the install-record store Graft node.
const NodeID graft.ID = "adapter.installed_store"

func init() {
	graft.Register(graft.Node[ports.InstalledStore]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.InstalledStore, error) {
			return NewStore(DefaultRoot())
		},
	})
}
