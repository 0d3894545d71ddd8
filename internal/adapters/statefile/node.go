package statefile

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/stackhub/internal/adapters/config"
	"go.trai.ch/stackhub/internal/core/domain"
	"go.trai.ch/stackhub/internal/core/ports"
)

// NodeID is the unique identifier for the state store Graft node.
const NodeID graft.ID = "adapter.state_store"

func init() {
	graft.Register(graft.Node[ports.StateStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID},
		Run: func(ctx context.Context) (ports.StateStore, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}

			store, err := NewStore(cfg.Store.Path)
			if err != nil {
				return nil, err
			}
			return store, nil
		},
	})
}
