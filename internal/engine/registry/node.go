package registry

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/stackhub/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/stackhub/internal/adapters/statefile" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/stackhub/internal/core/ports"
)

// NodeID is the unique identifier for the registry Graft node.
const NodeID graft.ID = "engine.registry"

func init() {
	graft.Register(graft.Node[ports.ModuleRegistry]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			statefile.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (ports.ModuleRegistry, error) {
			state, err := graft.Dep[ports.StateStore](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			reg, err := New(state, log)
			if err != nil {
				return nil, err
			}
			return reg, nil
		},
	})
}
