package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/stackhub/internal/adapters/archive"   //nolint:depguard // Wired in app layer
	"go.trai.ch/stackhub/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/stackhub/internal/adapters/httpapi"   //nolint:depguard // Wired in app layer
	"go.trai.ch/stackhub/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/stackhub/internal/adapters/statefile" //nolint:depguard // Wired in app layer
	"go.trai.ch/stackhub/internal/core/domain"
	"go.trai.ch/stackhub/internal/core/ports"
	"go.trai.ch/stackhub/internal/engine/registry"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			registry.NodeID,
			archive.NodeID,
			httpapi.NodeID,
			logger.NodeID,
			config.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			config.NodeID,
			statefile.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	reg, err := graft.Dep[ports.ModuleRegistry](ctx)
	if err != nil {
		return nil, err
	}

	arch, err := graft.Dep[ports.Archiver](ctx)
	if err != nil {
		return nil, err
	}

	srv, err := graft.Dep[ports.Server](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	cfg, err := graft.Dep[*domain.Config](ctx)
	if err != nil {
		return nil, err
	}

	return New(reg, arch, srv, log, cfg), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	a, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	cfg, err := graft.Dep[*domain.Config](ctx)
	if err != nil {
		return nil, err
	}

	state, err := graft.Dep[ports.StateStore](ctx)
	if err != nil {
		return nil, err
	}

	return NewComponents(a, log, cfg, state), nil
}
