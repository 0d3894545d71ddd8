package httpapi

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/stackhub/internal/adapters/archive"
	"go.trai.ch/stackhub/internal/adapters/config"
	"go.trai.ch/stackhub/internal/adapters/logger"
	"go.trai.ch/stackhub/internal/core/domain"
	"go.trai.ch/stackhub/internal/core/ports"
	"go.trai.ch/stackhub/internal/engine/registry" //nolint:depguard // Wired in adapter wiring
)

// NodeID is the unique identifier for the HTTP server Graft node.
const NodeID graft.ID = "adapter.http_server"

func init() {
	graft.Register(graft.Node[ports.Server]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			registry.NodeID,
			archive.NodeID,
			logger.NodeID,
			config.NodeID,
		},
		Run: func(ctx context.Context) (ports.Server, error) {
			reg, err := graft.Dep[ports.ModuleRegistry](ctx)
			if err != nil {
				return nil, err
			}
			arch, err := graft.Dep[ports.Archiver](ctx)
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
			srv, err := NewServer(reg, arch, log, cfg.Server)
			if err != nil {
				return nil, err
			}
			return srv, nil
		},
	})
}
