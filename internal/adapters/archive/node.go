package archive

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/stackhub/internal/adapters/config"
	"go.trai.ch/stackhub/internal/core/domain"
	"go.trai.ch/stackhub/internal/core/ports"
)

// NodeID is the unique identifier for the archiver Graft node.
const NodeID graft.ID = "adapter.archiver"

func init() {
	graft.Register(graft.Node[ports.Archiver]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID},
		Run: func(ctx context.Context) (ports.Archiver, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			return NewZipArchiver(cfg.Archive.CompressionLevel), nil
		},
	})
}
