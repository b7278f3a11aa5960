package cache

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/stitch/internal/core/ports"
)

// NodeID is the unique identifier for the file cache Graft node.
const NodeID graft.ID = "adapter.cache"

func init() {
	graft.Register(graft.Node[ports.FileCache]{
		ID:        NodeID,
		Cacheable: false,
		Run: func(_ context.Context) (ports.FileCache, error) {
			return New(), nil
		},
	})
}
