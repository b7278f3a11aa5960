package graph

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/stitch/internal/core/ports"
)

// NodeID is the unique identifier for the dependency graph Graft node.
const NodeID graft.ID = "adapter.graph"

func init() {
	graft.Register(graft.Node[ports.DependencyGraph]{
		ID:        NodeID,
		Cacheable: false,
		Run: func(_ context.Context) (ports.DependencyGraph, error) {
			return New(), nil
		},
	})
}
