package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/stitch/internal/adapters/cache"     //nolint:depguard // Wired in app layer
	"go.trai.ch/stitch/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/stitch/internal/adapters/fs"        //nolint:depguard // Wired in app layer
	"go.trai.ch/stitch/internal/adapters/graph"     //nolint:depguard // Wired in app layer
	"go.trai.ch/stitch/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/stitch/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/stitch/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/stitch/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components contains the initialized application components needed by the CLI layer.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			fs.NodeID,
			graph.NodeID,
			cache.NodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
			watcher.NodeID,
		},
		Run: runAppNode,
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
			return &Components{App: app, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	fsys, err := graft.Dep[ports.FileSystem](ctx)
	if err != nil {
		return nil, err
	}

	g, err := graft.Dep[ports.DependencyGraph](ctx)
	if err != nil {
		return nil, err
	}

	c, err := graft.Dep[ports.FileCache](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	w, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, fsys, g, c, log, tracer, w), nil
}
