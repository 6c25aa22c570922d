package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/swatch/internal/adapters/config"
	"go.trai.ch/swatch/internal/adapters/emitter"
	"go.trai.ch/swatch/internal/adapters/fs"
	"go.trai.ch/swatch/internal/adapters/logger"
	"go.trai.ch/swatch/internal/adapters/manifest"
	"go.trai.ch/swatch/internal/adapters/watcher"
	"go.trai.ch/swatch/internal/core/ports"
	"go.trai.ch/swatch/internal/engine/extractor"
)

// Components bundles the constructed application with the collaborators the
// entry point needs directly.
type Components struct {
	App    *App
	Logger ports.Logger
}

// NodeID is the unique identifier for the application components Graft node.
const NodeID graft.ID = "app.components"

func init() {
	graft.Register(graft.Node[*Components]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			logger.NodeID,
			config.NodeID,
			fs.ReaderNodeID,
			fs.LocatorNodeID,
			extractor.NodeID,
			emitter.NodeID,
			manifest.NodeID,
			watcher.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			configLoader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return nil, err
			}
			reader, err := graft.Dep[ports.FileReader](ctx)
			if err != nil {
				return nil, err
			}
			locator, err := graft.Dep[ports.Locator](ctx)
			if err != nil {
				return nil, err
			}
			tokenExtractor, err := graft.Dep[ports.TokenExtractor](ctx)
			if err != nil {
				return nil, err
			}
			emit, err := graft.Dep[ports.Emitter](ctx)
			if err != nil {
				return nil, err
			}
			store, err := graft.Dep[ports.ManifestStore](ctx)
			if err != nil {
				return nil, err
			}
			w, err := graft.Dep[ports.Watcher](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{
				App:    New(configLoader, reader, locator, tokenExtractor, emit, store, w, log),
				Logger: log,
			}, nil
		},
	})
}
