package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/swatch/internal/core/ports"
)

const (
	// ReaderNodeID is the unique identifier for the file reader Graft node.
	ReaderNodeID graft.ID = "adapter.file_reader"
	// LocatorNodeID is the unique identifier for the locator Graft node.
	LocatorNodeID graft.ID = "adapter.locator"
)

func init() {
	graft.Register(graft.Node[ports.FileReader]{
		ID:        ReaderNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.FileReader, error) {
			return NewReader(), nil
		},
	})

	graft.Register(graft.Node[ports.Locator]{
		ID:        LocatorNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Locator, error) {
			return NewLocator(), nil
		},
	})
}
