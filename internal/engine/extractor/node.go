package extractor

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/swatch/internal/core/ports"
)

// NodeID is the unique identifier for the token extractor Graft node.
const NodeID graft.ID = "engine.extractor"

func init() {
	graft.Register(graft.Node[ports.TokenExtractor]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.TokenExtractor, error) {
			return New(), nil
		},
	})
}
