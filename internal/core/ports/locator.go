package ports

import (
	"go.trai.ch/swatch/internal/core/domain"
)

// Locator enumerates the top-level style-sheet files of a project.
//
//go:generate mockgen -source=locator.go -destination=mocks/mock_locator.go -package=mocks
type Locator interface {
	// Locate walks root and returns every file matching one of the glob
	// patterns and none of the ignore patterns, sorted by path. Patterns use
	// `**` to cross directory boundaries and are matched against paths
	// relative to root.
	Locate(root string, patterns, ignore []string) ([]domain.FileIdentity, error)
}
