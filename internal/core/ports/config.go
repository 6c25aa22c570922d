package ports

import "go.trai.ch/swatch/internal/core/domain"

// ConfigLoader locates and loads the project configuration.
//
//go:generate mockgen -source=config.go -destination=mocks/mock_config.go -package=mocks
type ConfigLoader interface {
	// Load walks upward from cwd looking for a config file, parses and
	// validates it. A missing file fails with domain.ErrConfigNotFound.
	Load(cwd string) (*domain.Config, error)
}
