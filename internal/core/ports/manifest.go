package ports

import "go.trai.ch/swatch/internal/core/domain"

// ManifestStore persists generation records between runs so unchanged files
// can skip regeneration entirely. It operates on file modification metadata
// only; it never inspects load results.
//
//go:generate mockgen -source=manifest.go -destination=mocks/mock_manifest.go -package=mocks
type ManifestStore interface {
	// Get retrieves the record for a top-level file.
	// It returns nil, nil when no record exists.
	Get(root string, file domain.FileIdentity) (*domain.GenerationRecord, error)

	// Put stores the record for a top-level file.
	Put(root string, record domain.GenerationRecord) error

	// Clean removes every stored record for the project.
	Clean(root string) error
}
