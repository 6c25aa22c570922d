package ports

import "go.trai.ch/swatch/internal/core/domain"

// TokenExtractor scans normalized CSS for class tokens and composition
// references.
//
//go:generate mockgen -source=extractor.go -destination=mocks/mock_extractor.go -package=mocks
type TokenExtractor interface {
	// Extract returns the local tokens and composition references of the
	// document, both in document order. Malformed input fails with
	// domain.ErrExtractionFailed.
	Extract(css string) (*domain.Extraction, error)
}
