package ports

import (
	"context"
	"time"

	"go.trai.ch/swatch/internal/core/domain"
)

// FileReader reads style-sheet sources from disk.
//
//go:generate mockgen -source=reader.go -destination=mocks/mock_reader.go -package=mocks
type FileReader interface {
	// Read returns the content of the file. Missing files fail with
	// domain.ErrNotFound, unreadable files with domain.ErrPermissionDenied.
	Read(ctx context.Context, file domain.FileIdentity) (string, error)

	// ModTime returns the modification time of the file.
	ModTime(file domain.FileIdentity) (time.Time, error)
}
