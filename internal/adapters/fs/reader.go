// Package fs provides the filesystem adapters: the source reader and the
// glob-pattern locator used to enumerate top-level files.
package fs

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"time"

	"go.trai.ch/swatch/internal/core/domain"
	"go.trai.ch/zerr"
)

// Reader reads style-sheet sources from the local filesystem.
type Reader struct{}

// NewReader creates a filesystem reader.
func NewReader() *Reader {
	return &Reader{}
}

// Read returns the file's content. OS-level failures are mapped onto the
// domain sentinels so callers can branch on errors.Is without knowing the
// adapter.
func (r *Reader) Read(ctx context.Context, file domain.FileIdentity) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(file.String())
	if err != nil {
		return "", mapOSError(err, file)
	}
	return string(data), nil
}

// ModTime returns the file's modification time.
func (r *Reader) ModTime(file domain.FileIdentity) (time.Time, error) {
	info, err := os.Stat(file.String())
	if err != nil {
		return time.Time{}, mapOSError(err, file)
	}
	return info.ModTime(), nil
}

func mapOSError(err error, file domain.FileIdentity) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return zerr.With(errors.Join(domain.ErrNotFound, err), "file", file.String())
	case errors.Is(err, fs.ErrPermission):
		return zerr.With(errors.Join(domain.ErrPermissionDenied, err), "file", file.String())
	default:
		return zerr.With(zerr.Wrap(err, "read file"), "file", file.String())
	}
}
