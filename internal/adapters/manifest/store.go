// Package manifest persists per-file generation records between runs using a
// file-per-source strategy under the project cache directory.
package manifest

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/swatch/internal/core/domain"
	"go.trai.ch/zerr"
)

// Store implements ports.ManifestStore.
type Store struct{}

// NewStore creates a manifest store. Records live under the project root so
// different projects never share state.
func NewStore() (*Store, error) {
	return &Store{}, nil
}

// Get retrieves the generation record for a top-level file. A missing record
// is not an error: it returns nil, nil.
func (s *Store) Get(root string, file domain.FileIdentity) (*domain.GenerationRecord, error) {
	filename := s.recordPath(root, file.String())
	//nolint:gosec // Path is constructed from trusted directory and hashed filename
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.Wrap(err, domain.ErrManifestReadFailed.Error())
	}

	var record domain.GenerationRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, zerr.Wrap(err, domain.ErrManifestUnmarshalFailed.Error())
	}

	return &record, nil
}

// Put stores the generation record for a top-level file.
func (s *Store) Put(root string, record domain.GenerationRecord) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrManifestMarshalFailed.Error())
	}

	filename := s.recordPath(root, record.File)
	if err := os.MkdirAll(filepath.Dir(filename), domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrManifestCreateFailed.Error())
	}

	//nolint:gosec // Path is constructed from trusted directory and hashed filename
	if err := os.WriteFile(filename, data, domain.FilePerm); err != nil {
		return zerr.Wrap(err, domain.ErrManifestWriteFailed.Error())
	}

	return nil
}

// Clean removes every stored record for the project.
func (s *Store) Clean(root string) error {
	dir := filepath.Join(root, domain.DefaultManifestPath())
	if err := os.RemoveAll(dir); err != nil {
		return zerr.Wrap(err, domain.ErrManifestWriteFailed.Error())
	}
	return nil
}

func (s *Store) recordPath(root, file string) string {
	key := strconv.FormatUint(xxhash.Sum64String(file), 16)
	return filepath.Join(root, domain.DefaultManifestPath(), key+".json")
}
