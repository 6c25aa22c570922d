package manifest_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/swatch/internal/adapters/manifest"
	"go.trai.ch/swatch/internal/core/domain"
)

func TestStore_PutGet(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	store, err := manifest.NewStore()
	require.NoError(t, err)

	file := domain.NewFileIdentity(filepath.Join(tmpDir, "src", "button.module.css"))
	now := time.Now()
	record := domain.GenerationRecord{
		File:    file.String(),
		ModTime: now.Unix(),
		Dependencies: []domain.DependencyStamp{
			{Path: filepath.Join(tmpDir, "src", "base.module.css"), ModTime: now.Unix()},
		},
		Outputs:     []string{filepath.Join(tmpDir, "src", "button.module.css.d.ts")},
		GeneratedAt: now.Truncate(time.Second), // Truncate because JSON unmarshal might lose precision
	}

	t.Run("put and get", func(t *testing.T) {
		require.NoError(t, store.Put(tmpDir, record))

		got, err := store.Get(tmpDir, file)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, record.File, got.File)
		assert.Equal(t, record.ModTime, got.ModTime)
		assert.Equal(t, record.Outputs, got.Outputs)
		require.Len(t, got.Dependencies, 1)
		assert.Equal(t, record.Dependencies[0], got.Dependencies[0])
	})

	t.Run("get missing", func(t *testing.T) {
		got, err := store.Get(tmpDir, domain.NewFileIdentity(filepath.Join(tmpDir, "missing.module.css")))
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("records live under the project cache directory", func(t *testing.T) {
		entries, err := os.ReadDir(filepath.Join(tmpDir, domain.DefaultManifestPath()))
		require.NoError(t, err)
		assert.NotEmpty(t, entries)
	})

	t.Run("get corrupt", func(t *testing.T) {
		tmpDir2 := t.TempDir()
		file2 := domain.NewFileIdentity(filepath.Join(tmpDir2, "a.module.css"))
		require.NoError(t, store.Put(tmpDir2, domain.GenerationRecord{File: file2.String()}))

		dir := filepath.Join(tmpDir2, domain.DefaultManifestPath())
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		require.NoError(t, os.WriteFile(filepath.Join(dir, entries[0].Name()), []byte("{ invalid json"), 0o600))

		_, err = store.Get(tmpDir2, file2)
		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrManifestUnmarshalFailed.Error())
	})
}

func TestStore_Clean(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	store, err := manifest.NewStore()
	require.NoError(t, err)

	file := domain.NewFileIdentity(filepath.Join(tmpDir, "a.module.css"))
	require.NoError(t, store.Put(tmpDir, domain.GenerationRecord{File: file.String()}))

	require.NoError(t, store.Clean(tmpDir))

	got, err := store.Get(tmpDir, file)
	require.NoError(t, err)
	assert.Nil(t, got)

	// Cleaning an already clean project is a no-op.
	require.NoError(t, store.Clean(tmpDir))
}
