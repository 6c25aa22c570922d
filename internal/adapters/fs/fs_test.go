package fs_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/swatch/internal/adapters/fs"
	"go.trai.ch/swatch/internal/core/domain"
)

func TestReader_Read(t *testing.T) {
	t.Run("returns file content", func(t *testing.T) {
		tmpDir := t.TempDir()
		file := filepath.Join(tmpDir, "button.module.css")
		require.NoError(t, os.WriteFile(file, []byte(".primary {}"), domain.FilePerm))

		reader := fs.NewReader()
		content, err := reader.Read(context.Background(), domain.NewFileIdentity(file))
		require.NoError(t, err)
		assert.Equal(t, ".primary {}", content)
	})

	t.Run("missing file maps to ErrNotFound", func(t *testing.T) {
		reader := fs.NewReader()
		_, err := reader.Read(context.Background(), domain.NewFileIdentity(filepath.Join(t.TempDir(), "gone.css")))
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("unreadable file maps to ErrPermissionDenied", func(t *testing.T) {
		if os.Getuid() == 0 {
			t.Skip("root ignores file permissions")
		}
		tmpDir := t.TempDir()
		file := filepath.Join(tmpDir, "locked.css")
		require.NoError(t, os.WriteFile(file, []byte(".a {}"), 0o000))

		reader := fs.NewReader()
		_, err := reader.Read(context.Background(), domain.NewFileIdentity(file))
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrPermissionDenied))
	})

	t.Run("cancelled context aborts before reading", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		reader := fs.NewReader()
		_, err := reader.Read(ctx, domain.NewFileIdentity("/irrelevant.css"))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestReader_ModTime(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "a.css")
	require.NoError(t, os.WriteFile(file, []byte(".a {}"), domain.FilePerm))

	reader := fs.NewReader()
	mtime, err := reader.ModTime(domain.NewFileIdentity(file))
	require.NoError(t, err)
	assert.False(t, mtime.IsZero())

	_, err = reader.ModTime(domain.NewFileIdentity(filepath.Join(tmpDir, "gone.css")))
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestLocator_Locate(t *testing.T) {
	setup := func(t *testing.T, paths ...string) string {
		t.Helper()
		tmpDir := t.TempDir()
		for _, p := range paths {
			full := filepath.Join(tmpDir, filepath.FromSlash(p))
			require.NoError(t, os.MkdirAll(filepath.Dir(full), domain.DirPerm))
			require.NoError(t, os.WriteFile(full, []byte(".a {}"), domain.FilePerm))
		}
		return tmpDir
	}

	rel := func(root string, files []domain.FileIdentity) []string {
		out := make([]string, len(files))
		for i, f := range files {
			r, err := filepath.Rel(root, f.String())
			require.NoError(t, err)
			out[i] = filepath.ToSlash(r)
		}
		return out
	}

	t.Run("doublestar patterns cross directories and results are sorted", func(t *testing.T) {
		root := setup(t,
			"src/button.module.css",
			"src/nested/card.module.css",
			"src/nested/card.css",
			"top.module.css",
		)

		locator := fs.NewLocator()
		files, err := locator.Locate(root, []string{"**/*.module.css"}, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{
			"src/button.module.css",
			"src/nested/card.module.css",
			"top.module.css",
		}, rel(root, files))
	})

	t.Run("ignore patterns and vendored directories are excluded", func(t *testing.T) {
		root := setup(t,
			"src/a.module.css",
			"src/legacy/b.module.css",
			"node_modules/pkg/c.module.css",
			".swatch/manifest/v1/d.module.css",
		)

		locator := fs.NewLocator()
		files, err := locator.Locate(root, []string{"**/*.module.css"}, []string{"src/legacy/**"})
		require.NoError(t, err)
		assert.Equal(t, []string{"src/a.module.css"}, rel(root, files))
	})

	t.Run("invalid pattern is rejected", func(t *testing.T) {
		locator := fs.NewLocator()
		_, err := locator.Locate(t.TempDir(), []string{"[broken"}, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInvalidIgnorePattern))
	})

	t.Run("no matches is not an error", func(t *testing.T) {
		root := setup(t, "readme.md")
		locator := fs.NewLocator()
		files, err := locator.Locate(root, []string{"**/*.module.css"}, nil)
		require.NoError(t, err)
		assert.Empty(t, files)
	})
}
