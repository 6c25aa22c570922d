package app_test

import (
	"context"
	"errors"
	"iter"
	"os"
	"path/filepath"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/swatch/internal/adapters/emitter"
	"go.trai.ch/swatch/internal/adapters/fs"
	"go.trai.ch/swatch/internal/adapters/manifest"
	"go.trai.ch/swatch/internal/app"
	"go.trai.ch/swatch/internal/core/domain"
	"go.trai.ch/swatch/internal/core/ports"
	"go.trai.ch/swatch/internal/core/ports/mocks"
	"go.trai.ch/swatch/internal/engine/extractor"
	"go.uber.org/mock/gomock"
)

// appFixture wires an App over the real filesystem adapters with a mocked
// configuration loader, watcher and logger.
type appFixture struct {
	app     *app.App
	root    string
	config  *mocks.MockConfigLoader
	watcher *mocks.MockWatcher
	logger  *mocks.MockLogger
}

func newAppFixture(t *testing.T) *appFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &appFixture{
		root:    t.TempDir(),
		config:  mocks.NewMockConfigLoader(ctrl),
		watcher: mocks.NewMockWatcher(ctrl),
		logger:  mocks.NewMockLogger(ctrl),
	}
	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	f.logger.EXPECT().Warn(gomock.Any()).AnyTimes()

	store, err := manifest.NewStore()
	require.NoError(t, err)

	f.app = app.New(
		f.config,
		fs.NewReader(),
		fs.NewLocator(),
		extractor.New(),
		emitter.New(),
		store,
		f.watcher,
		f.logger,
	)
	return f
}

// expectConfig stubs the configuration loader with a config rooted at the
// fixture's temp directory.
func (f *appFixture) expectConfig(mutate func(cfg *domain.Config)) {
	cfg := &domain.Config{
		Root:     f.root,
		Patterns: domain.DefaultPatterns,
	}
	if mutate != nil {
		mutate(cfg)
	}
	f.config.EXPECT().Load(gomock.Any()).Return(cfg, nil).AnyTimes()
}

func (f *appFixture) write(t *testing.T, rel, content string) string {
	t.Helper()
	path := filepath.Join(f.root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestApp_Generate(t *testing.T) {
	f := newAppFixture(t)
	f.expectConfig(nil)

	f.write(t, "src/button.module.css", ".primary {}\n.active { composes: primary; }\n")

	err := f.app.Generate(context.Background(), f.root, app.GenerateOptions{})
	require.NoError(t, err)

	declaration, err := os.ReadFile(filepath.Join(f.root, "src", "button.module.css.d.ts"))
	require.NoError(t, err)
	assert.Contains(t, string(declaration), `readonly "primary": string;`)
	assert.Contains(t, string(declaration), `readonly "active": string;`)
}

func TestApp_Generate_SkipsUpToDateFiles(t *testing.T) {
	f := newAppFixture(t)
	f.expectConfig(nil)

	f.write(t, "card.module.css", ".card {}\n")
	outPath := filepath.Join(f.root, "card.module.css.d.ts")

	require.NoError(t, f.app.Generate(context.Background(), f.root, app.GenerateOptions{}))

	// Overwrite the declaration; an up-to-date source must not regenerate it.
	require.NoError(t, os.WriteFile(outPath, []byte("sentinel"), 0o644))
	require.NoError(t, f.app.Generate(context.Background(), f.root, app.GenerateOptions{}))

	content, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "sentinel", string(content), "up-to-date file must be skipped")

	// Force bypasses the manifest check.
	require.NoError(t, f.app.Generate(context.Background(), f.root, app.GenerateOptions{Force: true}))
	content, err = os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), `readonly "card": string;`)
}

func TestApp_Generate_RegeneratesWhenOutputMissing(t *testing.T) {
	f := newAppFixture(t)
	f.expectConfig(nil)

	f.write(t, "badge.module.css", ".badge {}\n")
	outPath := filepath.Join(f.root, "badge.module.css.d.ts")

	require.NoError(t, f.app.Generate(context.Background(), f.root, app.GenerateOptions{}))
	require.NoError(t, os.Remove(outPath))

	require.NoError(t, f.app.Generate(context.Background(), f.root, app.GenerateOptions{}))
	assert.FileExists(t, outPath)
}

func TestApp_Generate_IsolatesFailures(t *testing.T) {
	f := newAppFixture(t)
	f.expectConfig(nil)

	f.write(t, "good.module.css", ".ok {}\n")
	f.write(t, "broken.module.css", `.a { composes: b from "./missing.css"; }`+"\n")

	var logged error
	f.logger.EXPECT().Error(gomock.Any()).Do(func(err error) {
		logged = err
	})

	err := f.app.Generate(context.Background(), f.root, app.GenerateOptions{})
	require.ErrorIs(t, err, domain.ErrGenerationFailed)

	require.Error(t, logged)
	assert.ErrorIs(t, logged, domain.ErrUnresolvedComposesTarget)
	assert.Contains(t, logged.Error(), "broken.module.css")

	// The healthy sibling was still generated.
	assert.FileExists(t, filepath.Join(f.root, "good.module.css.d.ts"))
	assert.NoFileExists(t, filepath.Join(f.root, "broken.module.css.d.ts"))
}

func TestApp_Generate_NoFilesMatched(t *testing.T) {
	f := newAppFixture(t)
	f.expectConfig(nil)

	err := f.app.Generate(context.Background(), f.root, app.GenerateOptions{})
	assert.ErrorIs(t, err, domain.ErrNoFilesMatched)
}

func TestApp_Generate_ConfigLoadFailure(t *testing.T) {
	f := newAppFixture(t)
	f.config.EXPECT().Load(gomock.Any()).Return(nil, domain.ErrConfigNotFound)

	err := f.app.Generate(context.Background(), f.root, app.GenerateOptions{})
	assert.ErrorIs(t, err, domain.ErrConfigNotFound)
}

func TestApp_Clean(t *testing.T) {
	f := newAppFixture(t)
	f.expectConfig(nil)

	f.write(t, "chip.module.css", ".chip {}\n")
	require.NoError(t, f.app.Generate(context.Background(), f.root, app.GenerateOptions{}))

	manifestDir := filepath.Join(f.root, domain.DefaultManifestPath())
	require.DirExists(t, manifestDir)

	require.NoError(t, f.app.Clean(context.Background(), f.root))
	assert.NoDirExists(t, manifestDir)
}

func TestApp_Watch_RegeneratesOnChange(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newAppFixture(t)
		f.expectConfig(nil)
		f.app.WithDebounceWindow(50 * time.Millisecond)

		cssPath := f.write(t, "theme.module.css", ".light {}\n")
		outPath := filepath.Join(f.root, "theme.module.css.d.ts")

		events := make(chan ports.WatchEvent)
		f.watcher.EXPECT().Start(gomock.Any(), f.root).Return(nil)
		f.watcher.EXPECT().Events().Return(iter.Seq[ports.WatchEvent](func(yield func(ports.WatchEvent) bool) {
			for event := range events {
				if !yield(event) {
					return
				}
			}
		}))
		f.watcher.EXPECT().Stop().Return(nil)

		ctx, cancel := context.WithCancel(context.Background())
		watchErr := make(chan error, 1)
		go func() {
			watchErr <- f.app.Watch(ctx, f.root)
		}()
		synctest.Wait()

		declaration, err := os.ReadFile(outPath)
		require.NoError(t, err, "initial generation must run before watching")
		assert.Contains(t, string(declaration), `readonly "light": string;`)

		// Change the source; bump the mtime past the recorded stamp since
		// both writes can land in the same second.
		require.NoError(t, os.WriteFile(cssPath, []byte(".light {}\n.dark {}\n"), 0o644))
		stamp := time.Now().Add(2 * time.Second)
		require.NoError(t, os.Chtimes(cssPath, stamp, stamp))

		events <- ports.WatchEvent{Path: cssPath, Operation: ports.OpWrite}
		time.Sleep(60 * time.Millisecond)
		synctest.Wait()

		declaration, err = os.ReadFile(outPath)
		require.NoError(t, err)
		assert.Contains(t, string(declaration), `readonly "dark": string;`)

		cancel()
		close(events)
		require.NoError(t, <-watchErr)
	})
}

func TestApp_Watch_IgnoresUnrelatedExtensions(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newAppFixture(t)
		f.expectConfig(nil)
		f.app.WithDebounceWindow(50 * time.Millisecond)

		f.write(t, "panel.module.css", ".panel {}\n")
		outPath := filepath.Join(f.root, "panel.module.css.d.ts")

		events := make(chan ports.WatchEvent)
		f.watcher.EXPECT().Start(gomock.Any(), f.root).Return(nil)
		f.watcher.EXPECT().Events().Return(iter.Seq[ports.WatchEvent](func(yield func(ports.WatchEvent) bool) {
			for event := range events {
				if !yield(event) {
					return
				}
			}
		}))
		f.watcher.EXPECT().Stop().Return(nil)

		ctx, cancel := context.WithCancel(context.Background())
		watchErr := make(chan error, 1)
		go func() {
			watchErr <- f.app.Watch(ctx, f.root)
		}()
		synctest.Wait()
		require.FileExists(t, outPath)

		// Overwrite the declaration, then touch an unrelated file: no
		// regeneration may fire.
		require.NoError(t, os.WriteFile(outPath, []byte("sentinel"), 0o644))
		events <- ports.WatchEvent{Path: filepath.Join(f.root, "notes.md"), Operation: ports.OpWrite}
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()

		content, err := os.ReadFile(outPath)
		require.NoError(t, err)
		assert.Equal(t, "sentinel", string(content))

		cancel()
		close(events)
		require.NoError(t, <-watchErr)
	})
}

func TestApp_Watch_StartFailure(t *testing.T) {
	f := newAppFixture(t)
	f.expectConfig(nil)
	f.write(t, "spin.module.css", ".spin {}\n")

	f.watcher.EXPECT().Start(gomock.Any(), f.root).Return(errors.New("inotify limit reached"))

	err := f.app.Watch(context.Background(), f.root)
	assert.ErrorIs(t, err, domain.ErrWatchFailed)
}
