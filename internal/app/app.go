// Package app implements the application layer for swatch.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"go.trai.ch/swatch/internal/adapters/resolver"
	"go.trai.ch/swatch/internal/adapters/transformer"
	"go.trai.ch/swatch/internal/adapters/watcher"
	"go.trai.ch/swatch/internal/core/domain"
	"go.trai.ch/swatch/internal/core/ports"
	"go.trai.ch/swatch/internal/engine/loader"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App orchestrates declaration generation: batch runs, watch mode and cache
// cleanup.
type App struct {
	configLoader ports.ConfigLoader
	reader       ports.FileReader
	locator      ports.Locator
	extractor    ports.TokenExtractor
	emitter      ports.Emitter
	manifest     ports.ManifestStore
	watcher      ports.Watcher
	logger       ports.Logger

	concurrency    int
	debounceWindow time.Duration
}

// New creates an App instance.
func New(
	configLoader ports.ConfigLoader,
	reader ports.FileReader,
	locator ports.Locator,
	extractor ports.TokenExtractor,
	emitter ports.Emitter,
	manifest ports.ManifestStore,
	w ports.Watcher,
	log ports.Logger,
) *App {
	return &App{
		configLoader:   configLoader,
		reader:         reader,
		locator:        locator,
		extractor:      extractor,
		emitter:        emitter,
		manifest:       manifest,
		watcher:        w,
		logger:         log,
		concurrency:    runtime.NumCPU(),
		debounceWindow: watcher.DefaultDebounceWindow,
	}
}

// WithConcurrency caps the number of top-level files generated in parallel.
// This is primarily used for testing deterministic schedules.
func (a *App) WithConcurrency(n int) *App {
	if n > 0 {
		a.concurrency = n
	}
	return a
}

// WithDebounceWindow overrides the watch-mode debounce window.
// This is primarily used for testing with synctest.
func (a *App) WithDebounceWindow(d time.Duration) *App {
	if d > 0 {
		a.debounceWindow = d
	}
	return a
}

// GenerateOptions configuration for the Generate method.
type GenerateOptions struct {
	// Force regenerates every file even when its manifest record is current.
	Force bool
}

// Generate runs one batch generation for the project containing cwd.
// Failures are isolated per top-level file: siblings keep generating, each
// failure is logged with its file identity, and the batch fails with
// domain.ErrGenerationFailed if any file failed.
func (a *App) Generate(ctx context.Context, cwd string, opts GenerateOptions) error {
	cfg, err := a.configLoader.Load(cwd)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	run, err := a.newRun(cfg)
	if err != nil {
		return err
	}

	return run.generateAll(ctx, opts.Force)
}

// Clean removes every generation record for the project containing cwd.
// Declaration files are left in place.
func (a *App) Clean(_ context.Context, cwd string) error {
	cfg, err := a.configLoader.Load(cwd)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	if err := a.manifest.Clean(cfg.Root); err != nil {
		return err
	}
	a.logger.Info("removed generation manifest")
	return nil
}

// run is the per-invocation state of a generation: the loaded configuration
// and a fresh load cache with its loader pipeline. Watch mode keeps one run
// alive across regenerations and evicts stale cache entries selectively.
type run struct {
	app    *App
	cfg    *domain.Config
	cache  *loader.Cache
	loader *loader.Loader
}

func (a *App) newRun(cfg *domain.Config) (*run, error) {
	res, err := resolver.New(resolver.FromConfig(cfg))
	if err != nil {
		return nil, err
	}

	cache := loader.NewCache()
	return &run{
		app:    a,
		cfg:    cfg,
		cache:  cache,
		loader: loader.New(a.reader, transformer.NewRegistry(cfg.Dialects, a.logger), a.extractor, res, cache),
	}, nil
}

// fileStatus is the outcome of one top-level file in a batch.
type fileStatus uint8

const (
	statusGenerated fileStatus = iota
	statusUpToDate
	statusFailed
)

// generateAll locates the project's top-level files and generates each one,
// bounded by the configured concurrency.
func (r *run) generateAll(ctx context.Context, force bool) error {
	files, err := r.app.locator.Locate(r.cfg.Root, r.cfg.Patterns, r.cfg.Ignore)
	if err != nil {
		return zerr.Wrap(err, "failed to locate style sheets")
	}
	if len(files) == 0 {
		return domain.ErrNoFilesMatched
	}

	start := time.Now()

	var mu sync.Mutex
	counts := map[fileStatus]int{}

	var g errgroup.Group
	g.SetLimit(r.app.concurrency)
	for _, file := range files {
		g.Go(func() error {
			status := r.generateFile(ctx, file, force)
			mu.Lock()
			counts[status]++
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	r.app.logger.Info(fmt.Sprintf(
		"generated %d declaration files (%d up to date) in %s",
		counts[statusGenerated], counts[statusUpToDate], time.Since(start).Round(time.Millisecond),
	))

	if counts[statusFailed] > 0 {
		return zerr.With(zerr.Wrap(domain.ErrGenerationFailed, ""), "failed", counts[statusFailed])
	}
	return nil
}

// generateFile generates the declaration for one top-level file. Errors are
// logged here, with the file identity attached, rather than returned: one
// file failing must not stop its siblings.
func (r *run) generateFile(ctx context.Context, file domain.FileIdentity, force bool) fileStatus {
	if !force && r.upToDate(file) {
		return statusUpToDate
	}

	result, err := r.loader.Load(ctx, file)
	if err != nil {
		r.app.logger.Error(zerr.With(err, "file", file.String()))
		return statusFailed
	}

	outputs, err := r.app.emitter.Emit(file, result, ports.EmitOptions{
		NamedExports:   r.cfg.Output.NamedExports,
		DeclarationMap: r.cfg.Output.DeclarationMap,
		OutDir:         r.cfg.Output.OutDir,
		RootDir:        r.cfg.Root,
	})
	if err != nil {
		r.app.logger.Error(zerr.With(err, "file", file.String()))
		return statusFailed
	}

	if err := r.app.manifest.Put(r.cfg.Root, r.buildRecord(file, result, outputs)); err != nil {
		// The manifest is advisory: losing a record costs one redundant
		// regeneration, not correctness.
		r.app.logger.Warn(fmt.Sprintf("could not record manifest entry for %s: %v", file, err))
	}

	return statusGenerated
}

// upToDate reports whether the manifest record for file still matches the
// observed modification times of the file, every recorded dependency, and
// whether every recorded output still exists. Any record or stat problem
// counts as stale.
func (r *run) upToDate(file domain.FileIdentity) bool {
	record, err := r.app.manifest.Get(r.cfg.Root, file)
	if err != nil || record == nil {
		return false
	}

	mt, err := r.app.reader.ModTime(file)
	if err != nil || mt.Unix() != record.ModTime {
		return false
	}

	for _, dep := range record.Dependencies {
		mt, err := r.app.reader.ModTime(domain.NewFileIdentity(dep.Path))
		if err != nil || mt.Unix() != dep.ModTime {
			return false
		}
	}

	for _, out := range record.Outputs {
		if _, err := os.Stat(out); err != nil {
			return false
		}
	}

	return true
}

// buildRecord assembles the manifest entry for a completed generation.
// Stamps that cannot be read are recorded as zero so the next run sees the
// record as stale.
func (r *run) buildRecord(file domain.FileIdentity, result *domain.LoadResult, outputs []string) domain.GenerationRecord {
	record := domain.GenerationRecord{
		File:        file.String(),
		ModTime:     r.stamp(file),
		Outputs:     outputs,
		GeneratedAt: time.Now(),
	}
	for _, dep := range result.Dependencies {
		record.Dependencies = append(record.Dependencies, domain.DependencyStamp{
			Path:    dep.String(),
			ModTime: r.stamp(dep),
		})
	}
	return record
}

func (r *run) stamp(file domain.FileIdentity) int64 {
	mt, err := r.app.reader.ModTime(file)
	if err != nil {
		return 0
	}
	return mt.Unix()
}

// Watch generates once, then regenerates affected files as sources change,
// until ctx is cancelled. The load cache is kept warm across regenerations;
// changed files and everything that depends on them are evicted before each
// pass.
func (a *App) Watch(ctx context.Context, cwd string) error {
	cfg, err := a.configLoader.Load(cwd)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	run, err := a.newRun(cfg)
	if err != nil {
		return err
	}

	run.regenerate(ctx)

	if err := a.watcher.Start(ctx, cfg.Root); err != nil {
		return errors.Join(domain.ErrWatchFailed, err)
	}
	defer func() {
		_ = a.watcher.Stop()
	}()

	changes := make(chan []domain.FileIdentity)
	debouncer := watcher.NewDebouncer(a.debounceWindow, func(files []domain.FileIdentity) {
		select {
		case changes <- files:
		case <-ctx.Done():
		}
	})

	go func() {
		exts := cfg.Extensions()
		for event := range a.watcher.Events() {
			if !hasExtension(event.Path, exts) {
				continue
			}
			debouncer.Add(event.Path)
		}
	}()

	a.logger.Info(fmt.Sprintf("watching %s for changes", cfg.Root))

	for {
		select {
		case <-ctx.Done():
			return nil
		case changed := <-changes:
			run.invalidate(changed)
			run.regenerate(ctx)
		}
	}
}

// regenerate runs one batch pass, downgrading batch-level outcomes to log
// lines: watch mode keeps running through failures and empty matches.
func (r *run) regenerate(ctx context.Context) {
	err := r.generateAll(ctx, false)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNoFilesMatched):
		r.app.logger.Warn(domain.ErrNoFilesMatched.Error())
	case errors.Is(err, domain.ErrGenerationFailed):
		// Per-file failures were already logged with their identities.
	default:
		r.app.logger.Error(err)
	}
}

// invalidate evicts the changed identities and every cached result that
// depends on one of them. Dependency lists hold the transitive closure, so a
// single pass over the resolved entries suffices.
func (r *run) invalidate(changed []domain.FileIdentity) {
	changedSet := domain.NewIdentitySet(changed...)
	for _, file := range changed {
		r.cache.Evict(file)
	}

	var stale []domain.FileIdentity
	for file, result := range r.cache.Resolved() {
		for _, dep := range result.Dependencies {
			if changedSet.Contains(dep) {
				stale = append(stale, file)
				break
			}
		}
	}
	for _, file := range stale {
		r.cache.Evict(file)
	}
}

func hasExtension(path string, exts []string) bool {
	file := domain.NewFileIdentity(path)
	for _, ext := range exts {
		if file.Ext() == ext {
			return true
		}
	}
	return false
}
