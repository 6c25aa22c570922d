// Package loader implements the dependency-graph loader: recursive, cached
// resolution of one file's composition graph into a deterministic token and
// dependency result.
package loader

import (
	"context"
	"errors"
	"strings"

	"go.trai.ch/swatch/internal/core/domain"
	"go.trai.ch/swatch/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Loader loads style-sheet files and their transitive composition graphs.
// All recursive calls share one Cache; the cache is the only mutable state.
type Loader struct {
	reader      ports.FileReader
	transformer ports.SourceTransformer
	extractor   ports.TokenExtractor
	resolver    ports.SpecifierResolver
	cache       *Cache
}

// New creates a Loader operating against the given per-run cache.
func New(
	reader ports.FileReader,
	transformer ports.SourceTransformer,
	extractor ports.TokenExtractor,
	resolver ports.SpecifierResolver,
	cache *Cache,
) *Loader {
	return &Loader{
		reader:      reader,
		transformer: transformer,
		extractor:   extractor,
		resolver:    resolver,
		cache:       cache,
	}
}

// Load resolves the file's token exports and transitive dependencies.
// Results are snapshots: mutating a returned LoadResult never affects the
// cache or other callers.
func (l *Loader) Load(ctx context.Context, file domain.FileIdentity) (*domain.LoadResult, error) {
	return l.load(ctx, file, nil)
}

// callChain is the set of identities currently being resolved on the active
// recursive path. It is threaded by value through recursion: appends copy,
// so concurrent sibling branches never share backing storage. It exists only
// for cycle detection and is never stored in the cache.
type callChain []domain.FileIdentity

func (c callChain) contains(file domain.FileIdentity) bool {
	for _, f := range c {
		if f == file {
			return true
		}
	}
	return false
}

// last returns the innermost in-flight identity of the chain: the file whose
// load spawned the current work, or the zero identity at the top level.
func (c callChain) last() domain.FileIdentity {
	if len(c) == 0 {
		return domain.FileIdentity{}
	}
	return c[len(c)-1]
}

func (c callChain) push(file domain.FileIdentity) callChain {
	next := make(callChain, len(c), len(c)+1)
	copy(next, c)
	return append(next, file)
}

func (c callChain) path(file domain.FileIdentity) string {
	var b strings.Builder
	start := 0
	for i, f := range c {
		if f == file {
			start = i
			break
		}
	}
	for _, f := range c[start:] {
		b.WriteString(f.String())
		b.WriteString(" -> ")
	}
	b.WriteString(file.String())
	return b.String()
}

func (l *Loader) load(ctx context.Context, file domain.FileIdentity, chain callChain) (*domain.LoadResult, error) {
	if file.IsIgnored() {
		return &domain.LoadResult{}, nil
	}

	// Cycle membership is checked before consulting the cache: a cyclic
	// request always finds its own ancestor in-flight, and awaiting that
	// entry would deadlock the chain. Cycles spanning two concurrent
	// top-level loads never appear in either chain; the cache's waits-for
	// graph catches those in awaitShared.
	if chain.contains(file) {
		return nil, zerr.With(zerr.Wrap(domain.ErrCyclicComposition, ""), "cycle", chain.path(file))
	}

	holder := chain.last()
	entry, claimed := l.cache.Claim(file)
	if !claimed {
		return l.cache.awaitShared(ctx, holder, file, entry)
	}
	if !holder.IsZero() {
		l.cache.linkClaim(holder, file)
	}

	result, err := l.process(ctx, file, chain.push(file))
	if err != nil {
		l.cache.Fail(file, err)
		return nil, err
	}
	l.cache.Resolve(file, result)
	return result.Clone(), nil
}

// compositionTarget is the per-reference slot concurrent child loads write
// into. Slots are examined strictly in document order afterwards, so results
// and errors are deterministic regardless of completion order.
type compositionTarget struct {
	resolved domain.FileIdentity
	result   *domain.LoadResult
	err      error
}

func (l *Loader) process(ctx context.Context, file domain.FileIdentity, chain callChain) (*domain.LoadResult, error) {
	source, err := l.reader.Read(ctx, file)
	if err != nil {
		return nil, zerr.With(err, "file", file.String())
	}

	transformed, err := l.transformer.Transform(ctx, source, ports.TransformContext{
		OriginalLocation: file,
		Resolver:         l.resolver,
		Reader:           l.reader,
	})
	if err != nil {
		return nil, zerr.With(errors.Join(domain.ErrTransformFailed, err), "file", file.String())
	}

	extraction, err := l.extractor.Extract(transformed.CSS)
	if err != nil {
		return nil, zerr.With(err, "file", file.String())
	}

	targets := l.loadCompositionTargets(ctx, file, chain, extraction.Composes)
	for _, t := range targets {
		if t.err != nil {
			return nil, t.err
		}
	}

	merge := newMerger(file, transformed.SourceMap, extraction.Tokens)
	deps := domain.NewIdentitySet()
	deps.AddAll(transformed.PreBundledDependencies)

	for i, ref := range extraction.Composes {
		if ref.IsLocal() {
			merge.composeLocal(ref)
			continue
		}
		merge.composeExternal(ref, targets[i].result)
		deps.Add(targets[i].resolved)
		deps.AddAll(targets[i].result.Dependencies)
	}
	deps.Remove(file)

	return &domain.LoadResult{
		Tokens:       merge.tokens(),
		Dependencies: deps.Sorted(),
	}, nil
}

// loadCompositionTargets resolves and loads every composes-from-file target
// concurrently. Goroutines report through their slot, never through the
// group: an error in one branch must not cancel siblings another top-level
// caller may be awaiting through the shared cache.
func (l *Loader) loadCompositionTargets(
	ctx context.Context,
	file domain.FileIdentity,
	chain callChain,
	refs []domain.ComposesReference,
) []compositionTarget {
	targets := make([]compositionTarget, len(refs))

	var g errgroup.Group
	for i, ref := range refs {
		if ref.IsLocal() {
			continue
		}
		g.Go(func() error {
			resolved, err := l.resolver.Resolve(ref.Specifier, ports.ResolveContext{RequestingFile: file})
			if err != nil {
				// Resolution failure is fatal for the whole load; a missing
				// token inside a resolved file is not.
				targets[i].err = zerr.With(zerr.With(
					errors.Join(domain.ErrUnresolvedComposesTarget, err),
					"specifier", ref.Specifier),
					"file", file.String())
				return nil
			}
			targets[i].resolved = resolved
			if resolved.IsIgnored() {
				targets[i].result = &domain.LoadResult{}
				return nil
			}
			result, err := l.load(ctx, resolved, chain)
			if err != nil {
				targets[i].err = err
				return nil
			}
			targets[i].result = result
			return nil
		})
	}
	_ = g.Wait()

	return targets
}
