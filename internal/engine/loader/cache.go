package loader

import (
	"context"
	"iter"
	"strings"
	"sync"

	"go.trai.ch/swatch/internal/core/domain"
	"go.trai.ch/zerr"
)

// EntryState is the lifecycle state of a cache entry.
type EntryState uint8

const (
	// StateUnrequested indicates no load has been requested for the identity.
	StateUnrequested EntryState = iota
	// StateInFlight indicates a load is currently running.
	StateInFlight
	// StateResolved indicates the load completed successfully.
	StateResolved
)

// Cache memoizes load results for one run (or one watch epoch). It is the
// only shared mutable state of the loader: the claim step is atomic so two
// concurrent callers can never both begin a transform for the same identity.
//
// A failed entry is delivered to every caller that fanned into the in-flight
// attempt and then dropped, so a later fresh top-level load may retry.
type Cache struct {
	mu      sync.Mutex
	entries map[domain.FileIdentity]*entry

	// waits is the waits-for graph over in-flight loads, as counted edges.
	// A claim edge says an in-flight parent spawned (and blocks on) a child
	// load; an await edge says a load is blocked on another chain's shared
	// entry. The per-chain membership check never sees across chains, so a
	// cycle here is a deadlock between concurrent top-level loads: the edge
	// that would close one fails instead.
	waits map[domain.FileIdentity]map[domain.FileIdentity]int
}

// entry tracks one in-flight or resolved load. done is closed exactly once,
// after which either result or err is set. holder is the in-flight parent
// that spawned the load, if any; its claim edge is dropped on completion.
type entry struct {
	done   chan struct{}
	holder domain.FileIdentity
	result *domain.LoadResult
	err    error
}

// NewCache creates an empty cache for one run.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[domain.FileIdentity]*entry),
		waits:   make(map[domain.FileIdentity]map[domain.FileIdentity]int),
	}
}

// Claim atomically checks for an existing entry and, when there is none,
// claims the identity as in-flight. claimed reports whether the caller now
// owns the load and must complete it with Resolve or Fail; otherwise the
// returned entry is shared and must be awaited.
func (c *Cache) Claim(file domain.FileIdentity) (e *entry, claimed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.entries[file]; ok {
		return existing, false
	}
	e = &entry{done: make(chan struct{})}
	c.entries[file] = e
	return e, true
}

// Resolve completes an in-flight entry with a result, waking all waiters.
func (c *Cache) Resolve(file domain.FileIdentity, result *domain.LoadResult) {
	c.mu.Lock()
	e := c.entries[file]
	if !e.holder.IsZero() {
		c.removeEdge(e.holder, file)
	}
	c.mu.Unlock()

	e.result = result
	close(e.done)
}

// Fail completes an in-flight entry with an error and drops it from the
// cache. Every waiter already holding the entry observes the same failure;
// the next top-level load for the identity starts fresh.
func (c *Cache) Fail(file domain.FileIdentity, err error) {
	c.mu.Lock()
	e := c.entries[file]
	delete(c.entries, file)
	if !e.holder.IsZero() {
		c.removeEdge(e.holder, file)
	}
	c.mu.Unlock()

	e.err = err
	close(e.done)
}

// Evict removes the entry for an identity, if any. Hosts running multiple
// epochs over one cache use it to invalidate changed files.
func (c *Cache) Evict(file domain.FileIdentity) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[file]; ok {
		// In-flight entries stay: their waiters must still be completed by
		// the owning load.
		select {
		case <-e.done:
			delete(c.entries, file)
		default:
		}
	}
}

// State reports the lifecycle state of an identity.
func (c *Cache) State(file domain.FileIdentity) EntryState {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[file]
	if !ok {
		return StateUnrequested
	}
	select {
	case <-e.done:
		return StateResolved
	default:
		return StateInFlight
	}
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Resolved iterates over all resolved entries. Results are snapshots; the
// caller may hold them across further loads.
func (c *Cache) Resolved() iter.Seq2[domain.FileIdentity, *domain.LoadResult] {
	return func(yield func(domain.FileIdentity, *domain.LoadResult) bool) {
		c.mu.Lock()
		type pair struct {
			file   domain.FileIdentity
			result *domain.LoadResult
		}
		resolved := make([]pair, 0, len(c.entries))
		for file, e := range c.entries {
			select {
			case <-e.done:
				if e.err == nil {
					resolved = append(resolved, pair{file, e.result})
				}
			default:
			}
		}
		c.mu.Unlock()

		for _, p := range resolved {
			if !yield(p.file, p.result.Clone()) {
				return
			}
		}
	}
}

// linkClaim records that holder's in-flight load spawned file's load and now
// blocks on it. The claimed entry is fresh so it has no outgoing edges yet;
// the edge can never close a cycle here.
func (c *Cache) linkClaim(holder, file domain.FileIdentity) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[file]; ok {
		e.holder = holder
	}
	c.addEdge(holder, file)
}

// awaitShared blocks on another chain's shared entry on behalf of holder,
// the awaiting chain's innermost in-flight identity. The waits-for edge is
// recorded before blocking; an edge that would close a cycle means every
// load on it is blocked on the next, so the await fails with the cycle
// instead of joining the deadlock. Top-level awaiters hold no in-flight
// entry and block unconditionally.
func (c *Cache) awaitShared(ctx context.Context, holder, file domain.FileIdentity, e *entry) (*domain.LoadResult, error) {
	if holder.IsZero() {
		return e.await(ctx)
	}

	c.mu.Lock()
	if path, cyclic := c.waitPath(file, holder); cyclic {
		c.mu.Unlock()
		return nil, zerr.With(zerr.Wrap(domain.ErrCyclicComposition, ""), "cycle", cyclePath(holder, path))
	}
	c.addEdge(holder, file)
	c.mu.Unlock()

	result, err := e.await(ctx)

	c.mu.Lock()
	c.removeEdge(holder, file)
	c.mu.Unlock()

	return result, err
}

// addEdge and removeEdge maintain the counted waits-for edges. Callers hold
// c.mu.
func (c *Cache) addEdge(from, to domain.FileIdentity) {
	m, ok := c.waits[from]
	if !ok {
		m = make(map[domain.FileIdentity]int)
		c.waits[from] = m
	}
	m[to]++
}

func (c *Cache) removeEdge(from, to domain.FileIdentity) {
	m := c.waits[from]
	if m[to]--; m[to] <= 0 {
		delete(m, to)
		if len(m) == 0 {
			delete(c.waits, from)
		}
	}
}

// waitPath searches the waits-for graph from start for target, returning the
// identities on the discovered path, start first. Caller holds c.mu.
func (c *Cache) waitPath(start, target domain.FileIdentity) ([]domain.FileIdentity, bool) {
	seen := map[domain.FileIdentity]bool{start: true}
	var dfs func(from domain.FileIdentity, path []domain.FileIdentity) ([]domain.FileIdentity, bool)
	dfs = func(from domain.FileIdentity, path []domain.FileIdentity) ([]domain.FileIdentity, bool) {
		if from == target {
			return path, true
		}
		for to := range c.waits[from] {
			if seen[to] {
				continue
			}
			seen[to] = true
			if found, ok := dfs(to, append(path, to)); ok {
				return found, true
			}
		}
		return nil, false
	}
	return dfs(start, []domain.FileIdentity{start})
}

func cyclePath(holder domain.FileIdentity, path []domain.FileIdentity) string {
	var b strings.Builder
	b.WriteString(holder.String())
	for _, f := range path {
		b.WriteString(" -> ")
		b.WriteString(f.String())
	}
	return b.String()
}

// await blocks until the entry completes and returns a snapshot of its
// outcome. A caller abandoning interest through ctx cancellation does not
// disturb other waiters.
func (e *entry) await(ctx context.Context) (*domain.LoadResult, error) {
	select {
	case <-e.done:
		if e.err != nil {
			return nil, e.err
		}
		return e.result.Clone(), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
