package watcher

import (
	"sync"
	"time"

	"go.trai.ch/swatch/internal/core/domain"
)

// Debouncer coalesces rapid file system events into batched invalidations.
// Paths are deduplicated through their canonical file identity, so different
// spellings of the same file collapse into one entry.
type Debouncer struct {
	mu       sync.Mutex
	pending  map[domain.FileIdentity]struct{}
	timer    *time.Timer
	window   time.Duration
	callback func(files []domain.FileIdentity)
}

// NewDebouncer creates a new debouncer with the given time window and callback.
func NewDebouncer(window time.Duration, callback func(files []domain.FileIdentity)) *Debouncer {
	return &Debouncer{
		pending:  make(map[domain.FileIdentity]struct{}),
		window:   window,
		callback: callback,
	}
}

// Add adds a file path to the pending set and restarts the debounce window.
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending[domain.NewFileIdentity(path)] = struct{}{}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fire)
}

// fire is called when the debounce window expires.
func (d *Debouncer) fire() {
	d.mu.Lock()

	if len(d.pending) == 0 {
		d.timer = nil
		d.mu.Unlock()
		return
	}

	files := make([]domain.FileIdentity, 0, len(d.pending))
	for file := range d.pending {
		files = append(files, file)
	}

	d.pending = make(map[domain.FileIdentity]struct{})
	d.timer = nil
	d.mu.Unlock()

	if d.callback != nil {
		// Asynchronous to match Flush semantics without holding the lock.
		go d.callback(files)
	}
}

// Flush immediately delivers all pending paths, blocking until the callback
// returns. Intended for graceful shutdown where pending work must complete.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		if !d.timer.Stop() {
			// Timer already fired; let that delivery complete instead of
			// processing the same batch twice.
			d.mu.Unlock()
			return
		}
		d.timer = nil
	}

	files := make([]domain.FileIdentity, 0, len(d.pending))
	for file := range d.pending {
		files = append(files, file)
	}
	d.pending = make(map[domain.FileIdentity]struct{})
	d.mu.Unlock()

	if len(files) > 0 && d.callback != nil {
		d.callback(files)
	}
}
