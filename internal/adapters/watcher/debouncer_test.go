package watcher_test

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/swatch/internal/adapters/watcher"
	"go.trai.ch/swatch/internal/core/domain"
)

type batchRecorder struct {
	mu      sync.Mutex
	batches [][]domain.FileIdentity
}

func (r *batchRecorder) record(files []domain.FileIdentity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, files)
}

func (r *batchRecorder) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.batches)
}

func TestDebouncer_CoalescesEvents(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		rec := &batchRecorder{}
		d := watcher.NewDebouncer(50*time.Millisecond, rec.record)

		d.Add("/p/a.module.css")
		d.Add("/p/b.module.css")
		d.Add("/p/a.module.css") // duplicate collapses

		time.Sleep(60 * time.Millisecond)
		synctest.Wait()

		require.Equal(t, 1, rec.len())
		assert.Len(t, rec.batches[0], 2)
	})
}

func TestDebouncer_WindowRestartsOnNewEvents(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		rec := &batchRecorder{}
		d := watcher.NewDebouncer(50*time.Millisecond, rec.record)

		d.Add("/p/a.module.css")
		time.Sleep(30 * time.Millisecond)
		d.Add("/p/b.module.css")
		time.Sleep(30 * time.Millisecond)

		// 60ms elapsed but the second Add restarted the window.
		assert.Equal(t, 0, rec.len())

		time.Sleep(30 * time.Millisecond)
		synctest.Wait()
		require.Equal(t, 1, rec.len())
		assert.Len(t, rec.batches[0], 2)
	})
}

func TestDebouncer_SeparateWindowsProduceSeparateBatches(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		rec := &batchRecorder{}
		d := watcher.NewDebouncer(50*time.Millisecond, rec.record)

		d.Add("/p/a.module.css")
		time.Sleep(60 * time.Millisecond)
		synctest.Wait()

		d.Add("/p/b.module.css")
		time.Sleep(60 * time.Millisecond)
		synctest.Wait()

		assert.Equal(t, 2, rec.len())
	})
}

func TestDebouncer_Flush(t *testing.T) {
	t.Run("delivers pending paths synchronously", func(t *testing.T) {
		rec := &batchRecorder{}
		d := watcher.NewDebouncer(time.Hour, rec.record)

		d.Add("/p/a.module.css")
		d.Flush()

		require.Equal(t, 1, rec.len())
	})

	t.Run("empty flush is a no-op", func(t *testing.T) {
		rec := &batchRecorder{}
		d := watcher.NewDebouncer(time.Hour, rec.record)

		d.Flush()
		assert.Equal(t, 0, rec.len())
	})
}
