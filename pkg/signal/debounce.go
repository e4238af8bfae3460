// Package signal provides the small timing primitives the rest of the
// module leans on: a trailing-edge debouncer and an auto-resetting pulse.
package signal

import (
	"sync"
	"time"
)

// Debouncer collapses a burst of calls into a single trailing-edge fire.
// Every Call cancels the pending timer and schedules a new one; when the
// window finally elapses undisturbed, the most recent value wins and its
// callback runs exactly once.
type Debouncer[T any] struct {
	window time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	stopped bool
	wg      sync.WaitGroup
}

// NewDebouncer creates a debouncer with the given window.
func NewDebouncer[T any](window time.Duration) *Debouncer[T] {
	return &Debouncer[T]{window: window}
}

// Call schedules fn(v) after the window, replacing any pending fire.
// Calls after Stop are dropped.
func (d *Debouncer[T]) Call(v T, fn func(T)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if d.timer != nil && d.timer.Stop() {
		d.wg.Done()
	}

	d.gen++
	gen := d.gen
	d.wg.Add(1)
	d.timer = time.AfterFunc(d.window, func() {
		defer d.wg.Done()

		// A fire that lost the race against a newer Call (or Stop) while
		// waiting on the lock must not run.
		d.mu.Lock()
		stale := d.stopped || gen != d.gen
		d.mu.Unlock()
		if stale {
			return
		}
		fn(v)
	})
}

// Stop cancels any pending fire and rejects further calls.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil && d.timer.Stop() {
		d.wg.Done()
	}
}

// StopAndWait stops the debouncer and waits up to timeout for an in-flight
// callback to return. It reports whether everything finished in time.
func (d *Debouncer[T]) StopAndWait(timeout time.Duration) bool {
	d.Stop()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
