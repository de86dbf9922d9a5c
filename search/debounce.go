package search

import (
	"sync"
	"time"
)

const DefaultDebounce = 300 * time.Millisecond

// Debouncer delays work until input has been quiet for Delay. Scheduling
// again supersedes the pending timer, so at most one schedule ever fires
// per burst of input.
type Debouncer struct {
	delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
	done  chan bool
}

func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay}
}

// Delay returns the quiet period.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Schedule cancels any pending schedule and arms a new one. The returned
// channel receives true once the delay elapses, or false if the schedule is
// superseded or cancelled first. It receives exactly one value.
func (d *Debouncer) Schedule() <-chan bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.cancelLocked()

	done := make(chan bool, 1)
	d.done = done
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.done != done {
			// Superseded after the timer fired but before we got the lock
			return
		}
		d.timer = nil
		d.done = nil
		done <- true
	})
	return done
}

// Cancel discards the pending schedule, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
}

func (d *Debouncer) cancelLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.done != nil {
		d.done <- false
		d.done = nil
	}
}
