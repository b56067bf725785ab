package service

import (
	"sync"
	"time"

	"github.com/aaravmahajanofficial/qkart-storefront/internal/metrics"
)

// Timer is the part of *time.Timer the debouncer needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run once d has elapsed.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Debouncer delays an action until no new trigger has arrived for delay.
// Each Trigger cancels the pending action and schedules its own, so at most
// one action is pending at any time.
type Debouncer struct {
	mu         sync.Mutex
	delay      time.Duration
	afterFunc  AfterFunc
	timer      Timer
	generation uint64
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return NewDebouncerWithScheduler(delay, realAfterFunc)
}

func NewDebouncerWithScheduler(delay time.Duration, afterFunc AfterFunc) *Debouncer {
	return &Debouncer{delay: delay, afterFunc: afterFunc}
}

func (d *Debouncer) Trigger(action func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.cancelLocked()

	d.generation++
	generation := d.generation

	d.timer = d.afterFunc(d.delay, func() {
		d.mu.Lock()
		// a timer that already fired may still lose the race against a newer Trigger
		current := generation == d.generation
		if current {
			d.timer = nil
		}
		d.mu.Unlock()

		if current {
			action()
		}
	})
}

// Stop cancels the pending action, if any.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.cancelLocked()
	d.generation++
}

// Pending reports whether an action is scheduled and has not run yet.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.timer != nil
}

func (d *Debouncer) cancelLocked() {
	if d.timer == nil {
		return
	}

	if d.timer.Stop() {
		metrics.SearchDebounced()
	}
	d.timer = nil
}
