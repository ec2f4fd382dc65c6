// Package clock abstracts wall-clock time and delayed callbacks so the scan
// narrative and the typewriter can run against real timers, the Bubble Tea
// event loop, or a manual clock in tests.
package clock

import (
	"context"
	"sync"
	"time"
)

// Timer is a pending callback that can be cancelled.
type Timer interface {
	// Stop prevents the callback from firing. It reports whether the call
	// stopped the timer, false if it already fired or was stopped.
	Stop() bool
}

// Clock schedules callbacks after a delay and reports the current time.
//
// Implementations must deliver callbacks one at a time so the caller can treat
// its own state as single-writer.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}

// loopBufferSize bounds how many fired callbacks may queue before the loop drains them.
const loopBufferSize = 64

// LoopClock runs on real time but funnels every fired callback onto the
// goroutine that calls Run.
type LoopClock struct {
	events chan func()
	done   chan struct{}
	once   sync.Once
}

// NewLoopClock returns a LoopClock ready to schedule callbacks.
func NewLoopClock() *LoopClock {
	return &LoopClock{
		events: make(chan func(), loopBufferSize),
		done:   make(chan struct{}),
	}
}

// Now implements Clock.
func (c *LoopClock) Now() time.Time { return time.Now() }

// AfterFunc implements Clock. The callback runs inside Run, never on the
// timer goroutine.
func (c *LoopClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, func() {
		select {
		case c.events <- fn:
		case <-c.done:
		}
	})
}

// Run executes fired callbacks until ctx is cancelled or until reports true
// after a callback. A nil until runs until ctx is done.
func (c *LoopClock) Run(ctx context.Context, until func() bool) error {
	if until != nil && until() {
		return nil
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.done:
			return nil
		case fn := <-c.events:
			fn()
			if until != nil && until() {
				return nil
			}
		}
	}
}

// Close releases timer goroutines blocked on delivery and ends Run.
func (c *LoopClock) Close() {
	c.once.Do(func() { close(c.done) })
}
