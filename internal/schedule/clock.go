package schedule

import (
	"sort"
	"sync"
	"time"
)

// Clock abstracts timer creation so deferred work can be driven by
// virtual time in tests.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// AfterFunc runs fn in its own goroutine after d elapses and
	// returns a handle that can stop the pending call.
	AfterFunc(d time.Duration, fn func()) Timer
}

// Timer is a pending timer created by a Clock.
type Timer interface {
	// Stop prevents the timer from firing. It returns true if the
	// call stopped the timer, false if it already fired or stopped.
	Stop() bool
}

// RealClock is the wall-clock implementation.
type RealClock struct{}

// NewRealClock returns the wall-clock Clock.
func NewRealClock() RealClock { return RealClock{} }

// Now implements Clock.
func (RealClock) Now() time.Time { return time.Now() }

// AfterFunc implements Clock.
func (RealClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// FakeClock is a manually advanced clock for deterministic tests.
type FakeClock struct {
	mu      sync.Mutex
	now     time.Time
	pending []*fakeTimer
}

type fakeTimer struct {
	clock   *FakeClock
	at      time.Time
	fn      func()
	stopped bool
	fired   bool
}

// NewFakeClock creates a fake clock starting at an arbitrary fixed
// instant.
func NewFakeClock() *FakeClock {
	return &FakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// Now implements Clock.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc implements Clock. The callback runs synchronously inside
// Advance once virtual time reaches it.
func (c *FakeClock) AfterFunc(d time.Duration, fn func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), fn: fn}
	c.pending = append(c.pending, t)
	return t
}

// Advance moves virtual time forward, firing due timers in order.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	deadline := c.now

	due := make([]*fakeTimer, 0, len(c.pending))
	remaining := c.pending[:0]
	for _, t := range c.pending {
		if !t.stopped && !t.at.After(deadline) {
			t.fired = true
			due = append(due, t)
			continue
		}
		remaining = append(remaining, t)
	}
	c.pending = remaining
	sort.Slice(due, func(i, j int) bool { return due[i].at.Before(due[j].at) })
	c.mu.Unlock()

	for _, t := range due {
		t.fn()
	}
}

// Stop implements Timer.
func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}
