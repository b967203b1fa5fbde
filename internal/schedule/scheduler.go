// Package schedule provides deferred task execution with cancellation
// tied to the owner's lifetime. Deferred work in the interaction engine
// (e.g. resynchronizing focus after an unhandled arrow key) runs
// through a Scheduler instead of bare timers so tests can advance
// virtual time deterministically.
package schedule

import (
	"sync"
	"time"
)

// Task is a scheduled callback that can be cancelled before it runs.
type Task struct {
	mu        sync.Mutex
	timer     Timer
	cancelled bool
	done      bool
}

// Cancel prevents the task from running. Cancelling a completed or
// already-cancelled task is a no-op. Returns true if the task was
// still pending.
func (t *Task) Cancel() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancelled || t.done {
		return false
	}
	t.cancelled = true
	if t.timer != nil {
		t.timer.Stop()
	}
	return true
}

// Done reports whether the task has run.
func (t *Task) Done() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done
}

// Scheduler runs deferred callbacks on a Clock. Closing the scheduler
// cancels every pending task; tasks scheduled after Close never run.
type Scheduler struct {
	clock Clock

	mu      sync.Mutex
	closed  bool
	pending map[*Task]struct{}
}

// NewScheduler creates a scheduler over the given clock.
func NewScheduler(clock Clock) *Scheduler {
	return &Scheduler{
		clock:   clock,
		pending: make(map[*Task]struct{}),
	}
}

// Schedule runs fn after delay unless the task or the scheduler is
// cancelled first. fn runs on the clock's timer goroutine.
func (s *Scheduler) Schedule(delay time.Duration, fn func()) *Task {
	task := &Task{}

	s.mu.Lock()
	if s.closed {
		task.cancelled = true
		s.mu.Unlock()
		return task
	}
	s.pending[task] = struct{}{}
	s.mu.Unlock()

	task.mu.Lock()
	task.timer = s.clock.AfterFunc(delay, func() {
		task.mu.Lock()
		if task.cancelled {
			task.mu.Unlock()
			return
		}
		task.done = true
		task.mu.Unlock()

		s.mu.Lock()
		delete(s.pending, task)
		s.mu.Unlock()

		fn()
	})
	task.mu.Unlock()

	return task
}

// Close cancels all pending tasks. The scheduler accepts no new work
// afterward.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	tasks := make([]*Task, 0, len(s.pending))
	for t := range s.pending {
		tasks = append(tasks, t)
	}
	s.pending = make(map[*Task]struct{})
	s.mu.Unlock()

	for _, t := range tasks {
		t.Cancel()
	}
}
