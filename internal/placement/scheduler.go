package placement

import (
	"sync"
	"time"
)

// Scheduler is a single-flight debounce primitive: scheduling a call cancels
// any previously scheduled call that has not yet run. It coalesces the
// bursts of viewport-change and data-arrival events fired during a drag
// gesture into one recomputation per quiet period.
type Scheduler struct {
	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// DefaultDebounce is the quiet period applied between event bursts and the
// recomputation they trigger.
const DefaultDebounce = 75 * time.Millisecond

// NewScheduler creates an idle scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Schedule runs fn after delay, cancelling any pending not-yet-run call.
// After Stop, Schedule is a no-op.
func (s *Scheduler) Schedule(fn func(), delay time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}

	s.timer = time.AfterFunc(delay, func() {
		s.mu.Lock()
		if s.stopped {
			s.mu.Unlock()
			return
		}
		s.timer = nil
		s.mu.Unlock()

		fn()
	})
}

// Stop cancels any pending call and prevents further scheduling. Safe to
// call more than once; must be called on teardown so no stale recomputation
// fires into a torn-down consumer.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
