// Package scheduler provides the one-shot deferred-execution primitive
// behind the console's "schedule message" wizard.
package scheduler

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Scheduler runs registered functions once after their delay. Pending
// jobs are dropped on Stop; deferred sends are best-effort and do not
// survive a restart.
type Scheduler struct {
	mu      sync.Mutex
	timers  map[string]*time.Timer
	stopped bool
	logger  *slog.Logger
}

func New(logger *slog.Logger) *Scheduler {
	return &Scheduler{
		timers: make(map[string]*time.Timer),
		logger: logger,
	}
}

// After registers fn to run once after d.
func (s *Scheduler) After(d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}

	id := uuid.NewString()
	s.timers[id] = time.AfterFunc(d, func() {
		s.mu.Lock()
		delete(s.timers, id)
		stopped := s.stopped
		s.mu.Unlock()
		if stopped {
			return
		}
		fn()
	})
	s.logger.Debug("job scheduled", "job_id", id, "delay", d)
}

// Stop cancels all pending jobs. New registrations become no-ops.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}

// Pending returns the number of jobs waiting to fire.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}
