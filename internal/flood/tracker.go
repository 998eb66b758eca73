package flood

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Tracker counts recent actions per actor inside a sliding window. The
// count is exact within the window: the Nth hit returns N as long as all
// N fall inside the lookback interval.
type Tracker interface {
	// Hit records one action for actorID at now and returns how many of
	// that actor's actions, including this one, fall within the window.
	Hit(actorID int64, now time.Time) int
}

// WindowTracker is an in-memory Tracker bounded by an LRU of tracked
// actors. Idle actors age out after the window elapses; evicting an
// active flooder only resets their count, which fails open.
type WindowTracker struct {
	mu     sync.Mutex
	window time.Duration
	cache  *expirable.LRU[int64, []time.Time]
}

// NewWindowTracker tracks at most maxActors concurrently noisy actors
// over the given lookback window.
func NewWindowTracker(window time.Duration, maxActors int) *WindowTracker {
	return &WindowTracker{
		window: window,
		cache:  expirable.NewLRU[int64, []time.Time](maxActors, nil, window),
	}
}

// Hit records one action and returns the in-window count for the actor.
func (t *WindowTracker) Hit(actorID int64, now time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	prev, _ := t.cache.Get(actorID)
	cutoff := now.Add(-t.window)

	recent := make([]time.Time, 0, len(prev)+1)
	for _, ts := range prev {
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}
	recent = append(recent, now)

	t.cache.Add(actorID, recent)
	return len(recent)
}
