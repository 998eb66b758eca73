package flood

import (
	"testing"
	"time"
)

func TestBurstWithinWindowCounts(t *testing.T) {
	tracker := NewWindowTracker(2*time.Second, 16)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	// 6 messages inside one second: the 6th must report 6.
	var count int
	for i := 0; i < 6; i++ {
		count = tracker.Hit(1, base.Add(time.Duration(i)*200*time.Millisecond))
	}
	if count != 6 {
		t.Errorf("6th hit in burst = %d, want 6", count)
	}
}

func TestSpacedMessagesNeverAccumulate(t *testing.T) {
	tracker := NewWindowTracker(2*time.Second, 16)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	// 6 messages spread across 10 seconds with a 2s window: each new
	// hit evicts the previous one, so the count never exceeds 1.
	for i := 0; i < 6; i++ {
		if count := tracker.Hit(1, base.Add(time.Duration(i)*2500*time.Millisecond)); count > 1 {
			t.Errorf("hit %d = %d, want at most 1", i+1, count)
		}
	}
}

func TestWindowSlides(t *testing.T) {
	tracker := NewWindowTracker(2*time.Second, 16)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tracker.Hit(1, base)
	tracker.Hit(1, base.Add(500*time.Millisecond))
	tracker.Hit(1, base.Add(1*time.Second))

	// 2.1s after the first hit it has left the window.
	if count := tracker.Hit(1, base.Add(2100*time.Millisecond)); count != 3 {
		t.Errorf("count after slide = %d, want 3", count)
	}
}

func TestActorsAreIndependent(t *testing.T) {
	tracker := NewWindowTracker(2*time.Second, 16)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		tracker.Hit(1, now)
	}
	if count := tracker.Hit(2, now); count != 1 {
		t.Errorf("other actor count = %d, want 1", count)
	}
}

func TestBoundedActorEvictionFailsOpen(t *testing.T) {
	tracker := NewWindowTracker(2*time.Second, 2)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tracker.Hit(1, now)
	tracker.Hit(1, now)
	tracker.Hit(2, now)
	tracker.Hit(3, now) // evicts actor 1

	// The evicted actor restarts at 1, never a phantom count.
	if count := tracker.Hit(1, now); count != 1 {
		t.Errorf("evicted actor count = %d, want 1", count)
	}
}
