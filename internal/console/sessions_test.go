package console

import (
	"testing"
	"time"
)

func TestDispatchRequiresOpen(t *testing.T) {
	sessions := NewSessions(time.Hour)
	now := time.Now()

	if effects := sessions.Dispatch(1, Input{Text: "123"}, now); effects != nil {
		t.Errorf("input without session produced effects: %v", effects)
	}
	if effects := sessions.Dispatch(1, Select{Data: PayloadBanStart}, now); effects != nil {
		t.Errorf("select without session produced effects: %v", effects)
	}
	if sessions.Active(1, now) {
		t.Error("no session should have been created")
	}
}

func TestDispatchLifecycle(t *testing.T) {
	sessions := NewSessions(time.Hour)
	now := time.Now()

	sessions.Dispatch(1, Open{}, now)
	if !sessions.Active(1, now) {
		t.Fatal("session should exist after Open")
	}

	sessions.Dispatch(1, Select{Data: PayloadBanStart}, now)
	if !sessions.Awaiting(1, now) {
		t.Error("session should be awaiting input after wizard start")
	}

	sessions.Dispatch(1, Select{Data: PayloadClose}, now)
	if sessions.Active(1, now) {
		t.Error("session should be destroyed after close")
	}
}

func TestIdleSessionExpires(t *testing.T) {
	sessions := NewSessions(30 * time.Minute)
	start := time.Now()

	sessions.Dispatch(1, Open{}, start)
	sessions.Dispatch(1, Select{Data: PayloadBanStart}, start)

	later := start.Add(31 * time.Minute)
	if sessions.Awaiting(1, later) {
		t.Error("expired session should not await input")
	}
	// The next event behaves as if no session existed.
	if effects := sessions.Dispatch(1, Input{Text: "123"}, later); effects != nil {
		t.Errorf("expired session accepted input: %v", effects)
	}
}

func TestOperatorsAreIsolated(t *testing.T) {
	sessions := NewSessions(time.Hour)
	now := time.Now()

	sessions.Dispatch(1, Open{}, now)
	sessions.Dispatch(1, Select{Data: PayloadBanStart}, now)
	sessions.Dispatch(2, Open{}, now)

	if !sessions.Awaiting(1, now) {
		t.Error("operator 1 should be mid-wizard")
	}
	if sessions.Awaiting(2, now) {
		t.Error("operator 2 should be browsing the menu")
	}
}
