package console

import (
	"sync"
	"time"
)

type sessionEntry struct {
	sess     Session
	lastSeen time.Time
}

// Sessions owns the per-operator console sessions. Dispatch serializes
// all transitions behind one lock, so a session never processes two
// events concurrently. Sessions idle beyond the TTL are discarded lazily
// on the operator's next event.
type Sessions struct {
	mu  sync.Mutex
	ttl time.Duration
	m   map[int64]*sessionEntry
}

func NewSessions(ttl time.Duration) *Sessions {
	return &Sessions{ttl: ttl, m: make(map[int64]*sessionEntry)}
}

// Dispatch feeds one event to the operator's session and returns the
// resulting effects. Events other than Open are dropped when no live
// session exists; a console must be opened before it can be driven.
func (s *Sessions) Dispatch(operatorID int64, ev Event, now time.Time) []Effect {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.m[operatorID]
	if ok && s.ttl > 0 && now.Sub(entry.lastSeen) > s.ttl {
		delete(s.m, operatorID)
		ok = false
	}

	if !ok {
		if _, isOpen := ev.(Open); !isOpen {
			return nil
		}
		entry = &sessionEntry{sess: NewSession()}
		s.m[operatorID] = entry
	}

	next, effects := Transition(entry.sess, ev)
	if next.State == StateClosed {
		delete(s.m, operatorID)
		return effects
	}

	entry.sess = next
	entry.lastSeen = now
	return effects
}

// Awaiting reports whether the operator has a live session expecting
// free-text input, so the caller can route messages accordingly.
func (s *Sessions) Awaiting(operatorID int64, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.m[operatorID]
	if !ok {
		return false
	}
	if s.ttl > 0 && now.Sub(entry.lastSeen) > s.ttl {
		delete(s.m, operatorID)
		return false
	}
	return entry.sess.State.awaiting()
}

// Active reports whether the operator has any live session.
func (s *Sessions) Active(operatorID int64, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.m[operatorID]
	if !ok {
		return false
	}
	if s.ttl > 0 && now.Sub(entry.lastSeen) > s.ttl {
		delete(s.m, operatorID)
		return false
	}
	return true
}
