package users

import "time"

// Membership status of a known user. Users are never hard-deleted; a ban
// is a status transition plus block-list membership.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusBanned   = "banned"
)

// Record is one known user, created on first observed interaction.
type Record struct {
	UserID   int64
	Username string
	FullName string
	Language string
	JoinedAt time.Time
	Status   string
}

// PendingJoin tracks a new member awaiting challenge verification.
type PendingJoin struct {
	UserID    int64
	ChatID    int64
	PromptID  int
	CreatedAt time.Time
}

// Store persists the user registry and pending join challenges.
type Store interface {
	// Upsert creates the user on first sight or refreshes mutable fields.
	// JoinedAt and Status of an existing row are preserved.
	Upsert(rec Record) error

	// Get returns the user, or nil if never seen.
	Get(userID int64) (*Record, error)

	// SetStatus transitions the user's membership status.
	SetStatus(userID int64, status string) error

	// IDs enumerates every known user id, for broadcast.
	IDs() ([]int64, error)

	// All returns every known user, for export.
	All() ([]Record, error)

	// AddPending records a join challenge awaiting verification.
	AddPending(req PendingJoin) error

	// GetPending returns the pending challenge for userID, or nil.
	GetPending(userID int64) (*PendingJoin, error)

	// RemovePending destroys the pending challenge for userID.
	RemovePending(userID int64) error

	// Close releases resources
	Close() error
}
