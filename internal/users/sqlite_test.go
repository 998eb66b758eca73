package users

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestUpsertCreatesWithDefaults(t *testing.T) {
	store := newTestStore(t)

	if err := store.Upsert(Record{UserID: 1, Username: "alice"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	rec, err := store.Get(1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec == nil {
		t.Fatal("Get returned nil for upserted user")
	}
	if rec.Status != StatusPending {
		t.Errorf("Status = %q, want %q", rec.Status, StatusPending)
	}
	if rec.JoinedAt.IsZero() {
		t.Error("JoinedAt should be populated on first sight")
	}
}

func TestUpsertPreservesJoinedAtAndStatus(t *testing.T) {
	store := newTestStore(t)

	joined := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := store.Upsert(Record{UserID: 2, Username: "bob", JoinedAt: joined}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := store.SetStatus(2, StatusApproved); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}

	// Second sighting must refresh names only.
	if err := store.Upsert(Record{UserID: 2, Username: "bobby"}); err != nil {
		t.Fatalf("Upsert again: %v", err)
	}

	rec, err := store.Get(2)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.Username != "bobby" {
		t.Errorf("Username = %q, want bobby", rec.Username)
	}
	if rec.Status != StatusApproved {
		t.Errorf("Status = %q, want preserved %q", rec.Status, StatusApproved)
	}
	if !rec.JoinedAt.Equal(joined) {
		t.Errorf("JoinedAt = %v, want preserved %v", rec.JoinedAt, joined)
	}
}

func TestGetUnknownUserReturnsNil(t *testing.T) {
	store := newTestStore(t)

	rec, err := store.Get(999)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec != nil {
		t.Errorf("Get(999) = %+v, want nil", rec)
	}
}

func TestIDsEnumeratesAllUsers(t *testing.T) {
	store := newTestStore(t)

	for _, id := range []int64{5, 3, 8} {
		if err := store.Upsert(Record{UserID: id}); err != nil {
			t.Fatalf("Upsert(%d): %v", id, err)
		}
	}

	ids, err := store.IDs()
	if err != nil {
		t.Fatalf("IDs: %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("IDs length = %d, want 3", len(ids))
	}
	// Ordered by id.
	if ids[0] != 3 || ids[1] != 5 || ids[2] != 8 {
		t.Errorf("IDs = %v, want [3 5 8]", ids)
	}
}

func TestPendingJoinLifecycle(t *testing.T) {
	store := newTestStore(t)

	req := PendingJoin{UserID: 10, ChatID: -100, PromptID: 55}
	if err := store.AddPending(req); err != nil {
		t.Fatalf("AddPending: %v", err)
	}

	got, err := store.GetPending(10)
	if err != nil {
		t.Fatalf("GetPending: %v", err)
	}
	if got == nil {
		t.Fatal("GetPending returned nil for pending user")
	}
	if got.ChatID != -100 || got.PromptID != 55 {
		t.Errorf("pending = %+v, want chat -100 prompt 55", got)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt should be populated")
	}

	if err := store.RemovePending(10); err != nil {
		t.Fatalf("RemovePending: %v", err)
	}
	got, err = store.GetPending(10)
	if err != nil {
		t.Fatalf("GetPending after remove: %v", err)
	}
	if got != nil {
		t.Errorf("pending should be destroyed, got %+v", got)
	}
}

func TestRemovePendingAbsentIsNoOp(t *testing.T) {
	store := newTestStore(t)

	if err := store.RemovePending(123); err != nil {
		t.Errorf("RemovePending on absent row: %v", err)
	}
}
