package audit

import (
	"database/sql"
	"encoding/json"
	"path/filepath"
	"testing"
)

func newTestLog(t *testing.T) *SQLiteLog {
	t.Helper()
	log, err := NewSQLiteLog(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteLog: %v", err)
	}
	t.Cleanup(func() { log.Close() })
	return log
}

func TestRecordReturnsUniqueIDs(t *testing.T) {
	log := newTestLog(t)

	id1, err := log.Record(100, ActionBan, nil, 1)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	id2, err := log.Record(100, ActionUnban, nil, 1)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if id1 == "" || id2 == "" {
		t.Fatal("Record returned empty id")
	}
	if id1 == id2 {
		t.Errorf("entry ids must be unique, both were %q", id1)
	}
}

func TestRecordPersistsFields(t *testing.T) {
	log := newTestLog(t)

	details := map[string]any{"sent": 3, "failed": 1}
	id, err := log.Record(200, ActionBroadcast, details, 42)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	var (
		userID  int64
		action  string
		payload string
		adminID sql.NullInt64
	)
	err = log.db.QueryRow(
		"SELECT user_id, action, details, admin_id FROM history WHERE id = ?", id,
	).Scan(&userID, &action, &payload, &adminID)
	if err != nil {
		t.Fatalf("read back entry: %v", err)
	}

	if userID != 200 {
		t.Errorf("user_id = %d, want 200", userID)
	}
	if action != ActionBroadcast {
		t.Errorf("action = %q, want %q", action, ActionBroadcast)
	}
	if !adminID.Valid || adminID.Int64 != 42 {
		t.Errorf("admin_id = %+v, want valid 42", adminID)
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		t.Fatalf("details not valid JSON: %v", err)
	}
	if decoded["sent"].(float64) != 3 {
		t.Errorf("details sent = %v, want 3", decoded["sent"])
	}
}

func TestSystemActionHasNullActor(t *testing.T) {
	log := newTestLog(t)

	id, err := log.Record(300, ActionApprove, nil, 0)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	var adminID sql.NullInt64
	if err := log.db.QueryRow("SELECT admin_id FROM history WHERE id = ?", id).Scan(&adminID); err != nil {
		t.Fatalf("read back entry: %v", err)
	}
	if adminID.Valid {
		t.Errorf("system action admin_id should be NULL, got %d", adminID.Int64)
	}
}
