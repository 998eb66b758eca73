package audit

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"dexkeeper/internal/apperr"
)

// SQLiteLog implements Log over an append-only history table.
type SQLiteLog struct {
	db *sql.DB
}

// NewSQLiteLog opens (creating if needed) the history table at dbPath.
func NewSQLiteLog(dbPath string) (*SQLiteLog, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite works best with a single writer
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS history (
			id TEXT PRIMARY KEY,
			user_id INTEGER NOT NULL,
			action TEXT NOT NULL,
			timestamp DATETIME NOT NULL,
			details TEXT NOT NULL,
			admin_id INTEGER
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create history table: %w", err)
	}

	return &SQLiteLog{db: db}, nil
}

// Record appends one immutable history entry and returns its id.
func (l *SQLiteLog) Record(subjectUserID int64, action string, details map[string]any, actorAdminID int64) (string, error) {
	if details == nil {
		details = map[string]any{}
	}
	payload, err := json.Marshal(details)
	if err != nil {
		return "", apperr.Wrap(apperr.KindPersistence, err, "encode audit details")
	}

	id := uuid.NewString()
	adminID := sql.NullInt64{Int64: actorAdminID, Valid: actorAdminID != 0}

	_, err = l.db.Exec(`
		INSERT INTO history (id, user_id, action, timestamp, details, admin_id)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, subjectUserID, action, time.Now().UTC(), string(payload), adminID)
	if err != nil {
		return "", apperr.Wrap(apperr.KindPersistence, err, "record audit entry")
	}
	return id, nil
}

// Close releases database resources
func (l *SQLiteLog) Close() error {
	return l.db.Close()
}
