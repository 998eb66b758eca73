package users

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"dexkeeper/internal/apperr"
)

// SQLiteStore implements Store using SQLite for persistence
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-backed user store
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
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
		CREATE TABLE IF NOT EXISTS users (
			user_id INTEGER PRIMARY KEY,
			username TEXT,
			full_name TEXT,
			language TEXT,
			joined_at DATETIME NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending'
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create users table: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS pending_requests (
			user_id INTEGER PRIMARY KEY,
			chat_id INTEGER NOT NULL,
			prompt_id INTEGER,
			created_at DATETIME NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create pending_requests table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Upsert creates the user on first sight or refreshes mutable fields
func (s *SQLiteStore) Upsert(rec Record) error {
	if rec.JoinedAt.IsZero() {
		rec.JoinedAt = time.Now().UTC()
	}
	if rec.Status == "" {
		rec.Status = StatusPending
	}
	_, err := s.db.Exec(`
		INSERT INTO users (user_id, username, full_name, language, joined_at, status)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			username = excluded.username,
			full_name = excluded.full_name,
			language = excluded.language
	`, rec.UserID, rec.Username, rec.FullName, rec.Language, rec.JoinedAt, rec.Status)

	if err != nil {
		return apperr.Wrap(apperr.KindPersistence, err, "upsert user")
	}
	return nil
}

// Get returns the user, or nil if never seen
func (s *SQLiteStore) Get(userID int64) (*Record, error) {
	var rec Record
	err := s.db.QueryRow(`
		SELECT user_id, username, full_name, language, joined_at, status
		FROM users WHERE user_id = ?
	`, userID).Scan(&rec.UserID, &rec.Username, &rec.FullName, &rec.Language, &rec.JoinedAt, &rec.Status)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindPersistence, err, "get user")
	}
	return &rec, nil
}

// SetStatus transitions the user's membership status
func (s *SQLiteStore) SetStatus(userID int64, status string) error {
	_, err := s.db.Exec("UPDATE users SET status = ? WHERE user_id = ?", status, userID)
	if err != nil {
		return apperr.Wrap(apperr.KindPersistence, err, "set user status")
	}
	return nil
}

// IDs enumerates every known user id
func (s *SQLiteStore) IDs() ([]int64, error) {
	rows, err := s.db.Query("SELECT user_id FROM users ORDER BY user_id")
	if err != nil {
		return nil, apperr.Wrap(apperr.KindPersistence, err, "list user ids")
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, apperr.Wrap(apperr.KindPersistence, err, "scan user id")
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.KindPersistence, err, "list user ids")
	}
	return ids, nil
}

// All returns every known user
func (s *SQLiteStore) All() ([]Record, error) {
	rows, err := s.db.Query(`
		SELECT user_id, username, full_name, language, joined_at, status
		FROM users ORDER BY joined_at
	`)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindPersistence, err, "list users")
	}
	defer rows.Close()

	var recs []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.UserID, &rec.Username, &rec.FullName, &rec.Language, &rec.JoinedAt, &rec.Status); err != nil {
			return nil, apperr.Wrap(apperr.KindPersistence, err, "scan user")
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.KindPersistence, err, "list users")
	}
	return recs, nil
}

// AddPending records a join challenge awaiting verification
func (s *SQLiteStore) AddPending(req PendingJoin) error {
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(`
		INSERT INTO pending_requests (user_id, chat_id, prompt_id, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			chat_id = excluded.chat_id,
			prompt_id = excluded.prompt_id,
			created_at = excluded.created_at
	`, req.UserID, req.ChatID, req.PromptID, req.CreatedAt)

	if err != nil {
		return apperr.Wrap(apperr.KindPersistence, err, "add pending join")
	}
	return nil
}

// GetPending returns the pending challenge for userID, or nil
func (s *SQLiteStore) GetPending(userID int64) (*PendingJoin, error) {
	var req PendingJoin
	err := s.db.QueryRow(`
		SELECT user_id, chat_id, prompt_id, created_at
		FROM pending_requests WHERE user_id = ?
	`, userID).Scan(&req.UserID, &req.ChatID, &req.PromptID, &req.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindPersistence, err, "get pending join")
	}
	return &req, nil
}

// RemovePending destroys the pending challenge for userID
func (s *SQLiteStore) RemovePending(userID int64) error {
	_, err := s.db.Exec("DELETE FROM pending_requests WHERE user_id = ?", userID)
	if err != nil {
		return apperr.Wrap(apperr.KindPersistence, err, "remove pending join")
	}
	return nil
}

// Close releases database resources
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
