package settings

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"dexkeeper/internal/apperr"
)

// SQLiteStore implements Store over a single JSON-valued key/value table.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens (creating if needed) the settings table at dbPath.
func NewSQLiteStore(dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
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
		CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create settings table: %w", err)
	}

	return &SQLiteStore{db: db, logger: logger}, nil
}

// raw returns the stored JSON text for key, or false if the key is absent.
func (s *SQLiteStore) raw(key string) (string, bool) {
	var value string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false
	}
	if err != nil {
		s.logger.Error("settings read failed", "key", key, "error", err)
		return "", false
	}
	return value, true
}

func (s *SQLiteStore) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return apperr.Wrap(apperr.KindPersistence, err, "encode setting "+key)
	}
	_, err = s.db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, string(data))
	if err != nil {
		return apperr.Wrap(apperr.KindPersistence, err, "write setting "+key)
	}
	return nil
}

func (s *SQLiteStore) String(key, def string) string {
	raw, ok := s.raw(key)
	if !ok {
		return def
	}
	var v string
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		s.logger.Warn("corrupt string setting, using default", "key", key)
		return def
	}
	return v
}

func (s *SQLiteStore) SetString(key, value string) error {
	return s.put(key, value)
}

func (s *SQLiteStore) Bool(key string, def bool) bool {
	raw, ok := s.raw(key)
	if !ok {
		return def
	}
	var v bool
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		s.logger.Warn("corrupt bool setting, using default", "key", key)
		return def
	}
	return v
}

func (s *SQLiteStore) SetBool(key string, value bool) error {
	return s.put(key, value)
}

func (s *SQLiteStore) IDList(key string) []int64 {
	raw, ok := s.raw(key)
	if !ok {
		return nil
	}
	var v []int64
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		s.logger.Warn("corrupt id-list setting, using default", "key", key)
		return nil
	}
	return v
}

func (s *SQLiteStore) SetIDList(key string, ids []int64) error {
	if ids == nil {
		ids = []int64{}
	}
	return s.put(key, ids)
}

func (s *SQLiteStore) StringList(key string) []string {
	raw, ok := s.raw(key)
	if !ok {
		return nil
	}
	var v []string
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		s.logger.Warn("corrupt string-list setting, using default", "key", key)
		return nil
	}
	return v
}

func (s *SQLiteStore) SetStringList(key string, values []string) error {
	if values == nil {
		values = []string{}
	}
	return s.put(key, values)
}

// Close releases database resources
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
