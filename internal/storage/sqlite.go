package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteFileName is the database file written by the sqlite backend.
const SQLiteFileName = "storage.db"

const schema = `
CREATE TABLE IF NOT EXISTS storage (
	name TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at DATETIME NOT NULL
);`

// SQLite is a durable Store kept in a SQLite database.
type SQLite struct {
	db *sqlx.DB
}

// OpenSQLite opens or creates the database at path.
func OpenSQLite(path string, log logrus.FieldLogger) (*SQLite, error) {
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite storage: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		log.WithError(err).Warn("Failed to enable WAL mode")
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create storage table: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Get returns the value stored under key.
func (s *SQLite) Get(key string) (string, error) {
	var value string
	err := s.db.Get(&value, "SELECT value FROM storage WHERE name = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get %q: %w", key, err)
	}
	return value, nil
}

// Set stores value under key.
func (s *SQLite) Set(key, value string) error {
	const stmt = `
	INSERT INTO storage(name, value, updated_at)
	VALUES(?, ?, ?)
	ON CONFLICT(name) DO UPDATE SET
		value=excluded.value,
		updated_at=excluded.updated_at;`

	if _, err := s.db.Exec(stmt, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

// Remove deletes key.
func (s *SQLite) Remove(key string) error {
	if _, err := s.db.Exec("DELETE FROM storage WHERE name = ?", key); err != nil {
		return fmt.Errorf("remove %q: %w", key, err)
	}
	return nil
}

// Clear deletes every key.
func (s *SQLite) Clear() error {
	if _, err := s.db.Exec("DELETE FROM storage"); err != nil {
		return fmt.Errorf("clear storage: %w", err)
	}
	return nil
}

// Keys returns all keys in ascending order.
func (s *SQLite) Keys() ([]string, error) {
	keys := []string{}
	if err := s.db.Select(&keys, "SELECT name FROM storage ORDER BY name"); err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	return keys, nil
}

// Len returns the number of stored keys.
func (s *SQLite) Len() (int, error) {
	var n int
	if err := s.db.Get(&n, "SELECT COUNT(*) FROM storage"); err != nil {
		return 0, fmt.Errorf("count keys: %w", err)
	}
	return n, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}
