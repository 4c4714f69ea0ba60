// Package storage provides the key-value stores behind the session and local
// storage scopes: an in-memory store that lives as long as the process and
// durable stores backed by a JSON file or a SQLite database.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Durable backend names.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// DirName is the storage directory created under the user config dir.
const DirName = "codetabs"

// Errors.
var (
	ErrNotFound       = errors.New("storage: key not found")
	ErrUnknownBackend = errors.New("storage: unknown backend")
	ErrCorrupt        = errors.New("storage: corrupt data file")
)

// Store is a string key-value store.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(key string) (string, error)
	// Set stores value under key, replacing any previous value.
	Set(key, value string) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(key string) error
	// Clear deletes every key.
	Clear() error
	// Keys returns all keys in ascending order.
	Keys() ([]string, error)
	// Len returns the number of stored keys.
	Len() (int, error)
	// Close releases resources held by the store.
	Close() error
}

// ResolveDir determines the durable storage directory.
// Order: explicit dir → user config dir → CWD.
func ResolveDir(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, DirName), nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get cwd: %w", err)
	}
	return filepath.Join(cwd, "."+DirName), nil
}

// Open opens the durable store for backend inside dir.
func Open(backend, dir string, log logrus.FieldLogger) (Store, error) {
	log = log.WithFields(logrus.Fields{"backend": backend, "dir": dir})

	switch backend {
	case BackendFile:
		s, err := OpenFile(dir)
		if err != nil {
			return nil, err
		}
		log.Debug("opened file storage")
		return s, nil
	case BackendSQLite:
		//nolint:gosec // Storage dir from config, 0755 allows other tools to read
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
		s, err := OpenSQLite(filepath.Join(dir, SQLiteFileName), log)
		if err != nil {
			return nil, err
		}
		log.Debug("opened sqlite storage")
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}
