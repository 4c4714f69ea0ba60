package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"maps"
	"path/filepath"
	"slices"
	"sync"
	"time"
)

// FileName is the JSON file written by the file backend.
const FileName = "storage.json"

// fileData is the storage.json structure.
type fileData struct {
	Version   string            `json:"version"`
	UpdatedAt time.Time         `json:"updated_at"`
	Items     map[string]string `json:"items"`
}

// File is a durable Store kept in a single JSON file. Every mutation
// rewrites the file atomically; a mutation whose write fails leaves the
// store unchanged. Thread-safe.
type File struct {
	dir   string
	mu    sync.RWMutex
	items map[string]string
}

// OpenFile loads the store from dir. A missing file yields an empty store;
// a file that cannot be parsed returns ErrCorrupt.
func OpenFile(dir string) (*File, error) {
	f := &File{dir: dir, items: make(map[string]string)}
	if err := f.load(); err != nil {
		return nil, err
	}
	return f, nil
}

// Path returns the path of the backing JSON file.
func (f *File) Path() string {
	return filepath.Join(f.dir, FileName)
}

func (f *File) load() error {
	data, err := os.ReadFile(f.Path()) //nolint:gosec // Path from ResolveDir
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read storage: %w", err)
	}

	var fd fileData
	if err := json.Unmarshal(data, &fd); err != nil {
		return fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if fd.Items != nil {
		f.items = fd.Items
	}
	return nil
}

// commit writes items to disk and makes them current only once the write
// succeeded. Callers hold the write lock.
func (f *File) commit(items map[string]string) error {
	if err := f.save(items); err != nil {
		return err
	}
	f.items = items
	return nil
}

func (f *File) save(items map[string]string) error {
	//nolint:gosec // Storage dir from ResolveDir, 0755 allows other tools to read
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}

	data, err := json.MarshalIndent(fileData{
		Version:   "1",
		UpdatedAt: time.Now().UTC(),
		Items:     items,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal storage: %w", err)
	}

	tmp, err := os.CreateTemp(f.dir, ".storage-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath) //nolint:errcheck // Best effort cleanup
		return fmt.Errorf("write storage: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath) //nolint:errcheck // Best effort cleanup
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, f.Path()); err != nil {
		os.Remove(tmpPath) //nolint:errcheck // Best effort cleanup
		return fmt.Errorf("rename storage: %w", err)
	}
	return nil
}

// Get returns the value stored under key.
func (f *File) Get(key string) (string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	v, ok := f.items[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// Set stores value under key and persists the store.
func (f *File) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	next := maps.Clone(f.items)
	next[key] = value
	return f.commit(next)
}

// Remove deletes key and persists the store.
func (f *File) Remove(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.items[key]; !ok {
		return nil
	}
	next := maps.Clone(f.items)
	delete(next, key)
	return f.commit(next)
}

// Clear deletes every key and persists the store.
func (f *File) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.commit(make(map[string]string))
}

// Keys returns all keys in ascending order.
func (f *File) Keys() ([]string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	keys := make([]string, 0, len(f.items))
	for k := range f.items {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys, nil
}

// Len returns the number of stored keys.
func (f *File) Len() (int, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.items), nil
}

// Close is a no-op; every mutation is already on disk.
func (f *File) Close() error {
	return nil
}
