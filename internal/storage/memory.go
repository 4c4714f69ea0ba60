package storage

import (
	"slices"

	"github.com/patrickmn/go-cache"
)

// Memory is an in-memory Store whose entries never expire. It backs the
// session scope: everything is gone when the process exits.
type Memory struct {
	items *cache.Cache
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	// A zero cleanup interval disables the janitor goroutine.
	return &Memory{items: cache.New(cache.NoExpiration, 0)}
}

// Get returns the value stored under key.
func (m *Memory) Get(key string) (string, error) {
	v, found := m.items.Get(key)
	if !found {
		return "", ErrNotFound
	}
	s, ok := v.(string)
	if !ok {
		return "", ErrNotFound
	}
	return s, nil
}

// Set stores value under key.
func (m *Memory) Set(key, value string) error {
	m.items.Set(key, value, cache.NoExpiration)
	return nil
}

// Remove deletes key.
func (m *Memory) Remove(key string) error {
	m.items.Delete(key)
	return nil
}

// Clear deletes every key.
func (m *Memory) Clear() error {
	m.items.Flush()
	return nil
}

// Keys returns all keys in ascending order.
func (m *Memory) Keys() ([]string, error) {
	items := m.items.Items()
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys, nil
}

// Len returns the number of stored keys.
func (m *Memory) Len() (int, error) {
	return m.items.ItemCount(), nil
}

// Close is a no-op.
func (m *Memory) Close() error {
	return nil
}
