package store

import (
	"context"

	cache "github.com/patrickmn/go-cache"
)

// MemoryStore keeps properties in process memory. Nothing survives a restart,
// which makes it suitable for tests and one-shot checks.
type MemoryStore struct {
	items *cache.Cache
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: cache.New(cache.NoExpiration, 0)}
}

// GetGlobalProperty returns the stored value
func (m *MemoryStore) GetGlobalProperty(_ context.Context, key string) (string, bool, error) {
	v, ok := m.items.Get(key)
	if !ok {
		return "", false, nil
	}
	s, _ := v.(string)
	return s, true, nil
}

// SetGlobalProperty stores value under key
func (m *MemoryStore) SetGlobalProperty(_ context.Context, key, value string) error {
	m.items.Set(key, value, cache.NoExpiration)
	return nil
}

// DeleteGlobalProperty removes key
func (m *MemoryStore) DeleteGlobalProperty(_ context.Context, key string) error {
	m.items.Delete(key)
	return nil
}

// Close is a no-op
func (m *MemoryStore) Close() error { return nil }
