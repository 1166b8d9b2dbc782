package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// KeyValueStore implements domain.KeyValueStore in process memory.
// Used for local development and tests; contents are lost on restart.
type KeyValueStore struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewKeyValueStore creates an empty in-memory store
func NewKeyValueStore() *KeyValueStore {
	return &KeyValueStore{items: make(map[string]string)}
}

// GetItem returns the value stored under key
func (s *KeyValueStore) GetItem(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.items[key]
	return value, ok, nil
}

// SetItem stores value under key, replacing any previous value
func (s *KeyValueStore) SetItem(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
	return nil
}

// RemoveItem deletes key; removing an absent key is a no-op
func (s *KeyValueStore) RemoveItem(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}

// Keys returns the sorted keys starting with prefix
func (s *KeyValueStore) Keys(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.items))
	for key := range s.items {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
