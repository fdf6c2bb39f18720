package storage

import (
	"context"
	"fmt"
	"sort"
)

// MemoryStore is an in-memory Store used by tests and by components that
// want a throwaway state container. It enforces the same quota rule as
// SQLStore so quota failures can be exercised without a database.
type MemoryStore struct {
	values     map[string]string
	quotaBytes int
}

// NewMemoryStore creates an empty in-memory store.
// quotaBytes limits the size of a single value; 0 means DefaultQuotaBytes.
func NewMemoryStore(quotaBytes int) *MemoryStore {
	if quotaBytes <= 0 {
		quotaBytes = DefaultQuotaBytes
	}
	return &MemoryStore{
		values:     map[string]string{},
		quotaBytes: quotaBytes,
	}
}

// Get returns the value stored under key.
func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	value, ok := s.values[key]
	return value, ok, nil
}

// Set writes value under key.
func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	if len(value) > s.quotaBytes {
		return fmt.Errorf("key %s: %d bytes > %d: %w", key, len(value), s.quotaBytes, ErrQuotaExceeded)
	}
	s.values[key] = value
	return nil
}

// Delete removes key.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	delete(s.values, key)
	return nil
}

// Keys returns all keys in the store.
func (s *MemoryStore) Keys(_ context.Context) ([]string, error) {
	keys := make([]string, 0, len(s.values))
	for key := range s.values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}
