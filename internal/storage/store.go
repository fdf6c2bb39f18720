// Package storage provides a persistent string key-value store that the rest
// of the application treats as its only durable state. Values are JSON blobs
// keyed by table-like names. There is no atomicity across keys: each Set
// replaces one whole value, and concurrent writers follow last-writer-wins.
package storage

import (
	"context"
	"errors"
)

// ErrQuotaExceeded is returned by Set when a value is larger than the
// store's configured per-value byte limit.
var ErrQuotaExceeded = errors.New("storage: value exceeds quota")

// DefaultQuotaBytes is the per-value size limit used when none is configured.
const DefaultQuotaBytes = 5 * 1024 * 1024

//go:generate mockgen -source=store.go -destination=../mocks/storage/mock_store.go -package=mock_storage Store

// Store is a synchronous string key-value store.
type Store interface {
	// Get returns the value for key. The second result is false when the
	// key does not exist.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set writes value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Keys returns all keys currently present.
	Keys(ctx context.Context) ([]string, error)
}
