package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// SQLStore implements Store on a single local SQLite file with one kv table.
type SQLStore struct {
	db         *sqlx.DB
	quotaBytes int
}

// Open opens (and initializes if needed) a SQLite-backed store at path.
// quotaBytes limits the size of a single value; 0 means DefaultQuotaBytes.
func Open(path string, quotaBytes int) (*SQLStore, error) {
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlx.Open(%s) > %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("db.Exec(create kv) > %w", err)
	}
	return NewSQLStore(db, quotaBytes), nil
}

// NewSQLStore wraps an existing database handle. The kv table must exist.
func NewSQLStore(db *sqlx.DB, quotaBytes int) *SQLStore {
	if quotaBytes <= 0 {
		quotaBytes = DefaultQuotaBytes
	}
	return &SQLStore{db: db, quotaBytes: quotaBytes}
}

// Get returns the value stored under key.
func (s *SQLStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.GetContext(ctx, &value, "SELECT value FROM kv WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("db.GetContext(kv) > %w", err)
	}
	return value, true, nil
}

// Set writes value under key, replacing any previous value.
func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	if len(value) > s.quotaBytes {
		return fmt.Errorf("key %s: %d bytes > %d: %w", key, len(value), s.quotaBytes, ErrQuotaExceeded)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value)
	if err != nil {
		return fmt.Errorf("db.ExecContext(upsert kv) > %w", err)
	}
	return nil
}

// Delete removes key.
func (s *SQLStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("db.ExecContext(delete kv) > %w", err)
	}
	return nil
}

// Keys returns all keys in the store.
func (s *SQLStore) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	if err := s.db.SelectContext(ctx, &keys, "SELECT key FROM kv ORDER BY key"); err != nil {
		return nil, fmt.Errorf("db.SelectContext(kv keys) > %w", err)
	}
	return keys, nil
}

// Close closes the underlying database handle.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
