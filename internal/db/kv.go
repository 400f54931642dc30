package db

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"
)

// ErrKeyNotFound is returned by Get when no value is stored under the key.
var ErrKeyNotFound = stderrors.New("key not found")

// KV is a flat key-value store over the kv table. Every Put replaces the
// whole value; there are no partial writes.
type KV struct {
	db *sql.DB
}

// NewKV wraps an initialized database.
func NewKV(db *sql.DB) *KV {
	return &KV{db: db}
}

// Get returns the value stored under key, or ErrKeyNotFound.
func (s *KV) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %q: %w", key, err)
	}
	return value, nil
}

// Put stores value under key, overwriting any previous value.
func (s *KV) Put(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *KV) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

// UpdatedAt returns the Unix time of the last Put for key.
func (s *KV) UpdatedAt(ctx context.Context, key string) (int64, error) {
	var ts int64
	err := s.db.QueryRowContext(ctx, `SELECT updated_at FROM kv WHERE key = ?`, key).Scan(&ts)
	if err == sql.ErrNoRows {
		return 0, ErrKeyNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("updated_at %q: %w", key, err)
	}
	return ts, nil
}
