// Package kv persists opaque string blobs by key. The inventory store keeps
// each of its collections as one serialized blob behind this interface.
package kv

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

// Store is a persistent key-value store for string blobs.
type Store interface {
	// Get returns the blob stored under key. The second return value
	// reports whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores the blob under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
}

// SQLite is a Store backed by the kv table of a SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite returns a SQLite-backed Store.
func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db}
}

func (s *SQLite) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM kv WHERE key = ?`, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("getting %q: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLite) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("setting %q: %w", key, err)
	}
	return nil
}

// Memory is an in-memory Store suitable for tests.
type Memory struct {
	mu   sync.Mutex
	data map[string]string
}

// NewMemory returns an empty in-memory Store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.data[key]
	return value, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}
