package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// KeyValueStore implements domain.KeyValueStore on an embedded SQLite file
type KeyValueStore struct {
	db *sql.DB
}

// NewKeyValueStore opens (creating if needed) the database at dbPath and migrates it
func NewKeyValueStore(dbPath string) (*KeyValueStore, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// modernc sqlite serialises writers; one connection avoids SQLITE_BUSY under concurrent saves
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, err
	}

	return &KeyValueStore{db: db}, nil
}

// Close releases the database handle
func (s *KeyValueStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// GetItem returns the value stored under key
func (s *KeyValueStore) GetItem(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM collections WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get item %s: %w", key, err)
	}
	return value, true, nil
}

// SetItem upserts value under key
func (s *KeyValueStore) SetItem(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO collections (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value)
	if err != nil {
		return fmt.Errorf("set item %s: %w", key, err)
	}
	return nil
}

// RemoveItem deletes key
func (s *KeyValueStore) RemoveItem(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM collections WHERE key = ?`, key); err != nil {
		return fmt.Errorf("remove item %s: %w", key, err)
	}
	return nil
}

// Keys returns the sorted keys starting with prefix
func (s *KeyValueStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key FROM collections WHERE substr(key, 1, ?) = ? ORDER BY key`,
		len(prefix), prefix)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate keys: %w", err)
	}
	return keys, nil
}

