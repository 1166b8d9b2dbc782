package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createCollectionsTable = `
CREATE TABLE IF NOT EXISTS planner_collections (
    key        TEXT PRIMARY KEY,
    value      TEXT NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// KeyValueRepository implements domain.KeyValueStore using PostgreSQL
type KeyValueRepository struct {
	pool *pgxpool.Pool
}

// NewKeyValueRepository creates a new KeyValueRepository
func NewKeyValueRepository(pool *pgxpool.Pool) *KeyValueRepository {
	return &KeyValueRepository{pool: pool}
}

// EnsureSchema creates the collections table if it does not exist
func (r *KeyValueRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, createCollectionsTable); err != nil {
		return fmt.Errorf("failed to create collections table: %w", err)
	}
	return nil
}

// GetItem retrieves the value stored under key
func (r *KeyValueRepository) GetItem(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.pool.QueryRow(ctx, `SELECT value FROM planner_collections WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// SetItem upserts value under key
func (r *KeyValueRepository) SetItem(ctx context.Context, key, value string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO planner_collections (key, value, updated_at) VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		key, value)
	return err
}

// RemoveItem deletes the row stored under key
func (r *KeyValueRepository) RemoveItem(ctx context.Context, key string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM planner_collections WHERE key = $1`, key)
	return err
}

// Keys lists keys beginning with prefix in ascending order
func (r *KeyValueRepository) Keys(ctx context.Context, prefix string) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT key FROM planner_collections WHERE starts_with(key, $1) ORDER BY key`, prefix)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}
