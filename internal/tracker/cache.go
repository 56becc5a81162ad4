package tracker

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Cache persists the last list snapshot to SQLite so the client starts with
// data before (or without) a remote refresh.
type Cache struct {
	db *sql.DB
}

// NewCache wraps an open database handle.
func NewCache(db *sql.DB) *Cache {
	return &Cache{db: db}
}

// Init creates the snapshot table if needed.
func (c *Cache) Init(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS series_cache (
			id INTEGER PRIMARY KEY,
			payload TEXT NOT NULL,
			fetched_at TIMESTAMP NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("init series cache: %w", err)
	}
	return nil
}

// Save replaces the cached snapshot with the given list.
func (c *Cache) Save(ctx context.Context, list []*Series) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM series_cache`); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}
	now := time.Now()
	for _, s := range list {
		payload, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("marshal series %d: %w", s.ID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO series_cache (id, payload, fetched_at) VALUES (?, ?, ?)`,
			s.ID, string(payload), now,
		); err != nil {
			return fmt.Errorf("insert series %d: %w", s.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// Load returns the cached snapshot ordered by series ID. An empty cache is
// an empty list, not an error.
func (c *Cache) Load(ctx context.Context) ([]*Series, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT payload FROM series_cache ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query snapshot: %w", err)
	}
	defer rows.Close()

	var list []*Series
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		var s Series
		if err := json.Unmarshal([]byte(payload), &s); err != nil {
			return nil, fmt.Errorf("decode cached series: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
