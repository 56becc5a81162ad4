package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// History persists events to SQLite, giving the client a durable record of
// what was watched and when.
type History struct {
	db *sql.DB
}

// NewHistory wraps an open database handle.
func NewHistory(db *sql.DB) *History {
	return &History{db: db}
}

// Init creates the events table if needed.
func (h *History) Init(ctx context.Context) error {
	_, err := h.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			event_type TEXT NOT NULL,
			entity_type TEXT NOT NULL,
			entity_id INTEGER NOT NULL,
			payload TEXT NOT NULL,
			occurred_at TIMESTAMP NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("init event history: %w", err)
	}
	return nil
}

// Append persists an event and returns its row ID.
func (h *History) Append(ctx context.Context, e Event) (int64, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return 0, fmt.Errorf("marshal event: %w", err)
	}
	result, err := h.db.ExecContext(ctx, `
		INSERT INTO events (event_type, entity_type, entity_id, payload, occurred_at)
		VALUES (?, ?, ?, ?, ?)`,
		e.EventType(), e.EntityType(), e.EntityID(), string(payload), e.OccurredAt(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert event: %w", err)
	}
	return result.LastInsertId()
}

// StoredEvent is a persisted event with its raw payload.
type StoredEvent struct {
	ID         int64
	EventType  string
	EntityType string
	EntityID   int64
	Payload    string
	OccurredAt time.Time
}

// Since returns all events at or after the given time, oldest first.
func (h *History) Since(ctx context.Context, t time.Time) ([]StoredEvent, error) {
	rows, err := h.db.QueryContext(ctx, `
		SELECT id, event_type, entity_type, entity_id, payload, occurred_at
		FROM events WHERE occurred_at >= ? ORDER BY id ASC`, t)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()
	return scanStored(rows)
}

// ForSeries returns all events recorded for one series, oldest first.
func (h *History) ForSeries(ctx context.Context, seriesID int64) ([]StoredEvent, error) {
	rows, err := h.db.QueryContext(ctx, `
		SELECT id, event_type, entity_type, entity_id, payload, occurred_at
		FROM events WHERE entity_type = ? AND entity_id = ? ORDER BY id ASC`,
		EntitySeries, seriesID)
	if err != nil {
		return nil, fmt.Errorf("query series events: %w", err)
	}
	defer rows.Close()
	return scanStored(rows)
}

// Prune removes events older than the given age and reports how many rows
// went away.
func (h *History) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	result, err := h.db.ExecContext(ctx, `DELETE FROM events WHERE occurred_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune events: %w", err)
	}
	return result.RowsAffected()
}

func scanStored(rows *sql.Rows) ([]StoredEvent, error) {
	var out []StoredEvent
	for rows.Next() {
		var e StoredEvent
		if err := rows.Scan(&e.ID, &e.EventType, &e.EntityType, &e.EntityID, &e.Payload, &e.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
