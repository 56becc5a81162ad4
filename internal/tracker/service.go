package tracker

import (
	"context"
	"time"
)

// EntryUpdate is a partial mutation of one list entry. Nil fields are left
// untouched by the service.
type EntryUpdate struct {
	ListID      int64
	Status      *UserStatus
	Score       *float64
	Progress    *int
	Repeat      *int
	Notes       *string
	StartedAt   *time.Time
	CompletedAt *time.Time
}

// Service is the remote list-sync collaborator. The wire protocol is out of
// scope here; implementations only have to honor these three calls.
//
//go:generate mockgen -destination mock/service.go -package mock . Service
type Service interface {
	// List returns the user's full tracked list.
	List(ctx context.Context) ([]*Series, error)
	// SaveEntry applies a partial update and returns the entry as the
	// remote now sees it.
	SaveEntry(ctx context.Context, update EntryUpdate) (*ListEntry, error)
	// DeleteEntry removes a list entry by its list-entry ID.
	DeleteEntry(ctx context.Context, listID int64) error
}
