// Package tracker models the remote watch-list: canonical series records,
// the user's list entries, and the sync service collaborator that owns them.
package tracker

import (
	"fmt"
	"time"
)

// UserStatus is the user's list state for one series.
type UserStatus string

const (
	StatusCurrent   UserStatus = "CURRENT"
	StatusPlanning  UserStatus = "PLANNING"
	StatusCompleted UserStatus = "COMPLETED"
	StatusDropped   UserStatus = "DROPPED"
	StatusPaused    UserStatus = "PAUSED"
	StatusRepeating UserStatus = "REPEATING"
)

// MediaStatus is the airing state of the series itself.
type MediaStatus string

const (
	MediaFinished       MediaStatus = "FINISHED"
	MediaReleasing      MediaStatus = "RELEASING"
	MediaNotYetReleased MediaStatus = "NOT_YET_RELEASED"
	MediaCancelled      MediaStatus = "CANCELLED"
	MediaHiatus         MediaStatus = "HIATUS"
)

// Tag is a weighted descriptor attached to a series.
type Tag struct {
	Name string `json:"name"`
	Rank int    `json:"rank"`
}

// ListEntry is the user-owned part of a tracked series. Its ID is the
// list-entry ID, distinct from the series ID, and is what mutation calls
// are keyed by.
type ListEntry struct {
	ID          int64      `json:"id"`
	Status      UserStatus `json:"status"`
	Score       float64    `json:"score"`
	Progress    int        `json:"progress"`
	Repeat      int        `json:"repeat"`
	Notes       string     `json:"notes"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// Series is one canonical series as known by the remote tracker. Identity is
// the series ID alone. The optional Entry carries the user's list state.
type Series struct {
	ID             int64       `json:"id"`
	RomajiTitle    string      `json:"romaji_title"`
	EnglishTitle   string      `json:"english_title"`
	NativeTitle    string      `json:"native_title"`
	PreferredTitle string      `json:"preferred_title"`
	Status         MediaStatus `json:"status"`
	Description    string      `json:"description"`
	StartDate      *time.Time  `json:"start_date,omitempty"`
	EndDate        *time.Time  `json:"end_date,omitempty"`
	EpisodeCount   int         `json:"episode_count"`
	AverageScore   int         `json:"average_score"`
	Season         string      `json:"season"`
	Genres         []string    `json:"genres,omitempty"`
	Tags           []Tag       `json:"tags,omitempty"`
	Studio         string      `json:"studio"`
	Entry          *ListEntry  `json:"entry,omitempty"`
}

func (s *Series) String() string {
	return fmt.Sprintf("<Series id=%d title=%q>", s.ID, s.DisplayTitle())
}

// Titles returns the non-empty title variants, english first, matching the
// order matching ratios are computed in.
func (s *Series) Titles() []string {
	var titles []string
	for _, t := range []string{s.EnglishTitle, s.RomajiTitle, s.NativeTitle} {
		if t != "" {
			titles = append(titles, t)
		}
	}
	return titles
}

// DisplayTitle prefers the user-preferred variant, falling back through the
// others so something printable always comes back.
func (s *Series) DisplayTitle() string {
	for _, t := range []string{s.PreferredTitle, s.EnglishTitle, s.RomajiTitle, s.NativeTitle} {
		if t != "" {
			return t
		}
	}
	return fmt.Sprintf("series %d", s.ID)
}

// Progress returns watched-episode progress, zero when the series has no
// list entry yet.
func (s *Series) Progress() int {
	if s.Entry == nil {
		return 0
	}
	return s.Entry.Progress
}

// UserStatus returns the list status, empty when untracked.
func (s *Series) UserStatus() UserStatus {
	if s.Entry == nil {
		return ""
	}
	return s.Entry.Status
}

// ApplyEntry mutates the list-entry fields in place after a partial update
// returns from the service, leaving the series metadata untouched.
func (s *Series) ApplyEntry(entry *ListEntry) {
	if entry == nil {
		return
	}
	if s.Entry == nil {
		s.Entry = &ListEntry{ID: entry.ID}
	}
	s.Entry.Status = entry.Status
	s.Entry.Score = entry.Score
	s.Entry.Progress = entry.Progress
	s.Entry.Repeat = entry.Repeat
	s.Entry.Notes = entry.Notes
	s.Entry.StartedAt = entry.StartedAt
	s.Entry.CompletedAt = entry.CompletedAt
	s.Entry.UpdatedAt = entry.UpdatedAt
}
