package events

// Event type identifiers.
const (
	TypeEpisodeWatched = "episode.watched"
	TypeLibraryScanned = "library.scanned"
	TypeListRefreshed  = "list.refreshed"
)

// EpisodeWatchedEvent fires when a playback session detects completion and
// the tracker progress was incremented. Hosts refresh their series views on
// this.
type EpisodeWatchedEvent struct {
	BaseEvent
	Episode   int  `json:"episode"`
	Progress  int  `json:"progress"`
	Completed bool `json:"completed"` // final episode, status flipped
}

// NewEpisodeWatched creates an EpisodeWatchedEvent for a series.
func NewEpisodeWatched(seriesID int64, episode, progress int, completed bool) EpisodeWatchedEvent {
	return EpisodeWatchedEvent{
		BaseEvent: NewBaseEvent(TypeEpisodeWatched, EntitySeries, seriesID),
		Episode:   episode,
		Progress:  progress,
		Completed: completed,
	}
}

// LibraryScannedEvent fires after a full library rescan.
type LibraryScannedEvent struct {
	BaseEvent
	Episodes  int `json:"episodes"`
	Subtitles int `json:"subtitles"`
}

// NewLibraryScanned creates a LibraryScannedEvent.
func NewLibraryScanned(episodes, subtitles int) LibraryScannedEvent {
	return LibraryScannedEvent{
		BaseEvent: NewBaseEvent(TypeLibraryScanned, EntityLibrary, 0),
		Episodes:  episodes,
		Subtitles: subtitles,
	}
}

// ListRefreshedEvent fires after the tracked list was reloaded from the
// sync service.
type ListRefreshedEvent struct {
	BaseEvent
	Count int `json:"count"`
}

// NewListRefreshed creates a ListRefreshedEvent.
func NewListRefreshed(count int) ListRefreshedEvent {
	return ListRefreshedEvent{
		BaseEvent: NewBaseEvent(TypeListRefreshed, EntityList, 0),
		Count:     count,
	}
}
