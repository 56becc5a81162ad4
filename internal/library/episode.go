// Package library scans a media directory into flat episode records that the
// matcher reconciles against tracked series.
package library

import (
	"fmt"
	"strings"
)

// Episode is one physical video file reduced to structured metadata. Records
// are rebuilt on every rescan and never persisted; subtitle tracks are
// attached lazily when a playback session needs them.
type Episode struct {
	Title        string
	EpisodeTitle string
	Season       int // 1 unless the filename says otherwise
	Number       int
	Path         string
	Subtitles    []SubtitleTrack
}

func (e *Episode) String() string {
	return fmt.Sprintf("%s #%d (season %d)", e.Title, e.Number, e.Season)
}

// SubtitleTrack is either an embedded subtitle stream (Path empty, ID is the
// stream position) or a standalone subtitle file matched by title+episode.
type SubtitleTrack struct {
	Language string
	Title    string
	ID       int
	Path     string
}

// SongsSigns guesses from the track title whether this track only covers
// songs and on-screen signs rather than dialogue.
func (t SubtitleTrack) SongsSigns() bool {
	title := strings.ToLower(t.Title)
	return strings.Contains(title, "songs") || strings.Contains(title, "signs")
}

// SubtitleKey addresses a standalone subtitle file in the scanner's side
// table. Keys are not unique across series with near-identical titles; that
// ambiguity is accepted, the matcher owns disambiguation for video records.
type SubtitleKey struct {
	Title  string
	Number int
}

// AttachStandalone appends a standalone subtitle file for this episode, if
// the side table has one under the episode's parsed title.
func (e *Episode) AttachStandalone(subs map[SubtitleKey]string) {
	path, ok := subs[SubtitleKey{Title: e.Title, Number: e.Number}]
	if !ok {
		return
	}
	for _, t := range e.Subtitles {
		if t.Path == path {
			return
		}
	}
	e.Subtitles = append(e.Subtitles, SubtitleTrack{
		ID:   len(e.Subtitles) + 1,
		Path: path,
	})
}

// SelectSubtitle picks the preferred track for playback: the first track,
// demoted when it is songs/signs-only and that should be skipped, then
// overridden by the first track in the wanted language.
func SelectSubtitle(tracks []SubtitleTrack, language string, skipSongsSigns bool) *SubtitleTrack {
	if len(tracks) == 0 {
		return nil
	}

	rest := make([]SubtitleTrack, len(tracks)-1)
	copy(rest, tracks[1:])
	priority := tracks[0]

	if skipSongsSigns && priority.SongsSigns() {
		for i, t := range rest {
			if !t.SongsSigns() {
				priority = t
				rest = append(rest[:i], rest[i+1:]...)
				break
			}
		}
	}

	if language != "" && priority.Language != language {
		for _, t := range rest {
			if t.Language == language {
				priority = t
				break
			}
		}
	}

	return &priority
}
