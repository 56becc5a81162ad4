package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubtitleTrackSongsSigns(t *testing.T) {
	tests := []struct {
		title string
		want  bool
	}{
		{"Signs & Songs", true},
		{"songs only", true},
		{"Full Subtitles", false},
		{"Dialogue", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			track := SubtitleTrack{Title: tt.title}
			assert.Equal(t, tt.want, track.SongsSigns())
		})
	}
}

func TestSelectSubtitle(t *testing.T) {
	dialogue := SubtitleTrack{Language: "en", Title: "Dialogue", ID: 1}
	signs := SubtitleTrack{Language: "en", Title: "Signs & Songs", ID: 2}
	french := SubtitleTrack{Language: "fr", Title: "Dialogue", ID: 3}

	t.Run("no tracks", func(t *testing.T) {
		assert.Nil(t, SelectSubtitle(nil, "en", true))
	})

	t.Run("first track wins by default", func(t *testing.T) {
		got := SelectSubtitle([]SubtitleTrack{dialogue, signs}, "en", true)
		assert.Equal(t, &dialogue, got)
	})

	t.Run("songs and signs track is skipped", func(t *testing.T) {
		got := SelectSubtitle([]SubtitleTrack{signs, dialogue}, "en", true)
		assert.Equal(t, &dialogue, got)
	})

	t.Run("songs and signs kept when skipping disabled", func(t *testing.T) {
		got := SelectSubtitle([]SubtitleTrack{signs, dialogue}, "en", false)
		assert.Equal(t, &signs, got)
	})

	t.Run("language preference overrides position", func(t *testing.T) {
		got := SelectSubtitle([]SubtitleTrack{french, dialogue}, "en", true)
		assert.Equal(t, &dialogue, got)
	})

	t.Run("no language preference keeps first", func(t *testing.T) {
		got := SelectSubtitle([]SubtitleTrack{french, dialogue}, "", true)
		assert.Equal(t, &french, got)
	})
}

func TestAttachStandalone(t *testing.T) {
	e := &Episode{Title: "Frieren", Number: 3}
	subs := map[SubtitleKey]string{
		{Title: "Frieren", Number: 3}: "/media/Frieren - 03.ass",
	}

	e.AttachStandalone(subs)
	assert.Len(t, e.Subtitles, 1)
	assert.Equal(t, "/media/Frieren - 03.ass", e.Subtitles[0].Path)

	// Attaching again must not duplicate the track.
	e.AttachStandalone(subs)
	assert.Len(t, e.Subtitles, 1)
}

func TestAttachStandaloneNoEntry(t *testing.T) {
	e := &Episode{Title: "Frieren", Number: 4}
	e.AttachStandalone(map[SubtitleKey]string{})
	assert.Empty(t, e.Subtitles)
}
