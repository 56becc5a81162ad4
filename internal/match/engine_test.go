package match

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vmunix/anigo/internal/library"
	"github.com/vmunix/anigo/internal/tracker"
)

func series(id int64, title string, episodes int) *tracker.Series {
	return &tracker.Series{ID: id, EnglishTitle: title, EpisodeCount: episodes}
}

func file(title string, season, number int) *library.Episode {
	return &library.Episode{Title: title, Season: season, Number: number, Path: title}
}

func TestEpisodesFor(t *testing.T) {
	e := NewEngine(nil)
	s := series(1, "Frieren", 12)
	files := []*library.Episode{
		file("Frieren", 1, 1),
		file("Frieren", 1, 2),
		file("Frieren", 1, 3),
		file("One Piece", 1, 1),
	}

	matched := e.EpisodesFor(files, s)

	assert.Len(t, matched, 3)
	assert.Equal(t, files[0], matched[1])
	assert.Equal(t, files[1], matched[2])
	assert.Equal(t, files[2], matched[3])
}

func TestEpisodesForSkipsNumbersPastCount(t *testing.T) {
	e := NewEngine(nil)
	s := series(1, "Frieren", 12)
	files := []*library.Episode{file("Frieren", 1, 13)}

	assert.Empty(t, e.EpisodesFor(files, s))
}

func TestCullSeasonRescoring(t *testing.T) {
	e := NewEngine(nil)
	seasonOne := file("Bookworm", 1, 1)
	seasonTwo := file("Bookworm", 2, 1)
	files := []*library.Episode{seasonOne, seasonTwo}

	t.Run("base series takes season one", func(t *testing.T) {
		matched := e.EpisodesFor(files, series(1, "Bookworm", 14))
		assert.Equal(t, seasonOne, matched[1])
	})

	t.Run("sequel series takes its season", func(t *testing.T) {
		matched := e.EpisodesFor(files, series(2, "Bookworm 2", 12))
		assert.Equal(t, seasonTwo, matched[1])
	})
}

func TestBreakTieMovie(t *testing.T) {
	e := NewEngine(nil)
	s := series(1, "Lonely Castle", 1)
	movie := &library.Episode{Title: "Lonely Castle", EpisodeTitle: "The Movie", Season: 1, Number: 1, Path: "a"}
	other := &library.Episode{Title: "Lonely Castle", Season: 1, Number: 1, Path: "b"}

	matched := e.EpisodesFor([]*library.Episode{other, movie}, s)
	assert.Equal(t, movie, matched[1])
}

func TestBreakTieUnresolved(t *testing.T) {
	e := NewEngine(nil)
	s := series(1, "Zeta", 12)
	files := []*library.Episode{
		&library.Episode{Title: "Zeta", Season: 2, Number: 3, Path: "a"},
		&library.Episode{Title: "Zeta", Season: 2, Number: 3, Path: "b"},
	}

	matched := e.EpisodesFor(files, s)
	assert.NotContains(t, matched, 3)
}

func TestEpisodeFor(t *testing.T) {
	e := NewEngine(nil)
	s := series(1, "Frieren", 12)
	files := []*library.Episode{
		file("Frieren", 1, 1),
		file("Frieren", 1, 2),
	}

	assert.Equal(t, files[1], e.EpisodeFor(files, s, 2))
	assert.Nil(t, e.EpisodeFor(files, s, 7))
}

func TestMissing(t *testing.T) {
	e := NewEngine(nil)
	s := series(1, "Frieren", 12)
	files := []*library.Episode{
		file("Frieren", 1, 1),
		file("Frieren", 1, 2),
		file("Frieren", 1, 3),
		file("Frieren", 1, 5),
	}

	missing := e.Missing(s, e.EpisodesFor(files, s))
	assert.Equal(t, []int{4, 6, 7, 8, 9, 10, 11, 12}, missing)
}

func TestMissingComplete(t *testing.T) {
	e := NewEngine(nil)
	s := series(1, "Frieren", 2)
	files := []*library.Episode{
		file("Frieren", 1, 1),
		file("Frieren", 1, 2),
	}

	assert.Empty(t, e.Missing(s, e.EpisodesFor(files, s)))
}

func TestFindSeries(t *testing.T) {
	e := NewEngine(nil)
	col := tracker.NewCollection()
	col.Replace([]*tracker.Series{
		series(10, "Frieren", 28),
		series(20, "One Piece", 1000),
	})

	t.Run("fuzzy", func(t *testing.T) {
		got := e.FindSeries(col, "frieren", false)
		assert.NotNil(t, got)
		assert.Equal(t, int64(10), got.ID)
	})

	t.Run("exact requires perfect ratio", func(t *testing.T) {
		assert.Nil(t, e.FindSeries(col, "One Piec", true))
		got := e.FindSeries(col, "one piece", true)
		assert.NotNil(t, got)
		assert.Equal(t, int64(20), got.ID)
	})

	t.Run("empty query", func(t *testing.T) {
		assert.Nil(t, e.FindSeries(col, "", false))
	})

	t.Run("no match", func(t *testing.T) {
		assert.Nil(t, e.FindSeries(col, "completely different", false))
	})
}
