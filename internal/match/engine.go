// Package match reconciles scanned episode files against tracked series
// using fuzzy title similarity with a deterministic tie-break cascade.
package match

import (
	"fmt"
	"log/slog"

	"github.com/vmunix/anigo/internal/library"
	"github.com/vmunix/anigo/internal/tracker"
	"github.com/vmunix/anigo/pkg/filename"
)

const (
	// acceptThreshold is the minimum title ratio for a file to count as a
	// candidate at all.
	acceptThreshold = 80
	// exactThreshold is used for exact-name lookups.
	exactThreshold = 100
	// movieThreshold decides whether an episode title means "The Movie".
	movieThreshold = 85
)

// Engine matches library episodes to series. It is stateless and safe to
// call from any goroutine; it only reads the snapshots it is handed.
type Engine struct {
	log *slog.Logger
}

// NewEngine creates a matching engine.
func NewEngine(log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{log: log}
}

type candidate struct {
	file  *library.Episode
	ratio int
}

// EpisodesFor returns, per episode number, the single file that belongs to
// the series. Numbers with no surviving candidate are absent from the map;
// the caller reports those as missing episodes rather than guessing.
func (e *Engine) EpisodesFor(files []*library.Episode, s *tracker.Series) map[int]*library.Episode {
	return e.cull(files, s, 0)
}

// EpisodeFor resolves a single episode number, or nil when unmatched.
func (e *Engine) EpisodeFor(files []*library.Episode, s *tracker.Series, number int) *library.Episode {
	return e.cull(files, s, number)[number]
}

// candidates does the naive first pass: every file whose episode number fits
// the series and whose title (or episode title) fuzzy-matches any title
// variant at the acceptance threshold, grouped by episode number.
func (e *Engine) candidates(files []*library.Episode, s *tracker.Series, onlyNumber int) map[int][]candidate {
	out := make(map[int][]candidate)
	for _, f := range files {
		if onlyNumber != 0 && f.Number != onlyNumber {
			continue
		}
		// Numbers past the series' own count belong to something else,
		// usually a sequel sharing the base title.
		if f.Number > s.EpisodeCount {
			continue
		}

		best := 0
		for _, title := range s.Titles() {
			r := filename.Ratio(title, f.Title)
			if f.EpisodeTitle != "" {
				if alt := filename.Ratio(title, f.EpisodeTitle); alt > r {
					r = alt
				}
			}
			if r > best {
				best = r
			}
		}
		if best >= acceptThreshold {
			out[f.Number] = append(out[f.Number], candidate{file: f, ratio: best})
		}
	}
	return out
}

// cull reduces each episode number's candidate list to one file.
//
// Sequels are routinely labelled as "seasons" of the base title by release
// conventions while the tracker stores them as separate series ("Bookworm",
// "Bookworm Part 2"), so plain fuzzy scores tie constantly. Re-scoring with
// the parsed season appended separates any candidate whose season is named
// in the series title; the remaining ties fall through the cascade: prefer
// season 1, then the movie heuristic, then first-remaining.
func (e *Engine) cull(files []*library.Episode, s *tracker.Series, onlyNumber int) map[int]*library.Episode {
	culled := make(map[int]*library.Episode)

	for number, cands := range e.candidates(files, s, onlyNumber) {
		largest := 0
		var tied []*library.Episode

		for _, c := range cands {
			best := 0
			for _, title := range s.Titles() {
				r := filename.Ratio(title, fmt.Sprintf("%s %d", c.file.Title, c.file.Season))
				if c.file.EpisodeTitle != "" {
					alt := filename.Ratio(title, fmt.Sprintf("%s %d", c.file.EpisodeTitle, c.file.Season))
					if alt > r {
						r = alt
					}
				}
				if r > best {
					best = r
				}
			}
			switch {
			case best > largest:
				largest = best
				tied = tied[:0]
				tied = append(tied, c.file)
			case best == largest:
				tied = append(tied, c.file)
			}
		}

		if len(tied) == 1 {
			culled[number] = tied[0]
			continue
		}
		if len(tied) == 0 {
			continue
		}

		if winner := e.breakTie(tied, s); winner != nil {
			culled[number] = winner
		} else {
			e.log.Debug("no candidate survived tie-breaking",
				"series", s.DisplayTitle(), "episode", number, "candidates", len(tied))
		}
	}
	return culled
}

// breakTie applies the cascade to candidates that scored identically.
// Returns nil when every stage comes up empty; an unresolved episode is
// better than a wrong guess.
func (e *Engine) breakTie(tied []*library.Episode, s *tracker.Series) *library.Episode {
	// Season-1 files are the ones whose filenames carry no sequel marker;
	// anything later should already have separated during re-scoring.
	var seasonOne []*library.Episode
	for _, f := range tied {
		if f.Season == 1 {
			seasonOne = append(seasonOne, f)
		}
	}
	if len(seasonOne) == 1 {
		return seasonOne[0]
	}

	var movie *library.Episode
	var notMovie []*library.Episode
	if s.EpisodeCount == 1 {
		// A single-episode series is usually a movie; a file whose episode
		// title reads "The Movie" is almost certainly it.
		for _, f := range seasonOne {
			if filename.Ratio(f.EpisodeTitle, "The Movie") >= movieThreshold {
				movie = f
			}
		}
	} else {
		for _, f := range seasonOne {
			if filename.Ratio(f.EpisodeTitle, "The Movie") < movieThreshold {
				notMovie = append(notMovie, f)
			}
		}
	}

	switch {
	case movie != nil:
		return movie
	case len(notMovie) > 0:
		return notMovie[0]
	case len(seasonOne) > 0:
		return seasonOne[0]
	}
	return nil
}

// Missing returns the ascending episode numbers the series should have but
// the matched map does not cover.
func (e *Engine) Missing(s *tracker.Series, matched map[int]*library.Episode) []int {
	var missing []int
	for n := 1; n <= s.EpisodeCount; n++ {
		if _, ok := matched[n]; !ok {
			missing = append(missing, n)
		}
	}
	return missing
}

// FindSeries returns the first series (in collection order) whose title
// fuzzy-matches the query, or nil. Exact lookups require a perfect ratio.
func (e *Engine) FindSeries(col *tracker.Collection, query string, exact bool) *tracker.Series {
	if query == "" {
		return nil
	}
	threshold := acceptThreshold
	if exact {
		threshold = exactThreshold
	}
	for _, s := range col.All() {
		for _, title := range s.Titles() {
			if filename.Ratio(query, title) >= threshold {
				return s
			}
		}
	}
	return nil
}
