package library

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/anigo/pkg/filename"
)

// Snapshot is the result of one full library scan: every video file as an
// Episode record plus the standalone subtitle side table.
type Snapshot struct {
	Episodes  []*Episode
	Subtitles map[SubtitleKey]string
}

// Scanner walks a directory tree and parses every file it finds.
type Scanner struct {
	log     *slog.Logger
	workers int
}

// NewScanner creates a scanner. Parsing runs on up to workers goroutines;
// values below 1 fall back to a small default.
func NewScanner(log *slog.Logger, workers int) *Scanner {
	if log == nil {
		log = slog.Default()
	}
	if workers < 1 {
		workers = 4
	}
	return &Scanner{log: log, workers: workers}
}

// Scan enumerates every file under root and classifies it. A missing or
// unset root is "nothing to scan": an empty snapshot, not an error. Errors
// on individual files are logged and skipped so one unreadable directory
// never aborts a whole rescan.
func (s *Scanner) Scan(ctx context.Context, root string) (*Snapshot, error) {
	snap := &Snapshot{Subtitles: make(map[SubtitleKey]string)}
	if root == "" {
		return snap, nil
	}
	if _, err := os.Stat(root); err != nil {
		s.log.Warn("library root not readable, skipping scan", "root", root, "error", err)
		return snap, nil
	}

	var paths []string
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.log.Warn("skipping unreadable path", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !d.IsDir() {
			paths = append(paths, path)
		}
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for _, path := range paths {
		path := path
		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			res := filename.Parse(path)
			if !res.IsAnime {
				return nil
			}

			mu.Lock()
			defer mu.Unlock()
			switch {
			case filename.IsVideoExtension(res.Extension):
				for _, n := range res.Episodes {
					snap.Episodes = append(snap.Episodes, recordFor(res, n))
				}
			case filename.IsSubtitleExtension(res.Extension):
				number := 1
				if len(res.Episodes) > 0 {
					number = res.Episodes[0]
				}
				snap.Subtitles[SubtitleKey{Title: res.Title, Number: number}] = path
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Walk order plus worker scheduling is nondeterministic; keep snapshots
	// stable for callers that report or diff them.
	sort.Slice(snap.Episodes, func(i, j int) bool {
		a, b := snap.Episodes[i], snap.Episodes[j]
		if a.Title != b.Title {
			return a.Title < b.Title
		}
		if a.Number != b.Number {
			return a.Number < b.Number
		}
		return a.Path < b.Path
	})

	s.log.Info("library scan complete", "root", root,
		"episodes", len(snap.Episodes), "standalone_subtitles", len(snap.Subtitles))
	return snap, nil
}

func recordFor(res filename.Result, number int) *Episode {
	season := res.Season
	if season == 0 {
		season = 1
	}
	return &Episode{
		Title:        res.Title,
		EpisodeTitle: res.EpisodeTitle,
		Season:       season,
		Number:       number,
		Path:         res.Path,
	}
}
