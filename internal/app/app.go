// Package app wires the client together: config, tracked list, library
// scanner, matcher, event bus and playback sessions behind one facade the
// CLI commands call into.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vmunix/anigo/internal/config"
	"github.com/vmunix/anigo/internal/events"
	"github.com/vmunix/anigo/internal/library"
	"github.com/vmunix/anigo/internal/match"
	"github.com/vmunix/anigo/internal/player"
	"github.com/vmunix/anigo/internal/tracker"
)

// watchInterval is how often the background loop rescans the library and
// refreshes the tracked list.
const watchInterval = 2 * time.Minute

// App is the composed client. One instance lives for the process; all
// methods are safe for concurrent use.
type App struct {
	Store      *config.Store
	Collection *tracker.Collection
	Bus        *events.Bus

	scanner *library.Scanner
	engine  *match.Engine
	svc     tracker.Service
	prober  *library.Prober
	cache   *tracker.Cache
	history *events.History
	db      *sql.DB
	log     *slog.Logger

	mu   sync.RWMutex
	snap *library.Snapshot
}

// Options carries the injectable collaborators. Service is required; the
// rest default to production implementations.
type Options struct {
	Store   *config.Store
	Service tracker.Service
	Logger  *slog.Logger
	Workers int
}

// New builds the app, opens its SQLite database and warms the collection
// from the cached list snapshot if one exists.
func New(ctx context.Context, opts Options) (*App, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("app requires a config store")
	}
	if opts.Service == nil {
		return nil, fmt.Errorf("app requires a tracker service")
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	settings := opts.Store.Settings()
	db, err := sql.Open("sqlite", settings.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", settings.DatabasePath, err)
	}

	history := events.NewHistory(db)
	if err := history.Init(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	cache := tracker.NewCache(db)
	if err := cache.Init(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	a := &App{
		Store:      opts.Store,
		Collection: tracker.NewCollection(),
		Bus:        events.NewBus(history, log),
		scanner:    library.NewScanner(log, opts.Workers),
		engine:     match.NewEngine(log),
		svc:        opts.Service,
		prober:     library.NewProber(""),
		cache:      cache,
		history:    history,
		db:         db,
		log:        log,
		snap:       &library.Snapshot{Subtitles: make(map[library.SubtitleKey]string)},
	}

	cached, err := cache.Load(ctx)
	if err != nil {
		log.Warn("failed to load cached list", "error", err)
	} else if len(cached) > 0 {
		a.Collection.Replace(cached)
		log.Debug("loaded cached list", "series", len(cached))
	}
	return a, nil
}

// Close releases the bus and the database.
func (a *App) Close() error {
	a.Bus.Close()
	return a.db.Close()
}

// RefreshList pulls the tracked list from the sync service, persists the
// snapshot and announces the refresh.
func (a *App) RefreshList(ctx context.Context) error {
	if err := a.Collection.Refresh(ctx, a.svc); err != nil {
		return err
	}
	list := a.Collection.All()
	if err := a.cache.Save(ctx, list); err != nil {
		a.log.Warn("failed to cache list snapshot", "error", err)
	}
	a.Bus.Publish(ctx, events.NewListRefreshed(len(list)))
	return nil
}

// RefreshLibrary rescans the configured library root and swaps in the new
// snapshot.
func (a *App) RefreshLibrary(ctx context.Context) error {
	snap, err := a.scanner.Scan(ctx, a.Store.Settings().LibraryRoot)
	if err != nil {
		return fmt.Errorf("scan library: %w", err)
	}

	a.mu.Lock()
	a.snap = snap
	a.mu.Unlock()

	a.Bus.Publish(ctx, events.NewLibraryScanned(len(snap.Episodes), len(snap.Subtitles)))
	return nil
}

// Snapshot returns the current library snapshot.
func (a *App) Snapshot() *library.Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.snap
}

// Episodes returns the matched file per episode number for a series.
func (a *App) Episodes(s *tracker.Series) map[int]*library.Episode {
	return a.engine.EpisodesFor(a.Snapshot().Episodes, s)
}

// Episode resolves one episode number for a series, or nil.
func (a *App) Episode(s *tracker.Series, number int) *library.Episode {
	return a.engine.EpisodeFor(a.Snapshot().Episodes, s, number)
}

// MissingEpisodes returns the episode numbers the library has no file for.
func (a *App) MissingEpisodes(s *tracker.Series) []int {
	return a.engine.Missing(s, a.Episodes(s))
}

// FindSeries looks a series up by title. Exact requires a perfect match.
func (a *App) FindSeries(query string, exact bool) *tracker.Series {
	return a.engine.FindSeries(a.Collection, query, exact)
}

// Play builds a playlist from the given episode onward and runs one playback
// session to completion. Episodes the library is missing truncate the
// playlist rather than failing the whole run.
func (a *App) Play(ctx context.Context, s *tracker.Series, from int) error {
	if from < 1 {
		from = s.Progress() + 1
	}
	matched := a.Episodes(s)
	settings := a.Store.Settings()
	subs := a.Snapshot().Subtitles

	var entries []player.Entry
	for n := from; n <= s.EpisodeCount; n++ {
		ep, ok := matched[n]
		if !ok {
			break
		}
		if err := a.prober.LoadSubtitles(ctx, ep, subs); err != nil {
			a.log.Warn("subtitle probe failed", "path", ep.Path, "error", err)
		}
		entries = append(entries, player.Entry{
			Episode:  ep,
			Subtitle: library.SelectSubtitle(ep.Subtitles, settings.SubtitleLanguage, settings.SkipSongsSigns),
		})
	}
	if len(entries) == 0 {
		return fmt.Errorf("no files found for %q from episode %d", s.DisplayTitle(), from)
	}

	session, err := player.NewSession(player.SessionConfig{
		Series:  s,
		Entries: entries,
		Store:   a.Store,
		Service: a.svc,
		Bus:     a.Bus,
		Logger:  a.log,
		Binary:  settings.Player,
	})
	if err != nil {
		return err
	}
	return session.Run(ctx)
}

// WatchLibrary runs the background refresh loop until the context is
// cancelled. Individual refresh failures are logged and retried on the next
// tick; the loop itself only ends with the context.
func (a *App) WatchLibrary(ctx context.Context) error {
	refresh := func() {
		if err := a.RefreshList(ctx); err != nil && ctx.Err() == nil {
			a.log.Error("list refresh failed", "error", err)
		}
		if err := a.RefreshLibrary(ctx); err != nil && ctx.Err() == nil {
			a.log.Error("library refresh failed", "error", err)
		}
	}

	refresh()
	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			refresh()
		}
	}
}
