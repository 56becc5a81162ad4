// Package player drives one external playback session: it launches the
// player over a resolved playlist and infers watch progress from the
// process' status stream.
package player

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vmunix/anigo/internal/config"
	"github.com/vmunix/anigo/internal/events"
	"github.com/vmunix/anigo/internal/tracker"
)

const (
	// completionPercent is the watched threshold: past this the episode
	// counts as seen.
	completionPercent = 80
	// incrementDebounce suppresses duplicate completion signals. The player
	// occasionally reports the previous file's percentage at the exact
	// moment the playlist advances; two increments inside this window can
	// only be that glitch.
	incrementDebounce = 2 * time.Second
)

// statusRe matches one progress report. The player rewrites its status line
// in place, so a single read can carry many concatenated reports; the last
// one on the line is the current state.
var statusRe = regexp.MustCompile(`Perc: ::(\d+):: Pos: ::(\d{2}:\d{2}:\d{2})::`)

// SessionConfig wires a session's collaborators.
type SessionConfig struct {
	Series  *tracker.Series
	Entries []Entry
	Store   *config.Store
	Service tracker.Service
	Bus     *events.Bus
	Logger  *slog.Logger
	Binary  string
	Now     func() time.Time // test hook, defaults to time.Now
}

// Session is one playback run over an ordered playlist for a single series.
type Session struct {
	id      uuid.UUID
	series  *tracker.Series
	entries []Entry
	store   *config.Store
	svc     tracker.Service
	bus     *events.Bus
	log     *slog.Logger
	binary  string
	now     func() time.Time
}

// NewSession validates the config and builds a session.
func NewSession(cfg SessionConfig) (*Session, error) {
	if cfg.Series == nil {
		return nil, errors.New("session requires a series")
	}
	if len(cfg.Entries) == 0 {
		return nil, errors.New("session requires at least one playlist entry")
	}
	if cfg.Store == nil || cfg.Service == nil {
		return nil, errors.New("session requires a config store and a tracker service")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Bus == nil {
		cfg.Bus = events.NewBus(nil, cfg.Logger)
	}
	if cfg.Binary == "" {
		cfg.Binary = "mpv"
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Session{
		id:      uuid.New(),
		series:  cfg.Series,
		entries: cfg.Entries,
		store:   cfg.Store,
		svc:     cfg.Service,
		bus:     cfg.Bus,
		log:     cfg.Logger,
		binary:  cfg.Binary,
		now:     cfg.Now,
	}, nil
}

// Run launches the player and blocks until the process exits, consuming its
// combined output stream the whole way. Unparseable lines are skipped; the
// loop never fails mid-session.
func (s *Session) Run(ctx context.Context) error {
	args, err := s.Command()
	if err != nil {
		return err
	}

	s.log.Info("starting playback session",
		"session", s.id, "series", s.series.DisplayTitle(), "entries", len(s.entries))

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start player: %w", err)
	}
	s.consume(ctx, stdout)
	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("player exited: %w", err)
	}
	return nil
}

// consume is the stream loop. State across iterations: the entry currently
// playing, and the time of the last completion signal for debouncing.
func (s *Session) consume(ctx context.Context, r io.Reader) {
	sc := bufio.NewScanner(r)
	// Status rewrites pile up on a single line; give the scanner room.
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)

	current := s.entries[0]
	lastUpdate := s.now()

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		if matches := statusRe.FindAllStringSubmatch(line, -1); matches != nil {
			last := matches[len(matches)-1]
			perc, err := strconv.Atoi(last[1])
			if err != nil {
				continue
			}
			position := last[2]

			if perc > completionPercent {
				now := s.now()
				if now.Sub(lastUpdate) > incrementDebounce {
					s.increment(ctx, current)
				}
				s.clearPosition(current)
				lastUpdate = now
			} else {
				s.savePosition(current, position)
			}
			continue
		}

		if path, ok := strings.CutPrefix(line, "Playing: "); ok {
			for _, entry := range s.entries {
				if entry.Episode.Path == path {
					current = entry
					break
				}
			}
		}
	}
	if err := sc.Err(); err != nil {
		s.log.Warn("player output stream ended with error", "session", s.id, "error", err)
	}
}

// increment pushes the watched episode to the tracker. Only the episode
// immediately after the current progress counts, which shields against
// duplicate and out-of-order completion signals.
func (s *Session) increment(ctx context.Context, entry Entry) {
	le := s.series.Entry
	if le == nil {
		return
	}
	number := entry.Episode.Number
	if le.Progress != number-1 {
		return
	}

	progress := number
	update := tracker.EntryUpdate{ListID: le.ID, Progress: &progress}

	completed := false
	if number == s.series.EpisodeCount {
		completed = true
		status := tracker.StatusCompleted
		update.Status = &status
		if le.Status == tracker.StatusRepeating {
			repeat := le.Repeat + 1
			update.Repeat = &repeat
		} else {
			now := s.now()
			update.CompletedAt = &now
		}
	}
	if le.Progress == 0 && le.Status != tracker.StatusRepeating {
		now := s.now()
		update.StartedAt = &now
	}

	s.log.Info("episode watched",
		"session", s.id, "series", s.series.DisplayTitle(), "episode", number)

	saved, err := s.svc.SaveEntry(ctx, update)
	if err != nil {
		s.log.Error("failed to save progress",
			"session", s.id, "episode", number, "error", err)
		return
	}
	s.series.ApplyEntry(saved)
	s.bus.Publish(ctx, events.NewEpisodeWatched(s.series.ID, number, saved.Progress, completed))
}

func (s *Session) savePosition(entry Entry, position string) {
	key := s.progressKey(entry.Episode.Number)
	if err := s.store.Set(key, position, config.ProgressSection); err != nil {
		s.log.Warn("failed to save resume position", "key", key, "error", err)
	}
}

func (s *Session) clearPosition(entry Entry) {
	key := s.progressKey(entry.Episode.Number)
	if err := s.store.Remove(key, config.ProgressSection); err != nil {
		s.log.Warn("failed to clear resume position", "key", key, "error", err)
	}
}
