package player

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/vmunix/anigo/internal/config"
	"github.com/vmunix/anigo/internal/library"
)

// ErrUnsupportedPlatform is returned before any process is spawned when the
// host OS is not one the player integration is known to work on.
var ErrUnsupportedPlatform = errors.New("unsupported platform")

// statusMessage makes the player emit machine-readable progress on its
// terminal status line. This line format, together with the "Playing:"
// announcements, is the entire coupling to the player binary.
const statusMessage = "--term-status-msg=Perc: ::${percent-pos}:: Pos: ::${playback-time}::"

// Entry is one playlist slot: a video file plus its chosen subtitle track,
// if any.
type Entry struct {
	Episode  *library.Episode
	Subtitle *library.SubtitleTrack
}

// Command builds the full player argument vector: global flags, then one
// playlist block per entry carrying the file, the subtitle selection and a
// persisted resume position when one exists.
func (s *Session) Command() ([]string, error) {
	if runtime.GOOS != "linux" && runtime.GOOS != "windows" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, runtime.GOOS)
	}

	cmd := []string{
		s.binary,
		"--alang=jpn,en",
		// Smooths things out for larger playlists.
		"--profile=sw-fast",
		"--hwdec=auto",
		statusMessage,
	}

	for _, entry := range s.entries {
		cmd = append(cmd, "--{", entry.Episode.Path)
		if sub := entry.Subtitle; sub != nil {
			if sub.Path != "" {
				cmd = append(cmd, "--sub-file="+sub.Path)
			} else {
				cmd = append(cmd, fmt.Sprintf("--sid=%d", sub.ID))
			}
		}
		if pos, ok := s.store.Get(s.progressKey(entry.Episode.Number), config.ProgressSection); ok {
			cmd = append(cmd, "--start="+pos)
		}
		cmd = append(cmd, "--}")
	}
	return cmd, nil
}

func (s *Session) progressKey(episode int) string {
	return fmt.Sprintf("%d-%d", s.series.ID, episode)
}
