package library

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
)

var commandContext = exec.CommandContext

// Prober reads embedded subtitle streams out of a video container by
// shelling out to ffprobe. The binary is configurable mostly for tests.
type Prober struct {
	binary string
}

// NewProber constructs a prober; an empty binary falls back to "ffprobe".
func NewProber(binary string) *Prober {
	if binary == "" {
		binary = "ffprobe"
	}
	return &Prober{binary: binary}
}

type probeOutput struct {
	Streams []struct {
		CodecType string `json:"codec_type"`
		Tags      struct {
			Language string `json:"language"`
			Title    string `json:"title"`
		} `json:"tags"`
	} `json:"streams"`
}

// Subtitles returns the embedded subtitle tracks of the file in stream
// order. Track IDs are 1-based positions among the subtitle streams, the
// numbering the player's --sid flag expects.
func (p *Prober) Subtitles(ctx context.Context, path string) ([]SubtitleTrack, error) {
	cmd := commandContext(ctx, p.binary,
		"-v", "quiet", "-print_format", "json", "-show_streams", path)
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("probe %s: %w", path, err)
	}

	var parsed probeOutput
	if err := json.Unmarshal(out.Bytes(), &parsed); err != nil {
		return nil, fmt.Errorf("decode probe output for %s: %w", path, err)
	}

	var tracks []SubtitleTrack
	for _, stream := range parsed.Streams {
		if stream.CodecType != "subtitle" {
			continue
		}
		tracks = append(tracks, SubtitleTrack{
			Language: stream.Tags.Language,
			Title:    stream.Tags.Title,
			ID:       len(tracks) + 1,
		})
	}
	return tracks, nil
}

// LoadSubtitles populates the episode's track list: embedded streams first,
// then any standalone file registered for the episode. Probe failures leave
// the episode playable without subtitles.
func (p *Prober) LoadSubtitles(ctx context.Context, e *Episode, standalone map[SubtitleKey]string) error {
	if len(e.Subtitles) > 0 {
		return nil
	}
	tracks, err := p.Subtitles(ctx, e.Path)
	if err == nil {
		e.Subtitles = tracks
	}
	e.AttachStandalone(standalone)
	return err
}
