// Package config handles the TOML configuration file: typed user settings
// plus a sectioned key-value store used for per-episode resume positions.
package config

import (
	"os"
	"path/filepath"
)

// ProgressSection is the store section holding resume positions, keyed by
// "{seriesID}-{episode}".
const ProgressSection = "EpisodeProgress"

// Settings are the user-configurable options, kept under the [settings]
// table of the config file.
type Settings struct {
	LibraryRoot      string `toml:"library_root"`
	SubtitleLanguage string `toml:"subtitle_language"`
	SkipSongsSigns   bool   `toml:"skip_songs_signs"`
	Player           string `toml:"player"`
	LogLevel         string `toml:"log_level"`
	DatabasePath     string `toml:"database_path"`
	ListFile         string `toml:"list_file"`
}

func defaultSettings(dir string) Settings {
	return Settings{
		SubtitleLanguage: "en",
		SkipSongsSigns:   true,
		Player:           "mpv",
		LogLevel:         "info",
		DatabasePath:     filepath.Join(dir, "anigo.db"),
		ListFile:         filepath.Join(dir, "list.json"),
	}
}

// DefaultPath returns the per-user config file location, creating the
// directory if needed.
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(base, "anigo")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}
