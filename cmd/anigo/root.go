package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vmunix/anigo/internal/app"
	"github.com/vmunix/anigo/internal/config"
	"github.com/vmunix/anigo/internal/tracker"
)

var version = "dev"

var (
	configPath string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "anigo",
	Short: "Watch-list client for your local anime library",
	Long: `anigo - watch-list client for your local anime library

Scans a media directory, matches files against your tracked list,
plays episodes and keeps watch progress in sync.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("anigo {{.Version}}\n")
}

// loadStore opens the config store at --config or the per-user default.
func loadStore() (*config.Store, error) {
	path := configPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("locate config: %w", err)
		}
	}
	return config.Load(path)
}

// newApp composes the full client for commands that need more than the
// config file.
func newApp(cmd *cobra.Command) (*app.App, error) {
	store, err := loadStore()
	if err != nil {
		return nil, err
	}
	settings := store.Settings()

	log := newLogger(settings.LogLevel)
	svc := tracker.NewFileService(settings.ListFile)

	return app.New(cmd.Context(), app.Options{
		Store:   store,
		Service: svc,
		Logger:  log,
	})
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}
