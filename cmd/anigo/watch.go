package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vmunix/anigo/internal/events"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep the library and list in sync until interrupted",
	Long: `Keep the library and list in sync until interrupted.

Rescans the library and refreshes the tracked list on a fixed interval,
printing each change as it lands. Stop with Ctrl-C.`,
	RunE: runWatchCmd,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatchCmd(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	ch := a.Bus.SubscribeAll(16)
	go func() {
		for e := range ch {
			switch ev := e.(type) {
			case events.LibraryScannedEvent:
				fmt.Printf("library scanned: %d episodes, %d standalone subtitles\n",
					ev.Episodes, ev.Subtitles)
			case events.ListRefreshedEvent:
				fmt.Printf("list refreshed: %d series\n", ev.Count)
			case events.EpisodeWatchedEvent:
				fmt.Printf("episode watched: series %d episode %d\n",
					ev.EntityID(), ev.Episode)
			}
		}
	}()

	err = a.WatchLibrary(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
