package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play <series title>",
	Short: "Play a series from where you left off",
	Long: `Play a series from where you left off.

Builds a playlist starting at the episode after your current progress
(or at --episode), launches the player and syncs watch progress as
episodes finish.

Examples:
  anigo play "Frieren"
  anigo play --episode 3 "Bookworm"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPlayCmd,
}

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().IntP("episode", "e", 0, "Start at this episode instead of current progress")
	playCmd.Flags().Bool("exact", false, "Require an exact title match")
}

func runPlayCmd(cmd *cobra.Command, args []string) error {
	episode, _ := cmd.Flags().GetInt("episode")
	exact, _ := cmd.Flags().GetBool("exact")
	query := strings.Join(args, " ")

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	if a.Collection.Len() == 0 {
		if err := a.RefreshList(cmd.Context()); err != nil {
			return err
		}
	}
	if err := a.RefreshLibrary(cmd.Context()); err != nil {
		return err
	}

	s := a.FindSeries(query, exact)
	if s == nil {
		return fmt.Errorf("no tracked series matches %q", query)
	}
	return a.Play(cmd.Context(), s, episode)
}
