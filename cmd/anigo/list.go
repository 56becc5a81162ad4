package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/anigo/internal/tracker"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the tracked list",
	RunE:  runListCmd,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().String("status", "", "Only show entries with this status (current, completed, ...)")
	listCmd.Flags().Bool("refresh", false, "Refresh from the sync service first")
}

func runListCmd(cmd *cobra.Command, args []string) error {
	statusFilter, _ := cmd.Flags().GetString("status")
	refresh, _ := cmd.Flags().GetBool("refresh")

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	if refresh || a.Collection.Len() == 0 {
		if err := a.RefreshList(cmd.Context()); err != nil {
			return err
		}
	}

	var list []*tracker.Series
	for _, s := range a.Collection.All() {
		if statusFilter != "" && !statusMatches(s, statusFilter) {
			continue
		}
		list = append(list, s)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}

	rows := make([][]string, 0, len(list))
	for _, s := range list {
		rows = append(rows, []string{
			strconv.FormatInt(s.ID, 10),
			s.DisplayTitle(),
			string(s.UserStatus()),
			fmt.Sprintf("%d/%s", s.Progress(), episodeCount(s)),
		})
	}
	fmt.Println(renderTable(
		[]string{"ID", "Title", "Status", "Progress"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight},
	))
	return nil
}

func statusMatches(s *tracker.Series, filter string) bool {
	return strings.EqualFold(string(s.UserStatus()), filter)
}

func episodeCount(s *tracker.Series) string {
	if s.EpisodeCount == 0 {
		return "?"
	}
	return strconv.Itoa(s.EpisodeCount)
}
