package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the library and show what was found",
	RunE:  runScanCmd,
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func runScanCmd(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	if err := a.RefreshLibrary(cmd.Context()); err != nil {
		return err
	}
	snap := a.Snapshot()

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(snap.Episodes)
	}

	rows := make([][]string, 0, len(snap.Episodes))
	for _, ep := range snap.Episodes {
		rows = append(rows, []string{
			ep.Title,
			strconv.Itoa(ep.Season),
			strconv.Itoa(ep.Number),
			ep.Path,
		})
	}
	fmt.Println(renderTable(
		[]string{"Title", "Season", "Episode", "Path"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft},
	))
	fmt.Printf("\n%d episode files, %d standalone subtitles\n",
		len(snap.Episodes), len(snap.Subtitles))
	return nil
}
