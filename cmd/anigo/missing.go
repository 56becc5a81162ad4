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

var missingCmd = &cobra.Command{
	Use:   "missing [series title]",
	Short: "Show episodes the library has no file for",
	Long: `Show episodes the library has no file for.

With a title argument only that series is checked; without one, every
currently-watched series is.`,
	RunE: runMissingCmd,
}

func init() {
	rootCmd.AddCommand(missingCmd)
	missingCmd.Flags().Bool("exact", false, "Require an exact title match")
}

type missingReport struct {
	SeriesID int64  `json:"series_id"`
	Title    string `json:"title"`
	Episodes []int  `json:"episodes"`
}

func runMissingCmd(cmd *cobra.Command, args []string) error {
	exact, _ := cmd.Flags().GetBool("exact")

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

	var targets []*tracker.Series
	if len(args) > 0 {
		s := a.FindSeries(strings.Join(args, " "), exact)
		if s == nil {
			return fmt.Errorf("no tracked series matches %q", strings.Join(args, " "))
		}
		targets = append(targets, s)
	} else {
		for _, s := range a.Collection.All() {
			if s.UserStatus() == tracker.StatusCurrent || s.UserStatus() == tracker.StatusRepeating {
				targets = append(targets, s)
			}
		}
	}

	var reports []missingReport
	for _, s := range targets {
		if numbers := a.MissingEpisodes(s); len(numbers) > 0 {
			reports = append(reports, missingReport{
				SeriesID: s.ID,
				Title:    s.DisplayTitle(),
				Episodes: numbers,
			})
		}
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}

	if len(reports) == 0 {
		fmt.Println("No missing episodes.")
		return nil
	}
	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		rows = append(rows, []string{r.Title, formatNumbers(r.Episodes)})
	}
	fmt.Println(renderTable(
		[]string{"Title", "Missing"},
		rows,
		[]columnAlignment{alignLeft, alignLeft},
	))
	return nil
}

// formatNumbers compacts consecutive runs: [1 2 3 7] prints as "1-3, 7".
func formatNumbers(numbers []int) string {
	var parts []string
	for i := 0; i < len(numbers); {
		j := i
		for j+1 < len(numbers) && numbers[j+1] == numbers[j]+1 {
			j++
		}
		if j > i+1 {
			parts = append(parts, fmt.Sprintf("%d-%d", numbers[i], numbers[j]))
		} else {
			for k := i; k <= j; k++ {
				parts = append(parts, strconv.Itoa(numbers[k]))
			}
		}
		i = j + 1
	}
	return strings.Join(parts, ", ")
}
