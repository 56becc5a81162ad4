package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/anigo/pkg/filename"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] <filename>",
	Short: "Parse a media filename (local, no library needed)",
	Long: `Parse a media filename to extract title, episode and release metadata.

Examples:
  anigo parse "[SubsPlease] Frieren - 05 (1080p) [ABCD1234].mkv"
  anigo parse --file names.txt --json`,
	RunE: runParseCmd,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringP("file", "f", "", "Read filenames from file (one per line)")
}

// parseJSON is the JSON-friendly shape of one parse result.
type parseJSON struct {
	Path           string `json:"path"`
	Extension      string `json:"extension,omitempty"`
	Anime          bool   `json:"anime"`
	Title          string `json:"title"`
	EpisodeTitle   string `json:"episode_title,omitempty"`
	Season         int    `json:"season,omitempty"`
	Episodes       []int  `json:"episodes,omitempty"`
	Resolution     string `json:"resolution,omitempty"`
	Year           string `json:"year,omitempty"`
	Checksum       string `json:"checksum,omitempty"`
	ReleaseGroup   string `json:"release_group,omitempty"`
	ReleaseVersion string `json:"release_version,omitempty"`
}

func runParseCmd(cmd *cobra.Command, args []string) error {
	inputFile, _ := cmd.Flags().GetString("file")

	var names []string
	switch {
	case inputFile != "":
		read, err := readNameFile(inputFile)
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}
		names = read
	case len(args) > 0:
		names = args
	default:
		return fmt.Errorf("usage: anigo parse <filename> or anigo parse --file <filename>")
	}

	results := make([]filename.Result, 0, len(names))
	for _, name := range names {
		results = append(results, filename.Parse(name))
	}

	if jsonOutput {
		return outputParseJSON(results)
	}
	for i, res := range results {
		if i > 0 {
			fmt.Println()
		}
		printParsed(res)
	}
	return nil
}

func readNameFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			names = append(names, line)
		}
	}
	return names, scanner.Err()
}

func printParsed(res filename.Result) {
	fmt.Printf("Title:       %s\n", valueOrEmpty(res.Title))
	if res.EpisodeTitle != "" {
		fmt.Printf("Episode Title: %s\n", res.EpisodeTitle)
	}
	if res.Season > 0 {
		fmt.Printf("Season:      %d\n", res.Season)
	}
	if len(res.Episodes) > 0 {
		nums := make([]string, len(res.Episodes))
		for i, n := range res.Episodes {
			nums[i] = fmt.Sprintf("%d", n)
		}
		fmt.Printf("Episodes:    %s\n", strings.Join(nums, ", "))
	}
	if res.Resolution != "" {
		fmt.Printf("Resolution:  %s\n", res.Resolution)
	}
	if res.Year != "" {
		fmt.Printf("Year:        %s\n", res.Year)
	}
	if res.Checksum != "" {
		fmt.Printf("Checksum:    %s\n", res.Checksum)
	}
	if res.ReleaseGroup != "" {
		fmt.Printf("Group:       %s\n", res.ReleaseGroup)
	}
	if res.ReleaseVersion != "" {
		fmt.Printf("Version:     %s\n", res.ReleaseVersion)
	}
	fmt.Printf("Extension:   %s\n", valueOrEmpty(res.Extension))
	fmt.Printf("Anime:       %s\n", boolToYesNo(res.IsAnime))
}

func valueOrEmpty(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func boolToYesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func outputParseJSON(results []filename.Result) error {
	out := make([]parseJSON, len(results))
	for i, res := range results {
		out[i] = parseJSON{
			Path:           res.Path,
			Extension:      res.Extension,
			Anime:          res.IsAnime,
			Title:          res.Title,
			EpisodeTitle:   res.EpisodeTitle,
			Season:         res.Season,
			Episodes:       res.Episodes,
			Resolution:     res.Resolution,
			Year:           res.Year,
			Checksum:       res.Checksum,
			ReleaseGroup:   res.ReleaseGroup,
			ReleaseVersion: res.ReleaseVersion,
		}
	}

	var payload any = out
	if len(out) == 1 {
		payload = out[0]
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
