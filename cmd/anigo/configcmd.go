package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vmunix/anigo/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Long: `Change a setting and persist it.

Keys: library_root, subtitle_language, skip_songs_signs, player,
log_level, database_path, list_file`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configResumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Show saved resume positions",
	RunE:  runConfigResume,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configResumeCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	store, err := loadStore()
	if err != nil {
		return err
	}
	s := store.Settings()
	fmt.Printf("library_root:      %s\n", valueOrEmpty(s.LibraryRoot))
	fmt.Printf("subtitle_language: %s\n", s.SubtitleLanguage)
	fmt.Printf("skip_songs_signs:  %s\n", boolToYesNo(s.SkipSongsSigns))
	fmt.Printf("player:            %s\n", s.Player)
	fmt.Printf("log_level:         %s\n", s.LogLevel)
	fmt.Printf("database_path:     %s\n", s.DatabasePath)
	fmt.Printf("list_file:         %s\n", s.ListFile)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	store, err := loadStore()
	if err != nil {
		return err
	}
	s := store.Settings()
	switch key {
	case "library_root":
		s.LibraryRoot = value
	case "subtitle_language":
		s.SubtitleLanguage = value
	case "skip_songs_signs":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("skip_songs_signs wants true or false, got %q", value)
		}
		s.SkipSongsSigns = b
	case "player":
		s.Player = value
	case "log_level":
		s.LogLevel = value
	case "database_path":
		s.DatabasePath = value
	case "list_file":
		s.ListFile = value
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	return store.UpdateSettings(s)
}

func runConfigResume(cmd *cobra.Command, args []string) error {
	store, err := loadStore()
	if err != nil {
		return err
	}
	keys := store.Keys(config.ProgressSection)
	if len(keys) == 0 {
		fmt.Println("No saved resume positions.")
		return nil
	}
	rows := make([][]string, 0, len(keys))
	for _, key := range keys {
		pos, _ := store.Get(key, config.ProgressSection)
		rows = append(rows, []string{key, pos})
	}
	fmt.Println(renderTable(
		[]string{"Series-Episode", "Position"},
		rows,
		[]columnAlignment{alignLeft, alignRight},
	))
	return nil
}
