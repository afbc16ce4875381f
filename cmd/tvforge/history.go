package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/vmunix/tvforge/internal/journal"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent conversions",
	Long: `Show the conversion journal.

Examples:
  tvforge history
  tvforge history --limit 50
  tvforge history --title "the matrix"`,
	Args: cobra.NoArgs,
	RunE: runHistoryCmd,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().Int("limit", 20, "Maximum entries to show")
	historyCmd.Flags().String("title", "", "Fuzzy search by title")
	historyCmd.Flags().Bool("json", false, "Output as JSON")
}

func runHistoryCmd(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	title, _ := cmd.Flags().GetString("title")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Journal.Disabled {
		return fmt.Errorf("journal is disabled in config")
	}
	if _, err := os.Stat(cfg.Journal.Path); err != nil {
		return fmt.Errorf("no journal at %s: %w", cfg.Journal.Path, err)
	}

	store, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		return fmt.Errorf("opening journal: %w", err)
	}
	defer store.Close()

	ctx := cmd.Context()
	var entries []journal.Entry
	if title != "" {
		matches, err := store.SearchByTitle(ctx, title, limit)
		if err != nil {
			return err
		}
		for _, m := range matches {
			entries = append(entries, m.Entry)
		}
	} else {
		if entries, err = store.Recent(ctx, limit); err != nil {
			return err
		}
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No conversions recorded.")
		return nil
	}
	for _, e := range entries {
		printEntry(e)
	}
	return nil
}

func printEntry(e journal.Entry) {
	title := e.Title
	if title == "" {
		title = e.Source
	}
	fmt.Printf("%s  %-6s  %-9s  %s\n",
		e.FinishedAt.Local().Format("2006-01-02 15:04"),
		e.Status, e.Mode, title)
	fmt.Printf("%18s-> %s (%s)\n", "",
		e.Output, time.Duration(e.DurationSecs*float64(time.Second)).Round(time.Second))
}
