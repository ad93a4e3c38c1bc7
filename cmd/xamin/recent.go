package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/xamin-app/xamin/pkg/xamin/config"
	"github.com/xamin-app/xamin/pkg/xamin/workspace"
)

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List recently opened files",
	RunE:  runRecent,
}

var recentClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the recent files list",
	RunE:  runRecentClear,
}

func init() {
	recentCmd.AddCommand(recentClearCmd)
	rootCmd.AddCommand(recentCmd)
}

// openRecent builds the recent-files manifest from config.
func openRecent() (*workspace.Recent, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	return workspace.NewRecent(config.DefaultRecentPath(), cfg.Recent.Limit)
}

// runRecent lists the recently opened files, newest first.
func runRecent(cmd *cobra.Command, args []string) error {
	rec, err := openRecent()
	if err != nil {
		return err
	}

	records, err := rec.List()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		printInfo("No recent files.")
		return nil
	}

	for _, r := range records {
		printInfo("%-12s %-12s %s", humanize.Time(r.OpenedAt), r.Kind, r.Path)
	}
	return nil
}

// runRecentClear empties the recent files list.
func runRecentClear(cmd *cobra.Command, args []string) error {
	rec, err := openRecent()
	if err != nil {
		return err
	}
	if err := rec.Clear(); err != nil {
		return err
	}
	printInfo("Cleared recent files.")
	return nil
}
