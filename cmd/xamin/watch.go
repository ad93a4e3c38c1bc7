package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/xamin-app/xamin/pkg/xamin/config"
	"github.com/xamin-app/xamin/pkg/xamin/logging"
	"github.com/xamin-app/xamin/pkg/xamin/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch <file>...",
	Short: "Report external changes to files",
	Long: `Watch files and print a line whenever one is modified, removed, or
renamed by another program. Runs until interrupted.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

// runWatch watches the given files until interrupted.
func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if err := setupLogging(cfg); err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	defer func() { _ = logging.Close() }()

	w, err := watch.New()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer func() { _ = w.Close() }()

	for _, path := range args {
		if err := w.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	printInfo("Watching %d files. Press Ctrl-C to stop.", len(args))
	w.Run(ctx, func(ev watch.Event) {
		printInfo("%s: %s", ev.Path, ev.Op)
	})
	return nil
}
