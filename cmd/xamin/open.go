package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/xamin-app/xamin/pkg/xamin/config"
	"github.com/xamin-app/xamin/pkg/xamin/entry"
	"github.com/xamin-app/xamin/pkg/xamin/logging"
	"github.com/xamin-app/xamin/pkg/xamin/workspace"
)

var openCmd = &cobra.Command{
	Use:   "open <file>...",
	Short: "Classify and describe files",
	Long: `Open one or more files, work out their types from content, and
print a short description of each: detected type, shape, size, and
content hash.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runOpen,
}

func init() {
	rootCmd.AddCommand(openCmd)
}

// runOpen classifies each argument and prints a description.
func runOpen(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if err := setupLogging(cfg); err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	defer func() { _ = logging.Close() }()

	reg := buildRegistry(cfg)

	var guesser workspace.Guesser = workspace.RegistryGuesser{Registry: reg}
	if gc := openGuessCache(cfg, reg); gc != nil {
		defer func() { _ = gc.Close() }()
		guesser = gc
	}

	ws := workspace.New(guesser)
	if cfg.Recent.Enabled {
		if rec, err := workspace.NewRecent(config.DefaultRecentPath(), cfg.Recent.Limit); err == nil {
			ws.SetRecent(rec)
		}
	}

	var failed bool
	for _, path := range args {
		id, e, err := ws.Open(path)
		if err != nil {
			printError("%s: %v", path, err)
			failed = true
			continue
		}
		printVerbose("opened %s as handle %s", path, id)
		describeEntry(path, e)
	}
	if failed {
		return fmt.Errorf("some files could not be opened")
	}
	return nil
}

// describeEntry prints one entry's type, shape, size, and hash.
func describeEntry(path string, e entry.Entry) {
	var size string
	if fi, err := os.Stat(path); err == nil {
		size = humanize.Bytes(uint64(fi.Size()))
	} else {
		size = "?"
	}

	shape := "-"
	if dims := e.Shape(); len(dims) > 0 {
		parts := make([]string, len(dims))
		for i, d := range dims {
			parts[i] = fmt.Sprint(d)
		}
		shape = strings.Join(parts, "x")
	}

	hash := e.Hash()
	if len(hash) > 12 {
		hash = hash[:12]
	}

	printInfo("%s: %s  shape=%s  size=%s  hash=%s", path, e.Kind(), shape, size, hash)
}
