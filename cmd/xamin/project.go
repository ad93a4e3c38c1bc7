package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xamin-app/xamin/pkg/xamin/config"
	"github.com/xamin-app/xamin/pkg/xamin/entry"
	"github.com/xamin-app/xamin/pkg/xamin/logging"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage project files",
	Long: `Create and inspect project files. A project is a saved group of
entries with stable names, persisted as tagged YAML.`,
}

var projectNewCmd = &cobra.Command{
	Use:   "new <project>",
	Short: "Create an empty project file",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectNew,
}

var projectAddCmd = &cobra.Command{
	Use:   "add <project> <path>...",
	Short: "Add files or directories to a project",
	Long: `Add files to a project, classifying each by content. Directory
arguments are walked and every regular file under them is added. The
project file is created if it does not exist.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runProjectAdd,
}

var projectShowCmd = &cobra.Command{
	Use:   "show <project>",
	Short: "List a project's entries",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectShow,
}

func init() {
	projectCmd.AddCommand(projectNewCmd)
	projectCmd.AddCommand(projectAddCmd)
	projectCmd.AddCommand(projectShowCmd)
	rootCmd.AddCommand(projectCmd)
}

// projectSetup loads config, initializes logging, and builds a registry.
func projectSetup() (*entry.Registry, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	if err := setupLogging(cfg); err != nil {
		return nil, fmt.Errorf("initializing logging: %w", err)
	}
	return buildRegistry(cfg), nil
}

// runProjectNew creates an empty project file.
func runProjectNew(cmd *cobra.Command, args []string) error {
	reg, err := projectSetup()
	if err != nil {
		return err
	}
	defer func() { _ = logging.Close() }()

	path := args[0]
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	p, err := loadProject(reg, path)
	if err != nil {
		return err
	}
	if err := p.Save(false); err != nil {
		return fmt.Errorf("saving project: %w", err)
	}
	printInfo("Created project: %s", path)
	return nil
}

// runProjectAdd adds files or directory trees to a project.
func runProjectAdd(cmd *cobra.Command, args []string) error {
	reg, err := projectSetup()
	if err != nil {
		return err
	}
	defer func() { _ = logging.Close() }()

	p, err := loadProject(reg, args[0])
	if err != nil {
		return err
	}

	added := 0
	for _, path := range args[1:] {
		fi, err := os.Stat(path)
		if err != nil {
			printError("%s: %v", path, err)
			continue
		}

		var skipped []string
		before := p.Len()
		if fi.IsDir() {
			skipped, err = p.AddDir(path)
		} else {
			skipped, err = p.AddFiles(path)
		}
		if err != nil {
			return fmt.Errorf("adding %s: %w", path, err)
		}
		added += p.Len() - before
		for _, s := range skipped {
			printInfo("Skipped (unrecognized): %s", s)
		}
	}

	if err := p.Save(false); err != nil {
		return fmt.Errorf("saving project: %w", err)
	}
	printInfo("Added %d entries to %s (%d total)", added, args[0], p.Len())
	return nil
}

// runProjectShow lists a project's entries with their types and paths.
func runProjectShow(cmd *cobra.Command, args []string) error {
	reg, err := projectSetup()
	if err != nil {
		return err
	}
	defer func() { _ = logging.Close() }()

	p, err := loadProject(reg, args[0])
	if err != nil {
		return err
	}

	entries, err := p.Entries()
	if err != nil {
		return fmt.Errorf("reading project: %w", err)
	}

	printInfo("Project: %s (%d entries)", args[0], len(entries))
	for _, named := range entries {
		path := named.Entry.Path()
		if path == "" {
			path = "(unsaved)"
		}
		printInfo("  %-30s %-12s %s", named.Name, named.Entry.Kind(), path)
	}
	return nil
}

// loadProject opens an existing project file, or returns a fresh
// in-memory project bound to path when the file does not exist yet.
func loadProject(reg *entry.Registry, path string) (*entry.Project, error) {
	if _, err := os.Stat(path); err == nil {
		p := entry.NewProject(reg, path)
		if err := p.EnsureLoaded(); err != nil {
			return nil, fmt.Errorf("loading project %s: %w", path, err)
		}
		return p, nil
	}

	// No file yet: start empty and point the project at its future home.
	p := entry.NewProject(reg, "")
	if err := p.Load(); err != nil {
		return nil, err
	}
	p.SetPath(path)
	return p, nil
}
