package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/xamin-app/xamin/pkg/xamin/cache"
	"github.com/xamin-app/xamin/pkg/xamin/config"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the type guess cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached type guesses",
	RunE:  runCacheClear,
}

var cachePathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the cache location and size",
	RunE:  runCachePath,
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cachePathCmd)
	rootCmd.AddCommand(cacheCmd)
}

// cachePath resolves the configured cache path.
func cachePath() (string, error) {
	cfg, err := config.Load()
	if err != nil {
		return "", fmt.Errorf("loading configuration: %w", err)
	}
	if cfg.Cache.Path != "" {
		return cfg.Cache.Path, nil
	}
	return config.DefaultCachePath(), nil
}

// runCacheClear drops every cached guess.
func runCacheClear(cmd *cobra.Command, args []string) error {
	path, err := cachePath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		printInfo("Cache is empty.")
		return nil
	}

	store, err := cache.OpenStore(path)
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.DropAll(); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	printInfo("Cache cleared.")
	return nil
}

// runCachePath shows the cache location and on-disk size.
func runCachePath(cmd *cobra.Command, args []string) error {
	path, err := cachePath()
	if err != nil {
		return err
	}
	fmt.Println(path)

	var total int64
	entries, err := os.ReadDir(path)
	if err == nil {
		for _, e := range entries {
			if info, err := e.Info(); err == nil {
				total += info.Size()
			}
		}
		printInfo("Size: %s", humanize.Bytes(uint64(total)))
	}
	return nil
}
