package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/xamin-app/xamin/pkg/xamin/cache"
	"github.com/xamin-app/xamin/pkg/xamin/config"
	"github.com/xamin-app/xamin/pkg/xamin/entry"
	"github.com/xamin-app/xamin/pkg/xamin/logging"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "xamin",
		Short: "Inspect and organize data files",
		Long: `Xamin opens data files, works out what they are, and groups them
into projects that can be saved and reopened.

Examples:
  xamin open data.csv        # Classify and describe a file
  xamin project new p.yaml   # Create an empty project
  xamin project add p.yaml f1 f2
  xamin project show p.yaml  # List a project's entries
  xamin config show          # Show configuration`,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/xamin/config.yaml)")
	rootCmd.PersistentFlags().IntP("hint-size", "H", 0, "bytes sampled when guessing file types (0=default)")
	rootCmd.PersistentFlags().Bool("no-cache", false, "bypass the type guess cache")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug output")

	_ = viper.BindPFlag("entries.hint_size", rootCmd.PersistentFlags().Lookup("hint-size"))
	_ = viper.BindPFlag("no_cache", rootCmd.PersistentFlags().Lookup("no-cache"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and environment variables.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")

		if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
			viper.AddConfigPath(filepath.Join(xdgConfigHome, "xamin"))
		}

		homeDir, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(homeDir, ".config", "xamin"))
		}
	}

	viper.SetEnvPrefix("XAMIN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("entries.hint_size", config.DefaultHintSize)
	viper.SetDefault("entries.delimiters", config.DefaultDelimiters)
	viper.SetDefault("entries.name_pattern", config.DefaultNamePattern)
	viper.SetDefault("recent.enabled", true)
	viper.SetDefault("recent.limit", config.DefaultRecentLimit)
	viper.SetDefault("cache.enabled", true)

	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// setupLogging initializes the logging system from the loaded config.
func setupLogging(cfg *config.Config) error {
	level := cfg.Logging.Level
	if getVerbose() {
		level = "debug"
	}
	return logging.Init(logging.Config{
		Level:      level,
		Path:       cfg.Logging.Path,
		Components: cfg.Logging.Components,
	})
}

// buildRegistry constructs the entry registry from the loaded config.
func buildRegistry(cfg *config.Config) *entry.Registry {
	return entry.DefaultRegistry(cfg.Entries.HintSize, cfg.Delimiters())
}

// openGuessCache opens the type guess cache unless disabled by config
// or the --no-cache flag. A nil return means guess directly.
func openGuessCache(cfg *config.Config, reg *entry.Registry) *cache.GuessCache {
	if !cfg.Cache.Enabled || viper.GetBool("no_cache") {
		return nil
	}
	path := cfg.Cache.Path
	if path == "" {
		path = config.DefaultCachePath()
	}
	if err := config.EnsureCacheDir(); err != nil {
		printVerbose("cache unavailable: %v", err)
		return nil
	}
	c, err := cache.Open(path, reg)
	if err != nil {
		printVerbose("cache unavailable: %v", err)
		return nil
	}
	return c
}

// getVerbose returns true if verbose mode is enabled.
func getVerbose() bool {
	return viper.GetBool("verbose")
}

// getQuiet returns true if quiet mode is enabled.
func getQuiet() bool {
	return viper.GetBool("quiet")
}

// printVerbose prints a message if verbose mode is enabled.
func printVerbose(format string, args ...interface{}) {
	if getVerbose() && !getQuiet() {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

// printInfo prints a message if quiet mode is not enabled.
func printInfo(format string, args ...interface{}) {
	if !getQuiet() {
		fmt.Printf(format+"\n", args...)
	}
}

// printError prints an error message to stderr.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
