package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level      string            `mapstructure:"level"`
	Path       string            `mapstructure:"path"`
	Components map[string]string `mapstructure:"components"`
}

// EntriesConfig configures entry loading and type guessing.
type EntriesConfig struct {
	HintSize    int      `mapstructure:"hint_size"`
	Delimiters  []string `mapstructure:"delimiters"`
	NamePattern string   `mapstructure:"name_pattern"`
}

// CacheConfig configures the on-disk type guess cache.
type CacheConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Config represents the application configuration.
type Config struct {
	Entries EntriesConfig `mapstructure:"entries"`
	Recent  struct {
		Enabled bool `mapstructure:"enabled"`
		Limit   int  `mapstructure:"limit"`
	} `mapstructure:"recent"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// Delimiters returns the configured delimiters as runes, skipping any
// entry that is not a single character.
func (c *Config) Delimiters() []rune {
	var out []rune
	for _, s := range c.Entries.Delimiters {
		r := []rune(s)
		if len(r) == 1 {
			out = append(out, r[0])
		}
	}
	return out
}

// Load loads configuration from file and environment variables.
// Config file locations (in order of precedence):
//   - $XDG_CONFIG_HOME/xamin/config.yaml
//   - $HOME/.config/xamin/config.yaml
//
// Environment variables are prefixed with XAMIN_ (e.g., XAMIN_ENTRIES_HINT_SIZE).
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		v.AddConfigPath(filepath.Join(xdgConfigHome, "xamin"))
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	v.AddConfigPath(filepath.Join(homeDir, ".config", "xamin"))

	v.SetEnvPrefix("XAMIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("entries.hint_size", DefaultHintSize)
	v.SetDefault("entries.delimiters", DefaultDelimiters)
	v.SetDefault("entries.name_pattern", DefaultNamePattern)

	v.SetDefault("recent.enabled", true)
	v.SetDefault("recent.limit", DefaultRecentLimit)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.path", "") // Empty means use DefaultCachePath

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.path", "") // Empty means log to stderr
	v.SetDefault("logging.components", map[string]string{
		"entry":     "info",
		"project":   "info",
		"workspace": "info",
		"watch":     "warn",
	})

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is acceptable; we use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if strings.HasPrefix(cfg.Cache.Path, "~") {
		cfg.Cache.Path = filepath.Join(homeDir, cfg.Cache.Path[1:])
	}

	return &cfg, nil
}

// ConfigDir returns the configuration directory path.
func ConfigDir() (string, error) {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, "xamin"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", "xamin"), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return nil
}

// WriteDefault writes a default config file if none exists.
// Returns nil if a config file already exists.
func WriteDefault() error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}

	configDir, err := ConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.yaml")

	if _, err := os.Stat(configPath); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to check config file: %w", err)
	}

	defaultConfig := fmt.Sprintf(`# Xamin Configuration

# Entry loading and type guessing
entries:
  # Number of leading bytes read when guessing a file's type
  hint_size: %d
  # Column delimiters tried for delimited text files
  delimiters: [",", "\t"]
  # Name format for entries that have not been saved yet
  name_pattern: "%s"

# Recently opened files
recent:
  enabled: true
  limit: %d

# On-disk type guess cache
cache:
  enabled: true
  # Cache database path (empty means use default: $XDG_CACHE_HOME/xamin/guess.db)
  path: ""

# Logging configuration
logging:
  # Log level: debug, info, warn, error
  level: info
  # Log file path (empty means log to stderr)
  path: ""
  # Per-component log levels
  components:
    entry: info
    project: info
    workspace: info
    watch: warn
`, DefaultHintSize, DefaultNamePattern, DefaultRecentLimit)

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write default config: %w", err)
	}

	return nil
}

// ExpandPath expands ~ in a path to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, path[1:]), nil
}

// DataDir returns $XDG_DATA_HOME/xamin/ for workspace and recent-file data.
func DataDir() string {
	return filepath.Join(xdg.DataHome, "xamin")
}

// StateDir returns $XDG_STATE_HOME/xamin/ for log files.
func StateDir() string {
	return filepath.Join(xdg.StateHome, "xamin")
}

// CacheDir returns $XDG_CACHE_HOME/xamin/ for the type guess cache.
func CacheDir() string {
	return filepath.Join(xdg.CacheHome, "xamin")
}

// DefaultCachePath returns the default type guess cache path.
func DefaultCachePath() string {
	return filepath.Join(CacheDir(), "guess.db")
}

// DefaultRecentPath returns the default recent-files manifest path.
func DefaultRecentPath() string {
	return filepath.Join(DataDir(), "recent.json")
}

// DefaultLogPath returns the default log file path.
func DefaultLogPath() string {
	return filepath.Join(StateDir(), "xamin.log")
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() error {
	if err := os.MkdirAll(DataDir(), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	return nil
}

// EnsureStateDir creates the state directory if it doesn't exist.
func EnsureStateDir() error {
	if err := os.MkdirAll(StateDir(), 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	return nil
}

// EnsureCacheDir creates the cache directory if it doesn't exist.
func EnsureCacheDir() error {
	if err := os.MkdirAll(CacheDir(), 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	return nil
}
