// Package config provides configuration management for xamin.
package config

// Default configuration values for xamin.
const (
	// DefaultHintSize is the number of leading bytes read when guessing
	// an entry's type.
	DefaultHintSize = 2048

	// DefaultNamePattern is the format used for entries without a path.
	DefaultNamePattern = "<unsaved> (%d)"

	// DefaultRecentLimit is the number of entries kept in the
	// recent-files manifest.
	DefaultRecentLimit = 50
)

// DefaultDelimiters are the column delimiters tried when sniffing
// delimited text files.
var DefaultDelimiters = []string{",", "\t"}
