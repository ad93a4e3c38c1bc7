// Package version records the tool version stamped into project
// metadata and reported by the CLI.
package version

// Version is the tool version. Release builds override the binary's
// reported version via ldflags, but project files always record this
// library version as their schema marker.
const Version = "0.4.0"
