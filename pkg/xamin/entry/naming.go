package entry

import (
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultNamePattern names project entries that have no path. The
// verb substitutes a 1-based position.
const DefaultNamePattern = "<unsaved> (%d)"

// commonPath returns the longest common path prefix of the given paths,
// component by component, after resolving each to an absolute path. A
// single path is its own common prefix. ok is false when paths is empty
// or no component is shared.
func commonPath(paths []string) (string, bool) {
	if len(paths) == 0 {
		return "", false
	}

	var split [][]string
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return "", false
		}
		split = append(split, pathParts(abs))
	}

	common := split[0]
	for _, parts := range split[1:] {
		n := 0
		for n < len(common) && n < len(parts) && common[n] == parts[n] {
			n++
		}
		common = common[:n]
		if n == 0 {
			return "", false
		}
	}
	return filepath.Join(common...), true
}

// pathParts splits a path into its components the way it will be
// persisted: an absolute path keeps the root as its first component so
// joining the parts reproduces the original.
func pathParts(p string) []string {
	if p == "" {
		return nil
	}
	clean := filepath.Clean(p)
	sep := string(filepath.Separator)

	var parts []string
	if strings.HasPrefix(clean, sep) {
		parts = append(parts, sep)
		clean = strings.TrimPrefix(clean, sep)
	}
	if clean != "" && clean != "." {
		parts = append(parts, strings.Split(clean, sep)...)
	}
	return parts
}

// isRoot reports whether p is a filesystem root.
func isRoot(p string) bool {
	return p != "" && filepath.Dir(p) == p
}

// deriveName computes an entry's display name from the common path
// prefix of its project's entries:
//
//   - a path-less entry gets the placeholder pattern with its position;
//   - the sole entry (common prefix == its own path) keeps its filename;
//   - when the common prefix is the filesystem root, the absolute path
//     is kept whole, never stripped of the root;
//   - otherwise the path relative to the common prefix, walking up
//     directories when needed.
func deriveName(e Entry, pos int, pattern, common string, haveCommon bool) string {
	path := e.Path()
	if path == "" {
		return fmt.Sprintf(pattern, pos)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	if !haveCommon {
		return path
	}
	if common == abs {
		return filepath.Base(abs)
	}
	if isRoot(common) {
		return abs
	}
	rel, err := filepath.Rel(common, abs)
	if err != nil {
		return abs
	}
	return rel
}
