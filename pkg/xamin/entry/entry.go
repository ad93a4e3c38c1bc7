// Package entry provides typed, lazily loaded handles to file contents.
//
// An Entry wraps one file's parsed payload together with the bookkeeping
// needed to answer two questions safely: is the in-memory data older than
// the file (stale), and does it differ from what was last synced to disk
// (unsaved). Concrete entry kinds (text, binary, CSV, YAML, project)
// supply format-specific sniffing and serialization; a Registry picks the
// best kind for a given file by scored content sniffing.
//
// Entries are single-owner: no locking is done, and concurrent mutation
// of one entry is undefined. The filesystem is the only external actor,
// detected through mtime comparison at whatever granularity the host
// filesystem provides.
package entry

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Tag names for the concrete entry kinds. These double as the tags used
// in persisted project files, so they are part of the on-disk format.
const (
	KindText    = "TextEntry"
	KindBinary  = "BinaryEntry"
	KindCsv     = "CsvEntry"
	KindYaml    = "YamlEntry"
	KindProject = "Project"
)

// Registration scores. Generic catch-all kinds are pinned low so that
// format-specific kinds always outrank them when both match.
const (
	ScoreGeneric   = 5
	ScoreFormat    = 20
	ScoreContainer = 30
)

// Entry is an in-memory handle to one file's parsed content plus
// load/save bookkeeping. All blocking I/O happens inline on the calling
// goroutine; a call either completes or returns an error.
type Entry interface {
	// Kind returns the entry's tag name, e.g. "TextEntry".
	Kind() string

	// Path returns the entry's file location. Empty for new, never-saved
	// entries.
	Path() string

	// SetPath points the entry at a new file location.
	SetPath(path string)

	// EnsureLoaded loads the file if the in-memory data is stale. It is
	// the explicit suspension point every typed accessor goes through.
	EnsureLoaded() error

	// Load reads and deserializes the file unconditionally, unless doing
	// so would discard unsaved edits over a newer file (ErrFileChanged).
	Load() error

	// Save validates, serializes, and writes the entry back to its path.
	// Saving a clean entry is a no-op that does not touch the file.
	Save(overwrite bool) error

	// IsStale reports whether the data has never been loaded or the file
	// has changed since it was.
	IsStale() bool

	// IsFileNewer reports whether the file's mtime postdates the mtime
	// recorded at the last load or save.
	IsFileNewer() bool

	// IsUnsaved reports whether the data differs from the state last
	// synced with the file. Entries without a path are always unsaved.
	IsUnsaved() bool

	// Hash returns a hex content hash of the current payload, or the
	// empty string when no data is present.
	Hash() string

	// Shape returns the payload's length along each dimension, nil when
	// it has none.
	Shape() []int
}

// codec is the per-kind behavior a concrete entry plugs into the shared
// file bookkeeping.
type codec interface {
	Kind() string
	setDefault()
	marshal() ([]byte, error)
	unmarshal(raw []byte) error
}

// file carries the bookkeeping shared by every entry kind: path, load
// state, the content hash captured at the last sync, and the file mtime
// recorded at the last load or save.
type file struct {
	c codec

	path       string
	loaded     bool
	loadedHash string
	dataMtime  time.Time
}

// init wires the concrete entry into the shared bookkeeping. Every
// constructor calls it with the outer value as the codec.
func (f *file) init(c codec, path string) {
	f.c = c
	f.path = path
}

// Path returns the entry's file location, empty when unset.
func (f *file) Path() string { return f.path }

// SetPath points the entry at a new file location and clears the sync
// baselines: data in memory has never been synced with the new file, so
// the entry counts as unsaved until saved or reloaded there.
func (f *file) SetPath(path string) {
	if path == f.path {
		return
	}
	f.path = path
	f.loadedHash = ""
	f.dataMtime = time.Time{}
}

// IsStale reports whether data must be (re)loaded from the file: no data
// has ever been set, or data exists but was never synced from the file,
// or the file has been modified since the last sync. A path-less entry
// or a missing file is never stale.
func (f *file) IsStale() bool {
	if !f.loaded {
		return true
	}
	if f.path == "" {
		return false
	}
	fi, err := os.Stat(f.path)
	if err != nil {
		return false
	}
	if f.dataMtime.IsZero() {
		return true
	}
	return fi.ModTime().After(f.dataMtime)
}

// IsFileNewer reports whether the file's mtime postdates the last sync.
func (f *file) IsFileNewer() bool {
	if f.path == "" || f.dataMtime.IsZero() {
		return false
	}
	fi, err := os.Stat(f.path)
	if err != nil {
		return false
	}
	return fi.ModTime().After(f.dataMtime)
}

// IsUnsaved reports whether the entry holds changes not on disk. An
// entry without a path is by definition unsaved.
func (f *file) IsUnsaved() bool {
	if f.path == "" {
		return true
	}
	return f.Hash() != f.loadedHash
}

// Hash returns the sha256 hex digest of the payload's serialized form,
// or "" when no data is present. The hash covers the byte-for-byte
// serialization, not a semantic canonical form: two structurally
// different but semantically equal payloads may hash differently.
func (f *file) Hash() string {
	if !f.loaded {
		return ""
	}
	raw, err := f.c.marshal()
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// EnsureLoaded loads the file when the in-memory data is stale.
func (f *file) EnsureLoaded() error {
	if f.IsStale() {
		return f.Load()
	}
	return nil
}

// Load reads the file at the entry's path and deserializes it into the
// payload, then records the content hash and file mtime of the freshly
// synced state. With no path set, Load installs the default payload and
// returns nil.
//
// Load returns ErrFileChanged when the file is newer than the last sync
// and the in-memory data holds unsaved edits: reloading would silently
// discard them. The caller decides whether to save elsewhere or drop the
// edits and force a reload by saving with overwrite or re-pointing the
// entry.
func (f *file) Load() error {
	if !f.loaded {
		f.c.setDefault()
	}
	if f.IsFileNewer() && f.IsUnsaved() {
		return fmt.Errorf("%w: %q is newer than the data but the data has unsaved changes", ErrFileChanged, f.path)
	}

	if f.path != "" {
		raw, err := os.ReadFile(f.path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", f.path, err)
		}
		if err := f.c.unmarshal(raw); err != nil {
			return fmt.Errorf("parsing %s: %w", f.path, err)
		}
	}

	f.loaded = true
	f.resetHash()
	f.resetMtime()
	return nil
}

// Save serializes the payload and writes it to the entry's path, then
// records the synced hash and mtime. A clean entry is not rewritten, so
// repeated saves leave the file's mtime untouched.
//
// Save returns ErrMissingPath when the entry has no path, and
// ErrFileChanged when the file is newer than the last sync and overwrite
// is false (protecting external edits from being clobbered).
func (f *file) Save(overwrite bool) error {
	if f.path == "" {
		return fmt.Errorf("%w: cannot save %s", ErrMissingPath, f.c.Kind())
	}
	if !overwrite && f.loaded && f.IsStale() {
		return fmt.Errorf("%w: refusing to overwrite %q", ErrFileChanged, f.path)
	}

	if f.IsUnsaved() {
		raw, err := f.c.marshal()
		if err != nil {
			return fmt.Errorf("serializing %s: %w", f.c.Kind(), err)
		}
		if err := os.WriteFile(f.path, raw, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", f.path, err)
		}
	}

	f.resetHash()
	f.resetMtime()
	return nil
}

// markLoaded records that a payload is present. Typed setters call it so
// that a freshly assigned payload counts as data rather than absence.
func (f *file) markLoaded() { f.loaded = true }

// resetHash captures the current content hash as the synced baseline.
func (f *file) resetHash() { f.loadedHash = f.Hash() }

// resetMtime records the file's current mtime as the synced baseline.
func (f *file) resetMtime() {
	if f.path == "" {
		return
	}
	if fi, err := os.Stat(f.path); err == nil {
		f.dataMtime = fi.ModTime()
	}
}

// Same reports whether two entries are handles to the same file: same
// concrete kind and same absolute path. Content is deliberately excluded
// so that a dirty handle and a clean handle to one file compare equal.
func Same(a, b Entry) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind() != b.Kind() {
		return false
	}
	ap, bp := a.Path(), b.Path()
	if ap == "" || bp == "" {
		return ap == bp
	}
	absA, errA := filepath.Abs(ap)
	absB, errB := filepath.Abs(bp)
	if errA != nil || errB != nil {
		return ap == bp
	}
	return absA == absB
}
