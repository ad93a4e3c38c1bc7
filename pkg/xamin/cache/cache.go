// Package cache provides an on-disk cache for type guesses, so that
// reopening a large directory does not re-sniff every file. Records are
// validated against file size and modification time; a changed file is
// re-guessed and the record replaced.
package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xamin-app/xamin/pkg/xamin/entry"
	"github.com/xamin-app/xamin/pkg/xamin/logging"
)

// GuessCache caches registry type guesses keyed by absolute path.
type GuessCache struct {
	store *Store
	reg   *entry.Registry
	log   *logging.Logger
}

// Open opens a guess cache at path backed by the given registry.
func Open(path string, reg *entry.Registry) (*GuessCache, error) {
	store, err := OpenStore(path)
	if err != nil {
		return nil, fmt.Errorf("opening guess cache: %w", err)
	}
	return &GuessCache{store: store, reg: reg, log: logging.Get("cache")}, nil
}

// Close closes the underlying store.
func (c *GuessCache) Close() error {
	return c.store.Close()
}

// Guess returns the entry type for the file at path, consulting the
// cache first. A cache record is valid only while the file's size and
// modification time are unchanged; otherwise the file is re-sniffed and
// the record replaced. Guessing never fails because of a cache error,
// only because the registry cannot classify the file.
func (c *GuessCache) Guess(path string) (entry.Type, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return entry.Type{}, fmt.Errorf("resolving %s: %w", path, err)
	}

	fi, statErr := os.Stat(abs)
	if statErr == nil {
		if rec, err := c.store.Get(abs); err == nil {
			if rec.Size == fi.Size() && rec.Mtime == fi.ModTime().UnixNano() {
				if t, ok := c.reg.Lookup(rec.Kind); ok {
					return t, nil
				}
				// Kind no longer registered; fall through and re-guess.
			}
		} else if !errors.Is(err, ErrNotFound) {
			c.log.Warn("cache read failed", "path", abs, "error", err)
		}
	}

	t, err := c.reg.Guess(abs, nil)
	if err != nil {
		return entry.Type{}, err
	}

	if statErr == nil {
		rec := &Record{Kind: t.Name, Size: fi.Size(), Mtime: fi.ModTime().UnixNano()}
		if err := c.store.Put(abs, rec); err != nil {
			c.log.Warn("cache write failed", "path", abs, "error", err)
		}
	}
	return t, nil
}

// Invalidate drops the record for path, if any.
func (c *GuessCache) Invalidate(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}
	return c.store.Delete(abs)
}

// Clear removes every cached record.
func (c *GuessCache) Clear() error {
	return c.store.DropAll()
}
