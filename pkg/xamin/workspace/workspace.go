// Package workspace tracks the set of currently opened entries. It is
// the single owner of open handles: opening the same file twice yields
// the same handle, and save-all and unsaved queries run over everything
// the workspace holds.
package workspace

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/xamin-app/xamin/pkg/xamin/entry"
	"github.com/xamin-app/xamin/pkg/xamin/logging"
)

// ErrNotOpen is returned when a handle does not refer to an open entry.
var ErrNotOpen = errors.New("entry is not open")

// Guesser picks an entry type for a file. Both *entry.Registry and the
// on-disk guess cache satisfy the shape via the adapters below.
type Guesser interface {
	Guess(path string) (entry.Type, error)
}

// RegistryGuesser adapts *entry.Registry to the Guesser interface.
type RegistryGuesser struct {
	Registry *entry.Registry
}

// Guess sniffs the file at path against the registry.
func (g RegistryGuesser) Guess(path string) (entry.Type, error) {
	return g.Registry.Guess(path, nil)
}

// Workspace holds the open entries, keyed by opaque handle.
type Workspace struct {
	guesser Guesser
	recent  *Recent
	log     *logging.Logger

	mu      sync.RWMutex
	order   []string
	entries map[string]entry.Entry
	byPath  map[string]string // absolute path -> handle
}

// New creates a workspace that uses g to classify opened files.
func New(g Guesser) *Workspace {
	return &Workspace{
		guesser: g,
		log:     logging.Get("workspace"),
		entries: make(map[string]entry.Entry),
		byPath:  make(map[string]string),
	}
}

// SetRecent attaches a recent-files manifest. Opened paths are recorded
// there; a nil manifest disables recording.
func (w *Workspace) SetRecent(r *Recent) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.recent = r
}

// Open opens the file at path, classifying and loading it, and returns
// its handle. Opening an already-open path returns the existing handle
// without reloading.
func (w *Workspace) Open(path string) (string, entry.Entry, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", nil, fmt.Errorf("resolving %s: %w", path, err)
	}

	w.mu.Lock()
	if id, ok := w.byPath[abs]; ok {
		e := w.entries[id]
		w.mu.Unlock()
		return id, e, nil
	}
	w.mu.Unlock()

	typ, err := w.guesser.Guess(abs)
	if err != nil {
		return "", nil, err
	}

	e := typ.New(abs)
	if err := e.EnsureLoaded(); err != nil {
		return "", nil, fmt.Errorf("loading %s: %w", abs, err)
	}

	w.mu.Lock()
	// Re-check under the lock; a concurrent Open may have won.
	if id, ok := w.byPath[abs]; ok {
		existing := w.entries[id]
		w.mu.Unlock()
		return id, existing, nil
	}
	id := uuid.NewString()
	w.entries[id] = e
	w.byPath[abs] = id
	w.order = append(w.order, id)
	recent := w.recent
	w.mu.Unlock()

	w.log.Info("opened entry", "path", abs, "type", typ.Name)

	if recent != nil {
		if err := recent.Add(abs, typ.Name); err != nil {
			w.log.Warn("failed to record recent file", "path", abs, "error", err)
		}
	}
	return id, e, nil
}

// Add registers an already-constructed entry, typically one without a
// path yet, and returns its handle.
func (w *Workspace) Add(e entry.Entry) string {
	w.mu.Lock()
	defer w.mu.Unlock()

	id := uuid.NewString()
	w.entries[id] = e
	w.order = append(w.order, id)
	if p := e.Path(); p != "" {
		if abs, err := filepath.Abs(p); err == nil {
			w.byPath[abs] = id
		}
	}
	return id
}

// Get returns the entry for a handle.
func (w *Workspace) Get(id string) (entry.Entry, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	e, ok := w.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotOpen, id)
	}
	return e, nil
}

// Entries returns the open entries in opening order.
func (w *Workspace) Entries() []entry.Entry {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]entry.Entry, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.entries[id])
	}
	return out
}

// Handles returns the open handles in opening order.
func (w *Workspace) Handles() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]string, len(w.order))
	copy(out, w.order)
	return out
}

// Len returns the number of open entries.
func (w *Workspace) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.entries)
}

// Close removes the entry for a handle from the workspace. The entry
// itself is untouched; unsaved data is the caller's responsibility.
func (w *Workspace) Close(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	e, ok := w.entries[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotOpen, id)
	}
	delete(w.entries, id)
	for i, other := range w.order {
		if other == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	if p := e.Path(); p != "" {
		if abs, err := filepath.Abs(p); err == nil && w.byPath[abs] == id {
			delete(w.byPath, abs)
		}
	}
	return nil
}

// Unsaved returns the handles of entries with unsaved modifications, in
// opening order.
func (w *Workspace) Unsaved() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	var out []string
	for _, id := range w.order {
		if w.entries[id].IsUnsaved() {
			out = append(out, id)
		}
	}
	return out
}

// SaveAll saves every open entry that has a path. Entries without a
// path are skipped and returned so the caller can prompt for
// destinations. The first save error aborts the sweep.
func (w *Workspace) SaveAll(overwrite bool) (skipped []string, err error) {
	for _, id := range w.Handles() {
		e, getErr := w.Get(id)
		if getErr != nil {
			continue // closed concurrently
		}
		if e.Path() == "" {
			skipped = append(skipped, id)
			continue
		}
		if saveErr := e.Save(overwrite); saveErr != nil {
			return skipped, fmt.Errorf("saving %s: %w", e.Path(), saveErr)
		}
	}
	return skipped, nil
}
