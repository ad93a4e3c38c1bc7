// Package watch notifies about external modifications to opened files.
// Loaded entries do not pick up disk changes on their own; the watcher
// lets callers learn that a file changed underneath them and decide
// whether to reload.
package watch

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/xamin-app/xamin/pkg/xamin/logging"
)

// Op is the kind of change observed on a watched file.
type Op int

// Observed change kinds.
const (
	OpModified Op = iota
	OpRemoved
	OpRenamed
)

// String returns the string representation of the op.
func (o Op) String() string {
	switch o {
	case OpModified:
		return "modified"
	case OpRemoved:
		return "removed"
	case OpRenamed:
		return "renamed"
	default:
		return "unknown"
	}
}

// Event describes one observed change to a watched file.
type Event struct {
	Path string
	Op   Op
}

// Watcher watches individual files for external changes. Watches are
// placed on parent directories and filtered down to the tracked files,
// so edits done through rename (the common editor save strategy) are
// still observed.
type Watcher struct {
	watcher *fsnotify.Watcher
	mu      sync.Mutex
	files   map[string]bool // tracked files by absolute path
	dirs    map[string]int  // watched dirs with tracked-file refcount
	closed  bool
}

// New creates a new Watcher.
func New() (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		watcher: fsw,
		files:   make(map[string]bool),
		dirs:    make(map[string]int),
	}, nil
}

// Add starts watching the file at path.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed || w.files[abs] {
		return nil
	}

	dir := filepath.Dir(abs)
	if w.dirs[dir] == 0 {
		if err := w.watcher.Add(dir); err != nil {
			logging.Get("watch").Warn("failed to add watch", "dir", dir, "error", err)
			return err
		}
	}
	w.dirs[dir]++
	w.files[abs] = true
	return nil
}

// Remove stops watching the file at path.
func (w *Watcher) Remove(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed || !w.files[abs] {
		return
	}
	delete(w.files, abs)

	dir := filepath.Dir(abs)
	w.dirs[dir]--
	if w.dirs[dir] <= 0 {
		delete(w.dirs, dir)
		_ = w.watcher.Remove(dir)
	}
}

// Run starts the event loop. It blocks until the context is cancelled.
// onChange is called for each change to a tracked file.
func (w *Watcher) Run(ctx context.Context, onChange func(Event)) {
	log := logging.Get("watch")
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev, tracked := w.translate(event); tracked && onChange != nil {
				onChange(ev)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Error("watcher error", "error", err)
		}
	}
}

// translate maps an fsnotify event onto a tracked file, if any.
func (w *Watcher) translate(event fsnotify.Event) (Event, bool) {
	w.mu.Lock()
	tracked := w.files[event.Name]
	w.mu.Unlock()

	if !tracked {
		return Event{}, false
	}

	switch {
	case event.Op&fsnotify.Remove != 0:
		return Event{Path: event.Name, Op: OpRemoved}, true
	case event.Op&fsnotify.Rename != 0:
		return Event{Path: event.Name, Op: OpRenamed}, true
	case event.Op&(fsnotify.Write|fsnotify.Create) != 0:
		return Event{Path: event.Name, Op: OpModified}, true
	}
	return Event{}, false
}

// Close closes the watcher and releases resources.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}

	w.closed = true
	w.files = make(map[string]bool)
	w.dirs = make(map[string]int)
	return w.watcher.Close()
}
