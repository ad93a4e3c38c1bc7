package entry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writeFile creates a file with the given content and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

// writeBytes writes raw bytes to path.
func writeBytes(path string, raw []byte) error {
	return os.WriteFile(path, raw, 0o644)
}

// mkdir creates a directory and any missing parents.
func mkdir(path string) error {
	return os.MkdirAll(path, 0o755)
}

// readFileString returns a file's content as a string.
func readFileString(path string) (string, error) {
	raw, err := os.ReadFile(path)
	return string(raw), err
}

// touchFuture bumps a file's mtime past any baseline recorded so far,
// regardless of filesystem timestamp granularity.
func touchFuture(t *testing.T, path string) {
	t.Helper()
	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatalf("chtimes %s: %v", path, err)
	}
}

func TestEntryStale(t *testing.T) {
	t.Parallel()

	t.Run("fresh entry is stale", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, t.TempDir(), "a.txt", "hello")

		e := NewText(path)
		if !e.IsStale() {
			t.Fatal("IsStale() = false before first load")
		}
	})

	t.Run("loaded entry is not stale", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, t.TempDir(), "a.txt", "hello")

		e := NewText(path)
		if err := e.Load(); err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if e.IsStale() {
			t.Fatal("IsStale() = true after load")
		}
	})

	t.Run("entry without path is not stale once set", func(t *testing.T) {
		t.Parallel()

		e := NewText("")
		e.SetText("data")
		if e.IsStale() {
			t.Fatal("IsStale() = true for path-less entry with data")
		}
	})

	t.Run("missing file is not stale", func(t *testing.T) {
		t.Parallel()

		e := NewText(filepath.Join(t.TempDir(), "missing.txt"))
		e.SetText("data")
		if e.IsStale() {
			t.Fatal("IsStale() = true for missing file")
		}
	})

	t.Run("modified file is stale", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, t.TempDir(), "a.txt", "hello")

		e := NewText(path)
		if err := e.Load(); err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		touchFuture(t, path)
		if !e.IsStale() {
			t.Fatal("IsStale() = false after file modification")
		}
	})
}

func TestEntryLoad(t *testing.T) {
	t.Parallel()

	t.Run("loads file content", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, t.TempDir(), "a.txt", "hello world")

		e := NewText(path)
		got, err := e.Text()
		if err != nil {
			t.Fatalf("Text() error = %v", err)
		}
		if got != "hello world" {
			t.Errorf("Text() = %q, want %q", got, "hello world")
		}
	})

	t.Run("no path installs default", func(t *testing.T) {
		t.Parallel()

		e := NewText("")
		if err := e.Load(); err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		got, err := e.Text()
		if err != nil {
			t.Fatalf("Text() error = %v", err)
		}
		if got != "" {
			t.Errorf("Text() = %q, want empty", got)
		}
	})

	t.Run("missing file fails", func(t *testing.T) {
		t.Parallel()

		e := NewText(filepath.Join(t.TempDir(), "missing.txt"))
		if err := e.Load(); err == nil {
			t.Fatal("Load() error = nil for missing file")
		}
	})

	t.Run("accessor reloads modified file", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		path := writeFile(t, dir, "a.txt", "before")

		e := NewText(path)
		if _, err := e.Text(); err != nil {
			t.Fatalf("Text() error = %v", err)
		}

		writeFile(t, dir, "a.txt", "after")
		touchFuture(t, path)

		got, err := e.Text()
		if err != nil {
			t.Fatalf("Text() error = %v", err)
		}
		if got != "after" {
			t.Errorf("Text() = %q, want %q", got, "after")
		}
		if e.IsFileNewer() {
			t.Error("IsFileNewer() = true after reload")
		}
	})

	t.Run("refuses to clobber unsaved edits", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, t.TempDir(), "a.txt", "original")

		e := NewText(path)
		if err := e.Load(); err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		e.SetText("edited")
		touchFuture(t, path)

		err := e.Load()
		if !errors.Is(err, ErrFileChanged) {
			t.Fatalf("Load() error = %v, want ErrFileChanged", err)
		}
	})
}

func TestEntryUnsaved(t *testing.T) {
	t.Parallel()

	t.Run("path-less entry is always unsaved", func(t *testing.T) {
		t.Parallel()

		e := NewText("")
		if !e.IsUnsaved() {
			t.Fatal("IsUnsaved() = false for path-less entry")
		}
		e.SetText("data")
		if !e.IsUnsaved() {
			t.Fatal("IsUnsaved() = false for path-less entry with data")
		}
	})

	t.Run("loaded entry is saved", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, t.TempDir(), "a.txt", "hello")

		e := NewText(path)
		if err := e.Load(); err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if e.IsUnsaved() {
			t.Fatal("IsUnsaved() = true after load")
		}
	})

	t.Run("mutation marks unsaved, save clears it", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, t.TempDir(), "a.txt", "hello")

		e := NewText(path)
		if err := e.Load(); err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		e.SetText("changed")
		if !e.IsUnsaved() {
			t.Fatal("IsUnsaved() = false after mutation")
		}
		if err := e.Save(false); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if e.IsUnsaved() {
			t.Fatal("IsUnsaved() = true after save")
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if string(raw) != "changed" {
			t.Errorf("file content = %q, want %q", raw, "changed")
		}
	})
}

func TestEntrySave(t *testing.T) {
	t.Parallel()

	t.Run("no path returns ErrMissingPath", func(t *testing.T) {
		t.Parallel()

		e := NewText("")
		e.SetText("data")
		if err := e.Save(false); !errors.Is(err, ErrMissingPath) {
			t.Fatalf("Save() error = %v, want ErrMissingPath", err)
		}
	})

	t.Run("clean save does not touch the file", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, t.TempDir(), "a.txt", "hello")

		e := NewText(path)
		if err := e.Load(); err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		before, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}

		if err := e.Save(false); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		after, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if !after.ModTime().Equal(before.ModTime()) {
			t.Error("clean save changed the file mtime")
		}
	})

	t.Run("refuses to overwrite external edits", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, t.TempDir(), "a.txt", "original")

		e := NewText(path)
		if err := e.Load(); err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		e.SetText("mine")
		touchFuture(t, path)

		if err := e.Save(false); !errors.Is(err, ErrFileChanged) {
			t.Fatalf("Save() error = %v, want ErrFileChanged", err)
		}
		if err := e.Save(true); err != nil {
			t.Fatalf("Save(overwrite) error = %v", err)
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if string(raw) != "mine" {
			t.Errorf("file content = %q, want %q", raw, "mine")
		}
	})

	t.Run("set path then save writes new file", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()

		e := NewText("")
		e.SetText("moved")
		e.SetPath(filepath.Join(dir, "new.txt"))

		if err := e.Save(false); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		raw, err := os.ReadFile(filepath.Join(dir, "new.txt"))
		if err != nil {
			t.Fatal(err)
		}
		if string(raw) != "moved" {
			t.Errorf("file content = %q, want %q", raw, "moved")
		}
	})
}

func TestEntryHash(t *testing.T) {
	t.Parallel()

	t.Run("no data hashes empty", func(t *testing.T) {
		t.Parallel()

		e := NewText("")
		if h := e.Hash(); h != "" {
			t.Errorf("Hash() = %q, want empty", h)
		}
	})

	t.Run("equal content hashes equal", func(t *testing.T) {
		t.Parallel()

		a := NewText("")
		a.SetText("same")
		b := NewText("")
		b.SetText("same")
		if a.Hash() == "" || a.Hash() != b.Hash() {
			t.Errorf("Hash() mismatch: %q vs %q", a.Hash(), b.Hash())
		}

		b.SetText("different")
		if a.Hash() == b.Hash() {
			t.Error("different content produced equal hashes")
		}
	})
}

func TestSame(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", "hello")

	t.Run("same kind and path", func(t *testing.T) {
		t.Parallel()
		if !Same(NewText(path), NewText(path)) {
			t.Error("Same() = false for two handles to one file")
		}
	})

	t.Run("different kinds", func(t *testing.T) {
		t.Parallel()
		if Same(NewText(path), NewCsv(path)) {
			t.Error("Same() = true across kinds")
		}
	})

	t.Run("different paths", func(t *testing.T) {
		t.Parallel()
		other := writeFile(t, dir, "b.txt", "hello")
		if Same(NewText(path), NewText(other)) {
			t.Error("Same() = true for different files")
		}
	})

	t.Run("nil handling", func(t *testing.T) {
		t.Parallel()
		if Same(nil, NewText(path)) {
			t.Error("Same(nil, e) = true")
		}
		if !Same(nil, nil) {
			t.Error("Same(nil, nil) = false")
		}
	})
}
