package hint

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	t.Parallel()

	t.Run("reads prefix of small file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "small.txt")
		if err := os.WriteFile(path, []byte("hello\nworld\n"), 0o644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}

		h := Read(path, DefaultSize)
		if h == nil {
			t.Fatal("Read() = nil, want hint")
		}
		if got := string(h.Bytes()); got != "hello\nworld\n" {
			t.Errorf("Bytes() = %q, want %q", got, "hello\nworld\n")
		}
	})

	t.Run("caps read at size", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "big.txt")
		content := strings.Repeat("x", 4096)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}

		h := Read(path, 128)
		if h == nil {
			t.Fatal("Read() = nil, want hint")
		}
		if h.Len() != 128 {
			t.Errorf("Len() = %d, want 128", h.Len())
		}
	})

	t.Run("zero size uses default", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "big.txt")
		content := strings.Repeat("y", 3*DefaultSize)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}

		h := Read(path, 0)
		if h == nil {
			t.Fatal("Read() = nil, want hint")
		}
		if h.Len() != DefaultSize {
			t.Errorf("Len() = %d, want %d", h.Len(), DefaultSize)
		}
	})

	t.Run("returns nil for missing file", func(t *testing.T) {
		t.Parallel()
		if h := Read(filepath.Join(t.TempDir(), "nope"), 0); h != nil {
			t.Errorf("Read() = %v, want nil", h)
		}
	})

	t.Run("returns nil for empty path", func(t *testing.T) {
		t.Parallel()
		if h := Read("", 0); h != nil {
			t.Errorf("Read() = %v, want nil", h)
		}
	})

	t.Run("empty file yields empty hint", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "empty")
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}

		h := Read(path, 0)
		if h == nil {
			t.Fatal("Read() = nil, want hint")
		}
		if h.Len() != 0 {
			t.Errorf("Len() = %d, want 0", h.Len())
		}
	})
}

func TestHint_Text(t *testing.T) {
	t.Parallel()

	t.Run("decodes valid utf8", func(t *testing.T) {
		t.Parallel()
		h := New([]byte("import os\n"))

		text, ok := h.Text()
		if !ok {
			t.Fatal("Text() ok = false, want true")
		}
		if text != "import os\n" {
			t.Errorf("Text() = %q, want %q", text, "import os\n")
		}
	})

	t.Run("rejects binary bytes", func(t *testing.T) {
		t.Parallel()
		h := New([]byte{0x00, 0xff, 0xfe, 0x01})

		if _, ok := h.Text(); ok {
			t.Error("Text() ok = true, want false for binary bytes")
		}
	})

	t.Run("tolerates rune truncated by cutoff", func(t *testing.T) {
		t.Parallel()
		// "日" is 0xE6 0x97 0xA5; cut after the second byte.
		raw := append([]byte("abc"), 0xE6, 0x97)
		h := New(raw)

		text, ok := h.Text()
		if !ok {
			t.Fatal("Text() ok = false, want true for truncated trailing rune")
		}
		if text != "abc" {
			t.Errorf("Text() = %q, want %q", text, "abc")
		}
	})

	t.Run("rejects invalid byte mid stream", func(t *testing.T) {
		t.Parallel()
		raw := bytes.Join([][]byte{[]byte("ab"), {0xff}, []byte("cd")}, nil)
		h := New(raw)

		if _, ok := h.Text(); ok {
			t.Error("Text() ok = true, want false for invalid mid-stream byte")
		}
	})

	t.Run("empty hint decodes to empty text", func(t *testing.T) {
		t.Parallel()
		h := New(nil)

		text, ok := h.Text()
		if !ok || text != "" {
			t.Errorf("Text() = %q, %v, want \"\", true", text, ok)
		}
	})
}
