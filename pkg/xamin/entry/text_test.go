package entry

import (
	"testing"

	"github.com/xamin-app/xamin/pkg/xamin/hint"
)

func TestTextType(t *testing.T) {
	t.Parallel()

	typ := TextType()

	t.Run("matches utf8 text", func(t *testing.T) {
		t.Parallel()
		if !typ.Match("a.txt", hint.New([]byte("import os\nprint('hi')\n"))) {
			t.Error("Match() = false for plain text")
		}
	})

	t.Run("rejects binary", func(t *testing.T) {
		t.Parallel()
		if typ.Match("a.bin", hint.New([]byte{0x89, 0x50, 0x4e, 0x47, 0xff})) {
			t.Error("Match() = true for binary data")
		}
	})
}

func TestTextShape(t *testing.T) {
	t.Parallel()

	e := NewText("")
	e.SetText("hello")
	got := e.Shape()
	if len(got) != 1 || got[0] != 5 {
		t.Errorf("Shape() = %v, want [5]", got)
	}
}

func TestBinaryType(t *testing.T) {
	t.Parallel()

	typ := BinaryType()

	t.Run("matches non-utf8 data", func(t *testing.T) {
		t.Parallel()
		if !typ.Match("a.bin", hint.New([]byte{0x89, 0x50, 0x4e, 0x47, 0xff})) {
			t.Error("Match() = false for binary data")
		}
	})

	t.Run("rejects text", func(t *testing.T) {
		t.Parallel()
		if typ.Match("a.txt", hint.New([]byte("plain text"))) {
			t.Error("Match() = true for text")
		}
	})
}

func TestBinaryRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "blob.bin", "\x00\x01\x02")

	e := NewBinary(path)
	got, err := e.Bytes()
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Bytes() len = %d, want 3", len(got))
	}

	e.SetBytes([]byte{0xde, 0xad, 0xbe, 0xef})
	if err := e.Save(false); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	fresh := NewBinary(path)
	shape := fresh.Shape()
	if len(shape) != 1 || shape[0] != 4 {
		t.Errorf("Shape() = %v, want [4]", shape)
	}
}
