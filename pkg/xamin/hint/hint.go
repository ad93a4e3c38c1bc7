// Package hint reads a bounded byte prefix of a file for content-based
// type sniffing. A hint lets entry types classify a file without reading
// the whole thing.
package hint

import (
	"io"
	"os"
	"unicode/utf8"
)

// DefaultSize is the number of bytes read from a file when no explicit
// size is configured.
const DefaultSize = 2048

// Hint holds a capped byte prefix of a file plus a lazily derived UTF-8
// decoding. A Hint is created once per sniffing pass and never persisted.
type Hint struct {
	raw []byte

	decoded bool
	text    string
	valid   bool
}

// New wraps raw bytes in a Hint. It is mostly useful in tests; production
// callers use Read.
func New(raw []byte) *Hint {
	return &Hint{raw: raw}
}

// Read returns a Hint with up to size bytes from the start of the file at
// path. It returns nil on any I/O failure (missing file, permission
// denied, directory): an unreadable file is a sniffing dead end, not an
// error the caller can act on. A size of zero or less uses DefaultSize.
func Read(path string, size int) *Hint {
	if path == "" {
		return nil
	}
	if size <= 0 {
		size = DefaultSize
	}

	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer func() { _ = f.Close() }()

	buf := make([]byte, size)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil
	}

	return &Hint{raw: buf[:n]}
}

// Bytes returns the raw prefix bytes.
func (h *Hint) Bytes() []byte {
	return h.raw
}

// Len returns the number of bytes in the hint.
func (h *Hint) Len() int {
	return len(h.raw)
}

// Text returns the hint decoded as UTF-8. The second return value is
// false when the bytes are not valid UTF-8; invalid sequences are a
// binary signal, not an error. A final rune truncated by the hint-size
// cutoff is dropped rather than counted as invalid. The decode is
// attempted once and memoized.
func (h *Hint) Text() (string, bool) {
	if !h.decoded {
		h.decoded = true
		h.text, h.valid = decodePrefix(h.raw)
	}
	return h.text, h.valid
}

// decodePrefix decodes raw as UTF-8, tolerating a partial trailing rune.
func decodePrefix(raw []byte) (string, bool) {
	for i := 0; i < len(raw); {
		r, size := utf8.DecodeRune(raw[i:])
		if r == utf8.RuneError && size <= 1 {
			rest := raw[i:]
			if len(rest) < utf8.UTFMax && !utf8.FullRune(rest) {
				// Cutoff artifact at the very end of the prefix.
				return string(raw[:i]), true
			}
			return "", false
		}
		i += size
	}
	return string(raw), true
}
