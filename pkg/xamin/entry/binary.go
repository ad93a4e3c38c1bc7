package entry

import "github.com/xamin-app/xamin/pkg/xamin/hint"

// Binary is an entry whose payload is raw bytes. It is the fallback for
// anything that is not UTF-8 text.
type Binary struct {
	file
	data []byte
}

// NewBinary returns a binary entry for path.
func NewBinary(path string) *Binary {
	b := &Binary{}
	b.init(b, path)
	return b
}

// BinaryType registers the binary fallback: it matches exactly the files
// whose hint does not decode as UTF-8.
func BinaryType() Type {
	return Type{
		Name:  KindBinary,
		Score: ScoreGeneric,
		Match: func(_ string, h *hint.Hint) bool {
			_, ok := h.Text()
			return !ok
		},
		New: func(path string) Entry { return NewBinary(path) },
	}
}

// Kind returns the binary tag name.
func (b *Binary) Kind() string { return KindBinary }

// Bytes returns the payload, loading the file first if stale. The
// returned slice is the live payload; callers that mutate it own the
// entry anyway.
func (b *Binary) Bytes() ([]byte, error) {
	if err := b.EnsureLoaded(); err != nil {
		return nil, err
	}
	return b.data, nil
}

// SetBytes replaces the payload.
func (b *Binary) SetBytes(raw []byte) {
	b.data = raw
	b.markLoaded()
}

// Shape returns the payload length in bytes.
func (b *Binary) Shape() []int {
	if err := b.EnsureLoaded(); err != nil {
		return nil
	}
	return []int{len(b.data)}
}

func (b *Binary) setDefault() { b.data = []byte{} }

func (b *Binary) marshal() ([]byte, error) { return b.data, nil }

func (b *Binary) unmarshal(raw []byte) error {
	b.data = raw
	return nil
}
