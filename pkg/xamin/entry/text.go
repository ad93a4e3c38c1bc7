package entry

import "github.com/xamin-app/xamin/pkg/xamin/hint"

// Text is an entry whose payload is a UTF-8 string.
type Text struct {
	file
	data string
}

// NewText returns a text entry for path. An empty path creates a new,
// unsaved entry with empty text.
func NewText(path string) *Text {
	t := &Text{}
	t.init(t, path)
	return t
}

// TextType registers plain text as a generic catch-all: it matches any
// file whose hint decodes as UTF-8, at a score every format-specific
// kind outranks.
func TextType() Type {
	return Type{
		Name:  KindText,
		Score: ScoreGeneric,
		Match: func(_ string, h *hint.Hint) bool {
			_, ok := h.Text()
			return ok
		},
		New: func(path string) Entry { return NewText(path) },
	}
}

// Kind returns the text tag name.
func (t *Text) Kind() string { return KindText }

// Text returns the payload, loading the file first if stale.
func (t *Text) Text() (string, error) {
	if err := t.EnsureLoaded(); err != nil {
		return "", err
	}
	return t.data, nil
}

// SetText replaces the payload.
func (t *Text) SetText(s string) {
	t.data = s
	t.markLoaded()
}

// Shape returns the text length in bytes.
func (t *Text) Shape() []int {
	if err := t.EnsureLoaded(); err != nil {
		return nil
	}
	return []int{len(t.data)}
}

func (t *Text) setDefault() { t.data = "" }

func (t *Text) marshal() ([]byte, error) { return []byte(t.data), nil }

func (t *Text) unmarshal(raw []byte) error {
	t.data = string(raw)
	return nil
}
