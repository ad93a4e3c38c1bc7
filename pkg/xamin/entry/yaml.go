package entry

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/xamin-app/xamin/pkg/xamin/hint"
)

// Yaml is an entry whose payload is a YAML tree: a mapping or a sequence
// of plain values, parsed with yaml.v3's default (safe) constructors.
type Yaml struct {
	file
	data any
}

// NewYaml returns a YAML entry for path.
func NewYaml(path string) *Yaml {
	y := &Yaml{}
	y.init(y, path)
	return y
}

// YamlType registers YAML documents. The hint is parsed with its final
// line dropped, since the hint-size cutoff may truncate it mid-token; a
// file matches when the remainder parses to a mapping or a sequence.
func YamlType() Type {
	return Type{
		Name:  KindYaml,
		Score: ScoreFormat,
		Match: func(_ string, h *hint.Hint) bool {
			text, ok := h.Text()
			if !ok {
				return false
			}
			return sniffYaml(text)
		},
		New: func(path string) Entry { return NewYaml(path) },
	}
}

// Kind returns the YAML tag name.
func (y *Yaml) Kind() string { return KindYaml }

// Tree returns the payload, loading the file first if stale. The result
// is a map[string]any, a []any, or a scalar for degenerate documents.
func (y *Yaml) Tree() (any, error) {
	if err := y.EnsureLoaded(); err != nil {
		return nil, err
	}
	return y.data, nil
}

// SetTree replaces the payload.
func (y *Yaml) SetTree(data any) {
	y.data = data
	y.markLoaded()
}

// Shape returns the length of the root mapping or sequence.
func (y *Yaml) Shape() []int {
	if err := y.EnsureLoaded(); err != nil {
		return nil
	}
	switch v := y.data.(type) {
	case map[string]any:
		return []int{len(v)}
	case []any:
		return []int{len(v)}
	default:
		return nil
	}
}

func (y *Yaml) setDefault() { y.data = map[string]any{} }

func (y *Yaml) marshal() ([]byte, error) {
	raw, err := yaml.Marshal(y.data)
	if err != nil {
		return nil, fmt.Errorf("encoding yaml: %w", err)
	}
	return raw, nil
}

func (y *Yaml) unmarshal(raw []byte) error {
	var data any
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("decoding yaml: %w", err)
	}
	y.data = data
	return nil
}

// sniffYaml reports whether text, minus its possibly truncated final
// line, parses to a mapping or sequence.
func sniffYaml(text string) bool {
	lines := strings.Split(text, "\n")
	block := strings.Join(lines[:len(lines)-1], "\n")

	var data any
	if err := yaml.Unmarshal([]byte(block), &data); err != nil {
		return false
	}
	switch data.(type) {
	case map[string]any, []any:
		return true
	default:
		return false
	}
}
