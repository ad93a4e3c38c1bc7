package entry

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/xamin-app/xamin/pkg/xamin/hint"
	"github.com/xamin-app/xamin/pkg/xamin/logging"
)

// MatchFunc reports whether the file at path, sampled by h, can be
// parsed as a given entry kind. h may be nil when no hint could be read.
type MatchFunc func(path string, h *hint.Hint) bool

// FactoryFunc constructs a new entry of a given kind for path.
type FactoryFunc func(path string) Entry

// DecodeFunc reconstructs an entry of a given kind from a persisted
// project node. Only container kinds need one; leaf kinds are rebuilt
// from their path alone.
type DecodeFunc func(path string, node *yaml.Node) (Entry, error)

// Type describes one registered entry kind: its tag name, its sniffing
// precedence, its content matcher, and its constructors. Precedence is
// an explicit integer fixed at registration, not derived from any type
// hierarchy.
type Type struct {
	// Name is the kind's tag, e.g. "CsvEntry". Tags appear in persisted
	// project files, so renaming one is a format change.
	Name string

	// Score is the sniffing precedence. Among types whose Match accepts
	// a file, the strictly highest score wins; ties go to the type
	// registered first.
	Score int

	// Match is the content sniffer.
	Match MatchFunc

	// New constructs an entry of this kind.
	New FactoryFunc

	// Decode, when set, reconstructs an entry of this kind from a
	// persisted project node. Nil for leaf kinds.
	Decode DecodeFunc
}

// Registry is an explicit, injectable set of entry types. It is built
// once at process start and handed to whatever needs to guess types or
// decode persisted tags; nothing registers itself implicitly at import
// time, so the registry's contents never depend on import order.
//
// A Registry is safe for concurrent reads after construction.
type Registry struct {
	// HintSize is the number of bytes sampled for sniffing. Zero uses
	// hint.DefaultSize.
	HintSize int

	types  []Type
	byName map[string]int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]int)}
}

// Register adds a type. Registration order is the tie-break order for
// Guess. Registering a duplicate name returns ErrDuplicateType.
func (r *Registry) Register(t Type) error {
	if t.Name == "" {
		return fmt.Errorf("entry type has no name")
	}
	if t.Match == nil || t.New == nil {
		return fmt.Errorf("entry type %s: missing Match or New", t.Name)
	}
	if _, ok := r.byName[t.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateType, t.Name)
	}
	r.byName[t.Name] = len(r.types)
	r.types = append(r.types, t)
	return nil
}

// Lookup returns the type registered under name.
func (r *Registry) Lookup(name string) (Type, bool) {
	i, ok := r.byName[name]
	if !ok {
		return Type{}, false
	}
	return r.types[i], true
}

// Types returns the registered types sorted by score, then registration
// order. The slice is a copy.
func (r *Registry) Types() []Type {
	out := make([]Type, len(r.types))
	copy(out, r.types)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score < out[j].Score })
	return out
}

// Guess picks the best entry type for the file at path. It reads a hint
// when h is nil, asks every registered type's Match, and returns the
// accepting type with the strictly highest score; ties are broken by
// registration order, first registered wins. It returns ErrNoMatch when
// no type accepts, wrapped with the path, and also when no hint could be
// read at all (an unreadable file cannot be classified).
func (r *Registry) Guess(path string, h *hint.Hint) (Type, error) {
	if h == nil {
		h = hint.Read(path, r.HintSize)
	}
	if h == nil {
		return Type{}, fmt.Errorf("%w: %s is not readable", ErrNoMatch, path)
	}

	best := -1
	bestScore := 0
	for i, t := range r.types {
		if t.Score > bestScore && t.Match(path, h) {
			best = i
			bestScore = t.Score
		}
	}
	if best < 0 {
		return Type{}, fmt.Errorf("%w: %s", ErrNoMatch, path)
	}

	logging.Get("entry").Debug("guessed entry type", "path", path, "type", r.types[best].Name)
	return r.types[best], nil
}

// DefaultRegistry builds a registry holding the built-in kinds: the text
// and binary catch-alls, delimited text, YAML documents, and projects.
// hintSize and delims of zero/nil use the package defaults.
func DefaultRegistry(hintSize int, delims []rune) *Registry {
	r := NewRegistry()
	r.HintSize = hintSize

	// Built-in names cannot collide.
	_ = r.Register(TextType())
	_ = r.Register(BinaryType())
	_ = r.Register(CsvType(delims))
	_ = r.Register(YamlType())
	_ = r.Register(ProjectType(r))
	return r
}
