package entry

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/charlievieth/fastwalk"
	"gopkg.in/yaml.v3"

	"github.com/xamin-app/xamin/pkg/xamin/hint"
	"github.com/xamin-app/xamin/pkg/xamin/logging"
	"github.com/xamin-app/xamin/pkg/xamin/version"
)

// Named pairs a display name with the entry it refers to, preserving the
// project's insertion order.
type Named struct {
	Name  string
	Entry Entry
}

// Project is a container entry: metadata plus an insertion-ordered set
// of named entries, which may themselves be projects. A project owns its
// entries; one entry never belongs to two projects.
//
// Persisted form is a YAML document tagged !Project whose entries carry
// their concrete kind tags, so the tree reconstructs polymorphically
// through the registry the project was built with.
type Project struct {
	file
	reg *Registry

	// NamePattern names path-less entries; empty uses
	// DefaultNamePattern.
	NamePattern string

	meta    map[string]any
	names   []string
	entries map[string]Entry
}

// projectHead matches the start of a project document: the !Project tag
// followed by a meta or entries key, comments and blank lines aside.
var projectHead = regexp.MustCompile(`^!Project\s*\n\s*(meta|entries):`)

var comments = regexp.MustCompile(`#[^\n]*`)

// NewProject returns a project for path whose tagged entries resolve
// through reg.
func NewProject(reg *Registry, path string) *Project {
	p := &Project{reg: reg}
	p.init(p, path)
	return p
}

// ProjectType registers project documents against reg. The registry is
// captured so that decoding a nested project resolves its entries' tags
// through the same type table.
func ProjectType(reg *Registry) Type {
	return Type{
		Name:  KindProject,
		Score: ScoreContainer,
		Match: func(_ string, h *hint.Hint) bool {
			text, ok := h.Text()
			if !ok {
				return false
			}
			head := comments.ReplaceAllString(text, "")
			return projectHead.MatchString(trimLeadingSpace(head))
		},
		New: func(path string) Entry { return NewProject(reg, path) },
		Decode: func(path string, node *yaml.Node) (Entry, error) {
			sub := NewProject(reg, path)
			if err := sub.decodeNode(node); err != nil {
				return nil, err
			}
			// Data came from the parent document; the sub-project's own
			// file, if it exists, still wins on next access.
			sub.markLoaded()
			return sub, nil
		},
	}
}

// Kind returns the project tag name.
func (p *Project) Kind() string { return KindProject }

// Meta returns the project's metadata mapping, loading first if stale.
// The version marker is set on first access when absent.
func (p *Project) Meta() (map[string]any, error) {
	if err := p.EnsureLoaded(); err != nil {
		return nil, err
	}
	if _, ok := p.meta["version"]; !ok {
		p.meta["version"] = version.Version
	}
	return p.meta, nil
}

// Entries returns the project's entries in insertion order.
func (p *Project) Entries() ([]Named, error) {
	if err := p.EnsureLoaded(); err != nil {
		return nil, err
	}
	out := make([]Named, 0, len(p.names))
	for _, name := range p.names {
		out = append(out, Named{Name: name, Entry: p.entries[name]})
	}
	return out, nil
}

// Get returns the entry registered under name.
func (p *Project) Get(name string) (Entry, bool) {
	if err := p.EnsureLoaded(); err != nil {
		return nil, false
	}
	e, ok := p.entries[name]
	return e, ok
}

// Len returns the number of entries.
func (p *Project) Len() int {
	if err := p.EnsureLoaded(); err != nil {
		return 0
	}
	return len(p.names)
}

// Shape returns the number of entries.
func (p *Project) Shape() []int {
	if err := p.EnsureLoaded(); err != nil {
		return nil
	}
	return []int{len(p.names)}
}

// AddEntries adds entries under fresh placeholder names and then
// re-derives all display names, which also collapses entries that
// derive the same name (two handles to one file become one entry).
func (p *Project) AddEntries(entries ...Entry) error {
	if err := p.EnsureLoaded(); err != nil {
		return err
	}
	for _, e := range entries {
		if e == nil {
			continue
		}
		num := 0
		for {
			name := fmt.Sprintf(p.pattern(), num)
			if _, taken := p.entries[name]; !taken {
				p.putEntry(name, e)
				break
			}
			num++
		}
	}
	p.AssignUniqueNames()
	return nil
}

// AddNamed merges pre-named entries, keys taken as-is, and then
// re-derives all display names.
func (p *Project) AddNamed(entries ...Named) error {
	if err := p.EnsureLoaded(); err != nil {
		return err
	}
	for _, n := range entries {
		if n.Entry == nil {
			continue
		}
		p.putEntry(n.Name, n.Entry)
	}
	p.AssignUniqueNames()
	return nil
}

// AddFiles guesses an entry type for each path and adds the resulting
// entries. Paths already present in the project (compared as absolute
// paths) are ignored. Paths no registered type accepts are skipped and
// returned, never silently coerced to a default kind.
func (p *Project) AddFiles(paths ...string) ([]string, error) {
	if err := p.EnsureLoaded(); err != nil {
		return nil, err
	}
	logger := logging.Get("project")

	existing := make(map[string]struct{})
	for _, name := range p.names {
		if ep := p.entries[name].Path(); ep != "" {
			if abs, err := filepath.Abs(ep); err == nil {
				existing[abs] = struct{}{}
			}
		}
	}

	var add []Entry
	var skipped []string
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			skipped = append(skipped, path)
			continue
		}
		if _, ok := existing[abs]; ok {
			continue
		}

		h := hint.Read(path, p.reg.HintSize)
		typ, err := p.reg.Guess(path, h)
		if err != nil {
			logger.Warn("no entry type for file", "path", path, "error", err)
			skipped = append(skipped, path)
			continue
		}
		add = append(add, typ.New(path))
		existing[abs] = struct{}{}
	}

	if err := p.AddEntries(add...); err != nil {
		return skipped, err
	}
	return skipped, nil
}

// AddDir walks dir and adds every regular file underneath it, in sorted
// path order. Unreadable or unclassifiable files are skipped and
// returned.
func (p *Project) AddDir(dir string) ([]string, error) {
	var files []string
	conf := fastwalk.Config{Follow: false}

	err := fastwalk.Walk(&conf, dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logging.Get("project").Warn("skipping unreadable path", "path", path, "error", err)
			return nil
		}
		if d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}

	// fastwalk visits in parallel; sort for a stable project order.
	sort.Strings(files)
	return p.AddFiles(files...)
}

// AssignUniqueNames re-derives every entry's display name from the
// longest common path prefix across the project's pathed entries (see
// deriveName) and rebuilds the entry table keyed by the new names.
// Because the table is keyed by name, entries deriving the same name
// collapse to one, which is the project's de-duplication mechanism.
func (p *Project) AssignUniqueNames() {
	ordered := make([]Entry, 0, len(p.names))
	var paths []string
	for _, name := range p.names {
		e := p.entries[name]
		ordered = append(ordered, e)
		if e.Path() != "" {
			paths = append(paths, e.Path())
		}
	}

	common, haveCommon := commonPath(paths)

	p.names = nil
	p.entries = make(map[string]Entry, len(ordered))
	for i, e := range ordered {
		name := deriveName(e, i+1, p.pattern(), common, haveCommon)
		p.putEntry(name, e)
	}
}

// putEntry inserts or replaces an entry under name. A replaced name
// keeps its original position in the order.
func (p *Project) putEntry(name string, e Entry) {
	if _, ok := p.entries[name]; !ok {
		p.names = append(p.names, name)
	}
	p.entries[name] = e
}

func (p *Project) pattern() string {
	if p.NamePattern == "" {
		return DefaultNamePattern
	}
	return p.NamePattern
}

// dir returns the directory the project file lives in, the base against
// which entry paths are relativized for portability.
func (p *Project) dir() string {
	if p.path == "" {
		return ""
	}
	return filepath.Dir(p.path)
}

func (p *Project) setDefault() {
	p.meta = map[string]any{}
	p.names = nil
	p.entries = make(map[string]Entry)
}

func trimLeadingSpace(s string) string {
	for len(s) > 0 && (s[0] == ' ' || s[0] == '\t' || s[0] == '\n' || s[0] == '\r') {
		s = s[1:]
	}
	return s
}
