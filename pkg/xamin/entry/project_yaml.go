package entry

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/xamin-app/xamin/pkg/xamin/logging"
	"github.com/xamin-app/xamin/pkg/xamin/version"
)

// marshal serializes the project as a tagged YAML tree. Entry paths are
// written as sequences of components, relative to the project's own
// directory when the entry lives underneath it, so a project directory
// can be moved or shared without rewriting the file.
func (p *Project) marshal() ([]byte, error) {
	node, err := p.encode()
	if err != nil {
		return nil, err
	}
	raw, err := yaml.Marshal(node)
	if err != nil {
		return nil, fmt.Errorf("encoding project: %w", err)
	}
	return raw, nil
}

// unmarshal reconstructs the project from a tagged YAML tree. Entries
// whose tags are unknown to the registry are skipped with a diagnostic;
// a foreign or corrupt tag must not abort the rest of the project.
func (p *Project) unmarshal(raw []byte) error {
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decoding project: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return fmt.Errorf("empty project document")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode || root.Tag != "!"+KindProject {
		return fmt.Errorf("not a project document (tag %q)", root.Tag)
	}
	return p.decodeNode(root)
}

// encode builds the project's tagged node. Data must already be present.
func (p *Project) encode() (*yaml.Node, error) {
	if _, ok := p.meta["version"]; !ok {
		p.meta["version"] = version.Version
	}
	metaNode, err := encodeMeta(p.meta)
	if err != nil {
		return nil, err
	}

	entriesNode := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	dir := p.dir()
	for _, name := range p.names {
		child, err := p.encodeEntry(p.entries[name], dir)
		if err != nil {
			return nil, fmt.Errorf("encoding entry %q: %w", name, err)
		}
		entriesNode.Content = append(entriesNode.Content, strNode(name), child)
	}

	return &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!" + KindProject,
		Content: []*yaml.Node{
			strNode("meta"), metaNode,
			strNode("entries"), entriesNode,
		},
	}, nil
}

// encodeEntry builds the tagged node for one owned entry. Leaves carry
// only their path; a nested project recurses, carrying its path relative
// to this project while its own entries relativize against its own
// directory.
func (p *Project) encodeEntry(e Entry, dir string) (*yaml.Node, error) {
	pathNode := encodePath(relativizePath(e.Path(), dir))

	if sub, ok := e.(*Project); ok {
		if err := sub.EnsureLoaded(); err != nil {
			return nil, err
		}
		node, err := sub.encode()
		if err != nil {
			return nil, err
		}
		node.Content = append([]*yaml.Node{strNode("path"), pathNode}, node.Content...)
		return node, nil
	}

	return &yaml.Node{
		Kind:    yaml.MappingNode,
		Tag:     "!" + e.Kind(),
		Content: []*yaml.Node{strNode("path"), pathNode},
	}, nil
}

// decodeNode replaces the project's payload with the contents of a
// tagged project node. The node's own path key, if any, is ignored: the
// project's location is wherever it was actually read from.
func (p *Project) decodeNode(node *yaml.Node) error {
	p.setDefault()
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		switch key.Value {
		case "meta":
			meta := map[string]any{}
			if err := val.Decode(&meta); err != nil {
				return fmt.Errorf("decoding project meta: %w", err)
			}
			p.meta = meta
		case "entries":
			if err := p.decodeEntries(val); err != nil {
				return err
			}
		}
	}
	return nil
}

// decodeEntries reconstructs owned entries from a name to tagged-node
// mapping, resolving tags through the registry.
func (p *Project) decodeEntries(node *yaml.Node) error {
	logger := logging.Get("project")
	dir := p.dir()

	for i := 0; i+1 < len(node.Content); i += 2 {
		name, child := node.Content[i].Value, node.Content[i+1]

		tag := strings.TrimPrefix(child.Tag, "!")
		typ, ok := p.reg.Lookup(tag)
		if !ok {
			logger.Warn("skipping entry with unrecognized tag", "name", name, "tag", child.Tag)
			continue
		}

		childPath := decodeEntryPath(child, dir)
		var e Entry
		if typ.Decode != nil {
			var err error
			e, err = typ.Decode(childPath, child)
			if err != nil {
				logger.Warn("skipping entry that failed to decode", "name", name, "error", err)
				continue
			}
		} else {
			e = typ.New(childPath)
		}
		p.putEntry(name, e)
	}
	return nil
}

// decodeEntryPath reads an entry node's path sequence and resolves it,
// joining relative paths onto the owning project's directory.
func decodeEntryPath(node *yaml.Node, dir string) string {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value != "path" {
			continue
		}
		val := node.Content[i+1]
		if val.Kind != yaml.SequenceNode {
			return ""
		}
		var parts []string
		for _, part := range val.Content {
			parts = append(parts, part.Value)
		}
		if len(parts) == 0 {
			return ""
		}
		joined := filepath.Join(parts...)
		if !filepath.IsAbs(joined) && dir != "" {
			joined = filepath.Join(dir, joined)
		}
		return joined
	}
	return ""
}

// relativizePath splits a path into persisted components, relative to
// dir when the path sits underneath it, absolute otherwise. Walking up
// is deliberately not attempted: a sibling path written as ../x would
// break as soon as the project file moved.
func relativizePath(path, dir string) []string {
	if path == "" {
		return nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return pathParts(path)
	}
	if dir != "" {
		absDir, err := filepath.Abs(dir)
		if err == nil {
			rel, err := filepath.Rel(absDir, abs)
			if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
				return pathParts(rel)
			}
		}
	}
	return pathParts(abs)
}

// encodePath renders path components as a YAML sequence, or null for a
// path-less entry. Components rather than a single string keep the
// persisted form separator-agnostic across operating systems.
func encodePath(parts []string) *yaml.Node {
	if len(parts) == 0 {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Style: yaml.FlowStyle}
	for _, part := range parts {
		seq.Content = append(seq.Content, strNode(part))
	}
	return seq
}

// encodeMeta renders the metadata mapping with sorted keys so that the
// serialized form, and therefore the content hash, is deterministic.
func encodeMeta(meta map[string]any) (*yaml.Node, error) {
	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range keys {
		var val yaml.Node
		if err := val.Encode(meta[k]); err != nil {
			return nil, fmt.Errorf("encoding meta key %q: %w", k, err)
		}
		node.Content = append(node.Content, strNode(k), &val)
	}
	return node, nil
}

func strNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}
