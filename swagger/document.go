package swagger

import (
	"fmt"
	"os"
	"slices"
	"sort"

	"github.com/go-openapi/jsonpointer"
	"gopkg.in/yaml.v3"
)

// Document is a parsed Swagger 2.0 document.
//
// The document tree is made of map[string]any, []any and scalar values. It is
// read-only after construction: reference resolution always builds new
// structures, so a Document can be shared by concurrent requests without
// synchronization.
type Document struct {
	raw       map[string]any
	paths     []string
	templates []*Template
}

// Load reads and parses a Swagger document from a JSON or YAML file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return doc, nil
}

// Parse parses a Swagger document from JSON or YAML. The order in which path
// templates appear in the source is preserved and drives first-match routing.
func Parse(data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &SpecError{Message: "cannot parse document", Cause: err}
	}

	if root.Kind == 0 || len(root.Content) == 0 {
		return nil, &SpecError{Message: "document is empty"}
	}

	value, err := nodeValue(&root)
	if err != nil {
		return nil, &SpecError{Message: "cannot decode document", Cause: err}
	}

	raw, ok := value.(map[string]any)
	if !ok {
		return nil, &SpecError{Message: "document root must be a mapping"}
	}

	return NewDocument(raw, mappingKeys(root.Content[0], "paths")...)
}

// NewDocument wraps an already decoded document tree. pathOrder lists the
// path templates in document order; templates missing from pathOrder are
// appended in lexical order, since Go maps do not keep insertion order.
func NewDocument(raw map[string]any, pathOrder ...string) (*Document, error) {
	if raw == nil {
		raw = map[string]any{}
	}

	doc := &Document{raw: raw}

	paths := map[string]any{}
	if v, ok := raw["paths"]; ok && v != nil {
		if paths, ok = v.(map[string]any); !ok {
			return nil, NewSpecError("/paths", "paths must be a mapping")
		}
	}

	for _, tpl := range pathOrder {
		if _, ok := paths[tpl]; ok && !slices.Contains(doc.paths, tpl) {
			doc.paths = append(doc.paths, tpl)
		}
	}

	var rest []string
	for tpl := range paths {
		if !slices.Contains(doc.paths, tpl) {
			rest = append(rest, tpl)
		}
	}
	sort.Strings(rest)
	doc.paths = append(doc.paths, rest...)

	doc.templates = make([]*Template, 0, len(doc.paths))
	for _, tpl := range doc.paths {
		t, err := NewTemplate(tpl)
		if err != nil {
			return nil, &SpecError{Pointer: PathPointer(tpl), Message: "malformed path template", Cause: err}
		}
		doc.templates = append(doc.templates, t)
	}

	return doc, nil
}

// Raw returns the underlying document tree. Callers must not modify it.
func (d *Document) Raw() map[string]any {
	return d.raw
}

// Paths returns the path templates in document order.
func (d *Document) Paths() []string {
	return d.paths
}

// Templates returns the compiled path templates in document order.
func (d *Document) Templates() []*Template {
	return d.templates
}

// PathItem returns the unresolved path item for a template.
func (d *Document) PathItem(tpl string) (map[string]any, bool) {
	paths, _ := d.raw["paths"].(map[string]any)
	item, ok := paths[tpl].(map[string]any)
	return item, ok
}

// Get returns a top-level document value.
func (d *Document) Get(key string) (any, bool) {
	v, ok := d.raw[key]
	return v, ok
}

// PathPointer returns the JSON pointer of a path item.
func PathPointer(tpl string) string {
	return "/paths/" + jsonpointer.Escape(tpl)
}

// nodeValue converts a YAML node into plain Go values. Mapping keys are always
// kept as strings (e.g. response codes), and timestamps stay textual so that
// date parsing is left to parameter coercion.
func nodeValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return nodeValue(n.Content[0])

	case yaml.MappingNode:
		out := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, val := n.Content[i], n.Content[i+1]

			if key.ShortTag() == "!!merge" {
				merged, err := nodeValue(val)
				if err != nil {
					return nil, err
				}
				if m, ok := merged.(map[string]any); ok {
					for k, v := range m {
						if _, exists := out[k]; !exists {
							out[k] = v
						}
					}
				}
				continue
			}

			v, err := nodeValue(val)
			if err != nil {
				return nil, err
			}
			out[key.Value] = v
		}
		return out, nil

	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := nodeValue(item)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil

	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, fmt.Errorf("line %d: dangling alias", n.Line)
		}
		return nodeValue(n.Alias)

	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!str", "!!timestamp", "!!binary":
			return n.Value, nil
		}
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return v, nil
	}

	return nil, fmt.Errorf("line %d: unsupported node kind %d", n.Line, n.Kind)
}

// mappingKeys returns the keys of the mapping stored under key in the given
// mapping node, in source order.
func mappingKeys(n *yaml.Node, key string) []string {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	if n.Kind != yaml.MappingNode {
		return nil
	}

	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value != key {
			continue
		}

		val := n.Content[i+1]
		for val.Kind == yaml.AliasNode && val.Alias != nil {
			val = val.Alias
		}
		if val.Kind != yaml.MappingNode {
			return nil
		}

		keys := make([]string, 0, len(val.Content)/2)
		for j := 0; j+1 < len(val.Content); j += 2 {
			keys = append(keys, val.Content[j].Value)
		}
		return keys
	}

	return nil
}
