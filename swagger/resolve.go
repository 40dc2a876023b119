package swagger

import (
	"fmt"
	"slices"
	"strings"

	"github.com/go-openapi/jsonpointer"
)

// refKey is the JSON reference keyword.
const refKey = "$ref"

// Lookup returns the raw document value referenced by a local JSON pointer
// such as "#/definitions/Id". Only same-document references are supported.
func (d *Document) Lookup(ref string) (any, error) {
	if !strings.HasPrefix(ref, "#/") {
		return nil, &ReferenceError{Ref: ref, Message: `only local references starting with "#/" are supported`}
	}

	ptr, err := jsonpointer.New(ref[1:])
	if err != nil {
		return nil, &ReferenceError{Ref: ref, Message: "malformed pointer", Cause: err}
	}

	value, _, err := ptr.Get(d.raw)
	if err != nil {
		return nil, &ReferenceError{Ref: ref, Message: "target not found in document", Cause: err}
	}

	return value, nil
}

// Resolve returns a copy of node with every $ref replaced by the value it
// points to, recursively. Keys declared next to a $ref are kept; keys of the
// referenced mapping take precedence over them. When the referenced value is
// not a mapping it replaces the node as a whole.
//
// Resolving an already resolved tree returns an equal tree. The input is
// never modified.
func (d *Document) Resolve(node any) (any, error) {
	return d.resolve(node, nil)
}

func (d *Document) resolve(node any, chain []string) (any, error) {
	switch v := node.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, child := range v {
			if key == refKey {
				continue
			}
			resolved, err := d.resolve(child, chain)
			if err != nil {
				return nil, err
			}
			out[key] = resolved
		}

		rawRef, hasRef := v[refKey]
		if !hasRef {
			return out, nil
		}

		ref, ok := rawRef.(string)
		if !ok {
			return nil, &ReferenceError{Ref: fmt.Sprint(rawRef), Message: "$ref must be a string"}
		}

		if slices.Contains(chain, ref) {
			return nil, &ReferenceError{Ref: ref, IsCircular: true}
		}

		target, err := d.Lookup(ref)
		if err != nil {
			return nil, err
		}

		resolved, err := d.resolve(target, append(chain[:len(chain):len(chain)], ref))
		if err != nil {
			return nil, err
		}

		m, ok := resolved.(map[string]any)
		if !ok {
			return resolved, nil
		}
		for key, val := range m {
			out[key] = val
		}
		return out, nil

	case []any:
		out := make([]any, len(v))
		for i, child := range v {
			resolved, err := d.resolve(child, chain)
			if err != nil {
				return nil, err
			}
			out[i] = resolved
		}
		return out, nil

	default:
		return v, nil
	}
}
