package params

import (
	"encoding/json"
	"fmt"

	"github.com/go-openapi/spec"
	"github.com/vitalvas/swaggerrouter/swagger"
	"golang.org/x/net/http/httpguts"
)

// Location is the "in" field of a parameter.
type Location string

const (
	LocationQuery    Location = "query"
	LocationHeader   Location = "header"
	LocationPath     Location = "path"
	LocationFormData Location = "formData"
	LocationBody     Location = "body"
)

// ParseLocation validates an "in" value.
func ParseLocation(s string) (Location, error) {
	switch l := Location(s); l {
	case LocationQuery, LocationHeader, LocationPath, LocationFormData, LocationBody:
		return l, nil
	case "":
		return "", &swagger.SpecError{Pointer: "/in", Message: "parameter location is required"}
	default:
		return "", &swagger.SpecError{Pointer: "/in", Message: fmt.Sprintf("invalid parameter location %q", s)}
	}
}

// Key identifies a parameter within an operation.
type Key struct {
	Name string
	In   Location
}

// String returns the key as "in:name".
func (k Key) String() string {
	return string(k.In) + ":" + k.Name
}

// Parameter is a validated parameter definition.
type Parameter struct {
	// Name is the parameter name as declared.
	Name string
	// In is where the value is read from.
	In Location
	// Required mirrors the declared "required" flag. It is informational:
	// a missing required parameter is left to the handler.
	Required bool
	// Default is used when the request carries no value. Only meaningful
	// when HasDefault is true.
	Default    any
	HasDefault bool
	// Schema drives coercion. For body parameters it is the body schema,
	// for all others it is built from type, format, items and
	// collectionFormat.
	Schema *Schema
	// Spec is the decoded definition.
	Spec spec.Parameter
}

// New decodes and validates a resolved parameter definition. Spec errors
// carry a pointer relative to the parameter.
func New(raw map[string]any) (*Parameter, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, &swagger.SpecError{Message: "cannot encode parameter", Cause: err}
	}

	var def spec.Parameter
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, &swagger.SpecError{Message: "cannot decode parameter", Cause: err}
	}

	return FromSpec(def)
}

// FromSpec validates an already decoded parameter definition.
func FromSpec(def spec.Parameter) (*Parameter, error) {
	if def.Name == "" {
		return nil, &swagger.SpecError{Pointer: "/name", Message: "parameter name is required"}
	}

	in, err := ParseLocation(def.In)
	if err != nil {
		return nil, err
	}

	p := &Parameter{
		Name:     def.Name,
		In:       in,
		Required: def.Required,
		Spec:     def,
	}

	if in == LocationBody {
		if def.Schema == nil {
			return nil, swagger.NewSpecError("/schema", "body parameter %q requires a schema", def.Name)
		}
		p.Schema = schemaFromSpec(def.Schema)
		if err := p.Schema.validate("/schema"); err != nil {
			return nil, err
		}
		if p.Schema.Type == TypeFile {
			return nil, swagger.NewSpecError("/schema/type", "file type is only valid for formData parameters")
		}

		switch {
		case def.Default != nil:
			p.Default, p.HasDefault = def.Default, true
		case def.Schema.Default != nil:
			p.Default, p.HasDefault = def.Schema.Default, true
		}

		return p, nil
	}

	if def.Type == "" {
		return nil, swagger.NewSpecError("/type", "parameter %q requires a type", def.Name)
	}

	if in == LocationHeader && !httpguts.ValidHeaderFieldName(def.Name) {
		return nil, swagger.NewSpecError("/name", "invalid header name %q", def.Name)
	}

	if def.Type == TypeFile && in != LocationFormData {
		return nil, swagger.NewSpecError("/type", "file type is only valid for formData parameters")
	}

	format, err := ParseFormat(def.CollectionFormat)
	if err != nil {
		return nil, withPointer(err, "/collectionFormat")
	}
	if format == FormatMulti && in != LocationQuery && in != LocationFormData {
		return nil, swagger.NewSpecError("/collectionFormat", "collection format multi is only valid for query and formData parameters")
	}

	items, err := schemaFromItems(def.Items)
	if err != nil {
		return nil, withPointer(err, "/items/collectionFormat")
	}

	p.Schema = &Schema{
		Type:             def.Type,
		Format:           def.Format,
		CollectionFormat: format,
		Items:            items,
	}
	if err := p.Schema.validate(""); err != nil {
		return nil, err
	}

	if def.Default != nil {
		p.Default, p.HasDefault = def.Default, true
	}

	return p, nil
}

// Key returns the (name, in) pair that identifies the parameter.
func (p *Parameter) Key() Key {
	return Key{Name: p.Name, In: p.In}
}

// EffectiveType is the declared type, or the body schema type for body
// parameters.
func (p *Parameter) EffectiveType() string {
	if p.Schema == nil {
		return ""
	}
	return p.Schema.Type
}

// IsArray reports whether the parameter is array typed.
func (p *Parameter) IsArray() bool {
	return p.EffectiveType() == TypeArray
}

// CollectionFormat returns the collectionFormat of an array parameter.
func (p *Parameter) CollectionFormat() Format {
	if p.Schema == nil || p.Schema.CollectionFormat == "" {
		return DefaultFormat
	}
	return p.Schema.CollectionFormat
}

// Merge combines path-level and operation-level parameters. Operation
// parameters replace path parameters with the same key in place; the others
// are appended in declaration order.
func Merge(pathLevel, opLevel []*Parameter) []*Parameter {
	out := make([]*Parameter, 0, len(pathLevel)+len(opLevel))
	index := make(map[Key]int, len(pathLevel)+len(opLevel))

	for _, list := range [][]*Parameter{pathLevel, opLevel} {
		for _, p := range list {
			if i, ok := index[p.Key()]; ok {
				out[i] = p
				continue
			}
			index[p.Key()] = len(out)
			out = append(out, p)
		}
	}

	return out
}

// withPointer sets the pointer of a spec error that has none.
func withPointer(err error, pointer string) error {
	if se, ok := err.(*swagger.SpecError); ok && se.Pointer == "" {
		se.Pointer = pointer
	}
	return err
}
