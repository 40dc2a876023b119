package params

import (
	"fmt"

	"github.com/go-openapi/jsonpointer"
	"github.com/go-openapi/spec"
	"github.com/vitalvas/swaggerrouter/swagger"
)

// Swagger 2.0 primitive types.
const (
	TypeString  = "string"
	TypeInteger = "integer"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeArray   = "array"
	TypeObject  = "object"
	TypeFile    = "file"
)

// Schema is the subset of a Swagger schema that drives value coercion.
type Schema struct {
	// Type is the declared type. An empty type disables coercion.
	Type string
	// Format refines Type, e.g. "date" or "date-time" for strings.
	Format string
	// CollectionFormat splits a string value when Type is array.
	CollectionFormat Format
	// Items describes array elements.
	Items *Schema
	// Properties describes object fields. Nil means no properties are
	// declared and objects are returned without per-field coercion.
	Properties map[string]*Schema
}

// schemaFromSpec converts a body schema. A schema without a type is treated
// as an object when it declares properties and as an array when it declares
// items.
func schemaFromSpec(s *spec.Schema) *Schema {
	if s == nil {
		return nil
	}

	out := &Schema{Format: s.Format}
	for _, t := range s.Type {
		if t != "null" {
			out.Type = t
			break
		}
	}

	if s.Items != nil {
		switch {
		case s.Items.Schema != nil:
			out.Items = schemaFromSpec(s.Items.Schema)
		case len(s.Items.Schemas) > 0:
			out.Items = schemaFromSpec(&s.Items.Schemas[0])
		}
	}

	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = schemaFromSpec(&prop)
		}
	}

	if out.Type == "" {
		switch {
		case out.Properties != nil:
			out.Type = TypeObject
		case out.Items != nil:
			out.Type = TypeArray
		}
	}

	return out
}

// schemaFromItems converts the items of a non-body array parameter.
func schemaFromItems(it *spec.Items) (*Schema, error) {
	if it == nil {
		return nil, nil
	}

	format, err := ParseFormat(it.CollectionFormat)
	if err != nil {
		return nil, err
	}

	items, err := schemaFromItems(it.Items)
	if err != nil {
		return nil, err
	}

	return &Schema{
		Type:             it.Type,
		Format:           it.Format,
		CollectionFormat: format,
		Items:            items,
	}, nil
}

// validate checks the schema tree for unknown types and arrays without items.
func (s *Schema) validate(pointer string) error {
	if s == nil {
		return nil
	}

	switch s.Type {
	case "", TypeString, TypeInteger, TypeNumber, TypeBoolean, TypeObject, TypeFile:
	case TypeArray:
		if s.Items == nil {
			return swagger.NewSpecError(pointer, "array items not defined")
		}
		if err := s.Items.validate(pointer + "/items"); err != nil {
			return err
		}
	default:
		return swagger.NewSpecError(pointer, "invalid parameter type %q", s.Type)
	}

	for name, prop := range s.Properties {
		if err := prop.validate(fmt.Sprintf("%s/properties/%s", pointer, jsonpointer.Escape(name))); err != nil {
			return err
		}
	}

	return nil
}
