package params

import (
	"errors"
	"net/http"

	"github.com/vitalvas/swaggerrouter/swagger"
)

// Resolved is a parameter together with its request value.
type Resolved struct {
	Parameter *Parameter
	// Value is the coerced value, nil when the request carried no value
	// and the parameter has no default.
	Value any
	// Present reports whether the value came from the request.
	Present bool
	// Defaulted reports whether the value came from the declared default.
	Defaulted bool
}

// Resolver runs extraction, default fallback and coercion for parameters.
// The zero value uses the default extractors.
type Resolver struct {
	extractors map[Location]Extractor
}

// NewResolver returns a Resolver whose form extractor keeps up to maxMemory
// bytes of multipart bodies in memory. Zero means DefaultMaxMemory.
func NewResolver(maxMemory int64) *Resolver {
	if maxMemory <= 0 {
		maxMemory = DefaultMaxMemory
	}

	return &Resolver{
		extractors: map[Location]Extractor{
			LocationQuery:    QueryExtractor{},
			LocationHeader:   HeaderExtractor{},
			LocationPath:     PathExtractor{},
			LocationFormData: FormDataExtractor{MaxMemory: maxMemory},
			LocationBody:     BodyExtractor{},
		},
	}
}

var defaultResolver = NewResolver(DefaultMaxMemory)

// Resolve resolves p against r using the default extractors.
func Resolve(r *http.Request, p *Parameter, tpl *swagger.Template) (*Resolved, error) {
	return defaultResolver.Resolve(r, p, tpl)
}

// Resolve extracts the value of p from r, falls back to the declared default
// when the request carries none, and coerces the result. tpl is the matched
// path template, used by path parameters.
func (rs *Resolver) Resolve(r *http.Request, p *Parameter, tpl *swagger.Template) (*Resolved, error) {
	ex := rs.extractor(p.In)
	if ex == nil {
		return nil, &swagger.SpecError{Message: "invalid parameter location " + string(p.In)}
	}

	res := &Resolved{Parameter: p}

	raw, ok, err := ex.Extract(r, p, tpl)
	if err != nil {
		return nil, err
	}

	switch {
	case ok:
		res.Present = true
	case p.HasDefault:
		raw = p.Default
		res.Defaulted = true
	default:
		return res, nil
	}

	value, err := Coerce(raw, p.Schema)
	if err != nil {
		var ce *CoercionError
		if errors.As(err, &ce) && ce.Param == "" {
			ce.Param = p.Name
		}
		return nil, err
	}

	res.Value = value

	return res, nil
}

func (rs *Resolver) extractor(in Location) Extractor {
	if rs == nil || rs.extractors == nil {
		return ExtractorFor(in)
	}
	return rs.extractors[in]
}
