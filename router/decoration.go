package router

import (
	"context"
	"net/http"

	"github.com/vitalvas/swaggerrouter/params"
)

// decorationContextKey is an unexported type for the single context key.
type decorationContextKey struct{}

// ctxKey is the context key the Decoration is stored under.
var ctxKey = decorationContextKey{}

// Decoration describes the operation a request was routed to and its
// resolved parameter values. It is immutable: the returned maps and slices
// are shared and must not be modified.
//
// All getters are safe to call on a nil Decoration.
type Decoration struct {
	apiPath   string
	path      map[string]any
	operation map[string]any
	params    map[string]*params.Resolved
	ordered   []*params.Resolved
	security  map[string]map[string]any
	schemes   []string
	produces  []string
	consumes  []string
	responses map[string]any
}

// APIPath returns the matched path template, e.g. "/users/{id}".
func (d *Decoration) APIPath() string {
	if d == nil {
		return ""
	}
	return d.apiPath
}

// Path returns the resolved path item.
func (d *Decoration) Path() map[string]any {
	if d == nil {
		return nil
	}
	return d.path
}

// Operation returns the resolved operation.
func (d *Decoration) Operation() map[string]any {
	if d == nil {
		return nil
	}
	return d.operation
}

// OperationID returns the operationId of the matched operation, if any.
func (d *Decoration) OperationID() string {
	id, _ := d.Operation()["operationId"].(string)
	return id
}

// Params returns the resolved parameters keyed by name. When two parameters
// share a name in different locations, the one declared last wins; use
// ParamList to see both.
func (d *Decoration) Params() map[string]*params.Resolved {
	if d == nil {
		return nil
	}
	return d.params
}

// ParamList returns the resolved parameters in declaration order, path item
// parameters first.
func (d *Decoration) ParamList() []*params.Resolved {
	if d == nil {
		return nil
	}
	return d.ordered
}

// Param returns the value of a parameter. The boolean is false when the
// operation declares no such parameter.
func (d *Decoration) Param(name string) (any, bool) {
	res, ok := d.Params()[name]
	if !ok {
		return nil, false
	}
	return res.Value, true
}

// Security returns the security schemes that apply to the operation keyed
// by scheme name.
func (d *Decoration) Security() map[string]map[string]any {
	if d == nil {
		return nil
	}
	return d.security
}

// Schemes returns the transfer protocols of the operation.
func (d *Decoration) Schemes() []string {
	if d == nil {
		return nil
	}
	return d.schemes
}

// Produces returns the MIME types the operation can produce.
func (d *Decoration) Produces() []string {
	if d == nil {
		return nil
	}
	return d.produces
}

// Consumes returns the MIME types the operation can consume.
func (d *Decoration) Consumes() []string {
	if d == nil {
		return nil
	}
	return d.consumes
}

// Responses returns the declared responses of the operation.
func (d *Decoration) Responses() map[string]any {
	if d == nil {
		return nil
	}
	return d.responses
}

// WithDecoration returns a shallow copy of r carrying d.
func WithDecoration(r *http.Request, d *Decoration) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), ctxKey, d))
}

// FromContext returns the Decoration stored in ctx, or nil.
func FromContext(ctx context.Context) *Decoration {
	if d, ok := ctx.Value(ctxKey).(*Decoration); ok {
		return d
	}
	return nil
}

// FromRequest returns the Decoration of a routed request, or nil.
func FromRequest(r *http.Request) *Decoration {
	return FromContext(r.Context())
}

// ParamValue returns the resolved value of a parameter of a routed request.
func ParamValue(r *http.Request, name string) (any, bool) {
	return FromRequest(r).Param(name)
}
