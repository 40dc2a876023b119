package router

import (
	"fmt"
	"maps"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/vitalvas/swaggerrouter/params"
	"github.com/vitalvas/swaggerrouter/swagger"
)

// methods lists the operation keys of a path item in the order they are
// reported in Allow headers.
var methods = []string{"get", "put", "post", "delete", "options", "head", "patch"}

// route is a compiled path item.
type route struct {
	template   *swagger.Template
	item       map[string]any
	operations map[string]*operation
	allowed    []string
}

// operation is a compiled operation with everything resolved that does not
// depend on the request.
type operation struct {
	method    string
	raw       map[string]any
	params    []*params.Parameter
	body      bool
	security  map[string]map[string]any
	schemes   []string
	produces  []string
	consumes  []string
	responses map[string]any
}

// compile builds the routing table in document order.
func (rt *Router) compile() error {
	paths, _ := rt.doc.Raw()["paths"].(map[string]any)

	rt.routes = make([]*route, 0, len(rt.doc.Templates()))
	for _, tpl := range rt.doc.Templates() {
		pointer := swagger.PathPointer(tpl.String())

		var item map[string]any
		switch v := paths[tpl.String()].(type) {
		case nil:
		case map[string]any:
			item = v
		default:
			return swagger.NewSpecError(pointer, "path item must be a mapping")
		}

		r, err := rt.compileRoute(tpl, item, pointer)
		if err != nil {
			return err
		}
		rt.routes = append(rt.routes, r)
	}

	return nil
}

func (rt *Router) compileRoute(tpl *swagger.Template, item map[string]any, pointer string) (*route, error) {
	resolved, err := rt.doc.Resolve(item)
	if err != nil {
		return nil, specErrorAt(pointer, err)
	}

	item, ok := resolved.(map[string]any)
	if !ok && resolved != nil {
		return nil, swagger.NewSpecError(pointer, "path item must be a mapping")
	}
	if item == nil {
		item = map[string]any{}
	}

	pathParams, err := compileParams(item["parameters"], pointer+"/parameters")
	if err != nil {
		return nil, err
	}

	r := &route{
		template:   tpl,
		item:       item,
		operations: make(map[string]*operation),
	}

	for _, method := range methods {
		v, ok := item[method]
		if !ok {
			continue
		}

		opPointer := pointer + "/" + method
		raw, ok := v.(map[string]any)
		if !ok {
			return nil, swagger.NewSpecError(opPointer, "operation must be a mapping")
		}

		op, err := rt.compileOperation(method, raw, pathParams, opPointer)
		if err != nil {
			return nil, err
		}

		r.operations[method] = op
		r.allowed = append(r.allowed, strings.ToUpper(method))
	}
	sort.Strings(r.allowed)

	return r, nil
}

func (rt *Router) compileOperation(method string, raw map[string]any, pathParams []*params.Parameter, pointer string) (*operation, error) {
	opParams, err := compileParams(raw["parameters"], pointer+"/parameters")
	if err != nil {
		return nil, err
	}

	op := &operation{
		method: method,
		raw:    raw,
		params: params.Merge(pathParams, opParams),
	}

	bodies := 0
	for _, p := range op.params {
		switch p.In {
		case params.LocationBody:
			bodies++
			op.body = true
		case params.LocationFormData:
			op.body = true
		}
	}
	if bodies > 1 {
		return nil, swagger.NewSpecError(pointer+"/parameters", "operation declares %d body parameters", bodies)
	}

	if op.security, err = rt.compileSecurity(raw, pointer); err != nil {
		return nil, err
	}

	for key, dst := range map[string]*[]string{
		"schemes":  &op.schemes,
		"produces": &op.produces,
		"consumes": &op.consumes,
	} {
		if *dst, err = rt.inherited(raw, key, pointer); err != nil {
			return nil, err
		}
	}

	switch v := raw["responses"].(type) {
	case nil:
		op.responses = map[string]any{}
	case map[string]any:
		op.responses = v
	default:
		return nil, swagger.NewSpecError(pointer+"/responses", "responses must be a mapping")
	}

	return op, nil
}

// compileParams builds the parameters of a path item or operation.
func compileParams(v any, pointer string) ([]*params.Parameter, error) {
	if v == nil {
		return nil, nil
	}

	list, ok := v.([]any)
	if !ok {
		return nil, swagger.NewSpecError(pointer, "parameters must be a sequence")
	}

	out := make([]*params.Parameter, 0, len(list))
	for i, entry := range list {
		entryPointer := pointer + "/" + strconv.Itoa(i)

		raw, ok := entry.(map[string]any)
		if !ok {
			return nil, swagger.NewSpecError(entryPointer, "parameter must be a mapping")
		}

		p, err := params.New(raw)
		if err != nil {
			return nil, specErrorAt(entryPointer, err)
		}
		out = append(out, p)
	}

	return out, nil
}

// compileSecurity expands the security requirements of an operation, or of
// the document when the operation declares none, into their scheme
// definitions. Requested OAuth2 scopes are attached as "operationScopes".
func (rt *Router) compileSecurity(op map[string]any, pointer string) (map[string]map[string]any, error) {
	requirements, ok := op["security"]
	if ok && requirements != nil {
		pointer += "/security"
	} else {
		requirements, _ = rt.doc.Get("security")
		pointer = "/security"
	}

	if requirements == nil {
		return map[string]map[string]any{}, nil
	}

	list, ok := requirements.([]any)
	if !ok {
		return nil, swagger.NewSpecError(pointer, "security must be a sequence")
	}

	out := make(map[string]map[string]any)
	if len(list) == 0 {
		return out, nil
	}

	defsValue, ok := rt.doc.Get("securityDefinitions")
	if !ok || defsValue == nil {
		return nil, swagger.NewSpecError(pointer, "no security schemes defined")
	}
	defs, ok := defsValue.(map[string]any)
	if !ok {
		return nil, swagger.NewSpecError("/securityDefinitions", "security definitions must be a mapping")
	}

	for i, entry := range list {
		requirement, ok := entry.(map[string]any)
		if !ok {
			return nil, swagger.NewSpecError(fmt.Sprintf("%s/%d", pointer, i), "security requirement must be a mapping")
		}

		for _, scheme := range slices.Sorted(maps.Keys(requirement)) {
			def, ok := defs[scheme].(map[string]any)
			if !ok {
				return nil, swagger.NewSpecError(fmt.Sprintf("%s/%d", pointer, i), "security scheme %q is not defined", scheme)
			}

			expanded := maps.Clone(def)
			if scopes, _ := requirement[scheme].([]any); len(scopes) > 0 {
				expanded["operationScopes"] = slices.Clone(scopes)
			}
			out[scheme] = expanded
		}
	}

	return out, nil
}

// inherited returns a string list declared on the operation, or on the
// document when the operation does not declare it.
func (rt *Router) inherited(op map[string]any, key, pointer string) ([]string, error) {
	v, ok := op[key]
	if ok {
		pointer += "/" + key
	} else {
		v, _ = rt.doc.Get(key)
		pointer = "/" + key
	}

	if v == nil {
		return []string{}, nil
	}

	list, ok := v.([]any)
	if !ok {
		return nil, swagger.NewSpecError(pointer, "%s must be a sequence", key)
	}

	out := make([]string, 0, len(list))
	for _, entry := range list {
		s, ok := entry.(string)
		if !ok {
			return nil, swagger.NewSpecError(pointer, "%s must contain strings", key)
		}
		out = append(out, s)
	}

	return out, nil
}
