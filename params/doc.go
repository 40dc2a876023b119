// Package params turns Swagger 2.0 parameter definitions into typed request
// values.
//
// A Parameter is built once from a resolved definition and validated up
// front, so malformed definitions surface as *swagger.SpecError before any
// request is served:
//
//	p, err := params.New(map[string]any{
//	    "name": "id", "in": "path", "type": "integer", "required": true,
//	})
//
// Resolving a parameter runs three steps: the Extractor for its location
// reads the raw value, the declared default is used when the request has no
// value, and Coerce converts the result into the declared type:
//
//	res, err := params.Resolve(r, p, tpl)
//	if errors.Is(err, params.ErrClient) {
//	    http.Error(w, err.Error(), http.StatusBadRequest)
//	    return
//	}
//	id := res.Value.(int64)
//
// # Arrays
//
// Array values are encoded according to collectionFormat: csv, ssv, tsv and
// pipes pack every element into one string, multi repeats the query or form
// key once per element. Header arrays are taken from repeated headers.
//
// # Query strings
//
// ParseQuery accepts the "name[]" convention. The suffix is dropped and a
// single bracketed occurrence yields a scalar, not a one-element array.
package params
