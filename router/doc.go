// Package router routes HTTP requests by the path templates of a Swagger 2.0
// document and decorates them with the matched operation and its typed
// parameter values.
//
// A Router is compiled once from a loaded document. All references are
// resolved and all parameter definitions validated at that point:
//
//	doc, err := swagger.Load("swagger.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	rt, err := router.New(doc, router.WithDocsYAMLPath("/api-docs.yaml"))
//	if err != nil {
//	    log.Fatal(err) // malformed document, matches swagger.ErrSpec
//	}
//
//	http.ListenAndServe(":8080", rt.Middleware(api))
//
// Handlers read the decoration from the request:
//
//	func getUser(w http.ResponseWriter, r *http.Request) {
//	    id, _ := router.ParamValue(r, "id")
//	    user := users.Find(id.(int64))
//	    ...
//	}
//
// # Matching
//
// Path templates are tried in document order and the first match wins, so a
// literal template like "/users/me" must precede "/users/{id}". The request
// path must match the whole template; trailing slashes are significant.
//
// # Errors
//
// Middleware answers routing errors itself:
//
//	ErrNotFound              404, or the WithNotFoundHandler handler
//	ErrMethodNotAllowed      405 with an Allow header, or WithMethodNotAllowedHandler
//	params.ErrClient         400 with the error message, 413 for bodies over WithMaxBodySize
//	anything else            500
//
// WithErrorHandler replaces the last two.
//
// # Documentation
//
// GET requests for DefaultDocsPath ("/api-docs") are answered with the
// document encoded as JSON before any routing takes place.
//
// # Logging
//
// Debug events are written to the zerolog logger of the request context,
// or to the WithLogger logger when the context carries none, tagged with
// component=swagger-router-middleware.
package router
