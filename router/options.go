package router

import (
	"net/http"

	"github.com/rs/zerolog"
)

// DefaultDocsPath serves the loaded document as JSON.
const DefaultDocsPath = "/api-docs"

// ErrorHandlerFunc writes the response for a request that failed routing
// with an error other than ErrNotFound or ErrMethodNotAllowed.
type ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)

// Option configures a Router.
type Option func(*Router)

// WithDocsPath sets the path answering GET requests with the document as
// JSON. An empty path disables the endpoint. Defaults to DefaultDocsPath.
func WithDocsPath(path string) Option {
	return func(rt *Router) {
		rt.docsPath = path
	}
}

// WithDocsYAMLPath sets the path answering GET requests with the document
// as YAML. Disabled by default.
func WithDocsYAMLPath(path string) Option {
	return func(rt *Router) {
		rt.docsYAMLPath = path
	}
}

// WithMaxMemory bounds the in-memory part of multipart form bodies.
func WithMaxMemory(n int64) Option {
	return func(rt *Router) {
		rt.maxMemory = n
	}
}

// WithMaxBodySize caps the bodies the router reads for operations that
// declare body or formData parameters. Larger bodies fail routing with an
// *http.MaxBytesError and Middleware answers 413. Bodies of other operations
// are left untouched. Zero, the default, disables the cap.
func WithMaxBodySize(n int64) Option {
	return func(rt *Router) {
		rt.maxBodySize = n
	}
}

// WithLogger sets the logger used when the request context carries none.
func WithLogger(l zerolog.Logger) Option {
	return func(rt *Router) {
		rt.logger = l
	}
}

// WithNotFoundHandler sets the handler called by Middleware when no path
// template matches. Defaults to a plain 404 response.
func WithNotFoundHandler(h http.Handler) Option {
	return func(rt *Router) {
		rt.notFoundHandler = h
	}
}

// WithMethodNotAllowedHandler sets the handler called by Middleware when the
// path matches but the method does not. The Allow header is set before the
// handler runs. Defaults to a plain 405 response.
func WithMethodNotAllowedHandler(h http.Handler) Option {
	return func(rt *Router) {
		rt.methodNotAllowedHandler = h
	}
}

// WithErrorHandler sets the function called by Middleware for every other
// routing error. The default answers 400 for errors matching
// params.ErrClient and 500 otherwise.
func WithErrorHandler(fn ErrorHandlerFunc) Option {
	return func(rt *Router) {
		rt.errorHandler = fn
	}
}
