package routerhandlers

import "net/http"

// MiddlewareFunc wraps an http.Handler with additional behaviour.
// Router.Middleware has this shape too.
type MiddlewareFunc func(http.Handler) http.Handler

// Chain wraps h with mws. The first middleware is the outermost one, so
// requests pass through mws in the order given.
func Chain(h http.Handler, mws ...MiddlewareFunc) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
