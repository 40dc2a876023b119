// Package routerhandlers provides HTTP middleware that surrounds the
// swagger router.
//
// A typical pipeline, outermost first:
//
//	h := routerhandlers.Chain(api,
//	    routerhandlers.RequestIDMiddleware(routerhandlers.RequestIDConfig{}),
//	    routerhandlers.LoggerMiddleware(routerhandlers.LoggerConfig{Logger: logger, AccessLog: true}),
//	    routerhandlers.RecoveryMiddleware(routerhandlers.RecoveryConfig{}),
//	    rt.Middleware,
//	    routerhandlers.ConsumesMiddleware(routerhandlers.ConsumesConfig{}),
//	)
//
// # Request ID Middleware
//
// RequestIDMiddleware generates a UUID per request, or reuses the incoming
// one when TrustIncoming is set, and stores it in the request context.
//
// # Logger Middleware
//
// LoggerMiddleware attaches a zerolog logger carrying the request ID to the
// request context. The router writes its debug events there.
//
// # Recovery Middleware
//
// RecoveryMiddleware turns panics into 500 responses and logs them.
//
// # Consumes Middleware
//
// ConsumesMiddleware runs inside the router and answers 415 when the request
// Content-Type is not listed in the consumes of the matched operation.
package routerhandlers
