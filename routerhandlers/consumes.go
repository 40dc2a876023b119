package routerhandlers

import (
	"mime"
	"net/http"
	"strings"

	"github.com/vitalvas/swaggerrouter/router"
)

// ConsumesConfig configures the Consumes middleware behaviour.
type ConsumesConfig struct {
	// Methods is the set of HTTP methods whose Content-Type is checked.
	// When nil, defaults to POST, PUT, PATCH.
	Methods []string
}

var defaultCheckedMethods = []string{
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
}

// ConsumesMiddleware returns a middleware that checks the Content-Type of a
// routed request against the consumes list of its operation and answers 415
// Unsupported Media Type on mismatch. Matching is case-insensitive and
// ignores media type parameters.
//
// It must run inside Router.Middleware. Requests without a decoration, with
// an empty consumes list or without a body are passed through.
func ConsumesMiddleware(cfg ConsumesConfig) MiddlewareFunc {
	methods := cfg.Methods
	if methods == nil {
		methods = defaultCheckedMethods
	}

	methodSet := make(map[string]struct{}, len(methods))
	for _, m := range methods {
		methodSet[m] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, check := methodSet[r.Method]; !check || !hasBody(r) {
				next.ServeHTTP(w, r)
				return
			}

			consumes := router.FromRequest(r).Consumes()
			if len(consumes) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
			if err != nil || !acceptsMediaType(consumes, mediaType) {
				http.Error(w, http.StatusText(http.StatusUnsupportedMediaType), http.StatusUnsupportedMediaType)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func hasBody(r *http.Request) bool {
	return r.ContentLength > 0 || len(r.TransferEncoding) > 0
}

func acceptsMediaType(consumes []string, mediaType string) bool {
	for _, c := range consumes {
		allowed, _, err := mime.ParseMediaType(c)
		if err != nil {
			allowed = strings.TrimSpace(c)
		}
		if strings.EqualFold(allowed, mediaType) {
			return true
		}
	}
	return false
}
