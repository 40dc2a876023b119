package routerhandlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// DefaultRequestIDHeader carries the request ID when no header is configured.
const DefaultRequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// RequestIDFromContext returns the ID stored by RequestIDMiddleware, or an
// empty string.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// RequestIDConfig configures RequestIDMiddleware.
type RequestIDConfig struct {
	// HeaderName defaults to DefaultRequestIDHeader.
	HeaderName string

	// GenerateFunc defaults to GenerateUUIDv4.
	GenerateFunc func(r *http.Request) string

	// TrustIncoming keeps the ID sent by the client when ValidateFunc
	// accepts it.
	TrustIncoming bool

	// ValidateFunc filters trusted incoming IDs. Defaults to ValidUUID.
	ValidateFunc func(id string) bool
}

// RequestIDMiddleware returns a middleware that assigns every request an ID.
//
// The ID is written to the request header before routing, so an operation
// declaring that header as a parameter resolves it like any client value.
// It is also echoed on the response and stored in the request context.
func RequestIDMiddleware(cfg RequestIDConfig) MiddlewareFunc {
	if cfg.HeaderName == "" {
		cfg.HeaderName = DefaultRequestIDHeader
	}
	if cfg.GenerateFunc == nil {
		cfg.GenerateFunc = GenerateUUIDv4
	}
	if cfg.ValidateFunc == nil {
		cfg.ValidateFunc = ValidUUID
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := cfg.requestID(r)
			if id == "" {
				r.Header.Del(cfg.HeaderName)
				next.ServeHTTP(w, r)
				return
			}

			r.Header.Set(cfg.HeaderName, id)
			w.Header().Set(cfg.HeaderName, id)

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
		})
	}
}

func (cfg RequestIDConfig) requestID(r *http.Request) string {
	if cfg.TrustIncoming {
		if id := r.Header.Get(cfg.HeaderName); id != "" && cfg.ValidateFunc(id) {
			return id
		}
	}

	return cfg.GenerateFunc(r)
}

// ValidUUID reports whether id is a UUID in its canonical textual form.
func ValidUUID(id string) bool {
	u, err := uuid.Parse(id)
	return err == nil && u.String() == id
}

// GenerateUUIDv4 returns a random UUID.
//
// See: https://www.rfc-editor.org/rfc/rfc9562#section-5.4
func GenerateUUIDv4(_ *http.Request) string {
	return uuid.New().String()
}

// GenerateUUIDv7 returns a time-ordered UUID.
//
// See: https://www.rfc-editor.org/rfc/rfc9562#section-5.7
func GenerateUUIDv7(_ *http.Request) string {
	return uuid.Must(uuid.NewV7()).String()
}
