package routerhandlers

import (
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog"
)

// RecoveryConfig configures the Recovery middleware behaviour.
type RecoveryConfig struct {
	// LogFunc is invoked with the request and the recovered value when a
	// panic occurs. When nil, the panic is logged at error level to the
	// logger of the request context.
	LogFunc func(r *http.Request, err any)
}

// RecoveryMiddleware returns a middleware that recovers from panics in
// downstream handlers and answers 500 Internal Server Error.
func RecoveryMiddleware(cfg RecoveryConfig) MiddlewareFunc {
	logFunc := cfg.LogFunc
	if logFunc == nil {
		logFunc = logPanic
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}

					logFunc(r, err)

					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

func logPanic(r *http.Request, err any) {
	zerolog.Ctx(r.Context()).Error().
		Interface("panic", err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Bytes("stack", debug.Stack()).
		Msg("recovered from panic")
}
