package routerhandlers

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// LoggerConfig configures the Logger middleware behaviour.
type LoggerConfig struct {
	// Logger is attached to every request context. Events carry the request
	// ID when RequestIDMiddleware runs first.
	Logger zerolog.Logger

	// AccessLog writes one info event per completed request.
	AccessLog bool
}

// LoggerMiddleware returns a middleware that attaches a request-scoped
// zerolog logger to the request context, where zerolog.Ctx and the router
// pick it up.
func LoggerMiddleware(cfg LoggerConfig) MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lctx := cfg.Logger.With()
			if id := RequestIDFromContext(r.Context()); id != "" {
				lctx = lctx.Str("request_id", id)
			}
			l := lctx.Logger()

			r = r.WithContext(l.WithContext(r.Context()))

			if !cfg.AccessLog {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			l.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", sw.status).
				Int64("bytes", sw.written).
				Dur("duration", time.Since(start)).
				Msg("request completed")
		})
	}
}

// statusWriter records the status code and body size of a response.
type statusWriter struct {
	http.ResponseWriter
	status      int
	written     int64
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	n, err := w.ResponseWriter.Write(b)
	w.written += int64(n)
	return n, err
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
