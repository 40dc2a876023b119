package router

import (
	"net/http"

	"github.com/rs/zerolog"
)

// component tags every log event of the router.
const component = "swagger-router-middleware"

// requestLogger returns the logger of the request context, falling back to
// the logger configured with WithLogger.
func (rt *Router) requestLogger(r *http.Request) zerolog.Logger {
	l := zerolog.Ctx(r.Context())
	if l.GetLevel() == zerolog.Disabled {
		l = &rt.logger
	}

	return l.With().Str("component", component).Logger()
}
