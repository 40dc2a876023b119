package router

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/vitalvas/swaggerrouter/params"
	"github.com/vitalvas/swaggerrouter/swagger"
)

// Router matches requests against the path templates of a Swagger document
// and decorates them with the resolved operation.
//
// The routing table is compiled once by New; a Router is safe for concurrent
// use.
type Router struct {
	doc      *swagger.Document
	routes   []*route
	resolver *params.Resolver

	docsPath     string
	docsYAMLPath string
	maxMemory    int64
	maxBodySize  int64
	logger       zerolog.Logger

	notFoundHandler         http.Handler
	methodNotAllowedHandler http.Handler
	errorHandler            ErrorHandlerFunc

	docsJSON docsCache
	docsYAML docsCache
}

type docsCache struct {
	once sync.Once
	data []byte
	err  error
}

// RouteInfo describes a compiled path template.
type RouteInfo struct {
	Template string
	// Methods lists the supported methods in upper case, sorted.
	Methods []string
}

// New compiles the routing table of doc. Every reference is resolved and
// every parameter and security requirement validated up front, so a
// malformed document fails here with an error matching swagger.ErrSpec
// instead of failing requests later.
func New(doc *swagger.Document, opts ...Option) (*Router, error) {
	if doc == nil {
		return nil, &swagger.SpecError{Message: "document is nil"}
	}

	rt := &Router{
		doc:       doc,
		docsPath:  DefaultDocsPath,
		maxMemory: params.DefaultMaxMemory,
		logger:    zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(rt)
	}

	rt.resolver = params.NewResolver(rt.maxMemory)

	if err := rt.compile(); err != nil {
		return nil, err
	}

	return rt, nil
}

// Document returns the routed document.
func (rt *Router) Document() *swagger.Document {
	return rt.doc
}

// Routes returns the compiled path templates in matching order.
func (rt *Router) Routes() []RouteInfo {
	out := make([]RouteInfo, 0, len(rt.routes))
	for _, r := range rt.routes {
		out = append(out, RouteInfo{Template: r.template.String(), Methods: r.allowed})
	}
	return out
}

// Route matches r and returns a copy of it carrying a Decoration.
//
// Path templates are tried in document order and the first match wins. Route
// fails with ErrNotFound when no template matches and with a
// *MethodNotAllowedError when the matched template has no operation for the
// request method. Malformed parameter values yield errors matching
// params.ErrClient.
//
// The request body is buffered while parameters are resolved and is readable
// again on the returned request.
func (rt *Router) Route(r *http.Request) (*http.Request, error) {
	log := rt.requestLogger(r)
	log.Debug().Msg("start")

	var matched *route
	for _, candidate := range rt.routes {
		if candidate.template.Match(r.URL.EscapedPath()) {
			matched = candidate
			break
		}
	}

	if matched == nil {
		log.Debug().Str("path", r.URL.Path).Msg("no match found")
		return nil, ErrNotFound
	}

	op, ok := matched.operations[strings.ToLower(r.Method)]
	if !ok {
		log.Debug().
			Str("api_path", matched.template.String()).
			Str("method", r.Method).
			Msg("no method found for path")
		return nil, &MethodNotAllowedError{
			Template: matched.template.String(),
			Method:   r.Method,
			Allowed:  matched.allowed,
		}
	}

	log.Debug().Str("api_path", matched.template.String()).Str("method", op.method).Msg("request matched")

	// Body and form state is only ever changed on this copy.
	req := r.WithContext(r.Context())

	var body []byte
	if op.body && req.Body != nil && req.Body != http.NoBody {
		data, err := rt.readBody(req)
		if err != nil {
			log.Debug().Err(err).Int64("max_body_size", rt.maxBodySize).Msg("cannot read request body")
			return nil, &params.FormError{Cause: err}
		}
		body = data
		req.Body = io.NopCloser(bytes.NewReader(body))
	}

	dec := &Decoration{
		apiPath:   matched.template.String(),
		path:      matched.item,
		operation: op.raw,
		params:    make(map[string]*params.Resolved, len(op.params)),
		ordered:   make([]*params.Resolved, 0, len(op.params)),
		security:  op.security,
		schemes:   op.schemes,
		produces:  op.produces,
		consumes:  op.consumes,
		responses: op.responses,
	}

	for _, p := range op.params {
		res, err := rt.resolver.Resolve(req, p, matched.template)
		if err != nil {
			log.Debug().Err(err).Str("param", p.Name).Str("in", string(p.In)).Msg("cannot resolve parameter")
			return nil, err
		}
		dec.params[p.Name] = res
		dec.ordered = append(dec.ordered, res)
	}

	if body != nil {
		req.Body = io.NopCloser(bytes.NewReader(body))
	}

	log.Debug().Msg("finished")

	return WithDecoration(req, dec), nil
}

// readBody drains and closes the body of req, honouring WithMaxBodySize. A
// declared Content-Length over the cap fails without reading.
func (rt *Router) readBody(req *http.Request) ([]byte, error) {
	defer func() {
		_ = req.Body.Close()
	}()

	if rt.maxBodySize <= 0 {
		return io.ReadAll(req.Body)
	}

	if req.ContentLength > rt.maxBodySize {
		return nil, &http.MaxBytesError{Limit: rt.maxBodySize}
	}

	return io.ReadAll(http.MaxBytesReader(nil, req.Body, rt.maxBodySize))
}

// Middleware returns a handler that serves the documentation endpoints,
// routes every other request and passes the decorated request to next.
// Routing errors are answered directly and next is not called.
func (rt *Router) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rt.isDocsRoute(r) {
			log := rt.requestLogger(r)
			log.Debug().Msg("documentation route, early response")
			rt.ServeDocs(w, r)
			return
		}

		decorated, err := rt.Route(r)
		if err != nil {
			rt.handleError(w, r, err)
			return
		}

		if decorated.MultipartForm != nil && r.MultipartForm == nil {
			defer func() {
				_ = decorated.MultipartForm.RemoveAll()
			}()
		}

		next.ServeHTTP(w, decorated)
	})
}

func (rt *Router) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		mna *MethodNotAllowedError
		mbe *http.MaxBytesError
	)

	switch {
	case errors.Is(err, ErrNotFound):
		if rt.notFoundHandler != nil {
			rt.notFoundHandler.ServeHTTP(w, r)
			return
		}
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)

	case errors.As(err, &mna):
		// RFC 9110 Section 15.5.6: a 405 response MUST carry an Allow header.
		w.Header().Set("Allow", strings.Join(mna.Allowed, ", "))
		if rt.methodNotAllowedHandler != nil {
			rt.methodNotAllowedHandler.ServeHTTP(w, r)
			return
		}
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)

	case rt.errorHandler != nil:
		rt.errorHandler(w, r, err)

	case errors.As(err, &mbe):
		http.Error(w, http.StatusText(http.StatusRequestEntityTooLarge), http.StatusRequestEntityTooLarge)

	case errors.Is(err, params.ErrClient):
		http.Error(w, err.Error(), http.StatusBadRequest)

	default:
		log := rt.requestLogger(r)
		log.Error().Err(err).Msg("routing failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
