package params

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"github.com/vitalvas/swaggerrouter/swagger"
)

// DefaultMaxMemory is the number of bytes of a multipart body kept in memory
// while parsing; the rest is stored in temporary files.
const DefaultMaxMemory = 32 << 20

// Extractor reads the raw value of a parameter from a request. It reports
// false when the request carries no value. Errors are either spec errors or
// client errors matching ErrClient.
type Extractor interface {
	Extract(r *http.Request, p *Parameter, tpl *swagger.Template) (any, bool, error)
}

// ExtractorFor returns the default extractor for a location, or nil for an
// unknown location.
func ExtractorFor(in Location) Extractor {
	switch in {
	case LocationQuery:
		return QueryExtractor{}
	case LocationHeader:
		return HeaderExtractor{}
	case LocationPath:
		return PathExtractor{}
	case LocationFormData:
		return FormDataExtractor{MaxMemory: DefaultMaxMemory}
	case LocationBody:
		return BodyExtractor{}
	default:
		return nil
	}
}

// QueryExtractor reads parameters from the URL query string.
type QueryExtractor struct{}

// Extract implements Extractor.
func (QueryExtractor) Extract(r *http.Request, p *Parameter, _ *swagger.Template) (any, bool, error) {
	v, ok := ParseQuery(r.URL.RawQuery)[p.Name]
	if !ok {
		return nil, false, nil
	}

	return shapeValues(v, p)
}

// HeaderExtractor reads parameters from request headers. Array parameters
// receive every header value without splitting.
type HeaderExtractor struct{}

// Extract implements Extractor.
func (HeaderExtractor) Extract(r *http.Request, p *Parameter, _ *swagger.Template) (any, bool, error) {
	values := r.Header.Values(p.Name)
	if len(values) == 0 {
		return nil, false, nil
	}

	if !p.IsArray() {
		return values[0], true, nil
	}

	return append([]string(nil), values...), true, nil
}

// PathExtractor reads parameters captured by the matched path template. The
// template runs against the escaped path, so an encoded "/" stays inside its
// segment; captured values are unescaped afterwards.
type PathExtractor struct{}

// Extract implements Extractor.
func (PathExtractor) Extract(r *http.Request, p *Parameter, tpl *swagger.Template) (any, bool, error) {
	if tpl == nil {
		return nil, false, nil
	}

	v, ok := tpl.Capture(r.URL.EscapedPath(), p.Name)
	if !ok {
		return nil, false, nil
	}

	if !p.IsArray() {
		return pathUnescape(v), true, nil
	}

	parts, err := Split(v, p.CollectionFormat())
	if err != nil {
		return nil, false, err
	}
	for i, part := range parts {
		parts[i] = pathUnescape(part)
	}

	return parts, true, nil
}

// pathUnescape decodes a path segment, keeping malformed escapes verbatim.
func pathUnescape(s string) string {
	if u, err := url.PathUnescape(s); err == nil {
		return u
	}
	return s
}

// FormDataExtractor reads parameters from url-encoded and multipart form
// bodies. File parameters yield *multipart.FileHeader values.
type FormDataExtractor struct {
	// MaxMemory bounds the in-memory part of a multipart body.
	// Zero means DefaultMaxMemory.
	MaxMemory int64
}

// Extract implements Extractor.
func (e FormDataExtractor) Extract(r *http.Request, p *Parameter, _ *swagger.Template) (any, bool, error) {
	if err := e.parse(r); err != nil {
		return nil, false, err
	}

	if p.EffectiveType() == TypeFile {
		if r.MultipartForm == nil {
			return nil, false, nil
		}
		files := r.MultipartForm.File[p.Name]
		if len(files) == 0 {
			files = r.MultipartForm.File[p.Name+"[]"]
		}
		switch len(files) {
		case 0:
			return nil, false, nil
		case 1:
			return files[0], true, nil
		default:
			return append([]*multipart.FileHeader(nil), files...), true, nil
		}
	}

	values := slices.Concat(r.PostForm[p.Name], r.PostForm[p.Name+"[]"])

	switch len(values) {
	case 0:
		return nil, false, nil
	case 1:
		return shapeValues(values[0], p)
	default:
		return shapeValues(values, p)
	}
}

func (e FormDataExtractor) parse(r *http.Request) error {
	maxMemory := e.MaxMemory
	if maxMemory <= 0 {
		maxMemory = DefaultMaxMemory
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	var err error
	if mediaType == "multipart/form-data" {
		err = r.ParseMultipartForm(maxMemory)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		return &FormError{Cause: err}
	}

	return nil
}

// BodyExtractor reads the request body. JSON bodies are decoded; other
// bodies are returned as text. The body is restored after reading.
type BodyExtractor struct{}

// Extract implements Extractor.
func (BodyExtractor) Extract(r *http.Request, p *Parameter, _ *swagger.Template) (any, bool, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, false, nil
	}

	data, err := io.ReadAll(r.Body)
	_ = r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(data))
	if err != nil {
		return nil, false, &FormError{Cause: err}
	}

	if len(data) == 0 {
		return nil, false, nil
	}

	if !strings.Contains(strings.ToLower(r.Header.Get("Content-Type")), "application/json") {
		return string(data), true, nil
	}

	v, err := decodeJSON(data)
	if err != nil {
		zerolog.Ctx(r.Context()).Debug().
			Str("param", p.Name).
			Err(err).
			Msg("request body is not valid JSON, treating as absent")
		return nil, false, nil
	}

	return v, true, nil
}

// shapeValues turns a query or form value into the raw value of p: the first
// value for scalars, the values as-is for multi arrays, and the split values
// for delimited arrays.
func shapeValues(v any, p *Parameter) (any, bool, error) {
	var values []string
	switch t := v.(type) {
	case string:
		values = []string{t}
	case []string:
		values = t
	default:
		return nil, false, nil
	}

	if !p.IsArray() {
		return values[0], true, nil
	}

	format := p.CollectionFormat()
	if format == FormatMulti {
		return values, true, nil
	}

	var out []string
	for _, s := range values {
		parts, err := Split(s, format)
		if err != nil {
			return nil, false, err
		}
		out = append(out, parts...)
	}

	return out, true, nil
}
