package params

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"github.com/vitalvas/swaggerrouter/swagger"
)

var errTrailingData = errors.New("invalid character after top-level value")

// dateLayout is the RFC 3339 full-date production used by format "date".
const dateLayout = "2006-01-02"

// dateTimeLayouts are the ISO 8601 timestamp layouts accepted by format
// "date-time", tried in order. Timestamps without an offset are read as UTC.
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999",
}

// Coerce converts a raw request value into the type declared by schema.
//
// Raw values are strings, string slices, decoded JSON values or file uploads.
// JSON numbers arrive as json.Number so integers keep their full precision;
// undeclared object properties are passed through in that form.
// The result types are:
//
//	integer           int64
//	number            float64
//	boolean           bool
//	string            string
//	string/date       time.Time (midnight UTC)
//	string/date-time  time.Time
//	array             []any
//	object            map[string]any
//	file              *multipart.FileHeader or []*multipart.FileHeader
//
// A nil schema, an untyped schema and a nil value are returned unchanged.
// Malformed values yield a *CoercionError; schema defects yield a
// *swagger.SpecError.
func Coerce(raw any, schema *Schema) (any, error) {
	if schema == nil || schema.Type == "" || raw == nil {
		return raw, nil
	}

	switch schema.Type {
	case TypeArray:
		return coerceArray(raw, schema)
	case TypeBoolean:
		return coerceBoolean(raw), nil
	case TypeInteger:
		return coerceInteger(raw, schema)
	case TypeNumber:
		return coerceNumber(raw, schema)
	case TypeObject:
		return coerceObject(raw, schema)
	case TypeString:
		return coerceString(raw, schema)
	case TypeFile:
		return coerceFile(raw, schema)
	default:
		return nil, &swagger.SpecError{Message: fmt.Sprintf("invalid parameter type %q", schema.Type)}
	}
}

func coerceArray(raw any, schema *Schema) (any, error) {
	if schema.Items == nil {
		return nil, &swagger.SpecError{Message: "array items not defined"}
	}

	var elems []any
	switch v := raw.(type) {
	case []any:
		elems = v
	case []string:
		elems = make([]any, len(v))
		for i, s := range v {
			elems[i] = s
		}
	case []*multipart.FileHeader:
		elems = make([]any, len(v))
		for i, fh := range v {
			elems[i] = fh
		}
	case string:
		if schema.CollectionFormat == FormatMulti {
			elems = []any{v}
			break
		}
		parts, err := Split(v, schema.CollectionFormat)
		if err != nil {
			return nil, err
		}
		elems = make([]any, len(parts))
		for i, s := range parts {
			elems[i] = s
		}
	default:
		elems = []any{v}
	}

	out := make([]any, len(elems))
	for i, elem := range elems {
		v, err := Coerce(elem, schema.Items)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}

	return out, nil
}

// coerceBoolean is deliberately loose: only "false" and the empty string are
// false, every other string is true.
func coerceBoolean(raw any) bool {
	switch v := raw.(type) {
	case bool:
		return v
	case string:
		return v != "" && v != "false"
	case float64:
		return v != 0
	case json.Number:
		f, err := v.Float64()
		return err != nil || f != 0
	case int:
		return v != 0
	case int64:
		return v != 0
	default:
		s := stringify(raw)
		return s != "" && s != "false"
	}
}

func coerceInteger(raw any, schema *Schema) (any, error) {
	switch v := raw.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case float64:
		if v == math.Trunc(v) && v >= math.MinInt64 && v < math.MaxInt64 {
			return int64(v), nil
		}
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i, nil
		}
		if f, err := v.Float64(); err == nil && f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
			return int64(f), nil
		}
	case string:
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i, nil
		}
	}

	return nil, &CoercionError{Type: schema.Type, Format: schema.Format, Value: raw, Cause: ErrNotNumeric}
}

func coerceNumber(raw any, schema *Schema) (any, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f, nil
		}
	case string:
		// ParseFloat also accepts hexadecimal mantissas, infinities and NaN;
		// only finite base-10 values are numbers here.
		if !strings.ContainsAny(v, "xX") {
			if f, err := strconv.ParseFloat(v, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
				return f, nil
			}
		}
	}

	return nil, &CoercionError{Type: schema.Type, Format: schema.Format, Value: raw, Cause: ErrNotNumeric}
}

func coerceObject(raw any, schema *Schema) (any, error) {
	var obj map[string]any

	switch v := raw.(type) {
	case map[string]any:
		obj = v
	case string:
		decoded, err := decodeJSON([]byte(v))
		if err != nil {
			return nil, &CoercionError{Type: schema.Type, Value: raw, Cause: fmt.Errorf("%w: %w", ErrBadJSON, err)}
		}
		m, ok := decoded.(map[string]any)
		if !ok {
			return nil, &CoercionError{Type: schema.Type, Value: raw, Cause: ErrBadJSON}
		}
		obj = m
	default:
		return nil, &CoercionError{Type: schema.Type, Value: raw, Cause: ErrBadJSON}
	}

	if schema.Properties == nil {
		return obj, nil
	}

	out := make(map[string]any, len(obj))
	for key, val := range obj {
		prop, ok := schema.Properties[key]
		if !ok {
			out[key] = val
			continue
		}
		coerced, err := Coerce(val, prop)
		if err != nil {
			return nil, err
		}
		out[key] = coerced
	}

	return out, nil
}

func coerceString(raw any, schema *Schema) (any, error) {
	s := stringify(raw)

	switch schema.Format {
	case "date":
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			return nil, &CoercionError{Type: schema.Type, Format: schema.Format, Value: raw, Cause: fmt.Errorf("%w: %w", ErrInvalidDate, err)}
		}
		return t, nil

	case "date-time":
		for _, layout := range dateTimeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		return nil, &CoercionError{Type: schema.Type, Format: schema.Format, Value: raw, Cause: ErrInvalidDate}
	}

	return s, nil
}

// coerceFile passes upload handles through untouched.
func coerceFile(raw any, schema *Schema) (any, error) {
	switch raw.(type) {
	case *multipart.FileHeader, []*multipart.FileHeader:
		return raw, nil
	}

	return nil, &CoercionError{Type: schema.Type, Value: raw, Cause: ErrUnsupportedType}
}

// stringify renders scalar values the way they appear on the wire and
// structured values as JSON.
func stringify(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case json.Number:
		return v.String()
	case map[string]any, []any:
		if b, err := json.Marshal(v); err == nil {
			return string(b)
		}
	}

	return fmt.Sprint(raw)
}

// decodeJSON decodes a single JSON value, keeping numbers as json.Number.
func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}

	if _, err := dec.Token(); err != io.EOF {
		return nil, errTrailingData
	}

	return v, nil
}
