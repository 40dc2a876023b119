package params

import (
	"errors"
	"fmt"
)

// ErrClient is matched by every error caused by malformed request data.
// These errors are recoverable per request and map to 400-class responses.
var ErrClient = errors.New("invalid request data")

// Causes wrapped by CoercionError.
var (
	// ErrBadJSON indicates an object value is not a valid JSON object.
	ErrBadJSON = errors.New("bad JSON object")

	// ErrInvalidDate indicates a date or date-time value cannot be parsed.
	ErrInvalidDate = errors.New("invalid date")

	// ErrNotNumeric indicates an integer or number value cannot be parsed.
	ErrNotNumeric = errors.New("not a valid number")

	// ErrUnsupportedType indicates a value cannot be coerced into the declared
	// type, e.g. a file parameter that did not carry an upload.
	ErrUnsupportedType = errors.New("unsupported parameter type")
)

// CoercionError reports a request value that could not be converted into the
// type declared by its parameter.
type CoercionError struct {
	// Param is the parameter name, empty for nested values.
	Param string
	// Type is the declared Swagger type.
	Type string
	// Format is the declared format, if any.
	Format string
	// Value is the offending raw value.
	Value any
	// Cause is one of the sentinel causes above, possibly wrapping a parse error.
	Cause error
}

// Error returns a human-readable error message.
func (e *CoercionError) Error() string {
	msg := "cannot coerce"
	if e.Param != "" {
		msg += fmt.Sprintf(" parameter %q", e.Param)
	} else {
		msg += fmt.Sprintf(" value %v", e.Value)
	}
	msg += " to " + e.Type
	if e.Format != "" {
		msg += " (" + e.Format + ")"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *CoercionError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *CoercionError) Is(target error) bool {
	return target == ErrClient
}

// FormError reports a request body that could not be read or parsed as a
// form.
type FormError struct {
	Cause error
}

// Error returns a human-readable error message.
func (e *FormError) Error() string {
	return "cannot read request body: " + e.Cause.Error()
}

// Unwrap returns the underlying cause for error chaining.
func (e *FormError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *FormError) Is(target error) bool {
	return target == ErrClient
}
