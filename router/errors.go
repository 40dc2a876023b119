package router

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vitalvas/swaggerrouter/swagger"
)

// ErrNotFound is returned when no path template matches the request path.
// Triggers 404 Not Found per RFC 9110 Section 15.5.5.
var ErrNotFound = errors.New("no matching route was found")

// ErrMethodNotAllowed is returned when a path template matches but has no
// operation for the request method. Triggers 405 Method Not Allowed per
// RFC 9110 Section 15.5.6.
var ErrMethodNotAllowed = errors.New("method is not allowed")

// MethodNotAllowedError carries the matched template and the methods it
// does support.
type MethodNotAllowedError struct {
	Template string
	Method   string
	// Allowed lists the supported methods in upper case, sorted.
	Allowed []string
}

// Error returns a human-readable error message.
func (e *MethodNotAllowedError) Error() string {
	return fmt.Sprintf("method %s is not allowed for %s (allowed: %s)", e.Method, e.Template, strings.Join(e.Allowed, ", "))
}

// Is reports whether target matches this error type.
func (e *MethodNotAllowedError) Is(target error) bool {
	return target == ErrMethodNotAllowed
}

// specErrorAt re-roots a spec error found inside the node at pointer.
func specErrorAt(pointer string, err error) error {
	var se *swagger.SpecError
	if errors.As(err, &se) {
		return &swagger.SpecError{Pointer: pointer + se.Pointer, Message: se.Message, Cause: se.Cause}
	}

	return &swagger.SpecError{Pointer: pointer, Cause: err}
}
