package swagger

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrSpec indicates the Swagger document itself is malformed. Spec errors
	// are deployment faults: they are never retried and should fail at load time.
	ErrSpec = errors.New("invalid swagger document")

	// ErrReference indicates a $ref could not be resolved.
	ErrReference = errors.New("reference error")

	// ErrCircularReference indicates a $ref chain refers back to itself.
	ErrCircularReference = errors.New("circular reference")
)

// SpecError describes a malformed part of the Swagger document.
type SpecError struct {
	// Pointer locates the offending node, e.g. "/paths/~1users/get/parameters/0".
	Pointer string
	// Message describes the problem.
	Message string
	// Cause is the underlying error, if any.
	Cause error
}

// Error returns a human-readable error message.
func (e *SpecError) Error() string {
	msg := "invalid swagger document"
	if e.Pointer != "" {
		msg += " at " + e.Pointer
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *SpecError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *SpecError) Is(target error) bool {
	return target == ErrSpec
}

// NewSpecError returns a SpecError with a formatted message.
func NewSpecError(pointer, format string, args ...any) *SpecError {
	return &SpecError{Pointer: pointer, Message: fmt.Sprintf(format, args...)}
}

// ReferenceError represents a $ref that is malformed, dangling or circular.
type ReferenceError struct {
	// Ref is the reference string that failed to resolve.
	Ref string
	// IsCircular is true if the reference chain loops back on itself.
	IsCircular bool
	// Message provides additional context about the failure.
	Message string
	// Cause is the underlying error, if any.
	Cause error
}

// Error returns a human-readable error message.
func (e *ReferenceError) Error() string {
	msg := fmt.Sprintf("reference %q", e.Ref)
	switch {
	case e.IsCircular:
		msg += ": circular reference"
	case e.Message != "":
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ReferenceError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type. A reference error is
// always a spec error as well.
func (e *ReferenceError) Is(target error) bool {
	if target == ErrReference || target == ErrSpec {
		return true
	}
	return e.IsCircular && target == ErrCircularReference
}
