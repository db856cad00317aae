package value

import (
	"errors"
	"fmt"
)

// RuntimeError is raised while evaluating a built pipeline against user data,
// e.g. iterating a number or indexing with an unsupported key.
//
// The core never intercepts RuntimeErrors; they propagate to the caller of the
// unit or iterator that produced them.
type RuntimeError struct {
	// Op names the operator that failed, if known.
	Op string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

// NewRuntimeError creates a RuntimeError for the named operator.
func NewRuntimeError(op, format string, args ...any) *RuntimeError {
	return &RuntimeError{Op: op, Message: fmt.Sprintf(format, args...)}
}

// IsRuntimeError reports whether err is, or wraps, a RuntimeError.
func IsRuntimeError(err error) bool {
	var re *RuntimeError
	return errors.As(err, &re)
}
