package compiler

import (
	"errors"
	"fmt"
)

// BuildErrorCode categorizes build failures.
type BuildErrorCode string

const (
	// ErrCodeUnknownOperator indicates a call to a name the kernel does not
	// know.
	ErrCodeUnknownOperator BuildErrorCode = "UNKNOWN_OPERATOR"

	// ErrCodeInvalidArguments indicates an operator rejected its arguments,
	// usually because of their number.
	ErrCodeInvalidArguments BuildErrorCode = "INVALID_ARGUMENTS"
)

// BuildError is returned when an IR tree cannot be turned into a unit.
type BuildError struct {
	Code BuildErrorCode

	// Operator is the name used at the failing call site.
	Operator string

	Message string

	// Err is the constructor's error for ErrCodeInvalidArguments.
	Err error
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying constructor error, if any.
func (e *BuildError) Unwrap() error {
	return e.Err
}

// IsUnknownOperator reports whether err is a build error for an unknown
// operator.
func IsUnknownOperator(err error) bool {
	var be *BuildError
	if errors.As(err, &be) {
		return be.Code == ErrCodeUnknownOperator
	}
	return false
}

// IsInvalidArguments reports whether err is a build error for an operator
// that rejected its arguments.
func IsInvalidArguments(err error) bool {
	var be *BuildError
	if errors.As(err, &be) {
		return be.Code == ErrCodeInvalidArguments
	}
	return false
}
