package query

import (
	"errors"

	"github.com/maxwihlborg/fq/internal/combinator"
	"github.com/maxwihlborg/fq/internal/compiler"
	"github.com/maxwihlborg/fq/internal/value"
)

// Error codes for failures that are not syntax or build errors.
const (
	CodeRuntime = "RUNTIME_ERROR"
	CodeUnknown = "ERROR"
)

// ErrorCode classifies err for machine-readable output: LEX_ERROR and
// PARSE_ERROR for syntax errors, UNKNOWN_OPERATOR and INVALID_ARGUMENTS for
// build errors, RUNTIME_ERROR for evaluation failures. Nil yields "".
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}

	var se *combinator.SyntaxError
	if errors.As(err, &se) {
		return string(se.Code)
	}
	var be *compiler.BuildError
	if errors.As(err, &be) {
		return string(be.Code)
	}
	if value.IsRuntimeError(err) {
		return CodeRuntime
	}
	return CodeUnknown
}
