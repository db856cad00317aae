package combinator

import (
	"errors"
	"fmt"
)

// SyntaxErrorCode categorizes fatal compilation failures.
type SyntaxErrorCode string

const (
	// ErrCodeLex indicates the input could not be tokenized.
	ErrCodeLex SyntaxErrorCode = "LEX_ERROR"

	// ErrCodeParse indicates the token sequence does not match the grammar.
	ErrCodeParse SyntaxErrorCode = "PARSE_ERROR"
)

// SyntaxError is returned by a compiled grammar when lexing or parsing fails.
type SyntaxError struct {
	Code    SyntaxErrorCode
	Message string

	// Offset is a byte offset into the source for lex errors and a token
	// index for parse errors. -1 when not applicable.
	Offset int
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s: %s (at %d)", e.Code, e.Message, e.Offset)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsLexError reports whether err is a lex error.
func IsLexError(err error) bool {
	var se *SyntaxError
	if errors.As(err, &se) {
		return se.Code == ErrCodeLex
	}
	return false
}

// IsParseError reports whether err is a parse error.
func IsParseError(err error) bool {
	var se *SyntaxError
	if errors.As(err, &se) {
		return se.Code == ErrCodeParse
	}
	return false
}
