package combinator

import (
	"fmt"
	"regexp"
	"strings"
)

// Tokenize splits src into the tokens matched by lex. Text between matches
// must be whitespace; anything else is a lex error.
func Tokenize(lex *regexp.Regexp, src string) ([]string, error) {
	locs := lex.FindAllStringIndex(src, -1)

	toks := make([]string, 0, len(locs))
	last := 0
	for _, loc := range locs {
		if gap := src[last:loc[0]]; strings.TrimSpace(gap) != "" {
			return nil, &SyntaxError{
				Code:    ErrCodeLex,
				Message: fmt.Sprintf("unexpected input %q", strings.TrimSpace(gap)),
				Offset:  last + strings.Index(gap, strings.TrimSpace(gap)),
			}
		}
		toks = append(toks, src[loc[0]:loc[1]])
		last = loc[1]
	}
	if rest := src[last:]; strings.TrimSpace(rest) != "" {
		return nil, &SyntaxError{
			Code:    ErrCodeLex,
			Message: fmt.Sprintf("unexpected input %q", strings.TrimSpace(rest)),
			Offset:  last + strings.Index(rest, strings.TrimSpace(rest)),
		}
	}

	if len(toks) == 0 {
		return nil, &SyntaxError{Code: ErrCodeLex, Message: "empty input", Offset: -1}
	}
	return toks, nil
}

// Compile returns a function that tokenizes its input with lex and runs
// grammar over the tokens from position 0. The grammar must consume every
// token; otherwise the result is a parse error.
func Compile[T any](lex *regexp.Regexp, grammar Parser[T]) func(src string) (T, error) {
	return func(src string) (T, error) {
		var zero T

		toks, err := Tokenize(lex, src)
		if err != nil {
			return zero, err
		}

		r := grammar(0, toks)
		if !r.OK {
			return zero, &SyntaxError{Code: ErrCodeParse, Message: fmt.Sprintf("unexpected token %q", toks[0]), Offset: 0}
		}
		if r.Pos < len(toks) {
			return zero, &SyntaxError{Code: ErrCodeParse, Message: fmt.Sprintf("unexpected token %q", toks[r.Pos]), Offset: r.Pos}
		}
		return r.Value, nil
	}
}
