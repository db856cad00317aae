package grammar

import (
	"regexp"
	"strings"

	"github.com/maxwihlborg/fq/internal/combinator"
)

var (
	numRe   = regexp.MustCompile(`\d+(?:\.\d+)?(?:[eE][+-]?\d+)?`)
	strRe   = regexp.MustCompile(`"(?:[^"\\]|\\[\s\S])*"`)
	pathRe  = regexp.MustCompile(`\.?\w+(?:\.\w+)+|\.\w+`)
	identRe = regexp.MustCompile(`\w+`)
)

// Lexer matches every token of the language. Alternatives are tried in order
// at each position, so multi-character operators precede their prefixes and
// numbers precede paths ("2.5" is a number, not get(2, 5)).
var Lexer = regexp.MustCompile(strings.Join([]string{
	`<=|>=|==|!=|!!|\+\+|--|&&|\|\|`,
	strRe.String(),
	numRe.String(),
	pathRe.String(),
	`[(),|<>/*+\-!\[\]%?:]`,
	identRe.String(),
	`\.`,
}, "|"))

// Tokenize splits a query into tokens.
func Tokenize(src string) ([]string, error) {
	return combinator.Tokenize(Lexer, src)
}
