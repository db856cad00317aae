package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxwihlborg/fq/internal/ast"
	"github.com/maxwihlborg/fq/internal/combinator"
)

func num(v float64) ast.Node { return ast.NewNum(v) }
func id(name string) ast.Node { return ast.NewID(name) }
func fn(name string, args ...ast.Node) ast.Node {
	return ast.NewFuncCall(name, args...)
}
func bin(lhs ast.Node, op string, rhs ast.Node) ast.Node {
	return ast.NewBinaryOp(lhs, op, rhs)
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		src  string
		want []string
	}{
		{".a.b | count()", []string{".a.b", "|", "count", "(", ")"}},
		{"2.5+x", []string{"2.5", "+", "x"}},
		{`"a b" == "c"`, []string{`"a b"`, "==", `"c"`}},
		{"!!x&&--y", []string{"!!", "x", "&&", "--", "y"}},
		{"filter(.x>=2)", []string{"filter", "(", ".x", ">=", "2", ")"}},
		{"a ? [1,2] : .", []string{"a", "?", "[", "1", ",", "2", "]", ":", "."}},
		{"x.y % 3", []string{"x.y", "%", "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			toks, err := Tokenize(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, toks)
		})
	}
}

func TestTokenize_RejectsUnknownInput(t *testing.T) {
	_, err := Tokenize("count() $ 2")
	require.Error(t, err)
	assert.True(t, combinator.IsLexError(err))

	var se *combinator.SyntaxError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 8, se.Offset)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want ast.Node
	}{
		{"number", "42", num(42)},
		{"decimal", "2.5", num(2.5)},
		{"identifier", "foo", id("foo")},
		{"string literal", `"hello\nworld"`, id("hello\nworld")},
		{"identity", ".", fn("id")},
		{"leading dot path", ".a.b.c", fn("get", id("a"), id("b"), id("c"))},
		{"single key path", ".a", fn("get", id("a"))},
		{"bare path", "a.b", fn("get", id("a"), id("b"))},
		{"call without args", "count()", fn("count")},
		{"call with args", "take(2, .n)", fn("take", num(2), fn("get", id("n")))},
		{"array literal", "[1, .a]", fn("array", num(1), fn("get", id("a")))},
		{"empty array", "[]", fn("array")},
		{"parentheses", "(1 + 2) * 3", bin(bin(num(1), "+", num(2)), "*", num(3))},
		{"multiplication binds tighter", "2 * 2 + 3", bin(bin(num(2), "*", num(2)), "+", num(3))},
		{"division before subtraction", "2 - 2 / 2", bin(num(2), "-", bin(num(2), "/", num(2)))},
		{"left associative", "a - b - c", bin(bin(id("a"), "-", id("b")), "-", id("c"))},
		{"comparison binds tightest", ".a * 2 > 1", bin(fn("get", id("a")), "*", bin(num(2), ">", num(1)))},
		{"logical below additive", "a + 1 && b", bin(bin(id("a"), "+", num(1)), "&&", id("b"))},
		{"pipe loosest", "a && b | c", bin(bin(id("a"), "&&", id("b")), "|", id("c"))},
		{"pipe chain", "a | b | c", bin(bin(id("a"), "|", id("b")), "|", id("c"))},
		{"negation", "-2 * 3", bin(bin(num(-1), "*", num(2)), "*", num(3))},
		{"not", "!x", fn("not", id("x"))},
		{"double not", "!!0", fn("bool", num(0))},
		{"increment", "++5", bin(num(5), "+", num(1))},
		{"decrement", "--5", bin(num(5), "-", num(1))},
		{"unary wraps primary only", "!a | b", bin(fn("not", id("a")), "|", id("b"))},
		{"ternary", "a ? b : c", fn("cond", id("a"), id("b"), id("c"))},
		{"ternary over pipes", ".x > 1 ? .y | count() : 0", fn("cond",
			bin(fn("get", id("x")), ">", num(1)),
			bin(fn("get", id("y")), "|", fn("count")),
			num(0),
		)},
		{"nested ternary in parentheses", "a ? (b ? c : d) : e", fn("cond", id("a"), fn("cond", id("b"), id("c"), id("d")), id("e"))},
		{"filter then map", "filter(.x>2) | map(.x)", bin(
			fn("filter", bin(fn("get", id("x")), ">", num(2))),
			"|",
			fn("map", fn("get", id("x"))),
		)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.src)
			require.NoError(t, err)
			assert.True(t, ast.Equal(tt.want, got), "got:\n%s\nwant:\n%s", ast.Show(got), ast.Show(tt.want))
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		lex  bool
	}{
		{"empty input", "   ", true},
		{"unknown character", "a @ b", true},
		{"unclosed paren", "(1", false},
		{"dangling operator", "1 +", false},
		{"adjacent operands", "1 2", false},
		{"unclosed call", "count(", false},
		{"nested ternary without parentheses", "a ? b ? c : d : e", false},
		{"missing else", "a ? b", false},
		{"invalid escape", `"\q"`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src)
			require.Error(t, err)
			if tt.lex {
				assert.True(t, combinator.IsLexError(err), "expected lex error, got %v", err)
			} else {
				assert.True(t, combinator.IsParseError(err), "expected parse error, got %v", err)
			}
		})
	}
}

func TestParse_ReportsFirstUnconsumedToken(t *testing.T) {
	_, err := Parse("1 2")

	var se *combinator.SyntaxError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 1, se.Offset)
	assert.Contains(t, se.Message, `"2"`)
}

func TestPrecedence(t *testing.T) {
	assert.Equal(t, 5, Precedence("<="))
	assert.Equal(t, 4, Precedence("%"))
	assert.Equal(t, 3, Precedence("-"))
	assert.Equal(t, 2, Precedence("||"))
	assert.Equal(t, 1, Precedence("|"))
	assert.Zero(t, Precedence("?"))
}
