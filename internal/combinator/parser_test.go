package combinator

import (
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var digits = regexp.MustCompile(`\d+`)

func toks(ss ...string) []string { return ss }

func TestLiteral(t *testing.T) {
	p := Literal("(")

	r := p(0, toks("(", "x"))
	require.True(t, r.OK)
	assert.Equal(t, 1, r.Pos)
	assert.Equal(t, "(", r.Value)

	assert.False(t, p(1, toks("(", "x")).OK)
	assert.False(t, p(2, toks("(", "x")).OK, "end of input never matches")
}

func TestEnum(t *testing.T) {
	p := Enum("+", "-")

	assert.Equal(t, "-", p(0, toks("-")).Value)
	assert.False(t, p(0, toks("*")).OK)
}

func TestRegex_MatchesWholeToken(t *testing.T) {
	p := Regex(digits)

	assert.True(t, p(0, toks("123")).OK)
	assert.False(t, p(0, toks("12a")).OK)
	assert.False(t, p(0, toks("a12")).OK)
}

func TestMap(t *testing.T) {
	p := Map(Regex(digits), func(s string) int {
		n, _ := strconv.Atoi(s)
		return n * 2
	})

	r := p(0, toks("21"))
	require.True(t, r.OK)
	assert.Equal(t, 42, r.Value)
}

func TestOneOf_FirstSuccessWins(t *testing.T) {
	p := OneOf(
		Map(Literal("a"), func(string) string { return "first" }),
		Map(Literal("a"), func(string) string { return "second" }),
		Literal("b"),
	)

	assert.Equal(t, "first", p(0, toks("a")).Value)
	assert.Equal(t, "b", p(0, toks("b")).Value)
	assert.False(t, p(0, toks("c")).OK)
}

func TestSeq_ShortCircuits(t *testing.T) {
	calls := 0
	counting := func(pos int, toks []string) Result[any] {
		calls++
		return Ok[any](pos+1, toks[pos])
	}

	p := Seq(Erase(Literal("a")), Erase(Literal("b")), counting)

	r := p(0, toks("a", "b", "c"))
	require.True(t, r.OK)
	assert.Equal(t, []any{"a", "b", "c"}, r.Value)
	assert.Equal(t, 3, r.Pos)

	assert.False(t, p(0, toks("a", "x", "c")).OK)
	assert.Equal(t, 1, calls, "elements after a failure are not run")
}

func TestTuples(t *testing.T) {
	p := Tuple3(Literal("a"), Regex(digits), Literal("b"))

	r := p(0, toks("a", "7", "b"))
	require.True(t, r.OK)
	assert.Equal(t, Triple[string, string, string]{"a", "7", "b"}, r.Value)

	assert.False(t, p(0, toks("a", "7")).OK)
}

func TestBetween(t *testing.T) {
	p := Between(Literal("("), Regex(digits), Literal(")"))

	r := p(0, toks("(", "5", ")"))
	require.True(t, r.OK)
	assert.Equal(t, "5", r.Value)
	assert.Equal(t, 3, r.Pos)
}

func TestMaybe(t *testing.T) {
	p := Maybe(Literal("?"))

	r := p(0, toks("?"))
	assert.True(t, r.Value.Present)
	assert.Equal(t, 1, r.Pos)

	r = p(0, toks("x"))
	require.True(t, r.OK, "Maybe never fails")
	assert.False(t, r.Value.Present)
	assert.Equal(t, 0, r.Pos)
}

func TestMany(t *testing.T) {
	r := Many(Literal("a"))(0, toks("a", "a", "b"))
	require.True(t, r.OK)
	assert.Equal(t, []string{"a", "a"}, r.Value)
	assert.Equal(t, 2, r.Pos)

	r = Many(Literal("a"))(0, toks("b"))
	require.True(t, r.OK)
	assert.Empty(t, r.Value)

	assert.False(t, Many1(Literal("a"))(0, toks("b")).OK)
}

func TestMany_StopsOnEmptyMatch(t *testing.T) {
	r := Many(Maybe(Literal("a")))(0, toks("b"))
	require.True(t, r.OK)
	assert.Empty(t, r.Value)
}

func TestSep(t *testing.T) {
	p := Sep(Literal(","), Regex(digits))

	r := p(0, toks("1", ",", "2", ",", "3"))
	require.True(t, r.OK)
	assert.Equal(t, []string{"1", "2", "3"}, r.Value)

	r = p(0, toks(")"))
	require.True(t, r.OK)
	assert.Empty(t, r.Value)
	assert.Equal(t, 0, r.Pos)

	assert.False(t, Sep1(Literal(","), Regex(digits))(0, toks(")")).OK)
}

func TestSep_TrailingSeparatorNotConsumed(t *testing.T) {
	r := Sep(Literal(","), Regex(digits))(0, toks("1", ",", ")"))
	require.True(t, r.OK)
	assert.Equal(t, []string{"1"}, r.Value)
	assert.Equal(t, 1, r.Pos)
}

func TestLazy_Recursion(t *testing.T) {
	// nested := "(" nested ")" | digits
	var nested Parser[int]
	ref := Lazy(func() Parser[int] { return nested })
	nested = OneOf(
		Map(Between(Literal("("), ref, Literal(")")), func(depth int) int { return depth + 1 }),
		Map(Regex(digits), func(string) int { return 0 }),
	)

	r := nested(0, toks("(", "(", "1", ")", ")"))
	require.True(t, r.OK)
	assert.Equal(t, 2, r.Value)
}

func TestCompile(t *testing.T) {
	lex := regexp.MustCompile(`\d+|\+`)
	sum := Map(Sep1(Literal("+"), Regex(digits)), func(xs []string) int {
		total := 0
		for _, x := range xs {
			n, _ := strconv.Atoi(x)
			total += n
		}
		return total
	})
	parse := Compile(lex, sum)

	got, err := parse("1 + 2+3")
	require.NoError(t, err)
	assert.Equal(t, 6, got)

	_, err = parse("1 + 2 3")
	require.Error(t, err)
	assert.True(t, IsParseError(err))
	assert.False(t, IsLexError(err))

	_, err = parse("+")
	assert.True(t, IsParseError(err))

	_, err = parse("1 - 2")
	require.Error(t, err)
	assert.True(t, IsLexError(err))
	assert.EqualError(t, err, `LEX_ERROR: unexpected input "-" (at 2)`)

	_, err = parse("")
	assert.EqualError(t, err, "LEX_ERROR: empty input")
}
