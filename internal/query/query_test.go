package query

import (
	"bytes"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxwihlborg/fq/internal/combinator"
	"github.com/maxwihlborg/fq/internal/compiler"
	"github.com/maxwihlborg/fq/internal/ir"
	"github.com/maxwihlborg/fq/internal/testutil"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func eval(t *testing.T, src, input string) any {
	t.Helper()
	p, err := Compile(src, WithLogger(discard))
	require.NoError(t, err)
	out, err := p.Run(testutil.JSON(t, input))
	require.NoError(t, err)
	return testutil.Materialize(t, out)
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		src  string
		want any
	}{
		{"2 * 2 + 3", 7.0},
		{"2 - 2/2", 1.0},
		{"3*1/3", 1.0},
		{"2 / 2 - 2", -1.0},
		{"2 *(2 + 3)", 10.0},
		{"1/2 * 2", 1.0},
		{"-2 * 3", -6.0},
		{"!!0", false},
		{"!0", true},
		{"++5", 6.0},
		{"--5", 4.0},
		{"c(1 < 2)", 1.0},
		{"c(4 <= 3)", 0.0},
		{"c(2 >= 2)", 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			assert.Equal(t, tt.want, eval(t, tt.src, `[]`))
		})
	}
}

func TestNullSafePaths(t *testing.T) {
	assert.Nil(t, eval(t, ".a.b.c", `{"a":null}`))
	assert.Nil(t, eval(t, ".a.b.c", `{}`))
	assert.Equal(t, 0.0, eval(t, ".x.y", `{"x":{"y":0}}`))
}

func TestFilterThenMap(t *testing.T) {
	got := eval(t, "filter(.x>2) | map(.x)", `[{"x":1},{"x":5},{"x":3}]`)
	assert.Equal(t, []any{5.0, 3.0}, got)
}

func TestGroupByThenCount(t *testing.T) {
	input := `[{"type":"a"},{"type":"b"},{"type":"a"},{"type":"a"},{"type":"b"}]`
	got := eval(t, "groupBy(.type) | mapValues(count())", input)
	assert.Equal(t, map[string]any{"a": 3.0, "b": 2.0}, got)
}

func TestUniqueKeepsFirstOccurrences(t *testing.T) {
	input := `[{"id":2,"n":"first"},{"id":1,"n":"second"},{"id":2,"n":"third"},{"id":3,"n":"fourth"},{"id":1,"n":"fifth"}]`
	got := eval(t, "unique(.id) | map(.n)", input)
	assert.Equal(t, []any{"first", "second", "fourth"}, got)
}

func TestCheck(t *testing.T) {
	warnings, err := Check("(.a + .b) | count()")
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Message, "count")
	assert.Contains(t, warnings[0].Message, "iterable")
	assert.Contains(t, warnings[0].Message, "value")

	warnings, err = Check("map(.x) | filter(.y>0) | count()")
	require.NoError(t, err)
	assert.Empty(t, warnings)
}

func TestReduceIsIdempotent(t *testing.T) {
	for _, src := range []string{
		"2 * 2 + 3",
		"filter(.x>2) | map(.x)",
		"groupBy(.type) | mapValues(count())",
		".a > 1 ? [.b, 2 % 3] : !!.c",
	} {
		tree, err := Parse(src)
		require.NoError(t, err)
		once := Reduce(tree)
		assert.True(t, ir.Equal(once, Reduce(ir.Lift(once))), src)
	}
}

func TestUnknownOperator(t *testing.T) {
	_, err := Compile("map(.x) | frobnicate()", WithLogger(discard))
	require.Error(t, err)
	assert.True(t, compiler.IsUnknownOperator(err))

	warnings, err := Check("map(.x) | frobnicate()")
	require.NoError(t, err, "check reports unknown operators as warnings")
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Message, "frobnicate")
}

func TestSyntaxErrors(t *testing.T) {
	_, err := Compile("map(.x", WithLogger(discard))
	assert.True(t, combinator.IsParseError(err))

	_, err = Compile("map(.x) ~ 2", WithLogger(discard))
	assert.True(t, combinator.IsLexError(err))

	_, err = Check("(")
	assert.True(t, combinator.IsParseError(err))
}

func TestCompile_LogsWarnings(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	p, err := Compile("count() | map(.x)", WithLogger(logger))
	require.NoError(t, err, "type warnings never fail compilation")
	require.Len(t, p.Warnings, 1)
	assert.Contains(t, logs.String(), "level=WARN")
	assert.Contains(t, logs.String(), "map expects iterable, but receives value")
}

func TestProgram_KeepsStages(t *testing.T) {
	p := MustCompile("1 + 1 | .a", WithLogger(discard))

	assert.Equal(t, "1 + 1 | .a", p.Source)
	assert.NotNil(t, p.AST)
	assert.Equal(t, "(fn: flow\n  (nr: 2)\n  (fn: get\n    (id: a)\n  )\n)", ir.Show(p.IR))
}

func TestMustCompile_Panics(t *testing.T) {
	assert.Panics(t, func() { MustCompile("nope()", WithLogger(discard)) })
}

func TestProgram_ReusableAcrossInputs(t *testing.T) {
	p := MustCompile("map(.n * 2) | sum()", WithLogger(discard))

	var wg sync.WaitGroup
	results := make([]any, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := p.Run([]any{
				map[string]any{"n": float64(i)},
				map[string]any{"n": 1.0},
			})
			assert.NoError(t, err)
			results[i] = out
		}()
	}
	wg.Wait()

	for i, got := range results {
		assert.Equal(t, float64(2*i+2), got)
	}
}
