package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxwihlborg/fq/internal/ast"
	"github.com/maxwihlborg/fq/internal/grammar"
)

func reduce(t *testing.T, src string) Node {
	t.Helper()
	n, err := grammar.Parse(src)
	require.NoError(t, err)
	return Reduce(n)
}

func TestReduce_FoldsConstants(t *testing.T) {
	tests := []struct {
		src  string
		want float64
	}{
		{"2 * 2 + 3", 7},
		{"2 - 2/2", 1},
		{"3*1/3", 1},
		{"2 / 2 - 2", -1},
		{"-2 * 3", -6},
		{"++5", 6},
		{"--5", 4},
		{"7 % 3", 1},
		{"-7 % 3", -1},
		{"1 > 2", 0},
		{"2 >= 2", 1},
		{"1 == 1", 1},
		{"1 != 1", 0},
		{"0 && 5", 0},
		{"2 && 5", 5},
		{"0 || 5", 5},
		{"3 || 5", 3},
		{"(1 + 2) * (3 + 4)", 21},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got := reduce(t, tt.src)
			num, ok := got.(*Num)
			require.True(t, ok, "expected a folded number, got:\n%s", Show(got))
			assert.Equal(t, tt.want, num.Value)
		})
	}
}

func TestReduce_Lowers(t *testing.T) {
	get := func(key string) Node { return NewFuncCall("get", NewID(key)) }

	tests := []struct {
		src  string
		want Node
	}{
		{".a + 1", NewFuncCall("add", get("a"), NewNum(1))},
		{".a - 1", NewFuncCall("sub", get("a"), NewNum(1))},
		{".a * .b", NewFuncCall("mul", get("a"), get("b"))},
		{".a / 2", NewFuncCall("div", get("a"), NewNum(2))},
		{".a % 2", NewFuncCall("mod", get("a"), NewNum(2))},
		{".a && .b", NewFuncCall("opAnd", get("a"), get("b"))},
		{".a || .b", NewFuncCall("opOr", get("a"), get("b"))},
		{".a == 1", NewFuncCall("eq", get("a"), NewNum(1))},
		{".a != 1", NewFuncCall("neq", get("a"), NewNum(1))},
		{".a > 1", NewFuncCall("gt", get("a"), NewNum(1))},
		{".a >= 1", NewFuncCall("gte", get("a"), NewNum(1))},
		{".a < 1", NewFuncCall("lt", get("a"), NewNum(1))},
		{".a <= 1", NewFuncCall("lte", get("a"), NewNum(1))},
		{"1 | 2", NewFuncCall("flow", NewNum(1), NewNum(2))},
		{"!!0", NewFuncCall("bool", NewNum(0))},
		{"-.a", NewFuncCall("mul", NewNum(-1), get("a"))},
		{".a + 1 + 2", NewFuncCall("add", NewFuncCall("add", get("a"), NewNum(1)), NewNum(2))},
		{"map(1 + 1)", NewFuncCall("map", NewNum(2))},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got := reduce(t, tt.src)
			assert.True(t, Equal(tt.want, got), "got:\n%s\nwant:\n%s", Show(got), Show(tt.want))
		})
	}
}

func TestReduce_FlattensPipes(t *testing.T) {
	got := reduce(t, ".a | map(.b) | count()")
	want := NewFuncCall("flow",
		NewFuncCall("get", NewID("a")),
		NewFuncCall("map", NewFuncCall("get", NewID("b"))),
		NewFuncCall("count"),
	)
	assert.True(t, Equal(want, got), "got:\n%s", Show(got))

	// A right-nested pipe stays a separate stage.
	got = reduce(t, "a | (b | c)")
	want = NewFuncCall("flow", NewID("a"), NewFuncCall("flow", NewID("b"), NewID("c")))
	assert.True(t, Equal(want, got), "got:\n%s", Show(got))
}

func TestReduce_Idempotent(t *testing.T) {
	queries := []string{
		"2 * 2 + 3",
		".a.b.c",
		"filter(.x > 2) | map(.x)",
		"groupBy(.type) | mapValues(count())",
		"a | b | c | d",
		".x > 1 ? .y : -.z",
		"[1, 2 + 3, .a % 2]",
		"!!(.a || 0 && 4)",
	}

	for _, src := range queries {
		t.Run(src, func(t *testing.T) {
			once := reduce(t, src)
			twice := Reduce(Lift(once))
			assert.True(t, Equal(once, twice), "once:\n%s\ntwice:\n%s", Show(once), Show(twice))
		})
	}
}

func TestLift(t *testing.T) {
	n := NewFuncCall("add", NewID("x"), NewNum(1))
	want := ast.NewFuncCall("add", ast.NewID("x"), ast.NewNum(1))
	assert.True(t, ast.Equal(want, Lift(n)))
}

func TestShow(t *testing.T) {
	n := NewFuncCall("flow", NewFuncCall("get", NewID("a")), NewNum(2))
	want := "(fn: flow\n" +
		"  (fn: get\n" +
		"    (id: a)\n" +
		"  )\n" +
		"  (nr: 2)\n" +
		")"
	assert.Equal(t, want, Show(n))
}
