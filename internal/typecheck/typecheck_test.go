package typecheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxwihlborg/fq/internal/grammar"
	"github.com/maxwihlborg/fq/internal/ir"
	"github.com/maxwihlborg/fq/internal/kernel"
	"github.com/maxwihlborg/fq/internal/ops"
)

func reduce(t *testing.T, src string) ir.Node {
	t.Helper()
	n, err := grammar.Parse(src)
	require.NoError(t, err)
	return ir.Reduce(n)
}

func check(t *testing.T, src string) []TypeError {
	t.Helper()
	return Check(reduce(t, src), ops.Kernel())
}

func infer(t *testing.T, src string) kernel.Shape {
	t.Helper()
	return InferType(reduce(t, src), ops.Kernel())
}

func TestInferType(t *testing.T) {
	tests := []struct {
		name string
		srcs []string
		want kernel.Shape
	}{
		{"literals", []string{"42", "foo", `"bar"`}, kernel.Value},
		{"mappers", []string{"map(.x)", "filter(.x > 0)", "sort(.x)", "unique(.x)"}, kernel.Iterable},
		{"reducers", []string{"count()", "sum(.x)", "first()", "groupBy(.x)"}, kernel.Value},
		{"functions", []string{".a + .b", ".x > 0"}, kernel.Value},
		{"dynamic operators", []string{"get(a)", ".a", "."}, kernel.Unknown},
		{"unknown operators", []string{"nope()"}, kernel.Unknown},
		{"producers", []string{"entries(.)", "keys(.)", "values(.)", "range(1, 10)", "[.a, .b]"}, kernel.Iterable},
		{"flow ending in a reducer", []string{"map(.x) | count()"}, kernel.Value},
		{"flow ending in a mapper", []string{"entries(.) | map(.key)", ".x | entries(.)"}, kernel.Iterable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, src := range tt.srcs {
				assert.Equal(t, tt.want, infer(t, src), src)
			}
		})
	}
}

func TestCheck_Clean(t *testing.T) {
	queries := []string{
		"map(.x) | filter(.y > 0) | count()",
		".a + .b",
		".x > 0 ? .y : .z",
		"count()",
		"entries(.) | map(.key)",
		"keys(.) | filter(. != null)",
		"map(.x) | sum(.)",
		"filter(.x > 0) | count()",
		"[.x, .y] | merge(.)",
		"[.a, .b, .c] | count()",
		"entries(.) | map(.value) | filter(. > 0) | sum(.)",
		"groupBy(.type) | mapValues(count())",
		".items | map(.price) | sum()",
	}

	for _, src := range queries {
		t.Run(src, func(t *testing.T) {
			errs := check(t, src)
			assert.NotNil(t, errs)
			assert.Empty(t, errs)
		})
	}
}

func TestCheck_ReducerReceivesValue(t *testing.T) {
	errs := check(t, "(.a + .b) | count()")

	require.Len(t, errs, 1)
	assert.Equal(t, "count expects iterable, but receives value", errs[0].Message)
	assert.Equal(t, "count", errs[0].Node.(*ir.FuncCall).Name)
}

func TestCheck_MapperReceivesValue(t *testing.T) {
	errs := check(t, "(.a + .b) | map(.y)")

	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "map")
	assert.Contains(t, errs[0].Message, "iterable")
}

func TestCheck_MapperAfterReducer(t *testing.T) {
	errs := check(t, "count() | map(.x)")

	require.Len(t, errs, 1)
	assert.Equal(t, "map expects iterable, but receives value", errs[0].Message)
}

func TestCheck_FunctionReceivesIterable(t *testing.T) {
	errs := check(t, "map(.x) | not(.)")

	require.Len(t, errs, 1)
	assert.Equal(t, "not expects value, but receives iterable", errs[0].Message)
}

func TestCheck_DynamicStageResetsShape(t *testing.T) {
	// get is dynamic, so nothing is known about what reaches count.
	assert.Empty(t, check(t, "(.a + .b) | .items | count()"))
}

func TestCheck_ArgumentsCheckedIndependently(t *testing.T) {
	errs := check(t, "map((.a + .b) | count())")

	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "count")
}

func TestCheck_UnknownOperator(t *testing.T) {
	errs := check(t, "map(.x) | frobnicate(1)")

	require.Len(t, errs, 1)
	assert.Equal(t, "Unknown operator: frobnicate", errs[0].Message)
	assert.Equal(t, errs[0].Message, errs[0].Error())
}

func TestCheck_ReportsEveryFinding(t *testing.T) {
	errs := check(t, "count() | map(.x) | nope() | sum()")

	require.Len(t, errs, 2)
	assert.Contains(t, errs[0].Message, "map")
	assert.Equal(t, "Unknown operator: nope", errs[1].Message)
}
