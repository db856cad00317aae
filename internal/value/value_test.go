package value

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	v, err := Decode([]byte(`{"a": [1, 2.5, "x", true, null], "b": {"c": -3}}`))
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"a": []any{1.0, 2.5, "x", true, nil},
		"b": map[string]any{"c": -3.0},
	}, v)
}

func TestDecode_RejectsTrailingData(t *testing.T) {
	_, err := Decode([]byte(`{} {}`))
	assert.Error(t, err)

	_, err = Decode([]byte(`{`))
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	v, err := Normalize(map[string]any{
		"n":   42,
		"i64": int64(-7),
		"m":   map[any]any{1: "one"},
		"l":   []any{uint(3), float32(0.5)},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"n":   42.0,
		"i64": -7.0,
		"m":   map[string]any{"1": "one"},
		"l":   []any{3.0, 0.5},
	}, v)

	_, err = Normalize(struct{}{})
	assert.Error(t, err)
}

func TestTruthy(t *testing.T) {
	falsy := []any{nil, false, 0.0, math.NaN(), ""}
	for _, v := range falsy {
		assert.False(t, Truthy(v), "%v", v)
	}

	truthy := []any{true, 1.0, -1.0, "0", []any{}, map[string]any{}}
	for _, v := range truthy {
		assert.True(t, Truthy(v), "%v", v)
	}
}

func TestToNumber(t *testing.T) {
	assert.Equal(t, 0.0, ToNumber(nil))
	assert.Equal(t, 1.0, ToNumber(true))
	assert.Equal(t, 12.5, ToNumber(" 12.5 "))
	assert.Equal(t, 0.0, ToNumber(""))
	assert.True(t, math.IsNaN(ToNumber("abc")))
	assert.True(t, math.IsNaN(ToNumber([]any{})))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "7", FormatNumber(7))
	assert.Equal(t, "-0.5", FormatNumber(-0.5))
	assert.Equal(t, "1e+21", FormatNumber(1e21))
	assert.Equal(t, "NaN", FormatNumber(math.NaN()))
	assert.Equal(t, "-Infinity", FormatNumber(math.Inf(-1)))
}

func TestToString(t *testing.T) {
	assert.Equal(t, "null", ToString(nil))
	assert.Equal(t, "true", ToString(true))
	assert.Equal(t, "3", ToString(3.0))
	assert.Equal(t, "x", ToString("x"))
	assert.Equal(t, `{"a":[1,"b"]}`, ToString(map[string]any{"a": []any{1.0, "b"}}))
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(nil, nil))
	assert.True(t, Equal(1.0, 1.0))
	assert.False(t, Equal(1.0, "1"))
	assert.True(t, Equal(
		map[string]any{"a": []any{1.0, map[string]any{"b": nil}}},
		map[string]any{"a": []any{1.0, map[string]any{"b": nil}}},
	))
	assert.False(t, Equal(map[string]any{"a": 1.0}, map[string]any{"b": 1.0}))
	assert.False(t, Equal([]any{1.0}, []any{1.0, 2.0}))

	it := FromSlice(nil)
	assert.True(t, Equal(it, it))
	assert.False(t, Equal(it, FromSlice(nil)))
}

func TestCompare(t *testing.T) {
	c, ok := Compare("apple", "banana")
	assert.True(t, ok)
	assert.Equal(t, -1, c)

	c, ok = Compare(2.0, "10")
	assert.True(t, ok)
	assert.Equal(t, -1, c, "mixed operands compare numerically")

	c, ok = Compare(nil, 0.0)
	assert.True(t, ok)
	assert.Zero(t, c)

	_, ok = Compare("a", 1.0)
	assert.False(t, ok)
}

func TestSortedKeys_UTF16Order(t *testing.T) {
	obj := map[string]any{"b": 1.0, "a": 2.0, "\U0001F600": 3.0, "｡": 4.0}

	// U+1F600 encodes as a surrogate pair (0xD83D...) which sorts before U+FF61.
	assert.Equal(t, []string{"a", "b", "\U0001F600", "｡"}, SortedKeys(obj))
}
