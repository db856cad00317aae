package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/maxwihlborg/fq/internal/value"
)

// JSON decodes src into the value model, failing the test on error.
func JSON(t testing.TB, src string) any {
	t.Helper()
	v, err := value.Decode([]byte(src))
	require.NoError(t, err)
	return v
}

// Materialize drains every iterable in v, failing the test on error.
func Materialize(t testing.TB, v any) any {
	t.Helper()
	m, err := value.Materialize(v)
	require.NoError(t, err)
	return m
}
