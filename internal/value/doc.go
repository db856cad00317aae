// Package value defines the JSON-shaped runtime values that queries operate on.
//
// A value is one of nil, bool, float64, string, []any or map[string]any, or a
// *Iterable produced by a pipeline stage. Absent results (a missing key, a
// null-safe lookup through null) are represented as nil; JSON has no separate
// "undefined".
//
// This package imports nothing internal. Every other package that touches
// runtime data depends on it.
package value
