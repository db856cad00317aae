// Package query compiles query strings into runnable programs.
//
// Compilation runs the whole pipeline: the grammar parses the source into an
// AST, ir.Reduce folds constants and lowers operators, typecheck reports
// shape warnings and compiler.Build turns the IR into a unit. Syntax errors
// and unknown operators are fatal; type warnings are only logged and kept on
// the Program.
//
// A Program is immutable and may be run concurrently on different inputs.
// When its result is a *value.Iterable, that iterable is single-pass.
package query
