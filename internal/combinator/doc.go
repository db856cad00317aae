// Package combinator provides generic, composable parsing primitives over a
// flat token sequence.
//
// A Parser[T] is a pure function from (position, tokens) to a Result[T].
// Parsers hold no mutable state and can be shared freely; grammars are built
// by composing them with Tuple, OneOf, Many, Sep, Map and Lazy.
//
// Failures are binary: a Result either matched at a position or it did not.
// Only Compile, which drives a grammar over a whole input, reports where
// lexing or parsing stopped.
package combinator
