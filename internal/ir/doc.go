// Package ir provides the intermediate representation that queries are type
// checked and compiled from.
//
// IR is the AST after constant folding. It has the same leaves and calls as
// the AST but no binary operator node: Reduce either folds a BinaryOp into a
// Num or lowers it to a FuncCall naming the equivalent kernel operator. The
// Node interface is sealed, so an IR tree containing a binary operator cannot
// be constructed.
//
// Key invariants:
//   - Reduce is idempotent: Reduce(Lift(Reduce(a))) equals Reduce(a)
//   - FuncCall arguments keep the arity and order of the source call
//   - Trees are immutable once built
package ir
