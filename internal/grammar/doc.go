// Package grammar implements the query language: its lexer and a
// precedence-climbing expression grammar built from package combinator.
//
// Binary operators, loosest to tightest:
//
//	|                    1  pipe
//	&& ||                2  logical
//	+ -                  3  additive
//	* / %                4  multiplicative
//	== != > >= < <=      5  comparison
//
// All binary operators are left-associative. Unary prefixes (! !! - ++ --)
// bind tighter than any of them and are desugared on the spot. A single
// optional ternary (c ? a : b) wraps a whole expression.
//
// Shorthands:
//
//	.a.b.c, a.b.c   get(a, b, c)
//	.               id()
//	[x, y]          array(x, y)
//	"text"          string constant (an ID leaf)
package grammar
