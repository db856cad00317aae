package grammar

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/maxwihlborg/fq/internal/ast"
	"github.com/maxwihlborg/fq/internal/combinator"
)

// precedence of each binary operator token; zero means not a binary operator.
var precedence = map[string]int{
	ast.OpEq: 5, ast.OpNeq: 5, ast.OpGt: 5, ast.OpGte: 5, ast.OpLt: 5, ast.OpLte: 5,
	ast.OpMul: 4, ast.OpDiv: 4, ast.OpMod: 4,
	ast.OpAdd: 3, ast.OpSub: 3,
	ast.OpAnd: 2, ast.OpOr: 2,
	ast.OpPipe: 1,
}

// Precedence returns the binding power of a binary operator token, or 0.
func Precedence(op string) int {
	return precedence[op]
}

// Query is the grammar's start rule: an expression with an optional ternary.
var Query = newGrammar()

var parse = combinator.Compile(Lexer, Query)

// Parse compiles src into an AST. It fails with a *combinator.SyntaxError when
// src cannot be tokenized or the grammar does not consume every token.
func Parse(src string) (ast.Node, error) {
	return parse(src)
}

func newGrammar() combinator.Parser[ast.Node] {
	type node = combinator.Parser[ast.Node]
	lit := combinator.Literal

	var expression, primary node
	expr := combinator.Lazy(func() node { return expression })
	prim := combinator.Lazy(func() node { return primary })

	list := func(open, end string) combinator.Parser[[]ast.Node] {
		return combinator.Between(lit(open), combinator.Sep(lit(","), expr), lit(end))
	}

	var climb func(floor int) node
	climb = func(floor int) node {
		return func(pos int, toks []string) combinator.Result[ast.Node] {
			r := prim(pos, toks)
			if !r.OK {
				return r
			}
			lhs, pos := r.Value, r.Pos
			for pos < len(toks) {
				op := toks[pos]
				np := precedence[op]
				if np == 0 || np <= floor {
					break
				}
				rhs := climb(np)(pos+1, toks)
				if !rhs.OK {
					return combinator.Fail[ast.Node]()
				}
				lhs, pos = ast.NewBinaryOp(lhs, op, rhs.Value), rhs.Pos
			}
			return combinator.Ok(pos, lhs)
		}
	}

	branches := combinator.Tuple2(
		combinator.Right(lit("?"), climb(0)),
		combinator.Right(lit(":"), climb(0)),
	)
	expression = combinator.Map(
		combinator.Tuple2(climb(0), combinator.Maybe(branches)),
		func(v combinator.Pair[ast.Node, combinator.Option[combinator.Pair[ast.Node, ast.Node]]]) ast.Node {
			if !v.Second.Present {
				return v.First
			}
			return ast.NewFuncCall("cond", v.First, v.Second.Value.First, v.Second.Value.Second)
		},
	)

	primary = combinator.OneOf(
		combinator.Between(lit("("), expr, lit(")")),
		combinator.Map(list("[", "]"), func(elems []ast.Node) ast.Node {
			return ast.NewFuncCall("array", elems...)
		}),
		combinator.Map(combinator.Tuple2(combinator.Enum("!!", "!", "-", "++", "--"), prim), unary),
		combinator.Map(combinator.Regex(numRe), number),
		node(stringLiteral),
		combinator.Map(combinator.Tuple2(combinator.Regex(identRe), list("(", ")")), call),
		combinator.Map(combinator.Regex(pathRe), path),
		combinator.Map(lit("."), func(string) ast.Node { return ast.NewFuncCall("id") }),
		combinator.Map(combinator.Regex(identRe), func(name string) ast.Node { return ast.NewID(name) }),
	)

	return expr
}

func call(v combinator.Pair[string, []ast.Node]) ast.Node {
	return ast.NewFuncCall(v.First, v.Second...)
}

func unary(v combinator.Pair[string, ast.Node]) ast.Node {
	switch v.First {
	case "!":
		return ast.NewFuncCall("not", v.Second)
	case "!!":
		return ast.NewFuncCall("bool", v.Second)
	case "-":
		return ast.NewBinaryOp(ast.NewNum(-1), ast.OpMul, v.Second)
	case "++":
		return ast.NewBinaryOp(v.Second, ast.OpAdd, ast.NewNum(1))
	default: // "--"
		return ast.NewBinaryOp(v.Second, ast.OpSub, ast.NewNum(1))
	}
}

func number(tok string) ast.Node {
	// The lexer only produces well-formed decimal literals; overflow yields ±Inf.
	f, _ := strconv.ParseFloat(tok, 64)
	return ast.NewNum(f)
}

func path(tok string) ast.Node {
	parts := strings.Split(strings.TrimPrefix(tok, "."), ".")
	keys := make([]ast.Node, len(parts))
	for i, p := range parts {
		keys[i] = ast.NewID(p)
	}
	return ast.NewFuncCall("get", keys...)
}

// stringLiteral matches a JSON string token and yields its unescaped text as
// an ID leaf. Tokens with invalid escapes do not match.
func stringLiteral(pos int, toks []string) combinator.Result[ast.Node] {
	if pos >= len(toks) || !strings.HasPrefix(toks[pos], `"`) {
		return combinator.Fail[ast.Node]()
	}
	var s string
	if err := json.Unmarshal([]byte(toks[pos]), &s); err != nil {
		return combinator.Fail[ast.Node]()
	}
	return combinator.Ok(pos+1, ast.Node(ast.NewID(s)))
}
