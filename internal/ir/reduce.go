package ir

import (
	"math"
	"slices"

	"github.com/maxwihlborg/fq/internal/ast"
	"github.com/maxwihlborg/fq/internal/value"
)

// FlowOp is the kernel operator that `|` lowers to.
const FlowOp = "flow"

// lowered maps each binary operator to the kernel operator implementing it.
var lowered = map[string]string{
	ast.OpSub:  "sub",
	ast.OpAdd:  "add",
	ast.OpMul:  "mul",
	ast.OpDiv:  "div",
	ast.OpMod:  "mod",
	ast.OpAnd:  "opAnd",
	ast.OpOr:   "opOr",
	ast.OpEq:   "eq",
	ast.OpNeq:  "neq",
	ast.OpGt:   "gt",
	ast.OpGte:  "gte",
	ast.OpLt:   "lt",
	ast.OpLte:  "lte",
	ast.OpPipe: FlowOp,
}

// LoweredName returns the kernel operator a binary operator lowers to.
func LoweredName(op string) (string, bool) {
	name, ok := lowered[op]
	return name, ok
}

// Reduce folds constants and lowers every BinaryOp in n.
//
// A BinaryOp whose operands both reduce to numbers is evaluated directly.
// Anything else becomes a call to the operator named by LoweredName. The left
// operand of a pipe that is itself a lowered pipe is flattened, so a | b | c
// becomes flow(a, b, c).
func Reduce(n ast.Node) Node {
	switch node := n.(type) {
	case *ast.Num:
		return NewNum(node.Value)
	case *ast.ID:
		return NewID(node.Name)
	case *ast.FuncCall:
		args := make([]Node, len(node.Args))
		for i, arg := range node.Args {
			args[i] = Reduce(arg)
		}
		return NewFuncCall(node.Name, args...)
	case *ast.BinaryOp:
		return reduceBinary(node)
	default:
		// Unreachable for trees built by the grammar.
		panic("ir: unknown AST node")
	}
}

func reduceBinary(node *ast.BinaryOp) Node {
	lhs := Reduce(node.LHS)
	rhs := Reduce(node.RHS)

	a, aNum := lhs.(*Num)
	b, bNum := rhs.(*Num)
	if aNum && bNum {
		if v, ok := fold(node.Op, a.Value, b.Value); ok {
			return NewNum(v)
		}
	}

	name, ok := lowered[node.Op]
	if !ok {
		panic("ir: unknown binary operator " + node.Op)
	}

	if node.Op == ast.OpPipe {
		if call, ok := node.LHS.(*ast.BinaryOp); ok && call.Op == ast.OpPipe {
			if flow, ok := lhs.(*FuncCall); ok && flow.Name == FlowOp {
				return NewFuncCall(FlowOp, append(slices.Clone(flow.Args), rhs)...)
			}
		}
	}

	return NewFuncCall(name, lhs, rhs)
}

// fold evaluates op over two constants. Comparisons yield 1 or 0; && and ||
// keep the deciding operand rather than a boolean.
func fold(op string, a, b float64) (float64, bool) {
	switch op {
	case ast.OpSub:
		return a - b, true
	case ast.OpAdd:
		return a + b, true
	case ast.OpMul:
		return a * b, true
	case ast.OpDiv:
		return a / b, true
	case ast.OpMod:
		return math.Mod(a, b), true
	case ast.OpEq:
		return boolNum(a == b), true
	case ast.OpNeq:
		return boolNum(a != b), true
	case ast.OpGt:
		return boolNum(a > b), true
	case ast.OpGte:
		return boolNum(a >= b), true
	case ast.OpLt:
		return boolNum(a < b), true
	case ast.OpLte:
		return boolNum(a <= b), true
	case ast.OpAnd:
		if !value.Truthy(a) {
			return a, true
		}
		return b, true
	case ast.OpOr:
		if value.Truthy(a) {
			return a, true
		}
		return b, true
	default:
		return 0, false
	}
}

func boolNum(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
