// Package ast defines the syntax tree produced by the query grammar.
//
// Node is a sealed interface: only Num, ID, BinaryOp and FuncCall implement
// it, so consumers can switch exhaustively. Trees are built bottom-up by the
// grammar and never mutated afterwards.
package ast

import (
	"math"
	"slices"
	"strings"

	"github.com/maxwihlborg/fq/internal/value"
)

// Binary operator symbols.
const (
	OpEq   = "=="
	OpNeq  = "!="
	OpGt   = ">"
	OpGte  = ">="
	OpLt   = "<"
	OpLte  = "<="
	OpMul  = "*"
	OpDiv  = "/"
	OpMod  = "%"
	OpAdd  = "+"
	OpSub  = "-"
	OpAnd  = "&&"
	OpOr   = "||"
	OpPipe = "|"
)

// Node is any syntax tree node.
type Node interface {
	astNode() // Marker method - seals interface to this package
}

// Num is a numeric literal.
type Num struct {
	Value float64
}

func (*Num) astNode() {}

// ID is a bare identifier or a quoted string literal. The two share this
// node; a string literal "a" and an identifier a are indistinguishable here.
type ID struct {
	Name string
}

func (*ID) astNode() {}

// BinaryOp is an infix expression. It only exists in the AST; IR reduction
// replaces every BinaryOp.
type BinaryOp struct {
	LHS Node
	Op  string
	RHS Node
}

func (*BinaryOp) astNode() {}

// FuncCall invokes a named operator with argument expressions.
type FuncCall struct {
	Name string
	Args []Node
}

func (*FuncCall) astNode() {}

// NewNum creates a Num node.
func NewNum(v float64) *Num {
	return &Num{Value: v}
}

// NewID creates an ID node.
func NewID(name string) *ID {
	return &ID{Name: name}
}

// NewBinaryOp creates a BinaryOp node.
func NewBinaryOp(lhs Node, op string, rhs Node) *BinaryOp {
	return &BinaryOp{LHS: lhs, Op: op, RHS: rhs}
}

// NewFuncCall creates a FuncCall node. A nil args slice is stored as empty.
func NewFuncCall(name string, args ...Node) *FuncCall {
	if args == nil {
		args = []Node{}
	}
	return &FuncCall{Name: name, Args: args}
}

// Equal reports structural equality of two trees.
func Equal(a, b Node) bool {
	switch x := a.(type) {
	case *Num:
		y, ok := b.(*Num)
		return ok && (x.Value == y.Value || math.IsNaN(x.Value) && math.IsNaN(y.Value))
	case *ID:
		y, ok := b.(*ID)
		return ok && x.Name == y.Name
	case *BinaryOp:
		y, ok := b.(*BinaryOp)
		return ok && x.Op == y.Op && Equal(x.LHS, y.LHS) && Equal(x.RHS, y.RHS)
	case *FuncCall:
		y, ok := b.(*FuncCall)
		return ok && x.Name == y.Name && slices.EqualFunc(x.Args, y.Args, Equal)
	default:
		return a == nil && b == nil
	}
}

// Show renders the tree one node per line, children indented by two spaces.
func Show(n Node) string {
	var lines []string
	show(&lines, "", n)
	return strings.Join(lines, "\n")
}

func show(lines *[]string, indent string, n Node) {
	switch node := n.(type) {
	case *Num:
		*lines = append(*lines, indent+"(nr: "+value.FormatNumber(node.Value)+")")
	case *ID:
		*lines = append(*lines, indent+"(id: "+node.Name+")")
	case *BinaryOp:
		*lines = append(*lines, indent+"("+node.Op)
		show(lines, indent+"  ", node.LHS)
		show(lines, indent+"  ", node.RHS)
		*lines = append(*lines, indent+")")
	case *FuncCall:
		*lines = append(*lines, indent+"(fn: "+node.Name)
		for _, arg := range node.Args {
			show(lines, indent+"  ", arg)
		}
		*lines = append(*lines, indent+")")
	}
}
