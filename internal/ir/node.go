package ir

import (
	"math"
	"slices"
	"strings"

	"github.com/maxwihlborg/fq/internal/ast"
	"github.com/maxwihlborg/fq/internal/value"
)

// Node is any IR node.
type Node interface {
	irNode() // Marker method - seals interface to this package
}

// Num is a numeric constant, possibly the result of folding.
type Num struct {
	Value float64
}

func (*Num) irNode() {}

// ID is a constant string leaf (identifier or string literal).
type ID struct {
	Name string
}

func (*ID) irNode() {}

// FuncCall invokes a kernel operator by name.
type FuncCall struct {
	Name string
	Args []Node
}

func (*FuncCall) irNode() {}

// NewNum creates a Num node.
func NewNum(v float64) *Num {
	return &Num{Value: v}
}

// NewID creates an ID node.
func NewID(name string) *ID {
	return &ID{Name: name}
}

// NewFuncCall creates a FuncCall node.
func NewFuncCall(name string, args ...Node) *FuncCall {
	if args == nil {
		args = []Node{}
	}
	return &FuncCall{Name: name, Args: args}
}

// Lift converts IR back into the equivalent AST.
func Lift(n Node) ast.Node {
	switch node := n.(type) {
	case *Num:
		return ast.NewNum(node.Value)
	case *ID:
		return ast.NewID(node.Name)
	case *FuncCall:
		args := make([]ast.Node, len(node.Args))
		for i, arg := range node.Args {
			args[i] = Lift(arg)
		}
		return ast.NewFuncCall(node.Name, args...)
	default:
		return nil
	}
}

// Equal reports structural equality of two IR trees.
func Equal(a, b Node) bool {
	switch x := a.(type) {
	case *Num:
		y, ok := b.(*Num)
		return ok && (x.Value == y.Value || math.IsNaN(x.Value) && math.IsNaN(y.Value))
	case *ID:
		y, ok := b.(*ID)
		return ok && x.Name == y.Name
	case *FuncCall:
		y, ok := b.(*FuncCall)
		return ok && x.Name == y.Name && slices.EqualFunc(x.Args, y.Args, Equal)
	default:
		return a == nil && b == nil
	}
}

// Show renders the tree in the same layout as ast.Show.
func Show(n Node) string {
	var sb strings.Builder
	show(&sb, "", n)
	return strings.TrimSuffix(sb.String(), "\n")
}

func show(sb *strings.Builder, indent string, n Node) {
	switch node := n.(type) {
	case *Num:
		sb.WriteString(indent + "(nr: " + value.FormatNumber(node.Value) + ")\n")
	case *ID:
		sb.WriteString(indent + "(id: " + node.Name + ")\n")
	case *FuncCall:
		sb.WriteString(indent + "(fn: " + node.Name + "\n")
		for _, arg := range node.Args {
			show(sb, indent+"  ", arg)
		}
		sb.WriteString(indent + ")\n")
	}
}
