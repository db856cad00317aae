// Package typecheck statically checks the shape contracts of a query.
//
// Findings are advisory. A query with type errors still builds and runs;
// callers decide whether to surface the warnings. Unknown operators are
// reported here too, while compiler.Build treats them as fatal.
package typecheck

import (
	"fmt"

	"github.com/maxwihlborg/fq/internal/ir"
	"github.com/maxwihlborg/fq/internal/kernel"
)

// TypeError is a non-fatal finding about one call in the tree.
type TypeError struct {
	Message string  `json:"message"`
	Node    ir.Node `json:"-"`
}

// Error implements the error interface.
func (e TypeError) Error() string {
	return e.Message
}

// Check walks node and returns every shape mismatch and unknown operator
// it finds, in tree order. A clean tree returns an empty slice.
//
// The root receives an unknown shape. Inside flow, each stage receives the
// inferred output of the stage before it; every other call's arguments are
// checked on their own, with no assumption about what they receive.
func Check(node ir.Node, k *kernel.Kernel) []TypeError {
	c := &checker{kernel: k, errs: []TypeError{}}
	c.check(node, kernel.Unknown, false)
	return c.errs
}

type checker struct {
	kernel *kernel.Kernel
	errs   []TypeError
}

func (c *checker) check(node ir.Node, in kernel.Shape, hasInput bool) {
	call, ok := node.(*ir.FuncCall)
	if !ok {
		return
	}

	d, ok := c.kernel.Lookup(call.Name)
	if !ok {
		c.errs = append(c.errs, TypeError{
			Message: fmt.Sprintf("Unknown operator: %s", call.Name),
			Node:    call,
		})
		return
	}

	if hasInput && !d.In().Compatible(in) {
		c.errs = append(c.errs, TypeError{
			Message: fmt.Sprintf("%s expects %s, but receives %s", call.Name, d.In(), in),
			Node:    call,
		})
	}

	if d.Name == ir.FlowOp {
		cur := in
		for _, stage := range call.Args {
			c.check(stage, cur, true)
			cur = InferType(stage, c.kernel)
		}
		return
	}

	for _, arg := range call.Args {
		c.check(arg, kernel.Unknown, false)
	}
}

// InferType returns the shape node evaluates to. Constants are values, calls
// have their operator's output shape, and flow has the shape of its last
// stage. Unknown operators infer as kernel.Unknown.
func InferType(node ir.Node, k *kernel.Kernel) kernel.Shape {
	switch n := node.(type) {
	case *ir.Num, *ir.ID:
		return kernel.Value
	case *ir.FuncCall:
		d, ok := k.Lookup(n.Name)
		if !ok {
			return kernel.Unknown
		}
		if d.Name == ir.FlowOp && len(n.Args) > 0 {
			return InferType(n.Args[len(n.Args)-1], k)
		}
		return d.Out()
	default:
		return kernel.Unknown
	}
}
