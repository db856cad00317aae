package compiler

import (
	"fmt"
	"log/slog"

	"github.com/maxwihlborg/fq/internal/ir"
	"github.com/maxwihlborg/fq/internal/kernel"
)

// Option configures Build.
type Option func(*builder)

// WithLogger sets the logger that traces operator construction.
func WithLogger(logger *slog.Logger) Option {
	return func(b *builder) {
		b.logger = logger
	}
}

type builder struct {
	kernel *kernel.Kernel
	logger *slog.Logger
}

// Build lowers an IR tree into an executable unit.
//
// Num and ID leaves become units returning their constant (a number and a
// string respectively). Every call is resolved against k, its arguments are
// built first and handed to the operator's constructor. The returned unit is
// reusable across inputs.
//
// Build fails with a *BuildError when a call names an operator k does not
// have or a constructor rejects its arguments.
func Build(node ir.Node, k *kernel.Kernel, opts ...Option) (kernel.Unit, error) {
	b := &builder{kernel: k, logger: slog.Default()}
	for _, opt := range opts {
		opt(b)
	}
	return b.build(node)
}

func (b *builder) build(node ir.Node) (kernel.Unit, error) {
	switch n := node.(type) {
	case *ir.Num:
		return constant(n.Value), nil
	case *ir.ID:
		return constant(n.Name), nil
	case *ir.FuncCall:
		return b.buildCall(n)
	default:
		return nil, fmt.Errorf("build: unsupported IR node %T", node)
	}
}

func (b *builder) buildCall(call *ir.FuncCall) (kernel.Unit, error) {
	d, ok := b.kernel.Lookup(call.Name)
	if !ok {
		return nil, &BuildError{
			Code:     ErrCodeUnknownOperator,
			Operator: call.Name,
			Message:  fmt.Sprintf("unknown operator %q", call.Name),
		}
	}

	args := make([]kernel.Unit, len(call.Args))
	for i, arg := range call.Args {
		u, err := b.build(arg)
		if err != nil {
			return nil, err
		}
		args[i] = u
	}

	u, err := d.Build(args)
	if err != nil {
		return nil, &BuildError{
			Code:     ErrCodeInvalidArguments,
			Operator: call.Name,
			Message:  err.Error(),
			Err:      err,
		}
	}

	b.logger.Debug("built operator",
		"name", call.Name,
		"canonical", d.Name,
		"kind", d.Kind.String(),
		"args", len(args))

	return u, nil
}

func constant(v any) kernel.Unit {
	return func(any) (any, error) {
		return v, nil
	}
}
