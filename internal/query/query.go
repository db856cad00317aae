package query

import (
	"fmt"
	"log/slog"

	"github.com/maxwihlborg/fq/internal/ast"
	"github.com/maxwihlborg/fq/internal/compiler"
	"github.com/maxwihlborg/fq/internal/grammar"
	"github.com/maxwihlborg/fq/internal/ir"
	"github.com/maxwihlborg/fq/internal/kernel"
	"github.com/maxwihlborg/fq/internal/ops"
	"github.com/maxwihlborg/fq/internal/typecheck"
)

// Option configures Compile and Check.
type Option func(*options)

type options struct {
	kernel *kernel.Kernel
	logger *slog.Logger
}

// WithKernel compiles against k instead of the standard operators.
func WithKernel(k *kernel.Kernel) Option {
	return func(o *options) {
		o.kernel = k
	}
}

// WithLogger sets the logger for compilation diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func newOptions(opts []Option) *options {
	o := &options{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	if o.kernel == nil {
		o.kernel = ops.Kernel()
	}
	return o
}

// Program is a compiled query.
type Program struct {
	Source   string
	AST      ast.Node
	IR       ir.Node
	Warnings []typecheck.TypeError

	unit kernel.Unit
}

// Parse parses src into an AST.
func Parse(src string) (ast.Node, error) {
	return grammar.Parse(src)
}

// Reduce folds and lowers an AST into IR.
func Reduce(n ast.Node) ir.Node {
	return ir.Reduce(n)
}

// Compile parses, checks and builds src. Type warnings do not fail
// compilation; they are logged at warn level and returned on the Program.
func Compile(src string, opts ...Option) (*Program, error) {
	o := newOptions(opts)

	tree, err := Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parse query: %w", err)
	}
	node := Reduce(tree)

	warnings := typecheck.Check(node, o.kernel)
	for _, w := range warnings {
		o.logger.Warn("type warning", "query", src, "message", w.Message)
	}

	unit, err := compiler.Build(node, o.kernel, compiler.WithLogger(o.logger))
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	o.logger.Debug("query compiled", "query", src, "warnings", len(warnings))

	return &Program{
		Source:   src,
		AST:      tree,
		IR:       node,
		Warnings: warnings,
		unit:     unit,
	}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(src string, opts ...Option) *Program {
	p, err := Compile(src, opts...)
	if err != nil {
		panic(err)
	}
	return p
}

// Check parses src and returns its type warnings without building it.
// Unknown operators are reported as warnings here, not as errors.
func Check(src string, opts ...Option) ([]typecheck.TypeError, error) {
	o := newOptions(opts)

	tree, err := Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parse query: %w", err)
	}
	return typecheck.Check(Reduce(tree), o.kernel), nil
}

// Run evaluates the program against input. Iterable results are returned
// unconsumed.
func (p *Program) Run(input any) (any, error) {
	return p.unit(input)
}
