package harness

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/maxwihlborg/fq/internal/ir"
	"github.com/maxwihlborg/fq/internal/kernel"
	"github.com/maxwihlborg/fq/internal/ops"
	"github.com/maxwihlborg/fq/internal/query"
	"github.com/maxwihlborg/fq/internal/typecheck"
	"github.com/maxwihlborg/fq/internal/value"
)

// Harness is the scenario execution engine.
type Harness struct {
	kernel *kernel.Kernel
	logger *slog.Logger
}

// Option configures a Harness.
type Option func(*Harness)

// WithKernel runs scenarios against k instead of the standard operators.
func WithKernel(k *kernel.Kernel) Option {
	return func(h *Harness) {
		h.kernel = k
	}
}

// WithLogger sets the logger used while compiling step queries.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harness) {
		h.logger = logger
	}
}

// New creates a Harness. Logs are discarded unless WithLogger is given.
func New(opts ...Option) *Harness {
	h := &Harness{
		kernel: ops.Kernel(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run executes a scenario with a default Harness.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	return New(opts...).Run(scenario)
}

// Run executes a test scenario and returns the result.
//
// Failing steps and unmet expectations are recorded on the Result. The
// returned error is reserved for scenarios that cannot be executed at all,
// such as an input that does not decode.
func (h *Harness) Run(scenario *Scenario) (*Result, error) {
	input, err := value.Normalize(scenario.Input)
	if err != nil {
		return nil, fmt.Errorf("scenario input: %w", err)
	}

	result := NewResult()
	for i, step := range scenario.Flow {
		if err := h.executeStep(i, step, input, result); err != nil {
			return nil, fmt.Errorf("flow[%d]: %w", i, err)
		}
	}

	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(errMsg)
	}

	return result, nil
}

func (h *Harness) executeStep(i int, step FlowStep, input any, result *Result) error {
	if step.Input.Kind != 0 {
		var err error
		if input, err = decodeNode(&step.Input); err != nil {
			return fmt.Errorf("input: %w", err)
		}
	}

	ev := TraceEvent{Seq: int64(i), Query: step.Query}

	prog, err := query.Compile(step.Query, query.WithKernel(h.kernel), query.WithLogger(h.logger))
	if err == nil {
		ev.IR = ir.Show(prog.IR)
		ev.Shape = typecheck.InferType(prog.IR, h.kernel).String()
		for _, w := range prog.Warnings {
			ev.Warnings = append(ev.Warnings, w.Message)
		}

		var out any
		if out, err = prog.Run(input); err == nil {
			ev.Output, err = value.Materialize(out)
		}
	}
	if err != nil {
		ev.Error = query.ErrorCode(err)
		ev.Message = err.Error()
		ev.Output = nil
	}

	h.logger.Debug("scenario step", "seq", i, "query", step.Query, "error", ev.Error)
	result.AddStep(ev)

	return h.validateExpect(i, step.Expect, ev, result)
}

func (h *Harness) validateExpect(i int, expect *ExpectClause, ev TraceEvent, result *Result) error {
	if expect == nil {
		if ev.Failed() {
			result.AddError(fmt.Sprintf("flow[%d]: unexpected error: %s", i, ev.Message))
		}
		return nil
	}

	if expect.Error != "" {
		if ev.Error != expect.Error {
			result.AddError(fmt.Sprintf("flow[%d]: expected error %s, got %s", i, expect.Error, describe(ev)))
		}
	} else if ev.Failed() {
		result.AddError(fmt.Sprintf("flow[%d]: unexpected error: %s", i, ev.Message))
		return nil
	}

	if expect.HasOutput() && !ev.Failed() {
		want, err := decodeNode(&expect.Output)
		if err != nil {
			return fmt.Errorf("expect.output: %w", err)
		}
		if !value.Equal(want, ev.Output) {
			result.AddError(fmt.Sprintf("flow[%d]: output mismatch: expected %s, got %s",
				i, value.ToString(want), value.ToString(ev.Output)))
		}
	}

	if expect.Warnings != nil && !slices.Equal(expect.Warnings, ev.Warnings) {
		result.AddError(fmt.Sprintf("flow[%d]: warnings mismatch: expected %q, got %q", i, expect.Warnings, ev.Warnings))
	}

	return nil
}

func describe(ev TraceEvent) string {
	if ev.Failed() {
		return ev.Error
	}
	return "success"
}

func decodeNode(n *yaml.Node) (any, error) {
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, err
	}
	return value.Normalize(v)
}
