package harness

import (
	"fmt"
	"strings"

	"github.com/maxwihlborg/fq/internal/value"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, event := range e.Trace {
		status := "ok"
		if event.Failed() {
			status = event.Error
		}
		fmt.Fprintf(&buf, "  [%d] %s (%s)\n", event.Seq, event.Query, status)
	}

	return buf.String()
}

// EvaluateAssertions runs every assertion against result and returns the
// failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluateAssertion(result, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %s", i, err))
		}
	}
	return errs
}

func evaluateAssertion(result *Result, a Assertion) error {
	ev, ok := result.Step(a.Step)
	if !ok {
		return fmt.Errorf("step %d not in trace", a.Step)
	}

	switch a.Type {
	case AssertOutputContains:
		return assertOutputContains(result.Trace, ev, a)
	case AssertWarningCount:
		return assertWarningCount(result.Trace, ev, a)
	case AssertShape:
		return assertShape(result.Trace, ev, a)
	case AssertIREquals:
		return assertIREquals(result.Trace, ev, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// assertOutputContains checks that the step output is an array holding an
// element deep-equal to the assertion value.
func assertOutputContains(trace []TraceEvent, ev TraceEvent, a Assertion) error {
	want, err := value.Normalize(a.Value)
	if err != nil {
		return err
	}

	if arr, ok := ev.Output.([]any); ok && !ev.Failed() {
		for _, elem := range arr {
			if value.Equal(elem, want) {
				return nil
			}
		}
	}

	return &AssertionError{
		Type:     AssertOutputContains,
		Expected: fmt.Sprintf("step %d output containing %s", a.Step, value.ToString(want)),
		Actual:   actualOutput(ev),
		Trace:    trace,
	}
}

func assertWarningCount(trace []TraceEvent, ev TraceEvent, a Assertion) error {
	if len(ev.Warnings) == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertWarningCount,
		Expected: fmt.Sprintf("%d warnings", a.Count),
		Actual:   fmt.Sprintf("%d warnings %q", len(ev.Warnings), ev.Warnings),
		Trace:    trace,
	}
}

func assertShape(trace []TraceEvent, ev TraceEvent, a Assertion) error {
	if ev.Shape == a.Shape {
		return nil
	}
	return &AssertionError{
		Type:     AssertShape,
		Expected: a.Shape,
		Actual:   orNone(ev.Shape),
		Trace:    trace,
	}
}

// assertIREquals compares IR renderings, ignoring surrounding whitespace so
// YAML block scalars can be used.
func assertIREquals(trace []TraceEvent, ev TraceEvent, a Assertion) error {
	if strings.TrimSpace(ev.IR) == strings.TrimSpace(a.IR) {
		return nil
	}
	return &AssertionError{
		Type:     AssertIREquals,
		Expected: a.IR,
		Actual:   orNone(ev.IR),
		Trace:    trace,
	}
}

func actualOutput(ev TraceEvent) string {
	if ev.Failed() {
		return "error " + ev.Error
	}
	return value.ToString(ev.Output)
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
