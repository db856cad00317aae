package harness

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/maxwihlborg/fq/internal/ast"
	"github.com/maxwihlborg/fq/internal/ir"
	"github.com/maxwihlborg/fq/internal/printer"
	"github.com/maxwihlborg/fq/internal/query"
)

// TraceSnapshot captures the complete trace for a scenario execution.
type TraceSnapshot struct {
	ScenarioName string       `json:"scenario_name"`
	Trace        []TraceEvent `json:"trace"`
}

// toValue converts a TraceSnapshot into the value model so it can be printed
// with sorted keys.
func (s *TraceSnapshot) toValue() map[string]any {
	traceList := make([]any, len(s.Trace))
	for i, event := range s.Trace {
		eventMap := map[string]any{
			"seq":   float64(event.Seq),
			"query": event.Query,
		}
		if event.IR != "" {
			eventMap["ir"] = event.IR
		}
		if event.Shape != "" {
			eventMap["shape"] = event.Shape
		}
		if len(event.Warnings) > 0 {
			warnings := make([]any, len(event.Warnings))
			for j, w := range event.Warnings {
				warnings[j] = w
			}
			eventMap["warnings"] = warnings
		}
		if event.Failed() {
			eventMap["error"] = event.Error
			eventMap["message"] = event.Message
		} else {
			eventMap["output"] = event.Output
		}
		traceList[i] = eventMap
	}

	return map[string]any{
		"scenario_name": s.ScenarioName,
		"trace":         traceList,
	}
}

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

// RunWithGolden executes a scenario and compares its trace against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario, opts ...Option) (*Result, error) {
	t.Helper()

	result, err := Run(scenario, opts...)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result's trace against a golden file
// without re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := Snapshot(scenarioName, result)
	if err != nil {
		return err
	}

	newGoldie(t).Assert(t, scenarioName, data)
	return nil
}

// Snapshot renders the trace of result as indented JSON with sorted keys,
// the format stored in golden files.
func Snapshot(scenarioName string, result *Result) ([]byte, error) {
	snapshot := TraceSnapshot{
		ScenarioName: scenarioName,
		Trace:        result.Trace,
	}

	var buf bytes.Buffer
	if err := printer.New(&buf).Print(snapshot.toValue()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// AssertTreeGolden compiles src and compares its AST and IR renderings
// against testdata/golden/{name}.golden.
func AssertTreeGolden(t *testing.T, name, src string) error {
	t.Helper()

	tree, err := query.Parse(src)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	buf.WriteString("ex: " + src + "\n\n")
	buf.WriteString(ast.Show(tree) + "\n\n")
	buf.WriteString(ir.Show(query.Reduce(tree)) + "\n")

	newGoldie(t).Assert(t, name, buf.Bytes())
	return nil
}
