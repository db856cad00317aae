package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/maxwihlborg/fq/internal/kernel"
	"github.com/maxwihlborg/fq/internal/value"
)

// Scenario defines a conformance test scenario: a sequence of queries run
// against an input, with expectations on each result.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Input is the document every step runs against unless the step
	// overrides it. Absent means null.
	Input any `yaml:"input,omitempty"`

	// Flow contains the queries to run, in order.
	Flow []FlowStep `yaml:"flow"`

	// Assertions are evaluated against the trace after the flow completes.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// FlowStep runs a single query.
type FlowStep struct {
	Query string `yaml:"query"`

	// Input replaces the scenario input for this step when present.
	Input yaml.Node `yaml:"input,omitempty"`

	// Expect specifies the expected result. If nil the step must succeed.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies expected step behavior.
type ExpectClause struct {
	// Output is the expected materialized result. A yaml.Node keeps an
	// explicit null distinct from an absent key.
	Output yaml.Node `yaml:"output,omitempty"`

	// Error is the expected error code, e.g. "UNKNOWN_OPERATOR".
	Error string `yaml:"error,omitempty"`

	// Warnings are the expected type warning messages, in order. Nil skips
	// the check; an empty list requires no warnings.
	Warnings []string `yaml:"warnings,omitempty"`
}

// HasOutput reports whether the clause names an expected output.
func (e *ExpectClause) HasOutput() bool {
	return e.Output.Kind != 0
}

// Assertion validates the trace.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Step is the index of the flow step the assertion inspects.
	Step int `yaml:"step"`

	// Value is the element searched for by output_contains.
	Value any `yaml:"value,omitempty"`

	// Count is the expected number of warnings (warning_count).
	Count int `yaml:"count,omitempty"`

	// Shape is the expected result shape (shape).
	Shape string `yaml:"shape,omitempty"`

	// IR is the expected IR rendering (ir_equals).
	IR string `yaml:"ir,omitempty"`
}

// Assertion type constants.
const (
	AssertOutputContains = "output_contains"
	AssertWarningCount   = "warning_count"
	AssertShape          = "shape"
	AssertIREquals       = "ir_equals"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadScenarios loads every *.yaml and *.yml file in dir, sorted by file
// name. The first invalid file aborts loading.
func LoadScenarios(dir string) ([]*Scenario, error) {
	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		paths = append(paths, matches...)
	}
	slices.Sort(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}

	if _, err := value.Normalize(s.Input); err != nil {
		return fmt.Errorf("input: %w", err)
	}

	for i, step := range s.Flow {
		if step.Query == "" {
			return fmt.Errorf("flow[%d]: query is required", i)
		}
		if e := step.Expect; e != nil && !e.HasOutput() && e.Error == "" && e.Warnings == nil {
			return fmt.Errorf("flow[%d].expect: one of output, error or warnings is required", i)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion, len(s.Flow)); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion, steps int) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}
	if a.Step < 0 || a.Step >= steps {
		return fmt.Errorf("assertions[%d]: step %d out of range", index, a.Step)
	}

	switch a.Type {
	case AssertOutputContains:
		if _, err := value.Normalize(a.Value); err != nil {
			return fmt.Errorf("assertions[%d]: value: %w", index, err)
		}
	case AssertWarningCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for warning_count", index)
		}
	case AssertShape:
		if !validShape(a.Shape) {
			return fmt.Errorf("assertions[%d]: unknown shape %q", index, a.Shape)
		}
	case AssertIREquals:
		if a.IR == "" {
			return fmt.Errorf("assertions[%d]: ir is required for ir_equals", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}

func validShape(s string) bool {
	for _, shape := range []kernel.Shape{kernel.Unknown, kernel.Value, kernel.Iterable} {
		if shape.String() == s {
			return true
		}
	}
	return false
}
