// Package harness runs query conformance scenarios.
//
// # Scenario Format
//
// Scenarios are YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	input: [1, 2, 3]
//	flow:
//	  - query: "filter(. > 1)"
//	    expect:
//	      output: [2, 3]
//	  - query: "nope()"
//	    expect:
//	      error: UNKNOWN_OPERATOR
//	assertions:
//	  - type: shape
//	    step: 0
//	    shape: iterable
//
// A step may carry its own input, which replaces the scenario input for that
// step only. An expect clause checks the output, the error code, the type
// warnings, or any combination of them. A step without an expect clause must
// not fail.
//
// # Assertion Types
//
//   - output_contains: the step output is an array containing value
//   - warning_count: the step produced exactly count type warnings
//   - shape: the inferred result shape of the step query
//   - ir_equals: the step IR rendered one node per line
//
// # Golden Files
//
// RunWithGolden snapshots the trace of a scenario under testdata/golden.
// Regenerate with:
//
//	go test ./internal/harness -update
package harness
