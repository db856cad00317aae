package harness

// TraceEvent records one executed flow step.
type TraceEvent struct {
	Seq      int64    `json:"seq"`
	Query    string   `json:"query"`
	IR       string   `json:"ir,omitempty"`
	Shape    string   `json:"shape,omitempty"`
	Warnings []string `json:"warnings,omitempty"`

	// Output is the materialized result. Meaningless when Error is set.
	Output any `json:"output,omitempty"`

	// Error is the error code of a failed step; Message is its text.
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// Failed reports whether the step returned an error.
func (e TraceEvent) Failed() bool {
	return e.Error != ""
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every expect clause and assertion held.
	Pass bool `json:"pass"`

	// Trace has one event per flow step, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddStep appends a step to the trace.
func (r *Result) AddStep(ev TraceEvent) {
	r.Trace = append(r.Trace, ev)
}

// Step returns the trace event at index i.
func (r *Result) Step(i int) (TraceEvent, bool) {
	if i < 0 || i >= len(r.Trace) {
		return TraceEvent{}, false
	}
	return r.Trace[i], true
}
