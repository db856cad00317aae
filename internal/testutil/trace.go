package testutil

// FixedTraceGenerator returns the same trace ID every time.
//
// The CLI stamps every JSON response with a trace ID. Tests inject this
// generator so responses can be compared byte for byte.
//
// Thread-safety: FixedTraceGenerator is stateless and safe for concurrent use.
type FixedTraceGenerator struct {
	id string
}

// NewFixedTraceGenerator creates a generator for id.
//
// If id is empty, Generate returns "test-trace-default".
func NewFixedTraceGenerator(id string) *FixedTraceGenerator {
	if id == "" {
		id = "test-trace-default"
	}
	return &FixedTraceGenerator{id: id}
}

// Generate returns the fixed trace ID.
func (g *FixedTraceGenerator) Generate() string {
	return g.id
}
