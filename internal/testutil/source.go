package testutil

import (
	"sync"

	"github.com/maxwihlborg/fq/internal/value"
)

// CountingSource hands out iterables over a fixed list of elements and
// records how many elements consumers actually pulled.
//
// Laziness tests use it to prove that a pipeline stops pulling once it has
// what it needs, e.g. take(2) over an unbounded source.
//
// Thread-safety: Pulled and Reset are safe for concurrent use.
type CountingSource struct {
	mu     sync.Mutex
	elems  []any
	pulled int
	cycle  bool
}

// NewCountingSource creates a source over elems.
func NewCountingSource(elems ...any) *CountingSource {
	return &CountingSource{elems: elems}
}

// NewCyclingSource creates a source that repeats elems forever.
func NewCyclingSource(elems ...any) *CountingSource {
	return &CountingSource{elems: elems, cycle: true}
}

// Iterable returns a fresh single-pass iterable over the source.
func (s *CountingSource) Iterable() *value.Iterable {
	return value.NewIterable(func(yield func(any, error) bool) {
		for i := 0; i < len(s.elems) || (s.cycle && len(s.elems) > 0); i++ {
			s.mu.Lock()
			s.pulled++
			s.mu.Unlock()
			if !yield(s.elems[i%len(s.elems)], nil) {
				return
			}
		}
	})
}

// Pulled returns the number of elements handed out so far.
func (s *CountingSource) Pulled() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pulled
}

// Reset sets the pull count back to 0.
func (s *CountingSource) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pulled = 0
}
