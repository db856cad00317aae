package value

import "iter"

// Iterable is a lazy, pull-based sequence of values produced by a pipeline
// stage.
//
// An Iterable is single-pass: elements are computed only when the consumer
// asks for them, and once iteration has started the Iterable is spent. A
// second call to All yields nothing. Stopping early (breaking out of the
// range loop) leaves the rest of the upstream pipeline uncomputed.
//
// Iterables are not safe for concurrent use.
type Iterable struct {
	seq      iter.Seq2[any, error]
	consumed bool
}

// NewIterable wraps seq. An iteration that yields a non-nil error must stop
// afterwards; consumers treat the error as terminal.
func NewIterable(seq iter.Seq2[any, error]) *Iterable {
	return &Iterable{seq: seq}
}

// FromSlice returns an Iterable over the elements of xs in order.
func FromSlice(xs []any) *Iterable {
	return NewIterable(func(yield func(any, error) bool) {
		for _, x := range xs {
			if !yield(x, nil) {
				return
			}
		}
	})
}

// Empty returns an Iterable with no elements.
func Empty() *Iterable {
	return NewIterable(func(func(any, error) bool) {})
}

// All returns the sequence of elements. Only the first iteration produces
// anything.
func (it *Iterable) All() iter.Seq2[any, error] {
	return func(yield func(any, error) bool) {
		if it.consumed {
			return
		}
		it.consumed = true
		it.seq(yield)
	}
}

// Consumed reports whether iteration has started.
func (it *Iterable) Consumed() bool {
	return it.consumed
}

// Iter returns v as an Iterable. Arrays are iterated element by element;
// anything else that is not already an Iterable is a RuntimeError attributed
// to op.
func Iter(op string, v any) (*Iterable, error) {
	switch val := v.(type) {
	case *Iterable:
		return val, nil
	case []any:
		return FromSlice(val), nil
	default:
		return nil, NewRuntimeError(op, "cannot iterate over %s", TypeName(v))
	}
}

// Collect drains v into a slice. Arrays are returned unchanged.
func Collect(op string, v any) ([]any, error) {
	if arr, ok := v.([]any); ok {
		return arr, nil
	}
	it, err := Iter(op, v)
	if err != nil {
		return nil, err
	}

	var out []any
	for x, err := range it.All() {
		if err != nil {
			return nil, err
		}
		out = append(out, x)
	}
	if out == nil {
		out = []any{}
	}
	return out, nil
}

// Materialize replaces every Iterable reachable from v with the array of its
// elements, so the result can be encoded or compared.
func Materialize(v any) (any, error) {
	switch val := v.(type) {
	case *Iterable:
		elems, err := Collect("", val)
		if err != nil {
			return nil, err
		}
		return Materialize(elems)
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			m, err := Materialize(elem)
			if err != nil {
				return nil, err
			}
			out[i] = m
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			m, err := Materialize(elem)
			if err != nil {
				return nil, err
			}
			out[k] = m
		}
		return out, nil
	default:
		return v, nil
	}
}
