package ops

import (
	"math"
	"slices"

	"github.com/maxwihlborg/fq/internal/kernel"
	"github.com/maxwihlborg/fq/internal/value"
)

var mappers = []kernel.Descriptor{
	{
		Name: "map", Kind: kernel.Mapper,
		Doc:   "map(f) yields f of each element",
		Build: buildMap,
	},
	{
		Name: "filter", Kind: kernel.Mapper,
		Doc:   "filter(f) yields the elements for which f is truthy",
		Build: buildFilter,
	},
	{
		Name: "flatMap", Aliases: []string{"chain"}, Kind: kernel.Mapper,
		Doc:   "flatMap(f) yields every element of f of each element",
		Build: buildFlatMap,
	},
	{
		Name: "take", Kind: kernel.Mapper,
		Doc:   "take(n) yields the first n elements",
		Build: buildTake,
	},
	{
		Name: "skip", Kind: kernel.Mapper,
		Doc:   "skip(n) drops the first n elements",
		Build: buildSkip,
	},
	{
		Name: "tail", Kind: kernel.Mapper,
		Doc:   "tail() drops the first element",
		Build: buildTail,
	},
	{
		Name: "sort", Kind: kernel.Mapper,
		Doc:   "sort([f]) orders elements by f, keeping the original order of ties",
		Build: buildSort,
	},
	{
		Name: "reverse", Kind: kernel.Mapper,
		Doc:   "reverse() yields the elements last to first",
		Build: buildReverse,
	},
	{
		Name: "unique", Aliases: []string{"uniq"}, Kind: kernel.Mapper,
		Doc:   "unique([f]) drops elements whose f was already seen",
		Build: buildUnique,
	},
}

// stream wraps in as an iterable and returns a lazy iterable driven by body.
// Errors from the source are forwarded and end the iteration.
func stream(op string, in any, body func(x any, yield func(any, error) bool) bool) (any, error) {
	src, err := value.Iter(op, in)
	if err != nil {
		return nil, err
	}
	return value.NewIterable(func(yield func(any, error) bool) {
		for x, err := range src.All() {
			if err != nil {
				yield(nil, err)
				return
			}
			if !body(x, yield) {
				return
			}
		}
	}), nil
}

func buildMap(args []kernel.Unit) (kernel.Unit, error) {
	if err := arity("map", args, 1, 1); err != nil {
		return nil, err
	}
	f := args[0]
	return func(in any) (any, error) {
		return stream("map", in, func(x any, yield func(any, error) bool) bool {
			v, err := f(x)
			return yield(v, err) && err == nil
		})
	}, nil
}

func buildFilter(args []kernel.Unit) (kernel.Unit, error) {
	if err := arity("filter", args, 1, 1); err != nil {
		return nil, err
	}
	pred := args[0]
	return func(in any) (any, error) {
		return stream("filter", in, func(x any, yield func(any, error) bool) bool {
			ok, err := pred(x)
			if err != nil {
				yield(nil, err)
				return false
			}
			return !value.Truthy(ok) || yield(x, nil)
		})
	}, nil
}

func buildFlatMap(args []kernel.Unit) (kernel.Unit, error) {
	if err := arity("flatMap", args, 1, 1); err != nil {
		return nil, err
	}
	f := args[0]
	return func(in any) (any, error) {
		return stream("flatMap", in, func(x any, yield func(any, error) bool) bool {
			v, err := f(x)
			if err != nil {
				yield(nil, err)
				return false
			}
			inner, err := value.Iter("flatMap", v)
			if err != nil {
				yield(nil, err)
				return false
			}
			for y, err := range inner.All() {
				if !yield(y, err) || err != nil {
					return false
				}
			}
			return true
		})
	}, nil
}

// evalCount evaluates a count argument against the stage input. Negative
// and non-numeric counts are zero.
func evalCount(u kernel.Unit, in any) (int, error) {
	v, err := u(in)
	if err != nil {
		return 0, err
	}
	n := value.ToNumber(v)
	switch {
	case math.IsNaN(n) || n <= 0:
		return 0, nil
	case n >= math.MaxInt:
		return math.MaxInt, nil
	default:
		return int(n), nil
	}
}

func buildTake(args []kernel.Unit) (kernel.Unit, error) {
	if err := arity("take", args, 1, 1); err != nil {
		return nil, err
	}
	return func(in any) (any, error) {
		n, err := evalCount(args[0], in)
		if err != nil {
			return nil, err
		}
		src, err := value.Iter("take", in)
		if err != nil {
			return nil, err
		}
		return value.NewIterable(func(yield func(any, error) bool) {
			if n == 0 {
				return
			}
			taken := 0
			for x, err := range src.All() {
				if !yield(x, err) || err != nil {
					return
				}
				if taken++; taken == n {
					return
				}
			}
		}), nil
	}, nil
}

func buildSkip(args []kernel.Unit) (kernel.Unit, error) {
	if err := arity("skip", args, 1, 1); err != nil {
		return nil, err
	}
	return func(in any) (any, error) {
		n, err := evalCount(args[0], in)
		if err != nil {
			return nil, err
		}
		return dropping("skip", in, n)
	}, nil
}

func buildTail(args []kernel.Unit) (kernel.Unit, error) {
	if err := arity("tail", args, 0, 0); err != nil {
		return nil, err
	}
	return func(in any) (any, error) {
		return dropping("tail", in, 1)
	}, nil
}

func dropping(op string, in any, n int) (any, error) {
	seen := 0
	return stream(op, in, func(x any, yield func(any, error) bool) bool {
		if seen < n {
			seen++
			return true
		}
		return yield(x, nil)
	})
}

// materialized drains the source on first iteration and yields whatever
// arrange returns.
func materialized(op string, in any, arrange func(xs []any) ([]any, error)) (any, error) {
	src, err := value.Iter(op, in)
	if err != nil {
		return nil, err
	}
	return value.NewIterable(func(yield func(any, error) bool) {
		xs, err := value.Collect(op, src)
		if err == nil {
			xs, err = arrange(xs)
		}
		if err != nil {
			yield(nil, err)
			return
		}
		for _, x := range xs {
			if !yield(x, nil) {
				return
			}
		}
	}), nil
}

func buildSort(args []kernel.Unit) (kernel.Unit, error) {
	if err := arity("sort", args, 0, 1); err != nil {
		return nil, err
	}
	key := optional(args, 0)
	return func(in any) (any, error) {
		return materialized("sort", in, func(xs []any) ([]any, error) {
			type keyed struct{ elem, key any }
			ks := make([]keyed, len(xs))
			for i, x := range xs {
				k, err := key(x)
				if err != nil {
					return nil, err
				}
				ks[i] = keyed{x, k}
			}
			slices.SortStableFunc(ks, func(a, b keyed) int {
				c, _ := value.Compare(a.key, b.key)
				return c
			})
			for i := range ks {
				xs[i] = ks[i].elem
			}
			return xs, nil
		})
	}, nil
}

func buildReverse(args []kernel.Unit) (kernel.Unit, error) {
	if err := arity("reverse", args, 0, 0); err != nil {
		return nil, err
	}
	return func(in any) (any, error) {
		return materialized("reverse", in, func(xs []any) ([]any, error) {
			slices.Reverse(xs)
			return xs, nil
		})
	}, nil
}

func buildUnique(args []kernel.Unit) (kernel.Unit, error) {
	if err := arity("unique", args, 0, 1); err != nil {
		return nil, err
	}
	key := optional(args, 0)
	return func(in any) (any, error) {
		seen := map[string]struct{}{}
		return stream("unique", in, func(x any, yield func(any, error) bool) bool {
			k, err := key(x)
			var id string
			if err == nil {
				id, err = value.Key(k)
			}
			if err != nil {
				yield(nil, err)
				return false
			}
			if _, dup := seen[id]; dup {
				return true
			}
			seen[id] = struct{}{}
			return yield(x, nil)
		})
	}, nil
}
