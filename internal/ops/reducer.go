package ops

import (
	"slices"

	"github.com/maxwihlborg/fq/internal/kernel"
	"github.com/maxwihlborg/fq/internal/value"
)

var reducers = []kernel.Descriptor{
	{
		Name: "count", Aliases: []string{"len"}, Kind: kernel.Reducer,
		Doc:   "count() is the number of elements",
		Build: buildCount,
	},
	{
		Name: "sum", Aliases: []string{"total"}, Kind: kernel.Reducer,
		Doc:   "sum([f]) adds up the elements, or f of each element",
		Build: numeric("sum", func(xs []float64) float64 {
			var acc float64
			for _, x := range xs {
				acc += x
			}
			return acc
		}),
	},
	{
		Name: "average", Aliases: []string{"avg", "mean"}, Kind: kernel.Reducer,
		Doc: "average([f]) is the arithmetic mean, 0 when empty",
		Build: numeric("average", func(xs []float64) float64 {
			if len(xs) == 0 {
				return 0
			}
			var acc float64
			for _, x := range xs {
				acc += x
			}
			return acc / float64(len(xs))
		}),
	},
	{
		Name: "median", Kind: kernel.Reducer,
		Doc: "median([f]) is the middle value, 0 when empty",
		Build: numeric("median", func(xs []float64) float64 {
			if len(xs) == 0 {
				return 0
			}
			slices.Sort(xs)
			mid := len(xs) / 2
			if len(xs)%2 == 0 {
				return (xs[mid-1] + xs[mid]) / 2
			}
			return xs[mid]
		}),
	},
	{
		Name: "min", Kind: kernel.Reducer,
		Doc:   "min([f]) is the element with the smallest value, or f of it",
		Build: extreme("min", -1),
	},
	{
		Name: "max", Kind: kernel.Reducer,
		Doc:   "max([f]) is the element with the largest value, or f of it",
		Build: extreme("max", 1),
	},
	{
		Name: "first", Aliases: []string{"head", "fst"}, Kind: kernel.Reducer,
		Doc:   "first() is the first element, null when empty",
		Build: buildFirst,
	},
	{
		Name: "last", Aliases: []string{"lst"}, Kind: kernel.Reducer,
		Doc:   "last() is the last element, null when empty",
		Build: buildLast,
	},
	{
		Name: "merge", Kind: kernel.Reducer,
		Doc:   "merge([f]) merges object elements left to right",
		Build: buildMerge,
	},
	{
		Name: "concat", Aliases: []string{"join"}, Kind: kernel.Reducer,
		Doc:   "concat([f]) flattens array elements one level into a single array",
		Build: buildConcat,
	},
	{
		Name: "groupBy", Aliases: []string{"group"}, Kind: kernel.Reducer,
		Doc:   "groupBy(f) collects elements into an object keyed by f",
		Build: buildGroupBy,
	},
	{
		Name: "toArray", Aliases: []string{"collect"}, Kind: kernel.Reducer,
		Doc:   "toArray() collects the elements into an array",
		Build: buildToArray,
	},
}

// each calls f for every element of in, which must be an array or iterable.
func each(op string, in any, f func(x any) error) error {
	src, err := value.Iter(op, in)
	if err != nil {
		return err
	}
	for x, err := range src.All() {
		if err != nil {
			return err
		}
		if err := f(x); err != nil {
			return err
		}
	}
	return nil
}

func buildCount(args []kernel.Unit) (kernel.Unit, error) {
	if err := arity("count", args, 0, 0); err != nil {
		return nil, err
	}
	return func(in any) (any, error) {
		n := 0
		err := each("count", in, func(any) error {
			n++
			return nil
		})
		return float64(n), err
	}, nil
}

// numeric reduces the elements, projected by the optional argument and
// coerced to numbers.
func numeric(op string, f func(xs []float64) float64) kernel.Constructor {
	return func(args []kernel.Unit) (kernel.Unit, error) {
		if err := arity(op, args, 0, 1); err != nil {
			return nil, err
		}
		project := optional(args, 0)
		return func(in any) (any, error) {
			var xs []float64
			err := each(op, in, func(x any) error {
				v, err := project(x)
				if err != nil {
					return err
				}
				xs = append(xs, value.ToNumber(v))
				return nil
			})
			if err != nil {
				return nil, err
			}
			return f(xs), nil
		}, nil
	}
}

// extreme returns the element whose key compares furthest in direction dir.
// Ties keep the earliest element; elements with unordered keys are skipped.
func extreme(op string, dir int) kernel.Constructor {
	return func(args []kernel.Unit) (kernel.Unit, error) {
		if err := arity(op, args, 0, 1); err != nil {
			return nil, err
		}
		key := optional(args, 0)
		return func(in any) (any, error) {
			var best, bestKey any
			found := false
			err := each(op, in, func(x any) error {
				k, err := key(x)
				if err != nil {
					return err
				}
				if !found {
					best, bestKey, found = x, k, true
					return nil
				}
				if c, ok := value.Compare(k, bestKey); ok && c == dir {
					best, bestKey = x, k
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
			return best, nil
		}, nil
	}
}

func buildFirst(args []kernel.Unit) (kernel.Unit, error) {
	if err := arity("first", args, 0, 0); err != nil {
		return nil, err
	}
	return func(in any) (any, error) {
		src, err := value.Iter("first", in)
		if err != nil {
			return nil, err
		}
		for x, err := range src.All() {
			return x, err
		}
		return nil, nil
	}, nil
}

func buildLast(args []kernel.Unit) (kernel.Unit, error) {
	if err := arity("last", args, 0, 0); err != nil {
		return nil, err
	}
	return func(in any) (any, error) {
		var last any
		err := each("last", in, func(x any) error {
			last = x
			return nil
		})
		return last, err
	}, nil
}

func buildMerge(args []kernel.Unit) (kernel.Unit, error) {
	if err := arity("merge", args, 0, 1); err != nil {
		return nil, err
	}
	project := optional(args, 0)
	return func(in any) (any, error) {
		out := map[string]any{}
		err := each("merge", in, func(x any) error {
			v, err := project(x)
			if err != nil {
				return err
			}
			return assign(out, "merge", v)
		})
		if err != nil {
			return nil, err
		}
		return out, nil
	}, nil
}

// assign copies the fields of src into dst. A null src is ignored.
func assign(dst map[string]any, op string, src any) error {
	switch obj := src.(type) {
	case nil:
		return nil
	case map[string]any:
		for k, v := range obj {
			dst[k] = v
		}
		return nil
	default:
		return value.NewRuntimeError(op, "cannot merge %s into an object", value.TypeName(src))
	}
}

func buildConcat(args []kernel.Unit) (kernel.Unit, error) {
	if err := arity("concat", args, 0, 1); err != nil {
		return nil, err
	}
	project := optional(args, 0)
	return func(in any) (any, error) {
		out := []any{}
		err := each("concat", in, func(x any) error {
			v, err := project(x)
			if err != nil {
				return err
			}
			switch v.(type) {
			case []any, *value.Iterable:
				elems, err := value.Collect("concat", v)
				if err != nil {
					return err
				}
				out = append(out, elems...)
			default:
				out = append(out, v)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return out, nil
	}, nil
}

func buildGroupBy(args []kernel.Unit) (kernel.Unit, error) {
	if err := arity("groupBy", args, 1, 1); err != nil {
		return nil, err
	}
	key := args[0]
	return func(in any) (any, error) {
		groups := map[string]any{}
		err := each("groupBy", in, func(x any) error {
			k, err := key(x)
			if err != nil {
				return err
			}
			name := value.ToString(k)
			group, _ := groups[name].([]any)
			groups[name] = append(group, x)
			return nil
		})
		if err != nil {
			return nil, err
		}
		return groups, nil
	}, nil
}

func buildToArray(args []kernel.Unit) (kernel.Unit, error) {
	if err := arity("toArray", args, 0, 0); err != nil {
		return nil, err
	}
	return func(in any) (any, error) {
		return value.Collect("toArray", in)
	}, nil
}
