package ops

import (
	"math"
	"strconv"

	"github.com/maxwihlborg/fq/internal/kernel"
	"github.com/maxwihlborg/fq/internal/value"
)

var producers = []kernel.Descriptor{
	{
		Name: "array", Kind: kernel.Producer,
		Doc:   "array(a, b, ...) yields each argument in order ([a, b, ...] in queries)",
		Build: buildArray,
	},
	{
		Name: "entries", Kind: kernel.Producer,
		Doc:   "entries([x]) yields {key, value} for each field of the input object, or of x",
		Build: fields("entries", func(k string, v any) any { return map[string]any{"key": k, "value": v} }),
	},
	{
		Name: "keys", Kind: kernel.Producer,
		Doc:   "keys([x]) yields the keys of the input object, or of x",
		Build: fields("keys", func(k string, _ any) any { return k }),
	},
	{
		Name: "values", Kind: kernel.Producer,
		Doc:   "values([x]) yields the values of the input object, or of x",
		Build: fields("values", func(_ string, v any) any { return v }),
	},
	{
		Name: "range", Kind: kernel.Producer,
		Doc:   "range(min, max[, step]) yields numbers from min to max inclusive",
		Build: buildRange,
	},
}

func buildArray(args []kernel.Unit) (kernel.Unit, error) {
	return func(in any) (any, error) {
		return value.NewIterable(func(yield func(any, error) bool) {
			for _, arg := range args {
				v, err := arg(in)
				if !yield(v, err) || err != nil {
					return
				}
			}
		}), nil
	}, nil
}

// fields yields one element per object field in key order. Arrays are
// treated as objects keyed by index.
func fields(op string, elem func(k string, v any) any) kernel.Constructor {
	return func(args []kernel.Unit) (kernel.Unit, error) {
		if err := arity(op, args, 0, 1); err != nil {
			return nil, err
		}
		source := optional(args, 0)
		return func(in any) (any, error) {
			src, err := source(in)
			if err != nil {
				return nil, err
			}
			switch obj := src.(type) {
			case map[string]any:
				keys := value.SortedKeys(obj)
				return value.NewIterable(func(yield func(any, error) bool) {
					for _, k := range keys {
						if !yield(elem(k, obj[k]), nil) {
							return
						}
					}
				}), nil
			case []any:
				return value.NewIterable(func(yield func(any, error) bool) {
					for i, v := range obj {
						if !yield(elem(strconv.Itoa(i), v), nil) {
							return
						}
					}
				}), nil
			default:
				return nil, value.NewRuntimeError(op, "cannot list fields of %s", value.TypeName(src))
			}
		}, nil
	}
}

func buildRange(args []kernel.Unit) (kernel.Unit, error) {
	if err := arity("range", args, 2, 3); err != nil {
		return nil, err
	}
	return func(in any) (any, error) {
		vals, err := evalAll(args, in)
		if err != nil {
			return nil, err
		}
		lo, hi, step := value.ToNumber(vals[0]), value.ToNumber(vals[1]), 1.0
		if len(vals) == 3 {
			step = math.Abs(value.ToNumber(vals[2]))
		}

		return value.NewIterable(func(yield func(any, error) bool) {
			if step == 0 || math.IsNaN(step) {
				return
			}
			if lo <= hi {
				for i := lo; i <= hi; i += step {
					if !yield(i, nil) {
						return
					}
				}
				return
			}
			for i := lo; i >= hi; i -= step {
				if !yield(i, nil) {
					return
				}
			}
		}), nil
	}, nil
}
