package ops

import (
	"math"
	"slices"
	"strings"

	"github.com/maxwihlborg/fq/internal/kernel"
	"github.com/maxwihlborg/fq/internal/value"
)

var functions = []kernel.Descriptor{
	{
		Name: "add", Kind: kernel.Function,
		Doc:   "add(a, b, ...) sums numbers; concatenates when an operand is a string",
		Build: arithmetic("add", plus),
	},
	{
		Name: "subtract", Aliases: []string{"sub"}, Kind: kernel.Function,
		Doc: "subtract(a, b, ...) subtracts each operand from the first",
		Build: arithmetic("subtract", func(a, b any) any {
			return value.ToNumber(a) - value.ToNumber(b)
		}),
	},
	{
		Name: "multiply", Aliases: []string{"mul"}, Kind: kernel.Function,
		Doc: "multiply(a, b, ...) multiplies its operands",
		Build: arithmetic("multiply", func(a, b any) any {
			return value.ToNumber(a) * value.ToNumber(b)
		}),
	},
	{
		Name: "divide", Aliases: []string{"div"}, Kind: kernel.Function,
		Doc: "divide(a, b, ...) divides the first operand by the rest",
		Build: arithmetic("divide", func(a, b any) any {
			return value.ToNumber(a) / value.ToNumber(b)
		}),
	},
	{
		Name: "modulo", Aliases: []string{"mod"}, Kind: kernel.Function,
		Doc: "modulo(a, b) is the remainder of a / b, with the sign of a",
		Build: arithmetic("modulo", func(a, b any) any {
			return math.Mod(value.ToNumber(a), value.ToNumber(b))
		}),
	},
	{
		Name: "equals", Aliases: []string{"eq"}, Kind: kernel.Function,
		Doc:   "equals(a, b) is true when a and b are deeply equal",
		Build: binary("equals", func(a, b any) any { return value.Equal(a, b) }),
	},
	{
		Name: "notEquals", Aliases: []string{"neq"}, Kind: kernel.Function,
		Doc:   "notEquals(a, b) is true when a and b differ",
		Build: binary("notEquals", func(a, b any) any { return !value.Equal(a, b) }),
	},
	{
		Name: "greaterThan", Aliases: []string{"gt"}, Kind: kernel.Function,
		Doc:   "greaterThan(a, b) compares numbers, or strings lexicographically",
		Build: comparison("greaterThan", func(c int) bool { return c > 0 }),
	},
	{
		Name: "greaterThanEquals", Aliases: []string{"gte"}, Kind: kernel.Function,
		Doc:   "greaterThanEquals(a, b)",
		Build: comparison("greaterThanEquals", func(c int) bool { return c >= 0 }),
	},
	{
		Name: "lessThan", Aliases: []string{"lt"}, Kind: kernel.Function,
		Doc:   "lessThan(a, b)",
		Build: comparison("lessThan", func(c int) bool { return c < 0 }),
	},
	{
		Name: "lessThanEquals", Aliases: []string{"lte"}, Kind: kernel.Function,
		Doc:   "lessThanEquals(a, b)",
		Build: comparison("lessThanEquals", func(c int) bool { return c <= 0 }),
	},
	{
		Name: "opAnd", Kind: kernel.Function,
		Doc:   "opAnd(a, b) is a when a is falsy, otherwise b (the && operator)",
		Build: logical("opAnd", false),
	},
	{
		Name: "opOr", Kind: kernel.Function,
		Doc:   "opOr(a, b) is a when a is truthy, otherwise b (the || operator)",
		Build: logical("opOr", true),
	},
	{
		Name: "not", Kind: kernel.Function,
		Doc:   "not(a) negates the truthiness of a",
		Build: unary("not", func(v any) any { return !value.Truthy(v) }),
	},
	{
		Name: "bool", Kind: kernel.Function,
		Doc:   "bool(a) is the truthiness of a",
		Build: unary("bool", func(v any) any { return value.Truthy(v) }),
	},
	{
		Name: "includes", Aliases: []string{"has"}, Kind: kernel.Function,
		Doc:   "includes(x) tests whether the input array holds x, or the input string contains x",
		Build: buildIncludes,
	},
	{
		Name: "constant", Aliases: []string{"c"}, Kind: kernel.Function,
		Doc:   "constant(x) evaluates to x",
		Build: unary("constant", func(v any) any { return v }),
	},
	{
		Name: "omit", Kind: kernel.Function,
		Doc:   "omit(k, ...) copies the input object without the given keys",
		Build: buildOmit,
	},
	{
		Name: "project", Aliases: []string{"p"}, Kind: kernel.Function,
		Doc:   "project(k, v) builds the object {k: v}",
		Build: buildProject,
	},
	{
		Name: "mapValues", Kind: kernel.Function,
		Doc:   "mapValues(f) applies f to every value of the input object",
		Build: buildMapValues,
	},
}

func plus(a, b any) any {
	_, aStr := a.(string)
	_, bStr := b.(string)
	if aStr || bStr {
		return value.ToString(a) + value.ToString(b)
	}
	return value.ToNumber(a) + value.ToNumber(b)
}

// arithmetic folds f left to right over the values of its arguments.
func arithmetic(op string, f func(a, b any) any) kernel.Constructor {
	return func(args []kernel.Unit) (kernel.Unit, error) {
		if err := arity(op, args, 1, variadic); err != nil {
			return nil, err
		}
		return func(in any) (any, error) {
			vals, err := evalAll(args, in)
			if err != nil {
				return nil, err
			}
			acc := vals[0]
			for _, v := range vals[1:] {
				acc = f(acc, v)
			}
			return acc, nil
		}, nil
	}
}

func unary(op string, f func(v any) any) kernel.Constructor {
	return func(args []kernel.Unit) (kernel.Unit, error) {
		if err := arity(op, args, 1, 1); err != nil {
			return nil, err
		}
		return func(in any) (any, error) {
			v, err := args[0](in)
			if err != nil {
				return nil, err
			}
			return f(v), nil
		}, nil
	}
}

func binary(op string, f func(a, b any) any) kernel.Constructor {
	return func(args []kernel.Unit) (kernel.Unit, error) {
		if err := arity(op, args, 2, 2); err != nil {
			return nil, err
		}
		return func(in any) (any, error) {
			vals, err := evalAll(args, in)
			if err != nil {
				return nil, err
			}
			return f(vals[0], vals[1]), nil
		}, nil
	}
}

// comparison orders two operands; unordered operands compare false.
func comparison(op string, holds func(c int) bool) kernel.Constructor {
	return binary(op, func(a, b any) any {
		c, ok := value.Compare(a, b)
		return ok && holds(c)
	})
}

// logical evaluates its right operand only when the left one does not decide
// the result.
func logical(op string, decidesOn bool) kernel.Constructor {
	return func(args []kernel.Unit) (kernel.Unit, error) {
		if err := arity(op, args, 2, 2); err != nil {
			return nil, err
		}
		return func(in any) (any, error) {
			lhs, err := args[0](in)
			if err != nil {
				return nil, err
			}
			if value.Truthy(lhs) == decidesOn {
				return lhs, nil
			}
			return args[1](in)
		}, nil
	}
}

func buildIncludes(args []kernel.Unit) (kernel.Unit, error) {
	if err := arity("includes", args, 1, 1); err != nil {
		return nil, err
	}
	return func(in any) (any, error) {
		needle, err := args[0](in)
		if err != nil {
			return nil, err
		}
		switch hay := in.(type) {
		case []any:
			return slices.ContainsFunc(hay, func(x any) bool { return value.Equal(x, needle) }), nil
		case string:
			return strings.Contains(hay, value.ToString(needle)), nil
		default:
			return false, nil
		}
	}, nil
}

func buildOmit(args []kernel.Unit) (kernel.Unit, error) {
	return func(in any) (any, error) {
		obj, ok := in.(map[string]any)
		if !ok {
			return nil, value.NewRuntimeError("omit", "cannot omit keys from %s", value.TypeName(in))
		}
		keys, err := evalAll(args, in)
		if err != nil {
			return nil, err
		}
		out := make(map[string]any, len(obj))
		for k, v := range obj {
			out[k] = v
		}
		for _, k := range keys {
			delete(out, value.ToString(k))
		}
		return out, nil
	}, nil
}

func buildProject(args []kernel.Unit) (kernel.Unit, error) {
	if err := arity("project", args, 2, 2); err != nil {
		return nil, err
	}
	return func(in any) (any, error) {
		vals, err := evalAll(args, in)
		if err != nil {
			return nil, err
		}
		return map[string]any{value.ToString(vals[0]): vals[1]}, nil
	}, nil
}

func buildMapValues(args []kernel.Unit) (kernel.Unit, error) {
	if err := arity("mapValues", args, 1, 1); err != nil {
		return nil, err
	}
	f := args[0]
	return func(in any) (any, error) {
		obj, ok := in.(map[string]any)
		if !ok {
			return nil, value.NewRuntimeError("mapValues", "cannot map values of %s", value.TypeName(in))
		}
		out := make(map[string]any, len(obj))
		for _, k := range value.SortedKeys(obj) {
			v, err := f(obj[k])
			if err != nil {
				return nil, err
			}
			out[k] = v
		}
		return out, nil
	}, nil
}
