package ops

import (
	"math"

	"github.com/maxwihlborg/fq/internal/kernel"
	"github.com/maxwihlborg/fq/internal/value"
)

var dynamics = []kernel.Descriptor{
	{
		Name: "get", Aliases: []string{"pluck"}, Kind: kernel.Dynamic,
		Doc:   "get(k, ...) looks up a chain of keys or indices; null once any step is missing (.a.b in queries)",
		Build: buildGet,
	},
	{
		Name: "pick", Kind: kernel.Dynamic,
		Doc:   "pick(k, ...) copies only the given keys of the input object",
		Build: buildPick,
	},
	{
		Name: "union", Aliases: []string{"u"}, Kind: kernel.Dynamic,
		Doc:   "union(a, b, ...) merges the given objects left to right",
		Build: buildUnion,
	},
	{
		Name: "cond", Kind: kernel.Dynamic,
		Doc:   "cond(c, a, b) is a when c is truthy, otherwise b (c ? a : b in queries)",
		Build: buildCond,
	},
	{
		Name: "identity", Aliases: []string{"id", "i"}, Kind: kernel.Dynamic,
		Doc:   "identity() is the input itself (. in queries)",
		Build: buildIdentity,
	},
	{
		Name: "every", Aliases: []string{"and"}, Kind: kernel.Dynamic,
		Doc:   "every(a, ...) is true when every argument is truthy",
		Build: quantifier(true),
	},
	{
		Name: "some", Aliases: []string{"or"}, Kind: kernel.Dynamic,
		Doc:   "some(a, ...) is true when any argument is truthy",
		Build: quantifier(false),
	},
	{
		Name: "flow", Kind: kernel.Dynamic,
		Doc:   "flow(a, b, ...) feeds the input through each stage in turn (a | b in queries)",
		Build: buildFlow,
	},
}

func buildGet(args []kernel.Unit) (kernel.Unit, error) {
	return func(in any) (any, error) {
		cur := in
		for _, arg := range args {
			if cur == nil {
				return nil, nil
			}
			k, err := arg(in)
			if err != nil {
				return nil, err
			}
			cur = lookup(cur, k)
		}
		return cur, nil
	}, nil
}

// lookup reads field k of an object or element k of an array. Anything that
// does not resolve is null.
func lookup(v, k any) any {
	switch x := v.(type) {
	case map[string]any:
		return x[value.ToString(k)]
	case []any:
		i := value.ToNumber(k)
		if i != math.Trunc(i) || i < 0 || i >= float64(len(x)) {
			return nil
		}
		return x[int(i)]
	default:
		return nil
	}
}

func buildPick(args []kernel.Unit) (kernel.Unit, error) {
	return func(in any) (any, error) {
		obj, ok := in.(map[string]any)
		if !ok {
			return nil, value.NewRuntimeError("pick", "cannot pick keys from %s", value.TypeName(in))
		}
		keys, err := evalAll(args, in)
		if err != nil {
			return nil, err
		}
		out := make(map[string]any, len(keys))
		for _, k := range keys {
			name := value.ToString(k)
			if v, ok := obj[name]; ok {
				out[name] = v
			}
		}
		return out, nil
	}, nil
}

func buildUnion(args []kernel.Unit) (kernel.Unit, error) {
	return func(in any) (any, error) {
		vals, err := evalAll(args, in)
		if err != nil {
			return nil, err
		}
		out := map[string]any{}
		for _, v := range vals {
			if err := assign(out, "union", v); err != nil {
				return nil, err
			}
		}
		return out, nil
	}, nil
}

func buildCond(args []kernel.Unit) (kernel.Unit, error) {
	if err := arity("cond", args, 3, 3); err != nil {
		return nil, err
	}
	return func(in any) (any, error) {
		c, err := args[0](in)
		if err != nil {
			return nil, err
		}
		if value.Truthy(c) {
			return args[1](in)
		}
		return args[2](in)
	}, nil
}

func buildIdentity(args []kernel.Unit) (kernel.Unit, error) {
	if err := arity("identity", args, 0, 0); err != nil {
		return nil, err
	}
	return identity, nil
}

// quantifier short-circuits on the first argument whose truthiness differs
// from all.
func quantifier(all bool) kernel.Constructor {
	return func(args []kernel.Unit) (kernel.Unit, error) {
		return func(in any) (any, error) {
			for _, arg := range args {
				v, err := arg(in)
				if err != nil {
					return nil, err
				}
				if value.Truthy(v) != all {
					return !all, nil
				}
			}
			return all, nil
		}, nil
	}
}

func buildFlow(args []kernel.Unit) (kernel.Unit, error) {
	return func(in any) (any, error) {
		cur := in
		for _, stage := range args {
			next, err := stage(cur)
			if err != nil {
				return nil, err
			}
			cur = next
		}
		return cur, nil
	}, nil
}
