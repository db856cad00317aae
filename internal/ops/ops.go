package ops

import (
	"fmt"
	"sync"

	"github.com/maxwihlborg/fq/internal/kernel"
)

// variadic marks an operator without an upper bound on its arguments.
const variadic = -1

var defaultKernel = sync.OnceValue(func() *kernel.Kernel {
	return Register(kernel.NewBuilder()).Build()
})

// Kernel returns the kernel holding every standard operator. It is built on
// first use and shared.
func Kernel() *kernel.Kernel {
	return defaultKernel()
}

// Register adds every standard operator to b and returns it, so callers can
// layer their own operators on top before building.
func Register(b *kernel.Builder) *kernel.Builder {
	return b.
		MustRegister(functions...).
		MustRegister(producers...).
		MustRegister(reducers...).
		MustRegister(mappers...).
		MustRegister(dynamics...)
}

// ArityError reports an operator constructed with the wrong number of
// arguments.
type ArityError struct {
	Op       string
	Min, Max int
	Got      int
}

// Error implements the error interface.
func (e *ArityError) Error() string {
	switch {
	case e.Min == e.Max:
		return fmt.Sprintf("%s takes %d argument(s), got %d", e.Op, e.Min, e.Got)
	case e.Max == variadic:
		return fmt.Sprintf("%s takes at least %d argument(s), got %d", e.Op, e.Min, e.Got)
	default:
		return fmt.Sprintf("%s takes %d to %d arguments, got %d", e.Op, e.Min, e.Max, e.Got)
	}
}

func arity(op string, args []kernel.Unit, lo, hi int) error {
	if len(args) < lo || (hi != variadic && len(args) > hi) {
		return &ArityError{Op: op, Min: lo, Max: hi, Got: len(args)}
	}
	return nil
}

func identity(in any) (any, error) {
	return in, nil
}

// optional returns args[i], or the identity unit when it was not given.
func optional(args []kernel.Unit, i int) kernel.Unit {
	if i < len(args) {
		return args[i]
	}
	return identity
}

func evalAll(args []kernel.Unit, in any) ([]any, error) {
	vals := make([]any, len(args))
	for i, arg := range args {
		v, err := arg(in)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}
