package kernel

import "fmt"

// Shape is the static category of a value flowing between operators.
type Shape int

const (
	// Unknown is compatible with every shape.
	Unknown Shape = iota
	// Value is a single JSON value.
	Value
	// Iterable is a lazy sequence of values.
	Iterable
)

// String returns the label used in type warnings.
func (s Shape) String() string {
	switch s {
	case Value:
		return "value"
	case Iterable:
		return "iterable"
	default:
		return "unknown"
	}
}

// Compatible reports whether a unit expecting s can receive got.
func (s Shape) Compatible(got Shape) bool {
	return s == Unknown || got == Unknown || s == got
}

// Kind classifies an operator by its shape contract.
type Kind int

const (
	// Dynamic operators adapt to whatever they receive.
	Dynamic Kind = iota
	// Function maps a value to a value.
	Function
	// Producer turns a value into an iterable.
	Producer
	// Reducer folds an iterable into a value.
	Reducer
	// Mapper transforms an iterable into another iterable.
	Mapper
)

var kindNames = map[Kind]string{
	Dynamic:  "dynamic",
	Function: "function",
	Producer: "producer",
	Reducer:  "reducer",
	Mapper:   "mapper",
}

// String returns the lowercase kind name.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Shapes returns the inbound and outbound shape implied by k.
func (k Kind) Shapes() (in, out Shape) {
	switch k {
	case Function:
		return Value, Value
	case Producer:
		return Value, Iterable
	case Reducer:
		return Iterable, Value
	case Mapper:
		return Iterable, Iterable
	default:
		return Unknown, Unknown
	}
}
