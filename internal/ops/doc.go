// Package ops is the standard operator library.
//
// Every operator is registered with a kernel.Descriptor whose constructor
// receives the operator's argument units. Arguments are evaluated against the
// operator's input, except for the per-element arguments of mappers and
// reducers (the key or projection in map(.x), sum(.price), groupBy(.type)),
// which are evaluated against each element.
//
// Mappers and producers are lazy: they return a *value.Iterable that pulls
// from its source only as far as the consumer iterates. sort and reverse
// must see the whole source and materialize it first.
package ops
