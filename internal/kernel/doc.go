// Package kernel defines the operator registry that queries compile against.
//
// Every operator is described by a Descriptor: its canonical name, aliases,
// kind and a constructor that turns already-built argument units into the
// operator's own unit. The kind fixes the operator's shape contract, the
// inbound and outbound Shape that the type checker reasons about.
//
//	Kind       In        Out
//	Function   value     value
//	Producer   value     iterable
//	Reducer    iterable  value
//	Mapper     iterable  iterable
//	Dynamic    unknown   unknown
//
// A Kernel is assembled once with a Builder and is read-only afterwards, so
// it can be shared freely between goroutines.
package kernel
