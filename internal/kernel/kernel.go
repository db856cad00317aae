package kernel

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

// Unit is a built operator: it evaluates against one input. Units returned
// by Producer and Mapper operators yield a *value.Iterable.
//
// A Unit holds no per-run state and may be called any number of times.
type Unit func(in any) (any, error)

// Constructor builds an operator's unit from its already-built arguments.
// It returns an error when the arguments are unusable (usually wrong arity).
type Constructor func(args []Unit) (Unit, error)

// Descriptor describes one operator.
type Descriptor struct {
	Name    string
	Aliases []string
	Kind    Kind
	Doc     string
	Build   Constructor
}

// In returns the shape the operator expects to receive.
func (d *Descriptor) In() Shape {
	in, _ := d.Kind.Shapes()
	return in
}

// Out returns the shape the operator produces.
func (d *Descriptor) Out() Shape {
	_, out := d.Kind.Shapes()
	return out
}

// Names returns the canonical name followed by the aliases.
func (d *Descriptor) Names() []string {
	return append([]string{d.Name}, d.Aliases...)
}

// Kernel is an immutable operator registry keyed by every name and alias.
type Kernel struct {
	byName      map[string]*Descriptor
	descriptors []*Descriptor
}

// Lookup returns the descriptor registered under name, canonical or alias.
func (k *Kernel) Lookup(name string) (*Descriptor, bool) {
	d, ok := k.byName[name]
	return d, ok
}

// Names returns every resolvable name, sorted.
func (k *Kernel) Names() []string {
	names := make([]string, 0, len(k.byName))
	for name := range k.byName {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Descriptors returns the registered operators sorted by canonical name.
func (k *Kernel) Descriptors() []*Descriptor {
	return slices.Clone(k.descriptors)
}

// Builder assembles a Kernel.
type Builder struct {
	logger      *slog.Logger
	descriptors []*Descriptor
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithLogger sets the logger used to report name collisions.
func WithLogger(logger *slog.Logger) BuilderOption {
	return func(b *Builder) {
		b.logger = logger
	}
}

// NewBuilder creates an empty Builder.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{logger: slog.Default()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Register adds descriptors. It fails on a descriptor without a name or
// constructor; name collisions are resolved by Build.
func (b *Builder) Register(ds ...Descriptor) error {
	for i := range ds {
		d := ds[i]
		if d.Name == "" {
			return fmt.Errorf("register operator: missing name")
		}
		if d.Build == nil {
			return fmt.Errorf("register operator %q: missing constructor", d.Name)
		}
		d.Aliases = slices.Clone(d.Aliases)
		b.descriptors = append(b.descriptors, &d)
	}
	return nil
}

// MustRegister is like Register but panics on error. It is meant for static
// operator tables.
func (b *Builder) MustRegister(ds ...Descriptor) *Builder {
	if err := b.Register(ds...); err != nil {
		panic(err)
	}
	return b
}

// Build flattens every canonical name and alias into a lookup table. When two
// operators claim the same name the later registration wins.
func (b *Builder) Build() *Kernel {
	k := &Kernel{byName: make(map[string]*Descriptor)}

	for _, d := range b.descriptors {
		for _, name := range d.Names() {
			if prev, ok := k.byName[name]; ok && prev != d {
				b.logger.Debug("operator name collision",
					"name", name,
					"previous", prev.Name,
					"winner", d.Name)
			}
			k.byName[name] = d
		}
	}

	// Keep only descriptors still reachable by their canonical name.
	for _, d := range b.descriptors {
		if k.byName[d.Name] == d {
			k.descriptors = append(k.descriptors, d)
		}
	}
	slices.SortFunc(k.descriptors, func(x, y *Descriptor) int {
		return strings.Compare(x.Name, y.Name)
	})

	return k
}
