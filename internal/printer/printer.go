// Package printer renders query results as indented, optionally colored
// JSON.
//
// Iterables are printed as arrays while they are being consumed, so a large
// or unbounded result starts appearing before it is complete. Object keys are
// printed in sorted order.
package printer

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/maxwihlborg/fq/internal/value"
)

// Option configures a Printer.
type Option func(*Printer)

// WithTheme sets the token theme. The default is PlainTheme.
func WithTheme(t Theme) Option {
	return func(p *Printer) {
		p.theme = t
	}
}

// WithIndent sets the indent width. Zero prints everything on one line.
func WithIndent(n int) Option {
	return func(p *Printer) {
		p.indent = strings.Repeat(" ", n)
		p.compact = n == 0
	}
}

// Printer writes values to an underlying writer.
type Printer struct {
	w       *bufio.Writer
	theme   Theme
	indent  string
	compact bool
}

// New creates a Printer writing to w with a two space indent.
func New(w io.Writer, opts ...Option) *Printer {
	p := &Printer{
		w:      bufio.NewWriter(w),
		theme:  PlainTheme(),
		indent: "  ",
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Print writes v followed by a newline. Errors raised while draining an
// iterable abort printing and are returned; output written up to that point
// is flushed.
func (p *Printer) Print(v any) error {
	err := p.value(v, 0)
	if err == nil {
		err = p.w.WriteByte('\n')
	}
	if ferr := p.w.Flush(); err == nil {
		err = ferr
	}
	return err
}

func (p *Printer) value(v any, depth int) error {
	switch x := v.(type) {
	case nil:
		p.w.WriteString(p.theme.Null("null"))
	case bool:
		p.w.WriteString(p.theme.Bool(strconv.FormatBool(x)))
	case float64:
		p.w.WriteString(p.theme.Number(value.FormatNumber(x)))
	case string:
		q, err := quote(x)
		if err != nil {
			return err
		}
		p.w.WriteString(p.theme.String(q))
	case []any:
		return p.elements(depth, func(yield func(any, error) bool) {
			for _, elem := range x {
				if !yield(elem, nil) {
					return
				}
			}
		})
	case *value.Iterable:
		return p.elements(depth, x.All())
	case map[string]any:
		return p.object(x, depth)
	default:
		return value.NewRuntimeError("", "cannot print %s", value.TypeName(v))
	}
	return nil
}

func (p *Printer) elements(depth int, seq func(yield func(any, error) bool)) error {
	p.w.WriteByte('[')
	n := 0
	for elem, err := range seq {
		if err != nil {
			return err
		}
		if n > 0 {
			p.w.WriteByte(',')
		}
		p.newline(depth + 1)
		if err := p.value(elem, depth+1); err != nil {
			return err
		}
		n++
	}
	if n > 0 {
		p.newline(depth)
	}
	p.w.WriteByte(']')
	return nil
}

func (p *Printer) object(obj map[string]any, depth int) error {
	p.w.WriteByte('{')
	keys := value.SortedKeys(obj)
	for i, k := range keys {
		if i > 0 {
			p.w.WriteByte(',')
		}
		p.newline(depth + 1)
		q, err := quote(k)
		if err != nil {
			return err
		}
		p.w.WriteString(p.theme.Key(q))
		p.w.WriteByte(':')
		if !p.compact {
			p.w.WriteByte(' ')
		}
		if err := p.value(obj[k], depth+1); err != nil {
			return err
		}
	}
	if len(keys) > 0 {
		p.newline(depth)
	}
	p.w.WriteByte('}')
	return nil
}

func (p *Printer) newline(depth int) {
	if p.compact {
		return
	}
	p.w.WriteByte('\n')
	for range depth {
		p.w.WriteString(p.indent)
	}
}

func quote(s string) (string, error) {
	b, err := value.MarshalCanonical(s)
	return string(b), err
}
