package combinator

import (
	"regexp"
	"slices"
	"sync"
)

// Result is the outcome of running a parser at a position. When OK is false
// the other fields are meaningless.
type Result[T any] struct {
	OK    bool
	Pos   int // position after the match
	Value T
}

// Parser consumes tokens starting at pos.
type Parser[T any] func(pos int, toks []string) Result[T]

// Pair is the value of a two-element sequence.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Triple is the value of a three-element sequence.
type Triple[A, B, C any] struct {
	First  A
	Second B
	Third  C
}

// Option is the value of an optional parser.
type Option[T any] struct {
	Value   T
	Present bool
}

// Ok returns a successful result.
func Ok[T any](pos int, v T) Result[T] {
	return Result[T]{OK: true, Pos: pos, Value: v}
}

// Fail returns a failed result.
func Fail[T any]() Result[T] {
	return Result[T]{}
}

// Literal matches a token equal to s.
func Literal(s string) Parser[string] {
	return func(pos int, toks []string) Result[string] {
		if pos < len(toks) && toks[pos] == s {
			return Ok(pos+1, s)
		}
		return Fail[string]()
	}
}

// Enum matches a token equal to any of ss.
func Enum(ss ...string) Parser[string] {
	return func(pos int, toks []string) Result[string] {
		if pos < len(toks) && slices.Contains(ss, toks[pos]) {
			return Ok(pos+1, toks[pos])
		}
		return Fail[string]()
	}
}

// Regex matches a token when re matches the whole token.
func Regex(re *regexp.Regexp) Parser[string] {
	whole := regexp.MustCompile(`^(?:` + re.String() + `)$`)
	return func(pos int, toks []string) Result[string] {
		if pos < len(toks) && whole.MatchString(toks[pos]) {
			return Ok(pos+1, toks[pos])
		}
		return Fail[string]()
	}
}

// Map transforms the value of a successful match.
func Map[A, B any](p Parser[A], f func(A) B) Parser[B] {
	return func(pos int, toks []string) Result[B] {
		r := p(pos, toks)
		if !r.OK {
			return Fail[B]()
		}
		return Ok(r.Pos, f(r.Value))
	}
}

// Lazy defers construction of a parser until its first use. It is how
// mutually recursive rules refer to each other before they are defined.
func Lazy[T any](f func() Parser[T]) Parser[T] {
	get := sync.OnceValue(f)
	return func(pos int, toks []string) Result[T] {
		return get()(pos, toks)
	}
}

// OneOf tries each alternative at the same position and returns the first
// success. There is no further backtracking.
func OneOf[T any](ps ...Parser[T]) Parser[T] {
	return func(pos int, toks []string) Result[T] {
		for _, p := range ps {
			if r := p(pos, toks); r.OK {
				return r
			}
		}
		return Fail[T]()
	}
}

// Erase drops the static type of p's value so it can be used with Seq.
func Erase[T any](p Parser[T]) Parser[any] {
	return Map(p, func(v T) any { return v })
}

// Seq runs ps in order and collects their values. The first failing element
// fails the whole sequence.
func Seq(ps ...Parser[any]) Parser[[]any] {
	return func(pos int, toks []string) Result[[]any] {
		vals := make([]any, 0, len(ps))
		for _, p := range ps {
			r := p(pos, toks)
			if !r.OK {
				return Fail[[]any]()
			}
			pos = r.Pos
			vals = append(vals, r.Value)
		}
		return Ok(pos, vals)
	}
}

// Tuple2 is a typed two-element sequence.
func Tuple2[A, B any](pa Parser[A], pb Parser[B]) Parser[Pair[A, B]] {
	return func(pos int, toks []string) Result[Pair[A, B]] {
		ra := pa(pos, toks)
		if !ra.OK {
			return Fail[Pair[A, B]]()
		}
		rb := pb(ra.Pos, toks)
		if !rb.OK {
			return Fail[Pair[A, B]]()
		}
		return Ok(rb.Pos, Pair[A, B]{First: ra.Value, Second: rb.Value})
	}
}

// Tuple3 is a typed three-element sequence.
func Tuple3[A, B, C any](pa Parser[A], pb Parser[B], pc Parser[C]) Parser[Triple[A, B, C]] {
	return func(pos int, toks []string) Result[Triple[A, B, C]] {
		rab := Tuple2(pa, pb)(pos, toks)
		if !rab.OK {
			return Fail[Triple[A, B, C]]()
		}
		rc := pc(rab.Pos, toks)
		if !rc.OK {
			return Fail[Triple[A, B, C]]()
		}
		return Ok(rc.Pos, Triple[A, B, C]{First: rab.Value.First, Second: rab.Value.Second, Third: rc.Value})
	}
}

// Right runs skip then p and keeps p's value.
func Right[S, T any](skip Parser[S], p Parser[T]) Parser[T] {
	return Map(Tuple2(skip, p), func(v Pair[S, T]) T { return v.Second })
}

// Left runs p then skip and keeps p's value.
func Left[T, S any](p Parser[T], skip Parser[S]) Parser[T] {
	return Map(Tuple2(p, skip), func(v Pair[T, S]) T { return v.First })
}

// Between runs open, p, end and keeps p's value.
func Between[O, T, C any](open Parser[O], p Parser[T], end Parser[C]) Parser[T] {
	return Right(open, Left(p, end))
}

// Maybe matches p or nothing. It never fails.
func Maybe[T any](p Parser[T]) Parser[Option[T]] {
	return func(pos int, toks []string) Result[Option[T]] {
		if r := p(pos, toks); r.OK {
			return Ok(r.Pos, Option[T]{Value: r.Value, Present: true})
		}
		return Ok(pos, Option[T]{})
	}
}

// Many matches p zero or more times, greedily.
func Many[T any](p Parser[T]) Parser[[]T] {
	return repeat(p, 0)
}

// Many1 matches p one or more times, greedily.
func Many1[T any](p Parser[T]) Parser[[]T] {
	return repeat(p, 1)
}

func repeat[T any](p Parser[T], atLeast int) Parser[[]T] {
	return func(pos int, toks []string) Result[[]T] {
		vals := []T{}
		for pos < len(toks) {
			r := p(pos, toks)
			if !r.OK || r.Pos == pos {
				break
			}
			pos = r.Pos
			vals = append(vals, r.Value)
		}
		if len(vals) < atLeast {
			return Fail[[]T]()
		}
		return Ok(pos, vals)
	}
}

// Sep matches zero or more p separated by sep. A separator is only consumed
// when another element follows it.
func Sep[S, T any](sep Parser[S], p Parser[T]) Parser[[]T] {
	return separated(sep, p, 0)
}

// Sep1 matches one or more p separated by sep.
func Sep1[S, T any](sep Parser[S], p Parser[T]) Parser[[]T] {
	return separated(sep, p, 1)
}

func separated[S, T any](sep Parser[S], p Parser[T], atLeast int) Parser[[]T] {
	return func(pos int, toks []string) Result[[]T] {
		vals := []T{}
		r := p(pos, toks)
		if r.OK {
			pos = r.Pos
			vals = append(vals, r.Value)
			for {
				s := sep(pos, toks)
				if !s.OK {
					break
				}
				next := p(s.Pos, toks)
				if !next.OK {
					break
				}
				pos = next.Pos
				vals = append(vals, next.Value)
			}
		}
		if len(vals) < atLeast {
			return Fail[[]T]()
		}
		return Ok(pos, vals)
	}
}
