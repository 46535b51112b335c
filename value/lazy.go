package value

// LazySequence is a thunked, potentially infinite stream (§4.7), the value
// built-ins like `iterate`, `repeat`, and `cycle` return. It is a cons cell
// whose tail is only computed when Next is called, so `take(n, iterate(...))`
// never forces more than n steps.
type LazySequence struct {
	next func() (head Value, tail LazySequence, ok bool)
}

// NewLazySequence wraps a generator function as a LazySequence.
func NewLazySequence(next func() (Value, LazySequence, bool)) LazySequence {
	return LazySequence{next: next}
}

func (LazySequence) Type() Type     { return TypeLazySeq }
func (LazySequence) Truthy() bool   { return true }
func (LazySequence) Hash() (uint64, bool) { return 0, false }
func (LazySequence) Equal(Value) bool     { return false }

// Next forces one element: returns the head value, the (still-lazy) tail,
// and ok=false once the sequence is exhausted.
func (s LazySequence) Next() (Value, LazySequence, bool) {
	if s.next == nil {
		return nil, LazySequence{}, false
	}
	return s.next()
}

// Iterate builds the infinite sequence seed, fn(seed), fn(fn(seed)), ...
func Iterate(seed Value, fn func(Value) (Value, error)) LazySequence {
	var step func(cur Value) LazySequence
	step = func(cur Value) LazySequence {
		return NewLazySequence(func() (Value, LazySequence, bool) {
			next, err := fn(cur)
			if err != nil {
				// A failing generator simply stops the sequence; the error
				// surfaces at the call site that invoked Iterate's fn
				// directly (builtins.Take et al. re-check it there).
				return nil, LazySequence{}, false
			}
			return cur, step(next), true
		})
	}
	return step(seed)
}

// Repeat builds the infinite sequence v, v, v, ...
func Repeat(v Value) LazySequence {
	var self LazySequence
	self = NewLazySequence(func() (Value, LazySequence, bool) {
		return v, self, true
	})
	return self
}

// Cycle builds the infinite repetition of items; empty input yields an
// immediately-exhausted sequence.
func Cycle(items []Value) LazySequence {
	if len(items) == 0 {
		return NewLazySequence(func() (Value, LazySequence, bool) {
			return nil, LazySequence{}, false
		})
	}
	var step func(i int) LazySequence
	step = func(i int) LazySequence {
		return NewLazySequence(func() (Value, LazySequence, bool) {
			return items[i], step((i + 1) % len(items)), true
		})
	}
	return step(0)
}

// FromSlice builds a finite LazySequence over items.
func FromSlice(items []Value) LazySequence {
	var step func(i int) LazySequence
	step = func(i int) LazySequence {
		return NewLazySequence(func() (Value, LazySequence, bool) {
			if i >= len(items) {
				return nil, LazySequence{}, false
			}
			return items[i], step(i + 1), true
		})
	}
	return step(0)
}

// Take materializes up to n elements into a slice.
func Take(s LazySequence, n int64) []Value {
	out := make([]Value, 0, n)
	for i := int64(0); i < n; i++ {
		head, tail, ok := s.Next()
		if !ok {
			break
		}
		out = append(out, head)
		s = tail
	}
	return out
}
