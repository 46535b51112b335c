package value

// Range is `start..end`, `start..=end`, or the unbounded `start..` (§4.7).
// Unbounded is represented by Unbounded=true; End is meaningless then.
//
// A descending range (Start > End) auto-reverses (§8): `5..1` walks
// 5, 4, 3, 2 and `5..=1` walks 5, 4, 3, 2, 1.
type Range struct {
	Start     int64
	End       int64
	Inclusive bool
	Unbounded bool
}

func (r Range) Type() Type   { return TypeRange }
func (r Range) Truthy() bool { return true } // ranges are truthy even when empty, §3.4

func (r Range) Hash() (uint64, bool) {
	h := newHasher()
	h.writeString("Range")
	h.writeUint64(uint64(r.Start))
	if !r.Unbounded {
		h.writeUint64(uint64(r.End))
	}
	if r.Inclusive {
		h.writeUint64(1)
	}
	if r.Unbounded {
		h.writeUint64(2)
	}
	return h.sum(), true
}

func (r Range) Equal(other Value) bool {
	o, ok := other.(Range)
	return ok && r == o
}

// descending reports whether this is a downward-counting range.
func (r Range) descending() bool { return !r.Unbounded && r.Start > r.End }

// Len returns the number of integers the range covers; panics if Unbounded
// (callers must check first, e.g. before materializing into a List).
func (r Range) Len() int64 {
	if r.Unbounded {
		panic("value: Len of unbounded Range")
	}
	if r.descending() {
		end := r.End
		if r.Inclusive {
			end--
		}
		if r.Start <= end {
			return 0
		}
		return r.Start - end
	}
	end := r.End
	if r.Inclusive {
		end++
	}
	if end <= r.Start {
		return 0
	}
	return end - r.Start
}

// Contains reports whether n falls within the range.
func (r Range) Contains(n int64) bool {
	if r.Unbounded {
		return n >= r.Start
	}
	if r.descending() {
		if r.Inclusive {
			return n <= r.Start && n >= r.End
		}
		return n <= r.Start && n > r.End
	}
	if r.Inclusive {
		return n >= r.Start && n <= r.End
	}
	return n >= r.Start && n < r.End
}

// At returns the i'th integer in the range (0-based from Start, walking in
// the range's own direction).
func (r Range) At(i int64) (int64, bool) {
	if i < 0 {
		return 0, false
	}
	if !r.Unbounded && i >= r.Len() {
		return 0, false
	}
	if r.descending() {
		return r.Start - i, true
	}
	return r.Start + i, true
}

// Each calls fn for each integer in the range, in walking order (ascending,
// or descending for a reversed range), stopping early if fn returns false.
// Callers are responsible for not calling Each on an unbounded range without
// an external stopping condition inside fn.
func (r Range) Each(fn func(n int64) bool) {
	if r.Unbounded {
		for n := r.Start; ; n++ {
			if !fn(n) {
				return
			}
		}
	}
	if r.descending() {
		end := r.End
		if !r.Inclusive {
			end++
		}
		for n := r.Start; n >= end; n-- {
			if !fn(n) {
				return
			}
		}
		return
	}
	end := r.End
	if r.Inclusive {
		end++
	}
	for n := r.Start; n < end; n++ {
		if !fn(n) {
			return
		}
	}
}
