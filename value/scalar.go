package value

import (
	"hash/fnv"
	"strconv"

	"github.com/rivo/uniseg"
)

// Int is a 64-bit signed integer, santa-lang's only integral numeric type.
type Int int64

func (Int) Type() Type     { return TypeInt }
func (i Int) Truthy() bool { return i != 0 }
func (i Int) Hash() (uint64, bool) { return uint64(i), true }
func (i Int) Equal(other Value) bool {
	o, ok := other.(Int)
	return ok && i == o
}
func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }

// Decimal is a 64-bit IEEE-754 floating point number.
type Decimal float64

func (Decimal) Type() Type     { return TypeDecimal }
func (d Decimal) Truthy() bool { return d != 0 }
func (d Decimal) Hash() (uint64, bool) {
	h := fnv.New64a()
	_, _ = h.Write(strconv.AppendFloat(nil, float64(d), 'g', -1, 64))
	return h.Sum64(), true
}
func (d Decimal) Equal(other Value) bool {
	o, ok := other.(Decimal)
	return ok && d == o
}
func (d Decimal) String() string { return strconv.FormatFloat(float64(d), 'g', -1, 64) }

// Bool is santa-lang's boolean type.
type Bool bool

func (Bool) Type() Type     { return TypeBool }
func (b Bool) Truthy() bool { return bool(b) }
func (b Bool) Hash() (uint64, bool) {
	if b {
		return 1, true
	}
	return 0, true
}
func (b Bool) Equal(other Value) bool {
	o, ok := other.(Bool)
	return ok && b == o
}

// NilValue is the unit type; Nil is its sole instance.
type NilValue struct{}

var Nil = NilValue{}

func (NilValue) Type() Type             { return TypeNil }
func (NilValue) Truthy() bool           { return false }
func (NilValue) Hash() (uint64, bool)   { return 0x9e3779b97f4a7c15, true }
func (NilValue) Equal(other Value) bool { _, ok := other.(NilValue); return ok }

// String is grapheme-indexed per UAX #29 (§4.7): Len, indexing, and slicing
// all operate on extended grapheme clusters rather than bytes or code
// points, backed by rivo/uniseg.
type String struct {
	s        string
	clusters []string // computed lazily by ensureClusters
}

// NewString wraps a raw Go string as a santa-lang String.
func NewString(s string) String { return String{s: s} }

func (s String) Type() Type     { return TypeString }
func (s String) Truthy() bool   { return s.s != "" }
func (s String) Raw() string    { return s.s }
func (s String) String() string { return s.s }

func (s String) Hash() (uint64, bool) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s.s))
	return h.Sum64(), true
}

func (s String) Equal(other Value) bool {
	o, ok := other.(String)
	return ok && s.s == o.s
}

// Graphemes returns the string's extended grapheme clusters, computing and
// caching them on first use. String values are otherwise immutable, so the
// cache never goes stale; santa-lang execution is single-threaded (§7), so
// no synchronization is needed around the lazy fill.
func (s *String) Graphemes() []string {
	if s.clusters == nil {
		var out []string
		gr := uniseg.NewGraphemes(s.s)
		for gr.Next() {
			out = append(out, gr.Str())
		}
		if out == nil {
			out = []string{}
		}
		s.clusters = out
	}
	return s.clusters
}

// Len returns the grapheme-cluster count.
func (s *String) Len() int { return len(s.Graphemes()) }

// At returns the i'th grapheme cluster (0-based).
func (s *String) At(i int64) (string, bool) {
	g := s.Graphemes()
	if i < 0 || int(i) >= len(g) {
		return "", false
	}
	return g[i], true
}

// Slice returns the grapheme-cluster half-open range [start, end) joined
// back into a String.
func (s *String) Slice(start, end int64) String {
	g := s.Graphemes()
	if start < 0 {
		start = 0
	}
	if end > int64(len(g)) {
		end = int64(len(g))
	}
	if start >= end {
		return NewString("")
	}
	out := ""
	for _, c := range g[start:end] {
		out += c
	}
	return NewString(out)
}
