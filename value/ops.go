package value

import "math"

// Negate implements unary `-`. Numeric literal folding (constant negation
// at compile time, §4.6) is the emitter's concern; this is the runtime
// fallback for the general case.
func Negate(v Value) (Value, error) {
	switch x := v.(type) {
	case Int:
		return -x, nil
	case Decimal:
		return -x, nil
	default:
		return nil, &ErrTypeMismatch{Op: "negate", Operands: []Type{v.Type()}}
	}
}

// Not implements unary `!`.
func Not(v Value) (Value, error) {
	return Bool(!v.Truthy()), nil
}

// Add implements binary `+`: numeric addition, string concatenation, or
// list/set/dict union depending on operand type (§4.7).
func Add(a, b Value) (Value, error) {
	switch x := a.(type) {
	case Int:
		switch y := b.(type) {
		case Int:
			return x + y, nil
		case Decimal:
			return Decimal(x) + y, nil
		}
	case Decimal:
		switch y := b.(type) {
		case Int:
			return x + Decimal(y), nil
		case Decimal:
			return x + y, nil
		}
	case String:
		if y, ok := b.(String); ok {
			return NewString(x.Raw() + y.Raw()), nil
		}
	case List:
		if y, ok := b.(List); ok {
			return x.Concat(y), nil
		}
	case Set:
		if y, ok := b.(Set); ok {
			return setUnion(x, y)
		}
	case Dict:
		if y, ok := b.(Dict); ok {
			return dictMerge(x, y)
		}
	}
	return nil, &ErrTypeMismatch{Op: "+", Operands: []Type{a.Type(), b.Type()}}
}

func setUnion(a, b Set) (Set, error) {
	out := a
	var err error
	b.Each(func(v Value) bool {
		out, _, err = out.Add(v)
		return err == nil
	})
	if err != nil {
		return Set{}, err
	}
	return out, nil
}

func dictMerge(a, b Dict) (Dict, error) {
	out := a
	var err error
	b.Each(func(k, v Value) bool {
		out, err = out.Assoc(k, v)
		return err == nil
	})
	if err != nil {
		return Dict{}, err
	}
	return out, nil
}

func numericBinOp(op string, a, b Value, ii func(x, y int64) (Value, error), dd func(x, y float64) Value) (Value, error) {
	switch x := a.(type) {
	case Int:
		switch y := b.(type) {
		case Int:
			return ii(int64(x), int64(y))
		case Decimal:
			return dd(float64(x), float64(y)), nil
		}
	case Decimal:
		switch y := b.(type) {
		case Int:
			return dd(float64(x), float64(y)), nil
		case Decimal:
			return dd(float64(x), float64(y)), nil
		}
	}
	return nil, &ErrTypeMismatch{Op: op, Operands: []Type{a.Type(), b.Type()}}
}

func Sub(a, b Value) (Value, error) {
	return numericBinOp("-", a, b,
		func(x, y int64) (Value, error) { return Int(x - y), nil },
		func(x, y float64) Value { return Decimal(x - y) })
}

// Mul implements binary `*`: numeric multiplication, or the repeat form
// String×Int / List×Int (§4.7).
func Mul(a, b Value) (Value, error) {
	if rep, ok, err := tryRepeat(a, b); ok {
		return rep, err
	}
	return numericBinOp("*", a, b,
		func(x, y int64) (Value, error) { return Int(x * y), nil },
		func(x, y float64) Value { return Decimal(x * y) })
}

// tryRepeat handles the String×Int and List×Int repeat forms of `*`; ok is
// false when neither operand shape matches, so the caller falls through to
// ordinary numeric multiplication.
func tryRepeat(a, b Value) (Value, bool, error) {
	switch x := a.(type) {
	case String:
		if n, ok := b.(Int); ok {
			return repeatString(x, int64(n)), true, nil
		}
	case List:
		if n, ok := b.(Int); ok {
			return repeatList(x, int64(n)), true, nil
		}
	case Int:
		switch y := b.(type) {
		case String:
			return repeatString(y, int64(x)), true, nil
		case List:
			return repeatList(y, int64(x)), true, nil
		}
	}
	return nil, false, nil
}

func repeatString(s String, n int64) Value {
	if n <= 0 {
		return NewString("")
	}
	out := ""
	for i := int64(0); i < n; i++ {
		out += s.Raw()
	}
	return NewString(out)
}

func repeatList(l List, n int64) Value {
	if n <= 0 {
		return NewList()
	}
	out := l
	for i := int64(1); i < n; i++ {
		out = out.Concat(l)
	}
	return out
}

// ErrDivByZero is raised by `/` and `%` with a zero integer divisor.
type ErrDivByZero struct{}

func (*ErrDivByZero) Error() string { return "division by zero" }

func Div(a, b Value) (Value, error) {
	return numericBinOp("/", a, b,
		func(x, y int64) (Value, error) {
			if y == 0 {
				return nil, &ErrDivByZero{}
			}
			if x%y == 0 {
				return Int(x / y), nil
			}
			return Decimal(float64(x) / float64(y)), nil
		},
		func(x, y float64) Value { return Decimal(x / y) })
}

func Mod(a, b Value) (Value, error) {
	return numericBinOp("%", a, b,
		func(x, y int64) (Value, error) {
			if y == 0 {
				return nil, &ErrDivByZero{}
			}
			m := x % y
			if m != 0 && (m < 0) != (y < 0) {
				m += y
			}
			return Int(m), nil
		},
		func(x, y float64) Value { return Decimal(math.Mod(x, y)) })
}

// Compare implements the ordering used by `<`, `<=`, `>`, `>=` (§4.7):
// numeric cross-type comparison, lexicographic String comparison by
// grapheme cluster, and element-wise List comparison. Returns -1, 0, or 1.
func Compare(a, b Value) (int, error) {
	switch x := a.(type) {
	case Int:
		switch y := b.(type) {
		case Int:
			return cmpInt64(int64(x), int64(y)), nil
		case Decimal:
			return cmpFloat64(float64(x), float64(y)), nil
		}
	case Decimal:
		switch y := b.(type) {
		case Int:
			return cmpFloat64(float64(x), float64(y)), nil
		case Decimal:
			return cmpFloat64(float64(x), float64(y)), nil
		}
	case String:
		if y, ok := b.(String); ok {
			return compareStrings(x, y), nil
		}
	case List:
		if y, ok := b.(List); ok {
			return compareLists(x, y)
		}
	}
	return 0, &ErrTypeMismatch{Op: "compare", Operands: []Type{a.Type(), b.Type()}}
}

func cmpInt64(x, y int64) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

func cmpFloat64(x, y float64) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

func compareStrings(a, b String) int {
	ag, bg := a.Graphemes(), b.Graphemes()
	for i := 0; i < len(ag) && i < len(bg); i++ {
		if ag[i] != bg[i] {
			if ag[i] < bg[i] {
				return -1
			}
			return 1
		}
	}
	return cmpInt64(int64(len(ag)), int64(len(bg)))
}

func compareLists(a, b List) (int, error) {
	n := a.Len()
	if b.Len() < n {
		n = b.Len()
	}
	for i := int64(0); i < n; i++ {
		av, _ := a.At(i)
		bv, _ := b.At(i)
		c, err := Compare(av, bv)
		if err != nil {
			return 0, err
		}
		if c != 0 {
			return c, nil
		}
	}
	return cmpInt64(a.Len(), b.Len()), nil
}
