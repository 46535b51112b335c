package builtins

import (
	"math"
	"strconv"
	"strings"

	"github.com/santalang/santa/value"
)

func numberBuiltins() []Builtin {
	return []Builtin{
		{Name: "int", Arity: 1, Fn: func(args []value.Value) (value.Value, error) { return toInt(args[0]) }},
		{Name: "decimal", Arity: 1, Fn: func(args []value.Value) (value.Value, error) { return toDecimal(args[0]) }},
		{Name: "abs", Arity: 1, Fn: func(args []value.Value) (value.Value, error) {
			switch x := args[0].(type) {
			case value.Int:
				if x < 0 {
					return -x, nil
				}
				return x, nil
			case value.Decimal:
				return value.Decimal(math.Abs(float64(x))), nil
			default:
				return nil, &value.ErrTypeMismatch{Op: "abs", Operands: []value.Type{args[0].Type()}}
			}
		}},
		{Name: "signum", Arity: 1, Fn: func(args []value.Value) (value.Value, error) {
			switch x := args[0].(type) {
			case value.Int:
				switch {
				case x > 0:
					return value.Int(1), nil
				case x < 0:
					return value.Int(-1), nil
				default:
					return value.Int(0), nil
				}
			case value.Decimal:
				switch {
				case x > 0:
					return value.Int(1), nil
				case x < 0:
					return value.Int(-1), nil
				default:
					return value.Int(0), nil
				}
			default:
				return nil, &value.ErrTypeMismatch{Op: "signum", Operands: []value.Type{args[0].Type()}}
			}
		}},
		{Name: "floor", Arity: 1, Fn: func(args []value.Value) (value.Value, error) { return roundingOp(args[0], math.Floor) }},
		{Name: "ceil", Arity: 1, Fn: func(args []value.Value) (value.Value, error) { return roundingOp(args[0], math.Ceil) }},
		{Name: "round", Arity: 1, Fn: func(args []value.Value) (value.Value, error) { return roundingOp(args[0], math.Round) }},
		{Name: "sqrt", Arity: 1, Fn: func(args []value.Value) (value.Value, error) {
			f, err := asFloat(args[0])
			if err != nil {
				return nil, err
			}
			return value.Decimal(math.Sqrt(f)), nil
		}},
		{Name: "pow", Arity: 2, Fn: func(args []value.Value) (value.Value, error) {
			base, err := asFloat(args[0])
			if err != nil {
				return nil, err
			}
			exp, err := asFloat(args[1])
			if err != nil {
				return nil, err
			}
			result := math.Pow(base, exp)
			if _, isInt := args[0].(value.Int); isInt {
				if e, isIntExp := args[1].(value.Int); isIntExp && e >= 0 {
					return value.Int(int64(result)), nil
				}
			}
			return value.Decimal(result), nil
		}},
		{Name: "to_radix", Arity: 2, Fn: func(args []value.Value) (value.Value, error) {
			radix, ok := args[0].(value.Int)
			if !ok || radix < 2 || radix > 36 {
				return nil, &value.ErrTypeMismatch{Op: "to_radix", Operands: []value.Type{args[0].Type()}}
			}
			n, ok := args[1].(value.Int)
			if !ok {
				return nil, &value.ErrTypeMismatch{Op: "to_radix", Operands: []value.Type{args[1].Type()}}
			}
			return value.NewString(strconv.FormatInt(int64(n), int(radix))), nil
		}},
		{Name: "ints", Arity: 1, Fn: func(args []value.Value) (value.Value, error) { return extractInts(args[0]) }},
	}
}

func toInt(v value.Value) (value.Value, error) {
	switch x := v.(type) {
	case value.Int:
		return x, nil
	case value.Decimal:
		return value.Int(int64(x)), nil
	case value.String:
		s := strings.TrimSpace(x.Raw())
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, &value.ErrTypeMismatch{Op: "int: not a valid integer", Operands: []value.Type{value.TypeString}}
		}
		return value.Int(n), nil
	default:
		return nil, &value.ErrTypeMismatch{Op: "int", Operands: []value.Type{v.Type()}}
	}
}

func toDecimal(v value.Value) (value.Value, error) {
	switch x := v.(type) {
	case value.Decimal:
		return x, nil
	case value.Int:
		return value.Decimal(x), nil
	case value.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(x.Raw()), 64)
		if err != nil {
			return nil, &value.ErrTypeMismatch{Op: "decimal: not a valid number", Operands: []value.Type{value.TypeString}}
		}
		return value.Decimal(f), nil
	default:
		return nil, &value.ErrTypeMismatch{Op: "decimal", Operands: []value.Type{v.Type()}}
	}
}

func asFloat(v value.Value) (float64, error) {
	switch x := v.(type) {
	case value.Int:
		return float64(x), nil
	case value.Decimal:
		return float64(x), nil
	default:
		return 0, &value.ErrTypeMismatch{Op: "numeric", Operands: []value.Type{v.Type()}}
	}
}

func roundingOp(v value.Value, op func(float64) float64) (value.Value, error) {
	switch x := v.(type) {
	case value.Int:
		return x, nil
	case value.Decimal:
		return value.Int(int64(op(float64(x)))), nil
	default:
		return nil, &value.ErrTypeMismatch{Op: "round", Operands: []value.Type{v.Type()}}
	}
}

// extractInts implements `ints(s)` (§4.8): the list of signed integer
// substrings of s, skipping non-numeric tokens.
func extractInts(v value.Value) (value.Value, error) {
	s, ok := v.(value.String)
	if !ok {
		return nil, &value.ErrTypeMismatch{Op: "ints", Operands: []value.Type{v.Type()}}
	}
	raw := s.Raw()
	var out []value.Value
	i := 0
	for i < len(raw) {
		c := raw[i]
		neg := false
		start := i
		if c == '-' && i+1 < len(raw) && isDigit(raw[i+1]) {
			neg = true
			i++
		} else if !isDigit(c) {
			i++
			continue
		}
		digitsStart := i
		for i < len(raw) && isDigit(raw[i]) {
			i++
		}
		if i == digitsStart {
			i = start + 1
			continue
		}
		n, err := strconv.ParseInt(raw[digitsStart:i], 10, 64)
		if err != nil {
			continue
		}
		if neg {
			n = -n
		}
		out = append(out, value.Int(n))
	}
	return value.NewList(out...), nil
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
