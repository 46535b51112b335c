package builtins

import "github.com/santalang/santa/value"

// elements materializes any of santa-lang's iterable shapes into a plain
// Go slice: List and Set in their natural order, Dict as two-element
// [key, value] Lists, and bounded Range as its integers. Unbounded ranges
// and LazySequence are rejected. map, filter and take special-case a
// LazySequence themselves before calling elements; an unbounded Range
// passed to them reaches elements and is rejected here.
func elements(v value.Value) ([]value.Value, error) {
	switch x := v.(type) {
	case value.List:
		return x.ToSlice(), nil
	case value.Set:
		return x.ToSlice(), nil
	case value.Dict:
		out := make([]value.Value, 0, x.Len())
		x.Each(func(k, val value.Value) bool {
			out = append(out, value.NewList(k, val))
			return true
		})
		return out, nil
	case value.Range:
		if x.Unbounded {
			return nil, &ErrNotIterable{Of: v.Type(), Reason: "unbounded range"}
		}
		out := make([]value.Value, 0, x.Len())
		x.Each(func(n int64) bool {
			out = append(out, value.Int(n))
			return true
		})
		return out, nil
	default:
		return nil, &ErrNotIterable{Of: v.Type()}
	}
}

// ErrNotIterable is raised when a built-in expecting a List/Set/Dict/Range
// receives something else.
type ErrNotIterable struct {
	Of     value.Type
	Reason string
}

func (e *ErrNotIterable) Error() string {
	if e.Reason != "" {
		return "cannot iterate " + string(e.Of) + ": " + e.Reason
	}
	return "cannot iterate " + string(e.Of)
}

// callFunction invokes f with args, validating it actually is a Function
// and that arity matches.
func callFunction(v value.Value, args []value.Value) (value.Value, error) {
	f, ok := v.(value.Function)
	if !ok {
		return nil, &value.ErrTypeMismatch{Op: "call", Operands: []value.Type{v.Type()}}
	}
	if err := f.CheckArity(len(args)); err != nil {
		return nil, err
	}
	return f.Call(args)
}

// rebuildLike returns a fresh collection of the same shape as template
// (List or Set) containing items, used by the builtins `map` and `filter`
// that must preserve Set-vs-List identity of their input.
func rebuildLike(template value.Value, items []value.Value) (value.Value, error) {
	if _, ok := template.(value.Set); ok {
		return value.NewSet(items...)
	}
	return value.NewList(items...), nil
}
