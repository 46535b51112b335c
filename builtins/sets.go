package builtins

import "github.com/santalang/santa/value"

// Each takes (operand, base), matching the `base |> fn(operand)` pipe
// convention: base is the piped-last subject, operand the explicit arg.
func setBuiltins() []Builtin {
	return []Builtin{
		{Name: "intersection", Arity: 2, Fn: func(args []value.Value) (value.Value, error) {
			return setOp(args[0], args[1], func(operand, base value.Set) (value.Set, error) {
				out, _ := value.NewSet()
				var err error
				base.Each(func(v value.Value) bool {
					if operand.Contains(v) {
						out, _, err = out.Add(v)
					}
					return err == nil
				})
				return out, err
			})
		}},
		{Name: "union", Arity: 2, Fn: func(args []value.Value) (value.Value, error) {
			return setOp(args[0], args[1], func(operand, base value.Set) (value.Set, error) {
				r, err := value.Add(base, operand)
				if err != nil {
					return value.Set{}, err
				}
				return r.(value.Set), nil
			})
		}},
		{Name: "difference", Arity: 2, Fn: func(args []value.Value) (value.Value, error) {
			return setOp(args[0], args[1], func(operand, base value.Set) (value.Set, error) {
				out := base
				operand.Each(func(v value.Value) bool {
					out, _ = out.Remove(v)
					return true
				})
				return out, nil
			})
		}},
	}
}

func setOp(operandV, baseV value.Value, fn func(operand, base value.Set) (value.Set, error)) (value.Value, error) {
	operand, ok := operandV.(value.Set)
	if !ok {
		return nil, &value.ErrTypeMismatch{Op: "set operation", Operands: []value.Type{operandV.Type()}}
	}
	base, ok := baseV.(value.Set)
	if !ok {
		return nil, &value.ErrTypeMismatch{Op: "set operation", Operands: []value.Type{baseV.Type()}}
	}
	return fn(operand, base)
}
