package builtins

import "github.com/santalang/santa/value"

func collectionBuiltins() []Builtin {
	return []Builtin{
		{Name: "first", Arity: 1, Fn: func(args []value.Value) (value.Value, error) { return firstOf(args[0]) }},
		{Name: "rest", Arity: 1, Fn: func(args []value.Value) (value.Value, error) { return restOf(args[0]) }},
		{Name: "push", Arity: 2, Fn: func(args []value.Value) (value.Value, error) { return pushInto(args[1], args[0]) }},
		{Name: "cons", Arity: 2, Fn: func(args []value.Value) (value.Value, error) { return consOnto(args[0], args[1]) }},
		{Name: "keys", Arity: 1, Fn: func(args []value.Value) (value.Value, error) {
			d, ok := args[0].(value.Dict)
			if !ok {
				return nil, &value.ErrTypeMismatch{Op: "keys", Operands: []value.Type{args[0].Type()}}
			}
			return value.NewList(d.Keys()...), nil
		}},
		{Name: "values", Arity: 1, Fn: func(args []value.Value) (value.Value, error) {
			d, ok := args[0].(value.Dict)
			if !ok {
				return nil, &value.ErrTypeMismatch{Op: "values", Operands: []value.Type{args[0].Type()}}
			}
			return value.NewList(d.Values()...), nil
		}},
		{Name: "concat", Arity: -1, Fn: func(args []value.Value) (value.Value, error) { return concatAll(args) }},
		{Name: "reverse", Arity: 1, Fn: func(args []value.Value) (value.Value, error) {
			items, err := elements(args[0])
			if err != nil {
				return nil, err
			}
			out := make([]value.Value, len(items))
			for i, v := range items {
				out[len(items)-1-i] = v
			}
			return value.NewList(out...), nil
		}},
		{Name: "flatten", Arity: 1, Fn: func(args []value.Value) (value.Value, error) {
			items, err := elements(args[0])
			if err != nil {
				return nil, err
			}
			return value.NewList(flattenOne(items)...), nil
		}},
		{Name: "chunk", Arity: 2, Fn: func(args []value.Value) (value.Value, error) { return chunkOf(args[0], args[1]) }},
		{Name: "assoc", Arity: 3, Fn: func(args []value.Value) (value.Value, error) { return assocInto(args[2], args[0], args[1]) }},
		{Name: "update", Arity: 3, Fn: func(args []value.Value) (value.Value, error) { return updateWith(args[2], args[0], args[1]) }},
		{Name: "zip", Arity: -1, Fn: func(args []value.Value) (value.Value, error) { return zipAll(args) }},
	}
}

func firstOf(v value.Value) (value.Value, error) {
	switch x := v.(type) {
	case value.List:
		e, ok := x.At(0)
		if !ok {
			return value.Nil, nil
		}
		return e, nil
	case value.Range:
		n, ok := x.At(0)
		if !ok {
			return value.Nil, nil
		}
		return value.Int(n), nil
	case value.LazySequence:
		head, _, ok := x.Next()
		if !ok {
			return value.Nil, nil
		}
		return head, nil
	default:
		return nil, &value.ErrTypeMismatch{Op: "first", Operands: []value.Type{v.Type()}}
	}
}

func restOf(v value.Value) (value.Value, error) {
	switch x := v.(type) {
	case value.List:
		if x.Len() == 0 {
			return value.NewList(), nil
		}
		return x.Slice(1, x.Len()), nil
	case value.LazySequence:
		_, tail, ok := x.Next()
		if !ok {
			return value.NewLazySequence(func() (value.Value, value.LazySequence, bool) {
				return nil, value.LazySequence{}, false
			}), nil
		}
		return tail, nil
	default:
		return nil, &value.ErrTypeMismatch{Op: "rest", Operands: []value.Type{v.Type()}}
	}
}

func pushInto(container, v value.Value) (value.Value, error) {
	switch x := container.(type) {
	case value.List:
		return x.Push(v), nil
	case value.Set:
		out, _, err := x.Add(v)
		return out, err
	default:
		return nil, &value.ErrTypeMismatch{Op: "push", Operands: []value.Type{container.Type()}}
	}
}

// consOnto implements `cons(v, seq)`: prepend v, lazily, matching §4.7's
// "Lazy sequences support ... cons".
func consOnto(v, seq value.Value) (value.Value, error) {
	switch x := seq.(type) {
	case value.List:
		out := value.NewList(v)
		return out.Concat(x), nil
	case value.LazySequence, value.Range:
		tail, err := toLazy(seq)
		if err != nil {
			return nil, err
		}
		return value.NewLazySequence(func() (value.Value, value.LazySequence, bool) {
			return v, tail, true
		}), nil
	default:
		return nil, &value.ErrTypeMismatch{Op: "cons", Operands: []value.Type{seq.Type()}}
	}
}

func toLazy(v value.Value) (value.LazySequence, error) {
	switch x := v.(type) {
	case value.LazySequence:
		return x, nil
	case value.Range:
		if x.Unbounded {
			return unboundedRangeToLazy(x), nil
		}
		items, err := elements(x)
		if err != nil {
			return value.LazySequence{}, err
		}
		return value.FromSlice(items), nil
	case value.List:
		return value.FromSlice(x.ToSlice()), nil
	default:
		return value.LazySequence{}, &value.ErrTypeMismatch{Op: "lazy", Operands: []value.Type{v.Type()}}
	}
}

func concatAll(args []value.Value) (value.Value, error) {
	out := value.NewList()
	for _, a := range args {
		items, err := elements(a)
		if err != nil {
			return nil, err
		}
		out = out.Concat(value.NewList(items...))
	}
	return out, nil
}

func flattenOne(items []value.Value) []value.Value {
	var out []value.Value
	for _, v := range items {
		if inner, err := elements(v); err == nil {
			out = append(out, inner...)
		} else {
			out = append(out, v)
		}
	}
	return out
}

func chunkOf(sizeV, seqV value.Value) (value.Value, error) {
	n, ok := sizeV.(value.Int)
	if !ok || n <= 0 {
		return nil, &value.ErrTypeMismatch{Op: "chunk", Operands: []value.Type{sizeV.Type()}}
	}
	items, err := elements(seqV)
	if err != nil {
		return nil, err
	}
	var out []value.Value
	for i := 0; i < len(items); i += int(n) {
		end := i + int(n)
		if end > len(items) {
			end = len(items)
		}
		out = append(out, value.NewList(items[i:end]...))
	}
	return value.NewList(out...), nil
}

func assocInto(container, key, v value.Value) (value.Value, error) {
	switch x := container.(type) {
	case value.Dict:
		return x.Assoc(key, v)
	case value.List:
		idx, ok := key.(value.Int)
		if !ok {
			return nil, &value.ErrTypeMismatch{Op: "assoc", Operands: []value.Type{key.Type()}}
		}
		out, ok2 := x.Set(int64(idx), v)
		if !ok2 {
			return nil, &value.ErrIndexOutOfRange{Index: int64(idx), Len: x.Len()}
		}
		return out, nil
	default:
		return nil, &value.ErrTypeMismatch{Op: "assoc", Operands: []value.Type{container.Type()}}
	}
}

func updateWith(container, key, fnV value.Value) (value.Value, error) {
	switch x := container.(type) {
	case value.Dict:
		cur, found := x.Get(key)
		if !found {
			cur = value.Nil
		}
		next, err := callFunction(fnV, []value.Value{cur})
		if err != nil {
			return nil, err
		}
		return x.Assoc(key, next)
	case value.List:
		idx, ok := key.(value.Int)
		if !ok {
			return nil, &value.ErrTypeMismatch{Op: "update", Operands: []value.Type{key.Type()}}
		}
		cur, found := x.At(int64(idx))
		if !found {
			cur = value.Nil
		}
		next, err := callFunction(fnV, []value.Value{cur})
		if err != nil {
			return nil, err
		}
		out, ok2 := x.Set(int64(idx), next)
		if !ok2 {
			return nil, &value.ErrIndexOutOfRange{Index: int64(idx), Len: x.Len()}
		}
		return out, nil
	default:
		return nil, &value.ErrTypeMismatch{Op: "update", Operands: []value.Type{container.Type()}}
	}
}

// zipAll implements `zip` (§4.7): over arguments with at least one finite
// source it materializes a List, stopping at the shortest; over only
// infinite sources it yields a LazySequence.
func zipAll(args []value.Value) (value.Value, error) {
	if len(args) == 0 {
		return value.NewList(), nil
	}
	finite := false
	for _, a := range args {
		if _, isLazy := a.(value.LazySequence); isLazy {
			continue
		}
		if r, isRange := a.(value.Range); isRange && r.Unbounded {
			continue
		}
		finite = true
		break
	}
	if finite {
		cols := make([][]value.Value, len(args))
		n := -1
		for i, a := range args {
			items, err := toZipSlice(a)
			if err != nil {
				return nil, err
			}
			cols[i] = items
			if n == -1 || len(items) < n {
				n = len(items)
			}
		}
		out := make([]value.Value, n)
		for i := 0; i < n; i++ {
			row := make([]value.Value, len(cols))
			for j := range cols {
				row[j] = cols[j][i]
			}
			out[i] = value.NewList(row...)
		}
		return value.NewList(out...), nil
	}
	lazies := make([]value.LazySequence, len(args))
	for i, a := range args {
		l, err := toLazy(a)
		if err != nil {
			return nil, err
		}
		lazies[i] = l
	}
	var step func(cur []value.LazySequence) value.LazySequence
	step = func(cur []value.LazySequence) value.LazySequence {
		return value.NewLazySequence(func() (value.Value, value.LazySequence, bool) {
			row := make([]value.Value, len(cur))
			next := make([]value.LazySequence, len(cur))
			for i, l := range cur {
				head, tail, ok := l.Next()
				if !ok {
					return nil, value.LazySequence{}, false
				}
				row[i] = head
				next[i] = tail
			}
			return value.NewList(row...), step(next), true
		})
	}
	return step(lazies), nil
}

// toZipSlice materializes one zip operand. It's only called once a finite
// sibling argument is known to exist, so a LazySequence operand is capped
// at a generous bound rather than driven to exhaustion.
func toZipSlice(v value.Value) ([]value.Value, error) {
	switch x := v.(type) {
	case value.LazySequence:
		return value.Take(x, 1<<20), nil
	case value.Range:
		if x.Unbounded {
			return value.Take(unboundedRangeToLazy(x), 1<<20), nil
		}
		return elements(v)
	default:
		return elements(v)
	}
}

func unboundedRangeToLazy(r value.Range) value.LazySequence {
	return value.Iterate(value.Int(r.Start), func(v value.Value) (value.Value, error) {
		return v.(value.Int) + 1, nil
	})
}
