package builtins

import "github.com/santalang/santa/value"

func higherOrderBuiltins() []Builtin {
	return []Builtin{
		{Name: "map", Arity: 2, Fn: func(args []value.Value) (value.Value, error) { return mapOver(args[1], args[0]) }},
		{Name: "filter", Arity: 2, Fn: func(args []value.Value) (value.Value, error) { return filterOver(args[1], args[0]) }},
		{Name: "each", Arity: 2, Fn: func(args []value.Value) (value.Value, error) { return eachOver(args[1], args[0]) }},
		{Name: "flat_map", Arity: 2, Fn: func(args []value.Value) (value.Value, error) { return flatMapOver(args[1], args[0]) }},
		{Name: "find", Arity: 2, Fn: func(args []value.Value) (value.Value, error) { return findIn(args[1], args[0]) }},
		{Name: "any", Arity: 2, Fn: func(args []value.Value) (value.Value, error) { return anyIn(args[1], args[0]) }},
		{Name: "all", Arity: 2, Fn: func(args []value.Value) (value.Value, error) { return allIn(args[1], args[0]) }},
		{Name: "count", Arity: 2, Fn: func(args []value.Value) (value.Value, error) { return countIn(args[1], args[0]) }},
		{Name: "fold", Arity: 3, Fn: func(args []value.Value) (value.Value, error) { return foldOver(args[2], args[0], args[1]) }},
		{Name: "fold_s", Arity: 3, Fn: func(args []value.Value) (value.Value, error) { return foldSOver(args[2], args[0], args[1]) }},
		{Name: "reduce", Arity: 2, Fn: func(args []value.Value) (value.Value, error) { return reduceOver(args[1], args[0]) }},
		{Name: "sort", Arity: 1, Fn: func(args []value.Value) (value.Value, error) { return sortOf(args[0]) }},
		{Name: "sort_by", Arity: 2, Fn: func(args []value.Value) (value.Value, error) { return sortByOf(args[1], args[0]) }},
		{Name: "unique", Arity: 1, Fn: func(args []value.Value) (value.Value, error) { return uniqueOf(args[0]) }},
		{Name: "max", Arity: 1, Fn: func(args []value.Value) (value.Value, error) { return extremeOf(args[0], 1) }},
		{Name: "min", Arity: 1, Fn: func(args []value.Value) (value.Value, error) { return extremeOf(args[0], -1) }},
		{Name: "max_by", Arity: 2, Fn: func(args []value.Value) (value.Value, error) { return extremeByOf(args[1], args[0], 1) }},
		{Name: "min_by", Arity: 2, Fn: func(args []value.Value) (value.Value, error) { return extremeByOf(args[1], args[0], -1) }},
		{Name: "sum", Arity: 1, Fn: func(args []value.Value) (value.Value, error) { return sumOf(args[0]) }},
		{Name: "includes", Arity: 2, Fn: func(args []value.Value) (value.Value, error) { return includesIn(args[1], args[0]) }},
		{Name: "index_of", Arity: 2, Fn: func(args []value.Value) (value.Value, error) { return indexOfIn(args[1], args[0]) }},
		{Name: "take", Arity: 2, Fn: func(args []value.Value) (value.Value, error) { return takeFrom(args[1], args[0]) }},
		{Name: "iterate", Arity: 2, Fn: func(args []value.Value) (value.Value, error) {
			f, ok := args[1].(value.Function)
			if !ok {
				return nil, &value.ErrTypeMismatch{Op: "iterate", Operands: []value.Type{args[1].Type()}}
			}
			return value.Iterate(args[0], func(v value.Value) (value.Value, error) {
				return callFunction(f, []value.Value{v})
			}), nil
		}},
		{Name: "repeat", Arity: 1, Fn: func(args []value.Value) (value.Value, error) { return value.Repeat(args[0]), nil }},
		{Name: "cycle", Arity: 1, Fn: func(args []value.Value) (value.Value, error) {
			items, err := elements(args[0])
			if err != nil {
				return nil, err
			}
			return value.Cycle(items), nil
		}},
	}
}

func mapOver(seqV, fnV value.Value) (value.Value, error) {
	if lazy, ok := seqV.(value.LazySequence); ok {
		return mapLazy(lazy, fnV), nil
	}
	items, err := elements(seqV)
	if err != nil {
		return nil, err
	}
	out := make([]value.Value, len(items))
	for i, v := range items {
		r, err := callFunction(fnV, []value.Value{v})
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return rebuildLike(seqV, out)
}

func mapLazy(seq value.LazySequence, fnV value.Value) value.LazySequence {
	return value.NewLazySequence(func() (value.Value, value.LazySequence, bool) {
		head, tail, ok := seq.Next()
		if !ok {
			return nil, value.LazySequence{}, false
		}
		mapped, err := callFunction(fnV, []value.Value{head})
		if err != nil {
			return nil, value.LazySequence{}, false
		}
		return mapped, mapLazy(tail, fnV), true
	})
}

func filterOver(seqV, fnV value.Value) (value.Value, error) {
	if lazy, ok := seqV.(value.LazySequence); ok {
		return filterLazy(lazy, fnV), nil
	}
	items, err := elements(seqV)
	if err != nil {
		return nil, err
	}
	var out []value.Value
	for _, v := range items {
		r, err := callFunction(fnV, []value.Value{v})
		if err != nil {
			return nil, err
		}
		if r.Truthy() {
			out = append(out, v)
		}
	}
	return rebuildLike(seqV, out)
}

func filterLazy(seq value.LazySequence, fnV value.Value) value.LazySequence {
	return value.NewLazySequence(func() (value.Value, value.LazySequence, bool) {
		cur := seq
		for {
			head, tail, ok := cur.Next()
			if !ok {
				return nil, value.LazySequence{}, false
			}
			r, err := callFunction(fnV, []value.Value{head})
			if err != nil {
				return nil, value.LazySequence{}, false
			}
			if r.Truthy() {
				return head, filterLazy(tail, fnV), true
			}
			cur = tail
		}
	})
}

func eachOver(seqV, fnV value.Value) (value.Value, error) {
	items, err := elements(seqV)
	if err != nil {
		return nil, err
	}
	for _, v := range items {
		if _, err := callFunction(fnV, []value.Value{v}); err != nil {
			return nil, err
		}
	}
	return value.Nil, nil
}

func flatMapOver(seqV, fnV value.Value) (value.Value, error) {
	items, err := elements(seqV)
	if err != nil {
		return nil, err
	}
	var out []value.Value
	for _, v := range items {
		r, err := callFunction(fnV, []value.Value{v})
		if err != nil {
			return nil, err
		}
		if inner, ierr := elements(r); ierr == nil {
			out = append(out, inner...)
		} else {
			out = append(out, r)
		}
	}
	return value.NewList(out...), nil
}

func findIn(seqV, fnV value.Value) (value.Value, error) {
	items, err := elements(seqV)
	if err != nil {
		return nil, err
	}
	for _, v := range items {
		r, err := callFunction(fnV, []value.Value{v})
		if err != nil {
			return nil, err
		}
		if r.Truthy() {
			return v, nil
		}
	}
	return value.Nil, nil
}

func anyIn(seqV, fnV value.Value) (value.Value, error) {
	items, err := elements(seqV)
	if err != nil {
		return nil, err
	}
	for _, v := range items {
		r, err := callFunction(fnV, []value.Value{v})
		if err != nil {
			return nil, err
		}
		if r.Truthy() {
			return value.Bool(true), nil
		}
	}
	return value.Bool(false), nil
}

func allIn(seqV, fnV value.Value) (value.Value, error) {
	items, err := elements(seqV)
	if err != nil {
		return nil, err
	}
	for _, v := range items {
		r, err := callFunction(fnV, []value.Value{v})
		if err != nil {
			return nil, err
		}
		if !r.Truthy() {
			return value.Bool(false), nil
		}
	}
	return value.Bool(true), nil
}

func countIn(seqV, fnV value.Value) (value.Value, error) {
	items, err := elements(seqV)
	if err != nil {
		return nil, err
	}
	var n int64
	for _, v := range items {
		r, err := callFunction(fnV, []value.Value{v})
		if err != nil {
			return nil, err
		}
		if r.Truthy() {
			n++
		}
	}
	return value.Int(n), nil
}

func foldOver(seqV, initial, fnV value.Value) (value.Value, error) {
	items, err := elements(seqV)
	if err != nil {
		return nil, err
	}
	acc := initial
	for _, v := range items {
		acc, err = callFunction(fnV, []value.Value{acc, v})
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// foldSOver implements `fold_s`: like fold, but fn additionally receives the
// running index as a third argument (a santa-lang idiom for folds that need
// position, e.g. building up a Dict keyed by index).
func foldSOver(seqV, initial, fnV value.Value) (value.Value, error) {
	items, err := elements(seqV)
	if err != nil {
		return nil, err
	}
	acc := initial
	for i, v := range items {
		acc, err = callFunction(fnV, []value.Value{acc, v, value.Int(i)})
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func reduceOver(seqV, fnV value.Value) (value.Value, error) {
	items, err := elements(seqV)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return value.Nil, nil
	}
	acc := items[0]
	for _, v := range items[1:] {
		acc, err = callFunction(fnV, []value.Value{acc, v})
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func sortOf(seqV value.Value) (value.Value, error) {
	items, err := elements(seqV)
	if err != nil {
		return nil, err
	}
	out := append([]value.Value(nil), items...)
	var sortErr error
	insertionSort(out, func(a, b value.Value) bool {
		if sortErr != nil {
			return false
		}
		c, err := value.Compare(a, b)
		if err != nil {
			sortErr = err
			return false
		}
		return c < 0
	})
	if sortErr != nil {
		return nil, sortErr
	}
	return value.NewList(out...), nil
}

func sortByOf(seqV, fnV value.Value) (value.Value, error) {
	items, err := elements(seqV)
	if err != nil {
		return nil, err
	}
	out := append([]value.Value(nil), items...)
	keys := make([]value.Value, len(out))
	for i, v := range out {
		k, err := callFunction(fnV, []value.Value{v})
		if err != nil {
			return nil, err
		}
		keys[i] = k
	}
	var sortErr error
	indices := make([]int, len(out))
	for i := range indices {
		indices[i] = i
	}
	insertionSortIdx(indices, func(i, j int) bool {
		if sortErr != nil {
			return false
		}
		c, err := value.Compare(keys[i], keys[j])
		if err != nil {
			sortErr = err
			return false
		}
		return c < 0
	})
	if sortErr != nil {
		return nil, sortErr
	}
	sorted := make([]value.Value, len(out))
	for i, idx := range indices {
		sorted[i] = out[idx]
	}
	return value.NewList(sorted...), nil
}

// insertionSort is a simple stable sort over a comparator; santa-lang
// collections are typically AoC-input sized, so O(n^2) is acceptable and
// keeps the comparator's error plumbing straightforward.
func insertionSort(items []value.Value, less func(a, b value.Value) bool) {
	for i := 1; i < len(items); i++ {
		for j := i; j > 0 && less(items[j], items[j-1]); j-- {
			items[j], items[j-1] = items[j-1], items[j]
		}
	}
}

func insertionSortIdx(idx []int, less func(i, j int) bool) {
	for i := 1; i < len(idx); i++ {
		for j := i; j > 0 && less(idx[j], idx[j-1]); j-- {
			idx[j], idx[j-1] = idx[j-1], idx[j]
		}
	}
}

func uniqueOf(seqV value.Value) (value.Value, error) {
	items, err := elements(seqV)
	if err != nil {
		return nil, err
	}
	seen, err := value.NewSet()
	if err != nil {
		return nil, err
	}
	var out []value.Value
	for _, v := range items {
		var added bool
		seen, added, err = seen.Add(v)
		if err != nil {
			return nil, err
		}
		if added {
			out = append(out, v)
		}
	}
	return value.NewList(out...), nil
}

func extremeOf(seqV value.Value, dir int) (value.Value, error) {
	items, err := elements(seqV)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return value.Nil, nil
	}
	best := items[0]
	for _, v := range items[1:] {
		c, err := value.Compare(v, best)
		if err != nil {
			return nil, err
		}
		if (dir > 0 && c > 0) || (dir < 0 && c < 0) {
			best = v
		}
	}
	return best, nil
}

func extremeByOf(seqV, fnV value.Value, dir int) (value.Value, error) {
	items, err := elements(seqV)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return value.Nil, nil
	}
	best := items[0]
	bestKey, err := callFunction(fnV, []value.Value{best})
	if err != nil {
		return nil, err
	}
	for _, v := range items[1:] {
		k, err := callFunction(fnV, []value.Value{v})
		if err != nil {
			return nil, err
		}
		c, err := value.Compare(k, bestKey)
		if err != nil {
			return nil, err
		}
		if (dir > 0 && c > 0) || (dir < 0 && c < 0) {
			best, bestKey = v, k
		}
	}
	return best, nil
}

func sumOf(seqV value.Value) (value.Value, error) {
	items, err := elements(seqV)
	if err != nil {
		return nil, err
	}
	var acc value.Value = value.Int(0)
	for _, v := range items {
		acc, err = value.Add(acc, v)
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func includesIn(seqV, v value.Value) (value.Value, error) {
	if s, ok := seqV.(value.Set); ok {
		return value.Bool(s.Contains(v)), nil
	}
	items, err := elements(seqV)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if item.Type() == v.Type() && item.Equal(v) {
			return value.Bool(true), nil
		}
	}
	return value.Bool(false), nil
}

func indexOfIn(seqV, v value.Value) (value.Value, error) {
	items, err := elements(seqV)
	if err != nil {
		return nil, err
	}
	for i, item := range items {
		if item.Type() == v.Type() && item.Equal(v) {
			return value.Int(i), nil
		}
	}
	return value.Nil, nil
}

func takeFrom(seqV, nV value.Value) (value.Value, error) {
	n, ok := nV.(value.Int)
	if !ok {
		return nil, &value.ErrTypeMismatch{Op: "take", Operands: []value.Type{nV.Type()}}
	}
	if lazy, ok := seqV.(value.LazySequence); ok {
		return value.NewList(value.Take(lazy, int64(n))...), nil
	}
	items, err := elements(seqV)
	if err != nil {
		return nil, err
	}
	if int64(len(items)) > int64(n) {
		items = items[:n]
	}
	return value.NewList(items...), nil
}
