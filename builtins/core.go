package builtins

import (
	"os"
	"strconv"
	"strings"

	"github.com/santalang/santa/value"
)

func coreBuiltins(t *Table) []Builtin {
	return []Builtin{
		{Name: "type", Arity: 1, Fn: func(args []value.Value) (value.Value, error) {
			return value.NewString(string(args[0].Type())), nil
		}},
		{Name: "str", Arity: 1, Fn: func(args []value.Value) (value.Value, error) {
			return value.NewString(value.Render(args[0])), nil
		}},
		{Name: "hash", Arity: 1, Fn: func(args []value.Value) (value.Value, error) {
			h, ok := args[0].Hash()
			if !ok {
				return nil, &value.ErrNotHashable{Of: args[0].Type()}
			}
			return value.Int(h), nil
		}},
		{Name: "puts", Arity: -1, Fn: func(args []value.Value) (value.Value, error) {
			if len(args) == 0 || t.Sink == nil {
				return value.Nil, nil
			}
			parts := make([]string, len(args))
			for i, a := range args {
				parts[i] = value.Render(a)
			}
			t.Sink.Puts(strings.Join(parts, " "))
			return value.Nil, nil
		}},
		{Name: "read", Arity: 1, Fn: func(args []value.Value) (value.Value, error) {
			s, ok := args[0].(value.String)
			if !ok {
				return nil, &value.ErrTypeMismatch{Op: "read", Operands: []value.Type{args[0].Type()}}
			}
			return readPath(t, s.Raw())
		}},
		{Name: "memoize", Arity: 1, Fn: func(args []value.Value) (value.Value, error) {
			return memoize(args[0])
		}},
		{Name: "size", Arity: 1, Fn: func(args []value.Value) (value.Value, error) {
			return sizeOf(args[0])
		}},
	}
}

func readPath(t *Table, path string) (value.Value, error) {
	if year, day, ok := parseAOCPath(path); ok {
		if t.AOC == nil {
			return value.Nil, nil
		}
		if contents, found := t.AOC.Read(year, day); found {
			return value.NewString(contents), nil
		}
		return value.Nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return value.Nil, nil
	}
	return value.NewString(string(data)), nil
}

// parseAOCPath recognizes `aoc://YEAR/DAY`.
func parseAOCPath(path string) (year, day int, ok bool) {
	const prefix = "aoc://"
	if !strings.HasPrefix(path, prefix) {
		return 0, 0, false
	}
	rest := strings.TrimPrefix(path, prefix)
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	y, err1 := parseIntStrict(parts[0])
	d, err2 := parseIntStrict(parts[1])
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return y, d, true
}

func parseIntStrict(s string) (int, error) {
	return strconv.Atoi(s)
}

func sizeOf(v value.Value) (value.Value, error) {
	switch x := v.(type) {
	case value.String:
		return value.Int(x.Len()), nil
	case value.List:
		return value.Int(x.Len()), nil
	case value.Set:
		return value.Int(x.Len()), nil
	case value.Dict:
		return value.Int(x.Len()), nil
	case value.Range:
		if x.Unbounded {
			return nil, &ErrNotIterable{Of: v.Type(), Reason: "unbounded range"}
		}
		return value.Int(x.Len()), nil
	default:
		return nil, &value.ErrTypeMismatch{Op: "size", Operands: []value.Type{v.Type()}}
	}
}

// memoize wraps f in a new Function whose argument tuple is the cache key
// (§4.8); all arguments must be hashable or the call fails with
// ErrNotHashable. The wrapper itself holds no reference to its own
// recursion: for `let f = memoize(|...| ...)` the emitter
// (compileMemoizeLet) overwrites the raw function's self-cell with this
// wrapper, so f's recursive self-calls (§4.4) go through the cache too.
func memoize(v value.Value) (value.Value, error) {
	f, ok := v.(value.Function)
	if !ok {
		return nil, &value.ErrTypeMismatch{Op: "memoize", Operands: []value.Type{v.Type()}}
	}
	cache := map[uint64][]memoEntry{}
	wrapper := value.Function{Name: f.Name, Arity: f.Arity}
	wrapper.Call = func(args []value.Value) (value.Value, error) {
		key, ok, err := hashArgs(args)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &value.ErrNotHashable{Of: value.TypeFunction}
		}
		for _, e := range cache[key] {
			if argsEqual(e.args, args) {
				return e.result, nil
			}
		}
		result, err := f.Call(args)
		if err != nil {
			return nil, err
		}
		cache[key] = append(cache[key], memoEntry{args: args, result: result})
		return result, nil
	}
	return wrapper, nil
}

type memoEntry struct {
	args   []value.Value
	result value.Value
}

func hashArgs(args []value.Value) (uint64, bool, error) {
	h := uint64(1469598103934665603) // FNV offset basis, combined below
	for _, a := range args {
		hv, ok := a.Hash()
		if !ok {
			return 0, false, &value.ErrNotHashable{Of: a.Type()}
		}
		h ^= hv + 0x9e3779b97f4a7c15 + (h << 6) + (h >> 2)
	}
	return h, true, nil
}

func argsEqual(a, b []value.Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Type() != b[i].Type() || !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
