package builtins

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/santalang/santa/value"
)

func call(t *testing.T, tbl *Table, name string, args ...value.Value) value.Value {
	t.Helper()
	v, err := tbl.Call(name, args)
	require.NoError(t, err)
	return v
}

func TestSizeAcrossShapes(t *testing.T) {
	tbl := Default()
	assert.Equal(t, value.Int(3), call(t, tbl, "size", value.NewString("abc")))
	assert.Equal(t, value.Int(2), call(t, tbl, "size", value.NewList(value.Int(1), value.Int(2))))
}

func TestIntsExtraction(t *testing.T) {
	tbl := Default()
	got := call(t, tbl, "ints", value.NewString("1 -2 3 foo 4"))
	want := value.NewList(value.Int(1), value.Int(-2), value.Int(3), value.Int(4))
	assert.True(t, want.Equal(got))
}

func TestMapFilterPipedConvention(t *testing.T) {
	tbl := Default()
	double := value.Function{Arity: 1, Call: func(args []value.Value) (value.Value, error) {
		return args[0].(value.Int) * 2, nil
	}}
	got := call(t, tbl, "map", double, value.NewList(value.Int(1), value.Int(2), value.Int(3)))
	want := value.NewList(value.Int(2), value.Int(4), value.Int(6))
	assert.True(t, want.Equal(got))

	positive := value.Function{Arity: 1, Call: func(args []value.Value) (value.Value, error) {
		return value.Bool(args[0].(value.Int) > 0), nil
	}}
	got = call(t, tbl, "filter", positive, value.NewList(value.Int(-1), value.Int(2), value.Int(-3)))
	want = value.NewList(value.Int(2))
	assert.True(t, want.Equal(got))
}

func TestFoldAndReduce(t *testing.T) {
	tbl := Default()
	add := value.Function{Arity: 2, Call: func(args []value.Value) (value.Value, error) {
		return value.Add(args[0], args[1])
	}}
	got := call(t, tbl, "fold", value.Int(0), add, value.NewList(value.Int(1), value.Int(2), value.Int(3)))
	assert.Equal(t, value.Int(6), got)

	got = call(t, tbl, "reduce", add, value.NewList(value.Int(1), value.Int(2), value.Int(3)))
	assert.Equal(t, value.Int(6), got)
}

func TestMemoizeFibonacci(t *testing.T) {
	// Mirrors §4.4's memoized self-reference: the recursive calls inside
	// fib's body go through the memoized wrapper, not the raw lambda.
	var self value.Function
	fib := value.Function{Name: "fib", Arity: 1}
	fib.Call = func(args []value.Value) (value.Value, error) {
		n := args[0].(value.Int)
		if n < 2 {
			return n, nil
		}
		a, err := self.Call([]value.Value{n - 1})
		if err != nil {
			return nil, err
		}
		b, err := self.Call([]value.Value{n - 2})
		if err != nil {
			return nil, err
		}
		return value.Add(a, b)
	}
	wrapped, err := memoize(fib)
	require.NoError(t, err)
	self = wrapped.(value.Function)

	got, err := self.Call([]value.Value{value.Int(10)})
	require.NoError(t, err)
	assert.Equal(t, value.Int(55), got)
}

func TestZipFiniteStopsAtShortest(t *testing.T) {
	tbl := Default()
	got := call(t, tbl, "zip", value.NewList(value.NewString("a"), value.NewString("b"), value.NewString("c")), value.Range{Start: 1, Unbounded: true})
	items := got.(value.List).ToSlice()
	require.Len(t, items, 3)
	first := items[0].(value.List)
	a, _ := first.At(0)
	b, _ := first.At(1)
	assert.Equal(t, value.NewString("a"), a)
	assert.Equal(t, value.Int(1), b)
}

func TestSortAndUnique(t *testing.T) {
	tbl := Default()
	got := call(t, tbl, "sort", value.NewList(value.Int(3), value.Int(1), value.Int(2)))
	want := value.NewList(value.Int(1), value.Int(2), value.Int(3))
	assert.True(t, want.Equal(got))

	got = call(t, tbl, "unique", value.NewList(value.Int(1), value.Int(1), value.Int(2)))
	want = value.NewList(value.Int(1), value.Int(2))
	assert.True(t, want.Equal(got))
}

func TestSumMaxMin(t *testing.T) {
	tbl := Default()
	l := value.NewList(value.Int(3), value.Int(1), value.Int(2))
	assert.Equal(t, value.Int(6), call(t, tbl, "sum", l))
	assert.Equal(t, value.Int(3), call(t, tbl, "max", l))
	assert.Equal(t, value.Int(1), call(t, tbl, "min", l))
}

func TestPutsNoopWithoutSink(t *testing.T) {
	tbl := Default()
	got := call(t, tbl, "puts", value.NewString("hello"))
	assert.Equal(t, value.Nil, got)
}

type fakeSink struct{ messages []string }

func (f *fakeSink) Puts(msg string) { f.messages = append(f.messages, msg) }

func TestPutsWritesToSink(t *testing.T) {
	sink := &fakeSink{}
	tbl := New(sink, nil)
	call(t, tbl, "puts", value.NewString("a"), value.Int(1))
	require.Len(t, sink.messages, 1)
	assert.Equal(t, "a 1", sink.messages[0])
}

func TestLinesAndBlocks(t *testing.T) {
	tbl := Default()
	got := call(t, tbl, "lines", value.NewString("a\r\nb\nc"))
	want := value.NewList(value.NewString("a"), value.NewString("b"), value.NewString("c"))
	assert.True(t, want.Equal(got))

	got = call(t, tbl, "blocks", value.NewString("a\nb\n\nc"))
	want = value.NewList(value.NewString("a\nb"), value.NewString("c"))
	assert.True(t, want.Equal(got))
}

func TestRegexMatch(t *testing.T) {
	tbl := Default()
	got := call(t, tbl, "regex_match", value.NewString(`(\d+)-(\d+)`), value.NewString("12-34"))
	want := value.NewList(value.NewString("12-34"), value.NewString("12"), value.NewString("34"))
	assert.True(t, want.Equal(got))
}

func TestHasRejectsUnknown(t *testing.T) {
	tbl := Default()
	assert.True(t, tbl.Has("map"))
	assert.False(t, tbl.Has("definitely_not_a_builtin"))
}
