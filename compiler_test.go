package santa_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	santa "github.com/santalang/santa"
	"github.com/santalang/santa/value"
)

func run(t *testing.T, source string) value.Value {
	t.Helper()
	c := &santa.Compiler{}
	prog, err := c.Compile(source)
	require.NoError(t, err)
	v, err := prog.Execute()
	require.NoError(t, err)
	return v
}

func TestMutableReassignment(t *testing.T) {
	v := run(t, "let mut x = 10; x = x + 2; x >= 12")
	assert.Equal(t, value.Bool(true), v)
}

func TestPipeIntoZipLeadsWithThePipedOperand(t *testing.T) {
	v := run(t, `1.. |> zip(["a", "b", "c"]) |> take(3)`)
	lst, ok := v.(value.List)
	require.True(t, ok)
	rows := lst.ToSlice()
	require.Len(t, rows, 3)
	assert.Equal(t, []value.Value{value.Int(1), value.NewString("a")}, rows[0].(value.List).ToSlice())
	assert.Equal(t, []value.Value{value.Int(2), value.NewString("b")}, rows[1].(value.List).ToSlice())
	assert.Equal(t, []value.Value{value.Int(3), value.NewString("c")}, rows[2].(value.List).ToSlice())
}

func TestPipeIntoMap(t *testing.T) {
	v := run(t, "[1, 2, 3] |> map(|x| x * 2)")
	lst, ok := v.(value.List)
	require.True(t, ok)
	assert.Equal(t, []value.Value{value.Int(2), value.Int(4), value.Int(6)}, lst.ToSlice())
}

func TestBareIdentifierPipe(t *testing.T) {
	v := run(t, "let double = |x| x * 2; 21 |> double")
	assert.Equal(t, value.Int(42), v)
}

func TestComposition(t *testing.T) {
	v := run(t, "let f = |x| x + 1; let g = |x| x * 2; let h = f >> g; h(3)")
	assert.Equal(t, value.Int(8), v)
}

func TestMemoizedFibonacci(t *testing.T) {
	v := run(t, "let fib = memoize(|n| if n < 2 { n } else { fib(n - 1) + fib(n - 2) }); fib(50)")
	assert.Equal(t, value.Int(12586269025), v)
}

func TestTailRecursiveAccumulatorDoesNotOverflowTheStack(t *testing.T) {
	v := run(t, "let countdown = |n, acc| if n < 1 { acc } else { countdown(n - 1, acc + 1) }; countdown(200000, 0)")
	assert.Equal(t, value.Int(200000), v)
}

func TestOutOfBoundsIndexingIsNilNotAnError(t *testing.T) {
	assert.Equal(t, value.Nil, run(t, "[1, 2, 3][10]"))
	assert.Equal(t, value.Nil, run(t, `"hi"[10]`))
	assert.Equal(t, value.Nil, run(t, `#{"a": 1}["b"]`))
}

func TestNegativeIndexing(t *testing.T) {
	assert.Equal(t, value.Int(3), run(t, "[1, 2, 3][-1]"))
}

func TestEmptyProgramIsNil(t *testing.T) {
	assert.Equal(t, value.Nil, run(t, ""))
}

func TestEmptyBlockIsNil(t *testing.T) {
	assert.Equal(t, value.Nil, run(t, "{}"))
}

func TestDescendingRangeConstruction(t *testing.T) {
	v := run(t, "5..1")
	r, ok := v.(value.Range)
	require.True(t, ok)
	var out []int64
	r.Each(func(n int64) bool { out = append(out, n); return true })
	assert.Equal(t, []int64{5, 4, 3, 2}, out)
}

func TestEmptyExclusiveRange(t *testing.T) {
	v := run(t, "5..5")
	r := v.(value.Range)
	assert.Equal(t, int64(0), r.Len())
}

func TestInclusiveSingletonRange(t *testing.T) {
	v := run(t, "5..=5")
	r := v.(value.Range)
	assert.Equal(t, int64(1), r.Len())
}

func TestMatchExpression(t *testing.T) {
	v := run(t, `let describe = |n| match n { 0: "zero", _: "other" }; describe(0)`)
	assert.Equal(t, value.NewString("zero"), v)
}

func TestListDestructuringWithRest(t *testing.T) {
	v := run(t, "let [head, ..others] = [1, 2, 3]; others")
	lst := v.(value.List)
	assert.Equal(t, []value.Value{value.Int(2), value.Int(3)}, lst.ToSlice())
}

func TestPatternMatchFailureInLetIsAnError(t *testing.T) {
	c := &santa.Compiler{}
	prog, err := c.Compile("let [a, b] = [1]")
	require.NoError(t, err)
	_, err = prog.Execute()
	assert.Error(t, err)
}

func TestClosureSharesMutableUpvalue(t *testing.T) {
	v := run(t, `
		let mut counter = 0
		let incr = || counter = counter + 1
		incr()
		incr()
		counter
	`)
	assert.Equal(t, value.Int(2), v)
}

func TestSections(t *testing.T) {
	c := &santa.Compiler{}
	prog, err := c.Compile("input: \"3\"\npart_one: int(input) * 2")
	require.NoError(t, err)
	sections, ok := prog.Sections()
	require.True(t, ok)
	v, err := sections["part_one"]()
	require.NoError(t, err)
	assert.Equal(t, value.Int(6), v)
}
