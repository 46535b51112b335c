package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalarTruthy(t *testing.T) {
	assert.False(t, Int(0).Truthy())
	assert.True(t, Int(1).Truthy())
	assert.False(t, Decimal(0).Truthy())
	assert.False(t, NewString("").Truthy())
	assert.True(t, NewString("x").Truthy())
	assert.False(t, Bool(false).Truthy())
	assert.False(t, Nil.Truthy())
	assert.True(t, Bool(true).Truthy())
	assert.False(t, NewList().Truthy())
	assert.True(t, NewList(Int(1)).Truthy())
}

func TestRangeTruthyEvenWhenEmpty(t *testing.T) {
	assert.True(t, Range{Start: 5, End: 5}.Truthy())
}

func TestDescendingRangeAutoReverse(t *testing.T) {
	r := Range{Start: 5, End: 1}
	var got []int64
	r.Each(func(n int64) bool { got = append(got, n); return true })
	assert.Equal(t, []int64{5, 4, 3, 2}, got)

	empty := Range{Start: 5, End: 5}
	assert.EqualValues(t, 0, empty.Len())

	single := Range{Start: 5, End: 5, Inclusive: true}
	assert.EqualValues(t, 1, single.Len())

	ri := Range{Start: 5, End: 1, Inclusive: true}
	var gotI []int64
	ri.Each(func(n int64) bool { gotI = append(gotI, n); return true })
	assert.Equal(t, []int64{5, 4, 3, 2, 1}, gotI)
}

func TestStringGraphemes(t *testing.T) {
	s := NewString("abc")
	assert.Equal(t, 3, s.Len())
	c, ok := s.At(1)
	require.True(t, ok)
	assert.Equal(t, "b", c)
	assert.Equal(t, "bc", s.Slice(1, 3).Raw())
}

func TestStringGraphemesEmoji(t *testing.T) {
	// A family emoji is one grapheme cluster made of several code points.
	s := NewString("a\U0001F468‍\U0001F469‍\U0001F467b")
	assert.Equal(t, 3, s.Len())
}

func TestListPushSetSlice(t *testing.T) {
	l := NewList(Int(1), Int(2), Int(3))
	l2 := l.Push(Int(4))
	assert.EqualValues(t, 3, l.Len())
	assert.EqualValues(t, 4, l2.Len())

	l3, ok := l2.Set(0, Int(100))
	require.True(t, ok)
	v, _ := l3.At(0)
	assert.Equal(t, Int(100), v)
	orig, _ := l2.At(0)
	assert.Equal(t, Int(1), orig, "original list must be unaffected by Set")

	sl := l2.Slice(1, 3)
	assert.EqualValues(t, 2, sl.Len())
	a, _ := sl.At(0)
	assert.Equal(t, Int(2), a)
}

func TestListEqual(t *testing.T) {
	a := NewList(Int(1), Int(2))
	b := NewList(Int(1), Int(2))
	c := NewList(Int(1), Int(3))
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestSetAddContainsRemove(t *testing.T) {
	s, err := NewSet(Int(1), Int(2), Int(2), Int(3))
	require.NoError(t, err)
	assert.EqualValues(t, 3, s.Len())
	assert.True(t, s.Contains(Int(2)))

	s2, removed := s.Remove(Int(2))
	assert.True(t, removed)
	assert.False(t, s2.Contains(Int(2)))
	assert.True(t, s.Contains(Int(2)), "original set must be unaffected by Remove")
}

func TestSetOfListsAsKeys(t *testing.T) {
	// Coordinate-list members, a common AoC pattern.
	coord1 := NewList(Int(0), Int(0))
	coord2 := NewList(Int(0), Int(0))
	s, err := NewSet(coord1, coord2)
	require.NoError(t, err)
	assert.EqualValues(t, 1, s.Len(), "structurally-equal list members must dedupe")
}

func TestSetNotHashableMember(t *testing.T) {
	fn := Function{Call: func([]Value) (Value, error) { return Nil, nil }}
	_, err := NewSet(fn)
	require.Error(t, err)
	var notHashable *ErrNotHashable
	assert.ErrorAs(t, err, &notHashable)
}

func TestDictAssocGetWithout(t *testing.T) {
	d, err := NewDict()
	require.NoError(t, err)
	d, err = d.Assoc(NewString("a"), Int(1))
	require.NoError(t, err)
	d2, err := d.Assoc(NewString("b"), Int(2))
	require.NoError(t, err)

	v, ok := d2.Get(NewString("a"))
	require.True(t, ok)
	assert.Equal(t, Int(1), v)

	_, ok = d.Get(NewString("b"))
	assert.False(t, ok, "original dict must be unaffected by Assoc")

	d3 := d2.Without(NewString("a"))
	_, ok = d3.Get(NewString("a"))
	assert.False(t, ok)
}

func TestDictOverwrite(t *testing.T) {
	d, _ := NewDict()
	d, _ = d.Assoc(Int(1), NewString("first"))
	d, _ = d.Assoc(Int(1), NewString("second"))
	assert.EqualValues(t, 1, d.Len())
	v, _ := d.Get(Int(1))
	assert.Equal(t, NewString("second"), v)
}

func TestRangeEachAndContains(t *testing.T) {
	r := Range{Start: 1, End: 4}
	assert.True(t, r.Contains(1))
	assert.False(t, r.Contains(4))
	var got []int64
	r.Each(func(n int64) bool {
		got = append(got, n)
		return true
	})
	assert.Equal(t, []int64{1, 2, 3}, got)

	ri := Range{Start: 1, End: 4, Inclusive: true}
	assert.True(t, ri.Contains(4))
}

func TestLazySequenceIterateAndTake(t *testing.T) {
	seq := Iterate(Int(1), func(v Value) (Value, error) {
		return v.(Int) * 2, nil
	})
	got := Take(seq, 5)
	want := []Value{Int(1), Int(2), Int(4), Int(8), Int(16)}
	assert.Equal(t, want, got)
}

func TestLazySequenceCycle(t *testing.T) {
	seq := Cycle([]Value{Int(1), Int(2)})
	got := Take(seq, 5)
	want := []Value{Int(1), Int(2), Int(1), Int(2), Int(1)}
	assert.Equal(t, want, got)
}

func TestOpsAddStringListSet(t *testing.T) {
	s, err := Add(NewString("foo"), NewString("bar"))
	require.NoError(t, err)
	assert.Equal(t, NewString("foobar"), s)

	l, err := Add(NewList(Int(1)), NewList(Int(2)))
	require.NoError(t, err)
	assert.EqualValues(t, 2, l.(List).Len())

	set1, _ := NewSet(Int(1), Int(2))
	set2, _ := NewSet(Int(2), Int(3))
	u, err := Add(set1, set2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, u.(Set).Len())
}

func TestOpsDivModIntVsDecimal(t *testing.T) {
	v, err := Div(Int(6), Int(3))
	require.NoError(t, err)
	assert.Equal(t, Int(2), v)

	v, err = Div(Int(7), Int(2))
	require.NoError(t, err)
	assert.Equal(t, Decimal(3.5), v)

	_, err = Div(Int(1), Int(0))
	require.Error(t, err)

	v, err = Mod(Int(-7), Int(3))
	require.NoError(t, err)
	assert.Equal(t, Int(2), v, "mod result takes the divisor's sign")
}

func TestOpsMulRepeat(t *testing.T) {
	v, err := Mul(NewString("ab"), Int(3))
	require.NoError(t, err)
	assert.Equal(t, NewString("ababab"), v)

	v, err = Mul(NewList(Int(1), Int(2)), Int(2))
	require.NoError(t, err)
	assert.EqualValues(t, 4, v.(List).Len())

	v, err = Mul(Int(3), Int(4))
	require.NoError(t, err)
	assert.Equal(t, Int(12), v)
}

func TestCompareCrossNumeric(t *testing.T) {
	c, err := Compare(Int(1), Decimal(1.5))
	require.NoError(t, err)
	assert.Equal(t, -1, c)
}

func TestCompareLists(t *testing.T) {
	c, err := Compare(NewList(Int(1), Int(2)), NewList(Int(1), Int(3)))
	require.NoError(t, err)
	assert.Equal(t, -1, c)
}

func TestTypeMismatchErrorsAreVerbPrefixed(t *testing.T) {
	_, err := Add(Int(1), NewString("x"))
	require.Error(t, err)
	assert.Equal(t, "Cannot add Integer and String", err.Error())

	_, err = Negate(NewString("x"))
	require.Error(t, err)
	assert.Equal(t, "Cannot negate String", err.Error())

	_, err = Compare(Int(1), NewString("x"))
	require.Error(t, err)
	assert.Equal(t, "Cannot compare Integer and String", err.Error())
}

func TestRenderNestedStringQuoting(t *testing.T) {
	assert.Equal(t, "hello", Render(NewString("hello")))
	assert.Equal(t, `["hello", 1]`, Render(NewList(NewString("hello"), Int(1))))
}
