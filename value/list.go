package value

import (
	"github.com/tidwall/btree"
)

// listItem is one (index, value) pair stored in a List's backing tree,
// ordered by Idx.
type listItem struct {
	idx int64
	v   Value
}

func listItemLess(a, b listItem) bool { return a.idx < b.idx }

// List is santa-lang's persistent vector (§4.7). Structural operations
// (push, set, slice) return a new List sharing structure with the
// original via the backing btree's copy-on-write Copy(); none of them
// mutate the receiver.
type List struct {
	tree *btree.BTreeG[listItem]
	size int64
}

// NewList builds a List from items in order.
func NewList(items ...Value) List {
	t := btree.NewBTreeG(listItemLess)
	for i, v := range items {
		t.Set(listItem{idx: int64(i), v: v})
	}
	return List{tree: t, size: int64(len(items))}
}

func emptyListTree() *btree.BTreeG[listItem] {
	return btree.NewBTreeG(listItemLess)
}

func (l List) Type() Type   { return TypeList }
func (l List) Truthy() bool { return l.size != 0 }
func (l List) Len() int64   { return l.size }

func (l List) Hash() (uint64, bool) {
	h := newHasher()
	h.writeString("List")
	for i := int64(0); i < l.size; i++ {
		v, _ := l.At(i)
		hv, ok := v.Hash()
		if !ok {
			return 0, false
		}
		h.writeUint64(hv)
	}
	return h.sum(), true
}

func (l List) Equal(other Value) bool {
	o, ok := other.(List)
	if !ok || l.size != o.size {
		return false
	}
	for i := int64(0); i < l.size; i++ {
		a, _ := l.At(i)
		b, _ := o.At(i)
		if !valuesEqual(a, b) {
			return false
		}
	}
	return true
}

// At returns the element at index i (0-based), or ok=false if out of range.
func (l List) At(i int64) (Value, bool) {
	if i < 0 || i >= l.size {
		return nil, false
	}
	item, found := l.tree.Get(listItem{idx: i})
	if !found {
		return nil, false
	}
	return item.v, true
}

// Push returns a new List with v appended.
func (l List) Push(v Value) List {
	nt := l.tree.Copy()
	nt.Set(listItem{idx: l.size, v: v})
	return List{tree: nt, size: l.size + 1}
}

// Set returns a new List with the element at index i replaced by v.
// Reports ok=false, unchanged, if i is out of range.
func (l List) Set(i int64, v Value) (List, bool) {
	if i < 0 || i >= l.size {
		return l, false
	}
	nt := l.tree.Copy()
	nt.Set(listItem{idx: i, v: v})
	return List{tree: nt, size: l.size}, true
}

// Slice returns the half-open range [start, end) as a new List.
func (l List) Slice(start, end int64) List {
	if start < 0 {
		start = 0
	}
	if end > l.size {
		end = l.size
	}
	if start >= end {
		return NewList()
	}
	nt := emptyListTree()
	j := int64(0)
	for i := start; i < end; i++ {
		v, _ := l.At(i)
		nt.Set(listItem{idx: j, v: v})
		j++
	}
	return List{tree: nt, size: j}
}

// Concat returns a new List with other's elements appended after l's.
func (l List) Concat(other List) List {
	nt := l.tree.Copy()
	for i := int64(0); i < other.size; i++ {
		v, _ := other.At(i)
		nt.Set(listItem{idx: l.size + i, v: v})
	}
	return List{tree: nt, size: l.size + other.size}
}

// Each calls fn for every element in index order, stopping early if fn
// returns false.
func (l List) Each(fn func(i int64, v Value) bool) {
	l.tree.Scan(func(item listItem) bool {
		return fn(item.idx, item.v)
	})
}

// ToSlice materializes the List as a plain Go slice.
func (l List) ToSlice() []Value {
	out := make([]Value, 0, l.size)
	l.Each(func(_ int64, v Value) bool {
		out = append(out, v)
		return true
	})
	return out
}
