package value

import (
	"github.com/tidwall/btree"
)

// setBucket holds every Set member that shares one hash value;
// collisions are resolved by linear scan within the bucket, since arbitrary
// Values have no natural total order to key a tree on directly.
type setBucket struct {
	hash  uint64
	items []Value
}

func setBucketLess(a, b setBucket) bool { return a.hash < b.hash }

// Set is santa-lang's persistent hash set (§4.7), backed by a copy-on-write
// btree keyed by hash with bucket-chaining for collisions.
type Set struct {
	tree *btree.BTreeG[setBucket]
	size int64
}

func emptySetTree() *btree.BTreeG[setBucket] {
	return btree.NewBTreeG(setBucketLess)
}

// NewSet builds a Set from items, deduplicating by structural equality.
// Returns ErrNotHashable if any item is not hashable.
func NewSet(items ...Value) (Set, error) {
	s := Set{tree: emptySetTree()}
	for _, v := range items {
		var err error
		s, _, err = s.Add(v)
		if err != nil {
			return Set{}, err
		}
	}
	return s, nil
}

func (s Set) Type() Type   { return TypeSet }
func (s Set) Truthy() bool { return s.size != 0 }
func (s Set) Len() int64   { return s.size }

func (s Set) Hash() (uint64, bool) {
	// Order-independent: sum the member hashes so equal sets hash equal
	// regardless of insertion order.
	var acc uint64
	s.Each(func(v Value) bool {
		hv, _ := v.Hash()
		acc += hv
		return true
	})
	h := newHasher()
	h.writeString("Set")
	h.writeUint64(acc)
	return h.sum(), true
}

func (s Set) Equal(other Value) bool {
	o, ok := other.(Set)
	if !ok || s.size != o.size {
		return false
	}
	eq := true
	s.Each(func(v Value) bool {
		if !o.Contains(v) {
			eq = false
			return false
		}
		return true
	})
	return eq
}

// Contains reports whether v (by structural equality) is a member.
func (s Set) Contains(v Value) bool {
	hv, ok := v.Hash()
	if !ok {
		return false
	}
	b, found := s.tree.Get(setBucket{hash: hv})
	if !found {
		return false
	}
	for _, item := range b.items {
		if valuesEqual(item, v) {
			return true
		}
	}
	return false
}

// Add returns a new Set with v inserted; added reports whether v was not
// already present.
func (s Set) Add(v Value) (Set, bool, error) {
	hv, ok := v.Hash()
	if !ok {
		return Set{}, false, &ErrNotHashable{Of: v.Type()}
	}
	nt := s.tree.Copy()
	b, found := nt.Get(setBucket{hash: hv})
	if !found {
		nt.Set(setBucket{hash: hv, items: []Value{v}})
		return Set{tree: nt, size: s.size + 1}, true, nil
	}
	for _, item := range b.items {
		if valuesEqual(item, v) {
			return Set{tree: nt, size: s.size}, false, nil
		}
	}
	newItems := make([]Value, len(b.items)+1)
	copy(newItems, b.items)
	newItems[len(b.items)] = v
	nt.Set(setBucket{hash: hv, items: newItems})
	return Set{tree: nt, size: s.size + 1}, true, nil
}

// Remove returns a new Set without v; removed reports whether v was present.
func (s Set) Remove(v Value) (Set, bool) {
	hv, ok := v.Hash()
	if !ok {
		return s, false
	}
	b, found := s.tree.Get(setBucket{hash: hv})
	if !found {
		return s, false
	}
	idx := -1
	for i, item := range b.items {
		if valuesEqual(item, v) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s, false
	}
	nt := s.tree.Copy()
	if len(b.items) == 1 {
		nt.Delete(setBucket{hash: hv})
	} else {
		newItems := make([]Value, 0, len(b.items)-1)
		newItems = append(newItems, b.items[:idx]...)
		newItems = append(newItems, b.items[idx+1:]...)
		nt.Set(setBucket{hash: hv, items: newItems})
	}
	return Set{tree: nt, size: s.size - 1}, true
}

// Each calls fn for every member, in hash-bucket order (not insertion
// order; santa-lang does not guarantee Set iteration order).
func (s Set) Each(fn func(v Value) bool) {
	if s.tree == nil {
		return
	}
	stop := false
	s.tree.Scan(func(b setBucket) bool {
		for _, item := range b.items {
			if !fn(item) {
				stop = true
				return false
			}
		}
		return !stop
	})
}

func (s Set) ToSlice() []Value {
	out := make([]Value, 0, s.size)
	s.Each(func(v Value) bool {
		out = append(out, v)
		return true
	})
	return out
}

// dictEntry is one key/value pair of a Dict.
type dictEntry struct {
	key Value
	val Value
}

// dictBucket holds every entry whose key shares one hash value.
type dictBucket struct {
	hash  uint64
	items []dictEntry
}

func dictBucketLess(a, b dictBucket) bool { return a.hash < b.hash }

// Dict is santa-lang's persistent hash map (§4.7), structurally analogous
// to Set but storing a value alongside each key.
type Dict struct {
	tree *btree.BTreeG[dictBucket]
	size int64
}

func emptyDictTree() *btree.BTreeG[dictBucket] {
	return btree.NewBTreeG(dictBucketLess)
}

// NewDict builds a Dict from alternating key/value pairs.
func NewDict(pairs ...[2]Value) (Dict, error) {
	d := Dict{tree: emptyDictTree()}
	for _, kv := range pairs {
		var err error
		d, err = d.Assoc(kv[0], kv[1])
		if err != nil {
			return Dict{}, err
		}
	}
	return d, nil
}

func (d Dict) Type() Type   { return TypeDict }
func (d Dict) Truthy() bool { return d.size != 0 }
func (d Dict) Len() int64   { return d.size }

func (d Dict) Hash() (uint64, bool) {
	var acc uint64
	ok := true
	d.Each(func(k, v Value) bool {
		hk, o1 := k.Hash()
		hv, o2 := v.Hash()
		if !o1 || !o2 {
			ok = false
			return false
		}
		acc += hk*31 + hv
		return true
	})
	if !ok {
		return 0, false
	}
	h := newHasher()
	h.writeString("Dict")
	h.writeUint64(acc)
	return h.sum(), true
}

func (d Dict) Equal(other Value) bool {
	o, ok := other.(Dict)
	if !ok || d.size != o.size {
		return false
	}
	eq := true
	d.Each(func(k, v Value) bool {
		ov, found := o.Get(k)
		if !found || !valuesEqual(v, ov) {
			eq = false
			return false
		}
		return true
	})
	return eq
}

// Get looks up key by structural equality.
func (d Dict) Get(key Value) (Value, bool) {
	hv, ok := key.Hash()
	if !ok {
		return nil, false
	}
	b, found := d.tree.Get(dictBucket{hash: hv})
	if !found {
		return nil, false
	}
	for _, e := range b.items {
		if valuesEqual(e.key, key) {
			return e.val, true
		}
	}
	return nil, false
}

// Assoc returns a new Dict with key bound to val, overwriting any existing
// binding for an equal key.
func (d Dict) Assoc(key, val Value) (Dict, error) {
	hv, ok := key.Hash()
	if !ok {
		return Dict{}, &ErrNotHashable{Of: key.Type()}
	}
	nt := d.tree.Copy()
	b, found := nt.Get(dictBucket{hash: hv})
	if !found {
		nt.Set(dictBucket{hash: hv, items: []dictEntry{{key: key, val: val}}})
		return Dict{tree: nt, size: d.size + 1}, nil
	}
	for i, e := range b.items {
		if valuesEqual(e.key, key) {
			newItems := make([]dictEntry, len(b.items))
			copy(newItems, b.items)
			newItems[i] = dictEntry{key: key, val: val}
			nt.Set(dictBucket{hash: hv, items: newItems})
			return Dict{tree: nt, size: d.size}, nil
		}
	}
	newItems := make([]dictEntry, len(b.items)+1)
	copy(newItems, b.items)
	newItems[len(b.items)] = dictEntry{key: key, val: val}
	nt.Set(dictBucket{hash: hv, items: newItems})
	return Dict{tree: nt, size: d.size + 1}, nil
}

// Without returns a new Dict without key.
func (d Dict) Without(key Value) Dict {
	hv, ok := key.Hash()
	if !ok {
		return d
	}
	b, found := d.tree.Get(dictBucket{hash: hv})
	if !found {
		return d
	}
	idx := -1
	for i, e := range b.items {
		if valuesEqual(e.key, key) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return d
	}
	nt := d.tree.Copy()
	if len(b.items) == 1 {
		nt.Delete(dictBucket{hash: hv})
	} else {
		newItems := make([]dictEntry, 0, len(b.items)-1)
		newItems = append(newItems, b.items[:idx]...)
		newItems = append(newItems, b.items[idx+1:]...)
		nt.Set(dictBucket{hash: hv, items: newItems})
	}
	return Dict{tree: nt, size: d.size - 1}
}

// Each calls fn for every (key, value) pair, in hash-bucket order.
func (d Dict) Each(fn func(k, v Value) bool) {
	if d.tree == nil {
		return
	}
	stop := false
	d.tree.Scan(func(b dictBucket) bool {
		for _, e := range b.items {
			if !fn(e.key, e.val) {
				stop = true
				return false
			}
		}
		return !stop
	})
}

func (d Dict) Keys() []Value {
	out := make([]Value, 0, d.size)
	d.Each(func(k, _ Value) bool { out = append(out, k); return true })
	return out
}

func (d Dict) Values() []Value {
	out := make([]Value, 0, d.size)
	d.Each(func(_, v Value) bool { out = append(out, v); return true })
	return out
}
