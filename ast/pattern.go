package ast

// WildcardPattern is `_`: matches anything, binds nothing.
type WildcardPattern struct {
	base
}

// BindingPattern matches anything and binds it to Name.
type BindingPattern struct {
	base
	Name string

	// Slot is filled in by the resolver: the local/top-level slot this
	// binding occupies once matched.
	Slot int
}

// RestPattern is `..name?` inside a list pattern; Name is empty when the
// rest is unnamed (`..`).
type RestPattern struct {
	base
	Name string

	// Slot is filled in by the resolver, only meaningful when Name != "".
	Slot int
}

// ListPattern is `[p1, p2, ...]`, with at most one RestPattern among
// Elements (enforced by the parser, §3.3).
type ListPattern struct {
	base
	Elements []Pattern
}

// LiteralPattern matches a value equal to Value (an integer, decimal,
// string, bool, or nil literal expression).
type LiteralPattern struct {
	base
	Value Expr
}

// RangePattern matches an integer within [Start, End] (or [Start, End) when
// Inclusive is false).
type RangePattern struct {
	base
	Start     int64
	End       int64
	Inclusive bool
}

func (*WildcardPattern) patternNode() {}
func (*BindingPattern) patternNode()  {}
func (*RestPattern) patternNode()     {}
func (*ListPattern) patternNode()     {}
func (*LiteralPattern) patternNode()  {}
func (*RangePattern) patternNode()    {}
