package ast

// Literal expressions.

type IntLiteral struct {
	base
	Value int64
}

type DecimalLiteral struct {
	base
	Value float64
}

type StringLiteral struct {
	base
	Value string
}

type BoolLiteral struct {
	base
	Value bool
}

type NilLiteral struct {
	base
}

func (*IntLiteral) exprNode()     {}
func (*DecimalLiteral) exprNode() {}
func (*StringLiteral) exprNode()  {}
func (*BoolLiteral) exprNode()    {}
func (*NilLiteral) exprNode()     {}

// IdentifierExpr references a binding by name. The resolver annotates it
// with a BindingRef once name resolution succeeds (§3.3's invariant: every
// surviving IdentifierExpr resolves to exactly one binding kind).
type IdentifierExpr struct {
	base
	Name string

	// Binding is filled in by the resolver. Nil until then.
	Binding *BindingRef
}

func (*IdentifierExpr) exprNode() {}

// BindingRef is the resolver's classification of an identifier reference.
type BindingRef struct {
	Kind BindingKind
	// Slot is the local/closure slot index for Local/Captured bindings, or
	// the top-level slot index for TopLevel bindings. Unused for Builtin
	// and Self.
	Slot int
	// Depth counts how many enclosing function scopes were crossed to reach
	// this binding; 0 means the current function's own locals.
	Depth int
}

type BindingKind int

const (
	BindingLocal BindingKind = iota
	BindingCaptured
	BindingTopLevel
	BindingBuiltin
	BindingSelf // self-reference inside a let-bound function literal (plain or memoized), §4.4
)

// PlaceholderExpr is the `_` placeholder. It never survives past the
// desugarer (§3.3 invariant).
type PlaceholderExpr struct {
	base
	// Ordinal is assigned left-to-right during placeholder lifting and
	// determines the generated lambda parameter's name ($0, $1, ...).
	Ordinal int
}

func (*PlaceholderExpr) exprNode() {}

// SpreadElement wraps `..expr` inside a list/set/dict literal or a call's
// argument list.
type SpreadElement struct {
	base
	Value Expr
}

func (*SpreadElement) exprNode() {}

type ListExpr struct {
	base
	Elements []Expr // element is either a plain Expr or a *SpreadElement
}

func (*ListExpr) exprNode() {}

type SetExpr struct {
	base
	Elements []Expr
}

func (*SetExpr) exprNode() {}

// DictEntry is one `key: value` pair in a dict literal.
type DictEntry struct {
	base
	Key   Expr
	Value Expr
}

func (*DictEntry) exprNode() {}

type DictExpr struct {
	base
	// Entries holds *DictEntry and *SpreadElement items.
	Entries []Expr
}

func (*DictExpr) exprNode() {}

type UnaryOp int

const (
	UnaryNeg UnaryOp = iota
	UnaryNot
)

type UnaryExpr struct {
	base
	Op      UnaryOp
	Operand Expr
}

func (*UnaryExpr) exprNode() {}

type BinaryOp int

const (
	BinAdd BinaryOp = iota
	BinSub
	BinMul
	BinDiv
	BinMod
	BinEq
	BinNotEq
	BinLt
	BinLtEq
	BinGt
	BinGtEq
	BinAnd // &&
	BinOr  // ||
	BinPipe
	BinCompose // >>
)

type BinaryExpr struct {
	base
	Op    BinaryOp
	Left  Expr
	Right Expr
}

func (*BinaryExpr) exprNode() {}

// AssignmentExpr is `target = value`. The resolver verifies target is a
// mutable local/top-level binding (§3.3).
type AssignmentExpr struct {
	base
	Target Expr
	Value  Expr
}

func (*AssignmentExpr) exprNode() {}

// RangeExpr is `start..end`, `start..=end`, or the unbounded `start..`.
// End is nil for the unbounded form.
type RangeExpr struct {
	base
	Start     Expr
	End       Expr
	Inclusive bool
}

func (*RangeExpr) exprNode() {}

// InfixCallExpr is the backtick sugar `` x `f` y `` ≡ `f(x, y)`.
type InfixCallExpr struct {
	base
	Left  Expr
	Func  Expr
	Right Expr
}

func (*InfixCallExpr) exprNode() {}

// CallExpr is `callee(args...)`. Each element of Args is either a plain Expr
// or a *SpreadElement. Trailing-lambda sugar `f(x) |p| body` is desugared by
// the parser into an ordinary trailing *FunctionExpr argument.
type CallExpr struct {
	base
	Callee Expr
	Args   []Expr
}

func (*CallExpr) exprNode() {}

// IndexExpr is `target[index]`; Index may itself be a RangeExpr (slicing).
type IndexExpr struct {
	base
	Target Expr
	Index  Expr
}

func (*IndexExpr) exprNode() {}

// Param is one function parameter, before or after pattern-parameter
// desugaring (§4.3.2). Exactly one of Name/Pattern is set.
type Param struct {
	base
	Name    string  // set once this is a plain NamedParam
	Pattern Pattern // set for a pattern parameter, cleared by desugaring

	// Slot is filled in by the resolver: the parameter's local slot index
	// within its function, in declaration order.
	Slot int
}

type FunctionExpr struct {
	base
	Params []Param
	Body   Expr

	// TailSelfCalls is filled in by the tail-call analyzer (§4.5) when this
	// function is bound directly by a non-memoized `let`: it lists every
	// self-call in the body, tail or not, excluding calls inside nested
	// function literals.
	TailSelfCalls []*CallExpr
	// IsTailRecursive is set by the tail-call analyzer when every entry in
	// TailSelfCalls is genuinely in tail position and at least one exists.
	IsTailRecursive bool
	// SelfName is the `let`-bound name this function closure is reachable
	// through, used to recognize self-calls; empty for anonymous lambdas.
	SelfName string
	// IsMemoized is set by the resolver when this literal is wrapped
	// directly by `memoize(...)` at its binding site. The tail-call
	// analyzer skips these: a memoized self-call must go back through the
	// memoizing wrapper to hit the cache, so it can never be loop-rewritten.
	IsMemoized bool

	// NumLocals is filled in by the resolver: the number of local slots
	// (parameters plus every block-scoped `let`) this function's stack
	// frame needs.
	NumLocals int
	// Captures is filled in by the resolver, in first-reference order: each
	// entry describes one variable from an enclosing scope this closure
	// must carry with it.
	Captures []Capture
}

// Capture describes one free variable a closure must carry. Source is
// where the emitter reads the value from in the *enclosing* function's
// frame at closure-creation time; Kind is always BindingLocal or
// BindingCaptured (a capture can itself be re-captured by a further-nested
// closure).
type Capture struct {
	Name       string
	SourceKind BindingKind
	SourceSlot int
}

func (*FunctionExpr) exprNode() {}

type BlockExpr struct {
	base
	Stmts []Stmt
}

func (*BlockExpr) exprNode() {}

// IfExpr covers both `if cond { .. } else { .. }` and the `if let pattern =
// expr { .. }` condition form. CondPattern is non-nil only for the latter.
type IfExpr struct {
	base
	CondPattern Pattern
	Cond        Expr
	Then        Expr
	Else        Expr // nil if no else branch
}

func (*IfExpr) exprNode() {}

type MatchArm struct {
	base
	Pattern Pattern
	Body    Expr
}

type MatchExpr struct {
	base
	Subject Expr
	Arms    []MatchArm
}

func (*MatchExpr) exprNode() {}
