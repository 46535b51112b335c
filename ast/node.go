package ast

// Node is implemented by every AST node: statements, expressions, patterns,
// and top-level items. It exposes the node's source span for diagnostics.
type Node interface {
	Span() Span
}

// Expr is implemented by every expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Pattern is implemented by every pattern node (`let` targets, function
// parameters, `match` arms).
type Pattern interface {
	Node
	patternNode()
}

// base embeds a Span and satisfies Node; every concrete node type embeds it
// so it only needs to declare its own fields.
type base struct {
	span Span
}

func (b base) Span() Span { return b.span }

// SetSpan sets the node's span. Parsers and desugaring passes use this to
// fill in a node's span after construction (or to rewrite it for a
// synthesized node).
func (b *base) SetSpan(s Span) { b.span = s }

// NewBase constructs the embeddable span-holder for a node.
func NewBase(span Span) base { return base{span: span} }
