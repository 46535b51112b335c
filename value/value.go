// Package value implements the santa-lang runtime value model (§4.7):
// immutable scalars, persistent collections backed by copy-on-write
// B-trees, lazy sequences, and first-class functions. Every operation that
// can fail returns a plain error; the emitter and built-ins layer are
// responsible for attaching a source span and the right reporter.Kind.
package value

import "fmt"

// Type names a value's runtime type, matching the strings `type(x)` returns
// (§4.8).
type Type string

const (
	TypeInt      Type = "Integer"
	TypeDecimal  Type = "Decimal"
	TypeString   Type = "String"
	TypeBool     Type = "Boolean"
	TypeNil      Type = "Nil"
	TypeList     Type = "List"
	TypeSet      Type = "Set"
	TypeDict     Type = "Dictionary"
	TypeRange    Type = "Range"
	TypeLazySeq  Type = "LazySequence"
	TypeFunction Type = "Function"
)

// Value is implemented by every runtime value.
type Value interface {
	Type() Type
	// Truthy reports whether the value counts as true in a boolean context
	// (§3.4): false and Nil are falsy, and so are the "empty" values of
	// every other type — 0, 0.0, "", and an empty List/Set/Dict; every
	// other value is truthy.
	Truthy() bool
	// Hash returns a structural hash and true if the value is hashable
	// (usable as a Set member or Dict key); ok is false for values whose
	// identity can't be meaningfully hashed (Function, LazySequence).
	Hash() (h uint64, ok bool)
	// Equal reports structural equality with another value of the same
	// dynamic type; comparing across types is always false.
	Equal(other Value) bool
}

// ErrNotHashable is returned by operations (Set/Dict construction, `memoize`
// argument tuples) that require every operand to be hashable.
type ErrNotHashable struct {
	Of Type
}

func (e *ErrNotHashable) Error() string {
	return fmt.Sprintf("value of type %s is not hashable", e.Of)
}

// ErrTypeMismatch is the general "wrong type for this operation" error
// raised by operators and built-ins.
type ErrTypeMismatch struct {
	Op       string
	Operands []Type
}

// opVerbs names the operations whose error text §4.7/§7 pin to a
// verb-prefixed sentence ("Cannot add Integer and String") rather than the
// generic "op: unsupported operand type(s)" rendering used everywhere else.
var opVerbs = map[string]string{
	"negate":  "negate",
	"+":       "add",
	"-":       "subtract",
	"*":       "multiply",
	"/":       "divide",
	"%":       "take the modulo of",
	"compare": "compare",
}

func (e *ErrTypeMismatch) Error() string {
	verb, ok := opVerbs[e.Op]
	if !ok {
		return fmt.Sprintf("%s: unsupported operand type(s) %v", e.Op, e.Operands)
	}
	switch len(e.Operands) {
	case 1:
		return fmt.Sprintf("Cannot %s %s", verb, e.Operands[0])
	case 2:
		return fmt.Sprintf("Cannot %s %s and %s", verb, e.Operands[0], e.Operands[1])
	default:
		return fmt.Sprintf("Cannot %s", verb)
	}
}

// ErrIndexOutOfRange is raised by list/range indexing.
type ErrIndexOutOfRange struct {
	Index int64
	Len   int64
}

func (e *ErrIndexOutOfRange) Error() string {
	return fmt.Sprintf("index %d out of range (length %d)", e.Index, e.Len)
}

// ErrPatternMatch corresponds to §4.9's PatternMatchError: destructuring a
// `let`/function-parameter/`match` pattern against a value of the wrong
// shape.
type ErrPatternMatch struct {
	Reason string
}

func (e *ErrPatternMatch) Error() string { return "Pattern match failed: " + e.Reason }
