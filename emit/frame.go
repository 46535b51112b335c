package emit

import "github.com/santalang/santa/value"

// Frame is one function activation's live storage. Every slot (local,
// captured, or top-level) is a pointer-boxed cell rather than a bare
// value.Value: a closure captures the *cell*, not a copy of the value at
// capture time, so a `let mut` variable shared with a nested closure
// observes that closure's later assignments (§9's closures share mutable
// upvalues the way any tree-walking interpreter with `let mut` needs to).
type Frame struct {
	top      []*value.Value
	locals   []*value.Value
	captures []*value.Value
	self     *value.Function
}

// newCells allocates n freshly-boxed, Nil-initialized cells.
func newCells(n int) []*value.Value {
	backing := make([]value.Value, n)
	cells := make([]*value.Value, n)
	for i := range cells {
		backing[i] = value.Nil
		cells[i] = &backing[i]
	}
	return cells
}

// exprFn is one compiled expression: given the frame it runs in, produce a
// value or a runtime error. Every ast.Expr node compiles down to exactly
// one of these, built once at Compile time and re-run on every evaluation.
type exprFn func(fr *Frame) (value.Value, error)

// stmtFn is one compiled statement; its return value only matters for the
// last statement of a block (§4.6).
type stmtFn func(fr *Frame) (value.Value, error)

// returnSignal and breakSignal implement error so `return`/`break` unwind
// through ordinary Go error propagation: every compiled form already stops
// and forwards on a non-nil error, so a return/break nested arbitrarily
// deep inside blocks, ifs, and matches reaches compileFunction's call
// wrapper for free, without every operator needing a special check.
type returnSignal struct{ value value.Value }

func (returnSignal) Error() string { return "return outside a function" }

type breakSignal struct{ value value.Value }

func (breakSignal) Error() string { return "break outside a function" }

// tailJumpSignal is how a tail-position self-call (§4.5) asks the owning
// function's dispatch loop to reassign parameters and restart the body
// instead of recursing. Like return/break, it rides the normal error
// channel so it propagates transparently through if/match/block without
// any of those needing to know about tail calls at all.
type tailJumpSignal struct{ args []value.Value }

func (tailJumpSignal) Error() string { return "tail jump outside a dispatch loop" }
