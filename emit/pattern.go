package emit

import (
	"github.com/santalang/santa/ast"
	"github.com/santalang/santa/value"
)

// write stores v into the slot a pattern binding or assignment targets,
// choosing the top-level or local cell array the way ctx.atTop says this
// part of the program addresses its bindings.
func write(fr *Frame, atTop bool, slot int, v value.Value) {
	if atTop {
		*fr.top[slot] = v
	} else {
		*fr.locals[slot] = v
	}
}

func evalConstLiteral(e ast.Expr) value.Value {
	switch lit := e.(type) {
	case *ast.IntLiteral:
		return value.Int(lit.Value)
	case *ast.DecimalLiteral:
		return value.Decimal(lit.Value)
	case *ast.StringLiteral:
		return value.NewString(lit.Value)
	case *ast.BoolLiteral:
		return value.Bool(lit.Value)
	case *ast.NilLiteral:
		return value.Nil
	default:
		panic("emit: literal pattern does not wrap a literal expression")
	}
}

// compileMatcher compiles a Pattern into a try-match function: it reports
// whether v has the pattern's shape, binding any names the pattern
// introduces as a side effect of a successful match. The same matcher
// serves `let` (which requires success), `match` arms, and `if let` (both
// of which need to try several patterns until one succeeds).
func (c *compiler) compileMatcher(cx ctx, pat ast.Pattern) func(fr *Frame, v value.Value) bool {
	switch p := pat.(type) {
	case *ast.WildcardPattern:
		return func(*Frame, value.Value) bool { return true }

	case *ast.BindingPattern:
		slot := p.Slot
		atTop := cx.atTop
		return func(fr *Frame, v value.Value) bool {
			write(fr, atTop, slot, v)
			return true
		}

	case *ast.LiteralPattern:
		want := evalConstLiteral(p.Value)
		return func(_ *Frame, v value.Value) bool { return want.Equal(v) }

	case *ast.RangePattern:
		r := value.Range{Start: p.Start, End: p.End, Inclusive: p.Inclusive}
		return func(_ *Frame, v value.Value) bool {
			n, ok := v.(value.Int)
			if !ok {
				return false
			}
			return r.Contains(int64(n))
		}

	case *ast.ListPattern:
		return c.compileListMatcher(cx, p)

	case *ast.RestPattern:
		// Only meaningful nested inside a ListPattern; compileListMatcher
		// handles it directly rather than routing through here.
		slot := p.Slot
		atTop := cx.atTop
		return func(fr *Frame, v value.Value) bool {
			write(fr, atTop, slot, v)
			return true
		}

	default:
		panic("emit: cannot compile pattern of unexpected type")
	}
}

func (c *compiler) compileListMatcher(cx ctx, p *ast.ListPattern) func(fr *Frame, v value.Value) bool {
	restIdx := -1
	restSlot := 0
	restName := ""
	elemMatchers := make([]func(fr *Frame, v value.Value) bool, len(p.Elements))
	for i, el := range p.Elements {
		if rp, ok := el.(*ast.RestPattern); ok {
			restIdx = i
			restSlot = rp.Slot
			restName = rp.Name
			continue
		}
		elemMatchers[i] = c.compileMatcher(cx, el)
	}
	atTop := cx.atTop

	return func(fr *Frame, v value.Value) bool {
		lst, ok := v.(value.List)
		if !ok {
			return false
		}
		n := lst.Len()

		if restIdx < 0 {
			if n != int64(len(p.Elements)) {
				return false
			}
			for i, m := range elemMatchers {
				elv, _ := lst.At(int64(i))
				if !m(fr, elv) {
					return false
				}
			}
			return true
		}

		fixedBefore := restIdx
		fixedAfter := len(p.Elements) - restIdx - 1
		if n < int64(fixedBefore+fixedAfter) {
			return false
		}
		for i := 0; i < fixedBefore; i++ {
			elv, _ := lst.At(int64(i))
			if !elemMatchers[i](fr, elv) {
				return false
			}
		}
		for i := 0; i < fixedAfter; i++ {
			elv, _ := lst.At(n - int64(fixedAfter) + int64(i))
			if !elemMatchers[restIdx+1+i](fr, elv) {
				return false
			}
		}
		if restName != "" {
			write(fr, atTop, restSlot, lst.Slice(int64(fixedBefore), n-int64(fixedAfter)))
		}
		return true
	}
}

// compileLetBind adapts a try-match matcher to `let`'s all-or-nothing
// semantics: a shape mismatch is a PatternMatchError (§7), not a silently
// skipped branch.
func (c *compiler) compileLetBind(cx ctx, pat ast.Pattern) func(fr *Frame, v value.Value) error {
	m := c.compileMatcher(cx, pat)
	return func(fr *Frame, v value.Value) error {
		if !m(fr, v) {
			return &value.ErrPatternMatch{Reason: "let binding pattern did not match the assigned value"}
		}
		return nil
	}
}
