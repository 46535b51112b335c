package emit

import (
	"github.com/santalang/santa/ast"
	"github.com/santalang/santa/reporter"
	"github.com/santalang/santa/value"
)

// compileBlock compiles a brace-delimited sequence of statements; its
// value is whatever the last statement produced, or Nil for an empty
// block (§4.6).
func (c *compiler) compileBlock(cx ctx, ex *ast.BlockExpr) exprFn {
	stmtFns := make([]stmtFn, len(ex.Stmts))
	for i, s := range ex.Stmts {
		stmtFns[i] = c.compileStmt(cx, s)
	}
	return func(fr *Frame) (value.Value, error) {
		var result value.Value = value.Nil
		for _, sf := range stmtFns {
			v, err := sf(fr)
			if err != nil {
				return nil, err
			}
			result = v
		}
		return result, nil
	}
}

func (c *compiler) compileStmt(cx ctx, s ast.Stmt) stmtFn {
	switch st := s.(type) {
	case *ast.ExprStmt:
		return stmtFn(c.compileExpr(cx, st.Expr))

	case *ast.LetStmt:
		valueFn := c.compileExpr(cx, st.Value)
		bind := c.compileLetBind(cx, st.Pattern)
		span := st.Span()
		return func(fr *Frame) (value.Value, error) {
			v, err := valueFn(fr)
			if err != nil {
				return nil, err
			}
			if err := bind(fr, v); err != nil {
				return nil, wrapRuntimeErr(span, err)
			}
			return value.Nil, nil
		}

	case *ast.ReturnStmt:
		if st.Value == nil {
			return func(*Frame) (value.Value, error) { return nil, returnSignal{value: value.Nil} }
		}
		vf := c.compileExpr(cx, st.Value)
		return func(fr *Frame) (value.Value, error) {
			v, err := vf(fr)
			if err != nil {
				return nil, err
			}
			return nil, returnSignal{value: v}
		}

	case *ast.BreakStmt:
		if st.Value == nil {
			return func(*Frame) (value.Value, error) { return nil, breakSignal{value: value.Nil} }
		}
		vf := c.compileExpr(cx, st.Value)
		return func(fr *Frame) (value.Value, error) {
			v, err := vf(fr)
			if err != nil {
				return nil, err
			}
			return nil, breakSignal{value: v}
		}

	default:
		panic("emit: cannot compile statement of unexpected type")
	}
}

func (c *compiler) compileIf(cx ctx, ex *ast.IfExpr) exprFn {
	condFn := c.compileExpr(cx, ex.Cond)
	thenFn := c.compileExpr(cx, ex.Then)
	var elseFn exprFn
	if ex.Else != nil {
		elseFn = c.compileExpr(cx, ex.Else)
	}

	if ex.CondPattern != nil {
		matcher := c.compileMatcher(cx, ex.CondPattern)
		return func(fr *Frame) (value.Value, error) {
			cv, err := condFn(fr)
			if err != nil {
				return nil, err
			}
			if matcher(fr, cv) {
				return thenFn(fr)
			}
			if elseFn != nil {
				return elseFn(fr)
			}
			return value.Nil, nil
		}
	}

	return func(fr *Frame) (value.Value, error) {
		cv, err := condFn(fr)
		if err != nil {
			return nil, err
		}
		if cv.Truthy() {
			return thenFn(fr)
		}
		if elseFn != nil {
			return elseFn(fr)
		}
		return value.Nil, nil
	}
}

func (c *compiler) compileMatchExpr(cx ctx, ex *ast.MatchExpr) exprFn {
	subjFn := c.compileExpr(cx, ex.Subject)

	type arm struct {
		matcher func(fr *Frame, v value.Value) bool
		body    exprFn
	}
	arms := make([]arm, len(ex.Arms))
	for i, a := range ex.Arms {
		arms[i] = arm{matcher: c.compileMatcher(cx, a.Pattern), body: c.compileExpr(cx, a.Body)}
	}
	span := ex.Span()

	return func(fr *Frame) (value.Value, error) {
		sv, err := subjFn(fr)
		if err != nil {
			return nil, err
		}
		for _, a := range arms {
			if a.matcher(fr, sv) {
				return a.body(fr)
			}
		}
		return nil, reporter.Wrap(reporter.PatternMatchError, span,
			&value.ErrPatternMatch{Reason: "no match arm matched the subject value"})
	}
}
