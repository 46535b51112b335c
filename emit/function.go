package emit

import (
	"github.com/santalang/santa/ast"
	"github.com/santalang/santa/value"
)

// tailSetFor returns the pointer-identity set of a tail-recursive
// function's own self-calls, or nil when the function was never tagged
// tail-recursive by the tailcall analyzer — compileCall treats a nil set
// as "no tail jumps here" without a separate existence check.
func tailSetFor(fn *ast.FunctionExpr) map[*ast.CallExpr]bool {
	if !fn.IsTailRecursive {
		return nil
	}
	set := make(map[*ast.CallExpr]bool, len(fn.TailSelfCalls))
	for _, c := range fn.TailSelfCalls {
		set[c] = true
	}
	return set
}

// compileFunctionRaw compiles a function literal's body once and returns a
// closure-builder: each time it runs (once per closure creation — every
// time the enclosing let/literal is evaluated) it captures the enclosing
// frame's cells, builds the Function value, and hands back the self-cell
// pointer so a caller with special handling (the memoize(fnLit) shape)
// can redirect what self-calls ultimately reach.
func (c *compiler) compileFunctionRaw(fn *ast.FunctionExpr) func(fr *Frame) (value.Value, *value.Function, error) {
	bodyCx := ctx{tail: tailSetFor(fn)}
	bodyFn := c.compileExpr(bodyCx, fn.Body)

	params := fn.Params
	arity := len(params)
	numLocals := fn.NumLocals
	captures := fn.Captures
	selfName := fn.SelfName
	isTail := fn.IsTailRecursive

	return func(fr *Frame) (value.Value, *value.Function, error) {
		capturedCells := make([]*value.Value, len(captures))
		for i, cp := range captures {
			switch cp.SourceKind {
			case ast.BindingLocal:
				capturedCells[i] = fr.locals[cp.SourceSlot]
			case ast.BindingCaptured:
				capturedCells[i] = fr.captures[cp.SourceSlot]
			}
		}
		topCells := fr.top

		var selfCell *value.Function

		callFn := func(args []value.Value) (value.Value, error) {
			child := &Frame{
				top:      topCells,
				locals:   newCells(numLocals),
				captures: capturedCells,
				self:     selfCell,
			}
			for i, p := range params {
				*child.locals[p.Slot] = args[i]
			}

			if isTail {
				for {
					v, err := bodyFn(child)
					if err == nil {
						return v, nil
					}
					if tj, ok := err.(tailJumpSignal); ok {
						for i, p := range params {
							*child.locals[p.Slot] = tj.args[i]
						}
						continue
					}
					if rs, ok := err.(returnSignal); ok {
						return rs.value, nil
					}
					if bs, ok := err.(breakSignal); ok {
						return bs.value, nil
					}
					return nil, err
				}
			}

			v, err := bodyFn(child)
			if err != nil {
				if rs, ok := err.(returnSignal); ok {
					return rs.value, nil
				}
				if bs, ok := err.(breakSignal); ok {
					return bs.value, nil
				}
				return nil, err
			}
			return v, nil
		}

		fnVal := value.Function{
			Name:  selfName,
			Arity: arity,
			Call: func(args []value.Value) (value.Value, error) {
				if len(args) != arity {
					return nil, &value.ErrArity{Name: selfName, Want: arity, Got: len(args)}
				}
				return callFn(args)
			},
		}

		if selfName != "" {
			self := fnVal
			selfCell = &self
		}

		return fnVal, selfCell, nil
	}
}

// compileFunction compiles an ordinary function-literal expression (one
// that isn't the direct argument of memoize(...)); its self-cell, if any,
// is fixed at creation time and never redirected.
func (c *compiler) compileFunction(fn *ast.FunctionExpr) exprFn {
	raw := c.compileFunctionRaw(fn)
	return func(fr *Frame) (value.Value, error) {
		v, _, err := raw(fr)
		return v, err
	}
}

// compileMemoizeLet handles `memoize(|...self-recursive...| ...)`: the raw
// function is built first so self-calls route through its own self-cell,
// then that self-cell is overwritten to point at the memoized wrapper, so
// recursive calls inside the body are cached exactly like calls from
// outside (§4.4, §4.8's memoize contract).
func (c *compiler) compileMemoizeLet(fnLit *ast.FunctionExpr, span ast.Span) exprFn {
	raw := c.compileFunctionRaw(fnLit)
	return func(fr *Frame) (value.Value, error) {
		rawVal, selfCell, err := raw(fr)
		if err != nil {
			return nil, err
		}
		wrapped, err := c.table.Call("memoize", []value.Value{rawVal})
		if err != nil {
			return nil, wrapRuntimeErr(span, err)
		}
		if selfCell != nil {
			if wf, ok := wrapped.(value.Function); ok {
				*selfCell = wf
			}
		}
		return wrapped, nil
	}
}
