// Package emit implements the code emitter (§4.6): it walks a resolved,
// tail-call-analyzed ast.Program once and compiles every expression and
// statement into a Go closure over a *Frame. Evaluating the program after
// that is just invoking those closures — there is no separate bytecode or
// virtual machine; the "instructions" are ordinary Go function values, the
// same closure-compiling approach the teacher's linker takes to resolving
// descriptor references once and reusing the resolved form on every later
// lookup.
package emit

import (
	"github.com/santalang/santa/ast"
	"github.com/santalang/santa/builtins"
	"github.com/santalang/santa/reporter"
	"github.com/santalang/santa/value"
)

// compiler holds the collaborators every compiled closure may need at
// runtime: the built-in table calls dispatch through, and the section
// thunks a BindingTopLevel read must check before falling back to a plain
// slot read (§9's sections-as-thunks design).
type compiler struct {
	table         *builtins.Table
	sectionThunks map[int]func() (value.Value, error)
}

// ctx carries per-function compile-time context down through the
// recursive-descent compile: which CallExpr nodes are this function's own
// tail self-calls (nil outside any tail-recursive function), and whether
// we're compiling top-level code (writes go to Frame.top) or function-body
// code (writes go to Frame.locals).
type ctx struct {
	tail  map[*ast.CallExpr]bool
	atTop bool
}

// wrapRuntimeErr attaches a source span and the right reporter.Kind to a
// plain error surfaced by a value operation or a built-in.
func wrapRuntimeErr(span ast.Span, err error) error {
	if err == nil {
		return nil
	}
	if pm, ok := err.(*value.ErrPatternMatch); ok {
		return reporter.Wrap(reporter.PatternMatchError, span, pm)
	}
	return reporter.Wrap(reporter.RuntimeError, span, err)
}

func (c *compiler) compileExpr(cx ctx, e ast.Expr) exprFn {
	switch ex := e.(type) {
	case *ast.IntLiteral:
		v := value.Int(ex.Value)
		return func(*Frame) (value.Value, error) { return v, nil }
	case *ast.DecimalLiteral:
		v := value.Decimal(ex.Value)
		return func(*Frame) (value.Value, error) { return v, nil }
	case *ast.StringLiteral:
		v := value.NewString(ex.Value)
		return func(*Frame) (value.Value, error) { return v, nil }
	case *ast.BoolLiteral:
		v := value.Bool(ex.Value)
		return func(*Frame) (value.Value, error) { return v, nil }
	case *ast.NilLiteral:
		return func(*Frame) (value.Value, error) { return value.Nil, nil }
	case *ast.IdentifierExpr:
		return c.compileIdentifier(ex)
	case *ast.ListExpr:
		return c.compileListExpr(cx, ex)
	case *ast.SetExpr:
		return c.compileSetExpr(cx, ex)
	case *ast.DictExpr:
		return c.compileDictExpr(cx, ex)
	case *ast.UnaryExpr:
		return c.compileUnary(cx, ex)
	case *ast.BinaryExpr:
		return c.compileBinary(cx, ex)
	case *ast.AssignmentExpr:
		return c.compileAssignment(cx, ex)
	case *ast.RangeExpr:
		return c.compileRange(cx, ex)
	case *ast.InfixCallExpr:
		return c.compileInfixCall(cx, ex)
	case *ast.CallExpr:
		return c.compileCall(cx, ex)
	case *ast.IndexExpr:
		return c.compileIndexExpr(cx, ex)
	case *ast.FunctionExpr:
		return c.compileFunction(ex)
	case *ast.BlockExpr:
		return c.compileBlock(cx, ex)
	case *ast.IfExpr:
		return c.compileIf(cx, ex)
	case *ast.MatchExpr:
		return c.compileMatchExpr(cx, ex)
	default:
		panic("emit: cannot compile expression of unexpected type")
	}
}

// compileIdentifier dispatches on the resolver's binding classification; by
// the time emission runs, every surviving identifier has exactly one kind
// (§3.3's invariant), so this switch is exhaustive by construction.
func (c *compiler) compileIdentifier(id *ast.IdentifierExpr) exprFn {
	b := id.Binding
	switch b.Kind {
	case ast.BindingLocal:
		slot := b.Slot
		return func(fr *Frame) (value.Value, error) { return *fr.locals[slot], nil }
	case ast.BindingCaptured:
		slot := b.Slot
		return func(fr *Frame) (value.Value, error) { return *fr.captures[slot], nil }
	case ast.BindingTopLevel:
		slot := b.Slot
		return func(fr *Frame) (value.Value, error) {
			if thunk, ok := c.sectionThunks[slot]; ok {
				return thunk()
			}
			return *fr.top[slot], nil
		}
	case ast.BindingBuiltin:
		name := id.Name
		return func(*Frame) (value.Value, error) { return c.builtinFunctionValue(name), nil }
	case ast.BindingSelf:
		return func(fr *Frame) (value.Value, error) { return *fr.self, nil }
	default:
		panic("emit: identifier with unresolved binding")
	}
}

// builtinFunctionValue wraps a catalog entry as an ordinary first-class
// Function value, so a bare built-in reference (passed to `map`, piped
// with `|>`, composed with `>>`) behaves exactly like any user function.
func (c *compiler) builtinFunctionValue(name string) value.Value {
	b, _ := c.table.Lookup(name)
	table := c.table
	return value.Function{
		Name:  name,
		Arity: b.Arity,
		Call: func(args []value.Value) (value.Value, error) {
			return table.Call(name, args)
		},
	}
}

func (c *compiler) compileUnary(cx ctx, ex *ast.UnaryExpr) exprFn {
	if ex.Op == ast.UnaryNeg {
		// Constant-fold a literal negation at compile time (§4.6).
		switch lit := ex.Operand.(type) {
		case *ast.IntLiteral:
			v := value.Int(-lit.Value)
			return func(*Frame) (value.Value, error) { return v, nil }
		case *ast.DecimalLiteral:
			v := value.Decimal(-lit.Value)
			return func(*Frame) (value.Value, error) { return v, nil }
		}
	}
	operand := c.compileExpr(cx, ex.Operand)
	span := ex.Span()
	if ex.Op == ast.UnaryNot {
		return func(fr *Frame) (value.Value, error) {
			v, err := operand(fr)
			if err != nil {
				return nil, err
			}
			res, _ := value.Not(v)
			return res, nil
		}
	}
	return func(fr *Frame) (value.Value, error) {
		v, err := operand(fr)
		if err != nil {
			return nil, err
		}
		res, err := value.Negate(v)
		if err != nil {
			return nil, wrapRuntimeErr(span, err)
		}
		return res, nil
	}
}

func arithOpFor(op ast.BinaryOp) func(a, b value.Value) (value.Value, error) {
	switch op {
	case ast.BinAdd:
		return value.Add
	case ast.BinSub:
		return value.Sub
	case ast.BinMul:
		return value.Mul
	case ast.BinDiv:
		return value.Div
	case ast.BinMod:
		return value.Mod
	default:
		panic("emit: not an arithmetic operator")
	}
}

func (c *compiler) compileBinary(cx ctx, ex *ast.BinaryExpr) exprFn {
	switch ex.Op {
	case ast.BinAnd:
		l := c.compileExpr(cx, ex.Left)
		r := c.compileExpr(cx, ex.Right)
		return func(fr *Frame) (value.Value, error) {
			lv, err := l(fr)
			if err != nil {
				return nil, err
			}
			if !lv.Truthy() {
				return lv, nil
			}
			return r(fr)
		}
	case ast.BinOr:
		l := c.compileExpr(cx, ex.Left)
		r := c.compileExpr(cx, ex.Right)
		return func(fr *Frame) (value.Value, error) {
			lv, err := l(fr)
			if err != nil {
				return nil, err
			}
			if lv.Truthy() {
				return lv, nil
			}
			return r(fr)
		}
	case ast.BinPipe:
		return c.compilePipe(cx, ex)
	case ast.BinCompose:
		return c.compileCompose(cx, ex)
	}

	l := c.compileExpr(cx, ex.Left)
	r := c.compileExpr(cx, ex.Right)
	span := ex.Span()

	switch ex.Op {
	case ast.BinEq:
		return func(fr *Frame) (value.Value, error) {
			lv, err := l(fr)
			if err != nil {
				return nil, err
			}
			rv, err := r(fr)
			if err != nil {
				return nil, err
			}
			return value.Bool(lv.Equal(rv)), nil
		}
	case ast.BinNotEq:
		return func(fr *Frame) (value.Value, error) {
			lv, err := l(fr)
			if err != nil {
				return nil, err
			}
			rv, err := r(fr)
			if err != nil {
				return nil, err
			}
			return value.Bool(!lv.Equal(rv)), nil
		}
	case ast.BinLt, ast.BinLtEq, ast.BinGt, ast.BinGtEq:
		op := ex.Op
		return func(fr *Frame) (value.Value, error) {
			lv, err := l(fr)
			if err != nil {
				return nil, err
			}
			rv, err := r(fr)
			if err != nil {
				return nil, err
			}
			cmp, err := value.Compare(lv, rv)
			if err != nil {
				return nil, wrapRuntimeErr(span, err)
			}
			switch op {
			case ast.BinLt:
				return value.Bool(cmp < 0), nil
			case ast.BinLtEq:
				return value.Bool(cmp <= 0), nil
			case ast.BinGt:
				return value.Bool(cmp > 0), nil
			default:
				return value.Bool(cmp >= 0), nil
			}
		}
	default:
		opFn := arithOpFor(ex.Op)
		return func(fr *Frame) (value.Value, error) {
			lv, err := l(fr)
			if err != nil {
				return nil, err
			}
			rv, err := r(fr)
			if err != nil {
				return nil, err
			}
			res, err := opFn(lv, rv)
			if err != nil {
				return nil, wrapRuntimeErr(span, err)
			}
			return res, nil
		}
	}
}

// compilePipe implements `x |> f` ≡ `f(x)` and, when the right-hand side is
// itself a call, `x |> f(a, b)` ≡ `f(a, b, x)` — the piped value is
// appended as the call's final argument, so `xs |> map(double)` reaches
// `map` as `map(double, xs)` (§4.7). `zip` is the one built-in where every
// argument is a collection in output-column order rather than `(fn,
// collection)`, so piping into it leads with the piped operand instead:
// `1.. |> zip(["a","b","c"])` must reach `zip` as `zip(1.., ["a","b","c"])`,
// not with the piped range tacked on the end.
func (c *compiler) compilePipe(cx ctx, ex *ast.BinaryExpr) exprFn {
	if call, ok := ex.Right.(*ast.CallExpr); ok {
		if id, ok := call.Callee.(*ast.IdentifierExpr); ok && id.Name == "zip" &&
			id.Binding != nil && id.Binding.Kind == ast.BindingBuiltin {
			args := make([]ast.Expr, 0, len(call.Args)+1)
			args = append(args, ex.Left)
			args = append(args, call.Args...)
			return c.compileInvocation(cx, call.Callee, args, ex.Span())
		}
		args := make([]ast.Expr, 0, len(call.Args)+1)
		args = append(args, call.Args...)
		args = append(args, ex.Left)
		return c.compileInvocation(cx, call.Callee, args, ex.Span())
	}
	return c.compileInvocation(cx, ex.Right, []ast.Expr{ex.Left}, ex.Span())
}

// compileCompose implements `f >> g`, producing a new Function computing
// `g(f(x))` (§4.7).
func (c *compiler) compileCompose(cx ctx, ex *ast.BinaryExpr) exprFn {
	l := c.compileExpr(cx, ex.Left)
	r := c.compileExpr(cx, ex.Right)
	span := ex.Span()
	return func(fr *Frame) (value.Value, error) {
		lv, err := l(fr)
		if err != nil {
			return nil, err
		}
		rv, err := r(fr)
		if err != nil {
			return nil, err
		}
		lf, ok := lv.(value.Function)
		if !ok {
			return nil, wrapRuntimeErr(span, &value.ErrTypeMismatch{Op: ">>", Operands: []value.Type{lv.Type(), rv.Type()}})
		}
		rf, ok := rv.(value.Function)
		if !ok {
			return nil, wrapRuntimeErr(span, &value.ErrTypeMismatch{Op: ">>", Operands: []value.Type{lv.Type(), rv.Type()}})
		}
		return value.Function{Arity: lf.Arity, Call: func(args []value.Value) (value.Value, error) {
			v, err := lf.Call(args)
			if err != nil {
				return nil, err
			}
			return rf.Call([]value.Value{v})
		}}, nil
	}
}

func (c *compiler) compileAssignment(cx ctx, ex *ast.AssignmentExpr) exprFn {
	id, ok := ex.Target.(*ast.IdentifierExpr)
	if !ok {
		// The resolver only validates identifier assignment targets
		// (§3.3); every other shape the grammar nominally allows is
		// rejected here rather than given made-up semantics.
		panic("emit: assignment target must be an identifier")
	}
	valueFn := c.compileExpr(cx, ex.Value)
	kind := id.Binding.Kind
	slot := id.Binding.Slot
	return func(fr *Frame) (value.Value, error) {
		v, err := valueFn(fr)
		if err != nil {
			return nil, err
		}
		switch kind {
		case ast.BindingLocal:
			*fr.locals[slot] = v
		case ast.BindingCaptured:
			*fr.captures[slot] = v
		case ast.BindingTopLevel:
			*fr.top[slot] = v
		}
		return v, nil
	}
}

func (c *compiler) compileRange(cx ctx, ex *ast.RangeExpr) exprFn {
	startFn := c.compileExpr(cx, ex.Start)
	var endFn exprFn
	if ex.End != nil {
		endFn = c.compileExpr(cx, ex.End)
	}
	incl := ex.Inclusive
	unbounded := ex.End == nil
	span := ex.Span()
	return func(fr *Frame) (value.Value, error) {
		sv, err := startFn(fr)
		if err != nil {
			return nil, err
		}
		si, ok := sv.(value.Int)
		if !ok {
			return nil, wrapRuntimeErr(span, &value.ErrTypeMismatch{Op: "..", Operands: []value.Type{sv.Type()}})
		}
		if unbounded {
			return value.Range{Start: int64(si), Unbounded: true}, nil
		}
		ev, err := endFn(fr)
		if err != nil {
			return nil, err
		}
		ei, ok := ev.(value.Int)
		if !ok {
			return nil, wrapRuntimeErr(span, &value.ErrTypeMismatch{Op: "..", Operands: []value.Type{ev.Type()}})
		}
		return value.Range{Start: int64(si), End: int64(ei), Inclusive: incl}, nil
	}
}

func iterableToSlice(v value.Value) ([]value.Value, error) {
	switch x := v.(type) {
	case value.List:
		return x.ToSlice(), nil
	case value.Set:
		return x.ToSlice(), nil
	case value.Range:
		if x.Unbounded {
			return nil, &value.ErrTypeMismatch{Op: "spread", Operands: []value.Type{x.Type()}}
		}
		out := make([]value.Value, 0, x.Len())
		x.Each(func(n int64) bool { out = append(out, value.Int(n)); return true })
		return out, nil
	default:
		return nil, &value.ErrTypeMismatch{Op: "spread", Operands: []value.Type{v.Type()}}
	}
}

func (c *compiler) compileListExpr(cx ctx, ex *ast.ListExpr) exprFn {
	type item struct {
		fn     exprFn
		spread bool
	}
	items := make([]item, len(ex.Elements))
	for i, el := range ex.Elements {
		if sp, ok := el.(*ast.SpreadElement); ok {
			items[i] = item{fn: c.compileExpr(cx, sp.Value), spread: true}
		} else {
			items[i] = item{fn: c.compileExpr(cx, el)}
		}
	}
	span := ex.Span()
	return func(fr *Frame) (value.Value, error) {
		var out []value.Value
		for _, it := range items {
			v, err := it.fn(fr)
			if err != nil {
				return nil, err
			}
			if it.spread {
				vs, err := iterableToSlice(v)
				if err != nil {
					return nil, wrapRuntimeErr(span, err)
				}
				out = append(out, vs...)
			} else {
				out = append(out, v)
			}
		}
		return value.NewList(out...), nil
	}
}

func (c *compiler) compileSetExpr(cx ctx, ex *ast.SetExpr) exprFn {
	type item struct {
		fn     exprFn
		spread bool
	}
	items := make([]item, len(ex.Elements))
	for i, el := range ex.Elements {
		if sp, ok := el.(*ast.SpreadElement); ok {
			items[i] = item{fn: c.compileExpr(cx, sp.Value), spread: true}
		} else {
			items[i] = item{fn: c.compileExpr(cx, el)}
		}
	}
	span := ex.Span()
	return func(fr *Frame) (value.Value, error) {
		s, _ := value.NewSet()
		for _, it := range items {
			v, err := it.fn(fr)
			if err != nil {
				return nil, err
			}
			if it.spread {
				vs, err := iterableToSlice(v)
				if err != nil {
					return nil, wrapRuntimeErr(span, err)
				}
				for _, el := range vs {
					var addErr error
					s, _, addErr = s.Add(el)
					if addErr != nil {
						return nil, wrapRuntimeErr(span, addErr)
					}
				}
				continue
			}
			var addErr error
			s, _, addErr = s.Add(v)
			if addErr != nil {
				return nil, wrapRuntimeErr(span, addErr)
			}
		}
		return s, nil
	}
}

func (c *compiler) compileDictExpr(cx ctx, ex *ast.DictExpr) exprFn {
	type entry struct {
		keyFn, valFn exprFn
		spreadFn     exprFn
		isSpread     bool
	}
	entries := make([]entry, len(ex.Entries))
	for i, e := range ex.Entries {
		switch en := e.(type) {
		case *ast.DictEntry:
			entries[i] = entry{keyFn: c.compileExpr(cx, en.Key), valFn: c.compileExpr(cx, en.Value)}
		case *ast.SpreadElement:
			entries[i] = entry{spreadFn: c.compileExpr(cx, en.Value), isSpread: true}
		}
	}
	span := ex.Span()
	return func(fr *Frame) (value.Value, error) {
		d, _ := value.NewDict()
		for _, e := range entries {
			if e.isSpread {
				sv, err := e.spreadFn(fr)
				if err != nil {
					return nil, err
				}
				sd, ok := sv.(value.Dict)
				if !ok {
					return nil, wrapRuntimeErr(span, &value.ErrTypeMismatch{Op: "spread", Operands: []value.Type{sv.Type()}})
				}
				var assocErr error
				sd.Each(func(k, v value.Value) bool {
					d, assocErr = d.Assoc(k, v)
					return assocErr == nil
				})
				if assocErr != nil {
					return nil, wrapRuntimeErr(span, assocErr)
				}
				continue
			}
			kv, err := e.keyFn(fr)
			if err != nil {
				return nil, err
			}
			vv, err := e.valFn(fr)
			if err != nil {
				return nil, err
			}
			d, err = d.Assoc(kv, vv)
			if err != nil {
				return nil, wrapRuntimeErr(span, err)
			}
		}
		return d, nil
	}
}

func indexValue(span ast.Span, tv, iv value.Value) (value.Value, error) {
	switch t := tv.(type) {
	case value.List:
		n, ok := iv.(value.Int)
		if !ok {
			return nil, wrapRuntimeErr(span, &value.ErrTypeMismatch{Op: "index", Operands: []value.Type{tv.Type(), iv.Type()}})
		}
		idx := int64(n)
		if idx < 0 {
			idx += t.Len()
		}
		v, ok := t.At(idx)
		if !ok {
			return value.Nil, nil
		}
		return v, nil
	case value.String:
		n, ok := iv.(value.Int)
		if !ok {
			return nil, wrapRuntimeErr(span, &value.ErrTypeMismatch{Op: "index", Operands: []value.Type{tv.Type(), iv.Type()}})
		}
		s := t
		idx := int64(n)
		if idx < 0 {
			idx += int64(s.Len())
		}
		ch, ok := s.At(idx)
		if !ok {
			return value.Nil, nil
		}
		return value.NewString(ch), nil
	case value.Dict:
		v, ok := t.Get(iv)
		if !ok {
			return value.Nil, nil
		}
		return v, nil
	case value.Set:
		return value.Bool(t.Contains(iv)), nil
	default:
		return nil, wrapRuntimeErr(span, &value.ErrTypeMismatch{Op: "index", Operands: []value.Type{tv.Type()}})
	}
}

// normalizeSliceBounds clamps a slicing Range's endpoints to a valid
// [start, end) window over a sequence of length n, resolving negative
// (from-end) bounds first.
func normalizeSliceBounds(r value.Range, n int64) (int64, int64) {
	start := r.Start
	end := r.End
	if r.Inclusive {
		end++
	}
	if start < 0 {
		start += n
	}
	if end < 0 {
		end += n
	}
	if start < 0 {
		start = 0
	}
	if end > n {
		end = n
	}
	if start > end {
		start = end
	}
	return start, end
}

func sliceValue(span ast.Span, tv value.Value, r value.Range) (value.Value, error) {
	if r.Unbounded {
		return nil, wrapRuntimeErr(span, &value.ErrTypeMismatch{Op: "slice", Operands: []value.Type{tv.Type()}})
	}
	switch t := tv.(type) {
	case value.List:
		start, end := normalizeSliceBounds(r, t.Len())
		return t.Slice(start, end), nil
	case value.String:
		s := t
		start, end := normalizeSliceBounds(r, int64(s.Len()))
		return s.Slice(start, end), nil
	default:
		return nil, wrapRuntimeErr(span, &value.ErrTypeMismatch{Op: "slice", Operands: []value.Type{tv.Type()}})
	}
}

// compileIndexExpr handles both element indexing and range slicing;
// per §4.7's operator table, Range itself is never an indexing target.
func (c *compiler) compileIndexExpr(cx ctx, ex *ast.IndexExpr) exprFn {
	targetFn := c.compileExpr(cx, ex.Target)
	span := ex.Span()
	if rangeIdx, ok := ex.Index.(*ast.RangeExpr); ok {
		idxFn := c.compileRange(cx, rangeIdx)
		return func(fr *Frame) (value.Value, error) {
			tv, err := targetFn(fr)
			if err != nil {
				return nil, err
			}
			iv, err := idxFn(fr)
			if err != nil {
				return nil, err
			}
			return sliceValue(span, tv, iv.(value.Range))
		}
	}
	idxFn := c.compileExpr(cx, ex.Index)
	return func(fr *Frame) (value.Value, error) {
		tv, err := targetFn(fr)
		if err != nil {
			return nil, err
		}
		iv, err := idxFn(fr)
		if err != nil {
			return nil, err
		}
		return indexValue(span, tv, iv)
	}
}

// compileArgs compiles a call's argument list, expanding any SpreadElement
// at the call site (spec.md's `f(..xs, y)` shape) into the flattened
// argument slice actually passed to the callee.
func (c *compiler) compileArgs(cx ctx, argExprs []ast.Expr, span ast.Span) func(fr *Frame) ([]value.Value, error) {
	type argItem struct {
		fn     exprFn
		spread bool
	}
	items := make([]argItem, len(argExprs))
	for i, a := range argExprs {
		if sp, ok := a.(*ast.SpreadElement); ok {
			items[i] = argItem{fn: c.compileExpr(cx, sp.Value), spread: true}
		} else {
			items[i] = argItem{fn: c.compileExpr(cx, a)}
		}
	}
	return func(fr *Frame) ([]value.Value, error) {
		var out []value.Value
		for _, it := range items {
			v, err := it.fn(fr)
			if err != nil {
				return nil, err
			}
			if it.spread {
				vs, err := iterableToSlice(v)
				if err != nil {
					return nil, wrapRuntimeErr(span, err)
				}
				out = append(out, vs...)
			} else {
				out = append(out, v)
			}
		}
		return out, nil
	}
}

// compileInvocation is the shared call-compiling path for CallExpr,
// InfixCallExpr, and pipe/compose desugaring. A direct built-in callee
// dispatches straight to the built-in table (§4.8); anything else is
// evaluated to a Function value and invoked generically.
func (c *compiler) compileInvocation(cx ctx, calleeExpr ast.Expr, argExprs []ast.Expr, span ast.Span) exprFn {
	if id, ok := calleeExpr.(*ast.IdentifierExpr); ok && id.Binding != nil && id.Binding.Kind == ast.BindingBuiltin {
		name := id.Name
		argsFn := c.compileArgs(cx, argExprs, span)
		return func(fr *Frame) (value.Value, error) {
			args, err := argsFn(fr)
			if err != nil {
				return nil, err
			}
			v, err := c.table.Call(name, args)
			if err != nil {
				return nil, wrapRuntimeErr(span, err)
			}
			return v, nil
		}
	}

	calleeFn := c.compileExpr(cx, calleeExpr)
	argsFn := c.compileArgs(cx, argExprs, span)
	return func(fr *Frame) (value.Value, error) {
		cv, err := calleeFn(fr)
		if err != nil {
			return nil, err
		}
		fn, ok := cv.(value.Function)
		if !ok {
			return nil, wrapRuntimeErr(span, &value.ErrTypeMismatch{Op: "call", Operands: []value.Type{cv.Type()}})
		}
		args, err := argsFn(fr)
		if err != nil {
			return nil, err
		}
		if err := fn.CheckArity(len(args)); err != nil {
			return nil, wrapRuntimeErr(span, err)
		}
		return fn.Call(args)
	}
}

// compileCall handles the three CallExpr shapes the emitter special-cases:
// a tail-position self-call (dispatched as a parameter-reassigning jump
// instead of a real call, §4.5), the `memoize(|...| ...)` let-binding
// shape (§4.4), and the ordinary case.
func (c *compiler) compileCall(cx ctx, ex *ast.CallExpr) exprFn {
	if cx.tail != nil && cx.tail[ex] {
		argsFn := c.compileArgs(cx, ex.Args, ex.Span())
		return func(fr *Frame) (value.Value, error) {
			args, err := argsFn(fr)
			if err != nil {
				return nil, err
			}
			return nil, tailJumpSignal{args: args}
		}
	}
	if id, ok := ex.Callee.(*ast.IdentifierExpr); ok && id.Name == "memoize" &&
		id.Binding != nil && id.Binding.Kind == ast.BindingBuiltin && len(ex.Args) == 1 {
		if fnLit, ok2 := ex.Args[0].(*ast.FunctionExpr); ok2 && fnLit.IsMemoized {
			return c.compileMemoizeLet(fnLit, ex.Span())
		}
	}
	return c.compileInvocation(cx, ex.Callee, ex.Args, ex.Span())
}

func (c *compiler) compileInfixCall(cx ctx, ex *ast.InfixCallExpr) exprFn {
	return c.compileInvocation(cx, ex.Func, []ast.Expr{ex.Left, ex.Right}, ex.Span())
}
