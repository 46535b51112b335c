package resolve

import (
	"github.com/santalang/santa/ast"
	"github.com/santalang/santa/builtins"
	"github.com/santalang/santa/reporter"
)

// Resolver walks a desugared *ast.Program, annotating identifiers with
// their binding origin and filling in every slot/capture/arity field the
// emitter needs (§4.4).
type Resolver struct {
	builtins *builtins.Table
	handler  *reporter.Handler

	top     *funcScope
	current *funcScope

	sectionNames map[string]bool
}

// New creates a Resolver reporting diagnostics to handler and checking
// built-in shadowing against table.
func New(table *builtins.Table, handler *reporter.Handler) *Resolver {
	return &Resolver{builtins: table, handler: handler, sectionNames: map[string]bool{}}
}

// Resolve runs full resolution over prog, returning the first error
// recorded (if the handler isn't Tolerant, resolution stops there).
func Resolve(prog *ast.Program, table *builtins.Table, handler *reporter.Handler) error {
	r := New(table, handler)
	r.resolveProgram(prog)
	return handler.Error()
}

func (r *Resolver) resolveProgram(prog *ast.Program) {
	r.top = newTopLevelScope()
	r.current = r.top
	r.current.pushBlock()

	for _, item := range prog.Items {
		if r.stop() {
			break
		}
		if item.Section != nil {
			r.declareSection(item.Section)
		}
	}
	for _, item := range prog.Items {
		if r.stop() {
			break
		}
		if item.Section == nil {
			r.resolveStmt(item.Stmt)
		} else {
			r.resolveSectionBody(item.Section)
		}
	}

	r.current.popBlock()
	prog.NumTopLevelSlots = r.top.nextSlot
}

// declareSection registers sec's name both as a known section and as a
// top-level binding, so e.g. `part_two` can reference `input` by name
// (§6) regardless of declaration order.
func (r *Resolver) declareSection(sec *ast.Section) {
	if r.sectionNames[sec.Name] {
		r.errorAt(sec.Span(), reporter.ResolveError, "Duplicate section "+sec.Name)
		return
	}
	r.sectionNames[sec.Name] = true
	b := r.top.declare(sec.Name, false)
	sec.Slot = b.slot
}

// resolveSectionBody resolves one section's expression against the shared
// top-level scope (§6: sections see every top-level `let`, in any order).
// Tests sections hold only string literals and need no resolution.
func (r *Resolver) resolveSectionBody(sec *ast.Section) {
	if sec.Expr != nil {
		r.resolveExpr(sec.Expr)
	}
}

func (r *Resolver) stop() bool { return r.handler.HasErrors() && !r.handler.Tolerant }

func (r *Resolver) errorAt(span ast.Span, kind reporter.Kind, msg string) {
	r.handler.HandleError(reporter.New(kind, span, msg))
}

// ---- statements ----

func (r *Resolver) resolveStmt(s ast.Stmt) {
	if r.stop() {
		return
	}
	switch st := s.(type) {
	case *ast.LetStmt:
		r.resolveLet(st)
	case *ast.ExprStmt:
		r.resolveExpr(st.Expr)
	case *ast.ReturnStmt:
		if st.Value != nil {
			r.resolveExpr(st.Value)
		}
	case *ast.BreakStmt:
		if st.Value != nil {
			r.resolveExpr(st.Value)
		}
	}
}

// resolveLet handles one `let`/`let mut` statement. A simple `let name =
// |...| ...` or `let name = memoize(|...| ...)` is letrec-bound: the name
// is declared before its own value is resolved, so the function body can
// refer to itself (§4.4); references to it from within that very function
// literal are marked BindingSelf instead of an ordinary local lookup. Any
// other pattern/value shape resolves the value first, against the
// enclosing scope, then binds the pattern's names — so `let x = x + 1`
// correctly reads the outer `x`.
func (r *Resolver) resolveLet(st *ast.LetStmt) {
	name, fn := letrecShape(st.Pattern, st.Value)
	if fn != nil {
		if !st.Mutable && r.builtins.Has(name) {
			r.errorAt(st.Pattern.Span(), reporter.ResolveError, "Cannot shadow built-in "+name)
			return
		}
		b := r.current.declare(name, st.Mutable)
		b.selfFn = fn
		fn.SelfName = name
		bp := st.Pattern.(*ast.BindingPattern)
		bp.Slot = b.slot
		st.Slot = b.slot
		r.resolveExpr(st.Value)
		return
	}

	r.resolveExpr(st.Value)
	r.bindPattern(st.Pattern, st.Mutable)
	if bp, ok := st.Pattern.(*ast.BindingPattern); ok {
		st.Slot = bp.Slot
	}
}

// letrecShape reports the function literal and bound name for the
// self-referencing `let` shape, or (_, nil) otherwise. It also marks the
// function IsMemoized when the shape is `let f = memoize(|...| ...)`.
func letrecShape(p ast.Pattern, valueExpr ast.Expr) (string, *ast.FunctionExpr) {
	bp, ok := p.(*ast.BindingPattern)
	if !ok {
		return "", nil
	}
	fn := selfReferenceFunction(valueExpr)
	if fn == nil {
		return "", nil
	}
	if _, isCall := valueExpr.(*ast.CallExpr); isCall {
		fn.IsMemoized = true
	}
	return bp.Name, fn
}

// bindPattern declares every name a pattern introduces in the current
// block. Used for non-letrec `let`s, function parameters, and match/if-let
// arms, where the value (if any) has already been resolved.
func (r *Resolver) bindPattern(p ast.Pattern, mutable bool) {
	switch pat := p.(type) {
	case *ast.BindingPattern:
		if !mutable && r.builtins.Has(pat.Name) {
			r.errorAt(pat.Span(), reporter.ResolveError, "Cannot shadow built-in "+pat.Name)
			return
		}
		b := r.current.declare(pat.Name, mutable)
		pat.Slot = b.slot
	case *ast.WildcardPattern:
		// binds nothing
	case *ast.RestPattern:
		if pat.Name != "" {
			b := r.current.declare(pat.Name, mutable)
			pat.Slot = b.slot
		}
	case *ast.ListPattern:
		for i := range pat.Elements {
			r.bindPattern(pat.Elements[i], mutable)
		}
	case *ast.LiteralPattern, *ast.RangePattern:
		// no bindings
	}
}

// selfReferenceFunction recognizes `|...| ...` and `memoize(|...| ...)`
// directly as a let-bound value, returning the FunctionExpr whose body
// should resolve self-calls to BindingSelf.
func selfReferenceFunction(e ast.Expr) *ast.FunctionExpr {
	switch v := e.(type) {
	case *ast.FunctionExpr:
		return v
	case *ast.CallExpr:
		id, ok := v.Callee.(*ast.IdentifierExpr)
		if !ok || id.Name != "memoize" || len(v.Args) != 1 {
			return nil
		}
		if fn, ok := v.Args[0].(*ast.FunctionExpr); ok {
			return fn
		}
	}
	return nil
}

// ---- expressions ----

func (r *Resolver) resolveExpr(e ast.Expr) {
	if r.stop() || e == nil {
		return
	}
	switch ex := e.(type) {
	case *ast.IntLiteral, *ast.DecimalLiteral, *ast.StringLiteral, *ast.BoolLiteral, *ast.NilLiteral:
		// no identifiers
	case *ast.IdentifierExpr:
		r.resolveIdentifier(ex)
	case *ast.PlaceholderExpr:
		// must never reach the resolver; desugaring is assumed complete.
	case *ast.SpreadElement:
		r.resolveExpr(ex.Value)
	case *ast.ListExpr:
		for _, el := range ex.Elements {
			r.resolveExpr(el)
		}
	case *ast.SetExpr:
		for _, el := range ex.Elements {
			r.resolveExpr(el)
		}
	case *ast.DictExpr:
		for _, entry := range ex.Entries {
			switch en := entry.(type) {
			case *ast.DictEntry:
				r.resolveExpr(en.Key)
				r.resolveExpr(en.Value)
			case *ast.SpreadElement:
				r.resolveExpr(en.Value)
			}
		}
	case *ast.UnaryExpr:
		r.resolveExpr(ex.Operand)
	case *ast.BinaryExpr:
		r.resolveExpr(ex.Left)
		r.resolveExpr(ex.Right)
	case *ast.AssignmentExpr:
		r.resolveAssignment(ex)
	case *ast.RangeExpr:
		r.resolveExpr(ex.Start)
		r.resolveExpr(ex.End)
	case *ast.InfixCallExpr:
		r.resolveExpr(ex.Left)
		r.resolveExpr(ex.Func)
		r.resolveExpr(ex.Right)
	case *ast.CallExpr:
		r.resolveExpr(ex.Callee)
		for _, a := range ex.Args {
			r.resolveExpr(a)
		}
	case *ast.IndexExpr:
		r.resolveExpr(ex.Target)
		r.resolveExpr(ex.Index)
	case *ast.FunctionExpr:
		r.resolveFunction(ex)
	case *ast.BlockExpr:
		r.resolveBlock(ex)
	case *ast.IfExpr:
		r.resolveIf(ex)
	case *ast.MatchExpr:
		r.resolveMatch(ex)
	}
}

func (r *Resolver) resolveAssignment(ex *ast.AssignmentExpr) {
	r.resolveExpr(ex.Value)
	id, ok := ex.Target.(*ast.IdentifierExpr)
	if !ok {
		r.resolveExpr(ex.Target)
		return
	}
	r.resolveIdentifier(id)
	if id.Binding == nil {
		return
	}
	b := r.lookupBindingObj(id.Name)
	if b != nil && !b.mutable {
		r.errorAt(id.Span(), reporter.ResolveError, "Cannot assign to immutable variable")
	}
}

func (r *Resolver) resolveBlock(b *ast.BlockExpr) {
	r.current.pushBlock()
	for _, s := range b.Stmts {
		r.resolveStmt(s)
	}
	r.current.popBlock()
}

func (r *Resolver) resolveIf(ex *ast.IfExpr) {
	if ex.CondPattern != nil {
		r.resolveExpr(ex.Cond)
		r.current.pushBlock()
		r.bindPattern(ex.CondPattern, false)
		r.resolveExpr(ex.Then)
		r.current.popBlock()
	} else {
		r.resolveExpr(ex.Cond)
		r.resolveExpr(ex.Then)
	}
	if ex.Else != nil {
		r.resolveExpr(ex.Else)
	}
}

func (r *Resolver) resolveMatch(ex *ast.MatchExpr) {
	r.resolveExpr(ex.Subject)
	for i := range ex.Arms {
		arm := &ex.Arms[i]
		r.current.pushBlock()
		r.bindPattern(arm.Pattern, false)
		r.resolveExpr(arm.Body)
		r.current.popBlock()
	}
}

func (r *Resolver) resolveFunction(fn *ast.FunctionExpr) {
	parent := r.current
	fs := newFuncScope(parent, fn)
	r.current = fs
	fs.pushBlock()

	for i := range fn.Params {
		p := &fn.Params[i]
		if p.Pattern != nil {
			// Desugaring should have already lowered pattern params; if one
			// survives, bind its name as an opaque identifier instead.
			r.bindPattern(p.Pattern, false)
			continue
		}
		b := fs.declare(p.Name, false)
		p.Slot = b.slot
	}

	r.resolveExpr(fn.Body)

	fn.NumLocals = fs.nextSlot
	fn.Captures = fs.captures

	fs.popBlock()
	r.current = parent
}

// ---- identifier resolution ----

func (r *Resolver) resolveIdentifier(id *ast.IdentifierExpr) {
	// Memoized self-reference: inside the function literal directly bound
	// by `let f = memoize(|...| ... f(...) ...)` (or plain `let f = |...|
	// ...`), references to f resolve to BindingSelf (§4.4).
	if fs := r.enclosingFunctionFor(id.Name); fs != nil {
		id.Binding = &ast.BindingRef{Kind: ast.BindingSelf}
		return
	}

	if b, depth, fscope := r.findInEnclosing(id.Name); b != nil {
		kind := b.kind
		slot := b.slot
		if depth > 0 && kind == ast.BindingLocal {
			// Crossed at least one function boundary: this is a capture,
			// recorded against every intermediate function scope so each
			// nested closure carries it, in first-reference order.
			kind = ast.BindingCaptured
			slot = r.recordCaptureChain(id.Name, b, fscope)
		}
		id.Binding = &ast.BindingRef{Kind: kind, Slot: slot, Depth: depth}
		return
	}

	if r.builtins.Has(id.Name) {
		id.Binding = &ast.BindingRef{Kind: ast.BindingBuiltin}
		return
	}

	r.errorAt(id.Span(), reporter.ResolveError, "Undefined identifier "+id.Name)
}

// enclosingFunctionFor reports whether name is the self-bound name of the
// function literal we are currently inside (directly, not through a
// further-nested closure — a deeper closure referencing the same name
// resolves as an ordinary capture instead, a deliberate simplification).
func (r *Resolver) enclosingFunctionFor(name string) *funcScope {
	fs := r.current
	if fs.fn == nil || fs.fn.SelfName != name {
		return nil
	}
	// SelfName is only set once resolveLet recognizes the memoize/lambda
	// shape, and only on the very FunctionExpr it names.
	return fs
}

// findInEnclosing searches the current function scope's blocks, then each
// enclosing function scope's blocks in turn, returning the binding, how
// many function boundaries were crossed, and the function scope it
// actually lives in.
func (r *Resolver) findInEnclosing(name string) (*binding, int, *funcScope) {
	depth := 0
	for fs := r.current; fs != nil; fs = fs.parent {
		if b := fs.findLocal(name); b != nil {
			return b, depth, fs
		}
		depth++
	}
	return nil, 0, nil
}

// lookupBindingObj re-finds the binding object for an already-resolved
// simple identifier, used by assignment mutability checks.
func (r *Resolver) lookupBindingObj(name string) *binding {
	for fs := r.current; fs != nil; fs = fs.parent {
		if b := fs.findLocal(name); b != nil {
			return b
		}
	}
	return nil
}

// recordCaptureChain threads a capture of src (declared in owner) through
// every function scope between r.current and owner, returning the slot
// index in r.current's own closure record.
func (r *Resolver) recordCaptureChain(name string, src *binding, owner *funcScope) int {
	var chain []*funcScope
	for fs := r.current; fs != owner; fs = fs.parent {
		chain = append(chain, fs)
	}
	// Walk from the outermost intermediate scope inward so each capture's
	// SourceSlot correctly refers to its immediate parent's layout.
	cur := src
	for i := len(chain) - 1; i >= 0; i-- {
		fs := chain[i]
		idx := fs.addCapture(name, cur)
		cur = &binding{name: name, kind: ast.BindingCaptured, slot: idx}
	}
	return cur.slot
}
