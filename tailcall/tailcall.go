// Package tailcall implements the tail-call analyzer (§4.5): for a
// directly let-bound, non-memoized function, it collects every self-call
// and classifies which ones sit in tail position. A function is tagged
// tail-recursive only when it has at least one self-call and every one of
// them is tail — at that point the emitter can rewrite the recursion into
// a parameter-reassigning dispatch loop instead of growing the call stack.
package tailcall

import "github.com/santalang/santa/ast"

// Analyze fills in fn.TailSelfCalls and fn.IsTailRecursive. It is a no-op
// for anonymous lambdas (SelfName == "") and for memoized functions, whose
// self-calls must go back through the memoizing wrapper and so can never
// be loop-rewritten.
func Analyze(fn *ast.FunctionExpr) {
	if fn.SelfName == "" || fn.IsMemoized {
		return
	}

	calls := collectSelfCalls(fn.Body, fn.SelfName)
	fn.TailSelfCalls = calls
	if len(calls) == 0 {
		return
	}

	tail := tailPositionSet(fn.Body, fn.SelfName)
	for _, c := range calls {
		if !tail[c] {
			return
		}
	}
	fn.IsTailRecursive = true
}

// AnalyzeProgram runs Analyze over every function literal in prog. Analyze
// never enters nested literals as it collects self-calls, so this outer
// walk is what reaches them, visiting each FunctionExpr once regardless of
// nesting depth.
func AnalyzeProgram(prog *ast.Program) {
	for _, item := range prog.Items {
		if item.Section != nil {
			if item.Section.Expr != nil {
				walkExprForFunctions(item.Section.Expr)
			}
			continue
		}
		walkStmtForFunctions(item.Stmt)
	}
}

func walkStmtForFunctions(s ast.Stmt) {
	switch st := s.(type) {
	case *ast.LetStmt:
		walkExprForFunctions(st.Value)
	case *ast.ExprStmt:
		walkExprForFunctions(st.Expr)
	case *ast.ReturnStmt:
		if st.Value != nil {
			walkExprForFunctions(st.Value)
		}
	case *ast.BreakStmt:
		if st.Value != nil {
			walkExprForFunctions(st.Value)
		}
	}
}

// walkExprForFunctions visits every FunctionExpr anywhere in e (including
// nested ones), running Analyze on each and descending into its body too
// — a tail-recursive helper defined inside another function is just as
// analyzable as a top-level one.
func walkExprForFunctions(e ast.Expr) {
	if e == nil {
		return
	}
	switch ex := e.(type) {
	case *ast.SpreadElement:
		walkExprForFunctions(ex.Value)
	case *ast.ListExpr:
		for _, el := range ex.Elements {
			walkExprForFunctions(el)
		}
	case *ast.SetExpr:
		for _, el := range ex.Elements {
			walkExprForFunctions(el)
		}
	case *ast.DictExpr:
		for _, entry := range ex.Entries {
			switch en := entry.(type) {
			case *ast.DictEntry:
				walkExprForFunctions(en.Key)
				walkExprForFunctions(en.Value)
			case *ast.SpreadElement:
				walkExprForFunctions(en.Value)
			}
		}
	case *ast.UnaryExpr:
		walkExprForFunctions(ex.Operand)
	case *ast.BinaryExpr:
		walkExprForFunctions(ex.Left)
		walkExprForFunctions(ex.Right)
	case *ast.AssignmentExpr:
		walkExprForFunctions(ex.Target)
		walkExprForFunctions(ex.Value)
	case *ast.RangeExpr:
		walkExprForFunctions(ex.Start)
		walkExprForFunctions(ex.End)
	case *ast.InfixCallExpr:
		walkExprForFunctions(ex.Left)
		walkExprForFunctions(ex.Func)
		walkExprForFunctions(ex.Right)
	case *ast.CallExpr:
		walkExprForFunctions(ex.Callee)
		for _, a := range ex.Args {
			walkExprForFunctions(a)
		}
	case *ast.IndexExpr:
		walkExprForFunctions(ex.Target)
		walkExprForFunctions(ex.Index)
	case *ast.FunctionExpr:
		Analyze(ex)
		walkExprForFunctions(ex.Body)
	case *ast.BlockExpr:
		for _, s := range ex.Stmts {
			walkStmtForFunctions(s)
		}
	case *ast.IfExpr:
		walkExprForFunctions(ex.Cond)
		walkExprForFunctions(ex.Then)
		walkExprForFunctions(ex.Else)
	case *ast.MatchExpr:
		walkExprForFunctions(ex.Subject)
		for i := range ex.Arms {
			walkExprForFunctions(ex.Arms[i].Body)
		}
	}
}

// collectSelfCalls gathers every *ast.CallExpr in body that calls fn's own
// name, without descending into any nested FunctionExpr's body — a
// nested closure defines its own tail context entirely separate from the
// enclosing letrec (§4.5).
func collectSelfCalls(body ast.Expr, selfName string) []*ast.CallExpr {
	var out []*ast.CallExpr
	var walk func(e ast.Expr)
	walkStmt := func(s ast.Stmt) {
		switch st := s.(type) {
		case *ast.LetStmt:
			walk(st.Value)
		case *ast.ExprStmt:
			walk(st.Expr)
		case *ast.ReturnStmt:
			if st.Value != nil {
				walk(st.Value)
			}
		case *ast.BreakStmt:
			if st.Value != nil {
				walk(st.Value)
			}
		}
	}
	walk = func(e ast.Expr) {
		if e == nil {
			return
		}
		switch ex := e.(type) {
		case *ast.SpreadElement:
			walk(ex.Value)
		case *ast.ListExpr:
			for _, el := range ex.Elements {
				walk(el)
			}
		case *ast.SetExpr:
			for _, el := range ex.Elements {
				walk(el)
			}
		case *ast.DictExpr:
			for _, entry := range ex.Entries {
				switch en := entry.(type) {
				case *ast.DictEntry:
					walk(en.Key)
					walk(en.Value)
				case *ast.SpreadElement:
					walk(en.Value)
				}
			}
		case *ast.UnaryExpr:
			walk(ex.Operand)
		case *ast.BinaryExpr:
			walk(ex.Left)
			walk(ex.Right)
		case *ast.AssignmentExpr:
			walk(ex.Target)
			walk(ex.Value)
		case *ast.RangeExpr:
			walk(ex.Start)
			walk(ex.End)
		case *ast.InfixCallExpr:
			walk(ex.Left)
			walk(ex.Func)
			walk(ex.Right)
		case *ast.CallExpr:
			if isSelfCallee(ex.Callee, selfName) {
				out = append(out, ex)
			}
			walk(ex.Callee)
			for _, a := range ex.Args {
				walk(a)
			}
		case *ast.IndexExpr:
			walk(ex.Target)
			walk(ex.Index)
		case *ast.FunctionExpr:
			// A nested closure has its own tail context; it may itself
			// recurse (handled by its own Analyze call elsewhere), but it
			// is never part of THIS function's self-tail-call set.
		case *ast.BlockExpr:
			for _, s := range ex.Stmts {
				walkStmt(s)
			}
		case *ast.IfExpr:
			walk(ex.Cond)
			walk(ex.Then)
			walk(ex.Else)
		case *ast.MatchExpr:
			walk(ex.Subject)
			for i := range ex.Arms {
				walk(ex.Arms[i].Body)
			}
		}
	}
	walk(body)
	return out
}

// isSelfCallee reports whether callee names fn's own binding — preferring
// the resolver's BindingSelf tag (set for exactly this shape, §4.4) and
// falling back to a plain name match if resolution hasn't run.
func isSelfCallee(callee ast.Expr, selfName string) bool {
	id, ok := callee.(*ast.IdentifierExpr)
	if !ok {
		return false
	}
	if id.Binding != nil {
		return id.Binding.Kind == ast.BindingSelf
	}
	return id.Name == selfName
}

// tailPositionSet returns the set of CallExpr nodes that sit in tail
// position within body, keyed by pointer identity for O(1) membership
// checks against the self-call list. selfName narrows it to self-calls
// only — a non-self call in tail position is irrelevant here.
func tailPositionSet(body ast.Expr, selfName string) map[*ast.CallExpr]bool {
	set := map[*ast.CallExpr]bool{}
	markTail(body, selfName, set)
	return set
}

func markTail(e ast.Expr, selfName string, set map[*ast.CallExpr]bool) {
	switch ex := e.(type) {
	case *ast.CallExpr:
		if isSelfCallee(ex.Callee, selfName) {
			set[ex] = true
		}
	case *ast.BlockExpr:
		if len(ex.Stmts) == 0 {
			return
		}
		switch last := ex.Stmts[len(ex.Stmts)-1].(type) {
		case *ast.ExprStmt:
			markTail(last.Expr, selfName, set)
		case *ast.ReturnStmt:
			if last.Value != nil {
				markTail(last.Value, selfName, set)
			}
		}
	case *ast.IfExpr:
		markTail(ex.Then, selfName, set)
		if ex.Else != nil {
			markTail(ex.Else, selfName, set)
		}
	case *ast.MatchExpr:
		for i := range ex.Arms {
			markTail(ex.Arms[i].Body, selfName, set)
		}
	}
}
