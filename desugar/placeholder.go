// Package desugar runs the two AST-to-AST passes between parsing and name
// resolution (§4.3): placeholder lifting and pattern-parameter lowering.
// Both passes mutate the tree in place and are structured as a recursive
// descent in the spirit of ast.Walk, grounded on the teacher's linker
// package (which also rewrites an already-parsed tree into a more explicit
// form before the rest of the pipeline runs).
package desugar

import (
	"fmt"

	"github.com/santalang/santa/ast"
)

// Placeholders lifts every `_` in prog into a freshly parameterized lambda,
// per §4.3.1: "the smallest enclosing expression that is not itself a
// placeholder-containing operand is wrapped into a lambda whose parameters
// are freshly generated ($0, $1, ...) in left-to-right textual order."
// Nested explicit lambdas shield their own placeholders from outer scopes.
func Placeholders(prog *ast.Program) {
	for _, item := range prog.Items {
		if item.Section != nil {
			liftSection(item.Section)
		} else {
			liftStmt(item.Stmt)
		}
	}
}

func liftSection(sec *ast.Section) {
	if sec.Expr != nil {
		sec.Expr = closeBoundary(sec.Expr)
	}
}

func liftStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.ExprStmt:
		n.Expr = closeBoundary(n.Expr)
	case *ast.LetStmt:
		n.Value = closeBoundary(n.Value)
	case *ast.ReturnStmt:
		if n.Value != nil {
			n.Value = closeBoundary(n.Value)
		}
	case *ast.BreakStmt:
		if n.Value != nil {
			n.Value = closeBoundary(n.Value)
		}
	}
}

// closeBoundary fully desugars e (closing every nested boundary it
// contains) and then, if e itself still directly contains an un-lifted
// placeholder, wraps e in a new lambda.
func closeBoundary(e ast.Expr) ast.Expr {
	if e == nil {
		return nil
	}
	e = descend(e)
	return wrapIfNeeded(e)
}

// descend recurses one level into e's children, closing every field that is
// its own placeholder-lift boundary (call arguments, collection elements,
// dict entries, statement values, function bodies) and recursing
// transparently through the rest (operators, which pass any placeholder
// they contain up to whichever boundary encloses them).
func descend(e ast.Expr) ast.Expr {
	switch n := e.(type) {
	case nil:
		return nil
	case *ast.IntLiteral, *ast.DecimalLiteral, *ast.StringLiteral,
		*ast.BoolLiteral, *ast.NilLiteral, *ast.IdentifierExpr, *ast.PlaceholderExpr:
		return n
	case *ast.SpreadElement:
		n.Value = closeBoundary(n.Value)
		return n
	case *ast.ListExpr:
		for i, el := range n.Elements {
			n.Elements[i] = closeBoundary(el)
		}
		return n
	case *ast.SetExpr:
		for i, el := range n.Elements {
			n.Elements[i] = closeBoundary(el)
		}
		return n
	case *ast.DictEntry:
		n.Key = closeBoundary(n.Key)
		n.Value = closeBoundary(n.Value)
		return n
	case *ast.DictExpr:
		for i, entry := range n.Entries {
			n.Entries[i] = closeBoundary(entry)
		}
		return n
	case *ast.UnaryExpr:
		n.Operand = descend(n.Operand)
		return n
	case *ast.BinaryExpr:
		n.Left = descend(n.Left)
		n.Right = descend(n.Right)
		return n
	case *ast.AssignmentExpr:
		n.Target = descend(n.Target)
		n.Value = descend(n.Value)
		return n
	case *ast.RangeExpr:
		n.Start = descend(n.Start)
		if n.End != nil {
			n.End = descend(n.End)
		}
		return n
	case *ast.InfixCallExpr:
		n.Left = descend(n.Left)
		n.Func = descend(n.Func)
		n.Right = descend(n.Right)
		return n
	case *ast.CallExpr:
		n.Callee = descend(n.Callee)
		for i, a := range n.Args {
			n.Args[i] = closeBoundary(a)
		}
		return n
	case *ast.IndexExpr:
		n.Target = descend(n.Target)
		n.Index = descend(n.Index)
		return n
	case *ast.FunctionExpr:
		n.Body = closeBoundary(n.Body)
		return n
	case *ast.BlockExpr:
		for _, stmt := range n.Stmts {
			liftStmt(stmt)
		}
		return n
	case *ast.IfExpr:
		n.Cond = descend(n.Cond)
		n.Then = closeBoundary(n.Then)
		if n.Else != nil {
			n.Else = closeBoundary(n.Else)
		}
		return n
	case *ast.MatchExpr:
		n.Subject = descend(n.Subject)
		for i := range n.Arms {
			n.Arms[i].Body = closeBoundary(n.Arms[i].Body)
		}
		return n
	default:
		return e
	}
}

// wrapIfNeeded scans e (stopping at nested FunctionExpr, which shield their
// own placeholders) for remaining *ast.PlaceholderExpr nodes; by this point
// every nested boundary has already been closed, so any placeholder found
// here belongs to e's own scope. If any are found, e is replaced in place
// by each occurrence and the whole expression is wrapped in a lambda.
func wrapIfNeeded(e ast.Expr) ast.Expr {
	var params []ast.Param
	counter := 0
	rewritten := replacePlaceholders(e, &counter, &params)
	if len(params) == 0 {
		return e
	}
	fn := &ast.FunctionExpr{Params: params, Body: rewritten}
	fn.SetSpan(e.Span())
	return fn
}

func replacePlaceholders(e ast.Expr, counter *int, params *[]ast.Param) ast.Expr {
	switch n := e.(type) {
	case nil:
		return nil
	case *ast.PlaceholderExpr:
		name := fmt.Sprintf("$%d", *counter)
		*counter++
		p := ast.Param{Name: name}
		p.SetSpan(n.Span())
		*params = append(*params, p)
		ident := &ast.IdentifierExpr{Name: name}
		ident.SetSpan(n.Span())
		return ident
	case *ast.FunctionExpr:
		return n // shielded: its own placeholders were already closed.
	case *ast.IntLiteral, *ast.DecimalLiteral, *ast.StringLiteral,
		*ast.BoolLiteral, *ast.NilLiteral, *ast.IdentifierExpr:
		return n
	case *ast.SpreadElement:
		n.Value = replacePlaceholders(n.Value, counter, params)
		return n
	case *ast.ListExpr:
		for i, el := range n.Elements {
			n.Elements[i] = replacePlaceholders(el, counter, params)
		}
		return n
	case *ast.SetExpr:
		for i, el := range n.Elements {
			n.Elements[i] = replacePlaceholders(el, counter, params)
		}
		return n
	case *ast.DictEntry:
		n.Key = replacePlaceholders(n.Key, counter, params)
		n.Value = replacePlaceholders(n.Value, counter, params)
		return n
	case *ast.DictExpr:
		for i, entry := range n.Entries {
			n.Entries[i] = replacePlaceholders(entry, counter, params)
		}
		return n
	case *ast.UnaryExpr:
		n.Operand = replacePlaceholders(n.Operand, counter, params)
		return n
	case *ast.BinaryExpr:
		n.Left = replacePlaceholders(n.Left, counter, params)
		n.Right = replacePlaceholders(n.Right, counter, params)
		return n
	case *ast.AssignmentExpr:
		n.Target = replacePlaceholders(n.Target, counter, params)
		n.Value = replacePlaceholders(n.Value, counter, params)
		return n
	case *ast.RangeExpr:
		n.Start = replacePlaceholders(n.Start, counter, params)
		if n.End != nil {
			n.End = replacePlaceholders(n.End, counter, params)
		}
		return n
	case *ast.InfixCallExpr:
		n.Left = replacePlaceholders(n.Left, counter, params)
		n.Func = replacePlaceholders(n.Func, counter, params)
		n.Right = replacePlaceholders(n.Right, counter, params)
		return n
	case *ast.CallExpr:
		n.Callee = replacePlaceholders(n.Callee, counter, params)
		for i, a := range n.Args {
			n.Args[i] = replacePlaceholders(a, counter, params)
		}
		return n
	case *ast.IndexExpr:
		n.Target = replacePlaceholders(n.Target, counter, params)
		n.Index = replacePlaceholders(n.Index, counter, params)
		return n
	case *ast.BlockExpr:
		// A bare block containing a top-level placeholder statement, e.g.
		// `{ _ }`; each statement's own boundary was already closed by
		// descend, so this only matters for the (rare) case the block
		// itself is the direct value of an already-open boundary.
		return n
	case *ast.IfExpr:
		n.Cond = replacePlaceholders(n.Cond, counter, params)
		return n
	case *ast.MatchExpr:
		n.Subject = replacePlaceholders(n.Subject, counter, params)
		return n
	default:
		return e
	}
}
