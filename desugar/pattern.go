package desugar

import (
	"fmt"

	"github.com/santalang/santa/ast"
)

// PatternParams lowers every FunctionExpr pattern parameter into a fresh
// named parameter plus a leading destructuring `let` (§4.3.2): for a param
// at index k whose Pattern is set, the param becomes a NamedParam `$argK`
// and `let pattern = $argK` is prepended to the body (promoting a
// bare-expression body to a block first).
//
// Run after Placeholders: placeholder lifting only introduces NamedParams
// ($0, $1, ...), so the two passes don't interact.
func PatternParams(prog *ast.Program) {
	for _, item := range prog.Items {
		if item.Section != nil {
			if item.Section.Expr != nil {
				lowerExpr(item.Section.Expr)
			}
			continue
		}
		lowerStmt(item.Stmt)
	}
}

func lowerStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.ExprStmt:
		lowerExpr(n.Expr)
	case *ast.LetStmt:
		lowerExpr(n.Value)
	case *ast.ReturnStmt:
		if n.Value != nil {
			lowerExpr(n.Value)
		}
	case *ast.BreakStmt:
		if n.Value != nil {
			lowerExpr(n.Value)
		}
	}
}

func lowerExpr(e ast.Expr) {
	switch n := e.(type) {
	case nil, *ast.IntLiteral, *ast.DecimalLiteral, *ast.StringLiteral,
		*ast.BoolLiteral, *ast.NilLiteral, *ast.IdentifierExpr, *ast.PlaceholderExpr:
		return
	case *ast.SpreadElement:
		lowerExpr(n.Value)
	case *ast.ListExpr:
		for _, el := range n.Elements {
			lowerExpr(el)
		}
	case *ast.SetExpr:
		for _, el := range n.Elements {
			lowerExpr(el)
		}
	case *ast.DictEntry:
		lowerExpr(n.Key)
		lowerExpr(n.Value)
	case *ast.DictExpr:
		for _, entry := range n.Entries {
			lowerExpr(entry)
		}
	case *ast.UnaryExpr:
		lowerExpr(n.Operand)
	case *ast.BinaryExpr:
		lowerExpr(n.Left)
		lowerExpr(n.Right)
	case *ast.AssignmentExpr:
		lowerExpr(n.Target)
		lowerExpr(n.Value)
	case *ast.RangeExpr:
		lowerExpr(n.Start)
		if n.End != nil {
			lowerExpr(n.End)
		}
	case *ast.InfixCallExpr:
		lowerExpr(n.Left)
		lowerExpr(n.Func)
		lowerExpr(n.Right)
	case *ast.CallExpr:
		lowerExpr(n.Callee)
		for _, a := range n.Args {
			lowerExpr(a)
		}
	case *ast.IndexExpr:
		lowerExpr(n.Target)
		lowerExpr(n.Index)
	case *ast.FunctionExpr:
		lowerFunction(n)
	case *ast.BlockExpr:
		for _, stmt := range n.Stmts {
			lowerStmt(stmt)
		}
	case *ast.IfExpr:
		lowerExpr(n.Cond)
		lowerExpr(n.Then)
		if n.Else != nil {
			lowerExpr(n.Else)
		}
	case *ast.MatchExpr:
		lowerExpr(n.Subject)
		for i := range n.Arms {
			lowerExpr(n.Arms[i].Body)
		}
	}
}

func lowerFunction(fn *ast.FunctionExpr) {
	var prelude []ast.Stmt
	for i := range fn.Params {
		param := &fn.Params[i]
		if param.Pattern == nil {
			continue
		}
		name := fmt.Sprintf("$arg%d", i)
		synthIdent := &ast.IdentifierExpr{Name: name}
		synthIdent.SetSpan(param.Span())
		let := &ast.LetStmt{Pattern: param.Pattern, Value: synthIdent}
		let.SetSpan(param.Span())
		prelude = append(prelude, let)
		param.Pattern = nil
		param.Name = name
	}
	if len(prelude) > 0 {
		block, ok := fn.Body.(*ast.BlockExpr)
		if !ok {
			block = &ast.BlockExpr{Stmts: []ast.Stmt{&ast.ExprStmt{Expr: fn.Body}}}
			block.Stmts[0].(*ast.ExprStmt).SetSpan(fn.Body.Span())
			block.SetSpan(fn.Body.Span())
		}
		block.Stmts = append(prelude, block.Stmts...)
		fn.Body = block
	}
	lowerExpr(fn.Body)
}
