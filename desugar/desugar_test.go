package desugar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/santalang/santa/ast"
	"github.com/santalang/santa/desugar"
	"github.com/santalang/santa/parser"
	"github.com/santalang/santa/reporter"
)

func parseOK(t *testing.T, src string) *ast.Program {
	t.Helper()
	handler := reporter.NewHandler()
	prog := parser.Parse(src, handler)
	require.False(t, handler.HasErrors(), "unexpected parse errors: %v", handler.Errors())
	return prog
}

func soleExpr(t *testing.T, prog *ast.Program) ast.Expr {
	t.Helper()
	require.Len(t, prog.Items, 1)
	return prog.Items[0].Stmt.(*ast.ExprStmt).Expr
}

func TestPlaceholderLiftsBinaryOperand(t *testing.T) {
	prog := parseOK(t, "filter(_ > 0)")
	desugar.Run(prog)

	call := soleExpr(t, prog).(*ast.CallExpr)
	require.Len(t, call.Args, 1)

	fn, ok := call.Args[0].(*ast.FunctionExpr)
	require.True(t, ok, "expected the argument to be lifted into a lambda, got %T", call.Args[0])
	require.Len(t, fn.Params, 1)
	assert.Equal(t, "$0", fn.Params[0].Name)

	body := fn.Body.(*ast.BinaryExpr)
	ident := body.Left.(*ast.IdentifierExpr)
	assert.Equal(t, "$0", ident.Name)
}

func TestPlaceholderOrdinalsAreLeftToRight(t *testing.T) {
	prog := parseOK(t, "_ + _")
	desugar.Run(prog)

	fn := soleExpr(t, prog).(*ast.FunctionExpr)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "$0", fn.Params[0].Name)
	assert.Equal(t, "$1", fn.Params[1].Name)
}

func TestNestedLambdaShieldsPlaceholder(t *testing.T) {
	prog := parseOK(t, "map(xs, |x| _)")
	desugar.Run(prog)

	call := soleExpr(t, prog).(*ast.CallExpr)
	lambda := call.Args[1].(*ast.FunctionExpr)
	require.Len(t, lambda.Params, 1)
	assert.Equal(t, "x", lambda.Params[0].Name)

	// The inner `_` is shielded from the outer `|x| ...` lambda: it closes
	// its own nested lambda instead of promoting the outer one further.
	inner, ok := lambda.Body.(*ast.FunctionExpr)
	require.True(t, ok, "expected the inner placeholder to close its own lambda, got %T", lambda.Body)
	require.Len(t, inner.Params, 1)
	assert.Equal(t, "$0", inner.Params[0].Name)
}

func TestPatternParamLowering(t *testing.T) {
	prog := parseOK(t, "let f = |[a, b]| a + b")
	desugar.Run(prog)

	let := prog.Items[0].Stmt.(*ast.LetStmt)
	fn := let.Value.(*ast.FunctionExpr)
	require.Len(t, fn.Params, 1)
	assert.Equal(t, "$arg0", fn.Params[0].Name)
	assert.Nil(t, fn.Params[0].Pattern)

	block := fn.Body.(*ast.BlockExpr)
	require.Len(t, block.Stmts, 2)

	letStmt, ok := block.Stmts[0].(*ast.LetStmt)
	require.True(t, ok)
	_, isListPattern := letStmt.Pattern.(*ast.ListPattern)
	assert.True(t, isListPattern)

	value := letStmt.Value.(*ast.IdentifierExpr)
	assert.Equal(t, "$arg0", value.Name)
}
