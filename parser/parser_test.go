package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/santalang/santa/ast"
	"github.com/santalang/santa/parser"
	"github.com/santalang/santa/reporter"
)

func parseOK(t *testing.T, src string) *ast.Program {
	t.Helper()
	handler := reporter.NewHandler()
	prog := parser.Parse(src, handler)
	require.False(t, handler.HasErrors(), "unexpected parse errors: %v", handler.Errors())
	require.NotNil(t, prog)
	return prog
}

func soleExpr(t *testing.T, prog *ast.Program) ast.Expr {
	t.Helper()
	require.Len(t, prog.Items, 1)
	stmt, ok := prog.Items[0].Stmt.(*ast.ExprStmt)
	require.True(t, ok, "expected a single expression statement")
	return stmt.Expr
}

// TestRangePipelinePrecedence pins SPEC_FULL.md's resolution of the `..` vs
// `|>` precedence question: pipeline binds tighter than range, so the range
// operand on the right absorbs the pipe unless the caller parenthesizes.
func TestRangePipelinePrecedence(t *testing.T) {
	prog := parseOK(t, "a..b |> f")
	expr := soleExpr(t, prog)

	rng, ok := expr.(*ast.RangeExpr)
	require.True(t, ok, "expected top-level RangeExpr, got %T", expr)

	ident, ok := rng.Start.(*ast.IdentifierExpr)
	require.True(t, ok)
	assert.Equal(t, "a", ident.Name)

	call, ok := rng.End.(*ast.BinaryExpr)
	require.True(t, ok, "expected the range end to absorb the pipeline, got %T", rng.End)
	assert.Equal(t, ast.BinPipe, call.Op)
}

func TestParenthesizedRangePipeline(t *testing.T) {
	prog := parseOK(t, "(a..b) |> f")
	expr := soleExpr(t, prog)

	pipe, ok := expr.(*ast.BinaryExpr)
	require.True(t, ok, "expected top-level pipeline, got %T", expr)
	assert.Equal(t, ast.BinPipe, pipe.Op)

	_, ok = pipe.Left.(*ast.RangeExpr)
	require.True(t, ok, "expected the range to be the pipeline's left operand, got %T", pipe.Left)
}

func TestInclusiveRange(t *testing.T) {
	prog := parseOK(t, "1..=10")
	rng := soleExpr(t, prog).(*ast.RangeExpr)
	assert.True(t, rng.Inclusive)
}

func TestUnboundedRange(t *testing.T) {
	prog := parseOK(t, "1..")
	rng := soleExpr(t, prog).(*ast.RangeExpr)
	assert.Nil(t, rng.End)
}

func TestCompositionIsRightAssociative(t *testing.T) {
	prog := parseOK(t, "f >> g >> h")
	outer := soleExpr(t, prog).(*ast.BinaryExpr)
	require.Equal(t, ast.BinCompose, outer.Op)

	_, leftIsIdent := outer.Left.(*ast.IdentifierExpr)
	assert.True(t, leftIsIdent, "expected f as the outer left operand")

	inner, ok := outer.Right.(*ast.BinaryExpr)
	require.True(t, ok, "expected g >> h grouped on the right")
	assert.Equal(t, ast.BinCompose, inner.Op)
}

func TestPipelineIsLeftAssociative(t *testing.T) {
	prog := parseOK(t, "x |> f |> g")
	outer := soleExpr(t, prog).(*ast.BinaryExpr)
	require.Equal(t, ast.BinPipe, outer.Op)

	inner, ok := outer.Left.(*ast.BinaryExpr)
	require.True(t, ok, "expected x |> f grouped on the left")
	assert.Equal(t, ast.BinPipe, inner.Op)
}

func TestArithmeticPrecedence(t *testing.T) {
	prog := parseOK(t, "1 + 2 * 3")
	add := soleExpr(t, prog).(*ast.BinaryExpr)
	require.Equal(t, ast.BinAdd, add.Op)

	mul, ok := add.Right.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, ast.BinMul, mul.Op)
}

func TestLetWithListPattern(t *testing.T) {
	prog := parseOK(t, "let [a, ..rest] = xs")
	stmt := prog.Items[0].Stmt.(*ast.LetStmt)
	pat, ok := stmt.Pattern.(*ast.ListPattern)
	require.True(t, ok)
	require.Len(t, pat.Elements, 2)

	_, ok = pat.Elements[0].(*ast.BindingPattern)
	assert.True(t, ok)

	rest, ok := pat.Elements[1].(*ast.RestPattern)
	require.True(t, ok)
	assert.Equal(t, "rest", rest.Name)
}

func TestMutableLet(t *testing.T) {
	prog := parseOK(t, "let mut x = 1")
	stmt := prog.Items[0].Stmt.(*ast.LetStmt)
	assert.True(t, stmt.Mutable)
}

func TestFunctionLiteralAndCall(t *testing.T) {
	prog := parseOK(t, "let add = |a, b| a + b\nadd(1, 2)")
	require.Len(t, prog.Items, 2)

	letStmt := prog.Items[0].Stmt.(*ast.LetStmt)
	fn, ok := letStmt.Value.(*ast.FunctionExpr)
	require.True(t, ok)
	require.Len(t, fn.Params, 2)

	exprStmt := prog.Items[1].Stmt.(*ast.ExprStmt)
	call, ok := exprStmt.Expr.(*ast.CallExpr)
	require.True(t, ok)
	require.Len(t, call.Args, 2)
}

func TestTrailingLambdaSugar(t *testing.T) {
	prog := parseOK(t, "xs |> fold(0) |acc, x| { acc + x }")
	outer := soleExpr(t, prog).(*ast.BinaryExpr)
	require.Equal(t, ast.BinPipe, outer.Op)

	call, ok := outer.Right.(*ast.CallExpr)
	require.True(t, ok)
	require.Len(t, call.Args, 2, "expected the trailing lambda appended as a second argument")

	_, ok = call.Args[1].(*ast.FunctionExpr)
	assert.True(t, ok)
}

func TestSetLiteral(t *testing.T) {
	prog := parseOK(t, "#{1, 2, 3}")
	set, ok := soleExpr(t, prog).(*ast.SetExpr)
	require.True(t, ok)
	assert.Len(t, set.Elements, 3)
}

func TestDictLiteral(t *testing.T) {
	prog := parseOK(t, `#{"a": 1, "b": 2}`)
	dict, ok := soleExpr(t, prog).(*ast.DictExpr)
	require.True(t, ok)
	assert.Len(t, dict.Entries, 2)
}

// TestDictShorthand pins the `#{a, b}` shorthand: every element is a bare
// identifier, so the literal is a dict keyed by each name's own string.
func TestDictShorthand(t *testing.T) {
	prog := parseOK(t, "#{a, b}")
	dict, ok := soleExpr(t, prog).(*ast.DictExpr)
	require.True(t, ok)
	require.Len(t, dict.Entries, 2)

	entry := dict.Entries[0].(*ast.DictEntry)
	key, ok := entry.Key.(*ast.StringLiteral)
	require.True(t, ok)
	assert.Equal(t, "a", key.Value)
}

func TestIfLetExpr(t *testing.T) {
	prog := parseOK(t, "if let [x, ..] = xs { x } else { 0 }")
	ifExpr, ok := soleExpr(t, prog).(*ast.IfExpr)
	require.True(t, ok)
	require.NotNil(t, ifExpr.CondPattern)
	require.NotNil(t, ifExpr.Else)
}

func TestMatchExpr(t *testing.T) {
	prog := parseOK(t, `match x {
		0: "zero"
		1..=9: "digit"
		_: "other"
	}`)
	m, ok := soleExpr(t, prog).(*ast.MatchExpr)
	require.True(t, ok)
	require.Len(t, m.Arms, 3)

	_, ok = m.Arms[1].Pattern.(*ast.RangePattern)
	assert.True(t, ok)

	_, ok = m.Arms[2].Pattern.(*ast.WildcardPattern)
	assert.True(t, ok)
}

func TestInfixBacktickCall(t *testing.T) {
	prog := parseOK(t, "1 `add` 2")
	call, ok := soleExpr(t, prog).(*ast.InfixCallExpr)
	require.True(t, ok)

	fn, ok := call.Func.(*ast.IdentifierExpr)
	require.True(t, ok)
	assert.Equal(t, "add", fn.Name)
}

func TestSections(t *testing.T) {
	prog := parseOK(t, "input:\n\"abc\"\n\npart_one: { 1 }\n\npart_two: { 2 }\n")
	require.True(t, prog.HasSections())

	secs := prog.Sections()
	require.Len(t, secs, 3)
	assert.Equal(t, "input", secs[0].Name)
	assert.Equal(t, "part_one", secs[1].Name)
	assert.Equal(t, "part_two", secs[2].Name)
}

func TestTestSection(t *testing.T) {
	prog := parseOK(t, "test:\ninput: \"1\\n2\"\npart_one: \"3\"\n")
	secs := prog.Sections()
	require.Len(t, secs, 1)
	require.Len(t, secs[0].Tests, 1)
	assert.Equal(t, "1\n2", secs[0].Tests[0].Input.Value)
	assert.Equal(t, "3", secs[0].Tests[0].PartOne.Value)
}

func TestPlaceholderExpr(t *testing.T) {
	prog := parseOK(t, "_")
	_, ok := soleExpr(t, prog).(*ast.PlaceholderExpr)
	assert.True(t, ok)
}

func TestComparisonIsNonAssociative(t *testing.T) {
	handler := reporter.NewHandler()
	parser.Parse("a < b < c", handler)
	assert.True(t, handler.HasErrors(), "chained comparisons should be a syntax error")
}
