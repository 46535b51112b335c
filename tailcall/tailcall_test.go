package tailcall_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/santalang/santa/ast"
	"github.com/santalang/santa/builtins"
	"github.com/santalang/santa/desugar"
	"github.com/santalang/santa/parser"
	"github.com/santalang/santa/reporter"
	"github.com/santalang/santa/resolve"
	"github.com/santalang/santa/tailcall"
)

func letFunction(t *testing.T, src string) *ast.FunctionExpr {
	t.Helper()
	handler := reporter.NewHandler()
	prog := parser.Parse(src, handler)
	require.False(t, handler.HasErrors(), "unexpected parse errors: %v", handler.Errors())
	desugar.Run(prog)

	err := resolve.Resolve(prog, builtins.Default(), handler)
	require.NoError(t, err, "unexpected resolve errors: %v", handler.Errors())

	letStmt := prog.Items[0].Stmt.(*ast.LetStmt)
	switch v := letStmt.Value.(type) {
	case *ast.FunctionExpr:
		return v
	case *ast.CallExpr:
		return v.Args[0].(*ast.FunctionExpr)
	default:
		t.Fatalf("expected a function-shaped let value, got %T", letStmt.Value)
		return nil
	}
}

func TestTailRecursiveAccumulatorLoop(t *testing.T) {
	fn := letFunction(t, "let fact = |n, acc| if n < 2 { acc } else { fact(n - 1, n * acc) }")
	tailcall.Analyze(fn)

	require.Len(t, fn.TailSelfCalls, 1)
	assert.True(t, fn.IsTailRecursive)
}

func TestNonTailRecursiveCallAsOperand(t *testing.T) {
	// fact(n - 1) is the operand of a multiplication, not the tail
	// expression of the else branch — never loop-rewritable.
	fn := letFunction(t, "let fact = |n| if n < 2 { 1 } else { n * fact(n - 1) }")
	tailcall.Analyze(fn)

	require.Len(t, fn.TailSelfCalls, 1)
	assert.False(t, fn.IsTailRecursive)
}

func TestTailRecursiveThroughMatch(t *testing.T) {
	fn := letFunction(t, `let countdown = |n, acc| match n {
		0: acc,
		_: countdown(n - 1, acc + 1),
	}`)
	tailcall.Analyze(fn)

	require.Len(t, fn.TailSelfCalls, 1)
	assert.True(t, fn.IsTailRecursive)
}

func TestTailRecursiveWithMixOfTailAndNonTailCallsIsNotTagged(t *testing.T) {
	// One self-call is the tail expression of an inner if branch, the other
	// is an operand of addition — not every self-call is tail, so the whole
	// function is disqualified even though one call-site alone would
	// qualify.
	fn := letFunction(t, `let f = |n| if n < 1 { 0 } else { if n % 2 == 0 { f(n - 1) } else { 1 + f(n - 1) } }`)
	tailcall.Analyze(fn)

	require.Len(t, fn.TailSelfCalls, 2)
	assert.False(t, fn.IsTailRecursive)
}

func TestMemoizedFunctionIsNeverTailRecursive(t *testing.T) {
	fn := letFunction(t, "let fib = memoize(|n| if n < 2 { n } else { fib(n - 1) + fib(n - 2) })")
	require.True(t, fn.IsMemoized)

	tailcall.Analyze(fn)
	assert.Nil(t, fn.TailSelfCalls)
	assert.False(t, fn.IsTailRecursive)
}

func TestAnonymousLambdaSkipsAnalysis(t *testing.T) {
	handler := reporter.NewHandler()
	prog := parser.Parse("|x| x + 1", handler)
	require.False(t, handler.HasErrors())
	desugar.Run(prog)
	require.NoError(t, resolve.Resolve(prog, builtins.Default(), handler))

	fn := prog.Items[0].Stmt.(*ast.ExprStmt).Expr.(*ast.FunctionExpr)
	require.Equal(t, "", fn.SelfName)

	tailcall.Analyze(fn)
	assert.Nil(t, fn.TailSelfCalls)
	assert.False(t, fn.IsTailRecursive)
}

func TestNestedClosureIsNotCountedAsOuterSelfCall(t *testing.T) {
	// The self-call to `apply` lives inside a nested lambda passed to
	// `apply` itself; that nested lambda defines its own tail context and
	// must not contribute to apply's own TailSelfCalls.
	fn := letFunction(t, `let apply = |n| if n < 1 { 0 } else { map([n], |x| apply(x - 1))[0] }`)
	tailcall.Analyze(fn)
	assert.Empty(t, fn.TailSelfCalls)
	assert.False(t, fn.IsTailRecursive)
}

func TestAnalyzeProgramCoversLetBoundAndNestedFunctions(t *testing.T) {
	handler := reporter.NewHandler()
	prog := parser.Parse("let countdown = |n, acc| if n < 1 { acc } else { countdown(n - 1, acc + 1) }\ncountdown(5, 0)", handler)
	require.False(t, handler.HasErrors())
	desugar.Run(prog)
	require.NoError(t, resolve.Resolve(prog, builtins.Default(), handler))

	tailcall.AnalyzeProgram(prog)

	fn := prog.Items[0].Stmt.(*ast.LetStmt).Value.(*ast.FunctionExpr)
	assert.True(t, fn.IsTailRecursive)
}
