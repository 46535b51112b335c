package emit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/santalang/santa/builtins"
	"github.com/santalang/santa/desugar"
	"github.com/santalang/santa/emit"
	"github.com/santalang/santa/parser"
	"github.com/santalang/santa/reporter"
	"github.com/santalang/santa/resolve"
	"github.com/santalang/santa/tailcall"
	"github.com/santalang/santa/value"
)

func eval(t *testing.T, source string) value.Value {
	t.Helper()
	handler := reporter.NewHandler()
	prog := parser.Parse(source, handler)
	require.False(t, handler.HasErrors(), "parse errors: %v", handler.Errors())

	desugar.Run(prog)

	table := builtins.Default()
	require.NoError(t, resolve.Resolve(prog, table, handler))

	tailcall.AnalyzeProgram(prog)

	compiled := emit.Compile(prog, table)
	v, err := compiled.Execute()
	require.NoError(t, err)
	return v
}

func TestSpreadIntoListLiteral(t *testing.T) {
	v := eval(t, "let xs = [1, 2]; [0, ..xs, 3]")
	lst := v.(value.List)
	assert.Equal(t, []value.Value{value.Int(0), value.Int(1), value.Int(2), value.Int(3)}, lst.ToSlice())
}

func TestSpreadArgumentsIntoCall(t *testing.T) {
	v := eval(t, "let add3 = |a, b, c| a + b + c; let xs = [1, 2, 3]; add3(..xs)")
	assert.Equal(t, value.Int(6), v)
}

func TestShortCircuitAndReturnsDeterminingOperand(t *testing.T) {
	assert.Equal(t, value.Int(0), eval(t, "0 && 5"))
	assert.Equal(t, value.Int(5), eval(t, "3 && 5"))
}

func TestShortCircuitOrReturnsDeterminingOperand(t *testing.T) {
	assert.Equal(t, value.Int(3), eval(t, "3 || 5"))
	assert.Equal(t, value.Int(5), eval(t, "0 || 5"))
}

func TestIfLetDestructures(t *testing.T) {
	v := eval(t, `
		let xs = [1, 2]
		if let [a, b] = xs {
			a + b
		} else {
			-1
		}
	`)
	assert.Equal(t, value.Int(3), v)
}

func TestInfixCallSugar(t *testing.T) {
	v := eval(t, "let add = |a, b| a + b; 1 `add` 2")
	assert.Equal(t, value.Int(3), v)
}

func TestUnaryNegationOfNonLiteral(t *testing.T) {
	v := eval(t, "let x = 5; -x")
	assert.Equal(t, value.Int(-5), v)
}

func TestSetMembershipIndexing(t *testing.T) {
	v := eval(t, "let s = #{1, 2, 3}; s[2]")
	assert.Equal(t, value.Bool(true), v)
	v = eval(t, "let s = #{1, 2, 3}; s[9]")
	assert.Equal(t, value.Bool(false), v)
}

func TestDictSpread(t *testing.T) {
	v := eval(t, `let a = #{"x": 1}; let b = #{..a, "y": 2}; b["y"]`)
	assert.Equal(t, value.Int(2), v)
}
