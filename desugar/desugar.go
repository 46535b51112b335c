package desugar

import "github.com/santalang/santa/ast"

// Run applies every desugaring pass to prog in place, in the fixed order
// required by §4.3: placeholder lifting first (it only ever introduces
// NamedParams), then pattern-parameter lowering (which only rewrites
// FunctionExpr.Params and prepends a `let` to each affected body).
func Run(prog *ast.Program) {
	Placeholders(prog)
	PatternParams(prog)
}
