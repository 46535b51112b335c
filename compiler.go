// Package santa is the top-level entry point: it wires together the
// lexer/parser, desugarer, resolver, tail-call analyzer, and emitter into
// the single `compile(source) -> Program` operation described by §6.
package santa

import (
	"github.com/santalang/santa/builtins"
	"github.com/santalang/santa/desugar"
	"github.com/santalang/santa/emit"
	"github.com/santalang/santa/parser"
	"github.com/santalang/santa/reporter"
	"github.com/santalang/santa/resolve"
	"github.com/santalang/santa/tailcall"
)

// Compiler turns santa-lang source into a ready-to-run Program.
//
// The compilation process involves five steps:
//  1. Parsing the source into an AST (lexer + recursive-descent parser).
//  2. Desugaring placeholder and pattern-parameter sugar.
//  3. Resolving every identifier to a binding and every function literal's
//     capture list.
//  4. Analyzing tail-recursive self-calls so the emitter can compile them
//     as a dispatch loop instead of unbounded Go-stack recursion.
//  5. Emitting each expression and statement as a closure over *Frame.
//
// Compiler's fields configure what the running program talks to: Sink
// receives `puts` output, and AOC answers `read("aoc://year/day")` (§4.8).
// Both are optional — a zero Compiler behaves like builtins.Default().
type Compiler struct {
	Sink builtins.ConsoleSink
	AOC  builtins.AOCProvider
}

// Compile runs every pipeline stage over source and returns the resulting
// Program, or the first error (of any stage) wrapped with its source span.
// The default reporter.Handler is used internally, so parsing and
// resolving stop at the first error; CompileError's Errors field holds
// what that handler recorded.
func (c *Compiler) Compile(source string) (*emit.Program, error) {
	handler := reporter.NewHandler()

	prog := parser.Parse(source, handler)
	if handler.HasErrors() {
		return nil, &CompileError{Errors: handler.Errors()}
	}

	desugar.Run(prog)

	table := builtins.New(c.Sink, c.AOC)

	if err := resolve.Resolve(prog, table, handler); err != nil {
		return nil, &CompileError{Errors: handler.Errors()}
	}

	tailcall.AnalyzeProgram(prog)

	return emit.Compile(prog, table), nil
}

// CompileError is returned when source fails to parse or resolve; Errors
// holds the diagnostics the default reporter.Handler recorded before it
// stopped at the first error.
type CompileError struct {
	Errors []*reporter.Error
}

func (e *CompileError) Error() string {
	if len(e.Errors) == 0 {
		return "compile failed"
	}
	return e.Errors[0].Error()
}

func (e *CompileError) Unwrap() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e.Errors[0]
}
