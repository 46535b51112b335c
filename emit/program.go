package emit

import (
	"errors"

	"github.com/santalang/santa/ast"
	"github.com/santalang/santa/builtins"
	"github.com/santalang/santa/value"
)

// ErrHasSections is returned by (*Program).Execute when the compiled
// source declares section blocks — those are run through Sections
// instead, one at a time, on demand (§9).
var ErrHasSections = errors.New("emit: program declares sections; call Sections instead of Execute")

// section pairs a declared section's name and top-level slot with its
// compiled, not-yet-memoized body.
type section struct {
	name   string
	slot   int
	bodyFn exprFn
}

// Program is a fully compiled script: every top-level statement and
// section body has already been turned into a closure over *Frame.
// Running it is just invoking those closures — there is no separate
// execution phase.
type Program struct {
	hasSections bool
	prologStmts []stmtFn
	sections    []section
	thunks      map[int]func() (value.Value, error)
	frame       *Frame

	prologRan    bool
	prologErr    error
	prologResult value.Value
}

// Compile compiles a resolved, tail-call-analyzed program against table
// for built-in lookups. The caller is responsible for having already run
// desugar.Run, resolve.Resolve, and tailcall.AnalyzeProgram over prog.
func Compile(prog *ast.Program, table *builtins.Table) *Program {
	c := &compiler{table: table, sectionThunks: map[int]func() (value.Value, error){}}
	topCx := ctx{atTop: true}

	frame := &Frame{top: newCells(prog.NumTopLevelSlots)}

	var sections []section
	var prologStmts []stmtFn

	for _, item := range prog.Items {
		if item.Section != nil {
			sec := item.Section
			if sec.Expr == nil {
				continue
			}
			sections = append(sections, section{
				name:   sec.Name,
				slot:   sec.Slot,
				bodyFn: c.compileExpr(topCx, sec.Expr),
			})
			continue
		}
		prologStmts = append(prologStmts, c.compileStmt(topCx, item.Stmt))
	}

	// Each section's thunk memoizes its own result the first time it's
	// forced, whether that's a direct Sections() call or an earlier
	// section reading another one by name (forward references resolve at
	// run time, through this map, never at compile time).
	for _, sec := range sections {
		sec := sec
		var ran bool
		var cached value.Value
		var cachedErr error
		c.sectionThunks[sec.slot] = func() (value.Value, error) {
			if ran {
				return cached, cachedErr
			}
			ran = true
			cached, cachedErr = sec.bodyFn(frame)
			if cachedErr == nil {
				*frame.top[sec.slot] = cached
			}
			return cached, cachedErr
		}
	}

	return &Program{
		hasSections: prog.HasSections(),
		prologStmts: prologStmts,
		sections:    sections,
		thunks:      c.sectionThunks,
		frame:       frame,
	}
}

// runProlog runs the program's non-section top-level statements exactly
// once, memoizing both the resulting value (the last statement's value,
// or whatever a stray top-level return/break carried) and any error.
func (p *Program) runProlog() (value.Value, error) {
	if p.prologRan {
		return p.prologResult, p.prologErr
	}
	p.prologRan = true

	var result value.Value = value.Nil
	for _, sf := range p.prologStmts {
		v, err := sf(p.frame)
		if err != nil {
			if rs, ok := err.(returnSignal); ok {
				result = rs.value
				break
			}
			if bs, ok := err.(breakSignal); ok {
				result = bs.value
				break
			}
			p.prologErr = err
			return nil, err
		}
		result = v
	}
	p.prologResult = result
	return result, nil
}

// Execute runs a section-free program to completion and returns its
// value — the value of the last top-level statement, per §4.6's block
// semantics applied to the program as a whole.
func (p *Program) Execute() (value.Value, error) {
	if p.hasSections {
		return nil, ErrHasSections
	}
	return p.runProlog()
}

// Sections exposes one on-demand, memoized thunk per declared section
// (§9): the prolog (any shared top-level bindings every section can see)
// runs once, lazily, the first time any section is forced.
func (p *Program) Sections() (map[string]func() (value.Value, error), bool) {
	if !p.hasSections {
		return nil, false
	}
	out := make(map[string]func() (value.Value, error), len(p.sections))
	for _, sec := range p.sections {
		sec := sec
		out[sec.name] = func() (value.Value, error) {
			if _, err := p.runProlog(); err != nil {
				return nil, err
			}
			return p.thunks[sec.slot]()
		}
	}
	return out, true
}
