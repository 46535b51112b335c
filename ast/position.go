// Package ast defines the abstract syntax tree produced by the santa-lang
// parser: sections and statements at the top level, the expression grammar
// (literals, calls, pipelines, pattern matching, ranges), and the patterns
// used by `let`, function parameters, and `match` arms.
//
// Every node carries a Span so that later phases (desugar, resolve, emit)
// and the error formatter can all report precise source locations.
package ast

import (
	"fmt"
	"sort"
)

// Position is a single location in a source file, decoded over Unicode code
// points. Both Line and Column are 1-based.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// IsZero reports whether p is the unset Position.
func (p Position) IsZero() bool {
	return p.Line == 0 && p.Column == 0
}

// Span is a half-open source range [Start, End) attached to every token and
// every AST node.
type Span struct {
	Start Position
	End   Position
}

// Join returns the smallest span that covers both a and b.
func Join(a, b Span) Span {
	start, end := a.Start, a.End
	if before(b.Start, start) {
		start = b.Start
	}
	if before(end, b.End) {
		end = b.End
	}
	return Span{Start: start, End: end}
}

func before(a, b Position) bool {
	return a.Line < b.Line || (a.Line == b.Line && a.Column < b.Column)
}

// File holds a source file's raw text together with the code-point offsets of
// each line's start, so that a code-point offset can be converted to a
// 1-based (line, column) Position in O(log n).
type File struct {
	Name string
	Text []rune

	// lineOffsets[i] is the code-point offset of the first rune of line i
	// (0-based index, 1-based line number i+1).
	lineOffsets []int
}

// NewFile scans source for line boundaries and returns a File ready for
// position lookups. Source is decoded as Unicode code points, matching the
// lexer's own scanning unit (§3.1 of the language spec).
func NewFile(name, source string) *File {
	runes := []rune(source)
	f := &File{Name: name, Text: runes, lineOffsets: []int{0}}
	for i, r := range runes {
		if r == '\n' {
			f.lineOffsets = append(f.lineOffsets, i+1)
		}
	}
	return f
}

// PositionAt converts a zero-based code-point offset into a Position.
func (f *File) PositionAt(offset int) Position {
	line := sort.Search(len(f.lineOffsets), func(i int) bool {
		return f.lineOffsets[i] > offset
	}) - 1
	if line < 0 {
		line = 0
	}
	col := offset - f.lineOffsets[line]
	return Position{Line: line + 1, Column: col + 1}
}

// Line returns the raw text of the given 1-based line number, with any
// trailing newline stripped. Lines are split on "\n" only: the "\r" that a
// "\r\n" ending leaves at the end of a line is stripped as well, but a lone
// "\r" is not treated as a line break.
func (f *File) Line(n int) string {
	if n < 1 || n > len(f.lineOffsets) {
		return ""
	}
	start := f.lineOffsets[n-1]
	end := len(f.Text)
	if n < len(f.lineOffsets) {
		end = f.lineOffsets[n] - 1
	}
	if start > end || start > len(f.Text) {
		return ""
	}
	line := string(f.Text[start:end])
	if len(line) > 0 && line[len(line)-1] == '\r' {
		line = line[:len(line)-1]
	}
	return line
}
