package ast

// Section is a top-level named block: `input:`, `part_one:`, `part_two:`,
// or `test:` (§6). Its expression is evaluated on demand via the thunk the
// emitter builds for it (§9 "sections as thunks").
type Section struct {
	base
	Name string
	Expr Expr // nil when Tests is set (only the `test:` section uses Tests)
	Tests []TestCase

	// Slot is filled in by the resolver: the section's name is bound as a
	// top-level identifier (e.g. `part_two` referencing `input`), sharing
	// Program.NumTopLevelSlots' slot space.
	Slot int
}

// TestCase is one `test:` sub-block: a trio of string-literal sources for
// input/part_one/part_two, each optional.
type TestCase struct {
	base
	Input   *StringLiteral
	PartOne *StringLiteral
	PartTwo *StringLiteral
}

// TopLevel is one item at the top of a Program: either a named Section or
// an ordinary statement.
type TopLevel struct {
	Section *Section // non-nil for a section header
	Stmt    Stmt     // non-nil otherwise
}

func (t TopLevel) Span() Span {
	if t.Section != nil {
		return t.Section.Span()
	}
	return t.Stmt.Span()
}

// Program is the full parse of one source file: an ordered list of
// top-level items (§3.3).
type Program struct {
	Items []TopLevel

	// NumTopLevelSlots is filled in by the resolver: the number of
	// top-level `let` slots shared across the program body and every
	// section.
	NumTopLevelSlots int
}

// Sections returns the program's named sections in declaration order.
func (p *Program) Sections() []*Section {
	var out []*Section
	for _, item := range p.Items {
		if item.Section != nil {
			out = append(out, item.Section)
		}
	}
	return out
}

// HasSections reports whether the program uses the section form at all.
func (p *Program) HasSections() bool {
	return len(p.Sections()) > 0
}

// Span covers the program's first through last top-level item.
func (p *Program) Span() Span {
	if len(p.Items) == 0 {
		return Span{}
	}
	return Join(p.Items[0].Span(), p.Items[len(p.Items)-1].Span())
}
