package reporter

import (
	"fmt"
	"strings"

	"github.com/santalang/santa/ast"
)

// Format renders a diagnostic the way §4.9 specifies:
//
//	<Kind>: <message>
//	  --> line L, column C
//	    |
//	  L | <source line>
//	    |        ^
//
// file may be nil for diagnostics without a source (none currently raised),
// in which case only the first line is rendered.
func Format(err *Error, file *ast.File) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", err.Kind, err.Message)
	if !err.HasSpan || file == nil {
		return b.String()
	}

	pos := err.Span.Start
	fmt.Fprintf(&b, "  --> line %d, column %d\n", pos.Line, pos.Column)
	lineNumWidth := len(fmt.Sprintf("%d", pos.Line))
	gutter := strings.Repeat(" ", lineNumWidth)
	fmt.Fprintf(&b, "%s |\n", gutter)
	fmt.Fprintf(&b, "%*d | %s\n", lineNumWidth, pos.Line, file.Line(pos.Line))
	caretIndent := strings.Repeat(" ", pos.Column-1)
	fmt.Fprintf(&b, "%s |%s^\n", gutter, caretIndent)
	return b.String()
}
