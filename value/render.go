package value

import "strings"

// Render produces the human-readable form `puts` and REPL-style output use
// (a SUPPLEMENTED FEATURES addition): strings render unquoted at the top
// level but quoted when nested inside a collection, matching the
// distinction most Lisp/Clojure-family `str` vs `pr-str` pairs make.
func Render(v Value) string {
	return render(v, false)
}

func render(v Value, nested bool) string {
	switch x := v.(type) {
	case Int:
		return x.String()
	case Decimal:
		return x.String()
	case Bool:
		if x {
			return "true"
		}
		return "false"
	case NilValue:
		return "nil"
	case String:
		if nested {
			return quoteString(x.Raw())
		}
		return x.Raw()
	case List:
		var b strings.Builder
		b.WriteByte('[')
		first := true
		x.Each(func(_ int64, elem Value) bool {
			if !first {
				b.WriteString(", ")
			}
			first = false
			b.WriteString(render(elem, true))
			return true
		})
		b.WriteByte(']')
		return b.String()
	case Set:
		var b strings.Builder
		b.WriteString("#{")
		first := true
		x.Each(func(elem Value) bool {
			if !first {
				b.WriteString(", ")
			}
			first = false
			b.WriteString(render(elem, true))
			return true
		})
		b.WriteByte('}')
		return b.String()
	case Dict:
		var b strings.Builder
		b.WriteString("#{")
		first := true
		x.Each(func(k, val Value) bool {
			if !first {
				b.WriteString(", ")
			}
			first = false
			b.WriteString(render(k, true))
			b.WriteString(": ")
			b.WriteString(render(val, true))
			return true
		})
		b.WriteByte('}')
		return b.String()
	case Range:
		op := ".."
		if x.Inclusive {
			op = "..="
		}
		if x.Unbounded {
			return Int(x.Start).String() + ".."
		}
		return Int(x.Start).String() + op + Int(x.End).String()
	case LazySequence:
		return "<lazy sequence>"
	case Function:
		return x.String()
	default:
		return "<unknown>"
	}
}

func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
