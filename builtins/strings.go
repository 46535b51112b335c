package builtins

import (
	"regexp"
	"strings"

	"github.com/santalang/santa/value"
)

func stringBuiltins() []Builtin {
	return []Builtin{
		{Name: "lines", Arity: 1, Fn: func(args []value.Value) (value.Value, error) {
			s, err := requireString("lines", args[0])
			if err != nil {
				return nil, err
			}
			normalized := normalizeNewlines(s.Raw())
			parts := strings.Split(normalized, "\n")
			items := make([]value.Value, len(parts))
			for i, p := range parts {
				items[i] = value.NewString(p)
			}
			return value.NewList(items...), nil
		}},
		{Name: "blocks", Arity: 1, Fn: func(args []value.Value) (value.Value, error) {
			s, err := requireString("blocks", args[0])
			if err != nil {
				return nil, err
			}
			normalized := normalizeNewlines(s.Raw())
			parts := strings.Split(normalized, "\n\n")
			items := make([]value.Value, 0, len(parts))
			for _, p := range parts {
				items = append(items, value.NewString(p))
			}
			return value.NewList(items...), nil
		}},
		{Name: "split", Arity: 2, Fn: func(args []value.Value) (value.Value, error) {
			sep, err := requireString("split", args[0])
			if err != nil {
				return nil, err
			}
			s, err := requireString("split", args[1])
			if err != nil {
				return nil, err
			}
			var parts []string
			if sep.Raw() == "" {
				parts = s.Graphemes()
			} else {
				parts = strings.Split(s.Raw(), sep.Raw())
			}
			items := make([]value.Value, len(parts))
			for i, p := range parts {
				items[i] = value.NewString(p)
			}
			return value.NewList(items...), nil
		}},
		{Name: "join", Arity: 2, Fn: func(args []value.Value) (value.Value, error) {
			sep, err := requireString("join", args[0])
			if err != nil {
				return nil, err
			}
			items, err := elements(args[1])
			if err != nil {
				return nil, err
			}
			parts := make([]string, len(items))
			for i, v := range items {
				parts[i] = value.Render(v)
			}
			return value.NewString(strings.Join(parts, sep.Raw())), nil
		}},
		{Name: "regex_match", Arity: 2, Fn: func(args []value.Value) (value.Value, error) {
			return regexMatch(args[0], args[1], false)
		}},
		{Name: "regex_match_all", Arity: 2, Fn: func(args []value.Value) (value.Value, error) {
			return regexMatch(args[0], args[1], true)
		}},
	}
}

func requireString(op string, v value.Value) (value.String, error) {
	s, ok := v.(value.String)
	if !ok {
		return value.String{}, &value.ErrTypeMismatch{Op: op, Operands: []value.Type{v.Type()}}
	}
	return s, nil
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// regexMatch implements regex_match/regex_match_all (§4.8): both return the
// matched groups as a List (the whole match plus any capture groups);
// regex_match returns the first match or Nil, regex_match_all returns a
// List of every match.
func regexMatch(pattern, subject value.Value, all bool) (value.Value, error) {
	p, err := requireString("regex_match", pattern)
	if err != nil {
		return nil, err
	}
	s, err := requireString("regex_match", subject)
	if err != nil {
		return nil, err
	}
	re, compileErr := regexp.Compile(p.Raw())
	if compileErr != nil {
		return nil, &value.ErrTypeMismatch{Op: "regex_match: invalid pattern", Operands: []value.Type{value.TypeString}}
	}
	if !all {
		m := re.FindStringSubmatch(s.Raw())
		if m == nil {
			return value.Nil, nil
		}
		return groupsToList(m), nil
	}
	matches := re.FindAllStringSubmatch(s.Raw(), -1)
	out := make([]value.Value, len(matches))
	for i, m := range matches {
		out[i] = groupsToList(m)
	}
	return value.NewList(out...), nil
}

func groupsToList(m []string) value.Value {
	items := make([]value.Value, len(m))
	for i, g := range m {
		items[i] = value.NewString(g)
	}
	return value.NewList(items...)
}
