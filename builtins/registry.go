// Package builtins implements santa-lang's built-in function catalog
// (§4.8), dispatched by name and arity from a name-keyed table. The table
// itself is an adaptive radix tree, the same "insert/search by string key"
// structure the teacher's linker package uses for its descriptor symbol
// trie (linker/symbols.go), generalized here to built-in names instead of
// fully-qualified proto symbols.
package builtins

import (
	art "github.com/kralicky/go-adaptive-radix-tree"

	"github.com/santalang/santa/value"
)

// Fn is a built-in's Go implementation: it receives the already-evaluated
// argument list and returns a value or a runtime error.
type Fn func(args []value.Value) (value.Value, error)

// Builtin is one catalog entry. Arity is -1 for variadic built-ins
// (`puts`, `zip`); the resolver uses the table's name set (not arity) to
// decide whether an identifier shadows a built-in.
type Builtin struct {
	Name  string
	Arity int
	Fn    Fn
}

// ConsoleSink is the collaborator `puts` writes to (§6's console capture).
type ConsoleSink interface {
	Puts(message string)
}

// AOCProvider resolves `read("aoc://YEAR/DAY")` (§6). Ordinary `read(path)`
// calls never reach it.
type AOCProvider interface {
	Read(year, day int) (string, bool)
}

// Table is the full built-in registry, keyed by name, plus the I/O
// collaborators `puts` and `read` dispatch through.
type Table struct {
	tree   art.Tree
	Sink   ConsoleSink
	AOC    AOCProvider
}

// New builds a built-in table with the given collaborators. Either may be
// nil: a nil Sink makes `puts` a no-op, a nil AOC makes `read("aoc://...")`
// always return Nil.
func New(sink ConsoleSink, aoc AOCProvider) *Table {
	t := &Table{tree: art.New(), Sink: sink, AOC: aoc}
	for _, b := range catalog(t) {
		t.tree.Insert(art.Key(b.Name), b)
	}
	return t
}

// Default returns a built-in table with no I/O collaborators wired;
// `puts` is a no-op and `read` never resolves `aoc://` paths. Used by
// tests and by any script that never calls `puts`/`read`.
func Default() *Table { return New(nil, nil) }

// Lookup finds a built-in by name.
func (t *Table) Lookup(name string) (Builtin, bool) {
	v, found := t.tree.Search(art.Key(name))
	if !found {
		return Builtin{}, false
	}
	return v.(Builtin), true
}

// Has reports whether name is a built-in identifier; used by the resolver
// to reject `let <builtin-name> = ...` at top level (§4.4).
func (t *Table) Has(name string) bool {
	_, found := t.Lookup(name)
	return found
}

// Call looks up and invokes a built-in by name, checking arity first.
func (t *Table) Call(name string, args []value.Value) (value.Value, error) {
	b, ok := t.Lookup(name)
	if !ok {
		return nil, &ErrUnknownBuiltin{Name: name}
	}
	if b.Arity >= 0 && len(args) != b.Arity {
		return nil, &value.ErrArity{Name: name, Want: b.Arity, Got: len(args)}
	}
	return b.Fn(args)
}

// ErrUnknownBuiltin should never surface past the resolver, which rejects
// unresolvable identifiers before emission; it exists as a defensive
// fallback for direct Table.Call use (e.g. from tests).
type ErrUnknownBuiltin struct{ Name string }

func (e *ErrUnknownBuiltin) Error() string { return "unknown built-in: " + e.Name }

func catalog(t *Table) []Builtin {
	var all []Builtin
	all = append(all, coreBuiltins(t)...)
	all = append(all, numberBuiltins()...)
	all = append(all, stringBuiltins()...)
	all = append(all, collectionBuiltins()...)
	all = append(all, higherOrderBuiltins()...)
	all = append(all, setBuiltins()...)
	return all
}
