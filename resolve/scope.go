// Package resolve implements the resolver (§4.4): scope-stack name
// resolution, binding classification, closure capture recording, and the
// memoized self-reference special case. It walks a desugared *ast.Program
// in place, annotating IdentifierExprs with their BindingRef and filling in
// every Slot/NumLocals/Captures/NumTopLevelSlots field the emitter needs.
package resolve

import (
	art "github.com/kralicky/go-adaptive-radix-tree"

	"github.com/santalang/santa/ast"
)

// binding is one name visible in a scope.
type binding struct {
	name     string
	kind     ast.BindingKind
	slot     int
	mutable  bool
	// selfFn is set when this binding's value is, syntactically, a function
	// literal (or memoize(<function literal>)) — the memoized
	// self-reference special case (§4.4) only fires for these.
	selfFn *ast.FunctionExpr
}

// blockScope is one `{ }` lexical scope's set of bindings, pushed/popped as
// the resolver walks BlockExpr nodes. Bindings are kept in a name-keyed
// adaptive radix tree, the same "insert/search by string key" structure
// the built-in table uses (builtins/registry.go), generalized here from
// built-in names to local variable names; a later `let` of the same name
// within one block simply overwrites the earlier entry, matching the
// backward-shadowing search a slice-based scope would do.
type blockScope struct {
	tree art.Tree
}

func newBlockScope() *blockScope {
	return &blockScope{tree: art.New()}
}

func (s *blockScope) declare(b *binding) {
	s.tree.Insert(art.Key(b.name), b)
}

func (s *blockScope) find(name string) *binding {
	v, ok := s.tree.Search(art.Key(name))
	if !ok {
		return nil
	}
	return v.(*binding)
}

// funcScope tracks one function body's nested block scopes, its slot
// counter, and the captures it has recorded so far from enclosing scopes.
type funcScope struct {
	parent *funcScope
	blocks []*blockScope

	nextSlot int
	fn       *ast.FunctionExpr // nil for the top-level pseudo-function

	// isTopLevel marks the program-body pseudo-function: its declarations
	// get BindingTopLevel kind and share one slot space across the program
	// body and every section (§4.4/§6's "sections as thunks").
	isTopLevel bool

	captures   []ast.Capture
	captureIdx map[string]int // name -> index into captures, for dedup
}

func newFuncScope(parent *funcScope, fn *ast.FunctionExpr) *funcScope {
	return &funcScope{parent: parent, fn: fn, captureIdx: map[string]int{}}
}

func newTopLevelScope() *funcScope {
	return &funcScope{isTopLevel: true, captureIdx: map[string]int{}}
}

func (f *funcScope) pushBlock() {
	f.blocks = append(f.blocks, newBlockScope())
}

func (f *funcScope) popBlock() {
	f.blocks = f.blocks[:len(f.blocks)-1]
}

func (f *funcScope) declare(name string, mutable bool) *binding {
	slot := f.nextSlot
	f.nextSlot++
	kind := ast.BindingLocal
	if f.isTopLevel {
		kind = ast.BindingTopLevel
	}
	b := &binding{name: name, kind: kind, slot: slot, mutable: mutable}
	f.blocks[len(f.blocks)-1].declare(b)
	return b
}

// findLocal searches this function's own block stack only (no capture).
func (f *funcScope) findLocal(name string) *binding {
	for i := len(f.blocks) - 1; i >= 0; i-- {
		if b := f.blocks[i].find(name); b != nil {
			return b
		}
	}
	return nil
}

// addCapture records (or reuses) a capture of src from an enclosing
// function, returning the capture's slot index within this function's
// closure record.
func (f *funcScope) addCapture(name string, src *binding) int {
	if idx, ok := f.captureIdx[name]; ok {
		return idx
	}
	idx := len(f.captures)
	f.captures = append(f.captures, ast.Capture{
		Name:       name,
		SourceKind: src.kind,
		SourceSlot: src.slot,
	})
	f.captureIdx[name] = idx
	return idx
}
