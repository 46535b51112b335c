package value

import "fmt"

// Function is santa-lang's first-class function value (§4.7). Call is
// supplied by the emitter: a compiled closure over the frame the function
// was created in. Function deliberately has no knowledge of ast.FunctionExpr
// or the emitter's Frame type, keeping this package free of a dependency on
// either.
type Function struct {
	// Name is used in error messages and by `type`/string conversion; empty
	// for anonymous lambdas.
	Name string
	// Arity is the declared parameter count; built-ins that accept a
	// variable number of arguments set it to -1.
	Arity int
	Call  func(args []Value) (Value, error)
}

func (Function) Type() Type   { return TypeFunction }
func (Function) Truthy() bool { return true }

// Function identity is reference-like rather than structural: it carries a
// Go closure, so it is never hashable and only equal to itself isn't even
// well-defined without identity, so Equal conservatively always returns
// false (matching `puts` semantics: functions never compare equal).
func (Function) Hash() (uint64, bool)     { return 0, false }
func (Function) Equal(other Value) bool   { return false }

func (f Function) String() string {
	if f.Name != "" {
		return fmt.Sprintf("<function %s>", f.Name)
	}
	return "<function>"
}

// CheckArity validates a call's argument count against f.Arity, returning
// *ErrArity if it doesn't match. Arity -1 (variadic built-ins) is never
// rejected here; those built-ins validate their own argument counts.
func (f Function) CheckArity(got int) error {
	if f.Arity >= 0 && got != f.Arity {
		return &ErrArity{Name: f.Name, Want: f.Arity, Got: got}
	}
	return nil
}

// ErrArity is raised when a function is called with the wrong number of
// arguments.
type ErrArity struct {
	Name string
	Want int
	Got  int
}

func (e *ErrArity) Error() string {
	name := e.Name
	if name == "" {
		name = "<anonymous>"
	}
	return fmt.Sprintf("%s: expected %d argument(s), got %d", name, e.Want, e.Got)
}
