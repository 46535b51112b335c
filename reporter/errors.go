// Package reporter defines the typed, position-carrying errors shared by
// every phase of the compiler (lexer, parser, resolver, emitter, runtime)
// and the Handler that aggregates them during a single compile, mirroring
// how the teacher's reporter.ErrorWithPos/reporter.Handler are threaded
// through its own parser/linker/options packages.
package reporter

import (
	"errors"
	"fmt"

	"github.com/santalang/santa/ast"
)

// Kind classifies which phase raised a diagnostic (§4.9).
type Kind string

const (
	LexError          Kind = "LexError"
	SyntaxError       Kind = "SyntaxError"
	ResolveError      Kind = "ResolveError"
	RuntimeError      Kind = "RuntimeError"
	PatternMatchError Kind = "PatternMatchError" // a RuntimeError sub-case
)

// ErrInvalidSource is returned by a compile step when one or more errors
// were reported but the handler swallowed them (never returned non-nil).
var ErrInvalidSource = errors.New("compile failed: invalid source")

// Error is a single diagnostic: a kind, a message, and (for everything but
// some internal bugs) a source span.
type Error struct {
	Kind    Kind
	Message string
	Span    ast.Span
	HasSpan bool

	// cause, if set, lets Unwrap participate in errors.Is/As chains.
	cause error
}

// New creates an Error with a source span.
func New(kind Kind, span ast.Span, message string) *Error {
	return &Error{Kind: kind, Message: message, Span: span, HasSpan: true}
}

// Newf is New with fmt.Sprintf-style formatting.
func Newf(kind Kind, span ast.Span, format string, args ...any) *Error {
	return New(kind, span, fmt.Sprintf(format, args...))
}

// Wrap creates an Error from an existing error, preserving it for Unwrap.
func Wrap(kind Kind, span ast.Span, cause error) *Error {
	return &Error{Kind: kind, Message: cause.Error(), Span: span, HasSpan: true, cause: cause}
}

func (e *Error) Error() string {
	if !e.HasSpan {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Span.Start)
}

func (e *Error) Unwrap() error { return e.cause }

// GetSpan returns the diagnostic's source span and whether one is set.
func (e *Error) GetSpan() (ast.Span, bool) { return e.Span, e.HasSpan }

// IsPatternMatchFailure reports whether e is the `Pattern match failed`
// runtime error (§4.6, §7).
func (e *Error) IsPatternMatchFailure() bool { return e.Kind == PatternMatchError }

// Handler aggregates diagnostics raised during one compile or one run. The
// zero Handler stops at the first error, matching §7's "halt the pipeline"
// default; set Tolerant to keep collecting errors instead (useful for
// tooling that wants every diagnostic in one pass).
type Handler struct {
	Tolerant bool

	errors   []*Error
	warnings []*Error
}

// NewHandler returns a Handler using the default (stop-at-first-error)
// policy.
func NewHandler() *Handler {
	return &Handler{}
}

// HandleError records err and reports whether the caller should stop.
// Under the default policy it always returns true after the first error.
func (h *Handler) HandleError(err *Error) (stop bool) {
	h.errors = append(h.errors, err)
	return !h.Tolerant
}

// HandleWarning records a non-fatal diagnostic.
func (h *Handler) HandleWarning(err *Error) {
	h.warnings = append(h.warnings, err)
}

// Errors returns every error recorded so far, in order.
func (h *Handler) Errors() []*Error { return h.errors }

// Warnings returns every warning recorded so far, in order.
func (h *Handler) Warnings() []*Error { return h.warnings }

// HasErrors reports whether any error was recorded.
func (h *Handler) HasErrors() bool { return len(h.errors) > 0 }

// Error returns the first recorded error, or nil if none.
func (h *Handler) Error() error {
	if len(h.errors) == 0 {
		return nil
	}
	return h.errors[0]
}
