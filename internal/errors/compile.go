// Package errors provides the fatal error type raised by the Kestrel
// front end. Every grammar violation or failed declaration check becomes a
// *CompileError and aborts the parse that produced it.
package errors

import (
	"fmt"

	"github.com/orizon-lang/kestrel/internal/position"
)

// Kind classifies a compile error
type Kind string

const (
	KindSyntax        Kind = "SYNTAX"
	KindRedeclaration Kind = "REDECLARATION"
	KindUndefined     Kind = "UNDEFINED_REFERENCE"
	KindArity         Kind = "ARITY"
)

// Sentinels for errors.Is matching against a CompileError's kind.
var (
	ErrSyntax        = &CompileError{Kind: KindSyntax}
	ErrRedeclaration = &CompileError{Kind: KindRedeclaration}
	ErrUndefined     = &CompileError{Kind: KindUndefined}
	ErrArity         = &CompileError{Kind: KindArity}
)

// CompileError is a fatal, non-recoverable front-end error
type CompileError struct {
	Kind    Kind
	Message string
	Detail  string
	Pos     position.Position
}

// New creates a compile error at pos
func New(kind Kind, pos position.Position, message, detail string) *CompileError {
	return &CompileError{
		Kind:    kind,
		Message: message,
		Detail:  detail,
		Pos:     pos,
	}
}

// Error implements the error interface
func (e *CompileError) Error() string {
	msg := e.Message
	if e.Detail != "" {
		msg = fmt.Sprintf("%s: %s", e.Message, e.Detail)
	}
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: [%s] %s", e.Pos, e.Kind, msg)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, msg)
}

// Is reports whether target is a CompileError of the same kind. A target
// with an empty message matches on kind alone.
func (e *CompileError) Is(target error) bool {
	t, ok := target.(*CompileError)
	if !ok {
		return false
	}
	if t.Message == "" {
		return e.Kind == t.Kind
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

// Redeclared creates a redeclaration error for name
func Redeclared(pos position.Position, what, name string) *CompileError {
	return New(KindRedeclaration, pos, what+" already declared",
		fmt.Sprintf("%q was declared previously", name))
}

// Undefined creates an undefined-reference error for name
func Undefined(pos position.Position, what, name string) *CompileError {
	return New(KindUndefined, pos, what+" not defined",
		fmt.Sprintf("%q is not declared", name))
}

// Arity creates an argument count mismatch error
func Arity(pos position.Position, function string, expected, got int) *CompileError {
	return New(KindArity, pos, "invalid number of arguments",
		fmt.Sprintf("function %s expects %d arguments, got %d", function, expected, got))
}
