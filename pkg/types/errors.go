package types

import (
	"fmt"

	"github.com/vylang/vylang/pkg/ast"
)

// ExceptionKind classifies a compiler error the way spec.md §7 groups
// them. The driver (pkg/compiler) sorts and formats a batch of these by
// source position regardless of which phase raised them. Named apart
// from Kind (the Type-shape tag in kind.go) since the two vocabularies
// are unrelated and both live in this package.
type ExceptionKind string

// Declaration and typing error kinds raised by this package. Semantic
// and compile-time-runtime kinds (CallViolation, ConstancyViolation, ...)
// are raised by pkg/semantics and pkg/optimizer respectively and are not
// redeclared here to avoid a false sense that this package owns them.
const (
	KindStructureException    ExceptionKind = "StructureException"
	KindUnexpectedNodeType    ExceptionKind = "UnexpectedNodeType"
	KindUnknownType           ExceptionKind = "UnknownType"
	KindUnknownAttribute      ExceptionKind = "UnknownAttribute"
	KindInvalidLiteral        ExceptionKind = "InvalidLiteral"
	KindInvalidType           ExceptionKind = "InvalidType"
	KindInvalidOperation      ExceptionKind = "InvalidOperation"
	KindInvalidReference      ExceptionKind = "InvalidReference"
	KindTypeMismatch          ExceptionKind = "TypeMismatch"
	KindOverflowException     ExceptionKind = "OverflowException"
	KindArrayIndexException  ExceptionKind = "ArrayIndexException"
	KindZeroDivisionException ExceptionKind = "ZeroDivisionException"
	KindArgumentException     ExceptionKind = "ArgumentException"
)

// Error is the common shape of every error this package raises: a kind,
// a message, and the source span it applies to (spec.md §7).
type Error struct {
	Kind ExceptionKind
	Msg  string
	Pos  ast.Pos
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Pos, e.Kind, e.Msg)
}

func newErr(kind ExceptionKind, pos ast.Pos, format string, args ...any) *Error {
	return &Error{Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}
