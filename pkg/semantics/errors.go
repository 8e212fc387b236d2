// Package semantics implements the two-phase semantic analyzer of
// spec.md §4.C: a module-level fixed-point pass over declarations
// followed by a per-function visitor, plus a final bidirectional
// annotation pass. Grounded on the teacher's analysis.go in spirit
// (module-wide traversal collecting errors across files/declarations
// before code generation runs) though not in its Go-specific mechanics,
// since that file walks go/ast and go/types rather than a
// hand-rolled frontend.
package semantics

import "github.com/vylang/vylang/pkg/types"

// Semantic exception kinds (spec.md §7 "Semantics"), owned here since
// this package is what raises them.
const (
	KindVariableDeclarationException types.ExceptionKind = "VariableDeclarationException"
	KindFunctionDeclarationException types.ExceptionKind = "FunctionDeclarationException"
	KindEventDeclarationException    types.ExceptionKind = "EventDeclarationException"
	KindCallViolation                types.ExceptionKind = "CallViolation"
	KindConstancyViolation           types.ExceptionKind = "ConstancyViolation"
	KindStateAccessViolation         types.ExceptionKind = "StateAccessViolation"
	KindImmutableViolation           types.ExceptionKind = "ImmutableViolation"
	KindNonPayableViolation          types.ExceptionKind = "NonPayableViolation"
	KindInterfaceViolation           types.ExceptionKind = "InterfaceViolation"
	KindIteratorException            types.ExceptionKind = "IteratorException"
)

// ExceptionList collects several errors into one value that implements
// error. The analyzer's phases return a plain []error and do not use it.
type ExceptionList struct {
	Errors []error
}

func (l *ExceptionList) Add(err error) {
	if err != nil {
		l.Errors = append(l.Errors, err)
	}
}

func (l *ExceptionList) Empty() bool { return len(l.Errors) == 0 }

func (l *ExceptionList) Error() string {
	if len(l.Errors) == 0 {
		return "no errors"
	}
	msg := l.Errors[0].Error()
	if len(l.Errors) > 1 {
		msg += " (and more)"
	}
	return msg
}
