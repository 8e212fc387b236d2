package types

import "github.com/vylang/vylang/pkg/ast"

// ValidateNumericOp is `validate_numeric_op` (spec.md §4.A): raises
// InvalidOperation when t does not admit the given arithmetic operator.
// `uint256` forbids unary minus; `decimal` forbids `**`; non-numeric
// types forbid arithmetic entirely.
func (t *Type) ValidateNumericOp(op string, pos ast.Pos) error {
	if !t.IsNumeric() {
		return newErr(KindInvalidOperation, pos, "%s does not support arithmetic operator %q", t, op)
	}
	if op == "**" && t.IsDecimal() {
		return newErr(KindInvalidOperation, pos, "decimal does not support exponentiation")
	}
	if op == "unary-" && t.Kind == KindInt && !t.IsSigned && t.Bits == 256 {
		return newErr(KindInvalidOperation, pos, "uint256 does not support unary minus")
	}
	return nil
}

// ValidateBooleanOp is `validate_boolean_op` (spec.md §4.A): only bool
// admits `and`/`or`/`not`.
func (t *Type) ValidateBooleanOp(op string, pos ast.Pos) error {
	if t.Kind != KindBool {
		return newErr(KindInvalidOperation, pos, "%s does not support boolean operator %q", t, op)
	}
	return nil
}

// ValidateComparator is `validate_comparator` (spec.md §4.A): equality
// and inequality are allowed for every value type, but ordering (<, <=,
// >, >=) requires a numeric type.
func (t *Type) ValidateComparator(op string, pos ast.Pos) error {
	switch op {
	case "==", "!=":
		if !t.IsValueType() {
			return newErr(KindInvalidOperation, pos, "%s does not support equality comparison", t)
		}
		return nil
	case "<", "<=", ">", ">=":
		if !t.IsNumeric() {
			return newErr(KindInvalidOperation, pos, "%s does not support ordering comparator %q", t, op)
		}
		return nil
	default:
		return newErr(KindInvalidOperation, pos, "unknown comparator %q", op)
	}
}

// boundsPanic panics unless t is an Int or Decimal type. A bounds query
// on anything else is a compiler bug, not a user error, since callers
// are expected to have already checked IsNumeric.
func (t *Type) boundsPanic() {
	if !t.IsNumeric() {
		panic("types: Bounds called on non-numeric type " + t.String())
	}
}
