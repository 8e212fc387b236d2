package types

import "github.com/vylang/vylang/pkg/ast"

// GetIndexType is `get_index_type` (spec.md §4.A).
func (t *Type) GetIndexType(index ast.Expr, indexType *Type, pos ast.Pos) (*Type, error) {
	switch t.Kind {
	case KindStaticArray:
		if lit, ok := index.(*ast.IntLiteral); ok {
			n, err := intLitValue(lit)
			if err == nil && (n < 0 || n >= t.Length) {
				return nil, newErr(KindArrayIndexException, pos, "index %d out of bounds for array of length %d", n, t.Length)
			}
		}
		if !indexType.IsInteger() {
			return nil, newErr(KindTypeMismatch, pos, "array index must be an integer, got %s", indexType)
		}
		return t.Elem, nil

	case KindDynArray:
		if !indexType.IsInteger() {
			return nil, newErr(KindTypeMismatch, pos, "array index must be an integer, got %s", indexType)
		}
		return t.Elem, nil

	case KindMapping:
		if !t.Key.Compare(indexType) {
			return nil, newErr(KindTypeMismatch, pos, "mapping key type is %s, got %s", t.Key, indexType)
		}
		return t.Value, nil

	case KindTuple:
		lit, ok := index.(*ast.IntLiteral)
		if !ok {
			return nil, newErr(KindInvalidReference, pos, "tuple index must be an integer literal")
		}
		n, err := intLitValue(lit)
		if err != nil || n < 0 || n >= len(t.Elems) {
			return nil, newErr(KindArrayIndexException, pos, "tuple index %d out of range", n)
		}
		return t.Elems[n], nil

	default:
		return nil, newErr(KindInvalidOperation, pos, "%s is not indexable", t)
	}
}
