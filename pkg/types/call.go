package types

import "github.com/vylang/vylang/pkg/ast"

// FetchCallReturn is `fetch_call_return` (spec.md §4.A): typechecks a
// call's arguments against a callable type and returns its result type.
// Callable types are: functions (Kind=Function), interfaces used as a
// constructor cast (`IFace(addr)`), struct constructors, and primitive
// casts (any non-function Type called with exactly one argument, e.g.
// `uint256(x)`).
func (t *Type) FetchCallReturn(args []*Type, pos ast.Pos) (*Type, error) {
	switch t.Kind {
	case KindFunction:
		return t.fetchFunctionReturn(args, pos)
	case KindInterface:
		if len(args) != 1 || !args[0].Compare(Address()) {
			return nil, newErr(KindArgumentException, pos, "%s(addr) requires exactly one address argument", t.Name)
		}
		return t.WithLocation(LocUnset), nil
	case KindStruct:
		if len(args) != len(t.Fields) {
			return nil, newErr(KindArgumentException, pos, "struct %s expects %d fields, got %d", t.Name, len(t.Fields), len(args))
		}
		for i, f := range t.Fields {
			if !f.Type.Compare(args[i]) {
				return nil, newErr(KindTypeMismatch, pos, "struct %s field %q expects %s, got %s", t.Name, f.Name, f.Type, args[i])
			}
		}
		return t, nil
	default:
		// Primitive cast, e.g. uint256(x), address(x), bytes32(x).
		if len(args) != 1 {
			return nil, newErr(KindArgumentException, pos, "%s(...) cast takes exactly one argument", t)
		}
		if !castAllowed(t, args[0]) {
			return nil, newErr(KindTypeMismatch, pos, "cannot cast %s to %s", args[0], t)
		}
		return t, nil
	}
}

func (t *Type) fetchFunctionReturn(args []*Type, pos ast.Pos) (*Type, error) {
	sig := t.Sig
	minArgs := len(sig.Args) - sig.NumDefaults
	if len(args) < minArgs || len(args) > len(sig.Args) {
		return nil, newErr(KindArgumentException, pos, "%s expects between %d and %d arguments, got %d", sig.Name, minArgs, len(sig.Args), len(args))
	}
	for i, a := range args {
		if !sig.Args[i].Type.Compare(a) {
			return nil, newErr(KindTypeMismatch, pos, "%s argument %q expects %s, got %s", sig.Name, sig.Args[i].Name, sig.Args[i].Type, a)
		}
	}
	return sig.Return, nil
}

// castAllowed is a conservative version of the primitive-cast admission
// rules: casts are allowed between any two numeric/bytesM/address/bool
// kinds, without checking their widths, matching the breadth of
// casts the language's builtin conversion functions support.
func castAllowed(dst, src *Type) bool {
	if dst.Kind == src.Kind {
		return true
	}
	numericLike := func(t *Type) bool {
		return t.IsNumeric() || t.Kind == KindBytesM || t.Kind == KindAddress || t.Kind == KindBool
	}
	return numericLike(dst) && numericLike(src)
}
