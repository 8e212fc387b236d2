package types

import "github.com/vylang/vylang/pkg/ast"

// GetMember is `get_member` (spec.md §4.A). Addresses and structs/
// interfaces expose a fixed or declared set of members; anything else
// raises UnknownAttribute.
func (t *Type) GetMember(name string, pos ast.Pos) (*Type, error) {
	switch t.Kind {
	case KindAddress:
		switch name {
		case "balance":
			return constantOf(Int(256, false)), nil
		case "codehash":
			return constantOf(BytesM(32)), nil
		case "codesize":
			return constantOf(Int(256, false)), nil
		case "is_contract":
			return constantOf(Bool()), nil
		case "code":
			return DynBytes(maxContractCodeSize), nil
		}
	case KindStruct:
		for _, f := range t.Fields {
			if f.Name == name {
				return f.Type, nil
			}
		}
	case KindInterface:
		for _, fn := range t.Functions {
			if fn.Name == name {
				sig := fn
				return Function(&sig), nil
			}
		}
	case KindEnum:
		for _, m := range t.Members {
			if m == name {
				return t, nil // `Kind.Member` has the enum type itself
			}
		}
	case KindModule:
		for _, f := range t.Fields {
			if f.Name == name {
				return f.Type, nil
			}
		}
		for i := range t.Functions {
			if t.Functions[i].Name == name {
				return Function(&t.Functions[i]), nil
			}
		}
	}
	return nil, newErr(KindUnknownAttribute, pos, "%s has no member %q", t, name)
}

func constantOf(t *Type) *Type {
	cp := *t
	cp.IsConstant = true
	return &cp
}

// maxContractCodeSize bounds `address.code`'s dynamic Bytes length.
const maxContractCodeSize = 24576
