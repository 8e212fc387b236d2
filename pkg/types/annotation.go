package types

import (
	"strconv"

	"github.com/vylang/vylang/pkg/ast"
)

// builtinTypeNames resolves a bare type name to a builtin primitive constructor.
// The semantic analyzer's namespace (pkg/namespace) owns struct/enum/
// interface names; this table only covers names FromAnnotation can
// build without consulting the namespace.
var builtinTypeNames = map[string]func() *Type{
	"bool":    Bool,
	"address": Address,
	"decimal": Decimal,
}

func init() {
	for _, bits := range []int{8, 16, 24, 32, 40, 48, 56, 64, 72, 80, 88, 96, 104, 112, 120, 128, 136, 144, 152, 160, 168, 176, 184, 192, 200, 208, 216, 224, 232, 240, 248, 256} {
		b := bits
		builtinTypeNames["int"+strconv.Itoa(b)] = func() *Type { return Int(b, true) }
		builtinTypeNames["uint"+strconv.Itoa(b)] = func() *Type { return Int(b, false) }
	}
	for m := 1; m <= 32; m++ {
		mm := m
		builtinTypeNames["bytes"+strconv.Itoa(mm)] = func() *Type { return BytesM(mm) }
	}
}

// ResolveNames is consulted by FromAnnotation for struct/enum/interface
// names that this package doesn't own; pkg/namespace implements it.
type ResolveNames interface {
	LookupType(name string) (*Type, bool)
}

// FromAnnotation is `from_annotation` (spec.md §4.A): builds a Type from
// a type-expression node. names resolves identifiers this package
// doesn't itself define (struct/enum/interface/contract names).
func FromAnnotation(n ast.Expr, loc Location, isImmutable, isPublic bool, names ResolveNames) (*Type, error) {
	t, err := fromAnnotationInner(n, names)
	if err != nil {
		return nil, err
	}
	cp := *t
	cp.Location = loc
	cp.IsImmutable = isImmutable
	cp.IsPublic = isPublic
	return &cp, nil
}

func fromAnnotationInner(n ast.Expr, names ResolveNames) (*Type, error) {
	switch node := n.(type) {
	case *ast.Name:
		if ctor, ok := builtinTypeNames[node.Ident]; ok {
			return ctor(), nil
		}
		if names != nil {
			if t, ok := names.LookupType(node.Ident); ok {
				return t, nil
			}
		}
		return nil, newErr(KindUnknownType, node.NodePos(), "unknown type %q", node.Ident)

	case *ast.Call:
		// HashMap[K,V] and DynArray[T,N] appear as calls when the parser
		// represents a subscripted generic as `Name(args)`-shaped sugar;
		// Bytes[K] / String[K] are handled in the Subscript case.
		fn, ok := node.Func.(*ast.Name)
		if !ok {
			return nil, newErr(KindStructureException, node.NodePos(), "malformed type expression")
		}
		switch fn.Ident {
		case "HashMap":
			if len(node.Args) != 2 {
				return nil, newErr(KindStructureException, node.NodePos(), "HashMap requires exactly 2 type arguments")
			}
			k, err := fromAnnotationInner(node.Args[0], names)
			if err != nil {
				return nil, err
			}
			v, err := fromAnnotationInner(node.Args[1], names)
			if err != nil {
				return nil, err
			}
			return Mapping(k, v), nil
		case "DynArray":
			if len(node.Args) != 2 {
				return nil, newErr(KindStructureException, node.NodePos(), "DynArray requires a type and a bound")
			}
			elem, err := fromAnnotationInner(node.Args[0], names)
			if err != nil {
				return nil, err
			}
			n, err := intLitValue(node.Args[1])
			if err != nil {
				return nil, err
			}
			return DynArray(elem, n), nil
		default:
			return nil, newErr(KindStructureException, node.NodePos(), "unknown type constructor %q", fn.Ident)
		}

	case *ast.Subscript:
		// T[N] (static array) or Bytes[K]/String[K] (bounded dynamic).
		base, ok := node.X.(*ast.Name)
		if ok && (base.Ident == "Bytes" || base.Ident == "String") {
			if _, isSub := node.Index.(*ast.Subscript); isSub {
				return nil, newErr(KindStructureException, node.NodePos(), "%s cannot be subscripted more than once", base.Ident)
			}
			n, err := intLitValue(node.Index)
			if err != nil {
				return nil, err
			}
			if base.Ident == "Bytes" {
				return DynBytes(n), nil
			}
			return DynString(n), nil
		}
		elem, err := fromAnnotationInner(node.X, names)
		if err != nil {
			return nil, err
		}
		n, err := intLitValue(node.Index)
		if err != nil {
			return nil, err
		}
		return StaticArray(elem, n), nil

	case *ast.TupleExpr:
		elems := make([]*Type, len(node.Elts))
		for i, e := range node.Elts {
			t, err := fromAnnotationInner(e, names)
			if err != nil {
				return nil, err
			}
			elems[i] = t
		}
		return Tuple(elems...), nil

	default:
		return nil, newErr(KindStructureException, n.NodePos(), "not a type annotation")
	}
}

func intLitValue(n ast.Expr) (int, error) {
	lit, ok := n.(*ast.IntLiteral)
	if !ok {
		return 0, newErr(KindStructureException, n.NodePos(), "expected an integer literal length")
	}
	v, err := strconv.Atoi(lit.Raw)
	if err != nil {
		return 0, newErr(KindInvalidLiteral, n.NodePos(), "invalid length literal %q", lit.Raw)
	}
	return v, nil
}
