package types

import (
	"fmt"
	"strings"
)

// Field is a named, typed member of a struct, event, or function
// signature.
type Field struct {
	Name string
	Type *Type
}

// FuncSig is a callable signature: spec.md §3 "Function signature".
// MethodID is filled in once by the semantic analyzer after argument
// types are known (keccak256 of the canonical signature, first 4
// bytes); it is zero until then.
type FuncSig struct {
	Name         string
	Args         []Field
	NumDefaults  int // trailing Args entries that have defaults
	Return       *Type
	Visibility   Visibility
	Mutability   Mutability
	Nonreentrant string // "" if not guarded
	MethodID     [4]byte
}

// Visibility is a function's external/internal split (spec.md §3).
type Visibility int

const (
	VisInternal Visibility = iota
	VisExternal
)

// Mutability is ordered pure < view < nonpayable < payable (spec.md §3,
// glossary) so that `a <= b` answers "can a caller with capability a
// invoke a callee that requires at most b".
type Mutability int

const (
	MutPure Mutability = iota
	MutView
	MutNonpayable
	MutPayable
)

func (m Mutability) String() string {
	switch m {
	case MutPure:
		return "pure"
	case MutView:
		return "view"
	case MutNonpayable:
		return "nonpayable"
	case MutPayable:
		return "payable"
	default:
		return "?"
	}
}

// Type is the uniform representation described in spec.md §3. Abstract
// type classes (Numeric, Integer, Decimal, Bytes, BytesM, ArrayValue) are
// never constructed directly — they are capability checks implemented as
// predicate methods below, following the teacher's isNumber/isByte/
// isString helper idiom (pkg/compiler/types.go) generalized from a
// go/types type-switch to a switch on Kind.
type Type struct {
	Kind Kind

	// Numeric (Int/Decimal).
	Bits     int  // integer width, 8..256 in steps of 8
	IsSigned bool

	// BytesM.
	M int

	// Bytes/String (both fixed Bytes[K]/String[K] and array-literal
	// forms). MaxLength is the declared/inferred bound; MinLength is
	// used only for literal (not-yet-widened) instances per spec.md §3
	// invariant (iv).
	MaxLength int
	MinLength int
	IsLiteralArrayValue bool

	// StaticArray/DynArray.
	Elem   *Type
	Length int // StaticArray fixed length, DynArray bound

	// Struct/Enum/Interface.
	Name      string
	Fields    []Field   // struct, event
	Members   []string  // enum
	Functions []FuncSig // interface

	// Mapping.
	Key   *Type
	Value *Type

	// Tuple.
	Elems []*Type

	// Function.
	Sig *FuncSig

	// Shared properties (spec.md §3 Type objects).
	Location    Location
	IsConstant  bool
	IsImmutable bool
	IsPublic    bool
}

// ---- Builtin primitive constructors ----

func Bool() *Type { return &Type{Kind: KindBool} }

func Int(bits int, signed bool) *Type {
	return &Type{Kind: KindInt, Bits: bits, IsSigned: signed}
}

func Decimal() *Type { return &Type{Kind: KindDecimal, Bits: 168, IsSigned: true} }

func Address() *Type { return &Type{Kind: KindAddress} }

func BytesM(m int) *Type { return &Type{Kind: KindBytesM, M: m} }

// DynBytes constructs a `Bytes[K]` type whose bound K is maxLen.
func DynBytes(maxLen int) *Type { return &Type{Kind: KindBytes, MaxLength: maxLen} }

func DynString(maxLen int) *Type { return &Type{Kind: KindString, MaxLength: maxLen} }

// LiteralArrayValue builds the literal (max,min) form of a Bytes/String
// value before it has been assigned or compared against a fixed type.
func LiteralArrayValue(kind Kind, maxLen, minLen int) *Type {
	return &Type{Kind: kind, MaxLength: maxLen, MinLength: minLen, IsLiteralArrayValue: true}
}

func StaticArray(elem *Type, n int) *Type {
	return &Type{Kind: KindStaticArray, Elem: elem, Length: n}
}

func DynArray(elem *Type, bound int) *Type {
	return &Type{Kind: KindDynArray, Elem: elem, Length: bound}
}

func Struct(name string, fields []Field) *Type {
	return &Type{Kind: KindStruct, Name: name, Fields: fields}
}

func Enum(name string, members []string) *Type {
	return &Type{Kind: KindEnum, Name: name, Members: members}
}

func Interface(name string, funcs []FuncSig) *Type {
	return &Type{Kind: KindInterface, Name: name, Functions: funcs}
}

func Mapping(key, value *Type) *Type {
	return &Type{Kind: KindMapping, Key: key, Value: value}
}

func Tuple(elems ...*Type) *Type {
	return &Type{Kind: KindTuple, Elems: elems}
}

func Function(sig *FuncSig) *Type {
	return &Type{Kind: KindFunction, Sig: sig}
}

// WithLocation returns a shallow copy of t with Location set, the way a
// variable declaration pins an otherwise location-less type to memory,
// storage, or calldata at the point of binding.
func (t *Type) WithLocation(loc Location) *Type {
	cp := *t
	cp.Location = loc
	return &cp
}

// ---- Abstract type-class predicates (spec.md §3) ----

// IsNumeric answers the `Numeric` abstract class: Integer ∪ Decimal.
func (t *Type) IsNumeric() bool {
	return t.Kind == KindInt || t.Kind == KindDecimal
}

// IsInteger answers the `Integer` abstract class.
func (t *Type) IsInteger() bool { return t.Kind == KindInt }

// IsSignedInteger and IsUnsignedInteger answer the `Signed`/`Unsigned`
// abstract classes, which only make sense under Integer.
func (t *Type) IsSignedInteger() bool   { return t.Kind == KindInt && t.IsSigned }
func (t *Type) IsUnsignedInteger() bool { return t.Kind == KindInt && !t.IsSigned }

// IsDecimal answers the `Decimal` abstract class.
func (t *Type) IsDecimal() bool { return t.Kind == KindDecimal }

// IsBytesM answers the `BytesM` abstract class (fixed-size bytes1..32).
func (t *Type) IsBytesM() bool { return t.Kind == KindBytesM }

// IsArrayValue answers the `ArrayValue` abstract class: variable-length
// bytes/string, whether literal-bound or fixed.
func (t *Type) IsArrayValue() bool { return t.Kind == KindBytes || t.Kind == KindString }

// IsValueType reports whether t admits equality/inequality comparison
// (spec.md §4.A validate_comparator: "equality/inequality is allowed for
// all value types"). Mappings and bare interfaces are not value types.
func (t *Type) IsValueType() bool {
	return t.Kind != KindMapping && t.Kind != KindInterface && t.Kind != KindModule
}

func (t *Type) String() string {
	switch t.Kind {
	case KindBool:
		return "bool"
	case KindInt:
		sign := "uint"
		if t.IsSigned {
			sign = "int"
		}
		return fmt.Sprintf("%s%d", sign, t.Bits)
	case KindDecimal:
		return "decimal"
	case KindAddress:
		return "address"
	case KindBytesM:
		return fmt.Sprintf("bytes%d", t.M)
	case KindBytes:
		if t.IsLiteralArrayValue {
			return fmt.Sprintf("<literal bytes, max=%d min=%d>", t.MaxLength, t.MinLength)
		}
		return fmt.Sprintf("Bytes[%d]", t.MaxLength)
	case KindString:
		if t.IsLiteralArrayValue {
			return fmt.Sprintf("<literal string, max=%d min=%d>", t.MaxLength, t.MinLength)
		}
		return fmt.Sprintf("String[%d]", t.MaxLength)
	case KindStaticArray:
		return fmt.Sprintf("%s[%d]", t.Elem, t.Length)
	case KindDynArray:
		return fmt.Sprintf("DynArray[%s, %d]", t.Elem, t.Length)
	case KindStruct:
		return t.Name
	case KindEnum:
		return t.Name
	case KindInterface:
		return t.Name
	case KindMapping:
		return fmt.Sprintf("HashMap[%s, %s]", t.Key, t.Value)
	case KindTuple:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			parts[i] = e.String()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case KindFunction:
		return fmt.Sprintf("function %s", t.Sig.Name)
	case KindModule:
		return "self"
	default:
		return "<invalid>"
	}
}
