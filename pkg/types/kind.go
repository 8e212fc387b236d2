package types

// Kind tags the concrete shape of a Type (spec.md §3 Type objects). It
// plays the role go/types' *Basic/*Struct/*Map type-switch plays in the
// teacher compiler (pkg/compiler/types.go toNeoType), except the switch
// is over our own closed vocabulary instead of Go's.
type Kind int

const (
	KindInvalid Kind = iota
	KindBool
	KindInt     // signed/unsigned integer of Bits width
	KindDecimal // fixed-point, 10 fractional digits, int128-range integer part
	KindAddress
	KindBytesM // fixed-size bytesN, 1<=M<=32
	KindBytes  // dynamic Bytes[K] or an as-yet-untyped bytes literal
	KindString // dynamic String[K] or an as-yet-untyped string literal
	KindStaticArray
	KindDynArray
	KindStruct
	KindEnum
	KindInterface
	KindMapping
	KindTuple
	KindFunction
	KindModule // the `self` contract type
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindDecimal:
		return "decimal"
	case KindAddress:
		return "address"
	case KindBytesM:
		return "bytesM"
	case KindBytes:
		return "Bytes"
	case KindString:
		return "String"
	case KindStaticArray:
		return "StaticArray"
	case KindDynArray:
		return "DynArray"
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	case KindInterface:
		return "interface"
	case KindMapping:
		return "HashMap"
	case KindTuple:
		return "tuple"
	case KindFunction:
		return "function"
	case KindModule:
		return "module"
	default:
		return "<invalid>"
	}
}
