package types

// Compare is `compare_type` (spec.md §4.A): structural equivalence that
// never raises. ArrayValue types get the literal/fixed asymmetric
// widening rule from spec.md §3 invariant (iv): comparing two literal
// types tightens both min_lengths to their shared max; comparing a
// literal against a fixed type tightens the literal to the fixed type's
// bound. Compare does not mutate either receiver — callers that want the
// tightened type call Tighten explicitly.
func (t *Type) Compare(other *Type) bool {
	if t == nil || other == nil {
		return false
	}
	if t.IsArrayValue() && other.IsArrayValue() && t.Kind == other.Kind {
		return compareArrayValue(t, other)
	}
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case KindInt:
		return t.Bits == other.Bits && t.IsSigned == other.IsSigned
	case KindBytesM:
		return t.M == other.M
	case KindStaticArray:
		return t.Length == other.Length && t.Elem.Compare(other.Elem)
	case KindDynArray:
		return t.Length == other.Length && t.Elem.Compare(other.Elem)
	case KindStruct, KindEnum, KindInterface:
		return t.Name == other.Name
	case KindMapping:
		return t.Key.Compare(other.Key) && t.Value.Compare(other.Value)
	case KindTuple:
		if len(t.Elems) != len(other.Elems) {
			return false
		}
		for i := range t.Elems {
			if !t.Elems[i].Compare(other.Elems[i]) {
				return false
			}
		}
		return true
	default:
		return true // bool, address, decimal: kind equality already checked
	}
}

// compareArrayValue implements the widening rule of spec.md §3 (iv):
//
//   - literal vs literal: compatible if bounds overlap; the tightened
//     bound for each side is min(their max_lengths).
//   - literal vs fixed: compatible iff the literal's min_length fits in
//     the fixed bound; the literal tightens to the fixed type exactly.
//   - fixed vs fixed: compatible iff bounds are equal.
func compareArrayValue(t, other *Type) bool {
	switch {
	case t.IsLiteralArrayValue && other.IsLiteralArrayValue:
		tight := min(t.MaxLength, other.MaxLength)
		return t.MinLength <= tight && other.MinLength <= tight
	case t.IsLiteralArrayValue && !other.IsLiteralArrayValue:
		return t.MinLength <= other.MaxLength
	case !t.IsLiteralArrayValue && other.IsLiteralArrayValue:
		return other.MinLength <= t.MaxLength
	default:
		return t.MaxLength == other.MaxLength
	}
}

// Tighten returns the type src should be annotated as once it has been
// successfully compared against dst (spec.md §3 invariant (iv)). For
// anything other than a literal ArrayValue compared against a fixed
// one, src is returned unchanged.
func Tighten(src, dst *Type) *Type {
	if src == nil || dst == nil {
		return src
	}
	if src.IsArrayValue() && src.IsLiteralArrayValue && dst.IsArrayValue() && !dst.IsLiteralArrayValue {
		return dst
	}
	if src.IsArrayValue() && src.IsLiteralArrayValue && dst.IsArrayValue() && dst.IsLiteralArrayValue {
		tight := min(src.MaxLength, dst.MaxLength)
		return LiteralArrayValue(src.Kind, tight, max(src.MinLength, dst.MinLength))
	}
	return src
}
