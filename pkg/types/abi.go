package types

import "fmt"

// ABI is the wire-format projection of a Type (spec.md §3 "an ABI-type
// projection exposing is_dynamic, embedded_static_size, size_bound,
// selector_name, min_size").
type ABI struct {
	IsDynamic           bool
	EmbeddedStaticSize  int // bytes occupied in the head when static, or 32 (the offset word) when dynamic
	SizeBound           int // upper bound on total encoded size, used for scratch-buffer sizing
	SelectorName        string // the ABI type name as it appears in a canonical signature
	MinSize             int // minimum encoded size (lower bound)
}

// ABI computes the ABI-type projection of t (spec.md §3).
func (t *Type) ABI() ABI {
	switch t.Kind {
	case KindBool:
		return ABI{EmbeddedStaticSize: 32, SizeBound: 32, MinSize: 32, SelectorName: "bool"}
	case KindInt:
		name := fmt.Sprintf("int%d", t.Bits)
		if !t.IsSigned {
			name = fmt.Sprintf("uint%d", t.Bits)
		}
		return ABI{EmbeddedStaticSize: 32, SizeBound: 32, MinSize: 32, SelectorName: name}
	case KindDecimal:
		return ABI{EmbeddedStaticSize: 32, SizeBound: 32, MinSize: 32, SelectorName: "fixed168x10"}
	case KindAddress:
		return ABI{EmbeddedStaticSize: 32, SizeBound: 32, MinSize: 32, SelectorName: "address"}
	case KindBytesM:
		return ABI{EmbeddedStaticSize: 32, SizeBound: 32, MinSize: 32, SelectorName: fmt.Sprintf("bytes%d", t.M)}
	case KindBytes:
		return ABI{
			IsDynamic:          true,
			EmbeddedStaticSize: 32,
			SizeBound:          32 + roundUp32(t.MaxLength),
			MinSize:            32,
			SelectorName:       "bytes",
		}
	case KindString:
		return ABI{
			IsDynamic:          true,
			EmbeddedStaticSize: 32,
			SizeBound:          32 + roundUp32(t.MaxLength),
			MinSize:            32,
			SelectorName:       "string",
		}
	case KindStaticArray:
		elem := t.Elem.ABI()
		if elem.IsDynamic {
			return ABI{
				IsDynamic:          true,
				EmbeddedStaticSize: 32,
				SizeBound:          32 + t.Length*elem.SizeBound,
				MinSize:            32,
				SelectorName:       fmt.Sprintf("%s[%d]", elem.SelectorName, t.Length),
			}
		}
		return ABI{
			EmbeddedStaticSize: t.Length * elem.EmbeddedStaticSize,
			SizeBound:          t.Length * elem.SizeBound,
			MinSize:            t.Length * elem.MinSize,
			SelectorName:       fmt.Sprintf("%s[%d]", elem.SelectorName, t.Length),
		}
	case KindDynArray:
		elem := t.Elem.ABI()
		return ABI{
			IsDynamic:          true,
			EmbeddedStaticSize: 32,
			SizeBound:          32 + t.Length*elem.SizeBound,
			MinSize:            32,
			SelectorName:       fmt.Sprintf("%s[]", elem.SelectorName),
		}
	case KindStruct:
		var isDynamic bool
		var headSize, bound, minSize int
		var names []string
		for _, f := range t.Fields {
			a := f.Type.ABI()
			isDynamic = isDynamic || a.IsDynamic
			headSize += a.EmbeddedStaticSize
			bound += a.SizeBound
			minSize += a.MinSize
			names = append(names, a.SelectorName)
		}
		return ABI{
			IsDynamic:          isDynamic,
			EmbeddedStaticSize: headSizeOrOffset(isDynamic, headSize),
			SizeBound:          bound,
			MinSize:            minSize,
			SelectorName:       tupleSelector(names),
		}
	case KindEnum:
		return ABI{EmbeddedStaticSize: 32, SizeBound: 32, MinSize: 32, SelectorName: "uint256"}
	case KindTuple:
		var names []string
		var isDynamic bool
		var bound, minSize int
		for _, e := range t.Elems {
			a := e.ABI()
			isDynamic = isDynamic || a.IsDynamic
			bound += a.SizeBound
			minSize += a.MinSize
			names = append(names, a.SelectorName)
		}
		return ABI{IsDynamic: isDynamic, SizeBound: bound, MinSize: minSize, SelectorName: tupleSelector(names)}
	default:
		return ABI{EmbeddedStaticSize: 32, SizeBound: 32, MinSize: 32, SelectorName: "bytes32"}
	}
}

func headSizeOrOffset(isDynamic bool, headSize int) int {
	if isDynamic {
		return 32
	}
	return headSize
}

func tupleSelector(names []string) string {
	out := "("
	for i, n := range names {
		if i > 0 {
			out += ","
		}
		out += n
	}
	return out + ")"
}

func roundUp32(n int) int {
	return ((n + 31) / 32) * 32
}
