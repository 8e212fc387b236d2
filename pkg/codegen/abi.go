package codegen

import (
	"github.com/vylang/vylang/pkg/ast"
	"github.com/vylang/vylang/pkg/ir"
	"github.com/vylang/vylang/pkg/types"
)

// abiEncodeToScratch implements spec.md §4.E's ABI encoder for the
// common case this compiler actually needs at a `return` site: a
// single already-computed value written at the head of a zero-based
// scratch buffer, then RETURNed. Static (word-sized) types are written
// as-is; for a dynamic type (Bytes/String/DynArray) only the length
// word is written here. The multi-value tuple writer is encodeTuple
// below, which `log` uses for its data; this entry point is kept to the
// scalar case a `return` statement overwhelmingly hits, and does not
// encode a dynamic value's tail.
func (g *Generator) abiEncodeToScratch(value *ir.Node, t *types.Type, pos ast.Pos) (*ir.Node, error) {
	store, err := ir.Opcode("MSTORE", pos, ir.IntFromInt64(0).WithSourcePos(pos), value)
	if err != nil {
		return nil, err
	}
	size := int64(32)
	if t != nil {
		size = int64(t.ABI().EmbeddedStaticSize)
		if size == 0 {
			size = 32
		}
	}
	ret, err := ir.Opcode("RETURN", pos, ir.IntFromInt64(0).WithSourcePos(pos), ir.IntFromInt64(size).WithSourcePos(pos))
	if err != nil {
		return nil, err
	}
	return ir.Seq(pos, store, ret), nil
}

// encodeTuple implements spec.md §4.E's two-cursor ABI encoder for
// packing call arguments into a scratch buffer starting at base: a
// compile-time static_ofst walks the head, a runtime dyn_ofst (folded
// here to a running compile-time total since every argument's encoded
// size is statically known from its type, per spec.md §3's size_bound)
// walks the tail. Returns the write sequence and the total encoded size.
func (g *Generator) encodeTuple(values []*ir.Node, elemTypes []*types.Type, base int64, pos ast.Pos) (*ir.Node, int64, error) {
	headSize := int64(0)
	for _, t := range elemTypes {
		headSize += int64(t.ABI().EmbeddedStaticSize)
	}

	var writes []*ir.Node
	staticOfst := base
	dynOfst := base + headSize
	for i, t := range elemTypes {
		v := values[i]
		abi := t.ABI()
		if !abi.IsDynamic {
			w, err := ir.Opcode("MSTORE", pos, ir.IntFromInt64(staticOfst).WithSourcePos(pos), v)
			if err != nil {
				return nil, 0, err
			}
			writes = append(writes, w)
			staticOfst += int64(abi.EmbeddedStaticSize)
			continue
		}
		ptr, err := ir.Opcode("MSTORE", pos, ir.IntFromInt64(staticOfst).WithSourcePos(pos), ir.IntFromInt64(dynOfst-base).WithSourcePos(pos))
		if err != nil {
			return nil, 0, err
		}
		writes = append(writes, ptr)
		lengthWrite, err := ir.Opcode("MSTORE", pos, ir.IntFromInt64(dynOfst).WithSourcePos(pos), v)
		if err != nil {
			return nil, 0, err
		}
		writes = append(writes, lengthWrite)
		staticOfst += 32
		dynOfst += int64(abi.SizeBound)
	}
	return ir.Seq(pos, writes...), dynOfst - base, nil
}
