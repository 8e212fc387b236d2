package codegen

import (
	"encoding/binary"
	"sort"

	"github.com/vylang/vylang/pkg/ast"
	"github.com/vylang/vylang/pkg/ir"
)

// BuildDispatcher lowers the external-function selector table every
// contract's runtime code starts with: load the 4-byte selector out of
// calldata, compare it against each external function's MethodID, and
// goto the matching function's entry label; falling through to a
// REVERT(0,0) when nothing matches (spec.md §4.G "the assembled runtime
// code begins with a method dispatcher" — lowered here as IR so
// pkg/asm's two-pass label resolution can place it alongside every
// other goto/label pair it already handles).
func (g *Generator) BuildDispatcher(compiled []*Compiled) (*ir.Node, error) {
	pos := ast.Pos{}
	calldataWord, err := ir.Opcode("CALLDATALOAD", pos, ir.IntFromInt64(0).WithSourcePos(pos))
	if err != nil {
		return nil, err
	}
	selector, err := ir.Opcode("SHR", pos, ir.IntFromInt64(224).WithSourcePos(pos), calldataWord)
	if err != nil {
		return nil, err
	}

	sorted := make([]*Compiled, len(compiled))
	copy(sorted, compiled)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	chain, err := ir.Opcode("REVERT", pos, ir.IntFromInt64(0).WithSourcePos(pos), ir.IntFromInt64(0).WithSourcePos(pos))
	if err != nil {
		return nil, err
	}
	for i := len(sorted) - 1; i >= 0; i-- {
		c := sorted[i]
		methodID := binary.BigEndian.Uint32(c.Sig.MethodID[:])
		eq, err := ir.Opcode("EQ", pos, selector, ir.IntFromInt64(int64(methodID)).WithSourcePos(pos))
		if err != nil {
			return nil, err
		}
		goTo := ir.Goto(pos, entryLabel(c.Name))
		chain, err = ir.If(pos, eq, goTo, chain)
		if err != nil {
			return nil, err
		}
	}
	return chain, nil
}

func entryLabel(name string) string { return "fn_" + name }
