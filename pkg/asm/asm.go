// Package asm implements the two-phase assembler of spec.md §4.G: a
// structural walk lowers optimized IR to a flat instruction list with
// symbolic jump targets (phase 1), then a label resolver fixes every
// target's byte offset and emits final bytecode plus a PC/source-position
// map (phase 2).
//
// Grounded on pkg/compiler/program.go's instruction-list-plus-two-pass-
// resolution shape (`program.emit`/`program.Bytes`): an opcode list built
// up against symbolic labels, then walked once to record each label's
// offset and a second time to patch jump operands now that offsets are
// known. The target machine differs (a PUSH-immediate-then-JUMP/JUMPI
// stack machine instead of NeoVM's inline-operand call/jump instructions)
// so the operand encoding is new, but the "label map + offset-patch list"
// idiom carries over directly.
package asm

import (
	"fmt"

	"github.com/vylang/vylang/pkg/ast"
	"github.com/vylang/vylang/pkg/types"
)

func asmErr(pos ast.Pos, format string, args ...any) error {
	return &types.Error{Kind: types.KindStructureException, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// Program is the final output of assembly: bytecode plus the debug
// metadata spec.md §6's "Source map" output format names.
type Program struct {
	Bytecode []byte

	// PCPosMap maps a byte offset to [line, col, end_line, end_col] of
	// the IR node that produced the instruction at that offset.
	PCPosMap map[int][4]int

	// PCBreakpoints lists the offset of the first instruction of every
	// statement-level node (spec.md §6 "pc_breakpoints").
	PCBreakpoints []int

	// ErrorMap maps the offset of a revert/invalid site to a short
	// human-readable reason, when one was recorded during lowering
	// (spec.md §6 "error_map").
	ErrorMap map[int]string

	// RuntimeOffset is the byte offset at which the runtime body begins
	// within Bytecode, for a program assembled by AssembleDeploy (spec.md
	// §6 "the runtime bytecode is a contiguous substring of the
	// deployment bytecode, beginning after the initcode loader"). Zero
	// for a program assembled directly by Assemble on a non-deploy node.
	RuntimeOffset int
}
