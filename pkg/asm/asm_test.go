package asm_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vylang/vylang/pkg/ast"
	"github.com/vylang/vylang/pkg/asm"
	"github.com/vylang/vylang/pkg/ir"
)

var pos = ast.Pos{File: "t.vy", Line: 1, Col: 1, EndLine: 1, EndCol: 2}

func lit(v int64) *ir.Node { return ir.IntFromInt64(v).WithSourcePos(pos) }

func mustOp(t *testing.T, name string, args ...*ir.Node) *ir.Node {
	t.Helper()
	n, err := ir.Opcode(name, pos, args...)
	require.NoError(t, err)
	return n
}

func TestAddOpcodeEmitsTwoPushesAndAdd(t *testing.T) {
	n := mustOp(t, "ADD", lit(1), lit(2))
	p, err := asm.Assemble(n)
	require.NoError(t, err)
	// PUSH1 2 PUSH1 1 ADD
	require.Equal(t, []byte{0x60, 0x02, 0x60, 0x01, 0x01}, p.Bytecode)
}

func TestIfWithElseResolvesBothJumpTargets(t *testing.T) {
	cond := mustOp(t, "ISZERO", lit(0))
	n, err := ir.If(pos, cond, lit(1), lit(2))
	require.NoError(t, err)
	p, err := asm.Assemble(n)
	require.NoError(t, err)
	require.NotEmpty(t, p.Bytecode)
	// Every byte offset the PC map names an entry for must point at the
	// start of a real instruction, never into the middle of a PUSH
	// immediate (spec.md §8 property 2).
	starts := map[int]bool{}
	for i := 0; i < len(p.Bytecode); i++ {
		starts[i] = true
		if op := p.Bytecode[i]; op >= 0x60 && op <= 0x7f {
			i += int(op - 0x5f)
		}
	}
	for pc := range p.PCPosMap {
		require.True(t, starts[pc], "pc %d is inside a PUSH immediate", pc)
	}
}

func TestIfWithoutElseSkipsThenOnFalseCond(t *testing.T) {
	cond := lit(0)
	n, err := ir.If(pos, cond, lit(9), nil)
	require.NoError(t, err)
	p, err := asm.Assemble(n)
	require.NoError(t, err)
	// PUSH1 0 ISZERO PUSH1 8 JUMPI PUSH1 9 JUMPDEST: a false condition
	// jumps to offset 8, past the then-branch's PUSH1 9.
	require.Equal(t, []byte{0x60, 0x00, 0x15, 0x60, 0x08, 0x57, 0x60, 0x09, 0x5b}, p.Bytecode)
	require.NotEmpty(t, p.Bytecode)
}

func TestRepeatLoopsCountTimes(t *testing.T) {
	body, err := ir.Opcode("POP", pos, mustOp(t, "MLOAD", lit(0)))
	require.NoError(t, err)
	n, err := ir.Repeat(pos, "i", lit(0), lit(3), lit(3), body)
	require.NoError(t, err)
	p, err := asm.Assemble(n)
	require.NoError(t, err)
	require.NotEmpty(t, p.Bytecode)
	require.Contains(t, p.Bytecode, byteJUMP())
	// Counter starts at 0; each pass checks 3 > counter (GT), runs the
	// body, adds 1 and jumps back to offset 2, leaving at offset 0x15
	// once the counter reaches 3.
	require.Equal(t, []byte{
		0x60, 0x00, 0x5b, 0x80, 0x60, 0x03, 0x11, 0x15, 0x60, 0x15, 0x57,
		0x60, 0x00, 0x51, 0x50, 0x60, 0x01, 0x01, 0x60, 0x02, 0x56, 0x5b, 0x50,
	}, p.Bytecode)
}

func byteJUMP() byte { return 0x56 }

func TestDeployWrapsRuntimeAfterConstructor(t *testing.T) {
	initcode := ir.Pass(pos)
	runtime := mustOp(t, "STOP")
	runtime = ir.Seq(pos, runtime)
	deployNode := ir.Deploy(pos, initcode, runtime, 0)

	p, err := asm.AssembleDeploy(deployNode)
	require.NoError(t, err)
	require.Greater(t, p.RuntimeOffset, 0)
	require.Less(t, p.RuntimeOffset, len(p.Bytecode))
	// The runtime body (a single STOP) is a contiguous substring of the
	// full deployment bytecode (spec.md §8 property 1).
	require.Equal(t, []byte{0x00}, p.Bytecode[p.RuntimeOffset:])
}

func TestAssembleRejectsUnresolvedAddressTag(t *testing.T) {
	n := ir.SourceTag(pos, ir.SourceCalldata)
	_, err := asm.Assemble(n)
	require.Error(t, err)
}

func TestPushWidthMinimalForLiteral(t *testing.T) {
	n := ir.Int(big.NewInt(0x1234)).WithSourcePos(pos)
	p, err := asm.Assemble(n)
	require.NoError(t, err)
	require.Equal(t, byte(0x60+1), p.Bytecode[0]) // PUSH2: 0x1234 needs 2 bytes
	require.Equal(t, []byte{0x12, 0x34}, p.Bytecode[1:3])
}
