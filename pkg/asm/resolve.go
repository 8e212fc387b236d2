package asm

import (
	"math/big"

	"github.com/vylang/vylang/pkg/ast"
)

// maxResolveIterations bounds the width-shrinking fixed point (spec.md
// §4.G phase 2): every iteration either shrinks at least one opPushLabel
// from 2 bytes to 1 or leaves every width unchanged, so offsets are
// monotonically non-increasing and the loop converges in at most
// len(ops) iterations; this is a generous multiple of that as a
// defensive backstop.
const maxResolveIterations = 1024

// resolve runs spec.md §4.G phase 2 over a builder's instruction list:
// iteratively compute label offsets and shrink oversized PUSH2-for-label
// operands to PUSH1 until stable, then emit final bytes and the debug
// maps.
func resolve(ops []instr) (*Program, error) {
	offsets := make([]int, len(ops))
	labels := make(map[string]int)

	for iter := 0; iter < maxResolveIterations; iter++ {
		pc := 0
		for i, ins := range ops {
			offsets[i] = pc
			if ins.kind == opJumpdest || ins.kind == opMark {
				labels[ins.label] = pc
			}
			pc += ins.size()
		}

		changed := false
		for i, ins := range ops {
			if ins.kind != opPushLabel {
				continue
			}
			target, ok := labels[ins.label]
			if !ok {
				return nil, asmErr(ins.pos, "undefined label %q", ins.label)
			}
			if ins.labelWidth == 2 && target <= 0xff {
				ops[i].labelWidth = 1
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	return emit(ops, offsets, labels)
}

func emit(ops []instr, offsets []int, labels map[string]int) (*Program, error) {
	totalSize := 0
	if len(ops) > 0 {
		totalSize = offsets[len(ops)-1] + ops[len(ops)-1].size()
	}
	out := make([]byte, 0, totalSize)
	pcPosMap := make(map[int][4]int)
	errMap := make(map[int]string)
	var breakpoints []int

	for _, ins := range ops {
		pc := len(out)
		switch ins.kind {
		case opMark:
			continue
		case opJumpdest:
			out = append(out, byteOf["JUMPDEST"])
		case opPushLit:
			out = append(out, encodePush(ins.imm, pushWidth(ins.imm))...)
		case opPushLabel:
			target, ok := labels[ins.label]
			if !ok {
				return nil, asmErr(ins.pos, "undefined label %q", ins.label)
			}
			out = append(out, encodePush(big.NewInt(int64(target)), ins.labelWidth)...)
		default:
			b, ok := byteOf[ins.op]
			if !ok {
				return nil, asmErr(ins.pos, "unknown opcode %q", ins.op)
			}
			out = append(out, b)
		}

		if ins.pos != (ast.Pos{}) {
			pcPosMap[pc] = [4]int{ins.pos.Line, ins.pos.Col, ins.pos.EndLine, ins.pos.EndCol}
		}
		if ins.breakpoint {
			breakpoints = append(breakpoints, pc)
		}
		if ins.errReason != "" {
			errMap[pc] = ins.errReason
		}
	}

	return &Program{
		Bytecode:      out,
		PCPosMap:      pcPosMap,
		PCBreakpoints: breakpoints,
		ErrorMap:      errMap,
	}, nil
}

// encodePush encodes a PUSHn opcode (n == width bytes of operand, big-
// endian, zero-padded) for v.
func encodePush(v *big.Int, width int) []byte {
	out := make([]byte, 1+width)
	out[0] = pushOpcode(width)
	vb := v.Bytes()
	if len(vb) > width {
		vb = vb[len(vb)-width:]
	}
	copy(out[1+width-len(vb):], vb)
	return out
}
