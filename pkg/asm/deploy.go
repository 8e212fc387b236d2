package asm

import (
	"math/big"

	"github.com/vylang/vylang/pkg/ir"
)

// Assemble runs both phases of spec.md §4.G over root. An `ir.OpDeploy`
// root is given its own constructor-wrapping treatment (AssembleDeploy);
// anything else is assembled as a single flat program, which is what a
// `-f asm/opcodes` request over a bare function body wants.
func Assemble(root *ir.Node) (*Program, error) {
	if root.Op == ir.OpDeploy {
		return AssembleDeploy(root)
	}
	b := newBuilder()
	if err := b.compile(root); err != nil {
		return nil, err
	}
	return resolve(b.ops)
}

// AssembleDeploy implements spec.md §4.G's deployment wrapper: assemble
// the runtime body as its own independent program first (its bytecode's
// length is fixed and position-independent), then assemble the
// constructor body followed by a CODECOPY/RETURN sequence that returns
// the runtime bytes — plus immutableSize zero bytes reserved for the
// immutables section — out of the code currently executing.
//
// Grounded on pkg/compiler/program.go's `Bytes()` two-pass structure,
// generalized here to a composite of two independently-resolved
// programs joined by a copy-and-return epilogue, since unlike NeoVM's
// flat contract bytecode, an EVM deployment transaction's payload is
// itself a small program (the constructor) that returns a second,
// separately addressed program (the runtime code).
func AssembleDeploy(n *ir.Node) (*Program, error) {
	initcode, runtime := n.Args[0], n.Args[1]
	immSize, _ := n.Annotation.(int)

	runtimeProgram, err := Assemble(runtime)
	if err != nil {
		return nil, err
	}
	runtimeSize := len(runtimeProgram.Bytecode) + immSize

	b := newBuilder()
	if err := b.compile(initcode); err != nil {
		return nil, err
	}
	pos := initcode.SourcePos

	b.emitPushLit(big.NewInt(int64(runtimeSize)), pos)
	b.emit("DUP1", pos)
	b.emitPushLabel("~runtime_start", pos)
	b.emitPushLit(big.NewInt(0), pos)
	b.emit("CODECOPY", pos)
	b.emitPushLit(big.NewInt(0), pos)
	b.emit("RETURN", pos)
	b.emitMark("~runtime_start")

	ctor, err := resolve(b.ops)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(ctor.Bytecode)+len(runtimeProgram.Bytecode)+immSize)
	out = append(out, ctor.Bytecode...)
	out = append(out, runtimeProgram.Bytecode...)
	if immSize > 0 {
		out = append(out, make([]byte, immSize)...)
	}

	base := len(ctor.Bytecode)
	pcPosMap := ctor.PCPosMap
	for pc, span := range runtimeProgram.PCPosMap {
		pcPosMap[base+pc] = span
	}
	errMap := ctor.ErrorMap
	for pc, reason := range runtimeProgram.ErrorMap {
		errMap[base+pc] = reason
	}
	breakpoints := ctor.PCBreakpoints
	for _, pc := range runtimeProgram.PCBreakpoints {
		breakpoints = append(breakpoints, base+pc)
	}

	return &Program{
		Bytecode:      out,
		PCPosMap:      pcPosMap,
		PCBreakpoints: breakpoints,
		ErrorMap:      errMap,
		RuntimeOffset: base,
	}, nil
}
