package optimizer

import (
	"math/big"

	"github.com/vylang/vylang/pkg/ast"
	"github.com/vylang/vylang/pkg/ir"
)

// collapseSeq implements spec.md §4.F's dead-code rules for `seq`: an
// empty nested seq contributes nothing and is dropped, and a seq left
// with exactly one child is replaced by that child.
func collapseSeq(pos ast.Pos, children []*ir.Node) *ir.Node {
	filtered := children[:0:0]
	for _, c := range children {
		if c.Op == ir.OpSeq && len(c.Args) == 0 {
			continue
		}
		filtered = append(filtered, c)
	}
	fused := fusePeephole(pos, filtered)
	if len(fused) == 1 {
		return fused[0]
	}
	return ir.Seq(pos, fused...)
}

// fusePeephole implements spec.md §4.F's peephole fusion rule: runs of
// adjacent zero-writing MSTOREs, or adjacent calldata-copying MSTOREs,
// at consecutive memory offsets collapse into one CALLDATACOPY — the
// EVM idiom of reading past calldatasize() to source zero bytes cheaply.
func fusePeephole(pos ast.Pos, children []*ir.Node) []*ir.Node {
	var out []*ir.Node
	for i := 0; i < len(children); {
		if run, consumed := zeroFillRun(children[i:]); consumed >= 2 {
			out = append(out, run)
			i += consumed
			continue
		}
		if run, consumed := calldataCopyRun(children[i:]); consumed >= 2 {
			out = append(out, run)
			i += consumed
			continue
		}
		out = append(out, children[i])
		i++
	}
	return out
}

// mstoreZeroOffset reports the literal offset of a `(mstore <lit> 0)`
// node, or ok=false if n isn't one.
func mstoreZeroOffset(n *ir.Node) (*big.Int, bool) {
	if n.Name != "MSTORE" || len(n.Args) != 2 {
		return nil, false
	}
	off, val := n.Args[0], n.Args[1]
	if !off.IsLiteral() || !val.IsLiteral() || val.Value.Sign() != 0 {
		return nil, false
	}
	return off.Value, true
}

func zeroFillRun(children []*ir.Node) (*ir.Node, int) {
	base, ok := mstoreZeroOffset(children[0])
	if !ok {
		return nil, 0
	}
	n := 1
	for n < len(children) {
		off, ok := mstoreZeroOffset(children[n])
		if !ok {
			break
		}
		want := new(big.Int).Add(base, big.NewInt(32*int64(n)))
		if off.Cmp(want) != 0 {
			break
		}
		n++
	}
	if n < 2 {
		return nil, 0
	}
	pos := children[0].SourcePos
	size := big.NewInt(32 * int64(n))
	calldatasize, err := ir.Opcode("CALLDATASIZE", pos)
	if err != nil {
		return nil, 0
	}
	fused, err := ir.Opcode("CALLDATACOPY", pos,
		ir.Int(base).WithSourcePos(pos), calldatasize, ir.Int(size).WithSourcePos(pos))
	if err != nil {
		return nil, 0
	}
	return fused, n
}

// mstoreCalldataPair reports the (dst, src) offsets of a
// `(mstore <dst-lit> (calldataload <src-lit>))` node, or ok=false.
func mstoreCalldataPair(n *ir.Node) (dst, src *big.Int, ok bool) {
	if n.Name != "MSTORE" || len(n.Args) != 2 {
		return nil, nil, false
	}
	dstN, loadN := n.Args[0], n.Args[1]
	if !dstN.IsLiteral() || loadN.Name != "CALLDATALOAD" || len(loadN.Args) != 1 || !loadN.Args[0].IsLiteral() {
		return nil, nil, false
	}
	return dstN.Value, loadN.Args[0].Value, true
}

func calldataCopyRun(children []*ir.Node) (*ir.Node, int) {
	baseDst, baseSrc, ok := mstoreCalldataPair(children[0])
	if !ok {
		return nil, 0
	}
	n := 1
	for n < len(children) {
		dst, src, ok := mstoreCalldataPair(children[n])
		if !ok {
			break
		}
		wantDst := new(big.Int).Add(baseDst, big.NewInt(32*int64(n)))
		wantSrc := new(big.Int).Add(baseSrc, big.NewInt(32*int64(n)))
		if dst.Cmp(wantDst) != 0 || src.Cmp(wantSrc) != 0 {
			break
		}
		n++
	}
	if n < 2 {
		return nil, 0
	}
	pos := children[0].SourcePos
	size := big.NewInt(32 * int64(n))
	fused, err := ir.Opcode("CALLDATACOPY", pos,
		ir.Int(baseDst).WithSourcePos(pos), ir.Int(baseSrc).WithSourcePos(pos), ir.Int(size).WithSourcePos(pos))
	if err != nil {
		return nil, 0
	}
	return fused, n
}
