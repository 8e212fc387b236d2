package optimizer

import (
	"math/big"

	"github.com/holiman/uint256"

	"github.com/vylang/vylang/pkg/ir"
)

func toU256(b *big.Int) *uint256.Int {
	z := new(uint256.Int)
	z.SetFromBig(b)
	return z
}

func fromU256(z *uint256.Int) *big.Int { return z.ToBig() }

// setBool mirrors how the comparison/iszero opcodes are implemented
// against the VM's real stack (e.g. geth's core/vm instructions.go
// opLt/opEq: SetOne on the taken branch, Clear on the other) rather
// than relying on a SetBool convenience method.
func setBool(z *uint256.Int, cond bool) {
	if cond {
		z.SetOne()
	} else {
		z.Clear()
	}
}

// litNode builds a folded literal leaf, preserving src's source position
// and type annotation (codegen attaches Typ to literals it constructs;
// a folded result keeps whatever the original, un-folded node carried).
func litNode(v *big.Int, src *ir.Node) *ir.Node {
	n := ir.Int(v).WithSourcePos(src.SourcePos)
	if src.Typ != nil {
		n = n.WithType(src.Typ)
	}
	return n
}

// foldArith computes an arith/comparison/bitwise opcode over two literal
// operands with EVM semantics (spec.md §4.F "Constant folding"): div/mod
// return 0 on divide-by-zero, signed variants interpret inputs as
// two's-complement 256-bit words — both of which github.com/holiman/uint256
// implements natively, so no hand-rolled masking is needed here.
func foldArith(name string, n *ir.Node) (*ir.Node, bool) {
	switch name {
	case "ADD", "MUL", "SUB", "DIV", "SDIV", "MOD", "SMOD",
		"AND", "OR", "XOR", "SHL", "SHR", "SAR",
		"LT", "GT", "SLT", "SGT", "EQ", "BYTE", "SIGNEXTEND":
		if len(n.Args) != 2 || !n.Args[0].IsLiteral() || !n.Args[1].IsLiteral() {
			return nil, false
		}
		x, y := toU256(n.Args[0].Value), toU256(n.Args[1].Value)
		z := new(uint256.Int)
		switch name {
		case "ADD":
			z.Add(x, y)
		case "MUL":
			z.Mul(x, y)
		case "SUB":
			z.Sub(x, y)
		case "DIV":
			z.Div(x, y)
		case "SDIV":
			z.SDiv(x, y)
		case "MOD":
			z.Mod(x, y)
		case "SMOD":
			z.SMod(x, y)
		case "AND":
			z.And(x, y)
		case "OR":
			z.Or(x, y)
		case "XOR":
			z.Xor(x, y)
		case "SHL":
			z.Lsh(y, uint(shiftAmount(x)))
		case "SHR":
			z.Rsh(y, uint(shiftAmount(x)))
		case "SAR":
			z.SRsh(y, uint(shiftAmount(x)))
		case "LT":
			setBool(z, x.Lt(y))
		case "GT":
			setBool(z, x.Gt(y))
		case "SLT":
			setBool(z, x.Slt(y))
		case "SGT":
			setBool(z, x.Sgt(y))
		case "EQ":
			setBool(z, x.Eq(y))
		case "BYTE":
			*z = *byteAt(x, y)
		case "SIGNEXTEND":
			z.ExtendSign(y, x)
		}
		return litNode(fromU256(z), n), true
	case "ISZERO", "NOT":
		if len(n.Args) != 1 || !n.Args[0].IsLiteral() {
			return nil, false
		}
		x := toU256(n.Args[0].Value)
		z := new(uint256.Int)
		switch name {
		case "ISZERO":
			setBool(z, x.IsZero())
		case "NOT":
			z.Not(x)
		}
		return litNode(fromU256(z), n), true
	case "EXP":
		if len(n.Args) != 2 || !n.Args[0].IsLiteral() || !n.Args[1].IsLiteral() {
			return nil, false
		}
		base, exp := toU256(n.Args[0].Value), toU256(n.Args[1].Value)
		z := new(uint256.Int).Exp(base, exp)
		return litNode(fromU256(z), n), true
	case "ADDMOD", "MULMOD":
		if len(n.Args) != 3 || !n.Args[0].IsLiteral() || !n.Args[1].IsLiteral() || !n.Args[2].IsLiteral() {
			return nil, false
		}
		x, y, m := toU256(n.Args[0].Value), toU256(n.Args[1].Value), toU256(n.Args[2].Value)
		z := new(uint256.Int)
		if name == "ADDMOD" {
			z.AddMod(x, y, m)
		} else {
			z.MulMod(x, y, m)
		}
		return litNode(fromU256(z), n), true
	}
	return nil, false
}

// shiftAmount caps an oversized literal shift count at 256 the way
// uint256's Lsh/Rsh/SRsh expect a plain uint, since a shift node's first
// operand is itself a 256-bit word that may exceed what fits in a uint.
func shiftAmount(x *uint256.Int) uint64 {
	if !x.IsUint64() || x.Uint64() > 256 {
		return 256
	}
	return x.Uint64()
}

// byteAt implements the EVM BYTE opcode: the i-th byte (0 = most
// significant) of x, or 0 if i >= 32.
func byteAt(i, x *uint256.Int) *uint256.Int {
	z := new(uint256.Int)
	if !i.IsUint64() || i.Uint64() >= 32 {
		return z
	}
	idx := i.Uint64()
	bs := x.Bytes32()
	z.SetUint64(uint64(bs[idx]))
	return z
}
