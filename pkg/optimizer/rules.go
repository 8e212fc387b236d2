package optimizer

import (
	"math/big"

	"github.com/vylang/vylang/pkg/ast"
	"github.com/vylang/vylang/pkg/ir"
)

var maxU256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

func isLitEq(n *ir.Node, v int64) bool {
	return n.IsLiteral() && n.Value.Cmp(big.NewInt(v)) == 0
}

func isLitMax(n *ir.Node) bool { return n.IsLiteral() && n.Value.Cmp(maxU256) == 0 }

// pow2 reports whether n is a positive power-of-two literal and, if so,
// its exponent (spec.md §4.F "Strength reduction").
func pow2(n *ir.Node) (uint, bool) {
	if !n.IsLiteral() || n.Value.Sign() <= 0 {
		return 0, false
	}
	v := n.Value
	vm1 := new(big.Int).Sub(v, big.NewInt(1))
	if new(big.Int).And(v, vm1).Sign() != 0 {
		return 0, false
	}
	return uint(v.BitLen() - 1), true
}

// equalNode is a structural (not pointer) equality check, used by the
// `x-x`/`x^x` self-cancellation rules to tell two independently built
// subtrees apart from two reads of literally the same expression.
func equalNode(a, b *ir.Node) bool {
	if a == b {
		return true
	}
	if a.Op != b.Op || a.Name != b.Name || a.IsLiteral() != b.IsLiteral() {
		return false
	}
	if a.IsLiteral() && a.Value.Cmp(b.Value) != 0 {
		return false
	}
	if len(a.Args) != len(b.Args) {
		return false
	}
	for i := range a.Args {
		if !equalNode(a.Args[i], b.Args[i]) {
			return false
		}
	}
	return true
}

var effectfulOpcodes = map[string]bool{
	"SSTORE": true, "CALL": true, "CALLCODE": true, "DELEGATECALL": true, "STATICCALL": true,
	"CREATE": true, "CREATE2": true,
	"LOG0": true, "LOG1": true, "LOG2": true, "LOG3": true, "LOG4": true,
	"SELFDESTRUCT": true, "RETURN": true, "REVERT": true, "INVALID": true,
	"CALLDATACOPY": true, "CODECOPY": true, "EXTCODECOPY": true, "RETURNDATACOPY": true,
	"MSTORE": true, "MSTORE8": true,
}

// sideEffectFree reports whether evaluating n can be dropped or
// duplicated without observable consequence — the guard spec.md §4.F
// puts on `x-x`/`x^x` collapsing to 0 ("only when x is free of
// side-effects") and on dropping an annihilated operand.
func sideEffectFree(n *ir.Node) bool {
	switch n.Op {
	case ir.OpLit, ir.OpPass, ir.OpEmpty:
		return true
	case ir.OpGoto, ir.OpExitTo, ir.OpRepeat, ir.OpDeploy, ir.OpLabel:
		return false
	}
	if n.Op != ir.OpLit && n.Name != "" && isOpcodeName(n) {
		if effectfulOpcodes[n.Name] {
			return false
		}
	}
	for _, a := range n.Args {
		if !sideEffectFree(a) {
			return false
		}
	}
	return true
}

func isOpcodeName(n *ir.Node) bool {
	switch n.Op {
	case ir.OpSeq, ir.OpWith, ir.OpIf, ir.OpMulti, ir.OpVarList:
		return false
	}
	return true
}

// dropKeepingEffects substitutes result for an annihilated/discarded
// operand, preserving discarded's observable side effects (if any) by
// evaluating and popping it first rather than deleting it outright.
func dropKeepingEffects(pos ast.Pos, discarded, result *ir.Node) (*ir.Node, error) {
	if sideEffectFree(discarded) {
		return result, nil
	}
	popped, err := ir.Opcode("POP", pos, discarded)
	if err != nil {
		return nil, err
	}
	return ir.Seq(pos, popped, result), nil
}

func litZero(pos ast.Pos) *ir.Node { return ir.IntFromInt64(0).WithSourcePos(pos) }
func litOne(pos ast.Pos) *ir.Node  { return ir.IntFromInt64(1).WithSourcePos(pos) }
func litMaxU(pos ast.Pos) *ir.Node { return ir.Int(new(big.Int).Set(maxU256)).WithSourcePos(pos) }

// rewriteAlgebra implements the identity, annihilation and strength
// reduction rule groups of spec.md §4.F for one opcode node, assuming
// its children are already optimized. Returns the rewritten node and
// true if a rule fired.
func rewriteAlgebra(n *ir.Node) (*ir.Node, bool, error) {
	if len(n.Args) != 2 {
		return n, false, nil
	}
	pos := n.SourcePos
	x, y := n.Args[0], n.Args[1]

	switch n.Name {
	case "ADD":
		if isLitEq(y, 0) {
			return x, true, nil
		}
		if isLitEq(x, 0) {
			return y, true, nil
		}
	case "SUB":
		if isLitEq(y, 0) {
			return x, true, nil
		}
		if equalNode(x, y) && sideEffectFree(x) {
			return litZero(pos), true, nil
		}
	case "MUL":
		if isLitEq(y, 0) {
			r, err := dropKeepingEffects(pos, x, litZero(pos))
			return r, true, err
		}
		if isLitEq(x, 0) {
			r, err := dropKeepingEffects(pos, y, litZero(pos))
			return r, true, err
		}
		if isLitEq(y, 1) {
			return x, true, nil
		}
		if isLitEq(x, 1) {
			return y, true, nil
		}
		if isLitMax(y) {
			r, err := ir.Opcode("SUB", pos, litZero(pos), x)
			return r, true, err
		}
		if isLitMax(x) {
			r, err := ir.Opcode("SUB", pos, litZero(pos), y)
			return r, true, err
		}
		if k, ok := pow2(y); ok {
			r, err := ir.Opcode("SHL", pos, ir.IntFromInt64(int64(k)).WithSourcePos(pos), x)
			return r, true, err
		}
		if k, ok := pow2(x); ok {
			r, err := ir.Opcode("SHL", pos, ir.IntFromInt64(int64(k)).WithSourcePos(pos), y)
			return r, true, err
		}
	case "DIV":
		if isLitEq(y, 0) {
			r, err := dropKeepingEffects(pos, x, litZero(pos))
			return r, true, err
		}
		if isLitEq(y, 1) {
			return x, true, nil
		}
		if k, ok := pow2(y); ok {
			r, err := ir.Opcode("SHR", pos, ir.IntFromInt64(int64(k)).WithSourcePos(pos), x)
			return r, true, err
		}
	case "SDIV":
		if isLitEq(y, 1) {
			return x, true, nil
		}
	case "MOD":
		if isLitEq(y, 0) || isLitEq(y, 1) {
			r, err := dropKeepingEffects(pos, x, litZero(pos))
			return r, true, err
		}
		if k, ok := pow2(y); ok {
			mask := new(big.Int).Sub(y.Value, big.NewInt(1))
			r, err := ir.Opcode("AND", pos, x, ir.Int(mask).WithSourcePos(pos))
			return r, true, err
		}
	case "AND":
		if isLitEq(y, 0) {
			r, err := dropKeepingEffects(pos, x, litZero(pos))
			return r, true, err
		}
		if isLitEq(x, 0) {
			r, err := dropKeepingEffects(pos, y, litZero(pos))
			return r, true, err
		}
		if isLitMax(y) {
			return x, true, nil
		}
		if isLitMax(x) {
			return y, true, nil
		}
	case "OR":
		if isLitEq(y, 0) {
			return x, true, nil
		}
		if isLitEq(x, 0) {
			return y, true, nil
		}
		if isLitMax(y) {
			r, err := dropKeepingEffects(pos, x, litMaxU(pos))
			return r, true, err
		}
		if isLitMax(x) {
			r, err := dropKeepingEffects(pos, y, litMaxU(pos))
			return r, true, err
		}
	case "XOR":
		if isLitEq(y, 0) {
			return x, true, nil
		}
		if isLitEq(x, 0) {
			return y, true, nil
		}
		if isLitMax(y) {
			r, err := ir.Opcode("NOT", pos, x)
			return r, true, err
		}
		if isLitMax(x) {
			r, err := ir.Opcode("NOT", pos, y)
			return r, true, err
		}
		if equalNode(x, y) && sideEffectFree(x) {
			return litZero(pos), true, nil
		}
	case "SHL", "SHR", "SAR":
		if isLitEq(x, 0) {
			return y, true, nil
		}
	case "GT":
		// Tight-bound tightening: gt x k -> iszero(lt x (k+1)), the
		// derived `ge` spec.md §4.F names, expressed with the opcodes
		// this VM actually has.
		if y.IsLiteral() {
			if y.Value.Cmp(maxU256) == 0 {
				r, err := dropKeepingEffects(pos, x, litZero(pos))
				return r, true, err
			}
			kPlus1 := new(big.Int).Add(y.Value, big.NewInt(1))
			lt, err := ir.Opcode("LT", pos, x, ir.Int(kPlus1).WithSourcePos(pos))
			if err != nil {
				return nil, false, err
			}
			r, err := ir.Opcode("ISZERO", pos, lt)
			return r, true, err
		}
	}
	return n, false, nil
}

// canonicalizeCompare implements spec.md §4.F's comparator
// canonicalization: literals move to the right, flipping the operator
// so a later pass only ever needs to inspect one side.
func canonicalizeCompare(n *ir.Node) (*ir.Node, bool, error) {
	if len(n.Args) != 2 {
		return n, false, nil
	}
	x, y := n.Args[0], n.Args[1]
	if !x.IsLiteral() || y.IsLiteral() {
		return n, false, nil
	}
	pos := n.SourcePos
	switch n.Name {
	case "ADD", "MUL", "AND", "OR", "XOR", "EQ":
		r, err := ir.Opcode(n.Name, pos, y, x)
		return r, true, err
	case "LT":
		r, err := ir.Opcode("GT", pos, y, x)
		return r, true, err
	case "GT":
		r, err := ir.Opcode("LT", pos, y, x)
		return r, true, err
	case "SLT":
		r, err := ir.Opcode("SGT", pos, y, x)
		return r, true, err
	case "SGT":
		r, err := ir.Opcode("SLT", pos, y, x)
		return r, true, err
	}
	return n, false, nil
}
