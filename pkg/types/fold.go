package types

import (
	"crypto/sha256"
	"math/big"

	"github.com/holiman/uint256"

	"github.com/vylang/vylang/pkg/ast"
)

// Value is a folded compile-time constant. Exactly one of the fields is
// meaningful, selected by Kind.
type Value struct {
	Kind  Kind
	Int   *big.Int // KindInt, KindDecimal (raw*1e10), KindBool(0/1)
	Bytes []byte   // KindBytesM, KindBytes, KindString (raw bytes)
}

// FoldBuiltin implements the builtin folding rules of spec.md §4.A: if
// every argument is a literal in bounds, evaluate at compile time and
// return the folded value; ok is false when the call is not (or not
// fully) constant. Nothing in the compiler pipeline calls FoldBuiltin;
// pkg/codegen lowers builtin calls on its own.
func FoldBuiltin(name string, args []*Value, pos ast.Pos) (*Value, bool, error) {
	for _, a := range args {
		if a == nil {
			return nil, false, nil
		}
	}
	switch name {
	case "floor":
		return &Value{Kind: KindInt, Int: floorDiv(args[0].Int, big1e10)}, true, nil
	case "ceil":
		q, r := new(big.Int).QuoRem(args[0].Int, big1e10, new(big.Int))
		if r.Sign() != 0 && args[0].Int.Sign() > 0 {
			q.Add(q, big1)
		}
		return &Value{Kind: KindInt, Int: q}, true, nil
	case "len":
		return &Value{Kind: KindInt, Int: big.NewInt(int64(len(args[0].Bytes)))}, true, nil
	case "bitwise_and":
		return u256Result(new(uint256.Int).And(u256(args[0].Int), u256(args[1].Int))), true, nil
	case "bitwise_or":
		return u256Result(new(uint256.Int).Or(u256(args[0].Int), u256(args[1].Int))), true, nil
	case "bitwise_xor":
		return u256Result(new(uint256.Int).Xor(u256(args[0].Int), u256(args[1].Int))), true, nil
	case "bitwise_not":
		return u256Result(new(uint256.Int).Not(u256(args[0].Int))), true, nil
	case "shift":
		return foldShift(args[0].Int, args[1].Int), true, nil
	case "pow_mod256":
		return u256Result(powMod256(u256(args[0].Int), u256(args[1].Int))), true, nil
	case "uint256_addmod":
		a, b, m := u256(args[0].Int), u256(args[1].Int), u256(args[2].Int)
		if m.IsZero() {
			return nil, false, newErr(KindZeroDivisionException, pos, "addmod by zero modulus")
		}
		return u256Result(new(uint256.Int).AddMod(a, b, m)), true, nil
	case "uint256_mulmod":
		a, b, m := u256(args[0].Int), u256(args[1].Int), u256(args[2].Int)
		if m.IsZero() {
			return nil, false, newErr(KindZeroDivisionException, pos, "mulmod by zero modulus")
		}
		return u256Result(new(uint256.Int).MulMod(a, b, m)), true, nil
	case "as_wei_value":
		return foldAsWeiValue(args[0].Int, args[1].Bytes, pos)
	case "keccak256":
		return &Value{Kind: KindBytesM, Bytes: Keccak256(args[0].Bytes)}, true, nil
	case "sha256":
		sum := sha256.Sum256(args[0].Bytes)
		return &Value{Kind: KindBytesM, Bytes: sum[:]}, true, nil
	case "method_id":
		id := MethodID(string(args[0].Bytes))
		return &Value{Kind: KindBytesM, Bytes: id[:]}, true, nil
	case "abs":
		v := new(big.Int).Abs(args[0].Int)
		return &Value{Kind: KindInt, Int: v}, true, nil
	case "min":
		if args[0].Int.Cmp(args[1].Int) <= 0 {
			return args[0], true, nil
		}
		return args[1], true, nil
	case "max":
		if args[0].Int.Cmp(args[1].Int) >= 0 {
			return args[0], true, nil
		}
		return args[1], true, nil
	default:
		return nil, false, nil
	}
}

func floorDiv(a, b *big.Int) *big.Int {
	q, r := new(big.Int).QuoRem(a, b, new(big.Int))
	if r.Sign() != 0 && (r.Sign() < 0) != (b.Sign() < 0) {
		q.Sub(q, big1)
	}
	return q
}

func foldShift(v, shift *big.Int) *Value {
	x := u256(v)
	n := shift.Int64()
	var out *uint256.Int
	if n >= 0 {
		out = new(uint256.Int).Lsh(x, uint(n))
	} else {
		out = new(uint256.Int).Rsh(x, uint(-n))
	}
	return u256Result(out)
}

// powMod256 computes base**exp mod 2**256 using repeated squaring, the
// VM's EXP opcode semantics (spec.md §4.A "pow_mod256").
func powMod256(base, exp *uint256.Int) *uint256.Int {
	result := uint256.NewInt(1)
	b := new(uint256.Int).Set(base)
	e := new(uint256.Int).Set(exp)
	one := uint256.NewInt(1)
	for !e.IsZero() {
		if new(uint256.Int).And(e, one).Eq(one) {
			result.Mul(result, b)
		}
		b.Mul(b, b)
		e.Rsh(e, 1)
	}
	return result
}

// wei units recognized by as_wei_value (spec.md §8 S2 example: finney,
// babbage, shannon, plus the standard ether/gwei/wei family).
var weiUnits = map[string]*big.Int{
	"wei":      big.NewInt(1),
	"babbage":  big.NewInt(1_000),
	"shannon":  big.NewInt(1_000_000_000),
	"gwei":     big.NewInt(1_000_000_000),
	"szabo":    big.NewInt(1_000_000_000_000),
	"finney":   big.NewInt(1_000_000_000_000_000),
	"ether":    new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil),
}

func foldAsWeiValue(amount *big.Int, unitBytes []byte, pos ast.Pos) (*Value, bool, error) {
	unit, ok := weiUnits[string(unitBytes)]
	if !ok {
		return nil, false, newErr(KindArgumentException, pos, "unknown wei unit %q", unitBytes)
	}
	return &Value{Kind: KindInt, Int: new(big.Int).Mul(amount, unit)}, true, nil
}

func u256(v *big.Int) *uint256.Int {
	out, _ := uint256.FromBig(new(big.Int).And(v, maxUint256()))
	return out
}

func maxUint256() *big.Int {
	m := new(big.Int).Lsh(big1, 256)
	return m.Sub(m, big1)
}

func u256Result(x *uint256.Int) *Value {
	return &Value{Kind: KindInt, Int: x.ToBig()}
}
