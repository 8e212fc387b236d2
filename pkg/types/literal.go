package types

import (
	"math/big"
	"regexp"
	"strings"

	"github.com/vylang/vylang/pkg/ast"
)

// candidateIntTypes lists the integer types tried, narrowest first, by
// FromLiteral for an untyped integer literal.
var candidateIntTypes = func() []*Type {
	var out []*Type
	for _, bits := range []int{8, 16, 32, 64, 128, 256} {
		out = append(out, Int(bits, true), Int(bits, false))
	}
	return out
}()

var hexAddrRe = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
var hexBytes32Re = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)

// FromLiteral is `from_literal` (spec.md §4.A): returns the narrowest
// concrete type that can hold the literal, or InvalidLiteral.
func FromLiteral(n ast.Expr) (*Type, error) {
	switch lit := n.(type) {
	case *ast.BoolLiteral:
		return Bool(), nil
	case *ast.IntLiteral:
		return intLiteralType(lit)
	case *ast.DecimalLiteral:
		return decimalLiteralType(lit)
	case *ast.StringLiteral:
		n := len(lit.Value)
		return LiteralArrayValue(KindString, n, n), nil
	case *ast.BytesLiteral:
		raw := strings.TrimPrefix(lit.Raw, "0x")
		if len(raw)%2 != 0 {
			return nil, newErr(KindInvalidLiteral, lit.NodePos(), "odd number of hex digits in bytes literal")
		}
		n := len(raw) / 2
		return LiteralArrayValue(KindBytes, n, n), nil
	case *ast.HexLiteral:
		return hexLiteralType(lit)
	default:
		return nil, newErr(KindInvalidLiteral, n.NodePos(), "not a literal")
	}
}

func intLiteralType(lit *ast.IntLiteral) (*Type, error) {
	v, ok := new(big.Int).SetString(lit.Raw, 0)
	if !ok {
		return nil, newErr(KindInvalidLiteral, lit.NodePos(), "invalid integer literal %q", lit.Raw)
	}
	for _, cand := range candidateIntTypes {
		if v.Sign() < 0 && !cand.IsSigned {
			continue
		}
		if cand.InBounds(v) {
			return Int(cand.Bits, cand.IsSigned), nil
		}
	}
	return nil, newErr(KindOverflowException, lit.NodePos(), "integer literal %s out of range of any integer type", lit.Raw)
}

func decimalLiteralType(lit *ast.DecimalLiteral) (*Type, error) {
	parts := strings.SplitN(lit.Raw, ".", 2)
	if len(parts) == 2 && len(parts[1]) > 10 {
		return nil, newErr(KindInvalidLiteral, lit.NodePos(), "decimal literal %q has more than 10 fractional digits", lit.Raw)
	}
	v, ok := new(big.Float).SetString(lit.Raw)
	if !ok {
		return nil, newErr(KindInvalidLiteral, lit.NodePos(), "invalid decimal literal %q", lit.Raw)
	}
	lo, hi := Int(128, true).MinMax()
	loF := new(big.Float).SetInt(lo)
	hiF := new(big.Float).SetInt(hi)
	if v.Cmp(loF) < 0 || v.Cmp(hiF) > 0 {
		return nil, newErr(KindOverflowException, lit.NodePos(), "decimal literal %q out of int128 bounds", lit.Raw)
	}
	return Decimal(), nil
}

func hexLiteralType(lit *ast.HexLiteral) (*Type, error) {
	switch {
	case hexAddrRe.MatchString(lit.Raw):
		if !isEIP55OrAllCase(lit.Raw) {
			return nil, newErr(KindInvalidLiteral, lit.NodePos(), "address literal %q fails EIP-55 checksum", lit.Raw)
		}
		return Address(), nil
	case hexBytes32Re.MatchString(lit.Raw):
		return BytesM(32), nil
	default:
		return nil, newErr(KindInvalidLiteral, lit.NodePos(), "hex literal %q is neither a 40-hex-digit address nor a 64-hex-digit bytes32", lit.Raw)
	}
}

// isEIP55OrAllCase accepts an address literal that is either all
// lowercase/all uppercase hex (no checksum asserted) or matches the
// EIP-55 mixed-case checksum of its lowercase form.
func isEIP55OrAllCase(addr string) bool {
	body := addr[2:]
	if body == strings.ToLower(body) || body == strings.ToUpper(body) {
		return true
	}
	return body == eip55Checksum(strings.ToLower(body))
}

// eip55Checksum upper-cases each hex digit of addr (lowercase, no 0x)
// whose corresponding nibble of keccak256(addr) is >= 8.
func eip55Checksum(addrLower string) string {
	digest := Keccak256([]byte(addrLower))
	var b strings.Builder
	for i, c := range addrLower {
		nibble := digest[i/2]
		if i%2 == 0 {
			nibble >>= 4
		}
		nibble &= 0xf
		if nibble >= 8 && c >= 'a' && c <= 'f' {
			b.WriteRune(c - ('a' - 'A'))
		} else {
			b.WriteRune(c)
		}
	}
	return b.String()
}

