package types

import "golang.org/x/crypto/sha3"

// Keccak256 hashes b with Keccak-256, the hash this language's ABI layer
// uses for EIP-55 address checksums, the `keccak256` builtin (spec.md
// §4.A constant folding), and function-selector derivation (spec.md §3
// "Function signature" method_id). golang.org/x/crypto/sha3 implements
// the pre-NIST-finalization Keccak padding the VM's KECCAK256 opcode
// uses, not the later SHA-3 standard's padding — sha3.NewLegacyKeccak256
// is the correct constructor for that.
func Keccak256(b []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(b)
	return h.Sum(nil)
}

// MethodID returns the first 4 bytes of Keccak256(canonicalSignature),
// spec.md §3's "method_id = first 4 bytes of keccak256 of canonical
// signature".
func MethodID(canonicalSignature string) [4]byte {
	digest := Keccak256([]byte(canonicalSignature))
	var id [4]byte
	copy(id[:], digest[:4])
	return id
}
