package asm_test

import (
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/require"

	"github.com/vylang/vylang/pkg/asm"
)

// golden pins the exact PUSH1/ADD listing Disassemble
// produces for a fixed IR tree, the way a real assembly-listing
// regression test would catch an accidental opcode or operand-width
// change. A failure prints a unified diff rather than two raw blobs, so
// the offending line is obvious at a glance.
const golden = `0000 PUSH1 0x02
0002 PUSH1 0x01
0004 ADD`

func TestDisassembleMatchesGoldenListing(t *testing.T) {
	n := mustOp(t, "ADD", lit(1), lit(2))
	p, err := asm.Assemble(n)
	require.NoError(t, err)

	got := asm.Disassemble(p.Bytecode)
	if got == golden {
		return
	}

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(golden),
		B:        difflib.SplitLines(got),
		FromFile: "golden",
		ToFile:   "got",
		Context:  3,
	}
	text, derr := difflib.GetUnifiedDiffString(diff)
	require.NoError(t, derr)
	t.Fatalf("disassembly listing mismatch:\n%s", text)
}
