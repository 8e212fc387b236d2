// Package optimizer implements the recursive IR rewriter of spec.md
// §4.F: optimize children first, then attempt to rewrite the current
// node, re-running the rewrite on whatever comes back until nothing
// fires. Grounded on pkg/compiler/codegen.go's constant-folding helpers
// and generalized to the full rule set spec.md §4.F enumerates; uint256
// arithmetic (github.com/holiman/uint256) gives exact 256-bit wraparound
// and two's-complement semantics instead of hand-rolled big.Int masking.
package optimizer

import (
	"fmt"

	"github.com/vylang/vylang/pkg/ast"
	"github.com/vylang/vylang/pkg/types"
)

// KindStaticAssertionException is raised when the optimizer proves an
// assert condition false at compile time (spec.md §7 "Compile-time
// runtime: StaticAssertionException").
const KindStaticAssertionException types.ExceptionKind = "StaticAssertionException"

func optErr(pos ast.Pos, format string, args ...any) error {
	return &types.Error{Kind: KindStaticAssertionException, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}
