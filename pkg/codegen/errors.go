// Package codegen implements component E of the compiler pipeline
// (spec.md §4.E): lowering an annotated module into the pkg/ir tree.
// Grounded on pkg/compiler/codegen.go's overall shape (one generator
// object threading scope/label state through a big per-node-kind
// switch) adapted from emitting NeoVM opcodes directly to building an
// in-memory s-expression tree that pkg/optimizer and pkg/asm later
// rewrite and lower, per spec.md §4.D/§4.E/§4.G's staged pipeline.
package codegen

import (
	"fmt"

	"github.com/vylang/vylang/pkg/ast"
	"github.com/vylang/vylang/pkg/types"
)

// KindCodegenPanic is the exception kind this package raises (spec.md
// §7): an internal invariant violation during lowering, never produced
// by a module that passed semantic analysis.
const KindCodegenPanic types.ExceptionKind = "CodegenPanic"

func genErr(pos ast.Pos, format string, args ...any) error {
	return &types.Error{Kind: KindCodegenPanic, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}
