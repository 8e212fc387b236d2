package compiler

import (
	"github.com/davecgh/go-spew/spew"

	"github.com/vylang/vylang/pkg/ast"
	"github.com/vylang/vylang/pkg/ir"
)

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisableMethods:          true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

// DumpAST renders mod as a deeply nested field dump (spec.md §6's
// `--dump-ast`), for inspecting exactly what a LoadModule implementation
// handed the driver when the friendlier IR/asm/ABI views aren't enough.
func DumpAST(mod *ast.Module) string {
	return dumpConfig.Sdump(mod)
}

// DumpIR renders an IR tree the same way, field by field rather than as
// the s-expression Sprint produces, for `--dump-ir` (spec.md §6).
func DumpIR(n *ir.Node) string {
	return dumpConfig.Sdump(n)
}

// IR exposes a unit's pre-optimization runtime IR tree for DumpIR, once
// generation has run; it returns nil before ensureGenerated has filled it.
func (d *Driver) IR(name string) *ir.Node {
	u, ok := d.cache.Get(name)
	if !ok {
		return nil
	}
	return u.runtimeIR
}
