package codegen

import (
	"strconv"

	"github.com/vylang/vylang/pkg/ast"
	"github.com/vylang/vylang/pkg/ir"
	"github.com/vylang/vylang/pkg/namespace"
	"github.com/vylang/vylang/pkg/types"
)

// Generator is the per-module lowering state threaded through every
// expression/statement visit (spec.md §4.E), grounded on the shape of
// the teacher's codegen struct (pkg/compiler/codegen.go): one long-lived
// object carrying the namespace, the current function's local-variable
// scope, and monotonic label/offset counters, rather than passing all of
// that through every call.
type Generator struct {
	NS      *namespace.Namespace
	Ann     *ast.Annotations
	Storage *storageLayout

	locals   map[string]int // current function's memory-slot allocation
	nextSlot int
	labelN   int

	fn       *ast.FunctionDef // function currently being lowered, for self-recursion guards
	funcDefs map[string]*ast.FunctionDef
}

// New returns a Generator over a module whose declarations have already
// been installed into ns by the semantic analyzer, with ann holding the
// Annotation pass's inferred expression types.
func New(ns *namespace.Namespace, ann *ast.Annotations) *Generator {
	return &Generator{NS: ns, Ann: ann, Storage: newStorageLayout(), funcDefs: map[string]*ast.FunctionDef{}}
}

// NewWithStorageLayout is New, but seeds the storage allocator from a prior
// compilation's pinned slots (spec.md §6's `--storage-layout-file`).
func NewWithStorageLayout(ns *namespace.Namespace, ann *ast.Annotations, pins map[string]uint64) *Generator {
	return &Generator{NS: ns, Ann: ann, Storage: newPinnedStorageLayout(pins), funcDefs: map[string]*ast.FunctionDef{}}
}

// StorageSlots snapshots the final slot assignment so a caller can persist
// it as the next compilation's pin file.
func (g *Generator) StorageSlots() map[string]uint64 {
	out := make(map[string]uint64, len(g.Storage.slots))
	for name, slot := range g.Storage.slots {
		out[name] = uint64(slot)
	}
	return out
}

// Compiled is one function's lowered body plus the metadata the
// assembler and ABI emitter need about it (spec.md §4.G/§6).
type Compiled struct {
	Name string
	Sig  *types.FuncSig
	Body *ir.Node
}

// CompileModule lowers every module-level variable declaration into a
// storage slot assignment and every function into IR, returning the
// runtime-code sequence (spec.md §4.E/§4.G's `deploy` macro wraps this
// with the constructor separately assembled by pkg/compiler).
func (g *Generator) CompileModule(mod *ast.Module) ([]*Compiled, error) {
	for _, stmt := range mod.Body {
		if vd, ok := stmt.(*ast.VarDecl); ok && !vd.IsConstant && !vd.IsImmutable {
			t, found := g.NS.Lookup(vd.Name)
			if found {
				g.Storage.allocate(vd.Name, t)
			}
		}
	}

	for _, stmt := range mod.Body {
		if fn, ok := stmt.(*ast.FunctionDef); ok {
			g.funcDefs[fn.Name] = fn
		}
	}

	var out []*Compiled
	for _, stmt := range mod.Body {
		fn, ok := stmt.(*ast.FunctionDef)
		if !ok {
			continue
		}
		sig, found := g.funcSig(fn.Name)
		if !found {
			continue
		}
		body, err := g.compileFunction(fn, sig)
		if err != nil {
			return nil, err
		}
		out = append(out, &Compiled{Name: fn.Name, Sig: sig, Body: body})
	}
	return out, nil
}

func (g *Generator) funcSig(name string) (*types.FuncSig, bool) {
	t, ok := g.NS.Lookup(name)
	if !ok || t.Kind != types.KindFunction {
		return nil, false
	}
	return t.Sig, true
}

// compileFunction lowers one function body: parameters are bound to
// fresh memory slots via nested `with` forms (spec.md §4.E "memory uses
// 32-byte word loads/stores"), then the body statements are lowered in
// sequence.
func (g *Generator) compileFunction(fn *ast.FunctionDef, sig *types.FuncSig) (*ir.Node, error) {
	prevLocals, prevNext, prevFn := g.locals, g.nextSlot, g.fn
	g.locals = map[string]int{}
	g.nextSlot = 0
	g.fn = fn
	defer func() { g.locals, g.nextSlot, g.fn = prevLocals, prevNext, prevFn }()

	for _, f := range sig.Args {
		g.allocLocal(f.Name)
	}

	body, err := g.lowerBody(fn.Body)
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (g *Generator) allocLocal(name string) int {
	slot := g.nextSlot
	g.locals[name] = slot
	g.nextSlot++
	return slot
}

func (g *Generator) newLabel(prefix string) string {
	g.labelN++
	return prefix + "_" + strconv.Itoa(g.labelN)
}
