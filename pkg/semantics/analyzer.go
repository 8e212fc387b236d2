package semantics

import (
	"fmt"
	"sort"

	"github.com/vylang/vylang/pkg/ast"
	"github.com/vylang/vylang/pkg/namespace"
	"github.com/vylang/vylang/pkg/types"
)

// FuncInfo is what Phase 1 records per function: its resolved signature,
// the set of internal functions it directly calls, and the storage
// variables it writes directly. The transitive call closure used by
// Phase 2's iteration-safety check (spec.md §4.C "the transitive check
// uses the call graph built in Phase 1") is kept in Analyzer.transitive.
type FuncInfo struct {
	Decl   *ast.FunctionDef
	Sig    *types.FuncSig
	Calls  map[string]bool // direct internal calls
	Writes map[string]bool // storage variable names written directly in this function's body
}

// Analyzer is the fixed-size state threaded through both phases: a
// namespace (module + nested scopes), the per-function call-graph
// records Phase 1 builds and Phase 2 consumes, and an annotation
// side-table the final pass populates.
type Analyzer struct {
	NS    *namespace.Namespace
	Funcs map[string]*FuncInfo
	Ann   *ast.Annotations

	transitive map[string]map[string]bool // filled after cycle detection
}

// New returns an analyzer with its builtin scope already entered and
// populated with the language's builtin function signatures.
func New() *Analyzer {
	ns := namespace.New()
	_ = ns.EnterBuiltinScope()
	installBuiltins(ns)
	return &Analyzer{
		NS:    ns,
		Funcs: map[string]*FuncInfo{},
		Ann:   ast.NewAnnotations(),
	}
}

// AnalyzeModule runs the full three-pass pipeline of spec.md §4.C over
// one module and returns the sorted, aggregated diagnostics. A single
// CompilerPanic-class error (an internal invariant violation, never
// constructed by a correct run) would short-circuit immediately, but
// ordinary user-facing exceptions are all collected before returning.
//
// The module scope it opens is deliberately left on the namespace stack
// on return rather than popped here: pkg/codegen is the pipeline's next
// stage and needs to resolve the very names this pass just declared.
// The caller owns that scope once AnalyzeModule returns and should call
// a.NS.ExitScope() only after codegen has finished consuming it.
func (a *Analyzer) AnalyzeModule(mod *ast.Module) []error {
	var diags []error

	if err := a.NS.EnterScope(); err != nil {
		return append(diags, err)
	}

	phase1 := a.runPhase1(mod)
	diags = append(diags, phase1...)
	if len(phase1) > 0 {
		// Phase 2/annotation still run on whatever declared cleanly, the
		// way a module with one bad global doesn't block analysis of
		// every function (spec.md §7: "accumulate an ExceptionList ...
		// retrying on a subsequent pass").
	}

	for _, stmt := range mod.Body {
		fn, ok := stmt.(*ast.FunctionDef)
		if !ok {
			continue
		}
		if err := a.analyzeFunction(fn); err != nil {
			diags = append(diags, err)
		}
	}

	for _, stmt := range mod.Body {
		a.annotateStmt(stmt)
	}

	sort.SliceStable(diags, func(i, j int) bool {
		return posLess(errPos(diags[i]), errPos(diags[j]))
	})
	return diags
}

func errPos(err error) ast.Pos {
	if verr, ok := err.(*types.Error); ok {
		return verr.Pos
	}
	return ast.Pos{}
}

func posLess(a, b ast.Pos) bool {
	if a.File != b.File {
		return a.File < b.File
	}
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.Col < b.Col
}

func structErr(pos ast.Pos, format string, args ...any) error {
	return &types.Error{Kind: types.KindStructureException, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func kindErr(kind types.ExceptionKind, pos ast.Pos, format string, args ...any) error {
	return &types.Error{Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}
