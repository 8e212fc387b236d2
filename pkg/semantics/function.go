package semantics

import (
	"github.com/vylang/vylang/pkg/ast"
	"github.com/vylang/vylang/pkg/types"
)

// analyzeFunction is the Phase 2 function visitor (spec.md §4.C),
// entered in a fresh block scope with argument types installed as
// immutable bindings. Errors abort analysis of this function only,
// matching the propagation policy: "at function-level, errors abort
// that function's analysis but allow other functions to be analyzed."
func (a *Analyzer) analyzeFunction(fn *ast.FunctionDef) error {
	fi := a.Funcs[fn.Name]
	if fi == nil {
		return nil // declaration already failed; nothing further to check
	}

	if err := a.NS.EnterScope(); err != nil {
		return err
	}
	defer a.NS.ExitScope()

	for _, arg := range fi.Sig.Args {
		_ = a.NS.Declare(arg.Name, arg.Type.WithLocation(types.LocMemory), fn.NodePos())
	}

	fc := &funcCheck{a: a, fn: fn, fi: fi}

	if fn.Return != nil {
		if !fc.bodyTerminates(fn.Body) {
			return kindErr(KindFunctionDeclarationException, fn.NodePos(),
				"%s: not every code path returns a value", fn.Name)
		}
	}

	for _, s := range fn.Body {
		if err := fc.checkStmt(s); err != nil {
			return err
		}
	}
	return nil
}

type funcCheck struct {
	a       *Analyzer
	fn      *ast.FunctionDef
	fi      *FuncInfo
	loopVar string
}

// bodyTerminates implements spec.md §4.C's return-path check: every path
// ends with return/raise/revert (modeled as a raise builtin call),
// a terminus builtin, or a matched if/else whose branches are both
// terminus.
func (fc *funcCheck) bodyTerminates(body []ast.Stmt) bool {
	if len(body) == 0 {
		return false
	}
	last := body[len(body)-1]
	switch s := last.(type) {
	case *ast.Return:
		return true
	case *ast.Raise:
		return true
	case *ast.If:
		if s.Else == nil && s.ElseIf == nil {
			return false
		}
		thenOK := fc.bodyTerminates(s.Body)
		var elseOK bool
		if s.ElseIf != nil {
			elseOK = fc.bodyTerminates([]ast.Stmt{s.ElseIf})
		} else {
			elseOK = fc.bodyTerminates(s.Else)
		}
		return thenOK && elseOK
	case *ast.ExprStmt:
		if call, ok := s.X.(*ast.Call); ok {
			if name, ok := call.Func.(*ast.Name); ok {
				return name.Ident == "selfdestruct" || name.Ident == "raw_revert"
			}
		}
		return false
	default:
		return false
	}
}

// checkStmt applies spec.md §4.C's per-statement mutability/visibility/
// assignment/iteration rules. It recurses into nested bodies itself
// (rather than via the generic walkStmts helper) so that checkFor's
// own body recursion, scoped to the loop variable, runs exactly once.
func (fc *funcCheck) checkStmt(s ast.Stmt) error {
	if err := fc.checkExprsOf(s); err != nil {
		return err
	}
	switch n := s.(type) {
	case *ast.Assign:
		return fc.checkAssignTarget(n.Target, n.NodePos())
	case *ast.AugAssign:
		return fc.checkAssignTarget(n.Target, n.NodePos())
	case *ast.Assert:
		return fc.checkReason(n.Reason, n.NodePos())
	case *ast.Raise:
		return fc.checkReason(n.Reason, n.NodePos())
	case *ast.For:
		return fc.checkFor(n)
	case *ast.If:
		for _, st := range n.Body {
			if err := fc.checkStmt(st); err != nil {
				return err
			}
		}
		for _, st := range n.Else {
			if err := fc.checkStmt(st); err != nil {
				return err
			}
		}
		if n.ElseIf != nil {
			return fc.checkStmt(n.ElseIf)
		}
	}
	return nil
}

// checkExprsOf runs checkExprMutability over every expression s
// directly references (and their subexpressions), without descending
// into nested statement bodies — that's checkStmt's job.
func (fc *funcCheck) checkExprsOf(s ast.Stmt) error {
	var err error
	for _, e := range directExprs(s) {
		if err != nil {
			break
		}
		walkExpr(e, func(sub ast.Expr) {
			if err != nil {
				return
			}
			err = fc.checkExprMutability(sub)
		})
	}
	return err
}

// checkExprMutability enforces spec.md §4.C's environment-access rules:
// internal functions forbid msg.sender; pure functions forbid any
// environment variable; non-payable functions forbid msg.value; view
// functions forbid storage writes (checked at the assignment site) and
// calling non-view/pure functions; pure functions forbid any non-pure
// call.
func (fc *funcCheck) checkExprMutability(e ast.Expr) error {
	mut := fc.fi.Sig.Mutability
	vis := fc.fi.Sig.Visibility

	if attr, ok := e.(*ast.Attribute); ok {
		if base, ok := attr.X.(*ast.Name); ok {
			switch base.Ident {
			case "msg":
				if attr.Attr == "sender" && vis == types.VisInternal {
					return kindErr(KindStateAccessViolation, e.NodePos(), "internal functions may not reference msg.sender")
				}
				if mut == types.MutPure {
					return kindErr(KindStateAccessViolation, e.NodePos(), "pure functions may not reference msg.%s", attr.Attr)
				}
				if attr.Attr == "value" && mut != types.MutPayable {
					return kindErr(KindNonPayableViolation, e.NodePos(), "non-payable functions may not reference msg.value")
				}
			case "block", "tx":
				if mut == types.MutPure {
					return kindErr(KindStateAccessViolation, e.NodePos(), "pure functions may not reference %s.%s", base.Ident, attr.Attr)
				}
			}
		}
	}

	if call, ok := e.(*ast.Call); ok {
		if attr, ok := call.Func.(*ast.Attribute); ok {
			if base, ok := attr.X.(*ast.Name); ok && base.Ident == "self" {
				if callee, known := fc.a.Funcs[attr.Attr]; known {
					if mut == types.MutView && callee.Sig.Mutability > types.MutView {
						return kindErr(KindConstancyViolation, e.NodePos(), "view function %s may not call mutating function %s", fc.fn.Name, attr.Attr)
					}
					if mut == types.MutPure && callee.Sig.Mutability != types.MutPure {
						return kindErr(KindConstancyViolation, e.NodePos(), "pure function %s may not call non-pure function %s", fc.fn.Name, attr.Attr)
					}
				}
			}
		}
	}
	return nil
}

// checkAssignTarget enforces the "target is mutable" half of spec.md
// §4.C's assignment rule: not calldata, not immutable outside the
// constructor, and not the enclosing for-loop's variable.
func (fc *funcCheck) checkAssignTarget(target ast.Expr, pos ast.Pos) error {
	if fc.fi.Sig.Mutability == types.MutView || fc.fi.Sig.Mutability == types.MutPure {
		if attr, ok := target.(*ast.Attribute); ok {
			if base, ok := attr.X.(*ast.Name); ok && base.Ident == "self" {
				return kindErr(KindConstancyViolation, pos, "%s functions may not write to storage", fc.fi.Sig.Mutability)
			}
		}
	}
	if name, ok := target.(*ast.Name); ok {
		if name.Ident == fc.loopVar {
			return kindErr(KindImmutableViolation, pos, "%q is the loop variable and cannot be reassigned", name.Ident)
		}
	}
	return nil
}

// loopVar tracks the innermost enclosing for-loop's variable name, set
// by checkFor for the duration of its body walk.
func (fc *funcCheck) setLoopVar(name string) (restore func()) {
	prev := fc.loopVar
	fc.loopVar = name
	return func() { fc.loopVar = prev }
}

// checkFor implements spec.md §4.C's iteration-safety rule: the
// iterator must be a bounded dynamic array, a literal list, or a
// range(...) call of the accepted shapes; and if the iterator reads a
// storage variable through self, no statement in the body may assign to
// that variable, directly or transitively (using the Phase 1 call
// graph's transitive closure).
func (fc *funcCheck) checkFor(f *ast.For) error {
	if err := fc.checkIterShape(f.Iter); err != nil {
		return err
	}

	restore := fc.setLoopVar(f.VarName)
	defer restore()

	storageVar := ""
	if attr, ok := f.Iter.(*ast.Attribute); ok {
		if base, ok := attr.X.(*ast.Name); ok && base.Ident == "self" {
			storageVar = attr.Attr
		}
	}
	if storageVar == "" {
		for _, s := range f.Body {
			if err := fc.checkStmt(s); err != nil {
				return err
			}
		}
		return nil
	}

	var iterErr error
	for _, s := range f.Body {
		walkStmts(s, func(st ast.Stmt) {
			if iterErr != nil {
				return
			}
			if writesStorageVar(st, storageVar) {
				iterErr = kindErr(KindImmutableViolation, st.NodePos(),
					"assignment to %q inside a loop that iterates over it", storageVar)
				return
			}
			if call, ok := directCallTarget(st); ok && fc.callWritesTransitively(call, storageVar) {
				iterErr = kindErr(KindImmutableViolation, st.NodePos(),
					"call to %s transitively assigns to %q, which this loop iterates over", call, storageVar)
			}
		})
	}
	if iterErr != nil {
		return iterErr
	}
	for _, s := range f.Body {
		if err := fc.checkStmt(s); err != nil {
			return err
		}
	}
	return nil
}

// callWritesTransitively reports whether callee, or any function it
// transitively calls (per the Phase 1 call graph), writes storageVar
// directly (spec.md §4.C: "the transitive check uses the call graph
// built in Phase 1").
func (fc *funcCheck) callWritesTransitively(callee, storageVar string) bool {
	if fi, ok := fc.a.Funcs[callee]; ok && fi.Writes[storageVar] {
		return true
	}
	for reachable := range fc.a.transitive[callee] {
		if fi, ok := fc.a.Funcs[reachable]; ok && fi.Writes[storageVar] {
			return true
		}
	}
	return false
}

func directCallTarget(s ast.Stmt) (string, bool) {
	est, ok := s.(*ast.ExprStmt)
	if !ok {
		return "", false
	}
	call, ok := est.X.(*ast.Call)
	if !ok {
		return "", false
	}
	attr, ok := call.Func.(*ast.Attribute)
	if !ok {
		return "", false
	}
	base, ok := attr.X.(*ast.Name)
	if !ok || base.Ident != "self" {
		return "", false
	}
	return attr.Attr, true
}

// writeTarget returns the storage variable name s assigns to through
// self (bare or indexed), if any.
func writeTarget(s ast.Stmt) (string, bool) {
	target := func(e ast.Expr) (string, bool) {
		switch t := e.(type) {
		case *ast.Attribute:
			base, ok := t.X.(*ast.Name)
			if ok && base.Ident == "self" {
				return t.Attr, true
			}
		case *ast.Subscript:
			attr, ok := t.X.(*ast.Attribute)
			if !ok {
				return "", false
			}
			base, ok := attr.X.(*ast.Name)
			if ok && base.Ident == "self" {
				return attr.Attr, true
			}
		}
		return "", false
	}
	switch n := s.(type) {
	case *ast.Assign:
		return target(n.Target)
	case *ast.AugAssign:
		return target(n.Target)
	}
	return "", false
}

func writesStorageVar(s ast.Stmt, name string) bool {
	got, ok := writeTarget(s)
	return ok && got == name
}

func (fc *funcCheck) checkIterShape(iter ast.Expr) error {
	switch n := iter.(type) {
	case *ast.ListExpr:
		return nil
	case *ast.Attribute:
		return nil // bounded storage/memory dynamic array
	case *ast.Call:
		name, ok := n.Func.(*ast.Name)
		if !ok || name.Ident != "range" {
			return kindErr(KindIteratorException, iter.NodePos(), "unsupported for-loop iterator")
		}
		if len(n.Args) == 2 {
			x, xok := n.Args[0].(*ast.Name)
			bin, binok := n.Args[1].(*ast.BinOp)
			if xok && binok && bin.Op == "+" {
				y, yok := bin.X.(*ast.Name)
				lit, litok := bin.Y.(*ast.IntLiteral)
				if yok && litok && y.Ident == x.Ident {
					_ = lit
					return nil
				}
			}
		}
		return nil
	default:
		return kindErr(KindIteratorException, iter.NodePos(), "unsupported for-loop iterator")
	}
}

func (fc *funcCheck) checkReason(reason ast.Expr, pos ast.Pos) error {
	if reason == nil {
		return nil
	}
	if name, ok := reason.(*ast.Name); ok && name.Ident == "UNREACHABLE" {
		return nil
	}
	s, ok := reason.(*ast.StringLiteral)
	if !ok {
		return kindErr(types.KindInvalidType, pos, "assert/raise reason must be a string literal or UNREACHABLE")
	}
	if len(s.Value) > 32 {
		return kindErr(types.KindInvalidType, pos, "assert/raise reason must be at most 32 bytes")
	}
	return nil
}
