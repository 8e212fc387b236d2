package semantics

import (
	"github.com/vylang/vylang/pkg/ast"
	"github.com/vylang/vylang/pkg/types"
)

// annotateStmt is the Annotation pass of spec.md §4.C: "A third visitor
// walks statements and attaches the final expected type to each
// expression subtree, bidirectionally (propagates the target type into
// list/tuple/dict literals so their elements typecheck against the
// expected element type)." Errors here are swallowed rather than
// surfaced a second time — whatever is wrong was already reported by
// Phase 1/2; this pass just fills in what it safely can, matching its
// "best-effort on top of already-checked code" role.
func (a *Analyzer) annotateStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.VarDecl:
		if n.Value != nil {
			a.inferExpected(n.Value, a.typeOfAnnotation(n.Type))
		}
	case *ast.Assign:
		t := a.infer(n.Target)
		a.inferExpected(n.Value, t)
	case *ast.AugAssign:
		t := a.infer(n.Target)
		a.inferExpected(n.Value, t)
	case *ast.AnnAssign:
		want := a.typeOfAnnotation(n.Type)
		if n.Value != nil {
			a.inferExpected(n.Value, want)
		}
	case *ast.If:
		a.infer(n.Cond)
		for _, st := range n.Body {
			a.annotateStmt(st)
		}
		for _, st := range n.Else {
			a.annotateStmt(st)
		}
		if n.ElseIf != nil {
			a.annotateStmt(n.ElseIf)
		}
	case *ast.For:
		a.infer(n.Iter)
		for _, st := range n.Body {
			a.annotateStmt(st)
		}
	case *ast.Return:
		if n.Value != nil {
			a.infer(n.Value)
		}
	case *ast.Assert:
		a.infer(n.Cond)
		if n.Reason != nil {
			a.infer(n.Reason)
		}
	case *ast.Raise:
		if n.Reason != nil {
			a.infer(n.Reason)
		}
	case *ast.Log:
		for _, arg := range n.Args {
			a.infer(arg)
		}
	case *ast.ExprStmt:
		a.infer(n.X)
	case *ast.FunctionDef:
		for _, st := range n.Body {
			a.annotateStmt(st)
		}
	}
}

func (a *Analyzer) typeOfAnnotation(n ast.Expr) *types.Type {
	t, err := types.FromAnnotation(n, types.LocUnset, false, false, a.NS)
	if err != nil {
		return nil
	}
	return t
}

// inferExpected infers e's type with expected propagated into list/
// tuple literals (spec.md §4.C "bidirectionally").
func (a *Analyzer) inferExpected(e ast.Expr, expected *types.Type) *types.Type {
	switch n := e.(type) {
	case *ast.ListExpr:
		elemType := (*types.Type)(nil)
		if expected != nil && (expected.Kind == types.KindStaticArray || expected.Kind == types.KindDynArray) {
			elemType = expected.Elem
		}
		for _, el := range n.Elts {
			a.inferExpected(el, elemType)
		}
		a.Ann.TypeOf[e] = expected
		return expected
	case *ast.TupleExpr:
		for i, el := range n.Elts {
			var want *types.Type
			if expected != nil && expected.Kind == types.KindTuple && i < len(expected.Elems) {
				want = expected.Elems[i]
			}
			a.inferExpected(el, want)
		}
		a.Ann.TypeOf[e] = expected
		return expected
	default:
		t := a.infer(e)
		if t == nil && expected != nil {
			a.Ann.TypeOf[e] = expected
			return expected
		}
		return t
	}
}

// infer computes e's type bottom-up, consulting the namespace and
// pkg/types's typechecking entry points, and records the result.
func (a *Analyzer) infer(e ast.Expr) *types.Type {
	if e == nil {
		return nil
	}
	if cached, ok := a.Ann.TypeOf[e]; ok {
		if t, ok := cached.(*types.Type); ok {
			return t
		}
	}

	var t *types.Type
	switch n := e.(type) {
	case *ast.Name:
		t, _ = a.NS.Lookup(n.Ident)

	case *ast.Attribute:
		base := a.infer(n.X)
		if base != nil {
			t, _ = base.GetMember(n.Attr, n.NodePos())
		}

	case *ast.Subscript:
		base := a.infer(n.X)
		idxType := a.infer(n.Index)
		if base != nil && idxType != nil {
			t, _ = base.GetIndexType(n.Index, idxType, n.NodePos())
		}

	case *ast.Call:
		var argTypes []*types.Type
		for _, arg := range n.Args {
			argTypes = append(argTypes, a.infer(arg))
		}
		fnType := a.infer(n.Func)
		if fnType == nil {
			if name, ok := n.Func.(*ast.Name); ok {
				fnType = a.typeOfAnnotation(name) // primitive cast, e.g. uint256(x)
			}
		}
		if fnType != nil {
			allKnown := true
			for _, at := range argTypes {
				if at == nil {
					allKnown = false
				}
			}
			if allKnown {
				t, _ = fnType.FetchCallReturn(argTypes, n.NodePos())
			}
		}

	case *ast.BinOp:
		x, y := a.infer(n.X), a.infer(n.Y)
		if x != nil {
			t = x
		} else {
			t = y
		}

	case *ast.BoolOp:
		t = types.Bool()
		for _, v := range n.Values {
			a.infer(v)
		}

	case *ast.UnaryOp:
		t = a.infer(n.X)

	case *ast.Compare:
		a.infer(n.X)
		a.infer(n.Y)
		t = types.Bool()

	case *ast.Ternary:
		a.infer(n.Cond)
		xt := a.infer(n.X)
		a.infer(n.Y)
		t = xt

	case *ast.IntLiteral:
		t, _ = types.FromLiteral(n)
	case *ast.DecimalLiteral:
		t, _ = types.FromLiteral(n)
	case *ast.StringLiteral:
		t, _ = types.FromLiteral(n)
	case *ast.BytesLiteral:
		t, _ = types.FromLiteral(n)
	case *ast.HexLiteral:
		t, _ = types.FromLiteral(n)
	case *ast.BoolLiteral:
		t = types.Bool()

	case *ast.ListExpr:
		return a.inferExpected(e, nil)
	case *ast.TupleExpr:
		return a.inferExpected(e, nil)
	}

	if t != nil {
		a.Ann.TypeOf[e] = t
	}
	return t
}
