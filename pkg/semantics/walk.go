package semantics

import "github.com/vylang/vylang/pkg/ast"

// walkStmts visits s and, recursively, every nested statement (if/for
// bodies, elif chains). fn is called pre-order on every statement
// reached, including s itself.
func walkStmts(s ast.Stmt, fn func(ast.Stmt)) {
	if s == nil {
		return
	}
	fn(s)
	switch n := s.(type) {
	case *ast.If:
		for _, st := range n.Body {
			walkStmts(st, fn)
		}
		for _, st := range n.Else {
			walkStmts(st, fn)
		}
		if n.ElseIf != nil {
			walkStmts(n.ElseIf, fn)
		}
	case *ast.For:
		for _, st := range n.Body {
			walkStmts(st, fn)
		}
	}
}

// walkExprsInStmt calls fn on every expression directly referenced by s
// (pre-order, including nested subexpressions via walkExpr), and
// recurses into nested statement bodies via walkStmts.
func walkExprsInStmt(s ast.Stmt, fn func(ast.Expr)) {
	walkStmts(s, func(st ast.Stmt) {
		for _, e := range directExprs(st) {
			walkExpr(e, fn)
		}
	})
}

// directExprs returns the expressions a single statement (not its
// nested statement bodies) references directly.
func directExprs(s ast.Stmt) []ast.Expr {
	switch n := s.(type) {
	case *ast.VarDecl:
		if n.Value != nil {
			return []ast.Expr{n.Value}
		}
	case *ast.Assign:
		return []ast.Expr{n.Target, n.Value}
	case *ast.AugAssign:
		return []ast.Expr{n.Target, n.Value}
	case *ast.AnnAssign:
		if n.Value != nil {
			return []ast.Expr{n.Value}
		}
	case *ast.If:
		return []ast.Expr{n.Cond}
	case *ast.For:
		return []ast.Expr{n.Iter}
	case *ast.Return:
		if n.Value != nil {
			return []ast.Expr{n.Value}
		}
	case *ast.Raise:
		if n.Reason != nil {
			return []ast.Expr{n.Reason}
		}
	case *ast.Assert:
		if n.Reason != nil {
			return []ast.Expr{n.Cond, n.Reason}
		}
		return []ast.Expr{n.Cond}
	case *ast.Log:
		return n.Args
	case *ast.ExprStmt:
		return []ast.Expr{n.X}
	}
	return nil
}

// walkExpr calls fn on e and, recursively, every subexpression.
func walkExpr(e ast.Expr, fn func(ast.Expr)) {
	if e == nil {
		return
	}
	fn(e)
	switch n := e.(type) {
	case *ast.Attribute:
		walkExpr(n.X, fn)
	case *ast.Subscript:
		walkExpr(n.X, fn)
		walkExpr(n.Index, fn)
	case *ast.Call:
		walkExpr(n.Func, fn)
		for _, a := range n.Args {
			walkExpr(a, fn)
		}
		for _, a := range n.Keywords {
			walkExpr(a, fn)
		}
	case *ast.BinOp:
		walkExpr(n.X, fn)
		walkExpr(n.Y, fn)
	case *ast.BoolOp:
		for _, v := range n.Values {
			walkExpr(v, fn)
		}
	case *ast.UnaryOp:
		walkExpr(n.X, fn)
	case *ast.Compare:
		walkExpr(n.X, fn)
		walkExpr(n.Y, fn)
	case *ast.Ternary:
		walkExpr(n.Cond, fn)
		walkExpr(n.X, fn)
		walkExpr(n.Y, fn)
	case *ast.ListExpr:
		for _, el := range n.Elts {
			walkExpr(el, fn)
		}
	case *ast.TupleExpr:
		for _, el := range n.Elts {
			walkExpr(el, fn)
		}
	}
}
