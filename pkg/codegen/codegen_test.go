package codegen_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vylang/vylang/pkg/ast"
	"github.com/vylang/vylang/pkg/codegen"
	"github.com/vylang/vylang/pkg/ir"
	"github.com/vylang/vylang/pkg/namespace"
	"github.com/vylang/vylang/pkg/semantics"
)

func u256() ast.Expr { return &ast.Name{Ident: "uint256"} }

func selfAttr(name string) ast.Expr {
	return &ast.Attribute{X: &ast.Name{Ident: "self"}, Attr: name}
}

// analyzedModule runs the semantic analyzer over mod (so its namespace
// and annotations are populated the way codegen expects to receive
// them) and fails the test if analysis reports any diagnostics. The
// module scope AnalyzeModule leaves open on return is exactly the scope
// codegen needs to resolve storage vars and function signatures from.
func analyzedModule(t *testing.T, mod *ast.Module) (*namespace.Namespace, *ast.Annotations) {
	t.Helper()
	a := semantics.New()
	errs := a.AnalyzeModule(mod)
	require.Empty(t, errs)
	return a.NS, a.Ann
}

func TestCompileSimpleGetter(t *testing.T) {
	fn := &ast.FunctionDef{
		Name:       "total",
		Return:     u256(),
		Decorators: []ast.Decorator{{Name: "external"}, {Name: "view"}},
		Body: []ast.Stmt{
			&ast.Return{Value: selfAttr("supply")},
		},
	}
	mod := &ast.Module{
		Name: "token",
		Body: []ast.Stmt{
			&ast.VarDecl{Name: "supply", Type: u256(), IsPublic: true},
			fn,
		},
	}
	ns, ann := analyzedModule(t, mod)

	g := codegen.New(ns, ann)
	compiled, err := g.CompileModule(mod)
	require.NoError(t, err)
	require.Len(t, compiled, 1)
	require.Equal(t, "total", compiled[0].Name)
	require.NotNil(t, compiled[0].Body)

	dispatcher, err := g.BuildDispatcher(compiled)
	require.NoError(t, err)
	require.NotNil(t, dispatcher)
}

func TestCompileAssignAndArithmetic(t *testing.T) {
	fn := &ast.FunctionDef{
		Name:       "bump",
		Decorators: []ast.Decorator{{Name: "external"}},
		Body: []ast.Stmt{
			&ast.Assign{
				Target: selfAttr("counter"),
				Value: &ast.BinOp{
					Op: "+",
					X:  selfAttr("counter"),
					Y:  &ast.IntLiteral{Raw: "1"},
				},
			},
		},
	}
	mod := &ast.Module{
		Name: "counter",
		Body: []ast.Stmt{
			&ast.VarDecl{Name: "counter", Type: u256()},
			fn,
		},
	}
	ns, ann := analyzedModule(t, mod)

	g := codegen.New(ns, ann)
	compiled, err := g.CompileModule(mod)
	require.NoError(t, err)
	require.Len(t, compiled, 1)
	require.Equal(t, ir.OpSeq, compiled[0].Body.Op)
}

func TestCompileInternalCallInlines(t *testing.T) {
	helper := &ast.FunctionDef{
		Name:       "double",
		Return:     u256(),
		Args:       []ast.Field{{Name: "x", Type: u256()}},
		Decorators: []ast.Decorator{{Name: "internal"}, {Name: "pure"}},
		Body: []ast.Stmt{
			&ast.Return{Value: &ast.BinOp{Op: "*", X: &ast.Name{Ident: "x"}, Y: &ast.IntLiteral{Raw: "2"}}},
		},
	}
	caller := &ast.FunctionDef{
		Name:       "run",
		Return:     u256(),
		Decorators: []ast.Decorator{{Name: "external"}, {Name: "view"}},
		Body: []ast.Stmt{
			&ast.Return{Value: &ast.Call{Func: selfAttr("double"), Args: []ast.Expr{&ast.IntLiteral{Raw: "21"}}}},
		},
	}
	mod := &ast.Module{Name: "m", Body: []ast.Stmt{helper, caller}}
	ns, ann := analyzedModule(t, mod)

	g := codegen.New(ns, ann)
	compiled, err := g.CompileModule(mod)
	require.NoError(t, err)
	require.Len(t, compiled, 2)
}

func TestSlotSizeAccountsForStaticArrays(t *testing.T) {
	mod := &ast.Module{
		Name: "arrmod",
		Body: []ast.Stmt{
			&ast.VarDecl{Name: "values", Type: &ast.Subscript{X: u256(), Index: &ast.IntLiteral{Raw: "4"}}},
		},
	}
	ns, ann := analyzedModule(t, mod)
	g := codegen.New(ns, ann)
	_, err := g.CompileModule(mod)
	require.NoError(t, err)
}
