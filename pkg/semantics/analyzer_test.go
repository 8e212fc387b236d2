package semantics_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vylang/vylang/pkg/ast"
	"github.com/vylang/vylang/pkg/semantics"
	"github.com/vylang/vylang/pkg/types"
)

func u256Annotation() ast.Expr { return &ast.Name{Ident: "uint256"} }

func selfAttr(name string) ast.Expr {
	return &ast.Attribute{X: &ast.Name{Ident: "self"}, Attr: name}
}

// simpleGetter builds `external def <name>() -> uint256: return 1`.
func simpleGetter(name string) *ast.FunctionDef {
	return &ast.FunctionDef{
		Name:       name,
		Return:     u256Annotation(),
		Decorators: []ast.Decorator{{Name: "external"}, {Name: "view"}},
		Body: []ast.Stmt{
			&ast.Return{Value: &ast.IntLiteral{Raw: "1"}},
		},
	}
}

func TestAnalyzeModuleAcceptsSimpleContract(t *testing.T) {
	mod := &ast.Module{
		Name: "token",
		Body: []ast.Stmt{
			&ast.VarDecl{Name: "total_supply", Type: u256Annotation(), IsPublic: true},
			simpleGetter("name"),
		},
	}
	a := semantics.New()
	errs := a.AnalyzeModule(mod)
	require.Empty(t, errs)
}

func TestCyclicInternalCallRejected(t *testing.T) {
	foo := &ast.FunctionDef{
		Name:       "foo",
		Decorators: []ast.Decorator{{Name: "internal"}},
		Body: []ast.Stmt{
			&ast.ExprStmt{X: &ast.Call{Func: selfAttr("bar")}},
		},
	}
	bar := &ast.FunctionDef{
		Name:       "bar",
		Decorators: []ast.Decorator{{Name: "internal"}},
		Body: []ast.Stmt{
			&ast.ExprStmt{X: &ast.Call{Func: selfAttr("foo")}},
		},
	}
	mod := &ast.Module{Name: "cyclic", Body: []ast.Stmt{foo, bar}}

	a := semantics.New()
	errs := a.AnalyzeModule(mod)
	require.NotEmpty(t, errs)

	var found bool
	for _, err := range errs {
		if verr, ok := err.(*types.Error); ok && verr.Kind == semantics.KindCallViolation {
			found = true
		}
	}
	require.True(t, found, "expected a CallViolation among: %v", errs)
}

func TestIterationOverMutatedStorageRejected(t *testing.T) {
	arrType := &ast.Subscript{X: &ast.Name{Ident: "uint256"}, Index: &ast.IntLiteral{Raw: "3"}}

	writeFoo := &ast.FunctionDef{
		Name:       "write_a",
		Decorators: []ast.Decorator{{Name: "internal"}},
		Body: []ast.Stmt{
			&ast.Assign{
				Target: &ast.Subscript{X: selfAttr("a"), Index: &ast.IntLiteral{Raw: "0"}},
				Value:  &ast.IntLiteral{Raw: "1"},
			},
		},
	}
	loopFn := &ast.FunctionDef{
		Name:       "run",
		Decorators: []ast.Decorator{{Name: "external"}},
		Body: []ast.Stmt{
			&ast.For{
				VarName: "x",
				Iter:    selfAttr("a"),
				Body: []ast.Stmt{
					&ast.ExprStmt{X: &ast.Call{Func: selfAttr("write_a")}},
				},
			},
		},
	}
	mod := &ast.Module{
		Name: "iter",
		Body: []ast.Stmt{
			&ast.VarDecl{Name: "a", Type: arrType},
			writeFoo,
			loopFn,
		},
	}

	a := semantics.New()
	errs := a.AnalyzeModule(mod)
	require.NotEmpty(t, errs)

	var found bool
	for _, err := range errs {
		if verr, ok := err.(*types.Error); ok && verr.Kind == semantics.KindImmutableViolation {
			found = true
		}
	}
	require.True(t, found, "expected an ImmutableViolation among: %v", errs)
}

func TestFunctionMustReturnOnEveryPath(t *testing.T) {
	fn := &ast.FunctionDef{
		Name:       "broken",
		Return:     u256Annotation(),
		Decorators: []ast.Decorator{{Name: "external"}},
		Body: []ast.Stmt{
			&ast.If{
				Cond: &ast.BoolLiteral{Value: true},
				Body: []ast.Stmt{&ast.Return{Value: &ast.IntLiteral{Raw: "1"}}},
				// no else: not every path returns
			},
		},
	}
	mod := &ast.Module{Name: "m", Body: []ast.Stmt{fn}}

	a := semantics.New()
	errs := a.AnalyzeModule(mod)
	require.NotEmpty(t, errs)
}
