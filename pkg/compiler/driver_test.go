package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vylang/vylang/pkg/ast"
	"github.com/vylang/vylang/pkg/compiler"
	"github.com/vylang/vylang/pkg/config"
)

func u256() ast.Expr { return &ast.Name{Ident: "uint256"} }

func simpleGetter(name string) *ast.FunctionDef {
	return &ast.FunctionDef{
		Name:       name,
		Return:     u256(),
		Decorators: []ast.Decorator{{Name: "external"}, {Name: "view"}},
		Body: []ast.Stmt{
			&ast.Return{Value: &ast.IntLiteral{Raw: "1"}},
		},
	}
}

func simpleModule() *ast.Module {
	return &ast.Module{
		Name: "token",
		Body: []ast.Stmt{
			simpleGetter("answer"),
		},
	}
}

func TestCompileCodeProducesBytecodeAndABI(t *testing.T) {
	d := compiler.New(16)
	art, err := d.CompileCode("token", simpleModule(), []string{"bytecode", "bytecode_runtime", "abi", "method_identifiers"}, compiler.DefaultOptions())
	require.NoError(t, err)
	require.Empty(t, art.Diagnostics)
	require.NotEmpty(t, art.Bytecode)
	require.NotEmpty(t, art.BytecodeRuntime)
	require.Len(t, art.ABI, 1)
	require.Equal(t, "answer", art.ABI[0].Name)
	require.Contains(t, art.MethodIdentifiers, "answer()")

	// spec.md §8 property 1: runtime bytecode is a contiguous substring
	// of the deployment bytecode.
	require.Contains(t, string(art.Bytecode), string(art.BytecodeRuntime))
}

func TestCompileCodeStagesAreMemoizedAcrossFormatRequests(t *testing.T) {
	d := compiler.New(16)
	opts := compiler.DefaultOptions()
	mod := simpleModule()

	first, err := d.CompileCode("token", mod, []string{"abi"}, opts)
	require.NoError(t, err)
	require.Len(t, first.ABI, 1)
	require.Empty(t, first.Bytecode)

	second, err := d.CompileCode("token", mod, []string{"bytecode"}, opts)
	require.NoError(t, err)
	require.NotEmpty(t, second.Bytecode)
}

func TestCompileCodeReportsSemanticDiagnosticsWithoutPanicking(t *testing.T) {
	d := compiler.New(16)
	mod := &ast.Module{
		Name: "broken",
		Body: []ast.Stmt{
			&ast.FunctionDef{
				Name:       "bad",
				Decorators: []ast.Decorator{{Name: "external"}},
				Body: []ast.Stmt{
					&ast.Return{Value: &ast.Name{Ident: "undeclared_name"}},
				},
			},
		},
	}
	art, err := d.CompileCode("broken", mod, []string{"bytecode"}, compiler.DefaultOptions())
	require.NoError(t, err)
	require.NotEmpty(t, art.Diagnostics)
	require.Empty(t, art.Bytecode)
}

func TestConstructorExcludedFromExternalDispatch(t *testing.T) {
	d := compiler.New(16)
	mod := &ast.Module{
		Name: "withCtor",
		Body: []ast.Stmt{
			&ast.FunctionDef{
				Name:       compiler.ConstructorName,
				Decorators: []ast.Decorator{{Name: "external"}},
				Body:       []ast.Stmt{},
			},
			simpleGetter("answer"),
		},
	}
	art, err := d.CompileCode("withCtor", mod, []string{"abi", "bytecode"}, compiler.DefaultOptions())
	require.NoError(t, err)
	require.Empty(t, art.Diagnostics)
	for _, e := range art.ABI {
		require.NotEqual(t, compiler.ConstructorName, e.Name)
	}
	require.NotEmpty(t, art.Bytecode)
}

func TestCompileCodeHonorsPinnedStorageLayout(t *testing.T) {
	mod := &ast.Module{
		Name: "vault",
		Body: []ast.Stmt{
			&ast.VarDecl{Name: "total_supply", Type: u256(), IsPublic: true},
			&ast.VarDecl{Name: "owner", Type: u256(), IsPublic: true},
			simpleGetter("answer"),
		},
	}

	opts := compiler.DefaultOptions()
	opts.StorageLayout = config.StorageLayout{Slots: map[string]uint64{"owner": 5}}

	d := compiler.New(16)
	art, err := d.CompileCode("vault", mod, []string{"bytecode", "layout"}, opts)
	require.NoError(t, err)
	require.Empty(t, art.Diagnostics)

	// owner keeps the pinned slot instead of being reassigned
	// sequentially; total_supply falls back to the allocator's next
	// free slot since it wasn't pinned.
	require.Equal(t, uint64(5), art.StorageLayout.Slots["owner"])
	require.Contains(t, art.StorageLayout.Slots, "total_supply")
	require.NotEqual(t, art.StorageLayout.Slots["owner"], art.StorageLayout.Slots["total_supply"])
}
