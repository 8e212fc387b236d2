package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli"

	"github.com/vylang/vylang/pkg/ast"
)

// neutralizeExit stops cli.App.Run's default ExitErrHandler from
// calling os.Exit on a cli.ExitCoder error, the same substitution
// cli/executor_test.go's setExitFunc performs, so a test asserting on
// the returned error doesn't kill the test binary.
func neutralizeExit(t *testing.T) {
	t.Helper()
	prev := cli.OsExiter
	cli.OsExiter = func(int) {}
	t.Cleanup(func() { cli.OsExiter = prev })
}

func TestParseFormatsSplitsAndTrims(t *testing.T) {
	require.Equal(t, []string{"bytecode"}, parseFormats(""))
	require.Equal(t, []string{"bytecode", "abi", "asm"}, parseFormats("bytecode, abi,asm"))
}

func u256() ast.Expr { return &ast.Name{Ident: "uint256"} }

func TestRunCompileWritesBytecodeForLoadedModule(t *testing.T) {
	neutralizeExit(t)
	prev := LoadModule
	defer func() { LoadModule = prev }()
	LoadModule = func(path string) (*ast.Module, error) {
		return &ast.Module{Name: "t", Body: []ast.Stmt{
			&ast.FunctionDef{
				Name:       "answer",
				Return:     u256(),
				Decorators: []ast.Decorator{{Name: "external"}, {Name: "view"}},
				Body:       []ast.Stmt{&ast.Return{Value: &ast.IntLiteral{Raw: "1"}}},
			},
		}}, nil
	}

	app := newApp()
	var out, errOut bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &errOut

	err := app.Run([]string{"vylang", "-f", "bytecode,abi", "token.vy"})
	require.NoError(t, err)
	require.Contains(t, out.String(), "0x")
	require.Contains(t, out.String(), "\"name\": \"answer\"")
}

func TestRunCompileDumpAstSkipsCompilation(t *testing.T) {
	neutralizeExit(t)
	prev := LoadModule
	defer func() { LoadModule = prev }()
	LoadModule = func(path string) (*ast.Module, error) {
		return &ast.Module{Name: "t"}, nil
	}

	app := newApp()
	var out, errOut bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &errOut

	err := app.Run([]string{"vylang", "--dump-ast", "token.vy"})
	require.NoError(t, err)
	require.Contains(t, out.String(), "ast.Module")
	require.Empty(t, errOut.String())
}

func TestRunCompileReportsLoadModuleFailureByDefault(t *testing.T) {
	neutralizeExit(t)
	app := newApp()
	var out, errOut bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &errOut

	err := app.Run([]string{"vylang", "token.vy"})
	require.Error(t, err)
}
