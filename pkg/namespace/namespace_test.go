package namespace_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vylang/vylang/pkg/ast"
	"github.com/vylang/vylang/pkg/namespace"
	"github.com/vylang/vylang/pkg/types"
)

func TestEnterBuiltinScopeOnce(t *testing.T) {
	n := namespace.New()
	require.NoError(t, n.EnterBuiltinScope())
	require.Error(t, n.EnterBuiltinScope())
}

func TestEnterScopeRequiresBuiltin(t *testing.T) {
	n := namespace.New()
	require.Error(t, n.EnterScope())

	require.NoError(t, n.EnterBuiltinScope())
	require.NoError(t, n.EnterScope())
	require.Equal(t, 2, n.Depth())
}

func TestDeclareAndLookup(t *testing.T) {
	n := namespace.New()
	require.NoError(t, n.EnterBuiltinScope())
	require.NoError(t, n.EnterScope())

	pos := ast.Pos{File: "a.vy", Line: 1}
	require.NoError(t, n.Declare("x", types.Int(256, false), pos))

	got, ok := n.Lookup("x")
	require.True(t, ok)
	require.Equal(t, types.KindInt, got.Kind)
}

func TestDeclareRejectsShadowing(t *testing.T) {
	n := namespace.New()
	require.NoError(t, n.EnterBuiltinScope())
	require.NoError(t, n.Declare("x", types.Bool(), ast.Pos{Line: 1}))
	require.NoError(t, n.EnterScope())

	err := n.Declare("x", types.Int(256, false), ast.Pos{Line: 2})
	require.Error(t, err)
	var verr *types.Error
	require.ErrorAs(t, err, &verr)
	require.Equal(t, namespace.KindNamespaceCollision, verr.Kind)
}

func TestExitScopeUnwindsBuiltinReset(t *testing.T) {
	n := namespace.New()
	require.NoError(t, n.EnterBuiltinScope())
	require.NoError(t, n.EnterScope())
	n.ExitScope()
	n.ExitScope()
	require.Equal(t, 0, n.Depth())
	require.NoError(t, n.EnterBuiltinScope())
}

func TestMustLookupSuggestsNearestName(t *testing.T) {
	n := namespace.New()
	require.NoError(t, n.EnterBuiltinScope())
	require.NoError(t, n.Declare("balance_of", types.Int(256, false), ast.Pos{}))

	_, err := n.MustLookup("balance_0f", ast.Pos{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "balance_of")
}

func TestLookupTypeImplementsResolveNames(t *testing.T) {
	n := namespace.New()
	require.NoError(t, n.EnterBuiltinScope())
	require.NoError(t, n.Declare("Token", types.Struct("Token", nil), ast.Pos{}))

	var _ types.ResolveNames = n

	name := &ast.Name{Ident: "Token"}
	got, err := types.FromAnnotation(name, types.LocStorage, false, false, n)
	require.NoError(t, err)
	require.Equal(t, types.KindStruct, got.Kind)
}
