package abi_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vylang/vylang/pkg/abi"
	"github.com/vylang/vylang/pkg/types"
)

func TestBuildSkipsInternalFunctions(t *testing.T) {
	sigs := []*types.FuncSig{
		{Name: "get", Visibility: types.VisExternal, Mutability: types.MutView},
		{Name: "helper", Visibility: types.VisInternal, Mutability: types.MutView},
	}
	entries := abi.Build(sigs)
	require.Len(t, entries, 1)
	require.Equal(t, "get", entries[0].Name)
	require.Equal(t, "view", entries[0].StateMutability)
	require.True(t, entries[0].Constant)
}

func TestParameterForStructExposesComponents(t *testing.T) {
	point := &types.Type{Kind: types.KindStruct, Name: "Point", Fields: []types.Field{
		{Name: "x", Type: types.Int(256, false)},
		{Name: "y", Type: types.Int(256, false)},
	}}
	sig := &types.FuncSig{
		Name: "origin", Visibility: types.VisExternal, Mutability: types.MutPure, Return: point,
	}
	entries := abi.Build([]*types.FuncSig{sig})
	require.Len(t, entries, 1)
	require.Len(t, entries[0].Outputs, 1)
	require.Equal(t, "tuple", entries[0].Outputs[0].Type)
	require.Len(t, entries[0].Outputs[0].Components, 2)
}

func TestMethodIdentifiersKeyedByCanonicalSignature(t *testing.T) {
	sig := &types.FuncSig{
		Name: "balanceOf", Visibility: types.VisExternal, Mutability: types.MutView,
		Args: []types.Field{{Name: "who", Type: types.Address()}},
	}
	sig.MethodID = types.MethodID(abi.CanonicalSignature(sig))
	ids := abi.MethodIdentifiers([]*types.FuncSig{sig})
	require.Contains(t, ids, "balanceOf(address)")
	require.Len(t, ids["balanceOf(address)"], 8) // 4 bytes, hex-encoded
}
