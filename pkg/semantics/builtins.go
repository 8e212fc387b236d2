package semantics

import (
	"github.com/vylang/vylang/pkg/ast"
	"github.com/vylang/vylang/pkg/namespace"
	"github.com/vylang/vylang/pkg/types"
)

// installBuiltins declares the builtin free functions spec.md §4.D/§4.E
// name (the ones pkg/types.FoldBuiltin can fold at compile time, plus
// the runtime-only builtins codegen lowers directly): len, floor, ceil,
// abs, min, max, the bitwise/shift/mod-arithmetic family, the hash
// family, as_wei_value, slice/concat/empty/extract32, and the
// external-call helpers. Declared into the builtin scope so ordinary
// name lookup finds them like any other function (spec.md §4.B
// enter_builtin_scope).
func installBuiltins(ns *namespace.Namespace) {
	u256 := types.Int(256, false)
	bytesAny := types.DynBytes(1 << 16)

	decl := func(name string, args []types.Field, ret *types.Type, mut types.Mutability) {
		sig := &types.FuncSig{Name: name, Args: args, Return: ret, Visibility: types.VisExternal, Mutability: mut}
		_ = ns.Declare(name, types.Function(sig), ast.Pos{})
	}

	arg := func(n string, t *types.Type) types.Field { return types.Field{Name: n, Type: t} }

	decl("floor", []types.Field{arg("x", types.Decimal())}, types.Int(256, true), types.MutPure)
	decl("ceil", []types.Field{arg("x", types.Decimal())}, types.Int(256, true), types.MutPure)
	decl("len", []types.Field{arg("x", bytesAny)}, u256, types.MutPure)
	decl("abs", []types.Field{arg("x", types.Int(256, true))}, types.Int(256, true), types.MutPure)
	decl("min", []types.Field{arg("a", u256), arg("b", u256)}, u256, types.MutPure)
	decl("max", []types.Field{arg("a", u256), arg("b", u256)}, u256, types.MutPure)
	decl("bitwise_and", []types.Field{arg("a", u256), arg("b", u256)}, u256, types.MutPure)
	decl("bitwise_or", []types.Field{arg("a", u256), arg("b", u256)}, u256, types.MutPure)
	decl("bitwise_xor", []types.Field{arg("a", u256), arg("b", u256)}, u256, types.MutPure)
	decl("bitwise_not", []types.Field{arg("a", u256)}, u256, types.MutPure)
	decl("shift", []types.Field{arg("x", u256), arg("n", types.Int(256, true))}, u256, types.MutPure)
	decl("pow_mod256", []types.Field{arg("a", u256), arg("b", u256)}, u256, types.MutPure)
	decl("uint256_addmod", []types.Field{arg("a", u256), arg("b", u256), arg("m", u256)}, u256, types.MutPure)
	decl("uint256_mulmod", []types.Field{arg("a", u256), arg("b", u256), arg("m", u256)}, u256, types.MutPure)
	decl("as_wei_value", []types.Field{arg("amount", u256), arg("unit", bytesAny)}, u256, types.MutPure)
	decl("keccak256", []types.Field{arg("x", bytesAny)}, types.BytesM(32), types.MutPure)
	decl("sha256", []types.Field{arg("x", bytesAny)}, types.BytesM(32), types.MutPure)
	decl("method_id", []types.Field{arg("sig", bytesAny)}, types.BytesM(4), types.MutPure)
	decl("ecrecover", []types.Field{arg("hash", types.BytesM(32)), arg("v", u256), arg("r", u256), arg("s", u256)}, types.Address(), types.MutPure)
	decl("slice", []types.Field{arg("x", bytesAny), arg("start", u256), arg("length", u256)}, bytesAny, types.MutPure)
	decl("concat", []types.Field{arg("a", bytesAny), arg("b", bytesAny)}, bytesAny, types.MutPure)
	decl("send", []types.Field{arg("to", types.Address()), arg("value", u256)}, nil, types.MutNonpayable)
	decl("selfdestruct", []types.Field{arg("to", types.Address())}, nil, types.MutNonpayable)
	decl("raw_call", []types.Field{arg("to", types.Address()), arg("data", bytesAny)}, bytesAny, types.MutNonpayable)
	decl("create_forwarder_to", []types.Field{arg("target", types.Address())}, types.Address(), types.MutNonpayable)
	decl("create_minimal_proxy_to", []types.Field{arg("target", types.Address())}, types.Address(), types.MutNonpayable)
	decl("empty", []types.Field{}, bytesAny, types.MutPure)
	decl("extract32", []types.Field{arg("x", bytesAny), arg("start", u256)}, types.BytesM(32), types.MutPure)
}
