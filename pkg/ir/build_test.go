package ir_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vylang/vylang/pkg/ast"
	"github.com/vylang/vylang/pkg/ir"
)

func TestOpcodeArityChecked(t *testing.T) {
	lhs := ir.IntFromInt64(1)
	rhs := ir.IntFromInt64(2)
	n, err := ir.Opcode("ADD", ast.Pos{}, lhs, rhs)
	require.NoError(t, err)
	require.Equal(t, 1, n.Valency)
	require.Equal(t, int64(3+3+3), n.Gas)

	_, err = ir.Opcode("ADD", ast.Pos{}, lhs)
	require.Error(t, err)
}

func TestSeqValencyFollowsLastChild(t *testing.T) {
	a, _ := ir.Opcode("POP", ast.Pos{}, ir.IntFromInt64(1))
	b := ir.IntFromInt64(7)
	seq := ir.Seq(ast.Pos{}, a, b)
	require.Equal(t, 1, seq.Valency)

	empty := ir.Seq(ast.Pos{})
	require.Equal(t, 0, empty.Valency)
}

func TestIfRequiresValencyOneCondition(t *testing.T) {
	then := ir.IntFromInt64(1)
	els := ir.IntFromInt64(2)
	cond := ir.IntFromInt64(0)
	n, err := ir.If(ast.Pos{}, cond, then, els)
	require.NoError(t, err)
	require.Equal(t, 1, n.Valency)

	badCond, _ := ir.Opcode("POP", ast.Pos{}, ir.IntFromInt64(1))
	_, err = ir.If(ast.Pos{}, badCond, then, els)
	require.Error(t, err)
}

func TestIfBranchValencyMismatchRejected(t *testing.T) {
	cond := ir.IntFromInt64(1)
	then := ir.IntFromInt64(1)
	els, _ := ir.Opcode("POP", ast.Pos{}, ir.IntFromInt64(1))
	_, err := ir.If(ast.Pos{}, cond, then, els)
	require.Error(t, err)
}

func TestRepeatRequiresLiteralBound(t *testing.T) {
	start := ir.IntFromInt64(0)
	count := ir.IntFromInt64(3)
	body := ir.Seq(ast.Pos{})
	_, err := ir.Repeat(ast.Pos{}, "i", start, count, count, body)
	require.NoError(t, err)

	notLit, _ := ir.Opcode("CALLDATASIZE", ast.Pos{})
	_, err = ir.Repeat(ast.Pos{}, "i", start, count, notLit, body)
	require.Error(t, err)
}

func TestMultiRequiresValencyOneChildren(t *testing.T) {
	a := ir.IntFromInt64(1)
	b := ir.IntFromInt64(2)
	n, err := ir.Multi(ast.Pos{}, a, b)
	require.NoError(t, err)
	require.Equal(t, 2, n.Valency)

	bad, _ := ir.Opcode("POP", ast.Pos{}, ir.IntFromInt64(1))
	_, err = ir.Multi(ast.Pos{}, a, bad)
	require.Error(t, err)
}

func TestSstoreNonZeroSurcharge(t *testing.T) {
	slot := ir.IntFromInt64(0)
	val := ir.Int(big.NewInt(42))
	n, err := ir.Opcode("SSTORE", ast.Pos{}, slot, val)
	require.NoError(t, err)
	require.Greater(t, n.Gas, int64(15000))
}

func TestCacheWhenComplexInlinesLiterals(t *testing.T) {
	lit := ir.IntFromInt64(9)
	called := false
	out, err := ir.CacheWhenComplex(ast.Pos{}, "tmp", lit, nil, func(v *ir.Node) (*ir.Node, error) {
		called = true
		require.True(t, v.IsLiteral())
		return v, nil
	})
	require.NoError(t, err)
	require.True(t, called)
	require.True(t, out.IsLiteral())
}
