package optimizer_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vylang/vylang/pkg/ast"
	"github.com/vylang/vylang/pkg/ir"
	"github.com/vylang/vylang/pkg/optimizer"
	"github.com/vylang/vylang/pkg/types"
)

var pos = ast.Pos{}

func lit(v int64) *ir.Node { return ir.IntFromInt64(v).WithSourcePos(pos) }

func mustOp(t *testing.T, name string, args ...*ir.Node) *ir.Node {
	t.Helper()
	n, err := ir.Opcode(name, pos, args...)
	require.NoError(t, err)
	return n
}

func aName(t *testing.T, slot int) *ir.Node {
	t.Helper()
	return mustOp(t, "MLOAD", lit(int64(slot*32)))
}

func TestConstantFoldingArithmetic(t *testing.T) {
	n := mustOp(t, "ADD", lit(2), lit(3))
	out, err := optimizer.New().Optimize(n)
	require.NoError(t, err)
	require.True(t, out.IsLiteral())
	require.Equal(t, big.NewInt(5), out.Value)
}

func TestDivByZeroFoldsToZero(t *testing.T) {
	n := mustOp(t, "DIV", lit(7), lit(0))
	out, err := optimizer.New().Optimize(n)
	require.NoError(t, err)
	require.True(t, out.IsLiteral())
	require.Equal(t, big.NewInt(0), out.Value)
}

// TestIdentityAddZero covers spec.md §8 S5's (add x 0, x).
func TestIdentityAddZero(t *testing.T) {
	x := aName(t, 0)
	n := mustOp(t, "ADD", x, lit(0))
	out, err := optimizer.New().Optimize(n)
	require.NoError(t, err)
	require.Equal(t, "MLOAD", out.Name)
}

// TestSubSelfCancelsToZero covers spec.md §8 S5's (sub x x, 0).
func TestSubSelfCancelsToZero(t *testing.T) {
	x := aName(t, 0)
	y := aName(t, 0)
	n := mustOp(t, "SUB", x, y)
	out, err := optimizer.New().Optimize(n)
	require.NoError(t, err)
	require.True(t, out.IsLiteral())
	require.Equal(t, big.NewInt(0), out.Value)
}

// TestMulPowerOfTwoBecomesShift covers spec.md §8 S5's (mul x 32, shl 5 x).
func TestMulPowerOfTwoBecomesShift(t *testing.T) {
	x := aName(t, 0)
	n := mustOp(t, "MUL", x, lit(32))
	out, err := optimizer.New().Optimize(n)
	require.NoError(t, err)
	require.Equal(t, "SHL", out.Name)
	require.True(t, out.Args[0].IsLiteral())
	require.Equal(t, big.NewInt(5), out.Args[0].Value)
}

// TestModPowerOfTwoBecomesAnd covers spec.md §8 S5's (mod x 128, and x 127).
func TestModPowerOfTwoBecomesAnd(t *testing.T) {
	x := aName(t, 0)
	n := mustOp(t, "MOD", x, lit(128))
	out, err := optimizer.New().Optimize(n)
	require.NoError(t, err)
	require.Equal(t, "AND", out.Name)
	require.True(t, out.Args[1].IsLiteral())
	require.Equal(t, big.NewInt(127), out.Args[1].Value)
}

// TestIfFalseConditionPrunesToEmptySeq covers spec.md §8 S5's
// (if (eq 1 2) pass, seq).
func TestIfFalseConditionPrunesToEmptySeq(t *testing.T) {
	cond := mustOp(t, "EQ", lit(1), lit(2))
	thenNode := ir.Pass(pos)
	n, err := ir.If(pos, cond, thenNode, nil)
	require.NoError(t, err)
	out, err := optimizer.New().Optimize(n)
	require.NoError(t, err)
	require.Equal(t, ir.OpSeq, out.Op)
	require.Empty(t, out.Args)
}

// TestIfTrueConditionPrunesToThen covers spec.md §8 S5's
// (if (eq 1 1) 3 4, 3).
func TestIfTrueConditionPrunesToThen(t *testing.T) {
	cond := mustOp(t, "EQ", lit(1), lit(1))
	n, err := ir.If(pos, cond, lit(3), lit(4))
	require.NoError(t, err)
	out, err := optimizer.New().Optimize(n)
	require.NoError(t, err)
	require.True(t, out.IsLiteral())
	require.Equal(t, big.NewInt(3), out.Value)
}

func TestStaticAssertionExceptionOnProvablyFalseAssert(t *testing.T) {
	cond := lit(0)
	notCond := mustOp(t, "ISZERO", cond)
	fail := mustOp(t, "REVERT", lit(0), lit(0)).WithAnnotation(ir.AssertFail)
	n, err := ir.If(pos, notCond, fail, ir.Pass(pos))
	require.NoError(t, err)

	_, err = optimizer.New().Optimize(n)
	require.Error(t, err)
	verr, ok := err.(*types.Error)
	require.True(t, ok)
	require.Equal(t, optimizer.KindStaticAssertionException, verr.Kind)
}

func TestControlFlowPolaritySwapsOnNonIszeroCond(t *testing.T) {
	cond := aName(t, 0)
	thenNode := lit(1)
	elseNode := lit(2)
	n, err := ir.If(pos, cond, thenNode, elseNode)
	require.NoError(t, err)

	out, err := optimizer.New().Optimize(n)
	require.NoError(t, err)
	require.Equal(t, ir.OpIf, out.Op)
	require.Equal(t, "ISZERO", out.Args[0].Name)
	require.True(t, out.Args[1].IsLiteral())
	require.Equal(t, big.NewInt(2), out.Args[1].Value)
	require.True(t, out.Args[2].IsLiteral())
	require.Equal(t, big.NewInt(1), out.Args[2].Value)
}

func TestDeadSeqCollapsesSingleChild(t *testing.T) {
	x := aName(t, 0)
	n := ir.Seq(pos, ir.Seq(pos), x)
	out, err := optimizer.New().Optimize(n)
	require.NoError(t, err)
	require.Equal(t, "MLOAD", out.Name)
}

func TestZeroFillPeepholeFusesIntoCalldatacopy(t *testing.T) {
	s1 := mustOp(t, "MSTORE", lit(0), lit(0))
	s2 := mustOp(t, "MSTORE", lit(32), lit(0))
	n := ir.Seq(pos, s1, s2)
	out, err := optimizer.New().Optimize(n)
	require.NoError(t, err)
	require.Equal(t, "CALLDATACOPY", out.Name)
	require.Equal(t, big.NewInt(64), out.Args[2].Value)
}

func TestIdempotence(t *testing.T) {
	x := aName(t, 0)
	n := mustOp(t, "ADD", mustOp(t, "MUL", x, lit(32)), lit(0))
	o := optimizer.New()
	once, err := o.Optimize(n)
	require.NoError(t, err)
	twice, err := o.Optimize(once)
	require.NoError(t, err)
	require.Equal(t, once.Name, twice.Name)
	if once.IsLiteral() {
		require.Equal(t, once.Value, twice.Value)
	}
}
