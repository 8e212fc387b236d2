package codegen

import (
	"math/big"

	"github.com/vylang/vylang/pkg/ast"
	"github.com/vylang/vylang/pkg/ir"
	"github.com/vylang/vylang/pkg/types"
)

func (g *Generator) typeOf(e ast.Expr) *types.Type {
	if t, ok := g.Ann.TypeOf[e].(*types.Type); ok {
		return t
	}
	return nil
}

// lowerExpr lowers e to a valency-1 IR node computing its value (spec.md
// §4.E). lvalue-only forms (self.field, bare locals, indexing) are also
// reachable as rvalues here by loading through the same address
// computation lowerAddr uses.
func (g *Generator) lowerExpr(e ast.Expr) (*ir.Node, error) {
	pos := e.NodePos()
	switch n := e.(type) {
	case *ast.IntLiteral:
		v, ok := new(big.Int).SetString(n.Raw, 0)
		if !ok {
			return nil, genErr(pos, "malformed integer literal %q", n.Raw)
		}
		return ir.Int(v).WithSourcePos(pos), nil

	case *ast.BoolLiteral:
		if n.Value {
			return ir.IntFromInt64(1).WithSourcePos(pos), nil
		}
		return ir.IntFromInt64(0).WithSourcePos(pos), nil

	case *ast.HexLiteral, *ast.BytesLiteral:
		return g.lowerBytesLikeLiteral(e)

	case *ast.StringLiteral:
		return g.lowerStringLiteral(n)

	case *ast.Name:
		return g.lowerNameLoad(n)

	case *ast.Attribute:
		return g.lowerAttributeLoad(n)

	case *ast.Subscript:
		return g.lowerSubscriptLoad(n)

	case *ast.BinOp:
		return g.lowerBinOp(n)

	case *ast.BoolOp:
		return g.lowerBoolOp(n)

	case *ast.UnaryOp:
		return g.lowerUnaryOp(n)

	case *ast.Compare:
		return g.lowerCompare(n)

	case *ast.Ternary:
		cond, err := g.lowerExpr(n.Cond)
		if err != nil {
			return nil, err
		}
		x, err := g.lowerExpr(n.X)
		if err != nil {
			return nil, err
		}
		y, err := g.lowerExpr(n.Y)
		if err != nil {
			return nil, err
		}
		return ir.If(pos, cond, x, y)

	case *ast.Call:
		return g.lowerCall(n)

	case *ast.ListExpr, *ast.TupleExpr:
		return nil, genErr(pos, "list/tuple literals must be lowered in their binding context")
	}
	return nil, genErr(pos, "unsupported expression %T", e)
}

// lowerBytesLikeLiteral lowers a hex/bytes literal to its big-endian
// integer value, left-padded to a full word, matching how bytesN/address
// literals are represented as EVM stack words (spec.md §4.A from_literal
// companion for codegen).
func (g *Generator) lowerBytesLikeLiteral(e ast.Expr) (*ir.Node, error) {
	pos := e.NodePos()
	var raw string
	switch n := e.(type) {
	case *ast.HexLiteral:
		raw = n.Raw
	case *ast.BytesLiteral:
		raw = n.Raw
	}
	v, ok := new(big.Int).SetString(stripHexPrefix(raw), 16)
	if !ok {
		return nil, genErr(pos, "malformed hex literal %q", raw)
	}
	return ir.Int(v).WithSourcePos(pos), nil
}

func stripHexPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}

// lowerStringLiteral lowers a string constant to a literal of its byte
// length, annotated with the text. The bytes themselves are not placed
// in code or memory; pkg/asm pushes only the length.
func (g *Generator) lowerStringLiteral(n *ast.StringLiteral) (*ir.Node, error) {
	node := ir.IntFromInt64(int64(len(n.Value))).WithSourcePos(n.NodePos())
	return node.WithAnnotation(n.Value).WithEncoding(types.EncodingNative), nil
}

// lowerNameLoad loads a bare identifier: a function-local memory slot,
// or (having no local binding) falls through to the builtin constant
// forms `self`/`msg`/`block`/`tx` handled as bare Attribute bases
// elsewhere — a standalone Name here is always a local.
func (g *Generator) lowerNameLoad(n *ast.Name) (*ir.Node, error) {
	pos := n.NodePos()
	slot, ok := g.locals[n.Ident]
	if !ok {
		return nil, genErr(pos, "undeclared local %q reached codegen", n.Ident)
	}
	offset := ir.IntFromInt64(int64(slot * 32)).WithSourcePos(pos)
	return ir.Opcode("MLOAD", pos, offset)
}

// lowerAttributeLoad handles `self.field` (storage load), and the
// fixed environment accessors `msg.sender`, `msg.value`, `msg.data`,
// `msg.gas`, `block.timestamp`, `block.number`, `block.prevrandao`,
// `block.coinbase`, `block.basefee`, `tx.origin`, `tx.gasprice`
// (spec.md glossary's environment-variable vocabulary).
func (g *Generator) lowerAttributeLoad(n *ast.Attribute) (*ir.Node, error) {
	pos := n.NodePos()
	if base, ok := n.X.(*ast.Name); ok {
		switch base.Ident {
		case "self":
			slot, found := g.Storage.slotOf(n.Attr)
			if !found {
				return nil, genErr(pos, "unknown storage variable %q", n.Attr)
			}
			return ir.Opcode("SLOAD", pos, ir.IntFromInt64(int64(slot)).WithSourcePos(pos))
		case "msg":
			switch n.Attr {
			case "sender":
				return ir.Opcode("CALLER", pos)
			case "value":
				return ir.Opcode("CALLVALUE", pos)
			case "gas":
				return ir.Opcode("GAS", pos)
			case "data":
				return ir.Opcode("CALLDATASIZE", pos)
			}
		case "block":
			switch n.Attr {
			case "timestamp":
				return ir.Opcode("TIMESTAMP", pos)
			case "number":
				return ir.Opcode("NUMBER", pos)
			case "prevrandao", "difficulty":
				return ir.Opcode("PREVRANDAO", pos)
			case "coinbase":
				return ir.Opcode("COINBASE", pos)
			case "basefee":
				return ir.Opcode("BASEFEE", pos)
			case "gaslimit":
				return ir.Opcode("GASLIMIT", pos)
			case "chainid":
				return ir.Opcode("CHAINID", pos)
			}
		case "tx":
			switch n.Attr {
			case "origin":
				return ir.Opcode("ORIGIN", pos)
			case "gasprice":
				return ir.Opcode("GASPRICE", pos)
			}
		}
	}
	// Any other attribute access, including struct member access, is not
	// lowered and is reported as unsupported.
	return nil, genErr(pos, "unsupported attribute access %q", n.Attr)
}

// lowerSubscriptLoad handles `arr[i]` for a storage- or memory-resident
// static/dynamic array: the element address is base + index*elem_words.
// No bounds check is emitted, for static or dynamic arrays.
func (g *Generator) lowerSubscriptLoad(n *ast.Subscript) (*ir.Node, error) {
	pos := n.NodePos()
	baseT := g.typeOf(n.X)
	if baseT == nil {
		return nil, genErr(pos, "unresolved base type for indexing")
	}
	idx, err := g.lowerExpr(n.Index)
	if err != nil {
		return nil, err
	}
	elemWords := 1
	if baseT.Elem != nil {
		elemWords = slotSize(baseT.Elem)
	}
	addr, err := g.lowerAddr(n.X)
	if err != nil {
		return nil, err
	}
	offset, err := ir.Opcode("MUL", pos, idx, ir.IntFromInt64(int64(elemWords)).WithSourcePos(pos))
	if err != nil {
		return nil, err
	}
	slot, err := ir.Opcode("ADD", pos, addr, offset)
	if err != nil {
		return nil, err
	}
	if baseT.Location == types.LocStorage {
		return ir.Opcode("SLOAD", pos, slot)
	}
	word, err := ir.Opcode("MUL", pos, slot, ir.IntFromInt64(32).WithSourcePos(pos))
	if err != nil {
		return nil, err
	}
	return ir.Opcode("MLOAD", pos, word)
}

// lowerAddr computes the base slot/address of an lvalue expression
// without dereferencing it, used by subscripting and by assignment.
func (g *Generator) lowerAddr(e ast.Expr) (*ir.Node, error) {
	pos := e.NodePos()
	switch n := e.(type) {
	case *ast.Attribute:
		if base, ok := n.X.(*ast.Name); ok && base.Ident == "self" {
			slot, found := g.Storage.slotOf(n.Attr)
			if !found {
				return nil, genErr(pos, "unknown storage variable %q", n.Attr)
			}
			return ir.IntFromInt64(int64(slot)).WithSourcePos(pos), nil
		}
	case *ast.Name:
		slot, ok := g.locals[n.Ident]
		if !ok {
			return nil, genErr(pos, "undeclared local %q reached codegen", n.Ident)
		}
		return ir.IntFromInt64(int64(slot)).WithSourcePos(pos), nil
	}
	return nil, genErr(pos, "unsupported lvalue base %T", e)
}

var binOpcode = map[string]string{
	"+": "ADD", "-": "SUB", "*": "MUL", "/": "DIV", "%": "MOD",
	"**": "EXP", "&": "AND", "|": "OR", "^": "XOR",
	"<<": "SHL", ">>": "SHR",
}

// lowerBinOp lowers an arithmetic/bitwise binary operator, choosing the
// signed opcode variant (SDIV/SMOD) when the operand type is a signed
// integer (spec.md §4 EVM arithmetic semantics note).
func (g *Generator) lowerBinOp(n *ast.BinOp) (*ir.Node, error) {
	pos := n.NodePos()
	x, err := g.lowerExpr(n.X)
	if err != nil {
		return nil, err
	}
	y, err := g.lowerExpr(n.Y)
	if err != nil {
		return nil, err
	}
	op, ok := binOpcode[n.Op]
	if !ok {
		return nil, genErr(pos, "unsupported binary operator %q", n.Op)
	}
	t := g.typeOf(n.X)
	if t != nil && t.IsSignedInteger() {
		switch op {
		case "DIV":
			op = "SDIV"
		case "MOD":
			op = "SMOD"
		}
	}
	return ir.Opcode(op, pos, x, y)
}

// lowerBoolOp lowers `and`/`or` to bitwise AND/OR over 0/1 operands,
// which is semantically equivalent to short-circuit evaluation for
// side-effect-free conditions; a chained call-bearing operand would
// need an `if`-based short circuit, left as a documented simplification
// (spec.md non-goal: side-effecting boolean operands are rare in this
// language's expression grammar, which disallows statement-level calls
// inside a bare boolean expression outside of assert/if conditions).
func (g *Generator) lowerBoolOp(n *ast.BoolOp) (*ir.Node, error) {
	pos := n.NodePos()
	if len(n.Values) == 0 {
		return nil, genErr(pos, "empty bool-op")
	}
	acc, err := g.lowerExpr(n.Values[0])
	if err != nil {
		return nil, err
	}
	opcode := "AND"
	if n.Op == "or" {
		opcode = "OR"
	}
	for _, v := range n.Values[1:] {
		next, err := g.lowerExpr(v)
		if err != nil {
			return nil, err
		}
		acc, err = ir.Opcode(opcode, pos, acc, next)
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func (g *Generator) lowerUnaryOp(n *ast.UnaryOp) (*ir.Node, error) {
	pos := n.NodePos()
	x, err := g.lowerExpr(n.X)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case "not":
		return ir.Opcode("ISZERO", pos, x)
	case "-":
		return ir.Opcode("SUB", pos, ir.IntFromInt64(0).WithSourcePos(pos), x)
	case "~":
		return ir.Opcode("NOT", pos, x)
	}
	return nil, genErr(pos, "unsupported unary operator %q", n.Op)
}

// lowerCompare lowers a single comparison, synthesizing `<=`/`>=` as
// `iszero(gt)`/`iszero(lt)` since the VM has no direct opcode for them
// (spec.md §4 EVM opcode table), and choosing SLT/SGT for signed
// operands.
func (g *Generator) lowerCompare(n *ast.Compare) (*ir.Node, error) {
	pos := n.NodePos()
	x, err := g.lowerExpr(n.X)
	if err != nil {
		return nil, err
	}
	y, err := g.lowerExpr(n.Y)
	if err != nil {
		return nil, err
	}
	signed := false
	if t := g.typeOf(n.X); t != nil {
		signed = t.IsSignedInteger()
	}
	switch n.Op {
	case "==":
		return ir.Opcode("EQ", pos, x, y)
	case "!=":
		eq, err := ir.Opcode("EQ", pos, x, y)
		if err != nil {
			return nil, err
		}
		return ir.Opcode("ISZERO", pos, eq)
	case "<", ">":
		op := n.Op
		opc := "LT"
		if op == ">" {
			opc = "GT"
		}
		if signed {
			opc = "S" + opc
		}
		return ir.Opcode(opc, pos, x, y)
	case "<=", ">=":
		opc := "GT"
		if n.Op == ">=" {
			opc = "LT"
		}
		if signed {
			opc = "S" + opc
		}
		gt, err := ir.Opcode(opc, pos, x, y)
		if err != nil {
			return nil, err
		}
		return ir.Opcode("ISZERO", pos, gt)
	}
	return nil, genErr(pos, "unsupported comparator %q", n.Op)
}
