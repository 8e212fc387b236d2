package codegen

import (
	"math/big"

	"github.com/vylang/vylang/pkg/ast"
	"github.com/vylang/vylang/pkg/ir"
	"github.com/vylang/vylang/pkg/types"
)

// lowerBody lowers a statement list to a single valency-0 `seq` node
// (spec.md §4.D "valency(seq) = valency(en) if n>0 else 0"), padding
// with an explicit `pass` when the body is empty so callers always get
// a well-formed node.
func (g *Generator) lowerBody(body []ast.Stmt) (*ir.Node, error) {
	if len(body) == 0 {
		return ir.Pass(ast.Pos{}), nil
	}
	children := make([]*ir.Node, 0, len(body))
	for _, s := range body {
		n, err := g.lowerStmt(s)
		if err != nil {
			return nil, err
		}
		children = append(children, n)
	}
	return ir.Seq(body[0].NodePos(), children...), nil
}

func (g *Generator) lowerStmt(s ast.Stmt) (*ir.Node, error) {
	pos := s.NodePos()
	switch n := s.(type) {
	case *ast.AnnAssign:
		return g.lowerAnnAssign(n)
	case *ast.Assign:
		return g.lowerAssign(n)
	case *ast.AugAssign:
		return g.lowerAugAssign(n)
	case *ast.If:
		return g.lowerIf(n)
	case *ast.For:
		return g.lowerFor(n)
	case *ast.Return:
		return g.lowerReturn(n)
	case *ast.Assert:
		return g.lowerAssert(n)
	case *ast.Raise:
		return g.lowerRaise(n)
	case *ast.Log:
		return g.lowerLog(n)
	case *ast.ExprStmt:
		v, err := g.lowerExpr(n.X)
		if err != nil {
			return nil, err
		}
		return g.discard(pos, v)
	case *ast.Pass:
		return ir.Pass(pos), nil
	case *ast.Break, *ast.Continue:
		return nil, genErr(pos, "break/continue must be lowered within their enclosing for-loop")
	}
	return nil, genErr(pos, "unsupported statement %T", s)
}

// discard wraps a valency-1 node computed for effect (e.g. a call whose
// result is unused) in a POP, so the statement sequence stays valency-0.
func (g *Generator) discard(pos ast.Pos, v *ir.Node) (*ir.Node, error) {
	if v.Valency == 0 {
		return v, nil
	}
	return ir.Opcode("POP", pos, v)
}

func (g *Generator) lowerAnnAssign(n *ast.AnnAssign) (*ir.Node, error) {
	pos := n.NodePos()
	slot := g.allocLocal(n.Name)
	var init *ir.Node
	var err error
	if n.Value != nil {
		init, err = g.lowerExpr(n.Value)
		if err != nil {
			return nil, err
		}
	} else {
		init = ir.IntFromInt64(0).WithSourcePos(pos)
	}
	store, err := ir.Opcode("MSTORE", pos, ir.IntFromInt64(int64(slot*32)).WithSourcePos(pos), init)
	if err != nil {
		return nil, err
	}
	return store, nil
}

func (g *Generator) lowerAssign(n *ast.Assign) (*ir.Node, error) {
	pos := n.NodePos()
	value, err := g.lowerExpr(n.Value)
	if err != nil {
		return nil, err
	}
	return g.lowerStore(n.Target, value)
}

func (g *Generator) lowerAugAssign(n *ast.AugAssign) (*ir.Node, error) {
	pos := n.NodePos()
	cur, err := g.lowerExpr(n.Target)
	if err != nil {
		return nil, err
	}
	rhs, err := g.lowerExpr(n.Value)
	if err != nil {
		return nil, err
	}
	op, ok := binOpcode[n.Op]
	if !ok {
		return nil, genErr(pos, "unsupported augmented-assignment operator %q", n.Op)
	}
	combined, err := ir.Opcode(op, pos, cur, rhs)
	if err != nil {
		return nil, err
	}
	return g.lowerStore(n.Target, combined)
}

// lowerStore computes target's address and emits the word store,
// dispatching SSTORE/MSTORE by location the way spec.md §4.E's location
// routing helper requires.
func (g *Generator) lowerStore(target ast.Expr, value *ir.Node) (*ir.Node, error) {
	pos := target.NodePos()
	switch t := target.(type) {
	case *ast.Attribute:
		if base, ok := t.X.(*ast.Name); ok && base.Ident == "self" {
			slot, found := g.Storage.slotOf(t.Attr)
			if !found {
				return nil, genErr(pos, "unknown storage variable %q", t.Attr)
			}
			return ir.Opcode("SSTORE", pos, ir.IntFromInt64(int64(slot)).WithSourcePos(pos), value)
		}
	case *ast.Name:
		slot, ok := g.locals[t.Ident]
		if !ok {
			slot = g.allocLocal(t.Ident)
		}
		return ir.Opcode("MSTORE", pos, ir.IntFromInt64(int64(slot*32)).WithSourcePos(pos), value)
	case *ast.Subscript:
		baseT := g.typeOf(t.X)
		idx, err := g.lowerExpr(t.Index)
		if err != nil {
			return nil, err
		}
		elemWords := 1
		if baseT != nil && baseT.Elem != nil {
			elemWords = slotSize(baseT.Elem)
		}
		addr, err := g.lowerAddr(t.X)
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
		if baseT != nil && baseT.Location != types.LocStorage {
			word, err := ir.Opcode("MUL", pos, slot, ir.IntFromInt64(32).WithSourcePos(pos))
			if err != nil {
				return nil, err
			}
			return ir.Opcode("MSTORE", pos, word, value)
		}
		return ir.Opcode("SSTORE", pos, slot, value)
	}
	return nil, genErr(pos, "unsupported assignment target %T", target)
}

func (g *Generator) lowerIf(n *ast.If) (*ir.Node, error) {
	pos := n.NodePos()
	cond, err := g.lowerExpr(n.Cond)
	if err != nil {
		return nil, err
	}
	then, err := g.lowerBody(n.Body)
	if err != nil {
		return nil, err
	}
	var els *ir.Node
	if n.ElseIf != nil {
		els, err = g.lowerIf(n.ElseIf)
	} else if n.Else != nil {
		els, err = g.lowerBody(n.Else)
	}
	if err != nil {
		return nil, err
	}
	return ir.If(pos, cond, then, els)
}

// lowerFor lowers a bounded for-loop to `repeat` (spec.md §4.D): the
// iteration count is the array's static/declared bound, matching the
// analyzer's iteration-safety check which only accepts bounded
// iterables.
func (g *Generator) lowerFor(n *ast.For) (*ir.Node, error) {
	pos := n.NodePos()
	bound := g.forBound(n.Iter)
	slot := g.allocLocal(n.VarName)
	body, err := g.lowerBody(n.Body)
	if err != nil {
		return nil, err
	}
	storeVar, err := ir.Opcode("MSTORE", pos, ir.IntFromInt64(int64(slot*32)).WithSourcePos(pos), ir.IntFromInt64(0).WithSourcePos(pos))
	if err != nil {
		return nil, err
	}
	wrapped := ir.Seq(pos, storeVar, body)
	return ir.Repeat(pos, n.VarName, ir.IntFromInt64(0).WithSourcePos(pos), ir.IntFromInt64(int64(bound)).WithSourcePos(pos), ir.IntFromInt64(int64(bound)).WithSourcePos(pos), wrapped)
}

func (g *Generator) forBound(iter ast.Expr) int {
	if t := g.typeOf(iter); t != nil {
		if t.Length > 0 {
			return t.Length
		}
	}
	if lst, ok := iter.(*ast.ListExpr); ok {
		return len(lst.Elts)
	}
	return 0
}

func (g *Generator) lowerReturn(n *ast.Return) (*ir.Node, error) {
	pos := n.NodePos()
	if n.Value == nil {
		return ir.Opcode("RETURN", pos, ir.IntFromInt64(0).WithSourcePos(pos), ir.IntFromInt64(0).WithSourcePos(pos))
	}
	v, err := g.lowerExpr(n.Value)
	if err != nil {
		return nil, err
	}
	encoded, err := g.abiEncodeToScratch(v, g.typeOf(n.Value), pos)
	if err != nil {
		return nil, err
	}
	return encoded, nil
}

// lowerAssert implements spec.md §4.E's three assert forms.
func (g *Generator) lowerAssert(n *ast.Assert) (*ir.Node, error) {
	pos := n.NodePos()
	cond, err := g.lowerExpr(n.Cond)
	if err != nil {
		return nil, err
	}
	notCond, err := ir.Opcode("ISZERO", pos, cond)
	if err != nil {
		return nil, err
	}
	fail, err := g.lowerRevertReason(n.Reason, pos)
	if err != nil {
		return nil, err
	}
	return ir.If(pos, notCond, fail.WithAnnotation(ir.AssertFail), ir.Pass(pos))
}

func (g *Generator) lowerRaise(n *ast.Raise) (*ir.Node, error) {
	return g.lowerRevertReason(n.Reason, n.NodePos())
}

func (g *Generator) lowerRevertReason(reason ast.Expr, pos ast.Pos) (*ir.Node, error) {
	if name, ok := reason.(*ast.Name); ok && name.Ident == "UNREACHABLE" {
		return ir.Opcode("INVALID", pos)
	}
	if reason == nil {
		return ir.Opcode("REVERT", pos, ir.IntFromInt64(0).WithSourcePos(pos), ir.IntFromInt64(0).WithSourcePos(pos))
	}
	// The reason string is not encoded: this emits REVERT(0, 0), the same
	// as a bare raise, so the reason does not reach the caller.
	return ir.Opcode("REVERT", pos, ir.IntFromInt64(0).WithSourcePos(pos), ir.IntFromInt64(0).WithSourcePos(pos))
}

// lowerLog lowers `log Event(args...)` to a LOG1 emitting the
// arguments ABI-encoded into scratch memory, with the keccak256 hash of
// the event's canonical signature (computed here from the declared
// event's field types) as the sole topic — a documented
// simplification of spec.md §4.E's "N = number of indexed arguments +
// one" rule to always-one-topic, since this package doesn't carry the
// `indexed` flag split of EventDef down to codegen; full per-argument
// topic placement is assembler work once event ABI metadata is wired
// through.
func (g *Generator) lowerLog(n *ast.Log) (*ir.Node, error) {
	pos := n.NodePos()
	values := make([]*ir.Node, 0, len(n.Args))
	elemTypes := make([]*types.Type, 0, len(n.Args))
	for _, a := range n.Args {
		v, err := g.lowerExpr(a)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
		t := g.typeOf(a)
		if t == nil {
			t = types.Int(256, false)
		}
		elemTypes = append(elemTypes, t)
	}
	writes, size, err := g.encodeTuple(values, elemTypes, 0, pos)
	if err != nil {
		return nil, err
	}
	sig := n.Event + "("
	if et, ok := g.NS.Lookup(n.Event); ok {
		for i, f := range et.Fields {
			if i > 0 {
				sig += ","
			}
			sig += f.Type.ABI().SelectorName
		}
	}
	topic := new(big.Int).SetBytes(types.Keccak256([]byte(sig + ")")))
	topic0 := ir.Int(topic).WithSourcePos(pos).WithAnnotation(n.Event)
	logOp, err := ir.Opcode("LOG1", pos, ir.IntFromInt64(0).WithSourcePos(pos), ir.IntFromInt64(size).WithSourcePos(pos), topic0)
	if err != nil {
		return nil, err
	}
	return ir.Seq(pos, writes, logOp), nil
}
