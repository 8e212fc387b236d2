package optimizer

import "github.com/vylang/vylang/pkg/ir"

// Optimizer is the recursive rewriter of spec.md §4.F. It carries no
// state of its own — each Optimize call is independent — but is a
// struct (rather than a bare function) so it can implement
// ir.Simplifier for pkg/codegen's cache_when_complex idiom.
type Optimizer struct{}

func New() *Optimizer { return &Optimizer{} }

// Peek implements ir.Simplifier: look ahead at what n would optimize to
// without surfacing an error, so ir.CacheWhenComplex can decide whether
// a value is cheap enough to duplicate inline or needs a `with` binding.
// A node that would raise a compile-time assertion failure is reported
// unsimplified — ir.CacheWhenComplex only inspects its shape, and
// the genuine error surfaces later when the whole tree is optimized.
func (o *Optimizer) Peek(n *ir.Node) *ir.Node {
	r, err := o.Optimize(n)
	if err != nil {
		return n
	}
	return r
}

// Optimize runs the full rewrite pass over n: children first, then the
// node itself, re-feeding any rewritten node back through its own rule
// set until nothing fires (spec.md §4.F "Re-optimization ... bounded by
// structural descent, so termination is guaranteed").
func (o *Optimizer) Optimize(n *ir.Node) (*ir.Node, error) {
	switch n.Op {
	case ir.OpLit, ir.OpPass, ir.OpEmpty, ir.OpVarList:
		return n, nil

	case ir.OpGoto, ir.OpExitTo:
		args, err := o.optimizeChildren(n.Args)
		if err != nil {
			return nil, err
		}
		if n.Op == ir.OpGoto {
			return ir.Goto(n.SourcePos, n.Name, args...), nil
		}
		return ir.ExitTo(n.SourcePos, n.Name, args...), nil

	case ir.OpLabel:
		body, err := o.Optimize(n.Args[1])
		if err != nil {
			return nil, err
		}
		cp := *n
		cp.Args = []*ir.Node{n.Args[0], body}
		cp.Gas = body.Gas
		return &cp, nil

	case ir.OpSeq:
		children, err := o.optimizeChildren(n.Args)
		if err != nil {
			return nil, err
		}
		return collapseSeq(n.SourcePos, children), nil

	case ir.OpWith:
		init, err := o.Optimize(n.Args[0])
		if err != nil {
			return nil, err
		}
		body, err := o.Optimize(n.Args[1])
		if err != nil {
			return nil, err
		}
		return ir.With(n.SourcePos, n.Name, init, body)

	case ir.OpIf:
		return o.optimizeIf(n)

	case ir.OpRepeat:
		start, err := o.Optimize(n.Args[0])
		if err != nil {
			return nil, err
		}
		count, err := o.Optimize(n.Args[1])
		if err != nil {
			return nil, err
		}
		body, err := o.Optimize(n.Args[3])
		if err != nil {
			return nil, err
		}
		return ir.Repeat(n.SourcePos, n.Name, start, count, n.Args[2], body)

	case ir.OpMulti:
		children, err := o.optimizeChildren(n.Args)
		if err != nil {
			return nil, err
		}
		return ir.Multi(n.SourcePos, children...)

	case ir.OpDeploy:
		init, err := o.Optimize(n.Args[0])
		if err != nil {
			return nil, err
		}
		runtime, err := o.Optimize(n.Args[1])
		if err != nil {
			return nil, err
		}
		immSize, _ := n.Annotation.(int)
		return ir.Deploy(n.SourcePos, init, runtime, immSize), nil

	default:
		return o.optimizeOpcode(n)
	}
}

func (o *Optimizer) optimizeChildren(args []*ir.Node) ([]*ir.Node, error) {
	out := make([]*ir.Node, len(args))
	for i, a := range args {
		r, err := o.Optimize(a)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}

// maxAlgebraIterations bounds the per-node rewrite loop. Not every rule
// shrinks the node (the GT tight-bound form, MUL-to-SHL and the truthy
// EQ rewrite keep or grow it), so this cap is what guarantees the loop
// ends.
const maxAlgebraIterations = 64

// optimizeOpcode applies constant folding, algebraic identity/
// annihilation/strength-reduction, and comparator canonicalization to
// one already-child-optimized opcode node, looping until none fire.
func (o *Optimizer) optimizeOpcode(n *ir.Node) (*ir.Node, error) {
	args, err := o.optimizeChildren(n.Args)
	if err != nil {
		return nil, err
	}
	cur, err := ir.Opcode(n.Name, n.SourcePos, args...)
	if err != nil {
		return nil, err
	}
	// ir.Opcode builds a bare node from scratch; carry over the
	// metadata pkg/codegen attached to the original (notably the
	// AssertFail annotation lowerAssert's revert branch carries), since
	// this is otherwise still the same logical node with optimized
	// children.
	cur.Typ, cur.Location, cur.HasLoc, cur.Encoding, cur.Annotation = n.Typ, n.Location, n.HasLoc, n.Encoding, n.Annotation
	for i := 0; i < maxAlgebraIterations; i++ {
		if folded, ok := foldArith(cur.Name, cur); ok {
			cur = folded
			continue
		}
		if next, fired, ferr := rewriteAlgebra(cur); ferr != nil {
			return nil, ferr
		} else if fired {
			cur = next
			continue
		}
		if next, fired, ferr := canonicalizeCompare(cur); ferr != nil {
			return nil, ferr
		} else if fired {
			cur = next
			continue
		}
		break
	}
	return cur, nil
}

// optimizeIf applies the truthy-rewrite, branch-pruning and control-
// flow-polarity rule groups of spec.md §4.F.
func (o *Optimizer) optimizeIf(n *ir.Node) (*ir.Node, error) {
	cond, err := o.Optimize(n.Args[0])
	if err != nil {
		return nil, err
	}
	cond, err = o.rewriteTruthyCond(cond)
	if err != nil {
		return nil, err
	}

	then, err := o.Optimize(n.Args[1])
	if err != nil {
		return nil, err
	}
	var els *ir.Node
	if len(n.Args) == 3 {
		els, err = o.Optimize(n.Args[2])
		if err != nil {
			return nil, err
		}
	}

	if cond.IsLiteral() {
		if cond.Value.Sign() == 0 {
			if els != nil {
				return els, nil
			}
			return ir.Seq(n.SourcePos), nil
		}
		if then.Annotation == ir.AssertFail {
			return nil, optErr(n.SourcePos, "assert condition is always false")
		}
		return then, nil
	}

	if els != nil && cond.Name != "ISZERO" {
		notCond, err := ir.Opcode("ISZERO", n.SourcePos, cond)
		if err != nil {
			return nil, err
		}
		return ir.If(n.SourcePos, notCond, els, then)
	}
	return ir.If(n.SourcePos, cond, then, els)
}

// rewriteTruthyCond implements spec.md §4.F's truthy rewrites, which
// only fire when a node directly guards an if/assert/iszero: `eq x y`
// is exchanged for the logically equivalent `iszero (sub x y)` (no
// evaluation is dropped, so this is unconditionally safe), and
// `or x <nonzero literal>` collapses to `1` (x's evaluation is preserved
// via dropKeepingEffects when x isn't provably side-effect-free).
func (o *Optimizer) rewriteTruthyCond(cond *ir.Node) (*ir.Node, error) {
	pos := cond.SourcePos
	if cond.Name == "EQ" && len(cond.Args) == 2 {
		sub, err := o.optimizeOpcode(&ir.Node{Op: "SUB", Name: "SUB", Args: cond.Args, SourcePos: pos})
		if err != nil {
			return nil, err
		}
		return o.optimizeOpcode(&ir.Node{Op: "ISZERO", Name: "ISZERO", Args: []*ir.Node{sub}, SourcePos: pos})
	}
	if cond.Name == "OR" && len(cond.Args) == 2 {
		x, y := cond.Args[0], cond.Args[1]
		if y.IsLiteral() && y.Value.Sign() != 0 {
			return dropKeepingEffects(pos, x, litOne(pos))
		}
		if x.IsLiteral() && x.Value.Sign() != 0 {
			return dropKeepingEffects(pos, y, litOne(pos))
		}
	}
	return cond, nil
}
