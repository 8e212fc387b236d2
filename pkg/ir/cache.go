package ir

import "github.com/vylang/vylang/pkg/ast"

// Simplifier is implemented by pkg/optimizer and passed to
// CacheWhenComplex so it can "look ahead" at whether a node would fold to a
// literal or bare variable reference before deciding how to bind it
// (spec.md §4.D cache_when_complex: "a deterministic two-step: (i) ask
// the optimizer to look ahead at node; (ii) choose inline vs wrap
// accordingly"). Declared here rather than imported from pkg/optimizer
// to avoid an import cycle (pkg/optimizer itself operates on *ir.Node).
type Simplifier interface {
	Peek(n *Node) *Node
}

// CacheWhenComplex is the canonical idiom for consuming a value at most
// once (spec.md §4.D). If simplifying node yields a literal or a bare
// variable/opcode-free leaf, the value is cheap to duplicate and body is
// called directly with it inlined; otherwise node is evaluated once into
// a fresh `with` binding and body is called with a reference to that
// binding.
func CacheWhenComplex(pos ast.Pos, name string, node *Node, simplify Simplifier, body func(val *Node) (*Node, error)) (*Node, error) {
	peeked := node
	if simplify != nil {
		peeked = simplify.Peek(node)
	}
	if peeked.IsLiteral() || isCheapLeaf(peeked) {
		return body(peeked)
	}
	inner, err := body(&Node{Op: Op(name), Name: name, Valency: 1, SourcePos: pos})
	if err != nil {
		return nil, err
	}
	return With(pos, name, node, inner)
}

// isCheapLeaf reports whether n is free of side effects and cheap
// enough to duplicate without a `with` binding: an already-bound local
// reference (zero-arity node naming a `with`/argument slot) costs
// nothing extra to re-read.
func isCheapLeaf(n *Node) bool {
	if _, isOpcode := lookupOpcode(n.Name); isOpcode && n.Op == Op(n.Name) {
		return false
	}
	return len(n.Args) == 0 && n.Op != OpGoto && n.Op != OpExitTo
}
