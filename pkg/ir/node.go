// Package ir implements the s-expression intermediate representation
// described in spec.md §4.D: an immutable-by-convention tagged tree
// bridging pkg/codegen (which builds it) and pkg/optimizer/pkg/asm
// (which rewrite and lower it). Node is modeled as a single tagged sum
// type with exhaustive switches over Op, the way the teacher's backend
// keeps one concrete representation per opcode.Opcode rather than a
// class hierarchy (pkg/compiler/emit.go); per-node metadata (Type,
// Annotation, source position) lives on the node itself rather than in
// a side-table, since unlike the frontend AST (pkg/ast) the IR is
// rebuilt wholesale by the optimizer rather than mutated in place.
package ir

import (
	"math/big"

	"github.com/vylang/vylang/pkg/ast"
	"github.com/vylang/vylang/pkg/types"
)

// Op names the node: either a fixed-opcode mnemonic (upper-case, looked
// up in the opcode table) or one of the structured macro names. A node
// with Op == OpLit is an integer-literal leaf and Value is meaningful;
// every other Op ignores Value.
type Op string

const (
	OpLit Op = "~lit" // integer literal leaf; Value holds it

	OpSeq    Op = "seq"
	OpWith   Op = "with"
	OpIf     Op = "if"
	OpRepeat Op = "repeat"
	OpGoto   Op = "goto"
	OpExitTo Op = "exit_to"
	OpLabel  Op = "label"
	OpVarList Op = "var_list"
	OpMulti  Op = "multi"
	OpDeploy Op = "deploy"
	OpPass   Op = "pass"

	// Source-address-space tags, normalized out of the `~calldata` /
	// `~selfcode` / `~extcode` magic value strings per spec.md §4's
	// redesign note: slice/len dispatch on Node.Source instead.
	OpEmpty Op = "~empty"
)

// AssertFail tags an Annotation on the revert/invalid branch lowered
// from an `assert`/`raise` statement (pkg/codegen), so pkg/optimizer can
// tell a branch pruned down to an unconditional failure apart from one
// pruned down to an ordinary REVERT elsewhere in a function body, and
// raise a compile-time StaticAssertionException instead of silently
// emitting it.
const AssertFail = "assert_fail"

// Source is the address space a `slice`/`len` node reads from, replacing
// the source compiler's `~calldata`/`~selfcode`/`~extcode` value-string
// special case (spec.md §4 open question) with an explicit tag.
type Source int

const (
	SourceMemory Source = iota
	SourceCalldata
	SourceSelfCode
	SourceExtCode
)

// Node is one IR tree node (spec.md §4.D: `(value, args, typ?, location?,
// source_pos?, annotation?, encoding, add_gas_estimate, valency, gas)`).
type Node struct {
	Op    Op
	Name  string   // label/var_list/with binding name, or the opcode mnemonic when Op is an opcode
	Value *big.Int // OpLit
	Args  []*Node

	Typ        *types.Type
	Location   types.Location
	HasLoc     bool
	SourcePos  ast.Pos
	Annotation any
	Encoding   types.Encoding

	Source Source // only meaningful on slice/len nodes

	Valency int
	Gas     int64
}

// WithType/WithLocation/WithEncoding/WithAnnotation return n with one
// field set, matching the builder-chain idiom pkg/codegen uses when
// attaching metadata after a node is constructed.
func (n *Node) WithType(t *types.Type) *Node {
	cp := *n
	cp.Typ = t
	return &cp
}

func (n *Node) WithLocation(loc types.Location) *Node {
	cp := *n
	cp.Location = loc
	cp.HasLoc = true
	return &cp
}

func (n *Node) WithEncoding(e types.Encoding) *Node {
	cp := *n
	cp.Encoding = e
	return &cp
}

func (n *Node) WithAnnotation(a any) *Node {
	cp := *n
	cp.Annotation = a
	return &cp
}

func (n *Node) WithSourcePos(p ast.Pos) *Node {
	cp := *n
	cp.SourcePos = p
	return &cp
}

// IsLiteral reports whether n is a folded integer constant, the
// condition the optimizer and CacheWhenComplex (this package) both
// test before deciding whether a value is cheap enough to duplicate.
func (n *Node) IsLiteral() bool { return n.Op == OpLit }

// Int returns a literal leaf node for v (spec.md §4.D value: "an integer
// literal"). Valency 1, gas 3, the base cost of a PUSH; the opcode table
// has no PUSH entries, since pkg/asm chooses the PUSH width itself.
func Int(v *big.Int) *Node {
	return &Node{Op: OpLit, Value: new(big.Int).Set(v), Valency: 1, Gas: 3}
}

func IntFromInt64(v int64) *Node { return Int(big.NewInt(v)) }
