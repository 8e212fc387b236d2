package ast

// Annotations is the side-table that carries per-node analysis results
// without mutating the tree itself (design notes §9: "shared per-node
// metadata ... lives in a side-table keyed by node identity"). Keys are
// Expr values, which are always pointers to one of the concrete node
// structs in this package, so map identity is node identity.
//
// TypeOf is populated by the third semantic-analysis pass (spec.md §4.C
// "Annotation pass") and is the only place an Expr's concrete type is
// recorded; spec.md §3 invariant (i) requires every Expr to have exactly
// one entry here once analysis completes successfully.
type Annotations struct {
	// TypeOf maps an expression to its resolved concrete type. The value
	// is `any` here to avoid an import cycle with pkg/types; callers type-
	// assert to *types.Type.
	TypeOf map[Expr]any

	// ConstValue holds the folded compile-time value for expressions that
	// validate_numeric_op/constant folding (spec.md §4.A) reduced to a
	// literal. Absence means "not a compile-time constant".
	ConstValue map[Expr]any

	// IsTerminus marks statements from which control flow cannot fall
	// through (spec.md glossary: Terminus), populated by the function
	// visitor's return-path check.
	IsTerminus map[Stmt]bool
}

// NewAnnotations allocates an empty side-table for one compilation unit.
func NewAnnotations() *Annotations {
	return &Annotations{
		TypeOf:     make(map[Expr]any),
		ConstValue: make(map[Expr]any),
		IsTerminus: make(map[Stmt]bool),
	}
}
