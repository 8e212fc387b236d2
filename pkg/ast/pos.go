// Package ast defines the annotated syntax tree that the external
// parser/tokenizer hands to the semantic analyzer. The parser itself is
// out of scope (spec.md §1); this package only fixes the shape of its
// output so that pkg/semantics and pkg/codegen have something concrete to
// walk.
package ast

import "fmt"

// Pos is a source position: 1-based line and column, plus the file it
// came from. Every node carries one so that diagnostics (spec.md §7) can
// point at source.
type Pos struct {
	File   string
	Line   int
	Col    int
	EndLine int
	EndCol  int
}

func (p Pos) String() string {
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Col)
}

// IsZero reports whether the position was never set (synthesized nodes,
// e.g. constant-folding replacements, may legitimately lack one).
func (p Pos) IsZero() bool {
	return p.File == "" && p.Line == 0 && p.Col == 0
}
