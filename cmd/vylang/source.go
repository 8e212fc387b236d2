package main

import (
	"fmt"

	"github.com/vylang/vylang/pkg/ast"
)

// LoadModule resolves one positional CLI argument to an already-parsed
// module. spec.md §1 scopes the parser/tokenizer out of the core as an
// external collaborator ("source text → (external parser) → annotated
// AST"); this build carries no frontend, so the default loader reports
// that plainly rather than pretending to accept .vy source text it
// cannot read. Embedders that do have a parser (or a JSON-serialized
// AST dump) can override this hook before calling newApp().
var LoadModule = defaultLoadModule

func defaultLoadModule(path string) (*ast.Module, error) {
	return nil, fmt.Errorf("%s: no source parser is wired into this build; "+
		"vylang's core compiles an already-parsed *ast.Module — "+
		"set main.LoadModule to supply one", path)
}
