// Package namespace implements the scope-stack symbol table described
// in spec.md §4.B: a strict LIFO stack of scopes rooted in a single
// builtin scope, with no shadowing permitted between any two scopes on
// the stack at once. It plays the role pkg/compiler/vars.go's varScope
// plays in the teacher compiler, generalized from a single function's
// local-variable stack to the full module/function/block nesting this
// language needs, and from "slot index" payloads to arbitrary *types.Type
// declarations.
package namespace

import (
	"fmt"
	"sort"

	"github.com/vylang/vylang/pkg/ast"
	"github.com/vylang/vylang/pkg/types"
)

// Declaration-level exception kinds (spec.md §7 "Declaration"), owned
// here rather than in pkg/types since this package is what raises them.
const (
	KindNamespaceCollision    types.ExceptionKind = "NamespaceCollision"
	KindUndeclaredDefinition  types.ExceptionKind = "UndeclaredDefinition"
)

// Entry is one declared name: its type and the position it was first
// declared at, kept for NamespaceCollision's "previously declared here"
// detail.
type Entry struct {
	Type *types.Type
	Pos  ast.Pos
}

// Namespace is the scope stack. The zero value is not usable; call New.
type Namespace struct {
	scopes        []map[string]Entry
	builtinDepth  int // index of the builtin scope once entered, -1 until then
}

// New returns an empty, unentered namespace.
func New() *Namespace {
	return &Namespace{builtinDepth: -1}
}

// EnterBuiltinScope pushes the single root scope that holds the
// language's builtin functions and reserved names (spec.md §4.B
// enter_builtin_scope: "may only be entered once, and must be the
// outermost scope"). Calling it twice, or after any other scope has
// already been pushed, is a StructureException: both conditions signal
// a driver bug, not a user-facing source error.
func (n *Namespace) EnterBuiltinScope() error {
	if n.builtinDepth != -1 {
		return newErr(types.KindStructureException, ast.Pos{}, "builtin scope already entered")
	}
	if len(n.scopes) != 0 {
		return newErr(types.KindStructureException, ast.Pos{}, "builtin scope must be the outermost scope")
	}
	n.scopes = append(n.scopes, map[string]Entry{})
	n.builtinDepth = 0
	return nil
}

// EnterScope pushes a new, empty scope (module body, function body, or
// block). It must nest inside the builtin scope (spec.md §4.B
// enter_scope: "raises StructureException ... if the builtin scope has
// not yet been entered").
func (n *Namespace) EnterScope() error {
	if n.builtinDepth == -1 {
		return newErr(types.KindStructureException, ast.Pos{}, "cannot enter scope before the builtin scope")
	}
	n.scopes = append(n.scopes, map[string]Entry{})
	return nil
}

// ExitScope pops the innermost scope. Popping the builtin scope resets
// the namespace to its unentered state.
func (n *Namespace) ExitScope() {
	if len(n.scopes) == 0 {
		return
	}
	n.scopes = n.scopes[:len(n.scopes)-1]
	if len(n.scopes) == 0 {
		n.builtinDepth = -1
	}
}

// Depth reports how many scopes are currently pushed, for callers that
// need to assert balanced enter/exit pairs (e.g. a function body visit
// that must end exactly where it began).
func (n *Namespace) Depth() int {
	return len(n.scopes)
}

// Declare binds name to t in the innermost scope. Because the language
// forbids shadowing (spec.md §4.B invariant: "a name visible in any
// enclosing scope may not be redeclared in an inner one"), Declare
// checks every scope on the stack, not just the innermost, and raises
// NamespaceCollision (KindNamespaceCollision) naming the earlier
// declaration's position.
func (n *Namespace) Declare(name string, t *types.Type, pos ast.Pos) error {
	if len(n.scopes) == 0 {
		return newErr(types.KindStructureException, pos, "cannot declare %q outside any scope", name)
	}
	for _, scope := range n.scopes {
		if prev, ok := scope[name]; ok {
			return newErr(KindNamespaceCollision, pos,
				"%q shadows a name declared at %s", name, prev.Pos)
		}
	}
	n.scopes[len(n.scopes)-1][name] = Entry{Type: t, Pos: pos}
	return nil
}

// Lookup searches scopes from innermost to outermost, matching
// vars.go's getVarInfo leaf-to-root walk.
func (n *Namespace) Lookup(name string) (*types.Type, bool) {
	for i := len(n.scopes) - 1; i >= 0; i-- {
		if e, ok := n.scopes[i][name]; ok {
			return e.Type, true
		}
	}
	return nil, false
}

// LookupType implements types.ResolveNames so FromAnnotation can resolve
// struct/enum/interface/contract names declared at module scope.
func (n *Namespace) LookupType(name string) (*types.Type, bool) {
	return n.Lookup(name)
}

// MustLookup is Lookup plus an UndeclaredDefinition error (spec.md §4.B)
// carrying a Levenshtein-nearest suggestion among every name currently
// visible, the way a linter nudges a likely typo.
func (n *Namespace) MustLookup(name string, pos ast.Pos) (*types.Type, error) {
	if t, ok := n.Lookup(name); ok {
		return t, nil
	}
	if s := n.suggest(name); s != "" {
		return nil, newErr(KindUndeclaredDefinition, pos, "%q is undeclared. Did you mean %q?", name, s)
	}
	return nil, newErr(KindUndeclaredDefinition, pos, "%q is undeclared", name)
}

// suggest returns the visible name with the smallest Levenshtein
// distance to name, if any is within a plausible typo distance.
func (n *Namespace) suggest(name string) string {
	const maxDistance = 3
	best, bestDist := "", maxDistance+1
	seen := map[string]bool{}
	for _, scope := range n.scopes {
		keys := make([]string, 0, len(scope))
		for k := range scope {
			keys = append(keys, k)
		}
		sort.Strings(keys) // deterministic tie-breaking
		for _, k := range keys {
			if seen[k] {
				continue
			}
			seen[k] = true
			if d := levenshtein(name, k); d < bestDist {
				best, bestDist = k, d
			}
		}
	}
	return best
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func newErr(kind types.ExceptionKind, pos ast.Pos, format string, args ...any) error {
	return &types.Error{Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}
