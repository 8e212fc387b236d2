package ir

import "fmt"

// Sprint renders n as a parenthesized s-expression, the textual form
// spec.md §6's "ir"/"opt_ir" output formats name. Purely diagnostic: no
// stage downstream of pkg/asm reads this back in.
func Sprint(n *Node) string {
	var buf []byte
	buf = appendNode(buf, n)
	return string(buf)
}

func appendNode(buf []byte, n *Node) []byte {
	if n == nil {
		return append(buf, "()"...)
	}
	if n.Op == OpLit {
		return append(buf, n.Value.String()...)
	}
	label := n.Name
	if label == "" {
		label = string(n.Op)
	}
	buf = append(buf, '(')
	buf = append(buf, label...)
	for _, a := range n.Args {
		buf = append(buf, ' ')
		buf = appendNode(buf, a)
	}
	buf = append(buf, ')')
	return buf
}

// String implements fmt.Stringer so %v/%s on a *Node prints its
// s-expression form directly, e.g. in test failure diffs.
func (n *Node) String() string { return Sprint(n) }

var _ fmt.Stringer = (*Node)(nil)
