// Package syntax provides the lossless syntax tree built from parser events,
// typed views over its nodes and the debug dump used in reports.
package syntax

import (
	"strings"

	"github.com/leapstack-labs/macroscope/pkg/token"
)

// Node is an element of a syntax tree: an interior node or a token leaf.
// Trees are immutable once built.
type Node struct {
	kind     token.Kind
	offset   int
	length   int
	text     string // tokens only
	isToken  bool
	parent   *Node
	children []*Node
}

// Kind returns the syntax kind.
func (n *Node) Kind() token.Kind {
	return n.kind
}

// IsToken reports whether n is a leaf token.
func (n *Node) IsToken() bool {
	return n.isToken
}

// Parent returns the enclosing node, or nil for the root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns all direct children, tokens included.
func (n *Node) Children() []*Node {
	return n.children
}

// ChildNodes returns the direct children that are not tokens.
func (n *Node) ChildNodes() []*Node {
	var nodes []*Node
	for _, c := range n.children {
		if !c.isToken {
			nodes = append(nodes, c)
		}
	}
	return nodes
}

// Child returns the first direct child of the given kind.
func (n *Node) Child(kind token.Kind) *Node {
	for _, c := range n.children {
		if c.kind == kind {
			return c
		}
	}
	return nil
}

// Range returns the byte range covered by n.
func (n *Node) Range() token.TextRange {
	return token.TextRange{Start: n.offset, End: n.offset + n.length}
}

// Text returns the exact source text covered by n.
func (n *Node) Text() string {
	if n.isToken {
		return n.text
	}
	var sb strings.Builder
	sb.Grow(n.length)
	n.writeText(&sb)
	return sb.String()
}

func (n *Node) writeText(sb *strings.Builder) {
	if n.isToken {
		sb.WriteString(n.text)
		return
	}
	for _, c := range n.children {
		c.writeText(sb)
	}
}

// Descendants returns n and every node below it in preorder. Tokens are
// not included.
func (n *Node) Descendants() []*Node {
	var out []*Node
	n.walk(func(d *Node) {
		out = append(out, d)
	})
	return out
}

func (n *Node) walk(visit func(*Node)) {
	if n.isToken {
		return
	}
	visit(n)
	for _, c := range n.children {
		c.walk(visit)
	}
}

// Tokens returns the leaf tokens below n in order, trivia included.
func (n *Node) Tokens() []*Node {
	if n.isToken {
		return []*Node{n}
	}
	var out []*Node
	for _, c := range n.children {
		out = append(out, c.Tokens()...)
	}
	return out
}
