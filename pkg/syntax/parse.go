package syntax

import (
	"github.com/leapstack-labs/macroscope/pkg/parser"
	"github.com/leapstack-labs/macroscope/pkg/token"
)

// Tree is a parsed document: its root node and the parse errors.
type Tree struct {
	root   *Node
	errors []*parser.ParseError
}

// Root returns the root node.
func (t *Tree) Root() *Node {
	return t.root
}

// Errors returns the parse errors in source order.
func (t *Tree) Errors() []*parser.ParseError {
	return t.errors
}

// DebugDump renders the tree followed by one line per parse error.
func (t *Tree) DebugDump() string {
	return dumpWithErrors(t.root, t.errors)
}

// ParseText lexes and parses text from the given entry point.
func ParseText(text string, entry parser.Entry) *Tree {
	raw := parser.Lex(text)
	return ParseTokens(raw, entry)
}

// ParseTokens parses raw tokens, trivia included, from the given entry.
func ParseTokens(raw []token.Token, entry parser.Entry) *Tree {
	out := parser.Parse(parser.InputFromTokens(raw), entry)
	root, errs := Build(raw, out)
	return &Tree{root: root, errors: errs}
}

// Parse parses a whole source file. It never fails: syntax errors are
// recorded in the tree and the result is always a SOURCE_FILE.
func Parse(text string) *SourceFile {
	t := ParseText(text, parser.EntrySourceFile)
	return &SourceFile{node: t.root, tree: t}
}
