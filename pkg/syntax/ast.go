package syntax

import (
	"github.com/leapstack-labs/macroscope/pkg/parser"
	"github.com/leapstack-labs/macroscope/pkg/token"
)

// AstNode is a typed view over a syntax node. The set of views is closed:
// Cast is the only way to obtain one from an untyped node.
type AstNode interface {
	Syntax() *Node
	astNode()
}

// Cast classifies n by kind and returns its typed view, or nil when the
// kind has none.
func Cast(n *Node) AstNode {
	if n == nil || n.IsToken() {
		return nil
	}
	switch n.Kind() {
	case token.SOURCE_FILE:
		return &SourceFile{node: n}
	case token.MACRO_CALL:
		return MacroCall{node: n}
	case token.MACRO_STMTS:
		return MacroStmts{node: n}
	case token.MACRO_ITEMS:
		return MacroItems{node: n}
	case token.PATH:
		return Path{node: n}
	case token.PATH_SEGMENT:
		return PathSegment{node: n}
	case token.NAME:
		return Name{node: n}
	case token.NAME_REF:
		return NameRef{node: n}
	case token.TOKEN_TREE:
		return TokenTree{node: n}
	default:
		return nil
	}
}

// CastMacroCall returns the MACRO_CALL view of n.
func CastMacroCall(n *Node) (MacroCall, bool) {
	mc, ok := Cast(n).(MacroCall)
	return mc, ok
}

// SourceFile is the root of a parsed document.
type SourceFile struct {
	node *Node
	tree *Tree
}

func (f *SourceFile) Syntax() *Node { return f.node }
func (*SourceFile) astNode()        {}

// Errors returns the parse errors of the document.
func (f *SourceFile) Errors() []*parser.ParseError {
	if f.tree == nil {
		return nil
	}
	return f.tree.errors
}

// DebugDump renders the document tree and its parse errors.
func (f *SourceFile) DebugDump() string {
	return dumpWithErrors(f.node, f.Errors())
}

// MacroCall is `path ! name? token_tree`. Definitions made with
// `macro_rules! name { ... }` carry the optional name.
type MacroCall struct{ node *Node }

func (c MacroCall) Syntax() *Node { return c.node }
func (MacroCall) astNode()        {}

// Path returns the called path.
func (c MacroCall) Path() (Path, bool) {
	n := c.node.Child(token.PATH)
	return Path{node: n}, n != nil
}

// Name returns the name bound by a definition form.
func (c MacroCall) Name() (Name, bool) {
	n := c.node.Child(token.NAME)
	return Name{node: n}, n != nil
}

// TokenTree returns the argument or body token tree.
func (c MacroCall) TokenTree() (TokenTree, bool) {
	n := c.node.Child(token.TOKEN_TREE)
	return TokenTree{node: n}, n != nil
}

// MacroStmts is the root of an expansion reparsed as statements.
type MacroStmts struct{ node *Node }

func (s MacroStmts) Syntax() *Node { return s.node }
func (MacroStmts) astNode()        {}

// MacroItems is the root of an expansion reparsed as items.
type MacroItems struct{ node *Node }

func (s MacroItems) Syntax() *Node { return s.node }
func (MacroItems) astNode()        {}

// Path is a possibly qualified path. `a::b` is a path whose qualifier is
// `a` and whose segment is `b`.
type Path struct{ node *Node }

func (p Path) Syntax() *Node { return p.node }
func (Path) astNode()        {}

// Segment returns the last segment of the path.
func (p Path) Segment() (PathSegment, bool) {
	n := p.node.Child(token.PATH_SEGMENT)
	return PathSegment{node: n}, n != nil
}

// Qualifier returns the path before the last `::`.
func (p Path) Qualifier() (Path, bool) {
	n := p.node.Child(token.PATH)
	return Path{node: n}, n != nil
}

// PathSegment is one `::` separated element of a path.
type PathSegment struct{ node *Node }

func (s PathSegment) Syntax() *Node { return s.node }
func (PathSegment) astNode()        {}

// NameRef returns the identifier of the segment. Keyword segments such as
// `self` have none.
func (s PathSegment) NameRef() (NameRef, bool) {
	n := s.node.Child(token.NAME_REF)
	return NameRef{node: n}, n != nil
}

// Name is a binding occurrence of an identifier.
type Name struct{ node *Node }

func (n Name) Syntax() *Node { return n.node }
func (Name) astNode()        {}
func (n Name) Text() string  { return n.node.Text() }

// NameRef is a use of an identifier.
type NameRef struct{ node *Node }

func (n NameRef) Syntax() *Node { return n.node }
func (NameRef) astNode()        {}
func (n NameRef) Text() string  { return n.node.Text() }

// TokenTree is a delimited group of unparsed tokens.
type TokenTree struct{ node *Node }

func (t TokenTree) Syntax() *Node { return t.node }
func (TokenTree) astNode()        {}
