// Package tt defines token trees: nested, delimited token sequences that
// macros consume and produce before they are reduced to syntax.
//
// A token tree is either a Subtree (a delimited group) or a leaf: an Ident,
// a Punct or a Literal. Multi-character operators are sequences of Punct
// leaves whose Spacing is Joint, and a lifetime is a joint `'` followed by
// an Ident.
package tt

import "strings"

// Delimiter is the bracket kind enclosing a subtree.
type Delimiter uint8

const (
	DelimiterNone    Delimiter = iota // invisible group, renders without brackets
	DelimiterParen                    // ( )
	DelimiterBrace                    // { }
	DelimiterBracket                  // [ ]
)

// Open returns the opening bracket, or "" for DelimiterNone.
func (d Delimiter) Open() string {
	switch d {
	case DelimiterParen:
		return "("
	case DelimiterBrace:
		return "{"
	case DelimiterBracket:
		return "["
	default:
		return ""
	}
}

// Close returns the closing bracket, or "" for DelimiterNone.
func (d Delimiter) Close() string {
	switch d {
	case DelimiterParen:
		return ")"
	case DelimiterBrace:
		return "}"
	case DelimiterBracket:
		return "]"
	default:
		return ""
	}
}

// Spacing tells whether a punct is immediately followed by another token.
type Spacing uint8

const (
	Alone Spacing = iota
	Joint
)

// TokenTree is a Subtree or a leaf. The set of implementations is closed.
type TokenTree interface {
	String() string
	tokenTree()
}

// Subtree is a delimited sequence of token trees.
type Subtree struct {
	Delimiter  Delimiter
	TokenTrees []TokenTree
}

// Ident is an identifier or keyword, raw identifiers keep their r# prefix.
type Ident struct {
	Text string
}

// Punct is a single punctuation character.
type Punct struct {
	Char    rune
	Spacing Spacing
}

// Literal is a numeric, character, string or byte literal.
type Literal struct {
	Text string
}

func (*Subtree) tokenTree() {}
func (Ident) tokenTree()    {}
func (Punct) tokenTree()    {}
func (Literal) tokenTree()  {}

func (i Ident) String() string   { return i.Text }
func (p Punct) String() string   { return string(p.Char) }
func (l Literal) String() string { return l.Text }

// String renders the subtree: brackets around its tokens, which are
// separated by single spaces except after a joint punct.
//
//	{1 + 1}
//	(a::b, 'x)
func (s *Subtree) String() string {
	var sb strings.Builder
	s.write(&sb)
	return sb.String()
}

func (s *Subtree) write(sb *strings.Builder) {
	sb.WriteString(s.Delimiter.Open())
	needsSpace := false
	for _, t := range s.TokenTrees {
		if needsSpace {
			sb.WriteByte(' ')
		}
		needsSpace = true
		switch t := t.(type) {
		case *Subtree:
			t.write(sb)
		case Punct:
			needsSpace = t.Spacing == Alone
			sb.WriteRune(t.Char)
		default:
			sb.WriteString(t.String())
		}
	}
	sb.WriteString(s.Delimiter.Close())
}

// Len returns the number of direct children.
func (s *Subtree) Len() int {
	return len(s.TokenTrees)
}

// CountLeaves returns the number of leaves below s, at any depth.
func (s *Subtree) CountLeaves() int {
	n := 0
	for _, t := range s.TokenTrees {
		if sub, ok := t.(*Subtree); ok {
			n += sub.CountLeaves()
			continue
		}
		n++
	}
	return n
}

// Clone returns a deep copy of s.
func (s *Subtree) Clone() *Subtree {
	out := &Subtree{Delimiter: s.Delimiter, TokenTrees: make([]TokenTree, len(s.TokenTrees))}
	for i, t := range s.TokenTrees {
		if sub, ok := t.(*Subtree); ok {
			out.TokenTrees[i] = sub.Clone()
			continue
		}
		out.TokenTrees[i] = t
	}
	return out
}
