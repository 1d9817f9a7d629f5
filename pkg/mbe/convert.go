package mbe

import (
	"fmt"

	"github.com/leapstack-labs/macroscope/pkg/parser"
	"github.com/leapstack-labs/macroscope/pkg/syntax"
	"github.com/leapstack-labs/macroscope/pkg/token"
	"github.com/leapstack-labs/macroscope/pkg/tt"
)

// SyntaxToTokenTree converts a TOKEN_TREE node into a token tree. Lifetimes
// become a joint `'` followed by an identifier; a punct is joint when the
// next token is punctuation with no trivia in between. Unclosed trees and
// trees holding error tokens are rejected.
func SyntaxToTokenTree(n *syntax.Node) (*tt.Subtree, error) {
	if n == nil || n.Kind() != token.TOKEN_TREE {
		return nil, newError(-1, ErrInvalidTokenTree, "expected a token tree")
	}
	return convertTree(n)
}

func convertTree(n *syntax.Node) (*tt.Subtree, error) {
	children := n.Children()
	if len(children) == 0 {
		return nil, newError(-1, ErrInvalidTokenTree, "empty token tree")
	}
	open := children[0]
	s := &tt.Subtree{Delimiter: delimiterOf(open.Kind())}
	last := len(children) - 1
	if last == 0 || children[last].Kind() != closeKind(s.Delimiter) {
		return nil, newError(-1, ErrInvalidTokenTree, "unclosed %s", open.Text())
	}

	for i := 1; i < last; i++ {
		c := children[i]
		switch {
		case c.Kind().IsTrivia():
			continue
		case c.Kind() == token.TOKEN_TREE:
			sub, err := convertTree(c)
			if err != nil {
				return nil, err
			}
			s.TokenTrees = append(s.TokenTrees, sub)
		case !c.IsToken() || c.Kind() == token.ERROR:
			return nil, newError(-1, ErrInvalidTokenTree, "unexpected %q", c.Text())
		default:
			leaves, err := convertToken(c, jointWith(children[i+1]))
			if err != nil {
				return nil, err
			}
			s.TokenTrees = append(s.TokenTrees, leaves...)
		}
	}
	return s, nil
}

// jointWith reports whether a punct directly followed by next glues to it.
func jointWith(next *syntax.Node) bool {
	if !next.IsToken() {
		return false
	}
	k := next.Kind()
	return k == token.LIFETIME || (k.IsPunct() && !isDelimiter(k))
}

func convertToken(n *syntax.Node, joint bool) ([]tt.TokenTree, error) {
	k := n.Kind()
	text := n.Text()
	switch {
	case k == token.IDENT || k == token.UNDERSCORE || k.IsKeyword():
		return []tt.TokenTree{tt.Ident{Text: text}}, nil
	case k == token.LIFETIME:
		return []tt.TokenTree{
			tt.Punct{Char: '\'', Spacing: tt.Joint},
			tt.Ident{Text: text[1:]},
		}, nil
	case k.IsLiteral():
		return []tt.TokenTree{tt.Literal{Text: text}}, nil
	case k.IsPunct():
		spacing := tt.Alone
		if joint {
			spacing = tt.Joint
		}
		return []tt.TokenTree{tt.Punct{Char: rune(text[0]), Spacing: spacing}}, nil
	}
	return nil, newError(-1, ErrInvalidTokenTree, "unexpected token %s", k)
}

func delimiterOf(k token.Kind) tt.Delimiter {
	switch k {
	case token.L_PAREN:
		return tt.DelimiterParen
	case token.L_CURLY:
		return tt.DelimiterBrace
	case token.L_BRACK:
		return tt.DelimiterBracket
	}
	return tt.DelimiterNone
}

func closeKind(d tt.Delimiter) token.Kind {
	switch d {
	case tt.DelimiterParen:
		return token.R_PAREN
	case tt.DelimiterBrace:
		return token.R_CURLY
	case tt.DelimiterBracket:
		return token.R_BRACK
	}
	return token.EOF
}

func openKind(d tt.Delimiter) token.Kind {
	switch d {
	case tt.DelimiterParen:
		return token.L_PAREN
	case tt.DelimiterBrace:
		return token.L_CURLY
	case tt.DelimiterBracket:
		return token.L_BRACK
	}
	return token.EOF
}

func isDelimiter(k token.Kind) bool {
	switch k {
	case token.L_PAREN, token.R_PAREN, token.L_CURLY, token.R_CURLY, token.L_BRACK, token.R_BRACK:
		return true
	}
	return false
}

// ---------- Token trees back to raw tokens ----------

// flattener renders token trees as raw lexer tokens, inserting a single
// space wherever tt.Subtree.String would. Invisible groups are inlined.
type flattener struct {
	raw    []token.Token
	n      int // significant tokens emitted
	offset int
}

// flatten renders trees and returns, per top-level tree, the number of
// significant tokens emitted once that tree is done. A tree that ends
// inside a glued token (the quote of a lifetime) gets -1.
func flatten(trees []tt.TokenTree) ([]token.Token, []int) {
	f := &flattener{}
	ends := make([]int, 0, len(trees))
	f.trees(trees, &ends)
	return f.raw, ends
}

func (f *flattener) emit(kind token.Kind, text string) {
	f.raw = append(f.raw, token.Token{Kind: kind, Text: text, Pos: token.Position{Offset: f.offset}})
	f.offset += len(text)
	if !kind.IsTrivia() {
		f.n++
	}
}

func (f *flattener) trees(trees []tt.TokenTree, ends *[]int) {
	needsSpace := false
	for i := 0; i < len(trees); i++ {
		if needsSpace {
			f.emit(token.WHITESPACE, " ")
		}
		needsSpace = true
		switch t := trees[i].(type) {
		case *tt.Subtree:
			f.subtree(t)
		case tt.Ident:
			f.emit(token.LookupIdent(t.Text), t.Text)
		case tt.Literal:
			f.emit(literalKind(t.Text), t.Text)
		case tt.Punct:
			if id, ok := lifetimeAt(trees, i); ok {
				f.emit(token.LIFETIME, "'"+id.Text)
				if ends != nil {
					*ends = append(*ends, -1)
				}
				i++
				break
			}
			needsSpace = t.Spacing == tt.Alone
			f.emit(punctKind(t.Char), string(t.Char))
		}
		if ends != nil {
			*ends = append(*ends, f.n)
		}
	}
}

func (f *flattener) subtree(s *tt.Subtree) {
	if s.Delimiter != tt.DelimiterNone {
		f.emit(openKind(s.Delimiter), s.Delimiter.Open())
	}
	f.trees(s.TokenTrees, nil)
	if s.Delimiter != tt.DelimiterNone {
		f.emit(closeKind(s.Delimiter), s.Delimiter.Close())
	}
}

// lifetimeAt reports whether trees[i] is the joint quote of a lifetime and
// returns its identifier.
func lifetimeAt(trees []tt.TokenTree, i int) (tt.Ident, bool) {
	p, ok := trees[i].(tt.Punct)
	if !ok || p.Char != '\'' || p.Spacing != tt.Joint || i+1 >= len(trees) {
		return tt.Ident{}, false
	}
	id, ok := trees[i+1].(tt.Ident)
	return id, ok
}

func punctKind(ch rune) token.Kind {
	if ch < 0x80 {
		if k, ok := token.LookupPunct(byte(ch)); ok {
			return k
		}
	}
	return token.ERROR
}

// literalKind classifies literal text by lexing it again.
func literalKind(text string) token.Kind {
	toks := parser.Lex(text)
	if len(toks) == 1 && toks[0].Kind.IsLiteral() {
		return toks[0].Kind
	}
	return token.ERROR
}

// parseTrees parses trees from the given entry and returns the number of
// top-level trees the parse consumed. It fails on parse errors and when the
// parse stops inside a tree.
func parseTrees(trees []tt.TokenTree, entry parser.Entry) (int, error) {
	raw, ends := flatten(trees)
	out := parser.Parse(parser.InputFromTokens(raw), entry)
	if !out.OK() {
		return 0, fmt.Errorf("%w: %s", ErrReparse, firstError(out))
	}
	if out.Consumed == 0 {
		return 0, nil
	}
	for i, end := range ends {
		if end == out.Consumed {
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("%w: parse ends inside a token", ErrReparse)
}

func firstError(out parser.Output) string {
	for _, ev := range out.Events {
		if ev.Kind == parser.EventError {
			return ev.Msg
		}
	}
	return "unknown error"
}
