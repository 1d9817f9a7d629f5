package syntax

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/macroscope/pkg/parser"
	"github.com/leapstack-labs/macroscope/pkg/token"
)

// Build replays parser events over the raw tokens they were produced from.
// Leading trivia is attached to the enclosing node, so every node range
// starts at its first significant token. Raw tokens the parse did not
// consume are left out, trailing trivia excepted.
func Build(raw []token.Token, out parser.Output) (*Node, []*parser.ParseError) {
	b := &builder{raw: raw}
	for _, ev := range out.Events {
		switch ev.Kind {
		case parser.EventOpen:
			if ev.Node == token.TOMBSTONE {
				continue
			}
			b.open(ev.Node)
		case parser.EventClose:
			b.close()
		case parser.EventToken:
			b.token(ev.Node, ev.N)
		case parser.EventError:
			b.errors = append(b.errors, &parser.ParseError{Offset: b.offset, Message: ev.Msg})
		}
	}
	if b.root == nil {
		panic("syntax: parse produced no root node")
	}
	return b.root, b.errors
}

type builder struct {
	raw    []token.Token
	pos    int
	offset int
	stack  []*Node
	root   *Node
	errors []*parser.ParseError
}

func (b *builder) top() *Node {
	return b.stack[len(b.stack)-1]
}

func (b *builder) attach(n *Node) {
	parent := b.top()
	n.parent = parent
	parent.children = append(parent.children, n)
}

// flushTrivia attaches pending whitespace and comments to the open node.
func (b *builder) flushTrivia() {
	for b.pos < len(b.raw) && b.raw[b.pos].Kind.IsTrivia() {
		tok := b.raw[b.pos]
		b.attach(&Node{kind: tok.Kind, offset: b.offset, length: len(tok.Text), text: tok.Text, isToken: true})
		b.offset += len(tok.Text)
		b.pos++
	}
}

func (b *builder) open(kind token.Kind) {
	if len(b.stack) > 0 {
		b.flushTrivia()
	}
	n := &Node{kind: kind, offset: b.offset}
	if len(b.stack) > 0 {
		b.attach(n)
	} else {
		b.root = n
	}
	b.stack = append(b.stack, n)
}

func (b *builder) close() {
	if len(b.stack) == 1 {
		b.flushTrivia()
	}
	n := b.top()
	b.stack = b.stack[:len(b.stack)-1]
	if len(n.children) > 0 {
		last := n.children[len(n.children)-1]
		n.offset = min(n.offset, n.children[0].offset)
		n.length = last.offset + last.length - n.offset
	}
}

// token glues n raw non-trivia tokens into one leaf of the given kind.
func (b *builder) token(kind token.Kind, n int) {
	b.flushTrivia()
	var sb strings.Builder
	for i := 0; i < n; i++ {
		if b.pos >= len(b.raw) {
			panic(fmt.Sprintf("syntax: token event past end of input (%s)", kind))
		}
		sb.WriteString(b.raw[b.pos].Text)
		b.pos++
	}
	text := sb.String()
	b.attach(&Node{kind: kind, offset: b.offset, length: len(text), text: text, isToken: true})
	b.offset += len(text)
}
