// Package parser implements an error-resilient recursive descent parser for
// a Rust-like language.
//
// # Usage
//
//	raw := parser.Lex(src)
//	out := parser.Parse(parser.InputFromTokens(raw), parser.EntrySourceFile)
//
// The parser does not build a tree. It emits a flat list of events (open a
// node, consume tokens, close the node, report an error) that pkg/syntax
// replays against the raw tokens, trivia included, to build a lossless tree.
//
// Input tokens are single characters for punctuation. Composite operators
// such as `::`, `=>` and `>>=` are glued on demand from joint characters, so
// the same input serves token trees (where `>>` must stay two tokens) and
// expressions.
//
// # Grammar Overview
//
//	source_file → inner_attr* item*
//	item        → attr* visibility? (fn | struct | union | enum | trait | impl
//	              | mod | use | const | static | type | extern | macro_call)
//	stmt        → let_stmt | item | expr ';'?
//	expr        → prefix_op* postfix_expr (binary_op expr)*
//
// See each grammar file for the rules of that section.
package parser

import (
	"fmt"

	"github.com/leapstack-labs/macroscope/pkg/token"
)

// Input is the parser's view of one non-trivia token.
type Input struct {
	Kind  token.Kind
	Text  string
	Joint bool // no trivia between this token and the next one
}

// InputFromTokens drops trivia from raw lexer output and computes jointness.
func InputFromTokens(raw []token.Token) []Input {
	inputs := make([]Input, 0, len(raw))
	for i, tok := range raw {
		if tok.Kind.IsTrivia() {
			continue
		}
		joint := i+1 < len(raw) && !raw[i+1].Kind.IsTrivia()
		inputs = append(inputs, Input{Kind: tok.Kind, Text: tok.Text, Joint: joint})
	}
	return inputs
}

// EventKind identifies a parse event.
type EventKind uint8

const (
	EventOpen  EventKind = iota // Open syntax node
	EventClose                  // Close the innermost open node
	EventToken                  // Consume N input tokens as one leaf
	EventError                  // Record an error at the current position
)

// Event is a tree construction instruction.
type Event struct {
	Kind EventKind
	Node token.Kind // node kind for Open, token kind for Token
	N    int        // input tokens glued into the leaf
	Msg  string     // error message
}

// Output is the result of one parse.
type Output struct {
	Events   []Event
	Consumed int // input tokens consumed
	Errors   int // error events emitted
}

// OK reports whether the parse produced no errors.
func (o Output) OK() bool {
	return o.Errors == 0
}

// Entry selects the grammar rule a parse starts from.
type Entry int

// Parse entry points.
const (
	EntrySourceFile Entry = iota
	EntryStatements
	EntryItems
	EntryExpr
	EntryType
	EntryPattern
	EntryPath
	EntryStmt
	EntryBlock
	EntryItem
	EntryVisibility
	EntryMeta
	EntryLiteral
)

// Parse runs the parser from the given entry point. Whole-input entries
// (source file, statements, items) report leftover tokens as errors.
// Fragment entries stop after one construct; callers inspect Consumed.
func Parse(inputs []Input, entry Entry) Output {
	p := &Parser{inputs: inputs}
	switch entry {
	case EntrySourceFile:
		p.sourceFile()
	case EntryStatements:
		p.macroStmts()
	case EntryItems:
		p.macroItems()
	case EntryExpr:
		p.fragment(func() { p.expr() })
	case EntryType:
		p.fragment(p.typ)
	case EntryPattern:
		p.fragment(p.patternSingle)
	case EntryPath:
		p.fragment(func() { p.path(pathType) })
	case EntryStmt:
		p.fragment(func() { p.stmt(false) })
	case EntryBlock:
		p.fragment(func() {
			if !p.at(token.L_CURLY) {
				p.error("expected a block")
				return
			}
			p.blockExpr()
		})
	case EntryItem:
		p.fragment(func() {
			if !p.item() {
				p.error("expected an item")
			}
		})
	case EntryVisibility:
		p.fragment(func() { p.visibility() })
	case EntryMeta:
		p.fragment(p.meta)
	case EntryLiteral:
		p.fragment(func() {
			if p.literal() == nil {
				p.error("expected a literal")
			}
		})
	}
	return Output{Events: p.events, Consumed: p.pos, Errors: p.errors}
}

// Parser holds the state of one parse.
type Parser struct {
	inputs []Input
	pos    int
	events []Event
	errors int
}

// ---------- Markers ----------

// Marker is an open node whose kind is decided when it is completed.
type Marker struct {
	pos int
}

// CompletedMarker is a closed node that can still be wrapped by precede.
type CompletedMarker struct {
	pos  int
	kind token.Kind
}

// start opens a new node.
func (p *Parser) start() Marker {
	p.events = append(p.events, Event{Kind: EventOpen, Node: token.TOMBSTONE})
	return Marker{pos: len(p.events) - 1}
}

// complete closes the node with the given kind.
func (m Marker) complete(p *Parser, kind token.Kind) CompletedMarker {
	p.events[m.pos].Node = kind
	p.events = append(p.events, Event{Kind: EventClose})
	return CompletedMarker{pos: m.pos, kind: kind}
}

// abandon drops the node; its children attach to the enclosing node.
func (m Marker) abandon(p *Parser) {
	if m.pos == len(p.events)-1 {
		p.events = p.events[:m.pos]
	}
}

// precede opens a new node that will enclose the completed one.
func (cm CompletedMarker) precede(p *Parser) Marker {
	p.events = append(p.events, Event{})
	copy(p.events[cm.pos+1:], p.events[cm.pos:])
	p.events[cm.pos] = Event{Kind: EventOpen, Node: token.TOMBSTONE}
	return Marker{pos: cm.pos}
}

// ---------- Token Helpers ----------

// nth returns the kind of the input token n positions ahead.
func (p *Parser) nth(n int) token.Kind {
	if p.pos+n >= len(p.inputs) {
		return token.EOF
	}
	return p.inputs[p.pos+n].Kind
}

// current returns the kind of the current input token.
func (p *Parser) current() token.Kind {
	return p.nth(0)
}

// nthText returns the text of the input token n positions ahead.
func (p *Parser) nthText(n int) string {
	if p.pos+n >= len(p.inputs) {
		return ""
	}
	return p.inputs[p.pos+n].Text
}

// atN reports whether kind starts n tokens ahead, gluing composites from
// joint single characters.
func (p *Parser) atN(n int, kind token.Kind) bool {
	parts := token.CompositeParts(kind)
	if parts == nil {
		return p.nth(n) == kind
	}
	for i, part := range parts {
		idx := p.pos + n + i
		if idx >= len(p.inputs) || p.inputs[idx].Kind != part {
			return false
		}
		if i < len(parts)-1 && !p.inputs[idx].Joint {
			return false
		}
	}
	return true
}

// at reports whether the current token is kind.
func (p *Parser) at(kind token.Kind) bool {
	return p.atN(0, kind)
}

// atAny reports whether the current token is any of kinds.
func (p *Parser) atAny(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.at(k) {
			return true
		}
	}
	return false
}

// atContextual reports whether the current token is an identifier with text.
func (p *Parser) atContextual(text string) bool {
	return p.current() == token.IDENT && p.nthText(0) == text
}

// width returns the number of input tokens kind spans.
func width(kind token.Kind) int {
	if parts := token.CompositeParts(kind); parts != nil {
		return len(parts)
	}
	return 1
}

// bump consumes the current token, which must be kind.
func (p *Parser) bump(kind token.Kind) {
	if !p.at(kind) {
		panic(fmt.Sprintf("parser: bump %s at %s", kind, p.current()))
	}
	n := width(kind)
	p.events = append(p.events, Event{Kind: EventToken, Node: kind, N: n})
	p.pos += n
}

// bumpAny consumes the current single input token as is.
func (p *Parser) bumpAny() {
	if p.current() == token.EOF {
		return
	}
	p.events = append(p.events, Event{Kind: EventToken, Node: p.current(), N: 1})
	p.pos++
}

// eat consumes kind if present.
func (p *Parser) eat(kind token.Kind) bool {
	if !p.at(kind) {
		return false
	}
	p.bump(kind)
	return true
}

// expect consumes kind or records an error.
func (p *Parser) expect(kind token.Kind) bool {
	if p.eat(kind) {
		return true
	}
	p.error(fmt.Sprintf(ErrExpected, kind))
	return false
}

// error records a parse error at the current position.
func (p *Parser) error(msg string) {
	p.events = append(p.events, Event{Kind: EventError, Msg: msg})
	p.errors++
}

// errAndBump records an error and wraps the current token in an ERROR node.
func (p *Parser) errAndBump(msg string) {
	p.error(msg)
	if p.current() == token.EOF {
		return
	}
	m := p.start()
	p.bumpAny()
	m.complete(p, token.ERROR)
}

// errRecover is errAndBump unless the current token is in the recovery set
// or closes a block, in which case only the error is recorded.
func (p *Parser) errRecover(msg string, recovery ...token.Kind) {
	if p.atAny(token.L_CURLY, token.R_CURLY) || p.atAny(recovery...) {
		p.error(msg)
		return
	}
	p.errAndBump(msg)
}

// ---------- Entry Rules ----------

func (p *Parser) sourceFile() {
	m := p.start()
	p.innerAttributes()
	p.itemsUntil(false)
	m.complete(p, token.SOURCE_FILE)
}

func (p *Parser) macroStmts() {
	m := p.start()
	for !p.at(token.EOF) {
		if p.eat(token.SEMI) {
			continue
		}
		if p.atAny(token.R_PAREN, token.R_BRACK, token.R_CURLY) {
			p.errAndBump(ErrUnmatchedClose)
			continue
		}
		before := p.pos
		p.stmt(true)
		if p.pos == before {
			p.errAndBump(ErrExpectedStmt)
		}
	}
	m.complete(p, token.MACRO_STMTS)
}

func (p *Parser) macroItems() {
	m := p.start()
	p.itemsUntil(false)
	m.complete(p, token.MACRO_ITEMS)
}

// fragment parses one construct inside a FRAGMENT root.
func (p *Parser) fragment(rule func()) {
	m := p.start()
	rule()
	m.complete(p, token.FRAGMENT)
}
