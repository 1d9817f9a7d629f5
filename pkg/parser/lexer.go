package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/leapstack-labs/macroscope/pkg/token"
)

// Lexer splits source text into raw tokens, trivia included.
// Lexing never fails: unrecognized input becomes an ERROR token.
type Lexer struct {
	input    string
	pos      int // current position in input
	line     int // current line number (1-based)
	col      int // current column number (1-based)
	start    int // offset at start of current token
	lastLine int // line at start of current token
	lastCol  int // column at start of current token
}

// NewLexer creates a new lexer for the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input: input,
		line:  1,
		col:   1,
	}
}

// Lex is a convenience wrapper around NewLexer(input).Tokenize().
func Lex(input string) []token.Token {
	return NewLexer(input).Tokenize()
}

// Tokenize converts the whole input into raw tokens. The concatenated token
// texts always equal the input.
func (l *Lexer) Tokenize() []token.Token {
	var tokens []token.Token
	for l.pos < len(l.input) {
		tokens = append(tokens, l.nextToken())
	}
	return tokens
}

func (l *Lexer) nextToken() token.Token {
	l.markStart()
	ch := l.peek()

	switch {
	case isWhitespace(ch):
		for l.pos < len(l.input) && isWhitespace(l.peek()) {
			l.advance()
		}
		return l.emit(token.WHITESPACE)

	case ch == '/' && l.peekAt(1) == '/':
		for l.pos < len(l.input) && l.peek() != '\n' {
			l.advance()
		}
		return l.emit(token.COMMENT)

	case ch == '/' && l.peekAt(1) == '*':
		return l.scanBlockComment()

	case ch == 'r' && l.peekAt(1) == '#' && isIdentStart(l.peekAt(2)):
		l.advance()
		l.advance()
		l.scanIdentRest()
		return l.emit(token.IDENT)

	case ch == 'r' && (l.peekAt(1) == '"' || (l.peekAt(1) == '#' && l.rawStringAhead(1))):
		l.advance()
		return l.scanRawString(token.RAW_STRING)

	case ch == 'b' && l.peekAt(1) == 'r' && (l.peekAt(2) == '"' || l.peekAt(2) == '#'):
		l.advance()
		l.advance()
		return l.scanRawString(token.RAW_BYTE_STRING)

	case ch == 'b' && l.peekAt(1) == '"':
		l.advance()
		return l.scanString(token.BYTE_STRING)

	case ch == 'b' && l.peekAt(1) == '\'':
		l.advance()
		return l.scanChar(token.BYTE)

	case isIdentStart(ch):
		l.scanIdentRest()
		return l.emit(token.LookupIdent(l.input[l.start:l.pos]))

	case isDigit(ch):
		return l.scanNumber()

	case ch == '"':
		return l.scanString(token.STRING)

	case ch == '\'':
		return l.scanQuote()
	}

	if ch < utf8.RuneSelf {
		if kind, ok := token.LookupPunct(byte(ch)); ok {
			l.advance()
			return l.emit(kind)
		}
	}
	l.advance()
	return l.emit(token.ERROR)
}

func (l *Lexer) scanIdentRest() {
	for l.pos < len(l.input) && isIdentContinue(l.peek()) {
		l.advance()
	}
}

func (l *Lexer) scanBlockComment() token.Token {
	// Skip /*
	l.advance()
	l.advance()
	depth := 1
	for l.pos < len(l.input) && depth > 0 {
		switch {
		case l.matchString("/*"):
			depth++
			l.advance()
			l.advance()
		case l.matchString("*/"):
			depth--
			l.advance()
			l.advance()
		default:
			l.advance()
		}
	}
	return l.emit(token.COMMENT)
}

// scanNumber scans integer and float literals including suffixes such as
// 1u8, 0xFF_u32 and 2.5e-3f64.
func (l *Lexer) scanNumber() token.Token {
	kind := token.INT_NUMBER
	if l.peek() == '0' && strings.ContainsRune("xob", l.peekAt(1)) {
		l.advance()
		l.advance()
		for l.pos < len(l.input) && (isHexDigit(l.peek()) || l.peek() == '_') {
			l.advance()
		}
		l.scanSuffix()
		return l.emit(kind)
	}

	l.scanDigits()
	// A dot starts a fraction unless it begins a range, a field or a method.
	if l.peek() == '.' && l.peekAt(1) != '.' && !isIdentStart(l.peekAt(1)) {
		kind = token.FLOAT_NUMBER
		l.advance()
		if isDigit(l.peek()) {
			l.scanDigits()
		}
	}
	if l.peek() == 'e' || l.peek() == 'E' {
		next := l.peekAt(1)
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekAt(2))) {
			kind = token.FLOAT_NUMBER
			l.advance()
			if next == '+' || next == '-' {
				l.advance()
			}
			l.scanDigits()
		}
	}
	if suffix := l.scanSuffix(); strings.HasPrefix(suffix, "f") {
		kind = token.FLOAT_NUMBER
	}
	return l.emit(kind)
}

func (l *Lexer) scanDigits() {
	for l.pos < len(l.input) && (isDigit(l.peek()) || l.peek() == '_') {
		l.advance()
	}
}

func (l *Lexer) scanSuffix() string {
	start := l.pos
	if isIdentStart(l.peek()) {
		l.scanIdentRest()
	}
	return l.input[start:l.pos]
}

// scanString scans a quoted string whose opening quote is at the current
// position. Unterminated strings run to the end of input.
func (l *Lexer) scanString(kind token.Kind) token.Token {
	l.advance()
	for l.pos < len(l.input) {
		ch := l.peek()
		l.advance()
		if ch == '\\' && l.pos < len(l.input) {
			l.advance()
			continue
		}
		if ch == '"' {
			l.scanSuffix()
			return l.emit(kind)
		}
	}
	return l.emit(kind)
}

// rawStringAhead reports whether r#..."  follows at offset n (the first #).
func (l *Lexer) rawStringAhead(n int) bool {
	i := l.pos + n
	for i < len(l.input) && l.input[i] == '#' {
		i++
	}
	return i < len(l.input) && l.input[i] == '"'
}

func (l *Lexer) scanRawString(kind token.Kind) token.Token {
	hashes := 0
	for l.peek() == '#' {
		hashes++
		l.advance()
	}
	if l.peek() != '"' {
		return l.emit(token.ERROR)
	}
	l.advance()
	closing := "\"" + strings.Repeat("#", hashes)
	for l.pos < len(l.input) {
		if l.matchString(closing) {
			for range closing {
				l.advance()
			}
			return l.emit(kind)
		}
		l.advance()
	}
	return l.emit(kind)
}

func (l *Lexer) scanChar(kind token.Kind) token.Token {
	l.advance()
	for l.pos < len(l.input) {
		ch := l.peek()
		if ch == '\n' {
			break
		}
		l.advance()
		if ch == '\\' && l.pos < len(l.input) {
			l.advance()
			continue
		}
		if ch == '\'' {
			return l.emit(kind)
		}
	}
	return l.emit(kind)
}

// scanQuote distinguishes a character literal from a lifetime.
func (l *Lexer) scanQuote() token.Token {
	next := l.peekAt(1)
	if next == '\\' {
		return l.scanChar(token.CHAR)
	}
	// 'x' is a char; 'x without a closing quote is a lifetime.
	_, size := utf8.DecodeRuneInString(l.input[min(l.pos+1, len(l.input)):])
	if next != utf8.RuneError && l.pos+1+size < len(l.input) && l.input[l.pos+1+size] == '\'' {
		return l.scanChar(token.CHAR)
	}
	if isIdentStart(next) {
		l.advance()
		l.scanIdentRest()
		return l.emit(token.LIFETIME)
	}
	l.advance()
	return l.emit(token.QUOTE)
}

func (l *Lexer) emit(kind token.Kind) token.Token {
	return token.Token{
		Kind: kind,
		Text: l.input[l.start:l.pos],
		Pos:  l.startPosition(),
	}
}

// peek returns the current rune without advancing.
func (l *Lexer) peek() rune {
	return l.peekAt(0)
}

// peekAt returns the rune n runes ahead of the current position.
func (l *Lexer) peekAt(n int) rune {
	i := l.pos
	for ; n > 0 && i < len(l.input); n-- {
		_, size := utf8.DecodeRuneInString(l.input[i:])
		i += size
	}
	if i >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[i:])
	return r
}

// advance moves to the next rune.
func (l *Lexer) advance() {
	if l.pos >= len(l.input) {
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

// matchString checks if the input at current position matches s.
func (l *Lexer) matchString(s string) bool {
	return strings.HasPrefix(l.input[l.pos:], s)
}

func (l *Lexer) markStart() {
	l.start = l.pos
	l.lastLine = l.line
	l.lastCol = l.col
}

func (l *Lexer) startPosition() token.Position {
	return token.Position{Line: l.lastLine, Column: l.lastCol, Offset: l.start}
}

func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' || r == '\v'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinue(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
