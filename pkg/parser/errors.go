package parser

import "fmt"

// ParseError represents a parsing error with position information.
type ParseError struct {
	Offset  int // byte offset in the parsed text
	Message string
}

// expected formats an "expected X" message.
func expected(what string) string {
	return fmt.Sprintf(ErrExpected, what)
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at offset %d: %s", e.Offset, e.Message)
}

// Common error messages
const (
	ErrExpected        = "expected %s"
	ErrExpectedItem    = "expected an item"
	ErrExpectedExpr    = "expected expression"
	ErrExpectedType    = "expected type"
	ErrExpectedPattern = "expected pattern"
	ErrExpectedName    = "expected a name"
	ErrExpectedStmt    = "expected SEMI"
	ErrUnclosedTree    = "unclosed token tree"
	ErrExpectedTree    = "expected `{`, `[`, `(`"
	ErrUnmatchedClose  = "unmatched closing delimiter"
)
