package mbe

import (
	"errors"
	"fmt"
)

// Sentinel errors, compare with errors.Is.
var (
	ErrNoMatchingRule   = errors.New("no rule matches the input")
	ErrBindingMismatch  = errors.New("metavariable binding mismatch")
	ErrInvalidRules     = errors.New("invalid macro rules")
	ErrInvalidTokenTree = errors.New("invalid token tree")
	ErrReparse          = errors.New("token tree does not parse")
)

// Error is a compile or expansion error tied to one rule of a definition.
type Error struct {
	Rule  int // 0-based rule index, -1 when no rule applies
	Msg   string
	cause error
}

func newError(rule int, cause error, format string, args ...any) *Error {
	return &Error{Rule: rule, Msg: fmt.Sprintf(format, args...), cause: cause}
}

func (e *Error) Error() string {
	if e.Rule < 0 {
		return fmt.Sprintf("%v: %s", e.cause, e.Msg)
	}
	return fmt.Sprintf("rule %d: %v: %s", e.Rule+1, e.cause, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.cause
}
