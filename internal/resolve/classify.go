package resolve

import (
	"github.com/leapstack-labs/macroscope/pkg/mbe"
	"github.com/leapstack-labs/macroscope/pkg/syntax"
	"github.com/leapstack-labs/macroscope/pkg/tt"
)

// OutcomeKind is the shape an expansion was reinterpreted as.
type OutcomeKind uint8

const (
	OutcomeStatements OutcomeKind = iota
	OutcomeItems
	OutcomeOpaque
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeStatements:
		return "statements"
	case OutcomeItems:
		return "items"
	case OutcomeOpaque:
		return "opaque"
	}
	return "unknown"
}

// Outcome is a classified expansion. Syntax is nil for opaque outcomes.
type Outcome struct {
	Kind   OutcomeKind
	Syntax *syntax.Node
	Tokens *tt.Subtree
}

// Text returns the reparsed syntax text, or the token rendering when the
// expansion could not be reparsed.
func (o Outcome) Text() string {
	if o.Syntax != nil {
		return o.Syntax.Text()
	}
	return o.Tokens.String()
}

// Scannable reports whether the outcome has a tree that can contain
// further invocations.
func (o Outcome) Scannable() bool {
	return o.Syntax != nil
}

// classify reparses tokens as statements, then as items, and falls back to
// the opaque token form.
func classify(tokens *tt.Subtree) Outcome {
	if tree, err := mbe.ParseStatements(tokens); err == nil {
		return Outcome{Kind: OutcomeStatements, Syntax: tree.Root(), Tokens: tokens}
	}
	if tree, err := mbe.ParseItems(tokens); err == nil {
		return Outcome{Kind: OutcomeItems, Syntax: tree.Root(), Tokens: tokens}
	}
	return Outcome{Kind: OutcomeOpaque, Tokens: tokens}
}
