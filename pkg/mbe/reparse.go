package mbe

import (
	"fmt"

	"github.com/leapstack-labs/macroscope/pkg/parser"
	"github.com/leapstack-labs/macroscope/pkg/syntax"
	"github.com/leapstack-labs/macroscope/pkg/tt"
)

// ParseStatements parses an expansion as a statement list rooted at
// MACRO_STMTS. Tokens are separated by single spaces as in
// tt.Subtree.String, so the tree text matches the token rendering.
func ParseStatements(s *tt.Subtree) (*syntax.Tree, error) {
	return reparse(s, parser.EntryStatements)
}

// ParseItems parses an expansion as an item list rooted at MACRO_ITEMS.
func ParseItems(s *tt.Subtree) (*syntax.Tree, error) {
	return reparse(s, parser.EntryItems)
}

func reparse(s *tt.Subtree, entry parser.Entry) (*syntax.Tree, error) {
	raw, _ := flatten([]tt.TokenTree{s})
	tree := syntax.ParseTokens(raw, entry)
	if errs := tree.Errors(); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrReparse, errs[0].Message)
	}
	return tree, nil
}
