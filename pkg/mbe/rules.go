// Package mbe implements "macro by example": compiling macro_rules! bodies
// into rules and expanding token trees with them.
//
// A definition body is a sequence of rules
//
//	(matcher) => {transcriber};
//
// Matchers are token patterns with metavariables ($x:expr) and
// repetitions ($($x:expr),*). The first rule whose matcher accepts the
// input wins; its transcriber is instantiated with the bindings.
package mbe

import (
	"github.com/leapstack-labs/macroscope/pkg/tt"
)

// Rules is a compiled macro definition.
type Rules struct {
	rules []rule
}

type rule struct {
	matcher     []op
	transcriber []op
}

// opKind discriminates the elements of a compiled pattern.
type opKind uint8

const (
	opLeaf    opKind = iota // literal token
	opSubtree               // delimited group
	opVar                   // $name or $name:fragment
	opRepeat                // $( ... ) sep? op
)

type op struct {
	kind opKind

	leaf tt.TokenTree // opLeaf

	delimiter tt.Delimiter // opSubtree
	ops       []op         // opSubtree, opRepeat

	name string   // opVar
	frag fragment // opVar in matchers

	separator []tt.TokenTree // opRepeat
	repeat    rune           // opRepeat: '*', '+' or '?'
}

// Len returns the number of rules.
func (r *Rules) Len() int {
	return len(r.rules)
}

// Compile parses a macro_rules! body. The body's own delimiter is ignored.
// A body with no rules compiles; every expansion then fails.
func Compile(body *tt.Subtree) (*Rules, error) {
	trees := body.TokenTrees
	var rules []rule
	for i := 0; i < len(trees); {
		idx := len(rules)
		lhs, ok := trees[i].(*tt.Subtree)
		if !ok || lhs.Delimiter == tt.DelimiterNone {
			return nil, newError(idx, ErrInvalidRules, "expected a delimited matcher, found %q", trees[i].String())
		}
		i++
		if !isFatArrow(trees, i) {
			return nil, newError(idx, ErrInvalidRules, "expected `=>` after the matcher")
		}
		i += 2
		if i >= len(trees) {
			return nil, newError(idx, ErrInvalidRules, "missing transcriber")
		}
		rhs, ok := trees[i].(*tt.Subtree)
		if !ok || rhs.Delimiter == tt.DelimiterNone {
			return nil, newError(idx, ErrInvalidRules, "expected a delimited transcriber, found %q", trees[i].String())
		}
		i++

		matcher, err := parsePattern(lhs.TokenTrees, true)
		if err != nil {
			return nil, newError(idx, ErrInvalidRules, "matcher: %v", err)
		}
		transcriber, err := parsePattern(rhs.TokenTrees, false)
		if err != nil {
			return nil, newError(idx, ErrInvalidRules, "transcriber: %v", err)
		}
		rules = append(rules, rule{matcher: matcher, transcriber: transcriber})

		if i < len(trees) {
			if !isPunct(trees[i], ';') {
				return nil, newError(idx, ErrInvalidRules, "expected `;` between rules, found %q", trees[i].String())
			}
			i++
		}
	}
	return &Rules{rules: rules}, nil
}

func isPunct(t tt.TokenTree, ch rune) bool {
	p, ok := t.(tt.Punct)
	return ok && p.Char == ch
}

func isFatArrow(trees []tt.TokenTree, i int) bool {
	if i+1 >= len(trees) || !isPunct(trees[i], '=') || !isPunct(trees[i+1], '>') {
		return false
	}
	return trees[i].(tt.Punct).Spacing == tt.Joint
}
