package mbe

import (
	"fmt"

	"github.com/leapstack-labs/macroscope/pkg/tt"
)

// fragment is the syntactic category a matcher metavariable accepts.
type fragment uint8

const (
	fragNone fragment = iota // transcriber variables
	fragIdent
	fragTT
	fragLifetime
	fragLiteral
	fragExpr
	fragTy
	fragPat
	fragPath
	fragStmt
	fragBlock
	fragItem
	fragVis
	fragMeta
)

var fragments = map[string]fragment{
	"ident":     fragIdent,
	"tt":        fragTT,
	"lifetime":  fragLifetime,
	"literal":   fragLiteral,
	"expr":      fragExpr,
	"expr_2021": fragExpr,
	"ty":        fragTy,
	"pat":       fragPat,
	"pat_param": fragPat,
	"path":      fragPath,
	"stmt":      fragStmt,
	"block":     fragBlock,
	"item":      fragItem,
	"vis":       fragVis,
	"meta":      fragMeta,
}

// parsePattern compiles the tokens of a matcher or a transcriber.
func parsePattern(trees []tt.TokenTree, matcher bool) ([]op, error) {
	ops, err := parseOps(trees, matcher)
	if err != nil {
		return nil, err
	}
	if matcher {
		seen := map[string]bool{}
		for _, name := range varNames(ops) {
			if seen[name] {
				return nil, fmt.Errorf("duplicate matcher binding $%s", name)
			}
			seen[name] = true
		}
	}
	return ops, nil
}

func parseOps(trees []tt.TokenTree, matcher bool) ([]op, error) {
	var ops []op
	for i := 0; i < len(trees); i++ {
		switch t := trees[i].(type) {
		case *tt.Subtree:
			inner, err := parseOps(t.TokenTrees, matcher)
			if err != nil {
				return nil, err
			}
			ops = append(ops, op{kind: opSubtree, delimiter: t.Delimiter, ops: inner})
			continue
		case tt.Punct:
			if t.Char != '$' {
				break
			}
			if i+1 < len(trees) {
				switch next := trees[i+1].(type) {
				case tt.Ident:
					v, n, err := parseVar(trees, i+1, next, matcher)
					if err != nil {
						return nil, err
					}
					ops = append(ops, v)
					i = n - 1
					continue
				case *tt.Subtree:
					if next.Delimiter == tt.DelimiterParen {
						rep, n, err := parseRepeat(trees, i+1, matcher)
						if err != nil {
							return nil, err
						}
						ops = append(ops, rep)
						i = n - 1
						continue
					}
				}
			}
			if matcher {
				return nil, fmt.Errorf("unexpected `$`")
			}
		}
		ops = append(ops, op{kind: opLeaf, leaf: trees[i]})
	}
	return ops, nil
}

// parseVar compiles `$name` (transcriber) or `$name:frag` (matcher) whose
// name is trees[i]. It returns the op and the index after it.
func parseVar(trees []tt.TokenTree, i int, name tt.Ident, matcher bool) (op, int, error) {
	if !matcher {
		if name.Text == "crate" {
			return op{kind: opLeaf, leaf: tt.Ident{Text: "$crate"}}, i + 1, nil
		}
		return op{kind: opVar, name: name.Text}, i + 1, nil
	}
	if i+2 >= len(trees) || !isPunct(trees[i+1], ':') {
		return op{}, 0, fmt.Errorf("missing fragment specifier for $%s", name.Text)
	}
	spec, ok := trees[i+2].(tt.Ident)
	if !ok {
		return op{}, 0, fmt.Errorf("invalid fragment specifier for $%s", name.Text)
	}
	frag, ok := fragments[spec.Text]
	if !ok {
		return op{}, 0, fmt.Errorf("unknown fragment specifier %q", spec.Text)
	}
	return op{kind: opVar, name: name.Text, frag: frag}, i + 3, nil
}

// parseRepeat compiles `$( ... ) sep? op` whose group is trees[i]. It
// returns the op and the index after the repetition operator.
func parseRepeat(trees []tt.TokenTree, i int, matcher bool) (op, int, error) {
	group := trees[i].(*tt.Subtree)
	inner, err := parseOps(group.TokenTrees, matcher)
	if err != nil {
		return op{}, 0, err
	}
	rep := op{kind: opRepeat, ops: inner}
	k := i + 1
	if kind, ok := repeatOp(trees, k); ok {
		rep.repeat = kind
		return rep, k + 1, nil
	}
	if k >= len(trees) {
		return op{}, 0, fmt.Errorf("missing repetition operator")
	}
	if _, ok := trees[k].(*tt.Subtree); ok || isPunct(trees[k], '$') {
		return op{}, 0, fmt.Errorf("invalid repetition separator %q", trees[k].String())
	}
	// Joint puncts glue into one separator such as `=>`, but never swallow
	// the repetition operator itself.
	sep := []tt.TokenTree{trees[k]}
	k++
	for len(sep) < 3 && k < len(trees) {
		prev, ok := sep[len(sep)-1].(tt.Punct)
		next, nextOK := trees[k].(tt.Punct)
		if !ok || !nextOK || prev.Spacing != tt.Joint {
			break
		}
		if _, isOp := repeatOp(trees, k); isOp {
			if _, more := repeatOp(trees, k+1); !more {
				break
			}
		}
		sep = append(sep, next)
		k++
	}
	kind, ok := repeatOp(trees, k)
	if !ok {
		return op{}, 0, fmt.Errorf("expected one of `*`, `+` or `?` after the separator")
	}
	rep.separator = sep
	rep.repeat = kind
	return rep, k + 1, nil
}

func repeatOp(trees []tt.TokenTree, k int) (rune, bool) {
	if k >= len(trees) {
		return 0, false
	}
	p, ok := trees[k].(tt.Punct)
	if !ok {
		return 0, false
	}
	switch p.Char {
	case '*', '+', '?':
		return p.Char, true
	}
	return 0, false
}

// varNames lists the metavariables of ops in order, repetitions included.
func varNames(ops []op) []string {
	var names []string
	for _, o := range ops {
		switch o.kind {
		case opVar:
			names = append(names, o.name)
		case opSubtree, opRepeat:
			names = append(names, varNames(o.ops)...)
		}
	}
	return names
}
