package mbe

import (
	"fmt"

	"github.com/leapstack-labs/macroscope/pkg/tt"
)

// Expand matches input against each rule in order and instantiates the
// transcriber of the first rule that matches. The input's delimiter is
// ignored. The result is an invisible-delimited subtree.
func (r *Rules) Expand(input *tt.Subtree) (*tt.Subtree, error) {
	for i, rl := range r.rules {
		b, err := rl.match(input.TokenTrees)
		if err != nil {
			continue
		}
		out, err := transcribe(rl.transcriber, b, nil)
		if err != nil {
			return nil, newError(i, ErrBindingMismatch, "%v", err)
		}
		normalizeSpacing(out)
		return &tt.Subtree{Delimiter: tt.DelimiterNone, TokenTrees: out}, nil
	}
	return nil, newError(-1, ErrNoMatchingRule, "%d rules tried", len(r.rules))
}

// transcribe instantiates ops. idx holds the iteration of every enclosing
// repetition, outermost first.
func transcribe(ops []op, b bindings, idx []int) ([]tt.TokenTree, error) {
	var out []tt.TokenTree
	for _, o := range ops {
		switch o.kind {
		case opLeaf:
			out = append(out, o.leaf)
		case opSubtree:
			inner, err := transcribe(o.ops, b, idx)
			if err != nil {
				return nil, err
			}
			out = append(out, &tt.Subtree{Delimiter: o.delimiter, TokenTrees: inner})
		case opVar:
			bd, ok := b[o.name]
			if !ok {
				// Unknown variables are emitted as written.
				out = append(out, tt.Punct{Char: '$'}, tt.Ident{Text: o.name})
				continue
			}
			frag, err := bd.at(idx)
			if err != nil {
				return nil, fmt.Errorf("$%s: %w", o.name, err)
			}
			out = append(out, frag.emit()...)
		case opRepeat:
			n, err := repeatCount(o, b, idx)
			if err != nil {
				return nil, err
			}
			for i := 0; i < n; i++ {
				if i > 0 {
					out = append(out, o.separator...)
				}
				inner, err := transcribe(o.ops, b, append(idx[:len(idx):len(idx)], i))
				if err != nil {
					return nil, err
				}
				out = append(out, inner...)
			}
		}
	}
	return out, nil
}

// at descends through repetitions along idx. Variables bound outside a
// repetition are reused unchanged in every iteration.
func (bd *binding) at(idx []int) (*binding, error) {
	cur := bd
	for _, i := range idx {
		if !cur.repeated {
			break
		}
		if i >= len(cur.items) {
			return nil, fmt.Errorf("repetition index %d out of range", i)
		}
		cur = cur.items[i]
	}
	if cur.repeated {
		return nil, fmt.Errorf("still repeating at this depth")
	}
	return cur, nil
}

// depthAt is at without the final check: it returns the binding reached
// along idx, which is still repeated when it drives a repetition.
func (bd *binding) depthAt(idx []int) *binding {
	cur := bd
	for _, i := range idx {
		if !cur.repeated || i >= len(cur.items) {
			return cur
		}
		cur = cur.items[i]
	}
	return cur
}

// repeatCount returns how many times a transcriber repetition runs. Every
// repeating variable inside it must agree.
func repeatCount(o op, b bindings, idx []int) (int, error) {
	count := -1
	for _, name := range varNames(o.ops) {
		bd, ok := b[name]
		if !ok {
			continue
		}
		cur := bd.depthAt(idx)
		if !cur.repeated {
			continue
		}
		switch {
		case count < 0:
			count = len(cur.items)
		case count != len(cur.items):
			return 0, fmt.Errorf("$%s repeats %d times, expected %d", name, len(cur.items), count)
		}
	}
	if count < 0 {
		return 0, fmt.Errorf("repetition contains no repeating metavariable")
	}
	return count, nil
}

// emit returns a copy of the captured tokens. Expressions are wrapped in
// an invisible group so they stay one operand when substituted.
func (bd *binding) emit() []tt.TokenTree {
	tokens := make([]tt.TokenTree, len(bd.tokens))
	for i, t := range bd.tokens {
		if sub, ok := t.(*tt.Subtree); ok {
			t = sub.Clone()
		}
		tokens[i] = t
	}
	if bd.frag == fragExpr {
		return []tt.TokenTree{&tt.Subtree{Delimiter: tt.DelimiterNone, TokenTrees: tokens}}
	}
	return tokens
}

// normalizeSpacing makes joint puncts that are not followed by another
// punct alone, so substituted variables render with normal spacing.
// Lifetime quotes keep their spacing.
func normalizeSpacing(trees []tt.TokenTree) {
	for i, t := range trees {
		switch t := t.(type) {
		case *tt.Subtree:
			normalizeSpacing(t.TokenTrees)
		case tt.Punct:
			if t.Spacing != tt.Joint || t.Char == '\'' {
				continue
			}
			if i+1 < len(trees) {
				if _, ok := trees[i+1].(tt.Punct); ok {
					continue
				}
			}
			t.Spacing = tt.Alone
			trees[i] = t
		}
	}
}
