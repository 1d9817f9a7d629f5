package mbe

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/macroscope/pkg/parser"
	"github.com/leapstack-labs/macroscope/pkg/token"
	"github.com/leapstack-labs/macroscope/pkg/tt"
)

// errMismatch marks a matcher that does not accept the input.
var errMismatch = errors.New("no match")

func mismatch(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errMismatch, fmt.Sprintf(format, args...))
}

// binding is what one metavariable captured: a fragment, or one binding
// per iteration when the variable sits inside a repetition.
type binding struct {
	frag     fragment
	tokens   []tt.TokenTree
	repeated bool
	items    []*binding
}

type bindings map[string]*binding

// fragmentEntries maps parsed fragments to their parser entry points.
var fragmentEntries = map[fragment]parser.Entry{
	fragExpr:  parser.EntryExpr,
	fragTy:    parser.EntryType,
	fragPat:   parser.EntryPattern,
	fragPath:  parser.EntryPath,
	fragStmt:  parser.EntryStmt,
	fragBlock: parser.EntryBlock,
	fragItem:  parser.EntryItem,
	fragVis:   parser.EntryVisibility,
	fragMeta:  parser.EntryMeta,
}

// match runs the matcher over the whole input.
func (r rule) match(input []tt.TokenTree) (bindings, error) {
	b := bindings{}
	end, err := matchOps(r.matcher, input, 0, b)
	if err != nil {
		return nil, err
	}
	if end != len(input) {
		return nil, mismatch("unexpected %q", input[end].String())
	}
	return b, nil
}

// matchOps matches ops against input from pos and returns the position
// after the match. Repetitions are greedy and never backtrack.
func matchOps(ops []op, input []tt.TokenTree, pos int, b bindings) (int, error) {
	for _, o := range ops {
		switch o.kind {
		case opLeaf:
			if pos >= len(input) || !sameLeaf(o.leaf, input[pos]) {
				return 0, mismatch("expected %q", o.leaf.String())
			}
			pos++
		case opSubtree:
			if pos >= len(input) {
				return 0, mismatch("expected %s", o.delimiter.Open())
			}
			sub, ok := input[pos].(*tt.Subtree)
			if !ok || sub.Delimiter != o.delimiter {
				return 0, mismatch("expected %s", o.delimiter.Open())
			}
			end, err := matchOps(o.ops, sub.TokenTrees, 0, b)
			if err != nil {
				return 0, err
			}
			if end != len(sub.TokenTrees) {
				return 0, mismatch("unexpected %q", sub.TokenTrees[end].String())
			}
			pos++
		case opVar:
			n, err := matchFragment(o.frag, input, pos)
			if err != nil {
				return 0, err
			}
			b[o.name] = &binding{frag: o.frag, tokens: input[pos : pos+n]}
			pos += n
		case opRepeat:
			end, err := matchRepeat(o, input, pos, b)
			if err != nil {
				return 0, err
			}
			pos = end
		}
	}
	return pos, nil
}

func matchRepeat(o op, input []tt.TokenTree, pos int, b bindings) (int, error) {
	var iters []bindings
	for o.repeat != '?' || len(iters) == 0 {
		start := pos
		if len(iters) > 0 && len(o.separator) > 0 {
			if !matchSeparator(o.separator, input, pos) {
				break
			}
			start += len(o.separator)
		}
		ib := bindings{}
		end, err := matchOps(o.ops, input, start, ib)
		if err != nil || end == pos {
			break
		}
		iters = append(iters, ib)
		pos = end
	}
	if o.repeat == '+' && len(iters) == 0 {
		return 0, mismatch("expected at least one repetition")
	}
	for _, name := range varNames(o.ops) {
		nb := &binding{repeated: true, items: make([]*binding, 0, len(iters))}
		for _, ib := range iters {
			nb.items = append(nb.items, ib[name])
		}
		b[name] = nb
	}
	return pos, nil
}

func matchSeparator(sep []tt.TokenTree, input []tt.TokenTree, pos int) bool {
	if pos+len(sep) > len(input) {
		return false
	}
	for i, s := range sep {
		if !sameLeaf(s, input[pos+i]) {
			return false
		}
	}
	return true
}

// sameLeaf compares a literal pattern token with an input token. Punct
// spacing is ignored.
func sameLeaf(pattern, input tt.TokenTree) bool {
	switch p := pattern.(type) {
	case tt.Ident:
		in, ok := input.(tt.Ident)
		return ok && in.Text == p.Text
	case tt.Literal:
		in, ok := input.(tt.Literal)
		return ok && in.Text == p.Text
	case tt.Punct:
		in, ok := input.(tt.Punct)
		return ok && in.Char == p.Char
	}
	return false
}

// matchFragment returns how many input trees the fragment accepts at pos.
func matchFragment(frag fragment, input []tt.TokenTree, pos int) (int, error) {
	if entry, ok := fragmentEntries[frag]; ok {
		n, err := parseTrees(input[pos:], entry)
		if err != nil {
			return 0, mismatch("%v", err)
		}
		if n == 0 && frag != fragVis {
			return 0, mismatch("empty fragment")
		}
		return n, nil
	}

	if pos >= len(input) {
		return 0, mismatch("unexpected end of input")
	}
	switch frag {
	case fragTT:
		if _, ok := lifetimeAt(input, pos); ok {
			return 2, nil
		}
		return gluedPunctLen(input, pos), nil
	case fragIdent:
		if id, ok := input[pos].(tt.Ident); ok && id.Text != "_" {
			return 1, nil
		}
		return 0, mismatch("expected identifier")
	case fragLifetime:
		if _, ok := lifetimeAt(input, pos); ok {
			return 2, nil
		}
		return 0, mismatch("expected lifetime")
	case fragLiteral:
		switch t := input[pos].(type) {
		case tt.Literal:
			return 1, nil
		case tt.Ident:
			if t.Text == "true" || t.Text == "false" {
				return 1, nil
			}
		case tt.Punct:
			if t.Char == '-' && pos+1 < len(input) {
				if _, ok := input[pos+1].(tt.Literal); ok {
					return 2, nil
				}
			}
		}
		return 0, mismatch("expected literal")
	}
	return 0, mismatch("unsupported fragment")
}

// gluedPunctLen returns the length of the joint punct sequence at i that
// forms one operator, or 1.
func gluedPunctLen(trees []tt.TokenTree, i int) int {
	for _, k := range token.Composites() {
		if matchesParts(trees, i, token.CompositeParts(k)) {
			return len(token.CompositeParts(k))
		}
	}
	return 1
}

func matchesParts(trees []tt.TokenTree, i int, parts []token.Kind) bool {
	if i+len(parts) > len(trees) {
		return false
	}
	for j, part := range parts {
		p, ok := trees[i+j].(tt.Punct)
		if !ok || punctKind(p.Char) != part {
			return false
		}
		if j < len(parts)-1 && p.Spacing != tt.Joint {
			return false
		}
	}
	return true
}
