package tt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubtreeString(t *testing.T) {
	tests := []struct {
		name string
		tree *Subtree
		want string
	}{
		{
			name: "empty brace",
			tree: &Subtree{Delimiter: DelimiterBrace},
			want: "{}",
		},
		{
			name: "binary expression",
			tree: &Subtree{Delimiter: DelimiterBrace, TokenTrees: []TokenTree{
				Literal{Text: "1"}, Punct{Char: '+'}, Literal{Text: "1"},
			}},
			want: "{1 + 1}",
		},
		{
			name: "joint puncts glue",
			tree: &Subtree{Delimiter: DelimiterParen, TokenTrees: []TokenTree{
				Ident{Text: "a"}, Punct{Char: ':', Spacing: Joint}, Punct{Char: ':'}, Ident{Text: "b"},
				Punct{Char: ','}, Punct{Char: '\'', Spacing: Joint}, Ident{Text: "x"},
			}},
			want: "(a :: b , 'x)",
		},
		{
			name: "nested and invisible",
			tree: &Subtree{TokenTrees: []TokenTree{
				Ident{Text: "foo"},
				&Subtree{Delimiter: DelimiterBracket, TokenTrees: []TokenTree{Literal{Text: `"s"`}}},
				&Subtree{TokenTrees: []TokenTree{Ident{Text: "x"}}},
			}},
			want: `foo ["s"] x`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.tree.String())
		})
	}
}

func TestCountLeavesAndClone(t *testing.T) {
	inner := &Subtree{Delimiter: DelimiterParen, TokenTrees: []TokenTree{Ident{Text: "a"}, Ident{Text: "b"}}}
	s := &Subtree{Delimiter: DelimiterBrace, TokenTrees: []TokenTree{Ident{Text: "x"}, inner}}

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 3, s.CountLeaves())

	c := s.Clone()
	assert.Equal(t, s.String(), c.String())
	c.TokenTrees[1].(*Subtree).TokenTrees[0] = Ident{Text: "z"}
	assert.Equal(t, "{x (a b)}", s.String(), "clone is deep")
	assert.Equal(t, "{x (z b)}", c.String())
}
