package parser

import (
	"testing"

	"github.com/leapstack-labs/macroscope/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(input string, entry Entry) Output {
	return Parse(InputFromTokens(Lex(input)), entry)
}

// opened lists the node kinds opened by out, tombstones excluded.
func opened(out Output) []token.Kind {
	var kinds []token.Kind
	for _, ev := range out.Events {
		if ev.Kind == EventOpen && ev.Node != token.TOMBSTONE {
			kinds = append(kinds, ev.Node)
		}
	}
	return kinds
}

func TestInputFromTokens(t *testing.T) {
	inputs := InputFromTokens(Lex("a::b >> c"))
	require.Len(t, inputs, 7)

	assert.Equal(t, token.COLON, inputs[1].Kind)
	assert.True(t, inputs[1].Joint)
	assert.True(t, inputs[2].Joint, "b follows without trivia")
	assert.False(t, inputs[3].Joint, "b is followed by a space")
	assert.True(t, inputs[4].Joint)
	assert.False(t, inputs[5].Joint)
	assert.False(t, inputs[6].Joint, "last token")
}

func TestFragmentConsumed(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		entry    Entry
		consumed int
	}{
		{"expr stops at comma", "a, b", EntryExpr, 1},
		{"expr with precedence", "1 + 2 * 3", EntryExpr, 5},
		{"expr method chain", "x.iter().map(f)", EntryExpr, 10},
		{"type with generics", "Vec<u8> x", EntryType, 4},
		// ">>" reaches the parser as two joint '>' tokens
		{"type with nested generics", "HashMap<K, Vec<V>>", EntryType, 9},
		{"nested generics then ident", "Vec<Vec<u8>> x", EntryType, 7},
		{"reference type", "&'a mut T", EntryType, 4},
		{"tuple struct pattern", "Some(x) => 1", EntryPattern, 4},
		{"wildcard pattern", "_ | 1", EntryPattern, 1},
		{"path", "a::b::c", EntryPath, 7},
		{"item", "struct S; fn", EntryItem, 3},
		{"let without semicolon", "let x = 1;", EntryStmt, 4},
		{"block", "{ 1 } 2", EntryBlock, 3},
		{"visibility", "pub(crate) fn", EntryVisibility, 4},
		{"literal", `"s" 1`, EntryLiteral, 1},
		{"meta", "derive(Debug)]", EntryMeta, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := parse(tt.input, tt.entry)
			assert.True(t, out.OK(), "unexpected errors in %q", tt.input)
			assert.Equal(t, tt.consumed, out.Consumed)
		})
	}
}

func TestFragmentErrors(t *testing.T) {
	assert.False(t, parse("", EntryExpr).OK())
	assert.False(t, parse("=>", EntryType).OK())
	assert.False(t, parse("1", EntryBlock).OK())
	assert.False(t, parse("x", EntryItem).OK())
	assert.False(t, parse("x", EntryLiteral).OK())
}

func TestWholeInputEntries(t *testing.T) {
	tests := []struct {
		name  string
		input string
		entry Entry
		ok    bool
	}{
		{"statements", "foo!(); let x = 1; x", EntryStatements, true},
		{"expression as statements", "1 + 1", EntryStatements, true},
		{"items", "fn f() {} struct S;", EntryItems, true},
		{"expression is not an item", "1 + 1", EntryItems, false},
		{"stray arrow", "=> x", EntryStatements, false},
		{"unmatched brace", "x }", EntryStatements, false},
		{"source file", "macro_rules! m { () => {} } m!();", EntrySourceFile, true},
		{"empty source", "", EntrySourceFile, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := parse(tt.input, tt.entry)
			assert.Equal(t, tt.ok, out.OK())
			assert.Equal(t, len(InputFromTokens(Lex(tt.input))), out.Consumed, "whole input is consumed")
		})
	}
}

func TestPathNesting(t *testing.T) {
	out := parse("a::b", EntryPath)
	require.True(t, out.OK())
	assert.Equal(t, []token.Kind{
		token.FRAGMENT, token.PATH, token.PATH, token.PATH_SEGMENT, token.NAME_REF,
		token.PATH_SEGMENT, token.NAME_REF,
	}, opened(out))
}

func TestCompositeGluing(t *testing.T) {
	out := parse("a >>= 1", EntryExpr)
	require.True(t, out.OK())

	var glued []Event
	for _, ev := range out.Events {
		if ev.Kind == EventToken && ev.N > 1 {
			glued = append(glued, ev)
		}
	}
	require.Len(t, glued, 1)
	assert.Equal(t, token.SHREQ, glued[0].Node)
	assert.Equal(t, 3, glued[0].N)

	// Separated characters never glue.
	out = parse("a > > 1", EntryExpr)
	assert.False(t, out.OK())
}

func TestMacroCallItemShape(t *testing.T) {
	out := parse("foo!();", EntrySourceFile)
	require.True(t, out.OK())
	assert.Equal(t, []token.Kind{
		token.SOURCE_FILE, token.MACRO_CALL, token.PATH, token.PATH_SEGMENT,
		token.NAME_REF, token.TOKEN_TREE,
	}, opened(out))
}

func TestMacroDefinitionShape(t *testing.T) {
	out := parse("macro_rules! foo { () => {} }", EntrySourceFile)
	require.True(t, out.OK())
	kinds := opened(out)
	assert.Contains(t, kinds, token.NAME)
	assert.Equal(t, token.MACRO_CALL, kinds[1])
}
