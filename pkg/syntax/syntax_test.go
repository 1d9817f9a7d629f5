package syntax

import (
	"testing"

	"github.com/leapstack-labs/macroscope/pkg/parser"
	"github.com/leapstack-labs/macroscope/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func macroCalls(n *Node) []MacroCall {
	var calls []MacroCall
	for _, d := range n.Descendants() {
		if mc, ok := CastMacroCall(d); ok {
			calls = append(calls, mc)
		}
	}
	return calls
}

func TestDebugDump(t *testing.T) {
	file := Parse("foo!();")
	want := `SOURCE_FILE@[0; 7)
  MACRO_CALL@[0; 6)
    PATH@[0; 3)
      PATH_SEGMENT@[0; 3)
        NAME_REF@[0; 3)
          IDENT@[0; 3) "foo"
    EXCL@[3; 4) "!"
    TOKEN_TREE@[4; 6)
      L_PAREN@[4; 5) "("
      R_PAREN@[5; 6) ")"
  SEMI@[6; 7) ";"
`
	assert.Equal(t, want, file.DebugDump())
	assert.Empty(t, file.Errors())
}

func TestDebugDumpErrors(t *testing.T) {
	file := Parse("fn f( {}")
	dump := file.DebugDump()
	require.NotEmpty(t, file.Errors())
	assert.Contains(t, dump, "err: @")
}

func TestLeadingTriviaBelongsToParent(t *testing.T) {
	file := Parse("  // c\n  foo!()")
	calls := macroCalls(file.Syntax())
	require.Len(t, calls, 1)

	r := calls[0].Syntax().Range()
	assert.Equal(t, 9, r.Start)
	assert.Equal(t, "foo!()", calls[0].Syntax().Text())
	assert.Equal(t, token.TextRange{Start: 0, End: 15}, file.Syntax().Range())
}

func TestTextIsLossless(t *testing.T) {
	inputs := []string{
		"macro_rules! foo {\n    () => { 1 + 1 };\n}\nfn main() { foo!(); }\n",
		"fn broken( { let = ; }",
		"struct S<'a, T: Clone + 'a> where T: Copy { x: &'a T }",
		"   ",
		"",
		"} ) ]",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			file := Parse(input)
			assert.Equal(t, input, file.Syntax().Text())
			assert.Equal(t, len(input), file.Syntax().Range().End)
		})
	}
}

func TestMacroCallViews(t *testing.T) {
	file := Parse("macro_rules! foo { () => { 1 }; }\nfn main() { a::b!(x); foo![]; }")
	calls := macroCalls(file.Syntax())
	require.Len(t, calls, 3)

	def := calls[0]
	path, ok := def.Path()
	require.True(t, ok)
	assert.Equal(t, "macro_rules", path.Syntax().Text())
	name, ok := def.Name()
	require.True(t, ok)
	assert.Equal(t, "foo", name.Text())
	body, ok := def.TokenTree()
	require.True(t, ok)
	assert.Equal(t, "{ () => { 1 }; }", body.Syntax().Text())

	qualified := calls[1]
	assert.Equal(t, "a::b!(x)", qualified.Syntax().Text())
	path, ok = qualified.Path()
	require.True(t, ok)
	seg, ok := path.Segment()
	require.True(t, ok)
	ref, ok := seg.NameRef()
	require.True(t, ok)
	assert.Equal(t, "b", ref.Text())
	qual, ok := path.Qualifier()
	require.True(t, ok)
	assert.Equal(t, "a", qual.Syntax().Text())
	_, ok = qualified.Name()
	assert.False(t, ok)

	assert.Equal(t, "foo![]", calls[2].Syntax().Text())
}

func TestMacroCallExcludesSemicolon(t *testing.T) {
	for _, input := range []string{"foo!();", "fn f() { foo!(); }", "fn f() { foo!{} }"} {
		calls := macroCalls(Parse(input).Syntax())
		require.Len(t, calls, 1, input)
		assert.NotContains(t, calls[0].Syntax().Text(), ";", input)
	}
}

func TestMacroCallsInOtherPositions(t *testing.T) {
	file := Parse("fn f(x: ty!()) -> T { let p!() = e!(); }")
	var texts []string
	for _, c := range macroCalls(file.Syntax()) {
		texts = append(texts, c.Syntax().Text())
	}
	assert.Equal(t, []string{"ty!()", "p!()", "e!()"}, texts)
}

func TestCast(t *testing.T) {
	file := Parse("foo!();")
	root := file.Syntax()
	_, isFile := Cast(root).(*SourceFile)
	assert.True(t, isFile)

	call := root.Child(token.MACRO_CALL)
	require.NotNil(t, call)
	_, isCall := Cast(call).(MacroCall)
	assert.True(t, isCall)

	tt := call.Child(token.TOKEN_TREE)
	_, isTree := Cast(tt).(TokenTree)
	assert.True(t, isTree)

	assert.Nil(t, Cast(call.Child(token.EXCL)), "tokens have no view")
	assert.Nil(t, Cast(nil))

	_, ok := CastMacroCall(root)
	assert.False(t, ok)
}

func TestParseEntries(t *testing.T) {
	stmts := ParseText("let x = 1; x", parser.EntryStatements)
	assert.Equal(t, token.MACRO_STMTS, stmts.Root().Kind())
	assert.Empty(t, stmts.Errors())

	items := ParseText("fn a() {}", parser.EntryItems)
	assert.Equal(t, token.MACRO_ITEMS, items.Root().Kind())
	_, ok := Cast(items.Root()).(MacroItems)
	assert.True(t, ok)

	bad := ParseText("1 +", parser.EntryItems)
	assert.NotEmpty(t, bad.Errors())
}

func TestDescendantsPreorder(t *testing.T) {
	file := Parse("fn f() { a!(); b!(); }")
	calls := macroCalls(file.Syntax())
	require.Len(t, calls, 2)
	assert.Equal(t, "a!()", calls[0].Syntax().Text())
	assert.Equal(t, "b!()", calls[1].Syntax().Text())

	nodes := file.Syntax().Descendants()
	assert.Same(t, file.Syntax(), nodes[0])
	for _, n := range nodes {
		assert.False(t, n.IsToken())
	}
}
