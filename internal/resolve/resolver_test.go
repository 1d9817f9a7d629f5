package resolve

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/leapstack-labs/macroscope/internal/testutil"
	"github.com/leapstack-labs/macroscope/pkg/syntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolveText(t *testing.T, text string, recursive bool, opts ...Option) *Result {
	t.Helper()
	opts = append([]Option{WithLogger(testutil.NewTestLogger(t))}, opts...)
	res, err := New(opts...).Resolve(text, recursive)
	require.NoError(t, err)
	return res
}

func callSites(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.CallSiteText
	}
	return out
}

func diagnosticKinds(res *Result) []DiagnosticKind {
	var out []DiagnosticKind
	for _, d := range res.Diagnostics {
		out = append(out, d.Kind)
	}
	return out
}

func TestResolve_NoMacros(t *testing.T) {
	for _, recursive := range []bool{false, true} {
		res := resolveText(t, "fn main() { let x = 1; }", recursive)
		assert.Empty(t, res.MacroRules)
		assert.Empty(t, res.Calls)
		assert.Empty(t, res.Diagnostics)
		assert.True(t, strings.HasPrefix(res.SyntaxNodes, "SOURCE_FILE@[0; 24)"), res.SyntaxNodes)
	}
}

func TestResolve_SingleInvocation(t *testing.T) {
	res := resolveText(t, "macro_rules! foo { () => { 1 + 1 }; }\nfoo!();", false)

	assert.Equal(t, []string{"foo {() => {1 + 1} ;}"}, res.MacroRules)
	want := []*Node{{CallSiteText: "foo!()", ExpansionText: "1 + 1", Children: []*Node{}}}
	if diff := cmp.Diff(want, res.Calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_Shadowing(t *testing.T) {
	src := `
macro_rules! foo { () => { 1 } }
macro_rules! foo { () => { 2 } }
foo!();
`
	res := resolveText(t, src, false)
	require.Len(t, res.Calls, 1)
	assert.Equal(t, "2", res.Calls[0].ExpansionText)
	assert.Equal(t, []string{"foo {() => {2}}"}, res.MacroRules)
}

func TestResolve_ShadowingAppliesToEarlierInvocations(t *testing.T) {
	// Definitions of a level are registered before any call is expanded.
	src := `
macro_rules! foo { () => { 1 } }
foo!();
macro_rules! foo { () => { 2 } }
`
	res := resolveText(t, src, false)
	require.Len(t, res.Calls, 1)
	assert.Equal(t, "2", res.Calls[0].ExpansionText)
}

const nestedSource = `
macro_rules! inner { () => { 1 } }
macro_rules! outer { () => { inner!(); } }
outer!();
`

func TestResolve_RecursionGating(t *testing.T) {
	flat := resolveText(t, nestedSource, false)
	require.Len(t, flat.Calls, 1)
	assert.Equal(t, "inner ! () ;", flat.Calls[0].ExpansionText)
	assert.Empty(t, flat.Calls[0].Children)
	assert.NotNil(t, flat.Calls[0].Children)

	deep := resolveText(t, nestedSource, true)
	want := []*Node{{
		CallSiteText:  "outer!()",
		ExpansionText: "inner ! () ;",
		Children: []*Node{
			{CallSiteText: "inner ! ()", ExpansionText: "1", Children: []*Node{}},
		},
	}}
	if diff := cmp.Diff(want, deep.Calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_OrderPreserved(t *testing.T) {
	defs := `
macro_rules! a { () => { 1 } }
macro_rules! b { () => { 2 } }
macro_rules! c { () => { 3 } }
`
	res := resolveText(t, defs+"c!(); a!(); b!();", false)
	assert.Equal(t, []string{"c!()", "a!()", "b!()"}, callSites(res.Calls))

	res = resolveText(t, defs+"c!(); nope!(); a!(oops); b!();", false)
	assert.Equal(t, []string{"c!()", "b!()"}, callSites(res.Calls))
	assert.Equal(t, []DiagnosticKind{DiagUnresolvedName, DiagExpansionFailed}, diagnosticKinds(res))
}

func TestResolve_SilentDrop(t *testing.T) {
	res := resolveText(t, "macro_rules! a { () => { 1 } }\nmissing!(); a!();", false)
	assert.Equal(t, []string{"a!()"}, callSites(res.Calls))
	require.Len(t, res.Diagnostics, 1)
	assert.ErrorIs(t, res.Diagnostics[0].Reason, ErrUnresolvedName)
	assert.Equal(t, "missing!()", res.Diagnostics[0].CallSite)

	data, err := res.JSON()
	require.NoError(t, err)
	var report struct {
		Calls []*Node `json:"calls"`
	}
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, []string{"a!()"}, callSites(report.Calls))
	assert.Contains(t, res.SyntaxNodes, `"missing"`)
}

func TestResolve_OpaqueFallback(t *testing.T) {
	res := resolveText(t, "macro_rules! arrow { () => { => } }\narrow!();", true)
	require.Len(t, res.Calls, 1)
	assert.Equal(t, "=>", res.Calls[0].ExpansionText)
	assert.Empty(t, res.Calls[0].Children)
}

func TestResolve_ItemExpansion(t *testing.T) {
	res := resolveText(t, "macro_rules! mk { ($n:ident) => { struct $n; impl $n {} } }\nmk!(Foo);", false)
	require.Len(t, res.Calls, 1)
	assert.Equal(t, "struct Foo ; impl Foo {}", res.Calls[0].ExpansionText)
}

func TestResolve_MalformedDefinitionIsNotAnInvocation(t *testing.T) {
	res := resolveText(t, "macro_rules! broken { x }\nbroken!();", false)
	assert.Empty(t, res.MacroRules)
	assert.Empty(t, res.Calls)
	assert.Equal(t, []DiagnosticKind{DiagMalformedDefinition, DiagUnresolvedName}, diagnosticKinds(res))
}

func TestResolve_QualifiedPaths(t *testing.T) {
	res := resolveText(t, "macro_rules! m { () => { 1 } }\nfn f() { a::b::m!(); }", false)
	assert.Equal(t, []string{"a::b::m!()"}, callSites(res.Calls))

	// Only a bare macro_rules! path defines a macro.
	res = resolveText(t, "std::macro_rules! m { () => { 1 } }\nm!();", false)
	assert.Empty(t, res.MacroRules)
	assert.Empty(t, res.Calls)
}

func TestResolve_DefinitionsFromExpansions(t *testing.T) {
	src := `
macro_rules! def { () => { macro_rules! late { () => { 7 } } } }
macro_rules! use_late { () => { late!(); } }
def!();
use_late!();
late!();
`
	flat := resolveText(t, src, false)
	assert.Equal(t, []string{"def!()", "use_late!()"}, callSites(flat.Calls))
	assert.NotContains(t, flat.MacroRules, "late {() => {7}}")

	deep := resolveText(t, src, true)
	require.Len(t, deep.Calls, 2)
	assert.Contains(t, deep.MacroRules, "late {() => {7}}")
	assert.Empty(t, deep.Calls[0].Children)
	require.Len(t, deep.Calls[1].Children, 1)
	assert.Equal(t, "7", deep.Calls[1].Children[0].ExpansionText)
}

func TestResolve_DepthBound(t *testing.T) {
	const src = "macro_rules! f { () => { f!(); } }\nf!();"

	maxDepth := func(res *Result) int {
		deepest := -1
		res.Walk(func(_ *Node, depth int) {
			deepest = max(deepest, depth)
		})
		return deepest
	}

	res := resolveText(t, src, false)
	assert.Equal(t, 1, res.CallCount())
	assert.Empty(t, res.Diagnostics)

	res = resolveText(t, src, true)
	assert.Equal(t, DefaultMaxDepth+1, res.CallCount())
	assert.Equal(t, DefaultMaxDepth, maxDepth(res))
	assert.Equal(t, []DiagnosticKind{DiagDepthExceeded}, diagnosticKinds(res))

	res = resolveText(t, src, true, WithMaxDepth(2))
	assert.Equal(t, 3, res.CallCount())
	require.Len(t, res.Diagnostics, 1)
	assert.ErrorIs(t, res.Diagnostics[0].Reason, ErrDepthExceeded)
	assert.Equal(t, "f ! ()", res.Diagnostics[0].CallSite)
}

func TestResolve_DepthBoundIgnoresLeaves(t *testing.T) {
	res := resolveText(t, nestedSource, true, WithMaxDepth(1))
	assert.Equal(t, 2, res.CallCount())
	assert.Empty(t, res.Diagnostics)
}

func countKind(res *Result, kind DiagnosticKind) int {
	n := 0
	for _, d := range res.Diagnostics {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

func TestResolve_ExpansionBudget(t *testing.T) {
	const src = "macro_rules! f { () => { f!(); f!(); } }\nf!();"

	start := time.Now()
	res := resolveText(t, src, true)
	assert.Less(t, time.Since(start), 30*time.Second)
	assert.Equal(t, DefaultMaxExpansions, res.CallCount())
	assert.Equal(t, 1, countKind(res, DiagBudgetExceeded))

	res = resolveText(t, src, true, WithMaxExpansions(100))
	assert.Equal(t, 100, res.CallCount())
	require.Equal(t, 1, countKind(res, DiagBudgetExceeded))
	for _, d := range res.Diagnostics {
		if d.Kind == DiagBudgetExceeded {
			assert.ErrorIs(t, d.Reason, ErrBudgetExceeded)
		}
	}

	data, err := res.JSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"call_site_text":"f!()"`)
}

func TestResolve_ExpansionBudgetUnbounded(t *testing.T) {
	const src = "macro_rules! f { () => { f!(); f!(); } }\nf!();"

	res := resolveText(t, src, true, WithMaxDepth(4), WithMaxExpansions(-1))
	assert.Equal(t, 31, res.CallCount())
	assert.Zero(t, countKind(res, DiagBudgetExceeded))
}

func TestResolve_TokenBudget(t *testing.T) {
	const src = "macro_rules! d { ($($t:tt)*) => { d!($($t)* $($t)*); } }\nd!(x);"

	res := resolveText(t, src, true, WithMaxTokens(1000))
	assert.Less(t, res.CallCount(), 12)
	assert.Equal(t, 1, countKind(res, DiagBudgetExceeded))
	assert.Zero(t, countKind(res, DiagDepthExceeded))

	res = resolveText(t, src, true, WithMaxDepth(3), WithMaxTokens(-1))
	assert.Equal(t, 4, res.CallCount())
	assert.Zero(t, countKind(res, DiagBudgetExceeded))
}

func TestResolve_BudgetAppliesAcrossTopLevelCalls(t *testing.T) {
	logger, logs := testutil.CaptureLogger(t)
	res, err := New(WithLogger(logger), WithMaxExpansions(2)).
		Resolve("macro_rules! a { () => { 1 } }\na!(); a!(); a!();", false)
	require.NoError(t, err)

	assert.Equal(t, []string{"a!()", "a!()"}, callSites(res.Calls))
	assert.Equal(t, []DiagnosticKind{DiagBudgetExceeded}, diagnosticKinds(res))
	assert.Contains(t, logs.String(), "kind=budget_exceeded")
}

func TestNew_Defaults(t *testing.T) {
	assert.Equal(t, DefaultMaxDepth, New().MaxDepth())
	assert.Equal(t, DefaultMaxDepth, New(WithMaxDepth(0)).MaxDepth())
	assert.Equal(t, -1, New(WithMaxDepth(-1)).MaxDepth())
	assert.Equal(t, 5, New(WithMaxDepth(5)).MaxDepth())
}

func TestCollect_Idempotent(t *testing.T) {
	src := `
macro_rules! a { () => { 1 } }
macro_rules! b { () => { 2 } }
macro_rules! a { () => { 3 } }
a!(); b!();
`
	root := syntax.Parse(src).Syntax()
	ctx := New(WithLogger(testutil.NewTestLogger(t))).newContext()

	firstCalls := ctx.collect(root)
	first := ctx.Definitions.Strings()
	secondCalls := ctx.collect(root)
	second := ctx.Definitions.Strings()

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("definition table changed on rescan (-first +second):\n%s", diff)
	}
	assert.Equal(t, []string{"a {() => {3}}", "b {() => {2}}"}, second)
	assert.Equal(t, 2, ctx.Definitions.Len())
	assert.Equal(t, 6, ctx.Definitions.Inserted())
	assert.Len(t, firstCalls, 2)
	assert.Len(t, secondCalls, 2)
}

func TestResult_JSON(t *testing.T) {
	res := resolveText(t, "fn main() {}", false)
	data, err := res.JSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []any{}, decoded["macro_rules"])
	assert.Equal(t, []any{}, decoded["calls"])
	assert.Contains(t, decoded, "syntax_nodes")
	assert.NotContains(t, decoded, "Diagnostics")

	res = resolveText(t, nestedSource, false)
	data, err = res.JSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"call_site_text":"outer!()"`)
	assert.Contains(t, string(data), `"children":[]`)
}

func TestDefinitionTable(t *testing.T) {
	table := NewDefinitionTable()
	assert.False(t, table.Has("foo"))

	assert.False(t, table.Insert(&MacroDefinition{Name: "foo"}))
	assert.True(t, table.Insert(&MacroDefinition{Name: "foo"}))
	assert.False(t, table.Insert(&MacroDefinition{Name: "bar"}))

	assert.True(t, table.Has("foo"))
	assert.Equal(t, 2, table.Len())
	assert.Equal(t, []string{"bar", "foo"}, table.Names())

	_, ok := table.Get("baz")
	assert.False(t, ok)
}

func TestResolve_ConvenienceFunction(t *testing.T) {
	res, err := Resolve(nestedSource, true)
	require.NoError(t, err)
	assert.Equal(t, 2, res.CallCount())
}
