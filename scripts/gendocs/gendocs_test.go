package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/macroscope/internal/cli/output"
	"github.com/leapstack-labs/macroscope/internal/resolve"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCLIDocs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, generateCLIDocs(dir))

	index, err := os.ReadFile(filepath.Join(dir, "index.md"))
	require.NoError(t, err)
	assert.Contains(t, string(index), "# CLI Reference")
	assert.Contains(t, string(index), "`MACROSCOPE_MAX_DEPTH`")
	assert.Contains(t, string(index), "`MACROSCOPE_SERVER__PORT`")

	expand, err := os.ReadFile(filepath.Join(dir, "expand.md"))
	require.NoError(t, err)
	assert.Contains(t, string(expand), "macroscope expand [file|-]")
	assert.Contains(t, string(expand), "`--recursive`")

	assert.Contains(t, string(index), "## Output Modes")
	assert.Contains(t, string(index), "| `html` |")
	assert.Contains(t, string(index), "`MACROSCOPE_MAX_EXPANSIONS`")

	history, err := os.ReadFile(filepath.Join(dir, "history.md"))
	require.NoError(t, err)
	assert.Contains(t, string(history), "macroscope history <subcommand> [options]")
	assert.Contains(t, string(history), "[`history list`](/cli/history-list)")

	list, err := os.ReadFile(filepath.Join(dir, "history-list.md"))
	require.NoError(t, err)
	assert.Contains(t, string(list), "`--limit`")
	assert.Contains(t, string(list), "`ls`")
}

func TestModeDescriptionsCoverEveryMode(t *testing.T) {
	for _, m := range output.Modes {
		assert.NotEmpty(t, modeDescriptions[m], "mode %s", m)
	}
}

func TestCollectPages(t *testing.T) {
	root := &cobra.Command{Use: "macroscope"}
	parent := &cobra.Command{Use: "history", Short: "runs"}
	parent.AddCommand(&cobra.Command{Use: "list", Run: func(*cobra.Command, []string) {}})
	parent.AddCommand(&cobra.Command{Use: "secret", Hidden: true, Run: func(*cobra.Command, []string) {}})
	root.AddCommand(parent)

	pages := collectPages(root)
	require.Len(t, pages, 2)
	assert.Equal(t, "history", pages[0].path)
	assert.Equal(t, "history-list.md", pages[1].file())
	require.Len(t, pages[0].children, 1)
	assert.Same(t, pages[1], pages[0].children[0])
}

func TestGenerateReportDocs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, generateReportDocs(dir))

	doc, err := os.ReadFile(filepath.Join(dir, "report.md"))
	require.NoError(t, err)
	assert.Contains(t, string(doc), "| Result | `syntax_nodes` | string |")
	assert.Contains(t, string(doc), "| Node | `children` | Node[] |")
	assert.Contains(t, string(doc), `"call_site_text": "outer!()"`)
	assert.Contains(t, string(doc), `"expansion_text": "1"`)
	assert.Contains(t, string(doc), "`budget_exceeded`")
}

func TestReportFieldsSkipUnserialized(t *testing.T) {
	var names []string
	for _, f := range reportFields(&resolve.Result{}) {
		names = append(names, f.name)
		assert.NotEmpty(t, fieldDocs[f.name], "field %s", f.name)
	}
	assert.Equal(t, []string{"syntax_nodes", "macro_rules", "calls"}, names)

	for _, f := range reportFields(resolve.Node{}) {
		assert.NotEmpty(t, fieldDocs[f.name], "field %s", f.name)
	}
}

func TestGenerateSchemaDocs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, generateSchemaDocs(dir))

	doc, err := os.ReadFile(filepath.Join(dir, "configuration.md"))
	require.NoError(t, err)
	assert.Contains(t, string(doc), "## Resolver")
	assert.Contains(t, string(doc), "| `max_depth` | int | `64` |")
}

func TestMarkdownWriter_Table(t *testing.T) {
	w := NewMarkdownWriter()
	w.Table([]string{"A", "B"}, [][]string{{"x|y", "z"}})
	assert.Equal(t, "| A | B |\n| --- | --- |\n| x\\|y | z |", string(w.Bytes()))

	empty := NewMarkdownWriter()
	empty.Table([]string{"A"}, nil)
	assert.Empty(t, empty.Bytes())
}

func TestDedent(t *testing.T) {
	assert.Equal(t, "# a\nmacroscope expand x\n  nested", dedent("  # a\n  macroscope expand x\n    nested"))
	assert.Equal(t, "a\n\nb", dedent("    a\n\n    b\n"))
	assert.Equal(t, "flat", dedent("flat"))
}
