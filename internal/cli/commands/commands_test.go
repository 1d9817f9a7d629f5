package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/macroscope/internal/cli/config"
	"github.com/leapstack-labs/macroscope/internal/cli/output"
	"github.com/leapstack-labs/macroscope/internal/cli/testutil"
	"github.com/leapstack-labs/macroscope/internal/resolve"
	"github.com/leapstack-labs/macroscope/internal/state"
	"github.com/leapstack-labs/macroscope/internal/tui/pager"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupProject creates a test project, makes it the working directory and
// selects the output mode for commands run by the test.
func setupProject(t *testing.T, mode string) string {
	t.Helper()
	dir := testutil.SetupTestProject(t)
	t.Chdir(dir)
	useOutput(t, mode)
	return dir
}

func useOutput(t *testing.T, mode string) {
	t.Helper()
	t.Setenv(config.EnvPrefix+"OUTPUT", mode)
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)
}

func execute(t *testing.T, cmd *cobra.Command, stdin string, args ...string) (string, string, error) {
	t.Helper()
	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func decodeResult(t *testing.T, data string) *resolve.Result {
	t.Helper()
	var res resolve.Result
	require.NoError(t, json.Unmarshal([]byte(data), &res))
	return &res
}

func TestCommandMetadata(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		use   string
		flags []string
	}{
		{NewExpandCommand(), "expand [file|-]", []string{"recursive", "explain", "syntax", "watch"}},
		{NewDumpCommand(), "dump [file|-]", nil},
		{NewRulesCommand(), "rules [file|-]", []string{"recursive"}},
		{NewServeCommand(), "serve", []string{"port", "watch", "open"}},
		{NewHistoryCommand(), "history", nil},
		{NewREPLCommand(), "repl", nil},
		{NewInspectCommand(), "inspect <file>", []string{"recursive"}},
		{NewInitCommand(), "init [directory]", []string{"force", "example", "yes"}},
	}

	for _, tt := range tests {
		t.Run(tt.use, func(t *testing.T) {
			assert.Equal(t, tt.use, tt.cmd.Use)
			assert.NotEmpty(t, tt.cmd.Short, "Short should not be empty")
			for _, flag := range tt.flags {
				assert.NotNil(t, tt.cmd.Flags().Lookup(flag), "flag %q should exist", flag)
			}
		})
	}
}

func TestHistoryCommand_Subcommands(t *testing.T) {
	cmd := NewHistoryCommand()

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"list", "show", "delete"}, names)
}

func TestExpandCommand_JSON(t *testing.T) {
	setupProject(t, "json")

	stdout, _, err := execute(t, NewExpandCommand(), "", "src/main.rs")
	require.NoError(t, err)

	res := decodeResult(t, stdout)
	assert.Equal(t, []string{"inner {() => {1}}", "outer {() => {inner ! () ;}}"}, res.MacroRules)
	require.Len(t, res.Calls, 1)
	assert.Equal(t, "outer!()", res.Calls[0].CallSiteText)
	assert.Equal(t, "inner ! () ;", res.Calls[0].ExpansionText)

	// recursive: true in the project config
	require.Len(t, res.Calls[0].Children, 1)
	assert.Equal(t, "1", res.Calls[0].Children[0].ExpansionText)
}

func TestExpandCommand_RecursiveFlagOverridesConfig(t *testing.T) {
	setupProject(t, "json")

	stdout, _, err := execute(t, NewExpandCommand(), "", "src/main.rs", "--recursive=false")
	require.NoError(t, err)

	res := decodeResult(t, stdout)
	require.Len(t, res.Calls, 1)
	assert.Empty(t, res.Calls[0].Children)
}

func TestExpandCommand_Stdin(t *testing.T) {
	setupProject(t, "json")

	src := "macro_rules! foo { () => { 1 + 1 }; }\nfoo!();\n"
	stdout, _, err := execute(t, NewExpandCommand(), src, "-")
	require.NoError(t, err)

	res := decodeResult(t, stdout)
	assert.Equal(t, []string{"foo {() => {1 + 1} ;}"}, res.MacroRules)
	require.Len(t, res.Calls, 1)
	assert.Equal(t, "1 + 1", res.Calls[0].ExpansionText)
}

func TestExpandCommand_Markdown(t *testing.T) {
	setupProject(t, "markdown")

	stdout, _, err := execute(t, NewExpandCommand(), "", "src/main.rs")
	require.NoError(t, err)

	assert.Contains(t, stdout, "# Macro Expansion: src/main.rs")
	assert.Contains(t, stdout, "`outer!()`")
	assert.Contains(t, stdout, "## Macro rules")
	testutil.AssertValidMarkdown(t, stdout)
	testutil.AssertNoANSI(t, stdout)
}

func TestExpandCommand_MissingFile(t *testing.T) {
	setupProject(t, "json")

	_, _, err := execute(t, NewExpandCommand(), "", "src/missing.rs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "src/missing.rs")
}

func TestExpandCommand_WatchNeedsFile(t *testing.T) {
	setupProject(t, "json")

	_, _, err := execute(t, NewExpandCommand(), "", "--watch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--watch")
}

func TestExpandCommand_RecordsHistory(t *testing.T) {
	dir := setupProject(t, "json")

	_, _, err := execute(t, NewExpandCommand(), "", "src/main.rs")
	require.NoError(t, err)
	_, _, err = execute(t, NewExpandCommand(), "", "src/plain.rs")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, ".macroscope", "state.db"))
	require.NoError(t, err)

	stdout, _, err := execute(t, NewHistoryCommand(), "", "list")
	require.NoError(t, err)

	var runs []output.RunSummary
	require.NoError(t, json.Unmarshal([]byte(stdout), &runs))
	require.Len(t, runs, 2)
	// newest first
	assert.Equal(t, "src/plain.rs", runs[0].SourceName)
	assert.Equal(t, "src/main.rs", runs[1].SourceName)
	assert.Equal(t, 2, runs[1].CallCount)
	assert.Equal(t, 2, runs[1].DefinitionCount)
	assert.True(t, runs[1].Recursive)

	// show
	stdout, _, err = execute(t, NewHistoryCommand(), "", "show", runs[1].ID)
	require.NoError(t, err)
	res := decodeResult(t, stdout)
	require.Len(t, res.Calls, 1)
	assert.Equal(t, "outer!()", res.Calls[0].CallSiteText)

	// delete
	_, _, err = execute(t, NewHistoryCommand(), "", "delete", runs[1].ID)
	require.NoError(t, err)

	_, _, err = execute(t, NewHistoryCommand(), "", "show", runs[1].ID)
	require.ErrorIs(t, err, state.ErrRunNotFound)
}

func TestExpandCommand_HistoryDisabled(t *testing.T) {
	dir := setupProject(t, "json")
	t.Setenv(config.EnvPrefix+"HISTORY", "false")
	config.ResetConfig()

	_, _, err := execute(t, NewExpandCommand(), "", "src/main.rs")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, ".macroscope", "state.db"))
	assert.True(t, os.IsNotExist(err), "no state database should be created")
}

func TestHistoryList_Empty(t *testing.T) {
	setupProject(t, "markdown")

	stdout, _, err := execute(t, NewHistoryCommand(), "", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No runs recorded")
}

func TestDumpCommand(t *testing.T) {
	setupProject(t, "text")

	stdout, _, err := execute(t, NewDumpCommand(), "", "src/plain.rs")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "SOURCE_FILE@[0; "), "got %q", stdout)
	assert.Contains(t, stdout, "FN@")
}

func TestDumpCommand_JSON(t *testing.T) {
	setupProject(t, "json")

	stdout, _, err := execute(t, NewDumpCommand(), "", "src/plain.rs")
	require.NoError(t, err)

	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(stdout), &payload))
	assert.Contains(t, payload["syntax_nodes"], "SOURCE_FILE@")
}

func TestRulesCommand(t *testing.T) {
	setupProject(t, "json")

	stdout, _, err := execute(t, NewRulesCommand(), "", "src/main.rs")
	require.NoError(t, err)

	var payload map[string][]string
	require.NoError(t, json.Unmarshal([]byte(stdout), &payload))
	assert.Equal(t, []string{"inner {() => {1}}", "outer {() => {inner ! () ;}}"}, payload["macro_rules"])
}

func TestRulesCommand_None(t *testing.T) {
	setupProject(t, "markdown")

	stdout, _, err := execute(t, NewRulesCommand(), "", "src/plain.rs")
	require.NoError(t, err)
	assert.Contains(t, stdout, "# Macro rules (0)")
}

func TestInspectCommand_NeedsTerminal(t *testing.T) {
	setupProject(t, "auto")

	_, _, err := execute(t, NewInspectCommand(), "", "src/main.rs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interactive terminal")
}

func TestReportRenderer(t *testing.T) {
	setupProject(t, "text")

	cmd := NewInspectCommand()
	render := reportRenderer(cmd, resolve.New(), "src/main.rs")

	flat, err := render(pager.Options{})
	require.NoError(t, err)
	assert.Contains(t, flat, "outer!()")
	assert.NotContains(t, flat, "=> 1")

	nested, err := render(pager.Options{Recursive: true})
	require.NoError(t, err)
	assert.Contains(t, nested, "=> 1")
}
