// Package main provides tests for the macroscope CLI.
package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/macroscope/internal/cli"
	"github.com/leapstack-labs/macroscope/internal/cli/config"
	"github.com/leapstack-labs/macroscope/internal/cli/testutil"
	"github.com/leapstack-labs/macroscope/internal/resolve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	cmd := cli.NewRootCmd()
	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "macroscope v")
}

func TestHelpCommand(t *testing.T) {
	stdout, _, err := run(t, "", "--help")
	require.NoError(t, err)

	expectedCommands := []string{"expand", "dump", "rules", "serve", "history", "repl", "inspect", "init", "completion"}
	for _, expected := range expectedCommands {
		assert.Contains(t, stdout, expected, "help output should list %q", expected)
	}
}

func TestExpandCommand(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	t.Chdir(dir)
	state := filepath.Join(t.TempDir(), "state.db")

	stdout, _, err := run(t, "", "expand", "src/main.rs", "-o", "json", "--state", state)
	require.NoError(t, err)

	var res resolve.Result
	require.NoError(t, json.Unmarshal([]byte(stdout), &res))
	require.Len(t, res.Calls, 1)
	assert.Equal(t, "outer!()", res.Calls[0].CallSiteText)
	require.Len(t, res.Calls[0].Children, 1)

	_, err = os.Stat(state)
	require.NoError(t, err, "--state should place the history database")
}

func TestMaxDepthFlag(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	t.Chdir(dir)

	src := "macro_rules! forever { () => { forever!(); } }\nforever!();\n"
	stdout, _, err := run(t, src, "expand", "-", "-r", "-o", "json", "--no-history", "--max-depth", "3")
	require.NoError(t, err)

	var res resolve.Result
	require.NoError(t, json.Unmarshal([]byte(stdout), &res))
	assert.Equal(t, 4, res.CallCount(), "three levels below the top-level call")

	_, err = os.Stat(filepath.Join(dir, ".macroscope", "state.db"))
	assert.True(t, os.IsNotExist(err), "--no-history should not create the history database")
}

func TestInvalidOutputFormat(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	t.Chdir(dir)

	_, _, err := run(t, "", "expand", "src/main.rs", "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}

func TestConfigFlag(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	t.Chdir(dir)

	cfgPath := filepath.Join(t.TempDir(), "macroscope.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("recursive = false\nhistory = false\n"), 0o600))

	stdout, _, err := run(t, "", "expand", "src/main.rs", "-o", "json", "--config", cfgPath)
	require.NoError(t, err)

	var res resolve.Result
	require.NoError(t, json.Unmarshal([]byte(stdout), &res))
	require.Len(t, res.Calls, 1)
	assert.Empty(t, res.Calls[0].Children)
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			stdout, _, err := run(t, "", "completion", shell)
			require.NoError(t, err)
			assert.Contains(t, stdout, "macroscope")
		})
	}
}

func TestUnknownCommand(t *testing.T) {
	_, _, err := run(t, "", "lineage")
	assert.Error(t, err)
}
