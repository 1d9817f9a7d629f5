package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("config", "", "")
	flags.BoolP("verbose", "v", false, "")
	flags.StringP("output", "o", "", "")
	flags.Int("max-depth", 0, "")
	flags.String("state", "", "")
	flags.String("log-format", "", "")
	flags.Bool("no-history", false, "")
	return flags
}

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Cleanup(ResetConfig)
	dir := t.TempDir()
	t.Chdir(dir)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultMaxDepth, cfg.MaxDepth)
	assert.Equal(t, DefaultMaxExpansions, cfg.MaxExpansions)
	assert.Equal(t, DefaultMaxTokens, cfg.MaxTokens)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.True(t, cfg.History)
	assert.Equal(t, filepath.Join(cfg.ProjectRoot, DefaultStateFile), cfg.StatePath)
	assert.Empty(t, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_Precedence(t *testing.T) {
	t.Cleanup(ResetConfig)
	dir := t.TempDir()
	t.Chdir(dir)
	path := writeConfig(t, dir, "macroscope.yaml", "max_depth: 10\noutput: json\nrecursive: true\n")

	t.Setenv("MACROSCOPE_MAX_DEPTH", "20")
	t.Setenv("MACROSCOPE_SERVER__PORT", "9999")

	flags := newFlags()
	require.NoError(t, flags.Parse([]string{"--output", "yaml"}))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)

	assert.Equal(t, filepath.Base(path), filepath.Base(GetConfigFileUsed()))
	assert.True(t, cfg.Recursive, "file value")
	assert.Equal(t, 20, cfg.MaxDepth, "env overrides file")
	assert.Equal(t, "yaml", cfg.OutputFormat, "flag overrides file")
	assert.Equal(t, 9999, cfg.GetServerConfig().Port)
}

func TestLoadConfig_ExplicitTOMLFile(t *testing.T) {
	t.Cleanup(ResetConfig)
	dir := t.TempDir()
	path := writeConfig(t, dir, "custom.toml", "max_depth = 3\nstate_path = \"db/history.db\"\n")

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.MaxDepth)
	assert.Equal(t, dir, cfg.ProjectRoot)
	assert.Equal(t, filepath.Join(dir, "db", "history.db"), cfg.StatePath)
}

func TestLoadConfig_StateAndHistoryFlags(t *testing.T) {
	t.Cleanup(ResetConfig)
	dir := t.TempDir()
	t.Chdir(dir)

	flags := newFlags()
	require.NoError(t, flags.Parse([]string{"--state", "x.db", "--no-history", "--max-depth=-1"}))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)

	abs, err := filepath.Abs("x.db")
	require.NoError(t, err)
	assert.Equal(t, abs, cfg.StatePath)
	assert.False(t, cfg.History)
	assert.Equal(t, -1, cfg.MaxDepth)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Cleanup(ResetConfig)
	dir := t.TempDir()
	t.Chdir(dir)

	flags := newFlags()
	require.NoError(t, flags.Parse([]string{"--output", "xml"}))

	_, err := LoadConfig("", flags)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()))

	var buf bytes.Buffer
	logger := NewLogger(&Config{Verbose: true, LogFormat: "json"}, &buf)
	ctx := WithLogger(context.Background(), logger)
	GetLogger(ctx).Debug("hello", "k", "v")
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	buf.Reset()
	NewLogger(&Config{LogFormat: "text"}, &buf).Debug("quiet")
	assert.Empty(t, buf.String())
}
