package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/macroscope/internal/cli/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestNewInitCommand(t *testing.T) {
	tests := []struct {
		name      string
		setupDir  func(t *testing.T, dir string) // setup before running
		args      []string
		wantErr   bool
		wantFiles []string
	}{
		{
			name:      "init empty directory",
			args:      []string{},
			wantFiles: []string{"macroscope.yaml"},
		},
		{
			name: "init with example",
			args: []string{"--example"},
			wantFiles: []string{
				"macroscope.yaml",
				".gitignore",
				"src/main.rs",
				"src/nested.rs",
			},
		},
		{
			name: "init existing config without force",
			setupDir: func(_ *testing.T, dir string) {
				_ = os.WriteFile(filepath.Join(dir, "macroscope.yaml"), []byte("existing"), 0600)
			},
			args:    []string{},
			wantErr: true,
		},
		{
			name: "init existing config with force",
			setupDir: func(_ *testing.T, dir string) {
				_ = os.WriteFile(filepath.Join(dir, "macroscope.yaml"), []byte("existing"), 0600)
			},
			args:      []string{"--force"},
			wantFiles: []string{"macroscope.yaml"},
		},
		{
			name:      "init into subdirectory",
			args:      []string{"project", "--yes"},
			wantFiles: []string{"project/macroscope.yaml"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create temp directory and change to it
			tmpDir := t.TempDir()
			t.Chdir(tmpDir)
			useOutput(t, "markdown")

			// Run setup if provided
			if tt.setupDir != nil {
				tt.setupDir(t, tmpDir)
			}

			_, _, err := execute(t, NewInitCommand(), "", tt.args...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			// Check expected files exist
			for _, f := range tt.wantFiles {
				path := filepath.Join(tmpDir, f)
				_, err := os.Stat(path)
				assert.False(t, os.IsNotExist(err), "expected file/dir %q to exist", f)
			}
		})
	}
}

func TestInitCreatesValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)
	useOutput(t, "markdown")

	stdout, _, err := execute(t, NewInitCommand(), "", "--yes")
	require.NoError(t, err)
	assert.Contains(t, stdout, "macroscope project initialized!")

	content, err := os.ReadFile("macroscope.yaml")
	require.NoError(t, err, "failed to read macroscope.yaml")

	var pc projectConfig
	require.NoError(t, yaml.Unmarshal(content, &pc))
	assert.Equal(t, defaultProjectConfig(), pc)

	// The written file loads through the normal configuration path.
	config.ResetConfig()
	cfg, err := config.LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultMaxDepth, cfg.MaxDepth)
	assert.True(t, cfg.History)
	assert.Equal(t, filepath.Join(cfg.ProjectRoot, config.DefaultStateFile), cfg.StatePath)
}

func TestInitExampleExpands(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)
	useOutput(t, "json")

	_, _, err := execute(t, NewInitCommand(), "", "--yes", "--example")
	require.NoError(t, err)
	config.ResetConfig()

	stdout, _, err := execute(t, NewExpandCommand(), "", "src/main.rs")
	require.NoError(t, err)

	res := decodeResult(t, stdout)
	assert.Len(t, res.MacroRules, 3)
	assert.NotEmpty(t, res.Calls)
}

func TestInitForceKeepsExistingSettings(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)
	useOutput(t, "markdown")
	require.NoError(t, os.WriteFile("macroscope.yaml", []byte("recursive: true\nmax_depth: 7\noutput: json\n"), 0600))

	_, _, err := execute(t, NewInitCommand(), "", "--force", "--yes")
	require.NoError(t, err)

	content, err := os.ReadFile("macroscope.yaml")
	require.NoError(t, err)
	var pc projectConfig
	require.NoError(t, yaml.Unmarshal(content, &pc))
	assert.True(t, pc.Recursive)
	assert.Equal(t, 7, pc.MaxDepth)
	assert.Equal(t, "json", pc.Output)
	assert.True(t, pc.History)
}

func TestVerifyProjectConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, writeProjectConfig(filepath.Join(dir, configFileName), defaultProjectConfig()))
	assert.NoError(t, verifyProjectConfig(dir))

	pc := defaultProjectConfig()
	pc.Output = "xml"
	require.NoError(t, writeProjectConfig(filepath.Join(dir, configFileName), pc))
	err := verifyProjectConfig(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}
