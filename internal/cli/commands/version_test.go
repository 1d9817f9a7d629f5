package commands

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, NewVersionCommand("1.2.3"), "")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "macroscope v1.2.3", lines[0])
	assert.Contains(t, lines[1], runtime.Version())
	assert.Equal(t, "default limits: depth 64, expansions 10000, tokens 1048576", lines[2])
}

func TestVersionCommand_Short(t *testing.T) {
	out, _, err := execute(t, NewVersionCommand("dev"), "", "--short")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", out)
}

func TestVersionCommand_RejectsArgs(t *testing.T) {
	_, _, err := execute(t, NewVersionCommand("dev"), "", "extra")
	assert.Error(t, err)
}
