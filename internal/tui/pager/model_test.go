package pager

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderOpts(o Options) (string, error) {
	if o.Recursive {
		return "recursive report", nil
	}
	return "flat report", nil
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	pm, ok := next.(Model)
	require.True(t, ok)
	return pm
}

func TestNew_RendersInitialContent(t *testing.T) {
	m := New("report", Options{}, renderOpts)

	assert.Equal(t, "flat report", m.Content())
	assert.NoError(t, m.Err())
	assert.Equal(t, "Loading...", m.View())
}

func TestUpdate_WindowSize(t *testing.T) {
	m := New("report", Options{}, renderOpts)
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 20})

	view := m.View()
	assert.Contains(t, view, "report")
	assert.Contains(t, view, "flat report")
	assert.Contains(t, view, "recursive:off")
}

func TestUpdate_ToggleKeys(t *testing.T) {
	m := New("report", Options{}, renderOpts)
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 20})

	m = update(t, m, key("r"))
	assert.True(t, m.Options().Recursive)
	assert.Equal(t, "recursive report", m.Content())
	assert.Contains(t, m.View(), "recursive report")

	m = update(t, m, key("e"))
	assert.True(t, m.Options().Explain)

	m = update(t, m, key("s"))
	assert.True(t, m.Options().Syntax)

	m = update(t, m, key("r"))
	assert.False(t, m.Options().Recursive)
	assert.Equal(t, "flat report", m.Content())
}

func TestUpdate_Reload(t *testing.T) {
	calls := 0
	m := New("report", Options{}, func(Options) (string, error) {
		calls++
		return "report", nil
	})
	m = update(t, m, key("R"))
	assert.Equal(t, 2, calls)
}

func TestUpdate_Quit(t *testing.T) {
	for _, k := range []tea.KeyMsg{key("q"), {Type: tea.KeyEsc}, {Type: tea.KeyCtrlC}} {
		m := New("report", Options{}, renderOpts)
		_, cmd := m.Update(k)
		require.NotNil(t, cmd, "key %q", k.String())
		assert.Equal(t, tea.Quit(), cmd())
	}
}

func TestRenderError(t *testing.T) {
	m := New("report", Options{}, func(Options) (string, error) {
		return "", errors.New("boom")
	})
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 20})

	assert.Error(t, m.Err())
	assert.Contains(t, m.View(), "boom")
}
