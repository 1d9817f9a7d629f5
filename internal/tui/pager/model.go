// Package pager is a terminal pager over an expansion report. The report
// is re-rendered whenever one of its options is toggled.
package pager

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	headerHeight = 2
	footerHeight = 2
)

// Options are the report settings the pager can toggle.
type Options struct {
	Recursive bool
	Explain   bool
	Syntax    bool
}

// RenderFunc produces the report for the given options.
type RenderFunc func(Options) (string, error)

// Model is the bubbletea model of the pager.
type Model struct {
	title    string
	opts     Options
	render   RenderFunc
	viewport viewport.Model
	ready    bool
	width    int
	content  string
	err      error
}

// New creates a pager titled title showing render(opts).
func New(title string, opts Options, render RenderFunc) Model {
	m := Model{title: title, opts: opts, render: render}
	m.refresh()
	return m
}

// Options returns the current report options.
func (m Model) Options() Options { return m.opts }

// Content returns the rendered report.
func (m Model) Content() string { return m.content }

// Err returns the error of the last render, if any.
func (m Model) Err() error { return m.err }

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "r":
			m.opts.Recursive = !m.opts.Recursive
			m.refresh()
			return m, nil
		case "e":
			m.opts.Explain = !m.opts.Explain
			m.refresh()
			return m, nil
		case "s":
			m.opts.Syntax = !m.opts.Syntax
			m.refresh()
			return m, nil
		case "R":
			m.refresh()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		viewportHeight := max(msg.Height-headerHeight-footerHeight, 1)

		if !m.ready {
			m.viewport = viewport.New(msg.Width, viewportHeight)
			m.viewport.YPosition = headerHeight
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = viewportHeight
		}
		m.viewport.SetContent(m.body())
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// refresh re-renders the report and keeps the scroll position where possible.
func (m *Model) refresh() {
	m.content, m.err = m.render(m.opts)
	if m.ready {
		m.viewport.SetContent(m.body())
	}
}

func (m Model) body() string {
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	return m.content
}

// View renders the pager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	flags := fmt.Sprintf("recursive:%s explain:%s syntax:%s",
		onOff(m.opts.Recursive), onOff(m.opts.Explain), onOff(m.opts.Syntax))
	return titleStyle.Render(m.title) + "  " + flagStyle.Render(flags) + "\n" +
		ruleStyle.Render(strings.Repeat("─", max(m.width, 1)))
}

func (m Model) renderFooter() string {
	pos := fmt.Sprintf("%3.f%%", m.viewport.ScrollPercent()*100)
	return ruleStyle.Render(strings.Repeat("─", max(m.width, 1))) + "\n" +
		helpStyle.Render("↑/↓ scroll • r recursive • e explain • s syntax • R reload • q quit") +
		"  " + flagStyle.Render(pos)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
