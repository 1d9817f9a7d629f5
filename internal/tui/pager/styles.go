package pager

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("#8B5CF6")
	colorMuted   = lipgloss.Color("#6B7280")
	colorDimmed  = lipgloss.Color("#374151")
	colorError   = lipgloss.Color("#EF4444")
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	flagStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)

	ruleStyle = lipgloss.NewStyle().
			Foreground(colorDimmed)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)
)
