package output

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles holds the lipgloss styles used in text mode.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style

	CallSite  lipgloss.Style
	Expansion lipgloss.Style
	Rule      lipgloss.Style
	Branch    lipgloss.Style
}

// newStyles builds styles bound to w. Non-terminal writers get the ASCII
// profile so no escape codes are emitted.
func newStyles(w io.Writer, isTTY bool) *Styles {
	lr := lipgloss.NewRenderer(w)
	if !isTTY {
		lr.SetColorProfile(termenv.Ascii)
	}

	return &Styles{
		Header1: lr.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Underline(true),
		Header2: lr.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		Bold:    lr.NewStyle().Bold(true),
		Muted:   lr.NewStyle().Foreground(lipgloss.Color("8")),
		Success: lr.NewStyle().Foreground(lipgloss.Color("10")),
		Warning: lr.NewStyle().Foreground(lipgloss.Color("11")),
		Error:   lr.NewStyle().Foreground(lipgloss.Color("9")),
		Info:    lr.NewStyle().Foreground(lipgloss.Color("12")),

		CallSite:  lr.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
		Expansion: lr.NewStyle().Foreground(lipgloss.Color("10")),
		Rule:      lr.NewStyle().Foreground(lipgloss.Color("14")),
		Branch:    lr.NewStyle().Foreground(lipgloss.Color("8")),
	}
}
