package commands

import (
	"bytes"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/leapstack-labs/macroscope/internal/cli/output"
	"github.com/leapstack-labs/macroscope/internal/resolve"
	"github.com/leapstack-labs/macroscope/internal/tui/pager"
	"github.com/spf13/cobra"
)

// NewInspectCommand creates the inspect command.
func NewInspectCommand() *cobra.Command {
	var recursive bool

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Browse the expansion report of a file in a terminal pager",
		Long: `Open the expansion report of a file in a full-screen pager.

Keys:
  ↑/↓ pgup/pgdn  scroll
  r              toggle recursive expansion
  e              toggle diagnostics
  s              toggle the syntax tree
  R              reload the file
  q              quit`,
		Example: `  macroscope inspect src/main.rs`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("recursive") {
				recursive = getConfig().Recursive
			}
			return runInspect(cmd, args[0], recursive)
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Start with recursive expansion on")

	return cmd
}

func runInspect(cmd *cobra.Command, path string, recursive bool) error {
	cmdCtx := NewCommandContext(cmd)
	if !cmdCtx.Renderer.IsTTY() {
		return errors.New("inspect needs an interactive terminal; use 'macroscope expand' instead")
	}

	render := reportRenderer(cmd, cmdCtx.Resolver, path)
	model := pager.New("macroscope: "+path, pager.Options{Recursive: recursive}, render)

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("pager failed: %w", err)
	}
	return nil
}

// reportRenderer re-reads path and renders its text report on every call.
func reportRenderer(cmd *cobra.Command, resolver *resolve.Resolver, path string) pager.RenderFunc {
	return func(opts pager.Options) (string, error) {
		_, text, err := readSource(cmd, []string{path})
		if err != nil {
			return "", err
		}
		res, err := resolver.Resolve(text, opts.Recursive)
		if err != nil {
			return "", err
		}

		var buf bytes.Buffer
		r := output.NewRendererWithTTY(&buf, &buf, true, output.ModeText)
		if err := r.Report(res, output.ReportOptions{
			Explain:    opts.Explain,
			ShowSyntax: opts.Syntax,
			Title:      path,
		}); err != nil {
			return "", err
		}
		return buf.String(), nil
	}
}
