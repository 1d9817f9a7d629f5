package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/leapstack-labs/macroscope/internal/cli/output"
	"github.com/leapstack-labs/macroscope/internal/watch"
	"github.com/spf13/cobra"
)

// ExpandOptions holds options for the expand command.
type ExpandOptions struct {
	Recursive bool
	Explain   bool
	Syntax    bool
	Watch     bool
}

// NewExpandCommand creates the expand command.
func NewExpandCommand() *cobra.Command {
	opts := &ExpandOptions{}

	cmd := &cobra.Command{
		Use:   "expand [file|-]",
		Short: "Expand macro_rules! invocations in a document",
		Long: `Resolve every macro invocation in a document against the macro_rules!
definitions it contains, and report each call site with its expansion.

With --recursive, the output of each expansion is scanned again and nested
invocations are reported as children of the call that produced them.

Output adapts to environment:
  - Terminal: Expansion tree
  - Piped/Scripted: Markdown report`,
		Example: `  # Expand a file
  macroscope expand src/main.rs

  # Expand nested invocations too
  macroscope expand src/main.rs --recursive

  # Read from stdin and emit the JSON report
  cat src/main.rs | macroscope expand - -o json

  # Re-run on every save
  macroscope expand src/main.rs -r --watch`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("recursive") {
				opts.Recursive = getConfig().Recursive
			}
			return runExpand(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Recursive, "recursive", "r", false, "Expand invocations found in expansion output")
	cmd.Flags().BoolVar(&opts.Explain, "explain", false, "Report why invocations produced no expansion")
	cmd.Flags().BoolVar(&opts.Syntax, "syntax", false, "Include the syntax tree dump in the report")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-run when the file changes")

	return cmd
}

func runExpand(cmd *cobra.Command, args []string, opts *ExpandOptions) error {
	cmdCtx := NewCommandContext(cmd)

	if opts.Watch {
		if len(args) == 0 || args[0] == stdinArg {
			return errors.New("--watch requires a file argument")
		}
		return watchExpand(cmd, cmdCtx, args[0], opts)
	}

	return expandOnce(cmd, cmdCtx, args, opts)
}

func expandOnce(cmd *cobra.Command, cmdCtx *CommandContext, args []string, opts *ExpandOptions) error {
	name, text, err := readSource(cmd, args)
	if err != nil {
		return err
	}

	res, err := cmdCtx.Resolver.Resolve(text, opts.Recursive)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", displayName(name), err)
	}
	cmdCtx.Record(cmd.Context(), name, text, opts.Recursive, res)

	return cmdCtx.Renderer.Report(res, output.ReportOptions{
		Explain:    opts.Explain,
		ShowSyntax: opts.Syntax,
		Title:      reportTitle(name),
	})
}

func watchExpand(cmd *cobra.Command, cmdCtx *CommandContext, path string, opts *ExpandOptions) error {
	r := cmdCtx.Renderer

	if err := expandOnce(cmd, cmdCtx, []string{path}, opts); err != nil {
		r.Error(err.Error())
	}

	w, err := watch.New([]string{path}, watch.Options{Logger: cmdCtx.Logger})
	if err != nil {
		return err
	}

	r.Muted(fmt.Sprintf("Watching %s (Ctrl+C to stop)", path))
	return w.Run(cmd.Context(), func(changed string) {
		if _, err := os.Stat(changed); err != nil {
			return
		}
		r.Println("")
		if err := expandOnce(cmd, cmdCtx, []string{path}, opts); err != nil {
			r.Error(err.Error())
		}
	})
}

func displayName(name string) string {
	if name == "" || name == stdinArg {
		return "stdin"
	}
	return name
}

func reportTitle(name string) string {
	if name == "" || name == stdinArg {
		return ""
	}
	return "Macro Expansion: " + name
}
