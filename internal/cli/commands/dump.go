package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewDumpCommand creates the dump command.
func NewDumpCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump [file|-]",
		Short: "Print the syntax tree of a document",
		Long: `Parse a document and print its lossless syntax tree.

Each node is printed as KIND@[start; end) with tokens quoted, followed by
any parse errors. This is the same dump carried in the syntax_nodes field
of the expansion report.`,
		Example: `  # Dump a file
  macroscope dump src/main.rs

  # Dump stdin as JSON
  echo 'foo!(1);' | macroscope dump - -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(cmd, args)
		},
	}

	return cmd
}

func runDump(cmd *cobra.Command, args []string) error {
	cmdCtx := NewCommandContext(cmd)

	name, text, err := readSource(cmd, args)
	if err != nil {
		return err
	}

	// Only the dump is needed; skip expansion entirely.
	res, err := cmdCtx.Resolver.Resolve(text, false)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", displayName(name), err)
	}

	return cmdCtx.Renderer.Dump(res)
}
