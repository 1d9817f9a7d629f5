package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	var recursive bool

	cmd := &cobra.Command{
		Use:   "rules [file|-]",
		Short: "List the macro_rules! definitions of a document",
		Long: `List every macro_rules! definition registered while resolving a document.

Each definition is printed as its name followed by its body. A later
definition with the same name replaces an earlier one, so only the last
one is listed. Definitions that fail to compile are not listed; use
'macroscope expand --explain' to see why.

With --recursive, definitions produced by expansions are included.`,
		Example: `  # List definitions
  macroscope rules src/main.rs

  # Include definitions created by macro expansion
  macroscope rules src/main.rs --recursive

  # Output as JSON
  macroscope rules src/main.rs -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("recursive") {
				recursive = getConfig().Recursive
			}
			return runRules(cmd, args, recursive)
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Include definitions produced by expansions")

	return cmd
}

func runRules(cmd *cobra.Command, args []string, recursive bool) error {
	cmdCtx := NewCommandContext(cmd)

	name, text, err := readSource(cmd, args)
	if err != nil {
		return err
	}

	res, err := cmdCtx.Resolver.Resolve(text, recursive)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", displayName(name), err)
	}

	return cmdCtx.Renderer.Rules(res)
}
