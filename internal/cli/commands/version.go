package commands

import (
	"fmt"
	"runtime"

	"github.com/leapstack-labs/macroscope/internal/resolve"
	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version string) *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display the macroscope version, the Go toolchain it was built with and the default resolver limits.`,
		Example: `  macroscope version
  macroscope version --short`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			if short {
				_, _ = fmt.Fprintln(out, version)
				return
			}
			_, _ = fmt.Fprintf(out, "macroscope v%s\n", version)
			_, _ = fmt.Fprintf(out, "macro_rules! expansion explorer built with %s (%s/%s)\n",
				runtime.Version(), runtime.GOOS, runtime.GOARCH)
			_, _ = fmt.Fprintf(out, "default limits: depth %d, expansions %d, tokens %d\n",
				resolve.DefaultMaxDepth, resolve.DefaultMaxExpansions, resolve.DefaultMaxTokens)
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "Print only the version number")

	return cmd
}
