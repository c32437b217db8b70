package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var (
	Version   = "dev"
	CommitSHA = "none"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print trueno version and supported backends",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "trueno %s (commit: %s, built: %s)\n\n", Version, CommitSHA, BuildDate)
		fmt.Fprintln(out, "Execution backends:")
		fmt.Fprintln(out, "  • scalar (always available)")
		fmt.Fprintln(out, "  • vector-cpu (SIMD-width kernels)")
		fmt.Fprintln(out, "  • accelerator (dispatched for large operands only)")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
