package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msto63/rdtrace/pkg/core/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		info := version.Get()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "rdtrace v%s\n", info.Version)
		fmt.Fprintf(out, "  Git Commit:   %s\n", info.GitCommit)
		fmt.Fprintf(out, "  Build Date:   %s\n", info.BuildDate)
		fmt.Fprintf(out, "  Go Version:   %s\n", info.GoVersion)
		fmt.Fprintf(out, "  OS/Arch:      %s\n", info.Platform)
		fmt.Fprintf(out, "  Trace Format: %s\n", info.TraceFormat)
		fmt.Fprintf(out, "  API:          %s\n", info.API)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
