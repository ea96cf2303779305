package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// BuildVersion is the release version stamped at build time via
// -ldflags "-X main.BuildVersion=...". Source builds fall back to the
// module version recorded by the Go toolchain.
var BuildVersion = "dev"

// buildVersion resolves the version reported to users and checked
// against required-version constraints.
func buildVersion() string {
	if BuildVersion != "dev" {
		return BuildVersion
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return BuildVersion
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the earmark version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(cmd.OutOrStdout(), "earmark %s\n", buildVersion())

		if detailed, _ := cmd.Flags().GetBool("build-info"); detailed {
			if info, ok := debug.ReadBuildInfo(); ok {
				fmt.Fprint(cmd.OutOrStdout(), info.String())
			}
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().Bool("build-info", false, "print the full Go build information")
	rootCmd.AddCommand(versionCmd)
}
