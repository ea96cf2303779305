package main

import (
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate [directories]",
	Short: "Generate marker implementation files",
	Long: `Generate scans the given directories for //earmark:: directives,
validates every marker declaration and writes one generated marker
file into each package that marks types.

Directories follow the Go tool's pattern syntax: a plain directory is
scanned as a single package, a "./..." suffix scans the whole tree
below it. Without arguments the current module is scanned recursively.

Validation failures abort the run before anything is written, so a
broken package never leaves partial output behind.`,
	Example: `  earmark generate
  earmark generate ./internal/shapes
  earmark generate --recursive ./...
  earmark generate --output zz_markers.go ./pkg/...`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd, args, false)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
}
