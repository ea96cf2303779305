package main

import (
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [directories]",
	Short: "Verify generated marker files are current",
	Long: `Check runs the same discovery, validation and generation pipeline as
generate, but compares the result against the files on disk instead of
writing. Missing, outdated and orphaned generated files make the
command exit non-zero, which makes it suitable as a CI gate.`,
	Example: `  earmark check
  earmark check ./internal/...`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd, args, true)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
