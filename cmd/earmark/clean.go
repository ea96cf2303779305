package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/toyz/earmark/internal/cli"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [directories]",
	Short: "Remove generated marker files",
	Long: `Clean deletes generated marker files from the given directories.
A "./..." suffix cleans the whole tree below the directory; a plain
directory is cleaned on its own. Source files are never touched.`,
	Example: `  earmark clean ./...
  earmark clean --output zz_markers.go ./internal/shapes`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := resolveConfig(cmd, args)
		if err != nil {
			reportCommandError(cmd, err)
			return err
		}

		cleaner := cli.NewCleaner()
		cleaner.SetGeneratedFileName(config.OutputFileName)

		removed, err := cleaner.CleanGeneratedFiles(config.Directories)
		for _, file := range removed {
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", file)
		}
		if err != nil {
			reportCommandError(cmd, err)
			return err
		}

		if len(removed) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no generated marker files found")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}
