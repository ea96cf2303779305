package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/toyz/earmark/internal/cli"
	"github.com/toyz/earmark/internal/utils"
)

// rootCmd is the base command. It carries the flags shared by every
// subcommand; the subcommands carry the actual work.
var rootCmd = &cobra.Command{
	Use:   "earmark",
	Short: "Marker interface generator for Go",
	Long: `earmark scans Go source for //earmark:: directives, validates the
declared marker interfaces and generates the sealing methods and
compile-time assertions that attach marked types to their markers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
	SilenceUsage:      true,
	SilenceErrors:     true,
	DisableAutoGenTag: true,
}

// Execute runs the root command. Errors have already been reported by
// the failing subcommand, so the exit code is all that is left to set.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	registerRootFlags(rootCmd.PersistentFlags())
}

// registerRootFlags declares the flags shared by every subcommand.
func registerRootFlags(flags *pflag.FlagSet) {
	flags.String("module", "", "module name used for import paths (defaults to the enclosing go.mod)")
	flags.String("config", "", "config file to load (defaults to "+cli.ConfigFileName+" in the working directory or a parent)")
	flags.String("output", utils.DefaultGeneratedFileName, "generated file name written into each package")
	flags.Bool("recursive", false, "validate embedded super-markers recursively")
	flags.IntP("jobs", "j", 0, "packages processed in parallel, 0 for one worker per CPU")
	flags.StringSlice("exclude", nil, "directory basenames to skip while scanning")
	flags.BoolP("verbose", "v", false, "enable detailed output and error reporting")
}

// resolveConfig layers the run configuration: defaults first, then the
// config file, then every flag changed on the command line. Positional
// arguments replace the default scan targets.
func resolveConfig(cmd *cobra.Command, args []string) (*cli.Config, error) {
	config := cli.DefaultConfig()
	flags := cmd.Flags()

	configPath, _ := flags.GetString("config")
	if configPath == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		configPath, err = cli.FindConfigFile(cwd)
		if err != nil {
			return nil, err
		}
	}
	if configPath != "" {
		fileConfig, err := cli.LoadConfigFile(configPath)
		if err != nil {
			return nil, err
		}
		config.ApplyFile(fileConfig)
	}

	if len(args) > 0 {
		config.Directories = args
	}
	if flags.Changed("output") {
		config.OutputFileName, _ = flags.GetString("output")
	}
	if flags.Changed("recursive") {
		config.Recursive, _ = flags.GetBool("recursive")
	}
	if flags.Changed("jobs") {
		config.Jobs, _ = flags.GetInt("jobs")
	}
	if excludes, _ := flags.GetStringSlice("exclude"); len(excludes) > 0 {
		config.Exclude = append(config.Exclude, excludes...)
	}
	config.ModuleName, _ = flags.GetString("module")
	config.Verbose, _ = flags.GetBool("verbose")

	if err := config.Validate(); err != nil {
		return nil, err
	}
	if err := config.CheckRequiredVersion(buildVersion()); err != nil {
		return nil, err
	}

	return config, nil
}

// runPipeline resolves the configuration and runs the driver in
// generate or check mode, routing failures through the structured
// error reporter before the non-zero exit.
func runPipeline(cmd *cobra.Command, args []string, check bool) error {
	config, err := resolveConfig(cmd, args)
	if err != nil {
		reportCommandError(cmd, err)
		return err
	}

	driver := cli.NewDriverWithOutput(config, cmd.OutOrStdout(), cmd.ErrOrStderr())

	reporter := driver.Reporter()
	reporter.DebugSection("Configuration")
	reporter.Debug("scan targets: %s", strings.Join(config.Directories, ", "))
	reporter.Debug("output file: %s", config.OutputFileName)
	reporter.Debug("recursive validation: %t", config.Recursive)
	if len(config.Exclude) > 0 {
		reporter.Debug("extra excludes: %s", strings.Join(config.Exclude, ", "))
	}

	if check {
		err = driver.Check(cmd.Context())
	} else {
		err = driver.Run(cmd.Context())
	}
	if err != nil {
		reporter.ReportError(err)
	}
	return err
}

// reportCommandError renders an error that happened before a driver
// existed, using the same reporter the driver would have used.
func reportCommandError(cmd *cobra.Command, err error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	reporter := cli.NewDiagnosticReporterWithOutput(verbose, cmd.OutOrStdout(), cmd.ErrOrStderr())
	reporter.ReportError(err)
}
