// Package earmark exposes the marker pipeline for embedding: programs
// can scan directories, validate marker declarations and render
// generated marker files without going through the command line.
package earmark

import (
	"context"
	"io"

	"github.com/toyz/earmark/internal/cli"
)

// Options configures a Process run. The zero value scans with the
// built-in defaults.
type Options struct {
	// OutputFileName overrides the generated file name written into
	// each package directory. Empty uses the default.
	OutputFileName string

	// Recursive enables recursive super-marker validation: embedded
	// interfaces resolvable in the scanned packages must themselves be
	// declared markers.
	Recursive bool

	// Exclude lists directory basenames skipped while scanning, on top
	// of the built-in vendor/testdata/hidden-directory set.
	Exclude []string

	// Jobs bounds the number of packages processed in parallel.
	// Zero means one worker per CPU.
	Jobs int

	// ModuleName overrides the module name used for import path
	// resolution. Empty resolves it from the enclosing go.mod.
	ModuleName string
}

// Result reports what a Process run produced.
type Result struct {
	Packages  int      // package directories processed
	Markers   int      // marker interfaces registered
	Types     int      // marked type declarations found
	Written   int      // generated files written this run
	UpToDate  int      // generated files already current
	Removed   int      // stale generated files removed
	Generated []string // every generated file current after the run
}

// Process runs the full pipeline over one scan target and writes the
// generated marker files. The target follows the Go tool's pattern
// syntax: a plain directory is processed as a single package, a
// "./..." suffix processes the whole tree below it. Validation
// failures abort before anything is written.
func Process(ctx context.Context, dir string, opts Options) (*Result, error) {
	config := cli.DefaultConfig()
	config.Directories = []string{dir}
	if opts.OutputFileName != "" {
		config.OutputFileName = opts.OutputFileName
	}
	config.Recursive = opts.Recursive
	config.Exclude = opts.Exclude
	config.Jobs = opts.Jobs
	config.ModuleName = opts.ModuleName

	if err := config.Validate(); err != nil {
		return nil, err
	}

	driver := cli.NewDriverWithOutput(config, io.Discard, io.Discard)
	if err := driver.Run(ctx); err != nil {
		return nil, err
	}

	summary := driver.Summary()
	return &Result{
		Packages:  summary.PackagesScanned,
		Markers:   summary.MarkersRegistered,
		Types:     summary.TypesMarked,
		Written:   summary.FilesWritten,
		UpToDate:  summary.FilesUpToDate,
		Removed:   summary.FilesRemoved,
		Generated: summary.GeneratedFiles,
	}, nil
}
