package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/toyz/earmark/internal/errors"
	"github.com/toyz/earmark/internal/generator"
	"github.com/toyz/earmark/internal/models"
	"github.com/toyz/earmark/internal/parser"
	"github.com/toyz/earmark/internal/registry"
	"github.com/toyz/earmark/internal/utils"
)

// Driver runs the marker pipeline over the configured scan targets:
// discover directives, validate marker declarations, generate
// implementation files and write or verify them.
type Driver struct {
	config    *Config
	diag      *utils.DiagnosticSystem
	reporter  *DiagnosticReporter
	resolver  *ModuleResolver
	processor *utils.FileProcessor
	scanner   *DirectoryScanner
	registry  registry.MarkerRegistry
	generator generator.CodeGenerator
	summary   GenerationSummary
}

// NewDriverWithOutput creates a driver whose progress and reports go to
// the given writers. Commands pass their cobra streams, the embedding
// API passes io.Discard.
func NewDriverWithOutput(config *Config, out, errOut io.Writer) *Driver {
	level := utils.DiagnosticInfo
	if config.Verbose {
		level = utils.DiagnosticVerbose
	}

	processor := utils.NewFileProcessor()
	processor.SetGeneratedFileName(config.OutputFileName)

	scanner := NewDirectoryScannerWithProcessor(processor)
	scanner.SetExcludes(config.Exclude)

	return &Driver{
		config:    config,
		diag:      utils.NewDiagnosticSystemWithOutput(level, out, errOut),
		reporter:  NewDiagnosticReporterWithOutput(config.Verbose, out, errOut),
		resolver:  NewModuleResolver(),
		processor: processor,
		scanner:   scanner,
		registry:  registry.NewMarkerRegistry(),
		generator: generator.NewGeneratorWithFileName(config.OutputFileName),
	}
}

// Run executes the full pipeline and writes generated files
func (d *Driver) Run(ctx context.Context) error {
	d.summary = GenerationSummary{}

	packages, err := d.prepare(ctx)
	if err != nil {
		return err
	}

	if len(packages) == 0 {
		d.diag.Info("no Go packages found under the given directories")
		return nil
	}

	return d.generateFiles(ctx, packages)
}

// Check executes the full pipeline without writing anything and fails
// when any generated file on disk is missing, outdated or orphaned
func (d *Driver) Check(ctx context.Context) error {
	packages, err := d.prepare(ctx)
	if err != nil {
		return err
	}

	return d.checkFiles(ctx, packages)
}

// Discover scans and parses the configured targets without validating
// or generating anything. The list command renders its output.
func (d *Driver) Discover(ctx context.Context) ([]*models.PackageMetadata, error) {
	pkgDirs, err := d.scanner.ScanDirectories(d.config.Directories)
	if err != nil {
		return nil, err
	}

	return d.parsePackages(ctx, pkgDirs)
}

// Reporter returns the driver's diagnostic reporter so commands share
// one error rendering path
func (d *Driver) Reporter() *DiagnosticReporter {
	return d.reporter
}

// Summary returns the outcome of the last Run
func (d *Driver) Summary() GenerationSummary {
	return d.summary
}

// prepare runs discovery and validation: scan targets, parse directives
// in parallel, register markers and validate marker structure. Any
// diagnostic aborts before generation touches the filesystem.
func (d *Driver) prepare(ctx context.Context) ([]*models.PackageMetadata, error) {
	d.diag.ToolHeader("scanning for marker directives")
	d.diag.SourcePath(strings.Join(d.config.Directories, ", "))

	if moduleName, err := d.resolver.ResolveModuleName(d.config.ModuleName); err == nil {
		d.diag.Verbose("resolved module %s", moduleName)
	} else {
		d.diag.Verbose("module resolution unavailable: %v", err)
	}

	d.diag.PhaseHeader("Discovery")

	pkgDirs, err := d.scanner.ScanDirectories(d.config.Directories)
	if err != nil {
		return nil, err
	}

	if len(pkgDirs) == 0 {
		return nil, nil
	}
	d.diag.PhaseItem(fmt.Sprintf("Found %d package directories", len(pkgDirs)))

	packages, err := d.parsePackages(ctx, pkgDirs)
	if err != nil {
		return nil, err
	}

	markers, types := 0, 0
	for _, metadata := range packages {
		markers += len(metadata.Markers)
		types += len(metadata.Types)
		if metadata.HasWork() {
			d.diag.Verbose("package %s: %d markers, %d marked types",
				metadata.PackageName, len(metadata.Markers), len(metadata.Types))
		}
	}
	d.diag.PhaseItem(fmt.Sprintf("Discovered %d markers and %d marked types", markers, types))

	d.diag.PhaseHeader("Validation")

	// A reused driver must not carry the previous run's markers.
	d.registry.Clear()

	var multiple *errors.MultipleErrors
	for _, metadata := range packages {
		appendRunErrors(&multiple, d.registry.RegisterPackage(metadata))
	}
	if err := collapseRunErrors(multiple); err != nil {
		return nil, err
	}
	d.diag.PhaseItem(fmt.Sprintf("Registered %d markers", d.registry.Len()))
	for _, decl := range d.registry.All() {
		d.diag.Verbose("registered marker %s", decl.QualifiedName())
	}

	if err := d.registry.ValidateStructure(d.config.Recursive); err != nil {
		return nil, err
	}
	if d.config.Recursive {
		d.diag.PhaseItem("Validated embedded marker chains")
	}

	return packages, nil
}

// parsePackages parses package directories in parallel, bounded by the
// configured worker count. Results and failures keep directory order,
// so output and aggregated diagnostics stay deterministic.
func (d *Driver) parsePackages(ctx context.Context, pkgDirs []string) ([]*models.PackageMetadata, error) {
	metadatas := make([]*models.PackageMetadata, len(pkgDirs))
	parseErrs := make([]error, len(pkgDirs))
	advisories := make([][]string, len(pkgDirs))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(d.workerCount())

	for i, dir := range pkgDirs {
		i, dir := i, dir
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			// Workers get their own parser; the shared processor
			// keeps AST and content caches common across them.
			p := parser.NewParserWithProcessor(d.processor)

			metadata, err := p.ParseDirectory(dir)
			if err != nil {
				parseErrs[i] = err
				return nil
			}

			metadatas[i] = metadata
			advisories[i] = p.Diagnostics(metadata)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	for _, messages := range advisories {
		for _, message := range messages {
			d.reporter.ReportWarning(message)
		}
	}

	var multiple *errors.MultipleErrors
	for _, err := range parseErrs {
		appendRunErrors(&multiple, err)
	}
	if err := collapseRunErrors(multiple); err != nil {
		return nil, err
	}

	return metadatas, nil
}

// generateFiles produces every package's generated content first and
// writes only after all packages succeeded, so a failing package never
// leaves partial output behind.
func (d *Driver) generateFiles(ctx context.Context, packages []*models.PackageMetadata) error {
	d.diag.PhaseHeader("Generation")

	files, err := d.renderPackages(ctx, packages)
	if err != nil {
		return err
	}

	summary := GenerationSummary{
		PackagesScanned:   len(packages),
		MarkersRegistered: d.registry.Len(),
	}
	for _, metadata := range packages {
		summary.TypesMarked += len(metadata.Types)
	}

	for i, metadata := range packages {
		file := files[i]
		if file == nil {
			removed, err := d.removeStaleFile(metadata)
			if err != nil {
				return err
			}
			if removed != "" {
				summary.FilesRemoved++
				d.diag.PhaseProgress(fmt.Sprintf("Removed stale %s", displayPath(removed)))
			}
			continue
		}

		upToDate, err := d.writeGeneratedFile(file)
		if err != nil {
			return err
		}

		if upToDate {
			summary.FilesUpToDate++
			d.diag.Verbose("up to date %s", displayPath(file.FilePath))
		} else {
			summary.FilesWritten++
			d.diag.PhaseProgress(fmt.Sprintf("Writing %s", displayPath(file.FilePath)))
		}
		summary.GeneratedFiles = append(summary.GeneratedFiles, displayPath(file.FilePath))
	}

	d.summary = summary
	d.diag.GenerationComplete()
	d.reporter.ReportSuccess(summary)
	return nil
}

// checkFiles compares generated content against the files on disk and
// reports everything that would change, without writing
func (d *Driver) checkFiles(ctx context.Context, packages []*models.PackageMetadata) error {
	d.diag.PhaseHeader("Verification")

	files, err := d.renderPackages(ctx, packages)
	if err != nil {
		return err
	}

	var stale []string
	for i, metadata := range packages {
		file := files[i]

		if file == nil {
			target := filepath.Join(metadata.PackagePath, d.config.OutputFileName)
			if _, err := os.Stat(target); err == nil {
				stale = append(stale, target)
				d.diag.List("%s (orphaned)", displayPath(target))
			}
			continue
		}

		onDisk, err := os.ReadFile(file.FilePath)
		switch {
		case os.IsNotExist(err):
			stale = append(stale, file.FilePath)
			d.diag.List("%s (missing)", displayPath(file.FilePath))
		case err != nil:
			return errors.WrapFileSystemError("read", file.FilePath, err)
		case string(onDisk) != file.Content:
			stale = append(stale, file.FilePath)
			d.diag.List("%s (outdated)", displayPath(file.FilePath))
		}
	}

	if len(stale) > 0 {
		return errors.Newf(errors.GenerationErrorCode,
			"%d generated marker file(s) need regeneration", len(stale)).
			WithContext("files", strings.Join(stale, ", ")).
			WithSuggestion("Run 'earmark generate' to refresh them")
	}

	d.diag.Success("all generated marker files are up to date (%d packages)", len(packages))
	return nil
}

// renderPackages runs the pure generation pass in parallel and returns
// one entry per package, nil where the package produces no output.
// Failures are aggregated in package order.
func (d *Driver) renderPackages(ctx context.Context, packages []*models.PackageMetadata) ([]*models.GeneratedFile, error) {
	files := make([]*models.GeneratedFile, len(packages))
	genErrs := make([]error, len(packages))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(d.workerCount())

	for i, metadata := range packages {
		i, metadata := i, metadata
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			file, err := d.generator.GenerateFile(metadata)
			if err != nil {
				genErrs[i] = err
				return nil
			}

			files[i] = file
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	var multiple *errors.MultipleErrors
	for _, err := range genErrs {
		appendRunErrors(&multiple, err)
	}
	if err := collapseRunErrors(multiple); err != nil {
		return nil, err
	}

	return files, nil
}

// writeGeneratedFile writes a generated file, skipping the write when
// the on-disk content already matches
func (d *Driver) writeGeneratedFile(file *models.GeneratedFile) (upToDate bool, err error) {
	if onDisk, err := os.ReadFile(file.FilePath); err == nil && string(onDisk) == file.Content {
		return true, nil
	}

	if err := os.WriteFile(file.FilePath, []byte(file.Content), 0644); err != nil {
		return false, errors.WrapFileSystemError("write", file.FilePath, err)
	}

	return false, nil
}

// removeStaleFile deletes the generated file of a package that no
// longer produces output, so generate converges with check
func (d *Driver) removeStaleFile(metadata *models.PackageMetadata) (string, error) {
	target := filepath.Join(metadata.PackagePath, d.config.OutputFileName)

	if _, err := os.Stat(target); err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.WrapFileSystemError("check", target, err)
	}

	if err := os.Remove(target); err != nil {
		return "", errors.WrapFileSystemError("remove", target, err)
	}

	return target, nil
}

// workerCount resolves the configured jobs value
func (d *Driver) workerCount() int {
	if d.config.Jobs > 0 {
		return d.config.Jobs
	}
	return runtime.NumCPU()
}

// appendRunErrors folds a phase error into the aggregate, flattening
// nested aggregates so reporting stays one level deep
func appendRunErrors(multiple **errors.MultipleErrors, err error) {
	if err == nil {
		return
	}

	if agg, ok := err.(*errors.MultipleErrors); ok {
		for _, inner := range agg.Errors {
			errors.AddToMultiple(multiple, inner)
		}
		return
	}

	if structured, ok := err.(errors.EarmarkError); ok {
		errors.AddToMultiple(multiple, structured)
		return
	}

	errors.AddToMultiple(multiple, errors.New(errors.UnknownErrorCode, err.Error()).WithCause(err))
}

// collapseRunErrors folds the aggregate down to its simplest form
func collapseRunErrors(multiple *errors.MultipleErrors) error {
	if multiple == nil || multiple.IsEmpty() {
		return nil
	}
	if multiple.Count() == 1 {
		return multiple.Errors[0]
	}
	return multiple
}

// displayPath shortens a path for output, relative to the working
// directory when it sits below it
func displayPath(path string) string {
	cwd, err := os.Getwd()
	if err != nil {
		return path
	}

	rel, err := filepath.Rel(cwd, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
