package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/toyz/earmark/internal/errors"
)

// DiagnosticReporter provides user-friendly error reporting and diagnostics
type DiagnosticReporter struct {
	verbose bool
	out     io.Writer
	errOut  io.Writer
}

// NewDiagnosticReporterWithOutput creates a reporter writing to the
// given writers
func NewDiagnosticReporterWithOutput(verbose bool, out, errOut io.Writer) *DiagnosticReporter {
	return &DiagnosticReporter{
		verbose: verbose,
		out:     out,
		errOut:  errOut,
	}
}

// ReportWarning provides user-friendly warning reporting
func (r *DiagnosticReporter) ReportWarning(message string) {
	yellow := color.New(color.FgYellow, color.Bold)
	yellow.Fprint(r.errOut, "! ")
	fmt.Fprintf(r.errOut, "%s\n", message)
}

// ReportError provides comprehensive error reporting with user-friendly output
func (r *DiagnosticReporter) ReportError(err error) {
	fmt.Fprintf(r.errOut, "\nERROR: Marker Generation Failed\n")
	fmt.Fprintf(r.errOut, "===============================\n\n")

	// Aggregated failures are reported one by one, led by a category summary
	if multi, ok := err.(*errors.MultipleErrors); ok {
		fmt.Fprintf(r.errOut, "%s\n\n", errors.SummarizeDirectiveErrors(multi.Errors).String())
		for i, inner := range multi.Errors {
			if i > 0 {
				fmt.Fprintf(r.errOut, "%s\n\n", strings.Repeat("-", 40))
			}
			r.reportEarmarkError(inner)
		}
		fmt.Fprintf(r.errOut, "\n")
		return
	}

	if earmarkErr := r.findEarmarkError(err); earmarkErr != nil {
		r.reportEarmarkError(earmarkErr)
	} else {
		r.reportBasicError(err)
	}

	fmt.Fprintf(r.errOut, "\n")
}

// reportEarmarkError reports a structured error with full context and suggestions
func (r *DiagnosticReporter) reportEarmarkError(err errors.EarmarkError) {
	r.printErrorHeader(err.ErrorCode())

	fmt.Fprintf(r.errOut, "Message: %s\n\n", err.Error())

	if r.verbose {
		if cause := err.Unwrap(); cause != nil {
			fmt.Fprintf(r.errOut, "Underlying cause: %s\n\n", cause.Error())
		}
	}

	if loc := err.Location(); !loc.IsEmpty() {
		fmt.Fprintf(r.errOut, "Location: %s\n\n", loc.String())
	}

	if context := err.Context(); len(context) > 0 {
		r.printContext(context)
	}

	if suggestions := err.Suggestions(); len(suggestions) > 0 {
		r.printSuggestions(suggestions)
	}

	r.printAdditionalHelp(err.ErrorCode())

	if r.verbose {
		r.printErrorChain(err)
	}
}

// reportBasicError reports an error without structured context
func (r *DiagnosticReporter) reportBasicError(err error) {
	fmt.Fprintf(r.errOut, "Message: %s\n\n", err.Error())

	errorMsg := strings.ToLower(err.Error())

	if strings.Contains(errorMsg, "directive") || strings.Contains(errorMsg, "marker") {
		fmt.Fprintf(r.errOut, "This appears to be a directive-related issue.\n")
		fmt.Fprintf(r.errOut, "Common solutions:\n")
		fmt.Fprintf(r.errOut, "  - Check your //earmark:: directive syntax\n")
		fmt.Fprintf(r.errOut, "  - Ensure //earmark::marker sits on an empty interface declaration\n")
		fmt.Fprintf(r.errOut, "  - Verify every name in a mark list is a marker name or pkg.Name path\n\n")
	} else if strings.Contains(errorMsg, "module") || strings.Contains(errorMsg, "go.mod") {
		fmt.Fprintf(r.errOut, "This appears to be a module-related issue.\n")
		fmt.Fprintf(r.errOut, "Common solutions:\n")
		fmt.Fprintf(r.errOut, "  - Check your go.mod file\n")
		fmt.Fprintf(r.errOut, "  - Run earmark from inside the module you are generating for\n")
		fmt.Fprintf(r.errOut, "  - Try specifying the --module flag explicitly\n\n")
	} else if strings.Contains(errorMsg, "config") {
		fmt.Fprintf(r.errOut, "This appears to be a configuration issue.\n")
		fmt.Fprintf(r.errOut, "Common solutions:\n")
		fmt.Fprintf(r.errOut, "  - Check the keys in %s\n", ConfigFileName)
		fmt.Fprintf(r.errOut, "  - Valid keys are output, recursive, jobs, exclude and required-version\n\n")
	}
}

// printErrorHeader prints a formatted error header based on the error code
func (r *DiagnosticReporter) printErrorHeader(code errors.ErrorCode) {
	var errorTypeStr string

	switch code {
	case errors.SyntaxErrorCode:
		errorTypeStr = "Directive Syntax Error"
	case errors.ArgumentErrorCode:
		errorTypeStr = "Directive Argument Error"
	case errors.StructuralErrorCode:
		errorTypeStr = "Marker Structure Error"
	case errors.ConflictErrorCode:
		errorTypeStr = "Marker Conflict Error"
	case errors.GenerationErrorCode:
		errorTypeStr = "Code Generation Error"
	case errors.TemplateErrorCode:
		errorTypeStr = "Template Error"
	case errors.FileSystemErrorCode:
		errorTypeStr = "File System Error"
	case errors.ConfigurationErrorCode:
		errorTypeStr = "Configuration Error"
	default:
		errorTypeStr = "Unknown Error"
	}

	fmt.Fprintf(r.errOut, "Type: %s\n", errorTypeStr)
	fmt.Fprintf(r.errOut, "%s\n\n", strings.Repeat("-", len(errorTypeStr)+6))
}

// printContext prints context information in a readable format
func (r *DiagnosticReporter) printContext(context map[string]interface{}) {
	fmt.Fprintf(r.errOut, "Context:\n")

	// Print important context items first
	importantKeys := []string{"marker_name", "type_name", "directive", "argument", "target_file"}
	printed := make(map[string]bool)

	for _, key := range importantKeys {
		if value, exists := context[key]; exists {
			fmt.Fprintf(r.errOut, "   %s: %v\n", r.formatContextKey(key), value)
			printed[key] = true
		}
	}

	for key, value := range context {
		if !printed[key] {
			fmt.Fprintf(r.errOut, "   %s: %v\n", r.formatContextKey(key), value)
		}
	}

	fmt.Fprintf(r.errOut, "\n")
}

// formatContextKey formats context keys to be more readable
func (r *DiagnosticReporter) formatContextKey(key string) string {
	switch key {
	case "marker_name":
		return "Marker"
	case "type_name":
		return "Type"
	case "directive":
		return "Directive"
	case "argument":
		return "Argument"
	case "target_file":
		return "Target File"
	case "first_declaration":
		return "First Declaration"
	default:
		// Convert snake_case to Title Case
		parts := strings.Split(key, "_")
		for i, part := range parts {
			if len(part) > 0 {
				parts[i] = strings.ToUpper(part[:1]) + part[1:]
			}
		}
		return strings.Join(parts, " ")
	}
}

// printSuggestions prints actionable suggestions
func (r *DiagnosticReporter) printSuggestions(suggestions []string) {
	fmt.Fprintf(r.errOut, "Suggestions:\n")

	for i, suggestion := range suggestions {
		lines := strings.Split(suggestion, "\n")
		if len(lines) == 1 {
			fmt.Fprintf(r.errOut, "   %d. %s\n", i+1, suggestion)
		} else {
			fmt.Fprintf(r.errOut, "   %d. %s\n", i+1, lines[0])
			for _, line := range lines[1:] {
				if strings.TrimSpace(line) != "" {
					fmt.Fprintf(r.errOut, "      %s\n", line)
				}
			}
		}
	}

	fmt.Fprintf(r.errOut, "\n")
}

// printAdditionalHelp prints additional help based on the error code
func (r *DiagnosticReporter) printAdditionalHelp(code errors.ErrorCode) {
	switch code {
	case errors.StructuralErrorCode:
		fmt.Fprintf(r.errOut, "Marker Interface Requirements:\n")
		fmt.Fprintf(r.errOut, "  - Must be an interface declaration with an empty body\n")
		fmt.Fprintf(r.errOut, "  - The generated is<Name>() tag method is the only member allowed\n")
		fmt.Fprintf(r.errOut, "  - No methods, no type terms, no type parameters\n\n")

	case errors.SyntaxErrorCode, errors.ArgumentErrorCode:
		fmt.Fprintf(r.errOut, "Directive Syntax Help:\n")
		fmt.Fprintf(r.errOut, "  - //earmark::marker goes on an empty interface declaration\n")
		fmt.Fprintf(r.errOut, "  - //earmark::mark Name, pkg.Name goes on the type to be marked\n")
		fmt.Fprintf(r.errOut, "  - Mark list entries are marker names or pkg.Name paths, comma separated\n\n")

	case errors.ConflictErrorCode:
		fmt.Fprintf(r.errOut, "Resolving Marker Conflicts:\n")
		fmt.Fprintf(r.errOut, "  - Each marker name can be declared once per package\n")
		fmt.Fprintf(r.errOut, "  - Rename one of the conflicting declarations\n")
		fmt.Fprintf(r.errOut, "  - Or move one declaration into a different package\n\n")

	case errors.ConfigurationErrorCode:
		fmt.Fprintf(r.errOut, "Configuration Help:\n")
		fmt.Fprintf(r.errOut, "  - Settings come from %s, overridden by flags\n", ConfigFileName)
		fmt.Fprintf(r.errOut, "  - Valid keys are output, recursive, jobs, exclude and required-version\n\n")
	}

	fmt.Fprintf(r.errOut, "For more help:\n")
	fmt.Fprintf(r.errOut, "  - Run with --verbose for more detailed output\n")
	fmt.Fprintf(r.errOut, "  - Review example usage in the examples/ directory\n")
}

// findEarmarkError searches the wrap chain for a structured error
func (r *DiagnosticReporter) findEarmarkError(err error) errors.EarmarkError {
	for err != nil {
		if earmarkErr, ok := err.(errors.EarmarkError); ok {
			return earmarkErr
		}

		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil
		}
		err = unwrapper.Unwrap()
	}

	return nil
}

// printErrorChain prints the full cause chain in verbose mode
func (r *DiagnosticReporter) printErrorChain(err errors.EarmarkError) {
	cause := err.Unwrap()
	if cause == nil {
		return
	}

	fmt.Fprintf(r.errOut, "Error Chain:\n")
	level := 1
	var current error = cause
	for current != nil {
		fmt.Fprintf(r.errOut, "  %d. %s\n", level, current.Error())
		unwrapper, ok := current.(interface{ Unwrap() error })
		if !ok {
			break
		}
		current = unwrapper.Unwrap()
		level++
	}

	fmt.Fprintf(r.errOut, "\n")
}

// Debug prints debug information when verbose mode is enabled
func (r *DiagnosticReporter) Debug(format string, args ...interface{}) {
	if r.verbose {
		fmt.Fprintf(r.errOut, "[DEBUG] "+format+"\n", args...)
	}
}

// DebugSection prints a debug section header when verbose mode is enabled
func (r *DiagnosticReporter) DebugSection(section string) {
	if r.verbose {
		fmt.Fprintf(r.errOut, "[DEBUG] === %s ===\n", section)
	}
}

// ReportSuccess reports a successful run with summary information
func (r *DiagnosticReporter) ReportSuccess(summary GenerationSummary) {
	fmt.Fprintf(r.out, "\nMarker Generation Completed Successfully!\n")
	fmt.Fprintf(r.out, "=========================================\n\n")

	if summary.PackagesScanned > 0 {
		fmt.Fprintf(r.out, "Scanned %d packages\n", summary.PackagesScanned)
	}

	if summary.MarkersRegistered > 0 {
		fmt.Fprintf(r.out, "Registered %d markers\n", summary.MarkersRegistered)
	}

	if summary.TypesMarked > 0 {
		fmt.Fprintf(r.out, "Processed %d marked types\n", summary.TypesMarked)
	}

	if summary.FilesWritten > 0 {
		fmt.Fprintf(r.out, "Wrote %d generated files\n", summary.FilesWritten)
	}

	if summary.FilesUpToDate > 0 {
		fmt.Fprintf(r.out, "%d files already up to date\n", summary.FilesUpToDate)
	}

	if summary.FilesRemoved > 0 {
		fmt.Fprintf(r.out, "Removed %d stale generated files\n", summary.FilesRemoved)
	}

	if len(summary.GeneratedFiles) > 0 {
		fmt.Fprintf(r.out, "\nGenerated files:\n")
		for _, file := range summary.GeneratedFiles {
			fmt.Fprintf(r.out, "  - %s\n", file)
		}
	}

	fmt.Fprintf(r.out, "\nYour marker implementations are ready to use.\n")
}

// GenerationSummary contains information about a completed run
type GenerationSummary struct {
	PackagesScanned   int
	MarkersRegistered int
	TypesMarked       int
	FilesWritten      int
	FilesUpToDate     int
	FilesRemoved      int
	GeneratedFiles    []string
}
