package parser

import (
	"fmt"

	"github.com/toyz/earmark/internal/errors"
	"github.com/toyz/earmark/internal/models"
)

// ErrorReporter builds the parser-level diagnostics that need more
// context than the directive engine has: directives attached to
// declarations that cannot carry them, and post-discovery advisories.
type ErrorReporter struct{}

// NewErrorReporter creates a new parser error reporter
func NewErrorReporter() *ErrorReporter {
	return &ErrorReporter{}
}

// MisplacedDirective creates the error for a directive attached to a
// declaration that has no single type to apply to: a func, var, const,
// or import declaration, or the outer doc of a grouped type block.
func (r *ErrorReporter) MisplacedDirective(loc errors.SourceLocation, declKind string) *errors.SyntaxError {
	err := errors.NewDirectiveSyntaxError("directive requires a single type declaration", loc, declKind)

	switch declKind {
	case "group":
		err.WithSuggestion("Move the directive onto the individual type inside the group")
	case "func":
		err.WithSuggestion("Directives apply to type declarations, not functions")
	default:
		err.WithSuggestion(fmt.Sprintf("Directives apply to type declarations, not %s declarations", declKind))
	}

	return err
}

// Diagnostics inspects discovered metadata for conditions worth
// surfacing that are not errors. Unknown marker paths are not checked,
// since resolving them is the compiler's job. The two cross-checks here
// catch the common slips: markers declared and never applied, and
// qualified paths whose qualifier no import provides.
func (r *ErrorReporter) Diagnostics(metadata *models.PackageMetadata) []string {
	var diagnostics []string

	applied := make(map[string]bool)
	for i := range metadata.Types {
		for _, ref := range metadata.Types[i].Markers.Refs {
			if !ref.Qualified() {
				applied[ref.Name] = true
			}
		}
	}
	for _, marker := range metadata.Markers {
		if !applied[marker.Name] {
			diagnostics = append(diagnostics, fmt.Sprintf(
				"marker '%s' (%s) is declared but never applied in package %s",
				marker.Name, marker.Position, metadata.PackageName))
		}
	}

	for i := range metadata.Types {
		decl := &metadata.Types[i]
		imported := make(map[string]bool, len(decl.Imports))
		for _, record := range decl.Imports {
			imported[record.Qualifier()] = true
		}
		for _, qualifier := range decl.Qualifiers {
			if !imported[qualifier] {
				diagnostics = append(diagnostics, fmt.Sprintf(
					"type '%s' (%s) references qualifier '%s' but %s imports no such package",
					decl.Name, decl.Position, qualifier, decl.FileName))
			}
		}
	}

	return diagnostics
}
