package errors

import (
	"fmt"
	"strings"
)

// Directive-specific error constructors that use the unified base types

// DirectiveType represents the type of directive an error belongs to
type DirectiveType int

const (
	UnknownDirective DirectiveType = iota
	MarkerDirective
	MarkDirective
)

// String returns the string representation of the directive type
func (d DirectiveType) String() string {
	switch d {
	case MarkerDirective:
		return "marker"
	case MarkDirective:
		return "mark"
	default:
		return "unknown"
	}
}

// NewDirectiveSyntaxError creates a syntax error specific to directives
func NewDirectiveSyntaxError(message string, loc SourceLocation, context string) *SyntaxError {
	err := NewSyntaxError(message)
	err.WithLocation(loc)
	err.WithContext("parse_context", context)

	// Add context-aware suggestions
	suggestion := generateSyntaxSuggestion(message, context)
	if suggestion != "" {
		err.WithSuggestion(suggestion)
	}

	return err
}

// NewDirectiveArgumentError creates an argument error for a mark-list entry
func NewDirectiveArgumentError(argument string, index int, loc SourceLocation, directiveType DirectiveType) *ArgumentError {
	err := NewArgumentError(argument, index)
	err.WithLocation(loc)
	err.BaseError.WithContext("directive_type", directiveType.String())

	// Add context-aware suggestions
	suggestion := generateArgumentSuggestion(argument, directiveType)
	if suggestion != "" {
		err.WithSuggestion(suggestion)
	}

	return err
}

// NewMarkerStructuralError creates a structural violation for a marker declaration
func NewMarkerStructuralError(markerName, detail string, loc SourceLocation) *StructuralError {
	err := NewStructuralError(markerName, detail)
	err.WithLocation(loc)

	// Add context-aware suggestions
	suggestion := generateStructuralSuggestion(detail)
	if suggestion != "" {
		err.WithSuggestion(suggestion)
	}

	return err
}

// NewMarkTargetStructuralError creates a structural violation for a mark
// directive attached to a declaration it cannot target
func NewMarkTargetStructuralError(typeName, detail string, loc SourceLocation) *StructuralError {
	err := NewMarkTargetError(typeName, detail)
	err.WithLocation(loc)

	suggestion := generateMarkTargetSuggestion(detail)
	if suggestion != "" {
		err.WithSuggestion(suggestion)
	}

	return err
}

// DirectiveErrorCollector helps collect multiple directive errors
type DirectiveErrorCollector struct {
	*MultipleErrors
	maxErrors int
}

// NewDirectiveErrorCollector creates a new error collector
func NewDirectiveErrorCollector(maxErrors int) *DirectiveErrorCollector {
	if maxErrors <= 0 {
		maxErrors = 100 // default maximum
	}

	return &DirectiveErrorCollector{
		MultipleErrors: NewMultipleErrors(),
		maxErrors:      maxErrors,
	}
}

// Add collects one more error, dropping everything past the cap so a
// pathological file cannot flood the report.
func (c *DirectiveErrorCollector) Add(err EarmarkError) {
	if c.Count() >= c.maxErrors {
		return
	}

	c.MultipleErrors.Add(err)
}

// ToError returns the collected errors as a single error
func (c *DirectiveErrorCollector) ToError() EarmarkError {
	if c.IsEmpty() {
		return nil
	}

	if c.Count() == 1 {
		return c.Errors[0]
	}

	// MultipleErrors implements the EarmarkError interface
	return c.MultipleErrors
}

// DirectiveErrorSummary groups collected errors for reporting
type DirectiveErrorSummary struct {
	SyntaxErrors     []EarmarkError
	ArgumentErrors   []EarmarkError
	StructuralErrors []EarmarkError
	ConflictErrors   []EarmarkError
	OtherErrors      []EarmarkError
	TotalCount       int
}

// SummarizeDirectiveErrors creates an error summary from a collection of errors
func SummarizeDirectiveErrors(errors []EarmarkError) DirectiveErrorSummary {
	summary := DirectiveErrorSummary{
		TotalCount: len(errors),
	}

	for _, err := range errors {
		switch err.ErrorCode() {
		case SyntaxErrorCode:
			summary.SyntaxErrors = append(summary.SyntaxErrors, err)
		case ArgumentErrorCode:
			summary.ArgumentErrors = append(summary.ArgumentErrors, err)
		case StructuralErrorCode:
			summary.StructuralErrors = append(summary.StructuralErrors, err)
		case ConflictErrorCode:
			summary.ConflictErrors = append(summary.ConflictErrors, err)
		default:
			summary.OtherErrors = append(summary.OtherErrors, err)
		}
	}

	return summary
}

// String returns a formatted summary of errors
func (s DirectiveErrorSummary) String() string {
	if s.TotalCount == 0 {
		return "No errors found"
	}

	var parts []string
	if len(s.SyntaxErrors) > 0 {
		parts = append(parts, fmt.Sprintf("%d syntax error(s)", len(s.SyntaxErrors)))
	}
	if len(s.ArgumentErrors) > 0 {
		parts = append(parts, fmt.Sprintf("%d argument error(s)", len(s.ArgumentErrors)))
	}
	if len(s.StructuralErrors) > 0 {
		parts = append(parts, fmt.Sprintf("%d structural error(s)", len(s.StructuralErrors)))
	}
	if len(s.ConflictErrors) > 0 {
		parts = append(parts, fmt.Sprintf("%d conflict error(s)", len(s.ConflictErrors)))
	}
	if len(s.OtherErrors) > 0 {
		parts = append(parts, fmt.Sprintf("%d other error(s)", len(s.OtherErrors)))
	}

	return fmt.Sprintf("Found %d total error(s): %s", s.TotalCount, strings.Join(parts, ", "))
}

// Context-aware error message generators with fix suggestions

// generateSyntaxSuggestion provides context-aware suggestions for syntax errors
func generateSyntaxSuggestion(msg, context string) string {
	msg = strings.ToLower(msg)
	context = strings.ToLower(context)

	switch {
	case strings.Contains(msg, "missing directive name"):
		return "Try: //earmark::marker or //earmark::mark Array, Uniform"
	case strings.Contains(msg, "invalid directive prefix"):
		return "Directive must start with '//earmark::' (note the double colon)"
	case strings.Contains(msg, "unknown directive"):
		return "Supported directives: marker, mark"
	case strings.Contains(msg, "takes no arguments"):
		return "The marker directive stands alone: //earmark::marker"
	case strings.Contains(msg, "single type declaration"):
		return "Attach the directive to one type declaration's doc comment"
	case strings.Contains(msg, "unexpected token"):
		if strings.Contains(context, "mark") {
			return "Mark format: //earmark::mark Name[, Name...] where each name is an identifier or pkg.Identifier"
		}
		return "Check directive syntax: //earmark::marker or //earmark::mark Name"
	default:
		return "Check directive syntax and refer to documentation for examples"
	}
}

// generateArgumentSuggestion provides context-aware suggestions for
// mark-list arguments that are not marker paths
func generateArgumentSuggestion(argument string, directiveType DirectiveType) string {
	switch {
	case strings.Contains(argument, "="):
		return "Markers are listed by name only; there are no name=value parameters. Example: //earmark::mark Array, Uniform"
	case strings.HasPrefix(argument, "-"):
		return "Markers are listed by name only; there are no flags. Example: //earmark::mark Array"
	case strings.ContainsAny(argument, "()[]"):
		return "Marker paths cannot be parameterized. Use a plain identifier or pkg.Identifier"
	case directiveType == MarkDirective:
		return "Each entry must be an identifier or pkg.Identifier. Example: //earmark::mark Array, shapes.Uniform"
	default:
		return ""
	}
}

// generateMarkTargetSuggestion provides context-aware suggestions for
// mark directives attached to declarations they cannot target
func generateMarkTargetSuggestion(detail string) string {
	detail = strings.ToLower(detail)

	switch {
	case strings.Contains(detail, "alias"):
		return "Mark a defined type: type Meters float64, not type Meters = float64"
	case strings.Contains(detail, "interface"):
		return "Interfaces cannot carry tag methods. Mark the concrete types, or declare the interface as a marker"
	default:
		return "Apply //earmark::mark to a struct or defined type declaration"
	}
}

// generateStructuralSuggestion provides context-aware suggestions for
// marker declarations that fail validation
func generateStructuralSuggestion(detail string) string {
	detail = strings.ToLower(detail)

	switch {
	case strings.Contains(detail, "method"):
		return "Markers carry no behavior. Move the method to a separate interface and embed the marker in it"
	case strings.Contains(detail, "type parameter"):
		return "Marker interfaces cannot be generic. Declare the marker without type parameters"
	case strings.Contains(detail, "alias"):
		return "Declare the marker as a defined type: type Array interface{}, not type Array = interface{}"
	case strings.Contains(detail, "union"), strings.Contains(detail, "term"):
		return "Markers cannot embed type terms. Embed named marker interfaces only"
	case strings.Contains(detail, "not a declared marker"):
		return "Recursive validation requires every embedded interface to be a marker. Declare it with //earmark::marker or turn recursive validation off"
	case strings.Contains(detail, "embedded"):
		return "Embedded elements must be named interfaces: plain identifiers or pkg.Identifier"
	case strings.Contains(detail, "interface"):
		return "The marker directive applies to interface type declarations only"
	default:
		return "A marker interface declares no methods other than its own sealing method"
	}
}
