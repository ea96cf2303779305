package directives

import (
	"github.com/toyz/earmark/internal/errors"
)

// Prefix is the comment prefix shared by all earmark directives.
const Prefix = "earmark::"

// DirectiveType represents the type of directive found in source code
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

// directiveSpec describes the argument policy of one directive.
type directiveSpec struct {
	Type          DirectiveType
	TakesMarkList bool // arguments form a comma-separated marker list
}

// specs is the directive table. Adding a directive means adding a row
// here and matching suggestion text in the errors package.
var specs = map[string]directiveSpec{
	"marker": {Type: MarkerDirective, TakesMarkList: false},
	"mark":   {Type: MarkDirective, TakesMarkList: true},
}

// MarkerRef is one marker path parsed out of a mark list.
type MarkerRef struct {
	Package string // qualifier before the dot, empty for local markers
	Name    string // final path segment
	Raw     string // entry text exactly as written
}

// String returns the path in source form.
func (r MarkerRef) String() string {
	if r.Raw != "" {
		return r.Raw
	}
	if r.Package != "" {
		return r.Package + "." + r.Name
	}
	return r.Name
}

// ParsedDirective represents a directive parsed from a source comment
type ParsedDirective struct {
	Type     DirectiveType         // which directive this is
	Markers  []MarkerRef           // mark directive only, argument order
	Location errors.SourceLocation // where the comment starts
	Raw      string                // comment text exactly as written
}
