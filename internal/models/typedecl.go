package models

import (
	"go/token"
	"strings"
)

// TypeParamGroup is one group of a type parameter list: the names that
// share a single constraint expression, in source order. The list
// [K, V comparable] parses as one group with two names.
type TypeParamGroup struct {
	Names      []string // parameter names, source order
	Constraint string   // constraint expression exactly as written
}

// TypeDecl represents a type declaration carrying a mark directive.
type TypeDecl struct {
	Name        string           // declared type name
	PackageName string           // package containing the declaration
	FileName    string           // file containing the declaration
	Position    token.Position   // declaration position for diagnostics
	Kind        TypeKind         // declaration form (struct, named, ...)
	TypeParams  []TypeParamGroup // type parameter groups, nil when non-generic
	Markers     MarkerList       // the mark directive's argument list
	Imports     []ImportRecord   // import table of the declaring file
	Qualifiers  []string         // package qualifiers referenced by constraints
}

// IsGeneric reports whether the declaration has a type parameter list.
func (d *TypeDecl) IsGeneric() bool {
	return len(d.TypeParams) > 0
}

// ParamNames returns the flattened parameter names in declaration order.
func (d *TypeDecl) ParamNames() []string {
	var names []string
	for _, g := range d.TypeParams {
		names = append(names, g.Names...)
	}
	return names
}

// DeclaredParams renders the full parameter list with constraints, the
// form used when declaring a generic function: "[K, V comparable]".
// Constraints are reproduced exactly as written in the source.
// Returns "" for non-generic declarations.
func (d *TypeDecl) DeclaredParams() string {
	if !d.IsGeneric() {
		return ""
	}
	var b strings.Builder
	b.WriteByte('[')
	for i, g := range d.TypeParams {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strings.Join(g.Names, ", "))
		b.WriteByte(' ')
		b.WriteString(g.Constraint)
	}
	b.WriteByte(']')
	return b.String()
}

// BareParams renders the parameter names without constraints, the form
// used to instantiate the type: "[K, V]". Returns "" for non-generic
// declarations.
func (d *TypeDecl) BareParams() string {
	if !d.IsGeneric() {
		return ""
	}
	return "[" + strings.Join(d.ParamNames(), ", ") + "]"
}
