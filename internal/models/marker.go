package models

import "go/token"

// MarkerRef is one marker path as written in a mark list: a bare
// identifier for a marker in the scanned package, or a package-qualified
// one for an imported marker.
type MarkerRef struct {
	Package string // qualifier before the dot, empty for local markers
	Name    string // final path segment
	Raw     string // path exactly as written in the directive
}

// Qualified reports whether the path carries a package qualifier.
func (r MarkerRef) Qualified() bool {
	return r.Package != ""
}

// String returns the path as it should appear in generated code.
func (r MarkerRef) String() string {
	if r.Raw != "" {
		return r.Raw
	}
	if r.Package != "" {
		return r.Package + "." + r.Name
	}
	return r.Name
}

// TagMethod returns the sealing method name derived from the path's
// final segment.
func (r MarkerRef) TagMethod() string {
	return "is" + r.Name
}

// MarkerList is the ordered argument list of a mark directive. Order is
// preserved and duplicates are kept; the generator emits one block per
// entry exactly as listed.
type MarkerList struct {
	Refs []MarkerRef // marker paths in argument order
	Raw  string      // argument text exactly as written
}

// IsEmpty reports whether the list names no markers at all.
func (l MarkerList) IsEmpty() bool {
	return len(l.Refs) == 0
}

// Len returns the number of listed paths, duplicates included.
func (l MarkerList) Len() int {
	return len(l.Refs)
}

// MarkerDecl represents a marker interface declaration found during
// discovery, after structural validation.
type MarkerDecl struct {
	Name         string         // interface name
	PackageName  string         // package declaring the interface
	FileName     string         // file containing the declaration
	Position     token.Position // declaration position for diagnostics
	HasTagMethod bool           // declaration already spells out the tag method
	Embedded     []MarkerRef    // embedded super-markers, declaration order
}

// TagMethod returns the canonical sealing method name for the marker.
func (d MarkerDecl) TagMethod() string {
	return "is" + d.Name
}

// QualifiedName returns the registry key for the marker.
func (d MarkerDecl) QualifiedName() string {
	if d.PackageName == "" {
		return d.Name
	}
	return d.PackageName + "." + d.Name
}
