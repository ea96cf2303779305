package models

// PackageMetadata represents all directives found in a package
type PackageMetadata struct {
	PackageName string       // name of the Go package
	PackagePath string       // file system path to the package
	ImportPath  string       // module-resolved import path, best effort
	Markers     []MarkerDecl // marker interfaces declared in the package
	Types       []TypeDecl   // marked type declarations, source order
	SourceFiles []string     // files that contributed at least one directive
}

// HasWork reports whether anything in the package needs validation or
// generation.
func (m *PackageMetadata) HasWork() bool {
	return len(m.Markers) > 0 || len(m.Types) > 0
}

// HasGeneratedOutput reports whether the package produces a generated
// file: at least one marked type naming at least one marker.
func (m *PackageMetadata) HasGeneratedOutput() bool {
	for i := range m.Types {
		if !m.Types[i].Markers.IsEmpty() {
			return true
		}
	}
	return false
}
