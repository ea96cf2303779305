package models

// ImplBlock is one marker implementation for one type: a tag-method stub
// sealing the type into the marker, paired with a compile-time assertion
// that pins the conformance.
type ImplBlock struct {
	TypeName  string    // marked type name
	Marker    MarkerRef // marker path the block implements
	TagMethod string    // sealing method name, from the path's final segment
}

// Output is the result of generating one marked type declaration: the
// declaration itself, passed through untouched, followed by one block per
// listed marker in argument order.
type Output struct {
	Decl   *TypeDecl   // the marked declaration, never rewritten
	Blocks []ImplBlock // blocks in mark-list order, duplicates kept
}

// Len returns the item count of the output: the pass-through declaration
// plus every generated block.
func (o *Output) Len() int {
	return 1 + len(o.Blocks)
}

// GeneratedFile represents one generated marker file for a package
type GeneratedFile struct {
	PackageName string // name of the package
	FilePath    string // path where the file should be written
	Content     string // generated Go code content
	Outputs     int    // number of type declarations covered
}
