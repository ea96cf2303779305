package models

// TypeKind classifies the declaration form a directive was attached to.
type TypeKind int

const (
	TypeKindStruct TypeKind = iota
	TypeKindNamed
	TypeKindInterface
	TypeKindAlias
)

// String returns a human-readable name for the type kind
func (k TypeKind) String() string {
	switch k {
	case TypeKindStruct:
		return "struct"
	case TypeKindNamed:
		return "named type"
	case TypeKindInterface:
		return "interface"
	case TypeKindAlias:
		return "alias"
	default:
		return "unknown"
	}
}

// ImportRecord represents one import spec of a source file
type ImportRecord struct {
	Alias string // local alias, empty when the package name is used
	Path  string // import path with quotes stripped
}

// Qualifier returns the identifier that selects this import in source,
// preferring the alias when one is declared.
func (r ImportRecord) Qualifier() string {
	if r.Alias != "" {
		return r.Alias
	}
	// fall back to the last path segment, which matches the package name
	// for the overwhelming majority of import paths
	for i := len(r.Path) - 1; i >= 0; i-- {
		if r.Path[i] == '/' {
			return r.Path[i+1:]
		}
	}
	return r.Path
}
