package registry

import "github.com/toyz/earmark/internal/models"

// MarkerRegistry defines the interface for the cross-package marker index
type MarkerRegistry interface {
	// Register adds one marker declaration to the index. A second
	// declaration under the same qualified name is a conflict.
	Register(decl *models.MarkerDecl) error

	// RegisterPackage indexes every marker a package declared,
	// reporting all conflicts rather than stopping at the first.
	RegisterPackage(metadata *models.PackageMetadata) error

	// Lookup resolves a marker by package and name.
	Lookup(packageName, name string) (*models.MarkerDecl, bool)

	// LookupQualified resolves a marker by its qualified name.
	LookupQualified(qualifiedName string) (*models.MarkerDecl, bool)

	// All returns every registered marker in registration order.
	All() []*models.MarkerDecl

	// Len returns the number of registered markers.
	Len() int

	// Clear removes all registered markers.
	Clear()

	// ValidateStructure checks embedded super-markers across the index.
	ValidateStructure(recursive bool) error
}
