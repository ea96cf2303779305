package generator

import "github.com/toyz/earmark/internal/models"

// CodeGenerator defines the interface for marker code generation
type CodeGenerator interface {
	// Generate synthesizes the implementation blocks for a single marked
	// type, one block per listed marker.
	Generate(list models.MarkerList, decl *models.TypeDecl) (*models.Output, error)

	// GenerateFile renders the generated marker file for one package,
	// returning nil when the package has nothing to generate.
	GenerateFile(metadata *models.PackageMetadata) (*models.GeneratedFile, error)
}
