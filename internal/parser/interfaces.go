package parser

import (
	"github.com/toyz/earmark/internal/models"
)

// DirectiveParser defines the discovery surface: walking Go source and
// collecting the markers and marked types a package declares
type DirectiveParser interface {
	ParseDirectory(path string) (*models.PackageMetadata, error)
	ParseSource(filename, source string) (*models.PackageMetadata, error)
	Diagnostics(metadata *models.PackageMetadata) []string
}
