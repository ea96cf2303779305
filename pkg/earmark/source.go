package earmark

import (
	"github.com/toyz/earmark/internal/generator"
	"github.com/toyz/earmark/internal/models"
	"github.com/toyz/earmark/internal/parser"
	"github.com/toyz/earmark/internal/registry"
)

// CheckSource parses a single in-memory Go source file and validates
// every directive in it: directive syntax, marker structure and
// duplicate marker declarations. Nil means the source would pass a
// full run. Embedded super-markers are not resolved, since a single
// file rarely declares its whole marker hierarchy.
func CheckSource(filename, src string) error {
	_, err := validateSource(parser.NewParser(), filename, src)
	return err
}

// GenerateSource parses and validates a single in-memory Go source
// file and returns the generated marker file content for it. Returns
// the empty string when no type in the source marks anything.
func GenerateSource(filename, src string) (string, error) {
	metadata, err := validateSource(parser.NewParser(), filename, src)
	if err != nil {
		return "", err
	}

	file, err := generator.NewGenerator().GenerateFile(metadata)
	if err != nil {
		return "", err
	}
	if file == nil {
		return "", nil
	}
	return file.Content, nil
}

// validateSource runs discovery and validation over one in-memory
// file and returns its metadata.
func validateSource(p parser.DirectiveParser, filename, src string) (*models.PackageMetadata, error) {
	metadata, err := p.ParseSource(filename, src)
	if err != nil {
		return nil, err
	}

	markers := registry.NewMarkerRegistry()
	if err := markers.RegisterPackage(metadata); err != nil {
		return nil, err
	}
	if err := markers.ValidateStructure(false); err != nil {
		return nil, err
	}
	return metadata, nil
}
