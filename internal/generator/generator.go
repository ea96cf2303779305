package generator

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/toyz/earmark/internal/errors"
	"github.com/toyz/earmark/internal/models"
	"github.com/toyz/earmark/internal/templates"
	"github.com/toyz/earmark/internal/utils"
)

// Generator synthesizes marker implementation blocks for marked type
// declarations and assembles them into one generated file per package.
type Generator struct {
	fileName string
}

// NewGenerator creates a generator using the default output file name.
func NewGenerator() *Generator {
	return &Generator{
		fileName: utils.DefaultGeneratedFileName,
	}
}

// NewGeneratorWithFileName creates a generator writing a custom output
// file name. An empty name falls back to the default.
func NewGeneratorWithFileName(fileName string) *Generator {
	if fileName == "" {
		fileName = utils.DefaultGeneratedFileName
	}
	return &Generator{
		fileName: fileName,
	}
}

// Generate synthesizes the output for one marked declaration: the
// declaration itself, passed through untouched, followed by one
// implementation block per listed marker in argument order. Duplicate
// paths produce duplicate blocks; the resulting duplicate method is the
// compiler's diagnostic to give, not ours.
//
// No semantic resolution happens here. A path that names nothing, or a
// marker sealed in another package, becomes a compile error in the
// generated file.
func (g *Generator) Generate(list models.MarkerList, decl *models.TypeDecl) (*models.Output, error) {
	if decl == nil {
		return nil, errors.NewGenerationError("type declaration cannot be nil")
	}
	if err := validateTarget(decl); err != nil {
		return nil, err
	}

	blocks := make([]models.ImplBlock, 0, list.Len())
	for i, ref := range list.Refs {
		if err := validateRef(ref); err != nil {
			return nil, errors.Wrapf(errors.GenerationErrorCode, err,
				"marker %d in the mark list of type '%s'", i+1, decl.Name).
				WithPosition(decl.Position)
		}
		blocks = append(blocks, models.ImplBlock{
			TypeName:  decl.Name,
			Marker:    ref,
			TagMethod: ref.TagMethod(),
		})
	}

	return &models.Output{
		Decl:   decl,
		Blocks: blocks,
	}, nil
}

// GenerateFile renders the generated marker file for one package:
// blocks for every marked type, grouped per type in source order, with
// imports threaded from the declaring files. Returns nil without error
// when no marked type names a marker, since a package of empty mark
// lists produces no file.
func (g *Generator) GenerateFile(metadata *models.PackageMetadata) (*models.GeneratedFile, error) {
	if metadata == nil {
		return nil, errors.NewGenerationError("package metadata cannot be nil")
	}
	if !metadata.HasGeneratedOutput() {
		return nil, nil
	}

	outputs := make([]*models.Output, 0, len(metadata.Types))
	for i := range metadata.Types {
		decl := &metadata.Types[i]
		if decl.Markers.IsEmpty() {
			continue
		}

		output, err := g.Generate(decl.Markers, decl)
		if err != nil {
			return nil, errors.WrapGenerateError("blocks",
				fmt.Sprintf("blocks for type '%s'", decl.Name), err)
		}
		outputs = append(outputs, output)
	}

	filePath := filepath.Join(metadata.PackagePath, g.fileName)

	content, err := g.renderFile(metadata, outputs)
	if err != nil {
		return nil, err
	}

	formatted, err := g.formatContent(filePath, content, metadata.PackageName)
	if err != nil {
		return nil, err
	}

	return &models.GeneratedFile{
		PackageName: metadata.PackageName,
		FilePath:    filePath,
		Content:     formatted,
		Outputs:     len(outputs),
	}, nil
}

// renderFile assembles the raw file content: header, package clause,
// threaded imports, then every block.
func (g *Generator) renderFile(metadata *models.PackageMetadata, outputs []*models.Output) (string, error) {
	var builder strings.Builder

	builder.WriteString("// Code generated by earmark. DO NOT EDIT.\n\n")
	builder.WriteString(fmt.Sprintf("package %s\n\n", metadata.PackageName))

	imports := templates.NewImportManager()
	for _, output := range outputs {
		imports.AddRecords(output.Decl.Imports)
	}
	if section := imports.GenerateImports(); section != "" {
		builder.WriteString(section)
		builder.WriteString("\n")
	}

	first := true
	for _, output := range outputs {
		for _, block := range output.Blocks {
			if !first {
				builder.WriteString("\n")
			}
			first = false

			rendered, err := templates.GenerateImplBlock(block, output.Decl)
			if err != nil {
				return "", errors.WrapGenerateError("block",
					fmt.Sprintf("block for marker '%s' on type '%s'", block.Marker.String(), output.Decl.Name), err)
			}
			builder.WriteString(rendered)
			builder.WriteString("\n")
		}
	}

	return builder.String(), nil
}

// formatContent runs the assembled source through gofmt and then the
// goimports organizer. Output that does not format is a generation
// error and is never handed to the writer.
func (g *Generator) formatContent(filePath, content, packageName string) (string, error) {
	formatted, err := utils.FormatGoCode([]byte(content))
	if err != nil {
		return "", errors.WrapGenerateError("file",
			fmt.Sprintf("marker file for package %s", packageName), err).
			WithTargetFile(filePath).
			WithStage("format")
	}

	organized, err := utils.OrganizeImports(filePath, formatted)
	if err != nil {
		return "", errors.WrapGenerateError("file",
			fmt.Sprintf("marker file for package %s", packageName), err).
			WithTargetFile(filePath).
			WithStage("imports")
	}

	return string(organized), nil
}

// validateTarget rejects declaration forms blocks cannot attach to. The
// parser reports these against user sources before generation runs; the
// check here guards declarations assembled through the API directly.
func validateTarget(decl *models.TypeDecl) error {
	switch decl.Kind {
	case models.TypeKindInterface, models.TypeKindAlias:
		return errors.NewGenerationError(
			fmt.Sprintf("cannot attach marker implementations to %s '%s'", decl.Kind, decl.Name)).
			WithLocation(errors.LocationFromPosition(decl.Position))
	}

	for _, group := range decl.TypeParams {
		if len(group.Names) == 0 || group.Constraint == "" {
			return errors.NewGenerationError(
				fmt.Sprintf("type '%s' carries a malformed type parameter group", decl.Name)).
				WithLocation(errors.LocationFromPosition(decl.Position))
		}
	}

	return nil
}

// validateRef checks that a marker path is something generated code can
// reference. Paths from the directive grammar always pass; lists built
// programmatically get the same guarantee here.
func validateRef(ref models.MarkerRef) error {
	if err := utils.ValidateMarkerName("marker name")(ref.Name); err != nil {
		return err
	}
	if ref.Qualified() {
		return utils.ValidateMarkerPath("marker path")(ref.Package + "." + ref.Name)
	}
	return nil
}
