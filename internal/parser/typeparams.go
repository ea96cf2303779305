package parser

import (
	"fmt"
	"go/ast"
	"go/token"
	"path/filepath"
	"strings"

	"github.com/toyz/earmark/internal/models"
	"github.com/toyz/earmark/internal/utils"
)

// extractTypeParams lowers a type parameter list into ordered groups.
// Constraint expressions are sliced from the source bytes rather than
// re-printed from the AST, so spelling and qualifiers survive into
// generated output exactly as written.
func (p *Parser) extractTypeParams(filePath string, params *ast.FieldList) ([]models.TypeParamGroup, error) {
	if params == nil || len(params.List) == 0 {
		return nil, nil
	}

	groups := make([]models.TypeParamGroup, 0, len(params.List))
	for _, field := range params.List {
		names := make([]string, 0, len(field.Names))
		for _, ident := range field.Names {
			names = append(names, ident.Name)
		}

		constraint, err := p.sliceText(filePath, field.Type.Pos(), field.Type.End())
		if err != nil {
			return nil, err
		}

		groups = append(groups, models.TypeParamGroup{
			Names:      names,
			Constraint: constraint,
		})
	}

	return groups, nil
}

// sliceText returns the source text between two positions, serving
// in-memory sources from ParseSource directly and disk files through
// the shared reader.
func (p *Parser) sliceText(filePath string, start, end token.Pos) (string, error) {
	source, ok := p.sources[filePath]
	if !ok {
		return p.processor.GetFileReader().SliceSource(filePath, start, end)
	}

	fset := p.processor.GetFileReader().GetFileSet()
	startOffset := fset.Position(start).Offset
	endOffset := fset.Position(end).Offset
	if startOffset < 0 || endOffset > len(source) || startOffset > endOffset {
		return "", fmt.Errorf("source range [%d:%d) out of bounds for %s", startOffset, endOffset, filepath.Base(filePath))
	}

	return source[startOffset:endOffset], nil
}

// classifyType reports the declaration form a directive is attached to.
func classifyType(ts *ast.TypeSpec) models.TypeKind {
	if ts.Assign.IsValid() {
		return models.TypeKindAlias
	}
	switch ts.Type.(type) {
	case *ast.StructType:
		return models.TypeKindStruct
	case *ast.InterfaceType:
		return models.TypeKindInterface
	default:
		return models.TypeKindNamed
	}
}

// collectQualifiers gathers the package qualifiers generated blocks will
// reference: those inside constraint expressions plus the packages of
// qualified marker paths. First-use order, no duplicates.
func collectQualifiers(groups []models.TypeParamGroup, refs []models.MarkerRef) []string {
	seen := make(map[string]bool)
	var qualifiers []string

	add := func(qualifier string) {
		if qualifier != "" && !seen[qualifier] {
			seen[qualifier] = true
			qualifiers = append(qualifiers, qualifier)
		}
	}

	for _, group := range groups {
		for _, qualifier := range utils.ExtractQualifiers(group.Constraint) {
			add(qualifier)
		}
	}
	for _, ref := range refs {
		add(ref.Package)
	}

	return qualifiers
}

// fileImports filters a file's import table down to the entries whose
// qualifier the generated blocks actually use.
func fileImports(file *ast.File, qualifiers []string) []models.ImportRecord {
	if len(qualifiers) == 0 {
		return nil
	}

	want := make(map[string]bool, len(qualifiers))
	for _, qualifier := range qualifiers {
		want[qualifier] = true
	}

	var records []models.ImportRecord
	for _, imp := range file.Imports {
		record := models.ImportRecord{
			Path: strings.Trim(imp.Path.Value, `"`),
		}
		if imp.Name != nil {
			record.Alias = imp.Name.Name
		}
		if want[record.Qualifier()] {
			records = append(records, record)
		}
	}

	return records
}
