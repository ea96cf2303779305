package templates

import (
	"bytes"
	"text/template"

	"github.com/toyz/earmark/internal/errors"
	"github.com/toyz/earmark/internal/models"
)

// BlockData carries everything a block template needs for one marker
// implementation on one type.
type BlockData struct {
	TypeName       string // marked type name
	TagMethod      string // sealing method name, e.g. "isArray"
	MarkerPath     string // marker path as written, e.g. "shapes.Uniform"
	DeclaredParams string // full parameter list with constraints, "" when non-generic
	BareParams     string // parameter names only, "" when non-generic
}

// BuildBlockData assembles template data from a block and its
// declaration. The two parameter renderings come straight from the
// declaration so constraints stay exactly as written in the source.
func BuildBlockData(block models.ImplBlock, decl *models.TypeDecl) BlockData {
	return BlockData{
		TypeName:       block.TypeName,
		TagMethod:      block.TagMethod,
		MarkerPath:     block.Marker.String(),
		DeclaredParams: decl.DeclaredParams(),
		BareParams:     decl.BareParams(),
	}
}

// GenerateTagMethod renders the sealing method stub for one block.
func GenerateTagMethod(data BlockData) (string, error) {
	return executeTemplate("tag-method", DefaultTemplateRegistry.MustGet("tag-method"), data)
}

// GenerateAssertion renders the conformance assertion for one block,
// choosing the generic form when the declaration has type parameters.
func GenerateAssertion(data BlockData) (string, error) {
	name := "assertion"
	if data.DeclaredParams != "" {
		name = "generic-assertion"
	}
	return executeTemplate(name, DefaultTemplateRegistry.MustGet(name), data)
}

// GenerateImplBlock renders one complete marker implementation block:
// the tag-method stub followed by the conformance assertion.
func GenerateImplBlock(block models.ImplBlock, decl *models.TypeDecl) (string, error) {
	data := BuildBlockData(block, decl)

	stub, err := GenerateTagMethod(data)
	if err != nil {
		return "", err
	}

	assertion, err := GenerateAssertion(data)
	if err != nil {
		return "", err
	}

	return stub + "\n\n" + assertion, nil
}

// executeTemplate executes a Go template with the given data
func executeTemplate(name, templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New(name).Parse(templateStr)
	if err != nil {
		return "", errors.WrapTemplateError(name, "parse", err)
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, data)
	if err != nil {
		return "", errors.WrapTemplateError(name, "execute", err)
	}

	return buf.String(), nil
}
