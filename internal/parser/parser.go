package parser

import (
	"fmt"
	"go/ast"
	"go/token"
	"sort"
	"strings"
	"unicode"

	"github.com/toyz/earmark/internal/directives"
	"github.com/toyz/earmark/internal/errors"
	"github.com/toyz/earmark/internal/models"
	"github.com/toyz/earmark/internal/utils"
)

// Parser discovers earmark directives in Go source and lowers the
// declarations they annotate into package metadata. Discovery is
// deterministic: files are visited in name order and declarations in
// source order, so repeated runs over the same tree produce the same
// metadata and the same diagnostics.
type Parser struct {
	processor *utils.FileProcessor
	engine    directives.Engine
	reporter  *ErrorReporter

	// sources holds in-memory file contents handed to ParseSource, so
	// constraint text can be sliced without touching the filesystem.
	sources map[string]string
}

// NewParser creates a parser with a fresh file processor and the default
// directive engine.
func NewParser() *Parser {
	return NewParserWithProcessor(utils.NewFileProcessor())
}

// NewParserWithProcessor creates a parser sharing an existing file
// processor, so AST and content caches carry over between phases.
func NewParserWithProcessor(processor *utils.FileProcessor) *Parser {
	return &Parser{
		processor: processor,
		engine:    directives.NewParser(),
		reporter:  NewErrorReporter(),
		sources:   make(map[string]string),
	}
}

// ParseDirectory parses all Go files of a single-package directory and
// collects its directive metadata. Test files and previously generated
// output are excluded up front, so running over a tree that already
// contains generated files converges instead of compounding.
func (p *Parser) ParseDirectory(path string) (*models.PackageMetadata, error) {
	files, packageName, err := p.processor.ParseDirectoryFiles(path)
	if err != nil {
		return nil, errors.WrapParseError(fmt.Sprintf("directory %s", path), err)
	}

	metadata := &models.PackageMetadata{
		PackageName: packageName,
		PackagePath: path,
	}
	if importPath, pathErr := utils.ImportPathForDir(path); pathErr == nil {
		metadata.ImportPath = importPath
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	collector := errors.NewDirectiveErrorCollector(0)
	for _, name := range names {
		p.processFile(name, files[name], metadata, collector)
	}

	if err := collector.ToError(); err != nil {
		return nil, err
	}

	return metadata, nil
}

// ParseSource parses a single in-memory file. The public API and tests
// use this to run discovery without a directory on disk.
func (p *Parser) ParseSource(filename, source string) (*models.PackageMetadata, error) {
	file, err := p.processor.GetFileReader().ParseGoSource(filename, source)
	if err != nil {
		return nil, err
	}
	p.sources[filename] = source

	metadata := &models.PackageMetadata{
		PackageName: file.Name.Name,
	}

	collector := errors.NewDirectiveErrorCollector(0)
	p.processFile(filename, file, metadata, collector)

	if err := collector.ToError(); err != nil {
		return nil, err
	}

	return metadata, nil
}

// Diagnostics reports advisory findings for discovered metadata:
// conditions that do not fail a run but usually point at a mistake.
func (p *Parser) Diagnostics(metadata *models.PackageMetadata) []string {
	return p.reporter.Diagnostics(metadata)
}

// processFile walks a file's top-level declarations and records every
// directive it finds. Errors go to the collector and the walk
// continues, so one bad directive does not hide the rest of the file.
func (p *Parser) processFile(filePath string, file *ast.File, metadata *models.PackageMetadata, collector *errors.DirectiveErrorCollector) {
	contributed := false

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			if d.Tok == token.TYPE {
				if p.processTypeDecl(filePath, file, d, metadata, collector) {
					contributed = true
				}
				continue
			}
			for _, comment := range p.directivesIn(d.Doc) {
				contributed = true
				collector.Add(p.reporter.MisplacedDirective(p.location(comment), d.Tok.String()))
			}
		case *ast.FuncDecl:
			for _, comment := range p.directivesIn(d.Doc) {
				contributed = true
				collector.Add(p.reporter.MisplacedDirective(p.location(comment), "func"))
			}
		}
	}

	if contributed {
		metadata.SourceFiles = append(metadata.SourceFiles, filePath)
	}
}

// processTypeDecl routes directives on a type declaration. A directive
// on the outer doc of a grouped declaration has no single target and is
// rejected; on a single-spec declaration the outer doc and the spec doc
// are treated as one.
func (p *Parser) processTypeDecl(filePath string, file *ast.File, decl *ast.GenDecl, metadata *models.PackageMetadata, collector *errors.DirectiveErrorCollector) bool {
	contributed := false

	outer := p.directivesIn(decl.Doc)
	if len(outer) > 0 && len(decl.Specs) > 1 {
		for _, comment := range outer {
			contributed = true
			collector.Add(p.reporter.MisplacedDirective(p.location(comment), "group"))
		}
		outer = nil
	}

	for _, spec := range decl.Specs {
		ts, ok := spec.(*ast.TypeSpec)
		if !ok {
			continue
		}

		comments := make([]*ast.Comment, 0, len(outer))
		comments = append(comments, outer...)
		comments = append(comments, p.directivesIn(ts.Doc)...)
		outer = nil
		if len(comments) == 0 {
			continue
		}

		contributed = true
		p.applyDirectives(filePath, file, ts, comments, metadata, collector)
	}

	return contributed
}

// applyDirectives parses and dispatches the directives attached to one
// type spec. Multiple mark lines concatenate into a single list in the
// order written; duplicate paths are kept.
func (p *Parser) applyDirectives(filePath string, file *ast.File, ts *ast.TypeSpec, comments []*ast.Comment, metadata *models.PackageMetadata, collector *errors.DirectiveErrorCollector) {
	var refs []models.MarkerRef
	var rawParts []string
	hasMark := false
	hasMarker := false

	for _, comment := range comments {
		loc := p.location(comment)
		parsed, err := p.engine.Parse(comment.Text, loc)
		if err != nil {
			collector.Add(coerceError(err, loc))
			continue
		}

		switch parsed.Type {
		case directives.MarkerDirective:
			hasMarker = true
		case directives.MarkDirective:
			hasMark = true
			for _, ref := range parsed.Markers {
				refs = append(refs, models.MarkerRef{
					Package: ref.Package,
					Name:    ref.Name,
					Raw:     ref.Raw,
				})
			}
			if text := markListText(parsed.Raw); text != "" {
				rawParts = append(rawParts, text)
			}
		}
	}

	if hasMarker {
		p.collectMarker(filePath, ts, metadata, collector)
	}
	if hasMark {
		p.collectMarkedType(filePath, file, ts, refs, strings.Join(rawParts, ", "), metadata, collector)
	}
}

// collectMarker validates a marker interface declaration and records it.
func (p *Parser) collectMarker(filePath string, ts *ast.TypeSpec, metadata *models.PackageMetadata, collector *errors.DirectiveErrorCollector) {
	decl, err := p.validateMarker(filePath, ts, metadata.PackageName)
	if err != nil {
		collector.Add(err)
		return
	}
	metadata.Markers = append(metadata.Markers, *decl)
}

// collectMarkedType lowers a marked type declaration, carrying its type
// parameters with constraint text exactly as written plus the imports
// the generated blocks will need.
func (p *Parser) collectMarkedType(filePath string, file *ast.File, ts *ast.TypeSpec, refs []models.MarkerRef, raw string, metadata *models.PackageMetadata, collector *errors.DirectiveErrorCollector) {
	fset := p.processor.GetFileReader().GetFileSet()
	loc := errors.LocationFromPosition(fset.Position(ts.Pos()))
	name := ts.Name.Name

	kind := classifyType(ts)
	switch kind {
	case models.TypeKindAlias:
		collector.Add(errors.NewMarkTargetStructuralError(name, fmt.Sprintf("'%s' is a type alias", name), loc))
		return
	case models.TypeKindInterface:
		collector.Add(errors.NewMarkTargetStructuralError(name, fmt.Sprintf("'%s' is an interface declaration", name), loc))
		return
	}

	groups, err := p.extractTypeParams(filePath, ts.TypeParams)
	if err != nil {
		collector.Add(errors.Wrapf(errors.SyntaxErrorCode, err, "cannot read type parameters of '%s'", name).WithLocation(loc))
		return
	}

	qualifiers := collectQualifiers(groups, refs)

	metadata.Types = append(metadata.Types, models.TypeDecl{
		Name:        name,
		PackageName: metadata.PackageName,
		FileName:    filePath,
		Position:    fset.Position(ts.Pos()),
		Kind:        kind,
		TypeParams:  groups,
		Markers:     models.MarkerList{Refs: refs, Raw: raw},
		Imports:     fileImports(file, qualifiers),
		Qualifiers:  qualifiers,
	})
}

// directivesIn filters a doc comment group down to earmark directives.
// Ordinary doc text is ignored.
func (p *Parser) directivesIn(doc *ast.CommentGroup) []*ast.Comment {
	if doc == nil {
		return nil
	}

	var found []*ast.Comment
	for _, comment := range doc.List {
		if p.engine.IsDirective(comment.Text) {
			found = append(found, comment)
		}
	}
	return found
}

// location resolves a comment's position against the shared file set.
func (p *Parser) location(comment *ast.Comment) errors.SourceLocation {
	fset := p.processor.GetFileReader().GetFileSet()
	return errors.LocationFromPosition(fset.Position(comment.Pos()))
}

// coerceError keeps directive-engine errors as they are and gives
// anything else a syntax wrapper so the collector can carry it.
func coerceError(err error, loc errors.SourceLocation) errors.EarmarkError {
	if ee, ok := err.(errors.EarmarkError); ok {
		return ee
	}
	return errors.New(errors.SyntaxErrorCode, err.Error()).WithLocation(loc)
}

// markListText recovers the argument portion of a mark directive
// comment, exactly as written.
func markListText(raw string) string {
	i := strings.Index(raw, directives.Prefix)
	if i < 0 {
		return ""
	}
	rest := raw[i+len(directives.Prefix):]
	j := strings.IndexFunc(rest, unicode.IsSpace)
	if j < 0 {
		return ""
	}
	return strings.TrimSpace(rest[j:])
}
