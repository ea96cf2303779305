package parser

import (
	"fmt"
	"go/ast"

	"github.com/toyz/earmark/internal/errors"
	"github.com/toyz/earmark/internal/models"
)

// validateMarker checks that a declaration tagged //earmark::marker is a
// marker interface: a non-generic, non-alias interface whose only
// permitted method is its own tag method and whose embedded elements are
// named interfaces. Embedded names are recorded as super-markers, not
// judged here; whether they must themselves be markers depends on the
// recursive-validation setting, which belongs to the registry.
func (p *Parser) validateMarker(filePath string, ts *ast.TypeSpec, packageName string) (*models.MarkerDecl, errors.EarmarkError) {
	fset := p.processor.GetFileReader().GetFileSet()
	loc := errors.LocationFromPosition(fset.Position(ts.Pos()))
	name := ts.Name.Name

	if ts.Assign.IsValid() {
		return nil, errors.NewMarkerStructuralError(name, fmt.Sprintf("'%s' is a type alias", name), loc)
	}

	iface, ok := ts.Type.(*ast.InterfaceType)
	if !ok {
		return nil, errors.NewMarkerStructuralError(name, fmt.Sprintf("'%s' is not an interface declaration", name), loc)
	}

	if ts.TypeParams != nil && len(ts.TypeParams.List) > 0 {
		return nil, errors.NewMarkerStructuralError(name, fmt.Sprintf("'%s' declares type parameters", name), loc)
	}

	decl := &models.MarkerDecl{
		Name:        name,
		PackageName: packageName,
		FileName:    filePath,
		Position:    fset.Position(ts.Pos()),
	}

	if iface.Methods == nil {
		return decl, nil
	}

	for _, field := range iface.Methods.List {
		if len(field.Names) > 0 {
			if err := checkTagMethod(decl, field, loc); err != nil {
				return nil, err
			}
			continue
		}
		if err := checkEmbedded(decl, field.Type, loc); err != nil {
			return nil, err
		}
	}

	return decl, nil
}

// checkTagMethod admits only the marker's own sealing method, once, with
// a niladic no-result signature. Anything else is a real method and
// disqualifies the interface.
func checkTagMethod(decl *models.MarkerDecl, field *ast.Field, loc errors.SourceLocation) errors.EarmarkError {
	methodName := field.Names[0].Name
	if methodName != decl.TagMethod() {
		return errors.NewMarkerStructuralError(decl.Name, fmt.Sprintf("'%s' declares method '%s'", decl.Name, methodName), loc)
	}
	if decl.HasTagMethod {
		return errors.NewMarkerStructuralError(decl.Name, fmt.Sprintf("method '%s' is declared more than once", methodName), loc)
	}
	if ft, ok := field.Type.(*ast.FuncType); ok {
		if (ft.Params != nil && len(ft.Params.List) > 0) || ft.Results != nil {
			return errors.NewMarkerStructuralError(decl.Name, fmt.Sprintf("method '%s' must take no arguments and return nothing", methodName), loc)
		}
	}

	decl.HasTagMethod = true
	return nil
}

// checkEmbedded records named-interface embeds as super-markers and
// rejects everything else: union and approximation terms, parameterized
// embeds, and literal type expressions.
func checkEmbedded(decl *models.MarkerDecl, expr ast.Expr, loc errors.SourceLocation) errors.EarmarkError {
	switch t := expr.(type) {
	case *ast.Ident:
		decl.Embedded = append(decl.Embedded, models.MarkerRef{
			Name: t.Name,
			Raw:  t.Name,
		})
		return nil
	case *ast.SelectorExpr:
		if pkg, ok := t.X.(*ast.Ident); ok {
			decl.Embedded = append(decl.Embedded, models.MarkerRef{
				Package: pkg.Name,
				Name:    t.Sel.Name,
				Raw:     pkg.Name + "." + t.Sel.Name,
			})
			return nil
		}
	case *ast.BinaryExpr, *ast.UnaryExpr:
		return errors.NewMarkerStructuralError(decl.Name, fmt.Sprintf("'%s' contains type terms", decl.Name), loc)
	}

	return errors.NewMarkerStructuralError(decl.Name, fmt.Sprintf("'%s' embeds a type expression that is not a named interface", decl.Name), loc)
}
