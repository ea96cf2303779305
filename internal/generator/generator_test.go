package generator

import (
	"go/token"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/earmark/internal/models"
)

func markList(raw string, refs ...models.MarkerRef) models.MarkerList {
	return models.MarkerList{Refs: refs, Raw: raw}
}

func structDecl(name string) *models.TypeDecl {
	return &models.TypeDecl{
		Name:        name,
		PackageName: "shapes",
		FileName:    "shapes.go",
		Position:    token.Position{Filename: "shapes.go", Line: 4, Column: 6},
		Kind:        models.TypeKindStruct,
	}
}

func TestGenerate_OneBlockPerMarker(t *testing.T) {
	gen := NewGenerator()
	decl := structDecl("Foo")
	list := markList("Array, Uniform",
		models.MarkerRef{Name: "Array", Raw: "Array"},
		models.MarkerRef{Name: "Uniform", Raw: "Uniform"},
	)

	output, err := gen.Generate(list, decl)
	require.NoError(t, err)

	// one pass-through declaration plus one block per listed marker
	assert.Equal(t, 3, output.Len())
	assert.Same(t, decl, output.Decl)
	require.Len(t, output.Blocks, 2)

	assert.Equal(t, "Foo", output.Blocks[0].TypeName)
	assert.Equal(t, "Array", output.Blocks[0].Marker.Name)
	assert.Equal(t, "isArray", output.Blocks[0].TagMethod)

	assert.Equal(t, "Foo", output.Blocks[1].TypeName)
	assert.Equal(t, "Uniform", output.Blocks[1].Marker.Name)
	assert.Equal(t, "isUniform", output.Blocks[1].TagMethod)
}

func TestGenerate_EmptyListPassesThrough(t *testing.T) {
	gen := NewGenerator()
	decl := structDecl("Foo")

	output, err := gen.Generate(markList(""), decl)
	require.NoError(t, err)

	assert.Equal(t, 1, output.Len())
	assert.Same(t, decl, output.Decl)
	assert.Empty(t, output.Blocks)
}

func TestGenerate_DuplicateMarkersKeepDuplicateBlocks(t *testing.T) {
	gen := NewGenerator()
	decl := structDecl("Foo")
	list := markList("Array, Array",
		models.MarkerRef{Name: "Array", Raw: "Array"},
		models.MarkerRef{Name: "Array", Raw: "Array"},
	)

	output, err := gen.Generate(list, decl)
	require.NoError(t, err)

	require.Len(t, output.Blocks, 2)
	assert.Equal(t, output.Blocks[0], output.Blocks[1])
}

func TestGenerate_PreservesListOrder(t *testing.T) {
	gen := NewGenerator()
	decl := structDecl("Foo")
	list := markList("Uniform, geo.Solid, Array",
		models.MarkerRef{Name: "Uniform", Raw: "Uniform"},
		models.MarkerRef{Package: "geo", Name: "Solid", Raw: "geo.Solid"},
		models.MarkerRef{Name: "Array", Raw: "Array"},
	)

	output, err := gen.Generate(list, decl)
	require.NoError(t, err)

	require.Len(t, output.Blocks, 3)
	assert.Equal(t, "Uniform", output.Blocks[0].Marker.String())
	assert.Equal(t, "geo.Solid", output.Blocks[1].Marker.String())
	assert.Equal(t, "isSolid", output.Blocks[1].TagMethod)
	assert.Equal(t, "Array", output.Blocks[2].Marker.String())
}

func TestGenerate_NilDeclaration(t *testing.T) {
	gen := NewGenerator()

	_, err := gen.Generate(markList(""), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be nil")
}

func TestGenerate_RejectsUnsupportedKinds(t *testing.T) {
	tests := []struct {
		name string
		kind models.TypeKind
		want string
	}{
		{"interface declaration", models.TypeKindInterface, "cannot attach marker implementations to interface 'Foo'"},
		{"alias declaration", models.TypeKindAlias, "cannot attach marker implementations to alias 'Foo'"},
	}

	gen := NewGenerator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decl := structDecl("Foo")
			decl.Kind = tt.kind

			_, err := gen.Generate(markList("Array", models.MarkerRef{Name: "Array", Raw: "Array"}), decl)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Contains(t, err.Error(), "shapes.go:4:6")
		})
	}
}

func TestGenerate_RejectsMalformedParamGroup(t *testing.T) {
	gen := NewGenerator()
	decl := structDecl("Grid")
	decl.TypeParams = []models.TypeParamGroup{{Names: []string{"T"}, Constraint: ""}}

	_, err := gen.Generate(markList("Array", models.MarkerRef{Name: "Array", Raw: "Array"}), decl)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed type parameter group")
}

func TestGenerate_RejectsInvalidMarkerName(t *testing.T) {
	gen := NewGenerator()
	decl := structDecl("Foo")
	list := markList("List(int)", models.MarkerRef{Name: "List(int)", Raw: "List(int)"})

	_, err := gen.Generate(list, decl)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "marker 1 in the mark list of type 'Foo'")
}

func TestGenerateFile_RendersCompleteFile(t *testing.T) {
	gen := NewGenerator()
	metadata := &models.PackageMetadata{
		PackageName: "shapes",
		PackagePath: filepath.Join("testdata", "shapes"),
		Types: []models.TypeDecl{
			{
				Name:        "Foo",
				PackageName: "shapes",
				Kind:        models.TypeKindStruct,
				Markers: markList("Array, Uniform",
					models.MarkerRef{Name: "Array", Raw: "Array"},
					models.MarkerRef{Name: "Uniform", Raw: "Uniform"},
				),
			},
		},
	}

	file, err := gen.GenerateFile(metadata)
	require.NoError(t, err)
	require.NotNil(t, file)

	assert.Equal(t, "shapes", file.PackageName)
	assert.Equal(t, filepath.Join("testdata", "shapes", "autogen_markers.go"), file.FilePath)
	assert.Equal(t, 1, file.Outputs)

	expected := "// Code generated by earmark. DO NOT EDIT.\n" +
		"\n" +
		"package shapes\n" +
		"\n" +
		"func (Foo) isArray() {}\n" +
		"\n" +
		"var _ Array = (*Foo)(nil)\n" +
		"\n" +
		"func (Foo) isUniform() {}\n" +
		"\n" +
		"var _ Uniform = (*Foo)(nil)\n"
	assert.Equal(t, expected, file.Content)
}

func TestGenerateFile_ThreadsQualifierImports(t *testing.T) {
	gen := NewGenerator()
	metadata := &models.PackageMetadata{
		PackageName: "tiles",
		PackagePath: "tiles",
		Types: []models.TypeDecl{
			{
				Name:        "Tile",
				PackageName: "tiles",
				Kind:        models.TypeKindStruct,
				Markers: markList("geo.Solid",
					models.MarkerRef{Package: "geo", Name: "Solid", Raw: "geo.Solid"},
				),
				Imports:    []models.ImportRecord{{Alias: "geo", Path: "example.com/geometry"}},
				Qualifiers: []string{"geo"},
			},
		},
	}

	file, err := gen.GenerateFile(metadata)
	require.NoError(t, err)
	require.NotNil(t, file)

	assert.Contains(t, file.Content, `import geo "example.com/geometry"`)
	assert.Contains(t, file.Content, "func (Tile) isSolid() {}")
	assert.Contains(t, file.Content, "var _ geo.Solid = (*Tile)(nil)")
}

func TestGenerateFile_GenericBlocks(t *testing.T) {
	gen := NewGenerator()
	metadata := &models.PackageMetadata{
		PackageName: "boxes",
		PackagePath: "boxes",
		Types: []models.TypeDecl{
			{
				Name:        "Box",
				PackageName: "boxes",
				Kind:        models.TypeKindStruct,
				TypeParams: []models.TypeParamGroup{
					{Names: []string{"T"}, Constraint: "fmt.Stringer"},
				},
				Markers:    markList("Array", models.MarkerRef{Name: "Array", Raw: "Array"}),
				Imports:    []models.ImportRecord{{Path: "fmt"}},
				Qualifiers: []string{"fmt"},
			},
		},
	}

	file, err := gen.GenerateFile(metadata)
	require.NoError(t, err)
	require.NotNil(t, file)

	assert.Contains(t, file.Content, `import "fmt"`)
	assert.Contains(t, file.Content, "func (Box[T]) isArray() {}")
	assert.Contains(t, file.Content, "func _[T fmt.Stringer]() {\n\tvar _ Array = (*Box[T])(nil)\n}")
}

func TestGenerateFile_GroupsBlocksPerTypeInSourceOrder(t *testing.T) {
	gen := NewGenerator()
	metadata := &models.PackageMetadata{
		PackageName: "shapes",
		PackagePath: "shapes",
		Types: []models.TypeDecl{
			{
				Name:        "First",
				PackageName: "shapes",
				Kind:        models.TypeKindStruct,
				Markers:     markList("Array", models.MarkerRef{Name: "Array", Raw: "Array"}),
			},
			{
				Name:        "Second",
				PackageName: "shapes",
				Kind:        models.TypeKindNamed,
				Markers:     markList("Uniform", models.MarkerRef{Name: "Uniform", Raw: "Uniform"}),
			},
		},
	}

	file, err := gen.GenerateFile(metadata)
	require.NoError(t, err)
	require.NotNil(t, file)

	firstIdx := indexOf(t, file.Content, "func (First) isArray() {}")
	secondIdx := indexOf(t, file.Content, "func (Second) isUniform() {}")
	assert.Less(t, firstIdx, secondIdx)
	assert.Equal(t, 2, file.Outputs)
}

func TestGenerateFile_SkipsTypesWithEmptyLists(t *testing.T) {
	gen := NewGenerator()
	metadata := &models.PackageMetadata{
		PackageName: "shapes",
		PackagePath: "shapes",
		Types: []models.TypeDecl{
			{
				Name:        "Plain",
				PackageName: "shapes",
				Kind:        models.TypeKindStruct,
				Markers:     markList(""),
			},
			{
				Name:        "Marked",
				PackageName: "shapes",
				Kind:        models.TypeKindStruct,
				Markers:     markList("Array", models.MarkerRef{Name: "Array", Raw: "Array"}),
			},
		},
	}

	file, err := gen.GenerateFile(metadata)
	require.NoError(t, err)
	require.NotNil(t, file)

	assert.Equal(t, 1, file.Outputs)
	assert.NotContains(t, file.Content, "Plain")
}

func TestGenerateFile_NothingToGenerate(t *testing.T) {
	gen := NewGenerator()
	metadata := &models.PackageMetadata{
		PackageName: "shapes",
		PackagePath: "shapes",
		Types: []models.TypeDecl{
			{
				Name:        "Plain",
				PackageName: "shapes",
				Kind:        models.TypeKindStruct,
				Markers:     markList(""),
			},
		},
	}

	file, err := gen.GenerateFile(metadata)
	require.NoError(t, err)
	assert.Nil(t, file)
}

func TestGenerateFile_NilMetadata(t *testing.T) {
	gen := NewGenerator()

	_, err := gen.GenerateFile(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "metadata cannot be nil")
}

func TestGenerateFile_CustomFileName(t *testing.T) {
	gen := NewGeneratorWithFileName("zz_markers.go")
	metadata := &models.PackageMetadata{
		PackageName: "shapes",
		PackagePath: "shapes",
		Types: []models.TypeDecl{
			{
				Name:        "Foo",
				PackageName: "shapes",
				Kind:        models.TypeKindStruct,
				Markers:     markList("Array", models.MarkerRef{Name: "Array", Raw: "Array"}),
			},
		},
	}

	file, err := gen.GenerateFile(metadata)
	require.NoError(t, err)
	require.NotNil(t, file)
	assert.Equal(t, filepath.Join("shapes", "zz_markers.go"), file.FilePath)
}

func TestNewGeneratorWithFileName_EmptyFallsBack(t *testing.T) {
	gen := NewGeneratorWithFileName("")

	metadata := &models.PackageMetadata{
		PackageName: "shapes",
		PackagePath: "shapes",
		Types: []models.TypeDecl{
			{
				Name:        "Foo",
				PackageName: "shapes",
				Kind:        models.TypeKindStruct,
				Markers:     markList("Array", models.MarkerRef{Name: "Array", Raw: "Array"}),
			},
		},
	}

	file, err := gen.GenerateFile(metadata)
	require.NoError(t, err)
	require.NotNil(t, file)
	assert.Equal(t, filepath.Join("shapes", "autogen_markers.go"), file.FilePath)
}

func indexOf(t *testing.T, haystack, needle string) int {
	t.Helper()
	idx := strings.Index(haystack, needle)
	require.GreaterOrEqual(t, idx, 0, "expected content to contain %q", needle)
	return idx
}
