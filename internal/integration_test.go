package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/earmark/internal/generator"
	"github.com/toyz/earmark/internal/parser"
	"github.com/toyz/earmark/internal/registry"
)

// TestMarkerGenerationIntegration drives the pipeline by hand the way
// the driver wires it: discovery, registration, structural validation
// and file generation.
func TestMarkerGenerationIntegration(t *testing.T) {
	source := `package shapes

//earmark::marker
type Array interface{}

//earmark::marker
type Uniform interface {
	isUniform()
}

//earmark::mark Array, Uniform
type Matrix struct {
	cells []float64
}

//earmark::mark Array
type Grid struct {
	rows, cols int
}
`

	p := parser.NewParser()
	metadata, err := p.ParseSource("shapes.go", source)
	require.NoError(t, err)
	require.Len(t, metadata.Markers, 2)
	require.Len(t, metadata.Types, 2)

	markers := registry.NewMarkerRegistry()
	require.NoError(t, markers.RegisterPackage(metadata))
	require.NoError(t, markers.ValidateStructure(true))
	assert.Equal(t, 2, markers.Len())

	file, err := generator.NewGenerator().GenerateFile(metadata)
	require.NoError(t, err)
	require.NotNil(t, file)

	expected := `// Code generated by earmark. DO NOT EDIT.

package shapes

func (Matrix) isArray() {}

var _ Array = (*Matrix)(nil)

func (Matrix) isUniform() {}

var _ Uniform = (*Matrix)(nil)

func (Grid) isArray() {}

var _ Array = (*Grid)(nil)
`
	assert.Equal(t, expected, file.Content)
	assert.Equal(t, "autogen_markers.go", file.FilePath)
	assert.Equal(t, 2, file.Outputs)
}

// TestGenericMarkerIntegration covers generic declarations end to end:
// constraints are carried verbatim and the imports they mention are
// threaded into the generated file.
func TestGenericMarkerIntegration(t *testing.T) {
	source := `package boxes

import (
	"fmt"

	"example.com/geo"
)

//earmark::marker
type Array interface{}

//earmark::mark Array, geo.Solid
type Box[T fmt.Stringer, U any] struct {
	label T
	value U
}
`

	p := parser.NewParser()
	metadata, err := p.ParseSource("boxes.go", source)
	require.NoError(t, err)

	markers := registry.NewMarkerRegistry()
	require.NoError(t, markers.RegisterPackage(metadata))
	require.NoError(t, markers.ValidateStructure(false))

	file, err := generator.NewGenerator().GenerateFile(metadata)
	require.NoError(t, err)
	require.NotNil(t, file)

	expected := `// Code generated by earmark. DO NOT EDIT.

package boxes

import (
	"example.com/geo"
	"fmt"
)

func (Box[T, U]) isArray() {}

func _[T fmt.Stringer, U any]() {
	var _ Array = (*Box[T, U])(nil)
}

func (Box[T, U]) isSolid() {}

func _[T fmt.Stringer, U any]() {
	var _ geo.Solid = (*Box[T, U])(nil)
}
`
	assert.Equal(t, expected, file.Content)
}
