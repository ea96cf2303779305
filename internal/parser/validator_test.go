package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/earmark/internal/errors"
)

func TestValidateMarker_AcceptedForms(t *testing.T) {
	tests := []struct {
		name         string
		source       string
		hasTagMethod bool
		embedded     int
	}{
		{
			name: "empty interface",
			source: `package shapes

//earmark::marker
type Array interface{}
`,
		},
		{
			name: "sealed with tag method",
			source: `package shapes

//earmark::marker
type Array interface {
	isArray()
}
`,
			hasTagMethod: true,
		},
		{
			name: "embedded super-markers",
			source: `package shapes

//earmark::marker
type Shaped interface {
	Array
	geo.Solid
}
`,
			embedded: 2,
		},
		{
			name: "tag method plus embeds",
			source: `package shapes

//earmark::marker
type Shaped interface {
	Array
	isShaped()
}
`,
			hasTagMethod: true,
			embedded:     1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParser()
			metadata, err := p.ParseSource("markers.go", tt.source)
			require.NoError(t, err)
			require.Len(t, metadata.Markers, 1)

			marker := metadata.Markers[0]
			assert.Equal(t, tt.hasTagMethod, marker.HasTagMethod)
			assert.Len(t, marker.Embedded, tt.embedded)
		})
	}
}

func TestValidateMarker_StructuralViolations(t *testing.T) {
	tests := []struct {
		name   string
		source string
		detail string
	}{
		{
			name: "real method",
			source: `package shapes

//earmark::marker
type Array interface {
	Len() int
}
`,
			detail: "'Array' declares method 'Len'",
		},
		{
			name: "exported lookalike method",
			source: `package shapes

//earmark::marker
type Array interface {
	IsArray()
}
`,
			detail: "'Array' declares method 'IsArray'",
		},
		{
			name: "tag method with parameter",
			source: `package shapes

//earmark::marker
type Array interface {
	isArray(n int)
}
`,
			detail: "method 'isArray' must take no arguments and return nothing",
		},
		{
			name: "tag method with result",
			source: `package shapes

//earmark::marker
type Array interface {
	isArray() error
}
`,
			detail: "method 'isArray' must take no arguments and return nothing",
		},
		{
			name: "duplicate tag method",
			source: `package shapes

//earmark::marker
type Array interface {
	isArray()
	isArray()
}
`,
			detail: "method 'isArray' is declared more than once",
		},
		{
			name: "type parameters",
			source: `package shapes

//earmark::marker
type Array[T any] interface{}
`,
			detail: "'Array' declares type parameters",
		},
		{
			name: "alias declaration",
			source: `package shapes

//earmark::marker
type Array = interface{}
`,
			detail: "'Array' is a type alias",
		},
		{
			name: "non-interface declaration",
			source: `package shapes

//earmark::marker
type Array struct{}
`,
			detail: "'Array' is not an interface declaration",
		},
		{
			name: "union terms",
			source: `package shapes

//earmark::marker
type Numeric interface {
	~int | ~float64
}
`,
			detail: "'Numeric' contains type terms",
		},
		{
			name: "approximation term",
			source: `package shapes

//earmark::marker
type Numeric interface {
	~int
}
`,
			detail: "'Numeric' contains type terms",
		},
		{
			name: "parameterized embed",
			source: `package shapes

//earmark::marker
type Shaped interface {
	Constraint[int]
}
`,
			detail: "'Shaped' embeds a type expression that is not a named interface",
		},
		{
			name: "literal type embed",
			source: `package shapes

//earmark::marker
type Shaped interface {
	[]int
}
`,
			detail: "'Shaped' embeds a type expression that is not a named interface",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParser()
			metadata, err := p.ParseSource("markers.go", tt.source)
			require.Error(t, err)
			assert.Nil(t, metadata)
			assert.Contains(t, err.Error(), "//earmark::marker requires an empty marker interface")
			assert.Contains(t, err.Error(), tt.detail)
		})
	}
}

func TestValidateMarker_ViolationCarriesSuggestion(t *testing.T) {
	src := `package shapes

//earmark::marker
type Array interface {
	Len() int
}
`

	p := NewParser()
	_, err := p.ParseSource("markers.go", src)
	require.Error(t, err)

	ee, ok := err.(errors.EarmarkError)
	require.True(t, ok)
	require.NotEmpty(t, ee.Suggestions())
	assert.Contains(t, ee.Suggestions()[0], "Move the method")
}
