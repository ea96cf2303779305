package earmark

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckSource(t *testing.T) {
	t.Run("valid markers pass", func(t *testing.T) {
		err := CheckSource("shapes.go", `package shapes

//earmark::marker
type Array interface{}

//earmark::marker
type Uniform interface {
	isUniform()
}

//earmark::mark Array, Uniform
type Matrix struct{}
`)
		assert.NoError(t, err)
	})

	t.Run("marker with method fails", func(t *testing.T) {
		err := CheckSource("shapes.go", `package shapes

//earmark::marker
type Array interface {
	Len() int
}
`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "requires an empty marker interface")
	})

	t.Run("duplicate marker declarations fail", func(t *testing.T) {
		err := CheckSource("shapes.go", `package shapes

//earmark::marker
type Array interface{}

//earmark::marker
type Array interface{}
`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already declared")
	})

	t.Run("directive syntax error fails", func(t *testing.T) {
		err := CheckSource("shapes.go", `package shapes

//earmark::mark name=value
type Matrix struct{}
`)
		require.Error(t, err)
	})

	t.Run("broken Go source fails", func(t *testing.T) {
		err := CheckSource("shapes.go", `package shapes

type Matrix struct {
`)
		assert.Error(t, err)
	})
}

func TestGenerateSource(t *testing.T) {
	t.Run("renders the generated file content", func(t *testing.T) {
		content, err := GenerateSource("shapes.go", `package shapes

//earmark::marker
type Array interface{}

//earmark::mark Array
type Matrix struct{}
`)
		require.NoError(t, err)

		expected := "// Code generated by earmark. DO NOT EDIT.\n" +
			"\n" +
			"package shapes\n" +
			"\n" +
			"func (Matrix) isArray() {}\n" +
			"\n" +
			"var _ Array = (*Matrix)(nil)\n"
		assert.Equal(t, expected, content)
	})

	t.Run("generic type wraps the assertion", func(t *testing.T) {
		content, err := GenerateSource("shapes.go", `package shapes

import "fmt"

//earmark::marker
type Array interface{}

//earmark::mark Array
type Box[T fmt.Stringer] struct {
	v T
}
`)
		require.NoError(t, err)

		assert.Contains(t, content, "func (Box[T]) isArray() {}")
		assert.Contains(t, content, "func _[T fmt.Stringer]() {\n\tvar _ Array = (*Box[T])(nil)\n}")
	})

	t.Run("no marked types yields nothing", func(t *testing.T) {
		content, err := GenerateSource("shapes.go", `package shapes

//earmark::marker
type Array interface{}
`)
		require.NoError(t, err)
		assert.Empty(t, content)
	})

	t.Run("validation failure yields an error", func(t *testing.T) {
		_, err := GenerateSource("shapes.go", `package shapes

//earmark::marker
type Array interface {
	Len() int
}
`)
		assert.Error(t, err)
	})
}
