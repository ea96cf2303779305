package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStampContent(t *testing.T) {
	t.Run("single marker blocks", func(t *testing.T) {
		content, err := stampContent("Matrix", "", []string{"Array"})
		require.NoError(t, err)

		expected := "func (Matrix) isArray() {}\n" +
			"\n" +
			"var _ Array = (*Matrix)(nil)\n"
		assert.Equal(t, expected, content)
	})

	t.Run("multiple markers in argument order", func(t *testing.T) {
		content, err := stampContent("Matrix", "", []string{"Array", "Uniform"})
		require.NoError(t, err)

		expected := "func (Matrix) isArray() {}\n" +
			"\n" +
			"var _ Array = (*Matrix)(nil)\n" +
			"\n" +
			"func (Matrix) isUniform() {}\n" +
			"\n" +
			"var _ Uniform = (*Matrix)(nil)\n"
		assert.Equal(t, expected, content)
	})

	t.Run("comma separated argument", func(t *testing.T) {
		separate, err := stampContent("Matrix", "", []string{"Array", "Uniform"})
		require.NoError(t, err)

		combined, err := stampContent("Matrix", "", []string{"Array,Uniform"})
		require.NoError(t, err)

		assert.Equal(t, separate, combined)
	})

	t.Run("qualified marker path", func(t *testing.T) {
		content, err := stampContent("Grid", "", []string{"geo.Solid"})
		require.NoError(t, err)

		assert.Contains(t, content, "func (Grid) isSolid() {}")
		assert.Contains(t, content, "var _ geo.Solid = (*Grid)(nil)")
	})

	t.Run("package name yields a complete file", func(t *testing.T) {
		content, err := stampContent("Matrix", "shapes", []string{"Array"})
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

	t.Run("invalid type name rejected", func(t *testing.T) {
		_, err := stampContent("9Lives", "", []string{"Array"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "type name")
	})

	t.Run("empty type name rejected", func(t *testing.T) {
		_, err := stampContent("", "", []string{"Array"})
		require.Error(t, err)
	})

	t.Run("malformed marker path rejected", func(t *testing.T) {
		_, err := stampContent("Matrix", "", []string{"List(int)"})
		require.Error(t, err)
	})
}
