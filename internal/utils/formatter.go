package utils

import (
	"fmt"
	"go/format"

	"golang.org/x/tools/imports"
)

// FormatGoCode formats Go source code using the same logic as gofmt
func FormatGoCode(source []byte) ([]byte, error) {
	return format.Source(source)
}

// OrganizeImports formats Go source code and sorts its import block the
// way goimports does. The filename steers import grouping only; the file
// does not need to exist.
func OrganizeImports(filename string, source []byte) ([]byte, error) {
	organized, err := imports.Process(filename, source, nil)
	if err != nil {
		// Fall back to plain formatting so a grouping failure does not
		// lose otherwise valid output
		formatted, fmtErr := format.Source(source)
		if fmtErr != nil {
			return source, fmt.Errorf("failed to organize imports for %s: %w", filename, err)
		}
		return formatted, nil
	}
	return organized, nil
}
