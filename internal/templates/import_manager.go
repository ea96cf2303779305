package templates

import (
	"fmt"
	"sort"
	"strings"

	"github.com/toyz/earmark/internal/models"
)

// ImportManager collects the import records a generated file needs and
// renders them as an import section. Records are threaded from the
// source files that declared the marked types, so package qualifiers in
// emitted blocks resolve the same way they did where the directive was
// written.
type ImportManager struct {
	records map[string]models.ImportRecord // qualifier -> record
}

// NewImportManager creates a new import manager
func NewImportManager() *ImportManager {
	return &ImportManager{
		records: make(map[string]models.ImportRecord),
	}
}

// AddRecord registers one source-file import. A later record with the
// same qualifier replaces the earlier one; within a single package the
// records agree anyway.
func (im *ImportManager) AddRecord(rec models.ImportRecord) {
	if rec.Path == "" {
		return
	}
	im.records[rec.Qualifier()] = rec
}

// AddRecords registers every import record of a declaration's source
// file.
func (im *ImportManager) AddRecords(recs []models.ImportRecord) {
	for _, rec := range recs {
		im.AddRecord(rec)
	}
}

// Merge merges another import manager into this one
func (im *ImportManager) Merge(other *ImportManager) {
	for _, rec := range other.records {
		im.AddRecord(rec)
	}
}

// Len returns the number of distinct qualifiers recorded.
func (im *ImportManager) Len() int {
	return len(im.records)
}

// IsEmpty reports whether any import was recorded.
func (im *ImportManager) IsEmpty() bool {
	return len(im.records) == 0
}

// GenerateImports renders the import section, sorted by import path.
// Aliased imports keep their alias. Returns "" when nothing was
// recorded.
func (im *ImportManager) GenerateImports() string {
	if im.IsEmpty() {
		return ""
	}

	specs := make([]models.ImportRecord, 0, len(im.records))
	for _, rec := range im.records {
		specs = append(specs, rec)
	}
	sort.Slice(specs, func(i, j int) bool {
		return specs[i].Path < specs[j].Path
	})

	lines := make([]string, 0, len(specs))
	for _, rec := range specs {
		if rec.Alias != "" {
			lines = append(lines, fmt.Sprintf(`%s "%s"`, rec.Alias, rec.Path))
		} else {
			lines = append(lines, fmt.Sprintf(`"%s"`, rec.Path))
		}
	}

	if len(lines) == 1 {
		return fmt.Sprintf("import %s\n", lines[0])
	}

	var result strings.Builder
	result.WriteString("import (\n")
	for _, line := range lines {
		result.WriteString(fmt.Sprintf("\t%s\n", line))
	}
	result.WriteString(")\n")

	return result.String()
}
