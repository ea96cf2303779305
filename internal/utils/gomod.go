package utils

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
)

// GoModParser resolves module information from go.mod files. Reads go
// through a FileReader, so resolving many directories of one module
// parses its go.mod once.
type GoModParser struct {
	fileReader *FileReader
}

// NewGoModParser creates a go.mod parser reading through fileReader.
func NewGoModParser(fileReader *FileReader) *GoModParser {
	return &GoModParser{
		fileReader: fileReader,
	}
}

// ParseModuleName extracts the module path from a go.mod file.
func (p *GoModParser) ParseModuleName(goModPath string) (string, error) {
	cleanPath := filepath.Clean(goModPath)
	if !strings.HasSuffix(cleanPath, "go.mod") {
		return "", fmt.Errorf("file is not a go.mod file: %s", goModPath)
	}

	content, err := p.fileReader.ReadFile(cleanPath)
	if err != nil {
		return "", fmt.Errorf("failed to read go.mod file: %w", err)
	}

	modFile, err := modfile.Parse(cleanPath, []byte(content), nil)
	if err != nil {
		return "", fmt.Errorf("failed to parse go.mod file: %w", err)
	}

	if modFile.Module == nil {
		return "", fmt.Errorf("no module declaration found in go.mod")
	}

	return modFile.Module.Mod.Path, nil
}

// ImportPathForDir resolves the import path of the package in dir by
// locating the enclosing module and joining the relative path onto its
// module path.
func (p *GoModParser) ImportPathForDir(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve directory %s: %w", dir, err)
	}

	goModPath, err := p.FindGoModFile(absDir)
	if err != nil {
		return "", err
	}

	moduleName, err := p.ParseModuleName(goModPath)
	if err != nil {
		return "", err
	}

	rel, err := filepath.Rel(filepath.Dir(goModPath), absDir)
	if err != nil {
		return "", fmt.Errorf("failed to relativize %s against module root: %w", absDir, err)
	}

	if rel == "." {
		return moduleName, nil
	}
	return moduleName + "/" + filepath.ToSlash(rel), nil
}

// ImportPathForDir resolves the import path for dir using a throwaway
// parser. Callers that resolve many directories should hold their own
// GoModParser so go.mod reads stay cached.
func ImportPathForDir(dir string) (string, error) {
	return NewGoModParser(NewFileReader()).ImportPathForDir(dir)
}

// FindGoModFile walks from startDir toward the filesystem root and
// returns the first go.mod found.
func (p *GoModParser) FindGoModFile(startDir string) (string, error) {
	currentDir := filepath.Clean(startDir)

	for {
		goModPath := filepath.Join(currentDir, "go.mod")
		if content, err := p.fileReader.ReadFile(goModPath); err == nil && content != "" {
			return goModPath, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return "", fmt.Errorf("go.mod file not found")
}
