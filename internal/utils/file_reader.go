package utils

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
)

// FileReader parses and reads Go source files through a shared FileSet,
// caching results per path so repeated lookups during a run hit disk
// once. Positions from every parsed file resolve against the same set,
// which is what lets diagnostics and source slicing work across files.
type FileReader struct {
	fileSet      *token.FileSet
	astCache     *FileCache[*ast.File]
	contentCache *FileCache[string]
}

// NewFileReader creates a FileReader with empty caches.
func NewFileReader() *FileReader {
	return &FileReader{
		fileSet:      token.NewFileSet(),
		astCache:     NewFileCache[*ast.File](),
		contentCache: NewFileCache[string](),
	}
}

// ParseGoFile parses a Go source file with comments, returning the
// cached AST when the file is unchanged on disk.
func (fr *FileReader) ParseGoFile(filePath string) (*ast.File, error) {
	cleanPath, err := fr.validateAndCleanPath(filePath)
	if err != nil {
		return nil, err
	}

	if cached, ok := fr.astCache.Get(cleanPath); ok {
		return cached, nil
	}

	file, err := parser.ParseFile(fr.fileSet, cleanPath, nil, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Go file %s: %w", filepath.Base(cleanPath), err)
	}

	fr.astCache.Put(cleanPath, file)

	return file, nil
}

// ParseGoSource parses Go source code held in memory. In-memory sources
// are not cached; the filename only labels positions.
func (fr *FileReader) ParseGoSource(filename, source string) (*ast.File, error) {
	file, err := parser.ParseFile(fr.fileSet, filename, source, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Go source: %w", err)
	}
	return file, nil
}

// ReadFile returns the file's contents, cached per path.
func (fr *FileReader) ReadFile(filePath string) (string, error) {
	cleanPath, err := fr.validateAndCleanPath(filePath)
	if err != nil {
		return "", err
	}

	if cached, ok := fr.contentCache.Get(cleanPath); ok {
		return cached, nil
	}

	content, err := os.ReadFile(cleanPath)
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", filepath.Base(cleanPath), err)
	}

	contentStr := string(content)
	fr.contentCache.Put(cleanPath, contentStr)

	return contentStr, nil
}

// GetFileSet returns the token.FileSet backing every file parsed
// through this reader.
func (fr *FileReader) GetFileSet() *token.FileSet {
	return fr.fileSet
}

// SliceSource returns the source text between two token positions of a
// file parsed through this reader. Constraint expressions and embedded
// interface names are carried into generated output verbatim, so they
// are sliced from the original bytes rather than re-printed from the
// AST.
func (fr *FileReader) SliceSource(filePath string, start, end token.Pos) (string, error) {
	content, err := fr.ReadFile(filePath)
	if err != nil {
		return "", err
	}

	startOffset := fr.fileSet.Position(start).Offset
	endOffset := fr.fileSet.Position(end).Offset
	if startOffset < 0 || endOffset > len(content) || startOffset > endOffset {
		return "", fmt.Errorf("source range [%d:%d) out of bounds for %s", startOffset, endOffset, filepath.Base(filePath))
	}

	return content[startOffset:endOffset], nil
}

// validateAndCleanPath rejects empty and traversal-shaped paths and
// verifies the file exists before any read.
func (fr *FileReader) validateAndCleanPath(filePath string) (string, error) {
	if err := NotEmpty("filePath")(filePath); err != nil {
		return "", fmt.Errorf("file path %w", err)
	}

	cleanPath := filepath.Clean(filePath)

	if strings.Contains(cleanPath, "..") {
		// A leading .. is an ordinary relative path; anywhere else it
		// survived Clean and means traversal
		if !strings.HasPrefix(cleanPath, "..") {
			return "", fmt.Errorf("path traversal not allowed in file path: %s", filePath)
		}
	}

	if _, err := os.Stat(cleanPath); os.IsNotExist(err) {
		return "", fmt.Errorf("file does not exist: %s", cleanPath)
	}

	return cleanPath, nil
}
