package utils

import (
	"fmt"
	"go/ast"
	"os"
	"path/filepath"
	"strings"
)

// DefaultGeneratedFileName is the file name used for generated marker
// implementations in each package directory.
const DefaultGeneratedFileName = "autogen_markers.go"

// FileProcessor provides utilities for common file processing operations
type FileProcessor struct {
	fileReader    *FileReader
	generatedFile string
}

// NewFileProcessor creates a new file processor
func NewFileProcessor() *FileProcessor {
	return &FileProcessor{
		fileReader:    NewFileReader(),
		generatedFile: DefaultGeneratedFileName,
	}
}

// SetGeneratedFileName overrides the file name treated as generated output
func (fp *FileProcessor) SetGeneratedFileName(name string) {
	if name != "" {
		fp.generatedFile = name
	}
}

// GeneratedFileName returns the file name treated as generated output
func (fp *FileProcessor) GeneratedFileName() string {
	return fp.generatedFile
}

// sourceFileFilter filters for source files worth parsing: the default
// Go file filter minus the configured generated output file, so reruns
// over an already-generated tree never re-read their own output
func (fp *FileProcessor) sourceFileFilter() FileFilter {
	base := DefaultGoFileFilter()
	return func(path string, info os.DirEntry) bool {
		if !base(path, info) {
			return false
		}
		return info.Name() != fp.generatedFile
	}
}

// generatedFileFilter matches only the configured generated output file
func (fp *FileProcessor) generatedFileFilter() FileFilter {
	return func(path string, info os.DirEntry) bool {
		if info.IsDir() {
			return false
		}
		return info.Name() == fp.generatedFile
	}
}

// FileFilter defines a function that determines whether a file should be processed
type FileFilter func(path string, info os.DirEntry) bool

// DirectoryFilter defines a function that determines whether a directory should be processed
type DirectoryFilter func(path string, info os.DirEntry) bool

// FileWalkOptions configures file walking behavior
type FileWalkOptions struct {
	FileFilter      FileFilter
	DirectoryFilter DirectoryFilter
	SkipErrors      bool
}

// DefaultGoFileFilter filters for .go files, excluding tests and autogen files
func DefaultGoFileFilter() FileFilter {
	return func(path string, info os.DirEntry) bool {
		if info.IsDir() {
			return false
		}

		name := info.Name()
		return strings.HasSuffix(name, ".go") &&
			!strings.HasSuffix(name, "_test.go") &&
			!strings.HasPrefix(name, "autogen_")
	}
}

// DefaultDirectoryFilter skips common directories that shouldn't contain source code
func DefaultDirectoryFilter() DirectoryFilter {
	skipDirs := map[string]bool{
		"vendor":       true,
		"node_modules": true,
		".git":         true,
		".svn":         true,
		".hg":          true,
		"testdata":     true,
		"build":        true,
		"dist":         true,
		"target":       true,
	}

	return func(path string, info os.DirEntry) bool {
		if !info.IsDir() {
			return true
		}

		name := info.Name()

		// Skip hidden directories
		if strings.HasPrefix(name, ".") && name != "." && name != ".." {
			return false
		}

		// Skip known directories
		return !skipDirs[name]
	}
}

// fileInfoDirEntry adapts os.FileInfo to the os.DirEntry shape filters expect
type fileInfoDirEntry struct {
	info os.FileInfo
}

func (f fileInfoDirEntry) Name() string               { return f.info.Name() }
func (f fileInfoDirEntry) IsDir() bool                { return f.info.IsDir() }
func (f fileInfoDirEntry) Type() os.FileMode          { return f.info.Mode().Type() }
func (f fileInfoDirEntry) Info() (os.FileInfo, error) { return f.info, nil }

// WalkFiles walks through files in a directory tree with filtering
func (fp *FileProcessor) WalkFiles(rootDir string, options FileWalkOptions) ([]string, error) {
	var matchedFiles []string

	err := filepath.Walk(rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if options.SkipErrors {
				return nil
			}
			return err
		}

		// Convert FileInfo to DirEntry
		dirEntry := fileInfoDirEntry{info: info}

		// Apply directory filter
		if info.IsDir() && options.DirectoryFilter != nil {
			if !options.DirectoryFilter(path, dirEntry) {
				return filepath.SkipDir
			}
			return nil
		}

		// Apply file filter
		if !info.IsDir() && options.FileFilter != nil {
			if options.FileFilter(path, dirEntry) {
				matchedFiles = append(matchedFiles, path)
			}
		}

		return nil
	})

	return matchedFiles, err
}

// ScanDirectoriesWithGoFiles scans directories and returns those containing Go files
func (fp *FileProcessor) ScanDirectoriesWithGoFiles(rootDirs []string) ([]string, error) {
	var packageDirs []string
	visited := make(map[string]bool)

	for _, rootDir := range rootDirs {
		dirs, err := fp.scanDirectoryRecursive(rootDir, visited)
		if err != nil {
			return nil, err
		}
		packageDirs = append(packageDirs, dirs...)
	}

	return packageDirs, nil
}

// scanDirectoryRecursive recursively scans a directory for Go files
func (fp *FileProcessor) scanDirectoryRecursive(dir string, visited map[string]bool) ([]string, error) {
	// Resolve absolute path to handle symlinks and avoid cycles
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", dir, err)
	}

	if visited[absDir] {
		return nil, nil
	}
	visited[absDir] = true

	var packageDirs []string

	// Check if this directory has Go files
	hasGoFiles, err := fp.HasGoFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to check for Go files in %s: %w", dir, err)
	}

	if hasGoFiles {
		packageDirs = append(packageDirs, dir)
	}

	// Recursively scan subdirectories
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	directoryFilter := DefaultDirectoryFilter()

	for _, entry := range entries {
		if entry.IsDir() {
			entryPath := filepath.Join(dir, entry.Name())

			// Apply directory filter
			if !directoryFilter(entryPath, entry) {
				continue
			}

			subDirs, err := fp.scanDirectoryRecursive(entryPath, visited)
			if err != nil {
				return nil, err
			}
			packageDirs = append(packageDirs, subDirs...)
		}
	}

	return packageDirs, nil
}

// HasGoFiles checks if a directory contains any .go files (excluding test files and autogen files)
func (fp *FileProcessor) HasGoFiles(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, err
	}

	fileFilter := fp.sourceFileFilter()

	for _, entry := range entries {
		if fileFilter(filepath.Join(dir, entry.Name()), entry) {
			return true, nil
		}
	}

	return false, nil
}

// ParseDirectoryFiles parses all Go files in a directory
func (fp *FileProcessor) ParseDirectoryFiles(dirPath string) (map[string]*ast.File, string, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read directory %s: %w", dirPath, err)
	}

	files := make(map[string]*ast.File)
	var packageName string
	fileFilter := fp.sourceFileFilter()

	for _, entry := range entries {
		if !fileFilter(filepath.Join(dirPath, entry.Name()), entry) {
			continue
		}

		filePath := filepath.Join(dirPath, entry.Name())

		file, err := fp.fileReader.ParseGoFile(filePath)
		if err != nil {
			return nil, "", fmt.Errorf("failed to parse %s: %w", entry.Name(), err)
		}

		// Verify all files belong to the same package
		if packageName == "" {
			packageName = file.Name.Name
		} else if file.Name.Name != packageName {
			return nil, "", fmt.Errorf("multiple packages found in directory: %s and %s", packageName, file.Name.Name)
		}

		files[filePath] = file
	}

	if len(files) == 0 {
		return nil, "", fmt.Errorf("no Go files found in directory")
	}

	return files, packageName, nil
}

// CleanDirectories removes the generated marker file from every
// directory below the given roots. The walk skips the same directories
// the scanner skips, so cleaning covers exactly what generation could
// have produced.
func (fp *FileProcessor) CleanDirectories(baseDirs []string) ([]string, error) {
	var removedFiles []string

	for _, baseDir := range baseDirs {
		startDir := "."
		if baseDir != "" {
			startDir = baseDir
		}

		targets, err := fp.WalkFiles(startDir, FileWalkOptions{
			FileFilter:      fp.generatedFileFilter(),
			DirectoryFilter: DefaultDirectoryFilter(),
			SkipErrors:      true,
		})
		if err != nil {
			return removedFiles, fmt.Errorf("failed to clean directory %s: %w", baseDir, err)
		}

		for _, target := range targets {
			if err := os.Remove(target); err != nil {
				return removedFiles, fmt.Errorf("failed to remove file %s: %w", target, err)
			}
			removedFiles = append(removedFiles, target)
		}
	}

	return removedFiles, nil
}

// GetFileReader returns the underlying FileReader for advanced operations
func (fp *FileProcessor) GetFileReader() *FileReader {
	return fp.fileReader
}
