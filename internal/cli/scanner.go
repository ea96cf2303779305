package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/toyz/earmark/internal/errors"
	"github.com/toyz/earmark/internal/utils"
)

// DirectoryScanner resolves scan targets into package directories
type DirectoryScanner struct {
	fileProcessor *utils.FileProcessor
	exclude       map[string]bool
}

// NewDirectoryScanner creates a new directory scanner
func NewDirectoryScanner() *DirectoryScanner {
	return NewDirectoryScannerWithProcessor(utils.NewFileProcessor())
}

// NewDirectoryScannerWithProcessor creates a scanner sharing an existing
// file processor, so later phases reuse its caches
func NewDirectoryScannerWithProcessor(processor *utils.FileProcessor) *DirectoryScanner {
	return &DirectoryScanner{
		fileProcessor: processor,
		exclude:       make(map[string]bool),
	}
}

// SetExcludes registers extra directory basenames to skip during
// recursive scanning, on top of the built-in skip set
func (s *DirectoryScanner) SetExcludes(names []string) {
	for _, name := range names {
		if name != "" {
			s.exclude[name] = true
		}
	}
}

// ScanDirectories resolves the provided targets into directories that
// contain Go source files. A target ending in "/..." is scanned
// recursively; anything else names a single package directory.
// Recursive scans stay inside the target's module: a subdirectory with
// its own go.mod starts a nested module and is skipped.
func (s *DirectoryScanner) ScanDirectories(targets []string) ([]string, error) {
	var packageDirs []string
	seen := make(map[string]bool)

	for _, target := range targets {
		dirs, err := s.scanTarget(target)
		if err != nil {
			return nil, err
		}

		for _, dir := range dirs {
			if !seen[dir] {
				seen[dir] = true
				packageDirs = append(packageDirs, dir)
			}
		}
	}

	return packageDirs, nil
}

// scanTarget resolves a single scan target
func (s *DirectoryScanner) scanTarget(target string) ([]string, error) {
	if !strings.HasSuffix(target, "/...") && target != "..." {
		cleanPath, err := filepath.Abs(target)
		if err != nil {
			return nil, errors.WrapWithOperation("process", fmt.Sprintf("path resolution %s", target), err)
		}

		hasGo, err := s.fileProcessor.HasGoFiles(cleanPath)
		if err != nil {
			return nil, errors.WrapWithOperation("process", fmt.Sprintf("directory check %s", target), err)
		}
		if !hasGo {
			return nil, nil
		}
		return []string{cleanPath}, nil
	}

	baseDir := strings.TrimSuffix(target, "...")
	baseDir = strings.TrimSuffix(baseDir, "/")
	if baseDir == "" {
		baseDir = "."
	}

	basePath, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, errors.WrapWithOperation("process", fmt.Sprintf("path resolution %s", baseDir), err)
	}

	dirs, err := s.fileProcessor.ScanDirectoriesWithGoFiles([]string{basePath})
	if err != nil {
		return nil, err
	}

	var kept []string
	for _, dir := range dirs {
		if s.excluded(basePath, dir) || s.nestedModule(basePath, dir) {
			continue
		}
		kept = append(kept, dir)
	}

	return kept, nil
}

// excluded reports whether a path component between the scan base and
// the package directory is on the exclude list
func (s *DirectoryScanner) excluded(basePath, dir string) bool {
	if len(s.exclude) == 0 {
		return false
	}

	rel, err := filepath.Rel(basePath, dir)
	if err != nil || rel == "." {
		return false
	}

	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if s.exclude[part] {
			return true
		}
	}

	return false
}

// nestedModule reports whether dir sits inside a module other than the
// one rooted at or above basePath. Any go.mod strictly below the scan
// base starts a nested module.
func (s *DirectoryScanner) nestedModule(basePath, dir string) bool {
	for dir != basePath {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return false
		}
		dir = parent
	}

	return false
}
