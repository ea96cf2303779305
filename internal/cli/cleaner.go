package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/toyz/earmark/internal/utils"
)

// Cleaner removes generated marker files from package directories
type Cleaner struct {
	fileProcessor *utils.FileProcessor
}

// NewCleaner creates a new cleaner
func NewCleaner() *Cleaner {
	return &Cleaner{
		fileProcessor: utils.NewFileProcessor(),
	}
}

// SetGeneratedFileName overrides the file name removed by cleaning
func (c *Cleaner) SetGeneratedFileName(name string) {
	c.fileProcessor.SetGeneratedFileName(name)
}

// CleanGeneratedFiles removes generated marker files from the given
// targets and returns the files it removed. A target ending in "/..."
// cleans the whole tree below it; anything else cleans one directory.
func (c *Cleaner) CleanGeneratedFiles(targets []string) ([]string, error) {
	var removedFiles []string

	for _, target := range targets {
		if strings.HasSuffix(target, "/...") || target == "..." {
			baseDir := strings.TrimSuffix(target, "...")
			baseDir = strings.TrimSuffix(baseDir, "/")
			if baseDir == "" {
				baseDir = "."
			}

			removed, err := c.fileProcessor.CleanDirectories([]string{baseDir})
			removedFiles = append(removedFiles, removed...)
			if err != nil {
				return removedFiles, fmt.Errorf("failed to clean directory %s: %w", target, err)
			}
			continue
		}

		if err := c.cleanSingleDirectory(target, &removedFiles); err != nil {
			return removedFiles, fmt.Errorf("failed to clean directory %s: %w", target, err)
		}
	}

	return removedFiles, nil
}

// cleanSingleDirectory removes the generated file from one directory
func (c *Cleaner) cleanSingleDirectory(dir string, removedFiles *[]string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil
	}

	generatedFile := filepath.Join(dir, c.fileProcessor.GeneratedFileName())

	if _, err := os.Stat(generatedFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to check file %s: %w", generatedFile, err)
	}

	if err := os.Remove(generatedFile); err != nil {
		return fmt.Errorf("failed to remove file %s: %w", generatedFile, err)
	}

	*removedFiles = append(*removedFiles, generatedFile)
	return nil
}
