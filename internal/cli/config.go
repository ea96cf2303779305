package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"sigs.k8s.io/yaml"

	"github.com/toyz/earmark/internal/errors"
	"github.com/toyz/earmark/internal/utils"
)

// ConfigFileName is the per-project configuration file looked up in the
// working directory and its parents.
const ConfigFileName = ".earmark.yaml"

// Config holds the resolved configuration for a driver run. Values come
// from defaults, then the config file, then command-line flags.
type Config struct {
	// Directories is the list of scan targets. Entries may use the
	// Go-style "./..." suffix for recursive scanning.
	Directories []string

	// ModuleName is the custom module name for import path resolution.
	// If empty, it is determined from the enclosing go.mod file.
	ModuleName string

	// OutputFileName is the generated file name written into each
	// package directory.
	OutputFileName string

	// Recursive enables recursive super-marker validation: embedded
	// interfaces resolvable in the scanned packages must themselves be
	// declared markers.
	Recursive bool

	// Jobs bounds the number of packages processed in parallel.
	// Zero means one worker per CPU.
	Jobs int

	// Exclude lists extra directory basenames skipped during scanning,
	// on top of the built-in vendor/testdata/hidden-directory set.
	Exclude []string

	// RequiredVersion is a semver constraint the running build must
	// satisfy, e.g. ">= 0.2". Empty disables the check.
	RequiredVersion string

	// Verbose enables detailed progress output and error reporting.
	Verbose bool
}

// DefaultConfig returns a config with the built-in defaults applied.
func DefaultConfig() *Config {
	return &Config{
		Directories:    []string{"./..."},
		OutputFileName: utils.DefaultGeneratedFileName,
	}
}

// FileConfig mirrors the keys of .earmark.yaml. Pointer fields
// distinguish an explicit value from an absent key, so flag and file
// layering stays predictable.
type FileConfig struct {
	Output          string   `json:"output,omitempty"`
	Recursive       *bool    `json:"recursive,omitempty"`
	Jobs            *int     `json:"jobs,omitempty"`
	Exclude         []string `json:"exclude,omitempty"`
	RequiredVersion string   `json:"required-version,omitempty"`
}

// LoadConfigFile reads and parses a config file at the given path.
func LoadConfigFile(path string) (*FileConfig, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapConfigurationError("config file", fmt.Sprintf("read %s", path), err)
	}

	var fc FileConfig
	if err := yaml.UnmarshalStrict(content, &fc); err != nil {
		return nil, errors.WrapConfigurationError("config file", fmt.Sprintf("parse %s", path), err).
			WithSuggestion("Valid keys are output, recursive, jobs, exclude and required-version")
	}

	return &fc, nil
}

// FindConfigFile searches for .earmark.yaml starting at startDir and
// walking up. The search stops at the first directory containing a
// go.mod file, so a config outside the module never leaks in. Returns
// an empty path when no file exists.
func FindConfigFile(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", errors.WrapConfigurationError("config file", fmt.Sprintf("resolve %s", startDir), err)
	}

	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		// A go.mod marks the module root; do not search beyond it.
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return "", nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// ApplyFile merges file values into the config. Callers layer flags on
// top afterwards, so flags always win over the file.
func (c *Config) ApplyFile(fc *FileConfig) {
	if fc == nil {
		return
	}

	if fc.Output != "" {
		c.OutputFileName = fc.Output
	}
	if fc.Recursive != nil {
		c.Recursive = *fc.Recursive
	}
	if fc.Jobs != nil {
		c.Jobs = *fc.Jobs
	}
	if len(fc.Exclude) > 0 {
		c.Exclude = append(c.Exclude, fc.Exclude...)
	}
	if fc.RequiredVersion != "" {
		c.RequiredVersion = fc.RequiredVersion
	}
}

// Validate checks the merged configuration before a run starts.
func (c *Config) Validate() error {
	if len(c.Directories) == 0 {
		return errors.New(errors.ConfigurationErrorCode, "no directories to scan").
			WithSuggestion("Pass one or more directories, or './...' for the whole module")
	}

	if err := utils.ValidateOutputFileName("output file name")(c.OutputFileName); err != nil {
		return errors.Wrap(errors.ConfigurationErrorCode, "invalid output file name", err).
			WithContext("output", c.OutputFileName)
	}

	if c.Jobs < 0 {
		return errors.Newf(errors.ConfigurationErrorCode, "jobs must be zero or positive, got %d", c.Jobs).
			WithSuggestion("Use 0 to run one worker per CPU")
	}

	return nil
}

// CheckRequiredVersion verifies the running build satisfies the
// required-version constraint. Development builds without a release
// version skip the check.
func (c *Config) CheckRequiredVersion(buildVersion string) error {
	if c.RequiredVersion == "" {
		return nil
	}

	if buildVersion == "" || buildVersion == "dev" || buildVersion == "(devel)" {
		return nil
	}

	constraint, err := semver.NewConstraint(c.RequiredVersion)
	if err != nil {
		return errors.WrapConfigurationError("required-version", fmt.Sprintf("parse constraint %q", c.RequiredVersion), err).
			WithSuggestion("Use a semver range such as \">= 0.2\"")
	}

	current, err := semver.NewVersion(buildVersion)
	if err != nil {
		return errors.WrapConfigurationError("required-version", fmt.Sprintf("parse build version %q", buildVersion), err)
	}

	if !constraint.Check(current) {
		return errors.Newf(errors.ConfigurationErrorCode,
			"earmark %s does not satisfy the required version %q", buildVersion, c.RequiredVersion).
			WithContext("build_version", buildVersion).
			WithContext("required_version", c.RequiredVersion).
			WithSuggestion("Upgrade earmark or relax the required-version constraint in " + ConfigFileName)
	}

	return nil
}
