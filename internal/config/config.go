package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the package metadata and freezer knobs read at build time.
type Config struct {
	// PackageName is the distribution name of the Python package (required).
	PackageName string `yaml:"name"`
	// Version is the configured version string, e.g. "1.2.3" or "3.2.dev" (required).
	Version string `yaml:"version"`
	// SourceDir is the directory holding the package source tree.
	SourceDir string `yaml:"source_dir"`
	// Release forces the release flag instead of deriving it from Version.
	Release *bool `yaml:"release"`
	// Debug forces the debug flag instead of keeping the previously frozen value.
	Debug *bool `yaml:"debug"`
	// UsesGit forces git-header embedding instead of tying it to the release flag.
	UsesGit *bool `yaml:"uses_git"`
}

const (
	// DefaultConfigFilename is the default filename for freezer settings.
	DefaultConfigFilename = "version-freezer.yaml"

	// DefaultSourceDir is used when the settings omit a source directory.
	DefaultSourceDir = "."

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errPackageNameRequired is returned when the package name is missing.
	errPackageNameRequired = errors.New("package name must be provided")
	// errVersionRequired is returned when the version string is missing.
	errVersionRequired = errors.New("package version must be provided")
)

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings for required fields and fills defaults.
// A missing package name or version is the one fatal misconfiguration: without
// them there is nothing to freeze.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.PackageName == "" {
		return errPackageNameRequired
	}

	if cfg.Version == "" {
		return errVersionRequired
	}

	if cfg.SourceDir == "" {
		cfg.SourceDir = DefaultSourceDir
	}

	return nil
}
