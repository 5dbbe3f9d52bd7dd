package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestValidate checks required fields and defaulting for freezer settings.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Missing package name.
	cfg := new(Config)

	err := Validate(cfg)
	require.ErrorIs(t, err, errPackageNameRequired)

	// Missing version.
	cfg = &Config{
		PackageName: "astro-tools",
	}

	err = Validate(cfg)
	require.ErrorIs(t, err, errVersionRequired)

	// Minimal valid settings get a default source dir.
	cfg = &Config{
		PackageName: "astro-tools",
		Version:     "1.2.3",
	}

	err = Validate(cfg)
	require.NoError(t, err)
	require.Equal(t, DefaultSourceDir, cfg.SourceDir)

	// Nil settings.
	err = Validate(nil)
	require.ErrorIs(t, err, errConfigIsNotSet)
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	debug := true
	cfg := &Config{
		PackageName: "astro-tools",
		Version:     "3.2.dev",
		SourceDir:   "src",
		Debug:       &debug,
	}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.PackageName, loaded.PackageName)
	require.Equal(t, cfg.Version, loaded.Version)
	require.Equal(t, cfg.SourceDir, loaded.SourceDir)
	require.NotNil(t, loaded.Debug)
	require.True(t, *loaded.Debug)
	require.Nil(t, loaded.Release)

	// File exists.
	_, err = os.Stat(path)
	require.NoError(t, err)
}

// TestLoadMissingFile ensures a missing settings file surfaces as an error.
func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
