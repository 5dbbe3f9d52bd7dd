package release

import "strings"

// Record holds the version metadata frozen into a generated module.
type Record struct {
	// Package is the importable module name of the target package.
	Package string
	// Version is the effective version string, dev suffix included.
	Version string
	// GitHash is the commit the record was generated from, empty when unknown.
	GitHash string
	// Release reports whether this is a stable build rather than a development one.
	Release bool
	// Debug reports whether the package was built with debug features enabled.
	Debug bool
}

// ModuleName converts a distribution name into its importable module form.
// Dashes are only legal in distribution names, so they become underscores.
func ModuleName(packageName string) string {
	return strings.ReplaceAll(packageName, "-", "_")
}

// IsRelease reports whether a configured version string denotes a stable
// release. Development builds carry a "dev" marker (e.g. "3.2.dev").
func IsRelease(version string) bool {
	return !strings.Contains(version, "dev")
}

// EffectiveVersion expands a configured version for the current build.
// Development versions get the suffix produced by suffixFn appended (commonly
// a commit count, turning "3.2.dev" into "3.2.dev1331"). Release versions are
// returned untouched, and so are development versions when suffixFn yields
// nothing — the VCS being unavailable is not an error here.
func EffectiveVersion(version string, isRelease bool, suffixFn func() string) string {
	if isRelease || suffixFn == nil {
		return version
	}

	suffix := suffixFn()
	if suffix == "" {
		return version
	}

	return version + suffix
}
