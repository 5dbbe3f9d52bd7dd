// Package version exposes build metadata for the freezer binary.
//
// Variables Version, Commit, and BuildTime are injected at build time via
// Go ldflags and default to sensible values for local builds. Short is also
// the helper-tool version recorded inside every generated version module.
package version
