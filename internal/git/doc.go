// Package git shells out to the git binary to derive build metadata: the
// commit count used as a development version suffix, the HEAD hash frozen
// into generated modules, and repository root discovery.
//
// The package never returns errors for VCS problems. Building outside a git
// checkout (source tarballs, vendored copies) is a fully supported case, so
// every failure collapses to an empty result and a debug log line.
package git
