// Package freezer implements the version-freezing workflow: load settings,
// expand the configured version with a git-derived dev suffix, compare the
// result against the previously generated version module, and rewrite that
// module when the version string, release flag or debug flag changed.
//
// The workflow is synchronous and runs once per build invocation. VCS
// failures degrade to a static rendering; only missing settings and real I/O
// failures are reported as errors.
package freezer
