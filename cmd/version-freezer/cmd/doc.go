// Package cmd wires the version-freezer CLI: the root command runs the
// freezing workflow, `init` writes a starter settings file, and `version`
// prints the freezer's own build metadata.
package cmd
