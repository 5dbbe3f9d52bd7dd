// Package config defines the freezer settings and provides helpers to load,
// validate and save them in YAML format.
//
// The Config type holds the target package name and version plus optional
// overrides for the release, debug and git-header behavior.
package config
