// Package release defines the version metadata model shared by the freezer.
//
// A Record mirrors the fields frozen into a generated version module: the
// package name, the effective version string, the git hash it was produced
// from, and the release/debug flags. Helpers cover version-string concerns:
// splitting a dotted version into numeric parts, detecting development
// versions, and expanding them with a VCS-derived suffix.
package release
