package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestRepoRoot verifies .git discovery with bounded upward traversal.
func TestRepoRoot(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0o755))

	nested := filepath.Join(root, "pkg", "sub")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	moduleFile := filepath.Join(nested, "version.py")
	require.NoError(t, os.WriteFile(moduleFile, []byte("version = \"1.0\"\n"), 0o644))

	// Enough levels to reach the root, starting from a file.
	require.Equal(t, root, RepoRoot(moduleFile, 2))

	// Starting from a directory works the same way.
	require.Equal(t, root, RepoRoot(nested, 2))

	// Too few levels stops short of the .git entry.
	require.Empty(t, RepoRoot(moduleFile, 0))

	// Negative levels lifts the bound entirely.
	require.Equal(t, root, RepoRoot(moduleFile, -1))

	// Nonexistent paths are not in a repository.
	require.Empty(t, RepoRoot(filepath.Join(root, "missing"), 2))
}

// TestRepoRootOutsideRepository ensures a plain directory tree yields nothing.
func TestRepoRootOutsideRepository(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.Empty(t, RepoRoot(dir, 0))
}

// TestQueriesFailSilently ensures git queries collapse to empty strings on failure.
func TestQueriesFailSilently(t *testing.T) {
	t.Parallel()

	// A directory that is not a git repository.
	dir := t.TempDir()
	client := NewClient()
	ctx := context.Background()

	require.Empty(t, client.DevSuffix(ctx, dir))
	require.Empty(t, client.CommitHash(ctx, dir))

	// A directory that does not exist at all.
	require.Empty(t, client.CommitHash(ctx, filepath.Join(dir, "missing")))
}

// TestQueriesInsideBrokenCheckout ensures a bare .git entry passes the
// checkout gate but still fails silently when git rejects the repository.
func TestQueriesInsideBrokenCheckout(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))

	client := NewClient()
	ctx := context.Background()

	require.Empty(t, client.DevSuffix(ctx, dir))
	require.Empty(t, client.CommitHash(ctx, dir))
}
