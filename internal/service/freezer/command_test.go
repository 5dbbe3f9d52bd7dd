package freezer

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pybuild-tools/version-freezer/internal/config"
	"github.com/pybuild-tools/version-freezer/internal/domain/release"
)

// stubVCS returns canned git answers; empty values model a silent VCS.
type stubVCS struct {
	suffix string
	hash   string
}

func (s stubVCS) DevSuffix(_ context.Context, _ string) string  { return s.suffix }
func (s stubVCS) CommitHash(_ context.Context, _ string) string { return s.hash }

// newTestFreezer builds a freezer writing into a fresh temp tree.
func newTestFreezer(t *testing.T, cfg *config.Config, v vcs) *freezer {
	t.Helper()

	if cfg.SourceDir == "" {
		cfg.SourceDir = t.TempDir()
	}

	require.NoError(t, config.Validate(cfg))
	require.NoError(t, os.MkdirAll(filepath.Dir(modulePathFor(cfg)), 0o755))

	return newFreezer(cfg, v)
}

// modulePathFor mirrors the path the freezer will write to.
func modulePathFor(cfg *config.Config) string {
	return filepath.Join(cfg.SourceDir, release.ModuleName(cfg.PackageName), "version.py")
}

// TestFreezeFirstBuild checks a development build with a live VCS.
func TestFreezeFirstBuild(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := &config.Config{
		PackageName: "astro_tools",
		Version:     "3.2.dev",
	}

	f := newTestFreezer(t, cfg, stubVCS{suffix: "1331", hash: "aaaabbbb"})

	effective, wrote, err := f.freeze(ctx)
	require.NoError(t, err)
	require.True(t, wrote)
	require.Equal(t, "3.2.dev1331", effective)

	contents, err := os.ReadFile(f.path)
	require.NoError(t, err)

	source := string(contents)
	require.Contains(t, source, `_last_generated_version = "3.2.dev1331"`)
	require.Contains(t, source, `_last_githash = "aaaabbbb"`)
	require.Contains(t, source, "major = 3")
	require.Contains(t, source, "minor = 2")
	require.Contains(t, source, "bugfix = 0")
	require.Contains(t, source, "release = False")
	require.Contains(t, source, "debug = False")
	require.Contains(t, source, "def _get_git_devstr(")
}

// TestFreezeIdempotent ensures a second run with unchanged inputs writes nothing.
func TestFreezeIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := &config.Config{
		PackageName: "astro_tools",
		Version:     "3.2.dev",
	}

	f := newTestFreezer(t, cfg, stubVCS{suffix: "1331", hash: "aaaabbbb"})

	_, wrote, err := f.freeze(ctx)
	require.NoError(t, err)
	require.True(t, wrote)

	before, err := os.Stat(f.path)
	require.NoError(t, err)

	effective, wrote, err := f.freeze(ctx)
	require.NoError(t, err)
	require.False(t, wrote)
	require.Equal(t, "3.2.dev1331", effective)

	after, err := os.Stat(f.path)
	require.NoError(t, err)
	require.Equal(t, before.ModTime(), after.ModTime())
	require.Equal(t, before.Size(), after.Size())
}

// TestFreezeFlagChangeRegenerates ensures flag flips rewrite the module even
// when the version string itself is unchanged.
func TestFreezeFlagChangeRegenerates(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := &config.Config{
		PackageName: "astro_tools",
		Version:     "1.2.3",
	}

	f := newTestFreezer(t, cfg, stubVCS{hash: "aaaabbbb"})

	_, wrote, err := f.freeze(ctx)
	require.NoError(t, err)
	require.True(t, wrote)

	// Same version, debug flipped on.
	debug := true
	cfg.Debug = &debug

	_, wrote, err = newFreezer(cfg, stubVCS{hash: "aaaabbbb"}).freeze(ctx)
	require.NoError(t, err)
	require.True(t, wrote)

	contents, err := os.ReadFile(f.path)
	require.NoError(t, err)
	require.Contains(t, string(contents), "debug = True")

	// Debug stays on once frozen, even without the override.
	cfg.Debug = nil

	_, wrote, err = newFreezer(cfg, stubVCS{hash: "aaaabbbb"}).freeze(ctx)
	require.NoError(t, err)
	require.False(t, wrote)
}

// TestFreezeWithoutVCS checks the static fallback rendering.
func TestFreezeWithoutVCS(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := &config.Config{
		PackageName: "astro_tools",
		Version:     "3.2.dev",
	}

	f := newTestFreezer(t, cfg, stubVCS{})

	effective, wrote, err := f.freeze(ctx)
	require.NoError(t, err)
	require.True(t, wrote)

	// No suffix when the VCS is silent.
	require.Equal(t, "3.2.dev", effective)

	contents, err := os.ReadFile(f.path)
	require.NoError(t, err)

	// Still a valid version/hash pair, even though the hash is unknown.
	source := string(contents)
	require.Contains(t, source, `_last_generated_version = "3.2.dev"`)
	require.Contains(t, source, `_last_githash = ""`)
}

// TestFreezeReleaseBuild checks that release builds get the static header.
func TestFreezeReleaseBuild(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := &config.Config{
		PackageName: "astro-tools",
		Version:     "1.2.3",
	}

	f := newTestFreezer(t, cfg, stubVCS{suffix: "1331", hash: "aaaabbbb"})

	effective, wrote, err := f.freeze(ctx)
	require.NoError(t, err)
	require.True(t, wrote)
	require.Equal(t, "1.2.3", effective)

	// Dashes map to underscores in the module path.
	path := filepath.Join(cfg.SourceDir, "astro_tools", "version.py")
	contents, err := os.ReadFile(path)
	require.NoError(t, err)

	source := string(contents)
	require.Contains(t, source, `version = "1.2.3"`)
	require.Contains(t, source, `githash = "aaaabbbb"`)
	require.Contains(t, source, "release = True")
	require.NotContains(t, source, "_get_git_devstr")
}

// TestFreezeKeepsPriorHash ensures a silent VCS carries the old hash forward.
func TestFreezeKeepsPriorHash(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := &config.Config{
		PackageName: "astro_tools",
		Version:     "1.2.3",
	}

	f := newTestFreezer(t, cfg, stubVCS{hash: "aaaabbbb"})

	_, _, err := f.freeze(ctx)
	require.NoError(t, err)

	// Version bump with the VCS now unavailable.
	cfg.Version = "1.2.4"

	_, wrote, err := newFreezer(cfg, stubVCS{}).freeze(ctx)
	require.NoError(t, err)
	require.True(t, wrote)

	contents, err := os.ReadFile(f.path)
	require.NoError(t, err)
	require.Contains(t, string(contents), `githash = "aaaabbbb"`)
}

// TestFreezeForcedGitHeader ensures uses_git embeds the git header even for
// a release build that would otherwise render statically.
func TestFreezeForcedGitHeader(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	usesGit := true
	cfg := &config.Config{
		PackageName: "astro_tools",
		Version:     "1.2.3",
		UsesGit:     &usesGit,
	}

	f := newTestFreezer(t, cfg, stubVCS{suffix: "1331", hash: "aaaabbbb"})

	effective, wrote, err := f.freeze(ctx)
	require.NoError(t, err)
	require.True(t, wrote)

	// Still a release: no dev suffix despite the git header.
	require.Equal(t, "1.2.3", effective)

	contents, err := os.ReadFile(f.path)
	require.NoError(t, err)

	source := string(contents)
	require.Contains(t, source, `_last_generated_version = "1.2.3"`)
	require.Contains(t, source, "def _get_git_devstr(")
	require.Contains(t, source, "release = True")
}

// TestFreezeForcedStaticHeader ensures uses_git off keeps a development build
// on the static rendering while the dev suffix still applies.
func TestFreezeForcedStaticHeader(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	usesGit := false
	cfg := &config.Config{
		PackageName: "astro_tools",
		Version:     "3.2.dev",
		UsesGit:     &usesGit,
	}

	f := newTestFreezer(t, cfg, stubVCS{suffix: "1331", hash: "aaaabbbb"})

	effective, wrote, err := f.freeze(ctx)
	require.NoError(t, err)
	require.True(t, wrote)
	require.Equal(t, "3.2.dev1331", effective)

	contents, err := os.ReadFile(f.path)
	require.NoError(t, err)

	source := string(contents)
	require.Contains(t, source, `version = "3.2.dev1331"`)
	require.Contains(t, source, `githash = "aaaabbbb"`)
	require.NotContains(t, source, "_get_git_devstr")
}

// TestFreezeSourceDateEpoch ensures reproducible builds pin the generated
// timestamp to SOURCE_DATE_EPOCH.
func TestFreezeSourceDateEpoch(t *testing.T) {
	// t.Setenv is incompatible with t.Parallel.
	t.Setenv("SOURCE_DATE_EPOCH", "1704164645") // 2024-01-02 03:04:05 UTC

	ctx := context.Background()
	cfg := &config.Config{
		PackageName: "astro_tools",
		Version:     "1.2.3",
	}

	f := newTestFreezer(t, cfg, stubVCS{hash: "aaaabbbb"})

	_, wrote, err := f.freeze(ctx)
	require.NoError(t, err)
	require.True(t, wrote)

	contents, err := os.ReadFile(f.path)
	require.NoError(t, err)

	source := string(contents)
	require.Contains(t, source, "on 2024-01-02 03:04:05 UTC")
	require.Contains(t, source, "timestamp = datetime.datetime(2024, 1, 2, 3, 4, 5)")
}

// TestBuildTimestampMalformedEpoch ensures a garbage epoch falls back to the
// current UTC time instead of failing the build.
func TestBuildTimestampMalformedEpoch(t *testing.T) {
	t.Setenv("SOURCE_DATE_EPOCH", "not-a-number")

	got := buildTimestamp()
	require.Equal(t, time.UTC, got.Location())
	require.WithinDuration(t, time.Now().UTC(), got, time.Minute)
}

// TestFreezeUnwritablePath ensures I/O failures propagate to the caller.
func TestFreezeUnwritablePath(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := &config.Config{
		PackageName: "astro_tools",
		Version:     "1.2.3",
		// The package directory was never created.
		SourceDir: filepath.Join(t.TempDir(), "missing"),
	}
	require.NoError(t, config.Validate(cfg))

	_, _, err := newFreezer(cfg, stubVCS{}).freeze(ctx)
	require.Error(t, err)
}
