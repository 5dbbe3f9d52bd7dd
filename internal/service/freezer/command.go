package freezer

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pybuild-tools/version-freezer/internal/config"
	"github.com/pybuild-tools/version-freezer/internal/domain/release"
	"github.com/pybuild-tools/version-freezer/internal/git"
	"github.com/pybuild-tools/version-freezer/internal/logger"
	"github.com/pybuild-tools/version-freezer/internal/repository/record"
	"github.com/pybuild-tools/version-freezer/internal/version"
)

// Options contains inputs for the freezer entry point.
type Options struct {
	// ConfigPath is an optional path to the settings YAML file.
	ConfigPath string
	// SourceDir overrides the source directory from the settings file.
	SourceDir string
	// Release forces the release flag; nil keeps the configured behavior.
	Release *bool
	// Debug forces the debug flag; nil keeps the configured behavior.
	Debug *bool
}

// vcs abstracts the git queries so tests can substitute canned answers.
// Both methods fail silently by returning an empty string.
type vcs interface {
	DevSuffix(ctx context.Context, dir string) string
	CommitHash(ctx context.Context, dir string) string
}

// freezer computes and freezes the effective version for one package.
// It is unexported—callers should use Run, which encapsulates setup and validation.
type freezer struct {
	// cfg holds the validated settings for the target package.
	cfg *config.Config
	// moduleName is the importable form of the configured package name.
	moduleName string
	// path is the location of the generated version module.
	path string
	// repo reads and writes the generated version module.
	repo record.Repository
	// vcs answers git queries for the source directory.
	vcs vcs
}

// Run executes the freezing workflow and returns the effective version string.
func Run(ctx context.Context, opts *Options) (string, error) {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "version-freezer")

	if instanceRunning(ctx) {
		return "", errFreezerRunning
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return "", fmt.Errorf("load settings: %w", err)
	}

	// Command-line overrides win over the settings file.
	if opts.SourceDir != "" {
		cfg.SourceDir = opts.SourceDir
	}

	if opts.Release != nil {
		cfg.Release = opts.Release
	}

	if opts.Debug != nil {
		cfg.Debug = opts.Debug
	}

	// Every log line from here on names the package being frozen.
	ctx = logger.WithKV(ctx, "package", cfg.PackageName)

	effective, _, err := newFreezer(cfg, git.NewClient()).freeze(ctx)
	if err != nil {
		return "", fmt.Errorf("freezer failed: %w", err)
	}

	return effective, nil
}

// newFreezer creates a freezer instance for the provided settings.
func newFreezer(cfg *config.Config, v vcs) *freezer {
	moduleName := release.ModuleName(cfg.PackageName)
	path := record.ModulePath(cfg.SourceDir, moduleName)

	return &freezer{
		cfg:        cfg,
		moduleName: moduleName,
		path:       path,
		repo:       record.NewFileRepository(path),
		vcs:        v,
	}
}

// freeze computes the candidate record, compares it with the prior one and
// regenerates the module when the version string or either flag changed.
// It reports the effective version and whether the module was rewritten.
func (f *freezer) freeze(ctx context.Context) (string, bool, error) {
	prior := f.loadPrior(ctx)

	isRelease := f.releaseFlag()
	effective := release.EffectiveVersion(f.cfg.Version, isRelease, func() string {
		return f.vcs.DevSuffix(ctx, f.cfg.SourceDir)
	})

	candidate := &release.Record{
		Package: f.moduleName,
		Version: effective,
		GitHash: f.gitHash(ctx, prior),
		Release: isRelease,
		Debug:   f.debugFlag(prior),
	}

	if !shouldRegenerate(candidate, prior) {
		logger.DebugKV(ctx, "Version module is up to date", "path", f.path)
		return effective, false, nil
	}

	usesGit := !isRelease
	if f.cfg.UsesGit != nil {
		usesGit = *f.cfg.UsesGit
	}

	contents, err := renderModule(candidate, version.Short(), buildTimestamp(), usesGit)
	if err != nil {
		return "", false, err
	}

	logger.Infof(ctx, "Freezing version number to %s", f.path)

	if err = f.repo.Save(ctx, contents); err != nil {
		return "", false, err
	}

	return effective, true, nil
}

// loadPrior reads the previously generated record. Any failure, including a
// module that exists but cannot be understood, counts as "no prior record".
func (f *freezer) loadPrior(ctx context.Context) *release.Record {
	prior, err := f.repo.Load(ctx)
	if err != nil {
		logger.DebugKV(ctx, "No usable prior version module", "path", f.path, "reason", err)
		return nil
	}

	return prior
}

// releaseFlag resolves the release flag: an explicit override wins, otherwise
// the presence of a dev marker in the configured version decides.
func (f *freezer) releaseFlag() bool {
	if f.cfg.Release != nil {
		return *f.cfg.Release
	}

	return release.IsRelease(f.cfg.Version)
}

// debugFlag resolves the debug flag: an explicit override wins, otherwise the
// previously frozen value is kept, defaulting to false on a first build.
func (f *freezer) debugFlag(prior *release.Record) bool {
	if f.cfg.Debug != nil {
		return *f.cfg.Debug
	}

	if prior != nil {
		return prior.Debug
	}

	return false
}

// gitHash returns the current HEAD hash, falling back to the previously
// frozen hash when the repository cannot be queried.
func (f *freezer) gitHash(ctx context.Context, prior *release.Record) string {
	if hash := f.vcs.CommitHash(ctx, f.cfg.SourceDir); hash != "" {
		return hash
	}

	if prior != nil {
		return prior.GitHash
	}

	return ""
}

// shouldRegenerate reports whether the module must be rewritten: always on a
// first build, otherwise only when the version string, release flag or debug
// flag moved. A hash-only change does not force a rewrite.
func shouldRegenerate(candidate, prior *release.Record) bool {
	if prior == nil {
		return true
	}

	return candidate.Version != prior.Version ||
		candidate.Release != prior.Release ||
		candidate.Debug != prior.Debug
}

// buildTimestamp returns the generation time, honoring SOURCE_DATE_EPOCH so
// reproducible builds get stable output.
func buildTimestamp() time.Time {
	if raw := os.Getenv("SOURCE_DATE_EPOCH"); raw != "" {
		if epoch, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return time.Unix(epoch, 0).UTC()
		}
	}

	return time.Now().UTC()
}
