package record

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/pybuild-tools/version-freezer/internal/domain/release"
)

// Repository defines persistence operations for the generated version module.
type Repository interface {
	Load(ctx context.Context) (*release.Record, error)
	Save(ctx context.Context, contents string) error
}

// FileRepository reads and overwrites a generated version module on disk.
// Load recovers the frozen fields by scanning the assignments the freezer
// itself wrote on a previous run; there is no general Python parsing here.
type FileRepository struct {
	// path is the filesystem location of the generated module.
	path string
	// mu protects concurrent access to the module file.
	mu sync.Mutex
}

const (
	// Filename is the name of the generated module inside the package directory.
	Filename = "version.py"

	// GeneratedFileMode is the permission for generated source files.
	GeneratedFileMode os.FileMode = 0o644
)

// ErrNotFound is returned when no generated module exists yet.
var ErrNotFound = errors.New("version module not found")

// ModulePath returns the location of the generated module for a package.
// Dotted module names map to nested directories below the source dir.
func ModulePath(sourceDir, moduleName string) string {
	parts := append([]string{sourceDir}, strings.Split(moduleName, ".")...)
	parts = append(parts, Filename)

	return filepath.Join(parts...)
}

// NewFileRepository creates a repository for the generated module at path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Load reads the previously frozen record from disk.
func (r *FileRepository) Load(_ context.Context) (*release.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read version module: %w", err)
	}

	rec, err := parse(string(contents))
	if err != nil {
		return nil, fmt.Errorf("decode version module: %w", err)
	}

	return rec, nil
}

// Save overwrites the generated module with the provided source text.
func (r *FileRepository) Save(_ context.Context, contents string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.WriteFile(r.path, []byte(contents), GeneratedFileMode); err != nil {
		return fmt.Errorf("write version module: %w", err)
	}

	return nil
}

// parse recovers a release.Record from generated module source.
// Development modules store the frozen values in _last_generated_version and
// _last_githash (the plain version/githash names are recomputed at import
// time); static modules use version/githash directly.
func parse(contents string) (*release.Record, error) {
	var (
		rec        release.Record
		gotVersion bool
		gotHash    bool
	)

	for _, line := range strings.Split(contents, "\n") {
		switch {
		case strings.HasPrefix(line, "_packagename = "):
			if v, ok := parseStringLiteral(line); ok {
				rec.Package = v
			}
		case strings.HasPrefix(line, "_last_generated_version = "):
			if v, ok := parseStringLiteral(line); ok {
				rec.Version, gotVersion = v, true
			}
		case strings.HasPrefix(line, "version = ") && !gotVersion:
			if v, ok := parseStringLiteral(line); ok {
				rec.Version, gotVersion = v, true
			}
		case strings.HasPrefix(line, "_last_githash = "):
			if v, ok := parseStringLiteral(line); ok {
				rec.GitHash, gotHash = v, true
			}
		case strings.HasPrefix(line, "githash = ") && !gotHash:
			if v, ok := parseStringLiteral(line); ok {
				rec.GitHash, gotHash = v, true
			}
		case strings.HasPrefix(line, "release = "):
			rec.Release = strings.HasSuffix(line, "True")
		case strings.HasPrefix(line, "debug = "):
			rec.Debug = strings.HasSuffix(line, "True")
		}
	}

	if !gotVersion {
		return nil, errors.New("no frozen version assignment")
	}

	return &rec, nil
}

// parseStringLiteral extracts the double-quoted value of a `name = "..."` line.
func parseStringLiteral(line string) (string, bool) {
	_, literal, found := strings.Cut(line, " = ")
	if !found {
		return "", false
	}

	value, err := strconv.Unquote(strings.TrimSpace(literal))
	if err != nil {
		return "", false
	}

	return value, true
}
