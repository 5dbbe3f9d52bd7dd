package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/pybuild-tools/version-freezer/internal/logger"
)

// Client queries git repository state by shelling out to the git binary.
// Every query degrades to an empty string when git is missing, the directory
// is not a repository, or the command fails; callers are expected to fall
// back to static values.
type Client struct {
	// timeout bounds each git subprocess invocation.
	timeout time.Duration
}

// defaultCommandTimeout is the timeout for executing git commands.
const defaultCommandTimeout = 10 * time.Second

// NewClient returns a Client with the default command timeout.
func NewClient() *Client {
	return &Client{
		timeout: defaultCommandTimeout,
	}
}

// DevSuffix returns the development suffix for the repository containing dir:
// the number of commits reachable from HEAD, as a decimal string.
// An empty string means the suffix could not be determined.
func (c *Client) DevSuffix(ctx context.Context, dir string) string {
	return c.run(ctx, dir, "rev-list", "--count", "HEAD")
}

// CommitHash returns the full SHA of HEAD for the repository containing dir,
// or an empty string when it cannot be determined.
func (c *Client) CommitHash(ctx context.Context, dir string) string {
	return c.run(ctx, dir, "rev-parse", "HEAD")
}

// run executes a git subcommand in dir and returns its trimmed stdout.
// Failures are logged at debug level only; the freezer treats a silent VCS as
// a normal condition, not an error. Directories outside a git checkout are
// answered without spawning a subprocess at all.
func (c *Client) run(ctx context.Context, dir string, args ...string) string {
	if RepoRoot(dir, -1) == "" {
		logger.Debugf(ctx, "%s does not appear to be inside a git checkout", dir)
		return ""
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	output, err := cmd.Output()
	if err != nil {
		logger.Debugf(ctx, "git %s failed in %s: %v", strings.Join(args, " "), dir, err)
		return ""
	}

	return strings.TrimSpace(string(output))
}

// RepoRoot walks up from path looking for a .git entry and returns the
// directory containing it. The search inspects at most levels parent
// directories above the starting one; negative levels removes the bound,
// matching git's own upward discovery. An empty string means path does not
// appear to live inside a git checkout.
func RepoRoot(path string, levels int) string {
	info, err := os.Stat(path)
	if err != nil {
		return ""
	}

	dir := path
	if !info.IsDir() {
		dir = filepath.Dir(path)
	}

	dir, err = filepath.Abs(dir)
	if err != nil {
		return ""
	}

	for i := 0; levels < 0 || i <= levels; i++ {
		if _, err = os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}

		dir = parent
	}

	return ""
}
