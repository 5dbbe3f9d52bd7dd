package freezer

import (
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/pybuild-tools/version-freezer/internal/domain/release"
)

// moduleTemplate is the outer shell of every generated version module.
// The header slot carries either the static version/githash pair or the
// git-aware block that recomputes them at import time.
const moduleTemplate = `# Autogenerated by version-freezer {{.ToolVersion}} on {{.Timestamp}} UTC
from __future__ import unicode_literals
import datetime

{{.Header}}

major = {{.Major}}
minor = {{.Minor}}
bugfix = {{.Bugfix}}

version_info = (major, minor, bugfix)

release = {{py .Release}}
timestamp = {{reprTime .BuildTime}}
debug = {{py .Debug}}

freezer_version = "{{.ToolVersion}}"
`

// staticHeaderTemplate freezes the version and hash as plain literals.
const staticHeaderTemplate = `version = "{{.Version}}"
githash = "{{.GitHash}}"
`

// gitHeaderTemplate embeds the Python helpers plus the frozen fallbacks.
// As long as the module still lives inside a git checkout, the dev suffix is
// recomputed at import time; outside one, the frozen values are used as is.
const gitHeaderTemplate = `{{.GitHelpers}}

_packagename = "{{.Package}}"
_last_generated_version = "{{.Version}}"
_last_githash = "{{.GitHash}}"

if _get_repo_path(__file__, levels=len(_packagename.split('.'))):
    version = _update_git_devstr(_last_generated_version, path=__file__)
    githash = _get_git_devstr(sha=True, path=__file__) or _last_githash
else:
    version = _last_generated_version
    githash = _last_githash
`

// gitHelpersPy is the Python source embedded into development builds so the
// generated module can query git on its own at import time.
const gitHelpersPy = `import locale
import os
import subprocess
import warnings


def _get_repo_path(pathname, levels=None):
    """Return the git working tree containing pathname, or None."""
    if os.path.isfile(pathname):
        current_dir = os.path.abspath(os.path.dirname(pathname))
    elif os.path.isdir(pathname):
        current_dir = os.path.abspath(pathname)
    else:
        return None

    while levels is None or levels >= 0:
        if os.path.exists(os.path.join(current_dir, '.git')):
            return current_dir

        current_dir, rest = os.path.split(current_dir)
        if not rest:
            return None

        if levels is not None:
            levels -= 1

    return None


def _get_git_devstr(sha=False, path=None):
    """Return the HEAD hash (sha=True) or commit count for the repo at path.

    Returns an empty string whenever git is unavailable or errors out.
    """
    if path is None:
        path = os.getcwd()

    if not os.path.isdir(path):
        path = os.path.abspath(os.path.dirname(path))

    if sha:
        cmd = ['rev-parse', 'HEAD']
    else:
        cmd = ['rev-list', '--count', 'HEAD']

    try:
        p = subprocess.Popen(['git'] + cmd, cwd=path,
                             stdout=subprocess.PIPE, stderr=subprocess.PIPE)
        stdout, stderr = p.communicate()
    except OSError:
        return ''

    if p.returncode != 0:
        return ''

    encoding = locale.getdefaultlocale()[1] or 'utf-8'
    return stdout.decode(encoding).strip()


def _update_git_devstr(version, path=None):
    """Refresh the commit-count suffix of a development version string."""
    try:
        devstr = _get_git_devstr(sha=False, path=path)
        if not devstr:
            return version

        if '.dev' in version:
            version_base = version.split('.dev', 1)[0]
            return version_base + '.dev' + devstr

        return version
    except OSError:
        warnings.warn('Error updating git devstr')
        return version
`

// templates are parsed once; the inputs are trusted constants.
//
//nolint:gochecknoglobals // Parsed templates are immutable after init.
var (
	moduleTmpl = template.Must(template.New("module").Funcs(template.FuncMap{
		"py":       pythonBool,
		"reprTime": pythonDatetimeRepr,
	}).Parse(moduleTemplate))
	staticHeaderTmpl = template.Must(template.New("static-header").Parse(staticHeaderTemplate))
	gitHeaderTmpl    = template.Must(template.New("git-header").Parse(gitHeaderTemplate))
)

// moduleParams feeds moduleTemplate.
type moduleParams struct {
	// ToolVersion is the freezer's own version stamped into the module.
	ToolVersion string
	// Timestamp is the human-readable UTC generation time for the banner.
	Timestamp string
	// BuildTime is the generation time rendered as a datetime literal.
	BuildTime time.Time
	// Header is the rendered static or git header block.
	Header string
	// Major, Minor and Bugfix are the numeric version components.
	Major  int
	Minor  int
	Bugfix int
	// Release and Debug mirror the record flags.
	Release bool
	Debug   bool
}

// headerParams feeds both header templates.
type headerParams struct {
	GitHelpers string
	Package    string
	Version    string
	GitHash    string
}

// renderModule produces the full source text of a generated version module.
// With usesGit set, the header embeds Python git helpers so development
// installs refresh their dev suffix at import time; otherwise the version and
// hash are frozen as static literals.
func renderModule(rec *release.Record, toolVersion string, buildTime time.Time, usesGit bool) (string, error) {
	header, err := renderHeader(rec, usesGit)
	if err != nil {
		return "", err
	}

	major, minor, bugfix := release.Split(rec.Version)

	var builder strings.Builder

	err = moduleTmpl.Execute(&builder, &moduleParams{
		ToolVersion: toolVersion,
		Timestamp:   buildTime.Format(time.DateTime),
		BuildTime:   buildTime,
		Header:      header,
		Major:       major,
		Minor:       minor,
		Bugfix:      bugfix,
		Release:     rec.Release,
		Debug:       rec.Debug,
	})
	if err != nil {
		return "", fmt.Errorf("render version module: %w", err)
	}

	return builder.String(), nil
}

// renderHeader renders the slot between the imports and the numeric fields.
func renderHeader(rec *release.Record, usesGit bool) (string, error) {
	params := &headerParams{
		Package: rec.Package,
		Version: rec.Version,
		GitHash: rec.GitHash,
	}

	tmpl := staticHeaderTmpl
	if usesGit {
		tmpl = gitHeaderTmpl
		params.GitHelpers = strings.TrimRight(gitHelpersPy, "\n")
	}

	var builder strings.Builder
	if err := tmpl.Execute(&builder, params); err != nil {
		return "", fmt.Errorf("render module header: %w", err)
	}

	return strings.TrimRight(builder.String(), "\n"), nil
}

// pythonBool renders a bool as a Python literal.
func pythonBool(b bool) string {
	if b {
		return "True"
	}

	return "False"
}

// pythonDatetimeRepr renders a time as a Python datetime constructor call,
// matching what repr() produces for a naive UTC datetime.
func pythonDatetimeRepr(t time.Time) string {
	t = t.UTC()

	return fmt.Sprintf("datetime.datetime(%d, %d, %d, %d, %d, %d)",
		t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second())
}
