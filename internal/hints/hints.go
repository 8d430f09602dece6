// Package hints appends actionable suggestions to CLI error messages.
// Every hint is rendered as "\n  hint: <text>".
package hints

import (
	"os"
	"strings"

	"github.com/hatlem/getanswers-sub001/internal/fileutil"
)

// IsInContainer reports whether we run inside Docker. Overridable in tests.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ciVars are set by the CI providers we know about.
var ciVars = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}

// InCI reports whether a known CI environment variable is set.
func InCI() bool {
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			return true
		}
	}
	return false
}

// ForBrowserConnect suggests the rod environment variables that usually fix
// a failed Chromium launch.
func ForBrowserConnect() string {
	var hs []string
	if (InCI() || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hs = append(hs, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hs = append(hs, "set ROD_BROWSER_BIN to use an installed Chrome")
	}
	hs = append(hs, "run 'leadmagnet doctor'")
	return format(strings.Join(hs, "; "))
}

// ForTimeout suggests raising the render timeout.
func ForTimeout() string {
	return format("long documents need more time, use --timeout 2m")
}

// ForConfigNotFound points at the user config location among searched paths.
func ForConfigNotFound(searched []string) string {
	h := "use --config /path/to/leadmagnet.yaml"
	for _, p := range searched {
		if strings.Contains(p, "leadmagnet") && strings.Contains(p, string(os.PathSeparator)) {
			h += " or create " + p
			break
		}
	}
	return format(h)
}

// ForContentSource explains how markdown file paths are resolved.
func ForContentSource() string {
	return format("markdown paths are resolved from the working directory")
}

// ForUnknownBrand lists the registered brand keys.
func ForUnknownBrand(keys []string) string {
	if len(keys) == 0 {
		return ""
	}
	return format("known brands: " + strings.Join(keys, ", "))
}

// ForOutputDirectory suggests checking output permissions.
func ForOutputDirectory() string {
	return format("check the output directory's parent exists and is writable")
}

func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}
