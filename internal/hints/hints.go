// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-marky/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect returns hints for browser connection errors.
// Detects CI/Docker environment and suggests relevant environment variables.
func ForBrowserConnect() string {
	var hints []string

	// Detect CI environment
	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	// Suggest ROD_NO_SANDBOX for container/CI environments
	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}

	// Suggest ROD_BROWSER_BIN if not set
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}

	return formatHints(hints)
}

// ForTimeout returns a hint about raising the PDF timeout.
func ForTimeout() string {
	return format("for large documents, raise pdf.timeout in the config file")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config with a path, or creating one of the searched files in
// configDir.
func ForConfigNotFound(searchedPaths []string, configDir string) string {
	hint := "use --config /path/to/file.yaml"

	if configDir != "" {
		for _, p := range searchedPaths {
			if strings.HasPrefix(p, configDir) {
				hint += " or create " + p
				break
			}
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output write errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForThemeNotFound returns hints for unknown theme names.
// A close match is preferred over the full list.
func ForThemeNotFound(suggestion string, available []string) string {
	if suggestion != "" {
		return format("did you mean " + suggestion + "?")
	}
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForPortInUse returns hints for preview servers that cannot bind.
func ForPortInUse() string {
	return format("pick another address with --host and --port, or --port 0 for any free port")
}

// ForImageInclusion returns hints for images that could not be embedded.
func ForImageInclusion() string {
	return format("fix the reference, or rerun with --images none")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
