package config

import (
	"os"
	"os/exec"
	"strconv"
	"strings"
)

const fallbackVersion = "0.1.0"

// GetVersion returns the service version: the APP_VERSION environment
// variable when set by CI, otherwise the VERSION file plus the git commit
// count for local builds.
func GetVersion() string {
	if envVersion := os.Getenv("APP_VERSION"); envVersion != "" {
		return envVersion
	}

	base := baseVersion()
	if count := gitCommitCount(); count > 0 {
		return base + "." + strconv.Itoa(count)
	}
	return base
}

// baseVersion reads the VERSION file from the module root
func baseVersion() string {
	for _, path := range []string{"VERSION", "../VERSION", "../../VERSION"} {
		if content, err := os.ReadFile(path); err == nil {
			return strings.TrimSpace(string(content))
		}
	}
	return fallbackVersion
}

// gitCommitCount returns the repository commit count, or 0 outside a repo
func gitCommitCount() int {
	output, err := exec.Command("git", "rev-list", "--all", "--count", "HEAD").Output()
	if err != nil {
		return 0
	}
	count, err := strconv.Atoi(strings.TrimSpace(string(output)))
	if err != nil {
		return 0
	}
	return count
}
