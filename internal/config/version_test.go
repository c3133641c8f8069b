package config

import (
	"os"
	"strings"
	"testing"
)

func TestGetVersionFromEnv(t *testing.T) {
	t.Setenv("APP_VERSION", "1.2.3")

	if got := GetVersion(); got != "1.2.3" {
		t.Errorf("Expected version 1.2.3, got %q", got)
	}

	t.Setenv("APP_VERSION", "2.0.0-beta.1")
	if got := GetVersion(); got != "2.0.0-beta.1" {
		t.Errorf("Expected version 2.0.0-beta.1, got %q", got)
	}
}

func TestGetVersionWithoutEnv(t *testing.T) {
	os.Unsetenv("APP_VERSION")

	version := GetVersion()
	if version == "" {
		t.Fatal("Version should not be empty")
	}
	if !strings.Contains(version, ".") {
		t.Errorf("Expected semantic-style version, got %q", version)
	}
	if version[0] < '0' || version[0] > '9' {
		t.Errorf("Expected version to start with a digit, got %q", version)
	}
}

func TestBaseVersionFallback(t *testing.T) {
	// In a directory with no VERSION file the fallback applies
	tempDir := t.TempDir()
	originalDir, _ := os.Getwd()
	defer os.Chdir(originalDir)
	os.Chdir(tempDir)

	if got := baseVersion(); got != fallbackVersion {
		t.Errorf("Expected fallback version %q, got %q", fallbackVersion, got)
	}
}

func TestBaseVersionFromFile(t *testing.T) {
	tempDir := t.TempDir()
	originalDir, _ := os.Getwd()
	defer os.Chdir(originalDir)
	os.Chdir(tempDir)

	if err := os.WriteFile("VERSION", []byte("1.5.0\n"), 0644); err != nil {
		t.Fatalf("Failed to write VERSION file: %v", err)
	}

	if got := baseVersion(); got != "1.5.0" {
		t.Errorf("Expected version 1.5.0, got %q", got)
	}
}

func TestGitCommitCount(t *testing.T) {
	if count := gitCommitCount(); count < 0 {
		t.Errorf("Expected non-negative commit count, got %d", count)
	}
}
