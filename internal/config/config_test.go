package config

import (
	"context"
	"os"
	"testing"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		envVars     map[string]string
		expectError bool
		validate    func(*Config) error
	}{
		{
			name:        "defaults",
			envVars:     map[string]string{},
			expectError: false,
			validate: func(cfg *Config) error {
				if cfg.Port != "8050" {
					t.Errorf("Expected default Port to be '8050', got '%s'", cfg.Port)
				}
				if cfg.LocalArtifactsDir != "./artifacts" {
					t.Errorf("Expected default LocalArtifactsDir to be './artifacts', got '%s'", cfg.LocalArtifactsDir)
				}
				if cfg.CaptureServiceURL != "" {
					t.Errorf("Expected CaptureServiceURL to default empty, got '%s'", cfg.CaptureServiceURL)
				}
				if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "*" {
					t.Errorf("Expected default AllowedOrigins to be ['*'], got %v", cfg.AllowedOrigins)
				}
				if cfg.Environment != "development" {
					t.Errorf("Expected default Environment to be 'development', got '%s'", cfg.Environment)
				}
				if cfg.LogLevel != "info" {
					t.Errorf("Expected default LogLevel to be 'info', got '%s'", cfg.LogLevel)
				}
				return nil
			},
		},
		{
			name: "custom configuration values",
			envVars: map[string]string{
				"PORT":                "9000",
				"GCP_PROJECT_ID":      "test-project",
				"GCS_BUCKET":          "test-bucket",
				"LOCAL_ARTIFACTS_DIR": "/custom/artifacts",
				"CAPTURE_SERVICE_URL": "http://capture.internal:8080",
				"ALLOWED_ORIGINS":     "http://localhost:3000,https://viewer.example.com",
				"ENVIRONMENT":         "production",
				"LOG_LEVEL":           "debug",
			},
			expectError: false,
			validate: func(cfg *Config) error {
				if cfg.Port != "9000" {
					t.Errorf("Expected Port to be '9000', got '%s'", cfg.Port)
				}
				if cfg.GCPProjectID != "test-project" {
					t.Errorf("Expected GCPProjectID to be 'test-project', got '%s'", cfg.GCPProjectID)
				}
				if cfg.GCSBucket != "test-bucket" {
					t.Errorf("Expected GCSBucket to be 'test-bucket', got '%s'", cfg.GCSBucket)
				}
				if cfg.LocalArtifactsDir != "/custom/artifacts" {
					t.Errorf("Expected LocalArtifactsDir to be '/custom/artifacts', got '%s'", cfg.LocalArtifactsDir)
				}
				if cfg.CaptureServiceURL != "http://capture.internal:8080" {
					t.Errorf("Expected custom CaptureServiceURL, got '%s'", cfg.CaptureServiceURL)
				}
				if len(cfg.AllowedOrigins) != 2 {
					t.Errorf("Expected 2 allowed origins, got %v", cfg.AllowedOrigins)
				}
				if cfg.Environment != "production" {
					t.Errorf("Expected Environment to be 'production', got '%s'", cfg.Environment)
				}
				if cfg.LogLevel != "debug" {
					t.Errorf("Expected LogLevel to be 'debug', got '%s'", cfg.LogLevel)
				}
				return nil
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Clear environment
			clearEnv()

			// Set test environment variables
			for key, value := range tt.envVars {
				os.Setenv(key, value)
			}

			// Load configuration
			cfg, err := Load(context.Background())

			// Check error expectation
			if tt.expectError && err == nil {
				t.Errorf("Expected error but got none")
				return
			}
			if !tt.expectError && err != nil {
				t.Errorf("Expected no error but got: %v", err)
				return
			}

			// Validate configuration if no error expected
			if !tt.expectError && tt.validate != nil {
				if err := tt.validate(cfg); err != nil {
					t.Errorf("Configuration validation failed: %v", err)
				}
			}

			// Clean up
			clearEnv()
		})
	}
}

func TestLoadWithContext(t *testing.T) {
	// Test with cancelled context
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Should still work as envconfig doesn't use context for cancellation
	cfg, err := Load(ctx)
	if err != nil {
		t.Errorf("Expected no error with cancelled context, got: %v", err)
	}
	if cfg == nil {
		t.Error("Expected config to be loaded even with cancelled context")
	}

	clearEnv()
}

// Helper function to clear relevant environment variables
func clearEnv() {
	envVars := []string{
		"PORT", "GCP_PROJECT_ID", "GCS_BUCKET", "LOCAL_ARTIFACTS_DIR",
		"CAPTURE_SERVICE_URL", "ALLOWED_ORIGINS", "ENVIRONMENT", "LOG_LEVEL",
	}
	for _, env := range envVars {
		os.Unsetenv(env)
	}
}
