package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// Config holds all configuration for the dataset visualiser service
type Config struct {
	// Server configuration
	Port string `env:"PORT,default=8050"`

	// GCP configuration (optional for local deployments)
	GCPProjectID string `env:"GCP_PROJECT_ID"`
	GCSBucket    string `env:"GCS_BUCKET"`

	// Local storage configuration
	LocalArtifactsDir string `env:"LOCAL_ARTIFACTS_DIR,default=./artifacts"`

	// Backend-assisted capture service (optional; empty disables the feature)
	CaptureServiceURL string `env:"CAPTURE_SERVICE_URL"`

	// CORS origins allowed to call the API, comma separated
	AllowedOrigins []string `env:"ALLOWED_ORIGINS,default=*"`

	// Service configuration
	Environment string `env:"ENVIRONMENT,default=development"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`
}

// Load loads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	return &cfg, nil
}
