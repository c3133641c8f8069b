package storage

import (
	"context"
	"fmt"

	"github.com/aeronauty/DataVisualiser/internal/config"
)

// DeploymentMode represents the deployment environment
type DeploymentMode string

const (
	DeploymentLocal DeploymentMode = "local"
	DeploymentGCS   DeploymentMode = "gcs"
)

// NewArtifactStore creates an artifact store based on deployment mode and configuration
func NewArtifactStore(ctx context.Context, deploymentMode DeploymentMode, cfg *config.Config) (ArtifactStore, error) {
	switch deploymentMode {
	case DeploymentLocal:
		// Determine artifacts directory for local storage
		artifactsDir := cfg.LocalArtifactsDir
		if artifactsDir == "" {
			artifactsDir = "artifacts" // Default fallback
		}

		localStore, err := NewLocalArtifactStore(artifactsDir)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local artifact store: %w", err)
		}
		return localStore, nil

	case DeploymentGCS:
		gcsStore, err := NewGCSArtifactStore(ctx, cfg.GCSBucket)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize GCS artifact store: %w", err)
		}
		return gcsStore, nil

	default:
		return nil, fmt.Errorf("unsupported deployment mode: %s", deploymentMode)
	}
}

// ModeForConfig picks the deployment mode: GCS when a bucket is configured,
// local otherwise.
func ModeForConfig(cfg *config.Config) DeploymentMode {
	if cfg.GCSBucket != "" {
		return DeploymentGCS
	}
	return DeploymentLocal
}
