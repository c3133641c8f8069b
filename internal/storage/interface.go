package storage

import (
	"context"
	"time"
)

// ArtifactStore defines the interface for export artifact storage operations
type ArtifactStore interface {
	// Close closes the storage client
	Close() error

	// StoreArtifact stores an export artifact under the dated folder for timestamp
	StoreArtifact(ctx context.Context, data []byte, filename string, timestamp time.Time) error

	// GetArtifact retrieves an artifact by its storage path
	GetArtifact(ctx context.Context, path string) ([]byte, error)

	// ListArtifacts lists stored artifact paths, newest first
	ListArtifacts(ctx context.Context, limit int) ([]string, error)

	// ArtifactExists checks if an artifact exists at the specified path
	ArtifactExists(ctx context.Context, path string) (bool, error)
}
