package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// artifactExtensions are the export formats the store recognizes when listing
var artifactExtensions = []string{".webm", ".mkv", ".gif", ".html", ".png"}

// LocalArtifactStore handles local file system storage operations
type LocalArtifactStore struct {
	baseDir string
}

// NewLocalArtifactStore creates a new local artifact store
func NewLocalArtifactStore(baseDir string) (*LocalArtifactStore, error) {
	// Ensure base directory exists
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory %s: %w", baseDir, err)
	}

	return &LocalArtifactStore{
		baseDir: baseDir,
	}, nil
}

// Close is a no-op for local storage (implements same interface as GCSArtifactStore)
func (l *LocalArtifactStore) Close() error {
	return nil
}

// StoreArtifact stores an export artifact locally under the dated export folder
func (l *LocalArtifactStore) StoreArtifact(ctx context.Context, data []byte, filename string, timestamp time.Time) error {
	filePath := filepath.Join(l.baseDir, GenerateExportFolderPath(timestamp), filename)

	// Ensure directory exists
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filePath, err)
	}

	return nil
}

// GetArtifact retrieves an artifact from local storage by relative path
func (l *LocalArtifactStore) GetArtifact(ctx context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(l.baseDir, path))
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return data, nil
}

// ArtifactExists checks whether an artifact exists at the relative path
func (l *LocalArtifactStore) ArtifactExists(ctx context.Context, path string) (bool, error) {
	_, err := os.Stat(filepath.Join(l.baseDir, path))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat %s: %w", path, err)
}

// ListArtifacts lists stored artifacts sorted by folder timestamp (newest first)
func (l *LocalArtifactStore) ListArtifacts(ctx context.Context, limit int) ([]string, error) {
	var paths []string

	err := filepath.Walk(l.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip errors and continue
		}
		if info.IsDir() {
			return nil
		}
		for _, ext := range artifactExtensions {
			if filepath.Ext(info.Name()) == ext {
				relPath, _ := filepath.Rel(l.baseDir, path)
				paths = append(paths, relPath)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk artifacts directory: %w", err)
	}

	// Sort alphabetically, then reverse for newest first; the dated folder
	// scheme makes lexical order chronological.
	sort.Strings(paths)
	for i, j := 0, len(paths)-1; i < j; i, j = i+1, j-1 {
		paths[i], paths[j] = paths[j], paths[i]
	}

	if limit > 0 && limit < len(paths) {
		paths = paths[:limit]
	}

	return paths, nil
}
