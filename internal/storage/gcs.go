package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"sort"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// GCSArtifactStore handles Google Cloud Storage operations
type GCSArtifactStore struct {
	client *storage.Client
	bucket string
}

// NewGCSArtifactStore creates a new GCS artifact store
func NewGCSArtifactStore(ctx context.Context, bucketName string) (*GCSArtifactStore, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	return &GCSArtifactStore{
		client: client,
		bucket: bucketName,
	}, nil
}

// Close closes the GCS client
func (g *GCSArtifactStore) Close() error {
	return g.client.Close()
}

// StoreArtifact stores an export artifact in GCS under the dated export folder
func (g *GCSArtifactStore) StoreArtifact(ctx context.Context, data []byte, filename string, timestamp time.Time) error {
	objectPath := GenerateExportFolderPath(timestamp) + "/" + filename

	log.Printf("Storing artifact to GCS: gs://%s/%s", g.bucket, objectPath)

	bucket := g.client.Bucket(g.bucket)
	obj := bucket.Object(objectPath)

	writer := obj.NewWriter(ctx)

	// Set content type based on file extension
	writer.ContentType = GetContentType(filename)

	writer.CacheControl = "public, max-age=3600" // Cache for 1 hour

	writer.Metadata = map[string]string{
		"generated-at": timestamp.Format(time.RFC3339),
		"filename":     filename,
	}

	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write artifact to GCS: %w", err)
	}

	// Close writer to finalize upload
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize GCS artifact upload: %w", err)
	}

	log.Printf("Artifact successfully stored: %s", filename)
	return nil
}

// GetArtifact retrieves an artifact from GCS
func (g *GCSArtifactStore) GetArtifact(ctx context.Context, path string) ([]byte, error) {
	bucket := g.client.Bucket(g.bucket)
	obj := bucket.Object(path)

	reader, err := obj.NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create reader for artifact %s: %w", path, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact %s: %w", path, err)
	}

	return data, nil
}

// ArtifactExists checks whether an object exists at the path
func (g *GCSArtifactStore) ArtifactExists(ctx context.Context, path string) (bool, error) {
	_, err := g.client.Bucket(g.bucket).Object(path).Attrs(ctx)
	if err == storage.ErrObjectNotExist {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat artifact %s: %w", path, err)
	}
	return true, nil
}

// ListArtifacts lists stored artifacts from GCS, newest first
func (g *GCSArtifactStore) ListArtifacts(ctx context.Context, limit int) ([]string, error) {
	bucket := g.client.Bucket(g.bucket)

	it := bucket.Objects(ctx, &storage.Query{})

	var paths []string

	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		paths = append(paths, attrs.Name)
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
