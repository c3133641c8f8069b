package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewLocalArtifactStore(t *testing.T) {
	baseDir := filepath.Join(t.TempDir(), "artifacts")

	store, err := NewLocalArtifactStore(baseDir)
	if err != nil {
		t.Fatalf("Failed to create LocalArtifactStore: %v", err)
	}
	defer store.Close()

	// Verify base directory was created
	if _, err := os.Stat(baseDir); os.IsNotExist(err) {
		t.Error("Base directory was not created")
	}
}

func TestLocalArtifactStore_StoreAndGet(t *testing.T) {
	store, err := NewLocalArtifactStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create LocalArtifactStore: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	timestamp := time.Date(2026, 8, 30, 14, 30, 45, 0, time.UTC)

	tests := []struct {
		name     string
		filename string
		data     []byte
	}{
		{
			name:     "video artifact",
			filename: "chart-animation-1756564245000.webm",
			data:     []byte{0x1A, 0x45, 0xDF, 0xA3}, // EBML header
		},
		{
			name:     "gif artifact",
			filename: "chart-animation-1756564245001.gif",
			data:     []byte("GIF89a"),
		},
		{
			name:     "html artifact",
			filename: "chart-animation-1756564245002.html",
			data:     []byte("<!DOCTYPE html>"),
		},
		{
			name:     "empty artifact",
			filename: "empty.png",
			data:     []byte{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := store.StoreArtifact(ctx, tt.data, tt.filename, timestamp); err != nil {
				t.Fatalf("StoreArtifact() error = %v", err)
			}

			path := filepath.Join(GenerateExportFolderPath(timestamp), tt.filename)
			got, err := store.GetArtifact(ctx, path)
			if err != nil {
				t.Fatalf("GetArtifact() error = %v", err)
			}
			if string(got) != string(tt.data) {
				t.Errorf("Artifact content mismatch: expected %q, got %q", tt.data, got)
			}
		})
	}
}

func TestLocalArtifactStore_GetMissing(t *testing.T) {
	store, err := NewLocalArtifactStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create LocalArtifactStore: %v", err)
	}
	defer store.Close()

	if _, err := store.GetArtifact(context.Background(), "nonexistent.webm"); err == nil {
		t.Error("Expected error for missing artifact")
	}
}

func TestLocalArtifactStore_ArtifactExists(t *testing.T) {
	store, err := NewLocalArtifactStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create LocalArtifactStore: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	timestamp := time.Date(2026, 8, 30, 14, 30, 45, 0, time.UTC)

	if err := store.StoreArtifact(ctx, []byte("x"), "exists.gif", timestamp); err != nil {
		t.Fatalf("StoreArtifact() error = %v", err)
	}

	path := filepath.Join(GenerateExportFolderPath(timestamp), "exists.gif")
	exists, err := store.ArtifactExists(ctx, path)
	if err != nil {
		t.Fatalf("ArtifactExists() error = %v", err)
	}
	if !exists {
		t.Error("Stored artifact should exist")
	}

	exists, err = store.ArtifactExists(ctx, "deep/nested/missing.gif")
	if err != nil {
		t.Fatalf("ArtifactExists() error = %v", err)
	}
	if exists {
		t.Error("Missing artifact should not exist")
	}
}

func TestLocalArtifactStore_ListArtifacts(t *testing.T) {
	store, err := NewLocalArtifactStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create LocalArtifactStore: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	// Two exports a day apart plus an unrelated file that must be skipped
	older := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	if err := store.StoreArtifact(ctx, []byte("old"), "chart-animation-1.webm", older); err != nil {
		t.Fatalf("StoreArtifact() error = %v", err)
	}
	if err := store.StoreArtifact(ctx, []byte("new"), "chart-animation-2.gif", newer); err != nil {
		t.Fatalf("StoreArtifact() error = %v", err)
	}
	if err := store.StoreArtifact(ctx, []byte("meta"), "notes.json", newer); err != nil {
		t.Fatalf("StoreArtifact() error = %v", err)
	}

	paths, err := store.ListArtifacts(ctx, 0)
	if err != nil {
		t.Fatalf("ListArtifacts() error = %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("Expected 2 artifacts, got %d: %v", len(paths), paths)
	}
	// Newest first
	if filepath.Base(paths[0]) != "chart-animation-2.gif" {
		t.Errorf("Expected newest artifact first, got %v", paths)
	}

	limited, err := store.ListArtifacts(ctx, 1)
	if err != nil {
		t.Fatalf("ListArtifacts() error = %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("Expected limit to apply, got %d entries", len(limited))
	}
}
