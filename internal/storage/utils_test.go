package storage

import (
	"testing"
	"time"
)

func TestGenerateExportFolderPath(t *testing.T) {
	tests := []struct {
		name      string
		timestamp time.Time
		expected  string
	}{
		{
			name:      "standard date and time",
			timestamp: time.Date(2026, 8, 30, 14, 30, 45, 0, time.UTC),
			expected:  "2026/08/30/ChartExport-2026-08-30-14-30-45",
		},
		{
			name:      "new year date",
			timestamp: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			expected:  "2026/01/01/ChartExport-2026-01-01-00-00-00",
		},
		{
			name:      "single digit month and day",
			timestamp: time.Date(2026, 3, 5, 8, 7, 6, 0, time.UTC),
			expected:  "2026/03/05/ChartExport-2026-03-05-08-07-06",
		},
		{
			name:      "leap year date",
			timestamp: time.Date(2028, 2, 29, 12, 15, 30, 0, time.UTC),
			expected:  "2028/02/29/ChartExport-2028-02-29-12-15-30",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := GenerateExportFolderPath(tt.timestamp)
			if result != tt.expected {
				t.Errorf("GenerateExportFolderPath() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestGenerateExportFolderPathUniqueness(t *testing.T) {
	// Different timestamps must generate different paths
	timestamp1 := time.Date(2026, 8, 30, 14, 30, 45, 0, time.UTC)
	timestamp2 := time.Date(2026, 8, 30, 14, 30, 46, 0, time.UTC) // 1 second later

	path1 := GenerateExportFolderPath(timestamp1)
	path2 := GenerateExportFolderPath(timestamp2)

	if path1 == path2 {
		t.Errorf("Different timestamps should generate different paths: %s == %s", path1, path2)
	}
}

func TestGetContentType(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		expected string
	}{
		{
			name:     "WebM video",
			filename: "chart-animation-1756564245000.webm",
			expected: "video/webm",
		},
		{
			name:     "Matroska video",
			filename: "chart-animation-1756564245000.mkv",
			expected: "video/x-matroska",
		},
		{
			name:     "GIF image",
			filename: "animation.gif",
			expected: "image/gif",
		},
		{
			name:     "HTML file",
			filename: "index.html",
			expected: "text/html",
		},
		{
			name:     "CSV dataset",
			filename: "sales.csv",
			expected: "text/csv",
		},
		{
			name:     "Excel dataset",
			filename: "metrics.xlsx",
			expected: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		},
		{
			name:     "JSON file",
			filename: "data.json",
			expected: "application/json",
		},
		{
			name:     "PNG image",
			filename: "chart.png",
			expected: "image/png",
		},
		{
			name:     "JPEG image",
			filename: "photo.jpeg",
			expected: "image/jpeg",
		},
		{
			name:     "Markdown file",
			filename: "README.md",
			expected: "text/markdown",
		},
		{
			name:     "Unknown file type",
			filename: "data.xyz",
			expected: "application/octet-stream",
		},
		{
			name:     "File without extension",
			filename: "Dockerfile",
			expected: "application/octet-stream",
		},
		{
			name:     "Empty filename",
			filename: "",
			expected: "application/octet-stream",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := GetContentType(tt.filename)
			if result != tt.expected {
				t.Errorf("GetContentType(%s) = %v, want %v", tt.filename, result, tt.expected)
			}
		})
	}
}

func TestGetContentTypeWithPaths(t *testing.T) {
	// The function works with full paths, not just filenames
	tests := []struct {
		name     string
		filepath string
		expected string
	}{
		{
			name:     "nested video artifact",
			filepath: "2026/08/30/ChartExport-2026-08-30-14-30-45/chart-animation-1.webm",
			expected: "video/webm",
		},
		{
			name:     "nested HTML file",
			filepath: "2026/08/30/ChartExport-2026-08-30-14-30-45/index.html",
			expected: "text/html",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := GetContentType(tt.filepath)
			if result != tt.expected {
				t.Errorf("GetContentType(%s) = %v, want %v", tt.filepath, result, tt.expected)
			}
		})
	}
}
