package storage

import (
	"fmt"
	"strings"
	"time"
)

// GenerateExportFolderPath generates a consistent folder path for exports
// Format: YYYY/MM/DD/ChartExport-YYYY-MM-DD-HH-MM-SS
func GenerateExportFolderPath(timestamp time.Time) string {
	return fmt.Sprintf("%04d/%02d/%02d/ChartExport-%04d-%02d-%02d-%02d-%02d-%02d",
		timestamp.Year(), timestamp.Month(), timestamp.Day(),
		timestamp.Year(), timestamp.Month(), timestamp.Day(),
		timestamp.Hour(), timestamp.Minute(), timestamp.Second())
}

// GetContentType determines the MIME content type based on file extension
func GetContentType(filename string) string {
	if strings.HasSuffix(filename, ".json") {
		return "application/json"
	} else if strings.HasSuffix(filename, ".txt") {
		return "text/plain"
	} else if strings.HasSuffix(filename, ".html") {
		return "text/html"
	} else if strings.HasSuffix(filename, ".css") {
		return "text/css"
	} else if strings.HasSuffix(filename, ".md") {
		return "text/markdown"
	} else if strings.HasSuffix(filename, ".png") {
		return "image/png"
	} else if strings.HasSuffix(filename, ".jpg") || strings.HasSuffix(filename, ".jpeg") {
		return "image/jpeg"
	} else if strings.HasSuffix(filename, ".gif") {
		return "image/gif"
	} else if strings.HasSuffix(filename, ".webm") {
		return "video/webm"
	} else if strings.HasSuffix(filename, ".mkv") {
		return "video/x-matroska"
	} else if strings.HasSuffix(filename, ".csv") {
		return "text/csv"
	} else if strings.HasSuffix(filename, ".xlsx") {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	} else {
		return "application/octet-stream"
	}
}
