package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/aeronauty/DataVisualiser/internal/chartcfg"
	"github.com/aeronauty/DataVisualiser/internal/config"
	"github.com/aeronauty/DataVisualiser/internal/dataset"
	"github.com/aeronauty/DataVisualiser/internal/models"
)

const maxUploadBytes = 32 << 20 // 32 MiB

// HandleHealth provides health check endpoint
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	health := map[string]interface{}{
		"status":    "healthy",
		"version":   config.GetVersion(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks": map[string]string{
			"dataset": "ok",
			"storage": "ok",
		},
	}

	writeJSON(w, http.StatusOK, health)
}

// HandleTable returns the loaded dataset as rows for the table view
func (s *Server) HandleTable(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 0 {
			http.Error(w, "Invalid limit parameter", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":    s.Dataset.Rows(limit),
		"columns": s.Dataset.Columns(),
		"total":   s.Dataset.Len(),
	})
}

// HandleColumns returns column metadata for the configuration panel
func (s *Server) HandleColumns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"columns": s.Dataset.Columns(),
		"config":  s.ChartConfig(),
	})
}

// HandleChartData merges a partial configuration update into the current
// snapshot and returns the chart points for the result.
func (s *Server) HandleChartData(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var upd chartcfg.Update
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	cfg := s.applyUpdate(upd)
	if err := chartcfg.Validate(cfg); err != nil {
		http.Error(w, "Invalid configuration: "+err.Error(), http.StatusBadRequest)
		return
	}

	points, err := s.Dataset.ChartData(cfg)
	if err != nil {
		http.Error(w, "Failed to build chart data: "+err.Error(), http.StatusBadRequest)
		return
	}

	// A configuration change invalidates cached animation frames
	s.Driver.InvalidateFrames()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"points": points,
		"config": cfg,
		"count":  len(points),
	})
}

// HandleUpload replaces the dataset: a JSON body is taken as structured rows,
// anything else as a multipart file dispatched on its extension.
func (s *Server) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		s.loadJSONRows(w, r)
		return
	}

	file, header, err := s.uploadedFile(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(header.Filename)) {
	case ".csv":
		s.loadCSV(w, file)
	case ".xlsx":
		s.loadXLSX(w, file)
	default:
		http.Error(w, fmt.Sprintf("Unsupported file type %q, expected .csv or .xlsx", filepath.Ext(header.Filename)), http.StatusBadRequest)
	}
}

// HandleUploadCSV accepts a CSV dataset upload
func (s *Server) HandleUploadCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	file, _, err := s.uploadedFile(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	s.loadCSV(w, file)
}

// HandleUploadXLSX accepts an Excel dataset upload
func (s *Server) HandleUploadXLSX(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	file, _, err := s.uploadedFile(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	s.loadXLSX(w, file)
}

// HandleSampleDatasets lists the built-in sample datasets
func (s *Server) HandleSampleDatasets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"datasets": dataset.SampleDatasets(),
	})
}

// HandleLoadSample replaces the dataset with a named sample
func (s *Server) HandleLoadSample(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/data/load-sample/")
	if name == "" {
		http.Error(w, "Sample name required", http.StatusBadRequest)
		return
	}

	rows, err := s.Dataset.LoadSample(name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	s.resetChartConfig()
	log.Printf("Loaded sample dataset %q (%d rows)", name, rows)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"dataset": name,
		"rows":    rows,
		"columns": s.Dataset.Columns(),
		"config":  s.ChartConfig(),
	})
}

// HandleFilter returns rows matching equality and range predicates
func (s *Server) HandleFilter(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Equals map[string]any                 `json:"equals"`
		Ranges map[string]dataset.RangeFilter `json:"ranges"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	rows := s.Dataset.Filter(req.Equals, req.Ranges)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":  rows,
		"count": len(rows),
	})
}

// uploadedFile extracts the multipart upload named "file"
func (s *Server) uploadedFile(r *http.Request) (io.ReadCloser, *multipartHeader, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, nil, fmt.Errorf("failed to parse upload: %w", err)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, nil, fmt.Errorf("missing upload field \"file\": %w", err)
	}
	return file, &multipartHeader{Filename: header.Filename, Size: header.Size}, nil
}

type multipartHeader struct {
	Filename string
	Size     int64
}

// loadJSONRows replaces the dataset with a posted row list
func (s *Server) loadJSONRows(w http.ResponseWriter, r *http.Request) {
	var rows []map[string]any
	if err := json.NewDecoder(io.LimitReader(r.Body, maxUploadBytes)).Decode(&rows); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(rows) == 0 {
		http.Error(w, "No rows provided", http.StatusBadRequest)
		return
	}
	s.Dataset.Replace(rows)
	s.finishLoad(w, len(rows), len(s.Dataset.Columns()))
}

func (s *Server) loadCSV(w http.ResponseWriter, file io.Reader) {
	rows, cols, err := s.Dataset.LoadCSV(file)
	if err != nil {
		http.Error(w, "Failed to load CSV: "+err.Error(), http.StatusBadRequest)
		return
	}
	s.finishLoad(w, rows, cols)
}

func (s *Server) loadXLSX(w http.ResponseWriter, file io.Reader) {
	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		http.Error(w, "Failed to read upload: "+err.Error(), http.StatusBadRequest)
		return
	}
	rows, cols, err := s.Dataset.LoadXLSX(data)
	if err != nil {
		http.Error(w, "Failed to load XLSX: "+err.Error(), http.StatusBadRequest)
		return
	}
	s.finishLoad(w, rows, cols)
}

func (s *Server) finishLoad(w http.ResponseWriter, rows, cols int) {
	s.resetChartConfig()
	log.Printf("Dataset replaced: %d rows, %d columns", rows, cols)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"rows":    rows,
		"cols":    cols,
		"columns": s.Dataset.Columns(),
		"config":  s.ChartConfig(),
	})
}

// resetChartConfig rebuilds the configuration for a freshly loaded dataset
func (s *Server) resetChartConfig() {
	x, y := s.Dataset.DefaultColumns()
	s.cfgMu.Lock()
	s.chartCfg = models.DefaultChartConfig(x, y)
	s.cfgMu.Unlock()
	s.Driver.InvalidateFrames()
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
