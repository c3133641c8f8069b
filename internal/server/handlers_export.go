package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/aeronauty/DataVisualiser/internal/backendcap"
	"github.com/aeronauty/DataVisualiser/internal/capture"
	"github.com/aeronauty/DataVisualiser/internal/chartcfg"
	"github.com/aeronauty/DataVisualiser/internal/render"
	"github.com/aeronauty/DataVisualiser/internal/storage"
)

var wsUpgrader = websocket.Upgrader{
	// CORS is enforced by the surrounding middleware; the upgrader only
	// needs to not re-reject what that already allowed.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleRenderChart renders the current configuration as a static PNG
func (s *Server) HandleRenderChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	cfg := s.ChartConfig()
	points, err := s.Dataset.ChartData(cfg)
	if err != nil {
		http.Error(w, "Failed to build chart data: "+err.Error(), http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	if err := render.StaticChart(&buf, points, cfg, 900, 600); err != nil {
		log.Printf("Chart render failed: %v", err)
		http.Error(w, "Chart render failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(buf.Bytes())
}

// HandleExportAnimation runs the capture pipeline synchronously and stores
// the resulting artifact.
func (s *Server) HandleExportAnimation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Format string `json:"format"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	format, err := parseFormat(req.Format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cfg := s.ChartConfig()
	artifact, err := s.Pipeline.Export(r.Context(), cfg, format, capture.NopSink{})
	if err != nil {
		switch {
		case errors.Is(err, capture.ErrNotEligible):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, capture.ErrExportInProgress):
			writeJSON(w, http.StatusConflict, map[string]interface{}{
				"error":  "Export already in progress",
				"status": "conflict",
			})
		case artifact != nil:
			// Degraded result: the video exists even though the requested
			// conversion failed.
			s.persistArtifact(r.Context(), artifact)
			s.sessions.StoreArtifact(artifact)
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"filename":  artifact.Filename,
				"mime_type": artifact.MimeType,
				"size":      len(artifact.Data),
				"note":      artifact.Note,
			})
		default:
			log.Printf("Animation export failed: %v", err)
			http.Error(w, "Export failed: "+err.Error(), http.StatusInternalServerError)
		}
		return
	}

	s.persistArtifact(r.Context(), artifact)
	s.sessions.StoreArtifact(artifact)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"filename":  artifact.Filename,
		"mime_type": artifact.MimeType,
		"size":      len(artifact.Data),
	})
}

// HandleBackendAnimation delegates the recording to the configured capture
// service: its declarative plan is rendered step by step against the current
// dataset and the assembled artifact is stored like any other export.
func (s *Server) HandleBackendAnimation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if s.CaptureClient == nil {
		http.Error(w, "Backend capture service is not configured", http.StatusServiceUnavailable)
		return
	}

	cfg := s.ChartConfig()
	if failures := chartcfg.EligibilityFailures(cfg); len(failures) > 0 {
		http.Error(w, fmt.Sprintf("Export not eligible: %v", failures), http.StatusBadRequest)
		return
	}

	renderer := func(xColumn, yColumn string) ([]byte, error) {
		frameCfg := cfg
		frameCfg.XColumn = xColumn
		frameCfg.YColumn = yColumn
		points, err := s.Dataset.ChartData(frameCfg)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := render.StaticChart(&buf, points, frameCfg, 900, 600); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	result, data, err := s.CaptureClient.Capture(r.Context(), cfg, renderer)
	if err != nil {
		if errors.Is(err, backendcap.ErrCaptureTimeout) {
			http.Error(w, err.Error(), http.StatusGatewayTimeout)
			return
		}
		log.Printf("Backend capture failed: %v", err)
		http.Error(w, "Backend capture failed: "+err.Error(), http.StatusBadGateway)
		return
	}

	artifact := &capture.Artifact{
		Filename: result.Filename,
		MimeType: storage.GetContentType(result.Filename),
		Format:   capture.Format(strings.TrimPrefix(filepath.Ext(result.Filename), ".")),
		Data:     data,
	}
	s.persistArtifact(r.Context(), artifact)
	s.sessions.StoreArtifact(artifact)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"filename":    artifact.Filename,
		"mime_type":   artifact.MimeType,
		"size":        len(artifact.Data),
		"frame_count": result.FrameCount,
	})
}

// HandleExportKeyframes returns the standalone HTML animation document
func (s *Server) HandleExportKeyframes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	cfg := s.ChartConfig()
	points, err := s.Dataset.ChartData(cfg)
	if err != nil {
		http.Error(w, "Failed to build chart data: "+err.Error(), http.StatusBadRequest)
		return
	}

	doc, err := s.Exporter.KeyframeDocument(cfg, points, s.datasetDescription())
	if err != nil {
		log.Printf("Keyframe export failed: %v", err)
		http.Error(w, "Keyframe export failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", capture.ArtifactName(capture.FormatHTML, time.Now())))
	w.Write([]byte(doc))
}

// HandleRecordAnimation starts an asynchronous GIF recording of the current
// configuration and returns a session ID for progress polling.
func (s *Server) HandleRecordAnimation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	cfg := s.ChartConfig()
	points, err := s.Dataset.ChartData(cfg)
	if err != nil {
		http.Error(w, "Failed to build chart data: "+err.Error(), http.StatusBadRequest)
		return
	}

	session := s.sessions.NewSession()
	go func() {
		session.Status("rendering frames")
		data, err := s.Driver.RecordGIF(context.Background(), points)
		if err != nil {
			log.Printf("GIF recording failed: %v", err)
			session.finish(nil, err)
			return
		}
		artifact := &capture.Artifact{
			Filename: capture.ArtifactName(capture.FormatGIF, time.Now()),
			MimeType: "image/gif",
			Format:   capture.FormatGIF,
			Data:     data,
		}
		s.sessions.StoreArtifact(artifact)
		s.persistArtifact(context.Background(), artifact)
		session.Status("recording complete")
		session.finish(artifact, nil)
	}()

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"session_id": session.State().ID,
	})
}

// HandleRecordingStatus reports a session's progress. With a websocket
// upgrade request the client is subscribed to live updates instead.
func (s *Server) HandleRecordingStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/recording-status/")
	id = strings.TrimSuffix(id, "/ws")
	if id == "" {
		http.Error(w, "Session ID required", http.StatusBadRequest)
		return
	}

	session, ok := s.sessions.Get(id)
	if !ok {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	if websocket.IsWebSocketUpgrade(r) {
		conn, err := wsUpgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("Websocket upgrade failed: %v", err)
			return
		}
		session.Subscribe(conn)
		return
	}

	writeJSON(w, http.StatusOK, session.State())
}

// HandleDownload serves a finished artifact by filename
func (s *Server) HandleDownload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	filename := strings.TrimPrefix(r.URL.Path, "/api/download/")
	if filename == "" || strings.Contains(filename, "..") || strings.Contains(filename, "/") {
		http.Error(w, "Invalid filename", http.StatusBadRequest)
		return
	}

	artifact, ok := s.sessions.Artifact(filename)
	if !ok {
		http.Error(w, "Artifact not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", artifact.MimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename))
	w.Write(artifact.Data)
}

// HandleFileProxy serves stored artifacts from local or GCS storage
func (s *Server) HandleFileProxy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	filePath := strings.TrimPrefix(r.URL.Path, "/files/")
	if filePath == "" {
		http.Error(w, "File path required", http.StatusBadRequest)
		return
	}

	// Security check: prevent directory traversal
	if strings.Contains(filePath, "..") {
		http.Error(w, "Invalid file path", http.StatusBadRequest)
		return
	}

	data, err := s.Storage.GetArtifact(r.Context(), filePath)
	if err != nil {
		log.Printf("Failed to get artifact from storage: %v", err)
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", storage.GetContentType(filePath))
	w.Write(data)
}

// persistArtifact writes a finished artifact to durable storage. Failures are
// logged but do not fail the export; the in-memory copy still serves
// downloads.
func (s *Server) persistArtifact(ctx context.Context, a *capture.Artifact) {
	if a == nil || s.Storage == nil {
		return
	}
	if err := s.Storage.StoreArtifact(ctx, a.Data, a.Filename, time.Now().UTC()); err != nil {
		log.Printf("Failed to persist artifact %s: %v", a.Filename, err)
	}
}

// datasetDescription builds the markdown summary embedded in exports
func (s *Server) datasetDescription() string {
	cols := s.Dataset.Columns()
	var b strings.Builder
	fmt.Fprintf(&b, "## Dataset\n\n%d rows, %d columns.\n\n", s.Dataset.Len(), len(cols))
	b.WriteString("| Column | Type |\n|---|---|\n")
	for _, c := range cols {
		fmt.Fprintf(&b, "| %s | %s |\n", c.Name, c.Type)
	}
	return b.String()
}

func parseFormat(raw string) (capture.Format, error) {
	switch capture.Format(strings.ToLower(raw)) {
	case capture.FormatWebM, "":
		return capture.FormatWebM, nil
	case capture.FormatMKV:
		return capture.FormatMKV, nil
	case capture.FormatGIF:
		return capture.FormatGIF, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", raw)
	}
}
