package server

import (
	"context"
	"fmt"
	"image"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/rs/cors"

	"github.com/aeronauty/DataVisualiser/internal/backendcap"
	"github.com/aeronauty/DataVisualiser/internal/capture"
	"github.com/aeronauty/DataVisualiser/internal/chartcfg"
	"github.com/aeronauty/DataVisualiser/internal/config"
	"github.com/aeronauty/DataVisualiser/internal/dataset"
	"github.com/aeronauty/DataVisualiser/internal/driver"
	"github.com/aeronauty/DataVisualiser/internal/export"
	"github.com/aeronauty/DataVisualiser/internal/models"
	"github.com/aeronauty/DataVisualiser/internal/render"
	"github.com/aeronauty/DataVisualiser/internal/scale"
	"github.com/aeronauty/DataVisualiser/internal/storage"
)

// Server represents the main application server
type Server struct {
	Config        *config.Config
	Dataset       *dataset.Store
	Driver        *driver.Driver
	Pipeline      *capture.Pipeline
	Exporter      *export.Builder
	CaptureClient *backendcap.Client
	Storage       storage.ArtifactStore

	sessions *sessionRegistry

	cfgMu    sync.RWMutex
	chartCfg models.ChartConfig
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) (*Server, error) {
	ctx := context.Background()

	mode := storage.ModeForConfig(cfg)
	store, err := storage.NewArtifactStore(ctx, mode, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize artifact storage: %w", err)
	}
	log.Printf("Artifact storage mode: %s", mode)

	ds := dataset.NewStore()
	x, y := ds.DefaultColumns()
	chartCfg := models.DefaultChartConfig(x, y)

	server := &Server{
		Config:   cfg,
		Dataset:  ds,
		Driver:   driver.New(models.DefaultAnimationConfig()),
		Exporter: export.NewBuilder(),
		Storage:  store,
		sessions: newSessionRegistry(),
		chartCfg: chartCfg,
	}
	server.Pipeline = capture.NewPipeline(server.liveSource(), capture.DefaultRegistry())

	if cfg.CaptureServiceURL != "" {
		log.Printf("Backend-assisted capture enabled: %s", cfg.CaptureServiceURL)
		server.CaptureClient = backendcap.NewClient(cfg.CaptureServiceURL)
	}

	return server, nil
}

// ChartConfig returns the current configuration snapshot
func (s *Server) ChartConfig() models.ChartConfig {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.chartCfg
}

// applyUpdate merges a partial update into the current snapshot
func (s *Server) applyUpdate(upd chartcfg.Update) models.ChartConfig {
	s.cfgMu.Lock()
	defer s.cfgMu.Unlock()
	s.chartCfg = chartcfg.Merge(s.chartCfg, upd)
	return s.chartCfg
}

// SetupRoutes configures HTTP routes for the server
func (s *Server) SetupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.HandleHealth)

	// Dataset endpoints
	mux.HandleFunc("/data/table", s.HandleTable)
	mux.HandleFunc("/data/columns", s.HandleColumns)
	mux.HandleFunc("/data/chart", s.HandleChartData)
	mux.HandleFunc("/data/upload", s.HandleUpload)
	mux.HandleFunc("/data/upload-csv", s.HandleUploadCSV)
	mux.HandleFunc("/data/upload-xlsx", s.HandleUploadXLSX)
	mux.HandleFunc("/data/sample-datasets", s.HandleSampleDatasets)
	mux.HandleFunc("/data/load-sample/", s.HandleLoadSample)
	mux.HandleFunc("/data/filter", s.HandleFilter)

	// Rendering and export endpoints
	mux.HandleFunc("/chart/render", s.HandleRenderChart)
	mux.HandleFunc("/export/animation", s.HandleExportAnimation)
	mux.HandleFunc("/export/backend-animation", s.HandleBackendAnimation)
	mux.HandleFunc("/export/keyframes", s.HandleExportKeyframes)

	// Recording session endpoints
	mux.HandleFunc("/api/record-animation", s.HandleRecordAnimation)
	mux.HandleFunc("/api/recording-status/", s.HandleRecordingStatus)
	mux.HandleFunc("/api/download/", s.HandleDownload)
	mux.HandleFunc("/files/", s.HandleFileProxy)

	c := cors.New(cors.Options{
		AllowedOrigins: s.Config.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(mux)
}

// Close cleans up server resources
func (s *Server) Close() error {
	s.Driver.Stop()
	if s.Storage != nil {
		return s.Storage.Close()
	}
	return nil
}

// liveChartSource renders the chart exactly as it is animating right now:
// the column cycle advances on wall-clock time, so successive snapshots taken
// by the capture pipeline see the animation progressing.
type liveChartSource struct {
	server  *Server
	animCfg models.AnimationConfig
	started time.Time
}

func (s *Server) liveSource() *liveChartSource {
	return &liveChartSource{
		server:  s,
		animCfg: models.DefaultAnimationConfig(),
		started: time.Now(),
	}
}

func (l *liveChartSource) Bounds() (int, int) {
	return l.animCfg.Width, l.animCfg.Height
}

func (l *liveChartSource) Snapshot(ctx context.Context) (image.Image, error) {
	cfg := l.server.ChartConfig()

	frames := chartcfg.FrameConfigs(cfg)
	if len(frames) == 0 {
		return nil, fmt.Errorf("no columns configured")
	}

	slotMS := cfg.AnimationSpeed * 1000
	if slotMS <= 0 {
		slotMS = 1000
	}
	elapsedMS := float64(time.Since(l.started).Milliseconds())
	slot := int(elapsedMS/slotMS) % len(frames)
	withinSlot := (elapsedMS - float64(int(elapsedMS/slotMS))*slotMS) / slotMS

	fc := frames[slot]
	frameCfg := cfg
	frameCfg.XColumn = fc.XColumn
	frameCfg.YColumn = fc.YColumn

	points, err := l.server.Dataset.ChartData(frameCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build frame data: %w", err)
	}

	// ChartData points carry no frame-local opacity; apply the configured
	// marker opacity so the capture sees what the viewer sees.
	opacity := cfg.Opacity
	if opacity <= 0 {
		opacity = 1
	}
	for i := range points {
		points[i].Opacity = opacity
	}

	surface, err := render.NewSurface(l.animCfg)
	if err != nil {
		return nil, err
	}
	frame := models.AnimationFrame{Data: points, Progress: withinSlot}
	surface.DrawFrame(frame, scale.NewLinearScales(points, l.animCfg))
	return surface.Image()
}
