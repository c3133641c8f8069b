package capture

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aeronauty/DataVisualiser/internal/models"
)

// stubSource yields a solid-color bitmap for every snapshot
type stubSource struct {
	w, h  int
	grabs int
}

func (s *stubSource) Bounds() (int, int) { return s.w, s.h }

func (s *stubSource) Snapshot(_ context.Context) (image.Image, error) {
	s.grabs++
	img := image.NewRGBA(image.Rect(0, 0, s.w, s.h))
	for i := range img.Pix {
		img.Pix[i] = 0xCC
	}
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	return img, nil
}

// recordingSink collects progress and status updates
type recordingSink struct {
	mu       sync.Mutex
	progress []int
	statuses []string
}

func (s *recordingSink) Progress(p int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress = append(s.progress, p)
}

func (s *recordingSink) Status(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses = append(s.statuses, msg)
}

func (s *recordingSink) sawStatus(substr string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, msg := range s.statuses {
		if strings.Contains(msg, substr) {
			return true
		}
	}
	return false
}

func exportConfig() models.ChartConfig {
	cfg := models.DefaultChartConfig("revenue", "cost")
	cfg.XColumns = []string{"revenue", "cost"}
	cfg.YColumns = []string{"profit"}
	cfg.AnimationEnabled = true
	cfg.AnimationSpeed = 0.1
	return cfg
}

func TestRecordingDuration(t *testing.T) {
	cfg := models.DefaultChartConfig("a", "b")
	cfg.AnimationSpeed = 2
	cfg.XColumns = []string{"a", "b", "c"}
	cfg.YColumns = []string{"d"}

	if got := RecordingDurationMS(cfg); got != 12000 {
		t.Errorf("Expected 12000ms for 3 columns at 2s, got %d", got)
	}
}

func TestExportRefusesIneligibleConfig(t *testing.T) {
	p := NewPipeline(&stubSource{w: 40, h: 30}, nil)

	cfg := models.DefaultChartConfig("a", "b")
	cfg.AnimationEnabled = false

	_, err := p.Export(context.Background(), cfg, FormatWebM, nil)
	if !errors.Is(err, ErrNotEligible) {
		t.Fatalf("Expected ErrNotEligible, got %v", err)
	}
}

func TestExportWebM(t *testing.T) {
	src := &stubSource{w: 40, h: 30}
	p := NewPipeline(src, nil)
	sink := &recordingSink{}

	art, err := p.Export(context.Background(), exportConfig(), FormatWebM, sink)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if len(art.Data) == 0 {
		t.Error("Expected non-empty video data")
	}
	if !strings.HasPrefix(art.Filename, "chart-animation-") || !strings.HasSuffix(art.Filename, ".webm") {
		t.Errorf("Unexpected artifact name %q", art.Filename)
	}
	if art.MimeType != "video/webm" {
		t.Errorf("Unexpected mime type %q", art.MimeType)
	}
	// EBML header magic
	if !bytes.HasPrefix(art.Data, []byte{0x1A, 0x45, 0xDF, 0xA3}) {
		t.Error("Video data does not start with an EBML header")
	}
	if src.grabs == 0 {
		t.Error("Source was never snapshotted")
	}
	if !sink.sawStatus("export complete") {
		t.Errorf("Missing completion status, got %v", sink.statuses)
	}
}

func TestExportMKVFallsBackToWebM(t *testing.T) {
	p := NewPipeline(&stubSource{w: 40, h: 30}, RegistryWithout(DefaultRegistry(), FormatMKV))
	sink := &recordingSink{}

	art, err := p.Export(context.Background(), exportConfig(), FormatMKV, sink)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if art.Format != FormatWebM {
		t.Errorf("Expected webm fallback artifact, got %s", art.Format)
	}
	if !sink.sawStatus("falling back to WebM") {
		t.Errorf("Fallback was not reported, statuses: %v", sink.statuses)
	}
}

func TestExportGIF(t *testing.T) {
	p := NewPipeline(&stubSource{w: 40, h: 30}, nil)

	art, err := p.Export(context.Background(), exportConfig(), FormatGIF, nil)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if art.Format != FormatGIF {
		t.Fatalf("Expected gif artifact, got %s", art.Format)
	}
	decoded, err := gif.DecodeAll(bytes.NewReader(art.Data))
	if err != nil {
		t.Fatalf("Artifact is not a valid GIF: %v", err)
	}
	if len(decoded.Image) < 2 {
		t.Errorf("Expected a multi-frame GIF, got %d frames", len(decoded.Image))
	}
}

func TestExportLeavesProgressComplete(t *testing.T) {
	p := NewPipeline(&stubSource{w: 40, h: 30}, nil)
	sink := &recordingSink{}

	if _, err := p.Export(context.Background(), exportConfig(), FormatWebM, sink); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if n := len(sink.progress); n == 0 || sink.progress[n-1] != 100 {
		t.Errorf("Final progress should stay at 100, got %v", sink.progress)
	}
}

func TestExportClearsProgressOnFailure(t *testing.T) {
	p := NewPipeline(&stubSource{w: 40, h: 30}, RegistryWithout(DefaultRegistry(), FormatWebM, FormatMKV))
	sink := &recordingSink{}

	if _, err := p.Export(context.Background(), exportConfig(), FormatWebM, sink); err == nil {
		t.Fatal("Expected export to fail with no codecs registered")
	}

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if n := len(sink.progress); n == 0 || sink.progress[n-1] != 0 {
		t.Errorf("Progress should reset to 0 on failure, got %v", sink.progress)
	}
}

func TestExportMutualExclusion(t *testing.T) {
	p := NewPipeline(&stubSource{w: 40, h: 30}, nil)
	p.mu.Lock()
	p.active = true
	p.mu.Unlock()

	if _, err := p.Export(context.Background(), exportConfig(), FormatWebM, nil); !errors.Is(err, ErrExportInProgress) {
		t.Errorf("Expected ErrExportInProgress, got %v", err)
	}

	p.mu.Lock()
	p.active = false
	p.mu.Unlock()
	if _, err := p.Export(context.Background(), exportConfig(), FormatWebM, nil); err != nil {
		t.Errorf("Pipeline should accept a new export, got %v", err)
	}
}

func TestExportCancellationReleasesPipeline(t *testing.T) {
	p := NewPipeline(&stubSource{w: 40, h: 30}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	cfg := exportConfig()
	cfg.AnimationSpeed = 10 // long recording, must be interrupted

	if _, err := p.Export(ctx, cfg, FormatWebM, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}

	// A fresh export must be possible afterwards
	if _, err := p.Export(context.Background(), exportConfig(), FormatWebM, nil); err != nil {
		t.Errorf("Pipeline unusable after cancellation: %v", err)
	}
}

func TestTranscodeSamplesByTimestamp(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	frames := []capturedFrame{
		{at: 0, img: img},
		{at: 100 * time.Millisecond, img: img},
		{at: 200 * time.Millisecond, img: img},
	}

	data, err := transcodeToGIF(context.Background(), frames, NopSink{})
	if err != nil {
		t.Fatalf("transcode failed: %v", err)
	}
	decoded, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Output is not a valid GIF: %v", err)
	}
	// 200ms at 30 FPS -> 7 output frames
	if len(decoded.Image) != 7 {
		t.Errorf("Expected 7 resampled frames, got %d", len(decoded.Image))
	}
}
