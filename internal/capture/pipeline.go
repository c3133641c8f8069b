// Package capture records the live-rendered chart into downloadable video,
// GIF and document artifacts. The capture loop runs on cooperative timers:
// a frame-grab tick feeding the encoder, a once-per-second progress tick, and
// an encoder-finalize step at expiry.
package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"runtime"
	"sync"
	"time"

	xdraw "golang.org/x/image/draw"

	"github.com/aeronauty/DataVisualiser/internal/chartcfg"
	"github.com/aeronauty/DataVisualiser/internal/logger"
	"github.com/aeronauty/DataVisualiser/internal/models"
)

var (
	// ErrNotEligible is returned when the configuration does not qualify for
	// animated export.
	ErrNotEligible = errors.New("export not eligible")

	// ErrExportInProgress is returned when an export is already running on
	// this pipeline instance.
	ErrExportInProgress = errors.New("export already in progress")
)

const (
	captureFPS = 20
	// surfaceScale is the fixed downscale from full native resolution,
	// balancing fidelity against capture overhead.
	surfaceScale = 1.5

	gifSampleFPS = 30
)

// Artifact is one finished export
type Artifact struct {
	Filename string `json:"filename"`
	MimeType string `json:"mime_type"`
	Format   Format `json:"format"`
	Data     []byte `json:"-"`
	Note     string `json:"note,omitempty"`
}

// capturedFrame retains one grabbed bitmap with its arrival offset so the
// GIF transcoder can seek into the recording afterwards.
type capturedFrame struct {
	at  time.Duration
	img image.Image
}

// Pipeline runs export operations for one chart instance. Only one export
// may be active at a time.
type Pipeline struct {
	source   FrameSource
	registry CodecRegistry

	mu     sync.Mutex
	active bool
}

// NewPipeline creates a pipeline recording the given live chart region
func NewPipeline(source FrameSource, registry CodecRegistry) *Pipeline {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Pipeline{source: source, registry: registry}
}

// RecordingDurationMS computes the capture length for a configuration:
// exactly two full animation cycles, so the exported artifact demonstrably
// loops.
func RecordingDurationMS(cfg models.ChartConfig) int {
	return 2 * chartcfg.CycleDurationMS(cfg)
}

// ArtifactName builds the collision-free download filename for an export
func ArtifactName(f Format, now time.Time) string {
	return fmt.Sprintf("chart-animation-%d.%s", now.UnixMilli(), f)
}

// Export records the live chart and assembles the requested artifact.
// Refused synchronously when the configuration is ineligible; GIF requests
// record video first and transcode, preserving the video artifact if the
// transcode fails.
func (p *Pipeline) Export(ctx context.Context, cfg models.ChartConfig, format Format, status StatusSink) (*Artifact, error) {
	if status == nil {
		status = NopSink{}
	}

	if failures := chartcfg.EligibilityFailures(cfg); len(failures) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrNotEligible, failures)
	}

	p.mu.Lock()
	if p.active {
		p.mu.Unlock()
		return nil, ErrExportInProgress
	}
	p.active = true
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		p.active = false
		p.mu.Unlock()
	}()

	videoFormat := format
	if format == FormatGIF {
		videoFormat = FormatWebM
	}
	codec, err := selectCodec(p.registry, videoFormat, status)
	if err != nil {
		status.Progress(0)
		return nil, err
	}

	video, frames, err := p.recordLive(ctx, cfg, codec, status)
	if err != nil {
		status.Progress(0)
		return nil, err
	}

	now := time.Now()
	if format != FormatGIF {
		status.Progress(100)
		status.Status("export complete")
		return &Artifact{
			Filename: ArtifactName(codec.Format, now),
			MimeType: codec.MimeType,
			Format:   codec.Format,
			Data:     video,
		}, nil
	}

	gifData, err := transcodeToGIF(ctx, frames, status)
	if err != nil {
		// The expensive artifact already exists; hand it back degraded.
		logger.Error("GIF transcode failed", err)
		status.Status("video recorded, GIF conversion failed")
		return &Artifact{
			Filename: ArtifactName(codec.Format, now),
			MimeType: codec.MimeType,
			Format:   codec.Format,
			Data:     video,
			Note:     "video recorded, GIF conversion failed",
		}, fmt.Errorf("video recorded, GIF conversion failed: %w", err)
	}

	status.Progress(100)
	status.Status("export complete")
	return &Artifact{
		Filename: ArtifactName(FormatGIF, now),
		MimeType: "image/gif",
		Format:   FormatGIF,
		Data:     gifData,
	}, nil
}

// recordLive runs the capture loop: an offscreen surface at 1.5x the source
// bounds is fed from periodic snapshots of the live chart, and the encoder
// consumes that surface. Grab failures are logged and skipped; the recording
// survives them.
func (p *Pipeline) recordLive(ctx context.Context, cfg models.ChartConfig, codec Codec, status StatusSink) ([]byte, []capturedFrame, error) {
	if p.source == nil {
		return nil, nil, fmt.Errorf("no capture source available on this platform")
	}

	srcW, srcH := p.source.Bounds()
	if srcW <= 0 || srcH <= 0 {
		return nil, nil, fmt.Errorf("capture source has empty bounds")
	}
	outW := int(float64(srcW) * surfaceScale)
	outH := int(float64(srcH) * surfaceScale)

	encoder, err := newVideoEncoder(codec, outW, outH, captureFPS)
	if err != nil {
		return nil, nil, err
	}

	duration := time.Duration(RecordingDurationMS(cfg)) * time.Millisecond
	frameInterval := time.Second / captureFPS

	grabTick := time.NewTicker(frameInterval)
	progressTick := time.NewTicker(time.Second)
	expiry := time.NewTimer(duration)
	defer func() {
		// Cleared on every exit path; dangling timers are a leak.
		grabTick.Stop()
		progressTick.Stop()
		expiry.Stop()
	}()

	offscreen := image.NewRGBA(image.Rect(0, 0, outW, outH))
	var frames []capturedFrame
	start := time.Now()

	status.Status(fmt.Sprintf("recording %s for %v", codec.Format, duration))
	status.Progress(0)

	for {
		select {
		case <-ctx.Done():
			// Finalize so the container is not left open, then surface
			// the cancellation.
			encoder.finalize()
			return nil, nil, ctx.Err()

		case <-grabTick.C:
			// Voluntary yield so the grab never starves other work.
			runtime.Gosched()

			snap, err := p.source.Snapshot(ctx)
			if err != nil {
				logger.Warn("Frame grab failed, skipping", map[string]interface{}{"error": err.Error()})
				continue
			}

			xdraw.ApproxBiLinear.Scale(offscreen, offscreen.Bounds(), snap, snap.Bounds(), xdraw.Src, nil)
			at := time.Since(start)
			if err := encoder.writeFrame(offscreen, at.Milliseconds()); err != nil {
				logger.Warn("Frame encode failed, skipping", map[string]interface{}{"error": err.Error()})
				continue
			}
			frames = append(frames, capturedFrame{at: at, img: cloneRGBA(offscreen)})

		case <-progressTick.C:
			elapsed := time.Since(start)
			pct := int(float64(elapsed) / float64(duration) * 95)
			if pct > 95 {
				pct = 95
			}
			status.Progress(pct)

		case <-expiry.C:
			grabTick.Stop()
			progressTick.Stop()

			status.Progress(95)
			video, err := encoder.finalize()
			if err != nil {
				return nil, nil, err
			}
			if len(frames) == 0 {
				return nil, nil, fmt.Errorf("recording produced no frames")
			}
			logger.Debug("Recorded animation", map[string]interface{}{
				"frames":   len(frames),
				"duration": duration.String(),
				"bytes":    len(video),
			})
			return video, frames, nil
		}
	}
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	out := image.NewRGBA(src.Bounds())
	copy(out.Pix, src.Pix)
	return out
}
