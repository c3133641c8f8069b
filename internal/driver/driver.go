// Package driver orchestrates preview playback and basic recording over the
// frame interpolator and renderer. A driver instance is either idle,
// previewing, or recording; the states are mutually exclusive.
package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"log"
	"sync"
	"time"

	"github.com/aeronauty/DataVisualiser/internal/anim"
	"github.com/aeronauty/DataVisualiser/internal/models"
	"github.com/aeronauty/DataVisualiser/internal/render"
	"github.com/aeronauty/DataVisualiser/internal/scale"
)

// ErrBusy is returned when a start request arrives while the driver is not
// idle.
var ErrBusy = errors.New("animation already in progress")

type state int

const (
	stateIdle state = iota
	statePreviewing
	stateRecording
)

// FrameSink receives each frame image as the preview loop draws it. Used by
// live consumers (the on-screen chart region) to observe playback.
type FrameSink func(img image.Image, frame models.AnimationFrame)

// Driver runs animations for one chart surface
type Driver struct {
	cfg models.AnimationConfig

	mu     sync.Mutex
	st     state
	frames []models.AnimationFrame // cached between runs of the same point set
	cancel context.CancelFunc
}

// New creates a driver with fixed rendering parameters
func New(cfg models.AnimationConfig) *Driver {
	return &Driver{cfg: cfg}
}

func (d *Driver) begin(s state) (context.Context, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.st != stateIdle {
		if d.st == stateRecording {
			return nil, fmt.Errorf("%w: already recording", ErrBusy)
		}
		return nil, fmt.Errorf("%w: already previewing", ErrBusy)
	}
	d.st = s
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	return ctx, nil
}

func (d *Driver) end() {
	d.mu.Lock()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.st = stateIdle
	d.mu.Unlock()
}

// Stop cancels an in-flight preview or recording. Safe to call when idle.
func (d *Driver) Stop() {
	d.mu.Lock()
	if d.cancel != nil {
		d.cancel()
	}
	d.mu.Unlock()
}

// Frames generates (or returns the cached) frame sequence for a point set
func (d *Driver) Frames(points []models.DataPoint) []models.AnimationFrame {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.frames == nil {
		d.frames = anim.GenerateFrames(points, d.cfg)
	}
	return d.frames
}

// InvalidateFrames discards the cached sequence after the point set changes
func (d *Driver) InvalidateFrames() {
	d.mu.Lock()
	d.frames = nil
	d.mu.Unlock()
}

// Preview plays the frame sequence in real time, drawing each frame and
// waiting 1000/fps ms before the next. The sink receives every drawn frame.
// Cancellation is checked between frame waits.
func (d *Driver) Preview(ctx context.Context, points []models.DataPoint, sink FrameSink) error {
	runCtx, err := d.begin(statePreviewing)
	if err != nil {
		return err
	}
	defer d.end()

	frames := d.Frames(points)
	if len(frames) == 0 {
		log.Println("Warning: nothing to preview, empty frame sequence")
		return nil
	}

	surface, err := render.NewSurface(d.cfg)
	if err != nil {
		return err
	}
	scales := scale.NewLinearScales(points, d.cfg)

	interval := time.Second / time.Duration(d.cfg.FPS)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for _, frame := range frames {
		surface.DrawFrame(frame, scales)
		if sink != nil {
			img, err := surface.Image()
			if err != nil {
				return fmt.Errorf("failed to read preview frame: %w", err)
			}
			sink(img, frame)
		}

		select {
		case <-ticker.C:
		case <-runCtx.Done():
			return runCtx.Err()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// RecordGIF renders the whole frame sequence offscreen and assembles it into
// an animated GIF with a 1000/fps ms frame delay.
func (d *Driver) RecordGIF(ctx context.Context, points []models.DataPoint) ([]byte, error) {
	runCtx, err := d.begin(stateRecording)
	if err != nil {
		return nil, err
	}
	defer d.end()

	frames := d.Frames(points)
	if len(frames) == 0 {
		log.Println("Warning: recording skipped, empty frame sequence")
		return nil, fmt.Errorf("no frames to record")
	}

	surface, err := render.NewSurface(d.cfg)
	if err != nil {
		return nil, err
	}
	scales := scale.NewLinearScales(points, d.cfg)

	delay := 100 / d.cfg.FPS // GIF delay unit is 1/100s
	if delay < 2 {
		delay = 2
	}

	out := &gif.GIF{}
	for i, frame := range frames {
		select {
		case <-runCtx.Done():
			return nil, runCtx.Err()
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		surface.DrawFrame(frame, scales)
		img, err := surface.Image()
		if err != nil {
			return nil, fmt.Errorf("failed to read frame %d: %w", i, err)
		}
		out.Image = append(out.Image, Quantize(img))
		out.Delay = append(out.Delay, delay)
	}

	return EncodeGIF(out)
}

// RecordPNG draws the first frame of the sequence and returns it as a PNG
// snapshot artifact.
func (d *Driver) RecordPNG(points []models.DataPoint) ([]byte, error) {
	frames := d.Frames(points)
	if len(frames) == 0 {
		return nil, fmt.Errorf("no frames to record")
	}

	surface, err := render.NewSurface(d.cfg)
	if err != nil {
		return nil, err
	}
	scales := scale.NewLinearScales(points, d.cfg)
	surface.DrawFrame(frames[0], scales)
	return surface.EncodePNG()
}

// Quantize converts a bitmap into a paletted frame for GIF assembly
func Quantize(img image.Image) *image.Paletted {
	bounds := img.Bounds()
	paletted := image.NewPaletted(bounds, palette.Plan9)
	draw.FloydSteinberg.Draw(paletted, bounds, img, bounds.Min)
	return paletted
}

// EncodeGIF serializes an assembled GIF
func EncodeGIF(g *gif.GIF) ([]byte, error) {
	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, g); err != nil {
		return nil, fmt.Errorf("failed to encode GIF: %w", err)
	}
	return buf.Bytes(), nil
}
