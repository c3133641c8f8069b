// Package render draws animation frames and static charts onto raster
// surfaces using the go-chart vector backend.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/aeronauty/DataVisualiser/internal/models"
	"github.com/aeronauty/DataVisualiser/internal/scale"
)

var (
	accentColor = drawing.Color{R: 51, G: 102, B: 204, A: 255}
	axisColor   = drawing.Color{R: 51, G: 51, B: 51, A: 255}
	gridColor   = drawing.Color{R: 224, G: 224, B: 224, A: 255}
	labelColor  = drawing.Color{R: 102, G: 102, B: 102, A: 255}
	trackColor  = drawing.Color{R: 238, G: 238, B: 238, A: 255}
)

const gridTicks = 5

// Surface is an offscreen raster drawing target for one animation run.
// Geometry is fixed at construction; DrawFrame repaints the whole surface so
// no state carries over between frames.
type Surface struct {
	cfg models.AnimationConfig
	r   chart.Renderer
}

// NewSurface allocates a raster surface with the configured dimensions
func NewSurface(cfg models.AnimationConfig) (*Surface, error) {
	r, err := chart.PNG(cfg.Width, cfg.Height)
	if err != nil {
		return nil, fmt.Errorf("failed to create raster surface: %w", err)
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, fmt.Errorf("failed to load surface font: %w", err)
	}
	r.SetFont(font)
	return &Surface{cfg: cfg, r: r}, nil
}

// Config returns the surface's fixed rendering parameters
func (s *Surface) Config() models.AnimationConfig { return s.cfg }

// DrawFrame paints one frame: background, grid, axes, points and the
// progress indicator. Pure function of the frame plus the supplied scales.
func (s *Surface) DrawFrame(frame models.AnimationFrame, scales *scale.LinearScales) {
	s.clear()
	s.drawGrid(scales)
	s.drawAxes()
	for _, p := range frame.Data {
		s.drawPoint(p, scales)
	}
	s.drawProgress(frame.Progress)
}

func (s *Surface) clear() {
	r := s.r
	r.SetFillColor(drawing.ColorWhite)
	r.MoveTo(0, 0)
	r.LineTo(s.cfg.Width, 0)
	r.LineTo(s.cfg.Width, s.cfg.Height)
	r.LineTo(0, s.cfg.Height)
	r.Close()
	r.Fill()
}

func (s *Surface) drawAxes() {
	r := s.r
	pad := s.cfg.Padding
	bottom := s.cfg.Height - pad.Bottom
	right := s.cfg.Width - pad.Right

	r.SetStrokeColor(axisColor)
	r.SetStrokeWidth(2)

	// x axis
	r.MoveTo(pad.Left, bottom)
	r.LineTo(right, bottom)
	r.Stroke()

	// y axis
	r.MoveTo(pad.Left, pad.Top)
	r.LineTo(pad.Left, bottom)
	r.Stroke()
}

// drawGrid draws a fixed 5-tick grid in each dimension with numeric labels
// formatted to one decimal.
func (s *Surface) drawGrid(scales *scale.LinearScales) {
	r := s.r
	pad := s.cfg.Padding
	bottom := s.cfg.Height - pad.Bottom
	right := s.cfg.Width - pad.Right

	r.SetFontColor(labelColor)
	r.SetFontSize(10)

	for i := 0; i <= gridTicks; i++ {
		t := float64(i) / gridTicks

		xVal := scales.XDomain[0] + t*(scales.XDomain[1]-scales.XDomain[0])
		px := int(scales.XScale(xVal))
		r.SetStrokeColor(gridColor)
		r.SetStrokeWidth(1)
		r.MoveTo(px, pad.Top)
		r.LineTo(px, bottom)
		r.Stroke()
		r.Text(fmt.Sprintf("%.1f", xVal), px-10, bottom+18)

		yVal := scales.YDomain[0] + t*(scales.YDomain[1]-scales.YDomain[0])
		py := int(scales.YScale(yVal))
		r.SetStrokeColor(gridColor)
		r.SetStrokeWidth(1)
		r.MoveTo(pad.Left, py)
		r.LineTo(right, py)
		r.Stroke()
		r.Text(fmt.Sprintf("%.1f", yVal), pad.Left-45, py+4)
	}
}

func (s *Surface) drawPoint(p models.DataPoint, scales *scale.LinearScales) {
	r := s.r

	radius := 5.0
	if p.Size > 0 {
		radius = p.Size
	}
	radius *= 2

	fill := pointColor(p.Color)
	fill.A = composite(fill.A, p.Opacity)
	stroke := drawing.Color{R: 255, G: 255, B: 255, A: composite(200, p.Opacity)}

	r.SetFillColor(fill)
	r.SetStrokeColor(stroke)
	r.SetStrokeWidth(1)
	r.Circle(radius, int(scales.XScale(p.X)), int(scales.YScale(p.Y)))
	r.FillStroke()
}

// drawProgress paints the 200x8 bar docked top-right plus a percent label
func (s *Surface) drawProgress(progress float64) {
	const barWidth, barHeight = 200, 8
	r := s.r
	x := s.cfg.Width - barWidth - 20
	y := 15

	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}

	r.SetFillColor(trackColor)
	fillRect(r, x, y, barWidth, barHeight)

	r.SetFillColor(accentColor)
	fillRect(r, x, y, int(float64(barWidth)*progress), barHeight)

	r.SetFontColor(labelColor)
	r.SetFontSize(10)
	r.Text(fmt.Sprintf("%.0f%%", progress*100), x+barWidth+5, y+barHeight)
}

func fillRect(r chart.Renderer, x, y, w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	r.MoveTo(x, y)
	r.LineTo(x+w, y)
	r.LineTo(x+w, y+h)
	r.LineTo(x, y+h)
	r.Close()
	r.Fill()
}

// EncodePNG writes the current surface contents as a PNG
func (s *Surface) EncodePNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := s.r.Save(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode surface: %w", err)
	}
	return buf.Bytes(), nil
}

// Image returns the current surface contents as a decoded bitmap
func (s *Surface) Image() (image.Image, error) {
	data, err := s.EncodePNG()
	if err != nil {
		return nil, err
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode surface bitmap: %w", err)
	}
	return img, nil
}

func composite(alpha uint8, opacity float64) uint8 {
	if opacity <= 0 {
		// Zero opacity means "not yet revealed"; frame-local zero values from
		// fully-opaque legacy points are normalized upstream.
		return 0
	}
	if opacity >= 1 {
		return alpha
	}
	return uint8(float64(alpha) * opacity)
}

func pointColor(hex string) drawing.Color {
	if hex == "" {
		return accentColor
	}
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}
