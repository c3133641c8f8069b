// Package scale computes numeric-domain-to-pixel-space linear transforms for
// chart surfaces. Domains are padded by 10% of the data range on each side so
// points never sit on the plot border.
package scale

import (
	"github.com/aeronauty/DataVisualiser/internal/models"
)

// LinearScales maps data-domain values into the pixel box of one surface.
// The y axis is inverted: the domain minimum lands at the bottom of the plot.
type LinearScales struct {
	XDomain [2]float64
	YDomain [2]float64

	chartWidth  float64
	chartHeight float64
	padding     models.Padding
	height      int
}

// NewLinearScales computes padded domains from the point set and binds them to
// the surface geometry in cfg. An empty point set yields default [0,1] domains.
func NewLinearScales(points []models.DataPoint, cfg models.AnimationConfig) *LinearScales {
	s := &LinearScales{
		XDomain:     [2]float64{0, 1},
		YDomain:     [2]float64{0, 1},
		padding:     cfg.Padding,
		height:      cfg.Height,
		chartWidth:  float64(cfg.Width - cfg.Padding.Left - cfg.Padding.Right),
		chartHeight: float64(cfg.Height - cfg.Padding.Top - cfg.Padding.Bottom),
	}

	if len(points) == 0 {
		return s
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	s.XDomain = padDomain(minX, maxX)
	s.YDomain = padDomain(minY, maxY)
	return s
}

// padDomain widens [min,max] by 10% of the range on each side. A degenerate
// range (all values equal) is treated as range 1 to keep the scale invertible.
func padDomain(min, max float64) [2]float64 {
	r := max - min
	if r == 0 {
		r = 1
	}
	return [2]float64{min - 0.1*r, max + 0.1*r}
}

// XScale maps a domain value to a horizontal pixel position
func (s *LinearScales) XScale(v float64) float64 {
	span := s.XDomain[1] - s.XDomain[0]
	if span == 0 {
		span = 1
	}
	return float64(s.padding.Left) + (v-s.XDomain[0])/span*s.chartWidth
}

// YScale maps a domain value to a vertical pixel position, origin at bottom
func (s *LinearScales) YScale(v float64) float64 {
	span := s.YDomain[1] - s.YDomain[0]
	if span == 0 {
		span = 1
	}
	return float64(s.height-s.padding.Bottom) - (v-s.YDomain[0])/span*s.chartHeight
}

// ChartWidth returns the plot-area width in pixels
func (s *LinearScales) ChartWidth() float64 { return s.chartWidth }

// ChartHeight returns the plot-area height in pixels
func (s *LinearScales) ChartHeight() float64 { return s.chartHeight }
