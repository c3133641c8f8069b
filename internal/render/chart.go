package render

import (
	"fmt"
	"io"
	"sort"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/aeronauty/DataVisualiser/internal/models"
)

// categoryPalette cycles through series colors when grouping by category
var categoryPalette = []drawing.Color{
	{R: 51, G: 102, B: 204, A: 255},
	{R: 220, G: 57, B: 18, A: 255},
	{R: 255, G: 153, B: 0, A: 255},
	{R: 16, G: 150, B: 24, A: 255},
	{R: 153, G: 0, B: 153, A: 255},
	{R: 0, G: 153, B: 198, A: 255},
	{R: 221, G: 68, B: 119, A: 255},
	{R: 102, G: 170, B: 0, A: 255},
}

// StaticChart renders the current configuration as a single chart image.
// Scatter and line charts group points into one series per category; bar
// charts aggregate y per category (or per x value when no category is set).
func StaticChart(w io.Writer, points []models.DataPoint, cfg models.ChartConfig, width, height int) error {
	if cfg.ChartType == models.ChartBar {
		return renderBarChart(w, points, cfg, width, height)
	}
	return renderXYChart(w, points, cfg, width, height)
}

func renderXYChart(w io.Writer, points []models.DataPoint, cfg models.ChartConfig, width, height int) error {
	grouped := groupByCategory(points)

	var series []chart.Series
	idx := 0
	for _, name := range sortedKeys(grouped) {
		group := grouped[name]
		sort.SliceStable(group, func(i, j int) bool { return group[i].X < group[j].X })

		xs := make([]float64, len(group))
		ys := make([]float64, len(group))
		for i, p := range group {
			xs[i] = p.X
			ys[i] = p.Y
		}

		color := categoryPalette[idx%len(categoryPalette)]
		style := chart.Style{StrokeColor: color, StrokeWidth: 2}
		if cfg.ChartType == models.ChartScatter {
			style = chart.Style{
				StrokeWidth: chart.Disabled,
				DotColor:    color,
				DotWidth:    5,
			}
		}

		series = append(series, chart.ContinuousSeries{
			Name:    name,
			Style:   style,
			XValues: xs,
			YValues: ys,
		})
		idx++
	}

	graph := chart.Chart{
		Title: fmt.Sprintf("%s vs %s", cfg.YColumn, cfg.XColumn),
		TitleStyle: chart.Style{
			FontSize:  16,
			FontColor: drawing.ColorBlack,
		},
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 70, Right: 20, Bottom: 60},
		},
		Width:  width,
		Height: height,
		XAxis: chart.XAxis{
			Name:      cfg.XColumn,
			NameStyle: chart.Style{FontSize: 12},
			Style:     chart.Style{FontSize: 9},
		},
		YAxis: chart.YAxis{
			Name:      cfg.YColumn,
			NameStyle: chart.Style{FontSize: 12},
			Style:     chart.Style{FontSize: 10},
		},
		Series: series,
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

func renderBarChart(w io.Writer, points []models.DataPoint, cfg models.ChartConfig, width, height int) error {
	// Aggregate y by category label, or by x value when uncategorized
	sums := map[string]float64{}
	for _, p := range points {
		key := p.Category
		if key == "" {
			key = fmt.Sprintf("%.1f", p.X)
		}
		sums[key] += p.Y
	}

	var bars []chart.Value
	idx := 0
	for _, key := range sortedKeys(sums) {
		bars = append(bars, chart.Value{
			Label: key,
			Value: sums[key],
			Style: chart.Style{
				FillColor:   categoryPalette[idx%len(categoryPalette)],
				StrokeColor: categoryPalette[idx%len(categoryPalette)],
			},
		})
		idx++
	}

	graph := chart.BarChart{
		Title: fmt.Sprintf("%s by %s", cfg.YColumn, cfg.XColumn),
		TitleStyle: chart.Style{
			FontSize:  16,
			FontColor: drawing.ColorBlack,
		},
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 70, Right: 20, Bottom: 60},
		},
		Width:    width,
		Height:   height,
		BarWidth: 40,
		Bars:     bars,
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render bar chart: %w", err)
	}
	return nil
}

func groupByCategory(points []models.DataPoint) map[string][]models.DataPoint {
	grouped := map[string][]models.DataPoint{}
	for _, p := range points {
		key := p.Category
		if key == "" {
			key = "series"
		}
		grouped[key] = append(grouped[key], p)
	}
	return grouped
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
