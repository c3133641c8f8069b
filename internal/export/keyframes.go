// Package export builds the standalone HTML animation document: a CSS
// keyframe timeline cycling through the configured columns, an interactive
// chart of the opening frame, and the dataset description. The document plays
// without any runtime dependency on this service.
package export

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"
	"strings"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/aeronauty/DataVisualiser/internal/chartcfg"
	"github.com/aeronauty/DataVisualiser/internal/models"
)

// Builder assembles keyframe export documents
type Builder struct {
	goldmark goldmark.Markdown
}

// NewBuilder creates a document builder
func NewBuilder() *Builder {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithHardWraps(),
		),
	)
	return &Builder{goldmark: md}
}

type keyframeStep struct {
	Percent float64
	Label   string
}

type documentData struct {
	Title       string
	GeneratedAt string
	CycleMS     int
	Steps       []keyframeStep
	Chart       template.HTML
	Description template.HTML
}

const documentTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 2rem; color: #222; }
.frame-label { font-size: 1.1rem; font-weight: 600; min-height: 1.5rem; }
.frame-label::after {
  animation: cycle-columns {{.CycleMS}}ms step-end infinite;
  content: "";
}
@keyframes cycle-columns {
{{- range .Steps}}
  {{printf "%.2f" .Percent}}% { content: "{{.Label}}"; }
{{- end}}
}
.description { max-width: 48rem; margin-top: 2rem; }
.meta { color: #777; font-size: 0.85rem; margin-top: 3rem; }
</style>
</head>
<body>
<div class="frame-label"></div>
{{.Chart}}
<div class="description">{{.Description}}</div>
<div class="meta">Generated {{.GeneratedAt}}</div>
</body>
</html>
`

// KeyframeDocument renders a self-contained HTML page animating through the
// configured column cycle. The chart shows the first frame's data; the CSS
// timeline advances a label through each column pairing at the configured
// per-frame speed.
func (b *Builder) KeyframeDocument(cfg models.ChartConfig, points []models.DataPoint, description string) (string, error) {
	frames := chartcfg.FrameConfigs(cfg)
	if len(frames) == 0 {
		return "", fmt.Errorf("no columns configured for keyframe export")
	}

	steps := make([]keyframeStep, 0, len(frames))
	for i, fc := range frames {
		steps = append(steps, keyframeStep{
			Percent: float64(i) / float64(len(frames)) * 100,
			Label:   fmt.Sprintf("%s vs %s", fc.XColumn, fc.YColumn),
		})
	}

	snippet, err := b.chartSnippet(cfg, points)
	if err != nil {
		return "", fmt.Errorf("failed to build chart snippet: %w", err)
	}

	desc, err := b.renderDescription(description)
	if err != nil {
		return "", err
	}

	data := documentData{
		Title:       fmt.Sprintf("%s animation", cfg.XColumn),
		GeneratedAt: time.Now().Format("2006-01-02 15:04:05 UTC"),
		CycleMS:     chartcfg.CycleDurationMS(cfg),
		Steps:       steps,
		Chart:       template.HTML(snippet),
		Description: template.HTML(desc),
	}

	tmpl, err := template.New("keyframes").Parse(documentTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse document template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute document template: %w", err)
	}
	return buf.String(), nil
}

// chartSnippet renders the opening frame as an embeddable interactive chart
func (b *Builder) chartSnippet(cfg models.ChartConfig, points []models.DataPoint) (string, error) {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme:  types.ThemeWesteros,
			Width:  "800px",
			Height: "500px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s vs %s", cfg.XColumn, cfg.YColumn),
			Subtitle: "Opening frame",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: cfg.XColumn,
			Type: "value",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: cfg.YColumn,
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: true,
		}),
	)

	series := map[string][]opts.ScatterData{}
	for _, p := range points {
		name := p.Category
		if name == "" {
			name = cfg.YColumn
		}
		series[name] = append(series[name], opts.ScatterData{
			Value:      []interface{}{p.X, p.Y},
			SymbolSize: 10,
		})
	}
	for _, name := range sortedSeriesNames(series) {
		scatter.AddSeries(name, series[name])
	}

	var buf bytes.Buffer
	if err := scatter.Render(&buf); err != nil {
		return "", err
	}
	// Render emits a full page; keep only the embeddable fragment.
	return extractSnippet(buf.String()), nil
}

func (b *Builder) renderDescription(description string) (string, error) {
	if strings.TrimSpace(description) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := b.goldmark.Convert([]byte(description), &buf); err != nil {
		return "", fmt.Errorf("failed to convert description markdown: %w", err)
	}
	return buf.String(), nil
}

func sortedSeriesNames(m map[string][]opts.ScatterData) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// extractSnippet pulls the chart container div and its init script out of a
// full go-echarts page, plus the echarts asset script tags from the head.
func extractSnippet(page string) string {
	var out strings.Builder
	for _, tag := range []struct{ open, close string }{
		{`<script src=`, `</script>`},
		{`<div class="container">`, `</div>`},
		{`<script type="text/javascript">`, `</script>`},
	} {
		rest := page
		for {
			start := strings.Index(rest, tag.open)
			if start < 0 {
				break
			}
			end := strings.Index(rest[start:], tag.close)
			if end < 0 {
				break
			}
			end += start + len(tag.close)
			out.WriteString(rest[start:end])
			out.WriteString("\n")
			rest = rest[end:]
		}
	}
	if out.Len() == 0 {
		return page
	}
	return out.String()
}
