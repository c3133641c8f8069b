package models

// ChartType identifies how a point set is drawn
type ChartType string

const (
	ChartScatter ChartType = "scatter"
	ChartLine    ChartType = "line"
	ChartBar     ChartType = "bar"
)

// EasingKind selects the time-reparameterization curve for animations
type EasingKind string

const (
	EaseLinear    EasingKind = "linear"
	EaseIn        EasingKind = "easeIn"
	EaseOut       EasingKind = "easeOut"
	EaseInOutKind EasingKind = "easeInOut"
)

// DataPoint is one plottable row. Opacity is frame-local and never persisted;
// Extra carries arbitrary hover-display fields straight from the source row.
// Transformations always produce a fresh point, never mutate in place.
type DataPoint struct {
	X        float64        `json:"x"`
	Y        float64        `json:"y"`
	Category string         `json:"category,omitempty"`
	Size     float64        `json:"size,omitempty"`
	Color    string         `json:"color,omitempty"`
	Opacity  float64        `json:"opacity,omitempty"`
	Extra    map[string]any `json:"extra,omitempty"`
}

// ChartConfig is the full visualization/animation configuration.
// XColumn/YColumn are the legacy single-axis fields and always mirror the
// first entry of XColumns/YColumns whenever the lists are non-empty.
type ChartConfig struct {
	ChartType      ChartType `json:"chart_type"`
	XColumn        string    `json:"x_column"`
	YColumn        string    `json:"y_column"`
	XColumns       []string  `json:"x_columns"`
	YColumns       []string  `json:"y_columns"`
	CategoryColumn string    `json:"category_column,omitempty"`
	CategoryBins   int       `json:"category_bins,omitempty"`
	SizeColumn     string    `json:"size_column,omitempty"`
	SizeMin        float64   `json:"size_min,omitempty"`
	SizeMax        float64   `json:"size_max,omitempty"`
	Opacity        float64   `json:"opacity,omitempty"`
	HoverFields    []string  `json:"hover_fields,omitempty"`

	AnimationEnabled   bool    `json:"animation_enabled"`
	AnimationSpeed     float64 `json:"animation_speed,omitempty"`     // seconds per discrete frame
	AnimationDuration  int     `json:"animation_duration,omitempty"`  // cosmetic, ms
	TransitionDuration int     `json:"transition_duration,omitempty"` // cosmetic, ms
}

// DefaultChartConfig returns the configuration used before the viewer makes
// any selection.
func DefaultChartConfig(xColumn, yColumn string) ChartConfig {
	return ChartConfig{
		ChartType:          ChartScatter,
		XColumn:            xColumn,
		YColumn:            yColumn,
		XColumns:           []string{xColumn},
		YColumns:           []string{yColumn},
		SizeMin:            4,
		SizeMax:            20,
		Opacity:            0.8,
		AnimationSpeed:     2.0,
		AnimationDuration:  1000,
		TransitionDuration: 750,
	}
}

// ColumnInfo describes one column of the active dataset
type ColumnInfo struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	IsNumeric bool   `json:"is_numeric"`
}

// AnimationFrame is an immutable snapshot of points plus the fraction of the
// total reveal already elapsed. Produced by the interpolator, consumed by the
// renderer and driver, never persisted.
type AnimationFrame struct {
	Data     []DataPoint `json:"data"`
	Progress float64     `json:"progress"`
}

// Padding is the pixel inset between the surface edge and the plot area
type Padding struct {
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
}

// AnimationConfig holds the rendering parameters for one surface. Fixed for
// the lifetime of that surface.
type AnimationConfig struct {
	Duration float64    `json:"duration"` // seconds
	FPS      int        `json:"fps"`
	Easing   EasingKind `json:"easing"`
	Width    int        `json:"width"`
	Height   int        `json:"height"`
	Padding  Padding    `json:"padding"`
}

// DefaultAnimationConfig returns the surface parameters the viewer starts with
func DefaultAnimationConfig() AnimationConfig {
	return AnimationConfig{
		Duration: 5,
		FPS:      30,
		Easing:   EaseOut,
		Width:    800,
		Height:   600,
		Padding:  Padding{Top: 40, Right: 40, Bottom: 60, Left: 70},
	}
}

// FrameColumns is one step of a config-driven multi-axis animation: the
// column selection a single captured frame should display.
type FrameColumns struct {
	XColumn        string    `json:"x_column"`
	YColumn        string    `json:"y_column"`
	CategoryColumn string    `json:"category_column,omitempty"`
	SizeColumn     string    `json:"size_column,omitempty"`
	ChartType      ChartType `json:"chart_type"`
	XColumns       []string  `json:"x_columns"`
	YColumns       []string  `json:"y_columns"`
}
