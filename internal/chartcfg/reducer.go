// Package chartcfg merges partial chart-configuration updates into immutable
// snapshots and derives animation/binning eligibility from the result.
// Readers always see either the old or the new snapshot, never a half-merged
// one.
package chartcfg

import (
	"fmt"

	"github.com/aeronauty/DataVisualiser/internal/models"
)

// Update is a partial configuration change. Nil fields are left untouched by
// Merge; slices replace the previous value wholesale when non-nil.
type Update struct {
	ChartType          *models.ChartType `json:"chart_type,omitempty"`
	XColumn            *string           `json:"x_column,omitempty"`
	YColumn            *string           `json:"y_column,omitempty"`
	XColumns           []string          `json:"x_columns,omitempty"`
	YColumns           []string          `json:"y_columns,omitempty"`
	CategoryColumn     *string           `json:"category_column,omitempty"`
	CategoryBins       *int              `json:"category_bins,omitempty"`
	SizeColumn         *string           `json:"size_column,omitempty"`
	SizeMin            *float64          `json:"size_min,omitempty"`
	SizeMax            *float64          `json:"size_max,omitempty"`
	Opacity            *float64          `json:"opacity,omitempty"`
	HoverFields        []string          `json:"hover_fields,omitempty"`
	AnimationEnabled   *bool             `json:"animation_enabled,omitempty"`
	AnimationSpeed     *float64          `json:"animation_speed,omitempty"`
	AnimationDuration  *int              `json:"animation_duration,omitempty"`
	TransitionDuration *int              `json:"transition_duration,omitempty"`
}

// Merge produces a new configuration from old plus the partial update.
// The legacy single-axis fields are kept in sync with the first entry of the
// multi-axis lists; setting an empty list leaves the single field at its
// previous value so downstream single-axis consumers never see it vanish.
func Merge(old models.ChartConfig, upd Update) models.ChartConfig {
	cfg := old
	cfg.XColumns = append([]string(nil), old.XColumns...)
	cfg.YColumns = append([]string(nil), old.YColumns...)
	cfg.HoverFields = append([]string(nil), old.HoverFields...)

	if upd.ChartType != nil {
		cfg.ChartType = *upd.ChartType
	}
	if upd.XColumn != nil {
		cfg.XColumn = *upd.XColumn
	}
	if upd.YColumn != nil {
		cfg.YColumn = *upd.YColumn
	}
	if upd.XColumns != nil {
		cfg.XColumns = append([]string(nil), upd.XColumns...)
	}
	if upd.YColumns != nil {
		cfg.YColumns = append([]string(nil), upd.YColumns...)
	}
	if upd.CategoryColumn != nil {
		cfg.CategoryColumn = *upd.CategoryColumn
	}
	if upd.CategoryBins != nil {
		cfg.CategoryBins = *upd.CategoryBins
	}
	if upd.SizeColumn != nil {
		cfg.SizeColumn = *upd.SizeColumn
	}
	if upd.SizeMin != nil {
		cfg.SizeMin = *upd.SizeMin
	}
	if upd.SizeMax != nil {
		cfg.SizeMax = *upd.SizeMax
	}
	if upd.Opacity != nil {
		cfg.Opacity = *upd.Opacity
	}
	if upd.HoverFields != nil {
		cfg.HoverFields = append([]string(nil), upd.HoverFields...)
	}
	if upd.AnimationEnabled != nil {
		cfg.AnimationEnabled = *upd.AnimationEnabled
	}
	if upd.AnimationSpeed != nil {
		cfg.AnimationSpeed = *upd.AnimationSpeed
	}
	if upd.AnimationDuration != nil {
		cfg.AnimationDuration = *upd.AnimationDuration
	}
	if upd.TransitionDuration != nil {
		cfg.TransitionDuration = *upd.TransitionDuration
	}

	// Mirror invariant: single field always tracks the head of the list
	// whenever the list is non-empty.
	if len(cfg.XColumns) > 0 {
		cfg.XColumn = cfg.XColumns[0]
	}
	if len(cfg.YColumns) > 0 {
		cfg.YColumn = cfg.YColumns[0]
	}

	return cfg
}

// AnimationEligible reports whether the multi-axis animation feature set is
// active: animation must be enabled and at least one axis must cycle through
// more than one column.
func AnimationEligible(cfg models.ChartConfig) bool {
	return cfg.AnimationEnabled && (len(cfg.XColumns) > 1 || len(cfg.YColumns) > 1)
}

// EligibilityFailures lists the unmet export preconditions, empty when
// eligible. Used to build the diagnostic shown when an export is refused.
func EligibilityFailures(cfg models.ChartConfig) []string {
	var failures []string
	if !cfg.AnimationEnabled {
		failures = append(failures, "animation is not enabled")
	}
	if len(cfg.XColumns) <= 1 && len(cfg.YColumns) <= 1 {
		failures = append(failures, "need more than one x or y column to animate")
	}
	return failures
}

// NeedsBinning reports whether the configured category column is numeric and
// therefore must be bucketed into labeled ranges before grouping.
func NeedsBinning(cfg models.ChartConfig, columns []models.ColumnInfo) bool {
	if cfg.CategoryColumn == "" {
		return false
	}
	for _, c := range columns {
		if c.Name == cfg.CategoryColumn {
			return c.IsNumeric
		}
	}
	return false
}

// FrameConfigs expands a multi-axis configuration into the ordered per-frame
// column selections of one animation cycle. The cycle length is the longer of
// the two lists; the shorter list wraps around.
func FrameConfigs(cfg models.ChartConfig) []models.FrameColumns {
	nx, ny := len(cfg.XColumns), len(cfg.YColumns)
	n := nx
	if ny > n {
		n = ny
	}
	if n == 0 {
		return nil
	}

	frames := make([]models.FrameColumns, 0, n)
	for i := 0; i < n; i++ {
		fc := models.FrameColumns{
			XColumn:        cfg.XColumn,
			YColumn:        cfg.YColumn,
			CategoryColumn: cfg.CategoryColumn,
			SizeColumn:     cfg.SizeColumn,
			ChartType:      cfg.ChartType,
			XColumns:       cfg.XColumns,
			YColumns:       cfg.YColumns,
		}
		if nx > 0 {
			fc.XColumn = cfg.XColumns[i%nx]
		}
		if ny > 0 {
			fc.YColumn = cfg.YColumns[i%ny]
		}
		frames = append(frames, fc)
	}
	return frames
}

// CycleDurationMS is the wall-clock length of one full animation cycle in
// milliseconds at the configured per-frame speed.
func CycleDurationMS(cfg models.ChartConfig) int {
	n := len(cfg.XColumns)
	if len(cfg.YColumns) > n {
		n = len(cfg.YColumns)
	}
	return int(cfg.AnimationSpeed * float64(n) * 1000)
}

// Validate rejects configurations the renderer cannot draw
func Validate(cfg models.ChartConfig) error {
	switch cfg.ChartType {
	case models.ChartScatter, models.ChartLine, models.ChartBar:
	default:
		return fmt.Errorf("unsupported chart type %q", cfg.ChartType)
	}
	if cfg.XColumn == "" || cfg.YColumn == "" {
		return fmt.Errorf("x and y columns are required")
	}
	if cfg.AnimationSpeed <= 0 {
		return fmt.Errorf("animation speed must be positive, got %v", cfg.AnimationSpeed)
	}
	return nil
}
