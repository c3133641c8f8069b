// Package dataset holds the active tabular dataset in memory and derives the
// column metadata and chart point sets the rest of the service consumes.
package dataset

import (
	"fmt"
	"sync"

	"github.com/aeronauty/DataVisualiser/internal/anim"
	"github.com/aeronauty/DataVisualiser/internal/models"
)

// Store is the in-memory tabular data service. Rows are shared read-only with
// downstream stages; every replacement swaps the whole dataset atomically.
type Store struct {
	mu      sync.RWMutex
	rows    []map[string]any
	columns []models.ColumnInfo
}

// NewStore returns a store preloaded with the default business metrics sample
func NewStore() *Store {
	s := &Store{}
	s.Replace(GenerateBusinessMetrics(500))
	return s
}

// Replace swaps in a new row set and recomputes column metadata
func (s *Store) Replace(rows []map[string]any) {
	cols := inferColumns(rows)
	s.mu.Lock()
	s.rows = rows
	s.columns = cols
	s.mu.Unlock()
}

// Rows returns up to limit rows (all rows when limit <= 0)
func (s *Store) Rows(limit int) []map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 || limit >= len(s.rows) {
		return s.rows
	}
	return s.rows[:limit]
}

// Len returns the current row count
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

// Columns returns metadata for every column of the active dataset
func (s *Store) Columns() []models.ColumnInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.columns
}

// DefaultColumns returns the first two column names for initial axis defaults
func (s *Store) DefaultColumns() (string, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.columns) == 0 {
		return "x", "y"
	}
	first := s.columns[0].Name
	second := first
	if len(s.columns) > 1 {
		second = s.columns[1].Name
	}
	return first, second
}

// RangeFilter bounds a numeric column; a nil bound is open
type RangeFilter struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// Filter applies equality and range filters and returns the matching rows.
// The stored dataset is not modified.
func (s *Store) Filter(equals map[string]any, ranges map[string]RangeFilter) []map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []map[string]any
	for _, row := range s.rows {
		if rowMatches(row, equals, ranges) {
			out = append(out, row)
		}
	}
	return out
}

func rowMatches(row map[string]any, equals map[string]any, ranges map[string]RangeFilter) bool {
	for col, want := range equals {
		got, ok := row[col]
		if !ok || fmt.Sprint(got) != fmt.Sprint(want) {
			return false
		}
	}
	for col, r := range ranges {
		v, ok := numericValue(row[col])
		if !ok {
			return false
		}
		if r.Min != nil && v < *r.Min {
			return false
		}
		if r.Max != nil && v > *r.Max {
			return false
		}
	}
	return true
}

// ChartData derives fresh DataPoints from the active rows for one
// configuration. Rows missing either axis value are skipped. A numeric
// category column is bucketed into labeled ranges when category_bins is set.
func (s *Store) ChartData(cfg models.ChartConfig) ([]models.DataPoint, error) {
	s.mu.RLock()
	rows := s.rows
	columns := s.columns
	s.mu.RUnlock()

	if err := checkColumns(columns, cfg); err != nil {
		return nil, err
	}

	binned := binnedCategories(rows, columns, cfg)

	points := make([]models.DataPoint, 0, len(rows))
	for i, row := range rows {
		x, okX := numericValue(row[cfg.XColumn])
		y, okY := numericValue(row[cfg.YColumn])
		if !okX || !okY {
			continue
		}

		p := models.DataPoint{X: x, Y: y}
		if cfg.CategoryColumn != "" {
			if binned != nil {
				p.Category = binned[i]
			} else {
				p.Category = fmt.Sprint(row[cfg.CategoryColumn])
			}
		}
		if cfg.SizeColumn != "" {
			if size, ok := numericValue(row[cfg.SizeColumn]); ok {
				p.Size = size
			}
		}
		if len(cfg.HoverFields) > 0 {
			p.Extra = make(map[string]any, len(cfg.HoverFields))
			for _, f := range cfg.HoverFields {
				if v, ok := row[f]; ok {
					p.Extra[f] = v
				}
			}
		}
		points = append(points, p)
	}

	return points, nil
}

// binnedCategories returns per-row bin labels when the category column is
// numeric and binning is configured, nil otherwise.
func binnedCategories(rows []map[string]any, columns []models.ColumnInfo, cfg models.ChartConfig) []string {
	if cfg.CategoryColumn == "" || cfg.CategoryBins < 2 {
		return nil
	}
	numeric := false
	for _, c := range columns {
		if c.Name == cfg.CategoryColumn {
			numeric = c.IsNumeric
			break
		}
	}
	if !numeric {
		return nil
	}

	values := make([]float64, len(rows))
	for i, row := range rows {
		v, _ := numericValue(row[cfg.CategoryColumn])
		values[i] = v
	}
	return anim.BinNumericColumn(values, cfg.CategoryBins)
}

func checkColumns(columns []models.ColumnInfo, cfg models.ChartConfig) error {
	names := make(map[string]bool, len(columns))
	for _, c := range columns {
		names[c.Name] = true
	}

	var missing []string
	required := []string{cfg.XColumn, cfg.YColumn}
	if cfg.CategoryColumn != "" {
		required = append(required, cfg.CategoryColumn)
	}
	if cfg.SizeColumn != "" {
		required = append(required, cfg.SizeColumn)
	}
	for _, name := range required {
		if !names[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing columns: %v", missing)
	}
	return nil
}
