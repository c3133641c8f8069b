package dataset

import (
	"strings"
	"testing"

	"github.com/aeronauty/DataVisualiser/internal/models"
)

func TestNewStoreLoadsDefaultSample(t *testing.T) {
	s := NewStore()
	if s.Len() != 500 {
		t.Errorf("Expected 500 default rows, got %d", s.Len())
	}
	if len(s.Columns()) == 0 {
		t.Error("Expected column metadata for default sample")
	}
}

func TestColumnInference(t *testing.T) {
	s := &Store{}
	s.Replace([]map[string]any{
		{"name": "alpha", "value": 1.5, "count": float64(3)},
		{"name": "beta", "value": 2.5, "count": float64(7)},
	})

	byName := map[string]models.ColumnInfo{}
	for _, c := range s.Columns() {
		byName[c.Name] = c
	}

	if byName["name"].IsNumeric {
		t.Error("String column marked numeric")
	}
	if !byName["value"].IsNumeric {
		t.Error("Float column not marked numeric")
	}
	if byName["count"].Type != "Int64" {
		t.Errorf("Whole-number column type = %q, expected Int64", byName["count"].Type)
	}
}

func TestLoadCSV(t *testing.T) {
	s := &Store{}
	csv := "x,y,label\n1,10,a\n2,20,b\n3,30,c\n"

	rows, cols, err := s.LoadCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("LoadCSV failed: %v", err)
	}
	if rows != 3 || cols != 3 {
		t.Errorf("Expected 3 rows, 3 cols, got %d, %d", rows, cols)
	}

	points, err := s.ChartData(models.DefaultChartConfig("x", "y"))
	if err != nil {
		t.Fatalf("ChartData failed: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("Expected 3 points, got %d", len(points))
	}
	if points[1].X != 2 || points[1].Y != 20 {
		t.Errorf("Point 1 = (%v,%v), expected (2,20)", points[1].X, points[1].Y)
	}
}

func TestLoadCSVEmpty(t *testing.T) {
	s := &Store{}
	if _, _, err := s.LoadCSV(strings.NewReader("x,y\n")); err == nil {
		t.Error("Expected error for CSV with no data rows")
	}
}

func TestChartDataMissingColumn(t *testing.T) {
	s := &Store{}
	s.Replace([]map[string]any{{"x": 1.0, "y": 2.0}})

	cfg := models.DefaultChartConfig("x", "nope")
	if _, err := s.ChartData(cfg); err == nil {
		t.Error("Expected error for missing y column")
	} else if !strings.Contains(err.Error(), "nope") {
		t.Errorf("Error should name the missing column, got: %v", err)
	}
}

func TestChartDataCategoryBinning(t *testing.T) {
	rows := make([]map[string]any, 10)
	for i := range rows {
		rows[i] = map[string]any{"x": float64(i), "y": float64(i), "score": float64(i + 1)}
	}
	s := &Store{}
	s.Replace(rows)

	cfg := models.DefaultChartConfig("x", "y")
	cfg.CategoryColumn = "score"
	cfg.CategoryBins = 5

	points, err := s.ChartData(cfg)
	if err != nil {
		t.Fatalf("ChartData failed: %v", err)
	}

	distinct := map[string]bool{}
	for _, p := range points {
		if p.Category == "" {
			t.Fatal("Expected every point to carry a bin label")
		}
		distinct[p.Category] = true
	}
	if len(distinct) != 5 {
		t.Errorf("Expected 5 bins, got %d: %v", len(distinct), distinct)
	}
}

func TestChartDataHoverFields(t *testing.T) {
	s := &Store{}
	s.Replace([]map[string]any{
		{"x": 1.0, "y": 2.0, "company": "TechCorp", "region": "Europe"},
	})

	cfg := models.DefaultChartConfig("x", "y")
	cfg.HoverFields = []string{"company"}

	points, err := s.ChartData(cfg)
	if err != nil {
		t.Fatalf("ChartData failed: %v", err)
	}
	if points[0].Extra["company"] != "TechCorp" {
		t.Errorf("Hover field missing, got extra %v", points[0].Extra)
	}
	if _, ok := points[0].Extra["region"]; ok {
		t.Error("Unrequested field should not be carried in hover extras")
	}
}

func TestFilterRanges(t *testing.T) {
	s := &Store{}
	s.Replace([]map[string]any{
		{"v": 1.0, "tag": "a"},
		{"v": 5.0, "tag": "b"},
		{"v": 9.0, "tag": "a"},
	})

	min := 2.0
	out := s.Filter(map[string]any{"tag": "a"}, map[string]RangeFilter{"v": {Min: &min}})
	if len(out) != 1 {
		t.Fatalf("Expected 1 matching row, got %d", len(out))
	}
	if out[0]["v"] != 9.0 {
		t.Errorf("Wrong row matched: %v", out[0])
	}
}

func TestLoadSample(t *testing.T) {
	s := NewStore()
	n, err := s.LoadSample("employee_metrics")
	if err != nil {
		t.Fatalf("LoadSample failed: %v", err)
	}
	if n != 200 {
		t.Errorf("Expected 200 rows, got %d", n)
	}
	if _, err := s.LoadSample("nonexistent"); err == nil {
		t.Error("Expected error for unknown sample name")
	}
}
