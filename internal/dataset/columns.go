package dataset

import (
	"sort"

	"github.com/aeronauty/DataVisualiser/internal/models"
)

// inferColumns derives column metadata from the first rows of a dataset.
// A column is numeric when every non-missing sampled value parses as a number.
func inferColumns(rows []map[string]any) []models.ColumnInfo {
	if len(rows) == 0 {
		return nil
	}

	// Sample a bounded prefix so huge uploads stay cheap
	sample := rows
	if len(sample) > 200 {
		sample = sample[:200]
	}

	names := make([]string, 0, len(rows[0]))
	for name := range rows[0] {
		names = append(names, name)
	}
	sort.Strings(names)

	columns := make([]models.ColumnInfo, 0, len(names))
	for _, name := range names {
		numeric := true
		seen := false
		typeName := "String"
		for _, row := range sample {
			v, ok := row[name]
			if !ok || v == nil {
				continue
			}
			seen = true
			if _, isNum := numericValue(v); !isNum {
				numeric = false
				break
			}
		}
		if !seen {
			numeric = false
		}
		if numeric {
			typeName = "Float64"
			if allInts(sample, name) {
				typeName = "Int64"
			}
		}
		columns = append(columns, models.ColumnInfo{
			Name:      name,
			Type:      typeName,
			IsNumeric: numeric,
		})
	}
	return columns
}

func allInts(rows []map[string]any, name string) bool {
	for _, row := range rows {
		v, ok := row[name]
		if !ok || v == nil {
			continue
		}
		switch n := v.(type) {
		case int, int64, int32:
		case float64:
			if n != float64(int64(n)) {
				return false
			}
		case float32:
			if n != float32(int64(n)) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// numericValue coerces the dynamic row value types (JSON numbers, parsed CSV
// cells, generated sample values) into a float64.
func numericValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	default:
		return 0, false
	}
}
