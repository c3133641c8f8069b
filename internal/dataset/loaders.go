package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// LoadCSV replaces the current dataset with the parsed contents of a CSV
// stream. The first record is the header; numeric-looking cells are stored as
// float64 so column inference and charting see real numbers.
func (s *Store) LoadCSV(r io.Reader) (int, int, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if len(header) == 0 {
		return 0, 0, fmt.Errorf("CSV file has no columns")
	}

	var rows []map[string]any
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, 0, fmt.Errorf("failed to parse CSV record: %w", err)
		}
		rows = append(rows, recordToRow(header, record))
	}

	if len(rows) == 0 {
		return 0, 0, fmt.Errorf("CSV file contains no data")
	}

	s.Replace(rows)
	return len(rows), len(header), nil
}

// LoadXLSX replaces the current dataset with the first sheet of a workbook
func (s *Store) LoadXLSX(data []byte) (int, int, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return 0, 0, fmt.Errorf("workbook has no sheets")
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(records) < 2 {
		return 0, 0, fmt.Errorf("sheet %s contains no data rows", sheets[0])
	}

	header := records[0]
	rows := make([]map[string]any, 0, len(records)-1)
	for _, record := range records[1:] {
		rows = append(rows, recordToRow(header, record))
	}

	s.Replace(rows)
	return len(rows), len(header), nil
}

// recordToRow maps one delimited record onto the header, parsing numeric
// cells. Short records leave trailing columns missing.
func recordToRow(header, record []string) map[string]any {
	row := make(map[string]any, len(header))
	for i, name := range header {
		if i >= len(record) {
			break
		}
		cell := strings.TrimSpace(record[i])
		if cell == "" {
			continue
		}
		if v, err := strconv.ParseFloat(cell, 64); err == nil {
			row[name] = v
		} else {
			row[name] = cell
		}
	}
	return row
}
