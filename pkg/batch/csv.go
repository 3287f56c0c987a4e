package batch

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// LoadRowsCSV reads a recipient list from a CSV file. The first record is
// the header and its cells become the row column names.
func LoadRowsCSV(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open recipient list: %w", err)
	}
	defer f.Close()
	rows, err := ParseRowsCSV(f)
	if err != nil {
		return nil, fmt.Errorf("recipient list %s: %w", path, err)
	}
	return rows, nil
}

// ParseRowsCSV parses recipient rows from CSV data. Blank records are
// skipped and short records simply lack the trailing columns; spreadsheets
// exported by hand are rarely rectangular.
func ParseRowsCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no header record")
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = strings.TrimSpace(h)
	}

	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		if isBlankRecord(rec) {
			continue
		}
		values := make(map[string]string, len(cols))
		for i, col := range cols {
			if col == "" || i >= len(rec) {
				continue
			}
			values[col] = strings.TrimSpace(rec[i])
		}
		rows = append(rows, Row{Columns: cols, Values: values})
	}
	return rows, nil
}

func isBlankRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
