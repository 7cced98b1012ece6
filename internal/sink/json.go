package sink

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dataforge-hq/dataforge/internal/generator"
)

// tablePreview is the per-table sidecar written next to each CSV: the
// table's shape plus a small sample of rows.
type tablePreview struct {
	Table      string                   `json:"table"`
	Rows       int                      `json:"rows"`
	Columns    []string                 `json:"columns"`
	SampleSize int                      `json:"sample_size"`
	Sample     []map[string]interface{} `json:"sample"`
}

// WriteJSONPreviews writes one <table>.json preview per table into dir.
func WriteJSONPreviews(result *generator.Result, dir string, sampleSize int) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	if sampleSize <= 0 {
		sampleSize = 100
	}

	var paths []string
	for _, name := range result.Order {
		table := result.Tables[name]

		n := sampleSize
		if table.NumRows() < n {
			n = table.NumRows()
		}
		preview := tablePreview{
			Table:      name,
			Rows:       table.NumRows(),
			Columns:    table.Columns(),
			SampleSize: n,
			Sample:     sampleRows(table, n),
		}

		data, err := json.MarshalIndent(preview, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal preview for %s: %w", name, err)
		}

		path := filepath.Join(dir, fmt.Sprintf("%s.json", name))
		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("failed to write preview for %s: %w", name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// WriteJSON writes the entire result as a single JSON document: every
// table's rows keyed by column name, plus the summary.
func WriteJSON(result *generator.Result, path string) error {
	doc := struct {
		Summary generator.Summary                   `json:"summary"`
		Tables  map[string][]map[string]interface{} `json:"tables"`
	}{
		Summary: result.Summary,
		Tables:  make(map[string][]map[string]interface{}, len(result.Tables)),
	}

	for _, name := range result.Order {
		table := result.Tables[name]
		doc.Tables[name] = sampleRows(table, table.NumRows())
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write result JSON: %w", err)
	}
	return nil
}

func sampleRows(table *generator.Table, n int) []map[string]interface{} {
	rows := make([]map[string]interface{}, 0, n)
	columns := table.Columns()
	for i := 0; i < n; i++ {
		row := table.Row(i)
		m := make(map[string]interface{}, len(columns))
		for c, col := range columns {
			m[col] = row[c]
		}
		rows = append(rows, m)
	}
	return rows
}
