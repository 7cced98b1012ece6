package sink

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dataforge-hq/dataforge/internal/generator"
)

// WriteCSV writes one <table>.csv per generated table into dir,
// creating it if needed. Returns the written file paths in generation
// order.
func WriteCSV(result *generator.Result, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var paths []string
	for _, name := range result.Order {
		table := result.Tables[name]
		path := filepath.Join(dir, fmt.Sprintf("%s.csv", name))
		if err := writeTableCSV(table, path); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeTableCSV(table *generator.Table, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file for %s: %w", table.Name(), err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(table.Columns()); err != nil {
		return fmt.Errorf("failed to write CSV header for %s: %w", table.Name(), err)
	}

	record := make([]string, len(table.Columns()))
	for i := 0; i < table.NumRows(); i++ {
		row := table.Row(i)
		for c := range record {
			record[c] = FormatValue(row[c])
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row for %s: %w", table.Name(), err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV for %s: %w", table.Name(), err)
	}
	return nil
}

// FormatValue renders a generated scalar for text output. Nulls become
// the empty string; floats keep their shortest round-trip form so two
// runs with the same seed serialize byte-identically.
func FormatValue(v interface{}) string {
	switch n := v.(type) {
	case nil:
		return ""
	case string:
		return n
	case int64:
		return strconv.FormatInt(n, 10)
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(n)
	default:
		return fmt.Sprintf("%v", n)
	}
}
