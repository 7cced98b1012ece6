package generator

import (
	"fmt"

	"github.com/montanaflynn/stats"
)

// ColumnProfile summarizes one generated column's distribution.
// Numeric aggregates are nil for non-numeric or all-null columns.
type ColumnProfile struct {
	Name          string   `json:"name"`
	NullPct       float64  `json:"null_pct"`
	DistinctCount int      `json:"distinct_count"`
	Min           *float64 `json:"min,omitempty"`
	Max           *float64 `json:"max,omitempty"`
	Mean          *float64 `json:"mean,omitempty"`
	StdDev        *float64 `json:"std_dev,omitempty"`
}

// TableProfile summarizes one generated table.
type TableProfile struct {
	Table   string          `json:"table"`
	Rows    int             `json:"rows"`
	Columns []ColumnProfile `json:"columns"`
}

// Profile analyzes a generated table: per-column null percentage,
// distinct counts, and numeric aggregates.
func Profile(t *Table) *TableProfile {
	profile := &TableProfile{
		Table: t.Name(),
		Rows:  t.NumRows(),
	}

	for c, name := range t.Columns() {
		col := ColumnProfile{Name: name}

		distinct := make(map[string]struct{})
		nulls := 0
		var numeric []float64

		for i := 0; i < t.NumRows(); i++ {
			v := t.Row(i)[c]
			if v == nil {
				nulls++
				continue
			}
			distinct[fmt.Sprint(v)] = struct{}{}
			switch n := v.(type) {
			case int64:
				numeric = append(numeric, float64(n))
			case float64:
				numeric = append(numeric, n)
			}
		}

		if t.NumRows() > 0 {
			col.NullPct = float64(nulls) / float64(t.NumRows()) * 100
		}
		col.DistinctCount = len(distinct)

		if len(numeric) > 0 {
			col.Min = statOf(stats.Min, numeric)
			col.Max = statOf(stats.Max, numeric)
			col.Mean = statOf(stats.Mean, numeric)
			col.StdDev = statOf(stats.StandardDeviation, numeric)
		}

		profile.Columns = append(profile.Columns, col)
	}

	return profile
}

func statOf(fn func(stats.Float64Data) (float64, error), data []float64) *float64 {
	v, err := fn(data)
	if err != nil {
		return nil
	}
	return &v
}
