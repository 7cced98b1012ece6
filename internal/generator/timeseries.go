package generator

import (
	"math"
	"math/rand"
	"strings"
	"time"
)

// Tables whose columns include a date axis plus open/high/low/close
// price columns are generated as a daily random walk instead of
// independent per-column noise, so the emitted series looks like a
// plausible market history.

var (
	tsDateColumns  = []string{"date", "datetime", "ts"}
	tsOpenColumns  = []string{"open", "opening_price"}
	tsCloseColumns = []string{"close", "closing_price"}
	tsHighColumns  = []string{"high", "highest_price"}
	tsLowColumns   = []string{"low", "lowest_price"}
)

func containsAny(names map[string]bool, candidates []string) bool {
	for _, c := range candidates {
		if names[c] {
			return true
		}
	}
	return false
}

// isTimeseries reports whether the column set matches the OHLC shape.
func isTimeseries(columns []string) bool {
	names := make(map[string]bool, len(columns))
	for _, c := range columns {
		names[strings.ToLower(c)] = true
	}
	return containsAny(names, tsDateColumns) &&
		containsAny(names, tsOpenColumns) &&
		containsAny(names, tsCloseColumns) &&
		containsAny(names, tsHighColumns) &&
		containsAny(names, tsLowColumns)
}

// timeseriesWalk carries the walk state across rows of one table.
type timeseriesWalk struct {
	rng       *rand.Rand
	startDate time.Time
	basePrice float64
	drift     float64
}

// newTimeseriesWalk derives the walk parameters from the table RNG. The
// series counts back rows days from the end of the date window so the
// final row lands on the window's edge.
func newTimeseriesWalk(rng *rand.Rand, dateEnd time.Time, rows int) *timeseriesWalk {
	return &timeseriesWalk{
		rng:       rng,
		startDate: dateEnd.AddDate(0, 0, -rows),
		basePrice: math.Max(10.0, rng.Float64()*100),
		drift:     (rng.Float64() - 0.5) * 0.002,
	}
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round4(v float64) float64 { return math.Round(v*10000) / 10000 }

// row produces the derived values for day index i, keyed by lowercase
// column name. The close price feeds the next row's base.
func (w *timeseriesWalk) row(i int) map[string]interface{} {
	day := w.startDate.AddDate(0, 0, i)

	step := w.rng.NormFloat64()*0.02 + w.drift
	open := math.Max(0.01, w.basePrice*(1.0+step))
	close := math.Max(0.01, open*(1.0+w.rng.NormFloat64()*0.01))
	high := math.Max(open, close) * (1.0 + math.Abs(w.rng.NormFloat64()*0.01))
	low := math.Min(open, close) * (1.0 - math.Abs(w.rng.NormFloat64()*0.01))
	volume := int64(math.Max(1, math.Exp(w.rng.NormFloat64()*0.5+5.0)))
	changePct := ((close - open) / open) * 100.0

	w.basePrice = close

	date := day.Format("2006-01-02")
	return map[string]interface{}{
		"date":                    date,
		"datetime":                date + "T00:00:00",
		"ts":                      date + "T00:00:00",
		"open":                    round2(open),
		"opening_price":           round2(open),
		"close":                   round2(close),
		"closing_price":           round2(close),
		"high":                    round2(high),
		"highest_price":           round2(high),
		"low":                     round2(low),
		"lowest_price":            round2(low),
		"price_change_percentage": round4(changePct),
		"current_price":           round2(close),
		"volume":                  volume,
	}
}
