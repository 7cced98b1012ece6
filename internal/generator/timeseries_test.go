package generator

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/dataforge-hq/dataforge/internal/schema"
)

func TestIsTimeseries(t *testing.T) {
	if !isTimeseries([]string{"date", "open", "high", "low", "close", "volume"}) {
		t.Error("OHLC columns not detected as timeseries")
	}
	if !isTimeseries([]string{"ts", "opening_price", "highest_price", "lowest_price", "closing_price"}) {
		t.Error("long-form OHLC columns not detected as timeseries")
	}
	if isTimeseries([]string{"date", "open", "close"}) {
		t.Error("missing high/low still detected as timeseries")
	}
	if isTimeseries([]string{"open", "high", "low", "close"}) {
		t.Error("missing date axis still detected as timeseries")
	}
}

func TestTimeseriesWalkInvariants(t *testing.T) {
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	walk := newTimeseriesWalk(rand.New(rand.NewSource(6)), end, 365)

	prevDate := ""
	for i := 0; i < 365; i++ {
		row := walk.row(i)

		open := row["open"].(float64)
		close := row["close"].(float64)
		high := row["high"].(float64)
		low := row["low"].(float64)

		if high < math.Max(open, close) {
			t.Fatalf("day %d: high %v below max(open, close)", i, high)
		}
		if low > math.Min(open, close) {
			t.Fatalf("day %d: low %v above min(open, close)", i, low)
		}
		if low <= 0 {
			t.Fatalf("day %d: price %v not positive", i, low)
		}
		if row["volume"].(int64) < 1 {
			t.Fatalf("day %d: volume below 1", i)
		}

		date := row["date"].(string)
		if date <= prevDate {
			t.Fatalf("day %d: date %s not after %s", i, date, prevDate)
		}
		prevDate = date
	}
}

func TestTimeseriesTableGeneration(t *testing.T) {
	s := &schema.Schema{
		Tables: []schema.TableSpec{{
			Name: "prices", Rows: 30, PrimaryKey: "id",
			Columns: []schema.ColumnSpec{
				{Name: "id", Type: "integer"},
				{Name: "date", Type: "date"},
				{Name: "open", Type: "float"},
				{Name: "high", Type: "float"},
				{Name: "low", Type: "float"},
				{Name: "close", Type: "float"},
				{Name: "volume", Type: "integer"},
			},
		}},
	}

	result := run(t, s, 8, 1)
	prices := result.Tables["prices"]

	for i := 0; i < prices.NumRows(); i++ {
		open, _ := prices.Value(i, "open")
		high, _ := prices.Value(i, "high")
		if high.(float64) < open.(float64)*0.5 {
			t.Fatalf("row %d: high %v implausibly far below open %v", i, high, open)
		}
	}

	// The walk replaces per-column noise, so consecutive closes should
	// stay within the walk's step size of each other.
	for i := 1; i < prices.NumRows(); i++ {
		prev, _ := prices.Value(i-1, "close")
		open, _ := prices.Value(i, "open")
		ratio := open.(float64) / prev.(float64)
		if ratio < 0.5 || ratio > 1.5 {
			t.Fatalf("row %d: open %v wildly off previous close %v", i, open, prev)
		}
	}
}
