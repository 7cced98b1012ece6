package sink

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataforge-hq/dataforge/internal/generator"
	"github.com/dataforge-hq/dataforge/internal/schema"
)

func testSchema() *schema.Schema {
	return &schema.Schema{
		Tables: []schema.TableSpec{
			{
				Name: "customers", Rows: 20, PrimaryKey: "id",
				Columns: []schema.ColumnSpec{
					{Name: "id", Type: "integer"},
					{Name: "full_name", Type: "name"},
					{Name: "balance", Type: "float", Range: &schema.NumericRange{Min: 0, Max: 100}},
					{Name: "active", Type: "boolean"},
					{Name: "note", Type: "string", NullRatio: 0.3},
				},
			},
			{
				Name: "orders", Rows: 40, PrimaryKey: "id",
				Columns: []schema.ColumnSpec{
					{Name: "id", Type: "integer"},
					{Name: "customer_id", Type: "integer"},
				},
				ForeignKeys: []schema.ForeignKeySpec{
					{Column: "customer_id", RefTable: "customers", RefColumn: "id"},
				},
			},
		},
	}
}

func generate(t *testing.T, seed int64) (*generator.Result, *schema.Schema) {
	t.Helper()
	s := testSchema()
	result, err := generator.New(generator.Options{}).Run(context.Background(), s, seed)
	require.NoError(t, err)
	return result, s
}

func TestWriteCSV(t *testing.T) {
	result, _ := generate(t, 42)
	dir := t.TempDir()

	paths, err := WriteCSV(result, dir)
	require.NoError(t, err)
	require.Len(t, paths, 2)

	file, err := os.Open(filepath.Join(dir, "customers.csv"))
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "full_name", "balance", "active", "note"}, records[0])
	assert.Len(t, records, 21, "header plus 20 rows")
	assert.Equal(t, "1", records[1][0])
}

func TestWriteCSVDeterministic(t *testing.T) {
	first, _ := generate(t, 42)
	second, _ := generate(t, 42)

	dirA, dirB := t.TempDir(), t.TempDir()
	_, err := WriteCSV(first, dirA)
	require.NoError(t, err)
	_, err = WriteCSV(second, dirB)
	require.NoError(t, err)

	for _, name := range []string{"customers.csv", "orders.csv"} {
		a, err := os.ReadFile(filepath.Join(dirA, name))
		require.NoError(t, err)
		b, err := os.ReadFile(filepath.Join(dirB, name))
		require.NoError(t, err)
		assert.Equal(t, a, b, "%s must be byte-identical across runs", name)
	}
}

func TestWriteJSONPreviews(t *testing.T) {
	result, _ := generate(t, 1)
	dir := t.TempDir()

	paths, err := WriteJSONPreviews(result, dir, 5)
	require.NoError(t, err)
	require.Len(t, paths, 2)

	data, err := os.ReadFile(filepath.Join(dir, "orders.json"))
	require.NoError(t, err)

	var preview struct {
		Table      string                   `json:"table"`
		Rows       int                      `json:"rows"`
		Columns    []string                 `json:"columns"`
		SampleSize int                      `json:"sample_size"`
		Sample     []map[string]interface{} `json:"sample"`
	}
	require.NoError(t, json.Unmarshal(data, &preview))

	assert.Equal(t, "orders", preview.Table)
	assert.Equal(t, 40, preview.Rows)
	assert.Equal(t, 5, preview.SampleSize)
	assert.Len(t, preview.Sample, 5)
	assert.Contains(t, preview.Sample[0], "customer_id")
}

func TestWriteJSON(t *testing.T) {
	result, _ := generate(t, 1)
	path := filepath.Join(t.TempDir(), "dataset.json")

	require.NoError(t, WriteJSON(result, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc struct {
		Summary generator.Summary                   `json:"summary"`
		Tables  map[string][]map[string]interface{} `json:"tables"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, 60, doc.Summary.TotalRows)
	assert.Len(t, doc.Tables["customers"], 20)
	assert.Len(t, doc.Tables["orders"], 40)
}

func TestWriteSQLite(t *testing.T) {
	result, s := generate(t, 6)
	path := filepath.Join(t.TempDir(), "dataset.db")

	require.NoError(t, WriteSQLite(context.Background(), result, s, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestFormatValue(t *testing.T) {
	cases := []struct {
		in   interface{}
		want string
	}{
		{nil, ""},
		{"hello", "hello"},
		{int64(42), "42"},
		{3.5, "3.5"},
		{true, "true"},
		{false, "false"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, FormatValue(c.in))
	}
}

func TestCreateTableSQL(t *testing.T) {
	s := testSchema()

	ddl := CreateTableSQL(s.Table("orders"), DialectPostgres)
	assert.Contains(t, ddl, "CREATE TABLE orders")
	assert.Contains(t, ddl, "id BIGINT PRIMARY KEY")
	assert.Contains(t, ddl, "FOREIGN KEY (customer_id) REFERENCES customers(id)")

	ddl = CreateTableSQL(s.Table("customers"), DialectSQLite)
	assert.Contains(t, ddl, "balance REAL")
	assert.NotContains(t, ddl, "note TEXT NOT NULL", "nullable column must not be NOT NULL")
}
