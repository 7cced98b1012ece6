package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlDoc = `
seed: 42
tables:
  - name: customers
    rows: 50
    primary_key: id
    columns:
      - name: id
        type: integer
      - name: email
        type: email
        unique: true
      - name: tier
        type: categorical
        categories: [gold, silver, bronze]
        weights: [0.1, 0.3, 0.6]
  - name: orders
    rows: 200
    primary_key: id
    columns:
      - name: id
        type: integer
      - name: customer_id
        type: integer
      - name: total
        type: float
        range: {min: 5, max: 500}
      - name: placed_at
        type: datetime
        null_ratio: 0.1
    foreign_keys:
      - column: customer_id
        ref_table: customers
        ref_column: id
`

const jsonDoc = `{
  "seed": 7,
  "tables": [
    {
      "name": "users",
      "rows": 10,
      "primary_key": "id",
      "columns": [
        {"name": "id", "type": "uuid"},
        {"name": "name", "type": "name"}
      ]
    }
  ]
}`

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlDoc), 0644))

	s, err := Load(path)
	require.NoError(t, err)

	require.NotNil(t, s.Seed)
	assert.Equal(t, int64(42), *s.Seed)
	require.Len(t, s.Tables, 2)

	customers := s.Table("customers")
	require.NotNil(t, customers)
	assert.Equal(t, 50, customers.Rows)
	assert.Equal(t, "id", customers.PrimaryKey)

	tier := customers.Column("tier")
	require.NotNil(t, tier)
	assert.Equal(t, []string{"gold", "silver", "bronze"}, tier.Categories)
	assert.Len(t, tier.Weights, 3)

	orders := s.Table("orders")
	require.NotNil(t, orders)
	total := orders.Column("total")
	require.NotNil(t, total)
	require.NotNil(t, total.Range)
	assert.Equal(t, 5.0, total.Range.Min)
	assert.Equal(t, 500.0, total.Range.Max)

	placedAt := orders.Column("placed_at")
	require.NotNil(t, placedAt)
	assert.Equal(t, 0.1, placedAt.NullRatio)
	assert.True(t, placedAt.IsNullable())

	require.Len(t, orders.ForeignKeys, 1)
	assert.Equal(t, "customers", orders.ForeignKeys[0].RefTable)

	result := Validate(s, DefaultLimits())
	assert.True(t, result.Valid(), "example document should validate: %v", result.Violations)
}

func TestLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.json")
	require.NoError(t, os.WriteFile(path, []byte(jsonDoc), 0644))

	s, err := Load(path)
	require.NoError(t, err)

	require.NotNil(t, s.Seed)
	assert.Equal(t, int64(7), *s.Seed)

	users := s.Table("users")
	require.NotNil(t, users)
	ctype, ok := users.Column("id").SemanticType()
	require.True(t, ok)
	assert.Equal(t, TypeUUID, ctype)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tables: ["), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.json")

	seed := int64(9)
	original := &Schema{
		Seed: &seed,
		Tables: []TableSpec{{
			Name: "users", Rows: 5, PrimaryKey: "id",
			Columns: []ColumnSpec{{Name: "id", Type: "integer"}},
		}},
	}
	require.NoError(t, Save(original, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}
