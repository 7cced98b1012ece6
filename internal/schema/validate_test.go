package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSchema() *Schema {
	return &Schema{
		Tables: []TableSpec{
			{
				Name: "customers", Rows: 10, PrimaryKey: "id",
				Columns: []ColumnSpec{
					{Name: "id", Type: "integer"},
					{Name: "email", Type: "email", Unique: true},
				},
			},
			{
				Name: "orders", Rows: 20, PrimaryKey: "id",
				Columns: []ColumnSpec{
					{Name: "id", Type: "integer"},
					{Name: "customer_id", Type: "integer"},
				},
				ForeignKeys: []ForeignKeySpec{
					{Column: "customer_id", RefTable: "customers", RefColumn: "id"},
				},
			},
		},
	}
}

func kinds(result *ValidationResult) []ViolationKind {
	var ks []ViolationKind
	for _, v := range result.Violations {
		ks = append(ks, v.Kind)
	}
	return ks
}

func TestValidateCleanSchema(t *testing.T) {
	result := Validate(validSchema(), DefaultLimits())
	assert.True(t, result.Valid())
	assert.Empty(t, result.Violations)
	assert.NoError(t, result.Error())
}

func TestValidateEmptySchema(t *testing.T) {
	result := Validate(&Schema{}, DefaultLimits())
	require.False(t, result.Valid())
	assert.Contains(t, kinds(result), EmptySchema)
}

func TestValidateTooManyTables(t *testing.T) {
	s := validSchema()
	limits := DefaultLimits()
	limits.MaxTables = 1

	result := Validate(s, limits)
	require.False(t, result.Valid())
	assert.Contains(t, kinds(result), SchemaTooLarge)
}

func TestValidateTooManyColumns(t *testing.T) {
	s := validSchema()
	limits := DefaultLimits()
	limits.MaxColumnsPerTable = 1

	result := Validate(s, limits)
	require.False(t, result.Valid())
	assert.Contains(t, kinds(result), SchemaTooLarge)
}

func TestValidateDuplicateTable(t *testing.T) {
	s := validSchema()
	s.Tables = append(s.Tables, s.Tables[0])

	result := Validate(s, DefaultLimits())
	require.False(t, result.Valid())
	assert.Contains(t, kinds(result), DuplicateTable)
}

func TestValidateDuplicateColumn(t *testing.T) {
	s := validSchema()
	s.Tables[0].Columns = append(s.Tables[0].Columns, ColumnSpec{Name: "email", Type: "email"})

	result := Validate(s, DefaultLimits())
	require.False(t, result.Valid())
	assert.Contains(t, kinds(result), DuplicateColumn)
}

func TestValidateUnknownColumnType(t *testing.T) {
	s := validSchema()
	s.Tables[0].Columns[1].Type = "geometry"

	result := Validate(s, DefaultLimits())
	require.False(t, result.Valid())

	v := result.Fatal()[0]
	assert.Equal(t, UnknownColumnType, v.Kind)
	assert.Equal(t, "customers", v.Table)
	assert.Equal(t, "email", v.Column)
}

func TestValidateMissingPrimaryKeyIsInformational(t *testing.T) {
	s := validSchema()
	s.Tables[0].PrimaryKey = ""
	// Keep the FK resolvable against the now-implicit key.
	s.Tables[1].ForeignKeys[0].RefColumn = ""

	result := Validate(s, DefaultLimits())
	assert.True(t, result.Valid(), "missing primary key must not block generation")
	assert.Contains(t, kinds(result), MissingPrimaryKeyCandidate)
}

func TestValidateUnresolvedForeignKeyTable(t *testing.T) {
	s := validSchema()
	s.Tables[1].ForeignKeys[0].RefTable = "missing"

	result := Validate(s, DefaultLimits())
	require.False(t, result.Valid())
	assert.Contains(t, kinds(result), UnresolvedForeignKey)
}

func TestValidateUnresolvedForeignKeyColumn(t *testing.T) {
	s := validSchema()
	s.Tables[1].ForeignKeys[0].RefColumn = "missing"

	result := Validate(s, DefaultLimits())
	require.False(t, result.Valid())
	assert.Contains(t, kinds(result), UnresolvedForeignKey)
}

func TestValidateForeignKeyMustTargetPrimaryKey(t *testing.T) {
	s := validSchema()
	s.Tables[1].ForeignKeys[0].RefColumn = "email"

	result := Validate(s, DefaultLimits())
	require.False(t, result.Valid())
	assert.Contains(t, kinds(result), UnresolvedForeignKey)
}

func TestValidateCyclicDependency(t *testing.T) {
	s := &Schema{
		Tables: []TableSpec{
			{
				Name: "a", Rows: 5, PrimaryKey: "id",
				Columns: []ColumnSpec{
					{Name: "id", Type: "integer"},
					{Name: "x", Type: "integer"},
				},
				ForeignKeys: []ForeignKeySpec{{Column: "x", RefTable: "b", RefColumn: "id"}},
			},
			{
				Name: "b", Rows: 5, PrimaryKey: "id",
				Columns: []ColumnSpec{
					{Name: "id", Type: "integer"},
					{Name: "y", Type: "integer"},
				},
				ForeignKeys: []ForeignKeySpec{{Column: "y", RefTable: "a", RefColumn: "id"}},
			},
		},
	}

	result := Validate(s, DefaultLimits())
	require.False(t, result.Valid())
	assert.Contains(t, kinds(result), CyclicDependency)
}

func TestValidateNullableSelfReferenceAllowed(t *testing.T) {
	s := &Schema{
		Tables: []TableSpec{{
			Name: "employees", Rows: 10, PrimaryKey: "id",
			Columns: []ColumnSpec{
				{Name: "id", Type: "integer"},
				{Name: "manager_id", Type: "integer", Nullable: true},
			},
			ForeignKeys: []ForeignKeySpec{
				{Column: "manager_id", RefTable: "employees", RefColumn: "id"},
			},
		}},
	}

	result := Validate(s, DefaultLimits())
	assert.True(t, result.Valid())
}

func TestValidateNonNullableSelfReferenceRejected(t *testing.T) {
	s := &Schema{
		Tables: []TableSpec{{
			Name: "employees", Rows: 10, PrimaryKey: "id",
			Columns: []ColumnSpec{
				{Name: "id", Type: "integer"},
				{Name: "manager_id", Type: "integer"},
			},
			ForeignKeys: []ForeignKeySpec{
				{Column: "manager_id", RefTable: "employees", RefColumn: "id"},
			},
		}},
	}

	result := Validate(s, DefaultLimits())
	require.False(t, result.Valid())
	assert.Contains(t, kinds(result), InvalidColumnSpec)
}

func TestValidateRowCountOutOfRange(t *testing.T) {
	s := validSchema()
	s.Tables[0].Rows = -1

	result := Validate(s, DefaultLimits())
	require.False(t, result.Valid())
	assert.Contains(t, kinds(result), RowCountOutOfRange)

	s = validSchema()
	s.Tables[0].Rows = 2_000_000
	result = Validate(s, DefaultLimits())
	require.False(t, result.Valid())
	assert.Contains(t, kinds(result), RowCountOutOfRange)
}

func TestValidateZeroRowsAllowed(t *testing.T) {
	s := validSchema()
	s.Tables[0].Rows = 0
	// Make the FK nullable so the empty parent is legal downstream too.
	s.Tables[1].Columns[1].Nullable = true

	result := Validate(s, DefaultLimits())
	assert.True(t, result.Valid())
}

func TestValidateCategoricalRequiresCategories(t *testing.T) {
	s := validSchema()
	s.Tables[0].Columns = append(s.Tables[0].Columns, ColumnSpec{Name: "tier", Type: "categorical"})

	result := Validate(s, DefaultLimits())
	require.False(t, result.Valid())
	assert.Contains(t, kinds(result), InvalidColumnSpec)
}

func TestValidateWeightsMismatch(t *testing.T) {
	s := validSchema()
	s.Tables[0].Columns = append(s.Tables[0].Columns, ColumnSpec{
		Name: "tier", Type: "categorical",
		Categories: []string{"gold", "silver"},
		Weights:    []float64{1},
	})

	result := Validate(s, DefaultLimits())
	require.False(t, result.Valid())
}

func TestValidateNegativeWeightRejected(t *testing.T) {
	s := validSchema()
	s.Tables[0].Columns = append(s.Tables[0].Columns, ColumnSpec{
		Name: "tier", Type: "categorical",
		Categories: []string{"gold", "silver"},
		Weights:    []float64{1, -0.5},
	})

	result := Validate(s, DefaultLimits())
	require.False(t, result.Valid())
	assert.Contains(t, kinds(result), InvalidColumnSpec)
}

func TestValidateNullRatioBounds(t *testing.T) {
	s := validSchema()
	s.Tables[0].Columns[1].NullRatio = 1.5

	result := Validate(s, DefaultLimits())
	require.False(t, result.Valid())
	assert.Contains(t, kinds(result), InvalidColumnSpec)
}

func TestValidateCollectsAllViolationsInCategory(t *testing.T) {
	s := validSchema()
	s.Tables[0].Columns[1].Type = "geometry"
	s.Tables[1].Columns[1].Type = "polygon"

	result := Validate(s, DefaultLimits())
	count := 0
	for _, v := range result.Violations {
		if v.Kind == UnknownColumnType {
			count++
		}
	}
	assert.Equal(t, 2, count, "both unknown types should be reported together")
}

func TestValidateStopsAfterFatalCategory(t *testing.T) {
	// A duplicate table name poisons every later check, so validation
	// stops at category one.
	s := validSchema()
	s.Tables = append(s.Tables, s.Tables[0])
	s.Tables[1].ForeignKeys[0].RefTable = "missing"

	result := Validate(s, DefaultLimits())
	assert.Contains(t, kinds(result), DuplicateTable)
	assert.NotContains(t, kinds(result), UnresolvedForeignKey)
}
