package schema

import (
	"strings"
)

// ColumnType is the closed set of semantic types a column can hold.
// Unknown types are rejected at validation time, never at generation time.
type ColumnType string

const (
	TypeInteger     ColumnType = "integer"
	TypeFloat       ColumnType = "float"
	TypeString      ColumnType = "string"
	TypeText        ColumnType = "text"
	TypeEmail       ColumnType = "email"
	TypePhone       ColumnType = "phone"
	TypeName        ColumnType = "name"
	TypeFirstName   ColumnType = "first_name"
	TypeLastName    ColumnType = "last_name"
	TypeAddress     ColumnType = "address"
	TypeDate        ColumnType = "date"
	TypeDatetime    ColumnType = "datetime"
	TypeBoolean     ColumnType = "boolean"
	TypeURL         ColumnType = "url"
	TypeUUID        ColumnType = "uuid"
	TypeCategorical ColumnType = "categorical"
)

// typeAliases maps accepted spellings to canonical types.
var typeAliases = map[string]ColumnType{
	"int":       TypeInteger,
	"integer":   TypeInteger,
	"bigint":    TypeInteger,
	"float":     TypeFloat,
	"double":    TypeFloat,
	"decimal":   TypeFloat,
	"numeric":   TypeFloat,
	"string":    TypeString,
	"varchar":   TypeString,
	"text":      TypeText,
	"email":     TypeEmail,
	"phone":     TypePhone,
	"name":      TypeName,
	"full_name": TypeName,
	"firstname": TypeFirstName,
	"lastname":  TypeLastName,
	"address":   TypeAddress,
	"date":      TypeDate,
	"datetime":  TypeDatetime,
	"timestamp": TypeDatetime,
	"bool":      TypeBoolean,
	"boolean":   TypeBoolean,
	"url":       TypeURL,
	"link":      TypeURL,
	"uuid":      TypeUUID,
	"category":  TypeCategorical,
}

// NormalizeType resolves a raw type string to its canonical ColumnType.
// The second return is false when the type is not in the closed set.
func NormalizeType(raw string) (ColumnType, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.ReplaceAll(key, "-", "_")
	if t, ok := typeAliases[key]; ok {
		return t, true
	}
	if t, ok := typeAliases[strings.ReplaceAll(key, "_", "")]; ok {
		return t, true
	}
	t := ColumnType(key)
	switch t {
	case TypeFirstName, TypeLastName, TypeCategorical:
		return t, true
	}
	return "", false
}

// NumericRange bounds integer and float columns.
type NumericRange struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// DateRange bounds date and datetime columns, values in "2006-01-02" form.
type DateRange struct {
	Start string `json:"start" yaml:"start"`
	End   string `json:"end" yaml:"end"`
}

// ColumnSpec describes one column to synthesize.
type ColumnSpec struct {
	Name       string        `json:"name" yaml:"name"`
	Type       string        `json:"type" yaml:"type"`
	Unique     bool          `json:"unique,omitempty" yaml:"unique,omitempty"`
	Nullable   bool          `json:"nullable,omitempty" yaml:"nullable,omitempty"`
	NullRatio  float64       `json:"null_ratio,omitempty" yaml:"null_ratio,omitempty"`
	Categories []string      `json:"categories,omitempty" yaml:"categories,omitempty"`
	Weights    []float64     `json:"weights,omitempty" yaml:"weights,omitempty"`
	Range      *NumericRange `json:"range,omitempty" yaml:"range,omitempty"`
	DateRange  *DateRange    `json:"date_range,omitempty" yaml:"date_range,omitempty"`
}

// SemanticType returns the canonical type, defaulting to string when unset.
func (c *ColumnSpec) SemanticType() (ColumnType, bool) {
	if strings.TrimSpace(c.Type) == "" {
		return TypeString, true
	}
	return NormalizeType(c.Type)
}

// IsNullable reports whether the column may emit nulls at all.
func (c *ColumnSpec) IsNullable() bool {
	return c.Nullable || c.NullRatio > 0
}

// ForeignKeySpec names a column whose values must come from the referenced
// parent's primary keys. RefColumn may be empty when the parent uses the
// implicit row-index key.
type ForeignKeySpec struct {
	Column    string `json:"column" yaml:"column"`
	RefTable  string `json:"ref_table" yaml:"ref_table"`
	RefColumn string `json:"ref_column,omitempty" yaml:"ref_column,omitempty"`
}

// TableSpec describes one table to generate.
type TableSpec struct {
	Name        string           `json:"name" yaml:"name"`
	Rows        int              `json:"rows" yaml:"rows"`
	PrimaryKey  string           `json:"primary_key,omitempty" yaml:"primary_key,omitempty"`
	Columns     []ColumnSpec     `json:"columns" yaml:"columns"`
	ForeignKeys []ForeignKeySpec `json:"foreign_keys,omitempty" yaml:"foreign_keys,omitempty"`
}

// Column returns the named column spec, or nil.
func (t *TableSpec) Column(name string) *ColumnSpec {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

// ForeignKey returns the FK spec covering the named column, or nil.
func (t *TableSpec) ForeignKey(column string) *ForeignKeySpec {
	for i := range t.ForeignKeys {
		if t.ForeignKeys[i].Column == column {
			return &t.ForeignKeys[i]
		}
	}
	return nil
}

// Dependencies returns the distinct parent tables this table references,
// excluding self-references, in FK declaration order.
func (t *TableSpec) Dependencies() []string {
	seen := make(map[string]bool)
	var deps []string
	for _, fk := range t.ForeignKeys {
		if fk.RefTable == t.Name || seen[fk.RefTable] {
			continue
		}
		seen[fk.RefTable] = true
		deps = append(deps, fk.RefTable)
	}
	return deps
}

// HasExplicitPK reports whether a primary key column is declared. Without
// one the generator keys rows by an implicit row index that is never
// emitted as a column.
func (t *TableSpec) HasExplicitPK() bool {
	return t.PrimaryKey != ""
}

// Schema is the root document: an ordered collection of tables plus an
// optional seed baked into the file itself.
type Schema struct {
	Seed   *int64      `json:"seed,omitempty" yaml:"seed,omitempty"`
	Tables []TableSpec `json:"tables" yaml:"tables"`
}

// Table returns the named table spec, or nil.
func (s *Schema) Table(name string) *TableSpec {
	for i := range s.Tables {
		if s.Tables[i].Name == name {
			return &s.Tables[i]
		}
	}
	return nil
}
