package sink

import (
	"fmt"
	"strings"

	"github.com/dataforge-hq/dataforge/internal/schema"
)

// Dialect selects the SQL flavor of the generated DDL.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectMySQL    Dialect = "mysql"
	DialectSQLite   Dialect = "sqlite"
)

// columnSQLType maps a semantic column type onto a storage type for the
// target dialect. Semantic detail (email vs string) is flattened to the
// underlying storage class.
func columnSQLType(ctype schema.ColumnType, d Dialect) string {
	switch ctype {
	case schema.TypeInteger:
		if d == DialectPostgres {
			return "BIGINT"
		}
		return "INTEGER"
	case schema.TypeFloat:
		if d == DialectSQLite {
			return "REAL"
		}
		return "DOUBLE PRECISION"
	case schema.TypeBoolean:
		switch d {
		case DialectPostgres:
			return "BOOLEAN"
		case DialectMySQL:
			return "TINYINT(1)"
		default:
			return "INTEGER"
		}
	case schema.TypeText:
		return "TEXT"
	case schema.TypeDate:
		if d == DialectSQLite {
			return "TEXT"
		}
		return "DATE"
	case schema.TypeDatetime:
		switch d {
		case DialectPostgres:
			return "TIMESTAMP"
		case DialectMySQL:
			return "DATETIME"
		default:
			return "TEXT"
		}
	case schema.TypeUUID:
		if d == DialectPostgres {
			return "UUID"
		}
		return "VARCHAR(36)"
	default:
		if d == DialectSQLite {
			return "TEXT"
		}
		return "VARCHAR(255)"
	}
}

// CreateTableSQL renders CREATE TABLE for one table spec, including the
// primary-key and foreign-key constraints the generated data satisfies.
func CreateTableSQL(t *schema.TableSpec, d Dialect) string {
	var defs []string
	for i := range t.Columns {
		col := &t.Columns[i]
		ctype, _ := col.SemanticType()

		def := fmt.Sprintf("%s %s", col.Name, columnSQLType(ctype, d))
		if t.PrimaryKey == col.Name {
			def += " PRIMARY KEY"
		} else if !col.IsNullable() {
			def += " NOT NULL"
		}
		if col.Unique && t.PrimaryKey != col.Name {
			def += " UNIQUE"
		}
		defs = append(defs, def)
	}

	for i := range t.ForeignKeys {
		fk := &t.ForeignKeys[i]
		ref := fk.RefColumn
		if ref == "" {
			// Implicit row-index keys have no parent column to constrain.
			continue
		}
		defs = append(defs, fmt.Sprintf("FOREIGN KEY (%s) REFERENCES %s(%s)",
			fk.Column, fk.RefTable, ref))
	}

	return fmt.Sprintf("CREATE TABLE %s (\n  %s\n)", t.Name, strings.Join(defs, ",\n  "))
}
