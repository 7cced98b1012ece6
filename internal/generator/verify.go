package generator

import (
	"fmt"

	"github.com/dataforge-hq/dataforge/internal/schema"
)

// VerificationResult holds the findings of the post-generation pass.
type VerificationResult struct {
	Violations []IntegrityViolation
}

// OK reports whether the result passed every check.
func (r *VerificationResult) OK() bool {
	return len(r.Violations) == 0
}

func (r *VerificationResult) add(table string, row int, column string, value interface{}, format string, args ...interface{}) {
	r.Violations = append(r.Violations, IntegrityViolation{
		Table:   table,
		Row:     row,
		Column:  column,
		Value:   value,
		Message: fmt.Sprintf(format, args...),
	})
}

// Verify is the read-only safety net run after all tables are
// generated: exact row counts, primary-key uniqueness, and foreign-key
// membership in the referenced parent. Generation is expected to never
// produce a violation; any finding is a generator defect.
func Verify(result *Result, s *schema.Schema) *VerificationResult {
	vr := &VerificationResult{}

	// Walk tables in generation order so violations, and the message of
	// any IntegrityError built from them, come out in a stable order.
	pkSets := make(map[string]map[string]struct{}, len(result.Tables))
	for _, name := range result.Order {
		table := result.Tables[name]
		if table == nil {
			continue
		}
		set := make(map[string]struct{}, len(table.PrimaryKeys()))
		for i, pk := range table.PrimaryKeys() {
			key := fmt.Sprint(pk)
			if _, dup := set[key]; dup {
				column := ""
				if spec := s.Table(name); spec != nil {
					column = spec.PrimaryKey
				}
				vr.add(name, i, column, pk, "duplicate primary key value %v", pk)
			}
			set[key] = struct{}{}
		}
		pkSets[name] = set
	}

	for i := range s.Tables {
		spec := &s.Tables[i]
		table := result.Tables[spec.Name]
		if table == nil {
			vr.add(spec.Name, 0, "", nil, "table missing from result")
			continue
		}
		if table.NumRows() != spec.Rows {
			vr.add(spec.Name, table.NumRows(), "", nil,
				"generated %d rows, expected %d", table.NumRows(), spec.Rows)
		}

		for f := range spec.ForeignKeys {
			fk := &spec.ForeignKeys[f]
			verifyForeignKey(vr, spec, fk, table, pkSets[fk.RefTable])
		}
	}

	return vr
}

func verifyForeignKey(vr *VerificationResult, spec *schema.TableSpec, fk *schema.ForeignKeySpec, table *Table, parentPKs map[string]struct{}) {
	col := spec.Column(fk.Column)
	nullable := col != nil && col.IsNullable()

	for i := 0; i < table.NumRows(); i++ {
		v, ok := table.Value(i, fk.Column)
		if !ok {
			vr.add(spec.Name, i, fk.Column, nil, "foreign key column missing from row")
			return
		}
		if v == nil {
			if !nullable {
				vr.add(spec.Name, i, fk.Column, nil, "null in non-nullable foreign key")
			}
			continue
		}
		if _, found := parentPKs[fmt.Sprint(v)]; !found {
			vr.add(spec.Name, i, fk.Column, v,
				"value %v not present among %s primary keys", v, fk.RefTable)
		}
	}
}
