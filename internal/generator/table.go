package generator

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/dataforge-hq/dataforge/internal/schema"
)

// columnPlan is the per-column generation strategy resolved once before
// the row loop.
type columnPlan struct {
	spec      *schema.ColumnSpec
	ctype     schema.ColumnType
	isPK      bool
	fk        *schema.ForeignKeySpec
	selfRef   bool
	pool      []interface{} // parent primary keys, nil for self-references
	allNull   bool          // nullable FK over an empty parent
	nullRatio float64
	unique    map[string]struct{}
}

// generateTable produces every row of one table. parents holds the
// completed tables this one depends on; rng is the table's own seeded
// generator. progress, when non-nil, is invoked with the number of rows
// emitted so far at chunk boundaries.
func generateTable(spec *schema.TableSpec, parents map[string]*Table, rng *rand.Rand, opts *Options, progress func(rows int)) (*Table, error) {
	synth := newSynthesizer(rng, opts.DateStart, opts.DateEnd)

	columns := make([]string, len(spec.Columns))
	for i := range spec.Columns {
		columns[i] = spec.Columns[i].Name
	}

	plans, err := planColumns(spec, parents, opts)
	if err != nil {
		return nil, err
	}

	table := newTable(spec.Name, columns, spec.Rows)

	var walk *timeseriesWalk
	if isTimeseries(columns) {
		walk = newTimeseriesWalk(rng, opts.DateEnd, spec.Rows)
	}

	chunk := spec.Rows / 20
	if chunk < 10000 {
		chunk = 10000
	}

	for i := 0; i < spec.Rows; i++ {
		var derived map[string]interface{}
		if walk != nil {
			derived = walk.row(i)
		}

		values := make([]interface{}, len(plans))
		var pk interface{} = int64(i + 1) // implicit row-index key

		for c := range plans {
			v, err := generateValue(&plans[c], spec, table, synth, rng, opts, i, derived)
			if err != nil {
				return nil, err
			}
			values[c] = v
			if plans[c].isPK {
				pk = v
			}
		}

		table.appendRow(values, pk)

		if progress != nil && (i+1)%chunk == 0 {
			progress(i + 1)
		}
	}

	table.markComplete()
	return table, nil
}

// planColumns resolves each column's strategy and samples pools up
// front, surfacing EmptyParentTable before any row is generated.
func planColumns(spec *schema.TableSpec, parents map[string]*Table, opts *Options) ([]columnPlan, error) {
	plans := make([]columnPlan, len(spec.Columns))
	for i := range spec.Columns {
		col := &spec.Columns[i]
		ctype, _ := col.SemanticType()

		plan := columnPlan{
			spec:      col,
			ctype:     ctype,
			isPK:      spec.PrimaryKey == col.Name,
			nullRatio: effectiveNullRatio(col, *opts.NullRatio),
		}

		if fk := spec.ForeignKey(col.Name); fk != nil {
			plan.fk = fk
			if fk.RefTable == spec.Name {
				plan.selfRef = true
				plan.nullRatio = col.NullRatio
				if plan.nullRatio == 0 {
					plan.nullRatio = *opts.SelfRefNullRatio
				}
			} else {
				parent := parents[fk.RefTable]
				if parent == nil || len(parent.PrimaryKeys()) == 0 {
					if !col.IsNullable() {
						return nil, &EmptyParentTableError{
							Table:    spec.Name,
							Column:   col.Name,
							RefTable: fk.RefTable,
						}
					}
					plan.allNull = true
				} else {
					plan.pool = parent.PrimaryKeys()
				}
			}
		}

		if col.Unique || plan.isPK {
			plan.unique = make(map[string]struct{}, spec.Rows)
		}

		plans[i] = plan
	}
	return plans, nil
}

func effectiveNullRatio(col *schema.ColumnSpec, fallback float64) float64 {
	if col.NullRatio > 0 {
		return col.NullRatio
	}
	if col.Nullable {
		return fallback
	}
	return 0
}

func generateValue(plan *columnPlan, spec *schema.TableSpec, table *Table, synth *synthesizer, rng *rand.Rand, opts *Options, row int, derived map[string]interface{}) (interface{}, error) {
	switch {
	case plan.fk != nil && plan.selfRef:
		return selfRefValue(plan, table, rng, row), nil

	case plan.fk != nil:
		if plan.allNull {
			return nil, nil
		}
		if plan.nullRatio > 0 && rng.Float64() < plan.nullRatio {
			return nil, nil
		}
		return plan.pool[rng.Intn(len(plan.pool))], nil

	case plan.isPK:
		return primaryKeyValue(plan, spec, synth, opts, row)
	}

	if derived != nil {
		if v, ok := derived[strings.ToLower(plan.spec.Name)]; ok {
			return v, nil
		}
	}

	if plan.nullRatio > 0 && rng.Float64() < plan.nullRatio {
		return nil, nil
	}

	if plan.unique != nil {
		return uniqueValue(plan, spec, synth, opts, row)
	}

	return synth.value(plan.spec, plan.ctype), nil
}

// selfRefValue only ever points at rows already emitted in this pass.
// Row 0 is always null so the table has at least one root.
func selfRefValue(plan *columnPlan, table *Table, rng *rand.Rand, row int) interface{} {
	if row == 0 {
		return nil
	}
	if rng.Float64() < plan.nullRatio {
		return nil
	}
	earlier := table.PrimaryKeys()
	return earlier[rng.Intn(len(earlier))]
}

// primaryKeyValue keeps keys unique within the table. Integer keys count
// up from 1, uuid keys come off the table RNG, anything else goes
// through uniqueness-checked synthesis.
func primaryKeyValue(plan *columnPlan, spec *schema.TableSpec, synth *synthesizer, opts *Options, row int) (interface{}, error) {
	switch plan.ctype {
	case schema.TypeInteger:
		return int64(row + 1), nil
	case schema.TypeUUID:
		return synth.uuid(), nil
	default:
		return uniqueValue(plan, spec, synth, opts, row)
	}
}

func uniqueValue(plan *columnPlan, spec *schema.TableSpec, synth *synthesizer, opts *Options, row int) (interface{}, error) {
	retries := opts.UniqueRetries
	if retries <= 0 {
		retries = 100
	}
	for attempt := 0; attempt < retries; attempt++ {
		v := synth.value(plan.spec, plan.ctype)
		key := fmt.Sprint(v)
		if _, taken := plan.unique[key]; !taken {
			plan.unique[key] = struct{}{}
			return v, nil
		}
	}
	return nil, &UniquenessExhaustedError{
		Table:    spec.Name,
		Column:   plan.spec.Name,
		Row:      row,
		Attempts: retries,
	}
}
