package generator

// Table holds one generated table. It is append-only while its
// generation pass runs and read-only once marked complete; consumers
// (foreign-key sampling, verification, sinks) only see the accessors.
type Table struct {
	name     string
	columns  []string
	rows     [][]interface{}
	pks      []interface{}
	complete bool
}

func newTable(name string, columns []string, capacity int) *Table {
	return &Table{
		name:    name,
		columns: columns,
		rows:    make([][]interface{}, 0, capacity),
		pks:     make([]interface{}, 0, capacity),
	}
}

func (t *Table) appendRow(values []interface{}, pk interface{}) {
	if t.complete {
		panic("append to completed table " + t.name)
	}
	t.rows = append(t.rows, values)
	t.pks = append(t.pks, pk)
}

func (t *Table) markComplete() {
	t.complete = true
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// Columns returns the emitted column names in output order. Callers must
// not mutate the returned slice.
func (t *Table) Columns() []string { return t.columns }

// NumRows returns the number of rows emitted so far.
func (t *Table) NumRows() int { return len(t.rows) }

// Row returns row i's values, aligned with Columns. Callers must not
// mutate the returned slice.
func (t *Table) Row(i int) []interface{} { return t.rows[i] }

// Value returns the value at row i for the named column.
func (t *Table) Value(i int, column string) (interface{}, bool) {
	for c, name := range t.columns {
		if name == column {
			return t.rows[i][c], true
		}
	}
	return nil, false
}

// PrimaryKeys returns every primary-key value emitted so far, in row
// order. For tables without an explicit primary key these are the
// implicit row-index keys. Callers must not mutate the returned slice.
func (t *Table) PrimaryKeys() []interface{} { return t.pks }

// TableSummary reports one table's generated shape.
type TableSummary struct {
	Name    string `json:"name"`
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
}

// Summary mirrors the per-job report the surrounding job layer renders.
type Summary struct {
	Tables       []TableSummary `json:"tables"`
	TotalRows    int            `json:"total_rows"`
	TotalColumns int            `json:"total_columns"`
}

// Result is the sole artifact of a successful run: every generated
// table, the order they were generated in, and the summary.
type Result struct {
	Tables  map[string]*Table
	Order   []string
	Summary Summary
}

func buildSummary(order []string, tables map[string]*Table) Summary {
	s := Summary{}
	for _, name := range order {
		t := tables[name]
		s.Tables = append(s.Tables, TableSummary{
			Name:    t.Name(),
			Rows:    t.NumRows(),
			Columns: len(t.Columns()),
		})
		s.TotalRows += t.NumRows()
		s.TotalColumns += len(t.Columns())
	}
	return s
}
