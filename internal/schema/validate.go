package schema

import (
	"fmt"
	"regexp"
	"strings"
)

// ViolationKind classifies a single schema violation.
type ViolationKind string

const (
	EmptySchema                ViolationKind = "EmptySchema"
	SchemaTooLarge             ViolationKind = "SchemaTooLarge"
	DuplicateTable             ViolationKind = "DuplicateTable"
	DuplicateColumn            ViolationKind = "DuplicateColumn"
	UnknownColumnType          ViolationKind = "UnknownColumnType"
	InvalidColumnSpec          ViolationKind = "InvalidColumnSpec"
	MissingPrimaryKeyCandidate ViolationKind = "MissingPrimaryKeyCandidate"
	UnresolvedForeignKey       ViolationKind = "UnresolvedForeignKey"
	CyclicDependency           ViolationKind = "CyclicDependency"
	RowCountOutOfRange         ViolationKind = "RowCountOutOfRange"
)

// Informational reports whether the kind never blocks generation.
// MissingPrimaryKeyCandidate only signals that the implicit row-index
// key will be used.
func (k ViolationKind) Informational() bool {
	return k == MissingPrimaryKeyCandidate
}

// Violation is one structured finding from Validate.
type Violation struct {
	Table   string        `json:"table"`
	Column  string        `json:"column,omitempty"`
	Kind    ViolationKind `json:"kind"`
	Message string        `json:"message"`
}

func (v Violation) String() string {
	loc := v.Table
	if v.Column != "" {
		loc += "." + v.Column
	}
	return fmt.Sprintf("%s [%s]: %s", loc, v.Kind, v.Message)
}

// ValidationResult collects everything Validate found.
type ValidationResult struct {
	Violations []Violation `json:"violations"`
}

// Valid reports whether generation may proceed.
func (r *ValidationResult) Valid() bool {
	return len(r.Fatal()) == 0
}

// Fatal returns the violations that block generation.
func (r *ValidationResult) Fatal() []Violation {
	var fatal []Violation
	for _, v := range r.Violations {
		if !v.Kind.Informational() {
			fatal = append(fatal, v)
		}
	}
	return fatal
}

// Error renders all fatal violations as a single error, or nil.
func (r *ValidationResult) Error() error {
	fatal := r.Fatal()
	if len(fatal) == 0 {
		return nil
	}
	msgs := make([]string, len(fatal))
	for i, v := range fatal {
		msgs[i] = v.String()
	}
	return fmt.Errorf("schema validation failed: %s", strings.Join(msgs, "; "))
}

func (r *ValidationResult) add(table, column string, kind ViolationKind, format string, args ...interface{}) {
	r.Violations = append(r.Violations, Violation{
		Table:   table,
		Column:  column,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	})
}

// hasFatal reports whether any violation recorded so far blocks generation.
func (r *ValidationResult) hasFatal() bool {
	return len(r.Fatal()) > 0
}

// Limits caps schema size to protect against pathological requests.
type Limits struct {
	MaxTables          int
	MaxColumnsPerTable int
	MaxRowsPerTable    int
}

// DefaultLimits mirrors the backend settings this generator was sized for.
func DefaultLimits() Limits {
	return Limits{
		MaxTables:          50,
		MaxColumnsPerTable: 200,
		MaxRowsPerTable:    1_000_000,
	}
}

// validIdentifier restricts table and column names so downstream SQL
// sinks can interpolate them safely.
var validIdentifier = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Validate runs the category-ordered structural checks. All violations
// within a category are collected; a category with fatal findings stops
// the later categories, since they assume the earlier invariants hold.
func Validate(s *Schema, limits Limits) *ValidationResult {
	result := &ValidationResult{}

	validateTableNames(s, limits, result)
	if result.hasFatal() {
		return result
	}

	for i := range s.Tables {
		validateColumns(&s.Tables[i], limits, result)
	}
	if result.hasFatal() {
		return result
	}

	for i := range s.Tables {
		validateForeignKeys(s, &s.Tables[i], result)
	}
	if result.hasFatal() {
		return result
	}

	validateAcyclic(s, result)
	if result.hasFatal() {
		return result
	}

	for i := range s.Tables {
		t := &s.Tables[i]
		// Zero rows is allowed: an empty parent fails at generation time
		// with EmptyParentTable only when something non-nullable samples it.
		if t.Rows < 0 || t.Rows > limits.MaxRowsPerTable {
			result.add(t.Name, "", RowCountOutOfRange,
				"row count %d outside [0, %d]", t.Rows, limits.MaxRowsPerTable)
		}
	}

	return result
}

func validateTableNames(s *Schema, limits Limits, result *ValidationResult) {
	if len(s.Tables) == 0 {
		result.add("", "", EmptySchema, "schema contains no tables")
		return
	}
	if limits.MaxTables > 0 && len(s.Tables) > limits.MaxTables {
		result.add("", "", SchemaTooLarge,
			"schema has %d tables, maximum is %d", len(s.Tables), limits.MaxTables)
	}

	seen := make(map[string]bool)
	for i := range s.Tables {
		name := s.Tables[i].Name
		if !validIdentifier.MatchString(name) {
			result.add(name, "", InvalidColumnSpec, "invalid table name %q", name)
			continue
		}
		if seen[name] {
			result.add(name, "", DuplicateTable, "table %q declared more than once", name)
		}
		seen[name] = true
	}
}

func validateColumns(t *TableSpec, limits Limits, result *ValidationResult) {
	if len(t.Columns) == 0 {
		result.add(t.Name, "", InvalidColumnSpec, "table has no columns")
		return
	}
	if limits.MaxColumnsPerTable > 0 && len(t.Columns) > limits.MaxColumnsPerTable {
		result.add(t.Name, "", SchemaTooLarge,
			"table has %d columns, maximum is %d", len(t.Columns), limits.MaxColumnsPerTable)
	}

	seen := make(map[string]bool)
	for i := range t.Columns {
		col := &t.Columns[i]
		if !validIdentifier.MatchString(col.Name) {
			result.add(t.Name, col.Name, InvalidColumnSpec, "invalid column name %q", col.Name)
			continue
		}
		if seen[col.Name] {
			result.add(t.Name, col.Name, DuplicateColumn,
				"column %q declared more than once", col.Name)
		}
		seen[col.Name] = true

		ctype, known := col.SemanticType()
		if !known {
			result.add(t.Name, col.Name, UnknownColumnType, "unknown column type %q", col.Type)
			continue
		}

		if col.NullRatio < 0 || col.NullRatio > 1 {
			result.add(t.Name, col.Name, InvalidColumnSpec,
				"null_ratio %v outside [0, 1]", col.NullRatio)
		}
		if ctype == TypeCategorical && len(col.Categories) == 0 {
			result.add(t.Name, col.Name, InvalidColumnSpec,
				"categorical column declares no categories")
		}
		if len(col.Weights) > 0 && len(col.Weights) != len(col.Categories) {
			result.add(t.Name, col.Name, InvalidColumnSpec,
				"weights count %d does not match categories count %d",
				len(col.Weights), len(col.Categories))
		}
		for _, w := range col.Weights {
			if w < 0 {
				result.add(t.Name, col.Name, InvalidColumnSpec,
					"negative category weight %v", w)
				break
			}
		}
		if col.Range != nil && col.Range.Min > col.Range.Max {
			result.add(t.Name, col.Name, InvalidColumnSpec,
				"range min %v exceeds max %v", col.Range.Min, col.Range.Max)
		}
	}

	if t.PrimaryKey != "" {
		if t.Column(t.PrimaryKey) == nil {
			result.add(t.Name, t.PrimaryKey, InvalidColumnSpec,
				"declared primary key %q is not among the columns", t.PrimaryKey)
		}
	} else {
		result.add(t.Name, "", MissingPrimaryKeyCandidate,
			"no primary key declared, implicit row index will be used")
	}

	for i := range t.ForeignKeys {
		fk := &t.ForeignKeys[i]
		if t.Column(fk.Column) == nil {
			result.add(t.Name, fk.Column, InvalidColumnSpec,
				"foreign key names column %q which does not exist", fk.Column)
			continue
		}
		if fk.RefTable == t.Name && !t.Column(fk.Column).IsNullable() {
			result.add(t.Name, fk.Column, InvalidColumnSpec,
				"self-referencing column must be nullable")
		}
	}
}

func validateForeignKeys(s *Schema, t *TableSpec, result *ValidationResult) {
	for i := range t.ForeignKeys {
		fk := &t.ForeignKeys[i]
		parent := s.Table(fk.RefTable)
		if parent == nil {
			result.add(t.Name, fk.Column, UnresolvedForeignKey,
				"references table %q which does not exist", fk.RefTable)
			continue
		}
		if fk.RefColumn == "" {
			// Implicit row-index key: only valid when the parent declares
			// no primary key of its own.
			if parent.HasExplicitPK() {
				result.add(t.Name, fk.Column, UnresolvedForeignKey,
					"references table %q without naming a column, but %q declares primary key %q",
					fk.RefTable, fk.RefTable, parent.PrimaryKey)
			}
			continue
		}
		if parent.Column(fk.RefColumn) == nil {
			result.add(t.Name, fk.Column, UnresolvedForeignKey,
				"references column %q which does not exist in table %q",
				fk.RefColumn, fk.RefTable)
			continue
		}
		if parent.PrimaryKey != fk.RefColumn {
			result.add(t.Name, fk.Column, UnresolvedForeignKey,
				"references %s.%s which is not that table's primary key",
				fk.RefTable, fk.RefColumn)
		}
	}
}

// validateAcyclic runs a DFS over the child-to-parent edges, excluding
// self-references, which are resolved intra-table during generation.
func validateAcyclic(s *Schema, result *ValidationResult) {
	visited := make(map[string]bool)
	onStack := make(map[string]bool)

	var visit func(name string, path []string) bool
	visit = func(name string, path []string) bool {
		if onStack[name] {
			result.add(name, "", CyclicDependency,
				"cyclic foreign-key dependency: %s", strings.Join(append(path, name), " -> "))
			return false
		}
		if visited[name] {
			return true
		}
		onStack[name] = true
		if t := s.Table(name); t != nil {
			for _, dep := range t.Dependencies() {
				if s.Table(dep) == nil {
					continue
				}
				if !visit(dep, append(path, name)) {
					onStack[name] = false
					return false
				}
			}
		}
		onStack[name] = false
		visited[name] = true
		return true
	}

	for i := range s.Tables {
		visit(s.Tables[i].Name, nil)
	}
}
