package generator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dataforge-hq/dataforge/internal/schema"
)

// ErrCyclicDependency is returned by the orderer when a cycle survives
// validation. Reaching it means the validator and orderer disagree, so it
// is a defect signal rather than a user-facing schema error.
var ErrCyclicDependency = errors.New("cyclic dependency between tables")

// EmptyParentTableError reports a non-nullable foreign key whose parent
// table produced zero rows, leaving nothing to sample.
type EmptyParentTableError struct {
	Table    string
	Column   string
	RefTable string
}

func (e *EmptyParentTableError) Error() string {
	return fmt.Sprintf("table %s: foreign key column %s has no values to sample, referenced table %s is empty",
		e.Table, e.Column, e.RefTable)
}

// UniquenessExhaustedError reports a unique column whose value space is
// too small for the requested row count.
type UniquenessExhaustedError struct {
	Table    string
	Column   string
	Row      int
	Attempts int
}

func (e *UniquenessExhaustedError) Error() string {
	return fmt.Sprintf("table %s: could not generate a unique value for column %s at row %d after %d attempts",
		e.Table, e.Column, e.Row, e.Attempts)
}

// ValidationError wraps the validator's findings when Run is handed a
// schema with fatal violations.
type ValidationError struct {
	Result *schema.ValidationResult
}

func (e *ValidationError) Error() string {
	return e.Result.Error().Error()
}

// IntegrityViolation is one finding from the post-generation verification
// pass. Any occurrence indicates a defect in the generator itself, so it
// carries enough context to debug, not to recover.
type IntegrityViolation struct {
	Table   string      `json:"table"`
	Row     int         `json:"row"`
	Column  string      `json:"column,omitempty"`
	Value   interface{} `json:"value,omitempty"`
	Message string      `json:"message"`
}

func (v IntegrityViolation) String() string {
	loc := v.Table
	if v.Column != "" {
		loc += "." + v.Column
	}
	return fmt.Sprintf("%s row %d: %s", loc, v.Row, v.Message)
}

// IntegrityError aggregates verification findings into a fatal error.
type IntegrityError struct {
	Violations []IntegrityViolation
}

func (e *IntegrityError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.String()
	}
	return fmt.Sprintf("integrity verification failed: %s", strings.Join(msgs, "; "))
}
