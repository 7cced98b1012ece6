package sink

import (
	"context"
	"fmt"
	"os"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/dataforge-hq/dataforge/internal/generator"
	"github.com/dataforge-hq/dataforge/internal/schema"
)

// WriteSQLite materializes the result as a standalone SQLite database
// file: one table per generated table, created and filled in dependency
// order inside a single transaction so FK constraints hold throughout.
func WriteSQLite(ctx context.Context, result *generator.Result, s *schema.Schema, path string) error {
	// Start fresh, a previous artifact would make CREATE TABLE fail.
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove existing SQLite file: %w", err)
	}

	db, err := sqlx.ConnectContext(ctx, "sqlite3", path)
	if err != nil {
		return fmt.Errorf("failed to open SQLite file: %w", err)
	}
	defer db.Close()

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, name := range result.Order {
		spec := s.Table(name)
		if _, err := tx.ExecContext(ctx, CreateTableSQL(spec, DialectSQLite)); err != nil {
			return fmt.Errorf("failed to create table %s: %w", name, err)
		}
		if err := insertRows(ctx, tx, result.Tables[name], sq.Question); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit SQLite artifact: %w", err)
	}
	return nil
}

const insertBatchSize = 500

// insertRows writes a table's rows in multi-row INSERT batches built
// with squirrel for the given placeholder style.
func insertRows(ctx context.Context, tx *sqlx.Tx, table *generator.Table, placeholder sq.PlaceholderFormat) error {
	columns := table.Columns()
	if len(columns) == 0 || table.NumRows() == 0 {
		return nil
	}

	for start := 0; start < table.NumRows(); start += insertBatchSize {
		end := start + insertBatchSize
		if end > table.NumRows() {
			end = table.NumRows()
		}

		builder := sq.Insert(table.Name()).Columns(columns...).PlaceholderFormat(placeholder)
		for i := start; i < end; i++ {
			builder = builder.Values(table.Row(i)...)
		}

		query, args, err := builder.ToSql()
		if err != nil {
			return fmt.Errorf("failed to build insert for %s: %w", table.Name(), err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to insert into %s: %w", table.Name(), err)
		}
	}
	return nil
}
