package sink

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/dataforge-hq/dataforge/internal/generator"
	"github.com/dataforge-hq/dataforge/internal/schema"
)

// Load writes the result into a live database selected by provider.
// Tables are created and filled in dependency order so every FK
// constraint is satisfiable at insert time.
func Load(ctx context.Context, provider, url string, result *generator.Result, s *schema.Schema) error {
	switch provider {
	case "postgresql", "postgres":
		return LoadPostgres(ctx, url, result, s)
	case "mysql":
		return loadSQL(ctx, "mysql", url, DialectMySQL, sq.Question, result, s)
	case "sqlite", "sqlite3":
		return loadSQL(ctx, "sqlite3", url, DialectSQLite, sq.Question, result, s)
	default:
		return fmt.Errorf("unsupported database provider: %s", provider)
	}
}

// LoadPostgres loads the result through a pgx pool.
func LoadPostgres(ctx context.Context, url string, result *generator.Result, s *schema.Schema) error {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer pool.Close()

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, name := range result.Order {
		spec := s.Table(name)
		if _, err := tx.Exec(ctx, CreateTableSQL(spec, DialectPostgres)); err != nil {
			return fmt.Errorf("failed to create table %s: %w", name, err)
		}

		table := result.Tables[name]
		columns := table.Columns()
		if len(columns) == 0 {
			continue
		}
		for start := 0; start < table.NumRows(); start += insertBatchSize {
			end := start + insertBatchSize
			if end > table.NumRows() {
				end = table.NumRows()
			}
			builder := sq.Insert(name).Columns(columns...).PlaceholderFormat(sq.Dollar)
			for i := start; i < end; i++ {
				builder = builder.Values(table.Row(i)...)
			}
			query, args, err := builder.ToSql()
			if err != nil {
				return fmt.Errorf("failed to build insert for %s: %w", name, err)
			}
			if _, err := tx.Exec(ctx, query, args...); err != nil {
				return fmt.Errorf("failed to insert into %s: %w", name, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit load: %w", err)
	}
	return nil
}

// loadSQL covers the database/sql providers via sqlx.
func loadSQL(ctx context.Context, driver, url string, dialect Dialect, placeholder sq.PlaceholderFormat, result *generator.Result, s *schema.Schema) error {
	db, err := sqlx.ConnectContext(ctx, driver, url)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", driver, err)
	}
	defer db.Close()

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, name := range result.Order {
		spec := s.Table(name)
		if _, err := tx.ExecContext(ctx, CreateTableSQL(spec, dialect)); err != nil {
			return fmt.Errorf("failed to create table %s: %w", name, err)
		}
		if err := insertRows(ctx, tx, result.Tables[name], placeholder); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit load: %w", err)
	}
	return nil
}
