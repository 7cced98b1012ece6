package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dataforge-hq/dataforge/internal/config"
	"github.com/dataforge-hq/dataforge/internal/generator"
	"github.com/dataforge-hq/dataforge/internal/schema"
	"github.com/dataforge-hq/dataforge/internal/sink"
)

var (
	genSchemaFile string
	genOutputDir  string
	genFormat     string
	genSeed       int64
	genWorkers    int
	genProfile    bool
	genLoadDB     bool
	genVerbose    bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate synthetic data from a schema file",
	Long: `Generate a synthetic dataset from a YAML or JSON schema file.

Tables are generated in foreign-key dependency order and verified for
referential integrity before anything is written. The same schema and
seed always produce the same data.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		s, err := schema.Load(genSchemaFile)
		if err != nil {
			return err
		}

		seed := resolveSeed(cmd, s)
		eng, err := buildEngine(cfg, seed)
		if err != nil {
			return err
		}

		color.Cyan("🔨 Generating data (seed %d)...", seed)
		result, err := eng.Run(context.Background(), s, seed)
		if err != nil {
			var verr *generator.ValidationError
			if errors.As(err, &verr) {
				printViolations(verr.Result)
			}
			return fmt.Errorf("generation failed: %w", err)
		}

		for _, t := range result.Summary.Tables {
			color.Green("  ✅ %s: %d rows, %d columns", t.Name, t.Rows, t.Columns)
		}

		outDir := genOutputDir
		if outDir == "" {
			outDir = cfg.OutputDir
		}
		format := genFormat
		if format == "" {
			format = cfg.Format
		}

		if err := writeArtifacts(result, s, outDir, format); err != nil {
			return err
		}

		if genLoadDB {
			dbURL, err := cfg.GetDatabaseURL()
			if err != nil {
				return err
			}
			color.Cyan("🔌 Loading into %s database...", cfg.Database.Provider)
			if err := sink.Load(context.Background(), cfg.Database.Provider, dbURL, result, s); err != nil {
				return fmt.Errorf("database load failed: %w", err)
			}
			color.Green("✅ Database loaded")
		}

		if genProfile {
			printProfiles(result)
		}

		color.Green("\n✅ Generated %d rows across %d tables", result.Summary.TotalRows, len(result.Summary.Tables))
		return nil
	},
}

// resolveSeed prefers the --seed flag, then the seed baked into the
// schema file, then zero.
func resolveSeed(cmd *cobra.Command, s *schema.Schema) int64 {
	if cmd.Flags().Changed("seed") {
		return genSeed
	}
	if s.Seed != nil {
		return *s.Seed
	}
	return 0
}

func buildEngine(cfg *config.Config, seed int64) (*generator.Engine, error) {
	dateStart, dateEnd, err := cfg.DateWindow()
	if err != nil {
		return nil, err
	}

	logger := zap.NewNop()
	if genVerbose {
		logger, err = zap.NewDevelopment()
		if err != nil {
			return nil, fmt.Errorf("failed to build logger: %w", err)
		}
	}

	workers := genWorkers
	if workers == 0 {
		workers = cfg.Generation.Workers
	}

	return generator.New(generator.Options{
		Limits:           cfg.SchemaLimits(),
		NullRatio:        &cfg.Generation.NullRatio,
		SelfRefNullRatio: &cfg.Generation.SelfRefNullRatio,
		UniqueRetries:    cfg.Generation.UniqueRetries,
		DateStart:        dateStart,
		DateEnd:          dateEnd,
		Workers:          workers,
		Logger:           logger,
		OnProgress: func(p generator.Progress) {
			if p.RowsDone > 0 && p.RowsDone < p.TotalRows {
				color.Cyan("  📊 Generating table %d/%d: %s (%d/%d rows)",
					p.TableIndex+1, p.TotalTables, p.Table, p.RowsDone, p.TotalRows)
			}
		},
	}), nil
}

func writeArtifacts(result *generator.Result, s *schema.Schema, outDir, format string) error {
	switch format {
	case "csv":
		paths, err := sink.WriteCSV(result, outDir)
		if err != nil {
			return err
		}
		if _, err := sink.WriteJSONPreviews(result, outDir, 100); err != nil {
			return err
		}
		if err := schema.Save(s, filepath.Join(outDir, "schema.json")); err != nil {
			return err
		}
		color.Cyan("📁 Wrote %d CSV files to %s", len(paths), outDir)
	case "json":
		path := filepath.Join(outDir, "dataset.json")
		if _, err := sink.WriteJSONPreviews(result, outDir, 100); err != nil {
			return err
		}
		if err := sink.WriteJSON(result, path); err != nil {
			return err
		}
		color.Cyan("📁 Wrote %s", path)
	case "sqlite":
		path := filepath.Join(outDir, "dataset.db")
		if _, err := sink.WriteJSONPreviews(result, outDir, 100); err != nil {
			return err
		}
		if err := sink.WriteSQLite(context.Background(), result, s, path); err != nil {
			return err
		}
		color.Cyan("📁 Wrote %s", path)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
	return nil
}

func printProfiles(result *generator.Result) {
	for _, name := range result.Order {
		profile := generator.Profile(result.Tables[name])
		color.Cyan("\n📈 %s (%d rows)", profile.Table, profile.Rows)
		for _, col := range profile.Columns {
			line := fmt.Sprintf("  %-20s nulls %5.1f%%  distinct %d", col.Name, col.NullPct, col.DistinctCount)
			if col.Mean != nil {
				line += fmt.Sprintf("  min %.2f max %.2f mean %.2f stddev %.2f",
					*col.Min, *col.Max, *col.Mean, *col.StdDev)
			}
			fmt.Println(line)
		}
	}
}

func init() {
	generateCmd.Flags().StringVarP(&genSchemaFile, "schema", "s", "schema.yaml", "Schema file (YAML or JSON)")
	generateCmd.Flags().StringVarP(&genOutputDir, "out", "o", "", "Output directory (default from config)")
	generateCmd.Flags().StringVar(&genFormat, "format", "", "Output format: csv, json, sqlite (default from config)")
	generateCmd.Flags().Int64Var(&genSeed, "seed", 0, "Random seed (overrides the schema file's seed)")
	generateCmd.Flags().IntVar(&genWorkers, "workers", 0, "Parallel table workers (default from config)")
	generateCmd.Flags().BoolVar(&genProfile, "profile", false, "Print per-column statistics after generation")
	generateCmd.Flags().BoolVar(&genLoadDB, "db", false, "Load the result into the configured database")
	generateCmd.Flags().BoolVar(&genVerbose, "verbose", false, "Enable debug logging")

	rootCmd.AddCommand(generateCmd)
}
