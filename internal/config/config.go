package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/dataforge-hq/dataforge/internal/schema"
)

type Config struct {
	Version    string     `json:"version" mapstructure:"version"`
	OutputDir  string     `json:"output_dir" mapstructure:"output_dir"`
	Format     string     `json:"format" mapstructure:"format"`
	Limits     Limits     `json:"limits" mapstructure:"limits"`
	Generation Generation `json:"generation" mapstructure:"generation"`
	Database   Database   `json:"database" mapstructure:"database"`
}

type Limits struct {
	MaxTables          int `json:"max_tables" mapstructure:"max_tables"`
	MaxColumnsPerTable int `json:"max_columns_per_table" mapstructure:"max_columns_per_table"`
	MaxRowsPerTable    int `json:"max_rows_per_table" mapstructure:"max_rows_per_table"`
}

type Generation struct {
	NullRatio        float64 `json:"null_ratio" mapstructure:"null_ratio"`
	SelfRefNullRatio float64 `json:"self_ref_null_ratio" mapstructure:"self_ref_null_ratio"`
	UniqueRetries    int     `json:"unique_retries" mapstructure:"unique_retries"`
	DateStart        string  `json:"date_start" mapstructure:"date_start"`
	DateEnd          string  `json:"date_end" mapstructure:"date_end"`
	Workers          int     `json:"workers" mapstructure:"workers"`
}

type Database struct {
	Provider string `json:"provider" mapstructure:"provider"`
	URLEnv   string `json:"url_env" mapstructure:"url_env"`
}

func Load() (*Config, error) {
	var cfg Config

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Set defaults
	if cfg.Version == "" {
		cfg.Version = "1"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "artifacts"
	}
	if cfg.Format == "" {
		cfg.Format = "csv"
	}
	if cfg.Limits.MaxTables == 0 {
		cfg.Limits.MaxTables = 50
	}
	if cfg.Limits.MaxColumnsPerTable == 0 {
		cfg.Limits.MaxColumnsPerTable = 200
	}
	if cfg.Limits.MaxRowsPerTable == 0 {
		cfg.Limits.MaxRowsPerTable = 1_000_000
	}
	if !viper.IsSet("generation.null_ratio") && cfg.Generation.NullRatio == 0 {
		cfg.Generation.NullRatio = 0.2
	}
	if !viper.IsSet("generation.self_ref_null_ratio") && cfg.Generation.SelfRefNullRatio == 0 {
		cfg.Generation.SelfRefNullRatio = 0.2
	}
	if cfg.Generation.UniqueRetries == 0 {
		cfg.Generation.UniqueRetries = 100
	}
	// Pinned window rather than a now-anchored one so the same schema and
	// seed reproduce byte-identical output across days.
	if cfg.Generation.DateStart == "" {
		cfg.Generation.DateStart = "2022-01-01"
	}
	if cfg.Generation.DateEnd == "" {
		cfg.Generation.DateEnd = "2024-12-31"
	}
	if cfg.Generation.Workers == 0 {
		cfg.Generation.Workers = 1
	}
	if cfg.Database.Provider == "" {
		cfg.Database.Provider = "postgresql"
	}
	if cfg.Database.URLEnv == "" {
		cfg.Database.URLEnv = "DATABASE_URL"
	}

	return &cfg, nil
}

// SchemaLimits converts the configured caps into the validator's shape.
func (c *Config) SchemaLimits() schema.Limits {
	return schema.Limits{
		MaxTables:          c.Limits.MaxTables,
		MaxColumnsPerTable: c.Limits.MaxColumnsPerTable,
		MaxRowsPerTable:    c.Limits.MaxRowsPerTable,
	}
}

// DateWindow parses the configured date range for date/datetime columns.
func (c *Config) DateWindow() (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", c.Generation.DateStart)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid date_start: %w", err)
	}
	end, err := time.Parse("2006-01-02", c.Generation.DateEnd)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid date_end: %w", err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("date_end %s precedes date_start %s",
			c.Generation.DateEnd, c.Generation.DateStart)
	}
	return start, end, nil
}

func (c *Config) GetDatabaseURL() (string, error) {
	dbURL := os.Getenv(c.Database.URLEnv)
	if dbURL == "" {
		return "", fmt.Errorf("database URL not found in environment variable %s", c.Database.URLEnv)
	}
	return dbURL, nil
}

// DefaultConfig returns the configuration a fresh project starts from.
func DefaultConfig() *Config {
	return &Config{
		Version:   "1",
		OutputDir: "artifacts",
		Format:    "csv",
		Limits: Limits{
			MaxTables:          50,
			MaxColumnsPerTable: 200,
			MaxRowsPerTable:    1_000_000,
		},
		Generation: Generation{
			NullRatio:        0.2,
			SelfRefNullRatio: 0.2,
			UniqueRetries:    100,
			DateStart:        "2022-01-01",
			DateEnd:          "2024-12-31",
			Workers:          1,
		},
		Database: Database{
			Provider: "postgresql",
			URLEnv:   "DATABASE_URL",
		},
	}
}

const configFileName = "dataforge.config.json"

// InitializeProject writes a starter config file in the current directory.
func InitializeProject() error {
	if _, err := os.Stat(configFileName); err == nil {
		return fmt.Errorf("%s already exists", configFileName)
	}

	data, err := json.MarshalIndent(DefaultConfig(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal default config: %w", err)
	}

	if err := os.WriteFile(configFileName, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", configFileName, err)
	}

	return nil
}
