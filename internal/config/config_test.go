package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.OutputDir != "artifacts" {
		t.Errorf("Expected output_dir to be 'artifacts', got '%s'", config.OutputDir)
	}

	if config.Format != "csv" {
		t.Errorf("Expected format to be 'csv', got '%s'", config.Format)
	}

	if config.Limits.MaxRowsPerTable != 1_000_000 {
		t.Errorf("Expected max_rows_per_table to be 1000000, got %d", config.Limits.MaxRowsPerTable)
	}

	if config.Limits.MaxTables != 50 {
		t.Errorf("Expected max_tables to be 50, got %d", config.Limits.MaxTables)
	}

	if config.Generation.NullRatio != 0.2 {
		t.Errorf("Expected null_ratio to be 0.2, got %v", config.Generation.NullRatio)
	}

	if config.Generation.UniqueRetries != 100 {
		t.Errorf("Expected unique_retries to be 100, got %d", config.Generation.UniqueRetries)
	}

	if config.Database.Provider != "postgresql" {
		t.Errorf("Expected database provider to be 'postgresql', got '%s'", config.Database.Provider)
	}

	if config.Database.URLEnv != "DATABASE_URL" {
		t.Errorf("Expected database url_env to be 'DATABASE_URL', got '%s'", config.Database.URLEnv)
	}
}

func TestDateWindow(t *testing.T) {
	config := DefaultConfig()

	start, end, err := config.DateWindow()
	if err != nil {
		t.Fatalf("DateWindow failed: %v", err)
	}

	if start != time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC) {
		t.Errorf("Unexpected window start: %v", start)
	}
	if end.Before(start) {
		t.Errorf("Window end %v precedes start %v", end, start)
	}
}

func TestDateWindowRejectsInverted(t *testing.T) {
	config := DefaultConfig()
	config.Generation.DateStart = "2024-01-01"
	config.Generation.DateEnd = "2023-01-01"

	if _, _, err := config.DateWindow(); err == nil {
		t.Error("Expected inverted date window to fail")
	}
}

func TestSchemaLimits(t *testing.T) {
	config := DefaultConfig()
	limits := config.SchemaLimits()

	if limits.MaxTables != config.Limits.MaxTables {
		t.Errorf("Limits not carried over: %+v", limits)
	}
}

func TestGetDatabaseURL(t *testing.T) {
	config := DefaultConfig()
	config.Database.URLEnv = "DATAFORGE_TEST_DB_URL"

	os.Unsetenv("DATAFORGE_TEST_DB_URL")
	if _, err := config.GetDatabaseURL(); err == nil {
		t.Error("Expected missing env var to fail")
	}

	t.Setenv("DATAFORGE_TEST_DB_URL", "postgres://localhost/test")
	url, err := config.GetDatabaseURL()
	if err != nil {
		t.Fatalf("GetDatabaseURL failed: %v", err)
	}
	if url != "postgres://localhost/test" {
		t.Errorf("Unexpected URL: %s", url)
	}
}

func TestInitializeProject(t *testing.T) {
	tempDir := t.TempDir()

	originalDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get current directory: %v", err)
	}
	defer os.Chdir(originalDir)

	if err := os.Chdir(tempDir); err != nil {
		t.Fatalf("Failed to change to temp directory: %v", err)
	}

	if err := InitializeProject(); err != nil {
		t.Fatalf("Failed to initialize project: %v", err)
	}

	configPath := filepath.Join(tempDir, "dataforge.config.json")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Errorf("Config file was not created at %s", configPath)
	}

	// Second initialization must refuse to overwrite.
	if err := InitializeProject(); err == nil {
		t.Error("Expected second initialization to fail, but it succeeded")
	}
}
