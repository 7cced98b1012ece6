package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dataforge-hq/dataforge/internal/config"
	"github.com/dataforge-hq/dataforge/internal/schema"
)

var validateSchemaFile string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a schema file without generating data",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		s, err := schema.Load(validateSchemaFile)
		if err != nil {
			return err
		}

		result := schema.Validate(s, cfg.SchemaLimits())
		printViolations(result)

		if !result.Valid() {
			return fmt.Errorf("schema has %d fatal violations", len(result.Fatal()))
		}

		color.Green("✅ Schema is valid (%d tables)", len(s.Tables))
		return nil
	},
}

func printViolations(result *schema.ValidationResult) {
	for _, v := range result.Violations {
		if v.Kind.Informational() {
			color.Yellow("  ⚠️  %s", v)
		} else {
			color.Red("  ❌ %s", v)
		}
	}
}

func init() {
	validateCmd.Flags().StringVarP(&validateSchemaFile, "schema", "s", "schema.yaml", "Schema file (YAML or JSON)")
	rootCmd.AddCommand(validateCmd)
}
