package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dataforge-hq/dataforge/internal/config"
	"github.com/dataforge-hq/dataforge/internal/generator"
	"github.com/dataforge-hq/dataforge/internal/schema"
)

var orderSchemaFile string

var orderCmd = &cobra.Command{
	Use:   "order",
	Short: "Print the table generation order for a schema",
	Long: `Resolve the foreign-key dependency graph and print the order
tables would be generated in. Parents always come before children.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		s, err := schema.Load(orderSchemaFile)
		if err != nil {
			return err
		}

		result := schema.Validate(s, cfg.SchemaLimits())
		if !result.Valid() {
			printViolations(result)
			return fmt.Errorf("schema has %d fatal violations", len(result.Fatal()))
		}

		order, err := generator.Order(s)
		if err != nil {
			return err
		}

		names := make([]string, len(order))
		for i, t := range order {
			names[i] = t.Name
		}
		color.Cyan("📋 Generation order: %s", strings.Join(names, " → "))
		return nil
	},
}

func init() {
	orderCmd.Flags().StringVarP(&orderSchemaFile, "schema", "s", "schema.yaml", "Schema file (YAML or JSON)")
	rootCmd.AddCommand(orderCmd)
}
