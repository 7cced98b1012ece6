package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dataforge-hq/dataforge/internal/config"
)

const starterSchema = `# DataForge schema
seed: 42
tables:
  - name: customers
    rows: 50
    primary_key: id
    columns:
      - name: id
        type: integer
      - name: full_name
        type: name
      - name: email
        type: email
        unique: true
      - name: signed_up
        type: date

  - name: orders
    rows: 200
    primary_key: id
    columns:
      - name: id
        type: integer
      - name: customer_id
        type: integer
      - name: total
        type: float
        range: {min: 5, max: 500}
      - name: status
        type: categorical
        categories: [pending, shipped, delivered]
        weights: [0.2, 0.3, 0.5]
    foreign_keys:
      - column: customer_id
        ref_table: customers
        ref_column: id
`

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter config and example schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.InitializeProject(); err != nil {
			return err
		}
		color.Green("✅ Created dataforge.config.json")

		if _, err := os.Stat("schema.yaml"); err == nil {
			color.Yellow("⚠️  schema.yaml already exists, leaving it alone")
			return nil
		}
		if err := os.WriteFile("schema.yaml", []byte(starterSchema), 0644); err != nil {
			return fmt.Errorf("failed to write schema.yaml: %w", err)
		}
		color.Green("✅ Created schema.yaml")

		fmt.Println()
		color.Cyan("Next: dataforge generate -s schema.yaml")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
