package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	Version = "1.3.0"
)

func showBanner() {
	green := color.New(color.FgGreen, color.Bold)

	banner := []string{
		"╔══════════════════════════════════════════════════╗",
		"║   ██████╗  █████╗ ████████╗ █████╗               ║",
		"║   ██╔══██╗██╔══██╗╚══██╔══╝██╔══██╗              ║",
		"║   ██║  ██║███████║   ██║   ███████║              ║",
		"║   ██████╔╝██╔══██║   ██║   ██║  ██║              ║",
		"║   ╚═════╝ ╚═╝  ╚═╝   ╚═╝   ╚═╝  ╚═╝ FORGE        ║",
		"║                                                  ║",
		"║   ⚡ Deterministic synthetic data generation ⚡   ║",
		"╚══════════════════════════════════════════════════╝",
	}
	for _, line := range banner {
		green.Println(line)
	}

	color.New(color.FgCyan, color.Bold).Print("          Version: ")
	color.New(color.FgYellow, color.Bold).Printf("%s\n", Version)
}

var rootCmd = &cobra.Command{
	Use:   "dataforge",
	Short: "Generate multi-table synthetic datasets with referential integrity",
	Long: `
DataForge turns a declarative multi-table schema into synthetic tabular
data. Tables are generated in foreign-key dependency order, so every
foreign key in the output references a real parent row, and the whole
run is reproducible from a single seed.

Output formats:
- CSV (one file per table, with JSON previews)
- JSON (whole result in a single document)
- SQLite (standalone database file)
- Live databases (PostgreSQL, MySQL, SQLite)`,

	Run: func(cmd *cobra.Command, args []string) {
		showVersion, _ := cmd.Flags().GetBool("version")
		if showVersion {
			fmt.Printf("DataForge CLI version %s\n", Version)
			os.Exit(0)
		}

		if len(args) == 0 {
			showBanner()
			fmt.Println()
			cmd.Help()
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./dataforge.config.json)")
	rootCmd.Flags().BoolP("version", "v", false, "Show CLI version")
}

func initConfig() {
	if err := godotenv.Load(); err != nil {
		godotenv.Load(".env")
		godotenv.Load(".env.local")
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("json")
		viper.SetConfigName("dataforge.config")
	}

	viper.AutomaticEnv()

	viper.ReadInConfig()
}
