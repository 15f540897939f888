package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configFile string
	limit      int
	dryRun     bool
	archiveDir string
	debugMode  bool
)

var rootCmd = &cobra.Command{
	Use:   "catalog-import [config-file]",
	Short: "Batch-import catalog records from Excel into AEM",
	Long: `Reads rows from an Excel workbook, fetches a JSON document per row
from the middleware service and publishes trimmed article summaries
to the AEM content API.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) > 0 {
			configFile = args[0]
		}

		// Optional .env for AEM credential overrides
		_ = godotenv.Load()

		if debugMode {
			SetDebugMode(true)
		}

		settings, err := LoadSettings(configFile)
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		processor := NewImportProcessor(settings)
		processor.SetDryRun(dryRun)
		processor.SetLimit(limit)
		if archiveDir != "" {
			processor.SetArchiver(NewArchiver(archiveDir))
		}

		results, err := processor.Run()
		if err != nil {
			log.Fatalf("Import failed: %v", err)
		}

		failed := 0
		for _, result := range results {
			if !result.Success() {
				failed++
			}
		}
		log.Printf("Processed %d rows, %d failed", len(results), failed)
	},
}

func init() {
	rootCmd.Flags().StringVar(&configFile, "config", "import.yaml", "Path to the YAML configuration file")
	rootCmd.Flags().IntVar(&limit, "limit", 0, "Process at most N rows (0 = all)")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Fetch and transform but skip publishing")
	rootCmd.Flags().StringVar(&archiveDir, "archive", "", "Directory for raw article body Markdown dumps")
	rootCmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
