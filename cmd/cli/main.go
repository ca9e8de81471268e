package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/phishaware/backend/internal/database"
	"github.com/phishaware/backend/internal/logger"
)

var output = "text" // "text" or "json"

var rootCmd = &cobra.Command{
	Use:   "phishaware",
	Short: "PhishAware CLI - Administer phishing awareness campaigns",
	Long: `PhishAware CLI provides command-line administration of the phishing
awareness platform: create admin accounts, recompute risk scores, and
print campaign reports without going through the HTTP API.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil {
			// .env is optional
		}
		if err := logger.Initialize(os.Getenv("LOG_LEVEL"), "cli.log"); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		if err := database.Initialize(); err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if err := database.Close(); err != nil {
			log.Printf("warning: failed to close database: %v", err)
		}
		logger.Close()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&output, "output", output, "Output format: text or json")

	rootCmd.AddCommand(createAdminCmd)
	rootCmd.AddCommand(recomputeScoresCmd)
	rootCmd.AddCommand(reportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
