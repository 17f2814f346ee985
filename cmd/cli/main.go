package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/luminfeed/waitlist-service/config"
	"github.com/luminfeed/waitlist-service/internal/log"
	"github.com/spf13/cobra"
)

// Logs go to stderr so command output on stdout stays machine readable.
var logger = log.NewLogger(os.Stderr, slog.LevelInfo)

var rootCmd = &cobra.Command{
	Use:   "waitlist-cli",
	Short: "Operator tooling for the waitlist service",
	Long: `Operator tooling for the waitlist service.

Available commands:
  migrate   - Apply the store schema to the configured Postgres database
  submit    - Submit one entry through the configured backend
  config    - Print the effective waitlist configuration with secrets redacted
  fallback  - Inspect or replay the local fallback list`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.InitializeEnvFile(logger) // Load envs early for CLI consistency
	},
}

func init() {
	fallbackCmd.AddCommand(fallbackListCmd)
	fallbackCmd.AddCommand(fallbackReplayCmd)

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(fallbackCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
