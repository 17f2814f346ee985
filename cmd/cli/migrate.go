package main

import (
	"context"
	"fmt"
	"time"

	"github.com/luminfeed/waitlist-service/config"
	"github.com/luminfeed/waitlist-service/pkg/migrations"
	"github.com/luminfeed/waitlist-service/pkg/utils"
	"github.com/spf13/cobra"
)

var migrationsDir string

// migrateCmd applies the store schema
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations and exit",
	Long: `Apply the waitlist schema to the Postgres database described by APP_DATABASE_URL
or the POSTGRES_* variables.

The schema embedded in the binary is used unless --dir (or MIGRATIONS_DIR) points at a
directory of golang-migrate SQL files.`,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().StringVar(&migrationsDir, "dir", utils.GetEnvTrimmedOrDefault("MIGRATIONS_DIR", ""), "Directory of SQL migrations (default: embedded schema)")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	db, err := config.NewDatabase(logger, &config.DBConfig{})
	if err != nil {
		logger.Error("Failed to connect to database for migration", "error", err.Error())
		return err
	}
	defer config.CloseDatabase(db, logger)

	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("Failed to get SQL DB instance for migration", "error", err.Error())
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
	defer cancel()

	if err := migrations.Up(ctx, sqlDB, migrations.Config{Dir: migrationsDir, Logger: logger}); err != nil {
		logger.Error("Database migration failed", "error", err.Error())
		return err
	}

	logger.Info("Database migrations completed")
	fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
	return nil
}
