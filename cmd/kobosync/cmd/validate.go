package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/kobosync/internal/config"
	"github.com/dbsmedya/kobosync/internal/database"
	"github.com/dbsmedya/kobosync/internal/logger"
)

var validateSkipDB bool

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and database connectivity",
	Long: `Validate checks the configuration file and tests the PostgreSQL
connection.

Checks performed:
  - Configuration syntax and required fields
  - Environment variable substitution
  - Database connectivity (unless --skip-db)

Example:
  kobosync validate --config kobosync.yaml`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateSkipDB, "skip-db", false,
		"Skip the database connectivity check")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile := GetConfigFile()
	out := cmd.OutOrStdout()

	// Load configuration
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Apply CLI overrides
	overrides := GetCLIOverrides()
	cfg.ApplyOverrides(overrides.LogLevel, overrides.LogFormat,
		overrides.BatchSize, overrides.SampleRows)

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	fmt.Fprintf(out, "\n=== Configuration Validation ===\n")
	fmt.Fprintf(out, "Config file: %s\n", configFile)
	fmt.Fprintf(out, "Export URL: %s\n", cfg.Kobo.URL)
	fmt.Fprintf(out, "Database: %s:%d/%s\n\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.Database)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}
	fmt.Fprintln(out, "Configuration OK")

	if validateSkipDB {
		fmt.Fprintln(out, "Database check skipped")
		return nil
	}

	log.Info("Testing database connection...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	dbManager := database.NewManager(&cfg.Database)
	if err := dbManager.Connect(ctx); err != nil {
		var connectErr *database.ConnectError
		if errors.As(err, &connectErr) {
			fmt.Fprintf(out, "Database connection failed: %v\n", connectErr)
			for _, hint := range connectErr.Hints() {
				fmt.Fprintf(out, "  %s\n", hint)
			}
		}
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer dbManager.Close()

	fmt.Fprintln(out, "Database connection OK")
	fmt.Fprintln(out, "\n=== Validation Complete ===")
	return nil
}
