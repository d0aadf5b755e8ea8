package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/kobosync/internal/config"
	"github.com/dbsmedya/kobosync/internal/database"
	"github.com/dbsmedya/kobosync/internal/fetch"
	"github.com/dbsmedya/kobosync/internal/logger"
	"github.com/dbsmedya/kobosync/internal/pipeline"
	"github.com/dbsmedya/kobosync/internal/preview"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch the survey export and load it into PostgreSQL",
	Long: `Run executes the full sync: fetch the CSV export, transform it,
recreate the destination table and bulk insert all rows in one
transaction, then verify the result.

If the export is empty or unreachable, the run aborts before anything
touches the database and the existing table is left untouched.

Example:
  kobosync run --config kobosync.yaml`,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	configFile := GetConfigFile()

	// Load configuration
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Apply CLI overrides
	overrides := GetCLIOverrides()
	cfg.ApplyOverrides(overrides.LogLevel, overrides.LogFormat,
		overrides.BatchSize, overrides.SampleRows)

	// Initialize logger
	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	log.Infow("Starting sync",
		"config", configFile,
		"url", cfg.Kobo.URL,
	)

	p, err := pipeline.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	// Setup context with signal handling
	baseCtx := cmd.Context()
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(baseCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		<-sigChan
		log.Warn("Received shutdown signal - cancelling run...")
		cancel()
	}()

	result, err := p.Run(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Warn("Sync cancelled by user")
			return nil
		}

		// An empty export is not a failure: nothing to load, nothing touched.
		var fetchErr *fetch.FetchError
		if errors.As(err, &fetchErr) && fetchErr.Empty {
			fmt.Fprintln(cmd.OutOrStdout(), "No data found in the export, exiting.")
			return nil
		}

		var connectErr *database.ConnectError
		if errors.As(err, &connectErr) {
			fmt.Fprintf(cmd.ErrOrStderr(), "%v\n", connectErr)
			for _, hint := range connectErr.Hints() {
				fmt.Fprintf(cmd.ErrOrStderr(), "  %s\n", hint)
			}
			return err
		}

		return fmt.Errorf("sync failed at stage %s: %w", result.Stage, err)
	}

	// Display results
	out := cmd.OutOrStdout()
	renderer := preview.NewRenderer(out, nil)

	if result.Raw != nil {
		fmt.Fprintln(out)
		renderer.FetchSummary(result.Raw, p.Mapper().Mapping())
	}

	fmt.Fprintf(out, "Duration: %s\n", result.Duration.Round(time.Millisecond))
	fmt.Fprintf(out, "Rows fetched: %d (skipped %d)\n", result.RowsFetched, result.RowsSkipped)
	fmt.Fprintf(out, "Rows loaded: %d in %d statements\n\n", result.RowsLoaded, result.Statements)

	if result.Verify != nil {
		renderer.LoadReport(result.Verify.RowCount, result.Verify.SampleColumns, result.Verify.Samples)
	}

	renderer.Banner("SYNC COMPLETED SUCCESSFULLY!")
	return nil
}
