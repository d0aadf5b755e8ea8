package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/kobosync/internal/config"
	"github.com/dbsmedya/kobosync/internal/logger"
	"github.com/dbsmedya/kobosync/internal/pipeline"
	"github.com/dbsmedya/kobosync/internal/preview"
)

var previewRows int

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Fetch and transform the export without touching the database",
	Long: `Preview fetches the CSV export and runs the schema mapping, then
prints the column inventory and the first rows. No database connection
is made and nothing is written.

Example:
  kobosync preview --config kobosync.yaml --rows 5`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().IntVar(&previewRows, "rows", 3,
		"Number of data rows to display")

	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
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

	p, err := pipeline.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	raw, records, err := p.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("preview failed: %w", err)
	}

	renderCfg := preview.DefaultConfig()
	renderCfg.MaxRows = previewRows
	renderer := preview.NewRenderer(cmd.OutOrStdout(), renderCfg)
	renderer.FetchSummary(raw, p.Mapper().Mapping())

	fmt.Fprintf(cmd.OutOrStdout(), "Records ready to load: %d\n", len(records))
	return nil
}
