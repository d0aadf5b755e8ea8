// Package pipeline coordinates the sync run: fetch the survey export,
// map it onto the destination schema, provision the table, load the
// records and verify the result.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/dbsmedya/kobosync/internal/config"
	"github.com/dbsmedya/kobosync/internal/database"
	"github.com/dbsmedya/kobosync/internal/fetch"
	"github.com/dbsmedya/kobosync/internal/logger"
	"github.com/dbsmedya/kobosync/internal/schema"
	"github.com/dbsmedya/kobosync/internal/store"
	"github.com/dbsmedya/kobosync/internal/types"
	"github.com/dbsmedya/kobosync/internal/verifier"
)

// Stage identifies where in the run the pipeline currently is, or where
// it stopped.
type Stage string

const (
	StageFetching     Stage = "fetching"
	StageMapping      Stage = "mapping"
	StageConnecting   Stage = "connecting"
	StageProvisioning Stage = "provisioning"
	StageLoading      Stage = "loading"
	StageVerifying    Stage = "verifying"
	StageDone         Stage = "done"
	StageAborted      Stage = "aborted"
)

// Result contains statistics and status of a sync run.
type Result struct {
	Stage       Stage
	StartedAt   time.Time
	CompletedAt time.Time
	Duration    time.Duration
	RowsFetched int
	RowsSkipped int
	RowsLoaded  int64
	Statements  int
	RowCount    int64
	Verify      *verifier.VerifyResult
	Raw         *types.RawRecordSet
	Success     bool
}

// Pipeline runs the full sync from the export endpoint into Postgres.
type Pipeline struct {
	config  *config.Config
	logger  *logger.Logger
	fetcher *fetch.Fetcher
	mapper  *schema.Mapper
}

// New creates a pipeline from the given configuration.
func New(cfg *config.Config, log *logger.Logger) (*Pipeline, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	if log == nil {
		log = logger.NewDefault()
	}

	fetcher, err := fetch.NewFetcher(&cfg.Kobo, log.WithStage(string(StageFetching)))
	if err != nil {
		return nil, fmt.Errorf("failed to create fetcher: %w", err)
	}

	mapper, err := schema.NewMapper(schema.DefaultMapping(), log.WithStage(string(StageMapping)))
	if err != nil {
		return nil, fmt.Errorf("failed to create mapper: %w", err)
	}

	return &Pipeline{
		config:  cfg,
		logger:  log,
		fetcher: fetcher,
		mapper:  mapper,
	}, nil
}

// Fetch retrieves and maps the export without touching the database.
// It backs the preview command and the first half of Run.
func (p *Pipeline) Fetch(ctx context.Context) (*types.RawRecordSet, []schema.TypedRecord, error) {
	raw, err := p.fetcher.Fetch(ctx)
	if err != nil {
		return nil, nil, err
	}

	records, err := p.mapper.Map(raw)
	if err != nil {
		return raw, nil, err
	}

	return raw, records, nil
}

// Mapper returns the schema mapper, for rendering the column inventory.
func (p *Pipeline) Mapper() *schema.Mapper {
	return p.mapper
}

// Run executes the full sync. The result carries the stage reached, so
// callers can tell an aborted run (nothing touched in the database) from
// a failed load.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context is nil")
	}

	result := &Result{
		Stage:     StageFetching,
		StartedAt: time.Now(),
	}
	finish := func() {
		result.CompletedAt = time.Now()
		result.Duration = result.CompletedAt.Sub(result.StartedAt)
	}

	p.logger.Infow("Starting sync run",
		"url", p.config.Kobo.URL,
		"batch_size", p.config.Load.BatchSize,
	)

	raw, err := p.fetcher.Fetch(ctx)
	if err != nil {
		result.Stage = StageAborted
		finish()
		return result, err
	}
	result.Raw = raw
	result.RowsFetched = raw.Stats.RowsParsed
	result.RowsSkipped = raw.Stats.RowsSkipped

	result.Stage = StageMapping
	records, err := p.mapper.Map(raw)
	if err != nil {
		result.Stage = StageAborted
		finish()
		return result, err
	}

	result.Stage = StageConnecting
	dbManager := database.NewManager(&p.config.Database)
	if err := dbManager.Connect(ctx); err != nil {
		result.Stage = StageAborted
		finish()
		return result, err
	}
	defer func() {
		if cerr := dbManager.Close(); cerr != nil {
			p.logger.Warnw("Failed to close database connection", "error", cerr)
		}
	}()

	result.Stage = StageProvisioning
	provisioner, err := store.NewProvisioner(dbManager.DB, p.logger.WithStage(string(StageProvisioning)))
	if err != nil {
		finish()
		return result, err
	}
	if err := provisioner.Provision(ctx); err != nil {
		finish()
		return result, err
	}

	result.Stage = StageLoading
	loader, err := store.NewLoader(dbManager.DB, p.config.Load.BatchSize, p.logger.WithStage(string(StageLoading)))
	if err != nil {
		finish()
		return result, err
	}
	loadStats, err := loader.Load(ctx, p.mapper.Mapping().ColumnNames(), records)
	if err != nil {
		finish()
		return result, err
	}
	result.RowsLoaded = loadStats.RowsLoaded
	result.Statements = loadStats.Statements

	result.Stage = StageVerifying
	v, err := verifier.NewVerifier(dbManager.DB, p.config.Load.SampleRows, p.logger.WithStage(string(StageVerifying)))
	if err != nil {
		finish()
		return result, err
	}
	verifyResult, err := v.Verify(ctx)
	if err != nil {
		finish()
		return result, err
	}
	result.Verify = verifyResult
	result.RowCount = verifyResult.RowCount

	result.Stage = StageDone
	result.Success = true
	finish()

	p.logger.Infow("Sync run completed",
		"rows_fetched", result.RowsFetched,
		"rows_skipped", result.RowsSkipped,
		"rows_loaded", result.RowsLoaded,
		"row_count", result.RowCount,
		"duration", result.Duration,
	)

	return result, nil
}
