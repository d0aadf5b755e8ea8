package pipeline

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/kobosync/internal/config"
	"github.com/dbsmedya/kobosync/internal/database"
	"github.com/dbsmedya/kobosync/internal/fetch"
	"github.com/dbsmedya/kobosync/internal/logger"
	"github.com/dbsmedya/kobosync/internal/schema"
)

func testConfig(url string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Kobo.URL = url
	cfg.Kobo.Username = "user"
	cfg.Kobo.Password = "pass"
	cfg.Kobo.TimeoutSeconds = 5
	return cfg
}

func exportServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewRequiresConfig(t *testing.T) {
	_, err := New(nil, logger.NewDefault())
	assert.Error(t, err)
}

func TestFetchMapsRecords(t *testing.T) {
	srv := exportServer(t, "start;Gender;Age;_id\n2024-01-03T10:00:00Z;Female;34;991\n")

	p, err := New(testConfig(srv.URL), logger.NewDefault())
	require.NoError(t, err)

	raw, records, err := p.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, raw.Stats.RowsParsed)
	require.Len(t, records, 1)
	assert.Len(t, records[0].Values, len(p.Mapper().Mapping().ColumnNames()))
}

func TestRunAbortsOnEmptyExport(t *testing.T) {
	srv := exportServer(t, "start;Gender;_id\n")

	p, err := New(testConfig(srv.URL), logger.NewDefault())
	require.NoError(t, err)

	result, err := p.Run(context.Background())
	require.Error(t, err)
	require.NotNil(t, result)
	assert.Equal(t, StageAborted, result.Stage)
	assert.False(t, result.Success)

	var fetchErr *fetch.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.True(t, fetchErr.Empty)
}

func TestRunAbortsOnMissingRequiredColumn(t *testing.T) {
	srv := exportServer(t, "start;Gender\n2024-01-03T10:00:00Z;Female\n")

	p, err := New(testConfig(srv.URL), logger.NewDefault())
	require.NoError(t, err)

	result, err := p.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, StageAborted, result.Stage)

	var schemaErr *schema.SchemaError
	assert.True(t, errors.As(err, &schemaErr))
}

func TestRunAbortsOnConnectFailure(t *testing.T) {
	srv := exportServer(t, "start;Gender;_id\n2024-01-03T10:00:00Z;Female;991\n")

	cfg := testConfig(srv.URL)
	cfg.Database.Host = "127.0.0.1"
	cfg.Database.Port = 1

	p, err := New(cfg, logger.NewDefault())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := p.Run(ctx)
	require.Error(t, err)
	assert.Equal(t, StageAborted, result.Stage)
	assert.Equal(t, 1, result.RowsFetched)

	var connectErr *database.ConnectError
	assert.True(t, errors.As(err, &connectErr))
}

func TestFetchLogsCarryStageContext(t *testing.T) {
	srv := exportServer(t, "start;Gender;_id\n2024-01-03T10:00:00Z;Female;991\n")

	logPath := filepath.Join(t.TempDir(), "pipeline.log")
	log, err := logger.New(&config.LoggingConfig{
		Level:  "info",
		Format: "json",
		Output: logPath,
	})
	require.NoError(t, err)

	p, err := New(testConfig(srv.URL), log)
	require.NoError(t, err)

	_, _, err = p.Fetch(context.Background())
	require.NoError(t, err)
	// Sync errors on the stdout half of the multi-writer are environment
	// noise; the file half is what this test reads.
	_ = log.Sync()

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"stage":"fetching"`)
	assert.Contains(t, string(data), `"stage":"mapping"`)
}

func TestRunRequiresContext(t *testing.T) {
	srv := exportServer(t, "start;Gender;_id\n")

	p, err := New(testConfig(srv.URL), logger.NewDefault())
	require.NoError(t, err)

	_, err = p.Run(nil) //nolint:staticcheck
	assert.Error(t, err)
}
