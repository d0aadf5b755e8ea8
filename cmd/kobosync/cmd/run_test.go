package cmd

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCommandStructure(t *testing.T) {
	assert.NotNil(t, runCmd)
	assert.Equal(t, "run", runCmd.Use)
	assert.NotEmpty(t, runCmd.Short)
	assert.Contains(t, runCmd.Long, "Example:")
	assert.NotNil(t, runCmd.RunE)
}

func TestRunSyncEmptyExport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("start;Gender;_id\n"))
	}))
	defer srv.Close()

	originalCfgFile := cfgFile
	defer func() { cfgFile = originalCfgFile }()
	cfgFile = writeTestConfig(t, srv.URL)

	var buf bytes.Buffer
	runCmd.SetOut(&buf)
	runCmd.SetErr(&buf)

	err := runSync(runCmd, nil)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No data found in the export, exiting.")
}

func TestRunSyncConfigMissing(t *testing.T) {
	originalCfgFile := cfgFile
	defer func() { cfgFile = originalCfgFile }()
	cfgFile = "/nonexistent/kobosync.yaml"

	err := runSync(runCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}
