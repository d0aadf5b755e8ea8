package cmd

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreviewCommandStructure(t *testing.T) {
	assert.NotNil(t, previewCmd)
	assert.Equal(t, "preview", previewCmd.Use)
	assert.NotEmpty(t, previewCmd.Short)
	assert.NotNil(t, previewCmd.RunE)
	assert.Contains(t, previewCmd.Long, "Example:")
	assert.NotNil(t, previewCmd.Flags().Lookup("rows"))
}

// writeTestConfig writes a minimal config file pointing at the given export URL.
func writeTestConfig(t *testing.T, url string) string {
	t.Helper()

	content := fmt.Sprintf(`kobo:
  url: %q
  username: user
  password: pass
  timeout_seconds: 5
database:
  host: localhost
  user: postgres
  database: feedback
logging:
  level: error
  format: text
`, url)

	path := filepath.Join(t.TempDir(), "kobosync.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunPreview(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("start;Gender;Age;_id\n2024-01-03T10:00:00Z;Female;34;991\n"))
	}))
	defer srv.Close()

	originalCfgFile := cfgFile
	defer func() { cfgFile = originalCfgFile }()
	cfgFile = writeTestConfig(t, srv.URL)

	var buf bytes.Buffer
	previewCmd.SetOut(&buf)
	previewCmd.SetErr(&buf)

	err := runPreview(previewCmd, nil)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Fetched Export")
	assert.Contains(t, output, `"Gender" -> gender`)
	assert.Contains(t, output, "Records ready to load: 1")
}

func TestRunPreviewConfigMissing(t *testing.T) {
	originalCfgFile := cfgFile
	defer func() { cfgFile = originalCfgFile }()
	cfgFile = filepath.Join(t.TempDir(), "does-not-exist.yaml")

	err := runPreview(previewCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestRunPreviewFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	originalCfgFile := cfgFile
	defer func() { cfgFile = originalCfgFile }()
	cfgFile = writeTestConfig(t, srv.URL)

	err := runPreview(previewCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "preview failed")
}
