package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/rainfall-grid-etl/internal/config"
)

func TestNewServer_MetricsCarryOnlyProcessCollectors(t *testing.T) {
	visDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(visDir, "2019.html"), []byte("<html></html>"), 0o644))

	cfg := &config.Config{HTTPAddr: ":0", VisDir: visDir}
	srv := newServer(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "go_goroutines")
	assert.NotContains(t, string(body), "rainfall_")

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
