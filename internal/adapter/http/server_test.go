package http_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/couchcryptid/rainfall-grid-etl/internal/adapter/http"
	"github.com/couchcryptid/rainfall-grid-etl/internal/observability"
)

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

func newTestServer(t *testing.T, visDir string, readyErr error) *httpadapter.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewMetrics()
	metrics.AnimationsRendered.Inc()
	return httpadapter.NewServer(":0", visDir, &mockReadiness{err: readyErr}, metrics.Gatherer(), logger)
}

func get(srv http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthzReturns200(t *testing.T) {
	rec := get(newTestServer(t, t.TempDir(), nil), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	rec := get(newTestServer(t, t.TempDir(), nil), "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	rec := get(newTestServer(t, t.TempDir(), fmt.Errorf("not ready yet")), "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	rec := get(newTestServer(t, t.TempDir(), nil), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "rainfall_animations_rendered_total 1")
}

func TestIndexListsAnimations(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"2020.html", "2019.html", "notes.html"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("<html></html>"), 0o644))
	}

	rec := get(newTestServer(t, dir, nil), "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<a href="/vis/2019">2019</a>`)
	assert.Contains(t, body, `<a href="/vis/2020">2020</a>`)
	assert.NotContains(t, body, "notes")
	assert.Less(t, strings.Index(body, "2019"), strings.Index(body, "2020"))
}

func TestIndexWhenEmpty(t *testing.T) {
	rec := get(newTestServer(t, filepath.Join(t.TempDir(), "absent"), nil), "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No animations rendered yet.")
}

func TestAnimationServed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2019.html"), []byte("<title>Rainfall 2019</title>"), 0o644))
	srv := newTestServer(t, dir, nil)

	rec := get(srv, "/vis/2019")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "Rainfall 2019")

	assert.Equal(t, http.StatusNotFound, get(srv, "/vis/2020").Code)
	assert.Equal(t, http.StatusNotFound, get(srv, "/vis/19").Code)
	assert.Equal(t, http.StatusNotFound, get(srv, "/vis/abcd").Code)
}

func TestVisDirReadiness(t *testing.T) {
	dir := t.TempDir()
	r := httpadapter.VisDirReadiness{Dir: dir}
	assert.Error(t, r.CheckReadiness(context.Background()))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "2019.html"), nil, 0o644))
	assert.NoError(t, r.CheckReadiness(context.Background()))
}

func TestMetricsUsesDefaultGatherer(t *testing.T) {
	srv := httpadapter.NewServer(":0", t.TempDir(), &mockReadiness{}, prometheus.DefaultGatherer, slog.Default())
	rec := get(srv, "/metrics")
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
