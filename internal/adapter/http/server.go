package http

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/rainfall-grid-etl/internal/adapter/datadir"
	"github.com/couchcryptid/rainfall-grid-etl/internal/domain"
)

// Server serves rendered animations alongside health, readiness and metrics
// endpoints.
type Server struct {
	httpServer *http.Server
	visDir     string
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /, /vis/{year}, /healthz, /readyz and
// /metrics routes. Metrics are read from gatherer.
func NewServer(addr, visDir string, ready sharedobs.ReadinessChecker, gatherer prometheus.Gatherer, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		visDir: visDir,
		logger: logger,
	}

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /vis/{year}", s.handleAnimation)
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr, "vis_dir", s.visDir)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Rainfall animations</title></head>
<body>
<h1>Rainfall animations</h1>
{{if .}}<ul>
{{range .}}  <li><a href="/vis/{{.}}">{{.}}</a></li>
{{end}}</ul>{{else}}<p>No animations rendered yet.</p>{{end}}
</body>
</html>
`))

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	docs, err := datadir.ScanAnimations(s.visDir)
	if err != nil {
		s.logger.Error("scan vis dir failed", "error", err)
		http.Error(w, "cannot list animations", http.StatusInternalServerError)
		return
	}
	years := datadir.Years(docs).Sorted()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, years); err != nil {
		s.logger.Warn("write index failed", "error", err)
	}
}

func (s *Server) handleAnimation(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("year")
	n, err := strconv.Atoi(raw)
	if err != nil || len(raw) != 4 {
		http.NotFound(w, r)
		return
	}
	path := filepath.Join(s.visDir, domain.AnimationFileName(domain.Year(n)))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	http.ServeFile(w, r, path)
}

// VisDirReadiness reports ready once at least one animation has been rendered.
type VisDirReadiness struct {
	Dir string
}

// CheckReadiness implements sharedobs.ReadinessChecker.
func (v VisDirReadiness) CheckReadiness(_ context.Context) error {
	docs, err := datadir.ScanAnimations(v.Dir)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return errNoAnimations
	}
	return nil
}
