// Command rainfall-serve serves the animations in VIS_DIR over HTTP together with
// health, readiness and metrics endpoints.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	httpadapter "github.com/couchcryptid/rainfall-grid-etl/internal/adapter/http"
	"github.com/couchcryptid/rainfall-grid-etl/internal/config"
	"github.com/couchcryptid/rainfall-grid-etl/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	srv := newServer(cfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}

// newServer wires the HTTP adapter. The server process renders and downloads
// nothing, so /metrics exposes the process and Go runtime collectors only; fetch and
// visualize counters are exported by those commands through METRICS_TEXTFILE.
func newServer(cfg *config.Config, logger *slog.Logger) *httpadapter.Server {
	return httpadapter.NewServer(cfg.HTTPAddr, cfg.VisDir,
		httpadapter.VisDirReadiness{Dir: cfg.VisDir}, prometheus.DefaultGatherer, logger)
}
