// Command rainfall-vis renders each downloaded year in DATA_DIR as a self-contained
// animated HTML document in VIS_DIR.
//
// Usage:
//
//	rainfall-vis [-f YEAR] [-t YEAR] [-i nearest|bilinear|bicubic|lanczos]
package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/rainfall-grid-etl/internal/adapter/netcdf"
	"github.com/couchcryptid/rainfall-grid-etl/internal/cli"
	"github.com/couchcryptid/rainfall-grid-etl/internal/config"
	"github.com/couchcryptid/rainfall-grid-etl/internal/domain"
	"github.com/couchcryptid/rainfall-grid-etl/internal/observability"
	"github.com/couchcryptid/rainfall-grid-etl/internal/pipeline"
	"github.com/couchcryptid/rainfall-grid-etl/internal/render"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// run executes the command and returns its exit code. Usage and usage errors are
// written to stderr.
func run(args []string, stderr io.Writer) int {
	cmd := cli.New("rainfall-vis", "Render daily rainfall animations for the selected years.", true, stderr)
	opts, code, ok := cmd.Parse(args)
	if !ok {
		return code
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return cli.ExitError
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	defer func() {
		if err := metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
			logger.Error("write metrics textfile", "error", err)
		}
	}()

	renderer := render.NewRenderer(render.Options{
		Scale:         cfg.RenderScale,
		FPS:           cfg.RenderFPS,
		Interpolation: opts.Interpolation,
		SummaryChart:  true,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	vis := pipeline.NewVisualize(pipeline.GridReaderFunc(netcdf.ReadGrid), renderer, cfg.DataDir, cfg.VisDir, logger, metrics)
	if _, err := vis.Run(ctx, opts.Range()); err != nil {
		if domain.IsUsageError(err) {
			return cmd.UsageError(err)
		}
		logger.Error("visualization failed", "error", err)
		return cli.ExitError
	}
	return cli.ExitOK
}
