// Command rainfall-fetch downloads IMD 0.25° gridded daily rainfall datasets, one
// NetCDF file per year, into DATA_DIR.
//
// Usage:
//
//	rainfall-fetch [-f YEAR] [-t YEAR]
package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/rainfall-grid-etl/internal/adapter/imd"
	kafkaadapter "github.com/couchcryptid/rainfall-grid-etl/internal/adapter/kafka"
	"github.com/couchcryptid/rainfall-grid-etl/internal/cli"
	"github.com/couchcryptid/rainfall-grid-etl/internal/config"
	"github.com/couchcryptid/rainfall-grid-etl/internal/domain"
	"github.com/couchcryptid/rainfall-grid-etl/internal/observability"
	"github.com/couchcryptid/rainfall-grid-etl/internal/pipeline"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// run executes the command and returns its exit code. Usage and usage errors are
// written to stderr.
func run(args []string, stderr io.Writer) int {
	cmd := cli.New("rainfall-fetch", "Download rainfall datasets for the selected years.", false, stderr)
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

	client := imd.NewClient(cfg.PageURL, cfg.DownloadURL, cfg.HTTPTimeout, logger)

	var notifier pipeline.Notifier
	if cfg.KafkaEnabled {
		n := kafkaadapter.NewNotifier(cfg, logger)
		defer func() {
			if err := n.Close(); err != nil {
				logger.Error("kafka notifier close error", "error", err)
			}
		}()
		notifier = n
		logger.Info("dataset notifications enabled", "topic", cfg.KafkaTopic)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fetch := pipeline.NewFetch(client, client, notifier, cfg.DataDir, logger, metrics)
	if _, err := fetch.Run(ctx, opts.Range()); err != nil {
		if domain.IsUsageError(err) {
			return cmd.UsageError(err)
		}
		logger.Error("fetch failed", "error", err)
		return cli.ExitError
	}
	return cli.ExitOK
}
