package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/couchcryptid/rainfall-grid-etl/internal/adapter/datadir"
	"github.com/couchcryptid/rainfall-grid-etl/internal/domain"
	"github.com/couchcryptid/rainfall-grid-etl/internal/observability"
)

// YearSource reports which years the upstream portal offers.
type YearSource interface {
	DiscoverYears(ctx context.Context) (domain.YearSet, error)
}

// Downloader streams one year's dataset to w.
type Downloader interface {
	Download(ctx context.Context, year domain.Year, w io.Writer) (int64, error)
}

// Notifier announces datasets that have been written to disk.
type Notifier interface {
	NotifyFetched(ctx context.Context, ev domain.DatasetFetched) error
}

// Fetch resolves a year range against the portal and downloads each selected year.
type Fetch struct {
	source     YearSource
	downloader Downloader
	notifier   Notifier
	dataDir    string
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewFetch creates a Fetch pipeline writing into dataDir. notifier may be nil.
func NewFetch(src YearSource, dl Downloader, notifier Notifier, dataDir string, logger *slog.Logger, metrics *observability.Metrics) *Fetch {
	return &Fetch{
		source:     src,
		downloader: dl,
		notifier:   notifier,
		dataDir:    dataDir,
		logger:     logger,
		metrics:    metrics,
	}
}

// Run discovers the available years, resolves r against them and downloads the
// selection. Resolution errors are returned before any download starts. It returns
// the years that were resolved.
func (f *Fetch) Run(ctx context.Context, r domain.YearRange) ([]domain.Year, error) {
	available, err := f.source.DiscoverYears(ctx)
	if err != nil {
		return nil, fmt.Errorf("discover years: %w", err)
	}

	years, err := domain.Resolve(available, r)
	if err != nil {
		return nil, err
	}

	f.logger.Info("downloading dataset(s)", "years", domain.JoinYears(years))
	return years, f.FetchAll(ctx, years)
}

// FetchAll downloads years one at a time in the given order. Each file is written
// through a temporary file, so an interrupted download leaves no partial dataset.
// The first failure stops the run; files already written are kept.
func (f *Fetch) FetchAll(ctx context.Context, years []domain.Year) error {
	for i, y := range years {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := f.fetchOne(ctx, y, i, len(years)); err != nil {
			f.metrics.DownloadErrors.Inc()
			return err
		}
	}
	return nil
}

func (f *Fetch) fetchOne(ctx context.Context, y domain.Year, index, total int) error {
	name := domain.DatasetFileName(y)
	start := domain.Now()

	n, err := datadir.WriteAtomic(f.dataDir, name, func(w io.Writer) error {
		_, err := f.downloader.Download(ctx, y, w)
		return err
	})
	if err != nil {
		f.logger.Error("download failed", "year", int(y), "error", err)
		return fmt.Errorf("fetch %s: %w", y, err)
	}

	elapsed := domain.Elapsed(start)
	f.metrics.DatasetsDownloaded.Inc()
	f.metrics.DownloadBytes.Add(float64(n))
	f.metrics.DownloadDuration.Observe(elapsed.Seconds())

	path := filepath.Join(f.dataDir, name)
	f.logger.Info("dataset saved",
		"year", int(y),
		"progress", fmt.Sprintf("%d/%d", index+1, total),
		"bytes", n,
		"duration", elapsed,
		"path", path,
	)

	if f.notifier != nil {
		if err := f.notifier.NotifyFetched(ctx, domain.NewDatasetFetched(y, path, n)); err != nil {
			f.logger.Warn("dataset notification failed", "year", int(y), "error", err)
		}
	}
	return nil
}
