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
	"github.com/couchcryptid/rainfall-grid-etl/internal/render"
)

// GridReader loads a year's dataset.
type GridReader interface {
	ReadGrid(path string, year domain.Year) (domain.Grid, error)
}

// GridReaderFunc adapts a function to GridReader.
type GridReaderFunc func(path string, year domain.Year) (domain.Grid, error)

// ReadGrid calls fn.
func (fn GridReaderFunc) ReadGrid(path string, year domain.Year) (domain.Grid, error) {
	return fn(path, year)
}

// Renderer turns a grid into an animation document.
type Renderer interface {
	Render(ctx context.Context, g domain.Grid) (*render.Document, render.Stats, error)
}

// Visualize renders an animation for each locally downloaded year in a range.
type Visualize struct {
	reader   GridReader
	renderer Renderer
	dataDir  string
	visDir   string
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewVisualize creates a Visualize pipeline reading from dataDir and writing to visDir.
func NewVisualize(reader GridReader, renderer Renderer, dataDir, visDir string, logger *slog.Logger, metrics *observability.Metrics) *Visualize {
	return &Visualize{
		reader:   reader,
		renderer: renderer,
		dataDir:  dataDir,
		visDir:   visDir,
		logger:   logger,
		metrics:  metrics,
	}
}

// Run scans the data directory, checks that any explicit bound names a year on disk,
// resolves r and writes one document per selected year. It returns the years
// rendered.
func (v *Visualize) Run(ctx context.Context, r domain.YearRange) ([]domain.Year, error) {
	files, err := datadir.Scan(v.dataDir)
	if err != nil {
		return nil, err
	}
	available := datadir.Years(files)

	if err := domain.RequirePresent(available, r); err != nil {
		return nil, err
	}
	years, err := domain.Resolve(available, r)
	if err != nil {
		return nil, err
	}

	v.logger.Info("processing years", "years", domain.JoinYears(years))
	for i, y := range years {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path, err := v.renderOne(ctx, y, files[y])
		if err != nil {
			return nil, err
		}
		v.logger.Info("animation saved",
			"year", int(y),
			"progress", fmt.Sprintf("%d/%d", i+1, len(years)),
			"path", path,
		)
	}
	return years, nil
}

func (v *Visualize) renderOne(ctx context.Context, y domain.Year, src string) (string, error) {
	start := domain.Now()

	g, err := v.reader.ReadGrid(src, y)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", src, err)
	}

	doc, stats, err := v.renderer.Render(ctx, g)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", y, err)
	}

	name := domain.AnimationFileName(y)
	if _, err := datadir.WriteAtomic(v.visDir, name, func(w io.Writer) error {
		return doc.WriteHTML(w)
	}); err != nil {
		return "", fmt.Errorf("write animation %s: %w", y, err)
	}

	if stats.EmptyFrames > 0 {
		v.logger.Warn("frames without data", "year", int(y), "count", stats.EmptyFrames)
	}
	v.metrics.AnimationsRendered.Inc()
	v.metrics.FramesRendered.Add(float64(stats.Frames))
	v.metrics.EmptyFrames.Add(float64(stats.EmptyFrames))
	v.metrics.RenderDuration.Observe(domain.Elapsed(start).Seconds())

	return filepath.Join(v.visDir, name), nil
}
