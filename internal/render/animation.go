// Package render turns a year's rainfall grid into a self-contained animated HTML
// document: one colour-mapped frame per day, each scaled to its own data range.
package render

import (
	"context"
	"html/template"

	"github.com/couchcryptid/rainfall-grid-etl/internal/domain"
)

// Options control rasterisation and playback.
type Options struct {
	Scale         int
	FPS           int
	Interpolation Interpolation

	// SummaryChart adds a mean-rainfall line chart below the player.
	SummaryChart bool
}

// DefaultOptions match the RENDER_* configuration defaults.
func DefaultOptions() Options {
	return Options{Scale: 4, FPS: 5, Interpolation: Nearest, SummaryChart: true}
}

// Stats summarises one render.
type Stats struct {
	Frames      int
	EmptyFrames int
}

// Renderer builds animation documents.
type Renderer struct {
	opts   Options
	raster Rasterizer
}

// NewRenderer creates a Renderer using the Blues colour map.
func NewRenderer(opts Options) *Renderer {
	if opts.Scale < 1 {
		opts.Scale = 1
	}
	if opts.FPS < 1 {
		opts.FPS = 1
	}
	return &Renderer{
		opts: opts,
		raster: Rasterizer{
			Scale:         opts.Scale,
			Interpolation: opts.Interpolation,
			Colormap:      Blues,
		},
	}
}

// Render builds every frame of g and returns the finished document. Frames are
// rasterised in day order; ctx is checked between frames.
func (r *Renderer) Render(ctx context.Context, g domain.Grid) (*Document, Stats, error) {
	frames, err := BuildFrames(g)
	if err != nil {
		return nil, Stats{}, err
	}

	ext := g.Extent()
	doc := &Document{
		Year:     g.Year,
		FPS:      r.opts.FPS,
		Width:    g.Cols() * r.opts.Scale,
		Height:   g.Rows() * r.opts.Scale,
		Frames:   make([]EncodedFrame, 0, len(frames)),
		XTicks:   LinearTicks(ext.LonMin, ext.LonMax, TicksPerAxis, "°E"),
		YTicks:   LinearTicks(ext.LatMin, ext.LatMax, TicksPerAxis, "°N"),
		Colorbar: template.CSS(r.raster.Colormap.CSSGradient()),
	}

	var stats Stats
	for _, f := range frames {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}
		data, err := r.raster.EncodePNG(f)
		if err != nil {
			return nil, stats, err
		}
		doc.AddFrame(f, data)
		stats.Frames++
		if !f.Valid {
			stats.EmptyFrames++
		}
	}

	if r.opts.SummaryChart {
		chartPNG, err := SummaryChartPNG(g.Year, frames, 800, 300)
		if err != nil {
			return nil, stats, err
		}
		doc.SetChart(chartPNG)
	}
	return doc, stats, nil
}
