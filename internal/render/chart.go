package render

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/couchcryptid/rainfall-grid-etl/internal/domain"
)

// DailyMeans returns the mean over non-NaN cells for each frame, and whether the
// frame had any data.
func DailyMeans(frames []Frame) ([]float64, []bool) {
	means := make([]float64, len(frames))
	ok := make([]bool, len(frames))
	for i, f := range frames {
		means[i], ok[i] = domain.NaNMean2D(f.Data)
	}
	return means, ok
}

// SummaryChartPNG draws the domain-mean daily rainfall as a line chart. It returns
// nil when fewer than two days have data.
func SummaryChartPNG(year domain.Year, frames []Frame, width, height int) ([]byte, error) {
	means, ok := DailyMeans(frames)

	var xs, ys []float64
	peak := 0.0
	for i, m := range means {
		if !ok[i] {
			continue
		}
		xs = append(xs, float64(frames[i].Day))
		ys = append(ys, m)
		peak = max(peak, m)
	}
	if len(xs) < 2 {
		return nil, nil
	}
	if peak == 0 {
		peak = 1
	}

	ch := chart.Chart{
		Title:      fmt.Sprintf("Mean daily rainfall, %s", year),
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 12}},
		XAxis: chart.XAxis{
			Name:  "Day",
			Range: &chart.ContinuousRange{Min: 0, Max: float64(domain.FramesPerYear - 1)},
		},
		YAxis: chart.YAxis{
			Name:  "Rainfall (mm)",
			Range: &chart.ContinuousRange{Min: 0, Max: peak * 1.1},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Mean",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: drawing.ColorFromHex("2171b5"),
					StrokeWidth: 1.5,
					FillColor:   drawing.ColorFromHex("c6dbef").WithAlpha(128),
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render summary chart: %w", err)
	}
	return buf.Bytes(), nil
}
