package domain

import (
	"errors"
	"fmt"
	"math"
)

// FramesPerYear is the number of daily frames rendered per dataset. Leap-year
// datasets carry a 366th day that is not animated.
const FramesPerYear = 365

// ErrShortGrid is returned when a grid holds fewer days than FramesPerYear.
var ErrShortGrid = errors.New("grid holds fewer days than a full year")

// Grid is one year of daily rainfall on a fixed lon/lat lattice. Values are laid out
// day-major, then latitude row, then longitude column. Missing cells are NaN.
type Grid struct {
	Year      Year
	Longitude []float64
	Latitude  []float64
	Days      int
	Values    []float64
}

// Rows is the number of latitude rows.
func (g Grid) Rows() int { return len(g.Latitude) }

// Cols is the number of longitude columns.
func (g Grid) Cols() int { return len(g.Longitude) }

// Validate checks that the value buffer matches the coordinate vectors.
func (g Grid) Validate() error {
	if g.Rows() == 0 || g.Cols() == 0 {
		return fmt.Errorf("grid %s: empty coordinate vectors", g.Year)
	}
	if want := g.Days * g.Rows() * g.Cols(); len(g.Values) != want {
		return fmt.Errorf("grid %s: %d values, want %d (%d days x %d x %d)",
			g.Year, len(g.Values), want, g.Days, g.Rows(), g.Cols())
	}
	return nil
}

// Day returns a copy of day d as rows of columns, in storage order.
func (g Grid) Day(d int) ([][]float64, error) {
	if d < 0 || d >= g.Days {
		return nil, fmt.Errorf("grid %s: day %d out of range [0, %d)", g.Year, d, g.Days)
	}
	rows, cols := g.Rows(), g.Cols()
	base := d * rows * cols
	out := make([][]float64, rows)
	for r := range out {
		row := make([]float64, cols)
		copy(row, g.Values[base+r*cols:base+(r+1)*cols])
		out[r] = row
	}
	return out, nil
}

// Extent is the geographic bounding box of a grid.
type Extent struct {
	LonMin, LonMax float64
	LatMin, LatMax float64
}

// Extent computes the bounding box once from the coordinate vectors.
func (g Grid) Extent() Extent {
	lonMin, lonMax, _ := NaNRange(g.Longitude)
	latMin, latMax, _ := NaNRange(g.Latitude)
	return Extent{LonMin: lonMin, LonMax: lonMax, LatMin: latMin, LatMax: latMax}
}

// FlipVertical returns the rows in reverse order. The input is not modified.
func FlipVertical(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		out[len(rows)-1-i] = row
	}
	return out
}

// NaNRange returns the minimum and maximum of the finite values; NaN and ±Inf are
// treated as missing. ok is false when no value is finite.
func NaNRange(values []float64) (lo, hi float64, ok bool) {
	lo, hi = math.NaN(), math.NaN()
	for _, v := range values {
		if !isFinite(v) {
			continue
		}
		if !ok {
			lo, hi, ok = v, v, true
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi, ok
}

// NaNRange2D is NaNRange over a 2-D array.
func NaNRange2D(rows [][]float64) (lo, hi float64, ok bool) {
	lo, hi = math.NaN(), math.NaN()
	for _, row := range rows {
		rlo, rhi, rok := NaNRange(row)
		if !rok {
			continue
		}
		if !ok {
			lo, hi, ok = rlo, rhi, true
			continue
		}
		lo = math.Min(lo, rlo)
		hi = math.Max(hi, rhi)
	}
	return lo, hi, ok
}

// NaNMean2D returns the mean of the finite values of a 2-D array.
func NaNMean2D(rows [][]float64) (float64, bool) {
	var sum float64
	var n int
	for _, row := range rows {
		for _, v := range row {
			if !isFinite(v) {
				continue
			}
			sum += v
			n++
		}
	}
	if n == 0 {
		return math.NaN(), false
	}
	return sum / float64(n), true
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
