package render

import (
	"fmt"

	"github.com/couchcryptid/rainfall-grid-etl/internal/domain"
)

// Frame is one day of a grid, oriented for display (row 0 is the northern edge),
// with the colour limits for that day alone.
type Frame struct {
	Day   int
	Title string
	Data  [][]float64

	// Min and Max span the non-NaN cells. Valid is false when every cell is NaN, in
	// which case the frame is drawn with a flat scale.
	Min, Max float64
	Valid    bool
}

// BuildFrames materialises the frames for days 0 through 364 in order. Grids with
// fewer days are rejected; days beyond 364 are not rendered.
func BuildFrames(g domain.Grid) ([]Frame, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if g.Days < domain.FramesPerYear {
		return nil, fmt.Errorf("%w: %s has %d days", domain.ErrShortGrid, g.Year, g.Days)
	}

	frames := make([]Frame, domain.FramesPerYear)
	for day := range frames {
		rows, err := g.Day(day)
		if err != nil {
			return nil, err
		}
		data := domain.FlipVertical(rows)
		lo, hi, ok := domain.NaNRange2D(data)
		frames[day] = Frame{
			Day:   day,
			Title: fmt.Sprintf("Day %d", day),
			Data:  data,
			Min:   lo,
			Max:   hi,
			Valid: ok,
		}
	}
	return frames, nil
}
