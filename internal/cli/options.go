package cli

import (
	"errors"
	"strconv"

	"github.com/couchcryptid/rainfall-grid-etl/internal/domain"
	"github.com/couchcryptid/rainfall-grid-etl/internal/render"
)

// Options are the command-line selections shared by the fetch and visualize commands.
// A nil bound was not given on the command line; any given value, including 0, is
// passed to the resolver as-is.
type Options struct {
	From          *domain.Year
	To            *domain.Year
	Interpolation render.Interpolation
}

// Range converts the year options into a domain.YearRange.
func (o Options) Range() domain.YearRange {
	return domain.YearRange{From: o.From, To: o.To}
}

// yearFlag stores a parsed year into *dst, marking the bound as given.
func yearFlag(dst **domain.Year) func(string) error {
	return func(s string) error {
		n, err := strconv.Atoi(s)
		if err != nil {
			return errors.New("must be an integer year")
		}
		y := domain.Year(n)
		*dst = &y
		return nil
	}
}

// interpolationFlag parses an interpolation name into *dst.
func interpolationFlag(dst *render.Interpolation) func(string) error {
	return func(s string) error {
		i, err := render.ParseInterpolation(s)
		if err != nil {
			return err
		}
		*dst = i
		return nil
	}
}
