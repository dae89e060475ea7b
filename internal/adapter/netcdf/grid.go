// Package netcdf reads and writes IMD gridded rainfall files.
package netcdf

import (
	"errors"
	"fmt"
	"math"

	nc "github.com/fhs/go-netcdf/netcdf"

	"github.com/couchcryptid/rainfall-grid-etl/internal/domain"
)

// Variable and dimension names used by the IMD RF25 files.
const (
	VarLongitude = "LONGITUDE"
	VarLatitude  = "LATITUDE"
	VarRainfall  = "RAINFALL"
	DimTime      = "TIME"

	// FillValue marks missing cells in IMD files that carry no fill attribute.
	FillValue = -999.0
)

// ReadGrid loads the coordinate vectors and daily rainfall cube from path. Fill and
// missing values become NaN. The rainfall variable may be stored as (time, lat, lon)
// or (time, lon, lat); the result is always day-major then latitude then longitude.
func ReadGrid(path string, year domain.Year) (domain.Grid, error) {
	ds, err := nc.OpenFile(path, nc.NOWRITE)
	if err != nil {
		return domain.Grid{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer ds.Close()

	lon, err := readVector(ds, VarLongitude)
	if err != nil {
		return domain.Grid{}, err
	}
	lat, err := readVector(ds, VarLatitude)
	if err != nil {
		return domain.Grid{}, err
	}

	rf, err := ds.Var(VarRainfall)
	if err != nil {
		return domain.Grid{}, fmt.Errorf("variable %s: %w", VarRainfall, err)
	}
	shape, err := varShape(rf)
	if err != nil {
		return domain.Grid{}, fmt.Errorf("variable %s: %w", VarRainfall, err)
	}
	if len(shape) != 3 {
		return domain.Grid{}, fmt.Errorf("variable %s: want 3 dimensions, got %d", VarRainfall, len(shape))
	}

	values, err := readFloats(rf, shape[0]*shape[1]*shape[2])
	if err != nil {
		return domain.Grid{}, fmt.Errorf("variable %s: %w", VarRainfall, err)
	}
	maskFill(values, fillValues(rf))

	days := shape[0]
	switch {
	case shape[1] == len(lat) && shape[2] == len(lon):
	case shape[1] == len(lon) && shape[2] == len(lat):
		values = transpose(values, days, len(lon), len(lat))
	default:
		return domain.Grid{}, fmt.Errorf("variable %s: shape %v does not match %d latitudes x %d longitudes",
			VarRainfall, shape, len(lat), len(lon))
	}

	g := domain.Grid{
		Year:      year,
		Longitude: lon,
		Latitude:  lat,
		Days:      days,
		Values:    values,
	}
	if err := g.Validate(); err != nil {
		return domain.Grid{}, err
	}
	return g, nil
}

// WriteGrid writes g to path as a NetCDF-4 file using the IMD variable names. NaN
// cells are stored as FillValue.
func WriteGrid(path string, g domain.Grid) (err error) {
	if err := g.Validate(); err != nil {
		return err
	}

	ds, err := nc.CreateFile(path, nc.CLOBBER|nc.NETCDF4)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := ds.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	timeDim, err := ds.AddDim(DimTime, uint64(g.Days))
	if err != nil {
		return err
	}
	latDim, err := ds.AddDim(VarLatitude, uint64(len(g.Latitude)))
	if err != nil {
		return err
	}
	lonDim, err := ds.AddDim(VarLongitude, uint64(len(g.Longitude)))
	if err != nil {
		return err
	}

	timeVar, err := ds.AddVar(DimTime, nc.DOUBLE, []nc.Dim{timeDim})
	if err != nil {
		return err
	}
	latVar, err := ds.AddVar(VarLatitude, nc.DOUBLE, []nc.Dim{latDim})
	if err != nil {
		return err
	}
	lonVar, err := ds.AddVar(VarLongitude, nc.DOUBLE, []nc.Dim{lonDim})
	if err != nil {
		return err
	}
	rfVar, err := ds.AddVar(VarRainfall, nc.DOUBLE, []nc.Dim{timeDim, latDim, lonDim})
	if err != nil {
		return err
	}
	if err := rfVar.Attr("_FillValue").WriteFloat64s([]float64{FillValue}); err != nil {
		return fmt.Errorf("write _FillValue: %w", err)
	}
	if err := ds.EndDef(); err != nil {
		return err
	}

	times := make([]float64, g.Days)
	for i := range times {
		times[i] = float64(i)
	}
	if err := timeVar.WriteFloat64s(times); err != nil {
		return err
	}
	if err := latVar.WriteFloat64s(g.Latitude); err != nil {
		return err
	}
	if err := lonVar.WriteFloat64s(g.Longitude); err != nil {
		return err
	}

	out := make([]float64, len(g.Values))
	for i, v := range g.Values {
		if math.IsNaN(v) {
			v = FillValue
		}
		out[i] = v
	}
	return rfVar.WriteFloat64s(out)
}

func readVector(ds nc.Dataset, name string) ([]float64, error) {
	v, err := ds.Var(name)
	if err != nil {
		return nil, fmt.Errorf("variable %s: %w", name, err)
	}
	shape, err := varShape(v)
	if err != nil {
		return nil, fmt.Errorf("variable %s: %w", name, err)
	}
	if len(shape) != 1 {
		return nil, fmt.Errorf("variable %s: want 1 dimension, got %d", name, len(shape))
	}
	if shape[0] == 0 {
		return nil, fmt.Errorf("variable %s: empty", name)
	}
	return readFloats(v, shape[0])
}

func varShape(v nc.Var) ([]int, error) {
	dims, err := v.Dims()
	if err != nil {
		return nil, err
	}
	shape := make([]int, len(dims))
	for i, d := range dims {
		n, err := d.Len()
		if err != nil {
			return nil, err
		}
		shape[i] = int(n)
	}
	return shape, nil
}

var errUnsupportedType = errors.New("unsupported variable type (want FLOAT or DOUBLE)")

func readFloats(v nc.Var, n int) ([]float64, error) {
	t, err := v.Type()
	if err != nil {
		return nil, err
	}
	switch t {
	case nc.DOUBLE:
		out := make([]float64, n)
		if err := v.ReadFloat64s(out); err != nil {
			return nil, err
		}
		return out, nil
	case nc.FLOAT:
		buf := make([]float32, n)
		if err := v.ReadFloat32s(buf); err != nil {
			return nil, err
		}
		out := make([]float64, n)
		for i, f := range buf {
			out[i] = float64(f)
		}
		return out, nil
	default:
		return nil, errUnsupportedType
	}
}

// fillValues collects the variable's _FillValue and missing_value attributes plus
// the IMD default.
func fillValues(v nc.Var) []float64 {
	fills := []float64{FillValue}
	for _, name := range []string{"_FillValue", "missing_value"} {
		a := v.Attr(name)
		n, err := a.Len()
		if err != nil || n == 0 {
			continue
		}
		t, err := a.Type()
		if err != nil {
			continue
		}
		switch t {
		case nc.DOUBLE:
			buf := make([]float64, n)
			if a.ReadFloat64s(buf) == nil {
				fills = append(fills, buf...)
			}
		case nc.FLOAT:
			buf := make([]float32, n)
			if a.ReadFloat32s(buf) == nil {
				for _, f := range buf {
					fills = append(fills, float64(f))
				}
			}
		}
	}
	return fills
}

func maskFill(values, fills []float64) {
	for i, v := range values {
		for _, f := range fills {
			if v == f {
				values[i] = math.NaN()
				break
			}
		}
	}
}

// transpose converts a (days, a, b) cube to (days, b, a).
func transpose(values []float64, days, a, b int) []float64 {
	out := make([]float64, len(values))
	plane := a * b
	for d := 0; d < days; d++ {
		base := d * plane
		for i := 0; i < a; i++ {
			for j := 0; j < b; j++ {
				out[base+j*a+i] = values[base+i*b+j]
			}
		}
	}
	return out
}
