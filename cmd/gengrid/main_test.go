package main

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/rainfall-grid-etl/internal/adapter/netcdf"
	"github.com/couchcryptid/rainfall-grid-etl/internal/domain"
)

func TestParseYears(t *testing.T) {
	years, err := parseYears(" 2020, 2019,2020 ")
	require.NoError(t, err)
	assert.Equal(t, []domain.Year{2019, 2020}, years)

	_, err = parseYears("")
	assert.Error(t, err)
	_, err = parseYears("2019,soon")
	assert.Error(t, err)
	_, err = parseYears("99")
	assert.Error(t, err)
}

func TestSynthGrid(t *testing.T) {
	g := synthGrid(2019, gridSpec{rows: 8, cols: 8, days: domain.FramesPerYear, emptyDay: 10})
	require.NoError(t, g.Validate())
	assert.Equal(t, 66.5, g.Longitude[0])
	assert.Equal(t, 6.5+0.25*7, g.Latitude[7])

	day10, err := g.Day(10)
	require.NoError(t, err)
	_, _, ok := domain.NaNRange2D(day10)
	assert.False(t, ok, "empty day should be all NaN")

	day180, err := g.Day(180)
	require.NoError(t, err)
	lo, hi, ok := domain.NaNRange2D(day180)
	require.True(t, ok)
	assert.GreaterOrEqual(t, lo, 0.0)
	assert.Greater(t, hi, lo)
	assert.True(t, math.IsNaN(day180[7][7]), "north-east corner is masked")

	again := synthGrid(2019, gridSpec{rows: 8, cols: 8, days: domain.FramesPerYear, emptyDay: 10})
	assert.Equal(t, g.Values[500], again.Values[500])
}

func TestWriteAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, domain.DatasetFileName(2019))
	spec := gridSpec{rows: 3, cols: 4, days: domain.FramesPerYear, emptyDay: -1}
	require.NoError(t, writeAtomic(path, synthGrid(2019, spec)))

	g, err := netcdf.ReadGrid(path, 2019)
	require.NoError(t, err)
	assert.Equal(t, domain.FramesPerYear, g.Days)
	assert.Equal(t, 3, g.Rows())
	assert.Equal(t, 4, g.Cols())
}
