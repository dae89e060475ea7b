package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/rainfall-grid-etl/internal/adapter/netcdf"
	"github.com/couchcryptid/rainfall-grid-etl/internal/cli"
	"github.com/couchcryptid/rainfall-grid-etl/internal/domain"
)

func writeDataset(t *testing.T, dir string, y domain.Year) {
	t.Helper()
	values := make([]float64, domain.FramesPerYear*2*3)
	for i := range values {
		values[i] = float64(i % 11)
	}
	g := domain.Grid{
		Year:      y,
		Longitude: []float64{66.5, 66.75, 67},
		Latitude:  []float64{6.5, 6.75},
		Days:      domain.FramesPerYear,
		Values:    values,
	}
	require.NoError(t, netcdf.WriteGrid(filepath.Join(dir, domain.DatasetFileName(y)), g))
}

// setupDirs writes datasets for 2019 and 2020 and points the command at them.
func setupDirs(t *testing.T) (dataDir, visDir string) {
	t.Helper()
	dataDir = t.TempDir()
	visDir = filepath.Join(t.TempDir(), "vis")
	writeDataset(t, dataDir, 2019)
	writeDataset(t, dataDir, 2020)

	t.Setenv("DATA_DIR", dataDir)
	t.Setenv("VIS_DIR", visDir)
	t.Setenv("RENDER_SCALE", "1")
	t.Setenv("METRICS_TEXTFILE", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("LOG_LEVEL", "error")
	return dataDir, visDir
}

func TestRun_RendersSelectedYear(t *testing.T) {
	_, visDir := setupDirs(t)

	var stderr bytes.Buffer
	code := run([]string{"-f", "2019", "-t", "2019", "-i", "bilinear"}, &stderr)
	require.Equal(t, cli.ExitOK, code, stderr.String())

	data, err := os.ReadFile(filepath.Join(visDir, "2019.html"))
	require.NoError(t, err)
	assert.Equal(t, domain.FramesPerYear, bytes.Count(data, []byte(`"title":"Day `)))
	assert.NoFileExists(t, filepath.Join(visDir, "2020.html"))
}

func TestRun_UsageErrors(t *testing.T) {
	cases := []struct {
		name string
		args []string
		want string
	}{
		{name: "year not on disk", args: []string{"-f", "1990"}, want: "Error: year 1990 not found in the data files"},
		{name: "explicit zero to", args: []string{"-t", "0"}, want: "Error: year 0 not found in the data files"},
		{name: "inverted", args: []string{"-f", "2020", "-t", "2019"}, want: "Error: from year cannot be greater than to year"},
		{name: "unknown interpolation", args: []string{"-i", "spline"}, want: `invalid interpolation "spline"`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, visDir := setupDirs(t)

			var stderr bytes.Buffer
			assert.Equal(t, cli.ExitUsage, run(tc.args, &stderr))
			assert.Contains(t, stderr.String(), tc.want)
			assert.Contains(t, stderr.String(), "usage: rainfall-vis [-f YEAR] [-t YEAR] [-i METHOD]")
			assert.NoDirExists(t, visDir)
		})
	}
}
