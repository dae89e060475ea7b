package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/rainfall-grid-etl/internal/cli"
	"github.com/couchcryptid/rainfall-grid-etl/internal/domain"
)

const portalPage = `<html><body><form action="RF25.php" method="post">
<select name="RF25">
  <option value="2018">2018</option>
  <option value="2019">2019</option>
  <option value="2020">2020</option>
</select>
</form></body></html>`

// setupPortal serves the year dropdown and the download endpoint, failing
// downloads for 2018. It returns the data directory the command writes into.
func setupPortal(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/page.html":
			_, _ = io.WriteString(w, portalPage)
		case "/RF25.php":
			year := r.FormValue("RF25")
			if year == "2018" {
				http.Error(w, "unavailable", http.StatusServiceUnavailable)
				return
			}
			_, _ = io.WriteString(w, "CDF-"+year)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	dataDir := filepath.Join(t.TempDir(), "data")
	t.Setenv("IMD_PAGE_URL", srv.URL+"/page.html")
	t.Setenv("IMD_DOWNLOAD_URL", srv.URL+"/RF25.php")
	t.Setenv("DATA_DIR", dataDir)
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("METRICS_TEXTFILE", "")
	t.Setenv("LOG_LEVEL", "error")
	return dataDir
}

func TestRun_DownloadsSelectedYears(t *testing.T) {
	dataDir := setupPortal(t)
	textfile := filepath.Join(t.TempDir(), "fetch.prom")
	t.Setenv("METRICS_TEXTFILE", textfile)

	var stderr bytes.Buffer
	code := run([]string{"-f", "2019", "-t", "2020"}, &stderr)
	require.Equal(t, cli.ExitOK, code, stderr.String())

	for _, y := range []domain.Year{2019, 2020} {
		data, err := os.ReadFile(filepath.Join(dataDir, domain.DatasetFileName(y)))
		require.NoError(t, err)
		assert.Equal(t, "CDF-"+y.String(), string(data))
	}
	assert.NoFileExists(t, filepath.Join(dataDir, domain.DatasetFileName(2018)))

	metrics, err := os.ReadFile(textfile)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "rainfall_datasets_downloaded_total 2")
}

func TestRun_ResolverErrorsAreUsageErrors(t *testing.T) {
	cases := []struct {
		name string
		args []string
		want string
	}{
		{name: "explicit zero from", args: []string{"-f", "0"}, want: "Error: year range is out of bounds"},
		{name: "to below minimum", args: []string{"-t", "500"}, want: "Error: year range is out of bounds"},
		{name: "inverted", args: []string{"-f", "99999", "-t", "2019"}, want: "Error: from year cannot be greater than to year"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dataDir := setupPortal(t)

			var stderr bytes.Buffer
			assert.Equal(t, cli.ExitUsage, run(tc.args, &stderr))
			assert.Contains(t, stderr.String(), tc.want)
			assert.Contains(t, stderr.String(), "usage: rainfall-fetch [-f YEAR] [-t YEAR]")
			assert.NoDirExists(t, dataDir)
		})
	}
}

func TestRun_DownloadFailureExitsWithError(t *testing.T) {
	dataDir := setupPortal(t)

	var stderr bytes.Buffer
	assert.Equal(t, cli.ExitError, run([]string{"-f", "2018", "-t", "2019"}, &stderr))
	assert.NotContains(t, stderr.String(), "usage:")
	assert.NoFileExists(t, filepath.Join(dataDir, domain.DatasetFileName(2018)))
	assert.NoFileExists(t, filepath.Join(dataDir, domain.DatasetFileName(2019)))
}

func TestRun_BadFlag(t *testing.T) {
	setupPortal(t)

	var stderr bytes.Buffer
	assert.Equal(t, cli.ExitUsage, run([]string{"-f", "soon"}, &stderr))
	assert.Contains(t, stderr.String(), "must be an integer year")
}
