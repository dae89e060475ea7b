// Command gengrid writes synthetic RF25 NetCDF datasets on the IMD 0.25° grid so the
// visualizer and validator can be exercised without the portal.
//
// Usage:
//
//	go run ./cmd/gengrid -years 2019,2020 -out data
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/couchcryptid/rainfall-grid-etl/internal/adapter/netcdf"
	"github.com/couchcryptid/rainfall-grid-etl/internal/domain"
)

// IMD RF25 grid: 66.5°E–100°E by 6.5°N–38.5°N at 0.25°.
const (
	lonStart = 66.5
	latStart = 6.5
	step     = 0.25
	imdCols  = 135
	imdRows  = 129
)

type gridSpec struct {
	rows, cols int
	days       int
	emptyDay   int // -1 for none
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "data", "directory to write datasets into")
	yearList := flag.String("years", "", "comma-separated years to generate, e.g. 2019,2020")
	rows := flag.Int("rows", imdRows, "latitude points")
	cols := flag.Int("cols", imdCols, "longitude points")
	days := flag.Int("days", domain.FramesPerYear, "days per dataset")
	emptyDay := flag.Int("empty-day", 10, "day whose cells are all missing (-1 for none)")
	flag.Parse()

	years, err := parseYears(*yearList)
	if err != nil {
		flag.Usage()
		return err
	}
	spec := gridSpec{rows: *rows, cols: *cols, days: *days, emptyDay: *emptyDay}
	if spec.rows < 1 || spec.cols < 1 || spec.days < 1 {
		return fmt.Errorf("rows, cols and days must be positive")
	}

	if err := os.MkdirAll(*out, 0o755); err != nil {
		return err
	}

	for _, y := range years {
		path := filepath.Join(*out, domain.DatasetFileName(y))
		if err := writeAtomic(path, synthGrid(y, spec)); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		log.Printf("%s: %d days, %dx%d grid -> %s", y, spec.days, spec.rows, spec.cols, path)
	}
	log.Printf("total: %d datasets", len(years))
	return nil
}

func parseYears(s string) ([]domain.Year, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("missing required flag: -years")
	}
	set := domain.NewYearSet()
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 1000 || n > 9999 {
			return nil, fmt.Errorf("invalid year %q", part)
		}
		set[domain.Year(n)] = struct{}{}
	}
	return set.Sorted(), nil
}

// synthGrid produces a deterministic monsoon-like pattern: rainfall peaks mid-year,
// increases southward and westward, and cells in the north-east corner are missing
// as they are over sea and outside the country mask in the real data.
func synthGrid(y domain.Year, spec gridSpec) domain.Grid {
	lon := make([]float64, spec.cols)
	for i := range lon {
		lon[i] = lonStart + step*float64(i)
	}
	lat := make([]float64, spec.rows)
	for i := range lat {
		lat[i] = latStart + step*float64(i)
	}

	phase := float64(int(y)%7) / 7
	values := make([]float64, spec.days*spec.rows*spec.cols)
	for d := 0; d < spec.days; d++ {
		season := math.Max(0, math.Sin(math.Pi*(float64(d)/float64(spec.days)+phase*0.1)))
		for r := 0; r < spec.rows; r++ {
			for c := 0; c < spec.cols; c++ {
				i := (d*spec.rows+r)*spec.cols + c
				if d == spec.emptyDay || (r > spec.rows*3/4 && c > spec.cols*3/4) {
					values[i] = math.NaN()
					continue
				}
				south := 1 - float64(r)/float64(spec.rows)
				west := 1 - float64(c)/float64(spec.cols)
				ripple := 0.5 + 0.5*math.Sin(float64(c+d)/5)*math.Cos(float64(r-d)/7)
				values[i] = math.Round(80*season*(0.4*south+0.3*west+0.3*ripple)*100) / 100
			}
		}
	}

	return domain.Grid{Year: y, Longitude: lon, Latitude: lat, Days: spec.days, Values: values}
}

// writeAtomic writes g next to path and renames it into place.
func writeAtomic(path string, g domain.Grid) error {
	tmp := filepath.Join(filepath.Dir(path), ".partial-"+filepath.Base(path))
	if err := netcdf.WriteGrid(tmp, g); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
