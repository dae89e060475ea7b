// Command validate checks the integrity of a rainfall data directory and its
// rendered animations: dataset naming, dataset readability, and animation
// coverage. It exits non-zero when any phase fails.
//
// Usage:
//
//	go run ./cmd/validate -data-dir data -vis-dir vis
package main

import (
	"bytes"
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/couchcryptid/rainfall-grid-etl/internal/adapter/datadir"
	"github.com/couchcryptid/rainfall-grid-etl/internal/adapter/netcdf"
	"github.com/couchcryptid/rainfall-grid-etl/internal/domain"
)

// frameMarker appears once per encoded frame in a rendered document.
var frameMarker = []byte(`"title":"Day `)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dataDir := flag.String("data-dir", "", "directory containing RF25 NetCDF datasets")
	visDir := flag.String("vis-dir", "", "directory containing rendered animations (optional)")
	flag.Parse()

	if *dataDir == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*dataDir, *visDir); code != 0 {
		os.Exit(code)
	}
}

func run(dataDir, visDir string) int {
	datasets, err := datadir.Scan(dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: scan data dir: %v\n", err)
		return 1
	}
	if len(datasets) == 0 {
		fmt.Fprintf(os.Stderr, "FATAL: no datasets in %s\n", dataDir)
		return 1
	}

	// ── Run validation phases ──
	phases := []*phase{
		validateNaming(dataDir),
		validateReadability(datasets),
	}
	animations := 0
	if visDir != "" {
		docs, err := datadir.ScanAnimations(visDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: scan vis dir: %v\n", err)
			return 1
		}
		animations = len(docs)
		phases = append(phases, validateCoverage(datasets, docs))
	}

	// ── Report results ──
	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Files: %d datasets (%s), %d animations\n",
		len(datasets), domain.JoinYears(datadir.Years(datasets).Sorted()), animations)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 1: naming ──

// validateNaming flags NetCDF files that do not follow the dataset naming scheme and
// partial downloads left behind by an interrupted fetch.
func validateNaming(dir string) *phase {
	p := &phase{name: "Phase 1: Dataset naming"}
	entries, err := os.ReadDir(dir)
	if err != nil {
		p.errorf("read %s: %v", dir, err)
		return p
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			continue
		}
		if _, ok := domain.ParseDatasetFileName(name); ok {
			continue
		}
		switch {
		case filepath.Ext(name) == ".nc":
			p.errorf("%s: NetCDF file outside the RF25_ind<YYYY>_rfp25.nc scheme", name)
		case len(name) > 9 && name[:9] == ".partial-":
			p.errorf("%s: leftover partial download", name)
		}
	}
	return p
}

// ── Phase 2: readability ──

func validateReadability(datasets map[domain.Year]string) *phase {
	p := &phase{name: "Phase 2: Dataset readability"}
	for _, y := range datadir.Years(datasets).Sorted() {
		path := datasets[y]
		g, err := netcdf.ReadGrid(path, y)
		if err != nil {
			p.errorf("%s: %v", filepath.Base(path), err)
			continue
		}
		checkGrid(p, filepath.Base(path), g)
	}
	return p
}

func checkGrid(p *phase, name string, g domain.Grid) {
	if err := g.Validate(); err != nil {
		p.errorf("%s: %v", name, err)
		return
	}
	if g.Days < domain.FramesPerYear {
		p.errorf("%s: %d days, want at least %d", name, g.Days, domain.FramesPerYear)
	}
	if !strictlyIncreasing(g.Longitude) {
		p.errorf("%s: longitude is not strictly increasing", name)
	}
	if !strictlyIncreasing(g.Latitude) {
		p.errorf("%s: latitude is not strictly increasing", name)
	}
	if _, _, ok := domain.NaNRange(g.Values); !ok {
		p.errorf("%s: every cell is missing", name)
	}
}

func strictlyIncreasing(v []float64) bool {
	for i := 1; i < len(v); i++ {
		if !(v[i] > v[i-1]) || math.IsNaN(v[i]) {
			return false
		}
	}
	return true
}

// ── Phase 3: animation coverage ──

func validateCoverage(datasets, docs map[domain.Year]string) *phase {
	p := &phase{name: "Phase 3: Animation coverage"}

	for _, y := range datadir.Years(datasets).Sorted() {
		path, ok := docs[y]
		if !ok {
			p.errorf("%s: no animation for dataset", y)
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			p.errorf("%s: %v", filepath.Base(path), err)
			continue
		}
		if n := bytes.Count(data, frameMarker); n != domain.FramesPerYear {
			p.errorf("%s: %d frames, want %d", filepath.Base(path), n, domain.FramesPerYear)
		}
	}

	var orphans []domain.Year
	for y := range docs {
		if _, ok := datasets[y]; !ok {
			orphans = append(orphans, y)
		}
	}
	sort.Slice(orphans, func(i, j int) bool { return orphans[i] < orphans[j] })
	for _, y := range orphans {
		p.errorf("%s: animation has no matching dataset", domain.AnimationFileName(y))
	}
	return p
}
