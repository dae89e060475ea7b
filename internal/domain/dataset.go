package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// File names: datasets as published by the portal ("RF25_ind2019_rfp25.nc") and
// rendered documents ("2019.html").
var (
	datasetFileRe   = regexp.MustCompile(`^RF25_ind(\d{4})_rfp25\.nc$`)
	animationFileRe = regexp.MustCompile(`^(\d{4})\.html$`)
)

// DatasetFileName returns the deterministic file name for a year's dataset.
func DatasetFileName(y Year) string {
	return fmt.Sprintf("RF25_ind%04d_rfp25.nc", int(y))
}

// ParseDatasetFileName extracts the year from a dataset base name.
func ParseDatasetFileName(name string) (Year, bool) {
	return parseYearName(datasetFileRe, name)
}

func parseYearName(re *regexp.Regexp, name string) (Year, bool) {
	m := re.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return Year(n), true
}

// AnimationFileName returns the visualization document name for a year, e.g. "2019.html".
func AnimationFileName(y Year) string {
	return fmt.Sprintf("%04d.html", int(y))
}

// ParseAnimationFileName extracts the year from a visualization document name.
func ParseAnimationFileName(name string) (Year, bool) {
	return parseYearName(animationFileRe, name)
}

// DatasetFetched is published after a year's dataset has been written to disk.
type DatasetFetched struct {
	Year      Year      `json:"year"`
	Path      string    `json:"path"`
	Bytes     int64     `json:"bytes"`
	FetchedAt time.Time `json:"fetched_at"`
}

// NewDatasetFetched stamps a fetch notification with the package clock.
func NewDatasetFetched(y Year, path string, n int64) DatasetFetched {
	return DatasetFetched{
		Year:      y,
		Path:      path,
		Bytes:     n,
		FetchedAt: clock.Now().UTC(),
	}
}
