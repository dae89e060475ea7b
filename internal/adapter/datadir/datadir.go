// Package datadir manages the on-disk layout of downloaded datasets and rendered
// animations.
package datadir

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/samber/lo"

	"github.com/couchcryptid/rainfall-grid-etl/internal/domain"
)

// Scan lists the yearly datasets present in dir, keyed by year. A missing directory
// yields an empty result.
func Scan(dir string) (map[domain.Year]string, error) {
	return scan(dir, domain.ParseDatasetFileName)
}

// ScanAnimations lists the rendered animation documents in dir, keyed by year.
func ScanAnimations(dir string) (map[domain.Year]string, error) {
	return scan(dir, domain.ParseAnimationFileName)
}

func scan(dir string, parse func(string) (domain.Year, bool)) (map[domain.Year]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return map[domain.Year]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}

	files := make(map[domain.Year]string)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if y, ok := parse(e.Name()); ok {
			files[y] = filepath.Join(dir, e.Name())
		}
	}
	return files, nil
}

// Years returns the set of years in a Scan result.
func Years(files map[domain.Year]string) domain.YearSet {
	return domain.NewYearSet(lo.Keys(files)...)
}

// WriteAtomic creates dir if needed and writes name through a temporary file in the
// same directory, renaming it into place once fill succeeds. An existing file is
// replaced. On failure no file named name is created or modified. It returns the
// number of bytes written.
func WriteAtomic(dir, name string, fill func(w io.Writer) error) (int64, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".partial-"+name+"-*")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	cw := &countingWriter{w: tmp}
	if err := fill(cw); err != nil {
		_ = tmp.Close()
		return cw.n, err
	}
	if err := tmp.Close(); err != nil {
		return cw.n, fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return cw.n, fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, filepath.Join(dir, name)); err != nil {
		return cw.n, fmt.Errorf("rename into place: %w", err)
	}
	committed = true
	return cw.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
