// Package imd talks to the IMD Pune gridded-data portal: it discovers the years on
// offer and downloads one year's 0.25° rainfall NetCDF file at a time.
package imd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/couchcryptid/rainfall-grid-etl/internal/domain"
)

const (
	// DefaultPageURL lists the available years in a dropdown.
	DefaultPageURL = "https://www.imdpune.gov.in/cmpg/Griddata/Rainfall_25_NetCDF.html"
	// DefaultDownloadURL serves a year's dataset in response to a form POST.
	DefaultDownloadURL = "https://www.imdpune.gov.in/cmpg/Griddata/RF25.php"

	yearField = "RF25"
)

// ErrNoYearSelector is returned when the portal page has no year dropdown.
var ErrNoYearSelector = errors.New("year dropdown not found on portal page")

// StatusError reports a non-2xx response from the portal.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("imd portal %s: status %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// Client fetches from the IMD portal.
type Client struct {
	httpClient  *http.Client
	pageURL     string
	downloadURL string
	logger      *slog.Logger
}

// NewClient creates a portal client. A zero timeout leaves requests unbounded apart
// from the caller's context.
func NewClient(pageURL, downloadURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		pageURL:     pageURL,
		downloadURL: downloadURL,
		logger:      logger,
	}
}

// DiscoverYears reads the portal page and returns the years offered in its RF25
// dropdown. Options whose value is not purely decimal digits are ignored.
func (c *Client) DiscoverYears(ctx context.Context) (domain.YearSet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch portal page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: c.pageURL, StatusCode: resp.StatusCode}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse portal page: %w", err)
	}

	sel := doc.Find(fmt.Sprintf("select[name=%s]", yearField)).First()
	if sel.Length() == 0 {
		return nil, ErrNoYearSelector
	}

	years := domain.NewYearSet()
	sel.Find("option").Each(func(_ int, opt *goquery.Selection) {
		v, ok := opt.Attr("value")
		if !ok || !isDigits(v) {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return
		}
		years[domain.Year(n)] = struct{}{}
	})

	c.logger.Debug("discovered portal years", "count", len(years))
	return years, nil
}

// Download requests year's dataset and streams the response body to w unchanged.
// It returns the number of bytes copied.
func (c *Client) Download(ctx context.Context, year domain.Year, w io.Writer) (int64, error) {
	form := url.Values{yearField: {strconv.Itoa(int(year))}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.downloadURL, strings.NewReader(form.Encode()))
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("download %s: %w", year, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return 0, &StatusError{URL: c.downloadURL, StatusCode: resp.StatusCode}
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("download %s: %w", year, err)
	}
	return n, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
