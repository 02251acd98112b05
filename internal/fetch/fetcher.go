// Package fetch retrieves listing and detail pages as parsed documents.
package fetch

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"sarkari/ingest-service/internal/model"
)

// Government portals reject default Go user agents outright.
const userAgent = "Mozilla/5.0 (X11; Linux x86_64) sarkari-ingest/1.0"

// PageFetcher fetches HTML pages with a shared HTTP client and parses
// them into goquery documents.
type PageFetcher struct {
	client *http.Client
}

// NewPageFetcher constructs a fetcher with a per-call timeout.
func NewPageFetcher(timeout time.Duration) *PageFetcher {
	return &PageFetcher{
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch retrieves pageURL and parses the response body.
// Transport failures and 5xx responses are reported as UpstreamError
// (retriable/skippable by the caller); other non-200 statuses are plain
// errors since retrying cannot fix them.
func (f *PageFetcher) Fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", pageURL, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &model.UpstreamError{Op: "fetch " + pageURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, &model.UpstreamError{
			Op:  "fetch " + pageURL,
			Err: fmt.Errorf("upstream returned %d", resp.StatusCode),
		}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", pageURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", pageURL, err)
	}

	return doc, nil
}
