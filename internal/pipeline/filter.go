// Package pipeline drives the ingestion run: locate, filter, extract,
// structure, persist — one category at a time, one item at a time.
package pipeline

import (
	"context"
	"log"
	"time"

	"github.com/PuerkitoBio/goquery"

	"sarkari/ingest-service/internal/model"
)

// PostingStore is the slice of the document collection the pipeline
// consumes: two existence checks and an idempotent insert.
type PostingStore interface {
	ExistsBySourceURL(ctx context.Context, category model.Category, sourceURL string, since time.Time) (bool, error)
	ExistsByNormalizedKey(ctx context.Context, category model.Category, key string, since time.Time) (bool, error)
	Insert(ctx context.Context, rec *model.PostingRecord) (bool, error)
}

// SeenCache is the fast-path recent-URL cache in front of the store
// checks. A miss proves nothing; a cache failure only costs the fast
// path.
type SeenCache interface {
	Seen(ctx context.Context, category model.Category, sourceURL string) (bool, error)
	Mark(ctx context.Context, category model.Category, sourceURL string) error
}

// PageSource fetches listing and detail pages as parsed documents.
type PageSource interface {
	Fetch(ctx context.Context, pageURL string) (*goquery.Document, error)
}

// StructuredExtractor invokes the external text-understanding service.
type StructuredExtractor interface {
	ExtractStructured(ctx context.Context, category model.Category, title, body string) (*model.RawExtraction, error)
}

// DuplicateFilter decides whether a discovered item has already been
// ingested within the trailing recency window. Older records with the
// same title may legitimately reappear (a re-advertised vacancy), so
// the window bounds how far back "recent" reaches.
type DuplicateFilter struct {
	store  PostingStore
	cache  SeenCache // may be nil
	window time.Duration
	now    func() time.Time
}

// NewDuplicateFilter constructs a filter over the given window.
func NewDuplicateFilter(store PostingStore, cache SeenCache, windowDays int) *DuplicateFilter {
	return &DuplicateFilter{
		store:  store,
		cache:  cache,
		window: time.Duration(windowDays) * 24 * time.Hour,
		now:    time.Now,
	}
}

// IsDuplicate runs the staged checks: recent-URL cache, exact source
// URL match, then normalized-key match. The URL check runs first — it
// catches the common "re-ran the scraper" case without touching the
// normalization fingerprint. A store error is returned to the caller,
// which treats it as a per-item failure.
func (f *DuplicateFilter) IsDuplicate(ctx context.Context, category model.Category, sourceURL, normalizedKey string) (bool, error) {
	if f.cache != nil {
		hit, err := f.cache.Seen(ctx, category, sourceURL)
		if err != nil {
			// Fast path only; fall through to the store checks.
			log.Printf("[filter] Cache lookup failed for %s: %v", sourceURL, err)
		} else if hit {
			return true, nil
		}
	}

	since := f.now().Add(-f.window)

	dup, err := f.store.ExistsBySourceURL(ctx, category, sourceURL, since)
	if err != nil {
		return false, err
	}
	if dup {
		return true, nil
	}

	return f.store.ExistsByNormalizedKey(ctx, category, normalizedKey, since)
}
