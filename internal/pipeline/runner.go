package pipeline

import (
	"context"
	"log"
	"time"

	"sarkari/ingest-service/internal/model"
	"sarkari/ingest-service/internal/scrape"
)

// Options bound a run: where the listing pages live, how many items a
// category may ingest, and how long to pause between outbound bursts.
type Options struct {
	ListingURLs map[model.Category]string
	SiteRoot    string // applicationUrl fallback for job postings

	MaxItemsPerRun int
	ItemPause      time.Duration
	CategoryPause  time.Duration
}

// CategorySummary reports what one category's run did. A run that
// partially fails still reports how many items were ingested.
type CategorySummary struct {
	Category   model.Category
	Discovered int // items surviving classification
	Duplicates int // rejected by the duplicate filter
	Skipped    int // per-item failures (fetch, empty body, extraction)
	Ingested   int // records persisted
	Err        error // set only when the listing page itself failed
}

// Runner executes the ingestion pipeline. Strictly sequential: one
// category fully processed before the next, one item at a time — the
// pacing pauses are a cooperative sequencing device respecting upstream
// rate limits, not a rate limiter against concurrent callers.
type Runner struct {
	pages     PageSource
	filter    *DuplicateFilter
	extractor StructuredExtractor
	store     PostingStore
	cache     SeenCache // may be nil
	opts      Options

	// Injectable for tests.
	sleep func(ctx context.Context, d time.Duration)
	now   func() time.Time
}

// NewRunner wires the pipeline components together.
func NewRunner(pages PageSource, filter *DuplicateFilter, extractor StructuredExtractor, store PostingStore, cache SeenCache, opts Options) *Runner {
	return &Runner{
		pages:     pages,
		filter:    filter,
		extractor: extractor,
		store:     store,
		cache:     cache,
		opts:      opts,
		sleep:     sleepCtx,
		now:       time.Now,
	}
}

// RunAll processes every tracked category in order, pausing between
// them. A category whose listing page is unreachable is reported in its
// summary; the remaining categories still run.
func (r *Runner) RunAll(ctx context.Context) []CategorySummary {
	categories := model.AllCategories()
	summaries := make([]CategorySummary, 0, len(categories))

	for i, category := range categories {
		summary := r.RunCategory(ctx, category)
		summaries = append(summaries, summary)

		if summary.Err != nil {
			log.Printf("[pipeline] Category %s failed: %v", category, summary.Err)
		}
		log.Printf("[pipeline] Category %s done — discovered=%d duplicates=%d skipped=%d ingested=%d",
			category, summary.Discovered, summary.Duplicates, summary.Skipped, summary.Ingested)

		if i < len(categories)-1 {
			r.sleep(ctx, r.opts.CategoryPause)
		}
	}

	return summaries
}

// RunCategory runs the pipeline for one category: locate, filter, and
// for each accepted item fetch the detail page, extract its body,
// structure it and persist. Per-item failures are logged and skipped
// without advancing the per-run counter; only a listing-page failure
// aborts the category.
func (r *Runner) RunCategory(ctx context.Context, category model.Category) CategorySummary {
	summary := CategorySummary{Category: category}

	listingURL, ok := r.opts.ListingURLs[category]
	if !ok || listingURL == "" {
		log.Printf("[pipeline] No listing URL configured for %s — skipping category", category)
		return summary
	}

	log.Printf("[pipeline] Scanning %s for %s postings", listingURL, category)

	doc, err := r.pages.Fetch(ctx, listingURL)
	if err != nil {
		summary.Err = err
		return summary
	}

	items := scrape.Locate(doc, listingURL, category)
	summary.Discovered = len(items)
	if len(items) == 0 {
		// Benign: page structure drifts and quiet days happen.
		log.Printf("[pipeline] No %s links found on %s", category, listingURL)
		return summary
	}

	for _, item := range items {
		if summary.Ingested >= r.opts.MaxItemsPerRun {
			// Remaining items stay eligible for the next run: nothing
			// was persisted for them.
			log.Printf("[pipeline] Per-run cap %d reached for %s — %d item(s) left unprocessed",
				r.opts.MaxItemsPerRun, category, summary.Discovered-summary.Duplicates-summary.Skipped-summary.Ingested)
			break
		}

		switch r.processItem(ctx, category, item) {
		case itemIngested:
			summary.Ingested++
			if summary.Ingested < r.opts.MaxItemsPerRun {
				r.sleep(ctx, r.opts.ItemPause)
			}
		case itemDuplicate:
			summary.Duplicates++
		case itemSkipped:
			summary.Skipped++
		}
	}

	return summary
}

type itemOutcome int

const (
	itemIngested itemOutcome = iota
	itemDuplicate
	itemSkipped
)

// processItem runs one discovered item through the per-item stages.
// Every failure is contained here: logged with category, title and URL,
// then reported as a skip.
func (r *Runner) processItem(ctx context.Context, category model.Category, item model.ListingItem) itemOutcome {
	key := scrape.NormalizeTitle(item.DisplayText)
	if key == "" {
		log.Printf("[pipeline] Discarding %s item with empty normalized key: %q (%s)",
			category, item.DisplayText, item.SourceURL)
		return itemSkipped
	}

	dup, err := r.filter.IsDuplicate(ctx, category, item.SourceURL, key)
	if err != nil {
		log.Printf("[pipeline] Duplicate check failed for %s %q (%s): %v",
			category, item.DisplayText, item.SourceURL, err)
		return itemSkipped
	}
	if dup {
		return itemDuplicate
	}

	detail, err := r.pages.Fetch(ctx, item.SourceURL)
	if err != nil {
		log.Printf("[pipeline] %s for %s %q (%s): %v",
			failureKind(err), category, item.DisplayText, item.SourceURL, err)
		return itemSkipped
	}

	body := scrape.ExtractBody(detail)
	if body == "" {
		log.Printf("[pipeline] Empty body for %s %q (%s) — skipping",
			category, item.DisplayText, item.SourceURL)
		return itemSkipped
	}

	extraction, err := r.extractor.ExtractStructured(ctx, category, item.DisplayText, body)
	if err != nil {
		log.Printf("[pipeline] %s for %s %q (%s): %v",
			failureKind(err), category, item.DisplayText, item.SourceURL, err)
		return itemSkipped
	}

	rec := r.promote(category, item, key, extraction)

	inserted, err := r.store.Insert(ctx, rec)
	if err != nil {
		log.Printf("[pipeline] Persist failed for %s %q (%s): %v",
			category, item.DisplayText, item.SourceURL, err)
		return itemSkipped
	}
	if !inserted {
		// Insert guard fired: someone beat us to it between the filter
		// and the write.
		return itemDuplicate
	}

	if r.cache != nil {
		if err := r.cache.Mark(ctx, category, item.SourceURL); err != nil {
			log.Printf("[pipeline] Cache mark failed for %s: %v", item.SourceURL, err)
		}
	}

	log.Printf("[pipeline] Ingested %s %q (%s)", category, rec.Title, rec.SourceURL)
	return itemIngested
}

// promote turns an untrusted extraction into the persisted record. The
// service cannot verify canonical identifiers and may hallucinate them,
// so title, source URL, normalized key and the notice link are taken
// from the scrape, never from the service's own output.
func (r *Runner) promote(category model.Category, item model.ListingItem, key string, extraction *model.RawExtraction) *model.PostingRecord {
	rec := &model.PostingRecord{
		Category:      category,
		Title:         item.DisplayText,
		Organization:  extraction.GetOr("organization"),
		PostedDate:    r.postedDate(extraction),
		LastDate:      extraction.GetOr("lastDate"),
		SourceURL:     item.SourceURL,
		NormalizedKey: key,
		Description:   extraction.GetOr("description"),
		RawResponse:   extraction.Raw(),
	}

	if category == model.CategoryJob {
		rec.Vacancies = extraction.GetOr("vacancies")
		rec.Education = extraction.GetOr("education")
		rec.NotificationText = extraction.GetOr("notificationText")
		rec.ApplicationURL = r.opts.SiteRoot
		rec.NotificationPDFURL = item.SourceURL
	}

	return rec
}

// postedDate prefers the service's value when it is a real ISO date and
// falls back to the scrape date, so the stored column always supports
// the recency-window range query.
func (r *Runner) postedDate(extraction *model.RawExtraction) string {
	if d, ok := extraction.Get("postedDate"); ok && model.ValidISODate(d) {
		return d
	}
	return r.now().UTC().Format(model.ISODate)
}

// failureKind labels a contained per-item error for the log record.
func failureKind(err error) string {
	switch {
	case model.IsTransient(err):
		return "Transient upstream failure"
	case model.IsMalformed(err):
		return "Malformed content"
	default:
		return "Failure"
	}
}

// sleepCtx pauses for d unless the context ends first.
func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
