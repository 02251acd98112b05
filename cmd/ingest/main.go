// sarkari-ingest — incremental posting ingestion pipeline.
//
// One invocation runs the full pipeline once: for each tracked category
// (job, result, admit card) it discovers links on the listing page,
// filters out recently ingested postings, extracts each new notice's
// body, structures it through Gemini and persists the result.
//
// Configuration errors (missing credentials, unreachable store) abort
// before any category starts; everything else is contained per item or
// per category and reported in the final summary.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"sarkari/ingest-service/internal/config"
	"sarkari/ingest-service/internal/fetch"
	"sarkari/ingest-service/internal/llm"
	"sarkari/ingest-service/internal/pipeline"
	"sarkari/ingest-service/internal/retry"
	"sarkari/ingest-service/internal/store"
)

func main() {
	// ── Config ──────────────────────────────────────────────────────────────
	if err := godotenv.Load(); err != nil {
		log.Println("[ingest] No .env file found — using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[ingest] Config error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── PostgreSQL ───────────────────────────────────────────────────────────
	log.Println("[ingest] Connecting to PostgreSQL…")
	pool, err := store.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[ingest] PostgreSQL: %v", err)
	}
	defer pool.Close()

	postings := store.NewPostingStore(pool, cfg.Namespace)
	if err := postings.EnsureSchema(ctx); err != nil {
		log.Fatalf("[ingest] Schema: %v", err)
	}
	log.Println("[ingest] PostgreSQL connected ✓")

	// ── Redis ────────────────────────────────────────────────────────────────
	log.Println("[ingest] Connecting to Redis…")
	rdb, err := store.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("[ingest] Redis: %v", err)
	}
	defer rdb.Close()
	log.Println("[ingest] Redis connected ✓")

	window := time.Duration(cfg.DuplicateWindowDays) * 24 * time.Hour
	cache := store.NewRecentURLCache(rdb, window)

	// ── Pipeline ─────────────────────────────────────────────────────────────
	pages := fetch.NewPageFetcher(cfg.HTTPTimeout)
	extractor := llm.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.HTTPTimeout, retry.Default(cfg.RetryBaseDelay))
	filter := pipeline.NewDuplicateFilter(postings, cache, cfg.DuplicateWindowDays)

	runner := pipeline.NewRunner(pages, filter, extractor, postings, cache, pipeline.Options{
		ListingURLs:    cfg.ListingURLs,
		SiteRoot:       cfg.SiteRoot,
		MaxItemsPerRun: cfg.MaxItemsPerRun,
		ItemPause:      cfg.ItemPause,
		CategoryPause:  cfg.CategoryPause,
	})

	start := time.Now()
	summaries := runner.RunAll(ctx)

	total := 0
	for _, s := range summaries {
		total += s.Ingested
	}
	log.Printf("[ingest] Run complete in %s — %d record(s) ingested", time.Since(start).Round(time.Second), total)
}
