// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing, the process exits.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"sarkari/ingest-service/internal/model"
)

// Config holds all runtime configuration for the ingestion service.
type Config struct {
	DatabaseURL  string
	RedisURL     string
	GeminiAPIKey string
	GeminiModel  string

	// Namespace scopes the posting catalog in the shared store.
	Namespace string

	// SiteRoot is the portal root used as the applicationUrl fallback.
	SiteRoot string

	// ListingURLs maps each category to its listing page.
	ListingURLs map[model.Category]string

	DuplicateWindowDays int           // trailing recency window for dedup
	MaxItemsPerRun      int           // persisted-item cap per category
	ItemPause           time.Duration // pause between persisted items
	CategoryPause       time.Duration // pause between categories
	HTTPTimeout         time.Duration // per outbound call
	RetryBaseDelay      time.Duration // linear backoff base for the LLM call
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}

	windowDays, err := getEnvInt("DUPLICATE_WINDOW_DAYS", 5)
	if err != nil {
		return nil, err
	}
	maxItems, err := getEnvInt("MAX_ITEMS_PER_RUN", 5)
	if err != nil {
		return nil, err
	}
	itemPause, err := getEnvInt("ITEM_PAUSE_SECONDS", 3)
	if err != nil {
		return nil, err
	}
	categoryPause, err := getEnvInt("CATEGORY_PAUSE_SECONDS", 10)
	if err != nil {
		return nil, err
	}
	httpTimeout, err := getEnvInt("HTTP_TIMEOUT_SECONDS", 45)
	if err != nil {
		return nil, err
	}

	siteRoot := getEnv("SITE_ROOT", "https://ssc.gov.in/")

	return &Config{
		DatabaseURL:  dbURL,
		RedisURL:     redisURL,
		GeminiAPIKey: apiKey,
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		Namespace:    getEnv("APP_NAMESPACE", "sarkari-job-finder"),
		SiteRoot:     siteRoot,
		ListingURLs: map[model.Category]string{
			model.CategoryJob:       getEnv("JOB_LISTING_URL", siteRoot+"portal/latest-news"),
			model.CategoryResult:    getEnv("RESULT_LISTING_URL", siteRoot+"portal/results"),
			model.CategoryAdmitCard: getEnv("ADMIT_CARD_LISTING_URL", siteRoot+"portal/admit-card"),
		},
		DuplicateWindowDays: windowDays,
		MaxItemsPerRun:      maxItems,
		ItemPause:           time.Duration(itemPause) * time.Second,
		CategoryPause:       time.Duration(categoryPause) * time.Second,
		HTTPTimeout:         time.Duration(httpTimeout) * time.Second,
		RetryBaseDelay:      5 * time.Second,
	}, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, val)
	}
	return n, nil
}
