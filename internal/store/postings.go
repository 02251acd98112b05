package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"sarkari/ingest-service/internal/model"
)

// PostingStore adapts the shared postings collection for the pipeline:
// two existence checks and an idempotent insert, scoped to a namespace.
// No update or delete path — records are immutable once written.
type PostingStore struct {
	pool      *pgxpool.Pool
	namespace string
}

// NewPostingStore constructs a PostingStore for the given namespace.
func NewPostingStore(pool *pgxpool.Pool, namespace string) *PostingStore {
	return &PostingStore{pool: pool, namespace: namespace}
}

// EnsureSchema creates the postings table and its lookup indexes if they
// do not exist yet.
func (s *PostingStore) EnsureSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS postings (
		id                   BIGSERIAL PRIMARY KEY,
		namespace            TEXT        NOT NULL,
		category             TEXT        NOT NULL,
		title                TEXT        NOT NULL,
		organization         TEXT,
		posted_date          DATE        NOT NULL,
		last_date            TEXT,
		source_url           TEXT        NOT NULL,
		normalized_key       TEXT        NOT NULL,
		vacancies            TEXT,
		education            TEXT,
		description          TEXT,
		notification_text    TEXT,
		application_url      TEXT,
		notification_pdf_url TEXT,
		raw_response         JSONB,
		created_at           TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_postings_source_url
		ON postings (namespace, category, source_url);
	CREATE INDEX IF NOT EXISTS idx_postings_normalized_key
		ON postings (namespace, category, normalized_key);
	CREATE INDEX IF NOT EXISTS idx_postings_posted_date
		ON postings (posted_date);
	`
	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("create postings table: %w", err)
	}
	return nil
}

// ExistsBySourceURL reports whether a record with this source URL was
// posted on or after since.
func (s *PostingStore) ExistsBySourceURL(ctx context.Context, category model.Category, sourceURL string, since time.Time) (bool, error) {
	return s.exists(ctx, "source_url", sourceURL, category, since)
}

// ExistsByNormalizedKey reports whether a record with this normalized
// title key was posted on or after since.
func (s *PostingStore) ExistsByNormalizedKey(ctx context.Context, category model.Category, key string, since time.Time) (bool, error) {
	return s.exists(ctx, "normalized_key", key, category, since)
}

func (s *PostingStore) exists(ctx context.Context, column, value string, category model.Category, since time.Time) (bool, error) {
	query := fmt.Sprintf(
		`SELECT EXISTS (
			SELECT 1 FROM postings
			WHERE namespace = $1 AND category = $2 AND %s = $3 AND posted_date >= $4
		)`, column)

	var found bool
	err := s.pool.QueryRow(ctx, query, s.namespace, string(category), value, since).Scan(&found)
	if err != nil {
		return false, fmt.Errorf("query postings by %s: %w", column, err)
	}
	return found, nil
}

// Insert persists a new posting record. The WHERE NOT EXISTS guard on
// (namespace, category, source_url) makes a re-run insert a no-op; the
// returned bool reports whether a row was actually written.
func (s *PostingStore) Insert(ctx context.Context, rec *model.PostingRecord) (bool, error) {
	postedDate, err := time.Parse(model.ISODate, rec.PostedDate)
	if err != nil {
		return false, fmt.Errorf("insert posting: bad postedDate %q: %w", rec.PostedDate, err)
	}

	raw := string(rec.RawResponse)
	if raw == "" {
		raw = "{}"
	}

	tag, err := s.pool.Exec(ctx,
		`INSERT INTO postings (
			namespace, category, title, organization, posted_date, last_date,
			source_url, normalized_key, vacancies, education, description,
			notification_text, application_url, notification_pdf_url, raw_response
		 )
		 SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15::jsonb
		 WHERE NOT EXISTS (
			SELECT 1 FROM postings
			WHERE namespace = $1 AND category = $2 AND source_url = $7
		 )`,
		s.namespace, string(rec.Category), rec.Title, rec.Organization,
		postedDate, rec.LastDate, rec.SourceURL, rec.NormalizedKey,
		rec.Vacancies, rec.Education, rec.Description, rec.NotificationText,
		rec.ApplicationURL, rec.NotificationPDFURL, raw,
	)
	if err != nil {
		return false, fmt.Errorf("insert posting %q: %w", rec.Title, err)
	}

	return tag.RowsAffected() > 0, nil
}
