package pipeline_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"sarkari/ingest-service/internal/model"
	"sarkari/ingest-service/internal/pipeline"
)

func daysAgo(n int) time.Time {
	return time.Now().Add(-time.Duration(n) * 24 * time.Hour)
}

// A source-URL match must short-circuit before the normalized-key check.
func TestIsDuplicate_URLMatchShortCircuits(t *testing.T) {
	store := &fakeStore{recs: []storedRec{
		{category: model.CategoryJob, sourceURL: "https://x/notice/1", key: "cgl ssc", posted: time.Now()},
	}}
	filter := pipeline.NewDuplicateFilter(store, nil, 5)

	dup, err := filter.IsDuplicate(context.Background(), model.CategoryJob, "https://x/notice/1", "other key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !dup {
		t.Fatal("want duplicate on exact source URL")
	}
	if store.keyChecks != 0 {
		t.Errorf("normalized-key check ran %d time(s), want 0 after URL match", store.keyChecks)
	}
}

// The same posting mirrored at a different URL is caught by the
// normalized-key fingerprint.
func TestIsDuplicate_KeyMatchSecondStage(t *testing.T) {
	store := &fakeStore{recs: []storedRec{
		{category: model.CategoryJob, sourceURL: "https://x/notice/1", key: "cgl ssc", posted: time.Now()},
	}}
	filter := pipeline.NewDuplicateFilter(store, nil, 5)

	dup, err := filter.IsDuplicate(context.Background(), model.CategoryJob, "https://mirror/notice/1", "cgl ssc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !dup {
		t.Fatal("want duplicate on normalized key")
	}
	if store.urlChecks != 1 || store.keyChecks != 1 {
		t.Errorf("checks ran url=%d key=%d, want 1 and 1", store.urlChecks, store.keyChecks)
	}
}

// Records older than the recency window may legitimately reappear, e.g.
// a re-advertised vacancy.
func TestIsDuplicate_OutsideWindow(t *testing.T) {
	store := &fakeStore{recs: []storedRec{
		{category: model.CategoryJob, sourceURL: "https://x/notice/1", key: "cgl ssc", posted: daysAgo(10)},
	}}
	filter := pipeline.NewDuplicateFilter(store, nil, 5)

	dup, err := filter.IsDuplicate(context.Background(), model.CategoryJob, "https://x/notice/1", "cgl ssc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dup {
		t.Fatal("record outside the window must not count as duplicate")
	}
}

// Matches are scoped to the requested category.
func TestIsDuplicate_CategoryScoped(t *testing.T) {
	store := &fakeStore{recs: []storedRec{
		{category: model.CategoryResult, sourceURL: "https://x/notice/1", key: "cgl ssc", posted: time.Now()},
	}}
	filter := pipeline.NewDuplicateFilter(store, nil, 5)

	dup, err := filter.IsDuplicate(context.Background(), model.CategoryJob, "https://x/notice/1", "cgl ssc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dup {
		t.Fatal("a result record must not suppress a job item")
	}
}

// A cache hit answers without touching the store.
func TestIsDuplicate_CacheFastPath(t *testing.T) {
	store := &fakeStore{}
	cache := newFakeCache()
	if err := cache.Mark(context.Background(), model.CategoryJob, "https://x/notice/1"); err != nil {
		t.Fatal(err)
	}
	filter := pipeline.NewDuplicateFilter(store, cache, 5)

	dup, err := filter.IsDuplicate(context.Background(), model.CategoryJob, "https://x/notice/1", "cgl ssc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !dup {
		t.Fatal("want duplicate on cache hit")
	}
	if store.urlChecks != 0 || store.keyChecks != 0 {
		t.Errorf("store checks ran (url=%d key=%d), want none on cache hit", store.urlChecks, store.keyChecks)
	}
}

// A store failure surfaces to the caller rather than being swallowed as
// "not a duplicate".
func TestIsDuplicate_StoreErrorSurfaces(t *testing.T) {
	store := &fakeStore{existsErr: errors.New("connection reset")}
	filter := pipeline.NewDuplicateFilter(store, nil, 5)

	if _, err := filter.IsDuplicate(context.Background(), model.CategoryJob, "https://x/1", "k"); err == nil {
		t.Fatal("want store error surfaced")
	}
}
