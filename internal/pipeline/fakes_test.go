package pipeline_test

// In-memory stand-ins for the store, cache, page source and extraction
// service, shared by the filter and runner tests.

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"sarkari/ingest-service/internal/model"
)

type storedRec struct {
	category  model.Category
	sourceURL string
	key       string
	posted    time.Time
}

type fakeStore struct {
	recs []storedRec

	urlChecks int
	keyChecks int
	existsErr error
	insertErr error
}

func (s *fakeStore) ExistsBySourceURL(_ context.Context, category model.Category, sourceURL string, since time.Time) (bool, error) {
	s.urlChecks++
	if s.existsErr != nil {
		return false, s.existsErr
	}
	for _, r := range s.recs {
		if r.category == category && r.sourceURL == sourceURL && !r.posted.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) ExistsByNormalizedKey(_ context.Context, category model.Category, key string, since time.Time) (bool, error) {
	s.keyChecks++
	if s.existsErr != nil {
		return false, s.existsErr
	}
	for _, r := range s.recs {
		if r.category == category && r.key == key && !r.posted.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) Insert(_ context.Context, rec *model.PostingRecord) (bool, error) {
	if s.insertErr != nil {
		return false, s.insertErr
	}
	for _, r := range s.recs {
		if r.category == rec.Category && r.sourceURL == rec.SourceURL {
			return false, nil // NOT EXISTS guard fired
		}
	}
	posted, err := time.Parse(model.ISODate, rec.PostedDate)
	if err != nil {
		return false, fmt.Errorf("bad postedDate %q: %w", rec.PostedDate, err)
	}
	s.recs = append(s.recs, storedRec{
		category:  rec.Category,
		sourceURL: rec.SourceURL,
		key:       rec.NormalizedKey,
		posted:    posted,
	})
	return true, nil
}

type fakeCache struct {
	seen  map[string]bool
	marks int
}

func newFakeCache() *fakeCache { return &fakeCache{seen: make(map[string]bool)} }

func (c *fakeCache) Seen(_ context.Context, category model.Category, sourceURL string) (bool, error) {
	return c.seen[string(category)+"|"+sourceURL], nil
}

func (c *fakeCache) Mark(_ context.Context, category model.Category, sourceURL string) error {
	c.seen[string(category)+"|"+sourceURL] = true
	c.marks++
	return nil
}

// fakePages serves canned HTML per URL and counts fetches.
type fakePages struct {
	pages   map[string]string
	fetches map[string]int
	failing map[string]error
}

func newFakePages() *fakePages {
	return &fakePages{
		pages:   make(map[string]string),
		fetches: make(map[string]int),
		failing: make(map[string]error),
	}
}

func (p *fakePages) Fetch(_ context.Context, pageURL string) (*goquery.Document, error) {
	p.fetches[pageURL]++
	if err, ok := p.failing[pageURL]; ok {
		return nil, err
	}
	html, ok := p.pages[pageURL]
	if !ok {
		return nil, errors.New("no such page: " + pageURL)
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

// fakeExtractor returns a fixed field set for every call.
type fakeExtractor struct {
	calls  int
	fields map[string]any
	err    error
}

func (e *fakeExtractor) ExtractStructured(_ context.Context, _ model.Category, _, _ string) (*model.RawExtraction, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	return model.NewRawExtraction(e.fields, []byte(`{}`)), nil
}

type link struct {
	href  string
	title string
}

// listingHTML builds a listing page with the given anchors, in order.
func listingHTML(links []link) string {
	var b strings.Builder
	b.WriteString("<html><body><main>")
	for _, l := range links {
		fmt.Fprintf(&b, `<a href=%q>%s</a>`, l.href, l.title)
	}
	b.WriteString("</main></body></html>")
	return b.String()
}

const detailHTML = `<html><body><article><p>Applications are invited for the advertised posts.</p></article></body></html>`
