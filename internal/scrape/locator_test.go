package scrape_test

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"sarkari/ingest-service/internal/model"
	"sarkari/ingest-service/internal/scrape"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse test HTML: %v", err)
	}
	return doc
}

func TestMatchesCategory(t *testing.T) {
	cases := []struct {
		text     string
		category model.Category
		want     bool
	}{
		{"SSC CGL Result 2024", model.CategoryResult, true},
		{"SSC CGL Result 2024", model.CategoryJob, false}, // "result" is a job exclude
		{"SSC CGL Recruitment 2024 [17,727 Posts]", model.CategoryJob, true},
		{"CGL Admit Card Download", model.CategoryAdmitCard, true},
		{"CGL Admit Card Download", model.CategoryResult, false},
		{"Answer Key for CGL Tier I", model.CategoryResult, false},
		{"Contact Us", model.CategoryJob, false},
		{"Merit List Released", model.CategoryResult, true},
		{"recruitment 2024", model.CategoryJob, true}, // case-insensitive
	}
	for _, c := range cases {
		if got := scrape.MatchesCategory(c.text, c.category); got != c.want {
			t.Errorf("MatchesCategory(%q, %s) = %v, want %v", c.text, c.category, got, c.want)
		}
	}
}

func TestLocate_ClassifiesAndResolves(t *testing.T) {
	doc := mustDoc(t, `
		<html><body>
		<nav><a href="/home">Recruitment Portal Home</a></nav>
		<main>
			<a href="/notice/cgl-2024.pdf">SSC CGL Recruitment 2024</a>
			<a href="/notice/chsl-result">SSC CHSL Result 2024</a>
			<a href="https://other.gov.in/mts">MTS Vacancy Notice</a>
			<a href="#top">Back to top</a>
		</main>
		</body></html>`)

	items := scrape.Locate(doc, "https://ssc.gov.in/portal/latest-news", model.CategoryJob)
	if len(items) != 2 {
		t.Fatalf("Locate returned %d items, want 2: %+v", len(items), items)
	}
	if items[0].SourceURL != "https://ssc.gov.in/notice/cgl-2024.pdf" {
		t.Errorf("relative href not resolved: %q", items[0].SourceURL)
	}
	if items[1].SourceURL != "https://other.gov.in/mts" {
		t.Errorf("absolute href mangled: %q", items[1].SourceURL)
	}
}

// The nav link matches the job include set but sits outside the main
// content region, so it must not be emitted.
func TestLocate_ScopedToContentRegion(t *testing.T) {
	doc := mustDoc(t, `
		<html><body>
		<nav><a href="/jobs">All Recruitment Notices</a></nav>
		<main><a href="/notice/1">Constable Recruitment 2025</a></main>
		</body></html>`)

	items := scrape.Locate(doc, "https://example.gov.in/news", model.CategoryJob)
	if len(items) != 1 {
		t.Fatalf("Locate returned %d items, want 1: %+v", len(items), items)
	}
	if items[0].DisplayText != "Constable Recruitment 2025" {
		t.Errorf("unexpected item %+v", items[0])
	}
}

// A link appearing twice in the DOM must not be emitted twice.
func TestLocate_DedupesWithinPage(t *testing.T) {
	doc := mustDoc(t, `
		<html><body><main>
		<a href="/notice/1">Constable Recruitment 2025</a>
		<a href="/notice/1">Constable Recruitment 2025</a>
		<a href="/notice/1">Constable Recruitment 2025 (Revised)</a>
		</main></body></html>`)

	items := scrape.Locate(doc, "https://example.gov.in/news", model.CategoryJob)
	if len(items) != 2 {
		t.Fatalf("Locate returned %d items, want 2 (exact repeats dropped): %+v", len(items), items)
	}
}

// Zero classified links is a benign empty result, not an error.
func TestLocate_EmptyResult(t *testing.T) {
	doc := mustDoc(t, `<html><body><main><a href="/about">About Us</a></main></body></html>`)
	if items := scrape.Locate(doc, "https://example.gov.in/news", model.CategoryResult); len(items) != 0 {
		t.Fatalf("Locate returned %d items, want 0", len(items))
	}
}
