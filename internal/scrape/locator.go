// Package scrape implements listing-page link discovery, detail-page
// body extraction and title fingerprinting.
package scrape

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"sarkari/ingest-service/internal/model"
)

// keywordRule classifies link text for one category: the text must
// contain at least one include term and none of the exclude terms,
// case-insensitive.
type keywordRule struct {
	include []string
	exclude []string
}

var categoryRules = map[model.Category]keywordRule{
	model.CategoryJob: {
		include: []string{"recruitment", "vacancy", "posts", "notification", "apply online", "bharti"},
		exclude: []string{"result", "admit card", "answer key", "syllabus"},
	},
	model.CategoryResult: {
		include: []string{"result", "merit list", "final result", "scorecard"},
		exclude: []string{"admit card", "answer key", "apply"},
	},
	model.CategoryAdmitCard: {
		include: []string{"admit card", "hall ticket", "call letter", "exam date", "status"},
		exclude: []string{"result", "answer key", "apply online"},
	},
}

// contentRegionSelectors are tried in order to find the page's main
// content region; the whole document is the fallback.
var contentRegionSelectors = []string{"main", "article", "#main-content", ".post-body-container"}

// MatchesCategory reports whether link text passes the keyword rule for
// the given category. Unknown categories match nothing.
func MatchesCategory(text string, category model.Category) bool {
	rule, ok := categoryRules[category]
	if !ok {
		return false
	}
	lower := strings.ToLower(text)
	for _, term := range rule.exclude {
		if strings.Contains(lower, term) {
			return false
		}
	}
	for _, term := range rule.include {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

// Locate collects anchors from the page's main content region, dedupes
// them by (text, href) within the page, resolves hrefs against pageURL
// and keeps only links classified into the requested category.
//
// Zero surviving items is a benign empty result: navigation and footer
// links are expected to fail classification, and upstream page structure
// changes over time.
func Locate(doc *goquery.Document, pageURL string, category model.Category) []model.ListingItem {
	base, err := url.Parse(pageURL)
	if err != nil {
		base = nil
	}

	region := doc.Selection
	for _, sel := range contentRegionSelectors {
		if s := doc.Find(sel); s.Length() > 0 {
			region = s
			break
		}
	}

	seen := make(map[[2]string]struct{})
	var items []model.ListingItem

	region.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		text := strings.TrimSpace(a.Text())
		href, _ := a.Attr("href")
		href = strings.TrimSpace(href)
		if text == "" || href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
			return
		}

		key := [2]string{text, href}
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}

		if !MatchesCategory(text, category) {
			return
		}

		items = append(items, model.ListingItem{
			DisplayText: text,
			SourceURL:   absoluteURL(base, href),
		})
	})

	return items
}

// absoluteURL resolves href against the listing page URL.
func absoluteURL(base *url.URL, href string) string {
	if base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
