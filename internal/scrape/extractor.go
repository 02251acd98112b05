package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// bodySelectors is the fallback chain for locating the main text of a
// detail page; the document body is the last resort.
var bodySelectors = []string{".post-body-container", "article", "#main-content", "main", "body"}

// blockSelector lists the block-level elements whose text forms the
// extracted body.
const blockSelector = "p, li, td, h1, h2, h3, h4, h5, h6"

// ExtractBody recovers the main body text of a detail page. It never
// fails: the first matching container in the fallback chain wins, and a
// page with no matching container at all yields an empty string. Callers
// treat an empty body as a recoverable failure for that single item.
func ExtractBody(doc *goquery.Document) string {
	for _, sel := range bodySelectors {
		container := doc.Find(sel).First()
		if container.Length() == 0 {
			continue
		}
		if text := blockText(container); text != "" {
			return text
		}
	}
	return ""
}

// blockText concatenates the visible text of a container, one block per
// line. Containers without block children fall back to their own
// whitespace-collapsed text.
func blockText(container *goquery.Selection) string {
	var blocks []string
	container.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		// Skip blocks that only wrap other blocks, so nested markup
		// does not duplicate text.
		if s.ChildrenFiltered(blockSelector).Length() > 0 {
			return
		}
		if t := collapseSpace(s.Text()); t != "" {
			blocks = append(blocks, t)
		}
	})
	if len(blocks) > 0 {
		return strings.Join(blocks, "\n")
	}
	return collapseSpace(container.Text())
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
