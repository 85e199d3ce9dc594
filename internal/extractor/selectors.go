package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/scholartriage/pipeline/internal/leadmodel"
)

// scholarshipContainerSelectors names per-family CSS selectors for the
// outer container of a single scholarship listing, ordered by specificity.
var scholarshipContainerSelectors = []string{
	"article.scholarship",
	".funding-item",
	".phd-result",
	".scholarship-card",
	".award-listing",
}

var titleSelectors = []string{"h1", "h2", "h3", "h4", "strong", "a"}

// extractSelectorHeuristics pulls a title from the first matching container
// using titleSelectors in order; amount/deadline are left to the regex
// fallback step, which runs over the whole page.
func extractSelectorHeuristics(lead *leadmodel.Lead, doc *goquery.Document, pageURL string) {
	if !leadmodel.FieldIsEmpty(lead.Name) {
		return
	}
	for _, containerSelector := range scholarshipContainerSelectors {
		container := doc.Find(containerSelector).First()
		if container.Length() == 0 {
			continue
		}
		for _, titleSelector := range titleSelectors {
			titleEl := container.Find(titleSelector).First()
			title := strings.TrimSpace(titleEl.Text())
			if title == "" {
				continue
			}
			fillField(lead, &lead.Name, "name", title, title, containerSelector+" "+titleSelector, pageURL, leadmodel.MethodSelector)
			return
		}
	}
}
