// Package extractor implements the Extraction Pipeline (spec component G):
// a four-step cascade (JSON-LD, microdata, selector heuristics, regex
// fallback) applied to a page, each step only filling fields the prior
// steps left empty or "see website"/"check website".
package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/scholartriage/pipeline/internal/leadmodel"
)

// Extractor runs the cascade against one page.
type Extractor struct{}

// NewExtractor builds an Extractor. It holds no state; every call is pure
// given the page bytes and URL.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Cascade applies all four steps in order to lead, mutating it in place,
// then calls UpdateStructuredDates.
func (e *Extractor) Cascade(lead *leadmodel.Lead, html []byte, pageURL string) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(html)))
	if err != nil {
		return
	}

	extractJSONLD(lead, doc, pageURL)
	extractMicrodata(lead, doc, pageURL)
	extractSelectorHeuristics(lead, doc, pageURL)
	extractRegexFallback(lead, string(html), pageURL)

	UpdateStructuredDates(lead)
}

// fillField sets *current to value and appends evidence, but only when
// current already holds an empty/placeholder value and value is non-empty.
// Returns whether the field was filled.
func fillField(lead *leadmodel.Lead, current *string, attribute, value, snippet, selector, url string, method leadmodel.ExtractionMethod) bool {
	if value == "" || !leadmodel.FieldIsEmpty(*current) {
		return false
	}
	*current = value
	lead.AppendEvidence(leadmodel.ExtractionEvidence{
		Attribute: attribute,
		Snippet:   snippet,
		Selector:  selector,
		URL:       url,
		Method:    method,
	})
	return true
}
