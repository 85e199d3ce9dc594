package jsdetect

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/scholartriage/pipeline/internal/leadmodel"
)

var spaMarkerPattern = regexp.MustCompile(`__NEXT_DATA__|window\.__NUXT__|data-reactroot|app-root`)

var enableJSPhrases = []string{
	"enable javascript",
	"please enable javascript",
	"javascript is required",
	"you need to enable javascript",
}

var apiEndpointPattern = regexp.MustCompile(`(?i)/api/|/graphql|/v\d+/|fetch\(|axios\.get\(|\$\.ajax\(\{\s*url\s*:`)

// Detect runs the four ordered rules against one page's HTML, given the
// Lead that extraction produced from it. The first matching rule wins.
func Detect(html []byte, lead leadmodel.Lead) Detection {
	body := string(html)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return Detection{}
	}

	if d, ok := detectContentTooShort(doc); ok {
		return d
	}
	if d, ok := detectSPA(doc, body, lead); ok {
		return d
	}
	if d, ok := detectEnableJavaScript(doc, body); ok {
		return d
	}
	if d, ok := detectExtractionFailedWithAPI(body, lead); ok {
		return d
	}
	return Detection{}
}

func bodyText(doc *goquery.Document) string {
	return doc.Find("body").Text()
}

func nonWhitespaceLen(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}

func detectContentTooShort(doc *goquery.Document) (Detection, bool) {
	text := bodyText(doc)
	if len(text) < 5*1024 || nonWhitespaceLen(text) < 500 {
		return Detection{NeedsBrowser: true, Rule: "content_too_short", Confidence: 0.8}, true
	}
	return Detection{}, false
}

func detectSPA(doc *goquery.Document, body string, lead leadmodel.Lead) (Detection, bool) {
	hasMarker := spaMarkerPattern.MatchString(body)
	hasEmptyRoot := isEmptyElement(doc, "#root") || isEmptyElement(doc, "#app")
	if !hasMarker && !hasEmptyRoot {
		return Detection{}, false
	}

	extractionInsufficient := leadmodel.FieldIsEmpty(lead.Name) ||
		(leadmodel.FieldIsEmpty(lead.Amount) && leadmodel.FieldIsEmpty(lead.Deadline))
	if !extractionInsufficient {
		return Detection{}, false
	}

	return Detection{
		NeedsBrowser:         true,
		Rule:                 "spa_detected",
		Confidence:           0.85,
		DetectedAPIEndpoints: findAPIEndpoints(body),
	}, true
}

func isEmptyElement(doc *goquery.Document, selector string) bool {
	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return false
	}
	return strings.TrimSpace(sel.Text()) == ""
}

func detectEnableJavaScript(doc *goquery.Document, body string) (Detection, bool) {
	lower := strings.ToLower(body)
	for _, phrase := range enableJSPhrases {
		if strings.Contains(lower, phrase) {
			return Detection{NeedsBrowser: true, Rule: "enable_javascript_message", Confidence: 0.9}, true
		}
	}
	noscript := doc.Find("noscript").First()
	if noscript.Length() > 0 && len(noscript.Text()) > 200 {
		return Detection{NeedsBrowser: true, Rule: "enable_javascript_message", Confidence: 0.75}, true
	}
	return Detection{}, false
}

func detectExtractionFailedWithAPI(body string, lead leadmodel.Lead) (Detection, bool) {
	extractionEmpty := leadmodel.FieldIsEmpty(lead.Name) &&
		leadmodel.FieldIsEmpty(lead.Amount) &&
		leadmodel.FieldIsEmpty(lead.Deadline)
	if !extractionEmpty {
		return Detection{}, false
	}
	endpoints := findAPIEndpoints(body)
	if len(endpoints) == 0 {
		return Detection{}, false
	}
	return Detection{NeedsBrowser: true, Rule: "extraction_failed_with_api", Confidence: 0.7, DetectedAPIEndpoints: endpoints}, true
}

// findAPIEndpoints looks for common API call markers plus a guessed
// "/api/scholarships" stem derived from the page's own canonical/base URL.
func findAPIEndpoints(body string) []string {
	var endpoints []string
	if apiEndpointPattern.MatchString(body) {
		endpoints = append(endpoints, "detected_in_markup")
	}
	if base := canonicalOrBaseStem(body); base != "" {
		endpoints = append(endpoints, base+"/api/scholarships")
	}
	return endpoints
}

var canonicalLinkPattern = regexp.MustCompile(`(?i)<link[^>]+rel=["']canonical["'][^>]+href=["']([^"']+)["']`)
var baseTagPattern = regexp.MustCompile(`(?i)<base[^>]+href=["']([^"']+)["']`)

func canonicalOrBaseStem(body string) string {
	if m := canonicalLinkPattern.FindStringSubmatch(body); len(m) == 2 {
		return strings.TrimRight(m[1], "/")
	}
	if m := baseTagPattern.FindStringSubmatch(body); len(m) == 2 {
		return strings.TrimRight(m[1], "/")
	}
	return ""
}
