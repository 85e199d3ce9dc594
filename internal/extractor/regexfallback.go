package extractor

import (
	"regexp"

	"github.com/scholartriage/pipeline/internal/leadmodel"
)

var amountPattern = regexp.MustCompile(`(?i)(?:£|\$|€)\s?[\d,]+(?:\.\d+)?(?:\s?-\s?(?:£|\$|€)?\s?[\d,]+(?:\.\d+)?)?|\b[\d,]+(?:\.\d+)?\s?(?:EUR|USD|GBP)\b`)

var isoDatePattern = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
var dmyDatePattern = regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{4}\b`)
var longDatePattern = regexp.MustCompile(`(?i)\b\d{1,2}\s+(January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{4}\b`)

var tbdPattern = regexp.MustCompile(`(?i)\bTBD\b|\bto be (confirmed|announced)\b|\bcheck website\b|\bsee website\b`)
var seasonPattern = regexp.MustCompile(`(?i)\b(Spring|Summer|Autumn|Fall|Winter)\s+\d{4}\b`)

// extractRegexFallback is the last cascade step: locale-aware amount
// patterns, several deadline date formats, and TBD detection with
// contextual season extraction ("Summer 2026").
func extractRegexFallback(lead *leadmodel.Lead, html, pageURL string) {
	if leadmodel.FieldIsEmpty(lead.Amount) {
		if m := amountPattern.FindString(html); m != "" {
			fillField(lead, &lead.Amount, "amount", m, m, "", pageURL, leadmodel.MethodRegex)
		}
	}

	if leadmodel.FieldIsEmpty(lead.Deadline) {
		if m := isoDatePattern.FindString(html); m != "" {
			fillField(lead, &lead.Deadline, "deadline", m, m, "", pageURL, leadmodel.MethodRegex)
		} else if m := longDatePattern.FindString(html); m != "" {
			fillField(lead, &lead.Deadline, "deadline", m, m, "", pageURL, leadmodel.MethodRegex)
		} else if m := dmyDatePattern.FindString(html); m != "" {
			fillField(lead, &lead.Deadline, "deadline", m, m, "", pageURL, leadmodel.MethodRegex)
		} else if tbdPattern.MatchString(html) {
			label := "TBD"
			if season := seasonPattern.FindString(html); season != "" {
				label = "TBD (" + season + ")"
			}
			fillField(lead, &lead.Deadline, "deadline", label, label, "", pageURL, leadmodel.MethodRegex)
			lead.DeadlineLabel = label
			lead.DeadlineConfidence = leadmodel.DeadlineTBD
		}
	}
}
