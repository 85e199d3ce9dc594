package jsdetect

import (
	"github.com/scholartriage/pipeline/internal/extractor"
	"github.com/scholartriage/pipeline/internal/leadmodel"
)

// MergeBrowserResult integrates a browser_results.jsonl record into lead:
// field-level merge prefers non-empty, non-placeholder browser values;
// eligibility is set-unioned; evidence is appended; the pending_browser tag
// is removed; confidence is raised to at least 0.8.
func MergeBrowserResult(lead *leadmodel.Lead, result leadmodel.BrowserResult) {
	mergeField(&lead.Name, result.Name, "name", result.URL, lead)
	mergeField(&lead.Amount, result.Amount, "amount", result.URL, lead)
	mergeField(&lead.Deadline, result.Deadline, "deadline", result.URL, lead)

	if result.Notes != "" {
		lead.Notes = result.Notes
	}

	lead.Eligibility = unionStrings(lead.Eligibility, result.Eligibility)

	lead.Tags = removeTag(lead.Tags, "pending_browser")

	if lead.Confidence < 0.8 {
		lead.Confidence = 0.8
	}

	if lead.Deadline != "" {
		extractor.UpdateStructuredDates(lead)
	}
}

// mergeField overwrites current with browserValue whenever browserValue is
// non-empty and not a "see website"/"check website" placeholder - browser
// values win over whatever extraction already produced, not just empty
// fields.
func mergeField(current *string, browserValue, attribute, url string, lead *leadmodel.Lead) {
	if leadmodel.FieldIsEmpty(browserValue) {
		return
	}
	*current = browserValue
	lead.AppendEvidence(leadmodel.ExtractionEvidence{
		Attribute: attribute,
		Snippet:   browserValue,
		URL:       url,
		Method:    leadmodel.MethodBrowser,
	})
}

func unionStrings(a, b []string) []string {
	seen := make(map[string]struct{}, len(a))
	out := make([]string, 0, len(a)+len(b))
	for _, s := range a {
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	for _, s := range b {
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}

func removeTag(tags []string, tag string) []string {
	out := tags[:0]
	for _, t := range tags {
		if t != tag {
			out = append(out, t)
		}
	}
	return out
}
