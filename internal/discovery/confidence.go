package discovery

import (
	"regexp"
	"strings"
)

var fundingPathPattern = regexp.MustCompile(`(?i)/(scholarship|funding|bursary|studentship|fees-funding|award|grant|financial-aid|financial-support)`)

var fundingKeywordPattern = regexp.MustCompile(`(?i)\b(scholarship|funding|bursary|studentship|fellowship|grant|award|financial aid)s?\b`)

var guidePattern = regexp.MustCompile(`(?i)(how-to|guide|overview|types-of)`)

// ScoreConfidence implements the spec's per-URL confidence score: starts at
// 0, +0.5 for a funding-shaped path, +0.3 for funding keywords in the
// anchor text, +0.2 for a funding keyword in the page title, -0.4 for a
// guide/overview-shaped anchor or URL. Clamped to [0,1].
func ScoreConfidence(path, anchorText, pageTitle string) float64 {
	score := 0.0
	if fundingPathPattern.MatchString(path) {
		score += 0.5
	}
	if fundingKeywordPattern.MatchString(anchorText) {
		score += 0.3
	}
	if fundingKeywordPattern.MatchString(pageTitle) {
		score += 0.2
	}
	if guidePattern.MatchString(anchorText) || guidePattern.MatchString(path) {
		score -= 0.4
	}
	return clamp01(score)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// matchesAnyKeyword reports whether text contains any of keywords,
// case-insensitively.
func matchesAnyKeyword(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
