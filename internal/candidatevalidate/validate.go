package candidatevalidate

import (
	"context"
	"strings"

	"github.com/scholartriage/pipeline/internal/leadmodel"
)

// ValidateCandidate performs validate_candidate: a single GET, then a
// sequence of confidence multipliers and tags. Heavy validation (when the
// Validator was built with heavy=true) additionally applies form/
// eligibility boosts and a guide-page-pattern rejection.
func (v *Validator) ValidateCandidate(ctx context.Context, candidate leadmodel.CandidateURL) Result {
	confidence := candidate.Confidence
	tags := newCandidateTags(candidate)

	outcome := v.fetchURL(ctx, candidate.URL)

	result := Result{URL: candidate.URL, HTTPStatus: outcome.StatusCode}

	if outcome.StatusCode < 200 || outcome.StatusCode >= 300 {
		tags = appendTagOnce(tags, "invalid_status")
		confidence *= 0.5
		result.Accepted = false
		result.Confidence = confidence
		result.Tags = tags
		return result
	}

	if !htmlContentTypePattern.MatchString(outcome.ContentType()) {
		confidence *= 0.7
	}

	body := string(outcome.Body)
	if !fundingKeywordPattern.MatchString(body) {
		tags = appendTagOnce(tags, "no_funding_content")
		confidence *= 0.5
	}

	if v.heavy {
		confidence = v.applyHeavyChecks(candidate.URL, body, confidence, &tags)
	}

	result.Accepted = confidence >= 0.6
	result.Confidence = confidence
	result.Tags = tags
	return result
}

// applyHeavyChecks implements the spec's "heavy validation" step: form and
// eligibility-language boosts, and a guide-page URL pattern penalty.
func (v *Validator) applyHeavyChecks(url, body string, confidence float64, tags *[]string) float64 {
	if formTagPattern.MatchString(body) || formApplyPattern.MatchString(body) {
		confidence += 0.2
		*tags = appendTagOnce(*tags, "has_application_form")
	}
	if eligibilityPattern.MatchString(body) {
		confidence += 0.1
		*tags = appendTagOnce(*tags, "has_eligibility_language")
	}
	if guidePathPattern.MatchString(strings.ToLower(url)) {
		confidence -= 0.4
		*tags = appendTagOnce(*tags, "guide_page_pattern")
	}
	if confidence > 1 {
		confidence = 1
	}
	if confidence < 0 {
		confidence = 0
	}
	return confidence
}
