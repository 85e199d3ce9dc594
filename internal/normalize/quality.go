package normalize

import "github.com/scholartriage/pipeline/internal/leadmodel"

// QualityScore implements the quality-score rubric used to pick a dedup
// winner: deadline confirmed outranks everything, then eligibility,
// Taiwan-eligibility knowledge, amount, a clean HTTP fetch, and finally
// having an official source URL on record.
func QualityScore(lead leadmodel.Lead) int {
	score := 0
	if lead.DeadlineDate != nil {
		score += 3
	}
	if len(lead.Eligibility) > 0 {
		score += 2
	}
	if lead.IsTaiwanEligible != leadmodel.TriUnknown {
		score += 2
	}
	if !leadmodel.FieldIsEmpty(lead.Amount) {
		score += 1
	}
	if lead.HTTPStatus == 200 {
		score += 2
	}
	if lead.OfficialSourceURL != "" {
		score += 1
	}
	return score
}

// betterLead reports whether candidate should replace incumbent as the
// dedup winner: higher quality score wins, ties broken by trust tier rank.
func betterLead(candidate, incumbent leadmodel.Lead) bool {
	candidateScore, incumbentScore := QualityScore(candidate), QualityScore(incumbent)
	if candidateScore != incumbentScore {
		return candidateScore > incumbentScore
	}
	return candidate.TrustTier.Rank() > incumbent.TrustTier.Rank()
}
