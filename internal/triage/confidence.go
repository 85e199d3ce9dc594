package triage

import "github.com/scholartriage/pipeline/internal/leadmodel"

// Weighted-sum coefficients for computing a lead's confidence when none was
// already set by extraction/dispatch (spec §4.K step 1).
const (
	weightDeadlineQuality = 0.30
	weightEligibility     = 0.25
	weightTrustTier       = 0.20
	weightHTTPStatus      = 0.15
	weightAmount          = 0.10
)

// maxTrustRank is TrustS.Rank(), used to normalize tier rank into [0,1].
const maxTrustRank = 4

// ComputeConfidence implements the weighted-sum confidence formula. It does
// not mutate lead; callers decide whether the result should overwrite an
// existing value.
func ComputeConfidence(lead leadmodel.Lead) float64 {
	score := weightDeadlineQuality*deadlineQualityScore(lead) +
		weightEligibility*boolScore(len(lead.Eligibility) > 0) +
		weightTrustTier*float64(lead.TrustTier.Rank())/maxTrustRank +
		weightHTTPStatus*boolScore(lead.HTTPStatus == 200) +
		weightAmount*boolScore(!leadmodel.FieldIsEmpty(lead.Amount))

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// deadlineQualityScore grades DeadlineConfidence into [0,1]; a confirmed,
// structured deadline is worth the most, an unparseable/unknown one nothing.
func deadlineQualityScore(lead leadmodel.Lead) float64 {
	switch lead.DeadlineConfidence {
	case leadmodel.DeadlineConfirmed:
		return 1.0
	case leadmodel.DeadlineEstimated:
		return 0.6
	case leadmodel.DeadlineTBD:
		return 0.3
	default:
		return 0.0
	}
}

func boolScore(b bool) float64 {
	if b {
		return 1.0
	}
	return 0.0
}

// EnsureConfidence computes and assigns lead.Confidence when it is unset
// (zero), leaving an already-assigned confidence untouched.
func EnsureConfidence(lead *leadmodel.Lead) {
	if lead.Confidence == 0 {
		lead.Confidence = ComputeConfidence(*lead)
	}
}
