package triage

import (
	"strings"
	"time"

	"github.com/scholartriage/pipeline/internal/leadmodel"
	"github.com/scholartriage/pipeline/internal/rules"
)

const (
	daysUntilImminent = 30
	daysUntilNear      = 90
	confidenceHighGate = 0.7
	confidenceMidGate  = 0.5
)

// Run is the single public triage operation: it ensures lead.Confidence is
// set, evaluates ruleSet against the lead, folds the rule outcome's score
// and effort adjustments in, assigns the final bucket (elapsed deadline
// always wins, per spec.md §9's documented Open Question resolution), and
// sets the watchlist flag. today drives every deadline-relative decision.
func Run(lead *leadmodel.Lead, ruleSet leadmodel.RuleSet, today time.Time) Outcome {
	EnsureConfidence(lead)

	outcome := rules.Evaluate(ruleSet, *lead, today)

	lead.MatchScore += outcome.ScoreAdd
	lead.EffortScore = clamp(lead.EffortScore-outcome.EffortReduce+outcome.EffortAdd, 0, 100)
	lead.MatchReasons = append(lead.MatchReasons, outcome.MatchReasons...)
	lead.HardFailReasons = append(lead.HardFailReasons, outcome.HardFailReasons...)
	lead.MatchedRuleIDs = append(lead.MatchedRuleIDs, outcome.MatchedRuleIDs...)

	lead.Bucket = AssignBucket(*lead, outcome, today)

	watchlist := outcome.Watchlist || (isWatchlistDeadline(*lead) && !outcome.HardRejected)
	if watchlist {
		addTag(lead, "watchlist")
	}

	return Outcome{
		Bucket:          lead.Bucket,
		MatchScore:      lead.MatchScore,
		EffortScore:     lead.EffortScore,
		Confidence:      lead.Confidence,
		MatchedRuleIDs:  lead.MatchedRuleIDs,
		MatchReasons:    lead.MatchReasons,
		HardFailReasons: lead.HardFailReasons,
		Watchlist:       watchlist,
	}
}

// AssignBucket implements spec §4.K step 3's bucket table. An elapsed,
// parseable deadline always wins over everything else, including a
// hard-reject rule's own declared bucket — the documented resolution of
// spec.md §9's Open Question on X vs C precedence.
func AssignBucket(lead leadmodel.Lead, outcome rules.Outcome, today time.Time) leadmodel.Bucket {
	if lead.DeadlineDate != nil && lead.DeadlineDate.Before(today) {
		return leadmodel.BucketMissed
	}

	if outcome.HardRejected {
		if outcome.ForcedBucket != leadmodel.BucketUnset {
			return outcome.ForcedBucket
		}
		return leadmodel.BucketRejected
	}

	if lead.DeadlineDate != nil {
		daysUntil := daysBetween(today, *lead.DeadlineDate)
		switch {
		case daysUntil < 0:
			return leadmodel.BucketMissed
		case daysUntil <= daysUntilImminent && lead.Confidence >= confidenceHighGate:
			return leadmodel.BucketApplyNow
		case daysUntil <= daysUntilNear || lead.Confidence >= confidenceMidGate:
			return leadmodel.BucketPrepare
		case lead.Confidence >= confidenceHighGate:
			return leadmodel.BucketPrepare
		case lead.Confidence < confidenceMidGate:
			return leadmodel.BucketRejected
		default:
			return leadmodel.BucketPrepare
		}
	}

	// No parseable deadline: confidence >= 0.7 gives B and < 0.5 gives C;
	// in between, a bucket forced by a rule is kept, else B.
	switch {
	case lead.Confidence >= confidenceHighGate:
		return leadmodel.BucketPrepare
	case lead.Confidence < confidenceMidGate:
		return leadmodel.BucketRejected
	default:
		if outcome.ForcedBucket != leadmodel.BucketUnset {
			return outcome.ForcedBucket
		}
		return leadmodel.BucketPrepare
	}
}

// daysBetween returns the whole number of days from today to deadline,
// truncating fractional days rather than rounding, so "29.9 days away"
// still counts as within a 30-day window.
func daysBetween(today, deadline time.Time) int {
	return int(deadline.Sub(today).Hours() / 24)
}

func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// isWatchlistDeadline reports whether a lead's deadline is unknown, rolling,
// or annual - the spec's trigger for the watchlist flag independent of any
// rule's own add_to_watchlist action.
func isWatchlistDeadline(lead leadmodel.Lead) bool {
	if lead.DeadlineDate != nil {
		return false
	}
	switch lead.DeadlineConfidence {
	case leadmodel.DeadlineTBD, leadmodel.DeadlineUnknown:
		return true
	}
	text := strings.ToLower(strings.TrimSpace(lead.Deadline))
	switch text {
	case "", "rolling", "annual", "ongoing", "check website", "see website", "tbd", "unknown":
		return true
	}
	return false
}

func addTag(lead *leadmodel.Lead, tag string) {
	for _, t := range lead.Tags {
		if t == tag {
			return
		}
	}
	lead.Tags = append(lead.Tags, tag)
}
