package rules

import (
	"time"

	"github.com/scholartriage/pipeline/internal/leadmodel"
)

// Outcome accumulates what rule evaluation decided for one Lead: the score
// and effort adjustments, the match/hard-fail reasons, the matched rule
// IDs, a forced bucket if a hard-reject or soft-downgrade rule fired, and
// whether the lead should be flagged for the watchlist.
type Outcome struct {
	ScoreAdd        int
	EffortReduce    float64
	EffortAdd       float64
	MatchReasons    []string
	HardFailReasons []string
	MatchedRuleIDs  []string
	ForcedBucket    leadmodel.Bucket
	Watchlist       bool
	HardRejected    bool
}

// Evaluate runs a RuleSet against a Lead in strict hard-reject ->
// soft-downgrade -> positive-scoring order. A hard-reject match stops all
// further evaluation (soft-downgrade and positive-scoring stages are
// skipped entirely once a hard-reject rule fires).
func Evaluate(ruleSet leadmodel.RuleSet, lead leadmodel.Lead, today time.Time) Outcome {
	searchText := SearchText(lead)
	outcome := Outcome{ForcedBucket: leadmodel.BucketUnset}

	for _, rule := range ruleSet.HardRejectRules {
		if !rule.When.HasAnyPredicate() || !Matches(rule.When, lead, today, searchText) {
			continue
		}
		applyAction(&outcome, rule, true)
		outcome.HardRejected = true
		if outcome.ForcedBucket == leadmodel.BucketUnset {
			outcome.ForcedBucket = leadmodel.BucketRejected
		}
		return outcome
	}

	for _, rule := range ruleSet.SoftDowngradeRules {
		if !rule.When.HasAnyPredicate() || !Matches(rule.When, lead, today, searchText) {
			continue
		}
		applyAction(&outcome, rule, false)
		if outcome.ForcedBucket == leadmodel.BucketUnset {
			outcome.ForcedBucket = leadmodel.BucketPrepare
		}
	}

	for _, rule := range ruleSet.PositiveScoringRules {
		if !rule.When.HasAnyPredicate() || !Matches(rule.When, lead, today, searchText) {
			continue
		}
		applyAction(&outcome, rule, false)
	}

	return outcome
}

func applyAction(outcome *Outcome, rule leadmodel.Rule, hardReject bool) {
	outcome.ScoreAdd += rule.Action.ScoreAdd
	outcome.EffortReduce += rule.Action.EffortReduce
	outcome.EffortAdd += rule.Action.EffortAdd
	outcome.MatchedRuleIDs = append(outcome.MatchedRuleIDs, rule.ID)
	if hardReject {
		outcome.HardFailReasons = append(outcome.HardFailReasons, rule.Action.Reason)
	} else {
		outcome.MatchReasons = append(outcome.MatchReasons, rule.Action.Reason)
	}
	if rule.Action.Bucket != "" {
		outcome.ForcedBucket = rule.Action.Bucket
	}
	if rule.Action.AddToWatchlist {
		outcome.Watchlist = true
	}
}
