package triage

import (
	"testing"
	"time"

	"github.com/scholartriage/pipeline/internal/leadmodel"
	"github.com/scholartriage/pipeline/internal/rules"
	"github.com/stretchr/testify/assert"
)

func day(offset int) time.Time {
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func TestBoundaryDaysUntil30ConfidenceSevenIsApplyNow(t *testing.T) {
	deadline := day(30)
	lead := leadmodel.Lead{DeadlineDate: &deadline, Confidence: 0.7}
	bucket := AssignBucket(lead, ruleOutcomeNone(), day(0))
	assert.Equal(t, leadmodel.BucketApplyNow, bucket)
}

func TestBoundaryDaysUntil31ConfidenceSevenIsPrepare(t *testing.T) {
	deadline := day(31)
	lead := leadmodel.Lead{DeadlineDate: &deadline, Confidence: 0.7}
	bucket := AssignBucket(lead, ruleOutcomeNone(), day(0))
	assert.Equal(t, leadmodel.BucketPrepare, bucket)
}

func TestElapsedDeadlineAlwaysWinsOverHardReject(t *testing.T) {
	deadline := day(-5)
	lead := leadmodel.Lead{DeadlineDate: &deadline}
	outcome := ruleOutcomeNone()
	outcome.HardRejected = true
	outcome.ForcedBucket = leadmodel.BucketRejected
	bucket := AssignBucket(lead, outcome, day(0))
	assert.Equal(t, leadmodel.BucketMissed, bucket)
}

func TestGlasgowStyleTBDDeadlineGoodConfidenceIsPrepare(t *testing.T) {
	lead := leadmodel.Lead{
		DeadlineConfidence: leadmodel.DeadlineTBD,
		TrustTier:          leadmodel.TrustS,
		Confidence:         0.75,
	}
	bucket := AssignBucket(lead, ruleOutcomeNone(), day(0))
	assert.Equal(t, leadmodel.BucketPrepare, bucket)
	assert.True(t, isWatchlistDeadline(lead))
}

func TestFullyStructuredNearDeadlineIsApplyNowWithHighConfidence(t *testing.T) {
	deadline := day(15)
	lead := leadmodel.Lead{
		DeadlineDate:       &deadline,
		DeadlineConfidence: leadmodel.DeadlineConfirmed,
		Eligibility:        []string{"Open to all"},
		TrustTier:          leadmodel.TrustS,
		HTTPStatus:         200,
		Amount:             "£10,000",
	}
	EnsureConfidence(&lead)
	assert.GreaterOrEqual(t, lead.Confidence, 0.85)

	bucket := AssignBucket(lead, ruleOutcomeNone(), day(0))
	assert.Equal(t, leadmodel.BucketApplyNow, bucket)
	assert.Equal(t, 100, urgencyPoints(lead, day(0)))
}

func TestRunAppliesHardRejectRuleAndForcesC(t *testing.T) {
	ruleSet := leadmodel.RuleSet{
		HardRejectRules: []leadmodel.Rule{
			{ID: "E-FEE-001", Action: leadmodel.Action{Reason: "home fee status only"}, When: leadmodel.When{AnyRegex: []string{"home fee status"}}},
		},
	}
	lead := leadmodel.Lead{Name: "UK Domestic Bursary", Notes: "Requires Home fee status", Confidence: 0.8}

	outcome := Run(&lead, ruleSet, day(0))

	assert.Equal(t, leadmodel.BucketRejected, outcome.Bucket)
	assert.Contains(t, lead.HardFailReasons, "home fee status only")
	assert.Contains(t, lead.MatchedRuleIDs, "E-FEE-001")
}

func TestRunSetsWatchlistForUnknownDeadline(t *testing.T) {
	lead := leadmodel.Lead{Name: "Rolling Award", Deadline: "rolling", Confidence: 0.6}
	Run(&lead, leadmodel.RuleSet{}, day(0))
	assert.Contains(t, lead.Tags, "watchlist")
}

func TestEnsureConfidenceDoesNotOverwriteExplicitValue(t *testing.T) {
	lead := leadmodel.Lead{Confidence: 0.42}
	EnsureConfidence(&lead)
	assert.Equal(t, 0.42, lead.Confidence)
}

func TestParseAmountValuePicksLargestFigureInRange(t *testing.T) {
	value, ok := ParseAmountValue("£10,000 - £20,000")
	assert.True(t, ok)
	assert.Equal(t, 20000.0, value)
}

func TestSortBucketOrdersByComprehensiveScoreDescending(t *testing.T) {
	near := day(10)
	far := day(200)
	leads := []leadmodel.Lead{
		{Name: "Far", DeadlineDate: &far, SourceType: leadmodel.SourceThirdParty},
		{Name: "Near", DeadlineDate: &near, SourceType: leadmodel.SourceUniversity, Amount: "£50,000"},
	}
	SortBucket(leads, day(0))
	assert.Equal(t, "Near", leads[0].Name)
}

func ruleOutcomeNone() rules.Outcome {
	return rules.Outcome{ForcedBucket: leadmodel.BucketUnset}
}
