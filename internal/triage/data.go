// Package triage implements Triage (spec component K): combining the Rules
// Engine's output with deadline proximity and confidence to assign each
// Lead its final bucket, updating score/effort fields, and producing a
// within-bucket sort order for the Reporter.
package triage

import "github.com/scholartriage/pipeline/internal/leadmodel"

// Outcome summarizes what one triage pass decided for a Lead, mirroring the
// shape of rules.Outcome so callers building rules_audit.json have a single
// record per lead that already carries both the rule match detail and the
// final bucket decision.
type Outcome struct {
	Bucket          leadmodel.Bucket
	MatchScore      int
	EffortScore     float64
	Confidence      float64
	MatchedRuleIDs  []string
	MatchReasons    []string
	HardFailReasons []string
	Watchlist       bool
}
