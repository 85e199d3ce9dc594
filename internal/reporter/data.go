// Package reporter implements the scoped Reporter (spec component L): it
// writes the core's own artifacts — leads.json, rules_audit.json,
// triage.csv, deadlinks.md — and nothing else. Markdown/HTML report
// formatting for human consumption is an external collaborator's job per
// spec.md's Non-goals; this package never templates HTML.
package reporter

import "github.com/scholartriage/pipeline/internal/leadmodel"

// AuditEntry is one row of rules_audit.json: the full rule-evaluation
// detail for a single Lead, keyed by URL so a reviewer can correlate a
// triage decision back to the rules that produced it.
type AuditEntry struct {
	URL             string   `json:"url"`
	Name            string   `json:"name"`
	Bucket          leadmodel.Bucket `json:"bucket"`
	MatchScore      int      `json:"match_score"`
	EffortScore     float64  `json:"effort_score"`
	Confidence      float64  `json:"confidence"`
	MatchedRuleIDs  []string `json:"matched_rule_ids,omitempty"`
	MatchReasons    []string `json:"match_reasons,omitempty"`
	HardFailReasons []string `json:"hard_fail_reasons,omitempty"`
	Watchlist       bool     `json:"watchlist"`
}

// DeadLink is one row of deadlinks.md: a URL whose most recent fetch
// resolved to a LinkHealth, separated into true-dead vs transient sections.
type DeadLink struct {
	URL    string
	Health leadmodel.LinkHealth
	Source string
}
