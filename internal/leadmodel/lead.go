// Package leadmodel defines the shared record types that flow through every
// pipeline stage: Lead, UrlState, SourceHealth, CandidateURL, BrowserQueueEntry,
// and RuleSet. Every other internal package imports this one; it imports
// nothing internal itself.
package leadmodel

import "time"

// SourceType classifies where a Lead (or a Source) originates.
type SourceType string

const (
	SourceUniversity      SourceType = "university"
	SourceGovernment      SourceType = "government"
	SourceThirdParty      SourceType = "third_party"
	SourceFoundation      SourceType = "foundation"
	SourceBrowserExtract  SourceType = "browser_extracted"
	SourceAPIExtract      SourceType = "api_extracted"
)

// FunderType is a supplemental, non-invariant-bearing classification of who
// funds a scholarship, grounded in the Grant_finder reference repo's
// Opportunity.FunderType field.
type FunderType string

const (
	FunderGovernment FunderType = "government"
	FunderFoundation FunderType = "foundation"
	FunderCorporate  FunderType = "corporate"
	FunderUnknown    FunderType = ""
)

// DeadlineConfidence grades how much to trust a parsed deadline.
type DeadlineConfidence string

const (
	DeadlineConfirmed DeadlineConfidence = "confirmed"
	DeadlineEstimated DeadlineConfidence = "estimated"
	DeadlineTBD       DeadlineConfidence = "TBD"
	DeadlineUnknown   DeadlineConfidence = "unknown"
)

// TrustTier grades source credibility; used to tie-break dedup and adjust
// confidence. Monotone: S highest, C lowest.
type TrustTier string

const (
	TrustS TrustTier = "S"
	TrustA TrustTier = "A"
	TrustB TrustTier = "B"
	TrustC TrustTier = "C"
)

// trustRank maps a tier to a comparable rank; higher is better.
var trustRank = map[TrustTier]int{
	TrustS: 4,
	TrustA: 3,
	TrustB: 2,
	TrustC: 1,
}

// Rank returns a comparable integer for tier ordering; unknown tiers rank 0.
func (t TrustTier) Rank() int {
	return trustRank[t]
}

// Bucket is the triage action category assigned to a Lead.
type Bucket string

const (
	BucketApplyNow Bucket = "A"
	BucketPrepare  Bucket = "B"
	BucketRejected Bucket = "C"
	BucketMissed   Bucket = "X"
	BucketUnset    Bucket = "unset"
)

// TriState models a fact that may be true, false, or not yet determined.
type TriState int

const (
	TriUnknown TriState = iota
	TriTrue
	TriFalse
)

// ExtractionMethod names the cascade stage that produced a field value.
type ExtractionMethod string

const (
	MethodJSONLD      ExtractionMethod = "json_ld"
	MethodMicrodata   ExtractionMethod = "schema.org"
	MethodSelector    ExtractionMethod = "selector"
	MethodRegex       ExtractionMethod = "regex"
	MethodBrowser     ExtractionMethod = "browser"
	MethodAPIDirect   ExtractionMethod = "api_direct"
)

// ExtractionEvidence records where a field's value came from. The list is
// append-only within a run: later cascade steps never remove or overwrite
// earlier evidence, only add to it.
type ExtractionEvidence struct {
	Attribute string           `json:"attribute"`
	Snippet   string           `json:"snippet"`
	Selector  string           `json:"selector,omitempty"`
	URL       string           `json:"url"`
	Method    ExtractionMethod `json:"method"`
}

// Lead is the central entity: one record per distinct scholarship.
type Lead struct {
	// Identity
	Name         string     `json:"name"`
	URL          string     `json:"url"`
	CanonicalURL string     `json:"canonical_url"`
	SourceDomain string     `json:"source_domain"`
	Source       string     `json:"source"`
	SourceType   SourceType `json:"source_type"`

	// Content
	Amount             string             `json:"amount"`
	Deadline           string             `json:"deadline"`
	DeadlineDate       *time.Time         `json:"deadline_date,omitempty"`
	DeadlineLabel      string             `json:"deadline_label,omitempty"`
	DeadlineConfidence DeadlineConfidence `json:"deadline_confidence"`
	IntakeYear         string             `json:"intake_year,omitempty"`
	StudyStart         string             `json:"study_start,omitempty"`
	Eligibility        []string           `json:"eligibility,omitempty"`
	EligibleCountries  []string           `json:"eligible_countries,omitempty"`
	IsTaiwanEligible   TriState           `json:"is_taiwan_eligible"`
	Notes              string             `json:"notes,omitempty"`
	Tags               []string           `json:"tags,omitempty"`

	// Quality
	TrustTier  TrustTier `json:"trust_tier"`
	Confidence float64   `json:"confidence"`
	HTTPStatus int       `json:"http_status,omitempty"`

	// Classification
	Bucket          Bucket   `json:"bucket"`
	MatchScore      int      `json:"match_score"`
	EffortScore     float64  `json:"effort_score"`
	MatchReasons    []string `json:"match_reasons,omitempty"`
	HardFailReasons []string `json:"hard_fail_reasons,omitempty"`
	SoftFlags       []string `json:"soft_flags,omitempty"`
	RiskFlags       []string `json:"risk_flags,omitempty"`
	MatchedRuleIDs  []string `json:"matched_rule_ids,omitempty"`

	// Provenance
	ExtractionEvidence []ExtractionEvidence `json:"extraction_evidence,omitempty"`
	FirstSeenAt         time.Time            `json:"first_seen_at"`
	LastCheckedAt       time.Time            `json:"last_checked_at"`
	CheckCount          int                  `json:"check_count"`
	IsIndexOnly         bool                 `json:"is_index_only"`
	IsDirectoryPage     bool                 `json:"is_directory_page"`
	OfficialSourceURL   string               `json:"official_source_url,omitempty"`

	// Supplemental (new, grounded in Grant_finder reference)
	FunderType        FunderType `json:"funder_type,omitempty"`
	OpportunityNumber string     `json:"opportunity_number,omitempty"`
}

// AppendEvidence appends to the append-only evidence list.
func (l *Lead) AppendEvidence(e ExtractionEvidence) {
	l.ExtractionEvidence = append(l.ExtractionEvidence, e)
}

// FieldIsEmpty reports whether a textual field is empty or a stand-in
// placeholder like "see website" that later cascade steps should still try
// to fill.
func FieldIsEmpty(value string) bool {
	switch normalizedLower(value) {
	case "", "see website", "check website":
		return true
	default:
		return false
	}
}

func normalizedLower(s string) string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}
