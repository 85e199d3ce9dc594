package rules

import (
	"regexp"
	"time"

	"github.com/scholartriage/pipeline/internal/leadmodel"
)

const defaultSafetyMarginDays = 60

// Matches reports whether every predicate specified in w passes against
// lead, evaluated as of today. A When with no predicate specified never
// matches (HasAnyPredicate guards this at the caller).
func Matches(w leadmodel.When, lead leadmodel.Lead, today time.Time, searchText string) bool {
	if len(w.AnyRegex) > 0 && !anyRegexMatches(w.AnyRegex, searchText) {
		return false
	}
	if len(w.NotAnyRegex) > 0 && anyRegexMatches(w.NotAnyRegex, searchText) {
		return false
	}
	if w.Deadline != nil && !deadlinePredicateMatches(*w.Deadline, lead, today) {
		return false
	}
	if len(w.HTTPStatusAnyOf) > 0 && !httpStatusMatches(w.HTTPStatusAnyOf, lead.HTTPStatus) {
		return false
	}
	if w.EffortScoreGt != nil && !(lead.EffortScore > *w.EffortScoreGt) {
		return false
	}
	if w.IsTaiwanEligible != nil && !isTaiwanEligibleMatches(*w.IsTaiwanEligible, lead.IsTaiwanEligible) {
		return false
	}
	return true
}

func anyRegexMatches(patterns []string, searchText string) bool {
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			continue
		}
		if re.MatchString(searchText) {
			return true
		}
	}
	return false
}

func deadlinePredicateMatches(d leadmodel.DeadlinePredicate, lead leadmodel.Lead, today time.Time) bool {
	if d.IsNull {
		if !IsDeadlineNull(lead) {
			return false
		}
	}
	if d.LtToday {
		parsed, ok := ParseDeadline(lead)
		if !ok || !parsed.Before(today) {
			return false
		}
	}
	if d.GtStudyStart {
		deadline, ok := ParseDeadline(lead)
		if !ok {
			return false
		}
		studyStart, ok := parseStudyStart(lead.StudyStart)
		if !ok {
			return false
		}
		margin := defaultSafetyMarginDays
		if d.SafetyMarginDays != nil {
			margin = *d.SafetyMarginDays
		}
		threshold := studyStart.AddDate(0, 0, -margin)
		if !deadline.After(threshold) {
			return false
		}
	}
	return true
}

func httpStatusMatches(allowed []int, status int) bool {
	if status == 0 {
		return false
	}
	for _, a := range allowed {
		if a == status {
			return true
		}
	}
	return false
}

// isTaiwanEligibleMatches is an exact match against the lead's tri-state
// value: for TriUnknown the predicate is false whichever polarity is
// expected, so an undetermined lead satisfies neither until it is resolved.
func isTaiwanEligibleMatches(expected bool, actual leadmodel.TriState) bool {
	switch actual {
	case leadmodel.TriTrue:
		return expected
	case leadmodel.TriFalse:
		return !expected
	default:
		return false
	}
}
