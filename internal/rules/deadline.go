package rules

import (
	"strings"
	"time"

	"github.com/scholartriage/pipeline/internal/leadmodel"
)

// deadlineLayouts are tried in order; DD/MM and DD-MM variants are tried
// before their MM/DD counterpart since the spec's source data is
// predominantly non-US.
var deadlineLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
	"2 January 2006",
	"02 January 2006",
	"January 2, 2006",
	"02-01-2006",
}

const minValidYear = 2020
const maxValidYear = 2100

// ParseDeadline re-derives the deadline parsing contract: it prefers the
// already-structured DeadlineDate, else attempts each accepted layout
// against lead.Deadline, hard-validating year range; an unparseable or
// out-of-range date is reported as not-ok rather than a zero time.
func ParseDeadline(lead leadmodel.Lead) (time.Time, bool) {
	if lead.DeadlineDate != nil {
		return *lead.DeadlineDate, true
	}
	return parseDeadlineText(lead.Deadline)
}

func parseDeadlineText(text string) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}
	for _, layout := range deadlineLayouts {
		parsed, err := time.Parse(layout, text)
		if err != nil {
			continue
		}
		if parsed.Year() < minValidYear || parsed.Year() > maxValidYear {
			continue
		}
		return parsed, true
	}
	return time.Time{}, false
}

// IsDeadlineNull reports whether a lead's deadline is blank or one of the
// recognized placeholder values.
func IsDeadlineNull(lead leadmodel.Lead) bool {
	switch strings.ToLower(strings.TrimSpace(lead.Deadline)) {
	case "", "check website", "tbd", "unknown":
		return true
	default:
		return false
	}
}

// parseStudyStart parses the ISO-month study_start field ("YYYY-MM").
func parseStudyStart(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	parsed, err := time.Parse("2006-01", value)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}
