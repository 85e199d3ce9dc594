package extractor

import (
	"time"

	"github.com/scholartriage/pipeline/internal/leadmodel"
)

// UpdateStructuredDates attempts to parse lead.Deadline into
// lead.DeadlineDate, setting deadline_confidence accordingly. An
// unparseable string (including deliberately invalid dates like
// "68-58-58") leaves DeadlineDate nil and DeadlineConfidence "unknown".
func UpdateStructuredDates(lead *leadmodel.Lead) {
	if lead.Deadline == "" {
		return
	}
	if tbdPattern.MatchString(lead.Deadline) {
		lead.DeadlineConfidence = leadmodel.DeadlineTBD
		return
	}

	if t, err := time.Parse(time.RFC3339, lead.Deadline); err == nil {
		lead.DeadlineDate = &t
		lead.DeadlineConfidence = leadmodel.DeadlineConfirmed
		return
	}
	if t, ok := parseDate(lead.Deadline, "2006-01-02"); ok {
		lead.DeadlineDate = &t
		lead.DeadlineConfidence = leadmodel.DeadlineConfirmed
		return
	}
	if t, ok := parseDate(lead.Deadline, "2 January 2006"); ok {
		lead.DeadlineDate = &t
		lead.DeadlineConfidence = leadmodel.DeadlineConfirmed
		return
	}
	// DD/MM/YYYY is tried before MM/DD/YYYY: most non-US scholarship
	// sources write day-first dates.
	if t, ok := parseDate(lead.Deadline, "02/01/2006"); ok {
		lead.DeadlineDate = &t
		lead.DeadlineConfidence = leadmodel.DeadlineEstimated
		return
	}
	if t, ok := parseDate(lead.Deadline, "01/02/2006"); ok {
		lead.DeadlineDate = &t
		lead.DeadlineConfidence = leadmodel.DeadlineEstimated
		return
	}

	lead.DeadlineConfidence = leadmodel.DeadlineUnknown
}

func parseDate(value, layout string) (time.Time, bool) {
	t, err := time.Parse(layout, value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
