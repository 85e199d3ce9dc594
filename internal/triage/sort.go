package triage

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/scholartriage/pipeline/internal/leadmodel"
)

// sourceReliabilityPoints maps a Lead's SourceType to the reliability
// component of the comprehensive score. The table in spec §4.K names
// categories (ngo, enterprise, web3) this pipeline's SourceType enum does
// not carry verbatim; foundation stands in for ngo (both are
// mission-funded third-party grant bodies) and every remaining type not
// named in the spec table scores 0, same as third_party.
var sourceReliabilityPoints = map[leadmodel.SourceType]int{
	leadmodel.SourceUniversity: 50,
	leadmodel.SourceGovernment: 40,
	leadmodel.SourceFoundation: 30,
	leadmodel.SourceThirdParty: 0,
}

const amountCapDivisor = 50000.0

var amountDigitsPattern = regexp.MustCompile(`[\d,]+(?:\.\d+)?`)

// ParseAmountValue extracts the largest numeric figure present in a
// free-form amount string (e.g. "£10,000 - £20,000" -> 20000), returning ok
// false when no digits are found.
func ParseAmountValue(amount string) (float64, bool) {
	matches := amountDigitsPattern.FindAllString(amount, -1)
	if len(matches) == 0 {
		return 0, false
	}
	best := 0.0
	found := false
	for _, m := range matches {
		cleaned := strings.ReplaceAll(m, ",", "")
		value, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			continue
		}
		found = true
		if value > best {
			best = value
		}
	}
	return best, found
}

// urgencyPoints is the stepwise urgency term: 100/50/25/10/0 at
// D-30/60/90/180/else, -100 if the deadline has already passed.
func urgencyPoints(lead leadmodel.Lead, today time.Time) int {
	if lead.DeadlineDate == nil {
		return 0
	}
	daysUntil := daysBetween(today, *lead.DeadlineDate)
	switch {
	case daysUntil < 0:
		return -100
	case daysUntil <= 30:
		return 100
	case daysUntil <= 60:
		return 50
	case daysUntil <= 90:
		return 25
	case daysUntil <= 180:
		return 10
	default:
		return 0
	}
}

// ComprehensiveScore implements the within-bucket sort key: match score
// plus an amount term capped at 100, urgency points, and source reliability
// points.
func ComprehensiveScore(lead leadmodel.Lead, today time.Time) float64 {
	amountTerm := 0.0
	if value, ok := ParseAmountValue(lead.Amount); ok {
		ratio := value / amountCapDivisor
		if ratio > 1 {
			ratio = 1
		}
		amountTerm = ratio * 100
	}
	return float64(lead.MatchScore) + amountTerm + float64(urgencyPoints(lead, today)) + float64(sourceReliabilityPoints[lead.SourceType])
}

// SortBucket sorts leads (assumed to already share one bucket) by
// descending comprehensive score, breaking ties by urgency then source
// reliability, stable so equal-scoring leads keep their input order.
func SortBucket(leads []leadmodel.Lead, today time.Time) {
	sort.SliceStable(leads, func(i, j int) bool {
		si, sj := ComprehensiveScore(leads[i], today), ComprehensiveScore(leads[j], today)
		if si != sj {
			return si > sj
		}
		ui, uj := urgencyPoints(leads[i], today), urgencyPoints(leads[j], today)
		if ui != uj {
			return ui > uj
		}
		return sourceReliabilityPoints[leads[i].SourceType] > sourceReliabilityPoints[leads[j].SourceType]
	})
}
