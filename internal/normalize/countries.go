package normalize

import (
	"regexp"
	"strings"

	"github.com/scholartriage/pipeline/internal/leadmodel"
)

// commonwealthCountries lists the country names/codes that recur in
// Commonwealth-scholarship eligibility text; this is the closed list
// parse_eligible_countries scans for when Taiwan is not mentioned.
var commonwealthCountries = []string{
	"united kingdom", "uk", "australia", "canada", "india", "pakistan",
	"nigeria", "kenya", "ghana", "south africa", "bangladesh", "sri lanka",
	"malaysia", "singapore", "new zealand", "jamaica", "trinidad and tobago",
	"uganda", "tanzania", "zambia", "malawi", "fiji",
}

var taiwanPattern = regexp.MustCompile(`(?i)\btaiwan(ese)?\b|\btw\b`)
var taiwanExclusionPattern = regexp.MustCompile(`(?i)\b(excluding|except|not)\b[^.]{0,40}\btaiwan`)

// ParseEligibleCountries scans eligibility text for named countries and
// determines Taiwan eligibility.
//
// Per the REDESIGN FLAGS resolution: when "Taiwan"/"Taiwanese"/"TW" is
// mentioned explicitly, that mention decides eligibility (excluded phrasing
// such as "excluding Taiwan" resolves to false, any other mention to true).
// When Taiwan is never mentioned but the text names a closed list of
// Commonwealth countries, eligibility resolves to false, not unknown — the
// list is presented as exhaustive and Taiwan's absence from it is the
// scholarship's answer. Text naming no recognized countries at all leaves
// eligibility unknown.
func ParseEligibleCountries(text string) ([]string, leadmodel.TriState) {
	lower := strings.ToLower(text)

	var countries []string
	for _, c := range commonwealthCountries {
		if strings.Contains(lower, c) {
			countries = append(countries, c)
		}
	}

	if taiwanPattern.MatchString(text) {
		if taiwanExclusionPattern.MatchString(text) {
			return countries, leadmodel.TriFalse
		}
		return countries, leadmodel.TriTrue
	}

	if len(countries) > 0 {
		return countries, leadmodel.TriFalse
	}

	return countries, leadmodel.TriUnknown
}
