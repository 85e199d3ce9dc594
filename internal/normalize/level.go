package normalize

import "strings"

// Level is the inferred study level used in entity-key computation.
type Level string

const (
	LevelPostgraduate Level = "postgraduate"
	LevelUndergraduate Level = "undergraduate"
	LevelPhD          Level = "phd"
	LevelUnknown      Level = "unknown"
)

var phdKeywords = []string{"phd", "doctoral", "doctorate", "d.phil"}
var postgradKeywords = []string{"postgraduate", "graduate", "master", "msc", "ma ", "llm", "mba"}
var undergradKeywords = []string{"undergraduate", "bachelor", "bsc", "ba "}

// InferLevel inspects name, notes, and eligibility text for study-level
// keywords, checking the most specific level first (PhD before postgraduate,
// since "graduate" substrings can otherwise shadow doctoral-only language).
func InferLevel(name, notes string, eligibility []string) Level {
	haystack := strings.ToLower(strings.Join(append([]string{name, notes}, eligibility...), " "))

	if containsAny(haystack, phdKeywords) {
		return LevelPhD
	}
	if containsAny(haystack, postgradKeywords) {
		return LevelPostgraduate
	}
	if containsAny(haystack, undergradKeywords) {
		return LevelUndergraduate
	}
	return LevelUnknown
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
