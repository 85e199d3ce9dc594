// Package jsdetect implements the JS-Detector and Browser Queue (spec
// component H): four ordered rules deciding whether a page needs headless
// rendering, an append-only deduplicated queue writer, and the merge of a
// later browser_results.jsonl record back into a Lead.
package jsdetect

import (
	"github.com/scholartriage/pipeline/internal/leadmodel"
)

// Detection is the outcome of running the four ordered rules against one
// page. Rule is empty when no rule fired.
type Detection struct {
	NeedsBrowser         bool
	Rule                 string
	Confidence           float64
	DetectedAPIEndpoints []string
}
