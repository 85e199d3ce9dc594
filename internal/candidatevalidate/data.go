// Package candidatevalidate implements the Candidate Validator (spec
// component E): heavy validation of a discovered CandidateURL via a single
// GET, deciding whether it is worth handing to Scraper Dispatch.
package candidatevalidate

import (
	"context"
	"time"

	"github.com/scholartriage/pipeline/internal/fetcher"
	"github.com/scholartriage/pipeline/internal/leadmodel"
	"github.com/scholartriage/pipeline/pkg/retry"
	"github.com/scholartriage/pipeline/pkg/timeutil"
)

// Result is the outcome of validating one candidate.
type Result struct {
	URL        string
	Accepted   bool
	Confidence float64
	Tags       []string
	HTTPStatus int
}

// Validator runs validate_candidate against discovered URLs.
type Validator struct {
	fetch      fetcher.Fetcher
	userAgent  string
	retryParam retry.RetryParam
	heavy      bool
}

// NewValidator builds a Validator. heavy enables the additional form/
// eligibility/guide-page checks described by the spec's "heavy validation"
// step.
func NewValidator(fetch fetcher.Fetcher, userAgent string, heavy bool) *Validator {
	return &Validator{
		fetch:     fetch,
		userAgent: userAgent,
		heavy:     heavy,
		retryParam: retry.NewRetryParam(
			time.Second,
			250*time.Millisecond,
			1,
			2,
			timeutil.NewBackoffParam(time.Second, 2, 10*time.Second),
		),
	}
}

func (v *Validator) fetchURL(ctx context.Context, url string) fetcher.FetchOutcome {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	return v.fetch.Fetch(ctx, fetcher.FetchParam{URL: url, UserAgent: v.userAgent, WantBody: true}, v.retryParam)
}

func newCandidateTags(candidate leadmodel.CandidateURL) []string {
	tags := make([]string, len(candidate.Tags))
	copy(tags, candidate.Tags)
	return tags
}

func appendTagOnce(tags []string, tag string) []string {
	for _, t := range tags {
		if t == tag {
			return tags
		}
	}
	return append(tags, tag)
}
