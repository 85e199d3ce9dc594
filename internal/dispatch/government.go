package dispatch

import (
	"context"
	"time"

	"github.com/scholartriage/pipeline/internal/extractor"
	"github.com/scholartriage/pipeline/internal/fetcher"
	"github.com/scholartriage/pipeline/internal/leadmodel"
	"github.com/scholartriage/pipeline/pkg/retry"
	"github.com/scholartriage/pipeline/pkg/timeutil"
)

// GovernmentScraper implements the "government" strategy: government
// sources are known-canonical, so a single extraction pass is trusted at
// the top tier without the directory-BFS or index-only machinery the other
// strategies need.
type GovernmentScraper struct {
	fetch      fetcher.Fetcher
	extract    *extractor.Extractor
	userAgent  string
	retryParam retry.RetryParam
}

// NewGovernmentScraper builds a GovernmentScraper.
func NewGovernmentScraper(fetch fetcher.Fetcher, userAgent string) *GovernmentScraper {
	return &GovernmentScraper{
		fetch:     fetch,
		extract:   extractor.NewExtractor(),
		userAgent: userAgent,
		retryParam: retry.NewRetryParam(
			time.Second,
			250*time.Millisecond,
			1,
			2,
			timeutil.NewBackoffParam(time.Second, 2, 10*time.Second),
		),
	}
}

func (s *GovernmentScraper) Scrape(ctx context.Context, source leadmodel.Source) ScrapeResult {
	outcome := s.fetch.Fetch(ctx, fetcher.FetchParam{URL: source.URL, UserAgent: s.userAgent, WantBody: true}, s.retryParam)
	if outcome.Health != leadmodel.HealthOk {
		return ScrapeResult{Status: StatusError, HTTPCode: outcome.StatusCode, ErrorMessage: string(outcome.Health)}
	}

	lead := leadmodel.Lead{
		URL:           source.URL,
		Source:        source.Name,
		SourceType:    leadmodel.SourceGovernment,
		TrustTier:     leadmodel.TrustS,
		Confidence:    0.9,
		HTTPStatus:    outcome.StatusCode,
		FirstSeenAt:   time.Now().UTC(),
		LastCheckedAt: time.Now().UTC(),
	}
	s.extract.Cascade(&lead, outcome.Body, source.URL)

	return ScrapeResult{Leads: []leadmodel.Lead{lead}, Status: StatusCompleted, HTTPCode: outcome.StatusCode}
}
