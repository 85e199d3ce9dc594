package dispatch

import (
	"context"
	"net/url"
	"regexp"
	"time"

	"github.com/scholartriage/pipeline/internal/extractor"
	"github.com/scholartriage/pipeline/internal/fetcher"
	"github.com/scholartriage/pipeline/internal/frontier"
	"github.com/scholartriage/pipeline/internal/leadmodel"
	"github.com/scholartriage/pipeline/pkg/retry"
	"github.com/scholartriage/pipeline/pkg/timeutil"
)

// UniversityScraper implements the "university" strategy: a BFS over
// whitelisted paths for a directory-mode source, or a single-page extract
// otherwise.
type UniversityScraper struct {
	fetch      fetcher.Fetcher
	extract    *extractor.Extractor
	userAgent  string
	retryParam retry.RetryParam
}

// NewUniversityScraper builds a UniversityScraper.
func NewUniversityScraper(fetch fetcher.Fetcher, userAgent string) *UniversityScraper {
	return &UniversityScraper{
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

func (s *UniversityScraper) Scrape(ctx context.Context, source leadmodel.Source) ScrapeResult {
	if source.Mode == "directory" {
		return s.scrapeDirectory(ctx, source)
	}
	return s.scrapeSinglePage(ctx, source, source.URL)
}

func (s *UniversityScraper) scrapeSinglePage(ctx context.Context, source leadmodel.Source, pageURL string) ScrapeResult {
	outcome := s.fetch.Fetch(ctx, fetcher.FetchParam{URL: pageURL, UserAgent: s.userAgent, WantBody: true}, s.retryParam)
	if outcome.Health != leadmodel.HealthOk {
		return ScrapeResult{Status: StatusError, HTTPCode: outcome.StatusCode, ErrorMessage: string(outcome.Health)}
	}

	lead := leadmodel.Lead{
		URL:          pageURL,
		Source:       source.Name,
		SourceType:   leadmodel.SourceUniversity,
		TrustTier:    leadmodel.TrustS,
		Confidence:   0.8,
		HTTPStatus:   outcome.StatusCode,
		FirstSeenAt:  time.Now().UTC(),
		LastCheckedAt: time.Now().UTC(),
	}
	s.extract.Cascade(&lead, outcome.Body, pageURL)

	return ScrapeResult{Leads: []leadmodel.Lead{lead}, Status: StatusCompleted, HTTPCode: outcome.StatusCode}
}

// scrapeDirectory BFS-crawls the source restricted to WhitelistedPaths,
// single-page-extracting every admitted page.
func (s *UniversityScraper) scrapeDirectory(ctx context.Context, source leadmodel.Source) ScrapeResult {
	seed, err := url.Parse(source.URL)
	if err != nil {
		return ScrapeResult{Status: StatusError, ErrorMessage: "unparseable source URL"}
	}
	allowed := compileWhitelistPatterns(source.WhitelistedPaths)

	f := frontier.NewCrawlFrontier()
	f.Init(frontier.Limits{MaxDepth: source.MaxDepth, MaxPages: 500})
	f.Submit(frontier.NewCrawlAdmissionCandidate(*seed, frontier.SourceSeed, frontier.NewDiscoveryMetadata(0, nil)))

	var leads []leadmodel.Lead
	for {
		token, ok := f.Dequeue()
		if !ok {
			break
		}
		pageURL := token.URL()
		if len(allowed) > 0 && !matchesAnyPattern(pageURL.Path, allowed) && pageURL.Path != seed.Path {
			continue
		}

		result := s.scrapeSinglePage(ctx, source, pageURL.String())
		leads = append(leads, result.Leads...)

		for _, child := range discoverChildLinks(ctx, s.fetch, s.userAgent, s.retryParam, pageURL) {
			if child.Hostname() != seed.Hostname() {
				continue
			}
			f.Submit(frontier.NewCrawlAdmissionCandidate(*child, frontier.SourceCrawl, frontier.NewDiscoveryMetadata(token.Depth()+1, nil)))
		}
	}

	return ScrapeResult{Leads: leads, Status: StatusCompleted}
}

func compileWhitelistPatterns(patterns []string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			continue
		}
		compiled = append(compiled, re)
	}
	return compiled
}

func matchesAnyPattern(target string, patterns []*regexp.Regexp) bool {
	for _, re := range patterns {
		if re.MatchString(target) {
			return true
		}
	}
	return false
}
