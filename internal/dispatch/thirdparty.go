package dispatch

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/scholartriage/pipeline/internal/extractor"
	"github.com/scholartriage/pipeline/internal/fetcher"
	"github.com/scholartriage/pipeline/internal/leadmodel"
	"github.com/scholartriage/pipeline/pkg/retry"
	"github.com/scholartriage/pipeline/pkg/timeutil"
)

var aggregatorListingSelectors = []string{
	".listing-item",
	".result-item",
	".opportunity",
	"article",
	"li.scholarship",
}

// ThirdPartyScraper implements the "third_party" strategy: aggregator
// sources, which may be index-only (listing title + official external link
// only) or extractable directly like a university/government page.
type ThirdPartyScraper struct {
	fetch      fetcher.Fetcher
	extract    *extractor.Extractor
	userAgent  string
	retryParam retry.RetryParam
}

// NewThirdPartyScraper builds a ThirdPartyScraper.
func NewThirdPartyScraper(fetch fetcher.Fetcher, userAgent string) *ThirdPartyScraper {
	return &ThirdPartyScraper{
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

func (s *ThirdPartyScraper) Scrape(ctx context.Context, source leadmodel.Source) ScrapeResult {
	outcome := s.fetch.Fetch(ctx, fetcher.FetchParam{URL: source.URL, UserAgent: s.userAgent, WantBody: true}, s.retryParam)
	if outcome.Health != leadmodel.HealthOk {
		return ScrapeResult{Status: StatusError, HTTPCode: outcome.StatusCode, ErrorMessage: string(outcome.Health)}
	}

	if !source.IndexOnly {
		lead := leadmodel.Lead{
			URL:           source.URL,
			Source:        source.Name,
			SourceType:    leadmodel.SourceThirdParty,
			TrustTier:     leadmodel.TrustB,
			Confidence:    0.6,
			HTTPStatus:    outcome.StatusCode,
			FirstSeenAt:   time.Now().UTC(),
			LastCheckedAt: time.Now().UTC(),
		}
		s.extract.Cascade(&lead, outcome.Body, source.URL)
		return ScrapeResult{Leads: []leadmodel.Lead{lead}, Status: StatusCompleted, HTTPCode: outcome.StatusCode}
	}

	seed, err := url.Parse(source.URL)
	if err != nil {
		return ScrapeResult{Status: StatusError, ErrorMessage: "unparseable source URL"}
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(outcome.Body)))
	if err != nil {
		return ScrapeResult{Status: StatusError, ErrorMessage: "unparseable listing page"}
	}

	var leads []leadmodel.Lead
	for _, selector := range aggregatorListingSelectors {
		doc.Find(selector).Each(func(_ int, item *goquery.Selection) {
			lead, ok := s.leadFromListingItem(item, seed, source)
			if !ok {
				return
			}
			s.enrichFromOfficial(ctx, &lead)
			leads = append(leads, lead)
		})
		if len(leads) > 0 {
			break
		}
	}

	return ScrapeResult{Leads: leads, Status: StatusCompleted, HTTPCode: outcome.StatusCode}
}

// leadFromListingItem extracts a title and the first *external* link from
// one aggregator listing item.
func (s *ThirdPartyScraper) leadFromListingItem(item *goquery.Selection, seed *url.URL, source leadmodel.Source) (leadmodel.Lead, bool) {
	title := strings.TrimSpace(item.Find("h1,h2,h3,h4,strong,a").First().Text())
	if title == "" {
		return leadmodel.Lead{}, false
	}

	var officialURL string
	item.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, ok := a.Attr("href")
		if !ok || href == "" {
			return true
		}
		ref, err := url.Parse(href)
		if err != nil {
			return true
		}
		resolved := seed.ResolveReference(ref)
		if resolved.Hostname() != seed.Hostname() {
			officialURL = resolved.String()
			return false
		}
		return true
	})
	if officialURL == "" {
		return leadmodel.Lead{}, false
	}

	return leadmodel.Lead{
		Name:              title,
		URL:               officialURL,
		Source:            source.Name,
		SourceType:        leadmodel.SourceThirdParty,
		TrustTier:         leadmodel.TrustB,
		Confidence:        0.5,
		IsIndexOnly:       true,
		OfficialSourceURL: officialURL,
		FirstSeenAt:       time.Now().UTC(),
		LastCheckedAt:     time.Now().UTC(),
	}, true
}

// enrichFromOfficial implements enrich_from_official: a follow-up fetch of
// the official page, run through the extraction cascade to fill
// amount/deadline (eligibility is not extracted); a failed fetch demotes
// the lead to tier C and flags it for manual verification.
func (s *ThirdPartyScraper) enrichFromOfficial(ctx context.Context, lead *leadmodel.Lead) {
	outcome := s.fetch.Fetch(ctx, fetcher.FetchParam{URL: lead.OfficialSourceURL, UserAgent: s.userAgent, WantBody: true}, s.retryParam)
	if outcome.Health != leadmodel.HealthOk {
		lead.TrustTier = leadmodel.TrustC
		lead.RiskFlags = append(lead.RiskFlags, "needs_verification")
		return
	}
	s.extract.Cascade(lead, outcome.Body, lead.OfficialSourceURL)
	lead.HTTPStatus = outcome.StatusCode
}
