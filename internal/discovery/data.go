// Package discovery implements the Discovery Engine (spec component D):
// robots.txt/sitemap/feed breadth discovery and a seeded BFS crawl, both
// producing leadmodel.CandidateURL records with an attached confidence
// score. robots.txt is read only for its Sitemap: lines; page fetches are
// not checked against its Allow/Disallow rules.
package discovery

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/scholartriage/pipeline/internal/fetcher"
	"github.com/scholartriage/pipeline/internal/leadmodel"
	"github.com/scholartriage/pipeline/internal/robots"
	"github.com/scholartriage/pipeline/pkg/retry"
	"github.com/scholartriage/pipeline/pkg/timeutil"
)

// Limits bounds the Discovery Engine's traversal, independent of any single
// source's own max_depth.
type Limits struct {
	MaxTotalURLs   int
	MaxSitemapSize int
}

// DefaultLimits mirrors the spec's "small default" politeness posture.
func DefaultLimits() Limits {
	return Limits{MaxTotalURLs: 2000, MaxSitemapSize: 50000}
}

// Engine runs both Discovery Engine modes for a Source.
type Engine struct {
	fetch       fetcher.Fetcher
	robotsFetch *robots.RobotsFetcher
	userAgent   string
	limits      Limits
	retryParam  retry.RetryParam
}

// NewEngine builds an Engine. userAgent is presented both to robots.txt and
// to every page/sitemap fetch.
func NewEngine(fetch fetcher.Fetcher, robotsFetch *robots.RobotsFetcher, userAgent string, limits Limits) *Engine {
	return &Engine{
		fetch:       fetch,
		robotsFetch: robotsFetch,
		userAgent:   userAgent,
		limits:      limits,
		retryParam: retry.NewRetryParam(
			500*time.Millisecond,
			250*time.Millisecond,
			1,
			2,
			timeutil.NewBackoffParam(time.Second, 2, 10*time.Second),
		),
	}
}

func (e *Engine) fetchURL(ctx context.Context, url string) fetcher.FetchOutcome {
	return e.fetch.Fetch(ctx, fetcher.FetchParam{URL: url, UserAgent: e.userAgent, WantBody: true}, e.retryParam)
}

func newCandidate(url, sourceSeed, discoveredFrom string, confidence float64, reason string, source leadmodel.DiscoverySource) leadmodel.CandidateURL {
	return leadmodel.CandidateURL{
		ID:              uuid.NewString(),
		URL:             url,
		SourceSeed:      sourceSeed,
		DiscoveredFrom:  discoveredFrom,
		Confidence:      confidence,
		Reason:          reason,
		DiscoveredAt:    time.Now().UTC(),
		DiscoverySource: source,
	}
}

func dedupeByURL(candidates []leadmodel.CandidateURL, maxTotal int) []leadmodel.CandidateURL {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]leadmodel.CandidateURL, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := seen[c.URL]; ok {
			continue
		}
		seen[c.URL] = struct{}{}
		out = append(out, c)
		if maxTotal > 0 && len(out) >= maxTotal {
			break
		}
	}
	return out
}
