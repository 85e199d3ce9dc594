// Package frontier maintains BFS ordering and deduplication for the
// Discovery Engine's seeded crawl (spec discover_from_seed). It knows
// nothing about fetching, extraction, or scoring - it is a data structure
// plus an admission policy, not a pipeline executor.
package frontier

import (
	"net/url"
	"time"
)

// SourceContext records why a URL was submitted to the frontier.
type SourceContext int

const (
	SourceSeed SourceContext = iota
	SourceCrawl
)

func (s SourceContext) String() string {
	switch s {
	case SourceSeed:
		return "seed"
	case SourceCrawl:
		return "crawl"
	default:
		return "unknown"
	}
}

// DiscoveryMetadata carries the BFS depth a candidate was discovered at,
// plus an optional per-candidate crawl-delay override (e.g. a source with
// its own robots.txt Crawl-delay).
type DiscoveryMetadata struct {
	depth         int
	delayOverride *time.Duration
}

func NewDiscoveryMetadata(depth int, delayOverride *time.Duration) DiscoveryMetadata {
	return DiscoveryMetadata{depth: depth, delayOverride: delayOverride}
}

func (m DiscoveryMetadata) Depth() int {
	return m.depth
}

func (m DiscoveryMetadata) DelayOverride() *time.Duration {
	return m.delayOverride
}

// CrawlAdmissionCandidate is a URL proposed for admission into the
// frontier, before depth/page-limit/dedup policy has been applied.
type CrawlAdmissionCandidate struct {
	targetURL         url.URL
	sourceContext     SourceContext
	discoveryMetadata DiscoveryMetadata
}

func NewCrawlAdmissionCandidate(targetURL url.URL, sourceContext SourceContext, metadata DiscoveryMetadata) CrawlAdmissionCandidate {
	return CrawlAdmissionCandidate{
		targetURL:         targetURL,
		sourceContext:     sourceContext,
		discoveryMetadata: metadata,
	}
}

func (c CrawlAdmissionCandidate) TargetURL() url.URL {
	return c.targetURL
}

func (c CrawlAdmissionCandidate) SourceContext() SourceContext {
	return c.sourceContext
}

func (c CrawlAdmissionCandidate) DiscoveryMetadata() DiscoveryMetadata {
	return c.discoveryMetadata
}

// CrawlToken is an admitted, queued URL ready for dequeue by the crawl
// loop.
type CrawlToken struct {
	u     url.URL
	depth int
}

func NewCrawlToken(u url.URL, depth int) CrawlToken {
	return CrawlToken{u: u, depth: depth}
}

func (t CrawlToken) URL() url.URL {
	return t.u
}

func (t CrawlToken) Depth() int {
	return t.depth
}

// Limits bounds what the frontier will admit. Zero means unlimited.
type Limits struct {
	MaxDepth int
	MaxPages int
}
